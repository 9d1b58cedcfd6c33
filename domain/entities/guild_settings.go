package entities

// Defaults applied when a guild's settings row is created lazily.
const (
	DefaultDailyReward  int64 = 500
	DefaultWeeklyReward int64 = 2500
	DefaultTaxMinimum   int64 = 100
	DefaultTaxQuota     int64 = 50000
)

// GuildSettings is per-guild configuration read by the engines at call
// time. Reward amounts and tax parameters are injected configuration, not
// hard-coded constants.
type GuildSettings struct {
	GuildID         int64  `db:"guild_id"`
	DailyReward     int64  `db:"daily_reward"`
	WeeklyReward    int64  `db:"weekly_reward"`
	TaxMinimum      int64  `db:"tax_minimum"`
	TaxQuota        int64  `db:"tax_quota"`
	RaffleChannelID *int64 `db:"raffle_channel_id"`
	LogChannelID    *int64 `db:"log_channel_id"`
}

// HasRaffleChannel checks if a raffle channel is configured.
func (gs *GuildSettings) HasRaffleChannel() bool {
	return gs.RaffleChannelID != nil && *gs.RaffleChannelID > 0
}

// HasLogChannel checks if a log channel is configured.
func (gs *GuildSettings) HasLogChannel() bool {
	return gs.LogChannelID != nil && *gs.LogChannelID > 0
}
