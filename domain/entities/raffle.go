package entities

import "time"

// RaffleStatus is the lifecycle state of a raffle. A raffle transitions
// active -> ended exactly once.
type RaffleStatus string

const (
	RaffleStatusActive RaffleStatus = "active"
	RaffleStatusEnded  RaffleStatus = "ended"
)

// Raffle is a ticketed, timed prize draw posted to a channel.
type Raffle struct {
	ID         int64        `db:"id"`
	GuildID    int64        `db:"guild_id"`
	Title      string       `db:"title"`
	ChannelID  int64        `db:"channel_id"`
	MessageID  *int64       `db:"message_id"`
	TicketCost int64        `db:"ticket_cost"`
	NumWinners int          `db:"num_winners"`
	EndTime    time.Time    `db:"end_time"`
	Status     RaffleStatus `db:"status"`
	WinnerIDs  []int64      `db:"winner_ids"`
	CreatedAt  time.Time    `db:"created_at"`
}

// IsEnded reports whether the raffle already completed its draw.
func (r *Raffle) IsEnded() bool {
	return r.Status == RaffleStatusEnded
}

// CanBuyTickets reports whether tickets can still be purchased.
func (r *Raffle) CanBuyTickets(now time.Time) bool {
	return r.Status == RaffleStatusActive && now.Before(r.EndTime)
}

// IsDue reports whether the raffle is past its end time and still active,
// i.e. ready for the expiry sweep to draw it.
func (r *Raffle) IsDue(now time.Time) bool {
	return r.Status == RaffleStatusActive && !now.Before(r.EndTime)
}

// RaffleEntry is one ticket. Users may hold many entries per raffle;
// participants are deduplicated only at draw time, so extra tickets do not
// increase win odds.
type RaffleEntry struct {
	ID        int64     `db:"id"`
	RaffleID  int64     `db:"raffle_id"`
	DiscordID int64     `db:"discord_id"`
	CreatedAt time.Time `db:"created_at"`
}
