package bot

import (
	"context"

	"solyx/bot/common"
	"solyx/domain/events"

	log "github.com/sirupsen/logrus"
)

// RegisterBotSubscriptions wires bot-side handlers for domain events. Events
// fire after a successful commit, so a posted announcement always reflects
// persisted state.
func RegisterBotSubscriptions(bus *events.Bus, bot *Bot) {
	bus.Subscribe(events.EventTypeRaffleEnded, func(ctx context.Context, event events.Event) {
		ended, ok := event.(events.RaffleEndedEvent)
		if !ok {
			log.Error("Received non-RaffleEndedEvent in raffle ended handler")
			return
		}
		if err := bot.RaffleAnnouncer().AnnounceWinners(ctx, ended.ChannelID, ended.Title, ended.WinnerIDs); err != nil {
			log.WithError(err).WithFields(log.Fields{
				"raffleID": ended.RaffleID,
				"guildID":  ended.GuildID,
			}).Error("Failed to announce raffle winners")
		}
	})

	bus.Subscribe(events.EventTypeBalanceChange, func(ctx context.Context, event events.Event) {
		change, ok := event.(events.BalanceChangeEvent)
		if !ok {
			log.Error("Received non-BalanceChangeEvent in balance change handler")
			return
		}
		logBalanceChange(ctx, bot, change)
	})

	log.Info("Bot event subscriptions registered")
}

// logBalanceChange mirrors ledger activity into the guild's configured log
// channel, if any.
func logBalanceChange(ctx context.Context, bot *Bot, change events.BalanceChangeEvent) {
	settings, err := bot.services.Settings.GetOrCreateSettings(ctx, change.GuildID)
	if err != nil {
		log.WithError(err).WithField("guildID", change.GuildID).Error("Failed to load settings for balance log")
		return
	}
	if !settings.HasLogChannel() {
		return
	}

	sign := "+"
	if change.Amount < 0 {
		sign = "-"
	}
	message := common.GetUserMention(change.DiscordID) + ": " + sign +
		common.FormatAmount(absAmount(change.Amount)) + " Solyx (" + change.Reason + "), balance " +
		common.FormatAmount(change.NewBalance)

	if _, err := bot.session.ChannelMessageSend(common.FormatID(*settings.LogChannelID), message); err != nil {
		log.WithError(err).WithField("guildID", change.GuildID).Error("Failed to post balance log")
	}
}

func absAmount(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
