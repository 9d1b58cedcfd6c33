package raffle

import (
	"context"
	"fmt"
	"time"

	"solyx/bot/common"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

func (f *Feature) handleCreate(s *discordgo.Session, i *discordgo.InteractionCreate, opts []*discordgo.ApplicationCommandInteractionDataOption) {
	ctx := context.Background()

	if !common.IsUserAdmin(s, i.GuildID, i.Member.User.ID) {
		common.RespondWithError(s, i, "You need administrator permissions to create a raffle.")
		return
	}

	guildID, _, err := common.ActorIDs(i)
	if err != nil {
		log.Errorf("Error parsing interaction IDs: %v", err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	var title string
	var ticketCost int64
	numWinners := 1
	var durationMinutes int64
	for _, opt := range opts {
		switch opt.Name {
		case "title":
			title = opt.StringValue()
		case "cost":
			ticketCost = opt.IntValue()
		case "winners":
			numWinners = int(opt.IntValue())
		case "duration":
			durationMinutes = opt.IntValue()
		}
	}
	if durationMinutes <= 0 {
		common.RespondWithError(s, i, "Duration must be positive.")
		return
	}

	// Raffles post to the configured raffle channel, falling back to the
	// channel the command was issued in.
	channelID, err := common.ParseID(i.ChannelID)
	if err != nil {
		log.Errorf("Error parsing channel ID %s: %v", i.ChannelID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}
	settings, err := f.settingsService.GetOrCreateSettings(ctx, guildID)
	if err == nil && settings.HasRaffleChannel() {
		channelID = *settings.RaffleChannelID
	}

	endTime := time.Now().UTC().Add(time.Duration(durationMinutes) * time.Minute)
	raffle, err := f.raffleService.CreateRaffle(ctx, guildID, title, channelID, ticketCost, numWinners, endTime)
	if err != nil {
		common.HandleError(s, i, common.WrapServiceError(err, "failed to create raffle"))
		return
	}

	common.Respond(s, i, fmt.Sprintf(
		"🎟️ Raffle **%s** (#%d) is open! Tickets cost **%s Solyx**, %d winner(s), draws %s.",
		raffle.Title, raffle.ID, common.FormatAmount(raffle.TicketCost), raffle.NumWinners,
		common.FormatDiscordTimestamp(raffle.EndTime, "R")))
}

func (f *Feature) handleTicket(s *discordgo.Session, i *discordgo.InteractionCreate, opts []*discordgo.ApplicationCommandInteractionDataOption) {
	ctx := context.Background()

	guildID, discordID, err := common.ActorIDs(i)
	if err != nil {
		log.Errorf("Error parsing interaction IDs: %v", err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	raffleID := idOption(opts)
	if raffleID == 0 {
		common.RespondWithError(s, i, "Invalid raffle ID.")
		return
	}

	if _, err := f.userService.GetOrCreateUser(ctx, guildID, discordID, i.Member.User.Username); err != nil {
		common.HandleError(s, i, common.WrapServiceError(err, "failed to provision user"))
		return
	}

	result, err := f.raffleService.BuyTicket(ctx, guildID, raffleID, discordID)
	if err != nil {
		common.HandleError(s, i, common.WrapServiceError(err, "failed to buy raffle ticket"))
		return
	}

	common.RespondEphemeral(s, i, fmt.Sprintf("🎟️ Ticket bought for raffle #%d. Balance: **%s Solyx**",
		raffleID, common.FormatAmount(result.NewBalance)))
}

func (f *Feature) handleDraw(s *discordgo.Session, i *discordgo.InteractionCreate, opts []*discordgo.ApplicationCommandInteractionDataOption) {
	ctx := context.Background()

	if !common.IsUserAdmin(s, i.GuildID, i.Member.User.ID) {
		common.RespondWithError(s, i, "You need administrator permissions to draw a raffle.")
		return
	}

	guildID, _, err := common.ActorIDs(i)
	if err != nil {
		log.Errorf("Error parsing interaction IDs: %v", err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	raffleID := idOption(opts)
	if raffleID == 0 {
		common.RespondWithError(s, i, "Invalid raffle ID.")
		return
	}

	result, err := f.raffleService.DrawWinners(ctx, guildID, raffleID)
	if err != nil {
		common.HandleError(s, i, common.WrapServiceError(err, "failed to draw raffle"))
		return
	}

	common.Respond(s, i, formatWinners(result.Raffle.Title, result.WinnerIDs))
}

func (f *Feature) handleInfo(s *discordgo.Session, i *discordgo.InteractionCreate, opts []*discordgo.ApplicationCommandInteractionDataOption) {
	ctx := context.Background()

	guildID, _, err := common.ActorIDs(i)
	if err != nil {
		log.Errorf("Error parsing interaction IDs: %v", err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	raffleID := idOption(opts)
	if raffleID == 0 {
		common.RespondWithError(s, i, "Invalid raffle ID.")
		return
	}

	raffle, err := f.raffleService.GetRaffle(ctx, guildID, raffleID)
	if err != nil {
		common.HandleError(s, i, common.WrapServiceError(err, "failed to get raffle"))
		return
	}

	description := fmt.Sprintf("Ticket cost: **%s Solyx**\nWinners drawn: %d\nEnds: %s\nStatus: %s",
		common.FormatAmount(raffle.TicketCost), raffle.NumWinners,
		common.FormatDiscordTimestamp(raffle.EndTime, "f"), raffle.Status)
	if raffle.IsEnded() && len(raffle.WinnerIDs) > 0 {
		description += "\n\n" + formatWinners(raffle.Title, raffle.WinnerIDs)
	}

	common.RespondEmbed(s, i, &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("🎟️ %s (#%d)", raffle.Title, raffle.ID),
		Description: description,
		Color:       0x9B59B6,
	})
}

func formatWinners(title string, winnerIDs []int64) string {
	if len(winnerIDs) == 0 {
		return fmt.Sprintf("🎟️ Raffle **%s** ended with no participants.", title)
	}
	mentions := ""
	for idx, id := range winnerIDs {
		if idx > 0 {
			mentions += ", "
		}
		mentions += common.GetUserMention(id)
	}
	return fmt.Sprintf("🎉 Raffle **%s** winners: %s", title, mentions)
}

func idOption(opts []*discordgo.ApplicationCommandInteractionDataOption) int64 {
	for _, opt := range opts {
		if opt.Name == "id" {
			return opt.IntValue()
		}
	}
	return 0
}
