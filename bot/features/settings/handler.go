package settings

import (
	"context"
	"fmt"

	"solyx/bot/common"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

func (f *Feature) handleShow(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	guildID, _, err := common.ActorIDs(i)
	if err != nil {
		log.Errorf("Error parsing interaction IDs: %v", err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	settings, err := f.settingsService.GetOrCreateSettings(ctx, guildID)
	if err != nil {
		common.HandleError(s, i, common.WrapServiceError(err, "failed to get settings"))
		return
	}

	raffleChannel := "not set"
	if settings.HasRaffleChannel() {
		raffleChannel = fmt.Sprintf("<#%d>", *settings.RaffleChannelID)
	}
	logChannel := "not set"
	if settings.HasLogChannel() {
		logChannel = fmt.Sprintf("<#%d>", *settings.LogChannelID)
	}

	common.RespondEmbed(s, i, &discordgo.MessageEmbed{
		Title: "⚙️ Economy Settings",
		Description: fmt.Sprintf(
			"Daily reward: **%s Solyx**\nWeekly reward: **%s Solyx**\nTax floor: **%s Solyx**\nTax quota: **%s Solyx**\nRaffle channel: %s\nLog channel: %s",
			common.FormatAmount(settings.DailyReward), common.FormatAmount(settings.WeeklyReward),
			common.FormatAmount(settings.TaxMinimum), common.FormatAmount(settings.TaxQuota),
			raffleChannel, logChannel),
		Color: 0x95A5A6,
	})
}

func (f *Feature) handleRewards(s *discordgo.Session, i *discordgo.InteractionCreate, opts []*discordgo.ApplicationCommandInteractionDataOption) {
	ctx := context.Background()

	if !common.IsUserAdmin(s, i.GuildID, i.Member.User.ID) {
		common.RespondWithError(s, i, "You need administrator permissions to change settings.")
		return
	}

	guildID, _, err := common.ActorIDs(i)
	if err != nil {
		log.Errorf("Error parsing interaction IDs: %v", err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	var daily, weekly int64
	for _, opt := range opts {
		switch opt.Name {
		case "daily":
			daily = opt.IntValue()
		case "weekly":
			weekly = opt.IntValue()
		}
	}

	if err := f.settingsService.UpdateRewards(ctx, guildID, daily, weekly); err != nil {
		common.HandleError(s, i, common.WrapServiceError(err, "failed to update rewards"))
		return
	}

	common.Respond(s, i, fmt.Sprintf("Rewards updated: daily **%s Solyx**, weekly **%s Solyx**.",
		common.FormatAmount(daily), common.FormatAmount(weekly)))
}

func (f *Feature) handleTax(s *discordgo.Session, i *discordgo.InteractionCreate, opts []*discordgo.ApplicationCommandInteractionDataOption) {
	ctx := context.Background()

	if !common.IsUserAdmin(s, i.GuildID, i.Member.User.ID) {
		common.RespondWithError(s, i, "You need administrator permissions to change settings.")
		return
	}

	guildID, _, err := common.ActorIDs(i)
	if err != nil {
		log.Errorf("Error parsing interaction IDs: %v", err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	var minimum, quota int64
	for _, opt := range opts {
		switch opt.Name {
		case "minimum":
			minimum = opt.IntValue()
		case "quota":
			quota = opt.IntValue()
		}
	}

	if err := f.settingsService.UpdateTax(ctx, guildID, minimum, quota); err != nil {
		common.HandleError(s, i, common.WrapServiceError(err, "failed to update tax settings"))
		return
	}

	common.Respond(s, i, fmt.Sprintf("Tax settings updated: floor **%s Solyx**, quota **%s Solyx**.",
		common.FormatAmount(minimum), common.FormatAmount(quota)))
}

func (f *Feature) handleRaffleChannel(s *discordgo.Session, i *discordgo.InteractionCreate, opts []*discordgo.ApplicationCommandInteractionDataOption) {
	f.handleChannelUpdate(s, i, opts, "Raffle", f.settingsService.UpdateRaffleChannel)
}

func (f *Feature) handleLogChannel(s *discordgo.Session, i *discordgo.InteractionCreate, opts []*discordgo.ApplicationCommandInteractionDataOption) {
	f.handleChannelUpdate(s, i, opts, "Log", f.settingsService.UpdateLogChannel)
}

func (f *Feature) handleChannelUpdate(s *discordgo.Session, i *discordgo.InteractionCreate, opts []*discordgo.ApplicationCommandInteractionDataOption, label string, update func(context.Context, int64, *int64) error) {
	ctx := context.Background()

	if !common.IsUserAdmin(s, i.GuildID, i.Member.User.ID) {
		common.RespondWithError(s, i, "You need administrator permissions to change settings.")
		return
	}

	guildID, _, err := common.ActorIDs(i)
	if err != nil {
		log.Errorf("Error parsing interaction IDs: %v", err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	var channelID *int64
	for _, opt := range opts {
		if opt.Name == "channel" {
			channel := opt.ChannelValue(s)
			if channel == nil {
				common.RespondWithError(s, i, "Invalid channel.")
				return
			}
			id, err := common.ParseID(channel.ID)
			if err != nil {
				common.RespondWithError(s, i, "Invalid channel.")
				return
			}
			channelID = &id
		}
	}

	if err := update(ctx, guildID, channelID); err != nil {
		common.HandleError(s, i, common.WrapServiceError(err, "failed to update channel setting"))
		return
	}

	if channelID == nil {
		common.Respond(s, i, fmt.Sprintf("%s channel cleared.", label))
		return
	}
	common.Respond(s, i, fmt.Sprintf("%s channel set to <#%d>.", label, *channelID))
}
