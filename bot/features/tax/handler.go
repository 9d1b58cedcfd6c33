package tax

import (
	"context"
	"fmt"

	"solyx/bot/common"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

func (f *Feature) handlePay(s *discordgo.Session, i *discordgo.InteractionCreate, opts []*discordgo.ApplicationCommandInteractionDataOption) {
	ctx := context.Background()

	guildID, discordID, err := common.ActorIDs(i)
	if err != nil {
		log.Errorf("Error parsing interaction IDs: %v", err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	var clanRoleID, amount int64
	for _, opt := range opts {
		switch opt.Name {
		case "clan":
			role := opt.RoleValue(s, "")
			if role == nil {
				common.RespondWithError(s, i, "Invalid clan role.")
				return
			}
			clanRoleID, err = common.ParseID(role.ID)
			if err != nil {
				common.RespondWithError(s, i, "Invalid clan role.")
				return
			}
		case "amount":
			amount = opt.IntValue()
		}
	}

	if _, err := f.userService.GetOrCreateUser(ctx, guildID, discordID, i.Member.User.Username); err != nil {
		common.HandleError(s, i, common.WrapServiceError(err, "failed to provision user"))
		return
	}

	result, err := f.taxService.Contribute(ctx, guildID, clanRoleID, discordID, amount)
	if err != nil {
		common.HandleError(s, i, common.WrapServiceError(err, "failed to contribute tax"))
		return
	}

	common.Respond(s, i, fmt.Sprintf(
		"🧾 Contributed **%s Solyx** to %s. Period progress: **%s / %s Solyx**. Your balance: **%s Solyx**",
		common.FormatAmount(result.Amount), common.GetRoleMention(clanRoleID),
		common.FormatAmount(result.TotalContributed), common.FormatAmount(result.Quota),
		common.FormatAmount(result.NewWalletBalance)))
}

func (f *Feature) handleProgress(s *discordgo.Session, i *discordgo.InteractionCreate, opts []*discordgo.ApplicationCommandInteractionDataOption) {
	ctx := context.Background()

	guildID, _, err := common.ActorIDs(i)
	if err != nil {
		log.Errorf("Error parsing interaction IDs: %v", err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	var clanRoleID int64
	for _, opt := range opts {
		if opt.Name == "clan" {
			role := opt.RoleValue(s, "")
			if role == nil {
				common.RespondWithError(s, i, "Invalid clan role.")
				return
			}
			clanRoleID, err = common.ParseID(role.ID)
			if err != nil {
				common.RespondWithError(s, i, "Invalid clan role.")
				return
			}
		}
	}

	progress, err := f.taxService.GetProgress(ctx, guildID, clanRoleID)
	if err != nil {
		common.HandleError(s, i, common.WrapServiceError(err, "failed to get tax progress"))
		return
	}

	lastContributor := "nobody yet"
	if progress.LastContributorID != nil {
		lastContributor = common.GetUserMention(*progress.LastContributorID)
	}

	common.RespondEmbed(s, i, &discordgo.MessageEmbed{
		Title: "🧾 Tax Progress",
		Description: fmt.Sprintf("%s\n**%s / %s Solyx** this period\nLast contributor: %s\nPeriod started: %s",
			common.GetRoleMention(clanRoleID),
			common.FormatAmount(progress.Contributed), common.FormatAmount(progress.Quota),
			lastContributor,
			common.FormatDiscordTimestamp(progress.LastResetAt, "f")),
		Color: 0xE67E22,
	})
}
