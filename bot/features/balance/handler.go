package balance

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"solyx/bot/common"
	"solyx/domain"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

func (f *Feature) handleBalance(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	guildID, discordID, err := common.ActorIDs(i)
	if err != nil {
		log.Errorf("Error parsing interaction IDs: %v", err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	if _, err := f.userService.GetOrCreateUser(ctx, guildID, discordID, i.Member.User.Username); err != nil {
		common.HandleError(s, i, common.WrapServiceError(err, "failed to provision user"))
		return
	}

	balance, err := f.ledgerService.GetBalance(ctx, guildID, discordID)
	if err != nil {
		common.HandleError(s, i, common.WrapServiceError(err, "failed to get balance"))
		return
	}

	rank, err := f.ledgerService.GetUserRank(ctx, guildID, discordID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		log.Errorf("Error getting rank for %d: %v", discordID, err)
	}

	displayName := common.GetDisplayName(s, i.GuildID, i.Member.User.ID)
	message := fmt.Sprintf("%s, your current balance: **%s Solyx**", displayName, common.FormatAmount(balance))
	if rank != nil {
		message += fmt.Sprintf(" (rank #%d)", rank.Rank)
	}
	common.RespondEphemeral(s, i, message)
}

func (f *Feature) handleLeaderboard(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	guildID, _, err := common.ActorIDs(i)
	if err != nil {
		log.Errorf("Error parsing interaction IDs: %v", err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	limit := 10
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "count" {
			limit = int(opt.IntValue())
		}
	}
	if limit < 1 || limit > 25 {
		limit = 10
	}

	wallets, err := f.ledgerService.GetTopUsers(ctx, guildID, limit)
	if err != nil {
		common.HandleError(s, i, common.WrapServiceError(err, "failed to get leaderboard"))
		return
	}

	if len(wallets) == 0 {
		common.RespondEphemeral(s, i, "Nobody holds any Solyx yet.")
		return
	}

	var sb strings.Builder
	for idx, wallet := range wallets {
		fmt.Fprintf(&sb, "**%d.** %s — %s Solyx\n",
			idx+1, common.GetUserMention(wallet.DiscordID), common.FormatAmount(wallet.Balance))
	}

	common.RespondEmbed(s, i, &discordgo.MessageEmbed{
		Title:       "🏆 Leaderboard",
		Description: sb.String(),
		Color:       0xFFD700,
	})
}

// handleGrant is the moderator balance adjustment. The delta may be negative.
func (f *Feature) handleGrant(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	if !common.IsUserAdmin(s, i.GuildID, i.Member.User.ID) {
		common.RespondWithError(s, i, "You need administrator permissions to grant Solyx.")
		return
	}

	guildID, moderatorID, err := common.ActorIDs(i)
	if err != nil {
		log.Errorf("Error parsing interaction IDs: %v", err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	var amount int64
	var reason string
	var targetUser *discordgo.User
	for _, opt := range i.ApplicationCommandData().Options {
		switch opt.Name {
		case "user":
			targetUser = opt.UserValue(s)
		case "amount":
			amount = opt.IntValue()
		case "reason":
			reason = opt.StringValue()
		}
	}
	if targetUser == nil {
		common.RespondWithError(s, i, "Invalid target user.")
		return
	}

	targetID, err := common.ParseID(targetUser.ID)
	if err != nil {
		log.Errorf("Error parsing target Discord ID %s: %v", targetUser.ID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	if _, err := f.userService.GetOrCreateUser(ctx, guildID, targetID, targetUser.Username); err != nil {
		common.HandleError(s, i, common.WrapServiceError(err, "failed to provision user"))
		return
	}

	result, err := f.ledgerService.ModifyBalance(ctx, guildID, targetID, amount, reason, &moderatorID)
	if err != nil {
		common.HandleError(s, i, common.WrapServiceError(err, "failed to modify balance"))
		return
	}

	verb := "Granted"
	if amount < 0 {
		verb = "Removed"
	}
	common.Respond(s, i, fmt.Sprintf("%s **%s Solyx** %s %s. New balance: **%s Solyx**",
		verb, common.FormatAmount(abs(amount)), directionWord(amount), common.GetUserMention(targetID),
		common.FormatAmount(result.NewBalance)))
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

func directionWord(amount int64) string {
	if amount < 0 {
		return "from"
	}
	return "to"
}
