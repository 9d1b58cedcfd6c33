package transfer

import (
	"context"
	"fmt"

	"solyx/bot/common"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

func (f *Feature) handleTransfer(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	var amount int64
	var reason string
	var recipientUser *discordgo.User
	for _, opt := range i.ApplicationCommandData().Options {
		switch opt.Name {
		case "amount":
			amount = opt.IntValue()
		case "user":
			recipientUser = opt.UserValue(s)
		case "reason":
			reason = opt.StringValue()
		}
	}

	if amount <= 0 {
		common.RespondWithError(s, i, "Amount must be positive.")
		return
	}
	if recipientUser == nil {
		common.RespondWithError(s, i, "Invalid recipient user.")
		return
	}
	if reason == "" {
		reason = "transfer"
	}

	guildID, fromDiscordID, err := common.ActorIDs(i)
	if err != nil {
		log.Errorf("Error parsing interaction IDs: %v", err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	toDiscordID, err := common.ParseID(recipientUser.ID)
	if err != nil {
		log.Errorf("Error parsing recipient Discord ID %s: %v", recipientUser.ID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	if fromDiscordID == toDiscordID {
		common.RespondWithError(s, i, "You cannot transfer Solyx to yourself.")
		return
	}

	// Both parties must exist before the ledger touches their wallets.
	if _, err := f.userService.GetOrCreateUser(ctx, guildID, fromDiscordID, i.Member.User.Username); err != nil {
		common.HandleError(s, i, common.WrapServiceError(err, "failed to provision sender"))
		return
	}
	if _, err := f.userService.GetOrCreateUser(ctx, guildID, toDiscordID, recipientUser.Username); err != nil {
		common.HandleError(s, i, common.WrapServiceError(err, "failed to provision recipient"))
		return
	}

	result, err := f.ledgerService.Transfer(ctx, guildID, fromDiscordID, toDiscordID, amount, reason)
	if err != nil {
		common.HandleError(s, i, common.WrapServiceError(err, "failed to transfer"))
		return
	}

	common.Respond(s, i, fmt.Sprintf("✅ Sent **%s Solyx** to %s. Your balance: **%s Solyx**",
		common.FormatAmount(result.Amount), common.GetUserMention(toDiscordID),
		common.FormatAmount(result.NewSenderBalance)))
}
