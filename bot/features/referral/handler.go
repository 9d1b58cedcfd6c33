package referral

import (
	"context"
	"fmt"

	"solyx/bot/common"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

func (f *Feature) handleRefer(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	var referrerUser *discordgo.User
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "user" {
			referrerUser = opt.UserValue(s)
		}
	}
	if referrerUser == nil {
		common.RespondWithError(s, i, "Invalid referrer.")
		return
	}

	guildID, discordID, err := common.ActorIDs(i)
	if err != nil {
		log.Errorf("Error parsing interaction IDs: %v", err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	referrerID, err := common.ParseID(referrerUser.ID)
	if err != nil {
		log.Errorf("Error parsing referrer Discord ID %s: %v", referrerUser.ID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	if _, err := f.userService.GetOrCreateUser(ctx, guildID, discordID, i.Member.User.Username); err != nil {
		common.HandleError(s, i, common.WrapServiceError(err, "failed to provision user"))
		return
	}
	if _, err := f.userService.GetOrCreateUser(ctx, guildID, referrerID, referrerUser.Username); err != nil {
		common.HandleError(s, i, common.WrapServiceError(err, "failed to provision referrer"))
		return
	}

	if err := f.userService.RegisterReferral(ctx, guildID, discordID, referrerID); err != nil {
		common.HandleError(s, i, common.WrapServiceError(err, "failed to register referral"))
		return
	}

	common.Respond(s, i, fmt.Sprintf("🤝 %s is now your referrer. They will earn a bonus on your daily claims.",
		common.GetUserMention(referrerID)))
}
