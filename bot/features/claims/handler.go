package claims

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"solyx/bot/common"
	"solyx/domain"
	"solyx/domain/entities"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

var dayLabels = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

func (f *Feature) handleDaily(s *discordgo.Session, i *discordgo.InteractionCreate) {
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

	result, err := f.claimService.ClaimDaily(ctx, guildID, discordID)
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyClaimed) {
			status, statusErr := f.claimService.GetDailyStatus(ctx, guildID, discordID)
			if statusErr == nil {
				common.RespondEphemeral(s, i, fmt.Sprintf(
					"You already claimed today. Next claim %s.\n%s",
					common.FormatDiscordTimestamp(status.NextClaimAt, "R"),
					formatWeek(status.WeeklyState)))
				return
			}
		}
		common.HandleError(s, i, common.WrapServiceError(err, "failed to claim daily"))
		return
	}

	status, err := f.claimService.GetDailyStatus(ctx, guildID, discordID)
	week := ""
	if err == nil {
		week = "\n" + formatWeek(status.WeeklyState)
	}

	common.Respond(s, i, fmt.Sprintf(
		"☀️ Daily reward claimed: **%s Solyx**! Streak: **%d**. Balance: **%s Solyx**%s",
		common.FormatAmount(result.Reward), result.Streak,
		common.FormatAmount(result.NewBalance), week))
}

func (f *Feature) handleWeekly(s *discordgo.Session, i *discordgo.InteractionCreate) {
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

	result, err := f.claimService.ClaimWeekly(ctx, guildID, discordID)
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyClaimed) {
			_, next, checkErr := f.claimService.CanClaimWeekly(ctx, guildID, discordID)
			if checkErr == nil {
				common.RespondEphemeral(s, i, fmt.Sprintf(
					"Weekly reward is on cooldown. Next claim %s.",
					common.FormatDiscordTimestamp(next, "R")))
				return
			}
		}
		common.HandleError(s, i, common.WrapServiceError(err, "failed to claim weekly"))
		return
	}

	common.Respond(s, i, fmt.Sprintf(
		"📅 Weekly reward claimed: **%s Solyx**! Balance: **%s Solyx**",
		common.FormatAmount(result.Reward), common.FormatAmount(result.NewBalance)))
}

// formatWeek renders the Monday-first claim map, e.g. "✅ Mon ✅ Tue ⬜ Wed ...".
func formatWeek(state entities.WeeklyState) string {
	var parts []string
	for idx, claimed := range state.Days() {
		box := "⬜"
		if claimed {
			box = "✅"
		}
		parts = append(parts, box+" "+dayLabels[idx])
	}
	return strings.Join(parts, "  ")
}
