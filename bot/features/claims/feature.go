package claims

import (
	"solyx/domain/interfaces"

	"github.com/bwmarrin/discordgo"
)

type Feature struct {
	userService  interfaces.UserService
	claimService interfaces.ClaimService
}

func New(userService interfaces.UserService, claimService interfaces.ClaimService) *Feature {
	return &Feature{
		userService:  userService,
		claimService: claimService,
	}
}

func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.ApplicationCommandData().Name {
	case "daily":
		f.handleDaily(s, i)
	case "weekly":
		f.handleWeekly(s, i)
	}
}
