package referral

import (
	"solyx/domain/interfaces"

	"github.com/bwmarrin/discordgo"
)

type Feature struct {
	userService interfaces.UserService
}

func New(userService interfaces.UserService) *Feature {
	return &Feature{userService: userService}
}

func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.handleRefer(s, i)
}
