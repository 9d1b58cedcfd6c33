package tax

import (
	"solyx/domain/interfaces"

	"github.com/bwmarrin/discordgo"
)

type Feature struct {
	userService interfaces.UserService
	taxService  interfaces.TaxService
}

func New(userService interfaces.UserService, taxService interfaces.TaxService) *Feature {
	return &Feature{
		userService: userService,
		taxService:  taxService,
	}
}

func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		return
	}

	switch options[0].Name {
	case "pay":
		f.handlePay(s, i, options[0].Options)
	case "progress":
		f.handleProgress(s, i, options[0].Options)
	}
}
