package settings

import (
	"solyx/domain/interfaces"

	"github.com/bwmarrin/discordgo"
)

type Feature struct {
	settingsService interfaces.GuildSettingsService
}

func New(settingsService interfaces.GuildSettingsService) *Feature {
	return &Feature{settingsService: settingsService}
}

func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		return
	}

	switch options[0].Name {
	case "show":
		f.handleShow(s, i)
	case "rewards":
		f.handleRewards(s, i, options[0].Options)
	case "tax":
		f.handleTax(s, i, options[0].Options)
	case "rafflechannel":
		f.handleRaffleChannel(s, i, options[0].Options)
	case "logchannel":
		f.handleLogChannel(s, i, options[0].Options)
	}
}
