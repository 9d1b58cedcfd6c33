package raffle

import (
	"solyx/domain/interfaces"

	"github.com/bwmarrin/discordgo"
)

type Feature struct {
	session         *discordgo.Session
	userService     interfaces.UserService
	raffleService   interfaces.RaffleService
	settingsService interfaces.GuildSettingsService
}

func NewFeature(session *discordgo.Session, userService interfaces.UserService, raffleService interfaces.RaffleService, settingsService interfaces.GuildSettingsService) *Feature {
	return &Feature{
		session:         session,
		userService:     userService,
		raffleService:   raffleService,
		settingsService: settingsService,
	}
}

func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		return
	}

	switch options[0].Name {
	case "create":
		f.handleCreate(s, i, options[0].Options)
	case "ticket":
		f.handleTicket(s, i, options[0].Options)
	case "draw":
		f.handleDraw(s, i, options[0].Options)
	case "info":
		f.handleInfo(s, i, options[0].Options)
	}
}
