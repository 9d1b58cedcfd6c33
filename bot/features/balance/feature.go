package balance

import (
	"solyx/domain/interfaces"

	"github.com/bwmarrin/discordgo"
)

type Feature struct {
	userService   interfaces.UserService
	ledgerService interfaces.LedgerService
}

func New(userService interfaces.UserService, ledgerService interfaces.LedgerService) *Feature {
	return &Feature{
		userService:   userService,
		ledgerService: ledgerService,
	}
}

func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.ApplicationCommandData().Name {
	case "balance":
		f.handleBalance(s, i)
	case "leaderboard":
		f.handleLeaderboard(s, i)
	case "grant":
		f.handleGrant(s, i)
	}
}
