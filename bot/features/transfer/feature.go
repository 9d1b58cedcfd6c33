package transfer

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
	f.handleTransfer(s, i)
}
