package clans

import (
	"solyx/domain/interfaces"

	"github.com/bwmarrin/discordgo"
)

type Feature struct {
	userService   interfaces.UserService
	clanService   interfaces.ClanService
	ledgerService interfaces.LedgerService
}

func New(userService interfaces.UserService, clanService interfaces.ClanService, ledgerService interfaces.LedgerService) *Feature {
	return &Feature{
		userService:   userService,
		clanService:   clanService,
		ledgerService: ledgerService,
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
	case "addmember":
		f.handleAddMember(s, i, options[0].Options)
	case "removemember":
		f.handleRemoveMember(s, i, options[0].Options)
	case "setowner":
		f.handleSetOwner(s, i, options[0].Options)
	case "motto":
		f.handleMotto(s, i, options[0].Options)
	case "info":
		f.handleInfo(s, i, options[0].Options)
	case "deposit":
		f.handleDeposit(s, i, options[0].Options)
	case "withdraw":
		f.handleWithdraw(s, i, options[0].Options)
	case "disband":
		f.handleDisband(s, i, options[0].Options)
	}
}
