package shop

import (
	"solyx/domain/interfaces"

	"github.com/bwmarrin/discordgo"
)

type Feature struct {
	userService interfaces.UserService
	shopService interfaces.ShopService
}

func New(userService interfaces.UserService, shopService interfaces.ShopService) *Feature {
	return &Feature{
		userService: userService,
		shopService: shopService,
	}
}

func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		return
	}

	switch options[0].Name {
	case "list":
		f.handleList(s, i)
	case "buy":
		f.handleBuy(s, i, options[0].Options)
	case "add":
		f.handleAdd(s, i, options[0].Options)
	case "update":
		f.handleUpdate(s, i, options[0].Options)
	case "remove":
		f.handleRemove(s, i, options[0].Options)
	}
}
