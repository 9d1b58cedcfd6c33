package shop

import (
	"context"
	"fmt"
	"strings"

	"solyx/bot/common"
	"solyx/domain/entities"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

func (f *Feature) handleList(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	guildID, _, err := common.ActorIDs(i)
	if err != nil {
		log.Errorf("Error parsing interaction IDs: %v", err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	items, err := f.shopService.ListItems(ctx, guildID)
	if err != nil {
		common.HandleError(s, i, common.WrapServiceError(err, "failed to list shop items"))
		return
	}

	if len(items) == 0 {
		common.RespondEphemeral(s, i, "The shop is empty.")
		return
	}

	var sb strings.Builder
	for _, item := range items {
		fmt.Fprintf(&sb, "%s **%s** — %s Solyx\n",
			common.GetRoleMention(item.RoleID), item.Name, common.FormatAmount(item.Price))
		if item.Description != nil && *item.Description != "" {
			fmt.Fprintf(&sb, "  _%s_\n", *item.Description)
		}
	}

	common.RespondEmbed(s, i, &discordgo.MessageEmbed{
		Title:       "🛒 Role Shop",
		Description: sb.String(),
		Color:       0x5865F2,
	})
}

func (f *Feature) handleBuy(s *discordgo.Session, i *discordgo.InteractionCreate, opts []*discordgo.ApplicationCommandInteractionDataOption) {
	ctx := context.Background()

	guildID, discordID, err := common.ActorIDs(i)
	if err != nil {
		log.Errorf("Error parsing interaction IDs: %v", err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	roleID, ok := roleOption(s, opts)
	if !ok {
		common.RespondWithError(s, i, "Invalid role.")
		return
	}

	if _, err := f.userService.GetOrCreateUser(ctx, guildID, discordID, i.Member.User.Username); err != nil {
		common.HandleError(s, i, common.WrapServiceError(err, "failed to provision user"))
		return
	}

	result, err := f.shopService.PurchaseItem(ctx, guildID, discordID, roleID)
	if err != nil {
		common.HandleError(s, i, common.WrapServiceError(err, "failed to purchase item"))
		return
	}

	// Grant the role after the purchase committed. A failed grant is
	// compensated with a refund so the buyer never pays for nothing.
	if err := s.GuildMemberRoleAdd(i.GuildID, i.Member.User.ID, common.FormatID(roleID)); err != nil {
		log.Errorf("Error granting role %d to %d: %v", roleID, discordID, err)
		if _, refundErr := f.shopService.Refund(ctx, guildID, discordID, roleID); refundErr != nil {
			log.Errorf("Error refunding purchase for %d after failed role grant: %v", discordID, refundErr)
		}
		common.RespondWithError(s, i, "Could not grant the role. Your Solyx was refunded.")
		return
	}

	common.Respond(s, i, fmt.Sprintf("✅ Purchased **%s** for **%s Solyx**. Balance: **%s Solyx**",
		result.Item.Name, common.FormatAmount(result.Price), common.FormatAmount(result.NewBalance)))
}

func (f *Feature) handleAdd(s *discordgo.Session, i *discordgo.InteractionCreate, opts []*discordgo.ApplicationCommandInteractionDataOption) {
	ctx := context.Background()

	if !common.IsUserAdmin(s, i.GuildID, i.Member.User.ID) {
		common.RespondWithError(s, i, "You need administrator permissions to manage the shop.")
		return
	}

	guildID, _, err := common.ActorIDs(i)
	if err != nil {
		log.Errorf("Error parsing interaction IDs: %v", err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	item, ok := itemFromOptions(s, opts)
	if !ok {
		common.RespondWithError(s, i, "Invalid shop item options.")
		return
	}

	if err := f.shopService.AddItem(ctx, guildID, item); err != nil {
		common.HandleError(s, i, common.WrapServiceError(err, "failed to add shop item"))
		return
	}

	common.Respond(s, i, fmt.Sprintf("Added **%s** to the shop for **%s Solyx**.",
		item.Name, common.FormatAmount(item.Price)))
}

func (f *Feature) handleUpdate(s *discordgo.Session, i *discordgo.InteractionCreate, opts []*discordgo.ApplicationCommandInteractionDataOption) {
	ctx := context.Background()

	if !common.IsUserAdmin(s, i.GuildID, i.Member.User.ID) {
		common.RespondWithError(s, i, "You need administrator permissions to manage the shop.")
		return
	}

	guildID, _, err := common.ActorIDs(i)
	if err != nil {
		log.Errorf("Error parsing interaction IDs: %v", err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	item, ok := itemFromOptions(s, opts)
	if !ok {
		common.RespondWithError(s, i, "Invalid shop item options.")
		return
	}

	if err := f.shopService.UpdateItem(ctx, guildID, item); err != nil {
		common.HandleError(s, i, common.WrapServiceError(err, "failed to update shop item"))
		return
	}

	common.Respond(s, i, fmt.Sprintf("Updated **%s**: now **%s Solyx**.",
		item.Name, common.FormatAmount(item.Price)))
}

func (f *Feature) handleRemove(s *discordgo.Session, i *discordgo.InteractionCreate, opts []*discordgo.ApplicationCommandInteractionDataOption) {
	ctx := context.Background()

	if !common.IsUserAdmin(s, i.GuildID, i.Member.User.ID) {
		common.RespondWithError(s, i, "You need administrator permissions to manage the shop.")
		return
	}

	guildID, _, err := common.ActorIDs(i)
	if err != nil {
		log.Errorf("Error parsing interaction IDs: %v", err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	roleID, ok := roleOption(s, opts)
	if !ok {
		common.RespondWithError(s, i, "Invalid role.")
		return
	}

	if err := f.shopService.RemoveItem(ctx, guildID, roleID); err != nil {
		common.HandleError(s, i, common.WrapServiceError(err, "failed to remove shop item"))
		return
	}

	common.Respond(s, i, fmt.Sprintf("Removed %s from the shop.", common.GetRoleMention(roleID)))
}

func roleOption(s *discordgo.Session, opts []*discordgo.ApplicationCommandInteractionDataOption) (int64, bool) {
	for _, opt := range opts {
		if opt.Name == "role" {
			role := opt.RoleValue(s, "")
			if role == nil {
				return 0, false
			}
			roleID, err := common.ParseID(role.ID)
			if err != nil {
				return 0, false
			}
			return roleID, true
		}
	}
	return 0, false
}

func itemFromOptions(s *discordgo.Session, opts []*discordgo.ApplicationCommandInteractionDataOption) (*entities.ShopItem, bool) {
	item := &entities.ShopItem{}
	for _, opt := range opts {
		switch opt.Name {
		case "role":
			role := opt.RoleValue(s, "")
			if role == nil {
				return nil, false
			}
			roleID, err := common.ParseID(role.ID)
			if err != nil {
				return nil, false
			}
			item.RoleID = roleID
			if item.Name == "" {
				item.Name = role.Name
			}
		case "price":
			item.Price = opt.IntValue()
		case "name":
			item.Name = opt.StringValue()
		case "description":
			desc := opt.StringValue()
			item.Description = &desc
		}
	}
	if item.RoleID == 0 {
		return nil, false
	}
	return item, true
}
