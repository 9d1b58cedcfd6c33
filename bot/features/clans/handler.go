package clans

import (
	"context"
	"fmt"
	"strings"

	"solyx/bot/common"
	"solyx/domain/entities"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

func (f *Feature) handleCreate(s *discordgo.Session, i *discordgo.InteractionCreate, opts []*discordgo.ApplicationCommandInteractionDataOption) {
	ctx := context.Background()

	if !common.IsUserAdmin(s, i.GuildID, i.Member.User.ID) {
		common.RespondWithError(s, i, "You need administrator permissions to create a clan.")
		return
	}

	guildID, _, err := common.ActorIDs(i)
	if err != nil {
		log.Errorf("Error parsing interaction IDs: %v", err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	clanRoleID, ok := roleOption(s, opts)
	if !ok {
		common.RespondWithError(s, i, "Invalid clan role.")
		return
	}

	ownerUser := userOption(s, opts, "owner")
	if ownerUser == nil {
		common.RespondWithError(s, i, "Invalid owner user.")
		return
	}
	ownerID, err := common.ParseID(ownerUser.ID)
	if err != nil {
		log.Errorf("Error parsing owner Discord ID %s: %v", ownerUser.ID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	if _, err := f.userService.GetOrCreateUser(ctx, guildID, ownerID, ownerUser.Username); err != nil {
		common.HandleError(s, i, common.WrapServiceError(err, "failed to provision owner"))
		return
	}

	if err := f.clanService.CreateClan(ctx, guildID, clanRoleID, ownerID); err != nil {
		common.HandleError(s, i, common.WrapServiceError(err, "failed to create clan"))
		return
	}

	common.Respond(s, i, fmt.Sprintf("🏰 Clan %s founded with %s as owner.",
		common.GetRoleMention(clanRoleID), common.GetUserMention(ownerID)))
}

func (f *Feature) handleAddMember(s *discordgo.Session, i *discordgo.InteractionCreate, opts []*discordgo.ApplicationCommandInteractionDataOption) {
	ctx := context.Background()

	guildID, _, err := common.ActorIDs(i)
	if err != nil {
		log.Errorf("Error parsing interaction IDs: %v", err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	clanRoleID, ok := roleOption(s, opts)
	if !ok {
		common.RespondWithError(s, i, "Invalid clan role.")
		return
	}

	memberUser := userOption(s, opts, "user")
	if memberUser == nil {
		common.RespondWithError(s, i, "Invalid user.")
		return
	}
	memberID, err := common.ParseID(memberUser.ID)
	if err != nil {
		log.Errorf("Error parsing member Discord ID %s: %v", memberUser.ID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	authority := entities.AuthorityMember
	for _, opt := range opts {
		if opt.Name == "authority" {
			authority = entities.ClanAuthority(opt.StringValue())
		}
	}

	if _, err := f.userService.GetOrCreateUser(ctx, guildID, memberID, memberUser.Username); err != nil {
		common.HandleError(s, i, common.WrapServiceError(err, "failed to provision user"))
		return
	}

	if err := f.clanService.AddMember(ctx, guildID, clanRoleID, memberID, authority); err != nil {
		common.HandleError(s, i, common.WrapServiceError(err, "failed to add clan member"))
		return
	}

	common.Respond(s, i, fmt.Sprintf("%s joined %s as **%s**.",
		common.GetUserMention(memberID), common.GetRoleMention(clanRoleID), authority))
}

func (f *Feature) handleRemoveMember(s *discordgo.Session, i *discordgo.InteractionCreate, opts []*discordgo.ApplicationCommandInteractionDataOption) {
	ctx := context.Background()

	guildID, _, err := common.ActorIDs(i)
	if err != nil {
		log.Errorf("Error parsing interaction IDs: %v", err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	clanRoleID, ok := roleOption(s, opts)
	if !ok {
		common.RespondWithError(s, i, "Invalid clan role.")
		return
	}

	memberUser := userOption(s, opts, "user")
	if memberUser == nil {
		common.RespondWithError(s, i, "Invalid user.")
		return
	}
	memberID, err := common.ParseID(memberUser.ID)
	if err != nil {
		log.Errorf("Error parsing member Discord ID %s: %v", memberUser.ID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	if err := f.clanService.RemoveMember(ctx, guildID, clanRoleID, memberID); err != nil {
		common.HandleError(s, i, common.WrapServiceError(err, "failed to remove clan member"))
		return
	}

	common.Respond(s, i, fmt.Sprintf("%s left %s.",
		common.GetUserMention(memberID), common.GetRoleMention(clanRoleID)))
}

func (f *Feature) handleSetOwner(s *discordgo.Session, i *discordgo.InteractionCreate, opts []*discordgo.ApplicationCommandInteractionDataOption) {
	ctx := context.Background()

	guildID, _, err := common.ActorIDs(i)
	if err != nil {
		log.Errorf("Error parsing interaction IDs: %v", err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	clanRoleID, ok := roleOption(s, opts)
	if !ok {
		common.RespondWithError(s, i, "Invalid clan role.")
		return
	}

	ownerUser := userOption(s, opts, "user")
	if ownerUser == nil {
		common.RespondWithError(s, i, "Invalid user.")
		return
	}
	newOwnerID, err := common.ParseID(ownerUser.ID)
	if err != nil {
		log.Errorf("Error parsing owner Discord ID %s: %v", ownerUser.ID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	if _, err := f.userService.GetOrCreateUser(ctx, guildID, newOwnerID, ownerUser.Username); err != nil {
		common.HandleError(s, i, common.WrapServiceError(err, "failed to provision user"))
		return
	}

	if err := f.clanService.SetOwner(ctx, guildID, clanRoleID, newOwnerID); err != nil {
		common.HandleError(s, i, common.WrapServiceError(err, "failed to transfer clan ownership"))
		return
	}

	common.Respond(s, i, fmt.Sprintf("👑 %s now owns %s.",
		common.GetUserMention(newOwnerID), common.GetRoleMention(clanRoleID)))
}

func (f *Feature) handleMotto(s *discordgo.Session, i *discordgo.InteractionCreate, opts []*discordgo.ApplicationCommandInteractionDataOption) {
	ctx := context.Background()

	guildID, _, err := common.ActorIDs(i)
	if err != nil {
		log.Errorf("Error parsing interaction IDs: %v", err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	clanRoleID, ok := roleOption(s, opts)
	if !ok {
		common.RespondWithError(s, i, "Invalid clan role.")
		return
	}

	var motto *string
	for _, opt := range opts {
		if opt.Name == "text" {
			text := opt.StringValue()
			if text != "" {
				motto = &text
			}
		}
	}

	if err := f.clanService.SetMotto(ctx, guildID, clanRoleID, motto); err != nil {
		common.HandleError(s, i, common.WrapServiceError(err, "failed to set clan motto"))
		return
	}

	if motto == nil {
		common.Respond(s, i, fmt.Sprintf("Cleared the motto of %s.", common.GetRoleMention(clanRoleID)))
		return
	}
	common.Respond(s, i, fmt.Sprintf("Motto of %s set to: _%s_", common.GetRoleMention(clanRoleID), *motto))
}

func (f *Feature) handleInfo(s *discordgo.Session, i *discordgo.InteractionCreate, opts []*discordgo.ApplicationCommandInteractionDataOption) {
	ctx := context.Background()

	guildID, _, err := common.ActorIDs(i)
	if err != nil {
		log.Errorf("Error parsing interaction IDs: %v", err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	clanRoleID, ok := roleOption(s, opts)
	if !ok {
		common.RespondWithError(s, i, "Invalid clan role.")
		return
	}

	clan, err := f.clanService.GetClan(ctx, guildID, clanRoleID)
	if err != nil {
		common.HandleError(s, i, common.WrapServiceError(err, "failed to get clan"))
		return
	}

	members, err := f.clanService.ListMembers(ctx, guildID, clanRoleID)
	if err != nil {
		common.HandleError(s, i, common.WrapServiceError(err, "failed to list clan members"))
		return
	}

	var sb strings.Builder
	if clan.Motto != nil && *clan.Motto != "" {
		fmt.Fprintf(&sb, "_%s_\n\n", *clan.Motto)
	}
	// The member tier has its own ceiling; leadership slots are counted
	// separately.
	memberCount := 0
	for _, m := range members {
		if m.Authority == entities.AuthorityMember {
			memberCount++
		}
	}
	fmt.Fprintf(&sb, "Owner: %s\nMembers: %d/%d (%d total)\n\n", common.GetUserMention(clan.OwnerDiscordID),
		memberCount, entities.MaxMembers, len(members))
	for _, m := range members {
		fmt.Fprintf(&sb, "%s — %s\n", common.GetUserMention(m.DiscordID), m.Authority)
	}

	common.RespondEmbed(s, i, &discordgo.MessageEmbed{
		Title:       "🏰 Clan",
		Description: sb.String(),
		Color:       0x2ECC71,
	})
}

func (f *Feature) handleDeposit(s *discordgo.Session, i *discordgo.InteractionCreate, opts []*discordgo.ApplicationCommandInteractionDataOption) {
	ctx := context.Background()

	guildID, discordID, err := common.ActorIDs(i)
	if err != nil {
		log.Errorf("Error parsing interaction IDs: %v", err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	clanRoleID, ok := roleOption(s, opts)
	if !ok {
		common.RespondWithError(s, i, "Invalid clan role.")
		return
	}
	amount := amountOption(opts)
	if amount <= 0 {
		common.RespondWithError(s, i, "Amount must be positive.")
		return
	}

	if _, err := f.userService.GetOrCreateUser(ctx, guildID, discordID, i.Member.User.Username); err != nil {
		common.HandleError(s, i, common.WrapServiceError(err, "failed to provision user"))
		return
	}

	result, err := f.ledgerService.DepositToClan(ctx, guildID, discordID, clanRoleID, amount)
	if err != nil {
		common.HandleError(s, i, common.WrapServiceError(err, "failed to deposit to clan"))
		return
	}

	common.Respond(s, i, fmt.Sprintf("💰 Deposited **%s Solyx** into %s. Treasury: **%s Solyx**, your balance: **%s Solyx**",
		common.FormatAmount(result.Amount), common.GetRoleMention(clanRoleID),
		common.FormatAmount(result.NewTreasuryBalance), common.FormatAmount(result.NewWalletBalance)))
}

func (f *Feature) handleWithdraw(s *discordgo.Session, i *discordgo.InteractionCreate, opts []*discordgo.ApplicationCommandInteractionDataOption) {
	ctx := context.Background()

	guildID, discordID, err := common.ActorIDs(i)
	if err != nil {
		log.Errorf("Error parsing interaction IDs: %v", err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	clanRoleID, ok := roleOption(s, opts)
	if !ok {
		common.RespondWithError(s, i, "Invalid clan role.")
		return
	}
	amount := amountOption(opts)
	if amount <= 0 {
		common.RespondWithError(s, i, "Amount must be positive.")
		return
	}

	if _, err := f.userService.GetOrCreateUser(ctx, guildID, discordID, i.Member.User.Username); err != nil {
		common.HandleError(s, i, common.WrapServiceError(err, "failed to provision user"))
		return
	}

	result, err := f.ledgerService.WithdrawFromClan(ctx, guildID, discordID, clanRoleID, amount)
	if err != nil {
		common.HandleError(s, i, common.WrapServiceError(err, "failed to withdraw from clan"))
		return
	}

	common.Respond(s, i, fmt.Sprintf("💸 Withdrew **%s Solyx** from %s. Treasury: **%s Solyx**, your balance: **%s Solyx**",
		common.FormatAmount(result.Amount), common.GetRoleMention(clanRoleID),
		common.FormatAmount(result.NewTreasuryBalance), common.FormatAmount(result.NewWalletBalance)))
}

func (f *Feature) handleDisband(s *discordgo.Session, i *discordgo.InteractionCreate, opts []*discordgo.ApplicationCommandInteractionDataOption) {
	ctx := context.Background()

	if !common.IsUserAdmin(s, i.GuildID, i.Member.User.ID) {
		common.RespondWithError(s, i, "You need administrator permissions to disband a clan.")
		return
	}

	guildID, _, err := common.ActorIDs(i)
	if err != nil {
		log.Errorf("Error parsing interaction IDs: %v", err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	clanRoleID, ok := roleOption(s, opts)
	if !ok {
		common.RespondWithError(s, i, "Invalid clan role.")
		return
	}

	if err := f.clanService.DeleteClan(ctx, guildID, clanRoleID); err != nil {
		common.HandleError(s, i, common.WrapServiceError(err, "failed to disband clan"))
		return
	}

	common.Respond(s, i, fmt.Sprintf("Clan %s disbanded.", common.GetRoleMention(clanRoleID)))
}

func roleOption(s *discordgo.Session, opts []*discordgo.ApplicationCommandInteractionDataOption) (int64, bool) {
	for _, opt := range opts {
		if opt.Name == "clan" {
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

func userOption(s *discordgo.Session, opts []*discordgo.ApplicationCommandInteractionDataOption, name string) *discordgo.User {
	for _, opt := range opts {
		if opt.Name == name {
			return opt.UserValue(s)
		}
	}
	return nil
}

func amountOption(opts []*discordgo.ApplicationCommandInteractionDataOption) int64 {
	for _, opt := range opts {
		if opt.Name == "amount" {
			return opt.IntValue()
		}
	}
	return 0
}
