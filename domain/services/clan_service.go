package services

import (
	"context"
	"fmt"

	"solyx/domain"
	"solyx/domain/entities"
	"solyx/domain/interfaces"
)

type clanService struct {
	uowFactory interfaces.UnitOfWorkFactory
}

// NewClanService creates the clan registry service.
func NewClanService(uowFactory interfaces.UnitOfWorkFactory) interfaces.ClanService {
	return &clanService{uowFactory: uowFactory}
}

// CreateClan inserts the clan and its owner membership atomically.
func (s *clanService) CreateClan(ctx context.Context, guildID, clanRoleID, ownerDiscordID int64) error {
	uow := s.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	clan := &entities.Clan{
		ClanRoleID:     clanRoleID,
		GuildID:        guildID,
		OwnerDiscordID: ownerDiscordID,
	}
	if err := uow.ClanRepository().Create(ctx, clan); err != nil {
		return err
	}

	owner := &entities.ClanMember{
		DiscordID:  ownerDiscordID,
		ClanRoleID: clanRoleID,
		GuildID:    guildID,
		Authority:  entities.AuthorityOwner,
	}
	if err := uow.ClanMemberRepository().Add(ctx, owner); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// AddMember enforces the tier's capacity ceiling before inserting. Each
// tier is counted on its own, so a full member roster does not block an
// officer slot. The count and the insert share the transaction, so
// concurrent joins cannot both squeeze into the last slot.
func (s *clanService) AddMember(ctx context.Context, guildID, clanRoleID, discordID int64, authority entities.ClanAuthority) error {
	if !authority.IsValid() {
		return domain.NewValidationError("unknown authority tier %q", authority)
	}
	if authority == entities.AuthorityOwner {
		return domain.NewValidationError("ownership is assigned at clan creation or via transfer")
	}

	uow := s.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	clan, err := uow.ClanRepository().GetByRoleID(ctx, clanRoleID)
	if err != nil {
		return err
	}
	if clan == nil {
		return domain.ErrNotFound
	}

	count, err := uow.ClanMemberRepository().CountByAuthority(ctx, clanRoleID, authority)
	if err != nil {
		return err
	}
	if count >= authority.Ceiling() {
		return domain.ErrCapacityExceeded
	}

	member := &entities.ClanMember{
		DiscordID:  discordID,
		ClanRoleID: clanRoleID,
		GuildID:    guildID,
		Authority:  authority,
	}
	if err := uow.ClanMemberRepository().Add(ctx, member); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// RemoveMember drops a membership. The owner cannot be removed; ownership
// must be transferred first.
func (s *clanService) RemoveMember(ctx context.Context, guildID, clanRoleID, discordID int64) error {
	uow := s.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	member, err := uow.ClanMemberRepository().Get(ctx, clanRoleID, discordID)
	if err != nil {
		return err
	}
	if member == nil {
		return domain.ErrNotFound
	}
	if member.IsOwner() {
		return domain.NewValidationError("the clan owner cannot leave; transfer ownership first")
	}

	if err := uow.ClanMemberRepository().Remove(ctx, clanRoleID, discordID); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// SetOwner transfers ownership in one transaction: the new owner's prior
// membership is dropped, the old owner is demoted to member, and the new
// owner installed. No reader ever observes zero or two owners.
func (s *clanService) SetOwner(ctx context.Context, guildID, clanRoleID, newOwnerDiscordID int64) error {
	uow := s.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	clan, err := uow.ClanRepository().GetByRoleID(ctx, clanRoleID)
	if err != nil {
		return err
	}
	if clan == nil {
		return domain.ErrNotFound
	}
	if clan.OwnerDiscordID == newOwnerDiscordID {
		return domain.NewValidationError("user already owns this clan")
	}

	existing, err := uow.ClanMemberRepository().Get(ctx, clanRoleID, newOwnerDiscordID)
	if err != nil {
		return err
	}
	if existing != nil {
		if err := uow.ClanMemberRepository().Remove(ctx, clanRoleID, newOwnerDiscordID); err != nil {
			return err
		}
	}

	if err := uow.ClanMemberRepository().UpdateAuthority(ctx, clanRoleID, clan.OwnerDiscordID, entities.AuthorityMember); err != nil {
		return err
	}

	newOwner := &entities.ClanMember{
		DiscordID:  newOwnerDiscordID,
		ClanRoleID: clanRoleID,
		GuildID:    guildID,
		Authority:  entities.AuthorityOwner,
	}
	if err := uow.ClanMemberRepository().Add(ctx, newOwner); err != nil {
		return err
	}

	if err := uow.ClanRepository().UpdateOwner(ctx, clanRoleID, newOwnerDiscordID); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// SetMotto sets or clears the clan motto.
func (s *clanService) SetMotto(ctx context.Context, guildID, clanRoleID int64, motto *string) error {
	uow := s.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.ClanRepository().UpdateMotto(ctx, clanRoleID, motto); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// DeleteClan removes the clan with its memberships, treasury and tax row.
func (s *clanService) DeleteClan(ctx context.Context, guildID, clanRoleID int64) error {
	uow := s.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	clan, err := uow.ClanRepository().GetByRoleID(ctx, clanRoleID)
	if err != nil {
		return err
	}
	if clan == nil {
		return domain.ErrNotFound
	}

	if err := uow.ClanMemberRepository().RemoveByClan(ctx, clanRoleID); err != nil {
		return err
	}
	if err := uow.ClanWalletRepository().Delete(ctx, clanRoleID); err != nil {
		return err
	}
	if err := uow.ClanTaxRepository().Delete(ctx, clanRoleID); err != nil {
		return err
	}
	if err := uow.ClanRepository().Delete(ctx, clanRoleID); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetClan retrieves a clan, or (nil, nil) when unknown.
func (s *clanService) GetClan(ctx context.Context, guildID, clanRoleID int64) (*entities.Clan, error) {
	uow := s.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	clan, err := uow.ClanRepository().GetByRoleID(ctx, clanRoleID)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return clan, nil
}

// ListMembers returns all memberships, owner first.
func (s *clanService) ListMembers(ctx context.Context, guildID, clanRoleID int64) ([]*entities.ClanMember, error) {
	uow := s.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	members, err := uow.ClanMemberRepository().ListByClan(ctx, clanRoleID)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return members, nil
}
