package services

import (
	"context"
	"fmt"

	"solyx/domain"
	"solyx/domain/entities"
	"solyx/domain/events"
	"solyx/domain/interfaces"
)

type userService struct {
	uowFactory interfaces.UnitOfWorkFactory
}

// NewUserService creates the user registry service.
func NewUserService(uowFactory interfaces.UnitOfWorkFactory) interfaces.UserService {
	return &userService{uowFactory: uowFactory}
}

// GetOrCreateUser upserts the user on first interaction and provisions
// their wallet in the same transaction.
func (s *userService) GetOrCreateUser(ctx context.Context, guildID, discordID int64, username string) (*entities.User, error) {
	if username == "" {
		return nil, domain.NewValidationError("username is required")
	}

	uow := s.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	existing, err := uow.UserRepository().GetByDiscordID(ctx, discordID)
	if err != nil {
		return nil, err
	}

	user, err := uow.UserRepository().GetOrCreate(ctx, discordID, username)
	if err != nil {
		return nil, err
	}

	if _, err := uow.WalletRepository().GetOrCreate(ctx, discordID); err != nil {
		return nil, err
	}

	if existing == nil {
		uow.EventBus().Publish(events.UserCreatedEvent{
			DiscordID: discordID,
			Username:  username,
		})
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return user, nil
}

// RegisterReferral records the referrer, at most once per user.
func (s *userService) RegisterReferral(ctx context.Context, guildID, discordID, referrerID int64) error {
	if discordID == referrerID {
		return domain.NewValidationError("you cannot refer yourself")
	}

	uow := s.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	referrer, err := uow.UserRepository().GetByDiscordID(ctx, referrerID)
	if err != nil {
		return err
	}
	if referrer == nil {
		return domain.ErrNotFound
	}

	if err := uow.UserRepository().SetReferrer(ctx, discordID, referrerID); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
