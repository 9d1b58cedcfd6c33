package services

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"solyx/domain"
	"solyx/domain/entities"
	"solyx/domain/events"
	"solyx/domain/interfaces"
)

type raffleService struct {
	uowFactory interfaces.UnitOfWorkFactory
	now        func() time.Time

	mu  sync.Mutex
	rng *rand.Rand
}

// NewRaffleService creates the raffle service. The random source is
// injectable so draws are reproducible in tests; pass nil for a
// time-seeded source. Pass nil for now to use time.Now.
func NewRaffleService(uowFactory interfaces.UnitOfWorkFactory, rng *rand.Rand, now func() time.Time) interfaces.RaffleService {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if now == nil {
		now = time.Now
	}
	return &raffleService{uowFactory: uowFactory, rng: rng, now: now}
}

// CreateRaffle opens a new raffle in the guild.
func (s *raffleService) CreateRaffle(ctx context.Context, guildID int64, title string, channelID, ticketCost int64, numWinners int, endTime time.Time) (*entities.Raffle, error) {
	if title == "" {
		return nil, domain.NewValidationError("title is required")
	}
	if ticketCost < 0 {
		return nil, domain.NewValidationError("ticket cost must not be negative")
	}
	if numWinners < 1 {
		return nil, domain.NewValidationError("a raffle needs at least one winner")
	}
	if !endTime.After(s.now()) {
		return nil, domain.NewValidationError("end time must be in the future")
	}

	uow := s.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	raffle := &entities.Raffle{
		GuildID:    guildID,
		Title:      title,
		ChannelID:  channelID,
		TicketCost: ticketCost,
		NumWinners: numWinners,
		EndTime:    endTime.UTC(),
	}
	if err := uow.RaffleRepository().Create(ctx, raffle); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return raffle, nil
}

// BuyTicket debits the ticket cost and appends one entry. Extra tickets do
// not increase win odds; participants are deduplicated at draw time.
func (s *raffleService) BuyTicket(ctx context.Context, guildID, raffleID, discordID int64) (*interfaces.BalanceChangeResult, error) {
	now := s.now().UTC()

	uow := s.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	raffle, err := uow.RaffleRepository().GetByID(ctx, raffleID)
	if err != nil {
		return nil, err
	}
	if raffle == nil {
		return nil, domain.ErrNotFound
	}
	if !raffle.CanBuyTickets(now) {
		return nil, domain.ErrRaffleEnded
	}

	newBalance, err := uow.WalletRepository().ApplyDelta(ctx, discordID, -raffle.TicketCost)
	if err != nil {
		return nil, err
	}

	entry := &entities.LedgerTransaction{
		DiscordID: discordID,
		GuildID:   guildID,
		Amount:    -raffle.TicketCost,
		Reason:    entities.ReasonRaffleTicket,
	}
	if err := recordBalanceChange(ctx, uow, entry, newBalance); err != nil {
		return nil, err
	}

	if err := uow.RaffleEntryRepository().Add(ctx, raffleID, discordID); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &interfaces.BalanceChangeResult{NewBalance: newBalance}, nil
}

// DrawWinners ends the raffle and selects winners uniformly from the
// deduplicated participants. The status flip is a conditional update, so a
// second draw attempt finds the raffle already ended and does nothing.
func (s *raffleService) DrawWinners(ctx context.Context, guildID, raffleID int64) (*interfaces.DrawResult, error) {
	uow := s.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	raffle, err := uow.RaffleRepository().GetByID(ctx, raffleID)
	if err != nil {
		return nil, err
	}
	if raffle == nil {
		return nil, domain.ErrNotFound
	}
	if raffle.IsEnded() {
		return nil, domain.ErrRaffleEnded
	}

	participants, err := uow.RaffleEntryRepository().GetParticipants(ctx, raffleID)
	if err != nil {
		return nil, err
	}

	winners := s.pickWinners(participants, raffle.NumWinners)

	ended, err := uow.RaffleRepository().MarkEnded(ctx, raffleID, winners)
	if err != nil {
		return nil, err
	}
	if !ended {
		return nil, domain.ErrRaffleEnded
	}

	uow.EventBus().Publish(events.RaffleEndedEvent{
		RaffleID:  raffleID,
		GuildID:   guildID,
		ChannelID: raffle.ChannelID,
		Title:     raffle.Title,
		WinnerIDs: winners,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	raffle.Status = entities.RaffleStatusEnded
	raffle.WinnerIDs = winners

	return &interfaces.DrawResult{
		Raffle:       raffle,
		WinnerIDs:    winners,
		Participants: len(participants),
	}, nil
}

// pickWinners shuffles a copy of the participant list and takes the first
// min(numWinners, len(participants)) entries.
func (s *raffleService) pickWinners(participants []int64, numWinners int) []int64 {
	pool := make([]int64, len(participants))
	copy(pool, participants)

	s.mu.Lock()
	s.rng.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})
	s.mu.Unlock()

	if numWinners > len(pool) {
		numWinners = len(pool)
	}
	return pool[:numWinners]
}

// GetRaffle retrieves a raffle by ID, or (nil, nil) when unknown.
func (s *raffleService) GetRaffle(ctx context.Context, guildID, raffleID int64) (*entities.Raffle, error) {
	uow := s.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	raffle, err := uow.RaffleRepository().GetByID(ctx, raffleID)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return raffle, nil
}

// ListExpired returns past-due active raffles across all guilds for the
// sweep worker.
func (s *raffleService) ListExpired(ctx context.Context, now time.Time) ([]*entities.Raffle, error) {
	uow := s.uowFactory.CreateForGuild(0)
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	raffles, err := uow.RaffleRepository().ListExpired(ctx, now)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return raffles, nil
}
