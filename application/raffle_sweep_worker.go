// Package application hosts the background workers that drive time-based
// economy behavior: the raffle expiry sweep and the monthly tax period
// reset. Workers only call idempotent service operations, so overlapping or
// redundant runs are harmless.
package application

import (
	"context"
	"errors"
	"time"

	"solyx/domain"
	"solyx/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// RaffleSweepWorker polls for active raffles whose end time has passed and
// draws them. Announcements ride on the RaffleEndedEvent published by the
// draw, so the worker itself never touches Discord.
type RaffleSweepWorker struct {
	raffleService interfaces.RaffleService
	now           func() time.Time
}

// NewRaffleSweepWorker creates the sweep worker. Pass nil for now to use
// time.Now.
func NewRaffleSweepWorker(raffleService interfaces.RaffleService, now func() time.Time) *RaffleSweepWorker {
	if now == nil {
		now = time.Now
	}
	return &RaffleSweepWorker{raffleService: raffleService, now: now}
}

// Run draws every past-due raffle once. A raffle that was drawn by a
// concurrent sweep in the meantime surfaces ErrRaffleEnded and is skipped.
func (w *RaffleSweepWorker) Run(ctx context.Context) error {
	now := w.now().UTC()

	expired, err := w.raffleService.ListExpired(ctx, now)
	if err != nil {
		return err
	}

	for _, raffle := range expired {
		result, err := w.raffleService.DrawWinners(ctx, raffle.GuildID, raffle.ID)
		if err != nil {
			if errors.Is(err, domain.ErrRaffleEnded) {
				continue
			}
			log.WithError(err).WithFields(log.Fields{
				"raffleID": raffle.ID,
				"guildID":  raffle.GuildID,
			}).Error("Failed to draw expired raffle")
			continue
		}

		log.WithFields(log.Fields{
			"raffleID":     raffle.ID,
			"guildID":      raffle.GuildID,
			"winners":      len(result.WinnerIDs),
			"participants": result.Participants,
		}).Info("Drew expired raffle")
	}

	return nil
}
