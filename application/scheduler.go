package application

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

// Schedules for the background workers. The raffle sweep polls frequently
// because draws should land close to the advertised end time; the tax reset
// fires at midnight UTC on the first of each month.
const (
	raffleSweepSchedule = "@every 1m"
	taxResetSchedule    = "0 0 1 * *"
)

// Scheduler runs the background workers on their cron cadences.
type Scheduler struct {
	cron *cron.Cron
}

// NewScheduler wires the workers into a cron runner. Jobs use a background
// context; cancellation happens through Stop.
func NewScheduler(sweep *RaffleSweepWorker, taxReset *TaxResetWorker) (*Scheduler, error) {
	c := cron.New(cron.WithLocation(time.UTC))

	if _, err := c.AddFunc(raffleSweepSchedule, func() {
		if err := sweep.Run(context.Background()); err != nil {
			log.WithError(err).Error("Raffle sweep failed")
		}
	}); err != nil {
		return nil, fmt.Errorf("failed to schedule raffle sweep: %w", err)
	}

	if _, err := c.AddFunc(taxResetSchedule, func() {
		if err := taxReset.Run(context.Background()); err != nil {
			log.WithError(err).Error("Tax reset failed")
		}
	}); err != nil {
		return nil, fmt.Errorf("failed to schedule tax reset: %w", err)
	}

	return &Scheduler{cron: c}, nil
}

// Start launches the cron runner in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
	log.Info("Scheduler started")
}

// Stop halts scheduling and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Info("Scheduler stopped")
}
