package application

import (
	"context"
	"fmt"

	"solyx/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// TaxResetWorker zeroes every clan's contribution counter at the start of a
// new tax period. Resets are idempotent, so a rerun after a crash only
// stamps a fresh reset time.
type TaxResetWorker struct {
	uowFactory interfaces.UnitOfWorkFactory
	taxService interfaces.TaxService
}

// NewTaxResetWorker creates the period reset worker.
func NewTaxResetWorker(uowFactory interfaces.UnitOfWorkFactory, taxService interfaces.TaxService) *TaxResetWorker {
	return &TaxResetWorker{uowFactory: uowFactory, taxService: taxService}
}

// Run resets the tax period for every clan across all guilds.
func (w *TaxResetWorker) Run(ctx context.Context) error {
	uow := w.uowFactory.CreateForGuild(0)
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	clans, err := uow.ClanRepository().ListAll(ctx)
	if err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	for _, clan := range clans {
		if err := w.taxService.ResetPeriod(ctx, clan.GuildID, clan.ClanRoleID); err != nil {
			log.WithError(err).WithFields(log.Fields{
				"clanRoleID": clan.ClanRoleID,
				"guildID":    clan.GuildID,
			}).Error("Failed to reset clan tax period")
		}
	}

	log.WithField("clans", len(clans)).Info("Tax period reset completed")
	return nil
}
