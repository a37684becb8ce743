package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oss-metrics/adoption-tracker/internal/ledger"
)

// Runner drives a collection run over a date range: it loads the ledger
// once, filters out already-present dates when asked, collects the rest
// sequentially, and saves once at the end.
type Runner struct {
	collector *Collector
	ledger    *ledger.Ledger
	logger    *logrus.Logger
}

// NewRunner creates a new Runner instance.
func NewRunner(collector *Collector, ledger *ledger.Ledger, logger *logrus.Logger) *Runner {
	return &Runner{
		collector: collector,
		ledger:    ledger,
		logger:    logger,
	}
}

// Run processes the given dates in order. A failed date is skipped rather
// than zero-filled; all failures are reported together after the run and
// make the whole run fail, but records for succeeded dates are still saved.
func (r *Runner) Run(ctx context.Context, dates []string, skipExisting bool) error {
	if err := r.ledger.Load(); err != nil {
		return err
	}

	if skipExisting {
		existing := r.ledger.Dates()
		pending := make([]string, 0, len(dates))
		for _, date := range dates {
			if !existing[date] {
				pending = append(pending, date)
			}
		}
		r.logger.Debugf("Skipping %d already-present dates", len(dates)-len(pending))
		dates = pending
	}
	if len(dates) == 0 {
		r.logger.Info("No dates to process.")
		return nil
	}
	r.logger.Infof("Dates to analyze: %s -> %s (%d days)", dates[0], dates[len(dates)-1], len(dates))

	var failed []string
	for i, date := range dates {
		r.logger.Infof("[%d/%d] Analyzing %s...", i+1, len(dates), date)
		rec, err := r.collector.CollectDay(ctx, date)
		if err != nil {
			r.logger.WithField("date", date).Errorf("Collection failed: %v", err)
			failed = append(failed, date)
			continue
		}
		r.ledger.Upsert(rec)
	}

	if err := r.ledger.Save(); err != nil {
		return err
	}
	if len(failed) > 0 {
		return fmt.Errorf("collection failed for %d of %d dates: %s", len(failed), len(dates), strings.Join(failed, ", "))
	}
	return nil
}
