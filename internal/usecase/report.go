package usecase

import (
	"fmt"

	"github.com/montanaflynn/stats"

	"github.com/oss-metrics/adoption-tracker/internal/domain"
)

// Summary aggregates adoption rates across the ledger. Days with a zero
// total-commit denominator carry no rate and are excluded from the
// statistics.
type Summary struct {
	Days       int
	RatedDays  int
	MeanRate   float64
	MedianRate float64
	MaxRate    float64
}

// Summarize computes rate statistics over the given records.
func Summarize(records []domain.DailyRecord) (*Summary, error) {
	summary := &Summary{Days: len(records)}
	var rates []float64
	for _, rec := range records {
		if rate, ok := rec.AdoptionRate(); ok {
			rates = append(rates, rate)
		}
	}
	summary.RatedDays = len(rates)
	if len(rates) == 0 {
		return summary, nil
	}

	var err error
	if summary.MeanRate, err = stats.Mean(rates); err != nil {
		return nil, fmt.Errorf("failed to compute mean rate: %w", err)
	}
	if summary.MedianRate, err = stats.Median(rates); err != nil {
		return nil, fmt.Errorf("failed to compute median rate: %w", err)
	}
	if summary.MaxRate, err = stats.Max(rates); err != nil {
		return nil, fmt.Errorf("failed to compute max rate: %w", err)
	}
	return summary, nil
}
