package usecase

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/oss-metrics/adoption-tracker/internal/gateway"
)

// OverlapReport quantifies how much the two search patterns match the same
// commits on a given day. High containment of the generated pattern inside
// the co-authored one is what justifies the max() adoption estimator over a
// sum of the two counts.
type OverlapReport struct {
	Date              string
	CoAuthoredTotal   int
	GeneratedTotal    int
	CoAuthoredFetched int
	GeneratedFetched  int
	Overlap           int
	Union             int
	// Truncated is true when either query exceeds the search result
	// window, in which case the overlap is computed on a sample.
	Truncated bool
}

// GeneratedContainment is the share of fetched generated-pattern SHAs that
// also matched the co-authored pattern. ok is false when no generated SHAs
// were fetched.
func (r *OverlapReport) GeneratedContainment() (float64, bool) {
	if r.GeneratedFetched == 0 {
		return 0, false
	}
	return float64(r.Overlap) / float64(r.GeneratedFetched), true
}

// CoAuthoredContainment is the share of fetched co-authored SHAs that also
// matched the generated pattern.
func (r *OverlapReport) CoAuthoredContainment() (float64, bool) {
	if r.CoAuthoredFetched == 0 {
		return 0, false
	}
	return float64(r.Overlap) / float64(r.CoAuthoredFetched), true
}

// OverlapAnalyzer fetches per-pattern SHA samples and intersects them.
type OverlapAnalyzer struct {
	searcher gateway.Searcher
	logger   *logrus.Logger
}

// NewOverlapAnalyzer creates a new OverlapAnalyzer instance.
func NewOverlapAnalyzer(searcher gateway.Searcher, logger *logrus.Logger) *OverlapAnalyzer {
	return &OverlapAnalyzer{
		searcher: searcher,
		logger:   logger,
	}
}

// Analyze downloads up to the result window of SHAs for each pattern on the
// given date and computes the intersection and union sizes.
func (a *OverlapAnalyzer) Analyze(ctx context.Context, date string) (*OverlapReport, error) {
	a.logger.Infof("Fetching co-authored SHAs for %s...", date)
	coSample, err := a.searcher.Collect(ctx, dateQuery(QueryCoAuthored, date))
	if err != nil {
		return nil, fmt.Errorf("co-authored SHA collection for %s: %w", date, err)
	}
	a.logger.Infof("Fetching generated-with SHAs for %s...", date)
	genSample, err := a.searcher.Collect(ctx, dateQuery(QueryGenerated, date))
	if err != nil {
		return nil, fmt.Errorf("generated SHA collection for %s: %w", date, err)
	}

	coSet := make(map[string]struct{}, len(coSample.SHAs))
	for _, sha := range coSample.SHAs {
		coSet[sha] = struct{}{}
	}
	union := len(coSet)
	overlap := 0
	genSeen := make(map[string]struct{}, len(genSample.SHAs))
	for _, sha := range genSample.SHAs {
		if _, dup := genSeen[sha]; dup {
			continue
		}
		genSeen[sha] = struct{}{}
		if _, ok := coSet[sha]; ok {
			overlap++
		} else {
			union++
		}
	}

	return &OverlapReport{
		Date:              date,
		CoAuthoredTotal:   coSample.Total,
		GeneratedTotal:    genSample.Total,
		CoAuthoredFetched: len(coSet),
		GeneratedFetched:  len(genSeen),
		Overlap:           overlap,
		Union:             union,
		Truncated:         coSample.Total > gateway.MaxResults || genSample.Total > gateway.MaxResults,
	}, nil
}
