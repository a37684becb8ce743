// Package usecase contains the business logic of the application.
package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/oss-metrics/adoption-tracker/internal/domain"
	"github.com/oss-metrics/adoption-tracker/internal/gateway"
)

// The two textual patterns that identify assistant-attributed commits.
// Commit trailers carry the issuer domain; generated-with lines carry the
// tool name.
const (
	QueryCoAuthored = `"Co-authored-by" "anthropic.com"`
	QueryGenerated  = `"Generated with Claude Code"`
)

// dateQuery scopes a search pattern to a single UTC calendar day.
func dateQuery(pattern, date string) string {
	return fmt.Sprintf("%s committer-date:%s", pattern, date)
}

// Collector produces one DailyRecord per date from the commit search API.
// It is pure with respect to local state: its only side effects are the
// outbound requests made through the injected Searcher.
type Collector struct {
	searcher gateway.Searcher
	logger   *logrus.Logger
}

// NewCollector creates a new Collector instance.
func NewCollector(searcher gateway.Searcher, logger *logrus.Logger) *Collector {
	return &Collector{
		searcher: searcher,
		logger:   logger,
	}
}

// CollectDay gathers the counts for a single date: the server-reported
// totals for both patterns and the broad all-commits query, plus the
// deduplicated repository union across paginated results of both patterns.
func (c *Collector) CollectDay(ctx context.Context, date string) (domain.DailyRecord, error) {
	rec := domain.DailyRecord{Date: date}
	coQuery := dateQuery(QueryCoAuthored, date)
	genQuery := dateQuery(QueryGenerated, date)
	totalQuery := "committer-date:" + date

	var err error
	c.logger.Debugf("[1/5] Counting co-authored commits for %s...", date)
	if rec.CoAuthored, err = c.searcher.Count(ctx, coQuery); err != nil {
		return domain.DailyRecord{}, fmt.Errorf("co-authored count for %s: %w", date, err)
	}
	c.logger.Debugf("[2/5] Counting generated-with commits for %s...", date)
	if rec.Generated, err = c.searcher.Count(ctx, genQuery); err != nil {
		return domain.DailyRecord{}, fmt.Errorf("generated count for %s: %w", date, err)
	}
	c.logger.Debugf("[3/5] Counting all commits for %s...", date)
	if rec.TotalCommits, err = c.searcher.Count(ctx, totalQuery); err != nil {
		return domain.DailyRecord{}, fmt.Errorf("total commit count for %s: %w", date, err)
	}

	repos := make(map[string]struct{})
	for i, query := range []string{coQuery, genQuery} {
		c.logger.Debugf("[%d/5] Collecting repositories for %s...", i+4, date)
		sample, err := c.searcher.Collect(ctx, query)
		if err != nil {
			return domain.DailyRecord{}, fmt.Errorf("repository collection for %s: %w", date, err)
		}
		for repo := range sample.Repos {
			repos[repo] = struct{}{}
		}
	}
	rec.DistinctRepos = len(repos)
	rec.Repos = make([]string, 0, len(repos))
	for repo := range repos {
		rec.Repos = append(rec.Repos, repo)
	}
	sort.Strings(rec.Repos)

	c.logger.WithFields(logrus.Fields{
		"date":           date,
		"co_authored":    rec.CoAuthored,
		"generated":      rec.Generated,
		"total_commits":  rec.TotalCommits,
		"distinct_repos": rec.DistinctRepos,
	}).Info("Collected daily record")
	return rec, nil
}
