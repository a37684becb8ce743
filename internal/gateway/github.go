// Package gateway provides a gateway to the GitHub commit search API,
// abstracting away the underlying REST client, pagination, and rate limiting.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/go-github/v62/github"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"
)

const (
	// MaxResults is GitHub's documented search result window: no query can
	// retrieve more than the first 1,000 matches regardless of total_count.
	MaxResults = 1000
	pageSize   = 100

	maxAttempts    = 3
	defaultBackoff = 10 * time.Second
)

// ErrMissingToken indicates that no authentication credential was supplied.
var ErrMissingToken = errors.New("GITHUB_TOKEN environment variable is not set")

// RateLimitedError is returned when secondary rate limiting persisted
// through every retry attempt for a query.
type RateLimitedError struct {
	Query    string
	Attempts int
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("secondary rate limit persisted after %d attempts for query %q", e.Attempts, e.Query)
}

// CommitSample is the aggregate of one paginated commit search: the
// server-reported total plus the repositories and SHAs actually retrieved,
// which is capped at the search result window.
type CommitSample struct {
	Total int
	Repos map[string]struct{}
	SHAs  []string
}

// Searcher defines the behavior of a gateway for querying commit search.
type Searcher interface {
	// Count issues a single request and returns the server-reported total
	// match count without paginating.
	Count(ctx context.Context, query string) (int, error)
	// Collect walks successive result pages, accumulating repository names
	// and commit SHAs up to the search result window.
	Collect(ctx context.Context, query string) (*CommitSample, error)
}

// GitHubGateway is the concrete implementation of the Searcher interface.
type GitHubGateway struct {
	client *github.Client
	pace   *pacer
	logger *logrus.Logger
}

// NewGitHubGateway builds a gateway whose transport adds the bearer token
// and transparently waits out primary rate limit windows. Proactive request
// spacing comes from the requests-per-minute budget.
func NewGitHubGateway(token string, requestsPerMinute int, logger *logrus.Logger) (*GitHubGateway, error) {
	if token == "" {
		return nil, ErrMissingToken
	}
	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil, github_ratelimit.WithSingleSleepLimit(1*time.Hour, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	httpClient := &http.Client{
		Transport: &oauth2.Transport{
			Base:   rateLimitWaiter,
			Source: ts,
		},
	}
	return &GitHubGateway{
		client: github.NewClient(httpClient),
		pace:   newPacer(requestsPerMinute),
		logger: logger,
	}, nil
}

func (g *GitHubGateway) Count(ctx context.Context, query string) (int, error) {
	opts := &github.SearchOptions{ListOptions: github.ListOptions{PerPage: 1}}
	result, _, err := g.search(ctx, query, opts)
	if err != nil {
		return 0, fmt.Errorf("failed to count commits for query %q: %w", query, err)
	}
	return result.GetTotal(), nil
}

func (g *GitHubGateway) Collect(ctx context.Context, query string) (*CommitSample, error) {
	opts := &github.SearchOptions{
		Sort:        "committer-date",
		Order:       "desc",
		ListOptions: github.ListOptions{PerPage: pageSize},
	}
	sample := &CommitSample{Repos: make(map[string]struct{})}
	fetched := 0
	for {
		result, resp, err := g.search(ctx, query, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to search commits for query %q: %w", query, err)
		}
		sample.Total = result.GetTotal()
		for _, commit := range result.Commits {
			if repo := commit.GetRepository().GetFullName(); repo != "" {
				sample.Repos[repo] = struct{}{}
			}
			if sha := commit.GetSHA(); sha != "" {
				sample.SHAs = append(sample.SHAs, sha)
			}
			fetched++
			if fetched >= MaxResults {
				break
			}
		}
		if fetched >= MaxResults || len(result.Commits) < pageSize || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
		g.logger.Debugf("  Fetching next page of commits for %q (%d so far)...", query, fetched)
	}
	g.logger.WithFields(logrus.Fields{
		"query":   query,
		"total":   sample.Total,
		"fetched": fetched,
	}).Debug("Completed paginated commit search")
	return sample, nil
}

// search issues one paced search request, retrying secondary rate limit
// rejections with a bounded backoff. All other failures are returned as-is.
func (g *GitHubGateway) search(ctx context.Context, query string, opts *github.SearchOptions) (*github.CommitsSearchResult, *github.Response, error) {
	for attempt := 1; ; attempt++ {
		g.pace.wait()
		result, resp, err := g.client.Search.Commits(ctx, query, opts)
		if err == nil {
			return result, resp, nil
		}
		var abuse *github.AbuseRateLimitError
		if !errors.As(err, &abuse) {
			return nil, resp, err
		}
		if attempt >= maxAttempts {
			return nil, nil, &RateLimitedError{Query: query, Attempts: attempt}
		}
		backoff := defaultBackoff
		if d := abuse.GetRetryAfter(); d > 0 {
			backoff = d
		}
		g.logger.WithFields(logrus.Fields{
			"query":   query,
			"attempt": attempt,
		}).Warnf("Secondary rate limit hit, backing off %s", backoff)
		g.pace.sleep(backoff)
	}
}
