package usecase

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/oss-metrics/adoption-tracker/internal/domain"
	"github.com/oss-metrics/adoption-tracker/internal/ledger"
)

func expectDay(searcher *mockSearcher, date string, co, gen, total int) {
	searcher.On("Count", mock.Anything, QueryCoAuthored+" committer-date:"+date).Return(co, nil)
	searcher.On("Count", mock.Anything, QueryGenerated+" committer-date:"+date).Return(gen, nil)
	searcher.On("Count", mock.Anything, "committer-date:"+date).Return(total, nil)
	searcher.On("Collect", mock.Anything, QueryCoAuthored+" committer-date:"+date).Return(sampleOf("org/repo-"+date), nil)
	searcher.On("Collect", mock.Anything, QueryGenerated+" committer-date:"+date).Return(sampleOf(), nil)
}

func TestRunner_Run(t *testing.T) {
	dir := t.TempDir()
	daily := filepath.Join(dir, "daily.csv")
	repos := filepath.Join(dir, "repos.csv")

	searcher := new(mockSearcher)
	expectDay(searcher, "2026-02-10", 850, 620, 172676)
	expectDay(searcher, "2026-02-11", 900, 700, 180000)

	logger := discardLogger()
	runner := NewRunner(NewCollector(searcher, logger), ledger.New(daily, repos), logger)
	require.NoError(t, runner.Run(context.Background(), []string{"2026-02-10", "2026-02-11"}, false))

	saved := ledger.New(daily, repos)
	require.NoError(t, saved.Load())
	recs := saved.Records()
	require.Len(t, recs, 2)
	assert.Equal(t, 172676, recs[0].TotalCommits)
	assert.Equal(t, 180000, recs[1].TotalCommits)
	searcher.AssertExpectations(t)
}

func TestRunner_SkipExistingLeavesRowsUntouched(t *testing.T) {
	dir := t.TempDir()
	daily := filepath.Join(dir, "daily.csv")
	repos := filepath.Join(dir, "repos.csv")

	// Seed the ledger with one date.
	seed := ledger.New(daily, repos)
	seed.Upsert(domain.DailyRecord{Date: "2026-02-10", CoAuthored: 850, Generated: 620, TotalCommits: 172676, DistinctRepos: 1, Repos: []string{"org/alpha"}})
	require.NoError(t, seed.Save())
	before, err := os.ReadFile(daily)
	require.NoError(t, err)

	// Only the missing date may be collected.
	searcher := new(mockSearcher)
	expectDay(searcher, "2026-02-11", 900, 700, 180000)

	logger := discardLogger()
	runner := NewRunner(NewCollector(searcher, logger), ledger.New(daily, repos), logger)
	require.NoError(t, runner.Run(context.Background(), []string{"2026-02-10", "2026-02-11"}, true))
	searcher.AssertExpectations(t)

	after, err := os.ReadFile(daily)
	require.NoError(t, err)
	// The pre-existing row is byte-identical after the second run.
	existingRow := "2026-02-10,850,620,172676,1"
	assert.Contains(t, string(before), existingRow)
	assert.Contains(t, string(after), existingRow)

	// A second skip-existing run over the same range changes nothing at all.
	idle := new(mockSearcher)
	runner = NewRunner(NewCollector(idle, logger), ledger.New(daily, repos), logger)
	require.NoError(t, runner.Run(context.Background(), []string{"2026-02-10", "2026-02-11"}, true))
	final, err := os.ReadFile(daily)
	require.NoError(t, err)
	assert.Equal(t, after, final)
	idle.AssertNotCalled(t, "Count", mock.Anything, mock.Anything)
}

func TestRunner_ContinuesPastFailedDates(t *testing.T) {
	dir := t.TempDir()
	daily := filepath.Join(dir, "daily.csv")

	searcher := new(mockSearcher)
	searcher.On("Count", mock.Anything, QueryCoAuthored+" committer-date:2026-02-10").Return(0, errors.New("github api error"))
	expectDay(searcher, "2026-02-11", 900, 700, 180000)

	logger := discardLogger()
	runner := NewRunner(NewCollector(searcher, logger), ledger.New(daily, ""), logger)
	err := runner.Run(context.Background(), []string{"2026-02-10", "2026-02-11"}, false)

	// The run fails overall but names the failed date.
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2026-02-10")
	assert.Contains(t, err.Error(), "1 of 2")

	// The succeeded date was still saved; the failed one was not zero-filled.
	saved := ledger.New(daily, "")
	require.NoError(t, saved.Load())
	recs := saved.Records()
	require.Len(t, recs, 1)
	assert.Equal(t, "2026-02-11", recs[0].Date)
	content, err := os.ReadFile(daily)
	require.NoError(t, err)
	assert.False(t, strings.Contains(string(content), "2026-02-10"))
}

func TestRunner_EmptyRangeIsANoOp(t *testing.T) {
	dir := t.TempDir()
	daily := filepath.Join(dir, "daily.csv")
	logger := discardLogger()
	runner := NewRunner(NewCollector(new(mockSearcher), logger), ledger.New(daily, ""), logger)
	require.NoError(t, runner.Run(context.Background(), nil, false))
	// No save happened for an empty range.
	_, err := os.Stat(daily)
	assert.True(t, os.IsNotExist(err))
}
