// Package ledger maintains the append-only, date-indexed CSV store of
// daily adoption records.
package ledger

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/oss-metrics/adoption-tracker/internal/domain"
)

var dailyHeader = []string{"date", "co_authored", "generated", "total_commits", "distinct_repos"}
var repoHeader = []string{"date", "repo"}

// Ledger holds the full set of daily records in memory between Load and
// Save. One row per date; dates are unique keys sorted ascending on disk.
type Ledger struct {
	dailyPath string
	reposPath string
	rows      map[string]domain.DailyRecord
}

// New creates a ledger backed by the given daily CSV path. reposPath names
// the sidecar file listing the distinct repositories per date; pass "" to
// skip the sidecar entirely.
func New(dailyPath, reposPath string) *Ledger {
	return &Ledger{
		dailyPath: dailyPath,
		reposPath: reposPath,
		rows:      make(map[string]domain.DailyRecord),
	}
}

// Load reads existing rows from storage. A missing file yields an empty
// ledger; a malformed file is an error rather than a silent empty one.
func (l *Ledger) Load() error {
	if err := l.loadDaily(); err != nil {
		return err
	}
	return l.loadRepos()
}

func (l *Ledger) loadDaily() error {
	f, err := os.Open(l.dailyPath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to open ledger %s: %w", l.dailyPath, err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return fmt.Errorf("failed to parse ledger %s: %w", l.dailyPath, err)
	}
	for i, row := range records {
		if i == 0 {
			continue // header
		}
		if len(row) != len(dailyHeader) {
			return fmt.Errorf("ledger %s row %d: expected %d columns, got %d", l.dailyPath, i+1, len(dailyHeader), len(row))
		}
		rec := domain.DailyRecord{Date: row[0]}
		for j, dst := range []*int{&rec.CoAuthored, &rec.Generated, &rec.TotalCommits, &rec.DistinctRepos} {
			v, err := strconv.Atoi(row[j+1])
			if err != nil {
				return fmt.Errorf("ledger %s row %d column %s: %w", l.dailyPath, i+1, dailyHeader[j+1], err)
			}
			*dst = v
		}
		l.rows[rec.Date] = rec
	}
	return nil
}

func (l *Ledger) loadRepos() error {
	if l.reposPath == "" {
		return nil
	}
	f, err := os.Open(l.reposPath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to open repo ledger %s: %w", l.reposPath, err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return fmt.Errorf("failed to parse repo ledger %s: %w", l.reposPath, err)
	}
	for i, row := range records {
		if i == 0 || len(row) != 2 {
			continue
		}
		if rec, ok := l.rows[row[0]]; ok {
			rec.Repos = append(rec.Repos, row[1])
			l.rows[row[0]] = rec
		}
	}
	return nil
}

// Dates returns the set of dates currently present, for skip-existing.
func (l *Ledger) Dates() map[string]bool {
	dates := make(map[string]bool, len(l.rows))
	for d := range l.rows {
		dates[d] = true
	}
	return dates
}

// Records returns all rows sorted ascending by date.
func (l *Ledger) Records() []domain.DailyRecord {
	recs := make([]domain.DailyRecord, 0, len(l.rows))
	for _, rec := range l.rows {
		recs = append(recs, rec)
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].Date < recs[j].Date })
	return recs
}

// Upsert inserts or replaces the row for rec.Date.
func (l *Ledger) Upsert(rec domain.DailyRecord) {
	l.rows[rec.Date] = rec
}

// Len reports the number of rows held.
func (l *Ledger) Len() int {
	return len(l.rows)
}

// Save persists all rows sorted ascending by date. Each file is written to
// a temp file in the destination directory and renamed into place, so a
// partial write never replaces a good file.
func (l *Ledger) Save() error {
	recs := l.Records()

	daily := [][]string{dailyHeader}
	for _, rec := range recs {
		daily = append(daily, []string{
			rec.Date,
			strconv.Itoa(rec.CoAuthored),
			strconv.Itoa(rec.Generated),
			strconv.Itoa(rec.TotalCommits),
			strconv.Itoa(rec.DistinctRepos),
		})
	}
	if err := writeCSV(l.dailyPath, daily); err != nil {
		return err
	}

	if l.reposPath == "" {
		return nil
	}
	repos := [][]string{repoHeader}
	for _, rec := range recs {
		for _, repo := range rec.Repos {
			repos = append(repos, []string{rec.Date, repo})
		}
	}
	return writeCSV(l.reposPath, repos)
}

func writeCSV(path string, rows [][]string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.WriteAll(rows); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file for %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
