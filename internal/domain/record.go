// Package domain contains the core data structures and domain logic for the application.
package domain

// DailyRecord holds the adoption counts observed for a single UTC calendar day.
// It is the core domain entity of this application: one row per date in the ledger.
type DailyRecord struct {
	Date          string   `json:"date"` // "2006-01-02" format, unique key
	CoAuthored    int      `json:"co_authored"`
	Generated     int      `json:"generated"`
	TotalCommits  int      `json:"total_commits"`
	DistinctRepos int      `json:"distinct_repos"`
	Repos         []string `json:"repos,omitempty"` // sorted, not part of the daily CSV row
}

// AdoptionRate returns max(CoAuthored, Generated) / TotalCommits.
// The two search patterns overlap almost completely in practice, so taking
// the max is a lower-bound estimate; summing them would double-count.
// The rate is undefined when TotalCommits is zero, signalled by ok=false.
func (r DailyRecord) AdoptionRate() (rate float64, ok bool) {
	if r.TotalCommits == 0 {
		return 0, false
	}
	matched := r.CoAuthored
	if r.Generated > matched {
		matched = r.Generated
	}
	return float64(matched) / float64(r.TotalCommits), true
}
