package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDailyRecord_AdoptionRate(t *testing.T) {
	testCases := []struct {
		name         string
		record       DailyRecord
		expectedRate float64
		expectOK     bool
	}{
		{
			name:         "co-authored dominates",
			record:       DailyRecord{Date: "2026-02-10", CoAuthored: 850, Generated: 620, TotalCommits: 172676},
			expectedRate: 850.0 / 172676.0,
			expectOK:     true,
		},
		{
			name:         "generated dominates",
			record:       DailyRecord{CoAuthored: 100, Generated: 300, TotalCommits: 1000},
			expectedRate: 0.3,
			expectOK:     true,
		},
		{
			name:     "undefined at zero denominator",
			record:   DailyRecord{CoAuthored: 850, Generated: 620, TotalCommits: 0},
			expectOK: false,
		},
		{
			name:         "zero matches is a zero rate, not undefined",
			record:       DailyRecord{TotalCommits: 5000},
			expectedRate: 0,
			expectOK:     true,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rate, ok := tc.record.AdoptionRate()
			assert.Equal(t, tc.expectOK, ok)
			if tc.expectOK {
				assert.InDelta(t, tc.expectedRate, rate, 1e-9)
				assert.GreaterOrEqual(t, rate, 0.0)
				assert.LessOrEqual(t, rate, 1.0)
			}
		})
	}
}

func TestDailyRecord_AdoptionRateWorkedExample(t *testing.T) {
	rec := DailyRecord{Date: "2026-02-10", CoAuthored: 850, Generated: 620, TotalCommits: 172676}
	rate, ok := rec.AdoptionRate()
	assert.True(t, ok)
	assert.InDelta(t, 0.00492, rate, 0.00001)
}
