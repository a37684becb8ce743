package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/oss-metrics/adoption-tracker/internal/ledger"
	"github.com/oss-metrics/adoption-tracker/internal/usecase"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Prints per-day adoption rates and summary statistics",
	Run: func(cmd *cobra.Command, args []string) {
		output, _ := cmd.Flags().GetString("output")

		store := ledger.New(output, "")
		if err := store.Load(); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load ledger: %v\n", err)
			os.Exit(1)
		}
		records := store.Records()
		if len(records) == 0 {
			fmt.Println("Ledger is empty, nothing to report.")
			return
		}

		fmt.Printf("%-12s %12s %12s %14s %14s %10s\n",
			"date", "co_authored", "generated", "total_commits", "distinct_repos", "rate")
		for _, rec := range records {
			rate := "n/a"
			if r, ok := rec.AdoptionRate(); ok {
				rate = fmt.Sprintf("%.5f", r)
			}
			fmt.Printf("%-12s %12d %12d %14d %14d %10s\n",
				rec.Date, rec.CoAuthored, rec.Generated, rec.TotalCommits, rec.DistinctRepos, rate)
		}

		summary, err := usecase.Summarize(records)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to summarize ledger: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("\nDays recorded:  %d (%d with a usable denominator)\n", summary.Days, summary.RatedDays)
		if summary.RatedDays > 0 {
			fmt.Printf("Mean rate:      %.5f\n", summary.MeanRate)
			fmt.Printf("Median rate:    %.5f\n", summary.MedianRate)
			fmt.Printf("Max rate:       %.5f\n", summary.MaxRate)
		}
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().String("output", defaultDailyCSV, "Path of the daily CSV ledger")
}
