package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/oss-metrics/adoption-tracker/internal/domain"
	"github.com/oss-metrics/adoption-tracker/internal/gateway"
	"github.com/oss-metrics/adoption-tracker/internal/usecase"
)

var overlapCmd = &cobra.Command{
	Use:   "overlap",
	Short: "Measures SHA overlap between the two search patterns for a date",
	Long: `Downloads up to the search result window of commit SHAs for each of the
two attribution patterns on a given date and reports how many commits match
both. A high overlap justifies estimating adoption with the larger of the
two counts instead of their sum.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		logger := newLogger(cmd)

		token := os.Getenv("GITHUB_TOKEN")
		if token == "" {
			fmt.Fprintln(os.Stderr, "Error: GITHUB_TOKEN environment variable is not set.")
			os.Exit(1)
		}
		dateStr, _ := cmd.Flags().GetString("date")
		if _, err := domain.ParseDate(dateStr); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		rpm, _ := cmd.Flags().GetInt("rpm")

		githubGateway, err := gateway.NewGitHubGateway(token, rpm, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create GitHub gateway: %v\n", err)
			os.Exit(1)
		}
		analyzer := usecase.NewOverlapAnalyzer(githubGateway, logger)

		report, err := analyzer.Analyze(ctx, dateStr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Overlap analysis failed: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Overlap verification - %s\n", report.Date)
		fmt.Printf("co_authored  total: %d, fetched: %d\n", report.CoAuthoredTotal, report.CoAuthoredFetched)
		fmt.Printf("generated    total: %d, fetched: %d\n", report.GeneratedTotal, report.GeneratedFetched)
		fmt.Printf("overlap (intersection): %d\n", report.Overlap)
		fmt.Printf("union (unique commits): %d\n", report.Union)
		if pct, ok := report.GeneratedContainment(); ok {
			fmt.Printf("generated in co_authored: %.1f%%\n", pct*100)
		}
		if pct, ok := report.CoAuthoredContainment(); ok {
			fmt.Printf("co_authored in generated: %.1f%%\n", pct*100)
		}
		if report.Truncated {
			fmt.Println("Note: at least one query exceeds the result window; overlap is computed on a sample.")
		} else {
			fmt.Println("Complete data: all SHAs were fetched.")
		}
	},
}

func init() {
	rootCmd.AddCommand(overlapCmd)
	overlapCmd.Flags().String("date", "", "Date to verify (YYYY-MM-DD)")
	overlapCmd.MarkFlagRequired("date")
	overlapCmd.Flags().Int("rpm", defaultRequestsPerMinute, "Request budget in requests per minute")
}
