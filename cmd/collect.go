// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/oss-metrics/adoption-tracker/internal/domain"
	"github.com/oss-metrics/adoption-tracker/internal/gateway"
	"github.com/oss-metrics/adoption-tracker/internal/ledger"
	"github.com/oss-metrics/adoption-tracker/internal/usecase"
)

const (
	defaultDailyCSV = "data/adoption_daily.csv"
	defaultReposCSV = "data/adoption_repos_daily.csv"

	// Deliberately below GitHub's 30/min authenticated search limit.
	defaultRequestsPerMinute = 10
)

var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Collects daily adoption counts into the CSV ledger",
	Long: `Queries the GitHub commit search API for each requested date and records
the per-pattern match counts, the all-commits denominator, and the distinct
repository count in the CSV ledger. With no date flags the most recent 7
complete UTC days are processed.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		logger := newLogger(cmd)

		token := os.Getenv("GITHUB_TOKEN")
		if token == "" {
			fmt.Fprintln(os.Stderr, "Error: GITHUB_TOKEN environment variable is not set.")
			os.Exit(1)
		}

		dates, err := resolveDates(cmd)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}

		output, _ := cmd.Flags().GetString("output")
		reposOutput, _ := cmd.Flags().GetString("repos-output")
		skipExisting, _ := cmd.Flags().GetBool("skip-existing")
		rpm, _ := cmd.Flags().GetInt("rpm")

		// Inject dependencies and run the main business logic.
		githubGateway, err := gateway.NewGitHubGateway(token, rpm, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create GitHub gateway: %v\n", err)
			os.Exit(1)
		}
		collector := usecase.NewCollector(githubGateway, logger)
		store := ledger.New(output, reposOutput)
		runner := usecase.NewRunner(collector, store, logger)

		if err := runner.Run(ctx, dates, skipExisting); err != nil {
			fmt.Fprintf(os.Stderr, "Collection run failed: %v\n", err)
			os.Exit(1)
		}
	},
}

// resolveDates turns the date flags into the inclusive list of dates to
// process: a single --date, a --from/--to range, or the last 7 complete
// UTC days when no flag is given.
func resolveDates(cmd *cobra.Command) ([]string, error) {
	dateStr, _ := cmd.Flags().GetString("date")
	fromStr, _ := cmd.Flags().GetString("from")
	toStr, _ := cmd.Flags().GetString("to")

	switch {
	case dateStr != "":
		if fromStr != "" || toStr != "" {
			return nil, fmt.Errorf("--date cannot be combined with --from/--to")
		}
		if _, err := domain.ParseDate(dateStr); err != nil {
			return nil, err
		}
		return []string{dateStr}, nil
	case fromStr != "":
		from, err := domain.ParseDate(fromStr)
		if err != nil {
			return nil, err
		}
		to := time.Now().UTC().AddDate(0, 0, -1)
		if toStr != "" {
			if to, err = domain.ParseDate(toStr); err != nil {
				return nil, err
			}
		}
		return domain.DateRange(from, to), nil
	case toStr != "":
		return nil, fmt.Errorf("--to requires --from")
	default:
		return domain.LastCompleteDays(7, time.Now()), nil
	}
}

func init() {
	rootCmd.AddCommand(collectCmd)
	collectCmd.Flags().String("date", "", "Single date to collect (YYYY-MM-DD)")
	collectCmd.Flags().String("from", "", "Start date of range (YYYY-MM-DD)")
	collectCmd.Flags().String("to", "", "End date of range (YYYY-MM-DD, defaults to yesterday)")
	collectCmd.Flags().Bool("skip-existing", false, "Skip dates already present in the ledger")
	collectCmd.Flags().String("output", defaultDailyCSV, "Path of the daily CSV ledger")
	collectCmd.Flags().String("repos-output", defaultReposCSV, "Path of the per-repository CSV (empty to disable)")
	collectCmd.Flags().Int("rpm", defaultRequestsPerMinute, "Request budget in requests per minute")
}
