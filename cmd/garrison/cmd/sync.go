package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/garrisonhq/garrison"
	"github.com/garrisonhq/garrison/pkg/logging"
)

var (
	syncAll  bool
	syncJSON bool
)

// syncCmd runs the resolve -> fetch -> extract -> replace pipeline.
var syncCmd = &cobra.Command{
	Use:   "sync [slug...]",
	Short: "Sync installation resources from the canonical directory",
	Long: `Sync resolves each installation against the canonical directory,
fetches its page, extracts resource records, and replaces the
installation's stored record set.

Pass one or more installation slugs to sync just those, or --all for every
eligible installation. Batch runs pause between fetches; expect a full run
to take minutes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !syncAll && len(args) == 0 {
			return fmt.Errorf("pass at least one installation slug or --all")
		}

		st, err := openStore()
		if err != nil {
			return err
		}
		defer func() {
			_ = st.Close()
		}()

		progress := garrison.WithProgress(func(processed, total int, result garrison.EntityResult) {
			logging.Info().
				Str("slug", result.Slug).
				Str("outcome", string(result.Outcome)).
				Msgf("Progress %d/%d", processed, total)
		})

		client, err := buildClient(st, progress)
		if err != nil {
			return err
		}

		var runOpts []garrison.SyncOption
		if !syncAll {
			runOpts = append(runOpts, garrison.WithOnly(args...))
		}

		report, err := client.Sync(cmd.Context(), runOpts...)
		if err != nil {
			return err
		}

		if syncJSON {
			return printJSON(report)
		}
		printReport(report)
		if report.StoreFailed > 0 {
			return fmt.Errorf("%d installation(s) failed to write", report.StoreFailed)
		}
		return nil
	},
}

// printReport prints the human-readable run summary.
func printReport(report *garrison.Report) {
	table := newTable(rootCmd.OutOrStdout())
	fmt.Fprintln(table, "SLUG\tOUTCOME\tMETHOD\tRESOURCES\tERROR")
	for _, res := range report.Results {
		fmt.Fprintf(table, "%s\t%s\t%s\t%d\t%s\n",
			res.Slug, res.Outcome, res.Method, res.ResourceCount, res.Error)
	}
	_ = table.Flush()

	fmt.Printf("\n%d total: %d synced, %d unmatched, %d fetch failed, %d empty, %d store failed (%s)\n",
		report.Total, report.Synced, report.Unmatched, report.FetchFailed,
		report.NoResources, report.StoreFailed, report.Duration.Round(100*time.Millisecond))
}

func init() {
	syncCmd.Flags().BoolVar(&syncAll, "all", false, "sync all eligible installations")
	syncCmd.Flags().BoolVar(&syncJSON, "json", false, "print the run report as JSON")
	rootCmd.AddCommand(syncCmd)
}
