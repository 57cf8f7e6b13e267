package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/garrisonhq/garrison/internal/extractor"
	"github.com/garrisonhq/garrison/pkg/errors"
	"github.com/garrisonhq/garrison/pkg/logging"
)

var extractJSON bool

// extractCmd runs the extractor over a saved page, for rule debugging.
var extractCmd = &cobra.Command{
	Use:   "extract <file>",
	Short: "Extract resources from a saved page",
	Long: `Extract runs the content extractor over a saved markdown or HTML file
and prints the resources it finds. Handy for tuning category keywords
against a page that synced as empty.`,
	Args: cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return errors.WrapIO("read", args[0], err)
		}
		ruleFile, err := loadRules()
		if err != nil {
			return err
		}

		ext := extractor.New(ruleFile.CategoryRules())
		resources, extractErrs := ext.ExtractAll(string(data))
		for _, extractErr := range extractErrs {
			logging.Warn().Err(extractErr).Msg("Section extraction failed")
		}

		if extractJSON {
			return printJSON(resources)
		}

		table := newTable(rootCmd.OutOrStdout())
		fmt.Fprintln(table, "CATEGORY\tNAME\tPHONE\tWEBSITE\tHOURS")
		for _, res := range resources {
			fmt.Fprintf(table, "%s\t%s\t%s\t%s\t%s\n",
				categoryLabel(res.Category), res.Name, res.Phone, res.Website, res.Hours)
		}
		_ = table.Flush()
		fmt.Printf("\n%d resource(s)\n", len(resources))
		return nil
	},
}

func init() {
	extractCmd.Flags().BoolVar(&extractJSON, "json", false, "print resources as JSON")
	rootCmd.AddCommand(extractCmd)
}
