package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resourcesJSON bool

// resourcesCmd lists an installation's stored records.
var resourcesCmd = &cobra.Command{
	Use:   "resources <slug>",
	Short: "List stored resources for an installation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer func() {
			_ = st.Close()
		}()

		records, err := st.ListOwnedBy(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		if resourcesJSON {
			return printJSON(records)
		}

		table := newTable(rootCmd.OutOrStdout())
		fmt.Fprintln(table, "#\tCATEGORY\tNAME\tPHONE\tHOURS")
		for _, rec := range records {
			fmt.Fprintf(table, "%d\t%s\t%s\t%s\t%s\n",
				rec.SortIndex, categoryLabel(rec.Category), rec.Name, rec.Phone, rec.Hours)
		}
		_ = table.Flush()
		fmt.Printf("\n%d record(s) for %s\n", len(records), args[0])
		return nil
	},
}

func init() {
	resourcesCmd.Flags().BoolVar(&resourcesJSON, "json", false, "print records as JSON")
	rootCmd.AddCommand(resourcesCmd)
}
