package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/garrisonhq/garrison/internal/resolver"
)

var (
	resolveSlug string
	resolveAll  bool
	resolveJSON bool
)

// resolveResult is the JSON shape for resolve output.
type resolveResult struct {
	Name        string `json:"name"`
	Slug        string `json:"slug,omitempty"`
	Matched     bool   `json:"matched"`
	Canonical   string `json:"canonical_name,omitempty"`
	CanonicalID string `json:"canonical_id,omitempty"`
	Method      string `json:"method,omitempty"`
}

// resolveCmd dry-runs the name resolver without fetching or writing.
var resolveCmd = &cobra.Command{
	Use:   "resolve [name]",
	Short: "Match installation names against the canonical directory",
	Long: `Resolve runs the matching strategies against the canonical catalog
without fetching or writing anything. Useful for checking why an
installation is unmatched, or with --all for the full gap report.`,
	RunE: func(_ *cobra.Command, args []string) error {
		ruleFile, err := loadRules()
		if err != nil {
			return err
		}
		cat, err := loadCatalog()
		if err != nil {
			return err
		}
		res := resolver.New(ruleFile.ResolverConfig())

		if resolveAll {
			installations, err := loadInstallations()
			if err != nil {
				return err
			}
			var results []resolveResult
			for _, inst := range installations {
				results = append(results, toResolveResult(inst.Name, inst.Slug,
					res.Resolve(inst.Name, inst.Slug, cat)))
			}
			if resolveJSON {
				return printJSON(results)
			}
			printResolveTable(results)
			return nil
		}

		if len(args) != 1 {
			return fmt.Errorf("pass an installation name or --all")
		}
		result := toResolveResult(args[0], resolveSlug, res.Resolve(args[0], resolveSlug, cat))
		if resolveJSON {
			return printJSON(result)
		}
		if !result.Matched {
			fmt.Printf("%s: no match\n", result.Name)
			return nil
		}
		fmt.Printf("%s -> %s (%s) via %s\n",
			result.Name, result.Canonical, result.CanonicalID, result.Method)
		return nil
	},
}

func toResolveResult(name, slug string, m *resolver.Match) resolveResult {
	result := resolveResult{Name: name, Slug: slug}
	if m != nil {
		result.Matched = true
		result.Canonical = m.Name
		result.CanonicalID = m.ID
		result.Method = m.Method.String()
	}
	return result
}

func printResolveTable(results []resolveResult) {
	table := newTable(rootCmd.OutOrStdout())
	fmt.Fprintln(table, "NAME\tMATCHED\tCANONICAL\tMETHOD")
	unmatched := 0
	for _, r := range results {
		if !r.Matched {
			unmatched++
			fmt.Fprintf(table, "%s\tno\t\t\n", r.Name)
			continue
		}
		fmt.Fprintf(table, "%s\tyes\t%s\t%s\n", r.Name, r.Canonical, r.Method)
	}
	_ = table.Flush()
	fmt.Printf("\n%d of %d unmatched\n", unmatched, len(results))
}

func init() {
	resolveCmd.Flags().StringVar(&resolveSlug, "slug", "", "local slug to try as a canonical identifier")
	resolveCmd.Flags().BoolVar(&resolveAll, "all", false, "resolve every installation in the local list")
	resolveCmd.Flags().BoolVar(&resolveJSON, "json", false, "print results as JSON")
	rootCmd.AddCommand(resolveCmd)
}
