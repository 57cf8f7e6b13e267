package cmd

import (
	"encoding/json"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/viper"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/garrisonhq/garrison"
	"github.com/garrisonhq/garrison/internal/catalog"
	"github.com/garrisonhq/garrison/internal/extractor"
	"github.com/garrisonhq/garrison/internal/resolver"
	"github.com/garrisonhq/garrison/internal/rules"
	"github.com/garrisonhq/garrison/internal/store"
)

// titleCaser renders category slugs and method names for table output.
var titleCaser = cases.Title(language.AmericanEnglish)

// categoryLabel turns a category slug into its display form
// ("family-support" -> "Family-Support").
func categoryLabel(c extractor.Category) string {
	return titleCaser.String(string(c))
}

// loadRules reads the configured rules file, or the defaults.
func loadRules() (*rules.File, error) {
	return rules.Load(viper.GetString("rules"))
}

// loadCatalog reads the canonical catalog snapshot.
func loadCatalog() (*catalog.Catalog, error) {
	return catalog.LoadCatalog(viper.GetString("catalog"))
}

// loadInstallations reads the local installation list.
func loadInstallations() ([]catalog.Installation, error) {
	return catalog.LoadInstallations(viper.GetString("installations"))
}

// openStore opens the configured sqlite store.
func openStore() (store.Store, error) {
	return store.Open(viper.GetString("db"))
}

// buildClient assembles a sync client from configuration. Callers are
// responsible for closing the returned store.
func buildClient(st store.Store, extra ...garrison.Option) (*garrison.Client, error) {
	ruleFile, err := loadRules()
	if err != nil {
		return nil, err
	}
	cat, err := loadCatalog()
	if err != nil {
		return nil, err
	}
	installations, err := loadInstallations()
	if err != nil {
		return nil, err
	}

	opts := []garrison.Option{
		garrison.WithCatalog(cat),
		garrison.WithInstallations(installations),
		garrison.WithStore(st),
		garrison.WithResolver(resolver.New(ruleFile.ResolverConfig())),
		garrison.WithExtractor(extractor.New(ruleFile.CategoryRules())),
		garrison.WithBaseURL(viper.GetString("base-url")),
		garrison.WithFetchInterval(viper.GetDuration("interval")),
	}
	opts = append(opts, extra...)
	return garrison.New(opts...)
}

// printJSON writes v to stdout as indented JSON.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// newTable returns a tabwriter for aligned table output.
func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}
