// Package rules loads the matching and classification tables from an
// optional YAML file. Every rule the pipeline applies (rename aliases,
// normalization substitutions, category keywords) lives in a table row, so
// teaching the system a new rename or heading never touches matching
// logic. Missing sections fall back to the compiled-in defaults.
package rules

import (
	"os"

	"github.com/goccy/go-yaml"

	"github.com/garrisonhq/garrison/internal/extractor"
	"github.com/garrisonhq/garrison/internal/resolver"
	"github.com/garrisonhq/garrison/pkg/errors"
)

// File is the on-disk rules document.
type File struct {
	// Aliases maps a renamed installation's current name prefix to the
	// historical name the canonical catalog still uses.
	Aliases map[string]string `yaml:"aliases"`

	// Substitutions is the ordered long-form -> abbreviation list used in
	// name normalization.
	Substitutions []resolver.Substitution `yaml:"substitutions"`

	// Categories is the ordered heading keyword -> category table.
	Categories []extractor.CategoryRule `yaml:"categories"`
}

// Default returns a File holding the compiled-in tables.
func Default() *File {
	return &File{
		Aliases:       resolver.DefaultAliases(),
		Substitutions: resolver.DefaultSubstitutions,
		Categories:    extractor.DefaultCategoryRules,
	}
}

// Load reads a rules file. An empty path returns the defaults.
func Load(path string) (*File, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.WrapParse("yaml", path, err)
	}
	if f.Aliases == nil {
		f.Aliases = resolver.DefaultAliases()
	}
	if f.Substitutions == nil {
		f.Substitutions = resolver.DefaultSubstitutions
	}
	if f.Categories == nil {
		f.Categories = extractor.DefaultCategoryRules
	}
	for _, rule := range f.Categories {
		if !rule.Category.Valid() {
			return nil, errors.NewConfigError("rules",
				"unknown category "+string(rule.Category)+" for keyword "+rule.Keyword, nil)
		}
	}
	return &f, nil
}

// ResolverConfig materializes the resolver's tables.
func (f *File) ResolverConfig() *resolver.Config {
	return &resolver.Config{
		Aliases:       f.Aliases,
		Substitutions: f.Substitutions,
	}
}

// CategoryRules materializes the extractor's keyword table.
func (f *File) CategoryRules() []extractor.CategoryRule {
	return f.Categories
}
