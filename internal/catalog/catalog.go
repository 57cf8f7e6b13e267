// Package catalog holds the two inputs of a sync run: the locally owned
// list of installations and the canonical name->identifier dictionary they
// are matched against. Both are loaded once per run and treated as
// read-only snapshots.
package catalog

import (
	"os"
	"sort"

	"github.com/goccy/go-yaml"

	"github.com/garrisonhq/garrison/pkg/errors"
)

// Installation is a locally owned entity. Read-only input to the resolver;
// immutable for the duration of a run.
type Installation struct {
	Name string `yaml:"name" json:"name"`
	Slug string `yaml:"slug" json:"slug"`
}

// Catalog is a read-only snapshot of the canonical display name ->
// identifier dictionary. Iteration order is the sorted name order, so
// first-seen-wins tie-breaks are stable across runs.
type Catalog struct {
	byName map[string]string
	byID   map[string]string
	names  []string // sorted
}

// New builds a catalog snapshot from a name->identifier map.
func New(entries map[string]string) *Catalog {
	c := &Catalog{
		byName: make(map[string]string, len(entries)),
		byID:   make(map[string]string, len(entries)),
		names:  make([]string, 0, len(entries)),
	}
	for name, id := range entries {
		c.byName[name] = id
		c.byID[id] = name
		c.names = append(c.names, name)
	}
	sort.Strings(c.names)
	return c
}

// Len returns the number of canonical entries.
func (c *Catalog) Len() int {
	return len(c.names)
}

// Names returns canonical display names in sorted order. The returned
// slice is shared; callers must not mutate it.
func (c *Catalog) Names() []string {
	return c.names
}

// Lookup returns the identifier for a canonical display name.
func (c *Catalog) Lookup(name string) (string, bool) {
	id, ok := c.byName[name]
	return id, ok
}

// HasID reports whether id is a valid canonical identifier.
func (c *Catalog) HasID(id string) bool {
	_, ok := c.byID[id]
	return ok
}

// NameForID returns the canonical display name for an identifier.
func (c *Catalog) NameForID(id string) (string, bool) {
	name, ok := c.byID[id]
	return name, ok
}

// catalogFile is the on-disk shape of the canonical dictionary.
type catalogFile struct {
	Installations map[string]string `yaml:"installations"`
}

// LoadCatalog reads a canonical catalog snapshot from a YAML file.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, errors.WrapParse("yaml", path, err)
	}
	if len(file.Installations) == 0 {
		return nil, errors.NewConfigError("catalog", "no installations in catalog file "+path, nil)
	}
	return New(file.Installations), nil
}

// installationsFile is the on-disk shape of the local installation list.
type installationsFile struct {
	Installations []Installation `yaml:"installations"`
}

// LoadInstallations reads the locally owned installation list from a YAML file.
func LoadInstallations(path string) ([]Installation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}
	var file installationsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, errors.WrapParse("yaml", path, err)
	}
	for _, inst := range file.Installations {
		if inst.Slug == "" || inst.Name == "" {
			return nil, errors.NewConfigError("installations",
				"every installation needs both a name and a slug", nil)
		}
	}
	return file.Installations, nil
}
