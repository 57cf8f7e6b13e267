// Package resolver matches locally owned installation names against the
// canonical catalog's naming scheme. Strategies run in strict precedence
// order and the first one to produce a candidate wins; there is no scoring
// or blending across strategies. Cheap, unambiguous wins come first and the
// expensive fuzzy match comes last.
package resolver

import (
	"sort"
	"strings"

	"github.com/garrisonhq/garrison/internal/catalog"
)

// Method identifies which strategy produced a match.
type Method int

const (
	// MethodAlias matched through the rename-alias table.
	MethodAlias Method = iota
	// MethodExactID matched because the local slug is itself a canonical identifier.
	MethodExactID
	// MethodExactName matched on normalized-name equality.
	MethodExactName
	// MethodNameContains matched on normalized-name containment.
	MethodNameContains
	// MethodIDContains matched on raw identifier containment.
	MethodIDContains
	// MethodEditDistance matched on bounded Levenshtein distance.
	MethodEditDistance
)

// String returns the method name used in logs and reports.
func (m Method) String() string {
	switch m {
	case MethodAlias:
		return "alias"
	case MethodExactID:
		return "exact-id"
	case MethodExactName:
		return "exact-name"
	case MethodNameContains:
		return "name-containment"
	case MethodIDContains:
		return "id-containment"
	case MethodEditDistance:
		return "edit-distance"
	default:
		return "unknown"
	}
}

// Match is a successful resolution. It is logged and used immediately by
// the sync loop, never stored.
type Match struct {
	Name   string // canonical display name
	ID     string // canonical identifier
	Method Method
}

// Thresholds for the fuzzy strategies. The containment ratios keep short
// strings from trivially matching everything that contains them; the edit
// distance caps bound both long-string and short-string false positives.
const (
	minContainmentLen  = 6
	nameContainRatio   = 0.5
	idContainRatio     = 0.65
	maxEditDistance    = 2
	maxEditDistanceRel = 0.15
)

// Config carries the resolver's lookup tables. Both tables are treated as
// immutable once the resolver is constructed.
type Config struct {
	// Aliases maps a renamed installation's current name prefix to the
	// historical name the canonical catalog still uses, lowercased.
	Aliases map[string]string

	// Substitutions is the ordered phrase-substitution list applied
	// during normalization.
	Substitutions []Substitution
}

// DefaultConfig returns the built-in alias table and substitution list.
func DefaultConfig() *Config {
	return &Config{
		Aliases:       DefaultAliases(),
		Substitutions: DefaultSubstitutions,
	}
}

// DefaultAliases maps the 2023 Army installation renames back to the
// historical names still used by the canonical catalog.
func DefaultAliases() map[string]string {
	return map[string]string{
		"fort liberty":     "fort bragg",
		"fort moore":       "fort benning",
		"fort cavazos":     "fort hood",
		"fort novosel":     "fort rucker",
		"fort eisenhower":  "fort gordon",
		"fort gregg-adams": "fort lee",
		"fort barfoot":     "fort pickett",
		"fort johnson":     "fort polk",
		"fort walker":      "fort a.p. hill",
	}
}

// Resolver matches local installations to canonical catalog entries.
type Resolver struct {
	aliases   map[string]string
	aliasKeys []string // sorted for deterministic iteration
	norm      *normalizer
}

// New creates a resolver from the given config. A nil config uses the
// built-in tables.
func New(cfg *Config) *Resolver {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	subs := cfg.Substitutions
	if subs == nil {
		subs = DefaultSubstitutions
	}
	keys := make([]string, 0, len(cfg.Aliases))
	for k := range cfg.Aliases {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return &Resolver{
		aliases:   cfg.Aliases,
		aliasKeys: keys,
		norm:      &normalizer{subs: subs},
	}
}

// Normalize exposes the resolver's normalization transform, mainly for the
// CLI's dry-run output.
func (r *Resolver) Normalize(name string) string {
	return r.norm.Normalize(name)
}

// Resolve finds the best canonical match for a local installation. A nil
// result means no strategy produced a candidate; that is a normal outcome,
// not an error, and callers must skip the installation rather than fail.
func (r *Resolver) Resolve(localName, localSlug string, cat *catalog.Catalog) *Match {
	if m := r.resolveAlias(localName, cat); m != nil {
		return m
	}
	if m := r.resolveExactID(localSlug, cat); m != nil {
		return m
	}
	if m := r.resolveExactName(localName, cat); m != nil {
		return m
	}
	if m := r.resolveNameContainment(localName, cat); m != nil {
		return m
	}
	if m := r.resolveIDContainment(localSlug, cat); m != nil {
		return m
	}
	return r.resolveEditDistance(localName, cat)
}

// resolveAlias handles installations renamed at the source but still listed
// under their historical name in the canonical catalog.
func (r *Resolver) resolveAlias(localName string, cat *catalog.Catalog) *Match {
	lower := strings.ToLower(localName)
	for _, key := range r.aliasKeys {
		if !strings.HasPrefix(lower, key) {
			continue
		}
		historical := r.aliases[key]
		for _, name := range cat.Names() {
			if strings.HasPrefix(strings.ToLower(name), historical) {
				id, _ := cat.Lookup(name)
				return &Match{Name: name, ID: id, Method: MethodAlias}
			}
		}
	}
	return nil
}

// resolveExactID accepts the local slug directly when it is already a
// valid canonical identifier.
func (r *Resolver) resolveExactID(localSlug string, cat *catalog.Catalog) *Match {
	if localSlug == "" {
		return nil
	}
	if name, ok := cat.NameForID(localSlug); ok {
		return &Match{Name: name, ID: localSlug, Method: MethodExactID}
	}
	return nil
}

// resolveExactName accepts on normalized-name equality.
func (r *Resolver) resolveExactName(localName string, cat *catalog.Catalog) *Match {
	local := r.norm.Normalize(localName)
	if local == "" {
		return nil
	}
	for _, name := range cat.Names() {
		if r.norm.Normalize(name) == local {
			id, _ := cat.Lookup(name)
			return &Match{Name: name, ID: id, Method: MethodExactName}
		}
	}
	return nil
}

// resolveNameContainment accepts when one normalized name contains the
// other, guarded by a minimum length and a length ratio so short strings
// cannot trivially match everything that contains them.
func (r *Resolver) resolveNameContainment(localName string, cat *catalog.Catalog) *Match {
	local := r.norm.Normalize(localName)
	if len(local) < minContainmentLen {
		return nil
	}
	for _, name := range cat.Names() {
		canonical := r.norm.Normalize(name)
		if len(canonical) < minContainmentLen {
			continue
		}
		if !containsEither(local, canonical) {
			continue
		}
		if lengthRatio(local, canonical) > nameContainRatio {
			id, _ := cat.Lookup(name)
			return &Match{Name: name, ID: id, Method: MethodNameContains}
		}
	}
	return nil
}

// resolveIDContainment is the containment strategy over raw identifiers,
// with a stricter ratio than the name-based variant.
func (r *Resolver) resolveIDContainment(localSlug string, cat *catalog.Catalog) *Match {
	if len(localSlug) < minContainmentLen {
		return nil
	}
	for _, name := range cat.Names() {
		id, _ := cat.Lookup(name)
		if len(id) < minContainmentLen {
			continue
		}
		if !containsEither(localSlug, id) {
			continue
		}
		if lengthRatio(localSlug, id) > idContainRatio {
			return &Match{Name: name, ID: id, Method: MethodIDContains}
		}
	}
	return nil
}

// resolveEditDistance is the last-resort fuzzy match. It takes the minimum
// Levenshtein distance over the catalog and accepts only when both the
// absolute and the relative cap hold. Ties at the minimum distance resolve
// to the first canonical name in catalog iteration order; see DESIGN.md.
func (r *Resolver) resolveEditDistance(localName string, cat *catalog.Catalog) *Match {
	local := r.norm.Normalize(localName)
	if local == "" {
		return nil
	}

	bestDist := -1
	var bestName, bestNorm string
	for _, name := range cat.Names() {
		canonical := r.norm.Normalize(name)
		if canonical == "" {
			continue
		}
		d := levenshtein(local, canonical)
		if bestDist == -1 || d < bestDist {
			bestDist = d
			bestName = name
			bestNorm = canonical
		}
	}
	if bestDist < 0 || bestDist > maxEditDistance {
		return nil
	}
	longest := max(len(local), len(bestNorm))
	if float64(bestDist)/float64(longest) > maxEditDistanceRel {
		return nil
	}
	id, _ := cat.Lookup(bestName)
	return &Match{Name: bestName, ID: id, Method: MethodEditDistance}
}

// containsEither reports whether either string contains the other.
func containsEither(a, b string) bool {
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// lengthRatio returns min(len)/max(len) for two non-empty strings.
func lengthRatio(a, b string) float64 {
	shorter, longer := len(a), len(b)
	if shorter > longer {
		shorter, longer = longer, shorter
	}
	if longer == 0 {
		return 0
	}
	return float64(shorter) / float64(longer)
}
