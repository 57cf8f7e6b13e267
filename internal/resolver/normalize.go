package resolver

import "strings"

// Substitution rewrites one long-form phrase to its standard abbreviation
// during normalization. Substitutions are applied in slice order, so longer
// phrases must come before their prefixes ("naval air station" before
// "naval station").
type Substitution struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// DefaultSubstitutions collapses the long-form military terms that appear
// inconsistently between local names and the canonical catalog.
var DefaultSubstitutions = []Substitution{
	{"air force base", "afb"},
	{"air force station", "afs"},
	{"air reserve base", "arb"},
	{"air national guard base", "angb"},
	{"space force base", "sfb"},
	{"marine corps air station", "mcas"},
	{"marine corps logistics base", "mclb"},
	{"marine corps base", "mcb"},
	{"naval air station", "nas"},
	{"naval air facility", "naf"},
	{"naval support activity", "nsa"},
	{"naval weapons station", "nws"},
	{"naval submarine base", "subase"},
	{"naval station", "ns"},
	{"naval base", "nb"},
	{"joint expeditionary base", "jeb"},
	{"joint base", "jb"},
	{"coast guard air station", "cgas"},
	{"army airfield", "aaf"},
	{"fort", "ft"},
}

// normalizer applies the deterministic lowercase + phrase-substitution +
// non-alphanumeric-stripping transform used before every name comparison.
type normalizer struct {
	subs []Substitution
}

// Normalize transforms a display name into its comparable form.
func (n *normalizer) Normalize(name string) string {
	s := strings.ToLower(name)
	for _, sub := range n.subs {
		s = strings.ReplaceAll(s, sub.From, sub.To)
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
