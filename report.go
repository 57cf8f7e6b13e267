package garrison

import "time"

// Outcome classifies how one installation fared during a sync run.
type Outcome string

// Per-installation outcomes. Unmatched and no-resources are expected
// conditions, not failures; they are tallied separately so a
// classification-rule gap never looks like a transient fetch problem.
const (
	// OutcomeSynced means the installation's record set was replaced.
	OutcomeSynced Outcome = "synced"
	// OutcomeUnmatched means no catalog match was found; the store was
	// not touched.
	OutcomeUnmatched Outcome = "unmatched"
	// OutcomeFetchFailed means the page fetch failed; the store was not
	// touched.
	OutcomeFetchFailed Outcome = "fetch-failed"
	// OutcomeNoResources means the page fetched but yielded nothing; the
	// store was not touched.
	OutcomeNoResources Outcome = "no-resources"
	// OutcomeStoreFailed means the replace failed. The prior records are
	// still in place (replace is transactional), but the run flags it
	// loudly for operator attention.
	OutcomeStoreFailed Outcome = "store-failed"
)

// EntityResult is the outcome for one installation.
type EntityResult struct {
	Slug          string  `json:"slug"`
	Name          string  `json:"name"`
	Outcome       Outcome `json:"outcome"`
	Method        string  `json:"method,omitempty"` // resolver strategy, when matched
	CanonicalID   string  `json:"canonical_id,omitempty"`
	ResourceCount int     `json:"resource_count,omitempty"`
	Error         string  `json:"error,omitempty"`
}

// Report tallies a whole run. The run always completes; individual
// failures are isolated to their installation and show up here, never as a
// returned error.
type Report struct {
	Results []EntityResult `json:"results"`

	Total       int `json:"total"`
	Synced      int `json:"synced"`
	Unmatched   int `json:"unmatched"`
	FetchFailed int `json:"fetch_failed"`
	NoResources int `json:"no_resources"`
	StoreFailed int `json:"store_failed"`

	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
}

// add records one installation's result and bumps the matching tally.
func (r *Report) add(res EntityResult) {
	r.Results = append(r.Results, res)
	switch res.Outcome {
	case OutcomeSynced:
		r.Synced++
	case OutcomeUnmatched:
		r.Unmatched++
	case OutcomeFetchFailed:
		r.FetchFailed++
	case OutcomeNoResources:
		r.NoResources++
	case OutcomeStoreFailed:
		r.StoreFailed++
	}
}
