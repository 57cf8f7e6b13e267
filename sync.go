package garrison

import (
	"context"
	"time"

	"github.com/garrisonhq/garrison/internal/catalog"
	"github.com/garrisonhq/garrison/pkg/logging"
)

// SyncOption configures a single sync run.
type SyncOption func(*syncOptions)

type syncOptions struct {
	only map[string]bool
}

// WithOnly restricts the run to the given installation slugs.
func WithOnly(slugs ...string) SyncOption {
	return func(o *syncOptions) {
		if o.only == nil {
			o.only = make(map[string]bool, len(slugs))
		}
		for _, s := range slugs {
			o.only[s] = true
		}
	}
}

// Sync runs the pipeline over every eligible installation, strictly
// sequentially: one installation is fully resolved, fetched, extracted,
// and replaced before the next begins. No installation's failure affects
// any other's processing; the run always returns a report. The only error
// returned is context cancellation, and even then the partial report comes
// back with it.
func (c *Client) Sync(ctx context.Context, opts ...SyncOption) (*Report, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	var options syncOptions
	for _, opt := range opts {
		opt(&options)
	}

	targets := c.targets(options)
	report := &Report{
		Total:     len(targets),
		StartedAt: time.Now(),
	}

	logging.Info().
		Int("installations", len(targets)).
		Int("catalog_entries", c.catalog.Len()).
		Msg("Starting resource sync")

	for i, inst := range targets {
		if err := ctx.Err(); err != nil {
			report.Duration = time.Since(report.StartedAt)
			return report, err
		}

		result := c.syncOne(ctx, inst)
		report.add(result)

		if c.progress != nil {
			c.progress(i+1, len(targets), result)
		}
	}

	report.Duration = time.Since(report.StartedAt)
	logging.Info().
		Int("synced", report.Synced).
		Int("unmatched", report.Unmatched).
		Int("fetch_failed", report.FetchFailed).
		Int("no_resources", report.NoResources).
		Int("store_failed", report.StoreFailed).
		Dur("duration", report.Duration).
		Msg("Resource sync complete")
	return report, nil
}

// syncOne runs the pipeline for a single installation. Every early return
// before the replace step leaves the store untouched: absence of a match
// or a failed fetch carries no information about current truth, so prior
// synced data must survive it.
func (c *Client) syncOne(ctx context.Context, inst catalog.Installation) EntityResult {
	result := EntityResult{Slug: inst.Slug, Name: inst.Name}

	// Step 1: resolve against the canonical catalog.
	match := c.resolver.Resolve(inst.Name, inst.Slug, c.catalog)
	if match == nil {
		logging.Debug().Str("slug", inst.Slug).Msg("No catalog match")
		result.Outcome = OutcomeUnmatched
		return result
	}
	result.Method = match.Method.String()
	result.CanonicalID = match.ID
	logging.Debug().
		Str("slug", inst.Slug).
		Str("canonical_id", match.ID).
		Str("method", match.Method.String()).
		Msg("Resolved installation")

	// Step 2: wait out the fetch gate, then fetch the canonical page. The
	// gate fires before every fetch regardless of earlier outcomes; it
	// protects the remote origin, not local pacing.
	if err := c.gate.Wait(ctx); err != nil {
		result.Outcome = OutcomeFetchFailed
		result.Error = err.Error()
		return result
	}
	url := c.PageURL(match.ID)
	markup, err := c.fetcher.Fetch(ctx, url)
	if err != nil {
		logging.Warn().Err(err).Str("slug", inst.Slug).Str("url", url).Msg("Fetch failed")
		result.Outcome = OutcomeFetchFailed
		result.Error = err.Error()
		return result
	}

	// Step 3: extract resources. Section failures are isolated; they get
	// logged but never discard sibling sections.
	resources, extractErrs := c.extractor.ExtractAll(markup)
	for _, extractErr := range extractErrs {
		logging.Warn().Err(extractErr).Str("slug", inst.Slug).Msg("Section extraction failed")
	}
	if len(resources) == 0 {
		logging.Warn().Str("slug", inst.Slug).Str("url", url).
			Msg("Page yielded no resources; possible classification-rule gap")
		result.Outcome = OutcomeNoResources
		return result
	}

	// Step 4: replace the installation's record set as one unit.
	if err := c.store.Replace(ctx, inst.Slug, resources); err != nil {
		logging.Error().Err(err).Str("slug", inst.Slug).
			Int("resources", len(resources)).
			Msg("Store replace failed; prior records retained")
		result.Outcome = OutcomeStoreFailed
		result.Error = err.Error()
		return result
	}

	result.Outcome = OutcomeSynced
	result.ResourceCount = len(resources)
	logging.Info().
		Str("slug", inst.Slug).
		Int("resources", len(resources)).
		Msg("Installation synced")
	return result
}

// targets applies the run's slug filter to the installation list.
func (c *Client) targets(options syncOptions) []catalog.Installation {
	if options.only == nil {
		return c.installations
	}
	var filtered []catalog.Installation
	for _, inst := range c.installations {
		if options.only[inst.Slug] {
			filtered = append(filtered, inst)
		}
	}
	return filtered
}
