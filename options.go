package garrison

import (
	"time"

	"github.com/garrisonhq/garrison/internal/catalog"
	"github.com/garrisonhq/garrison/internal/extractor"
	"github.com/garrisonhq/garrison/internal/ratelimit"
	"github.com/garrisonhq/garrison/internal/resolver"
	"github.com/garrisonhq/garrison/internal/store"
	"github.com/garrisonhq/garrison/pkg/errors"
)

// Defaults for the sync pipeline.
const (
	// DefaultFetchInterval is the minimum spacing between page fetches.
	// This is a contract with the remote origin, not a tunable.
	DefaultFetchInterval = 3 * time.Second

	// DefaultBaseURL is the canonical directory's per-installation page root.
	DefaultBaseURL = "https://installations.militaryonesource.mil/military-installation"
)

// Option is a function that configures a Client.
type Option func(*Client) error

// WithCatalog sets the canonical catalog snapshot.
func WithCatalog(cat *catalog.Catalog) Option {
	return func(c *Client) error {
		if cat == nil {
			return errors.NewConfigError("client", "catalog must not be nil", nil)
		}
		c.catalog = cat
		return nil
	}
}

// WithInstallations sets the locally owned installation list.
func WithInstallations(installations []catalog.Installation) Option {
	return func(c *Client) error {
		c.installations = installations
		return nil
	}
}

// WithStore sets the resource store.
func WithStore(s store.Store) Option {
	return func(c *Client) error {
		c.store = s
		return nil
	}
}

// WithFetcher sets the page fetcher. Mainly for tests.
func WithFetcher(f Fetcher) Option {
	return func(c *Client) error {
		c.fetcher = f
		return nil
	}
}

// WithGate sets the inter-fetch gate. Tests inject ratelimit.Nop() so runs
// never sleep.
func WithGate(g ratelimit.Gate) Option {
	return func(c *Client) error {
		c.gate = g
		return nil
	}
}

// WithFetchInterval replaces the gate with a fixed-interval gate of the
// given spacing.
func WithFetchInterval(interval time.Duration) Option {
	return func(c *Client) error {
		if interval < 0 {
			return errors.NewConfigError("client", "fetch interval must not be negative", nil)
		}
		c.gate = ratelimit.NewInterval(interval)
		return nil
	}
}

// WithBaseURL sets the canonical directory's page URL root.
func WithBaseURL(url string) Option {
	return func(c *Client) error {
		if url == "" {
			return errors.NewConfigError("client", "base URL must not be empty", nil)
		}
		c.baseURL = url
		return nil
	}
}

// WithResolver sets a resolver built from custom rules.
func WithResolver(r *resolver.Resolver) Option {
	return func(c *Client) error {
		c.resolver = r
		return nil
	}
}

// WithExtractor sets an extractor built from custom category rules.
func WithExtractor(e *extractor.Extractor) Option {
	return func(c *Client) error {
		c.extractor = e
		return nil
	}
}

// ProgressFunc is called after each installation finishes, with the count
// processed so far and the total. Batch runs take minutes because of the
// mandatory fetch spacing, so progress must be observable incrementally.
type ProgressFunc func(processed, total int, result EntityResult)

// WithProgress registers a progress callback.
func WithProgress(fn ProgressFunc) Option {
	return func(c *Client) error {
		c.progress = fn
		return nil
	}
}
