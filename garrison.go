// Package garrison maps a locally owned catalog of military installations
// onto a canonical external directory, scrapes each matched installation's
// page, and replaces that installation's stored resource records with the
// extracted set.
//
// The pipeline has three parts composed by the Client:
//   - the resolver matches local names against the canonical catalog's
//     naming scheme (internal/resolver)
//   - the extractor turns page markup into typed resource records
//     (internal/extractor)
//   - the sync loop drives resolve -> fetch -> extract -> replace for each
//     installation, sequentially, behind a fixed-interval gate
//
// Example usage:
//
//	st, err := store.Open("garrison.db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer st.Close()
//
//	client, err := garrison.New(
//	    garrison.WithCatalog(cat),
//	    garrison.WithInstallations(installations),
//	    garrison.WithStore(st),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	report, err := client.Sync(ctx)
package garrison

import (
	"context"
	"strings"

	"github.com/garrisonhq/garrison/internal/catalog"
	"github.com/garrisonhq/garrison/internal/extractor"
	"github.com/garrisonhq/garrison/internal/ratelimit"
	"github.com/garrisonhq/garrison/internal/resolver"
	"github.com/garrisonhq/garrison/internal/store"
	"github.com/garrisonhq/garrison/internal/transport"
	"github.com/garrisonhq/garrison/pkg/errors"
)

// Fetcher retrieves raw page markup for a canonical page URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Client drives the end-to-end sync pipeline.
type Client struct {
	catalog       *catalog.Catalog
	installations []catalog.Installation
	resolver      *resolver.Resolver
	extractor     *extractor.Extractor
	fetcher       Fetcher
	store         store.Store
	gate          ratelimit.Gate
	baseURL       string
	progress      ProgressFunc
}

// New creates a client. A catalog, an installation list, and a store are
// required; everything else has defaults.
func New(opts ...Option) (*Client, error) {
	c := &Client{
		resolver:  resolver.New(nil),
		extractor: extractor.New(nil),
		fetcher:   transport.New(),
		gate:      ratelimit.NewInterval(DefaultFetchInterval),
		baseURL:   DefaultBaseURL,
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	if c.catalog == nil {
		return nil, errors.NewConfigError("client", "a canonical catalog is required", nil)
	}
	if c.store == nil {
		return nil, errors.NewConfigError("client", "a store is required", nil)
	}
	return c, nil
}

// Resolver returns the client's resolver, for dry-run commands.
func (c *Client) Resolver() *resolver.Resolver {
	return c.resolver
}

// Catalog returns the canonical catalog snapshot.
func (c *Client) Catalog() *catalog.Catalog {
	return c.catalog
}

// PageURL builds the canonical page URL for an identifier.
func (c *Client) PageURL(id string) string {
	return strings.TrimRight(c.baseURL, "/") + "/" + id
}
