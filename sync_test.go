package garrison

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garrisonhq/garrison/internal/catalog"
	"github.com/garrisonhq/garrison/internal/extractor"
	"github.com/garrisonhq/garrison/internal/ratelimit"
	"github.com/garrisonhq/garrison/internal/store"
	"github.com/garrisonhq/garrison/pkg/errors"
	"github.com/garrisonhq/garrison/pkg/logging"
)

func TestMain(m *testing.M) {
	logging.SetDefault(logging.Nop)
	os.Exit(m.Run())
}

// fakeFetcher serves canned page bodies keyed by the canonical identifier
// at the end of the requested URL.
type fakeFetcher struct {
	pages map[string]string
	err   error
	urls  []string
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) (string, error) {
	f.urls = append(f.urls, url)
	if f.err != nil {
		return "", f.err
	}
	id := url[strings.LastIndex(url, "/")+1:]
	body, ok := f.pages[id]
	if !ok {
		return "", errors.NewFetchError(url, 404, "Not Found")
	}
	return body, nil
}

// countingGate records how many times the sync loop waited on it.
type countingGate struct {
	calls int
}

func (g *countingGate) Wait(ctx context.Context) error {
	g.calls++
	return ctx.Err()
}

const braggPage = `## Housing

**Housing Services Office**
Assists incoming families with on-post housing assignments and referrals.
Phone: 910-555-7100

## Medical

**Womack Army Medical Center**
Full-service hospital serving soldiers, retirees, and their families.
Hours: Mon-Fri 0700-1700
`

const campbellPage = `## Dental

**Kuhn Dental Clinic**
Routine and emergency dental care for active duty service members.
`

func testCatalog() *catalog.Catalog {
	return catalog.New(map[string]string{
		"Fort Bragg":    "fort-bragg-001",
		"Fort Campbell": "fort-campbell-002",
	})
}

func newTestClient(t *testing.T, st store.Store, fetcher Fetcher, installations []catalog.Installation, extra ...Option) *Client {
	t.Helper()
	opts := []Option{
		WithCatalog(testCatalog()),
		WithInstallations(installations),
		WithStore(st),
		WithFetcher(fetcher),
		WithGate(ratelimit.Nop()),
	}
	opts = append(opts, extra...)
	client, err := New(opts...)
	require.NoError(t, err)
	return client
}

func TestSyncEndToEnd(t *testing.T) {
	st := store.NewMemory()
	fetcher := &fakeFetcher{pages: map[string]string{"fort-bragg-001": braggPage}}
	client := newTestClient(t, st, fetcher, []catalog.Installation{
		{Name: "Fort Liberty", Slug: "liberty"},
	})

	report, err := client.Sync(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.Total)
	assert.Equal(t, 1, report.Synced)
	require.Len(t, report.Results, 1)

	result := report.Results[0]
	assert.Equal(t, OutcomeSynced, result.Outcome)
	assert.Equal(t, "alias", result.Method)
	assert.Equal(t, "fort-bragg-001", result.CanonicalID)
	assert.Equal(t, 2, result.ResourceCount)

	records, err := st.ListOwnedBy(context.Background(), "liberty")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Housing Services Office", records[0].Name)
	assert.Equal(t, extractor.CategoryHousing, records[0].Category)
	assert.Equal(t, "910-555-7100", records[0].Phone)
	assert.Equal(t, "Womack Army Medical Center", records[1].Name)
	assert.Equal(t, extractor.CategoryMedical, records[1].Category)
	assert.Equal(t, "Hours: Mon-Fri 0700-1700", records[1].Hours)
}

func TestSyncIsIdempotent(t *testing.T) {
	st := store.NewMemory()
	fetcher := &fakeFetcher{pages: map[string]string{"fort-bragg-001": braggPage}}
	client := newTestClient(t, st, fetcher, []catalog.Installation{
		{Name: "Fort Liberty", Slug: "liberty"},
	})

	_, err := client.Sync(context.Background())
	require.NoError(t, err)
	first, err := st.ListOwnedBy(context.Background(), "liberty")
	require.NoError(t, err)

	_, err = client.Sync(context.Background())
	require.NoError(t, err)
	second, err := st.ListOwnedBy(context.Background(), "liberty")
	require.NoError(t, err)

	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].Resource, second[i].Resource)
		assert.Equal(t, first[i].SortIndex, second[i].SortIndex)
	}
}

func TestSyncUnmatchedLeavesStoreUntouched(t *testing.T) {
	st := store.NewMemory()
	prior := []extractor.Resource{{Category: extractor.CategoryOther, Name: "Prior Record"}}
	require.NoError(t, st.InsertBatch(context.Background(), "obscure", prior))

	fetcher := &fakeFetcher{pages: map[string]string{}}
	gate := &countingGate{}
	client := newTestClient(t, st, fetcher, []catalog.Installation{
		{Name: "Completely Unknown Post", Slug: "obscure"},
	}, WithGate(gate))

	report, err := client.Sync(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.Unmatched)
	assert.Equal(t, OutcomeUnmatched, report.Results[0].Outcome)

	// No match means no fetch and no gate wait.
	assert.Empty(t, fetcher.urls)
	assert.Zero(t, gate.calls)

	records, err := st.ListOwnedBy(context.Background(), "obscure")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Prior Record", records[0].Name)
}

func TestSyncFetchFailureLeavesStoreUntouched(t *testing.T) {
	st := store.NewMemory()
	prior := []extractor.Resource{{Category: extractor.CategoryOther, Name: "Prior Record"}}
	require.NoError(t, st.InsertBatch(context.Background(), "liberty", prior))

	fetcher := &fakeFetcher{err: errors.NewFetchError("http://example.test", 503, "Service Unavailable")}
	client := newTestClient(t, st, fetcher, []catalog.Installation{
		{Name: "Fort Liberty", Slug: "liberty"},
	})

	report, err := client.Sync(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.FetchFailed)
	assert.Equal(t, OutcomeFetchFailed, report.Results[0].Outcome)
	assert.NotEmpty(t, report.Results[0].Error)

	records, err := st.ListOwnedBy(context.Background(), "liberty")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Prior Record", records[0].Name)
}

func TestSyncNoResourcesLeavesStoreUntouched(t *testing.T) {
	st := store.NewMemory()
	prior := []extractor.Resource{{Category: extractor.CategoryOther, Name: "Prior Record"}}
	require.NoError(t, st.InsertBatch(context.Background(), "liberty", prior))

	fetcher := &fakeFetcher{pages: map[string]string{
		"fort-bragg-001": "Just a paragraph with no headed sections at all.\n",
	}}
	client := newTestClient(t, st, fetcher, []catalog.Installation{
		{Name: "Fort Liberty", Slug: "liberty"},
	})

	report, err := client.Sync(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.NoResources)
	assert.Equal(t, OutcomeNoResources, report.Results[0].Outcome)

	records, err := st.ListOwnedBy(context.Background(), "liberty")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Prior Record", records[0].Name)
}

func TestSyncStoreFailureRetainsPriorRecords(t *testing.T) {
	st := store.NewMemory()
	prior := []extractor.Resource{{Category: extractor.CategoryOther, Name: "Prior Record"}}
	require.NoError(t, st.InsertBatch(context.Background(), "liberty", prior))
	st.FailInsert = errors.New("disk full")

	fetcher := &fakeFetcher{pages: map[string]string{"fort-bragg-001": braggPage}}
	client := newTestClient(t, st, fetcher, []catalog.Installation{
		{Name: "Fort Liberty", Slug: "liberty"},
	})

	report, err := client.Sync(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.StoreFailed)
	assert.Equal(t, OutcomeStoreFailed, report.Results[0].Outcome)

	records, err := st.ListOwnedBy(context.Background(), "liberty")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Prior Record", records[0].Name)
}

func TestSyncGateFiresOncePerFetch(t *testing.T) {
	st := store.NewMemory()
	fetcher := &fakeFetcher{pages: map[string]string{
		"fort-bragg-001":    braggPage,
		"fort-campbell-002": campbellPage,
	}}
	gate := &countingGate{}
	client := newTestClient(t, st, fetcher, []catalog.Installation{
		{Name: "Fort Liberty", Slug: "liberty"},
		{Name: "Completely Unknown Post", Slug: "obscure"},
		{Name: "Fort Campbell", Slug: "campbell"},
	}, WithGate(gate))

	report, err := client.Sync(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, report.Synced)
	assert.Equal(t, 1, report.Unmatched)
	assert.Equal(t, 2, gate.calls)
	assert.Len(t, fetcher.urls, 2)
}

func TestSyncWithOnlyFiltersTargets(t *testing.T) {
	st := store.NewMemory()
	fetcher := &fakeFetcher{pages: map[string]string{
		"fort-bragg-001":    braggPage,
		"fort-campbell-002": campbellPage,
	}}
	client := newTestClient(t, st, fetcher, []catalog.Installation{
		{Name: "Fort Liberty", Slug: "liberty"},
		{Name: "Fort Campbell", Slug: "campbell"},
	})

	report, err := client.Sync(context.Background(), WithOnly("campbell"))
	require.NoError(t, err)

	assert.Equal(t, 1, report.Total)
	require.Len(t, report.Results, 1)
	assert.Equal(t, "campbell", report.Results[0].Slug)

	records, err := st.ListOwnedBy(context.Background(), "liberty")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestSyncFailureIsolation(t *testing.T) {
	st := store.NewMemory()
	fetcher := &fakeFetcher{pages: map[string]string{
		// Fort Bragg's page is missing; Fort Campbell's is fine.
		"fort-campbell-002": campbellPage,
	}}
	client := newTestClient(t, st, fetcher, []catalog.Installation{
		{Name: "Fort Liberty", Slug: "liberty"},
		{Name: "Fort Campbell", Slug: "campbell"},
	})

	report, err := client.Sync(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.FetchFailed)
	assert.Equal(t, 1, report.Synced)

	records, err := st.ListOwnedBy(context.Background(), "campbell")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Kuhn Dental Clinic", records[0].Name)
}

func TestSyncCanceledContextReturnsPartialReport(t *testing.T) {
	st := store.NewMemory()
	fetcher := &fakeFetcher{pages: map[string]string{"fort-bragg-001": braggPage}}
	client := newTestClient(t, st, fetcher, []catalog.Installation{
		{Name: "Fort Liberty", Slug: "liberty"},
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := client.Sync(ctx)
	require.Error(t, err)
	require.NotNil(t, report)
	assert.Equal(t, 1, report.Total)
	assert.Empty(t, report.Results)
}

func TestSyncProgressCallback(t *testing.T) {
	st := store.NewMemory()
	fetcher := &fakeFetcher{pages: map[string]string{"fort-bragg-001": braggPage}}

	var seen []EntityResult
	var totals []int
	client := newTestClient(t, st, fetcher, []catalog.Installation{
		{Name: "Fort Liberty", Slug: "liberty"},
		{Name: "Completely Unknown Post", Slug: "obscure"},
	}, WithProgress(func(processed, total int, result EntityResult) {
		seen = append(seen, result)
		totals = append(totals, total)
	}))

	_, err := client.Sync(context.Background())
	require.NoError(t, err)

	require.Len(t, seen, 2)
	assert.Equal(t, []int{2, 2}, totals)
	assert.Equal(t, "liberty", seen[0].Slug)
	assert.Equal(t, "obscure", seen[1].Slug)
}

func TestNewRequiresCatalogAndStore(t *testing.T) {
	_, err := New(WithStore(store.NewMemory()))
	require.Error(t, err)

	_, err = New(WithCatalog(testCatalog()))
	require.Error(t, err)
}

func TestPageURL(t *testing.T) {
	client := newTestClient(t, store.NewMemory(), &fakeFetcher{}, nil,
		WithBaseURL("https://example.test/base/"))

	assert.Equal(t, "https://example.test/base/fort-bragg-001",
		client.PageURL("fort-bragg-001"))
}
