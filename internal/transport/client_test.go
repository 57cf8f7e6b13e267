package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garrisonhq/garrison/pkg/errors"
)

func TestFetchSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte("## Housing\nOn-post housing office details here.\n"))
	}))
	defer server.Close()

	c := New()
	body, err := c.Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Contains(t, body, "## Housing")
}

func TestFetchNon2xxIsFetchError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	c := New()
	_, err := c.Fetch(context.Background(), server.URL)
	require.Error(t, err)

	var fetchErr *errors.FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, http.StatusNotFound, fetchErr.StatusCode)
	assert.ErrorIs(t, err, errors.ErrNotFound)
}

func TestFetchRateLimitedStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	c := New()
	_, err := c.Fetch(context.Background(), server.URL)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrRateLimited)
}

func TestFetchTransportFailure(t *testing.T) {
	c := New()
	_, err := c.Fetch(context.Background(), "http://127.0.0.1:1/nope")
	require.Error(t, err)

	var fetchErr *errors.FetchError
	assert.ErrorAs(t, err, &fetchErr)
}

func TestFetchCanceledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := New()
	_, err := c.Fetch(ctx, server.URL)
	assert.Error(t, err)
}
