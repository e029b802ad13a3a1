package provider

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/speedforce/internal/engine"
)

func quietLog() *logrus.Entry {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return logrus.NewEntry(log)
}

func newQuoteServer(t *testing.T, quotes ...string) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Api-Key") != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		n := int(calls.Add(1)) - 1
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]quoteItem{{Quote: quotes[n%len(quotes)], Author: "someone"}})
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func TestQuotesJoinsAndTruncates(t *testing.T) {
	srv, calls := newQuoteServer(t, "one two three", "four five", "six seven eight")
	q := NewQuotes(QuotesOptions{URL: srv.URL, APIKey: "secret", RatePerSecond: 1000, Logger: quietLog()})

	text, err := q.Fetch(context.Background(), engine.TextRequest{Words: 5})
	require.NoError(t, err)
	assert.Equal(t, "one two three four five", text)
	assert.EqualValues(t, 3, calls.Load())
}

func TestQuotesShorterThanRequest(t *testing.T) {
	srv, _ := newQuoteServer(t, "short quote")
	q := NewQuotes(QuotesOptions{URL: srv.URL, APIKey: "secret", Count: 2, RatePerSecond: 1000, Logger: quietLog()})

	text, err := q.Fetch(context.Background(), engine.TextRequest{Words: 100})
	require.NoError(t, err)
	assert.Equal(t, "short quote short quote", text)
}

func TestQuotesRequiresAPIKey(t *testing.T) {
	q := NewQuotes(QuotesOptions{URL: "http://127.0.0.1:0", Logger: quietLog()})
	_, err := q.Fetch(context.Background(), engine.TextRequest{Words: 10})
	assert.ErrorIs(t, err, ErrNoAPIKey)
}

func TestQuotesBadStatus(t *testing.T) {
	srv, _ := newQuoteServer(t, "unused")
	q := NewQuotes(QuotesOptions{URL: srv.URL, APIKey: "wrong", RatePerSecond: 1000, Logger: quietLog()})
	_, err := q.Fetch(context.Background(), engine.TextRequest{Words: 10})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestQuotesEmptyResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "[]")
	}))
	t.Cleanup(srv.Close)
	q := NewQuotes(QuotesOptions{URL: srv.URL, APIKey: "secret", RatePerSecond: 1000, Logger: quietLog()})
	_, err := q.Fetch(context.Background(), engine.TextRequest{Words: 10})
	assert.ErrorIs(t, err, ErrEmptyText)
}

func TestQuotesCanceledContext(t *testing.T) {
	srv, calls := newQuoteServer(t, "never")
	q := NewQuotes(QuotesOptions{URL: srv.URL, APIKey: "secret", Logger: quietLog()})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := q.Fetch(ctx, engine.TextRequest{Words: 10})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, calls.Load())
}
