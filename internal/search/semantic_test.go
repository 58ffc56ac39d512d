// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/litsearch/internal/httputil"
	"github.com/pdiddy/litsearch/pkg/types"
)

const semanticFixture = `{
	"total": 3,
	"offset": 0,
	"data": [
		{
			"paperId": "p1",
			"title": "Semi-Supervised Classification with Graph Convolutional Networks",
			"abstract": "We present a scalable approach for semi-supervised learning on graph-structured data.",
			"url": "https://www.semanticscholar.org/paper/p1",
			"year": 2016,
			"authors": [{"authorId": "1", "name": "Thomas N. Kipf"}, {"authorId": "2", "name": "Max Welling"}]
		},
		{
			"paperId": "p2",
			"title": "A Paper Without Abstract",
			"abstract": null,
			"year": 2020,
			"authors": []
		},
		{
			"paperId": "p3",
			"title": "Blank Abstract",
			"abstract": "   ",
			"year": null
		}
	]
}`

func withSemanticServer(t *testing.T, h http.HandlerFunc) {
	t.Helper()
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	old := semanticAPIBase
	semanticAPIBase = ts.URL
	t.Cleanup(func() { semanticAPIBase = old })
}

func TestSemanticScholarBackendSearch(t *testing.T) {
	withSemanticServer(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "graph convolution", q.Get("query"))
		assert.Equal(t, "5", q.Get("limit"))
		assert.Equal(t, semanticFields, q.Get("fields"))
		assert.Empty(t, r.Header.Get("x-api-key"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(semanticFixture))
	})

	papers, err := (&SemanticScholarBackend{}).Search(context.Background(), "graph convolution", 5)
	require.NoError(t, err)
	require.Len(t, papers, 1, "papers without an abstract are dropped")

	p := papers[0]
	assert.Equal(t, "Semi-Supervised Classification with Graph Convolutional Networks", p.Title)
	require.NotNil(t, p.Abstract)
	require.NotNil(t, p.Year)
	assert.Equal(t, 2016, *p.Year)
	require.NotNil(t, p.URL)
	assert.Equal(t, "https://www.semanticscholar.org/paper/p1", *p.URL)
	assert.Equal(t, []string{"Thomas N. Kipf", "Max Welling"}, p.Authors)
	assert.Equal(t, types.SourceSemanticScholar, p.Source)
}

func TestSemanticScholarBackendAPIKeyHeader(t *testing.T) {
	var gotKey string
	withSemanticServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-api-key")
		w.Write([]byte(`{"data": []}`))
	})

	_, err := (&SemanticScholarBackend{APIKey: "s2-secret"}).Search(context.Background(), "q", 5)
	require.NoError(t, err)
	assert.Equal(t, "s2-secret", gotKey)
}

func TestSemanticScholarBackendLimitCapped(t *testing.T) {
	var gotLimit string
	withSemanticServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotLimit = r.URL.Query().Get("limit")
		w.Write([]byte(`{"data": []}`))
	})

	_, err := (&SemanticScholarBackend{}).Search(context.Background(), "q", 500)
	require.NoError(t, err)
	assert.Equal(t, "100", gotLimit)
}

func TestSemanticScholarBackendRetriesRateLimit(t *testing.T) {
	old := httputil.RetryBaseDelay
	httputil.RetryBaseDelay = time.Millisecond
	t.Cleanup(func() { httputil.RetryBaseDelay = old })

	var calls atomic.Int32
	withSemanticServer(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(semanticFixture))
	})

	papers, err := (&SemanticScholarBackend{}).Search(context.Background(), "q", 5)
	require.NoError(t, err)
	assert.Len(t, papers, 1)
	assert.Equal(t, int32(2), calls.Load())
}

func TestSemanticScholarBackendErrors(t *testing.T) {
	old := httputil.RetryBaseDelay
	httputil.RetryBaseDelay = time.Millisecond
	t.Cleanup(func() { httputil.RetryBaseDelay = old })

	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"persistent rate limit", http.StatusTooManyRequests, ""},
		{"server error", http.StatusInternalServerError, ""},
		{"malformed JSON", http.StatusOK, `{"data": [`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withSemanticServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})
			_, err := (&SemanticScholarBackend{}).Search(context.Background(), "q", 5)
			assert.Error(t, err)
		})
	}
}

func TestSemanticScholarBackendName(t *testing.T) {
	assert.Equal(t, types.SourceSemanticScholar, (&SemanticScholarBackend{}).Name())
}
