// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/litsearch/pkg/types"
)

const arxivFixture = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <entry>
    <id>http://arxiv.org/abs/1706.03762v7</id>
    <published>2017-06-12T17:57:34Z</published>
    <title>Attention Is All
      You Need</title>
    <summary>  The dominant sequence transduction models
      are based on complex recurrent networks.
    </summary>
    <author><name>Ashish Vaswani</name></author>
    <author><name>Noam Shazeer</name></author>
    <link href="http://arxiv.org/abs/1706.03762v7" rel="alternate" type="text/html"/>
    <link title="pdf" href="http://arxiv.org/pdf/1706.03762v7" rel="related" type="application/pdf"/>
  </entry>
  <entry>
    <id>http://arxiv.org/abs/2101.00001v1</id>
    <published>not-a-date</published>
    <title>Untitled Notes</title>
    <summary>   </summary>
  </entry>
</feed>`

func withArxivServer(t *testing.T, h http.HandlerFunc) {
	t.Helper()
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	old := arxivAPIBase
	arxivAPIBase = ts.URL
	t.Cleanup(func() { arxivAPIBase = old })
}

func TestBuildArxivQuery(t *testing.T) {
	tests := []struct {
		query string
		want  string
	}{
		{"graph neural networks", "all:graph neural networks"},
		{"  spaced   out  ", "all:spaced out"},
		{"", ""},
		{"   ", ""},
	}
	for _, tt := range tests {
		if got := buildArxivQuery(tt.query); got != tt.want {
			t.Errorf("buildArxivQuery(%q) = %q, want %q", tt.query, got, tt.want)
		}
	}
}

func TestArxivBackendSearch(t *testing.T) {
	withArxivServer(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "all:attention transformers", q.Get("search_query"))
		assert.Equal(t, "3", q.Get("max_results"))
		assert.Equal(t, "relevance", q.Get("sortBy"))
		assert.Equal(t, "litsearch-test", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/atom+xml")
		w.Write([]byte(arxivFixture))
	})

	b := &ArxivBackend{UserAgent: "litsearch-test"}
	papers, err := b.Search(context.Background(), "attention transformers", 3)
	require.NoError(t, err)
	require.Len(t, papers, 2)

	p := papers[0]
	assert.Equal(t, "Attention Is All You Need", p.Title)
	require.NotNil(t, p.Abstract)
	assert.Equal(t, "The dominant sequence transduction models are based on complex recurrent networks.", *p.Abstract)
	require.NotNil(t, p.URL)
	assert.Equal(t, "http://arxiv.org/pdf/1706.03762v7", *p.URL)
	require.NotNil(t, p.Year)
	assert.Equal(t, 2017, *p.Year)
	assert.Equal(t, []string{"Ashish Vaswani", "Noam Shazeer"}, p.Authors)
	assert.Equal(t, types.SourceArxiv, p.Source)

	q := papers[1]
	assert.Nil(t, q.Abstract, "blank summary means no abstract")
	assert.Nil(t, q.URL)
	assert.Nil(t, q.Year)
	assert.Empty(t, q.Authors)
}

func TestArxivBackendErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"HTTP 500", http.StatusInternalServerError, ""},
		{"HTTP 503", http.StatusServiceUnavailable, ""},
		{"malformed XML", http.StatusOK, "<feed><entry>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withArxivServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})
			_, err := (&ArxivBackend{}).Search(context.Background(), "q", 5)
			assert.Error(t, err)
		})
	}
}

func TestArxivBackendEmptyQuery(t *testing.T) {
	_, err := (&ArxivBackend{}).Search(context.Background(), "", 5)
	assert.Error(t, err)
}

func TestArxivBackendEmptyFeed(t *testing.T) {
	withArxivServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<feed xmlns="http://www.w3.org/2005/Atom"></feed>`))
	})
	papers, err := (&ArxivBackend{}).Search(context.Background(), "zzz", 5)
	require.NoError(t, err)
	assert.Empty(t, papers)
}
