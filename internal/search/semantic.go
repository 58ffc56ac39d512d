// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"github.com/pdiddy/litsearch/internal/httputil"
	"github.com/pdiddy/litsearch/pkg/types"
)

// semanticAPIBase is the Semantic Scholar paper search endpoint. Declared
// as a var so tests can substitute an httptest server.
var semanticAPIBase = "https://api.semanticscholar.org/graph/v1/paper/search"

const semanticFields = "title,abstract,url,year,authors,venue"

// SemanticScholarBackend queries the Semantic Scholar Graph API.
//
// Only papers that carry a non-empty abstract are returned; the API lists
// many records without one and those are dropped before ranking.
type SemanticScholarBackend struct {
	Client    *http.Client
	UserAgent string
	APIKey    string
	Logger    *zap.Logger
}

// Name returns the source tag.
func (b *SemanticScholarBackend) Name() types.Source { return types.SourceSemanticScholar }

// Search queries the paper search endpoint. HTTP 429 responses are retried
// with backoff.
func (b *SemanticScholarBackend) Search(ctx context.Context, query string, maxResults int) ([]types.Paper, error) {
	if maxResults <= 0 {
		return nil, nil
	}
	if maxResults > 100 {
		maxResults = 100
	}

	params := url.Values{
		"query":  {query},
		"limit":  {strconv.Itoa(maxResults)},
		"fields": {semanticFields},
	}
	reqURL := semanticAPIBase + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", b.UserAgent)
	if b.APIKey != "" {
		req.Header.Set("x-api-key", b.APIKey)
	}

	resp, err := httputil.DoWithRetry(ctx, clientOrDefault(b.Client), req, 0, b.Logger)
	if err != nil {
		return nil, fmt.Errorf("Semantic Scholar API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Semantic Scholar API returned HTTP %d", resp.StatusCode)
	}

	var sr semanticResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("parsing Semantic Scholar response: %w", err)
	}

	var papers []types.Paper
	for _, sp := range sr.Data {
		abstract := types.OptionalString(sp.Abstract)
		if abstract == nil {
			continue
		}

		p := types.Paper{
			Title:    sp.Title,
			Abstract: abstract,
			URL:      types.OptionalString(sp.URL),
			Source:   types.SourceSemanticScholar,
			Authors:  []string{},
		}
		if sp.Year != nil {
			p.Year = types.OptionalYear(*sp.Year)
		}
		for _, a := range sp.Authors {
			p.Authors = append(p.Authors, a.Name)
		}
		papers = append(papers, p)
	}
	return papers, nil
}

// Semantic Scholar API JSON structures.
type semanticResponse struct {
	Total  int             `json:"total"`
	Offset int             `json:"offset"`
	Data   []semanticPaper `json:"data"`
}

type semanticPaper struct {
	PaperID  string           `json:"paperId"`
	Title    string           `json:"title"`
	Abstract string           `json:"abstract"`
	URL      string           `json:"url"`
	Year     *int             `json:"year"`
	Venue    string           `json:"venue"`
	Authors  []semanticAuthor `json:"authors"`
}

type semanticAuthor struct {
	AuthorID string `json:"authorId"`
	Name     string `json:"name"`
}
