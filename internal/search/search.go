// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search fans a free-text query out to bibliographic sources,
// scores every returned paper by embedding similarity to the query, and
// returns the best matches.
package search

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pdiddy/litsearch/internal/embed"
	"github.com/pdiddy/litsearch/internal/logging"
	"github.com/pdiddy/litsearch/internal/rank"
	"github.com/pdiddy/litsearch/pkg/types"
)

// DefaultNumResults is the result count used when the caller asks for none.
const DefaultNumResults = 5

var (
	// ErrEmptyQuery is returned when Search is called without query text.
	ErrEmptyQuery = errors.New("query is empty")

	// ErrEncoding is returned when the query or a paper cannot be embedded.
	// No ranking is possible without the encoder, so the search fails.
	ErrEncoding = errors.New("encoding text")
)

// Backend queries one bibliographic provider. Each provider (Semantic
// Scholar, arXiv, Google Scholar, OpenAlex) implements this interface and
// maps the provider's response onto types.Paper. Backends report failures
// as errors; Adapter turns them into empty contributions.
type Backend interface {
	Name() types.Source
	Search(ctx context.Context, query string, maxResults int) ([]types.Paper, error)
}

// Adapter wraps a Backend with the guarantees the aggregator relies on:
// a per-source result cap, a per-source time bound, and failure isolation.
type Adapter struct {
	Backend Backend

	// MaxResults caps this source below the requested count. Zero means no
	// extra cap.
	MaxResults int

	// Timeout bounds one Fetch. Zero means only the caller's context applies.
	Timeout time.Duration

	Logger *zap.Logger
}

// Limit returns how many results to request from this source when the
// caller wants n.
func (a *Adapter) Limit(n int) int {
	if a.MaxResults > 0 && a.MaxResults < n {
		return a.MaxResults
	}
	return n
}

// Fetch queries the backend and returns at most maxResults papers tagged
// with the backend's source. Errors, timeouts, and panics inside the
// backend are logged and produce an empty result; they never reach the
// caller.
func (a *Adapter) Fetch(ctx context.Context, query string, maxResults int) (papers []types.Paper) {
	logger := logging.OrNop(a.Logger).With(zap.String("source", string(a.Backend.Name())))

	if a.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.Timeout)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			logger.Error("source adapter panicked", zap.Any("panic", r), zap.String("query", query))
			papers = nil
		}
	}()

	start := time.Now()
	got, err := a.Backend.Search(ctx, query, maxResults)
	if err != nil {
		logger.Warn("source search failed",
			zap.String("query", query),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return nil
	}

	if len(got) > maxResults {
		got = got[:maxResults]
	}
	for i := range got {
		got[i].Source = a.Backend.Name()
		got[i].Relevance = nil
	}
	logger.Debug("source search done",
		zap.Int("papers", len(got)),
		zap.Duration("elapsed", time.Since(start)))
	return got
}

// Aggregator merges the results of several adapters and ranks them by
// semantic similarity to the query.
type Aggregator struct {
	adapters []*Adapter
	encoder  embed.Encoder
	logger   *zap.Logger
}

// New creates an Aggregator. Adapters are consulted concurrently but their
// results are merged in the order given here.
func New(encoder embed.Encoder, logger *zap.Logger, adapters ...*Adapter) *Aggregator {
	return &Aggregator{
		adapters: adapters,
		encoder:  encoder,
		logger:   logging.OrNop(logger),
	}
}

// Search returns up to n papers ranked by relevance to query, highest
// first. n <= 0 means DefaultNumResults.
//
// Sources that fail contribute nothing; if every source comes back empty
// the result is an empty slice and a nil error. Papers with equal
// relevance keep their merge order: adapter registration order, then the
// order the source returned them in. An error is returned only for an
// empty query, a cancelled context or an encoder failure, and never
// together with results.
func (a *Aggregator) Search(ctx context.Context, query string, n int) ([]types.Paper, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}
	if n <= 0 {
		n = DefaultNumResults
	}

	logger := a.logger.With(zap.String("search_id", uuid.NewString()))
	logger.Info("search started", zap.String("query", query), zap.Int("n", n), zap.Int("sources", len(a.adapters)))

	papers := a.fanOut(ctx, query, n)
	if err := ctx.Err(); err != nil {
		logger.Info("search cancelled", zap.Error(err))
		return nil, err
	}
	if len(papers) == 0 {
		logger.Info("no papers found")
		return []types.Paper{}, nil
	}
	if a.encoder == nil {
		return nil, fmt.Errorf("%w: no encoder configured", ErrEncoding)
	}

	queryVec, err := a.encoder.Encode(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: query: %w", ErrEncoding, err)
	}

	scored := make([]types.Paper, len(papers))
	for i, p := range papers {
		vec, err := a.encoder.Encode(ctx, p.ScoringText())
		if err != nil {
			return nil, fmt.Errorf("%w: paper %q from %s: %w", ErrEncoding, p.Title, p.Source, err)
		}
		scored[i] = p.WithRelevance(rank.Score(queryVec, vec))
	}

	sortByRelevance(scored)
	if len(scored) > n {
		scored = scored[:n]
	}

	logger.Info("search done", zap.Int("found", len(papers)), zap.Int("returned", len(scored)))
	return scored, nil
}

// fanOut runs every adapter concurrently and concatenates their papers in
// registration order, independent of completion order.
func (a *Aggregator) fanOut(ctx context.Context, query string, n int) []types.Paper {
	slots := make([][]types.Paper, len(a.adapters))

	var wg sync.WaitGroup
	for i, ad := range a.adapters {
		wg.Add(1)
		go func(i int, ad *Adapter) {
			defer wg.Done()
			slots[i] = ad.Fetch(ctx, query, ad.Limit(n))
		}(i, ad)
	}
	wg.Wait()

	var all []types.Paper
	for _, s := range slots {
		all = append(all, s...)
	}
	return all
}

// sortByRelevance orders papers by descending relevance. The sort is
// stable, so ties keep their merge order.
func sortByRelevance(papers []types.Paper) {
	sort.SliceStable(papers, func(i, j int) bool {
		return papers[i].RelevanceOr(0) > papers[j].RelevanceOr(0)
	})
}

// defaultClient is used by backends constructed without a client.
var defaultClient = &http.Client{Timeout: 30 * time.Second}

func clientOrDefault(c *http.Client) *http.Client {
	if c == nil {
		return defaultClient
	}
	return c
}
