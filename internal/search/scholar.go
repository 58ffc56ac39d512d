// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/time/rate"

	"github.com/pdiddy/litsearch/internal/logging"
	"github.com/pdiddy/litsearch/pkg/types"
)

// scholarBase is the Google Scholar results page. Declared as a var so
// tests can substitute an httptest server.
var scholarBase = "https://scholar.google.com/scholar"

// scholarPageSize is the number of results requested per page.
var scholarPageSize = 10

const scholarMaxPage = 4 << 20

// ErrBlocked means the provider refused to serve results to an automated
// client (rate limit, CAPTCHA, or access denial).
var ErrBlocked = errors.New("blocked by provider")

// blockMarkers identify the interstitial pages Google Scholar serves
// instead of results.
var blockMarkers = []string{
	"gs_captcha",
	"unusual traffic",
	"/sorry/",
	"recaptcha",
}

var yearPattern = regexp.MustCompile(`\b(1[89]\d{2}|20\d{2})\b`)

// GoogleScholarBackend scrapes the Google Scholar results page. Scholar
// has no public API and blocks clients that request too quickly, so pages
// are fetched one at a time with Interval between requests. Being blocked
// is routine: the adapter reports ErrBlocked and the search continues
// without this source.
//
// Results carry the listing snippet as their abstract; entries without a
// snippet have no abstract.
type GoogleScholarBackend struct {
	Client    *http.Client
	UserAgent string

	// Interval is the minimum pause between sequential page requests.
	// Zero disables pacing.
	Interval time.Duration

	Logger *zap.Logger
}

// Name returns the source tag.
func (b *GoogleScholarBackend) Name() types.Source { return types.SourceGoogleScholar }

// Search fetches result pages until maxResults papers are collected or
// the listing runs out. If Scholar blocks a later page, or the context
// ends during the pause before one, the papers already collected are
// returned.
func (b *GoogleScholarBackend) Search(ctx context.Context, query string, maxResults int) ([]types.Paper, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("empty Google Scholar query")
	}
	if maxResults <= 0 {
		return nil, nil
	}

	limit := rate.Inf
	if b.Interval > 0 {
		limit = rate.Every(b.Interval)
	}
	limiter := rate.NewLimiter(limit, 1)
	logger := logging.OrNop(b.Logger)

	var papers []types.Paper
	for start := 0; len(papers) < maxResults; start += scholarPageSize {
		if err := limiter.Wait(ctx); err != nil {
			if len(papers) > 0 {
				logger.Warn("Google Scholar deadline reached between pages",
					zap.Int("start", start),
					zap.Int("kept", len(papers)),
					zap.Error(err))
				break
			}
			return nil, fmt.Errorf("waiting between Google Scholar requests: %w", err)
		}

		num := scholarPageSize
		if rem := maxResults - len(papers); rem < num {
			num = rem
		}
		page, err := b.fetchPage(ctx, query, start, num)
		if err != nil {
			if len(papers) > 0 && errors.Is(err, ErrBlocked) {
				logger.Warn("Google Scholar blocked a follow-up page",
					zap.Int("start", start),
					zap.Int("kept", len(papers)))
				break
			}
			return nil, err
		}
		if len(page) == 0 {
			break
		}
		papers = append(papers, page...)
		if len(page) < num {
			break
		}
	}

	if len(papers) > maxResults {
		papers = papers[:maxResults]
	}
	return papers, nil
}

// fetchPage requests one results page and parses its entries.
func (b *GoogleScholarBackend) fetchPage(ctx context.Context, query string, start, num int) ([]types.Paper, error) {
	params := url.Values{
		"q":     {query},
		"hl":    {"en"},
		"start": {strconv.Itoa(start)},
		"num":   {strconv.Itoa(num)},
	}
	reqURL := scholarBase + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", b.UserAgent)
	req.Header.Set("Accept", "text/html")

	resp, err := clientOrDefault(b.Client).Do(req)
	if err != nil {
		return nil, fmt.Errorf("Google Scholar request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusForbidden, http.StatusTooManyRequests, http.StatusServiceUnavailable:
		return nil, fmt.Errorf("%w: Google Scholar returned HTTP %d", ErrBlocked, resp.StatusCode)
	default:
		return nil, fmt.Errorf("Google Scholar returned HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, scholarMaxPage))
	if err != nil {
		return nil, fmt.Errorf("reading Google Scholar page: %w", err)
	}

	papers, err := parseScholarPage(body)
	if err != nil {
		return nil, err
	}
	// Result snippets may mention the marker phrases, so only a page
	// without results is checked for an interstitial.
	if len(papers) == 0 && isBlockedPage(body) {
		return nil, fmt.Errorf("%w: Google Scholar served a CAPTCHA page", ErrBlocked)
	}
	return papers, nil
}

// isBlockedPage reports whether body looks like an interstitial. It is
// only meaningful for pages that carry no result blocks.
func isBlockedPage(body []byte) bool {
	lower := bytes.ToLower(body)
	for _, m := range blockMarkers {
		if bytes.Contains(lower, []byte(m)) {
			return true
		}
	}
	return false
}

// parseScholarPage extracts one paper per "gs_ri" result block.
func parseScholarPage(body []byte) ([]types.Paper, error) {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parsing Google Scholar page: %w", err)
	}

	var papers []types.Paper
	for _, n := range findAll(doc, func(n *html.Node) bool { return isElem(n, "div") && hasClass(n, "gs_ri") }) {
		p := types.Paper{
			Source:  types.SourceGoogleScholar,
			Authors: []string{},
		}

		if h3 := findFirst(n, func(n *html.Node) bool { return isElem(n, "h3") && hasClass(n, "gs_rt") }); h3 != nil {
			if a := findFirst(h3, func(n *html.Node) bool { return isElem(n, "a") }); a != nil {
				p.Title = collapseSpace(textContent(a))
				p.URL = types.OptionalString(attr(a, "href"))
			} else {
				p.Title = stripScholarTags(collapseSpace(textContent(h3)))
			}
		}

		if byline := findFirst(n, func(n *html.Node) bool { return isElem(n, "div") && hasClass(n, "gs_a") }); byline != nil {
			p.Authors, p.Year = parseByline(collapseSpace(textContent(byline)))
		}

		if snippet := findFirst(n, func(n *html.Node) bool { return isElem(n, "div") && hasClass(n, "gs_rs") }); snippet != nil {
			p.Abstract = types.OptionalString(collapseSpace(textContent(snippet)))
		}

		if p.Title == "" && p.Abstract == nil {
			continue
		}
		papers = append(papers, p)
	}
	return papers, nil
}

// parseByline splits a Scholar byline such as
// "A Vaswani, N Shazeer - Advances in neural …, 2017 - proceedings.neurips.cc"
// into author names and a publication year.
func parseByline(s string) ([]string, *int) {
	authors := []string{}
	parts := strings.SplitN(s, " - ", 3)

	for _, name := range strings.Split(parts[0], ",") {
		name = strings.TrimSpace(strings.Trim(strings.TrimSpace(name), "…"))
		if name != "" {
			authors = append(authors, name)
		}
	}

	var year *int
	if len(parts) > 1 {
		if m := yearPattern.FindAllString(parts[1], -1); len(m) > 0 {
			if y, err := strconv.Atoi(m[len(m)-1]); err == nil {
				year = types.OptionalYear(y)
			}
		}
	}
	return authors, year
}

// stripScholarTags removes leading markers such as "[PDF]" or "[CITATION][C]".
func stripScholarTags(title string) string {
	for strings.HasPrefix(title, "[") {
		end := strings.Index(title, "]")
		if end < 0 {
			break
		}
		title = strings.TrimSpace(title[end+1:])
	}
	return title
}

// --- HTML helpers ---

func isElem(n *html.Node, tag string) bool {
	return n.Type == html.ElementNode && n.Data == tag
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func findFirst(n *html.Node, match func(*html.Node) bool) *html.Node {
	if match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, match); found != nil {
			return found
		}
	}
	return nil
}

func findAll(n *html.Node, match func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if match(n) {
			out = append(out, n)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}
