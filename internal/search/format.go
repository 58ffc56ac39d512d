// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/litsearch/pkg/types"
)

// Result is a ranked paper as presented to the user, with the summary the
// summarization collaborator produced for it.
type Result struct {
	types.Paper `yaml:",inline"`

	Summary string `json:"summary,omitempty" yaml:"summary,omitempty"`
}

// Results pairs papers with summaries by position. summaries may be nil or
// shorter than papers.
func Results(papers []types.Paper, summaries []string) []Result {
	out := make([]Result, len(papers))
	for i, p := range papers {
		out[i] = Result{Paper: p}
		if i < len(summaries) {
			out[i].Summary = summaries[i]
		}
	}
	return out
}

// FormatTable writes results as a human-readable table to w.
func FormatTable(results []Result, w io.Writer) {
	if len(results) == 0 {
		fmt.Fprintln(w, "No results found.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-60s  %-20s  %-4s  %-6s  %s\n",
		"Rank", "Title", "Authors", "Year", "Score", "Source")
	fmt.Fprintln(w, strings.Repeat("-", 116))

	for i, r := range results {
		year := ""
		if r.Year != nil {
			year = fmt.Sprintf("%d", *r.Year)
		}
		fmt.Fprintf(w, "%-4d  %-60s  %-20s  %-4s  %-6.2f  %s\n",
			i+1, truncate(r.Title, 60), formatAuthors(r.Authors), year, r.RelevanceOr(0), r.Source.DisplayName())
		if r.URL != nil {
			fmt.Fprintf(w, "      %s\n", *r.URL)
		}
		if r.Summary != "" {
			fmt.Fprintf(w, "      %s\n", strings.ReplaceAll(r.Summary, "\n", "\n      "))
		}
	}

	fmt.Fprintf(w, "\n%d results\n", len(results))
}

// FormatJSON writes results as indented JSON to w under a "papers" key.
func FormatJSON(results []Result, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		Papers []Result `json:"papers"`
	}{Papers: results})
}

func formatAuthors(authors []string) string {
	switch len(authors) {
	case 0:
		return ""
	case 1:
		return truncate(authors[0], 20)
	default:
		return truncate(authors[0], 14) + " et al."
	}
}

// truncate shortens s to max runes, marking the cut with "...".
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
