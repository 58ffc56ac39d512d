// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the shared data structures for litsearch: the
// normalized Paper record every source adapter emits, the source tags, and
// the configuration sections read by the CLI.
package types

import "strings"

// Source identifies the bibliographic provider a Paper came from. It is
// carried for diagnostics and display only and never affects ranking.
type Source string

const (
	SourceSemanticScholar Source = "semantic_scholar"
	SourceArxiv           Source = "arxiv"
	SourceGoogleScholar   Source = "google_scholar"
	SourceOpenAlex        Source = "openalex"
)

// DisplayName returns the human-readable provider name.
func (s Source) DisplayName() string {
	switch s {
	case SourceSemanticScholar:
		return "Semantic Scholar"
	case SourceArxiv:
		return "arXiv"
	case SourceGoogleScholar:
		return "Google Scholar"
	case SourceOpenAlex:
		return "OpenAlex"
	default:
		return string(s)
	}
}

// Paper is a candidate paper normalized from one provider's response.
//
// Optional fields are pointers: nil means the provider did not supply the
// value, which is distinct from an empty string. Papers are built by a
// source adapter and not modified afterwards except for Relevance, which
// the aggregator attaches through WithRelevance.
type Paper struct {
	// Title is the display title. It may be empty when the provider omits it.
	Title string `json:"title" yaml:"title"`

	// Abstract is nil when the provider has no abstract for the paper.
	Abstract *string `json:"abstract" yaml:"abstract"`

	// URL locates the paper (landing page or PDF), nil when unknown.
	URL *string `json:"url" yaml:"url"`

	// Year is the publication year, nil when unknown.
	Year *int `json:"year" yaml:"year"`

	// Authors lists author display names in source order.
	Authors []string `json:"authors" yaml:"authors"`

	// Source is the provider tag.
	Source Source `json:"source" yaml:"source"`

	// Relevance is the scaled similarity to the query in [0, 100]. It is nil
	// until the aggregator scores the paper and is only comparable between
	// papers scored in the same search.
	Relevance *float64 `json:"relevance,omitempty" yaml:"relevance,omitempty"`
}

// HasAbstract reports whether an abstract is available. Summarization uses
// this to decide between generating a summary and reporting that none exists.
func (p Paper) HasAbstract() bool {
	return p.Abstract != nil
}

// ScoringText is the text embedded to score the paper: the title followed
// by the abstract. A missing abstract contributes nothing.
func (p Paper) ScoringText() string {
	if p.Abstract == nil {
		return p.Title
	}
	return strings.TrimSpace(p.Title + " " + *p.Abstract)
}

// WithRelevance returns a copy of p carrying the given score.
func (p Paper) WithRelevance(score float64) Paper {
	p.Relevance = &score
	return p
}

// RelevanceOr returns the relevance score, or fallback when unscored.
func (p Paper) RelevanceOr(fallback float64) float64 {
	if p.Relevance == nil {
		return fallback
	}
	return *p.Relevance
}

// OptionalString returns a pointer to the trimmed s, or nil when s is blank.
// Adapters use it to keep "not provided" distinct from provided values.
func OptionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// OptionalYear returns a pointer to y, or nil when y is not a plausible year.
func OptionalYear(y int) *int {
	if y <= 0 {
		return nil
	}
	return &y
}
