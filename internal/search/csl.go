// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"fmt"
	"io"
	"strings"

	"go.yaml.in/yaml/v3"
)

// CSLItem represents a bibliographic entry in CSL (Citation Style Language)
// format. The field names and structure follow the CSL-YAML schema so that
// output is consumable by Pandoc and reference managers.
type CSLItem struct {
	ID       string    `yaml:"id"`
	Type     string    `yaml:"type"`
	Title    string    `yaml:"title"`
	Author   []CSLName `yaml:"author,omitempty"`
	Abstract string    `yaml:"abstract,omitempty"`
	Issued   *CSLDate  `yaml:"issued,omitempty"`
	URL      string    `yaml:"URL,omitempty"`
	Source   string    `yaml:"source,omitempty"`
	Note     string    `yaml:"note,omitempty"`
}

// CSLName represents a person's name in CSL format.
type CSLName struct {
	Family  string `yaml:"family,omitempty"`
	Given   string `yaml:"given,omitempty"`
	Literal string `yaml:"literal,omitempty"`
}

// CSLDate represents a date in CSL format using date-parts.
type CSLDate struct {
	DateParts [][]int `yaml:"date-parts"`
}

// FormatCSL writes results as a CSL-YAML list to w.
func FormatCSL(results []Result, w io.Writer) error {
	items := make([]CSLItem, len(results))
	for i, r := range results {
		items[i] = toCSLItem(i, r)
	}
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(items)
}

// toCSLItem converts a ranked result to a CSLItem. The citation key is
// derived from the first author's family name, the year, and the rank.
func toCSLItem(i int, r Result) CSLItem {
	item := CSLItem{
		Type:   "article",
		Title:  r.Title,
		Source: r.Source.DisplayName(),
	}
	if r.Abstract != nil {
		item.Abstract = *r.Abstract
	}
	if r.URL != nil {
		item.URL = *r.URL
	}
	if r.Relevance != nil {
		item.Note = fmt.Sprintf("relevance: %.2f", *r.Relevance)
	}

	for _, a := range r.Authors {
		item.Author = append(item.Author, parseAuthorName(a))
	}

	if r.Year != nil {
		item.Issued = &CSLDate{DateParts: [][]int{{*r.Year}}}
	}

	item.ID = citationKey(i, item)
	return item
}

func citationKey(i int, item CSLItem) string {
	var b strings.Builder
	if len(item.Author) > 0 {
		name := item.Author[0].Family
		if name == "" {
			name = item.Author[0].Literal
		}
		b.WriteString(strings.ToLower(strings.Join(strings.Fields(name), "")))
	} else {
		b.WriteString("paper")
	}
	if item.Issued != nil {
		fmt.Fprintf(&b, "%d", item.Issued.DateParts[0][0])
	}
	fmt.Fprintf(&b, "-%d", i+1)
	return b.String()
}

// parseAuthorName splits a full name string into CSL family/given parts.
// It splits on the last space: everything before is given, the last token
// is family. Single-token names use the literal field.
func parseAuthorName(name string) CSLName {
	name = strings.TrimSpace(name)
	if name == "" {
		return CSLName{}
	}
	idx := strings.LastIndex(name, " ")
	if idx < 0 {
		return CSLName{Literal: name}
	}
	return CSLName{
		Given:  name[:idx],
		Family: name[idx+1:],
	}
}
