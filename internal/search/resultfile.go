// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"
)

// ResultFile is the on-disk form of one search: the query, the ranked
// results, and a summary. It lets a search be exported and rendered again
// in another format without querying the sources.
type ResultFile struct {
	Query      string        `yaml:"query"`
	NumResults int           `yaml:"num_results"`
	Results    []Result      `yaml:"results"`
	Summary    ResultSummary `yaml:"summary"`
}

// ResultSummary stores result statistics and a timestamp.
type ResultSummary struct {
	Total     int            `yaml:"total"`
	BySource  map[string]int `yaml:"by_source,omitempty"`
	Timestamp time.Time      `yaml:"timestamp"`
}

// WriteResultFile saves a search and its results to a YAML file.
func WriteResultFile(path, query string, n int, results []Result) error {
	rf := ResultFile{
		Query:      query,
		NumResults: n,
		Results:    results,
		Summary: ResultSummary{
			Total:     len(results),
			BySource:  map[string]int{},
			Timestamp: time.Now().UTC(),
		},
	}
	for _, r := range results {
		rf.Summary.BySource[string(r.Source)]++
	}

	data, err := yaml.Marshal(&rf)
	if err != nil {
		return fmt.Errorf("marshaling result file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadResultFile loads a previously saved result file.
func ReadResultFile(path string) (*ResultFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading result file: %w", err)
	}
	var rf ResultFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parsing result file: %w", err)
	}
	return &rf, nil
}
