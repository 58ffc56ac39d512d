// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pdiddy/litsearch/internal/embed"
	"github.com/pdiddy/litsearch/internal/search"
	"github.com/pdiddy/litsearch/internal/summarize"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the literature and rank papers by relevance",
	Long: `Search sends the query to every enabled source at once, scores each
returned paper by embedding similarity between the query and the paper's
title and abstract, and prints the highest scoring papers. Sources that fail
or are blocked are skipped.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntP("num-results", "n", 0, "number of ranked results (default 5)")
	searchCmd.Flags().Bool("json", false, "output results as JSON")
	searchCmd.Flags().Bool("csl", false, "output results as CSL-YAML")
	searchCmd.Flags().Bool("summarize", false, "add an AI summary for each result")
	searchCmd.Flags().String("save", "", "also write the results to a YAML file")
	searchCmd.MarkFlagsMutuallyExclusive("json", "csl")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	if strings.TrimSpace(query) == "" {
		return search.ErrEmptyQuery
	}

	n, _ := cmd.Flags().GetInt("num-results")
	if n <= 0 {
		n = appConfig.Search.NumResults
	}
	asJSON, _ := cmd.Flags().GetBool("json")
	asCSL, _ := cmd.Flags().GetBool("csl")
	withSummaries, _ := cmd.Flags().GetBool("summarize")
	savePath, _ := cmd.Flags().GetString("save")

	enc, err := embed.Shared(appConfig.Embedding, logger)
	if err != nil {
		return fmt.Errorf("loading embedding model: %w", err)
	}

	client := &http.Client{Timeout: appConfig.Search.Timeout}
	agg := search.New(enc, logger, buildAdapters(appConfig.Search, client, logger)...)

	papers, err := agg.Search(cmd.Context(), query, n)
	if err != nil {
		return err
	}

	var summaries []string
	if withSummaries {
		var s summarize.Summarizer
		gc, err := summarize.NewGeminiClient(appConfig.Summary, logger)
		switch {
		case err == nil:
			s = gc
		case errors.Is(err, summarize.ErrNoAPIKey):
			logger.Warn("summaries requested but no Gemini API key is configured")
		default:
			return err
		}
		summaries = summarize.Annotate(cmd.Context(), s, papers, logger)
	}

	results := search.Results(papers, summaries)

	if savePath != "" {
		if err := search.WriteResultFile(savePath, query, n, results); err != nil {
			return err
		}
		logger.Info("results saved", zap.String("path", savePath))
	}

	return writeResults(cmd.OutOrStdout(), results, asJSON, asCSL)
}

func writeResults(w io.Writer, results []search.Result, asJSON, asCSL bool) error {
	switch {
	case asJSON:
		return search.FormatJSON(results, w)
	case asCSL:
		return search.FormatCSL(results, w)
	default:
		search.FormatTable(results, w)
		return nil
	}
}
