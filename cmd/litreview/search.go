// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/litreview/internal/httputil"
	"github.com/pdiddy/litreview/internal/session"
	"github.com/pdiddy/litreview/internal/source"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search an academic source for candidate papers",
	Long: `Search queries one source (OpenAlex, Semantic Scholar, arXiv, or a local
JSON corpus) for papers matching a free-text query. Results are deduplicated
by identifier and normalized title, filtered by the year and citation bounds,
and stored as the session's working set.

A failing source degrades to an empty result with a warning; it never aborts
the session.`,
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	queryText, _ := cmd.Flags().GetString("query")
	if queryText == "" && len(args) > 0 {
		queryText = strings.Join(args, " ")
	}

	yearFrom, _ := cmd.Flags().GetInt("year-from")
	yearTo, _ := cmd.Flags().GetInt("year-to")
	minCitations, _ := cmd.Flags().GetInt("min-citations")
	query := source.Query{
		FreeText:     queryText,
		YearFrom:     yearFrom,
		YearTo:       yearTo,
		MinCitations: minCitations,
	}
	if query.IsEmpty() {
		return fmt.Errorf("query required: pass a free-text query or filter flags")
	}

	cfg := sourceConfig()
	if maxResults, _ := cmd.Flags().GetInt("max-results"); maxResults > 0 {
		cfg.MaxResults = maxResults
	}
	if localPath, _ := cmd.Flags().GetString("local-path"); localPath != "" {
		cfg.LocalPath = localPath
	}

	sourceName, _ := cmd.Flags().GetString("source")
	if sourceName == "" {
		sourceName = viper.GetString("source.provider")
	}
	adapter, err := source.AdapterFor(sourceName, httputil.NewClient(cfg.Timeout))
	if err != nil {
		return err
	}

	out := source.Dispatch(ctx, adapter, query, cfg, os.Stderr)
	if out.DupsRemoved > 0 {
		fmt.Fprintf(os.Stderr, "%d duplicate(s) removed\n", out.DupsRemoved)
	}

	store, path, err := openSession(cmd, false)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.LoadPapers(ctx, queryText, out.Papers); err != nil {
		return err
	}
	if err := store.SaveSnapshot(ctx, path); err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		return session.ExportJSON(os.Stdout, out.Papers)
	}

	marked, err := sessionMarkers(ctx, store)
	if err != nil {
		return err
	}
	printPapers(os.Stdout, out.Papers, marked)
	return nil
}

func init() {
	searchCmd.Flags().String("query", "", "free-text research question")
	searchCmd.Flags().String("source", "", "source to query: openalex, semantic_scholar, arxiv, or local (default from config)")
	searchCmd.Flags().String("local-path", "", "JSON corpus file for the local source")
	searchCmd.Flags().Int("year-from", 0, "earliest publication year")
	searchCmd.Flags().Int("year-to", 0, "latest publication year")
	searchCmd.Flags().Int("min-citations", 0, "minimum citation count")
	searchCmd.Flags().Int("max-results", 0, "maximum number of results (default from config)")
	searchCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(searchCmd)
}
