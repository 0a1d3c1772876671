// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/litreview/internal/assist"
	"github.com/pdiddy/litreview/internal/httputil"
)

var rankCmd = &cobra.Command{
	Use:   "rank [topic]",
	Short: "Reorder the session's papers by AI-assessed relevance",
	Long: `Rank sends the session's working set to the Gemini API in a single request
and reorders it by the returned relevance ranking. The topic defaults to the
query that produced the working set.

When the API or its reply is unusable the original order is kept and a
warning is printed; rank never fails a session.`,
	RunE: runRank,
}

// newBackend builds the Gemini backend from config and loaded secrets.
func newBackend() (assist.Backend, error) {
	cfg := assistConfig()
	return assist.NewGeminiBackend(cfg, httputil.NewClient(cfg.Timeout))
}

func runRank(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	store, path, err := openSession(cmd, true)
	if err != nil {
		return err
	}
	defer store.Close()

	papers, err := store.Papers(ctx)
	if err != nil {
		return err
	}
	if len(papers) == 0 {
		return fmt.Errorf("session has no papers: run a search first")
	}

	topic := ""
	if len(args) > 0 {
		topic = args[0]
	}
	if topic == "" {
		if topic, err = store.Query(ctx); err != nil {
			return err
		}
	}

	backend, err := newBackend()
	if err != nil {
		return err
	}

	ranked, assessments := assist.RankByRelevance(ctx, backend, papers, topic, os.Stderr)

	query, err := store.Query(ctx)
	if err != nil {
		return err
	}
	if err := store.LoadPapers(ctx, query, ranked); err != nil {
		return err
	}
	if err := store.SaveSnapshot(ctx, path); err != nil {
		return err
	}

	byID := make(map[string]string, len(assessments))
	scores := make(map[string]int, len(assessments))
	for _, a := range assessments {
		byID[a.PaperID] = a.Reasoning
		scores[a.PaperID] = a.Score
	}

	for i, p := range ranked {
		title := ellipsize(p.Title, 60)
		if reasoning, ok := byID[p.ID]; ok {
			fmt.Printf("%2d. [%2d/10] %s\n          %s\n", i+1, scores[p.ID], title, reasoning)
		} else {
			fmt.Printf("%2d. [ --  ] %s\n", i+1, title)
		}
	}
	return nil
}

func init() {
	rootCmd.AddCommand(rankCmd)
}
