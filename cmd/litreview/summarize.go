// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/litreview/internal/assist"
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize <paper-id>",
	Short: "AI-summarize one paper from the session",
	Args:  cobra.ExactArgs(1),
	RunE:  runSummarize,
}

func runSummarize(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	store, _, err := openSession(cmd, true)
	if err != nil {
		return err
	}
	defer store.Close()

	paper, err := store.Paper(ctx, args[0])
	if err != nil {
		return err
	}

	backend, err := newBackend()
	if err != nil {
		return err
	}

	summary, err := assist.Summarize(ctx, backend, paper)
	if err != nil {
		return err
	}

	fmt.Printf("%s (%d)\n\n%s\n", paper.Title, paper.Year, summary)
	return nil
}

var explainCmd = &cobra.Command{
	Use:   "explain <paper-id>",
	Short: "Explain why a paper is relevant to the session's query",
	Long: `Explain asks the Gemini API why one paper is conceptually relevant to the
query that produced the working set (or to --topic when given).`,
	Args: cobra.ExactArgs(1),
	RunE: runExplain,
}

func runExplain(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	store, _, err := openSession(cmd, true)
	if err != nil {
		return err
	}
	defer store.Close()

	paper, err := store.Paper(ctx, args[0])
	if err != nil {
		return err
	}

	topic, _ := cmd.Flags().GetString("topic")
	if topic == "" {
		if topic, err = store.Query(ctx); err != nil {
			return err
		}
	}
	if topic == "" {
		return fmt.Errorf("no query in session: pass --topic")
	}

	backend, err := newBackend()
	if err != nil {
		return err
	}

	explanation, err := assist.ExplainRelevance(ctx, backend, paper, topic)
	if err != nil {
		return err
	}

	fmt.Printf("%s (%d)\n\n%s\n", paper.Title, paper.Year, explanation)
	return nil
}

func init() {
	explainCmd.Flags().String("topic", "", "research topic to explain relevance against")

	rootCmd.AddCommand(summarizeCmd)
	rootCmd.AddCommand(explainCmd)
}
