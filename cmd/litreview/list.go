// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/litreview/pkg/types"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Manage the reading list",
	Long: `List manages the session's reading list. The list has set semantics:
adding a paper twice leaves a single entry, and removing an absent paper
is a no-op.`,
}

var listShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the reading list",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		store, _, err := openSession(cmd, true)
		if err != nil {
			return err
		}
		defer store.Close()

		papers, err := store.ReadingList(ctx)
		if err != nil {
			return err
		}
		marked, err := sessionMarkers(ctx, store)
		if err != nil {
			return err
		}
		printPapers(os.Stdout, papers, marked)
		return nil
	},
}

var listAddCmd = &cobra.Command{
	Use:   "add <paper-id>...",
	Short: "Add papers to the reading list",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		store, path, err := openSession(cmd, true)
		if err != nil {
			return err
		}
		defer store.Close()

		for _, id := range args {
			if err := store.AddToReadingList(ctx, id); err != nil {
				return err
			}
		}
		return store.SaveSnapshot(ctx, path)
	},
}

var listRemoveCmd = &cobra.Command{
	Use:   "remove <paper-id>...",
	Short: "Remove papers from the reading list",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		store, path, err := openSession(cmd, true)
		if err != nil {
			return err
		}
		defer store.Close()

		for _, id := range args {
			if err := store.RemoveFromReadingList(ctx, id); err != nil {
				return err
			}
		}
		return store.SaveSnapshot(ctx, path)
	},
}

var feedbackCmd = &cobra.Command{
	Use:   "feedback <paper-id>",
	Short: "Record a relevance verdict for a paper",
	Long: `Feedback records whether a paper was relevant or not, with an optional
note. A second verdict for the same paper replaces the first.`,
	Args: cobra.ExactArgs(1),
	RunE: runFeedback,
}

func runFeedback(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	verdict, _ := cmd.Flags().GetString("verdict")
	note, _ := cmd.Flags().GetString("note")

	store, path, err := openSession(cmd, true)
	if err != nil {
		return err
	}
	defer store.Close()

	fb := types.FeedbackEntry{
		PaperID:   args[0],
		Verdict:   types.Verdict(verdict),
		Note:      note,
		Timestamp: time.Now().UTC(),
	}
	if err := store.UpsertFeedback(ctx, fb); err != nil {
		return err
	}
	if err := store.SaveSnapshot(ctx, path); err != nil {
		return err
	}

	fmt.Printf("Recorded %s for %s\n", verdict, args[0])
	return nil
}

var selectCmd = &cobra.Command{
	Use:   "select <paper-id>...",
	Short: "Mark papers for export",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		store, path, err := openSession(cmd, true)
		if err != nil {
			return err
		}
		defer store.Close()

		for _, id := range args {
			if err := store.Select(ctx, id); err != nil {
				return err
			}
		}
		return store.SaveSnapshot(ctx, path)
	},
}

var deselectCmd = &cobra.Command{
	Use:   "deselect <paper-id>...",
	Short: "Unmark papers previously selected for export",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		store, path, err := openSession(cmd, true)
		if err != nil {
			return err
		}
		defer store.Close()

		for _, id := range args {
			if err := store.Deselect(ctx, id); err != nil {
				return err
			}
		}
		return store.SaveSnapshot(ctx, path)
	},
}

func init() {
	feedbackCmd.Flags().String("verdict", "", "relevant or not_relevant (required)")
	feedbackCmd.Flags().String("note", "", "optional note")
	feedbackCmd.MarkFlagRequired("verdict")

	listCmd.AddCommand(listShowCmd)
	listCmd.AddCommand(listAddCmd)
	listCmd.AddCommand(listRemoveCmd)

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(feedbackCmd)
	rootCmd.AddCommand(selectCmd)
	rootCmd.AddCommand(deselectCmd)
}
