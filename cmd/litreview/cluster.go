// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/litreview/internal/assist"
)

var clusterCmd = &cobra.Command{
	Use:   "cluster [topic]",
	Short: "Group the session's papers into AI-named thematic clusters",
	Long: `Cluster sends the session's working set to the Gemini API in a single
request and stores the returned thematic grouping, replacing any previous
clustering. Papers the model leaves out land in an "Unassigned" cluster.

When the API or its reply is unusable the previous clustering is kept and a
warning is printed.`,
	RunE: runCluster,
}

func runCluster(cmd *cobra.Command, args []string) error {
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

	clusters := assist.Cluster(ctx, backend, papers, topic, os.Stderr)
	if clusters == nil {
		return nil
	}

	if err := store.ReplaceClusters(ctx, clusters); err != nil {
		return err
	}
	if err := store.SaveSnapshot(ctx, path); err != nil {
		return err
	}

	for _, c := range clusters {
		fmt.Printf("%s (%d papers)\n", c.Name, len(c.MemberIDs))
		if len(c.KeyTopics) > 0 {
			fmt.Printf("  topics: %s\n", strings.Join(c.KeyTopics, ", "))
		}
		for _, id := range c.MemberIDs {
			p, err := store.Paper(ctx, id)
			if err != nil {
				continue
			}
			fmt.Printf("  - %s  %s\n", id, p.Title)
		}
		fmt.Println()
	}
	return nil
}

func init() {
	rootCmd.AddCommand(clusterCmd)
}
