// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/pdiddy/litreview/internal/session"
	"github.com/pdiddy/litreview/pkg/types"
)

// openSession creates an in-memory session store and, when the bookmark file
// named by --session exists, restores it. With mustExist, a missing bookmark
// is an error: the command has nothing to operate on.
func openSession(cmd *cobra.Command, mustExist bool) (*session.Store, string, error) {
	path, _ := cmd.Flags().GetString("session")

	store, err := session.NewStore()
	if err != nil {
		return nil, "", err
	}

	if _, statErr := os.Stat(path); statErr == nil {
		if err := store.LoadSnapshot(context.Background(), path); err != nil {
			store.Close()
			return nil, "", err
		}
	} else if mustExist {
		store.Close()
		return nil, "", fmt.Errorf("no session found at %s: run a search first or pass --session", path)
	}

	return store, path, nil
}

// printPapers writes a fixed-width listing of papers, with reading-list and
// selection markers.
func printPapers(w io.Writer, papers []types.PaperRecord, marked map[string]string) {
	if len(papers) == 0 {
		fmt.Fprintln(w, "No papers.")
		return
	}

	fmt.Fprintf(w, "%-3s %-28s %-44s %-6s %-8s %-22s\n",
		"", "ID", "Title", "Year", "Cites", "Venue")
	fmt.Fprintln(w, strings.Repeat("-", 115))

	for _, p := range papers {
		title := ellipsize(p.Title, 44)
		id := ellipsize(p.ID, 28)
		venue := ellipsize(p.Venue, 22)
		year := ""
		if p.Year > 0 {
			year = fmt.Sprintf("%d", p.Year)
		}
		fmt.Fprintf(w, "%-3s %-28s %-44s %-6s %-8d %-22s\n",
			marked[p.ID], id, title, year, p.CitationCount, venue)
	}

	fmt.Fprintf(w, "\n%d papers\n", len(papers))
}

// ellipsize shortens s to at most max runes, ending in an ellipsis when
// anything was cut. Truncation never splits a multi-byte rune.
func ellipsize(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max-3]) + "..."
}

// sessionMarkers builds the per-paper marker column: "R" for reading list,
// "S" for selected.
func sessionMarkers(ctx context.Context, store *session.Store) (map[string]string, error) {
	marked := make(map[string]string)

	reading, err := store.ReadingList(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range reading {
		marked[p.ID] = "R"
	}

	selected, err := store.Selected(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range selected {
		marked[p.ID] += "S"
	}

	return marked, nil
}
