// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/pdiddy/litreview/internal/session"
	"github.com/pdiddy/litreview/pkg/types"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export papers to JSON or CSV",
	Long: `Export writes the working set, the reading list, or the selected papers
to JSON (with an export timestamp and count) or CSV (header row, list
fields joined with "; "). Output goes to stdout unless --output is given.`,
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	store, _, err := openSession(cmd, true)
	if err != nil {
		return err
	}
	defer store.Close()

	set, _ := cmd.Flags().GetString("set")
	var papers []types.PaperRecord
	switch set {
	case "results", "":
		papers, err = store.Papers(ctx)
	case "reading":
		papers, err = store.ReadingList(ctx)
	case "selected":
		papers, err = store.Selected(ctx)
	default:
		return fmt.Errorf("unknown set %q: use results, reading, or selected", set)
	}
	if err != nil {
		return err
	}

	var out io.Writer = os.Stdout
	if outPath, _ := cmd.Flags().GetString("output"); outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	format, _ := cmd.Flags().GetString("format")
	switch format {
	case "json", "":
		return session.ExportJSON(out, papers)
	case "csv":
		return session.ExportCSV(out, papers)
	default:
		return fmt.Errorf("unsupported format %q: use json or csv", format)
	}
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize the session's papers",
	RunE:  runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	store, _, err := openSession(cmd, true)
	if err != nil {
		return err
	}
	defer store.Close()

	papers, err := store.Papers(ctx)
	if err != nil {
		return err
	}
	reading, err := store.ReadingList(ctx)
	if err != nil {
		return err
	}
	selected, err := store.Selected(ctx)
	if err != nil {
		return err
	}

	stats := session.ComputeStats(papers)

	fmt.Printf("Papers:          %d\n", stats.TotalPapers)
	fmt.Printf("Reading list:    %d\n", len(reading))
	fmt.Printf("Selected:        %d\n", len(selected))
	fmt.Printf("Total citations: %d\n", stats.TotalCitations)
	if stats.MeanYear > 0 {
		fmt.Printf("Mean year:       %.1f\n", stats.MeanYear)
	}

	if len(stats.PapersPerYear) > 0 {
		years := make([]int, 0, len(stats.PapersPerYear))
		for y := range stats.PapersPerYear {
			years = append(years, y)
		}
		sort.Ints(years)
		fmt.Println("\nPapers per year:")
		for _, y := range years {
			fmt.Printf("  %d: %d\n", y, stats.PapersPerYear[y])
		}
	}

	if len(stats.TopVenues) > 0 {
		fmt.Println("\nTop venues:")
		for _, v := range stats.TopVenues {
			fmt.Printf("  %-40s %d\n", v.Venue, v.Count)
		}
	}
	return nil
}

func init() {
	exportCmd.Flags().String("set", "results", "papers to export: results, reading, or selected")
	exportCmd.Flags().String("format", "json", "export format: json or csv")
	exportCmd.Flags().String("output", "", "output file (default stdout)")

	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(statsCmd)
}
