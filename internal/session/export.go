// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package session

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/pdiddy/litreview/pkg/types"
)

// exportAbstractLimit caps abstract length in CSV rows so spreadsheet tools
// stay usable.
const exportAbstractLimit = 500

// exportPayload is the JSON export envelope.
type exportPayload struct {
	ExportDate string              `json:"export_date"`
	Count      int                 `json:"count"`
	Papers     []types.PaperRecord `json:"papers"`
}

// ExportJSON writes papers to w as an indented JSON document with an export
// timestamp and count.
func ExportJSON(w io.Writer, papers []types.PaperRecord) error {
	payload := exportPayload{
		ExportDate: time.Now().UTC().Format(time.RFC3339),
		Count:      len(papers),
		Papers:     papers,
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(payload); err != nil {
		return fmt.Errorf("encoding JSON export: %w", err)
	}
	return nil
}

// csvHeader defines the CSV export columns.
var csvHeader = []string{
	"id", "source", "title", "authors", "year", "venue",
	"citation_count", "doi", "url", "keywords", "abstract",
}

// ExportCSV writes papers to w as CSV with a header row. List fields are
// joined with "; " and long abstracts are truncated.
func ExportCSV(w io.Writer, papers []types.PaperRecord) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}

	for _, p := range papers {
		abstract := p.Abstract
		if utf8.RuneCountInString(abstract) > exportAbstractLimit {
			abstract = string([]rune(abstract)[:exportAbstractLimit]) + "..."
		}
		year := ""
		if p.Year > 0 {
			year = strconv.Itoa(p.Year)
		}
		row := []string{
			p.ID,
			p.Source,
			p.Title,
			strings.Join(p.Authors, "; "),
			year,
			p.Venue,
			strconv.Itoa(p.CitationCount),
			p.DOI,
			p.URL,
			strings.Join(p.Keywords, "; "),
			abstract,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing CSV row for %s: %w", p.ID, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing CSV export: %w", err)
	}
	return nil
}
