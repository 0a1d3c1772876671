// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package source normalizes paper metadata from remote academic APIs and
// local JSON corpora into a unified record shape.
package source

import (
	"context"
	"strings"
	"unicode"

	"github.com/pdiddy/litreview/pkg/types"
)

// Adapter fetches papers from a single data source. Each adapter (OpenAlex,
// Semantic Scholar, arXiv, local file) implements this interface.
type Adapter interface {
	Name() string
	Fetch(ctx context.Context, query Query, cfg types.SourceConfig) ([]types.PaperRecord, error)
}

// Query holds the parameters of one fetch.
type Query struct {
	// FreeText is the keyword search string.
	FreeText string

	// YearFrom and YearTo bound the publication year (inclusive; 0 means unbounded).
	YearFrom int
	YearTo   int

	// MinCitations drops papers below this citation count (0 disables).
	MinCitations int
}

// IsEmpty reports whether the query contains no search text.
func (q Query) IsEmpty() bool {
	return strings.TrimSpace(q.FreeText) == ""
}

// InYearRange reports whether year falls inside the query's bounds. An
// unknown year (0) passes only when no bounds are set.
func (q Query) InYearRange(year int) bool {
	if q.YearFrom == 0 && q.YearTo == 0 {
		return true
	}
	if year == 0 {
		return false
	}
	if q.YearFrom != 0 && year < q.YearFrom {
		return false
	}
	if q.YearTo != 0 && year > q.YearTo {
		return false
	}
	return true
}

// deduplicate drops records that repeat an earlier record's ID, keeping
// source order. With byTitle, records repeating an earlier normalized title
// are dropped too. Later duplicates fill empty fields of the record they
// collide with.
func deduplicate(papers []types.PaperRecord, byTitle bool) ([]types.PaperRecord, int) {
	seen := make(map[string]int) // dedup key -> index in deduped
	var deduped []types.PaperRecord
	removed := 0

	for _, p := range papers {
		idKey := ""
		if p.ID != "" {
			idKey = "id:" + p.ID
		}
		titleKey := ""
		if byTitle {
			if t := normalizeTitle(p.Title); t != "" {
				titleKey = "title:" + t
			}
		}

		if idx, ok := lookup(seen, idKey, titleKey); ok {
			mergeInto(&deduped[idx], p)
			removed++
			continue
		}

		idx := len(deduped)
		deduped = append(deduped, p)
		if idKey != "" {
			seen[idKey] = idx
		}
		if titleKey != "" {
			seen[titleKey] = idx
		}
	}
	return deduped, removed
}

func lookup(seen map[string]int, keys ...string) (int, bool) {
	for _, k := range keys {
		if k == "" {
			continue
		}
		if idx, ok := seen[k]; ok {
			return idx, true
		}
	}
	return 0, false
}

// mergeInto fills empty fields of dst from src.
func mergeInto(dst *types.PaperRecord, src types.PaperRecord) {
	if dst.Title == "" && src.Title != "" {
		dst.Title = src.Title
	}
	if len(dst.Authors) == 0 && len(src.Authors) > 0 {
		dst.Authors = src.Authors
	}
	if dst.Abstract == "" && src.Abstract != "" {
		dst.Abstract = src.Abstract
	}
	if dst.Year == 0 && src.Year != 0 {
		dst.Year = src.Year
	}
	if dst.Venue == "" && src.Venue != "" {
		dst.Venue = src.Venue
	}
	if dst.DOI == "" && src.DOI != "" {
		dst.DOI = src.DOI
	}
	if dst.URL == "" && src.URL != "" {
		dst.URL = src.URL
	}
	if src.CitationCount > dst.CitationCount {
		dst.CitationCount = src.CitationCount
	}
	if len(dst.Keywords) == 0 && len(src.Keywords) > 0 {
		dst.Keywords = src.Keywords
	}
}

// normalizeTitle returns a lowercased, punctuation-stripped version of the title.
func normalizeTitle(title string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// maxResults returns the effective page cap for a fetch.
func maxResults(cfg types.SourceConfig) int {
	if cfg.MaxResults <= 0 {
		return 20
	}
	if cfg.MaxResults > 100 {
		return 100
	}
	return cfg.MaxResults
}
