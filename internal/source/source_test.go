// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"testing"

	"github.com/pdiddy/litreview/pkg/types"
)

// --- Query ---

func TestQueryIsEmpty(t *testing.T) {
	tests := []struct {
		name  string
		query Query
		want  bool
	}{
		{"empty", Query{}, true},
		{"whitespace only", Query{FreeText: "   "}, true},
		{"free text", Query{FreeText: "attention"}, false},
		{"year bounds only is empty", Query{YearFrom: 2020}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.query.IsEmpty(); got != tt.want {
				t.Errorf("IsEmpty() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestQueryInYearRange(t *testing.T) {
	tests := []struct {
		name  string
		query Query
		year  int
		want  bool
	}{
		{"no bounds", Query{}, 1990, true},
		{"no bounds unknown year", Query{}, 0, true},
		{"within range", Query{YearFrom: 2020, YearTo: 2023}, 2021, true},
		{"below range", Query{YearFrom: 2020, YearTo: 2023}, 2019, false},
		{"above range", Query{YearFrom: 2020, YearTo: 2023}, 2024, false},
		{"boundary from", Query{YearFrom: 2020}, 2020, true},
		{"boundary to", Query{YearTo: 2020}, 2020, true},
		{"open-ended from", Query{YearFrom: 2020}, 2099, true},
		{"unknown year with bounds", Query{YearFrom: 2020}, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.query.InYearRange(tt.year); got != tt.want {
				t.Errorf("InYearRange(%d) = %v, want %v", tt.year, got, tt.want)
			}
		})
	}
}

// --- Deduplication ---

func TestDeduplicateByID(t *testing.T) {
	papers := []types.PaperRecord{
		{ID: "10.1234/a", Title: "Paper A"},
		{ID: "10.1234/a", Title: "Paper A (again)", Abstract: "filled in"},
		{ID: "10.1234/b", Title: "Paper B"},
	}

	deduped, removed := deduplicate(papers, true)
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}
	if len(deduped) != 2 {
		t.Fatalf("len(deduped) = %d, want 2", len(deduped))
	}
	// The duplicate fills in the empty abstract on the survivor.
	if deduped[0].Abstract != "filled in" {
		t.Errorf("Abstract = %q, want merged value", deduped[0].Abstract)
	}
	if deduped[0].Title != "Paper A" {
		t.Errorf("Title = %q, want first occurrence kept", deduped[0].Title)
	}
}

func TestDeduplicateByNormalizedTitle(t *testing.T) {
	papers := []types.PaperRecord{
		{ID: "a1", Title: "Attention Is All You Need"},
		{ID: "b2", Title: "attention is all you need!", CitationCount: 90000},
	}

	deduped, removed := deduplicate(papers, true)
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}
	if len(deduped) != 1 {
		t.Fatalf("len(deduped) = %d, want 1", len(deduped))
	}
	if deduped[0].CitationCount != 90000 {
		t.Errorf("CitationCount = %d, want higher count merged", deduped[0].CitationCount)
	}
}

func TestDeduplicateKeepsDistinct(t *testing.T) {
	papers := []types.PaperRecord{
		{ID: "a", Title: "First"},
		{ID: "b", Title: "Second"},
		{ID: "c", Title: "Third"},
	}
	deduped, removed := deduplicate(papers, true)
	if removed != 0 || len(deduped) != 3 {
		t.Errorf("deduplicate() = %d papers, %d removed; want 3, 0", len(deduped), removed)
	}
}

// Title matching is off for curated corpora: two editions sharing a title
// stay separate records.
func TestDeduplicateByIDOnlyKeepsSharedTitles(t *testing.T) {
	papers := []types.PaperRecord{
		{ID: "l1", Title: "Collected Essays", Year: 1998},
		{ID: "l2", Title: "Collected Essays", Year: 2010},
	}
	deduped, removed := deduplicate(papers, false)
	if removed != 0 || len(deduped) != 2 {
		t.Errorf("deduplicate() = %d papers, %d removed; want 2, 0", len(deduped), removed)
	}

	// The same records under title matching merge.
	deduped, removed = deduplicate(papers, true)
	if removed != 1 || len(deduped) != 1 {
		t.Errorf("deduplicate() = %d papers, %d removed; want 1, 1", len(deduped), removed)
	}
}

func TestNormalizeTitle(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Attention Is All You Need", "attention is all you need"},
		{"BERT: Pre-training of Deep Bidirectional Transformers", "bert pretraining of deep bidirectional transformers"},
		{"  spaced   out  ", "spaced out"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := normalizeTitle(tt.in); got != tt.want {
			t.Errorf("normalizeTitle(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMaxResults(t *testing.T) {
	tests := []struct {
		name string
		cfg  types.SourceConfig
		want int
	}{
		{"default", types.SourceConfig{}, 20},
		{"explicit", types.SourceConfig{MaxResults: 50}, 50},
		{"capped", types.SourceConfig{MaxResults: 500}, 100},
		{"negative", types.SourceConfig{MaxResults: -1}, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := maxResults(tt.cfg); got != tt.want {
				t.Errorf("maxResults() = %d, want %d", got, tt.want)
			}
		})
	}
}
