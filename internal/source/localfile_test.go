// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/pdiddy/litreview/pkg/types"
)

const sampleCorpusArray = `[
  {
    "id": "p1",
    "title": "Cognitive Drift in Long-Term Memory Systems",
    "authors": ["A. Smith", "B. Jones"],
    "year": 2021,
    "journal": "Journal of Cognitive Science",
    "abstract": "We study cognitive drift across extended recall intervals.",
    "keywords": ["memory", "cognitive drift"],
    "citations": 12,
    "doi": "10.1000/jcs.2021.001"
  },
  {
    "id": "p2",
    "title": "Transformer Architectures for Language",
    "authors": ["C. Brown"],
    "year": 2019,
    "venue": "ACL",
    "abstract": "A survey of transformer models.",
    "keywords": ["transformers", "nlp"],
    "citations": 340
  },
  {
    "id": 3,
    "title": "Untitled Notes on Perception",
    "authors": [],
    "year": 2023,
    "abstract": "Short note.",
    "keywords": []
  }
]`

const sampleCorpusWrapper = `{
  "references": [
    {"id": "r1", "title": "First", "year": 2020, "abstract": "alpha"},
    {"id": "r2", "title": "Second", "year": 2022, "abstract": "beta"}
  ]
}`

func writeCorpus(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "papers.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func localCfg(path string) types.SourceConfig {
	return types.SourceConfig{MaxResults: 20, LocalPath: path}
}

func TestLocalFetchLoadsAllRecords(t *testing.T) {
	path := writeCorpus(t, sampleCorpusArray)

	adapter := &LocalFileAdapter{}
	papers, err := adapter.Fetch(context.Background(), Query{}, localCfg(path))
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}
	// N well-formed records load as exactly N normalized PaperRecords.
	if len(papers) != 3 {
		t.Fatalf("len(papers) = %d, want 3", len(papers))
	}

	seen := map[string]bool{}
	for _, p := range papers {
		if p.ID == "" {
			t.Errorf("paper %q has empty ID", p.Title)
		}
		if seen[p.ID] {
			t.Errorf("duplicate ID %q", p.ID)
		}
		seen[p.ID] = true
		if p.Source != "local" {
			t.Errorf("Source = %q, want local", p.Source)
		}
	}

	if papers[0].Venue != "Journal of Cognitive Science" {
		t.Errorf("Venue = %q, want journal field mapped", papers[0].Venue)
	}
	if papers[1].Venue != "ACL" {
		t.Errorf("Venue = %q, want venue field accepted", papers[1].Venue)
	}
	if papers[2].ID != "3" {
		t.Errorf("ID = %q, want integer id stringified", papers[2].ID)
	}
}

func TestLocalFetchWrapperLayout(t *testing.T) {
	path := writeCorpus(t, sampleCorpusWrapper)

	adapter := &LocalFileAdapter{}
	papers, err := adapter.Fetch(context.Background(), Query{}, localCfg(path))
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}
	if len(papers) != 2 {
		t.Fatalf("len(papers) = %d, want 2", len(papers))
	}
}

// A keyword present in exactly one abstract returns exactly one record.
func TestLocalFetchSubstringFilter(t *testing.T) {
	path := writeCorpus(t, sampleCorpusArray)
	adapter := &LocalFileAdapter{}

	tests := []struct {
		name    string
		text    string
		wantIDs []string
	}{
		{"abstract match", "recall intervals", []string{"p1"}},
		{"case insensitive title match", "TRANSFORMER", []string{"p2"}},
		{"keyword match", "cognitive drift", []string{"p1"}},
		{"author match", "brown", []string{"p2"}},
		{"no match", "quantum chromodynamics", nil},
		{"empty matches all", "", []string{"p1", "p2", "3"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			papers, err := adapter.Fetch(context.Background(), Query{FreeText: tt.text}, localCfg(path))
			if err != nil {
				t.Fatalf("Fetch() error: %v", err)
			}
			if len(papers) != len(tt.wantIDs) {
				t.Fatalf("len(papers) = %d, want %d", len(papers), len(tt.wantIDs))
			}
			for i, id := range tt.wantIDs {
				if papers[i].ID != id {
					t.Errorf("papers[%d].ID = %q, want %q", i, papers[i].ID, id)
				}
			}
		})
	}
}

// Two corpus entries with distinct ids but the same title are distinct
// papers: the dispatcher must not title-merge a curated corpus.
func TestDispatchLocalKeepsSameTitleRecords(t *testing.T) {
	path := writeCorpus(t, `[
		{"id": "e1", "title": "Collected Essays", "year": 1998, "abstract": "First edition."},
		{"id": "e2", "title": "Collected Essays", "year": 2010, "abstract": "Second edition."}
	]`)

	var buf bytes.Buffer
	out := Dispatch(context.Background(), &LocalFileAdapter{}, Query{FreeText: "essays"}, localCfg(path), &buf)
	if out.Err != "" {
		t.Fatalf("Err = %q, want empty", out.Err)
	}
	if out.DupsRemoved != 0 {
		t.Errorf("DupsRemoved = %d, want 0", out.DupsRemoved)
	}
	if len(out.Papers) != 2 {
		t.Fatalf("len(Papers) = %d, want 2", len(out.Papers))
	}
	if out.Papers[0].ID != "e1" || out.Papers[1].ID != "e2" {
		t.Errorf("ids = %q, %q", out.Papers[0].ID, out.Papers[1].ID)
	}
}

func TestLocalFetchMissingFile(t *testing.T) {
	adapter := &LocalFileAdapter{}
	_, err := adapter.Fetch(context.Background(), Query{}, localCfg(filepath.Join(t.TempDir(), "absent.json")))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLocalFetchNoPathConfigured(t *testing.T) {
	adapter := &LocalFileAdapter{}
	_, err := adapter.Fetch(context.Background(), Query{}, types.SourceConfig{})
	if err == nil {
		t.Fatal("expected error when no corpus is configured")
	}
}

func TestLocalFetchSchemaViolations(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"not an array or wrapper", `"just a string"`},
		{"paper missing title", `[{"id": "x", "year": 2020}]`},
		{"year not an integer", `[{"title": "T", "year": "2020"}]`},
		{"authors not strings", `[{"title": "T", "authors": [1, 2]}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeCorpus(t, tt.content)
			adapter := &LocalFileAdapter{}
			_, err := adapter.Fetch(context.Background(), Query{}, localCfg(path))
			if err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestLocalFetchMalformedJSON(t *testing.T) {
	path := writeCorpus(t, `[{"title": "broken"`)
	adapter := &LocalFileAdapter{}
	if _, err := adapter.Fetch(context.Background(), Query{}, localCfg(path)); err == nil {
		t.Fatal("expected error for malformed JSON")
	}
}
