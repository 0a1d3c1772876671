// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/pdiddy/litreview/pkg/types"
)

// corpusSchema validates a local paper corpus before normalization. The
// document is either a top-level array of paper objects or a wrapper with a
// "references" array; every paper needs at least a title.
const corpusSchema = `{
  "oneOf": [
    {"$ref": "#/definitions/papers"},
    {
      "type": "object",
      "properties": {"references": {"$ref": "#/definitions/papers"}},
      "required": ["references"]
    }
  ],
  "definitions": {
    "papers": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "id": {"type": ["string", "integer"]},
          "title": {"type": "string"},
          "authors": {"type": "array", "items": {"type": "string"}},
          "year": {"type": "integer"},
          "journal": {"type": "string"},
          "venue": {"type": "string"},
          "abstract": {"type": "string"},
          "keywords": {"type": "array", "items": {"type": "string"}},
          "citations": {"type": "integer"},
          "doi": {"type": "string"},
          "url": {"type": "string"}
        },
        "required": ["title"]
      }
    }
  }
}`

// LocalFileAdapter loads papers from a JSON corpus on disk and filters them
// by case-insensitive substring match.
type LocalFileAdapter struct{}

// Name returns the adapter identifier.
func (a *LocalFileAdapter) Name() string { return "local" }

// Curated reports that the corpus is user-maintained: distinct ids are
// distinct papers even when titles repeat.
func (a *LocalFileAdapter) Curated() bool { return true }

// localPaper is one raw corpus entry. "journal" and "venue" are accepted
// interchangeably, as are the two corpus layouts (bare array vs. a
// "references" wrapper).
type localPaper struct {
	ID        flexID   `json:"id"`
	Title     string   `json:"title"`
	Authors   []string `json:"authors"`
	Year      int      `json:"year"`
	Journal   string   `json:"journal"`
	Venue     string   `json:"venue"`
	Abstract  string   `json:"abstract"`
	Keywords  []string `json:"keywords"`
	Citations int      `json:"citations"`
	DOI       string   `json:"doi"`
	URL       string   `json:"url"`
}

// flexID accepts corpus ids written as either JSON strings or integers.
type flexID string

func (f *flexID) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*f = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexID(n.String())
	return nil
}

type localCorpus struct {
	References []localPaper `json:"references"`
}

// Fetch loads the corpus at cfg.LocalPath, validates it against the corpus
// schema, and returns the records matching the query. An empty query returns
// the whole corpus (up to the page cap, applied by the dispatcher).
func (a *LocalFileAdapter) Fetch(ctx context.Context, query Query, cfg types.SourceConfig) ([]types.PaperRecord, error) {
	if cfg.LocalPath == "" {
		return nil, fmt.Errorf("no local corpus configured")
	}

	data, err := os.ReadFile(cfg.LocalPath)
	if err != nil {
		return nil, fmt.Errorf("reading corpus %s: %w", cfg.LocalPath, err)
	}

	if err := validateCorpus(data); err != nil {
		return nil, fmt.Errorf("corpus %s: %w", cfg.LocalPath, err)
	}

	raw, err := decodeCorpus(data)
	if err != nil {
		return nil, fmt.Errorf("parsing corpus %s: %w", cfg.LocalPath, err)
	}

	var papers []types.PaperRecord
	for i, lp := range raw {
		p := types.PaperRecord{
			ID:            string(lp.ID),
			Source:        "local",
			Title:         lp.Title,
			Authors:       lp.Authors,
			Year:          lp.Year,
			Venue:         lp.Journal,
			Abstract:      lp.Abstract,
			Keywords:      lp.Keywords,
			CitationCount: lp.Citations,
			DOI:           lp.DOI,
			URL:           lp.URL,
		}
		if p.Venue == "" {
			p.Venue = lp.Venue
		}
		if p.ID == "" {
			p.ID = fmt.Sprintf("local-%d", i+1)
		}

		if MatchesSubstring(p, query.FreeText) {
			papers = append(papers, p)
		}
	}
	return papers, nil
}

// validateCorpus checks the raw document against corpusSchema and reports
// every violation in one error.
func validateCorpus(data []byte) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(corpusSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return fmt.Errorf("schema validation: %w", err)
	}
	if result.Valid() {
		return nil
	}
	var details []string
	for _, desc := range result.Errors() {
		details = append(details, desc.String())
	}
	return fmt.Errorf("corpus failed validation: %s", strings.Join(details, "; "))
}

// decodeCorpus unwraps either corpus layout into a flat paper list.
func decodeCorpus(data []byte) ([]localPaper, error) {
	trimmed := strings.TrimLeftFunc(string(data), func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	if strings.HasPrefix(trimmed, "{") {
		var wrapper localCorpus
		if err := json.Unmarshal(data, &wrapper); err != nil {
			return nil, err
		}
		return wrapper.References, nil
	}
	var papers []localPaper
	if err := json.Unmarshal(data, &papers); err != nil {
		return nil, err
	}
	return papers, nil
}

// MatchesSubstring reports whether needle appears (case-insensitively) in the
// paper's title, abstract, keywords, or author names. An empty needle matches
// everything.
func MatchesSubstring(p types.PaperRecord, needle string) bool {
	needle = strings.ToLower(strings.TrimSpace(needle))
	if needle == "" {
		return true
	}
	if strings.Contains(strings.ToLower(p.Title), needle) {
		return true
	}
	if strings.Contains(strings.ToLower(p.Abstract), needle) {
		return true
	}
	for _, kw := range p.Keywords {
		if strings.Contains(strings.ToLower(kw), needle) {
			return true
		}
	}
	for _, author := range p.Authors {
		if strings.Contains(strings.ToLower(author), needle) {
			return true
		}
	}
	return false
}
