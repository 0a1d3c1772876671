// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/pdiddy/litreview/internal/httputil"
	"github.com/pdiddy/litreview/pkg/types"
)

// openAlexSearchBase is the OpenAlex Works search endpoint. Declared as a
// var so tests can substitute an httptest server.
var openAlexSearchBase = "https://api.openalex.org/works"

// OpenAlexAdapter queries the OpenAlex API.
type OpenAlexAdapter struct {
	Client *http.Client
}

// Name returns the adapter identifier.
func (a *OpenAlexAdapter) Name() string { return "openalex" }

// Fetch queries the OpenAlex API with a single GET and maps the works onto
// PaperRecords.
func (a *OpenAlexAdapter) Fetch(ctx context.Context, query Query, cfg types.SourceConfig) ([]types.PaperRecord, error) {
	if query.IsEmpty() {
		return nil, fmt.Errorf("empty OpenAlex query")
	}

	params := url.Values{
		"search":   {query.FreeText},
		"per_page": {fmt.Sprintf("%d", maxResults(cfg))},
		"page":     {"1"},
	}

	var filters []string
	if query.YearFrom != 0 {
		filters = append(filters, fmt.Sprintf("from_publication_date:%d-01-01", query.YearFrom))
	}
	if query.YearTo != 0 {
		filters = append(filters, fmt.Sprintf("to_publication_date:%d-12-31", query.YearTo))
	}
	if len(filters) > 0 {
		params.Set("filter", strings.Join(filters, ","))
	}

	// Polite pool access.
	if cfg.OpenAlexEmail != "" {
		params.Set("mailto", cfg.OpenAlexEmail)
	}

	reqURL := openAlexSearchBase + "?" + params.Encode()

	var oar openAlexResponse
	if err := httputil.GetJSON(ctx, a.Client, reqURL, cfg.UserAgent, nil, &oar); err != nil {
		return nil, fmt.Errorf("OpenAlex API: %w", err)
	}

	var papers []types.PaperRecord
	for _, work := range oar.Results {
		p := types.PaperRecord{
			Source:        "openalex",
			Title:         work.Title,
			Abstract:      reconstructAbstract(work.AbstractInvertedIndex),
			Year:          work.PublicationYear,
			CitationCount: work.CitedByCount,
			Venue:         work.PrimaryLocation.Source.DisplayName,
			URL:           work.PrimaryLocation.LandingPageURL,
		}

		for _, authorship := range work.Authorships {
			if authorship.Author.DisplayName != "" {
				p.Authors = append(p.Authors, authorship.Author.DisplayName)
			}
		}
		for _, kw := range work.Keywords {
			if kw.DisplayName != "" {
				p.Keywords = append(p.Keywords, kw.DisplayName)
			}
		}

		// Prefer DOI as identifier since OpenAlex is DOI-centric.
		// Strip the https://doi.org/ prefix to get the bare DOI.
		if work.DOI != "" {
			p.DOI = strings.TrimPrefix(work.DOI, "https://doi.org/")
			p.ID = p.DOI
		} else {
			p.ID = work.ID
		}
		if p.URL == "" {
			p.URL = work.ID
		}

		papers = append(papers, p)
	}
	return papers, nil
}

// reconstructAbstract converts OpenAlex's abstract_inverted_index back to
// plain text. The inverted index maps each word to a list of positions
// where that word appears.
func reconstructAbstract(invertedIndex map[string][]int) string {
	if len(invertedIndex) == 0 {
		return ""
	}

	// Build position→word map.
	type posWord struct {
		pos  int
		word string
	}
	var pairs []posWord
	for word, positions := range invertedIndex {
		for _, pos := range positions {
			pairs = append(pairs, posWord{pos: pos, word: word})
		}
	}

	sort.Slice(pairs, func(i, j int) bool {
		return pairs[i].pos < pairs[j].pos
	})

	words := make([]string, len(pairs))
	for i, p := range pairs {
		words[i] = p.word
	}
	return strings.Join(words, " ")
}

// OpenAlex API JSON structures.
type openAlexResponse struct {
	Meta    openAlexMeta   `json:"meta"`
	Results []openAlexWork `json:"results"`
}

type openAlexMeta struct {
	Count   int `json:"count"`
	PerPage int `json:"per_page"`
	Page    int `json:"page"`
}

type openAlexWork struct {
	ID                    string               `json:"id"`
	Title                 string               `json:"title"`
	DOI                   string               `json:"doi"`
	PublicationYear       int                  `json:"publication_year"`
	CitedByCount          int                  `json:"cited_by_count"`
	Authorships           []openAlexAuthorship `json:"authorships"`
	AbstractInvertedIndex map[string][]int     `json:"abstract_inverted_index"`
	Keywords              []openAlexKeyword    `json:"keywords"`
	PrimaryLocation       openAlexLocation     `json:"primary_location"`
}

type openAlexAuthorship struct {
	Author openAlexAuthor `json:"author"`
}

type openAlexAuthor struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

type openAlexKeyword struct {
	DisplayName string `json:"display_name"`
}

type openAlexLocation struct {
	LandingPageURL string        `json:"landing_page_url"`
	Source         openAlexVenue `json:"source"`
}

type openAlexVenue struct {
	DisplayName string `json:"display_name"`
}
