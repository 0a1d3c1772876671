// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/pdiddy/litreview/internal/httputil"
	"github.com/pdiddy/litreview/pkg/types"
)

// semanticAPIBase is the Semantic Scholar paper search endpoint. Declared
// as a var so tests can substitute an httptest server.
var semanticAPIBase = "https://api.semanticscholar.org/graph/v1/paper/search"

const semanticFields = "title,abstract,authors,externalIds,year,venue,citationCount,url"

// SemanticScholarAdapter queries the Semantic Scholar Graph API.
type SemanticScholarAdapter struct {
	Client *http.Client
}

// Name returns the adapter identifier.
func (a *SemanticScholarAdapter) Name() string { return "semantic_scholar" }

// Fetch queries the Semantic Scholar API with a single GET and maps the
// papers onto PaperRecords.
func (a *SemanticScholarAdapter) Fetch(ctx context.Context, query Query, cfg types.SourceConfig) ([]types.PaperRecord, error) {
	if query.IsEmpty() {
		return nil, fmt.Errorf("empty Semantic Scholar query")
	}

	params := url.Values{
		"query":  {query.FreeText},
		"limit":  {fmt.Sprintf("%d", maxResults(cfg))},
		"fields": {semanticFields},
	}

	if yearRange := buildYearRange(query.YearFrom, query.YearTo); yearRange != "" {
		params.Set("year", yearRange)
	}

	reqURL := semanticAPIBase + "?" + params.Encode()

	var headers map[string]string
	if cfg.SemanticScholarAPIKey != "" {
		headers = map[string]string{"x-api-key": cfg.SemanticScholarAPIKey}
	}

	var sr semanticResponse
	if err := httputil.GetJSON(ctx, a.Client, reqURL, cfg.UserAgent, headers, &sr); err != nil {
		return nil, fmt.Errorf("Semantic Scholar API: %w", err)
	}

	var papers []types.PaperRecord
	for _, paper := range sr.Data {
		p := types.PaperRecord{
			Source:        "semantic_scholar",
			Title:         paper.Title,
			Abstract:      paper.Abstract,
			Year:          paper.Year,
			Venue:         paper.Venue,
			CitationCount: paper.CitationCount,
			URL:           paper.URL,
			DOI:           paper.ExternalIDs.DOI,
		}

		for _, author := range paper.Authors {
			if author.Name != "" {
				p.Authors = append(p.Authors, author.Name)
			}
		}

		// Prefer the arXiv ID, then the DOI, then the provider's own ID.
		switch {
		case paper.ExternalIDs.ArXiv != "":
			p.ID = paper.ExternalIDs.ArXiv
		case paper.ExternalIDs.DOI != "":
			p.ID = paper.ExternalIDs.DOI
		default:
			p.ID = paper.PaperID
		}

		papers = append(papers, p)
	}
	return papers, nil
}

// buildYearRange returns a Semantic Scholar year filter string (e.g. "2020-2023").
func buildYearRange(from, to int) string {
	switch {
	case from != 0 && to != 0:
		return fmt.Sprintf("%d-%d", from, to)
	case from != 0:
		return fmt.Sprintf("%d-", from)
	case to != 0:
		return fmt.Sprintf("-%d", to)
	default:
		return ""
	}
}

// Semantic Scholar API JSON structures.
type semanticResponse struct {
	Total  int             `json:"total"`
	Offset int             `json:"offset"`
	Data   []semanticPaper `json:"data"`
}

type semanticPaper struct {
	PaperID       string              `json:"paperId"`
	Title         string              `json:"title"`
	Abstract      string              `json:"abstract"`
	Year          int                 `json:"year"`
	Venue         string              `json:"venue"`
	CitationCount int                 `json:"citationCount"`
	URL           string              `json:"url"`
	Authors       []semanticAuthor    `json:"authors"`
	ExternalIDs   semanticExternalIDs `json:"externalIds"`
}

type semanticAuthor struct {
	AuthorID string `json:"authorId"`
	Name     string `json:"name"`
}

type semanticExternalIDs struct {
	DOI      string `json:"DOI"`
	ArXiv    string `json:"ArXiv"`
	CorpusID int    `json:"CorpusId"`
}
