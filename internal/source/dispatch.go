// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/pdiddy/litreview/pkg/types"
)

// Output holds the dispatch result. When the adapter fails, Papers is empty
// and Err carries the user-visible message; dispatch failures never surface
// as Go errors to the caller.
type Output struct {
	Papers      []types.PaperRecord
	DupsRemoved int
	Err         string
}

// Dispatch invokes exactly one adapter for the query, deduplicates the
// returned records by id and normalized title, applies the year and citation
// bounds, and caps the result at the configured page size. Adapter failures
// degrade to an empty result with a warning on w.
func Dispatch(ctx context.Context, adapter Adapter, query Query, cfg types.SourceConfig, w io.Writer) Output {
	papers, err := adapter.Fetch(ctx, query, cfg)
	if err != nil {
		msg := fmt.Sprintf("%s: %v", adapter.Name(), err)
		fmt.Fprintf(w, "warning: source %s failed: %v\n", adapter.Name(), err)
		return Output{Err: msg}
	}

	deduped, removed := deduplicate(papers, dedupTitles(adapter))

	var filtered []types.PaperRecord
	for _, p := range deduped {
		if !query.InYearRange(p.Year) {
			continue
		}
		if query.MinCitations > 0 && p.CitationCount < query.MinCitations {
			continue
		}
		filtered = append(filtered, p)
	}

	if limit := maxResults(cfg); len(filtered) > limit {
		filtered = filtered[:limit]
	}

	return Output{Papers: filtered, DupsRemoved: removed}
}

// curatedSource is implemented by adapters whose corpus is curated by the
// user: distinct ids are trusted, so matching titles stay separate records.
type curatedSource interface {
	Curated() bool
}

// dedupTitles reports whether normalized-title dedup applies to an adapter's
// results. Remote APIs can return the same work under different ids; curated
// local corpora cannot.
func dedupTitles(adapter Adapter) bool {
	if c, ok := adapter.(curatedSource); ok {
		return !c.Curated()
	}
	return true
}

// AdapterFor returns the adapter registered under name. The client argument
// is ignored by the local adapter.
func AdapterFor(name string, client *http.Client) (Adapter, error) {
	switch name {
	case "openalex":
		return &OpenAlexAdapter{Client: client}, nil
	case "semantic_scholar", "semantic":
		return &SemanticScholarAdapter{Client: client}, nil
	case "arxiv":
		return &ArxivAdapter{Client: client}, nil
	case "local":
		return &LocalFileAdapter{}, nil
	default:
		return nil, fmt.Errorf("unknown source %q (expected openalex, semantic_scholar, arxiv, or local)", name)
	}
}
