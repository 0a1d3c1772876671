// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package assist

import (
	"context"
	"strings"

	"github.com/pdiddy/litreview/pkg/types"
)

// Summarize asks the AI backend for a 2-3 sentence summary of one paper.
func Summarize(ctx context.Context, backend Backend, paper types.PaperRecord) (string, error) {
	prompt, err := renderTemplate(summaryPromptTmpl, struct {
		Title    string
		Abstract string
	}{Title: paper.Title, Abstract: paper.Abstract})
	if err != nil {
		return "", err
	}

	reply, err := backend.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(reply), nil
}

// ExplainRelevance asks the AI backend why one paper is conceptually relevant
// to the search query.
func ExplainRelevance(ctx context.Context, backend Backend, paper types.PaperRecord, query string) (string, error) {
	prompt, err := renderTemplate(explainPromptTmpl, struct {
		Query    string
		Title    string
		Abstract string
		Keywords string
	}{
		Query:    query,
		Title:    paper.Title,
		Abstract: paper.Abstract,
		Keywords: strings.Join(paper.Keywords, ", "),
	})
	if err != nil {
		return "", err
	}

	reply, err := backend.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(reply), nil
}
