// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package assist

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"unicode/utf8"

	"github.com/pdiddy/litreview/pkg/types"
)

// summaryPromptTmpl asks for a short standalone summary of a single paper.
var summaryPromptTmpl = template.Must(template.New("summary").Parse(`Please provide a concise summary (2-3 sentences) of this research paper:

Title: {{.Title}}
Abstract: {{.Abstract}}

Summary:`))

// explainPromptTmpl asks why a paper is conceptually relevant to a search query.
var explainPromptTmpl = template.Must(template.New("explain").Parse(`You are helping a graduate student with a literature review.

Search query:
"{{.Query}}"

Paper title:
"{{.Title}}"

Abstract:
"{{.Abstract}}"

Keywords:
{{.Keywords}}

In 3-4 sentences, explain why this paper might be relevant to the search query.
Focus on conceptual relevance, not summary.`))

// scorePromptTmpl asks for a 1-10 relevance score for one paper against a
// research question. The reply is parsed via the Score:/Reasoning: markers.
var scorePromptTmpl = template.Must(template.New("score").Parse(`Rate the relevance of this research paper to the following research question on a scale of 1-10, and provide a brief explanation:

Research Question: {{.Query}}

Paper Title: {{.Title}}
Abstract: {{.Abstract}}

Please respond in this format:
Score: [1-10]
Reasoning: [brief explanation]`))

// rankPromptTmpl asks for a relevance ranking over a whole candidate list in
// one request. The reply must be a JSON object so ordering and per-paper
// scores survive parsing.
var rankPromptTmpl = template.Must(template.New("rank").Parse(`You are a research assistant ranking candidate papers for a literature review.

Research topic:
"{{.Query}}"

Candidate papers:
{{.Papers}}

Rank every paper by relevance to the research topic. Respond with a JSON object
containing a "ranking" array ordered from most to least relevant. Each element
must have "id" (exactly as given), "score" (integer 1-10), and "reasoning"
(one sentence). Do not include any text outside the JSON object.

Example response:
{"ranking": [{"id": "p1", "score": 9, "reasoning": "Directly addresses the topic."}]}`))

// clusterPromptTmpl asks for a thematic grouping of the candidate list in one
// request.
var clusterPromptTmpl = template.Must(template.New("cluster").Parse(`You are a research assistant organizing papers for a literature review.

Research topic:
"{{.Query}}"

Candidate papers:
{{.Papers}}

Group the papers into 2-5 named thematic clusters. Respond with a JSON object
containing a "clusters" array. Each element must have "name" (a short cluster
label), "key_topics" (a list of lowercase topic strings), and "member_ids"
(paper ids exactly as given; every paper appears in exactly one cluster).
Do not include any text outside the JSON object.

Example response:
{"clusters": [{"name": "Memory Systems", "key_topics": ["episodic memory"], "member_ids": ["p1", "p3"]}]}`))

// renderPaperList formats the candidate list for inclusion in a prompt. Long
// abstracts are truncated so large candidate sets stay within token limits.
func renderPaperList(papers []types.PaperRecord) string {
	var b strings.Builder
	for _, p := range papers {
		abstract := truncateRunes(p.Abstract, 400)
		fmt.Fprintf(&b, "- id: %s\n  title: %s (%d)\n  abstract: %s\n", p.ID, p.Title, p.Year, abstract)
	}
	return b.String()
}

// truncateRunes shortens s to at most limit runes, appending an ellipsis
// when anything was cut. Truncation never splits a multi-byte rune.
func truncateRunes(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit]) + "..."
}

func renderTemplate(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering prompt: %w", err)
	}
	return buf.String(), nil
}
