// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package assist

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/pdiddy/litreview/pkg/types"
)

// rankReply is the structured reply expected from the ranking prompt.
type rankReply struct {
	Ranking []rankEntry `json:"ranking"`
}

type rankEntry struct {
	ID        string `json:"id"`
	Score     int    `json:"score"`
	Reasoning string `json:"reasoning"`
}

// RankByRelevance sends the whole candidate list to the AI backend in one
// request and reorders it by the returned per-paper scores, highest first.
// Papers the model omits keep their original relative order after the ranked
// ones. On any API or parse failure the original order is returned unchanged
// with a warning on w.
func RankByRelevance(ctx context.Context, backend Backend, papers []types.PaperRecord, topic string, w io.Writer) ([]types.PaperRecord, []types.RelevanceAssessment) {
	if len(papers) == 0 {
		return papers, nil
	}

	prompt, err := renderTemplate(rankPromptTmpl, struct {
		Query  string
		Papers string
	}{Query: topic, Papers: renderPaperList(papers)})
	if err != nil {
		fmt.Fprintf(w, "warning: ranking unavailable: %v\n", err)
		return papers, nil
	}

	reply, err := backend.Generate(ctx, prompt)
	if err != nil {
		fmt.Fprintf(w, "warning: ranking unavailable: %v\n", err)
		return papers, nil
	}

	var parsed rankReply
	if err := json.Unmarshal([]byte(extractJSON(reply)), &parsed); err != nil || len(parsed.Ranking) == 0 {
		fmt.Fprintf(w, "warning: could not parse ranking reply; keeping original order\n")
		return papers, nil
	}

	byID := make(map[string]types.PaperRecord, len(papers))
	for _, p := range papers {
		byID[p.ID] = p
	}

	var assessments []types.RelevanceAssessment
	taken := make(map[string]bool)
	for _, entry := range parsed.Ranking {
		if _, ok := byID[entry.ID]; !ok || taken[entry.ID] {
			continue
		}
		taken[entry.ID] = true
		assessments = append(assessments, types.RelevanceAssessment{
			PaperID:   entry.ID,
			Score:     clampScore(entry.Score),
			Reasoning: entry.Reasoning,
		})
	}

	// Order by score descending; the reply order breaks ties.
	sort.SliceStable(assessments, func(i, j int) bool {
		return assessments[i].Score > assessments[j].Score
	})

	var ranked []types.PaperRecord
	for _, a := range assessments {
		ranked = append(ranked, byID[a.PaperID])
	}

	// Papers the model skipped keep their original relative order.
	for _, p := range papers {
		if !taken[p.ID] {
			ranked = append(ranked, p)
		}
	}

	return ranked, assessments
}

// ScoreRelevance rates a single paper against a research question. The reply
// is parsed with best-effort string matching on the Score:/Reasoning: markers;
// an unparseable reply yields score 0 with the raw reply as reasoning.
func ScoreRelevance(ctx context.Context, backend Backend, paper types.PaperRecord, topic string) (types.RelevanceAssessment, error) {
	prompt, err := renderTemplate(scorePromptTmpl, struct {
		Query    string
		Title    string
		Abstract string
	}{Query: topic, Title: paper.Title, Abstract: paper.Abstract})
	if err != nil {
		return types.RelevanceAssessment{}, err
	}

	reply, err := backend.Generate(ctx, prompt)
	if err != nil {
		return types.RelevanceAssessment{}, err
	}

	score, reasoning := parseScoreReply(reply)
	return types.RelevanceAssessment{PaperID: paper.ID, Score: score, Reasoning: reasoning}, nil
}

// parseScoreReply extracts the score and reasoning from a Score:/Reasoning:
// formatted reply. A missing or malformed score yields 0 with the full reply
// as reasoning.
func parseScoreReply(reply string) (int, string) {
	score := 0
	reasoning := strings.TrimSpace(reply)

	if _, after, ok := strings.Cut(reply, "Score:"); ok {
		fields := strings.Fields(after)
		if len(fields) > 0 {
			raw := strings.Trim(fields[0], "[]./")
			if n, err := strconv.Atoi(raw); err == nil {
				score = clampScore(n)
			}
		}
	}
	if _, after, ok := strings.Cut(reply, "Reasoning:"); ok {
		reasoning = strings.TrimSpace(after)
	}
	return score, reasoning
}

func clampScore(n int) int {
	if n < 0 {
		return 0
	}
	if n > 10 {
		return 10
	}
	return n
}
