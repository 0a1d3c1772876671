// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package assist

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/pdiddy/litreview/pkg/types"
)

// --- mock backend ---

type mockBackend struct {
	reply   string
	err     error
	prompts []string
}

func (m *mockBackend) Generate(_ context.Context, prompt string) (string, error) {
	m.prompts = append(m.prompts, prompt)
	return m.reply, m.err
}

func testPapers() []types.PaperRecord {
	return []types.PaperRecord{
		{ID: "p1", Title: "Memory Systems", Year: 2020, Abstract: "About memory."},
		{ID: "p2", Title: "Attention Models", Year: 2021, Abstract: "About attention."},
		{ID: "p3", Title: "Perception Notes", Year: 2022, Abstract: "About perception."},
	}
}

// --- extractJSON ---

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  string
	}{
		{"bare object", `{"a": 1}`, `{"a": 1}`},
		{"bare array", `[1, 2]`, `[1, 2]`},
		{"fenced json", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"fenced no language", "```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"prose around object", `Here you go: {"a": 1} hope that helps`, `{"a": 1}`},
		{"no json", "sorry, I cannot help", ""},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractJSON(tt.reply); got != tt.want {
				t.Errorf("extractJSON(%q) = %q, want %q", tt.reply, got, tt.want)
			}
		})
	}
}

// --- truncateRunes ---

func TestTruncateRunes(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		limit int
		want  string
	}{
		{"short untouched", "hello", 10, "hello"},
		{"exact limit untouched", "hello", 5, "hello"},
		{"ascii cut", "abcdef", 4, "abcd..."},
		{"multi-byte cut", "日本語のテキスト", 3, "日本語..."},
		{"accented cut", "résumé", 4, "résu..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncateRunes(tt.in, tt.limit)
			if got != tt.want {
				t.Errorf("truncateRunes(%q, %d) = %q, want %q", tt.in, tt.limit, got, tt.want)
			}
			if !utf8.ValidString(got) {
				t.Errorf("truncateRunes(%q, %d) produced invalid UTF-8", tt.in, tt.limit)
			}
		})
	}
}

func TestRenderPaperListKeepsAbstractsValidUTF8(t *testing.T) {
	papers := []types.PaperRecord{{
		ID:       "p1",
		Title:    "記憶の研究",
		Year:     2023,
		Abstract: strings.Repeat("記憶と注意の関係について。", 50),
	}}
	out := renderPaperList(papers)
	if !utf8.ValidString(out) {
		t.Fatal("renderPaperList produced invalid UTF-8")
	}
	if !strings.Contains(out, "...") {
		t.Error("long abstract was not truncated")
	}
}

// --- parseScoreReply ---

func TestParseScoreReply(t *testing.T) {
	tests := []struct {
		name          string
		reply         string
		wantScore     int
		wantReasoning string
	}{
		{
			name:          "well formed",
			reply:         "Score: 8\nReasoning: Highly relevant to the topic.",
			wantScore:     8,
			wantReasoning: "Highly relevant to the topic.",
		},
		{
			name:          "bracketed score",
			reply:         "Score: [7]\nReasoning: Close match.",
			wantScore:     7,
			wantReasoning: "Close match.",
		},
		{
			name:          "score out of range is clamped",
			reply:         "Score: 15\nReasoning: Over-enthusiastic model.",
			wantScore:     10,
			wantReasoning: "Over-enthusiastic model.",
		},
		{
			name:          "no markers",
			reply:         "This paper looks interesting.",
			wantScore:     0,
			wantReasoning: "This paper looks interesting.",
		},
		{
			name:          "non-numeric score",
			reply:         "Score: high\nReasoning: Vague.",
			wantScore:     0,
			wantReasoning: "Vague.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, reasoning := parseScoreReply(tt.reply)
			if score != tt.wantScore {
				t.Errorf("score = %d, want %d", score, tt.wantScore)
			}
			if reasoning != tt.wantReasoning {
				t.Errorf("reasoning = %q, want %q", reasoning, tt.wantReasoning)
			}
		})
	}
}

// --- RankByRelevance ---

func TestRankByRelevanceReorders(t *testing.T) {
	backend := &mockBackend{
		reply: `{"ranking": [
			{"id": "p3", "score": 9, "reasoning": "Spot on."},
			{"id": "p1", "score": 5, "reasoning": "Related."},
			{"id": "p2", "score": 2, "reasoning": "Tangential."}
		]}`,
	}

	var buf bytes.Buffer
	ranked, assessments := RankByRelevance(context.Background(), backend, testPapers(), "perception", &buf)
	if buf.Len() != 0 {
		t.Errorf("unexpected warning: %q", buf.String())
	}

	wantOrder := []string{"p3", "p1", "p2"}
	for i, id := range wantOrder {
		if ranked[i].ID != id {
			t.Errorf("ranked[%d].ID = %q, want %q", i, ranked[i].ID, id)
		}
	}
	if len(assessments) != 3 || assessments[0].Score != 9 {
		t.Errorf("assessments = %+v", assessments)
	}
}

func TestRankByRelevanceOmittedPapersKeepOrder(t *testing.T) {
	backend := &mockBackend{
		reply: `{"ranking": [{"id": "p2", "score": 8, "reasoning": "Best."}]}`,
	}

	var buf bytes.Buffer
	ranked, _ := RankByRelevance(context.Background(), backend, testPapers(), "attention", &buf)
	wantOrder := []string{"p2", "p1", "p3"}
	for i, id := range wantOrder {
		if ranked[i].ID != id {
			t.Errorf("ranked[%d].ID = %q, want %q", i, ranked[i].ID, id)
		}
	}
}

func TestRankByRelevanceIgnoresInventedIDs(t *testing.T) {
	backend := &mockBackend{
		reply: `{"ranking": [
			{"id": "ghost", "score": 10, "reasoning": "Does not exist."},
			{"id": "p1", "score": 6, "reasoning": "Real."}
		]}`,
	}

	var buf bytes.Buffer
	ranked, assessments := RankByRelevance(context.Background(), backend, testPapers(), "topic", &buf)
	if len(ranked) != 3 {
		t.Fatalf("len(ranked) = %d, want 3", len(ranked))
	}
	if ranked[0].ID != "p1" {
		t.Errorf("ranked[0].ID = %q, want p1", ranked[0].ID)
	}
	if len(assessments) != 1 {
		t.Errorf("len(assessments) = %d, want 1", len(assessments))
	}
}

// An API failure falls back to the original order with a warning, never an error.
func TestRankByRelevanceAPIFailure(t *testing.T) {
	backend := &mockBackend{err: fmt.Errorf("Gemini API returned 500")}

	var buf bytes.Buffer
	papers := testPapers()
	ranked, assessments := RankByRelevance(context.Background(), backend, papers, "topic", &buf)
	for i := range papers {
		if ranked[i].ID != papers[i].ID {
			t.Errorf("order changed at %d", i)
		}
	}
	if assessments != nil {
		t.Errorf("assessments = %+v, want nil", assessments)
	}
	if !strings.Contains(buf.String(), "warning: ranking unavailable") {
		t.Errorf("warning = %q", buf.String())
	}
}

func TestRankByRelevanceUnparseableReply(t *testing.T) {
	backend := &mockBackend{reply: "I'd be happy to rank these papers for you!"}

	var buf bytes.Buffer
	papers := testPapers()
	ranked, _ := RankByRelevance(context.Background(), backend, papers, "topic", &buf)
	for i := range papers {
		if ranked[i].ID != papers[i].ID {
			t.Errorf("order changed at %d", i)
		}
	}
	if !strings.Contains(buf.String(), "keeping original order") {
		t.Errorf("warning = %q", buf.String())
	}
}

func TestRankByRelevanceEmptyInput(t *testing.T) {
	backend := &mockBackend{}
	var buf bytes.Buffer
	ranked, assessments := RankByRelevance(context.Background(), backend, nil, "topic", &buf)
	if len(ranked) != 0 || assessments != nil {
		t.Error("expected empty output for empty input")
	}
	if len(backend.prompts) != 0 {
		t.Error("backend should not be called for empty input")
	}
}

// --- Cluster ---

func TestClusterParsesAssignments(t *testing.T) {
	backend := &mockBackend{
		reply: "```json\n" + `{"clusters": [
			{"name": "Memory", "key_topics": ["memory"], "member_ids": ["p1"]},
			{"name": "Attention", "key_topics": ["attention"], "member_ids": ["p2", "p3"]}
		]}` + "\n```",
	}

	var buf bytes.Buffer
	clusters := Cluster(context.Background(), backend, testPapers(), "cognition", &buf)
	if len(clusters) != 2 {
		t.Fatalf("len(clusters) = %d, want 2", len(clusters))
	}
	if clusters[0].Name != "Memory" || len(clusters[0].MemberIDs) != 1 {
		t.Errorf("clusters[0] = %+v", clusters[0])
	}
	if clusters[1].Name != "Attention" || len(clusters[1].MemberIDs) != 2 {
		t.Errorf("clusters[1] = %+v", clusters[1])
	}
}

func TestClusterCollectsUnassigned(t *testing.T) {
	backend := &mockBackend{
		reply: `{"clusters": [{"name": "Memory", "member_ids": ["p1", "ghost"]}]}`,
	}

	var buf bytes.Buffer
	clusters := Cluster(context.Background(), backend, testPapers(), "topic", &buf)
	if len(clusters) != 2 {
		t.Fatalf("len(clusters) = %d, want 2", len(clusters))
	}
	if clusters[1].Name != "Unassigned" {
		t.Errorf("clusters[1].Name = %q", clusters[1].Name)
	}
	if len(clusters[1].MemberIDs) != 2 {
		t.Errorf("Unassigned members = %v, want p2 and p3", clusters[1].MemberIDs)
	}
}

func TestClusterDuplicateMembershipKeepsFirst(t *testing.T) {
	backend := &mockBackend{
		reply: `{"clusters": [
			{"name": "A", "member_ids": ["p1", "p2"]},
			{"name": "B", "member_ids": ["p2", "p3"]}
		]}`,
	}

	var buf bytes.Buffer
	clusters := Cluster(context.Background(), backend, testPapers(), "topic", &buf)
	if len(clusters) != 2 {
		t.Fatalf("len(clusters) = %d, want 2", len(clusters))
	}
	if len(clusters[0].MemberIDs) != 2 || len(clusters[1].MemberIDs) != 1 {
		t.Errorf("memberships = %v / %v", clusters[0].MemberIDs, clusters[1].MemberIDs)
	}
}

func TestClusterFailureReturnsNil(t *testing.T) {
	tests := []struct {
		name    string
		backend *mockBackend
	}{
		{"api error", &mockBackend{err: fmt.Errorf("boom")}},
		{"unparseable", &mockBackend{reply: "no json here"}},
		{"empty clusters", &mockBackend{reply: `{"clusters": []}`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			clusters := Cluster(context.Background(), tt.backend, testPapers(), "topic", &buf)
			if clusters != nil {
				t.Errorf("clusters = %+v, want nil", clusters)
			}
			if buf.Len() == 0 {
				t.Error("expected a warning")
			}
		})
	}
}

// --- Summarize / ExplainRelevance / ScoreRelevance ---

func TestSummarize(t *testing.T) {
	backend := &mockBackend{reply: "  A tidy summary.  "}
	got, err := Summarize(context.Background(), backend, testPapers()[0])
	if err != nil {
		t.Fatalf("Summarize() error: %v", err)
	}
	if got != "A tidy summary." {
		t.Errorf("summary = %q", got)
	}
	if !strings.Contains(backend.prompts[0], "Memory Systems") {
		t.Errorf("prompt missing title: %q", backend.prompts[0])
	}
}

func TestExplainRelevance(t *testing.T) {
	paper := testPapers()[0]
	paper.Keywords = []string{"memory", "recall"}
	backend := &mockBackend{reply: "Because it is about memory."}

	got, err := ExplainRelevance(context.Background(), backend, paper, "memory systems")
	if err != nil {
		t.Fatalf("ExplainRelevance() error: %v", err)
	}
	if got != "Because it is about memory." {
		t.Errorf("explanation = %q", got)
	}
	if !strings.Contains(backend.prompts[0], "memory, recall") {
		t.Errorf("prompt missing keywords: %q", backend.prompts[0])
	}
	if !strings.Contains(backend.prompts[0], "memory systems") {
		t.Errorf("prompt missing query: %q", backend.prompts[0])
	}
}

func TestScoreRelevance(t *testing.T) {
	backend := &mockBackend{reply: "Score: 9\nReasoning: Central to the question."}
	got, err := ScoreRelevance(context.Background(), backend, testPapers()[1], "attention")
	if err != nil {
		t.Fatalf("ScoreRelevance() error: %v", err)
	}
	if got.PaperID != "p2" || got.Score != 9 {
		t.Errorf("assessment = %+v", got)
	}
}

func TestScoreRelevanceAPIFailure(t *testing.T) {
	backend := &mockBackend{err: fmt.Errorf("boom")}
	if _, err := ScoreRelevance(context.Background(), backend, testPapers()[0], "x"); err == nil {
		t.Fatal("expected error")
	}
}
