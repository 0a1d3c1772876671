// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the litreview session.
package types

import "time"

// PaperRecord is the normalized representation of one academic paper, shared
// across all sources. ID is unique within one loaded result set; records are
// immutable after load.
type PaperRecord struct {
	// ID is the canonical identifier from the source (DOI, arXiv ID,
	// provider ID, or local corpus id).
	ID string `json:"id" yaml:"id"`

	// Source identifies which adapter produced this record
	// (e.g. "openalex", "semantic_scholar", "arxiv", "local").
	Source string `json:"source" yaml:"source"`

	// Title is the paper title as returned by the source.
	Title string `json:"title" yaml:"title"`

	// Authors lists the paper authors in source order.
	Authors []string `json:"authors" yaml:"authors"`

	// Year is the publication year (0 if unknown).
	Year int `json:"year" yaml:"year"`

	// Venue is the journal or conference name.
	Venue string `json:"venue,omitempty" yaml:"venue,omitempty"`

	// Abstract is the paper abstract or summary.
	Abstract string `json:"abstract" yaml:"abstract"`

	// Keywords holds source-supplied topic labels. Not every source
	// provides them.
	Keywords []string `json:"keywords,omitempty" yaml:"keywords,omitempty"`

	// CitationCount is the citation count reported by the source (0 if unknown).
	CitationCount int `json:"citation_count" yaml:"citation_count"`

	// DOI is the bare DOI without the https://doi.org/ prefix.
	DOI string `json:"doi,omitempty" yaml:"doi,omitempty"`

	// URL links to the paper's landing page.
	URL string `json:"url,omitempty" yaml:"url,omitempty"`
}

// Verdict is the user's relevance judgement on a paper.
type Verdict string

const (
	VerdictRelevant    Verdict = "relevant"
	VerdictNotRelevant Verdict = "not_relevant"
)

// ValidVerdict reports whether v is one of the accepted verdict values.
func ValidVerdict(v Verdict) bool {
	return v == VerdictRelevant || v == VerdictNotRelevant
}

// FeedbackEntry records the user's judgement on one paper. At most one entry
// exists per paper; re-submission overwrites the previous entry.
type FeedbackEntry struct {
	PaperID   string    `json:"paper_id" yaml:"paper_id"`
	Verdict   Verdict   `json:"verdict" yaml:"verdict"`
	Note      string    `json:"note,omitempty" yaml:"note,omitempty"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
}

// ReadingListEntry is a bookmarked paper. The reading list has set semantics:
// adding the same paper twice leaves a single entry.
type ReadingListEntry struct {
	PaperID string `json:"paper_id" yaml:"paper_id"`
}

// ClusterAssignment is one named group produced by the clustering service.
// Assignments are regenerated wholesale on each clustering invocation.
type ClusterAssignment struct {
	Name      string   `json:"name" yaml:"name"`
	KeyTopics []string `json:"key_topics,omitempty" yaml:"key_topics,omitempty"`
	MemberIDs []string `json:"member_ids" yaml:"member_ids"`
}

// RelevanceAssessment is the AI service's judgement of one paper against a
// research topic: a 1-10 score plus the model's reasoning.
type RelevanceAssessment struct {
	PaperID   string `json:"paper_id" yaml:"paper_id"`
	Score     int    `json:"score" yaml:"score"`
	Reasoning string `json:"reasoning,omitempty" yaml:"reasoning,omitempty"`
}
