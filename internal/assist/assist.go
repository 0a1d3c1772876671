// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package assist sends paper candidates to a generative-AI API for relevance
// ranking, clustering, summarization, and relevance explanation. Every
// operation degrades gracefully: an API or parse failure surfaces a warning
// and the caller receives the unranked input back, never an error.
package assist

import (
	"context"
	"strings"
)

// Backend abstracts the Generative AI API so tests can supply a mock. Each
// call sends one prompt and returns the raw text reply.
type Backend interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// extractJSON pulls the first JSON object or array out of a model reply,
// tolerating markdown code fences and prose around it.
func extractJSON(reply string) string {
	reply = strings.TrimSpace(reply)

	if i := strings.Index(reply, "```"); i >= 0 {
		rest := reply[i+3:]
		rest = strings.TrimPrefix(rest, "json")
		if j := strings.Index(rest, "```"); j >= 0 {
			reply = rest[:j]
		} else {
			reply = rest
		}
		reply = strings.TrimSpace(reply)
	}

	start := strings.IndexAny(reply, "{[")
	if start < 0 {
		return ""
	}
	var closer byte
	if reply[start] == '{' {
		closer = '}'
	} else {
		closer = ']'
	}
	end := strings.LastIndexByte(reply, closer)
	if end <= start {
		return ""
	}
	return reply[start : end+1]
}
