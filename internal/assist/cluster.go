// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package assist

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/pdiddy/litreview/pkg/types"
)

// clusterReply is the structured reply expected from the clustering prompt.
type clusterReply struct {
	Clusters []clusterEntry `json:"clusters"`
}

type clusterEntry struct {
	Name      string   `json:"name"`
	KeyTopics []string `json:"key_topics"`
	MemberIDs []string `json:"member_ids"`
}

// Cluster sends the whole candidate list to the AI backend in one request
// and returns named thematic clusters. Member ids the model invents are
// dropped; papers the model omits are collected into an "Unassigned" cluster
// so every input paper appears exactly once. On any API or parse failure the
// result is nil with a warning on w; the caller keeps its current state.
func Cluster(ctx context.Context, backend Backend, papers []types.PaperRecord, topic string, w io.Writer) []types.ClusterAssignment {
	if len(papers) == 0 {
		return nil
	}

	prompt, err := renderTemplate(clusterPromptTmpl, struct {
		Query  string
		Papers string
	}{Query: topic, Papers: renderPaperList(papers)})
	if err != nil {
		fmt.Fprintf(w, "warning: clustering unavailable: %v\n", err)
		return nil
	}

	reply, err := backend.Generate(ctx, prompt)
	if err != nil {
		fmt.Fprintf(w, "warning: clustering unavailable: %v\n", err)
		return nil
	}

	var parsed clusterReply
	if err := json.Unmarshal([]byte(extractJSON(reply)), &parsed); err != nil || len(parsed.Clusters) == 0 {
		fmt.Fprintf(w, "warning: could not parse clustering reply\n")
		return nil
	}

	known := make(map[string]bool, len(papers))
	for _, p := range papers {
		known[p.ID] = true
	}

	assigned := make(map[string]bool)
	var clusters []types.ClusterAssignment
	for _, c := range parsed.Clusters {
		ca := types.ClusterAssignment{Name: c.Name, KeyTopics: c.KeyTopics}
		for _, id := range c.MemberIDs {
			if !known[id] || assigned[id] {
				continue
			}
			assigned[id] = true
			ca.MemberIDs = append(ca.MemberIDs, id)
		}
		if len(ca.MemberIDs) > 0 {
			clusters = append(clusters, ca)
		}
	}

	if len(clusters) == 0 {
		fmt.Fprintf(w, "warning: clustering reply contained no usable assignments\n")
		return nil
	}

	var unassigned []string
	for _, p := range papers {
		if !assigned[p.ID] {
			unassigned = append(unassigned, p.ID)
		}
	}
	if len(unassigned) > 0 {
		clusters = append(clusters, types.ClusterAssignment{
			Name:      "Unassigned",
			MemberIDs: unassigned,
		})
	}

	return clusters
}
