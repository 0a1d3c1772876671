// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package session

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/litreview/pkg/types"
)

// Snapshot is the on-disk form of a session: everything needed to resume a
// review in a later process. Papers holds every paper the session has seen,
// since the reading list, feedback, and selections may reference papers from
// an earlier search; Results names the ids of the current result set.
type Snapshot struct {
	SavedAt     time.Time                 `yaml:"saved_at"`
	Query       string                    `yaml:"query,omitempty"`
	Papers      []types.PaperRecord       `yaml:"papers"`
	Results     []string                  `yaml:"results"`
	ReadingList []string                  `yaml:"reading_list,omitempty"`
	Selected    []string                  `yaml:"selected,omitempty"`
	Feedback    []types.FeedbackEntry     `yaml:"feedback,omitempty"`
	Clusters    []types.ClusterAssignment `yaml:"clusters,omitempty"`
}

// SaveSnapshot writes the whole session state to a YAML file at path.
func (s *Store) SaveSnapshot(ctx context.Context, path string) error {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshaling snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	return nil
}

func (s *Store) snapshot(ctx context.Context) (*Snapshot, error) {
	snap := &Snapshot{SavedAt: time.Now().UTC()}

	var err error
	if snap.Query, err = s.Query(ctx); err != nil {
		return nil, err
	}
	if snap.Papers, err = s.AllPapers(ctx); err != nil {
		return nil, err
	}

	results, err := s.Papers(ctx)
	if err != nil {
		return nil, err
	}
	snap.Results = make([]string, 0, len(results))
	for _, p := range results {
		snap.Results = append(snap.Results, p.ID)
	}
	if snap.Feedback, err = s.Feedback(ctx); err != nil {
		return nil, err
	}
	if snap.Clusters, err = s.Clusters(ctx); err != nil {
		return nil, err
	}

	reading, err := s.ReadingList(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range reading {
		snap.ReadingList = append(snap.ReadingList, p.ID)
	}

	selected, err := s.Selected(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range selected {
		snap.Selected = append(snap.Selected, p.ID)
	}

	return snap, nil
}

// LoadSnapshot reads a YAML snapshot file and replaces the session state
// with its contents.
func (s *Store) LoadSnapshot(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading snapshot: %w", err)
	}

	var snap Snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("parsing snapshot %s: %w", path, err)
	}

	if err := s.reset(ctx); err != nil {
		return err
	}
	if err := s.AddPapers(ctx, snap.Papers); err != nil {
		return fmt.Errorf("restoring papers: %w", err)
	}

	byID := make(map[string]types.PaperRecord, len(snap.Papers))
	for _, p := range snap.Papers {
		byID[p.ID] = p
	}
	resultIDs := snap.Results
	if resultIDs == nil {
		// Snapshots written before Results was recorded treat every
		// paper as part of the result set.
		for _, p := range snap.Papers {
			resultIDs = append(resultIDs, p.ID)
		}
	}
	var results []types.PaperRecord
	for _, id := range resultIDs {
		p, ok := byID[id]
		if !ok {
			return fmt.Errorf("snapshot %s: result %s has no paper record", path, id)
		}
		results = append(results, p)
	}
	if err := s.LoadPapers(ctx, snap.Query, results); err != nil {
		return err
	}
	for _, id := range snap.ReadingList {
		if err := s.AddToReadingList(ctx, id); err != nil {
			return fmt.Errorf("restoring reading list: %w", err)
		}
	}
	for _, id := range snap.Selected {
		if err := s.Select(ctx, id); err != nil {
			return fmt.Errorf("restoring selections: %w", err)
		}
	}
	for _, fb := range snap.Feedback {
		if err := s.UpsertFeedback(ctx, fb); err != nil {
			return fmt.Errorf("restoring feedback: %w", err)
		}
	}
	if err := s.ReplaceClusters(ctx, snap.Clusters); err != nil {
		return fmt.Errorf("restoring clusters: %w", err)
	}
	return nil
}

// reset clears every session table.
func (s *Store) reset(ctx context.Context) error {
	for _, table := range []string{
		"results", "reading_list", "feedback", "selections", "clusters", "meta", "papers",
	} {
		if _, err := s.db.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}
	return nil
}
