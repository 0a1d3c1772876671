// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package session holds the working state of one literature review run: the
// current result set, the reading list, per-paper feedback, selections, and
// cluster assignments. State lives in an in-memory SQLite database and is
// discarded when the process exits; Snapshot offers explicit persistence.
package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/litreview/pkg/types"
)

// Store manages the session SQLite database.
type Store struct {
	db *sql.DB
}

// NewStore opens an in-memory session database and creates the schema.
func NewStore() (*Store, error) {
	db, err := sql.Open("sqlite3", ":memory:?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening session database: %w", err)
	}
	// Every pooled connection to :memory: is a separate database, so the
	// store must stay on one connection.
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection. All session state is lost.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS papers (
			id TEXT PRIMARY KEY,
			source TEXT,
			title TEXT,
			authors TEXT,
			year INTEGER,
			venue TEXT,
			abstract TEXT,
			keywords TEXT,
			citation_count INTEGER,
			doi TEXT,
			url TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS results (
			position INTEGER PRIMARY KEY AUTOINCREMENT,
			paper_id TEXT NOT NULL REFERENCES papers(id)
		)`,
		`CREATE TABLE IF NOT EXISTS reading_list (
			paper_id TEXT PRIMARY KEY REFERENCES papers(id)
		)`,
		`CREATE TABLE IF NOT EXISTS feedback (
			paper_id TEXT PRIMARY KEY REFERENCES papers(id),
			verdict TEXT NOT NULL,
			note TEXT,
			created_at TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS selections (
			paper_id TEXT PRIMARY KEY REFERENCES papers(id)
		)`,
		`CREATE TABLE IF NOT EXISTS clusters (
			position INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			key_topics TEXT,
			member_ids TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// LoadPapers replaces the current result set with papers, in order, and
// records the query that produced them. Papers already known to the session
// (on the reading list, with feedback) are updated in place, so earlier
// state keeps resolving.
func (s *Store) LoadPapers(ctx context.Context, query string, papers []types.PaperRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM results`); err != nil {
		return fmt.Errorf("clearing result set: %w", err)
	}

	for _, p := range papers {
		if err := upsertPaper(ctx, tx, p); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO results (paper_id) VALUES (?)`, p.ID,
		); err != nil {
			return fmt.Errorf("inserting result %s: %w", p.ID, err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO meta (key, value) VALUES ('query', ?)
		 ON CONFLICT(key) DO UPDATE SET value=excluded.value`, query,
	); err != nil {
		return fmt.Errorf("recording query: %w", err)
	}

	return tx.Commit()
}

func upsertPaper(ctx context.Context, tx *sql.Tx, p types.PaperRecord) error {
	authorsJSON, _ := json.Marshal(p.Authors)
	keywordsJSON, _ := json.Marshal(p.Keywords)
	_, err := tx.ExecContext(ctx,
		`INSERT INTO papers (id, source, title, authors, year, venue, abstract, keywords, citation_count, doi, url)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			source=excluded.source, title=excluded.title, authors=excluded.authors,
			year=excluded.year, venue=excluded.venue, abstract=excluded.abstract,
			keywords=excluded.keywords, citation_count=excluded.citation_count,
			doi=excluded.doi, url=excluded.url`,
		p.ID, p.Source, p.Title, string(authorsJSON), p.Year, p.Venue,
		p.Abstract, string(keywordsJSON), p.CitationCount, p.DOI, p.URL,
	)
	if err != nil {
		return fmt.Errorf("upserting paper %s: %w", p.ID, err)
	}
	return nil
}

// Query returns the query string of the current result set, or "" when no
// search has run yet.
func (s *Store) Query(ctx context.Context) (string, error) {
	var query string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM meta WHERE key = 'query'`,
	).Scan(&query)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading query: %w", err)
	}
	return query, nil
}

// AddPapers upserts papers into the session without touching the current
// result set.
func (s *Store) AddPapers(ctx context.Context, papers []types.PaperRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, p := range papers {
		if err := upsertPaper(ctx, tx, p); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// AllPapers returns every paper the session has seen, in the order first
// loaded. The result set is a subset of these; reading-list, feedback, and
// selection entries may reference the rest.
func (s *Store) AllPapers(ctx context.Context) ([]types.PaperRecord, error) {
	return s.queryPapers(ctx,
		`SELECT id, source, title, authors, year, venue, abstract,
			keywords, citation_count, doi, url
		 FROM papers ORDER BY rowid`)
}

// Papers returns the current result set in load order.
func (s *Store) Papers(ctx context.Context) ([]types.PaperRecord, error) {
	return s.queryPapers(ctx,
		`SELECT p.id, p.source, p.title, p.authors, p.year, p.venue, p.abstract,
			p.keywords, p.citation_count, p.doi, p.url
		 FROM results r JOIN papers p ON p.id = r.paper_id
		 ORDER BY r.position`)
}

// Paper looks up one paper by id anywhere in the session.
func (s *Store) Paper(ctx context.Context, id string) (types.PaperRecord, error) {
	papers, err := s.queryPapers(ctx,
		`SELECT id, source, title, authors, year, venue, abstract,
			keywords, citation_count, doi, url
		 FROM papers WHERE id = ?`, id)
	if err != nil {
		return types.PaperRecord{}, err
	}
	if len(papers) == 0 {
		return types.PaperRecord{}, fmt.Errorf("paper %s not found in session", id)
	}
	return papers[0], nil
}

func (s *Store) queryPapers(ctx context.Context, query string, args ...any) ([]types.PaperRecord, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying papers: %w", err)
	}
	defer rows.Close()

	var papers []types.PaperRecord
	for rows.Next() {
		var (
			p            types.PaperRecord
			authorsJSON  sql.NullString
			keywordsJSON sql.NullString
		)
		if err := rows.Scan(
			&p.ID, &p.Source, &p.Title, &authorsJSON, &p.Year, &p.Venue,
			&p.Abstract, &keywordsJSON, &p.CitationCount, &p.DOI, &p.URL,
		); err != nil {
			return nil, fmt.Errorf("scanning paper row: %w", err)
		}
		if authorsJSON.Valid {
			json.Unmarshal([]byte(authorsJSON.String), &p.Authors)
		}
		if keywordsJSON.Valid {
			json.Unmarshal([]byte(keywordsJSON.String), &p.Keywords)
		}
		papers = append(papers, p)
	}
	return papers, rows.Err()
}

// requireKnown returns an error when id is not a paper the session has seen.
func (s *Store) requireKnown(ctx context.Context, id string) error {
	var n int
	if err := s.db.QueryRowContext(ctx,
		`SELECT count(*) FROM papers WHERE id = ?`, id,
	).Scan(&n); err != nil {
		return fmt.Errorf("looking up paper: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("paper %s not found in session", id)
	}
	return nil
}

// AddToReadingList adds a paper to the reading list. Adding a paper that is
// already on the list is a no-op.
func (s *Store) AddToReadingList(ctx context.Context, id string) error {
	if err := s.requireKnown(ctx, id); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO reading_list (paper_id) VALUES (?)`, id)
	if err != nil {
		return fmt.Errorf("adding to reading list: %w", err)
	}
	return nil
}

// RemoveFromReadingList removes a paper from the reading list. Removing a
// paper that is not on the list is a no-op.
func (s *Store) RemoveFromReadingList(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM reading_list WHERE paper_id = ?`, id)
	if err != nil {
		return fmt.Errorf("removing from reading list: %w", err)
	}
	return nil
}

// ReadingList returns the reading list papers in the order they were added.
func (s *Store) ReadingList(ctx context.Context) ([]types.PaperRecord, error) {
	return s.queryPapers(ctx,
		`SELECT p.id, p.source, p.title, p.authors, p.year, p.venue, p.abstract,
			p.keywords, p.citation_count, p.doi, p.url
		 FROM reading_list rl JOIN papers p ON p.id = rl.paper_id
		 ORDER BY rl.rowid`)
}

// UpsertFeedback records a relevance verdict for a paper. A second verdict
// for the same paper replaces the first.
func (s *Store) UpsertFeedback(ctx context.Context, fb types.FeedbackEntry) error {
	if !types.ValidVerdict(fb.Verdict) {
		return fmt.Errorf("invalid verdict %q", fb.Verdict)
	}
	if err := s.requireKnown(ctx, fb.PaperID); err != nil {
		return err
	}
	createdAt := ""
	if !fb.Timestamp.IsZero() {
		createdAt = fb.Timestamp.UTC().Format(time.RFC3339)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO feedback (paper_id, verdict, note, created_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(paper_id) DO UPDATE SET
			verdict=excluded.verdict, note=excluded.note, created_at=excluded.created_at`,
		fb.PaperID, string(fb.Verdict), fb.Note, createdAt)
	if err != nil {
		return fmt.Errorf("recording feedback: %w", err)
	}
	return nil
}

// Feedback returns all recorded feedback, one entry per paper.
func (s *Store) Feedback(ctx context.Context) ([]types.FeedbackEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT paper_id, verdict, note, created_at FROM feedback ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("querying feedback: %w", err)
	}
	defer rows.Close()

	var entries []types.FeedbackEntry
	for rows.Next() {
		var (
			fb        types.FeedbackEntry
			verdict   string
			createdAt string
		)
		if err := rows.Scan(&fb.PaperID, &verdict, &fb.Note, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning feedback row: %w", err)
		}
		fb.Verdict = types.Verdict(verdict)
		if createdAt != "" {
			fb.Timestamp, _ = time.Parse(time.RFC3339, createdAt)
		}
		entries = append(entries, fb)
	}
	return entries, rows.Err()
}

// Select marks a paper for export. Selecting twice is a no-op.
func (s *Store) Select(ctx context.Context, id string) error {
	if err := s.requireKnown(ctx, id); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO selections (paper_id) VALUES (?)`, id)
	if err != nil {
		return fmt.Errorf("selecting paper: %w", err)
	}
	return nil
}

// Deselect unmarks a paper. Deselecting an unselected paper is a no-op.
func (s *Store) Deselect(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM selections WHERE paper_id = ?`, id)
	if err != nil {
		return fmt.Errorf("deselecting paper: %w", err)
	}
	return nil
}

// Selected returns the selected papers in the order they were selected.
func (s *Store) Selected(ctx context.Context) ([]types.PaperRecord, error) {
	return s.queryPapers(ctx,
		`SELECT p.id, p.source, p.title, p.authors, p.year, p.venue, p.abstract,
			p.keywords, p.citation_count, p.doi, p.url
		 FROM selections sel JOIN papers p ON p.id = sel.paper_id
		 ORDER BY sel.rowid`)
}

// ReplaceClusters replaces all stored cluster assignments with clusters.
// Passing an empty slice clears them.
func (s *Store) ReplaceClusters(ctx context.Context, clusters []types.ClusterAssignment) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM clusters`); err != nil {
		return fmt.Errorf("clearing clusters: %w", err)
	}
	for _, c := range clusters {
		topicsJSON, _ := json.Marshal(c.KeyTopics)
		membersJSON, _ := json.Marshal(c.MemberIDs)
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO clusters (name, key_topics, member_ids) VALUES (?, ?, ?)`,
			c.Name, string(topicsJSON), string(membersJSON),
		); err != nil {
			return fmt.Errorf("inserting cluster %s: %w", c.Name, err)
		}
	}
	return tx.Commit()
}

// Clusters returns the stored cluster assignments in insertion order.
func (s *Store) Clusters(ctx context.Context) ([]types.ClusterAssignment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, key_topics, member_ids FROM clusters ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("querying clusters: %w", err)
	}
	defer rows.Close()

	var clusters []types.ClusterAssignment
	for rows.Next() {
		var (
			c           types.ClusterAssignment
			topicsJSON  sql.NullString
			membersJSON sql.NullString
		)
		if err := rows.Scan(&c.Name, &topicsJSON, &membersJSON); err != nil {
			return nil, fmt.Errorf("scanning cluster row: %w", err)
		}
		if topicsJSON.Valid {
			json.Unmarshal([]byte(topicsJSON.String), &c.KeyTopics)
		}
		if membersJSON.Valid {
			json.Unmarshal([]byte(membersJSON.String), &c.MemberIDs)
		}
		clusters = append(clusters, c)
	}
	return clusters, rows.Err()
}
