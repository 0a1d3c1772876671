// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/litreview/internal/assist"
	"github.com/pdiddy/litreview/internal/httputil"
	"github.com/pdiddy/litreview/internal/session"
	"github.com/pdiddy/litreview/internal/source"
	"github.com/pdiddy/litreview/pkg/types"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Run an interactive review session",
	Long: `Browse starts an interactive session: search, filter, rank, cluster,
summarize, triage, and export without leaving the process. Session state
lives in memory and is discarded on quit unless saved with the save command.

Type help at the prompt for the command list.`,
	RunE: runBrowse,
}

func runBrowse(cmd *cobra.Command, args []string) error {
	store, err := session.NewStore()
	if err != nil {
		return err
	}
	defer store.Close()

	b := &browser{
		store:  store,
		out:    os.Stdout,
		errOut: os.Stderr,
	}

	fmt.Fprintln(b.out, "litreview interactive session. Type help for commands, quit to exit.")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Fprint(b.out, "> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			break
		}
		if err := b.dispatch(context.Background(), line); err != nil {
			fmt.Fprintf(b.errOut, "error: %v\n", err)
		}
	}
	return scanner.Err()
}

// browser holds the state of one interactive session.
type browser struct {
	store   *session.Store
	backend assist.Backend
	out     *os.File
	errOut  *os.File
}

// getBackend lazily builds the Gemini backend so sessions without AI use
// never require a key.
func (b *browser) getBackend() (assist.Backend, error) {
	if b.backend != nil {
		return b.backend, nil
	}
	backend, err := newBackend()
	if err != nil {
		return nil, err
	}
	b.backend = backend
	return backend, nil
}

func (b *browser) dispatch(ctx context.Context, line string) error {
	verb, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch verb {
	case "help":
		b.printHelp()
		return nil
	case "search":
		return b.search(ctx, rest)
	case "show":
		return b.show(ctx)
	case "filter":
		return b.filter(ctx, rest)
	case "rank":
		return b.rank(ctx, rest)
	case "cluster":
		return b.cluster(ctx, rest)
	case "clusters":
		return b.showClusters(ctx)
	case "summarize":
		return b.summarize(ctx, rest)
	case "score":
		return b.score(ctx, rest)
	case "explain":
		return b.explain(ctx, rest)
	case "add":
		return b.forEachID(rest, func(id string) error { return b.store.AddToReadingList(ctx, id) })
	case "remove":
		return b.forEachID(rest, func(id string) error { return b.store.RemoveFromReadingList(ctx, id) })
	case "reading":
		return b.reading(ctx)
	case "select":
		return b.forEachID(rest, func(id string) error { return b.store.Select(ctx, id) })
	case "deselect":
		return b.forEachID(rest, func(id string) error { return b.store.Deselect(ctx, id) })
	case "feedback":
		return b.feedback(ctx, rest)
	case "export":
		return b.export(ctx, rest)
	case "stats":
		return b.stats(ctx)
	case "save":
		return b.save(ctx, rest)
	case "load":
		return b.load(ctx, rest)
	default:
		return fmt.Errorf("unknown command %q: type help", verb)
	}
}

func (b *browser) printHelp() {
	fmt.Fprint(b.out, `Commands:
  search <query>                 fetch papers from the configured source
  show                           list the working set
  filter <text>                  narrow the working set by substring
  rank [topic]                   AI relevance ranking (defaults to the query)
  cluster [topic]                AI thematic clustering
  clusters                       show the stored clustering
  summarize <id>                 AI summary of one paper
  score <id>                     AI relevance score (1-10) for one paper
  explain <id>                   why a paper is relevant to the query
  add | remove <id>...           reading list
  reading                        show the reading list
  select | deselect <id>...      mark papers for export
  feedback <id> <verdict> [note] record relevant / not_relevant
  export <json|csv> [set] [file] export results, reading, or selected papers
  stats                          session summary
  save | load [file]             session bookmark YAML
  quit                           exit (unsaved state is lost)
`)
}

func (b *browser) search(ctx context.Context, queryText string) error {
	if queryText == "" {
		return fmt.Errorf("usage: search <query>")
	}

	cfg := sourceConfig()
	adapter, err := source.AdapterFor(viper.GetString("source.provider"), httputil.NewClient(cfg.Timeout))
	if err != nil {
		return err
	}

	out := source.Dispatch(ctx, adapter, source.Query{FreeText: queryText}, cfg, b.errOut)
	if err := b.store.LoadPapers(ctx, queryText, out.Papers); err != nil {
		return err
	}
	return b.show(ctx)
}

func (b *browser) show(ctx context.Context) error {
	papers, err := b.store.Papers(ctx)
	if err != nil {
		return err
	}
	marked, err := sessionMarkers(ctx, b.store)
	if err != nil {
		return err
	}
	printPapers(b.out, papers, marked)
	return nil
}

// filter narrows the working set to papers whose title, abstract, keywords,
// or authors contain the given text. The discarded papers stay resolvable
// for reading-list and feedback lookups.
func (b *browser) filter(ctx context.Context, text string) error {
	if text == "" {
		return fmt.Errorf("usage: filter <text>")
	}

	papers, err := b.store.Papers(ctx)
	if err != nil {
		return err
	}
	query, err := b.store.Query(ctx)
	if err != nil {
		return err
	}

	var kept []types.PaperRecord
	for _, p := range papers {
		if source.MatchesSubstring(p, text) {
			kept = append(kept, p)
		}
	}

	if err := b.store.LoadPapers(ctx, query, kept); err != nil {
		return err
	}
	fmt.Fprintf(b.out, "%d of %d papers match %q\n", len(kept), len(papers), text)
	return b.show(ctx)
}

func (b *browser) topicOrQuery(ctx context.Context, topic string) (string, error) {
	if topic != "" {
		return topic, nil
	}
	return b.store.Query(ctx)
}

func (b *browser) rank(ctx context.Context, topic string) error {
	papers, err := b.store.Papers(ctx)
	if err != nil {
		return err
	}
	if len(papers) == 0 {
		return fmt.Errorf("no papers loaded: search first")
	}
	backend, err := b.getBackend()
	if err != nil {
		return err
	}
	if topic, err = b.topicOrQuery(ctx, topic); err != nil {
		return err
	}

	ranked, _ := assist.RankByRelevance(ctx, backend, papers, topic, b.errOut)

	query, err := b.store.Query(ctx)
	if err != nil {
		return err
	}
	if err := b.store.LoadPapers(ctx, query, ranked); err != nil {
		return err
	}
	return b.show(ctx)
}

func (b *browser) cluster(ctx context.Context, topic string) error {
	papers, err := b.store.Papers(ctx)
	if err != nil {
		return err
	}
	if len(papers) == 0 {
		return fmt.Errorf("no papers loaded: search first")
	}
	backend, err := b.getBackend()
	if err != nil {
		return err
	}
	if topic, err = b.topicOrQuery(ctx, topic); err != nil {
		return err
	}

	clusters := assist.Cluster(ctx, backend, papers, topic, b.errOut)
	if clusters == nil {
		return nil
	}
	if err := b.store.ReplaceClusters(ctx, clusters); err != nil {
		return err
	}
	return b.showClusters(ctx)
}

func (b *browser) showClusters(ctx context.Context) error {
	clusters, err := b.store.Clusters(ctx)
	if err != nil {
		return err
	}
	if len(clusters) == 0 {
		fmt.Fprintln(b.out, "No clustering stored. Run cluster first.")
		return nil
	}
	for _, c := range clusters {
		fmt.Fprintf(b.out, "%s (%d papers)\n", c.Name, len(c.MemberIDs))
		if len(c.KeyTopics) > 0 {
			fmt.Fprintf(b.out, "  topics: %s\n", strings.Join(c.KeyTopics, ", "))
		}
		for _, id := range c.MemberIDs {
			if p, err := b.store.Paper(ctx, id); err == nil {
				fmt.Fprintf(b.out, "  - %s  %s\n", id, p.Title)
			}
		}
	}
	return nil
}

func (b *browser) summarize(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("usage: summarize <id>")
	}
	paper, err := b.store.Paper(ctx, id)
	if err != nil {
		return err
	}
	backend, err := b.getBackend()
	if err != nil {
		return err
	}
	summary, err := assist.Summarize(ctx, backend, paper)
	if err != nil {
		return err
	}
	fmt.Fprintf(b.out, "%s (%d)\n\n%s\n", paper.Title, paper.Year, summary)
	return nil
}

func (b *browser) score(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("usage: score <id>")
	}
	paper, err := b.store.Paper(ctx, id)
	if err != nil {
		return err
	}
	query, err := b.store.Query(ctx)
	if err != nil {
		return err
	}
	if query == "" {
		return fmt.Errorf("no query in session")
	}
	backend, err := b.getBackend()
	if err != nil {
		return err
	}
	assessment, err := assist.ScoreRelevance(ctx, backend, paper, query)
	if err != nil {
		return err
	}
	fmt.Fprintf(b.out, "%s: %d/10\n%s\n", paper.Title, assessment.Score, assessment.Reasoning)
	return nil
}

func (b *browser) explain(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("usage: explain <id>")
	}
	paper, err := b.store.Paper(ctx, id)
	if err != nil {
		return err
	}
	query, err := b.store.Query(ctx)
	if err != nil {
		return err
	}
	if query == "" {
		return fmt.Errorf("no query in session")
	}
	backend, err := b.getBackend()
	if err != nil {
		return err
	}
	explanation, err := assist.ExplainRelevance(ctx, backend, paper, query)
	if err != nil {
		return err
	}
	fmt.Fprintf(b.out, "%s (%d)\n\n%s\n", paper.Title, paper.Year, explanation)
	return nil
}

func (b *browser) forEachID(rest string, fn func(id string) error) error {
	ids := strings.Fields(rest)
	if len(ids) == 0 {
		return fmt.Errorf("paper id required")
	}
	for _, id := range ids {
		if err := fn(id); err != nil {
			return err
		}
	}
	return nil
}

func (b *browser) reading(ctx context.Context) error {
	papers, err := b.store.ReadingList(ctx)
	if err != nil {
		return err
	}
	marked, err := sessionMarkers(ctx, b.store)
	if err != nil {
		return err
	}
	printPapers(b.out, papers, marked)
	return nil
}

func (b *browser) feedback(ctx context.Context, rest string) error {
	fields := strings.SplitN(rest, " ", 3)
	if len(fields) < 2 {
		return fmt.Errorf("usage: feedback <id> <relevant|not_relevant> [note]")
	}
	fb := types.FeedbackEntry{
		PaperID: fields[0],
		Verdict: types.Verdict(fields[1]),
	}
	if len(fields) == 3 {
		fb.Note = fields[2]
	}
	fb.Timestamp = time.Now().UTC()
	return b.store.UpsertFeedback(ctx, fb)
}

func (b *browser) export(ctx context.Context, rest string) error {
	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return fmt.Errorf("usage: export <json|csv> [results|reading|selected] [file]")
	}
	format := fields[0]
	fields = fields[1:]

	fetch := b.store.Papers
	if len(fields) > 0 {
		switch fields[0] {
		case "results":
			fields = fields[1:]
		case "reading":
			fetch = b.store.ReadingList
			fields = fields[1:]
		case "selected":
			fetch = b.store.Selected
			fields = fields[1:]
		}
	}
	papers, err := fetch(ctx)
	if err != nil {
		return err
	}

	out := b.out
	if len(fields) > 0 {
		f, err := os.Create(fields[0])
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	switch format {
	case "json":
		return session.ExportJSON(out, papers)
	case "csv":
		return session.ExportCSV(out, papers)
	default:
		return fmt.Errorf("unsupported format %q: use json or csv", format)
	}
}

func (b *browser) stats(ctx context.Context) error {
	papers, err := b.store.Papers(ctx)
	if err != nil {
		return err
	}
	stats := session.ComputeStats(papers)
	fmt.Fprintf(b.out, "Papers: %d  Citations: %d", stats.TotalPapers, stats.TotalCitations)
	if stats.MeanYear > 0 {
		fmt.Fprintf(b.out, "  Mean year: %.1f", stats.MeanYear)
	}
	fmt.Fprintln(b.out)
	for _, v := range stats.TopVenues {
		fmt.Fprintf(b.out, "  %-40s %d\n", v.Venue, v.Count)
	}
	return nil
}

func (b *browser) sessionPath(rest string) string {
	if rest != "" {
		return rest
	}
	path, _ := rootCmd.PersistentFlags().GetString("session")
	return path
}

func (b *browser) save(ctx context.Context, rest string) error {
	path := b.sessionPath(rest)
	if err := b.store.SaveSnapshot(ctx, path); err != nil {
		return err
	}
	fmt.Fprintf(b.out, "Saved session to %s\n", path)
	return nil
}

func (b *browser) load(ctx context.Context, rest string) error {
	path := b.sessionPath(rest)
	if err := b.store.LoadSnapshot(ctx, path); err != nil {
		return err
	}
	fmt.Fprintf(b.out, "Loaded session from %s\n", path)
	return b.show(ctx)
}

func init() {
	rootCmd.AddCommand(browseCmd)
}
