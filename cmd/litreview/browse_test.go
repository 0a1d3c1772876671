// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pdiddy/litreview/internal/session"
	"github.com/pdiddy/litreview/pkg/types"
)

func TestBrowseExportSetSelection(t *testing.T) {
	ctx := context.Background()

	store, err := session.NewStore()
	if err != nil {
		t.Fatalf("NewStore() error: %v", err)
	}
	defer store.Close()

	papers := []types.PaperRecord{
		{ID: "p1", Title: "Memory Systems", Year: 2020},
		{ID: "p2", Title: "Attention Models", Year: 2021},
		{ID: "p3", Title: "Perception Notes", Year: 2022},
	}
	if err := store.LoadPapers(ctx, "cognition", papers); err != nil {
		t.Fatalf("LoadPapers() error: %v", err)
	}
	if err := store.AddToReadingList(ctx, "p2"); err != nil {
		t.Fatalf("AddToReadingList() error: %v", err)
	}
	if err := store.Select(ctx, "p3"); err != nil {
		t.Fatalf("Select() error: %v", err)
	}

	b := &browser{store: store}
	dir := t.TempDir()

	tests := []struct {
		name    string
		args    string
		file    string
		want    []string
		exclude []string
	}{
		{"reading list only", "json reading reading.json", "reading.json", []string{"p2"}, []string{"p1", "p3"}},
		{"selected only", "json selected selected.json", "selected.json", []string{"p3"}, []string{"p1", "p2"}},
		{"explicit results", "json results results.json", "results.json", []string{"p1", "p2", "p3"}, nil},
		{"default is results", "json all.json", "all.json", []string{"p1", "p2", "p3"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.file)
			args := strings.Replace(tt.args, tt.file, path, 1)
			if err := b.export(ctx, args); err != nil {
				t.Fatalf("export(%q) error: %v", tt.args, err)
			}
			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("reading export: %v", err)
			}
			for _, id := range tt.want {
				if !strings.Contains(string(data), `"`+id+`"`) {
					t.Errorf("export %q missing paper %s", tt.args, id)
				}
			}
			for _, id := range tt.exclude {
				if strings.Contains(string(data), `"`+id+`"`) {
					t.Errorf("export %q should not contain paper %s", tt.args, id)
				}
			}
		})
	}
}
