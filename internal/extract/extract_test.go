package extract

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/racodess/flashcard-generator/internal/metadata"
)

func TestSplitSectionsByHeading(t *testing.T) {
	md := "intro text\n\n# First\nbody one\n\n## Second\nbody two\n"
	segs := SplitSections("Doc", md, metadata.Directory{})

	if len(segs) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(segs))
	}
	if segs[0].Title != "Doc" || segs[0].Text != "intro text" {
		t.Errorf("preamble segment wrong: %+v", segs[0])
	}
	if segs[1].Title != "First" || segs[1].Text != "body one" {
		t.Errorf("first section wrong: %+v", segs[1])
	}
	if segs[2].Title != "Second" || segs[2].Text != "body two" {
		t.Errorf("second section wrong: %+v", segs[2])
	}
}

func TestSplitSectionsDropsIgnored(t *testing.T) {
	md := "# Keep\ngood\n\n# References\nnoise\n\n# Also Keep\nmore"
	meta := metadata.Directory{IgnoreSections: []string{"references"}}
	segs := SplitSections("Doc", md, meta)

	if len(segs) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(segs))
	}
	for _, s := range segs {
		if s.Title == "References" {
			t.Errorf("ignored section survived")
		}
	}
}

func TestSplitSectionsEmptyBodyDropped(t *testing.T) {
	md := "# Empty\n\n# Full\ncontent"
	segs := SplitSections("Doc", md, metadata.Directory{})
	if len(segs) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(segs))
	}
	if segs[0].Title != "Full" {
		t.Errorf("got %q, want %q", segs[0].Title, "Full")
	}
}

func TestFromPlainText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "goroutines.txt")
	if err := os.WriteFile(path, []byte("Goroutines are lightweight.\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	segs, err := FromPlainText(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(segs) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(segs))
	}
	if segs[0].Title != "goroutines" {
		t.Errorf("title: got %q, want %q", segs[0].Title, "goroutines")
	}
	if segs[0].Text != "Goroutines are lightweight." {
		t.Errorf("unexpected text %q", segs[0].Text)
	}
}

func TestPageFetchAndConvert(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<html><head><title>Channels</title></head><body><h1>Channels</h1><p>Channels connect goroutines.</p></body></html>`))
	}))
	defer srv.Close()

	f := NewFetcher(nil)
	title, md, err := f.Page(context.Background(), srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	if title != "Channels" {
		t.Errorf("title: got %q, want %q", title, "Channels")
	}
	if md == "" {
		t.Fatal("expected markdown content")
	}
}

func TestPageHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	f := NewFetcher(nil)
	_, _, err := f.Page(context.Background(), srv.URL)
	if !errors.Is(err, ErrFetch) {
		t.Fatalf("expected ErrFetch, got %v", err)
	}
}

func TestFromURLListSkipsFailures(t *testing.T) {
	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><head><title>Good</title></head><body><p>useful content here</p></body></html>`))
	}))
	defer good.Close()
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer bad.Close()

	f := NewFetcher(nil)
	segs, failed := f.FromURLList(context.Background(), []string{bad.URL, good.URL}, metadata.Directory{})
	if failed != 1 {
		t.Errorf("failed: got %d, want 1", failed)
	}
	if len(segs) == 0 {
		t.Fatal("expected segments from the good url")
	}
	if segs[0].Title != "Good" {
		t.Errorf("title: got %q, want %q", segs[0].Title, "Good")
	}
}
