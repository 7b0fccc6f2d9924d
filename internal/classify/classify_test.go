package classify

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/racodess/flashcard-generator/internal/metadata"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestClassifyKinds(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    Kind
	}{
		{"notes.txt", "Some prose about goroutines.", KindPlainText},
		{"notes.md", "# Heading\nbody", KindPlainText},
		{"links.txt", "https://example.com/a\n\nhttp://example.com/b\n", KindURLList},
		{"mixed.txt", "see this:\nhttps://example.com/a\n", KindURLList},
		{"diagram.png", "\x89PNG", KindBinary},
		{"paper.pdf", "%PDF-1.4", KindBinary},
		{"photo.JPG", "\xff\xd8", KindBinary},
		{"data.csv", "a,b,c", KindBinary},
	}
	for _, tt := range tests {
		path := writeTemp(t, tt.name, tt.content)
		task, err := Classify(path, tt.name, metadata.Directory{})
		if err != nil {
			t.Fatalf("%s: %v", tt.name, err)
		}
		if task.Kind != tt.want {
			t.Errorf("%s: kind = %v, want %v", tt.name, task.Kind, tt.want)
		}
	}
}

func TestResolveFlowFolderBeatsMetadata(t *testing.T) {
	tests := []struct {
		relPath string
		meta    metadata.Directory
		want    Flow
	}{
		{"algorithms/problem-solving/two-sum.txt", metadata.Directory{Flow: "concept"}, FlowProblem},
		{"algorithms/problem_solving/two-sum.txt", metadata.Directory{}, FlowProblem},
		{"Problem-Solving/leet.png", metadata.Directory{}, FlowProblem},
		{"theory/notes.txt", metadata.Directory{Flow: "problem"}, FlowProblem},
		{"theory/notes.txt", metadata.Directory{Flow: "concept"}, FlowConcept},
		{"theory/notes.txt", metadata.Directory{}, FlowConcept},
		{"problem-solving-tips/notes.txt", metadata.Directory{}, FlowConcept},
	}
	for _, tt := range tests {
		if got := ResolveFlow(tt.relPath, tt.meta); got != tt.want {
			t.Errorf("ResolveFlow(%q, flow=%q) = %v, want %v", tt.relPath, tt.meta.Flow, got, tt.want)
		}
	}
}

func TestURLs(t *testing.T) {
	path := writeTemp(t, "links.txt", "https://a.test/x\n\nmy favorites:\nhttps://b.test/y\n")
	urls, err := URLs(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(urls) != 2 {
		t.Fatalf("expected 2 urls, got %d", len(urls))
	}
	if urls[0] != "https://a.test/x" || urls[1] != "https://b.test/y" {
		t.Errorf("unexpected urls %v", urls)
	}
}

func TestFileWithoutURLsIsPlainText(t *testing.T) {
	path := writeTemp(t, "prose.txt", "mentions example.com but has no url lines\n")
	task, err := Classify(path, "prose.txt", metadata.Directory{})
	if err != nil {
		t.Fatal(err)
	}
	if task.Kind != KindPlainText {
		t.Errorf("kind = %v, want %v", task.Kind, KindPlainText)
	}
}
