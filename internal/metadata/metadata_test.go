package metadata

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	d, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("missing config should not error, got %v", err)
	}
	if len(d.Tags) != 0 || len(d.IgnoreSections) != 0 || d.Flow != "" {
		t.Errorf("expected zero value, got %+v", d)
	}
}

func TestLoadFull(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "tags:\n  - go\n  - concurrency\nignore_sections:\n  - References\nflow: problem\n")

	d, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := len(d.Tags), 2; got != want {
		t.Fatalf("tags: got %d, want %d", got, want)
	}
	if d.Tags[0] != "go" || d.Tags[1] != "concurrency" {
		t.Errorf("unexpected tags %v", d.Tags)
	}
	if d.Flow != "problem" {
		t.Errorf("flow: got %q, want %q", d.Flow, "problem")
	}
}

func TestLoadInvalidFlow(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "flow: interview\n")

	if _, err := Load(dir); err == nil {
		t.Fatal("expected error for unknown flow value")
	}
}

func TestLoadMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "tags: [unclosed\n")

	if _, err := Load(dir); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestIgnoresHeading(t *testing.T) {
	d := Directory{IgnoreSections: []string{"See Also", "references"}}

	tests := []struct {
		heading string
		want    bool
	}{
		{"See Also", true},
		{"see also", true},
		{"  References  ", true},
		{"Overview", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := d.IgnoresHeading(tt.heading); got != tt.want {
			t.Errorf("IgnoresHeading(%q) = %v, want %v", tt.heading, got, tt.want)
		}
	}
}
