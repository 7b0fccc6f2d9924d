package classify

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/racodess/flashcard-generator/internal/metadata"
)

// Kind describes how a file's content is extracted.
type Kind int

const (
	KindPlainText Kind = iota
	KindURLList
	KindBinary
)

func (k Kind) String() string {
	switch k {
	case KindURLList:
		return "url-list"
	case KindBinary:
		return "binary"
	default:
		return "text"
	}
}

// Flow selects the generation strategy for a file.
type Flow int

const (
	FlowConcept Flow = iota
	FlowProblem
)

func (f Flow) String() string {
	if f == FlowProblem {
		return "problem"
	}
	return "concept"
}

// FileTask is a classified unit of work for the pipeline.
type FileTask struct {
	Path    string
	RelPath string
	Kind    Kind
	Flow    Flow
	Meta    metadata.Directory
}

var urlLine = regexp.MustCompile(`^https?://\S+$`)

var textExts = map[string]bool{
	".txt": true,
	".md":  true,
}

// Classify determines a file's kind and flow. The flow is resolved once
// here; later stages never re-derive it. A text file containing at
// least one URL line is a URL list; every other extension is binary,
// passed whole to the vision model (a PDF page is treated the same as
// a photographed one).
func Classify(path, relPath string, meta metadata.Directory) (FileTask, error) {
	task := FileTask{
		Path:    path,
		RelPath: relPath,
		Flow:    ResolveFlow(relPath, meta),
		Meta:    meta,
	}

	ext := strings.ToLower(filepath.Ext(path))
	if !textExts[ext] {
		task.Kind = KindBinary
		return task, nil
	}

	task.Kind = KindPlainText
	hasURLs, err := hasURLLines(path)
	if err != nil {
		return task, err
	}
	if hasURLs {
		task.Kind = KindURLList
	}
	return task, nil
}

// ResolveFlow picks the generation flow for a file. A problem-solving
// folder anywhere on the path always wins; directory metadata is only
// consulted when no path segment matches.
func ResolveFlow(relPath string, meta metadata.Directory) Flow {
	for _, seg := range strings.Split(filepath.ToSlash(relPath), "/") {
		switch strings.ToLower(seg) {
		case "problem-solving", "problem_solving":
			return FlowProblem
		}
	}
	if meta.Flow == "problem" {
		return FlowProblem
	}
	return FlowConcept
}

// hasURLLines reports whether any line of the file is a URL.
func hasURLLines(path string) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", path, err)
	}
	for _, line := range strings.Split(string(data), "\n") {
		if urlLine.MatchString(strings.TrimSpace(line)) {
			return true, nil
		}
	}
	return false, nil
}

// URLs returns the URL lines of a URL-list file, in order. Blank and
// non-URL lines are ignored.
func URLs(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var urls []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if urlLine.MatchString(line) {
			urls = append(urls, line)
		}
	}
	return urls, nil
}
