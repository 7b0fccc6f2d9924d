package extract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/racodess/flashcard-generator/internal/chunker"
	"github.com/racodess/flashcard-generator/internal/metadata"
)

var headingLine = regexp.MustCompile(`^(#{1,6})\s+(.*)$`)

// SplitSections splits markdown into segments at heading lines. Text
// before the first heading becomes a segment titled with docTitle.
// Sections whose heading matches meta's ignore list are dropped.
func SplitSections(docTitle, markdown string, meta metadata.Directory) []chunker.Segment {
	var segs []chunker.Segment
	title := docTitle
	var body []string
	ignoring := false

	flush := func() {
		text := strings.TrimSpace(strings.Join(body, "\n"))
		body = nil
		if ignoring || text == "" {
			return
		}
		segs = append(segs, chunker.NewSegment(title, text))
	}

	for _, line := range strings.Split(markdown, "\n") {
		if m := headingLine.FindStringSubmatch(line); m != nil {
			flush()
			title = strings.TrimSpace(m[2])
			ignoring = meta.IgnoresHeading(title)
			continue
		}
		body = append(body, line)
	}
	flush()

	return segs
}

// FromPlainText reads a text file as a single segment titled with the
// file's base name.
func FromPlainText(path string) ([]chunker.Segment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return nil, nil
	}
	title := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return []chunker.Segment{chunker.NewSegment(title, text)}, nil
}

// FromURLList fetches each URL and splits the pages into segments. A
// URL that fails to fetch is skipped with a warning; only its own
// content is lost. The error count is returned so the caller can record
// partial failure.
func (f *Fetcher) FromURLList(ctx context.Context, urls []string, meta metadata.Directory) ([]chunker.Segment, int) {
	var segs []chunker.Segment
	failed := 0
	for _, url := range urls {
		title, markdown, err := f.Page(ctx, url)
		if err != nil {
			f.logger.Warn("skipping url", "url", url, "error", err)
			failed++
			continue
		}
		if title == "" {
			title = url
		}
		segs = append(segs, SplitSections(title, markdown, meta)...)
	}
	return segs, failed
}
