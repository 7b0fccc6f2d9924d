package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/racodess/flashcard-generator/internal/walker"
)

// ProcessedSet marks files as done by moving them into the archive
// folder. The folder itself is the durable record: the walker never
// descends into it, so a rerun skips everything already archived.
type ProcessedSet struct {
	root string
}

// NewProcessedSet creates the set rooted at the input directory,
// ensuring the archive folder exists.
func NewProcessedSet(root string) (*ProcessedSet, error) {
	dir := filepath.Join(root, walker.ArchiveDirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create archive folder: %w", err)
	}
	return &ProcessedSet{root: root}, nil
}

// Contains reports whether a file with this relative path has been
// archived.
func (p *ProcessedSet) Contains(relPath string) bool {
	_, err := os.Stat(filepath.Join(p.root, walker.ArchiveDirName, filepath.FromSlash(relPath)))
	return err == nil
}

// MarkProcessed moves the file into the archive, preserving its
// position in the directory hierarchy.
func (p *ProcessedSet) MarkProcessed(path, relPath string) error {
	dst := filepath.Join(p.root, walker.ArchiveDirName, filepath.FromSlash(relPath))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("create archive subfolder: %w", err)
	}
	if err := os.Rename(path, dst); err != nil {
		return fmt.Errorf("archive %s: %w", relPath, err)
	}
	return nil
}
