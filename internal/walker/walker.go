package walker

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/racodess/flashcard-generator/internal/metadata"
)

// ArchiveDirName is the folder processed files are moved into. Anything
// already under it is skipped on later runs.
const ArchiveDirName = "used-files"

// FileInfo holds metadata about a discovered input file.
type FileInfo struct {
	Path    string
	RelPath string
	Size    int64
}

// Walk traverses the directory tree rooted at root and sends candidate
// input files on the returned channel. It creates the archive folder on
// first entry, and skips archive folders, dot-directories, directories
// named in exclude (the pipeline's own output locations), per-directory
// config files, dotfiles, symlinks, and empty files. Each call re-walks
// from the root, so a run interrupted mid-way can simply be restarted.
func Walk(root string, exclude ...string) (<-chan FileInfo, <-chan error) {
	files := make(chan FileInfo, 16)
	errs := make(chan error, 1)

	go func() {
		defer close(files)
		defer close(errs)

		absRoot, err := filepath.Abs(root)
		if err != nil {
			errs <- err
			return
		}
		if err := ensureArchive(absRoot); err != nil {
			errs <- err
			return
		}

		excluded := make(map[string]bool, len(exclude))
		for _, e := range exclude {
			if abs, err := filepath.Abs(e); err == nil {
				excluded[abs] = true
			}
		}

		err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil // skip errors, keep walking
			}

			if d.IsDir() {
				if path == absRoot {
					return nil
				}
				if d.Name() == ArchiveDirName || strings.HasPrefix(d.Name(), ".") || excluded[path] {
					return filepath.SkipDir
				}
				return nil
			}

			// Skip symlinks, dotfiles, and per-directory config files.
			if d.Type()&fs.ModeSymlink != 0 {
				return nil
			}
			if strings.HasPrefix(d.Name(), ".") || d.Name() == metadata.ConfigFileName {
				return nil
			}

			info, err := d.Info()
			if err != nil {
				return nil
			}
			if info.Size() == 0 {
				return nil
			}

			relPath, _ := filepath.Rel(absRoot, path)
			files <- FileInfo{
				Path:    path,
				RelPath: filepath.ToSlash(relPath),
				Size:    info.Size(),
			}
			return nil
		})
		if err != nil {
			errs <- err
		}
	}()

	return files, errs
}

// ensureArchive creates <root>/used-files if it does not exist yet.
func ensureArchive(root string) error {
	if err := os.MkdirAll(filepath.Join(root, ArchiveDirName), 0o755); err != nil {
		return fmt.Errorf("create archive folder: %w", err)
	}
	return nil
}
