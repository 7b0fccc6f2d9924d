package media

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// pdfSubdir holds PDF copies, following the collection.media layout
// the cards reference.
const pdfSubdir = "_pdf_files"

// Store keeps copies of imported source files next to the generated
// cards so they can be opened from Anki.
type Store struct {
	dir    string
	logger *slog.Logger
}

// New creates a Store rooted at dir.
func New(dir string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(filepath.Join(dir, pdfSubdir), 0o755); err != nil {
		return nil, fmt.Errorf("create media dir: %w", err)
	}
	return &Store{dir: dir, logger: logger}, nil
}

// Dir returns the store's root directory.
func (s *Store) Dir() string {
	return s.dir
}

// CopyFile copies a source file into the store and returns the name
// cards should reference. PDFs are validated and page-counted, then
// placed under _pdf_files; everything else goes to the top level.
func (s *Store) CopyFile(path string) (string, error) {
	base := filepath.Base(path)

	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		pages, err := api.PageCountFile(path)
		if err != nil {
			return "", fmt.Errorf("validate pdf %s: %w", base, err)
		}
		dst := filepath.Join(s.dir, pdfSubdir, base)
		if err := copyFile(path, dst); err != nil {
			return "", err
		}
		s.logger.Debug("stored pdf", "name", base, "pages", pages)
		return filepath.Join(pdfSubdir, base), nil
	}

	dst := filepath.Join(s.dir, base)
	if err := copyFile(path, dst); err != nil {
		return "", err
	}
	s.logger.Debug("stored media", "name", base)
	return base, nil
}

// WriteReference renders markdown to a standalone HTML document in the
// store and returns its filename. Cards generated from plain text point
// at this document as their source.
func (s *Store) WriteReference(name, markdown string) (string, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))

	var body bytes.Buffer
	if err := md.Convert([]byte(markdown), &body); err != nil {
		return "", fmt.Errorf("render reference %s: %w", name, err)
	}

	var doc bytes.Buffer
	fmt.Fprintf(&doc, "<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>%s</title>\n</head>\n<body>\n", name)
	doc.Write(body.Bytes())
	doc.WriteString("</body>\n</html>\n")

	filename := name + ".html"
	if err := os.WriteFile(filepath.Join(s.dir, filename), doc.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("write reference %s: %w", filename, err)
	}
	s.logger.Debug("stored reference", "name", filename)
	return filename, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copy %s: %w", dst, err)
	}
	return out.Close()
}
