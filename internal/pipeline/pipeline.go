package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/racodess/flashcard-generator/internal/anki"
	"github.com/racodess/flashcard-generator/internal/chunker"
	"github.com/racodess/flashcard-generator/internal/classify"
	"github.com/racodess/flashcard-generator/internal/extract"
	"github.com/racodess/flashcard-generator/internal/generator"
	"github.com/racodess/flashcard-generator/internal/llm"
	"github.com/racodess/flashcard-generator/internal/media"
	"github.com/racodess/flashcard-generator/internal/metadata"
	"github.com/racodess/flashcard-generator/internal/store"
	"github.com/racodess/flashcard-generator/internal/ui"
	"github.com/racodess/flashcard-generator/internal/walker"
)

// Config wires a pipeline run. Exclude lists extra directories the
// walker must not descend into, such as the ledger's parent; the media
// directory is always excluded.
type Config struct {
	Root     string
	Media    *media.Store
	LLM      llm.Client
	Anki     *anki.Client
	Ledger   store.Store
	DeckName string
	Exclude  []string
	Rewrite  bool
	Verbose  bool
	Logger   *slog.Logger
	Printer  *ui.Printer
}

// Stats reports run results.
type Stats struct {
	FilesTotal        int
	FilesProcessed    int
	FilesFailed       int
	ChunksTotal       int
	ChunksFailed      int
	CardsCreated      int
	DuplicatesSkipped int
}

// Pipeline processes a study-material directory into imported cards.
// Strictly sequential: one file, one chunk, one model call at a time.
type Pipeline struct {
	cfg       Config
	gen       *generator.Generator
	fetcher   *extract.Fetcher
	processed *ProcessedSet
	logger    *slog.Logger
	printer   *ui.Printer

	deck      string
	noteTypes map[string]bool
}

// New creates a Pipeline.
func New(cfg Config) (*Pipeline, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	printer := cfg.Printer
	if printer == nil {
		printer = ui.NewPrinter(os.Stdout)
	}
	processed, err := NewProcessedSet(cfg.Root)
	if err != nil {
		return nil, err
	}
	return &Pipeline{
		cfg:       cfg,
		gen:       generator.New(cfg.LLM, generator.Config{Rewrite: cfg.Rewrite, Logger: logger}),
		fetcher:   extract.NewFetcher(logger),
		processed: processed,
		logger:    logger,
		printer:   printer,
		noteTypes: make(map[string]bool),
	}, nil
}

// Run walks the input directory and processes every candidate file.
// Per-file failures are recorded and counted; the run keeps going.
func (p *Pipeline) Run(ctx context.Context) (*Stats, error) {
	var stats Stats

	exclude := append([]string{p.cfg.Media.Dir()}, p.cfg.Exclude...)
	files, walkErrs := walker.Walk(p.cfg.Root, exclude...)
	for fi := range files {
		if err := ctx.Err(); err != nil {
			return &stats, err
		}
		stats.FilesTotal++
		if p.processed.Contains(fi.RelPath) {
			p.logger.Info("already archived, skipping", "path", fi.RelPath)
			continue
		}
		if err := p.processFile(ctx, fi, &stats); err != nil {
			stats.FilesFailed++
			p.printer.Errorf("failed %s: %v", fi.RelPath, err)
			p.record(fi, "", "", generator.StateFailed.String(), err.Error(), 0, 0)
		}
	}
	if err := <-walkErrs; err != nil {
		return &stats, fmt.Errorf("walk error: %w", err)
	}
	return &stats, nil
}

func (p *Pipeline) processFile(ctx context.Context, fi walker.FileInfo, stats *Stats) error {
	meta, err := metadata.Load(filepath.Dir(fi.Path))
	if err != nil {
		return err
	}
	task, err := classify.Classify(fi.Path, fi.RelPath, meta)
	if err != nil {
		return err
	}
	p.printer.Rule(fi.RelPath)
	p.logger.Info("processing", "path", fi.RelPath, "kind", task.Kind.String(), "flow", task.Flow.String())

	noteType := anki.NoteTypeBasic
	if task.Flow == classify.FlowProblem {
		noteType = anki.NoteTypeProblem
	}

	var cards []generator.Draft
	var source string
	chunksFailed := 0

	switch task.Kind {
	case classify.KindBinary:
		cards, source, err = p.processBinary(ctx, task, noteType)
		if err != nil {
			return err
		}

	case classify.KindURLList, classify.KindPlainText:
		segments, err := p.extractSegments(ctx, task)
		if err != nil {
			return err
		}
		chunks := chunker.Merge(segments)
		stats.ChunksTotal += len(chunks)

		var rewritten []string
		for _, chunk := range chunks {
			if p.cfg.Verbose {
				p.printer.Dimf("chunk %q (%d tokens)", chunk.Title, chunk.Tokens)
				p.printer.Markdown(chunk.Text)
			}
			drafts, text, err := p.processChunk(ctx, task, chunk, noteType)
			if err != nil {
				chunksFailed++
				p.printer.Warnf("chunk %q failed: %v", chunk.Title, err)
				continue
			}
			cards = append(cards, drafts...)
			if text != "" {
				rewritten = append(rewritten, text)
			}
		}
		stats.ChunksFailed += chunksFailed
		if len(chunks) > 0 && chunksFailed == len(chunks) {
			return fmt.Errorf("all %d chunks failed", chunksFailed)
		}

		source = fi.RelPath
		if task.Kind == classify.KindPlainText && len(rewritten) > 0 {
			name := strings.TrimSuffix(filepath.Base(fi.Path), filepath.Ext(fi.Path))
			if ref, err := p.cfg.Media.WriteReference(name, strings.Join(rewritten, "\n\n")); err != nil {
				p.logger.Warn("reference document failed", "path", fi.RelPath, "error", err)
			} else {
				source = ref
			}
		}
	}

	res, err := p.importCards(ctx, source, cards)
	if err != nil {
		return err
	}
	stats.CardsCreated += res.Created
	stats.DuplicatesSkipped += res.SkippedDuplicates

	if err := p.processed.MarkProcessed(task.Path, task.RelPath); err != nil {
		return err
	}
	stats.FilesProcessed++

	state := generator.StateImported.String()
	errText := ""
	if chunksFailed > 0 {
		errText = fmt.Sprintf("%d chunk(s) failed", chunksFailed)
	}
	p.record(fi, task.Kind.String(), task.Flow.String(), state, errText, res.Created, res.SkippedDuplicates)
	p.printer.Successf("%s: %d cards created, %d duplicates skipped", fi.RelPath, res.Created, res.SkippedDuplicates)
	return nil
}

// processBinary runs the vision flows on an image or PDF. PDFs are
// rendered to a page image first. The file is copied into the media
// store only once the vision call succeeded, so a failed file leaves
// nothing behind.
func (p *Pipeline) processBinary(ctx context.Context, task classify.FileTask, noteType string) ([]generator.Draft, string, error) {
	ext := filepath.Ext(task.Path)
	var data []byte
	var err error
	if strings.EqualFold(ext, ".pdf") {
		data, err = extract.FirstPageImage(task.Path)
		ext = ".png"
	} else {
		data, err = os.ReadFile(task.Path)
	}
	if err != nil {
		return nil, "", fmt.Errorf("read %s: %w", task.RelPath, err)
	}

	uri := llm.DataURI(ext, data)
	cards, err := p.gen.FromImage(ctx, uri, noteType, task.Meta.Tags, task.Flow == classify.FlowProblem)
	if err != nil {
		return nil, "", err
	}

	source, err := p.cfg.Media.CopyFile(task.Path)
	if err != nil {
		return nil, "", err
	}
	return cards, source, nil
}

func (p *Pipeline) extractSegments(ctx context.Context, task classify.FileTask) ([]chunker.Segment, error) {
	if task.Kind == classify.KindURLList {
		urls, err := classify.URLs(task.Path)
		if err != nil {
			return nil, err
		}
		segments, failed := p.fetcher.FromURLList(ctx, urls, task.Meta)
		if failed > 0 {
			p.printer.Warnf("%s: %d of %d urls failed", task.RelPath, failed, len(urls))
		}
		if len(segments) == 0 && failed > 0 {
			return nil, fmt.Errorf("%w: all %d urls failed", extract.ErrFetch, failed)
		}
		return segments, nil
	}
	return extract.FromPlainText(task.Path)
}

// processChunk runs one chunk through the flow resolved at
// classification. The rewritten text is only produced by the concept
// flow.
func (p *Pipeline) processChunk(ctx context.Context, task classify.FileTask, chunk chunker.Chunk, noteType string) ([]generator.Draft, string, error) {
	if task.Flow == classify.FlowProblem {
		drafts, err := p.gen.Problem(ctx, chunk.Text, noteType, task.Meta.Tags)
		return drafts, "", err
	}
	return p.gen.Concept(ctx, chunk.Text, noteType, task.Meta.Tags)
}

// importCards ensures the note types and deck exist, then adds the
// cards. Deck resolution happens once per run.
func (p *Pipeline) importCards(ctx context.Context, source string, cards []generator.Draft) (anki.ImportResult, error) {
	if len(cards) == 0 {
		return anki.ImportResult{DeckName: p.deck}, nil
	}

	for _, card := range cards {
		if p.noteTypes[card.NoteType] {
			continue
		}
		if err := p.cfg.Anki.EnsureNoteType(ctx, card.NoteType); err != nil {
			return anki.ImportResult{}, err
		}
		p.noteTypes[card.NoteType] = true
	}

	if p.deck == "" {
		deck, err := p.cfg.Anki.EnsureDeck(ctx, p.cfg.DeckName)
		if err != nil {
			return anki.ImportResult{}, err
		}
		p.deck = deck
	}

	return p.cfg.Anki.AddCards(ctx, p.deck, source, cards)
}

func (p *Pipeline) record(fi walker.FileInfo, kind, flow, state, errText string, cards, skipped int) {
	if p.cfg.Ledger == nil {
		return
	}
	_, err := p.cfg.Ledger.RecordFile(store.FileRecord{
		Path:    fi.RelPath,
		Kind:    kind,
		Flow:    flow,
		State:   state,
		Error:   errText,
		Cards:   cards,
		Skipped: skipped,
	})
	if err != nil {
		p.logger.Warn("ledger write failed", "path", fi.RelPath, "error", err)
	}
}
