package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/racodess/flashcard-generator/internal/anki"
	"github.com/racodess/flashcard-generator/internal/llm"
	"github.com/racodess/flashcard-generator/internal/media"
	"github.com/racodess/flashcard-generator/internal/pipeline"
	"github.com/racodess/flashcard-generator/internal/store"
	"github.com/racodess/flashcard-generator/internal/ui"
)

var flagSummary bool

var runCmd = &cobra.Command{
	Use:   "run <dir>",
	Short: "Process a study-material directory and import the cards",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := filepath.Abs(args[0])
		if err != nil {
			return err
		}

		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is not set")
		}

		mediaDir := flagMediaDir
		if mediaDir == "" {
			mediaDir = filepath.Join(root, "media")
		}
		ms, err := media.New(mediaDir, nil)
		if err != nil {
			return err
		}

		ledgerPath := flagLedger
		if ledgerPath == "" {
			ledgerPath = filepath.Join(root, ".flashcards", "ledger.db")
		}
		if err := os.MkdirAll(filepath.Dir(ledgerPath), 0o755); err != nil {
			return fmt.Errorf("create ledger directory: %w", err)
		}
		ledger, err := store.Open(ledgerPath)
		if err != nil {
			return err
		}
		defer ledger.Close()

		printer := ui.NewPrinter(os.Stdout)

		p, err := pipeline.New(pipeline.Config{
			Root:     root,
			Media:    ms,
			LLM:      llm.NewOpenAI(apiKey, flagModel, flagVisionModel),
			Anki:     anki.New(flagAnkiURL, nil),
			Ledger:   ledger,
			DeckName: flagDeck,
			Exclude:  []string{filepath.Dir(ledgerPath)},
			Rewrite:  !flagNoRewrite,
			Verbose:  flagVerbose,
			Logger:   slog.Default(),
			Printer:  printer,
		})
		if err != nil {
			return err
		}

		fmt.Printf("Processing %s...\n", root)
		start := time.Now()

		stats, err := p.Run(cmd.Context())
		elapsed := time.Since(start)

		if stats != nil {
			fmt.Printf("\nDone in %s\n", elapsed.Round(time.Millisecond))
			fmt.Printf("  Files:   %d total, %d processed, %d failed\n",
				stats.FilesTotal, stats.FilesProcessed, stats.FilesFailed)
			fmt.Printf("  Chunks:  %d total, %d failed\n", stats.ChunksTotal, stats.ChunksFailed)
			fmt.Printf("  Cards:   %d created, %d duplicates skipped\n",
				stats.CardsCreated, stats.DuplicatesSkipped)
		}
		if err != nil {
			return err
		}

		if flagSummary {
			sum, err := ledger.Summarize()
			if err != nil {
				return err
			}
			fmt.Printf("\nLedger:  %d files recorded, %d failed, %d cards, %d duplicates\n",
				sum.Files, sum.Failed, sum.Cards, sum.Skipped)
		}

		if stats != nil && (stats.FilesFailed > 0 || stats.ChunksFailed > 0) {
			return fmt.Errorf("%d file(s) and %d chunk(s) failed", stats.FilesFailed, stats.ChunksFailed)
		}
		return nil
	},
}

func init() {
	runCmd.Flags().BoolVar(&flagSummary, "summary", false, "print ledger totals after the run")
	rootCmd.AddCommand(runCmd)
}
