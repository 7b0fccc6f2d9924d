package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/racodess/flashcard-generator/internal/anki"
	"github.com/racodess/flashcard-generator/internal/chunker"
	"github.com/racodess/flashcard-generator/internal/classify"
	"github.com/racodess/flashcard-generator/internal/extract"
	"github.com/racodess/flashcard-generator/internal/generator"
	"github.com/racodess/flashcard-generator/internal/llm"
	"github.com/racodess/flashcard-generator/internal/metadata"
	"github.com/racodess/flashcard-generator/internal/ui"
)

var generateCmd = &cobra.Command{
	Use:   "generate <file>",
	Short: "Generate cards from a single file and print them, without importing",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := filepath.Abs(args[0])
		if err != nil {
			return err
		}

		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is not set")
		}

		meta, err := metadata.Load(filepath.Dir(path))
		if err != nil {
			return err
		}
		task, err := classify.Classify(path, filepath.Base(path), meta)
		if err != nil {
			return err
		}
		gen := generator.New(
			llm.NewOpenAI(apiKey, flagModel, flagVisionModel),
			generator.Config{Rewrite: !flagNoRewrite},
		)

		noteType := anki.NoteTypeBasic
		if task.Flow == classify.FlowProblem {
			noteType = anki.NoteTypeProblem
		}

		var cards []generator.Draft
		ctx := cmd.Context()

		switch task.Kind {
		case classify.KindBinary:
			ext := filepath.Ext(path)
			var data []byte
			if strings.EqualFold(ext, ".pdf") {
				data, err = extract.FirstPageImage(path)
				ext = ".png"
			} else {
				data, err = os.ReadFile(path)
			}
			if err != nil {
				return err
			}
			uri := llm.DataURI(ext, data)
			cards, err = gen.FromImage(ctx, uri, noteType, meta.Tags, task.Flow == classify.FlowProblem)
			if err != nil {
				return err
			}

		case classify.KindURLList:
			urls, err := classify.URLs(path)
			if err != nil {
				return err
			}
			fetcher := extract.NewFetcher(nil)
			segments, failed := fetcher.FromURLList(ctx, urls, meta)
			if len(segments) == 0 && failed > 0 {
				return fmt.Errorf("all %d urls failed", failed)
			}
			cards, err = generateChunks(cmd, gen, task, chunker.Merge(segments), noteType, meta)
			if err != nil {
				return err
			}

		default:
			segments, err := extract.FromPlainText(path)
			if err != nil {
				return err
			}
			cards, err = generateChunks(cmd, gen, task, chunker.Merge(segments), noteType, meta)
			if err != nil {
				return err
			}
		}

		printer := ui.NewPrinter(os.Stdout)
		for _, card := range cards {
			printer.Rule(card.Name)
			printer.Markdown(fmt.Sprintf("**Front:** %s\n\n**Back:** %s", card.Front, card.Back))
		}
		printer.Successf("%d cards generated", len(cards))
		return nil
	},
}

func generateChunks(cmd *cobra.Command, gen *generator.Generator, task classify.FileTask, chunks []chunker.Chunk, noteType string, meta metadata.Directory) ([]generator.Draft, error) {
	var cards []generator.Draft
	for _, chunk := range chunks {
		if task.Flow == classify.FlowProblem {
			drafts, err := gen.Problem(cmd.Context(), chunk.Text, noteType, meta.Tags)
			if err != nil {
				return nil, err
			}
			cards = append(cards, drafts...)
			continue
		}
		drafts, _, err := gen.Concept(cmd.Context(), chunk.Text, noteType, meta.Tags)
		if err != nil {
			return nil, err
		}
		cards = append(cards, drafts...)
	}
	return cards, nil
}

func init() {
	rootCmd.AddCommand(generateCmd)
}
