package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/racodess/flashcard-generator/internal/anki"
	"github.com/racodess/flashcard-generator/internal/chunker"
	"github.com/racodess/flashcard-generator/internal/generator"
	"github.com/racodess/flashcard-generator/internal/llm"
	"github.com/racodess/flashcard-generator/internal/store"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start an MCP server exposing card generation tools",
	RunE:  runMCP,
}

func runMCP(cmd *cobra.Command, args []string) error {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is not set")
	}

	gen := generator.New(
		llm.NewOpenAI(apiKey, flagModel, flagVisionModel),
		generator.Config{Rewrite: !flagNoRewrite},
	)

	s := mcpserver.NewMCPServer("flashcard-generator", "1.0.0", mcpserver.WithToolCapabilities(false))

	s.AddTool(generateFlashcardsTool(), makeGenerateHandler(gen))
	s.AddTool(listRunsTool(), makeListRunsHandler())

	return mcpserver.ServeStdio(s)
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

// --- Tool schema builders ---

func generateFlashcardsTool() mcp.Tool {
	return mcp.NewTool("generate_flashcards",
		mcp.WithDescription("Generate validated Anki flashcards from study-material text. Returns card JSON; nothing is imported."),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("The study material to turn into cards"),
		),
		mcp.WithString("flow",
			mcp.Description("Generation flow: 'concept' (default) or 'problem' for algorithmic problem solving"),
		),
		mcp.WithString("tags",
			mcp.Description("Comma-separated Anki tags to attach to every card"),
		),
	)
}

func listRunsTool() mcp.Tool {
	return mcp.NewTool("list_runs",
		mcp.WithDescription("List recently processed files from a run ledger with their outcomes and card counts."),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{
			ReadOnlyHint:    mcp.ToBoolPtr(true),
			DestructiveHint: mcp.ToBoolPtr(false),
			IdempotentHint:  mcp.ToBoolPtr(true),
			OpenWorldHint:   mcp.ToBoolPtr(false),
		}),
		mcp.WithString("dir",
			mcp.Required(),
			mcp.Description("The input directory whose ledger to read"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of rows to return (default 20)"),
		),
	)
}

// --- Handler factories ---

func makeGenerateHandler(gen *generator.Generator) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		text := req.GetString("text", "")
		if strings.TrimSpace(text) == "" {
			return mcp.NewToolResultError("text is required"), nil
		}

		var tags []string
		for _, t := range strings.Split(req.GetString("tags", ""), ",") {
			if t = strings.TrimSpace(t); t != "" {
				tags = append(tags, t)
			}
		}

		var cards []generator.Draft
		for _, chunk := range chunker.Merge([]chunker.Segment{chunker.NewSegment("", text)}) {
			if req.GetString("flow", "concept") == "problem" {
				drafts, err := gen.Problem(ctx, chunk.Text, anki.NoteTypeProblem, tags)
				if err != nil {
					return mcp.NewToolResultError(fmt.Sprintf("generation failed: %v", err)), nil
				}
				cards = append(cards, drafts...)
				continue
			}
			drafts, _, err := gen.Concept(ctx, chunk.Text, anki.NoteTypeBasic, tags)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("generation failed: %v", err)), nil
			}
			cards = append(cards, drafts...)
		}

		out, err := json.MarshalIndent(cards, "", "  ")
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("encode cards: %v", err)), nil
		}
		return mcp.NewToolResultText(string(out)), nil
	}
}

func makeListRunsHandler() mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		dir := req.GetString("dir", "")
		if dir == "" {
			return mcp.NewToolResultError("dir is required"), nil
		}
		limit := req.GetInt("limit", 20)
		if limit <= 0 {
			limit = 20
		}

		ledgerPath := filepath.Join(dir, ".flashcards", "ledger.db")
		if _, err := os.Stat(ledgerPath); os.IsNotExist(err) {
			return mcp.NewToolResultText(fmt.Sprintf("No ledger found at %s. Run 'flashcards run %s' first.", ledgerPath, dir)), nil
		}

		ledger, err := store.Open(ledgerPath)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("open ledger: %v", err)), nil
		}
		defer ledger.Close()

		records, err := ledger.ListRecent(limit)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("list runs failed: %v", err)), nil
		}
		if len(records) == 0 {
			return mcp.NewToolResultText("Ledger is empty."), nil
		}

		var sb strings.Builder
		fmt.Fprintf(&sb, "## Processed files (%d)\n\n", len(records))
		for _, r := range records {
			line := fmt.Sprintf("- **%s** (%s, %s) — %s, %d cards, %d duplicates",
				r.Path, r.Kind, r.Flow, r.State, r.Cards, r.Skipped)
			if r.Error != "" {
				line += fmt.Sprintf(" — %s", r.Error)
			}
			sb.WriteString(line + "\n")
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}
