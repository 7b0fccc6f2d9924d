package cmd

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	flagAnkiURL     string
	flagMediaDir    string
	flagModel       string
	flagVisionModel string
	flagDeck        string
	flagLedger      string
	flagNoRewrite   bool
	flagVerbose     bool
)

var rootCmd = &cobra.Command{
	Use:   "flashcards",
	Short: "Turn study material into Anki flashcards",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if flagVerbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// .env is optional; the environment always wins over it.
	godotenv.Load()

	rootCmd.PersistentFlags().StringVar(&flagAnkiURL, "anki-url", envOr("ANKI_CONNECT_URL", "http://localhost:8765"), "AnkiConnect endpoint")
	rootCmd.PersistentFlags().StringVar(&flagMediaDir, "media-dir", os.Getenv("FLASHCARD_MEDIA_DIR"), "directory for media copies and reference documents (default <input>/media)")
	rootCmd.PersistentFlags().StringVar(&flagModel, "model", "", "text model (default gpt-4o-mini)")
	rootCmd.PersistentFlags().StringVar(&flagVisionModel, "vision-model", "", "vision model (default gpt-4o)")
	rootCmd.PersistentFlags().StringVar(&flagDeck, "deck", "", "target deck (default next free Imported<n>)")
	rootCmd.PersistentFlags().StringVar(&flagLedger, "ledger", "", "run ledger database path (default <input>/.flashcards/ledger.db)")
	rootCmd.PersistentFlags().BoolVar(&flagNoRewrite, "no-rewrite", false, "skip the cleanup pass before fact extraction")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "debug logging and chunk previews")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
