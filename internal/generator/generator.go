package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/racodess/flashcard-generator/internal/llm"
)

// State tracks a chunk's progress through the generation stages.
type State int

const (
	StateRaw State = iota
	StateRewritten
	StateExtractedFacts
	StateQuestioned
	StateValidated
	StateImported
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateRaw:
		return "raw"
	case StateRewritten:
		return "rewritten"
	case StateExtractedFacts:
		return "extracted-facts"
	case StateQuestioned:
		return "questioned"
	case StateValidated:
		return "validated"
	case StateImported:
		return "imported"
	default:
		return "failed"
	}
}

// Draft is a validated card ready for import.
type Draft struct {
	Name     string
	Front    string
	Back     string
	NoteType string
	Tags     []string
}

// Config configures a Generator.
type Config struct {
	// Rewrite enables the cleanup pass before fact extraction.
	Rewrite bool
	Logger  *slog.Logger
}

// Generator runs the staged card-generation flows against a model.
type Generator struct {
	client  llm.Client
	rewrite bool
	logger  *slog.Logger
}

// New creates a Generator.
func New(client llm.Client, cfg Config) *Generator {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{client: client, rewrite: cfg.Rewrite, logger: logger}
}

// Concept runs the full concept flow on a text chunk: optional rewrite,
// fact extraction, question pairing, and the final record pass. Each
// stage's output is parsed and checked before the next stage runs; any
// failure stops this chunk only. The rewritten text is returned for the
// caller's reference document.
func (g *Generator) Concept(ctx context.Context, text, noteType string, tags []string) ([]Draft, string, error) {
	state := StateRaw

	if g.rewrite {
		rewritten, err := g.client.Complete(ctx, rewritePrompt, text)
		if err != nil {
			return nil, "", g.fail(state, err)
		}
		text = rewritten
		state = StateRewritten
		g.logger.Debug("stage complete", "state", state)
	}

	cards, err := g.conceptFromText(ctx, state, text, noteType, tags)
	if err != nil {
		return nil, "", err
	}
	return cards, text, nil
}

// Problem runs the one-shot problem flow on a text chunk.
func (g *Generator) Problem(ctx context.Context, text, noteType string, tags []string) ([]Draft, error) {
	raw, err := g.client.Complete(ctx, problemPrompt, text)
	if err != nil {
		return nil, g.fail(StateRaw, err)
	}
	records, err := parseCards(raw)
	if err != nil {
		return nil, g.fail(StateRaw, err)
	}
	g.logger.Debug("stage complete", "state", StateValidated, "cards", len(records))
	return drafts(records, noteType, tags), nil
}

// FromImage runs the vision flows. In the problem flow the image is
// turned into cards in a single call; otherwise the vision call
// extracts facts and the remaining concept stages run on those.
func (g *Generator) FromImage(ctx context.Context, imageDataURI, noteType string, tags []string, problem bool) ([]Draft, error) {
	if problem {
		raw, err := g.client.CompleteVision(ctx, visionProblemPrompt, imageDataURI)
		if err != nil {
			return nil, g.fail(StateRaw, err)
		}
		records, err := parseCards(raw)
		if err != nil {
			return nil, g.fail(StateRaw, err)
		}
		return drafts(records, noteType, tags), nil
	}

	raw, err := g.client.CompleteVision(ctx, visionFactsPrompt, imageDataURI)
	if err != nil {
		return nil, g.fail(StateRaw, err)
	}
	facts, err := parseFacts(raw)
	if err != nil {
		return nil, g.fail(StateRaw, err)
	}
	g.logger.Debug("stage complete", "state", StateExtractedFacts, "facts", len(facts.Facts))
	return g.conceptFromFacts(ctx, facts, noteType, tags)
}

// conceptFromText runs fact extraction then the shared tail stages.
func (g *Generator) conceptFromText(ctx context.Context, state State, text, noteType string, tags []string) ([]Draft, error) {
	raw, err := g.client.Complete(ctx, factsPrompt, text)
	if err != nil {
		return nil, g.fail(state, err)
	}
	facts, err := parseFacts(raw)
	if err != nil {
		return nil, g.fail(state, err)
	}
	g.logger.Debug("stage complete", "state", StateExtractedFacts, "facts", len(facts.Facts))
	return g.conceptFromFacts(ctx, facts, noteType, tags)
}

// conceptFromFacts runs question pairing and the record pass. Counts
// are conserved stage to stage: pairs must match facts, cards must
// match pairs.
func (g *Generator) conceptFromFacts(ctx context.Context, facts FactList, noteType string, tags []string) ([]Draft, error) {
	factsJSON, err := json.Marshal(facts)
	if err != nil {
		return nil, g.fail(StateExtractedFacts, err)
	}
	raw, err := g.client.Complete(ctx, questionsPrompt, string(factsJSON))
	if err != nil {
		return nil, g.fail(StateExtractedFacts, err)
	}
	pairs, err := parsePairs(raw)
	if err != nil {
		return nil, g.fail(StateExtractedFacts, err)
	}
	if len(pairs.Pairs) != len(facts.Facts) {
		return nil, g.fail(StateExtractedFacts,
			fmt.Errorf("%w: %d pairs for %d facts", ErrValidation, len(pairs.Pairs), len(facts.Facts)))
	}
	g.logger.Debug("stage complete", "state", StateQuestioned, "pairs", len(pairs.Pairs))

	pairsJSON, err := json.Marshal(pairs)
	if err != nil {
		return nil, g.fail(StateQuestioned, err)
	}
	raw, err = g.client.Complete(ctx, recordsPrompt, string(pairsJSON))
	if err != nil {
		return nil, g.fail(StateQuestioned, err)
	}
	records, err := parseCards(raw)
	if err != nil {
		return nil, g.fail(StateQuestioned, err)
	}
	if len(records) != len(pairs.Pairs) {
		return nil, g.fail(StateQuestioned,
			fmt.Errorf("%w: %d cards for %d pairs", ErrValidation, len(records), len(pairs.Pairs)))
	}
	g.logger.Debug("stage complete", "state", StateValidated, "cards", len(records))

	return drafts(records, noteType, tags), nil
}

func (g *Generator) fail(at State, err error) error {
	g.logger.Warn("chunk failed", "at", at, "error", err)
	return err
}

func drafts(records []CardRecord, noteType string, tags []string) []Draft {
	out := make([]Draft, len(records))
	for i, r := range records {
		out[i] = Draft{
			Name:     r.Name,
			Front:    r.Front,
			Back:     r.Back,
			NoteType: noteType,
			Tags:     tags,
		}
	}
	return out
}
