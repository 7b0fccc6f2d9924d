package anki

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strconv"
	"time"

	"github.com/racodess/flashcard-generator/internal/generator"
)

// DefaultURL is the standard AnkiConnect endpoint.
const DefaultURL = "http://localhost:8765"

// Client talks to a running AnkiConnect instance.
type Client struct {
	url    string
	http   *http.Client
	logger *slog.Logger
}

// New creates a client. An empty url uses DefaultURL.
func New(url string, logger *slog.Logger) *Client {
	if url == "" {
		url = DefaultURL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		url:    url,
		http:   &http.Client{Timeout: 30 * time.Second},
		logger: logger,
	}
}

// ImportResult reports the outcome of an AddCards call.
type ImportResult struct {
	DeckName          string
	Created           int
	SkippedDuplicates int
}

type rpcRequest struct {
	Action  string `json:"action"`
	Version int    `json:"version"`
	Params  any    `json:"params,omitempty"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *string         `json:"error"`
}

// invoke sends one AnkiConnect action and decodes the result into out.
func (c *Client) invoke(ctx context.Context, action string, params any, out any) error {
	body, err := json.Marshal(rpcRequest{Action: action, Version: 6, Params: params})
	if err != nil {
		return fmt.Errorf("marshal %s request: %w", action, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("new %s request: %w", action, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("ankiconnect %s: %w", action, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("ankiconnect %s returned %d: %s", action, resp.StatusCode, string(respBody))
	}

	var rr rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&rr); err != nil {
		return fmt.Errorf("decode %s response: %w", action, err)
	}
	if rr.Error != nil && *rr.Error != "" {
		return fmt.Errorf("ankiconnect %s: %s", action, *rr.Error)
	}
	if out != nil {
		if err := json.Unmarshal(rr.Result, out); err != nil {
			return fmt.Errorf("decode %s result: %w", action, err)
		}
	}
	return nil
}

// EnsureNoteType creates the note type if it does not exist yet.
func (c *Client) EnsureNoteType(ctx context.Context, noteType string) error {
	var existing []string
	if err := c.invoke(ctx, "modelNames", nil, &existing); err != nil {
		return err
	}
	for _, name := range existing {
		if name == noteType {
			return nil
		}
	}

	c.logger.Info("creating note type", "name", noteType)
	return c.invoke(ctx, "createModel", map[string]any{
		"modelName":     noteType,
		"inOrderFields": noteFields,
		"cardTemplates": templatesFor(noteType),
		"css":           noteCSS,
	}, nil)
}

var importedDeck = regexp.MustCompile(`^Imported(\d+)$`)

// EnsureDeck resolves the target deck and creates it if missing. An
// empty name picks the next free Imported<n>, where n is one past the
// highest existing.
func (c *Client) EnsureDeck(ctx context.Context, name string) (string, error) {
	var decks []string
	if err := c.invoke(ctx, "deckNames", nil, &decks); err != nil {
		return "", err
	}

	if name == "" {
		max := 0
		for _, d := range decks {
			if m := importedDeck.FindStringSubmatch(d); m != nil {
				if n, err := strconv.Atoi(m[1]); err == nil && n > max {
					max = n
				}
			}
		}
		name = fmt.Sprintf("Imported%d", max+1)
	}

	for _, d := range decks {
		if d == name {
			return name, nil
		}
	}

	c.logger.Info("creating deck", "name", name)
	if err := c.invoke(ctx, "createDeck", map[string]any{"deck": name}, nil); err != nil {
		return "", err
	}
	return name, nil
}

// note is the addNotes wire shape.
type note struct {
	DeckName  string            `json:"deckName"`
	ModelName string            `json:"modelName"`
	Fields    map[string]string `json:"fields"`
	Tags      []string          `json:"tags"`
}

// AddCards imports drafts into the deck. Duplicates are detected with
// canAddNotes and skipped; Anki stays the source of truth for what
// already exists. Field values are HTML-escaped on the way in.
func (c *Client) AddCards(ctx context.Context, deck, source string, cards []generator.Draft) (ImportResult, error) {
	res := ImportResult{DeckName: deck}
	if len(cards) == 0 {
		return res, nil
	}

	notes := make([]note, len(cards))
	for i, card := range cards {
		tags := card.Tags
		if tags == nil {
			tags = []string{}
		}
		notes[i] = note{
			DeckName:  deck,
			ModelName: card.NoteType,
			Fields: map[string]string{
				"Name":   html.EscapeString(card.Name),
				"Front":  html.EscapeString(card.Front),
				"Back":   html.EscapeString(card.Back),
				"Source": html.EscapeString(source),
			},
			Tags: tags,
		}
	}

	var addable []bool
	if err := c.invoke(ctx, "canAddNotes", map[string]any{"notes": notes}, &addable); err != nil {
		return res, err
	}
	if len(addable) != len(notes) {
		return res, fmt.Errorf("canAddNotes returned %d results for %d notes", len(addable), len(notes))
	}

	var fresh []note
	for i, ok := range addable {
		if ok {
			fresh = append(fresh, notes[i])
		} else {
			res.SkippedDuplicates++
			c.logger.Debug("skipping duplicate", "name", cards[i].Name)
		}
	}
	if len(fresh) == 0 {
		return res, nil
	}

	var ids []*int64
	if err := c.invoke(ctx, "addNotes", map[string]any{"notes": fresh}, &ids); err != nil {
		return res, err
	}
	for _, id := range ids {
		if id != nil {
			res.Created++
		} else {
			// addNotes reports a null id when Anki refuses a note
			// that canAddNotes let through.
			res.SkippedDuplicates++
		}
	}
	return res, nil
}
