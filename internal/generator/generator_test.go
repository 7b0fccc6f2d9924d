package generator

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// fakeClient returns scripted responses keyed by the stage prompt.
type fakeClient struct {
	responses map[string]string
	calls     []string
	err       error
}

func (f *fakeClient) Complete(ctx context.Context, system, user string) (string, error) {
	f.calls = append(f.calls, stageOf(system))
	if f.err != nil {
		return "", f.err
	}
	return f.responses[stageOf(system)], nil
}

func (f *fakeClient) CompleteVision(ctx context.Context, instruction, imageDataURI string) (string, error) {
	f.calls = append(f.calls, "vision:"+stageOf(instruction))
	if f.err != nil {
		return "", f.err
	}
	return f.responses["vision:"+stageOf(instruction)], nil
}

func stageOf(prompt string) string {
	switch prompt {
	case rewritePrompt:
		return "rewrite"
	case factsPrompt:
		return "facts"
	case questionsPrompt:
		return "questions"
	case recordsPrompt:
		return "records"
	case problemPrompt:
		return "problem"
	case visionFactsPrompt:
		return "facts"
	case visionProblemPrompt:
		return "problem"
	}
	return "unknown"
}

func conceptResponses() map[string]string {
	return map[string]string{
		"rewrite":   "cleaned text",
		"facts":     `{"facts": ["fact one", "fact two"]}`,
		"questions": `{"pairs": [{"front":"q1","back":"a1"},{"front":"q2","back":"a2"}]}`,
		"records":   `[{"name":"n1","front":"f1","back":"b1"},{"name":"n2","front":"f2","back":"b2"}]`,
	}
}

func TestConceptFlow(t *testing.T) {
	fc := &fakeClient{responses: conceptResponses()}
	g := New(fc, Config{Rewrite: true})

	cards, rewritten, err := g.Concept(context.Background(), "raw text", "Flashcards: Basic", []string{"go"})
	if err != nil {
		t.Fatal(err)
	}
	if rewritten != "cleaned text" {
		t.Errorf("rewritten: got %q", rewritten)
	}
	if len(cards) != 2 {
		t.Fatalf("expected 2 cards, got %d", len(cards))
	}
	if cards[0].NoteType != "Flashcards: Basic" || cards[0].Tags[0] != "go" {
		t.Errorf("card metadata wrong: %+v", cards[0])
	}
	want := []string{"rewrite", "facts", "questions", "records"}
	if strings.Join(fc.calls, ",") != strings.Join(want, ",") {
		t.Errorf("stages: got %v, want %v", fc.calls, want)
	}
}

func TestConceptFlowNoRewrite(t *testing.T) {
	fc := &fakeClient{responses: conceptResponses()}
	g := New(fc, Config{Rewrite: false})

	_, rewritten, err := g.Concept(context.Background(), "raw text", "Flashcards: Basic", nil)
	if err != nil {
		t.Fatal(err)
	}
	if rewritten != "raw text" {
		t.Errorf("text should pass through unchanged, got %q", rewritten)
	}
	if fc.calls[0] != "facts" {
		t.Errorf("first stage: got %q, want facts", fc.calls[0])
	}
}

func TestConceptCountMismatchFails(t *testing.T) {
	resp := conceptResponses()
	resp["questions"] = `{"pairs": [{"front":"q1","back":"a1"}]}` // 1 pair for 2 facts
	g := New(&fakeClient{responses: resp}, Config{})

	_, _, err := g.Concept(context.Background(), "text", "Flashcards: Basic", nil)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestConceptFencedJSONAccepted(t *testing.T) {
	resp := conceptResponses()
	resp["facts"] = "```json\n{\"facts\": [\"fact one\", \"fact two\"]}\n```"
	g := New(&fakeClient{responses: resp}, Config{})

	cards, _, err := g.Concept(context.Background(), "text", "Flashcards: Basic", nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(cards) != 2 {
		t.Errorf("expected 2 cards, got %d", len(cards))
	}
}

func TestProblemFlowSingleCall(t *testing.T) {
	fc := &fakeClient{responses: map[string]string{
		"problem": `[{"name":"Two Sum: Hash Map","front":"f","back":"b"}]`,
	}}
	g := New(fc, Config{Rewrite: true})

	cards, err := g.Problem(context.Background(), "editorial", "Flashcards: Problem", nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(cards) != 1 {
		t.Fatalf("expected 1 card, got %d", len(cards))
	}
	if len(fc.calls) != 1 {
		t.Errorf("problem flow must be one call, got %v", fc.calls)
	}
}

func TestFromImageConcept(t *testing.T) {
	resp := conceptResponses()
	resp["vision:facts"] = resp["facts"]
	fc := &fakeClient{responses: resp}
	g := New(fc, Config{Rewrite: true})

	cards, err := g.FromImage(context.Background(), "data:image/png;base64,xx", "Flashcards: Basic", nil, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(cards) != 2 {
		t.Fatalf("expected 2 cards, got %d", len(cards))
	}
	want := []string{"vision:facts", "questions", "records"}
	if strings.Join(fc.calls, ",") != strings.Join(want, ",") {
		t.Errorf("stages: got %v, want %v", fc.calls, want)
	}
}

func TestFromImageProblemOneShot(t *testing.T) {
	fc := &fakeClient{responses: map[string]string{
		"vision:problem": `[{"name":"n","front":"f","back":"b"}]`,
	}}
	g := New(fc, Config{Rewrite: true})

	cards, err := g.FromImage(context.Background(), "data:image/png;base64,xx", "Flashcards: Problem", nil, true)
	if err != nil {
		t.Fatal(err)
	}
	if len(cards) != 1 || len(fc.calls) != 1 {
		t.Errorf("expected single vision call and one card, got calls=%v cards=%d", fc.calls, len(cards))
	}
}

func TestModelErrorPropagates(t *testing.T) {
	g := New(&fakeClient{err: errors.New("rate limited")}, Config{})
	_, _, err := g.Concept(context.Background(), "text", "Flashcards: Basic", nil)
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestStripFences(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{`{"a":1}`, `{"a":1}`},
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"```\n[1,2]\n```", `[1,2]`},
		{"  {\"a\":1}  ", `{"a":1}`},
	}
	for _, tt := range tests {
		if got := stripFences(tt.in); got != tt.want {
			t.Errorf("stripFences(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseCardsBlankSide(t *testing.T) {
	_, err := parseCards(`[{"name":"n","front":"","back":"b"}]`)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}
