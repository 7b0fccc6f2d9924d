package generator

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrValidation marks model output that failed shape or count checks.
var ErrValidation = errors.New("validation failed")

// FactList is the fact-extraction stage output.
type FactList struct {
	Facts []string `json:"facts"`
}

// QuestionPair is one front/back pair from the questioning stage.
type QuestionPair struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

// PairList is the questioning stage output.
type PairList struct {
	Pairs []QuestionPair `json:"pairs"`
}

// CardRecord is one finished card from the record stage.
type CardRecord struct {
	Name  string `json:"name"`
	Front string `json:"front"`
	Back  string `json:"back"`
}

// stripFences removes a surrounding markdown code fence, if any, and
// trims whitespace. Models wrap JSON in fences often enough that every
// parse goes through this.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	lines := strings.Split(s, "\n")
	if len(lines) < 2 {
		return s
	}
	lines = lines[1:]
	if strings.TrimSpace(lines[len(lines)-1]) == "```" {
		lines = lines[:len(lines)-1]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func parseFacts(raw string) (FactList, error) {
	var fl FactList
	if err := json.Unmarshal([]byte(stripFences(raw)), &fl); err != nil {
		return FactList{}, fmt.Errorf("%w: parse facts: %v", ErrValidation, err)
	}
	if len(fl.Facts) == 0 {
		return FactList{}, fmt.Errorf("%w: no facts extracted", ErrValidation)
	}
	for _, f := range fl.Facts {
		if strings.TrimSpace(f) == "" {
			return FactList{}, fmt.Errorf("%w: blank fact", ErrValidation)
		}
	}
	return fl, nil
}

func parsePairs(raw string) (PairList, error) {
	var pl PairList
	if err := json.Unmarshal([]byte(stripFences(raw)), &pl); err != nil {
		return PairList{}, fmt.Errorf("%w: parse pairs: %v", ErrValidation, err)
	}
	if len(pl.Pairs) == 0 {
		return PairList{}, fmt.Errorf("%w: no pairs produced", ErrValidation)
	}
	for i, p := range pl.Pairs {
		if strings.TrimSpace(p.Front) == "" || strings.TrimSpace(p.Back) == "" {
			return PairList{}, fmt.Errorf("%w: pair %d has a blank side", ErrValidation, i)
		}
	}
	return pl, nil
}

func parseCards(raw string) ([]CardRecord, error) {
	var cards []CardRecord
	if err := json.Unmarshal([]byte(stripFences(raw)), &cards); err != nil {
		return nil, fmt.Errorf("%w: parse cards: %v", ErrValidation, err)
	}
	if len(cards) == 0 {
		return nil, fmt.Errorf("%w: no cards produced", ErrValidation)
	}
	for i, c := range cards {
		if strings.TrimSpace(c.Front) == "" || strings.TrimSpace(c.Back) == "" {
			return nil, fmt.Errorf("%w: card %d has a blank side", ErrValidation, i)
		}
	}
	return cards, nil
}
