package chunker

import "strings"

// Token bounds for merged chunks. A chunk below MinTokens is merged
// forward; a chunk is never grown past MaxTokens.
const (
	MinTokens = 300
	MaxTokens = 1000
)

// Segment is one extracted section of a source document.
type Segment struct {
	Title  string
	Text   string
	Tokens int
}

// Chunk is a merged run of segments sized for a single model call.
type Chunk struct {
	Title  string
	Text   string
	Tokens int
}

// EstimateTokens approximates the token count of s as words times 4/3.
// Deterministic and monotone in input length; parity with any provider
// tokenizer is not a goal.
func EstimateTokens(s string) int {
	words := len(strings.Fields(s))
	return words * 4 / 3
}

// NewSegment builds a segment with its token estimate.
func NewSegment(title, text string) Segment {
	return Segment{Title: title, Text: text, Tokens: EstimateTokens(text)}
}

// Merge combines adjacent segments into chunks within the token bounds.
// A segment at or above MaxTokens is emitted as its own chunk, never
// split. The final accumulator is always flushed even if it is below
// MinTokens, so no content is ever dropped.
func Merge(segments []Segment) []Chunk {
	var chunks []Chunk
	var acc []Segment
	accTokens := 0

	flush := func() {
		if len(acc) == 0 {
			return
		}
		chunks = append(chunks, join(acc))
		acc = nil
		accTokens = 0
	}

	for _, seg := range segments {
		switch {
		case seg.Tokens >= MaxTokens:
			flush()
			chunks = append(chunks, join([]Segment{seg}))
		case accTokens+seg.Tokens > MaxTokens:
			flush()
			acc = append(acc, seg)
			accTokens = seg.Tokens
		default:
			acc = append(acc, seg)
			accTokens += seg.Tokens
		}
	}
	flush()

	return chunks
}

// join frames each segment with its title line and a rule so the model
// sees section boundaries.
func join(segs []Segment) Chunk {
	var b strings.Builder
	tokens := 0
	for i, s := range segs {
		if i > 0 {
			b.WriteString("\n\n")
		}
		if s.Title != "" {
			b.WriteString(s.Title)
			b.WriteString("\n------\n")
		}
		b.WriteString(s.Text)
		tokens += s.Tokens
	}
	return Chunk{Title: segs[0].Title, Text: b.String(), Tokens: tokens}
}
