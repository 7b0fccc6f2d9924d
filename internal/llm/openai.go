package llm

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// ErrModelCall marks failures talking to the model provider.
var ErrModelCall = errors.New("model call failed")

// Default models for text and vision calls.
const (
	DefaultTextModel   = "gpt-4o-mini"
	DefaultVisionModel = "gpt-4o"
)

// Client is the narrow model interface the generator depends on, so
// tests can inject fakes.
type Client interface {
	// Complete sends a system+user prompt and returns the response text.
	Complete(ctx context.Context, system, user string) (string, error)
	// CompleteVision sends an instruction plus an image (as a data URI)
	// and returns the response text.
	CompleteVision(ctx context.Context, instruction, imageDataURI string) (string, error)
}

// OpenAI implements Client against the OpenAI chat completions API.
// One blocking call at a time; no streaming.
type OpenAI struct {
	api         *openai.Client
	textModel   string
	visionModel string
}

// NewOpenAI creates a client. Empty model names fall back to the defaults.
func NewOpenAI(apiKey, textModel, visionModel string) *OpenAI {
	if textModel == "" {
		textModel = DefaultTextModel
	}
	if visionModel == "" {
		visionModel = DefaultVisionModel
	}
	return &OpenAI{
		api:         openai.NewClient(apiKey),
		textModel:   textModel,
		visionModel: visionModel,
	}
}

func (c *OpenAI) Complete(ctx context.Context, system, user string) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.textModel,
		Temperature: 0,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrModelCall, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: empty response", ErrModelCall)
	}
	return resp.Choices[0].Message.Content, nil
}

func (c *OpenAI) CompleteVision(ctx context.Context, instruction, imageDataURI string) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.visionModel,
		Temperature: 0,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: instruction},
					{
						Type:     openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{URL: imageDataURI},
					},
				},
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrModelCall, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: empty response", ErrModelCall)
	}
	return resp.Choices[0].Message.Content, nil
}

// DataURI encodes image bytes as a data URI for a vision call.
func DataURI(ext string, data []byte) string {
	mime := "image/png"
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "jpg", "jpeg":
		mime = "image/jpeg"
	case "gif":
		mime = "image/gif"
	case "webp":
		mime = "image/webp"
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}
