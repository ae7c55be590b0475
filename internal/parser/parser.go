// Package parser turns free-text listing descriptions into structured fields
// using the OpenAI chat completions API.
package parser

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// ErrNoChoicesReturned is returned when the model produces no completion choices.
var ErrNoChoicesReturned = errors.New("no choices returned")

// systemPrompt instructs the model to emit a flat JSON object only. Fields the
// text does not mention must be empty strings so the engine can treat the
// result as "could not extract" when nothing usable came back.
const systemPrompt = `You extract real-estate listing fields from a WhatsApp message.
Respond with a single raw JSON object and nothing else, using exactly these keys:
"neighborhood", "street", "room_count", "description", "area", "price".
All values are strings. Use an empty string for any field the message does not mention.
Do not wrap the JSON in markdown fences.`

// chatCompleter is the minimal chat completions surface used by the parser.
// *openai.ChatCompletionService satisfies it.
type chatCompleter interface {
	New(ctx context.Context, body openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error)
}

// Opts holds configuration options for the parser client.
type Opts struct {
	APIKey string
	Model  openai.ChatModel
}

// Option defines a configuration option for the parser client.
type Option func(*Opts)

// WithAPIKey sets the OpenAI API key.
func WithAPIKey(key string) Option {
	return func(o *Opts) { o.APIKey = key }
}

// WithModel overrides the default chat model.
func WithModel(model openai.ChatModel) Option {
	return func(o *Opts) { o.Model = model }
}

// Client extracts listing fields from free text.
type Client struct {
	chat  chatCompleter
	model openai.ChatModel
}

// NewClient initializes a parser client, falling back to the OPENAI_API_KEY
// environment variable when no key option is provided.
func NewClient(opts ...Option) (*Client, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY not set")
	}
	if cfg.Model == "" {
		cfg.Model = openai.ChatModelGPT4oMini
	}
	cli := openai.NewClient(option.WithAPIKey(cfg.APIKey))
	return &Client{chat: &cli.Chat.Completions, model: cfg.Model}, nil
}

// Parse extracts listing fields from text. A nil map means the model could not
// extract anything usable; the caller should ask the sender to rephrase.
func (c *Client) Parse(ctx context.Context, text string) (map[string]string, error) {
	resp, err := c.chat.New(ctx, openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(text),
		},
	})
	if err != nil {
		slog.Error("Parser chat completion failed", "error", err)
		return nil, fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, ErrNoChoicesReturned
	}

	content := stripFences(resp.Choices[0].Message.Content)
	var raw map[string]string
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		slog.Error("Parser response was not valid JSON", "error", err, "content_length", len(content))
		return nil, fmt.Errorf("invalid parser response: %w", err)
	}

	// Drop empty values so an all-empty extraction reads as a failure.
	fields := make(map[string]string, len(raw))
	for k, v := range raw {
		if strings.TrimSpace(v) != "" {
			fields[k] = strings.TrimSpace(v)
		}
	}
	if len(fields) == 0 {
		slog.Debug("Parser extracted no fields")
		return nil, nil
	}
	slog.Debug("Parser extracted fields", "count", len(fields))
	return fields, nil
}

// stripFences removes markdown code fences that models sometimes add despite
// instructions.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}
