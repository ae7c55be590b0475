package parser

import (
	"context"
	"errors"
	"testing"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

type mockCompleter struct {
	content string
	choices int
	err     error

	lastParams openai.ChatCompletionNewParams
}

func (m *mockCompleter) New(ctx context.Context, body openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error) {
	m.lastParams = body
	if m.err != nil {
		return nil, m.err
	}
	resp := &openai.ChatCompletion{}
	for i := 0; i < m.choices; i++ {
		resp.Choices = append(resp.Choices, openai.ChatCompletionChoice{
			Message: openai.ChatCompletionMessage{Content: m.content},
		})
	}
	return resp, nil
}

func newTestClient(mock *mockCompleter) *Client {
	return &Client{chat: mock, model: openai.ChatModelGPT4oMini}
}

func TestParseExtractsFields(t *testing.T) {
	mock := &mockCompleter{
		choices: 1,
		content: `{"neighborhood":"Acme Heights","street":"Elm St","room_count":"2 + 1","description":"bright flat","area":"120","price":"2.500.000"}`,
	}
	c := newTestClient(mock)

	fields, err := c.Parse(context.Background(), "bright 2+1 flat on Elm St in Acme Heights, 120 m2, 2.500.000")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fields["neighborhood"] != "Acme Heights" || fields["room_count"] != "2 + 1" {
		t.Errorf("unexpected fields: %v", fields)
	}
	if len(mock.lastParams.Messages) != 2 {
		t.Errorf("expected system + user message, got %d messages", len(mock.lastParams.Messages))
	}
}

func TestParseStripsMarkdownFences(t *testing.T) {
	mock := &mockCompleter{
		choices: 1,
		content: "```json\n{\"neighborhood\":\"Acme Heights\",\"street\":\"\",\"room_count\":\"\",\"description\":\"\",\"area\":\"\",\"price\":\"\"}\n```",
	}
	c := newTestClient(mock)

	fields, err := c.Parse(context.Background(), "somewhere in Acme Heights")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fields["neighborhood"] != "Acme Heights" {
		t.Errorf("expected neighborhood, got %v", fields)
	}
}

func TestParseDropsEmptyValues(t *testing.T) {
	mock := &mockCompleter{
		choices: 1,
		content: `{"neighborhood":"Acme Heights","street":"  ","price":""}`,
	}
	c := newTestClient(mock)

	fields, err := c.Parse(context.Background(), "Acme Heights")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fields) != 1 {
		t.Errorf("expected only non-empty fields, got %v", fields)
	}
}

func TestParseAllEmptyMeansNoExtraction(t *testing.T) {
	mock := &mockCompleter{
		choices: 1,
		content: `{"neighborhood":"","street":"","room_count":"","description":"","area":"","price":""}`,
	}
	c := newTestClient(mock)

	fields, err := c.Parse(context.Background(), "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fields != nil {
		t.Errorf("expected nil fields, got %v", fields)
	}
}

func TestParseNoChoices(t *testing.T) {
	c := newTestClient(&mockCompleter{choices: 0})
	if _, err := c.Parse(context.Background(), "hello"); !errors.Is(err, ErrNoChoicesReturned) {
		t.Errorf("expected ErrNoChoicesReturned, got %v", err)
	}
}

func TestParseInvalidJSON(t *testing.T) {
	c := newTestClient(&mockCompleter{choices: 1, content: "not json"})
	if _, err := c.Parse(context.Background(), "hello"); err == nil {
		t.Error("expected error for invalid JSON response")
	}
}

func TestParseCompletionError(t *testing.T) {
	c := newTestClient(&mockCompleter{err: errors.New("api down")})
	if _, err := c.Parse(context.Background(), "hello"); err == nil {
		t.Error("expected error when completion fails")
	}
}

func TestNewClientRequiresKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	if _, err := NewClient(); err == nil {
		t.Error("expected error when API key missing")
	}
}
