package briefer

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Driftedboat/Bubbly-Insider/internal/deck"
	"github.com/Driftedboat/Bubbly-Insider/internal/domain"

	"github.com/openai/openai-go"
	"go.opentelemetry.io/otel/trace"
)

type stubLLMClient struct {
	response *openai.ChatCompletion
	err      error
	params   *openai.ChatCompletionNewParams
}

func (s *stubLLMClient) CreateChatCompletion(ctx context.Context, params openai.ChatCompletionNewParams) (*openai.ChatCompletion, error) {
	s.params = &params
	if s.err != nil {
		return nil, s.err
	}
	return s.response, nil
}

func completionWith(content string) *openai.ChatCompletion {
	return &openai.ChatCompletion{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: content}},
		},
	}
}

func scoredItem(title string) *deck.ScoredItem {
	item := domain.CandidateItem{
		ID:          "item-1",
		Type:        domain.CardTypeNews,
		Source:      "CoinDesk",
		URL:         "https://coindesk.com/story",
		Title:       title,
		Content:     "Body text for the story.",
		PublishedAt: time.Now().Add(-2 * time.Hour),
	}
	return deck.ScoreItem(item, 0, time.Now())
}

func TestBriefHappyPath(t *testing.T) {
	llm := &stubLLMClient{
		response: completionWith(`{"brief": "The SEC approved spot ETF options.", "insight": "Opens institutional flows.", "bull_bear": "bull"}`),
	}
	b := NewBriefer(trace.NewNoopTracerProvider().Tracer("test"), llm, "gpt-4o-mini")

	content, err := b.Brief(context.Background(), scoredItem("SEC approves spot Bitcoin ETF options"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if content.Brief != "The SEC approved spot ETF options." {
		t.Fatalf("unexpected brief %q", content.Brief)
	}
	if content.Insight != "Opens institutional flows." {
		t.Fatalf("unexpected insight %q", content.Insight)
	}
	if content.BullBear != domain.Bull {
		t.Fatalf("expected bull, got %s", content.BullBear)
	}

	if llm.params == nil || llm.params.Model != "gpt-4o-mini" {
		t.Fatal("expected the configured model on the request")
	}
	if len(llm.params.Messages) != 2 {
		t.Fatalf("expected system + user message, got %d", len(llm.params.Messages))
	}
}

func TestBriefStripsCodeFences(t *testing.T) {
	llm := &stubLLMClient{
		response: completionWith("```json\n{\"brief\": \"Fenced brief.\", \"insight\": \"Fenced insight.\", \"bull_bear\": \"bear\"}\n```"),
	}
	b := NewBriefer(trace.NewNoopTracerProvider().Tracer("test"), llm, "")

	content, err := b.Brief(context.Background(), scoredItem("Exchange hack drains funds"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if content.Brief != "Fenced brief." || content.BullBear != domain.Bear {
		t.Fatalf("unexpected content: %+v", content)
	}
}

func TestBriefTransportErrorSurfaces(t *testing.T) {
	llm := &stubLLMClient{err: errors.New("api down")}
	b := NewBriefer(trace.NewNoopTracerProvider().Tracer("test"), llm, "")

	if _, err := b.Brief(context.Background(), scoredItem("Bitcoin rally continues")); err == nil {
		t.Fatal("expected error from LLM failure")
	}
}

func TestBriefUnparseableOutputFallsBackToTemplate(t *testing.T) {
	llm := &stubLLMClient{response: completionWith("I cannot answer in JSON today.")}
	b := NewBriefer(trace.NewNoopTracerProvider().Tracer("test"), llm, "")

	content, err := b.Brief(context.Background(), scoredItem("Exchange hack exploit drains user funds"))
	if err != nil {
		t.Fatalf("parse failure should degrade, not error: %v", err)
	}
	if content.Brief == "" || content.Insight == "" {
		t.Fatalf("expected template copy, got %+v", content)
	}
	if content.BullBear != domain.Bear {
		t.Fatalf("expected bear label from a hack headline, got %s", content.BullBear)
	}
}

func TestBuildCardPromptIncludesPolicyLine(t *testing.T) {
	item := scoredItem("SEC approves spot Bitcoin ETF options trading")
	if !item.Policy.IsPolicy {
		t.Fatal("fixture should classify as policy")
	}

	prompt := BuildCardPrompt(item)
	if !strings.Contains(prompt, "Headline: SEC approves spot Bitcoin ETF options trading") {
		t.Fatalf("prompt missing headline:\n%s", prompt)
	}
	if !strings.Contains(prompt, "Policy: regulation") {
		t.Fatalf("prompt missing policy line:\n%s", prompt)
	}
	if !strings.Contains(prompt, "Source: CoinDesk") {
		t.Fatalf("prompt missing source:\n%s", prompt)
	}
}

func TestExtractJSON(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{`{"brief": "x"}`, `{"brief": "x"}`},
		{"```json\n{\"brief\": \"x\"}\n```", `{"brief": "x"}`},
		{"Here you go:\n{\"brief\": \"x\"}\nHope that helps.", `{"brief": "x"}`},
		{"no json here", "no json here"},
	}
	for _, tc := range cases {
		if got := extractJSON(tc.in); got != tc.want {
			t.Fatalf("extractJSON(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
