package briefer

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/Driftedboat/Bubbly-Insider/internal/deck"
	"github.com/Driftedboat/Bubbly-Insider/internal/domain"

	"github.com/jonreiter/govader"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// LLMClient abstracts the OpenAI chat completions API for testability.
type LLMClient interface {
	CreateChatCompletion(ctx context.Context, params openai.ChatCompletionNewParams) (*openai.ChatCompletion, error)
}

// Briefer writes the brief and insight copy for a card. Transport errors
// surface to the caller, malformed model output degrades to template copy.
type Briefer struct {
	tracer trace.Tracer
	llm    LLMClient
	model  string
	vader  *govader.SentimentIntensityAnalyzer
}

func NewBriefer(tracer trace.Tracer, llm LLMClient, model string) *Briefer {
	if model == "" {
		model = openai.ChatModelGPT4oMini
	}
	return &Briefer{
		tracer: tracer,
		llm:    llm,
		model:  model,
		vader:  govader.NewSentimentIntensityAnalyzer(),
	}
}

type cardCopy struct {
	Brief    string `json:"brief"`
	Insight  string `json:"insight"`
	BullBear string `json:"bull_bear"`
}

func (b *Briefer) Brief(ctx context.Context, item *deck.ScoredItem) (*deck.CardContent, error) {
	ctx, span := b.tracer.Start(ctx, "briefer.brief")
	defer span.End()
	span.SetAttributes(
		attribute.String("item.id", item.ID),
		attribute.String("llm.model", b.model),
	)

	completion, err := b.llm.CreateChatCompletion(ctx, openai.ChatCompletionNewParams{
		Model: b.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(analystPrompt),
			openai.UserMessage(BuildCardPrompt(item)),
		},
	})
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("brief generation failed: %w", err)
	}
	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("no choices in LLM response")
	}

	raw := extractJSON(completion.Choices[0].Message.Content)

	var parsed cardCopy
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil || parsed.Brief == "" {
		log.Printf("briefer: unparseable model output for item %s, using template copy", item.ID)
		content := b.templateContent(item)
		return &content, nil
	}

	return &deck.CardContent{
		Brief:    parsed.Brief,
		Insight:  parsed.Insight,
		BullBear: toBullBear(parsed.BullBear),
	}, nil
}

// templateContent is the deterministic fallback. Bull/bear comes from a VADER
// lexicon pass over the headline rather than the model.
func (b *Briefer) templateContent(item *deck.ScoredItem) deck.CardContent {
	label := domain.Bull
	if b.vader.PolarityScores(item.Title).Compound < 0 {
		label = domain.Bear
	}

	var brief string
	switch item.Type {
	case domain.CardTypeKOL:
		brief = fmt.Sprintf("%s weighs in on market conditions. The post is drawing attention in the crypto community.", item.Source)
	default:
		brief = fmt.Sprintf("%s. Reported by %s.", item.Title, item.Source)
	}

	insight := "This development is generally positive for crypto market sentiment and could attract increased participation."
	if label == domain.Bear {
		insight = "This creates near-term uncertainty and may prompt risk-off positioning among traders."
	}

	return deck.CardContent{Brief: brief, Insight: insight, BullBear: label}
}

func toBullBear(s string) domain.BullBear {
	if s == "bear" {
		return domain.Bear
	}
	return domain.Bull
}

// openaiClient wraps the official SDK's chat completions service.
type openaiClient struct {
	client openai.Client
}

func NewOpenAIClient(apiKey string) LLMClient {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &openaiClient{client: client}
}

func (c *openaiClient) CreateChatCompletion(
	ctx context.Context,
	params openai.ChatCompletionNewParams,
) (*openai.ChatCompletion, error) {
	return c.client.Chat.Completions.New(ctx, params)
}
