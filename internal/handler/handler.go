package handler

import (
	"context"

	"github.com/Driftedboat/Bubbly-Insider/internal/domain"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
)

// DeckService is the deck pipeline surface the HTTP layer depends on.
type DeckService interface {
	Generate(ctx context.Context, forceRefresh bool) (*domain.Deck, domain.MarketPulse, domain.DeckRunResult, error)
	GetTodaysDeck(ctx context.Context) (*domain.Deck, error)
	GetCard(ctx context.Context, id string) (*domain.Card, error)
	GetMarketPulse(ctx context.Context) (domain.MarketPulse, error)
}

// ScrapeRunner triggers one ingestion cycle on demand.
type ScrapeRunner interface {
	RunScrape(ctx context.Context) (domain.ScrapeRunResult, error)
}

type Handler struct {
	tracer       trace.Tracer
	deckService  DeckService
	scrapeRunner ScrapeRunner
}

func New(tracer trace.Tracer, deckService DeckService) *Handler {
	return &Handler{
		tracer:      tracer,
		deckService: deckService,
	}
}

// SetScrapeRunner wires the optional manual-scrape trigger.
func (h *Handler) SetScrapeRunner(runner ScrapeRunner) {
	h.scrapeRunner = runner
}

// RegisterRoutes mounts all routes. API routes sit behind APIKeyAuth, an
// empty key disables the check. Health stays open for probes.
func (h *Handler) RegisterRoutes(r *gin.Engine, apiKey string) {
	r.GET("/health", h.Health)

	api := r.Group("/api", APIKeyAuth(apiKey))
	api.POST("/deck", h.GenerateDeck)
	api.GET("/deck", h.GetDeck)
	api.GET("/cards/:id", h.GetCard)
	api.GET("/market-pulse", h.GetMarketPulse)
	api.POST("/scrape", h.TriggerScrape)
}
