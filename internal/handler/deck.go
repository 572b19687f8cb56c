package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GenerateDeck godoc
// @Summary      Generate today's discovery deck
// @Description  Returns the cached deck for today, or runs the full scoring pipeline. Pass force_refresh=true to bypass the cache.
// @Tags         deck
// @Produce      json
// @Param        force_refresh  query  bool  false  "Bypass the daily cache and regenerate"
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  map[string]string
// @Router       /api/deck [post]
func (h *Handler) GenerateDeck(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.generate-deck")
	defer span.End()

	forceRefresh := c.Query("force_refresh") == "true"

	deck, pulse, result, err := h.deckService.Generate(ctx, forceRefresh)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"deck_id":      deck.ID,
		"deck":         deck,
		"market_pulse": pulse,
		"run":          result,
	})
}

// GetDeck godoc
// @Summary      Get today's deck
// @Description  Returns today's deck if one has been generated, 404 otherwise
// @Tags         deck
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]string
// @Router       /api/deck [get]
func (h *Handler) GetDeck(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-deck")
	defer span.End()

	deck, err := h.deckService.GetTodaysDeck(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if deck == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no deck yet"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deck": deck})
}

// GetCard godoc
// @Summary      Get a single card
// @Description  Returns one card from the current deck by ID
// @Tags         deck
// @Produce      json
// @Param        id   path      string  true  "Card ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]string
// @Router       /api/cards/{id} [get]
func (h *Handler) GetCard(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-card")
	defer span.End()

	card, err := h.deckService.GetCard(ctx, c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if card == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "card not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"card": card})
}

// GetMarketPulse godoc
// @Summary      Get the market pulse
// @Description  Returns the current BTC/ETH snapshot, synthetic when no live data is available
// @Tags         market
// @Produce      json
// @Success      200  {object}  domain.MarketPulse
// @Router       /api/market-pulse [get]
func (h *Handler) GetMarketPulse(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-market-pulse")
	defer span.End()

	pulse, err := h.deckService.GetMarketPulse(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, pulse)
}
