package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// TriggerScrape godoc
// @Summary      Trigger news and KOL ingestion manually
// @Description  Runs one scrape cycle and returns collection counters
// @Tags         scrape
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      503  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/scrape [post]
func (h *Handler) TriggerScrape(c *gin.Context) {
	if h.scrapeRunner == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "scrape service unavailable"})
		return
	}

	ctx, span := h.tracer.Start(c.Request.Context(), "handler.trigger-scrape")
	defer span.End()

	result, err := h.scrapeRunner.RunScrape(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":          "ok",
		"news_collected":  result.NewsCollected,
		"posts_collected": result.PostsCollected,
		"items_stored":    result.ItemsStored,
		"items_pruned":    result.ItemsPruned,
		"errors":          result.Errors,
	})
}
