package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Driftedboat/Bubbly-Insider/internal/domain"
)

type scrapeRunnerStub struct {
	result domain.ScrapeRunResult
	err    error
}

func (s scrapeRunnerStub) RunScrape(ctx context.Context) (domain.ScrapeRunResult, error) {
	if s.err != nil {
		return domain.ScrapeRunResult{}, s.err
	}
	return s.result, nil
}

func TestTriggerScrapeServiceUnavailable(t *testing.T) {
	router, _ := newTestRouter(&deckServiceStub{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/scrape", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
}

func TestTriggerScrapeSuccess(t *testing.T) {
	router, h := newTestRouter(&deckServiceStub{})
	h.SetScrapeRunner(scrapeRunnerStub{
		result: domain.ScrapeRunResult{NewsCollected: 12, PostsCollected: 5, ItemsStored: 17},
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/scrape", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body struct {
		Status         string `json:"status"`
		NewsCollected  int    `json:"news_collected"`
		PostsCollected int    `json:"posts_collected"`
		ItemsStored    int    `json:"items_stored"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if body.Status != "ok" || body.NewsCollected != 12 || body.ItemsStored != 17 {
		t.Fatalf("unexpected response payload: %+v", body)
	}
}

func TestTriggerScrapeFailure(t *testing.T) {
	router, h := newTestRouter(&deckServiceStub{})
	h.SetScrapeRunner(scrapeRunnerStub{err: errors.New("scrape failed")})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/scrape", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
}
