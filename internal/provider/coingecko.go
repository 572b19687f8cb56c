package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Driftedboat/Bubbly-Insider/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

const coingeckoBaseURL = "https://api.coingecko.com/api/v3"

// sparklinePoints is how many of the trailing 7d sparkline points the pulse
// keeps, roughly the last 24 hours at hourly granularity.
const sparklinePoints = 24

// CoinGeckoProvider fetches BTC and ETH market data from the CoinGecko free
// API. Rate limited to 8 requests per minute (one token every 7.5 seconds).
type CoinGeckoProvider struct {
	client  *http.Client
	baseURL string
	tracer  trace.Tracer
	limiter *RateLimiter
}

func NewCoinGeckoProvider(tracer trace.Tracer) *CoinGeckoProvider {
	return &CoinGeckoProvider{
		client:  &http.Client{Timeout: 30 * time.Second},
		baseURL: coingeckoBaseURL,
		tracer:  tracer,
		limiter: NewRateLimiter(8, 7500*time.Millisecond),
	}
}

// FetchPulse fetches the market pulse in a single /coins/markets call,
// including the BTC sparkline for the price card.
func (p *CoinGeckoProvider) FetchPulse(ctx context.Context) (domain.MarketPulse, error) {
	_, span := p.tracer.Start(ctx, "coingecko.fetch-pulse")
	defer span.End()

	url := fmt.Sprintf("%s/coins/markets?vs_currency=usd&ids=bitcoin,ethereum&order=market_cap_desc&sparkline=true&price_change_percentage=24h",
		p.baseURL)

	body, err := p.doRequest(ctx, url)
	if err != nil {
		return domain.MarketPulse{}, fmt.Errorf("fetch market pulse: %w", err)
	}

	var raw []struct {
		ID                string  `json:"id"`
		CurrentPrice      float64 `json:"current_price"`
		PriceChangePct24h float64 `json:"price_change_percentage_24h"`
		SparklineIn7d     struct {
			Price []float64 `json:"price"`
		} `json:"sparkline_in_7d"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return domain.MarketPulse{}, fmt.Errorf("parse market pulse: %w", err)
	}

	pulse := domain.MarketPulse{Timestamp: time.Now().UTC()}
	for _, coin := range raw {
		switch coin.ID {
		case "bitcoin":
			pulse.BTCPrice = coin.CurrentPrice
			pulse.BTCChange24h = coin.PriceChangePct24h
			pulse.Sparkline = tailFloats(coin.SparklineIn7d.Price, sparklinePoints)
		case "ethereum":
			pulse.ETHPrice = coin.CurrentPrice
			pulse.ETHChange24h = coin.PriceChangePct24h
		}
	}

	if !pulse.HasData() {
		return domain.MarketPulse{}, fmt.Errorf("coingecko returned no bitcoin data")
	}
	return pulse, nil
}

func (p *CoinGeckoProvider) doRequest(ctx context.Context, url string) ([]byte, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("coingecko API error %d: %s", resp.StatusCode, string(body))
	}

	return io.ReadAll(resp.Body)
}

func tailFloats(values []float64, n int) []float64 {
	if len(values) <= n {
		return values
	}
	return values[len(values)-n:]
}
