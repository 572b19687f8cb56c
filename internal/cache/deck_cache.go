package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Driftedboat/Bubbly-Insider/internal/domain"

	"github.com/redis/go-redis/v9"
)

type RedisClient interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
}

// DeckCache stores generated decks as JSON blobs keyed by UTC date.
type DeckCache struct {
	redis RedisClient
}

func NewDeckCache(client RedisClient) *DeckCache {
	return &DeckCache{redis: client}
}

// GetDeck returns (nil, nil) on a cache miss.
func (c *DeckCache) GetDeck(ctx context.Context, key string) (*domain.Deck, error) {
	data, err := c.redis.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var deck domain.Deck
	if err := json.Unmarshal(data, &deck); err != nil {
		return nil, err
	}
	return &deck, nil
}

func (c *DeckCache) SetDeck(ctx context.Context, key string, deck *domain.Deck, ttl time.Duration) error {
	data, err := json.Marshal(deck)
	if err != nil {
		return err
	}
	return c.redis.Set(ctx, key, data, ttl).Err()
}
