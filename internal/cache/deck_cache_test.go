package cache

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/Driftedboat/Bubbly-Insider/internal/domain"

	"github.com/redis/go-redis/v9"
)

type fakeRedis struct {
	data   map[string][]byte
	ttls   map[string]time.Duration
	getErr error
	setErr error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (f *fakeRedis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	if f.setErr != nil {
		return redis.NewStatusResult("", f.setErr)
	}
	switch v := value.(type) {
	case []byte:
		f.data[key] = v
	case string:
		f.data[key] = []byte(v)
	}
	f.ttls[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	if f.getErr != nil {
		return redis.NewStringResult("", f.getErr)
	}
	if v, ok := f.data[key]; ok {
		return redis.NewStringResult(string(v), nil)
	}
	return redis.NewStringResult("", redis.Nil)
}

func TestDeckCacheRoundTrip(t *testing.T) {
	fake := newFakeRedis()
	dc := NewDeckCache(fake)

	deck := &domain.Deck{
		DeckDate: "2026-03-01",
		Cards: []domain.Card{
			{ID: "card-1", CardType: domain.CardTypePrice, Headline: "BTC $97,000"},
		},
	}

	if err := dc.SetDeck(context.Background(), "deck:2026-03-01", deck, 6*time.Hour); err != nil {
		t.Fatalf("SetDeck failed: %v", err)
	}
	if ttl := fake.ttls["deck:2026-03-01"]; ttl != 6*time.Hour {
		t.Fatalf("expected 6h ttl, got %v", ttl)
	}

	got, err := dc.GetDeck(context.Background(), "deck:2026-03-01")
	if err != nil {
		t.Fatalf("GetDeck failed: %v", err)
	}
	if got == nil {
		t.Fatal("expected a deck, got nil")
	}
	if got.DeckDate != "2026-03-01" || len(got.Cards) != 1 || got.Cards[0].ID != "card-1" {
		t.Fatalf("unexpected deck: %+v", got)
	}
}

func TestDeckCacheMissReturnsNil(t *testing.T) {
	dc := NewDeckCache(newFakeRedis())

	got, err := dc.GetDeck(context.Background(), "deck:2026-03-01")
	if err != nil {
		t.Fatalf("expected no error on miss, got %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil deck on miss, got %+v", got)
	}
}

func TestDeckCacheGetPropagatesErrors(t *testing.T) {
	fake := newFakeRedis()
	fake.getErr = errors.New("connection refused")
	dc := NewDeckCache(fake)

	if _, err := dc.GetDeck(context.Background(), "deck:2026-03-01"); err == nil {
		t.Fatal("expected error from redis")
	}
}

func TestDeckCacheCorruptPayload(t *testing.T) {
	fake := newFakeRedis()
	fake.data["deck:2026-03-01"] = []byte("{not json")
	dc := NewDeckCache(fake)

	if _, err := dc.GetDeck(context.Background(), "deck:2026-03-01"); err == nil {
		t.Fatal("expected unmarshal error")
	}
}

func TestDeckCacheSetMarshalsDeck(t *testing.T) {
	fake := newFakeRedis()
	dc := NewDeckCache(fake)

	deck := &domain.Deck{DeckDate: "2026-03-01"}
	if err := dc.SetDeck(context.Background(), "deck:2026-03-01", deck, time.Minute); err != nil {
		t.Fatalf("SetDeck failed: %v", err)
	}

	var stored domain.Deck
	if err := json.Unmarshal(fake.data["deck:2026-03-01"], &stored); err != nil {
		t.Fatalf("stored payload is not valid JSON: %v", err)
	}
	if stored.DeckDate != "2026-03-01" {
		t.Fatalf("unexpected stored deck date %q", stored.DeckDate)
	}
}
