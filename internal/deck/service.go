package deck

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/Driftedboat/Bubbly-Insider/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

type NewsReader interface {
	FetchNews(ctx context.Context) ([]domain.CandidateItem, error)
}

type PostReader interface {
	FetchPosts(ctx context.Context) ([]domain.CandidateItem, error)
}

type PulseReader interface {
	FetchPulse(ctx context.Context) (domain.MarketPulse, error)
}

type Briefer interface {
	Brief(ctx context.Context, item *ScoredItem) (*CardContent, error)
}

type ItemStore interface {
	UpsertItems(ctx context.Context, items []domain.CandidateItem) (int, error)
	RecentItems(ctx context.Context, since time.Time) ([]domain.CandidateItem, error)
}

type DeckCache interface {
	GetDeck(ctx context.Context, key string) (*domain.Deck, error)
	SetDeck(ctx context.Context, key string, deck *domain.Deck, ttl time.Duration) error
}

type Config struct {
	CandidateWindowHours int
}

type Service struct {
	tracer trace.Tracer
	store  ItemStore
	cache  DeckCache

	news    NewsReader
	posts   PostReader
	pulse   PulseReader
	briefer Briefer

	cfg Config
	now func() time.Time

	mu        sync.RWMutex
	lastDeck  *domain.Deck
	lastPulse domain.MarketPulse
}

func NewService(
	tracer trace.Tracer,
	store ItemStore,
	cache DeckCache,
	news NewsReader,
	posts PostReader,
	pulse PulseReader,
	briefer Briefer,
	cfg Config,
) *Service {
	if cfg.CandidateWindowHours <= 0 {
		cfg.CandidateWindowHours = 48
	}
	return &Service{
		tracer:  tracer,
		store:   store,
		cache:   cache,
		news:    news,
		posts:   posts,
		pulse:   pulse,
		briefer: briefer,
		cfg:     cfg,
		now:     time.Now,
	}
}

// DeckKey is the cache key for a given day's deck. One deck per UTC day.
func DeckKey(t time.Time) string {
	return "deck:" + t.UTC().Format("2006-01-02")
}

// Generate builds today's deck. Unless forceRefresh is set, a previously
// generated deck for the same UTC day is served from cache. Source failures
// degrade through the fallback chain instead of failing the run.
func (s *Service) Generate(ctx context.Context, forceRefresh bool) (*domain.Deck, domain.MarketPulse, domain.DeckRunResult, error) {
	ctx, span := s.tracer.Start(ctx, "deck.generate")
	defer span.End()

	now := s.now().UTC()
	result := domain.DeckRunResult{}
	key := DeckKey(now)

	if !forceRefresh && s.cache != nil {
		if cached, err := s.cache.GetDeck(ctx, key); err != nil {
			result.Errors = append(result.Errors, "cache_get: "+err.Error())
		} else if cached != nil {
			pulse, pulseSource, pulseErrs, err := s.resolvePulse(ctx, now)
			result.Errors = append(result.Errors, pulseErrs...)
			if err != nil {
				return nil, domain.MarketPulse{}, result, fmt.Errorf("market pulse: %w", err)
			}
			result.PulseSource = pulseSource
			s.remember(cached, pulse)
			return cached, pulse, result, nil
		}
	}

	pulse, pulseSource, pulseErrs, err := s.resolvePulse(ctx, now)
	result.Errors = append(result.Errors, pulseErrs...)
	if err != nil {
		return nil, domain.MarketPulse{}, result, fmt.Errorf("market pulse: %w", err)
	}
	result.PulseSource = pulseSource

	candidates, candidateSource, candidateErrs, err := firstAvailable(ctx, []NamedSource[[]domain.CandidateItem]{
		{Name: "store", Fetch: s.fetchStoredCandidates},
		{Name: "live", Fetch: func(ctx context.Context) ([]domain.CandidateItem, error) {
			items, warnings, err := s.fetchLiveCandidates(ctx)
			result.Errors = append(result.Errors, warnings...)
			return items, err
		}},
		{Name: "mock", Fetch: func(context.Context) ([]domain.CandidateItem, error) {
			return MockCandidates(now), nil
		}},
	})
	result.Errors = append(result.Errors, candidateErrs...)
	if err != nil {
		return nil, pulse, result, fmt.Errorf("candidates: %w", err)
	}
	result.CandidateSource = candidateSource
	result.CandidatesCollected = len(candidates)

	if candidateSource == "live" && s.store != nil && len(candidates) > 0 {
		if _, err := s.store.UpsertItems(ctx, candidates); err != nil {
			result.Errors = append(result.Errors, "store_upsert: "+err.Error())
		}
	}

	scored := make([]*ScoredItem, 0, len(candidates))
	for _, item := range candidates {
		if si := ScoreItem(item, pulse.BTCChange24h, now); si != nil {
			scored = append(scored, si)
		}
	}
	result.CandidatesScored = len(scored)

	cards := Assemble(scored, pulse, s.contentFunc(ctx, &result), now)
	result.CardsSelected = len(cards)

	deck := &domain.Deck{
		ID:        key,
		Cards:     cards,
		CreatedAt: now,
		DeckDate:  now.Format("2006-01-02"),
	}

	if s.cache != nil {
		if err := s.cache.SetDeck(ctx, key, deck, untilEndOfDay(now)); err != nil {
			result.Errors = append(result.Errors, "cache_set: "+err.Error())
		}
	}
	s.remember(deck, pulse)

	return deck, pulse, result, nil
}

// GetTodaysDeck returns today's deck, generating it on a cache miss.
func (s *Service) GetTodaysDeck(ctx context.Context) (*domain.Deck, error) {
	now := s.now().UTC()
	if s.cache != nil {
		if cached, err := s.cache.GetDeck(ctx, DeckKey(now)); err != nil {
			log.Printf("deck cache read failed: %v", err)
		} else if cached != nil {
			s.remember(cached, s.currentPulse())
			return cached, nil
		}
	}
	deck, _, _, err := s.Generate(ctx, false)
	return deck, err
}

// GetCard looks up a single card in today's deck by ID.
func (s *Service) GetCard(ctx context.Context, id string) (*domain.Card, error) {
	deck, err := s.GetTodaysDeck(ctx)
	if err != nil {
		return nil, err
	}
	for i := range deck.Cards {
		if deck.Cards[i].ID == id {
			return &deck.Cards[i], nil
		}
	}
	return nil, nil
}

// GetMarketPulse returns the freshest pulse, falling back to the last one
// served when the live source is down.
func (s *Service) GetMarketPulse(ctx context.Context) (domain.MarketPulse, error) {
	if s.pulse != nil {
		if p, err := s.pulse.FetchPulse(ctx); err == nil && p.HasData() {
			s.mu.Lock()
			s.lastPulse = p
			s.mu.Unlock()
			return p, nil
		} else if err != nil {
			log.Printf("live pulse fetch failed: %v", err)
		}
	}
	last := s.currentPulse()
	if last.HasData() {
		return last, nil
	}
	return SyntheticPulse(s.now().UTC()), nil
}

// resolvePulse runs the live -> synthetic chain. It never fails outright
// because the synthetic source always produces a pulse.
func (s *Service) resolvePulse(ctx context.Context, now time.Time) (domain.MarketPulse, string, []string, error) {
	return firstAvailable(ctx, []NamedSource[domain.MarketPulse]{
		{Name: "live", Fetch: s.fetchLivePulse},
		{Name: "synthetic", Fetch: func(context.Context) (domain.MarketPulse, error) {
			return SyntheticPulse(now), nil
		}},
	})
}

func (s *Service) fetchLivePulse(ctx context.Context) (domain.MarketPulse, error) {
	if s.pulse == nil {
		return domain.MarketPulse{}, fmt.Errorf("no pulse provider configured")
	}
	p, err := s.pulse.FetchPulse(ctx)
	if err != nil {
		return domain.MarketPulse{}, err
	}
	if !p.HasData() {
		return domain.MarketPulse{}, fmt.Errorf("pulse provider returned empty data")
	}
	return p, nil
}

// fetchLiveCandidates fans out to the news and post providers concurrently.
// A partial result is still a success; the failing source comes back as a
// warning for the run result. Only a fully empty fetch falls through.
func (s *Service) fetchLiveCandidates(ctx context.Context) ([]domain.CandidateItem, []string, error) {
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		items    []domain.CandidateItem
		warnings []string
	)

	fetch := func(name string, fn func(context.Context) ([]domain.CandidateItem, error)) {
		defer wg.Done()
		got, err := fn(ctx)
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("%s: %v", name, err))
			return
		}
		items = append(items, got...)
	}

	if s.news != nil {
		wg.Add(1)
		go fetch("news", s.news.FetchNews)
	}
	if s.posts != nil {
		wg.Add(1)
		go fetch("posts", s.posts.FetchPosts)
	}
	wg.Wait()

	if len(items) == 0 {
		if len(warnings) > 0 {
			return nil, nil, fmt.Errorf("all providers failed: %v", warnings)
		}
		return nil, nil, fmt.Errorf("providers returned no items")
	}
	return items, warnings, nil
}

func (s *Service) fetchStoredCandidates(ctx context.Context) ([]domain.CandidateItem, error) {
	if s.store == nil {
		return nil, fmt.Errorf("no item store configured")
	}
	since := s.now().UTC().Add(-time.Duration(s.cfg.CandidateWindowHours) * time.Hour)
	items, err := s.store.RecentItems(ctx, since)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("no recent items in store")
	}
	return items, nil
}

// contentFunc adapts the briefer into the assembler's content hook. Briefer
// failures fall back to template content and are recorded on the run result.
func (s *Service) contentFunc(ctx context.Context, result *domain.DeckRunResult) ContentFunc {
	if s.briefer == nil {
		return nil
	}
	return func(item *ScoredItem) *CardContent {
		content, err := s.briefer.Brief(ctx, item)
		if err != nil {
			result.Errors = append(result.Errors, "briefer: "+err.Error())
			return nil
		}
		return content
	}
}

func (s *Service) remember(deck *domain.Deck, pulse domain.MarketPulse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastDeck = deck
	if pulse.HasData() {
		s.lastPulse = pulse
	}
}

func (s *Service) currentPulse() domain.MarketPulse {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastPulse
}

func untilEndOfDay(now time.Time) time.Duration {
	next := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).Add(24 * time.Hour)
	d := next.Sub(now)
	if d < time.Minute {
		d = time.Minute
	}
	return d
}
