package job

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/Driftedboat/Bubbly-Insider/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

type NewsFetcher interface {
	FetchNews(ctx context.Context) ([]domain.CandidateItem, error)
}

type PostFetcher interface {
	FetchPosts(ctx context.Context) ([]domain.CandidateItem, error)
}

type ItemWriter interface {
	UpsertItems(ctx context.Context, items []domain.CandidateItem) (int, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// itemRetention bounds how long candidate items stay in the store. Policy
// items are relevant for up to 30 days, everything shorter-lived.
const itemRetention = 30 * 24 * time.Hour

// Scraper runs one ingestion cycle: news and KOL posts are fetched
// concurrently, merged, and upserted. A single failing source is a warning,
// both failing is an error.
type Scraper struct {
	tracer trace.Tracer
	news   NewsFetcher
	posts  PostFetcher
	store  ItemWriter
}

func NewScraper(tracer trace.Tracer, news NewsFetcher, posts PostFetcher, store ItemWriter) *Scraper {
	return &Scraper{tracer: tracer, news: news, posts: posts, store: store}
}

func (s *Scraper) RunScrape(ctx context.Context) (domain.ScrapeRunResult, error) {
	ctx, span := s.tracer.Start(ctx, "scraper.run-scrape")
	defer span.End()

	var (
		result domain.ScrapeRunResult
		items  []domain.CandidateItem
		mu     sync.Mutex
		wg     sync.WaitGroup
	)

	if s.news != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fetched, err := s.news.FetchNews(ctx)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Errors = append(result.Errors, "news: "+err.Error())
				return
			}
			result.NewsCollected = len(fetched)
			items = append(items, fetched...)
		}()
	}

	if s.posts != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fetched, err := s.posts.FetchPosts(ctx)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Errors = append(result.Errors, "posts: "+err.Error())
				return
			}
			result.PostsCollected = len(fetched)
			items = append(items, fetched...)
		}()
	}

	wg.Wait()

	if len(items) == 0 {
		if len(result.Errors) > 0 {
			return result, fmt.Errorf("all sources failed: %v", result.Errors)
		}
		return result, nil
	}

	if s.store != nil {
		stored, err := s.store.UpsertItems(ctx, items)
		result.ItemsStored = stored
		if err != nil {
			result.Errors = append(result.Errors, "store: "+err.Error())
		}
		pruned, err := s.store.DeleteOlderThan(ctx, time.Now().UTC().Add(-itemRetention))
		result.ItemsPruned = pruned
		if err != nil {
			result.Errors = append(result.Errors, "prune: "+err.Error())
		}
	}

	return result, nil
}

type ScrapeRunner interface {
	RunScrape(ctx context.Context) (domain.ScrapeRunResult, error)
}

type ScrapeJob struct {
	tracer       trace.Tracer
	runner       ScrapeRunner
	pollInterval time.Duration
}

func NewScrapeJob(tracer trace.Tracer, runner ScrapeRunner, pollInterval time.Duration) *ScrapeJob {
	if pollInterval <= 0 {
		pollInterval = 30 * time.Minute
	}
	return &ScrapeJob{tracer: tracer, runner: runner, pollInterval: pollInterval}
}

func (j *ScrapeJob) Start(ctx context.Context) {
	if j.runner == nil {
		log.Println("Scrape job disabled: no runner")
		<-ctx.Done()
		return
	}

	j.runOnce(ctx)
	ticker := time.NewTicker(j.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			j.runOnce(ctx)
		}
	}
}

func (j *ScrapeJob) runOnce(ctx context.Context) {
	_, span := j.tracer.Start(ctx, "scrape-job.run-once")
	defer span.End()

	result, err := j.runner.RunScrape(ctx)
	if err != nil {
		log.Printf("Scrape cycle error: %v", err)
		return
	}
	log.Printf(
		"Scrape cycle complete news=%d posts=%d stored=%d pruned=%d warnings=%d",
		result.NewsCollected,
		result.PostsCollected,
		result.ItemsStored,
		result.ItemsPruned,
		len(result.Errors),
	)
}
