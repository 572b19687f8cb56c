package main

import (
	"context"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Driftedboat/Bubbly-Insider/internal/bot"
	"github.com/Driftedboat/Bubbly-Insider/internal/briefer"
	"github.com/Driftedboat/Bubbly-Insider/internal/cache"
	"github.com/Driftedboat/Bubbly-Insider/internal/config"
	"github.com/Driftedboat/Bubbly-Insider/internal/db"
	"github.com/Driftedboat/Bubbly-Insider/internal/deck"
	"github.com/Driftedboat/Bubbly-Insider/internal/handler"
	"github.com/Driftedboat/Bubbly-Insider/internal/job"
	"github.com/Driftedboat/Bubbly-Insider/internal/provider"
	"github.com/Driftedboat/Bubbly-Insider/internal/repository"
	"github.com/Driftedboat/Bubbly-Insider/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	_ "github.com/Driftedboat/Bubbly-Insider/docs"
)

var (
	loadEnvFunc            = godotenv.Load
	loadConfigFunc         = config.Load
	initPostgresFunc       = db.InitPostgres
	initRedisFunc          = cache.InitRedis
	initTracerFunc         = tracing.InitTracer
	startScrapeJobFunc     = func(j *job.ScrapeJob, ctx context.Context) { go j.Start(ctx) }
	startTelegramBotFunc   = bot.StartTelegramBot
	newRouterFunc          = gin.Default
	setupSignalNotify      = signal.Notify
	waitForSignalFunc      = func(quit <-chan os.Signal) { <-quit }
	startHTTPServerFunc    = func(srv *http.Server) error { return srv.ListenAndServe() }
	shutdownHTTPServerFunc = func(srv *http.Server, ctx context.Context) error { return srv.Shutdown(ctx) }
)

// @title           Bubbly Insider API
// @version         1.0
// @description     Daily crypto discovery deck service with OpenTelemetry tracing.

// @host      localhost:8080
// @BasePath  /
func main() {
	loadEnvFunc()

	cfg := loadConfigFunc()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init Postgres and Redis
	os.Setenv("DATABASE_URL", cfg.DatabaseURL)
	os.Setenv("REDIS_URL", cfg.RedisURL)
	initPostgresFunc(ctx)
	initRedisFunc(ctx)

	// Init tracing
	tp, tracer, err := initTracerFunc(ctx)
	if err != nil {
		log.Fatalf("failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("error shutting down tracer provider: %v", err)
		}
	}()

	// Create repository and run migrations
	itemRepo := repository.NewItemRepository(db.Pool, tracer)
	var store deck.ItemStore
	if db.Pool != nil {
		if err := itemRepo.RunMigrations(ctx); err != nil {
			log.Fatalf("failed to run migrations: %v", err)
		}
		store = itemRepo
	}

	// Providers
	newsProvider := provider.NewNewsProvider(tracer, feedsFromURLs(cfg.NewsFeeds), 0)
	var posts deck.PostReader
	var postFetcher job.PostFetcher
	if cfg.XBearerToken != "" {
		xProvider := provider.NewXProvider(tracer, cfg.XBearerToken, cfg.KOLHandles, 0)
		posts = xProvider
		postFetcher = xProvider
	}
	pulseProvider := provider.NewCoinGeckoProvider(tracer)

	var deckCache deck.DeckCache
	if cache.Client != nil {
		deckCache = cache.NewDeckCache(cache.Client)
	}

	var briefs deck.Briefer
	if cfg.OpenAIAPIKey != "" {
		briefs = briefer.NewBriefer(tracer, briefer.NewOpenAIClient(cfg.OpenAIAPIKey), cfg.OpenAIModel)
	}

	deckService := deck.NewService(
		tracer,
		store,
		deckCache,
		newsProvider,
		posts,
		pulseProvider,
		briefs,
		deck.Config{CandidateWindowHours: cfg.CandidateWindowHours},
	)

	// Background ingestion (stopped by ctx cancel)
	var itemWriter job.ItemWriter
	if db.Pool != nil {
		itemWriter = itemRepo
	}
	scraper := job.NewScraper(tracer, newsProvider, postFetcher, itemWriter)
	scrapeJob := job.NewScrapeJob(tracer, scraper, time.Duration(cfg.ScrapePollSecs)*time.Second)
	startScrapeJobFunc(scrapeJob, ctx)

	// Start Telegram bot
	os.Setenv("TELEGRAM_BOT_TOKEN", cfg.TelegramBotToken)
	startTelegramBotFunc(deckService)

	// Create handlers and routes
	h := handler.New(tracer, deckService)
	h.SetScrapeRunner(scraper)

	r := newRouterFunc()
	r.Use(otelgin.Middleware("bubbly-insider"))

	h.RegisterRoutes(r, cfg.APIKey)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    ":8080",
		Handler: r,
	}

	go func() {
		if err := startHTTPServerFunc(srv); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	setupSignalNotify(quit, syscall.SIGINT, syscall.SIGTERM)
	waitForSignalFunc(quit)
	log.Println("Shutting down server...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := shutdownHTTPServerFunc(srv, shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}

// feedsFromURLs turns configured feed URLs into named sources, host as name.
// Empty input keeps the provider's default feed list.
func feedsFromURLs(urls []string) []provider.FeedSource {
	var feeds []provider.FeedSource
	for _, raw := range urls {
		name := raw
		if u, err := url.Parse(raw); err == nil && u.Host != "" {
			name = strings.TrimPrefix(u.Host, "www.")
		}
		feeds = append(feeds, provider.FeedSource{Name: name, URL: raw})
	}
	return feeds
}
