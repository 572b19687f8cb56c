package config

import (
	"log"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	TelegramBotToken string
	DatabaseURL      string
	RedisURL         string
	APIKey           string

	OpenAIAPIKey string
	OpenAIModel  string

	XBearerToken string
	NewsFeeds    []string
	KOLHandles   []string

	ScrapePollSecs       int
	CandidateWindowHours int
}

func Load() *Config {
	cfg := &Config{
		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		RedisURL:         os.Getenv("REDIS_URL"),
		APIKey:           strings.TrimSpace(os.Getenv("API_KEY")),
		XBearerToken:     strings.TrimSpace(os.Getenv("TWITTER_BEARER_TOKEN")),
	}

	if cfg.TelegramBotToken == "" {
		log.Println("Warning: TELEGRAM_BOT_TOKEN not set")
	}
	if cfg.DatabaseURL == "" {
		log.Println("Warning: DATABASE_URL not set")
	}
	if cfg.RedisURL == "" {
		log.Println("Warning: REDIS_URL not set, defaulting to localhost:6379")
		cfg.RedisURL = "localhost:6379"
	}
	if cfg.XBearerToken == "" {
		log.Println("Warning: TWITTER_BEARER_TOKEN not set, KOL scraping will be disabled")
	}

	cfg.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	if cfg.OpenAIAPIKey == "" {
		log.Println("Warning: OPENAI_API_KEY not set, card briefs fall back to templates")
	}

	cfg.OpenAIModel = strings.TrimSpace(os.Getenv("OPENAI_MODEL"))
	if cfg.OpenAIModel == "" {
		cfg.OpenAIModel = "gpt-4o-mini"
	}

	cfg.NewsFeeds = splitList(os.Getenv("NEWS_FEEDS"))
	cfg.KOLHandles = splitList(os.Getenv("KOL_HANDLES"))

	cfg.ScrapePollSecs = 1800
	if v := strings.TrimSpace(os.Getenv("SCRAPE_POLL_SECS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.ScrapePollSecs = n
		}
	}

	cfg.CandidateWindowHours = 48
	if v := strings.TrimSpace(os.Getenv("CANDIDATE_WINDOW_HOURS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.CandidateWindowHours = n
		}
	}

	return cfg
}

// splitList parses a comma-separated env value, dropping empty entries.
func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
