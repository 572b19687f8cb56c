package config

import (
	"reflect"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("REDIS_URL", "")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("OPENAI_MODEL", "")
	t.Setenv("TWITTER_BEARER_TOKEN", "")
	t.Setenv("NEWS_FEEDS", "")
	t.Setenv("KOL_HANDLES", "")
	t.Setenv("SCRAPE_POLL_SECS", "")
	t.Setenv("CANDIDATE_WINDOW_HOURS", "")

	cfg := Load()

	if cfg.RedisURL != "localhost:6379" {
		t.Fatalf("expected redis default, got %q", cfg.RedisURL)
	}
	if cfg.OpenAIModel != "gpt-4o-mini" {
		t.Fatalf("expected model default, got %q", cfg.OpenAIModel)
	}
	if cfg.ScrapePollSecs != 1800 {
		t.Fatalf("expected 1800s scrape poll default, got %d", cfg.ScrapePollSecs)
	}
	if cfg.CandidateWindowHours != 48 {
		t.Fatalf("expected 48h candidate window default, got %d", cfg.CandidateWindowHours)
	}
	if cfg.NewsFeeds != nil || cfg.KOLHandles != nil {
		t.Fatalf("expected nil feed/handle overrides, got %v / %v", cfg.NewsFeeds, cfg.KOLHandles)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("REDIS_URL", "redis://prod:6379")
	t.Setenv("OPENAI_MODEL", "gpt-4o")
	t.Setenv("TWITTER_BEARER_TOKEN", "  token  ")
	t.Setenv("NEWS_FEEDS", "https://a.example/rss, https://b.example/rss ,")
	t.Setenv("KOL_HANDLES", "VitalikButerin,zachxbt")
	t.Setenv("SCRAPE_POLL_SECS", "600")
	t.Setenv("CANDIDATE_WINDOW_HOURS", "24")

	cfg := Load()

	if cfg.RedisURL != "redis://prod:6379" {
		t.Fatalf("unexpected redis url %q", cfg.RedisURL)
	}
	if cfg.OpenAIModel != "gpt-4o" {
		t.Fatalf("unexpected model %q", cfg.OpenAIModel)
	}
	if cfg.XBearerToken != "token" {
		t.Fatalf("expected trimmed bearer token, got %q", cfg.XBearerToken)
	}
	if want := []string{"https://a.example/rss", "https://b.example/rss"}; !reflect.DeepEqual(cfg.NewsFeeds, want) {
		t.Fatalf("unexpected feeds %v", cfg.NewsFeeds)
	}
	if len(cfg.KOLHandles) != 2 {
		t.Fatalf("unexpected handles %v", cfg.KOLHandles)
	}
	if cfg.ScrapePollSecs != 600 || cfg.CandidateWindowHours != 24 {
		t.Fatalf("unexpected poll/window: %d / %d", cfg.ScrapePollSecs, cfg.CandidateWindowHours)
	}
}

func TestLoadIgnoresInvalidNumbers(t *testing.T) {
	t.Setenv("SCRAPE_POLL_SECS", "not-a-number")
	t.Setenv("CANDIDATE_WINDOW_HOURS", "-5")

	cfg := Load()

	if cfg.ScrapePollSecs != 1800 || cfg.CandidateWindowHours != 48 {
		t.Fatalf("expected defaults for invalid values, got %d / %d", cfg.ScrapePollSecs, cfg.CandidateWindowHours)
	}
}
