package deck

import (
	"testing"
	"time"

	"github.com/Driftedboat/Bubbly-Insider/internal/domain"
)

func TestScoreInfluenceFreshNewsItem(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	res := ScoreInfluence(InfluenceInput{
		ContentType: ContentTypeNews,
		Source:      "CoinDesk",
		URL:         "https://www.coindesk.com/markets/story",
		PublishedAt: now.Add(-6 * time.Hour),
	}, now)

	if !res.IsFresh {
		t.Fatalf("expected fresh item inside the 12h news window")
	}
	if res.TimeDecay != 1.0 {
		t.Fatalf("expected no decay inside fresh window, got %v", res.TimeDecay)
	}
	if res.SourceAuthority != 1.5 {
		t.Fatalf("expected coindesk authority 1.5, got %v", res.SourceAuthority)
	}
	if res.EngagementMultiplier != 1.2 {
		t.Fatalf("expected coindesk outlet multiplier 1.2, got %v", res.EngagementMultiplier)
	}
	// 50 * 1.0 * 1.5 * 1.2
	if res.FinalScore != 90.0 {
		t.Fatalf("expected final score 90.0, got %v", res.FinalScore)
	}
}

func TestScoreInfluenceDecaysPastFreshWindow(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	res := ScoreInfluence(InfluenceInput{
		ContentType: ContentTypeNews,
		Source:      "CoinDesk",
		PublishedAt: now.Add(-24 * time.Hour),
	}, now)

	// exp(-24/24) rounded to three decimals
	if res.TimeDecay != 0.368 {
		t.Fatalf("expected decay 0.368 at one half-life, got %v", res.TimeDecay)
	}
	if res.FinalScore != 33.1 {
		t.Fatalf("expected final score 33.1, got %v", res.FinalScore)
	}
	if res.IsFresh || res.IsExpired {
		t.Fatalf("expected item between windows, fresh=%v expired=%v", res.IsFresh, res.IsExpired)
	}
}

func TestScoreInfluenceDecayIsMonotonic(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	prev := 2.0
	for hours := 1; hours <= 48; hours++ {
		res := ScoreInfluence(InfluenceInput{
			ContentType: ContentTypeNews,
			Source:      "Reuters",
			PublishedAt: now.Add(-time.Duration(hours) * time.Hour),
		}, now)
		if res.TimeDecay > prev {
			t.Fatalf("decay increased at %dh: %v > %v", hours, res.TimeDecay, prev)
		}
		prev = res.TimeDecay
	}
}

func TestScoreInfluenceExpiredItemFloorsDecay(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	res := ScoreInfluence(InfluenceInput{
		ContentType: ContentTypeKOL,
		Source:      "@someone",
		PublishedAt: now.Add(-30 * time.Hour),
	}, now)

	if !res.IsExpired {
		t.Fatalf("expected kol item past 24h to be expired")
	}
	if res.TimeDecay != decayFloor {
		t.Fatalf("expected floor decay %v, got %v", decayFloor, res.TimeDecay)
	}
}

func TestScoreInfluenceZeroTimestampTreatedAsStale(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	res := ScoreInfluence(InfluenceInput{ContentType: ContentTypeNews, Source: "CoinDesk"}, now)

	if !res.IsExpired {
		t.Fatalf("expected zero timestamp to read as expired")
	}
	if res.TimeDecay != decayFloor {
		t.Fatalf("expected floor decay for zero timestamp, got %v", res.TimeDecay)
	}
}

func TestSourceAuthorityResolution(t *testing.T) {
	cases := []struct {
		name   string
		source string
		url    string
		want   float64
	}{
		{"gov url beats outlet name", "Bloomberg", "https://www.sec.gov/news/press", 1.9},
		{"named gov domain in source", "sec.gov press office", "", 2.0},
		{"generic gov source", "nydfs.gov", "", 1.9},
		{"outlet url", "", "https://www.reuters.com/markets", 1.8},
		{"kol handle", "@VitalikButerin", "", 1.8},
		{"unknown source", "Random Blog", "https://example.com/post", 1.0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := SourceAuthority(tc.source, tc.url); got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestEngagementMultiplierScalesLogarithmically(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	res := ScoreInfluence(InfluenceInput{
		ContentType: ContentTypeKOL,
		Source:      "@someone",
		PublishedAt: now.Add(-1 * time.Hour),
		Engagement:  &domain.Engagement{Likes: 1000, Retweets: 500, Replies: 100},
	}, now)

	// 1 + log10(1000 + 2*500 + 0.5*100 + 1)/5
	if res.EngagementMultiplier != 1.66 {
		t.Fatalf("expected multiplier 1.66, got %v", res.EngagementMultiplier)
	}

	none := ScoreInfluence(InfluenceInput{
		ContentType: ContentTypeKOL,
		Source:      "@someone",
		PublishedAt: now.Add(-1 * time.Hour),
	}, now)
	if none.EngagementMultiplier != 1.0 {
		t.Fatalf("expected neutral multiplier without engagement, got %v", none.EngagementMultiplier)
	}
}

func TestScoreInfluenceClampsAtHundred(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	res := ScoreInfluence(InfluenceInput{
		ContentType: ContentTypeKOL,
		Source:      "@someone",
		URL:         "https://www.federalreserve.gov/statement",
		PublishedAt: now.Add(-30 * time.Minute),
		Engagement:  &domain.Engagement{Likes: 500000, Retweets: 200000, Replies: 40000},
	}, now)

	if res.FinalScore != 100.0 {
		t.Fatalf("expected score clamped to 100, got %v", res.FinalScore)
	}
}
