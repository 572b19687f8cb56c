package deck

import (
	"math"
	"strings"
	"time"

	"github.com/Driftedboat/Bubbly-Insider/internal/domain"
)

const (
	ContentTypePrice  = "price"
	ContentTypeKOL    = "kol"
	ContentTypeNews   = "news"
	ContentTypePolicy = "policy"
	ContentTypeMacro  = "macro"
)

const (
	defaultBaseScore = 50.0
	decayFloor       = 0.1
)

// ContentTypeConfig holds the freshness windows and decay half-life for one
// content type, all in hours.
type ContentTypeConfig struct {
	FreshWindowHours    float64
	ExtendedWindowHours float64
	DecayHalfLifeHours  float64
}

var contentTypeConfigs = map[string]ContentTypeConfig{
	ContentTypePrice:  {FreshWindowHours: 1, ExtendedWindowHours: 24, DecayHalfLifeHours: 1},
	ContentTypeKOL:    {FreshWindowHours: 6, ExtendedWindowHours: 24, DecayHalfLifeHours: 12},
	ContentTypeNews:   {FreshWindowHours: 12, ExtendedWindowHours: 48, DecayHalfLifeHours: 24},
	ContentTypePolicy: {FreshWindowHours: 24, ExtendedWindowHours: 720, DecayHalfLifeHours: 336},
	ContentTypeMacro:  {FreshWindowHours: 24, ExtendedWindowHours: 336, DecayHalfLifeHours: 168},
}

// ConfigForContentType returns the decay configuration for a content type,
// defaulting to news for unknown types.
func ConfigForContentType(contentType string) ContentTypeConfig {
	if cfg, ok := contentTypeConfigs[contentType]; ok {
		return cfg
	}
	return contentTypeConfigs[ContentTypeNews]
}

// sourceAuthority maps source names or URL fragments to authority weights in
// [1.0, 2.0]. Government domains rank highest, then the major wires, then the
// crypto trade press and high-influence accounts.
var sourceAuthority = []struct {
	Key    string
	Weight float64
}{
	{"sec.gov", 2.0},
	{"treasury.gov", 2.0},
	{"federalreserve.gov", 2.0},
	{"whitehouse.gov", 2.0},
	{".gov", govAuthority},
	{"bloomberg", 1.8},
	{"reuters", 1.8},
	{"@vitalikbuterin", 1.8},
	{"wsj", 1.7},
	{"financial times", 1.7},
	{"@zachxbt", 1.7},
	{"@cryptohayes", 1.6},
	{"coindesk", 1.5},
	{"the block", 1.5},
	{"theblock", 1.5},
	{"@punk6529", 1.5},
	{"@gcrclassic", 1.5},
	{"@cburniske", 1.5},
	{"decrypt", 1.4},
	{"@defiignas", 1.4},
	{"@macroalf", 1.4},
	{"cointelegraph", 1.3},
}

const (
	govAuthority     = 1.9
	defaultAuthority = 1.0
)

type InfluenceInput struct {
	ContentType string
	Source      string
	URL         string
	PublishedAt time.Time
	Engagement  *domain.Engagement
	BaseScore   float64
}

type InfluenceResult struct {
	FinalScore           float64 `json:"final_score"`
	TimeDecay            float64 `json:"time_decay"`
	SourceAuthority      float64 `json:"source_authority"`
	EngagementMultiplier float64 `json:"engagement_multiplier"`
	ContentType          string  `json:"content_type"`
	IsFresh              bool    `json:"is_fresh"`
	IsExpired            bool    `json:"is_expired"`
}

// ScoreInfluence computes the 0-100 influence score from source authority,
// time decay, and engagement. Pure and side-effect free: the caller supplies
// now so one generation run scores against a single clock reading.
func ScoreInfluence(in InfluenceInput, now time.Time) InfluenceResult {
	baseScore := in.BaseScore
	if baseScore <= 0 {
		baseScore = defaultBaseScore
	}

	cfg := ConfigForContentType(in.ContentType)
	hoursAgo := hoursSince(in.PublishedAt, now)
	decay := timeDecay(hoursAgo, cfg)
	authority := SourceAuthority(in.Source, in.URL)

	var engagement float64
	if in.ContentType == ContentTypeKOL {
		engagement = engagementMultiplier(in.Engagement)
	} else {
		engagement = newsEngagementMultiplier(in.Source)
	}

	final := clamp(baseScore*decay*authority*engagement, 0, 100)

	return InfluenceResult{
		FinalScore:           math.Round(final*10) / 10,
		TimeDecay:            math.Round(decay*1000) / 1000,
		SourceAuthority:      authority,
		EngagementMultiplier: math.Round(engagement*100) / 100,
		ContentType:          in.ContentType,
		IsFresh:              hoursAgo <= cfg.FreshWindowHours,
		IsExpired:            hoursAgo > cfg.ExtendedWindowHours,
	}
}

// SourceAuthority resolves the authority multiplier for a source name and
// optional URL. A .gov URL wins over any name match.
func SourceAuthority(source, url string) float64 {
	if url != "" {
		lowerURL := strings.ToLower(url)
		if strings.Contains(lowerURL, ".gov") {
			return govAuthority
		}
		for _, entry := range sourceAuthority {
			if strings.Contains(lowerURL, entry.Key) {
				return entry.Weight
			}
		}
	}
	lowerSource := strings.ToLower(source)
	for _, entry := range sourceAuthority {
		if strings.Contains(lowerSource, entry.Key) {
			return entry.Weight
		}
	}
	return defaultAuthority
}

// timeDecay is 1.0 inside the fresh window, exponential between the windows,
// and floored at 0.1 so stale content keeps residual relevance.
func timeDecay(hoursAgo float64, cfg ContentTypeConfig) float64 {
	if hoursAgo <= cfg.FreshWindowHours {
		return 1.0
	}
	if hoursAgo > cfg.ExtendedWindowHours {
		return decayFloor
	}
	decay := math.Exp(-hoursAgo / cfg.DecayHalfLifeHours)
	return math.Max(decayFloor, decay)
}

// engagementMultiplier transforms a weighted engagement sum logarithmically
// into [1.0, 3.0]. Roughly 1.6 at 1k engagement, 2.0 at 10k, 2.4 at 100k.
func engagementMultiplier(e *domain.Engagement) float64 {
	if e == nil {
		return 1.0
	}
	score := float64(e.Likes) + 2*float64(e.Retweets) + 0.5*float64(e.Replies)
	if score <= 0 {
		return 1.0
	}
	return clamp(1+math.Log10(score+1)/5, 1.0, 3.0)
}

// newsEngagementMultiplier substitutes outlet reputation where raw engagement
// numbers do not exist.
func newsEngagementMultiplier(source string) float64 {
	lower := strings.ToLower(source)
	switch {
	case strings.Contains(lower, "bloomberg"), strings.Contains(lower, "reuters"):
		return 1.5
	case strings.Contains(lower, "coindesk"), strings.Contains(lower, "block"):
		return 1.2
	default:
		return 1.0
	}
}

// hoursSince treats zero or future-garbage timestamps as very old so malformed
// input decays toward the floor instead of erroring.
func hoursSince(publishedAt, now time.Time) float64 {
	if publishedAt.IsZero() {
		return math.MaxFloat64 / 2
	}
	return now.Sub(publishedAt).Hours()
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
