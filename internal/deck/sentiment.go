package deck

import (
	"math"
	"strings"

	"github.com/Driftedboat/Bubbly-Insider/internal/domain"
)

// Keyword dictionaries weighted 1.0-2.0 by conviction strength.
var bullKeywords = map[string]float64{
	"approval": 2, "approved": 2, "breakthrough": 2, "bullish": 2,
	"rally": 2, "surge": 2, "soar": 2, "milestone": 2, "record": 2,
	"adoption": 2, "institutional": 2,

	"partnership": 1.5, "expansion": 1.5, "growth": 1.5, "launch": 1.5,
	"integrate": 1.5, "accept": 1.5, "upgrade": 1.5, "clarity": 1.5,
	"positive": 1.5, "gain": 1.5, "rise": 1.5, "increase": 1.5,

	"accumulation": 1, "support": 1, "recover": 1, "rebound": 1,
	"optimistic": 1, "confident": 1, "momentum": 1, "breakout": 1,
	"opportunity": 1, "potential": 1, "promising": 1,
}

var bearKeywords = map[string]float64{
	"hack": 2, "exploit": 2, "scam": 2, "fraud": 2, "crash": 2,
	"investigation": 2, "lawsuit": 2, "ban": 2, "crackdown": 2,
	"bearish": 2, "collapse": 2, "bankruptcy": 2,

	"warning": 1.5, "risk": 1.5, "concern": 1.5, "decline": 1.5,
	"drop": 1.5, "fall": 1.5, "plunge": 1.5, "dump": 1.5,
	"restriction": 1.5, "regulation": 1.5, "scrutiny": 1.5,
	"probe": 1.5, "subpoena": 1.5,

	"uncertainty": 1, "volatile": 1, "caution": 1, "weak": 1,
	"resistance": 1, "pressure": 1, "outflow": 1, "liquidation": 1,
	"delay": 1, "reject": 1, "denied": 1,
}

// Procedural language that moderates strong claims.
var neutralKeywords = []string{
	"decision", "proposal", "review", "consider", "evaluate",
	"announce", "report", "update", "statement", "comment",
	"meeting", "hearing", "testimony", "filing", "document",
}

var neutralToneSources = []string{".gov", "bloomberg", "coindesk", "reuters", "block"}

type SentimentInput struct {
	Text         string
	Source       string
	IsPolicy     bool
	BTCChange24h *float64
	Engagement   *domain.Engagement
}

type SentimentSignals struct {
	Keyword      float64 `json:"keyword"`
	PriceContext float64 `json:"price_context"`
	SourceTone   float64 `json:"source_tone"`
	Engagement   float64 `json:"engagement"`
}

type SentimentResult struct {
	Score          float64          `json:"score"`
	Classification domain.BullBear  `json:"classification"`
	Confidence     int              `json:"confidence"`
	Signals        SentimentSignals `json:"signals"`
}

// AnalyzeSentiment combines keyword, price-context, source-tone, and
// engagement signals into one directional score in [-1, 1] with a bull/bear
// classification and a 0-100 confidence.
func AnalyzeSentiment(in SentimentInput) SentimentResult {
	keyword := keywordSentiment(in.Text)

	var priceContext float64
	if in.BTCChange24h != nil {
		priceContext = priceContextSentiment(*in.BTCChange24h, keyword)
	}

	sourceTone := sourceToneSentiment(in.Source, in.IsPolicy)

	var engagement float64
	if in.Engagement != nil {
		engagement = engagementSentiment(*in.Engagement, keyword)
	}

	// Without engagement data its weight is redistributed onto the rest.
	weights := SentimentSignals{Keyword: 0.35, PriceContext: 0.20, SourceTone: 0.15, Engagement: 0.30}
	if in.Engagement == nil {
		weights = SentimentSignals{Keyword: 0.50, PriceContext: 0.30, SourceTone: 0.20, Engagement: 0}
	}

	score := clamp(
		keyword*weights.Keyword+
			priceContext*weights.PriceContext+
			sourceTone*weights.SourceTone+
			engagement*weights.Engagement,
		-1, 1)

	classification := classifySentiment(score, keyword)

	// Conflicting non-zero signals cut confidence even when the weighted
	// average looks decisive.
	agreement := 0.8
	if signalsAgree(score, keyword, priceContext, engagement) {
		agreement = 1.2
	}
	confidence := int(math.Min(100, math.Round(math.Abs(score)*100*agreement)))

	return SentimentResult{
		Score:          math.Round(score*1000) / 1000,
		Classification: classification,
		Confidence:     confidence,
		Signals: SentimentSignals{
			Keyword:      math.Round(keyword*1000) / 1000,
			PriceContext: math.Round(priceContext*1000) / 1000,
			SourceTone:   math.Round(sourceTone*1000) / 1000,
			Engagement:   math.Round(engagement*1000) / 1000,
		},
	}
}

// keywordSentiment scores text against the weighted bull/bear dictionaries:
// (bull - bear) / (bull + bear + 1), damped when procedural language
// dominates.
func keywordSentiment(text string) float64 {
	lower := strings.ToLower(text)
	if strings.TrimSpace(lower) == "" {
		return 0
	}

	var bullScore, bearScore float64
	for keyword, weight := range bullKeywords {
		if strings.Contains(lower, keyword) {
			bullScore += weight
		}
	}
	for keyword, weight := range bearKeywords {
		if strings.Contains(lower, keyword) {
			bearScore += weight
		}
	}
	if bullScore+bearScore == 0 {
		return 0
	}

	sentiment := (bullScore - bearScore) / (bullScore + bearScore + 1)

	neutralCount := 0
	for _, keyword := range neutralKeywords {
		if strings.Contains(lower, keyword) {
			neutralCount++
		}
	}
	if neutralCount > 2 {
		sentiment *= 0.7
	}

	return clamp(sentiment, -1, 1)
}

// priceContextSentiment buckets the 24h BTC change and scales it by whether
// it reinforces (0.8) or diverges from (0.5) the content's own sentiment.
func priceContextSentiment(btcChange24h, contentSentiment float64) float64 {
	var market float64
	switch {
	case btcChange24h > 2:
		market = 0.5
	case btcChange24h > 0:
		market = 0.2
	case btcChange24h > -2:
		market = -0.2
	default:
		market = -0.5
	}

	if sign(market) == sign(contentSentiment) {
		return market * 0.8
	}
	return market * 0.5
}

// sourceToneSentiment forces institutionally neutral framing to zero.
// Everything else falls through to the keyword signal.
func sourceToneSentiment(source string, isPolicy bool) float64 {
	if isPolicy {
		return 0
	}
	lower := strings.ToLower(source)
	for _, marker := range neutralToneSources {
		if strings.Contains(lower, marker) {
			return 0
		}
	}
	return 0
}

// engagementSentiment reads controversy (high reply ratio) and spread (high
// retweet ratio) off the engagement shape, aligned to the keyword direction.
// Below 100 total interactions there is not enough signal.
func engagementSentiment(e domain.Engagement, keywordSignal float64) float64 {
	total := e.Total()
	if total < 100 {
		return 0
	}

	replyRatio := float64(e.Replies) / float64(total+1)
	retweetRatio := float64(e.Retweets) / float64(total+1)

	var controversy, spread float64
	if replyRatio > 0.3 {
		controversy = -0.2
	}
	if retweetRatio > 0.3 {
		spread = 0.2
	}

	direction := sign(keywordSignal)
	if direction == 0 {
		direction = 1
	}
	return clamp((spread+controversy)*direction, -0.5, 0.5)
}

func classifySentiment(score, keywordSignal float64) domain.BullBear {
	switch {
	case score > 0.15:
		return domain.Bull
	case score < -0.15:
		return domain.Bear
	case keywordSignal >= 0:
		return domain.Bull
	default:
		return domain.Bear
	}
}

func signalsAgree(score float64, signals ...float64) bool {
	for _, s := range signals {
		if s == 0 {
			continue
		}
		if sign(s) != sign(score) {
			return false
		}
	}
	return true
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
