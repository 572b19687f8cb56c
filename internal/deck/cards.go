package deck

import (
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Driftedboat/Bubbly-Insider/internal/domain"

	"github.com/google/uuid"
)

// ScoredItem is a candidate enriched with classification and scores. Built
// once during the scoring pass and read-only afterwards.
type ScoredItem struct {
	domain.CandidateItem
	Policy     PolicyClassification
	Influence  InfluenceResult
	Sentiment  SentimentResult
	FinalScore float64
}

// ScoreItem runs the full per-item pipeline: policy classification, window
// check, influence, sentiment, and the combined final score. Returns nil for
// items outside their relevance window.
func ScoreItem(item domain.CandidateItem, btcChange24h float64, now time.Time) *ScoredItem {
	text := item.Title + " " + item.Content

	policy := ClassifyPolicy(text, item.Source)
	contentType := ContentTypeForPolicy(policy, item.Type)

	if policy.IsPolicy {
		if !PolicyStillRelevant(policy, item.PublishedAt, now) {
			return nil
		}
	} else {
		cfg := ConfigForContentType(string(item.Type))
		if hoursSince(item.PublishedAt, now) > cfg.ExtendedWindowHours {
			return nil
		}
	}

	influence := ScoreInfluence(InfluenceInput{
		ContentType: contentType,
		Source:      item.Source,
		URL:         item.URL,
		PublishedAt: item.PublishedAt,
		Engagement:  item.Engagement,
	}, now)

	sentiment := AnalyzeSentiment(SentimentInput{
		Text:         text,
		Source:       item.Source,
		IsPolicy:     policy.IsPolicy,
		BTCChange24h: &btcChange24h,
		Engagement:   item.Engagement,
	})

	// Polarizing content travels further: sentiment magnitude boosts the
	// score regardless of direction.
	boost := 1 + math.Abs(sentiment.Score)*0.5

	return &ScoredItem{
		CandidateItem: item,
		Policy:        policy,
		Influence:     influence,
		Sentiment:     sentiment,
		FinalScore:    influence.FinalScore * boost,
	}
}

// CardContent is the generated text for a card. Produced by the briefer or
// its deterministic fallback.
type CardContent struct {
	Brief    string
	Insight  string
	BullBear domain.BullBear
}

func itemToCard(item *ScoredItem, content *CardContent, now time.Time) domain.Card {
	category := detectCategory(item.Content)
	if item.Policy.IsPolicy {
		category = domain.CategoryPolicy
		if item.Policy.Type == PolicyMacro {
			category = domain.CategoryMacro
		}
	}

	cardType := domain.CardTypeNews
	if item.Type == domain.CardTypeKOL {
		cardType = domain.CardTypeKOL
	}

	brief := truncate(item.Content, 300)
	insight := buildInsight(item, category)
	if content != nil {
		if content.Brief != "" {
			brief = content.Brief
		}
		if content.Insight != "" {
			insight = content.Insight
		}
	}

	var primaryLinks []string
	if strings.Contains(item.URL, ".gov") {
		primaryLinks = []string{item.URL}
	}

	return domain.Card{
		ID:             uuid.NewString(),
		CardType:       cardType,
		BullBear:       item.Sentiment.Classification,
		Confidence:     int(math.Round(item.Influence.FinalScore)),
		Headline:       truncate(item.Title, 120),
		SourceBadge:    sourceBadge(item.Source),
		CategoryTags:   []domain.CategoryTag{category},
		Brief:          brief,
		Insight:        insight,
		PrimaryLinks:   primaryLinks,
		SecondaryLinks: []string{item.URL},
		OriginalItem: &domain.RelatedItem{
			ID:        item.ID,
			Title:     item.Title,
			Source:    item.Source,
			URL:       item.URL,
			Timestamp: item.PublishedAt,
		},
		RelatedItems:   []domain.RelatedItem{},
		ScoreBreakdown: breakdownFromScores(item),
		CreatedAt:      now,
	}
}

// breakdownFromScores projects the influence pipeline onto the rubric shape
// the detail view renders.
func breakdownFromScores(item *ScoredItem) domain.ScoreBreakdown {
	confirmation := 10
	if item.Policy.IsPolicy {
		confirmation = 15
	}
	specificity := 5
	if strings.ContainsAny(item.Content, "0123456789") {
		specificity = 12
	}
	freshness := int(math.Round(item.Influence.TimeDecay * 15))
	if item.Influence.IsFresh {
		freshness = 15
	}
	return domain.ScoreBreakdown{
		SourceStrength:  int(math.Round(item.Influence.SourceAuthority * 20)),
		Confirmation:    confirmation,
		Specificity:     specificity,
		Freshness:       freshness,
		ConflictPenalty: 0,
		Total:           int(math.Round(item.Influence.FinalScore)),
	}
}

func buildInsight(item *ScoredItem, category domain.CategoryTag) string {
	direction := "Negative"
	if item.Sentiment.Classification == domain.Bull {
		direction = "Positive"
	}
	conviction := "moderate"
	if item.Sentiment.Confidence > 60 {
		conviction = "strong"
	}

	if item.Policy.IsPolicy {
		jurisdiction := ""
		if item.Policy.Jurisdiction != JurisdictionOther {
			jurisdiction = " in " + string(item.Policy.Jurisdiction)
		}
		return fmt.Sprintf("%s regulatory signal%s with %s conviction. Impact window: %d days.",
			direction, jurisdiction, conviction, item.Policy.EffectiveWindowDays)
	}

	switch category {
	case domain.CategoryMacro:
		env := "risk-off"
		if item.Sentiment.Classification == domain.Bull {
			env = "risk-on"
		}
		return fmt.Sprintf("%s macro signal suggesting %s environment.", direction, env)
	case domain.CategorySecurity:
		if item.Sentiment.Classification == domain.Bull {
			return "Security-related positive resolution requiring attention."
		}
		return "Security-related concern requiring attention."
	case domain.CategoryFunding:
		interest := "cautious"
		if item.Sentiment.Classification == domain.Bull {
			interest = "growing"
		}
		return fmt.Sprintf("%s capital flow signal indicating %s institutional interest.", direction, interest)
	case domain.CategoryAdoption:
		return fmt.Sprintf("%s adoption signal with %s mainstream impact potential.", direction, conviction)
	case domain.CategoryTech:
		return fmt.Sprintf("%s technical development with %s ecosystem impact.", direction, conviction)
	case domain.CategoryPolicy:
		return fmt.Sprintf("%s policy development with %s market implications.", direction, conviction)
	default:
		flow := "news flow"
		if item.Type == domain.CardTypeKOL {
			flow = "community sentiment"
		}
		return fmt.Sprintf("%s market signal with %s conviction based on %s.", direction, conviction, flow)
	}
}

func detectCategory(text string) domain.CategoryTag {
	lower := strings.ToLower(text)
	switch {
	case containsAny(lower, "sec", "regulation", "law", "legal", "policy", "congress", "senate", "bill"):
		return domain.CategoryPolicy
	case containsAny(lower, "fed", "rate", "inflation", "macro", "treasury", "gdp", "employment"):
		return domain.CategoryMacro
	case containsAny(lower, "hack", "exploit", "vulnerability", "scam", "fraud", "attack"):
		return domain.CategorySecurity
	case containsAny(lower, "funding", "raise", "venture", "investment", "series"):
		return domain.CategoryFunding
	case containsAny(lower, "adoption", "partnership", "launch", "integrate", "accept"):
		return domain.CategoryAdoption
	case containsAny(lower, "upgrade", "protocol", "layer", "scaling", "eip", "fork"):
		return domain.CategoryTech
	default:
		return domain.CategoryMarket
	}
}

func sourceBadge(source string) string {
	lower := strings.ToLower(source)
	switch {
	case strings.HasPrefix(source, "@"):
		return "X"
	case strings.Contains(lower, "bloomberg"):
		return "Bloomberg"
	case strings.Contains(lower, "coindesk"):
		return "CoinDesk"
	case strings.Contains(lower, "decrypt"):
		return "Decrypt"
	case strings.Contains(lower, "block"):
		return "TheBlock"
	default:
		return "CoinDesk"
	}
}

// PriceCard synthesizes the always-present lead card from the market pulse.
func PriceCard(pulse domain.MarketPulse, now time.Time) domain.Card {
	isBull := pulse.BTCChange24h >= 0
	direction := "down"
	sentiment := domain.Bear
	if isBull {
		direction = "up"
		sentiment = domain.Bull
	}

	brief := fmt.Sprintf("Bitcoin is trading at $%.0f with a move of %+.2f%% over the past 24 hours.",
		pulse.BTCPrice, pulse.BTCChange24h)
	if pulse.ETHPrice > 0 {
		brief += fmt.Sprintf(" ETH at $%.0f (%+.2f%%).", pulse.ETHPrice, pulse.ETHChange24h)
	}

	insight := "Price weakness suggests caution. Monitor support levels for potential reversal."
	if isBull {
		insight = "Price momentum remains positive. Watch for continuation above key resistance levels."
	}

	return domain.Card{
		ID:             uuid.NewString(),
		CardType:       domain.CardTypePrice,
		BullBear:       sentiment,
		Confidence:     95,
		Headline:       fmt.Sprintf("BTC %s %.1f%% at $%.0f", direction, math.Abs(pulse.BTCChange24h), pulse.BTCPrice),
		SourceBadge:    "Price",
		CategoryTags:   []domain.CategoryTag{domain.CategoryMarket},
		Brief:          brief,
		Insight:        insight,
		PrimaryLinks:   []string{"https://www.coingecko.com/en/coins/bitcoin"},
		SecondaryLinks: []string{"https://coinmarketcap.com/currencies/bitcoin/"},
		OriginalItem: &domain.RelatedItem{
			ID:        "price-btc",
			Title:     "Bitcoin Price",
			Source:    "CoinGecko",
			URL:       "https://www.coingecko.com/en/coins/bitcoin",
			Timestamp: pulse.Timestamp,
		},
		RelatedItems: []domain.RelatedItem{},
		ScoreBreakdown: domain.ScoreBreakdown{
			SourceStrength:  40,
			Confirmation:    20,
			Specificity:     15,
			Freshness:       15,
			ConflictPenalty: 0,
			Total:           95,
		},
		CreatedAt: now,
	}
}

// DeckSentimentStats summarizes a deck's bull/bear composition. Balanced
// means neither side exceeds 80%.
type DeckSentimentStats struct {
	BullCount      int
	BearCount      int
	BullPercentage int
	BearPercentage int
	IsBalanced     bool
}

func AnalyzeDeckSentiment(cards []domain.Card) DeckSentimentStats {
	stats := DeckSentimentStats{IsBalanced: true}
	if len(cards) == 0 {
		return stats
	}
	for _, card := range cards {
		if card.BullBear == domain.Bull {
			stats.BullCount++
		} else {
			stats.BearCount++
		}
	}
	total := len(cards)
	stats.BullPercentage = int(math.Round(float64(stats.BullCount) / float64(total) * 100))
	stats.BearPercentage = int(math.Round(float64(stats.BearCount) / float64(total) * 100))
	stats.IsBalanced = stats.BullPercentage <= 80 && stats.BearPercentage <= 80
	return stats
}

// truncate cuts s to at most max bytes without splitting a rune.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

func containsAny(text string, tokens ...string) bool {
	for _, token := range tokens {
		if strings.Contains(text, token) {
			return true
		}
	}
	return false
}
