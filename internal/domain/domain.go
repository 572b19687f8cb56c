package domain

import "time"

type CardType string

const (
	CardTypeNews  CardType = "news"
	CardTypeKOL   CardType = "kol"
	CardTypePrice CardType = "price"
)

type BullBear string

const (
	Bull BullBear = "bull"
	Bear BullBear = "bear"
)

type CategoryTag string

const (
	CategoryPolicy   CategoryTag = "Policy"
	CategoryMacro    CategoryTag = "Macro"
	CategoryMarket   CategoryTag = "Market"
	CategoryTech     CategoryTag = "Tech"
	CategorySecurity CategoryTag = "Security"
	CategoryFunding  CategoryTag = "Funding"
	CategoryAdoption CategoryTag = "Adoption"
)

// ScoreBreakdown is the additive confidence rubric shown on the card detail
// view. Both the rubric scorer and the influence pipeline emit this shape.
type ScoreBreakdown struct {
	SourceStrength  int `json:"source_strength"`
	Confirmation    int `json:"confirmation"`
	Specificity     int `json:"specificity"`
	Freshness       int `json:"freshness"`
	ConflictPenalty int `json:"conflict_penalty"`
	Total           int `json:"total"`
}

type RelatedItem struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Source    string    `json:"source"`
	URL       string    `json:"url"`
	Timestamp time.Time `json:"timestamp"`
}

type Card struct {
	ID             string         `json:"id"`
	CardType       CardType       `json:"card_type"`
	BullBear       BullBear       `json:"bull_bear"`
	Confidence     int            `json:"confidence"`
	Headline       string         `json:"headline"`
	SourceBadge    string         `json:"source_badge"`
	CategoryTags   []CategoryTag  `json:"category_tags"`
	Brief          string         `json:"brief"`
	Insight        string         `json:"insight"`
	PrimaryLinks   []string       `json:"primary_links"`
	SecondaryLinks []string       `json:"secondary_links"`
	OriginalItem   *RelatedItem   `json:"original_item,omitempty"`
	RelatedItems   []RelatedItem  `json:"related_items"`
	ScoreBreakdown ScoreBreakdown `json:"score_breakdown"`
	CreatedAt      time.Time      `json:"created_at"`
}

// Deck is one full generation pass. A new generation replaces the previous
// deck wholesale, there is no merge.
type Deck struct {
	ID        string    `json:"id"`
	Cards     []Card    `json:"cards"`
	CreatedAt time.Time `json:"created_at"`
	DeckDate  string    `json:"deck_date"`
}

type Engagement struct {
	Likes    int `json:"likes"`
	Retweets int `json:"retweets"`
	Replies  int `json:"replies"`
	Views    int `json:"views,omitempty"`
}

func (e Engagement) Total() int {
	return e.Likes + e.Retweets + e.Replies
}

// CandidateItem is a normalized unit of scraped content before scoring.
// Candidates are never mutated, scoring enriches them into new values.
type CandidateItem struct {
	ID          string      `json:"id"`
	Type        CardType    `json:"type"`
	Source      string      `json:"source"`
	URL         string      `json:"url"`
	Title       string      `json:"title"`
	Content     string      `json:"content"`
	PublishedAt time.Time   `json:"published_at"`
	Engagement  *Engagement `json:"engagement,omitempty"`
}

// DeckRunResult carries counters and non-fatal warnings from one generation.
type DeckRunResult struct {
	CandidatesCollected int      `json:"candidates_collected"`
	CandidatesScored    int      `json:"candidates_scored"`
	CardsSelected       int      `json:"cards_selected"`
	CandidateSource     string   `json:"candidate_source"`
	PulseSource         string   `json:"pulse_source"`
	Errors              []string `json:"errors,omitempty"`
}

// ScrapeRunResult summarizes one ingestion cycle.
type ScrapeRunResult struct {
	NewsCollected  int      `json:"news_collected"`
	PostsCollected int      `json:"posts_collected"`
	ItemsStored    int      `json:"items_stored"`
	ItemsPruned    int64    `json:"items_pruned"`
	Errors         []string `json:"errors,omitempty"`
}
