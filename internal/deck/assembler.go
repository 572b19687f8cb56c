package deck

import (
	"sort"
	"strings"
	"time"

	"github.com/Driftedboat/Bubbly-Insider/internal/domain"
)

const TargetDeckSize = 10

// Quotas per card category. KOL has no hard cap beyond the deck ceiling.
const (
	maxHighImpactPolicyCards   = 2
	maxNewsCards               = 4
	maxMediumImpactPolicyCards = 1
	mediumPolicyBackfillFloor  = 5
)

// ContentFunc resolves generated text for a scored item. May be nil, in which
// case cards fall back to template content.
type ContentFunc func(item *ScoredItem) *CardContent

// Assemble transforms scored candidates into an ordered deck of at most ten
// cards: one price card, then policy, news, and KOL selections by quota, a
// quota-free backfill on starvation, and a final sentiment-balance pass.
// Zero candidates produce a valid price-only deck.
func Assemble(candidates []*ScoredItem, pulse domain.MarketPulse, content ContentFunc, now time.Time) []domain.Card {
	cards := []domain.Card{PriceCard(pulse, now)}
	used := newURLSet()

	policyPool := filterSorted(candidates, func(c *ScoredItem) bool { return c.Policy.IsPolicy })
	newsPool := filterSorted(candidates, func(c *ScoredItem) bool {
		return c.Type == domain.CardTypeNews && !c.Policy.IsPolicy
	})
	kolPool := filterSorted(candidates, func(c *ScoredItem) bool { return c.Type == domain.CardTypeKOL })

	makeCard := func(item *ScoredItem) domain.Card {
		var generated *CardContent
		if content != nil {
			generated = content(item)
		}
		return itemToCard(item, generated, now)
	}

	addCard := func(item *ScoredItem) bool {
		if !used.add(item.URL) {
			return false
		}
		cards = append(cards, makeCard(item))
		return true
	}

	// High-impact policy leads, capped so it cannot crowd out the rest.
	added := 0
	for _, item := range policyPool {
		if added >= maxHighImpactPolicyCards || len(cards) >= TargetDeckSize {
			break
		}
		if item.Policy.ImpactLevel != ImpactHigh {
			continue
		}
		if addCard(item) {
			added++
		}
	}

	added = 0
	for _, item := range newsPool {
		if added >= maxNewsCards || len(cards) >= TargetDeckSize {
			break
		}
		if addCard(item) {
			added++
		}
	}

	if len(cards) < mediumPolicyBackfillFloor {
		added = 0
		for _, item := range policyPool {
			if added >= maxMediumImpactPolicyCards || len(cards) >= TargetDeckSize {
				break
			}
			if item.Policy.ImpactLevel != ImpactMedium {
				continue
			}
			if addCard(item) {
				added++
			}
		}
	}

	for _, item := range kolPool {
		if len(cards) >= TargetDeckSize {
			break
		}
		addCard(item)
	}

	// Starvation fallback: relax all quotas and fill purely by score.
	if len(cards) < TargetDeckSize {
		remaining := make([]*ScoredItem, 0, len(candidates))
		for _, item := range candidates {
			if !used.has(item.URL) {
				remaining = append(remaining, item)
			}
		}
		sortByScore(remaining)
		for _, item := range remaining {
			if len(cards) >= TargetDeckSize {
				break
			}
			addCard(item)
		}
	}

	if len(cards) >= 3 {
		cards = rebalanceSentiment(cards, candidates, used, makeCard)
	}

	if len(cards) > TargetDeckSize {
		cards = cards[:TargetDeckSize]
	}
	return cards
}

// rebalanceSentiment injects or swaps in the best opposing card when one side
// exceeds 80% of the deck. A full deck only gives up its lowest-confidence
// non-price card, and only to an opposing candidate whose score beats it.
func rebalanceSentiment(cards []domain.Card, candidates []*ScoredItem, used *urlSet, makeCard func(*ScoredItem) domain.Card) []domain.Card {
	stats := AnalyzeDeckSentiment(cards)
	if stats.IsBalanced {
		return cards
	}

	opposing := domain.Bull
	if stats.BullPercentage > 80 {
		opposing = domain.Bear
	}

	var best *ScoredItem
	for _, item := range candidates {
		if item.Sentiment.Classification != opposing || used.has(item.URL) {
			continue
		}
		if best == nil || item.FinalScore > best.FinalScore {
			best = item
		}
	}
	if best == nil {
		return cards
	}

	if len(cards) < TargetDeckSize {
		if used.add(best.URL) {
			cards = append(cards, makeCard(best))
		}
		return cards
	}

	lowestIdx := -1
	lowestConfidence := int(^uint(0) >> 1)
	for i := 1; i < len(cards); i++ {
		if cards[i].Confidence < lowestConfidence {
			lowestConfidence = cards[i].Confidence
			lowestIdx = i
		}
	}
	if lowestIdx > 0 && best.FinalScore > float64(lowestConfidence) {
		used.add(best.URL)
		cards[lowestIdx] = makeCard(best)
	}
	return cards
}

func filterSorted(candidates []*ScoredItem, keep func(*ScoredItem) bool) []*ScoredItem {
	out := make([]*ScoredItem, 0, len(candidates))
	for _, item := range candidates {
		if keep(item) {
			out = append(out, item)
		}
	}
	sortByScore(out)
	return out
}

func sortByScore(items []*ScoredItem) {
	sort.SliceStable(items, func(i, j int) bool { return items[i].FinalScore > items[j].FinalScore })
}

// urlSet deduplicates cards by normalized URL. Candidate volume is bounded in
// the hundreds, a plain hash set is all this needs.
type urlSet struct {
	seen map[string]struct{}
}

func newURLSet() *urlSet {
	return &urlSet{seen: make(map[string]struct{})}
}

func (s *urlSet) add(url string) bool {
	key := normalizeURL(url)
	if _, ok := s.seen[key]; ok {
		return false
	}
	s.seen[key] = struct{}{}
	return true
}

func (s *urlSet) has(url string) bool {
	_, ok := s.seen[normalizeURL(url)]
	return ok
}

func normalizeURL(url string) string {
	url = strings.TrimSpace(strings.ToLower(url))
	url = strings.TrimPrefix(url, "https://")
	url = strings.TrimPrefix(url, "http://")
	url = strings.TrimPrefix(url, "www.")
	return strings.TrimRight(url, "/")
}
