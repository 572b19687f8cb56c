package deck

import (
	"time"

	"github.com/Driftedboat/Bubbly-Insider/internal/domain"
)

// MockCandidates returns a fixed set of plausible items so the pipeline can
// produce a full deck when every live source and the store are down. Published
// timestamps are derived from now so freshness decay behaves normally.
func MockCandidates(now time.Time) []domain.CandidateItem {
	e := func(likes, rts, replies int) *domain.Engagement {
		return &domain.Engagement{Likes: likes, Retweets: rts, Replies: replies}
	}
	return []domain.CandidateItem{
		{
			ID: "mock-1", Type: domain.CardTypeNews, Source: "CoinDesk",
			URL:         "https://www.coindesk.com/policy/sec-etf-options",
			Title:       "SEC approves spot Bitcoin ETF options trading",
			Content:     "The Securities and Exchange Commission approved options trading on spot Bitcoin ETFs, a milestone institutional adoption step for the asset class.",
			PublishedAt: now.Add(-3 * time.Hour),
		},
		{
			ID: "mock-2", Type: domain.CardTypeNews, Source: "The Block",
			URL:         "https://www.theblock.co/markets/etf-inflow-record",
			Title:       "Bitcoin ETFs post record weekly inflow as institutions accumulate",
			Content:     "Spot Bitcoin ETFs recorded their largest weekly inflow since launch, with buying led by institutional allocators.",
			PublishedAt: now.Add(-6 * time.Hour),
		},
		{
			ID: "mock-3", Type: domain.CardTypeNews, Source: "Cointelegraph",
			URL:         "https://cointelegraph.com/news/exchange-hack-exploit",
			Title:       "DeFi protocol drained in $40M exploit, token dumps",
			Content:     "A lending protocol was hacked for roughly $40 million after an oracle exploit, triggering a sell-off of its governance token.",
			PublishedAt: now.Add(-5 * time.Hour),
		},
		{
			ID: "mock-4", Type: domain.CardTypeNews, Source: "Reuters",
			URL:         "https://www.reuters.com/markets/fed-rate-decision",
			Title:       "Fed holds rates steady, signals cuts remain on the table",
			Content:     "The Federal Reserve left interest rates unchanged and Chair remarks kept the door open to easing later this year, a dovish tilt for risk assets.",
			PublishedAt: now.Add(-10 * time.Hour),
		},
		{
			ID: "mock-5", Type: domain.CardTypeNews, Source: "Bloomberg",
			URL:         "https://www.bloomberg.com/crypto/mica-enforcement",
			Title:       "EU regulators begin MiCA enforcement actions against unlicensed exchanges",
			Content:     "European regulators opened the first enforcement proceedings under the MiCA framework, putting unlicensed crypto exchanges on notice of a ban.",
			PublishedAt: now.Add(-14 * time.Hour),
		},
		{
			ID: "mock-6", Type: domain.CardTypeKOL, Source: "@cryptoanalyst",
			URL:         "https://x.com/cryptoanalyst/status/1001",
			Title:       "BTC reclaiming the range high",
			Content:     "BTC reclaiming the range high with strong spot bid behind it. Breakout continuation looks likely if ETF inflow keeps this pace. Bullish structure intact.",
			PublishedAt: now.Add(-2 * time.Hour),
			Engagement:  e(4200, 900, 310),
		},
		{
			ID: "mock-7", Type: domain.CardTypeKOL, Source: "@macrowatcher",
			URL:         "https://x.com/macrowatcher/status/1002",
			Title:       "Liquidity still the story",
			Content:     "Everyone arguing about charts while global liquidity quietly grinds higher. That is the whole trade. Accumulate and wait.",
			PublishedAt: now.Add(-4 * time.Hour),
			Engagement:  e(1800, 420, 150),
		},
		{
			ID: "mock-8", Type: domain.CardTypeKOL, Source: "@onchainskeptic",
			URL:         "https://x.com/onchainskeptic/status/1003",
			Title:       "Funding looks stretched",
			Content:     "Funding rates stretched, open interest at highs, spot lagging. This is how local tops form. Expect a liquidation flush and a dump before continuation.",
			PublishedAt: now.Add(-3 * time.Hour),
			Engagement:  e(2600, 700, 480),
		},
		{
			ID: "mock-9", Type: domain.CardTypeKOL, Source: "@defi_degen",
			URL:         "https://x.com/defi_degen/status/1004",
			Title:       "L2 fees collapsing",
			Content:     "L2 fees collapsing post-upgrade. Throughput up 10x. The scaling launch thesis is playing out faster than anyone priced in.",
			PublishedAt: now.Add(-8 * time.Hour),
			Engagement:  e(950, 210, 60),
		},
	}
}

// SyntheticPulse is the pulse of last resort when CoinGecko and the cached
// snapshot are both unavailable. Flat values keep the price card honest about
// not knowing the direction of the day.
func SyntheticPulse(now time.Time) domain.MarketPulse {
	return domain.MarketPulse{
		BTCPrice:     97000,
		BTCChange24h: 0,
		ETHPrice:     3400,
		ETHChange24h: 0,
		Sparkline:    []float64{97000, 97000, 97000, 97000, 97000, 97000, 97000},
		Timestamp:    now,
	}
}
