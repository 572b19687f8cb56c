package briefer

import (
	"fmt"
	"strings"

	"github.com/Driftedboat/Bubbly-Insider/internal/deck"
)

const analystPrompt = `You are a crypto analyst providing concise, factual analysis.
You analyze crypto news, KOL posts, and market data to provide:
1. A brief (2-3 sentences) explaining what happened
2. An insight (1-2 sentences) on crypto market impact

Be direct and specific. Avoid hype language. Always state whether the impact is bullish or bearish for crypto.
Respond with JSON only: {"brief": "...", "insight": "...", "bull_bear": "bull" or "bear"}`

func BuildCardPrompt(item *deck.ScoredItem) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Analyze this %s item:\n\n", item.Type))
	sb.WriteString("Headline: " + item.Title + "\n")
	sb.WriteString("Source: " + item.Source + "\n")
	if item.Policy.IsPolicy {
		sb.WriteString(fmt.Sprintf("Policy: %s (%s impact, %s)\n",
			item.Policy.Type, item.Policy.ImpactLevel, item.Policy.Jurisdiction))
	}
	if item.Content != "" {
		sb.WriteString("Content: " + item.Content + "\n")
	}
	return sb.String()
}

// extractJSON pulls the first balanced JSON object out of a model reply,
// tolerating markdown code fences and surrounding prose.
func extractJSON(reply string) string {
	reply = strings.TrimSpace(reply)
	if strings.HasPrefix(reply, "```") {
		reply = strings.TrimPrefix(reply, "```json")
		reply = strings.TrimPrefix(reply, "```")
		if idx := strings.LastIndex(reply, "```"); idx >= 0 {
			reply = reply[:idx]
		}
		reply = strings.TrimSpace(reply)
	}

	start := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")
	if start < 0 || end <= start {
		return reply
	}
	return reply[start : end+1]
}
