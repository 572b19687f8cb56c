package deck

import (
	"strings"

	"github.com/Driftedboat/Bubbly-Insider/internal/domain"
)

// ConfidenceInput feeds the rule-based rubric used for curated cards and as
// the fallback scorer.
type ConfidenceInput struct {
	CardType           domain.CardType
	SourceBadge        string
	HasPrimarySource   bool
	HasSecondarySource bool
	ConfirmationCount  int
	HasSpecificDetails bool
	HoursAgo           float64
	HasConflict        bool
	IsContested        bool
}

// ScoreConfidence applies the additive rubric: source strength (0-40) +
// confirmation (0-20) + specificity (15/5) + freshness (0-15) + conflict
// penalty (-20..0), total clamped to [0, 100]. The breakdown shape matches
// the influence pipeline's so the detail view renders either.
func ScoreConfidence(in ConfidenceInput) domain.ScoreBreakdown {
	sourceStrength := 10
	switch {
	case in.HasPrimarySource:
		sourceStrength = 40
	case in.HasSecondarySource && reputableBadge(in.SourceBadge):
		sourceStrength = 25
	case in.CardType == domain.CardTypePrice:
		// Price data is always independently verifiable.
		sourceStrength = 40
	}

	confirmation := 0
	switch {
	case in.ConfirmationCount >= 2:
		confirmation = 20
	case in.ConfirmationCount >= 1:
		confirmation = 10
	}

	specificity := 5
	if in.HasSpecificDetails {
		specificity = 15
	}

	freshness := 0
	switch {
	case in.HoursAgo <= 6:
		freshness = 15
	case in.HoursAgo <= 24:
		freshness = 10
	case in.HoursAgo <= 72:
		freshness = 5
	}

	conflictPenalty := 0
	if in.HasConflict {
		conflictPenalty = -20
	} else if in.IsContested || (!in.HasPrimarySource && in.CardType == domain.CardTypeNews) {
		conflictPenalty = -10
	}

	total := sourceStrength + confirmation + specificity + freshness + conflictPenalty
	if total < 0 {
		total = 0
	}
	if total > 100 {
		total = 100
	}

	return domain.ScoreBreakdown{
		SourceStrength:  sourceStrength,
		Confirmation:    confirmation,
		Specificity:     specificity,
		Freshness:       freshness,
		ConflictPenalty: conflictPenalty,
		Total:           total,
	}
}

func reputableBadge(badge string) bool {
	lower := strings.ToLower(badge)
	return strings.Contains(lower, "bloomberg") || strings.Contains(lower, "coindesk")
}
