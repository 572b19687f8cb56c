package deck

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/Driftedboat/Bubbly-Insider/internal/domain"
)

type PolicyType string

const (
	PolicyRegulation PolicyType = "regulation"
	PolicyMacro      PolicyType = "macro"
	PolicyLegal      PolicyType = "legal"
	PolicyGovernment PolicyType = "government"
	PolicyNone       PolicyType = "none"
)

type ImpactLevel string

const (
	ImpactHigh   ImpactLevel = "high"
	ImpactMedium ImpactLevel = "medium"
	ImpactLow    ImpactLevel = "low"
)

type Jurisdiction string

const (
	JurisdictionUS     Jurisdiction = "US"
	JurisdictionEU     Jurisdiction = "EU"
	JurisdictionAsia   Jurisdiction = "Asia"
	JurisdictionGlobal Jurisdiction = "Global"
	JurisdictionOther  Jurisdiction = "Other"
)

// PolicyClassification is derived purely from text, identical inputs always
// produce identical output.
type PolicyClassification struct {
	IsPolicy            bool         `json:"is_policy"`
	Type                PolicyType   `json:"type"`
	ImpactLevel         ImpactLevel  `json:"impact_level"`
	Jurisdiction        Jurisdiction `json:"jurisdiction"`
	EffectiveWindowDays int          `json:"effective_window_days"`
	Keywords            []string     `json:"keywords,omitempty"`
}

var regulationKeywords = []string{
	"sec", "cftc", "regulation", "regulatory", "compliance", "rule", "ruling",
	"etf", "approval", "approve", "reject", "deny", "filing", "application",
	"license", "framework", "guidelines", "enforcement", "sanction",
	"stablecoin", "cbdc", "digital asset", "securities", "commodity",
}

var legalKeywords = []string{
	"lawsuit", "sue", "court", "judge", "verdict", "settlement", "fine",
	"investigation", "probe", "subpoena", "indictment", "charges", "guilty",
	"doj", "fbi", "justice department", "attorney general", "legal action",
}

var macroKeywords = []string{
	"fed", "federal reserve", "fomc", "interest rate", "rate hike", "rate cut",
	"inflation", "cpi", "gdp", "employment", "jobs", "unemployment", "labor",
	"treasury", "yield", "bond", "dollar", "dxy", "liquidity", "qe", "qt",
	"recession", "economic", "monetary policy", "fiscal",
}

var governmentKeywords = []string{
	"congress", "senate", "house", "bill", "legislation", "law", "act",
	"executive order", "white house", "president", "administration",
	"government", "parliament", "minister", "official", "agency",
}

var (
	usKeywords   = []string{"us", "usa", "united states", "american", "sec", "cftc", "fed", "congress", "senate", "doj"}
	euKeywords   = []string{"eu", "europe", "european", "ecb", "mica", "esma", "brussels"}
	asiaKeywords = []string{"china", "japan", "korea", "singapore", "hong kong", "asia", "asian"}
)

var highImpactPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)sec\s+(approv|reject|deny|ruling|decision)`),
	regexp.MustCompile(`(?i)etf\s+(approv|reject|launch|delay)`),
	regexp.MustCompile(`(?i)fed\s+(rate|decision|pivot|cut|hike)`),
	regexp.MustCompile(`(?i)ban\s+(crypto|bitcoin|trading)`),
	regexp.MustCompile(`(?i)(lawsuit|charges)\s+against`),
	regexp.MustCompile(`(?i)billion\s+dollar`),
	regexp.MustCompile(`(?i)record\s+fine`),
	regexp.MustCompile(`(?i)cbdc\s+(launch|pilot|announce)`),
	regexp.MustCompile(`(?i)stablecoin\s+(ban|regulation|framework)`),
}

var mediumImpactPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)regulatory\s+(clarity|framework|guidance)`),
	regexp.MustCompile(`(?i)investigation\s+(into|of)`),
	regexp.MustCompile(`(?i)compliance\s+(requirement|deadline)`),
	regexp.MustCompile(`(?i)tax\s+(proposal|law|rate)`),
	regexp.MustCompile(`(?i)exchange\s+(license|registration)`),
	regexp.MustCompile(`(?i)treasury\s+(report|statement)`),
}

// effectiveWindowDays maps (policy type, impact) to a relevance window in
// days. Regulatory and macro context outlives a single news cycle.
var effectiveWindowDays = map[PolicyType]map[ImpactLevel]int{
	PolicyRegulation: {ImpactHigh: 30, ImpactMedium: 14, ImpactLow: 7},
	PolicyLegal:      {ImpactHigh: 30, ImpactMedium: 14, ImpactLow: 7},
	PolicyMacro:      {ImpactHigh: 14, ImpactMedium: 7, ImpactLow: 3},
	PolicyGovernment: {ImpactHigh: 30, ImpactMedium: 14, ImpactLow: 7},
	PolicyNone:       {ImpactHigh: 2, ImpactMedium: 1, ImpactLow: 1},
}

// ClassifyPolicy detects regulatory/macro/legal/government content in text
// and assigns impact, jurisdiction, and an extended relevance window. It is
// total over all string inputs and never errors.
func ClassifyPolicy(text, source string) PolicyClassification {
	combined := text
	if source != "" {
		combined = text + " " + source
	}

	policyType := detectPolicyType(combined)
	if policyType == PolicyNone {
		return PolicyClassification{
			IsPolicy:            false,
			Type:                PolicyNone,
			ImpactLevel:         ImpactLow,
			Jurisdiction:        JurisdictionOther,
			EffectiveWindowDays: 1,
		}
	}

	impact := detectImpactLevel(combined)
	return PolicyClassification{
		IsPolicy:            true,
		Type:                policyType,
		ImpactLevel:         impact,
		Jurisdiction:        detectJurisdiction(combined),
		EffectiveWindowDays: effectiveWindowDays[policyType][impact],
		Keywords:            matchedPolicyKeywords(combined),
	}
}

func detectPolicyType(text string) PolicyType {
	lower := strings.ToLower(text)

	regulation := countKeywordHits(lower, regulationKeywords)
	legal := countKeywordHits(lower, legalKeywords)
	macro := countKeywordHits(lower, macroKeywords)
	government := countKeywordHits(lower, governmentKeywords)

	max := maxInt(maxInt(regulation, legal), maxInt(macro, government))
	if max == 0 {
		return PolicyNone
	}

	// Ties resolve in fixed priority order.
	switch max {
	case regulation:
		return PolicyRegulation
	case legal:
		return PolicyLegal
	case macro:
		return PolicyMacro
	default:
		return PolicyGovernment
	}
}

func detectImpactLevel(text string) ImpactLevel {
	for _, pattern := range highImpactPatterns {
		if pattern.MatchString(text) {
			return ImpactHigh
		}
	}
	for _, pattern := range mediumImpactPatterns {
		if pattern.MatchString(text) {
			return ImpactMedium
		}
	}
	return ImpactLow
}

func detectJurisdiction(text string) Jurisdiction {
	lower := strings.ToLower(text)

	us := countKeywordHits(lower, usKeywords)
	eu := countKeywordHits(lower, euKeywords)
	asia := countKeywordHits(lower, asiaKeywords)

	max := maxInt(us, maxInt(eu, asia))
	if max == 0 {
		return JurisdictionGlobal
	}

	// Two buckets within 1 of the top means a multi-jurisdiction story.
	near := 0
	for _, score := range []int{us, eu, asia} {
		if score >= max-1 {
			near++
		}
	}
	if near > 1 {
		return JurisdictionGlobal
	}

	switch max {
	case us:
		return JurisdictionUS
	case eu:
		return JurisdictionEU
	case asia:
		return JurisdictionAsia
	default:
		return JurisdictionOther
	}
}

func matchedPolicyKeywords(text string) []string {
	lower := strings.ToLower(text)
	seen := make(map[string]struct{})
	for _, set := range [][]string{regulationKeywords, legalKeywords, macroKeywords, governmentKeywords} {
		for _, keyword := range set {
			if strings.Contains(lower, keyword) {
				seen[keyword] = struct{}{}
			}
		}
	}
	if len(seen) == 0 {
		return nil
	}
	out := make([]string, 0, len(seen))
	for keyword := range seen {
		out = append(out, keyword)
	}
	sort.Strings(out)
	return out
}

// PolicyStillRelevant reports whether a policy item is inside its effective
// window. Non-policy items use the ordinary content-type windows instead.
func PolicyStillRelevant(classification PolicyClassification, publishedAt, now time.Time) bool {
	if !classification.IsPolicy {
		return true
	}
	daysAgo := now.Sub(publishedAt).Hours() / 24
	return daysAgo <= float64(classification.EffectiveWindowDays)
}

// ContentTypeForPolicy remaps a policy-flagged item onto the content type
// whose decay windows match its classification.
func ContentTypeForPolicy(classification PolicyClassification, fallback domain.CardType) string {
	if !classification.IsPolicy {
		return string(fallback)
	}
	switch classification.Type {
	case PolicyRegulation, PolicyGovernment, PolicyLegal:
		return ContentTypePolicy
	case PolicyMacro:
		return ContentTypeMacro
	default:
		return string(fallback)
	}
}

func countKeywordHits(lowerText string, keywords []string) int {
	hits := 0
	for _, keyword := range keywords {
		if strings.Contains(lowerText, keyword) {
			hits++
		}
	}
	return hits
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
