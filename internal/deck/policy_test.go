package deck

import (
	"testing"
	"time"

	"github.com/Driftedboat/Bubbly-Insider/internal/domain"
)

func TestClassifyPolicyDetectsHighImpactRegulation(t *testing.T) {
	c := ClassifyPolicy("SEC approves spot Bitcoin ETF options trading", "CoinDesk")

	if !c.IsPolicy {
		t.Fatalf("expected policy content")
	}
	if c.Type != PolicyRegulation {
		t.Fatalf("expected regulation, got %s", c.Type)
	}
	if c.ImpactLevel != ImpactHigh {
		t.Fatalf("expected high impact, got %s", c.ImpactLevel)
	}
	if c.EffectiveWindowDays != 30 {
		t.Fatalf("expected 30 day window, got %d", c.EffectiveWindowDays)
	}
	if len(c.Keywords) == 0 {
		t.Fatalf("expected matched keywords")
	}
}

func TestClassifyPolicyNonPolicyContent(t *testing.T) {
	c := ClassifyPolicy("Bitcoin price moves sideways in thin weekend volume", "")

	if c.IsPolicy {
		t.Fatalf("expected non-policy content, matched %v", c.Keywords)
	}
	if c.Type != PolicyNone {
		t.Fatalf("expected none type, got %s", c.Type)
	}
	if c.EffectiveWindowDays != 1 {
		t.Fatalf("expected 1 day window, got %d", c.EffectiveWindowDays)
	}
}

func TestClassifyPolicyTieResolvesToRegulation(t *testing.T) {
	// One regulation hit and one legal hit, priority order breaks the tie.
	c := ClassifyPolicy("sec lawsuit", "")

	if c.Type != PolicyRegulation {
		t.Fatalf("expected regulation on tie, got %s", c.Type)
	}
}

func TestClassifyPolicyJurisdictions(t *testing.T) {
	cases := []struct {
		name string
		text string
		want Jurisdiction
	}{
		{
			name: "dominant US signal",
			text: "SEC and CFTC testify before Congress and Senate on crypto rules",
			want: JurisdictionUS,
		},
		{
			name: "dominant Asia signal",
			text: "China and Japan announce regulation to ban crypto trading in Asia",
			want: JurisdictionAsia,
		},
		{
			name: "single weak signal reads as global",
			text: "SEC approves spot Bitcoin ETF options trading",
			want: JurisdictionGlobal,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := ClassifyPolicy(tc.text, "")
			if !c.IsPolicy {
				t.Fatalf("expected policy content")
			}
			if c.Jurisdiction != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, c.Jurisdiction)
			}
		})
	}
}

func TestClassifyPolicyMediumImpactLegal(t *testing.T) {
	c := ClassifyPolicy("Regulators open investigation into exchange accounting practices", "")

	if c.Type != PolicyLegal {
		t.Fatalf("expected legal, got %s", c.Type)
	}
	if c.ImpactLevel != ImpactMedium {
		t.Fatalf("expected medium impact, got %s", c.ImpactLevel)
	}
	if c.EffectiveWindowDays != 14 {
		t.Fatalf("expected 14 day window, got %d", c.EffectiveWindowDays)
	}
}

func TestPolicyStillRelevantWindow(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c := PolicyClassification{IsPolicy: true, Type: PolicyRegulation, ImpactLevel: ImpactHigh, EffectiveWindowDays: 30}

	if !PolicyStillRelevant(c, now.AddDate(0, 0, -29), now) {
		t.Fatalf("expected item inside window to stay relevant")
	}
	if PolicyStillRelevant(c, now.AddDate(0, 0, -31), now) {
		t.Fatalf("expected item outside window to be dropped")
	}
	if !PolicyStillRelevant(PolicyClassification{}, now.AddDate(0, 0, -100), now) {
		t.Fatalf("non-policy items are not subject to the policy window")
	}
}

func TestContentTypeForPolicy(t *testing.T) {
	reg := PolicyClassification{IsPolicy: true, Type: PolicyRegulation}
	if got := ContentTypeForPolicy(reg, domain.CardTypeNews); got != ContentTypePolicy {
		t.Fatalf("expected policy content type, got %s", got)
	}

	macro := PolicyClassification{IsPolicy: true, Type: PolicyMacro}
	if got := ContentTypeForPolicy(macro, domain.CardTypeNews); got != ContentTypeMacro {
		t.Fatalf("expected macro content type, got %s", got)
	}

	none := PolicyClassification{}
	if got := ContentTypeForPolicy(none, domain.CardTypeKOL); got != string(domain.CardTypeKOL) {
		t.Fatalf("expected fallback content type, got %s", got)
	}
}
