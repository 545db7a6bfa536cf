package classify

import (
	"regexp"
	"strings"

	"github.com/ppiankov/claimroute/internal/model"
)

// FraudKeywords are reported in this order when found
var FraudKeywords = []string{
	"fraud", "fraudulent",
	"inconsistent", "inconsistency",
	"staged", "stage",
	"suspicious", "suspect",
	"fabricated", "fabricate",
	"collusion", "collude",
	"false", "fake",
	"questionable",
	"discrepancy", "discrepancies",
}

// InjuryKeywords are checked in this order; the first hit wins
var InjuryKeywords = []string{
	"injury", "injured", "injure",
	"hurt", "pain",
	"hospitalized", "hospital",
	"medical", "medic",
	"bodily", "body",
	"ambulance",
	"paramedic",
	"emergency room", "er",
	"whiplash",
	"fracture", "broken",
	"contusion", "bruise",
}

// minSubstringLen is the shortest keyword matched as a plain substring.
// Shorter keywords ("er") only match as whole words.
const minSubstringLen = 3

type keyword struct {
	text string
	word *regexp.Regexp // Set for short keywords
}

func (k keyword) in(lower string) bool {
	if k.word != nil {
		return k.word.MatchString(lower)
	}
	return strings.Contains(lower, k.text)
}

// Classifier scans incident narratives for fraud and injury indicators.
// It holds no per-claim state and is safe for concurrent use.
type Classifier struct {
	fraud  []keyword
	injury []keyword
}

// New creates a classifier with the default keyword sets
func New() *Classifier {
	return NewWithKeywords(FraudKeywords, InjuryKeywords)
}

// NewWithKeywords creates a classifier with custom keyword sets
func NewWithKeywords(fraud, injury []string) *Classifier {
	return &Classifier{
		fraud:  compileKeywords(fraud),
		injury: compileKeywords(injury),
	}
}

func compileKeywords(words []string) []keyword {
	out := make([]keyword, 0, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		k := keyword{text: w}
		if len(w) < minSubstringLen {
			k.word = regexp.MustCompile(`\b` + regexp.QuoteMeta(w) + `\b`)
		}
		out = append(out, k)
	}
	return out
}

// Classify derives fraud and injury outcomes from the record's narrative only
func (c *Classifier) Classify(rec *model.ClaimRecord) model.Classification {
	narrative := ""
	if rec != nil {
		narrative = rec.IncidentDescription
	}

	fraud := c.FraudKeywords(narrative)
	injury, injured := c.InjuryKeyword(narrative)

	return model.Classification{
		FraudDetected:  len(fraud) > 0,
		FraudKeywords:  fraud,
		InjuryDetected: injured,
		InjuryKeyword:  injury,
	}
}

// FraudKeywords returns every fraud keyword found in the narrative.
// The result is never nil.
func (c *Classifier) FraudKeywords(narrative string) []string {
	found := []string{}
	if strings.TrimSpace(narrative) == "" {
		return found
	}

	lower := strings.ToLower(narrative)
	for _, k := range c.fraud {
		if k.in(lower) {
			found = append(found, k.text)
		}
	}
	return found
}

// InjuryKeyword returns the first injury keyword found in the narrative
func (c *Classifier) InjuryKeyword(narrative string) (string, bool) {
	if strings.TrimSpace(narrative) == "" {
		return "", false
	}

	lower := strings.ToLower(narrative)
	for _, k := range c.injury {
		if k.in(lower) {
			return k.text, true
		}
	}
	return "", false
}

// ClaimType maps a narrative to Bodily Injury or Property Damage
func (c *Classifier) ClaimType(narrative string) model.ClaimType {
	if _, ok := c.InjuryKeyword(narrative); ok {
		return model.ClaimTypeBodilyInjury
	}
	return model.ClaimTypePropertyDamage
}
