package route

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"github.com/ppiankov/claimroute/internal/model"
)

// Rule names reported in RoutingDecision.Rule
const (
	RuleMissingFields  = "missing_fields"
	RuleFraud          = "fraud"
	RuleBodilyInjury   = "bodily_injury"
	RuleFastTrack      = "fast_track"
	RuleStandardReview = "standard_review"
	RuleFallback       = "fallback"
)

// Input is everything a rule may inspect
type Input struct {
	Record         *model.ClaimRecord
	Missing        []model.FieldName
	Classification model.Classification
	Threshold      decimal.Decimal
}

// Rule is one (predicate, outcome) pair of the decision list
type Rule struct {
	Name   string
	Queue  model.Queue
	Match  func(in Input) bool
	Reason func(in Input) string
}

// Engine evaluates rules in order and returns at the first match.
// An Engine is immutable; build one per threshold.
type Engine struct {
	threshold decimal.Decimal
	rules     []Rule
}

// New creates an engine with the standard rule list
func New(threshold decimal.Decimal) *Engine {
	return &Engine{
		threshold: threshold,
		rules:     DefaultRules(),
	}
}

// NewWithRules creates an engine with a custom rule list
func NewWithRules(threshold decimal.Decimal, rules []Rule) *Engine {
	r := make([]Rule, len(rules))
	copy(r, rules)
	return &Engine{threshold: threshold, rules: r}
}

// Threshold returns the fast-track threshold
func (e *Engine) Threshold() decimal.Decimal {
	return e.threshold
}

// Route picks the queue for a claim
func (e *Engine) Route(rec *model.ClaimRecord, missing []model.FieldName, cls model.Classification) model.RoutingDecision {
	if rec == nil {
		rec = &model.ClaimRecord{}
	}

	in := Input{
		Record:         rec,
		Missing:        missing,
		Classification: cls,
		Threshold:      e.threshold,
	}

	for _, r := range e.rules {
		if r.Match(in) {
			return model.RoutingDecision{
				Queue:         r.Queue,
				Justification: r.Reason(in),
				Rule:          r.Name,
			}
		}
	}

	fb := fallbackRule()
	return model.RoutingDecision{
		Queue:         fb.Queue,
		Justification: fb.Reason(in),
		Rule:          fb.Name,
	}
}

// DefaultRules returns the priority list: missing fields, fraud, injury,
// fast track, standard review, fallback
func DefaultRules() []Rule {
	return []Rule{
		{
			Name:  RuleMissingFields,
			Queue: model.QueueManualReview,
			Match: func(in Input) bool { return len(in.Missing) > 0 },
			Reason: func(in Input) string {
				names := make([]string, len(in.Missing))
				for i, m := range in.Missing {
					names[i] = string(m)
				}
				return fmt.Sprintf("Missing mandatory fields: %s. Requires human verification to complete claim data.",
					strings.Join(names, ", "))
			},
		},
		{
			Name:  RuleFraud,
			Queue: model.QueueInvestigation,
			Match: func(in Input) bool { return in.Classification.FraudDetected },
			Reason: func(in Input) string {
				return fmt.Sprintf("Fraud indicators detected in incident description. Keywords found: %s. Requires Special Investigation Unit review.",
					strings.Join(in.Classification.FraudKeywords, ", "))
			},
		},
		{
			Name:  RuleBodilyInjury,
			Queue: model.QueueSpecialistBI,
			Match: func(in Input) bool { return in.Record.ClaimType == model.ClaimTypeBodilyInjury },
			Reason: func(Input) string {
				return "Claim involves bodily injury. Routed to injury claims specialists for medical review and liability assessment."
			},
		},
		{
			Name:  RuleFastTrack,
			Queue: model.QueueFastTrack,
			Match: func(in Input) bool {
				return in.Record.EstimatedDamage != nil && in.Record.EstimatedDamage.LessThan(in.Threshold)
			},
			Reason: func(in Input) string {
				return fmt.Sprintf("Estimated damage (%s) is below fast-track threshold (%s). No missing fields, no fraud indicators, no injuries. Eligible for automated processing.",
					FormatAmount(*in.Record.EstimatedDamage), FormatThreshold(in.Threshold))
			},
		},
		{
			Name:  RuleStandardReview,
			Queue: model.QueueStandardReview,
			Match: func(in Input) bool {
				return in.Record.EstimatedDamage != nil && in.Record.EstimatedDamage.GreaterThanOrEqual(in.Threshold)
			},
			Reason: func(in Input) string {
				return fmt.Sprintf("Estimated damage (%s) meets or exceeds fast-track threshold (%s). Requires standard claims adjuster review and potentially on-site inspection.",
					FormatAmount(*in.Record.EstimatedDamage), FormatThreshold(in.Threshold))
			},
		},
		fallbackRule(),
	}
}

// fallbackRule only fires when damage is absent and nothing else matched
func fallbackRule() Rule {
	return Rule{
		Name:  RuleFallback,
		Queue: model.QueueManualReview,
		Match: func(Input) bool { return true },
		Reason: func(Input) string {
			return "Unable to determine damage estimate or claim routing. Requires manual assessment."
		},
	}
}

// FormatAmount renders a currency amount with cents, e.g. $2,800.00
func FormatAmount(d decimal.Decimal) string {
	fixed := d.StringFixed(2)
	cents := fixed[strings.LastIndexByte(fixed, '.'):]
	sign := ""
	if d.IsNegative() && fixed != "-0.00" {
		sign = "-"
	}
	return sign + "$" + humanize.Comma(d.Round(2).Abs().IntPart()) + cents
}

// FormatThreshold renders whole thresholds without cents, e.g. $25,000
func FormatThreshold(d decimal.Decimal) string {
	if d.IsInteger() {
		return "$" + humanize.Comma(d.IntPart())
	}
	return FormatAmount(d)
}
