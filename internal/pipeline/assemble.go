package pipeline

import (
	"time"

	"github.com/ppiankov/claimroute/internal/model"
	"github.com/ppiankov/claimroute/internal/validate"
)

// assemble builds the output record. Absent fields are dropped and
// every list is non-nil so it serializes as [].
func (p *Pipeline) assemble(rec *model.ClaimRecord, missing []model.FieldName, cls model.Classification, decision model.RoutingDecision) *model.Result {
	fraudKeywords := cls.FraudKeywords
	if fraudKeywords == nil {
		fraudKeywords = []string{}
	}

	return &model.Result{
		ExtractedFields:  rec.Fields(),
		MissingFields:    validate.Names(missing),
		RecommendedRoute: decision.Queue,
		Reasoning:        decision.Justification,
		Metadata: model.Metadata{
			FraudIndicators:     cls.FraudDetected,
			FraudKeywordsFound:  fraudKeywords,
			InjuryClaim:         cls.InjuryDetected,
			StateWarning:        p.stateWarning(rec.State),
			ProcessingTimestamp: p.now().UTC().Format(time.RFC3339),
			FormType:            model.FormTypeACORD2,
		},
	}
}

func (p *Pipeline) stateWarning(code string) *model.StateWarning {
	if code == "" {
		return nil
	}
	entry, ok := p.table.Lookup(code)
	if !ok {
		return nil
	}
	return &model.StateWarning{
		StateCode: entry.Code,
		StateName: entry.Name,
		Warning:   entry.Warning,
	}
}
