package model

// Queue is a processing queue a claim can be routed to
type Queue string

const (
	QueueManualReview   Queue = "Manual Review"
	QueueInvestigation  Queue = "Investigation Queue"
	QueueSpecialistBI   Queue = "Specialist Queue - Bodily Injury"
	QueueFastTrack      Queue = "Fast Track"
	QueueStandardReview Queue = "Standard Review Queue"
)

// Queues lists every queue in routing priority order
var Queues = []Queue{
	QueueManualReview,
	QueueInvestigation,
	QueueSpecialistBI,
	QueueFastTrack,
	QueueStandardReview,
}

// FormTypeACORD2 identifies the only supported document family
const FormTypeACORD2 = "ACORD 2 - Automobile Loss Notice"

// RoutingDecision is produced fresh for every claim
type RoutingDecision struct {
	Queue         Queue  `json:"queue"`
	Justification string `json:"justification"`
	Rule          string `json:"rule"` // Which rule fired (e.g., "fast_track")
}

// Result is the complete output for one claim
type Result struct {
	ExtractedFields  map[string]any   `json:"extractedFields"`
	MissingFields    []string         `json:"missingFields"`
	RecommendedRoute Queue            `json:"recommendedRoute"`
	Reasoning        string           `json:"reasoning"`
	Metadata         Metadata         `json:"metadata"`
	AdjusterSummary  *AdjusterSummary `json:"adjusterSummary,omitempty"` // Optional, never affects routing
}

// Metadata carries classification outcomes and compliance information
type Metadata struct {
	FraudIndicators     bool          `json:"fraudIndicators"`
	FraudKeywordsFound  []string      `json:"fraudKeywordsFound"`
	InjuryClaim         bool          `json:"injuryClaim"`
	StateWarning        *StateWarning `json:"stateWarning"` // null when no jurisdiction resolved
	ProcessingTimestamp string        `json:"processingTimestamp"`
	FormType            string        `json:"formType"`
}

// StateWarning is the fraud statement mandated by the claim's jurisdiction
type StateWarning struct {
	StateCode string `json:"state_code"`
	StateName string `json:"state_name"`
	Warning   string `json:"warning"`
}

// AdjusterSummary contains an optional LLM-written note for the adjuster
// CRITICAL: This never affects extraction, classification or routing
type AdjusterSummary struct {
	Enabled   bool     `json:"enabled"`
	Provider  string   `json:"provider,omitempty"`
	Model     string   `json:"model,omitempty"`
	SummaryMD string   `json:"summary_md,omitempty"`
	Warnings  []string `json:"warnings,omitempty"`
}
