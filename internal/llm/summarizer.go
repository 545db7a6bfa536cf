package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/ppiankov/claimroute/internal/model"
)

// Summarizer attaches adjuster notes to routed claims.
// CRITICAL: it only reads the result; routing is never changed.
type Summarizer struct {
	provider Provider
	config   Config
}

// NewSummarizer creates a summarizer. A disabled config yields a summarizer
// whose Summarize returns nil.
func NewSummarizer(config Config) (*Summarizer, error) {
	provider, err := NewProvider(config)
	if err != nil {
		return nil, err
	}
	return &Summarizer{provider: provider, config: config}, nil
}

// NewSummarizerWithProvider wraps an existing provider
func NewSummarizerWithProvider(provider Provider, config Config) *Summarizer {
	return &Summarizer{provider: provider, config: config}
}

// IsEnabled reports whether a provider is configured
func (s *Summarizer) IsEnabled() bool {
	return s != nil && s.provider != nil
}

// ProviderName returns the provider name, or "" when disabled
func (s *Summarizer) ProviderName() string {
	if !s.IsEnabled() {
		return ""
	}
	return s.provider.Name()
}

// Summarize returns the adjuster note for result, or nil when disabled
func (s *Summarizer) Summarize(ctx context.Context, result *model.Result) (*model.AdjusterSummary, error) {
	if !s.IsEnabled() || result == nil {
		return nil, nil
	}

	resp, err := s.provider.Summarize(ctx, SummarizeRequest{
		Result:    result,
		Model:     s.config.Model,
		MaxTokens: s.config.MaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("summarize: %w", err)
	}

	summary := &model.AdjusterSummary{
		Enabled:   true,
		Provider:  s.provider.Name(),
		Model:     resp.Model,
		SummaryMD: resp.Summary,
	}

	if resp.Summary == "" {
		summary.Warnings = append(summary.Warnings, "provider returned an empty note")
	}

	if others := OtherQueues(resp.Summary, result.RecommendedRoute); len(others) > 0 {
		if s.config.StrictRoute {
			return nil, fmt.Errorf("ROUTE LEAK: note names queue %q, claim was routed to %q", others[0], result.RecommendedRoute)
		}
		for _, q := range others {
			summary.Warnings = append(summary.Warnings, fmt.Sprintf("note mentions %q; the routed queue is %q", q, result.RecommendedRoute))
		}
	}

	return summary, nil
}

// OtherQueues lists the queues named in text other than routed
func OtherQueues(text string, routed model.Queue) []model.Queue {
	lower := strings.ToLower(text)

	var found []model.Queue
	for _, q := range model.Queues {
		if q == routed {
			continue
		}
		if strings.Contains(lower, strings.ToLower(string(q))) {
			found = append(found, q)
		}
	}
	return found
}
