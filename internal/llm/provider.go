package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/ppiankov/claimroute/internal/model"
)

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Summarize writes an adjuster note for an already routed claim
	Summarize(ctx context.Context, req SummarizeRequest) (*SummarizeResponse, error)
}

// SummarizeRequest contains the input for an adjuster note
type SummarizeRequest struct {
	// Result is the routed claim. The note must restate its route, never change it.
	Result *model.Result

	// Prompt overrides the default prompt
	Prompt string

	// Model is the provider-specific model name
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// SummarizeResponse contains the provider output
type SummarizeResponse struct {
	Summary    string
	Model      string
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "ollama" or "" (disabled)
	Provider string

	Model   string
	APIKey  string
	BaseURL string

	// Timeout for API requests in seconds
	Timeout int

	// StrictRoute rejects notes that name a queue other than the routed one
	StrictRoute bool

	MaxTokens int

	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// DefaultConfig returns the disabled configuration
func DefaultConfig() Config {
	return Config{
		Timeout:     30,
		StrictRoute: true,
		MaxTokens:   600,
	}
}

// ConfigFromModel merges LLM settings with the HTTP proxy settings
func ConfigFromModel(llmCfg model.LLMConfig, httpCfg model.HTTPConfig) Config {
	return Config{
		Provider:    llmCfg.Provider,
		Model:       llmCfg.Model,
		APIKey:      llmCfg.APIKey,
		BaseURL:     llmCfg.BaseURL,
		Timeout:     llmCfg.Timeout,
		StrictRoute: llmCfg.StrictRoute,
		MaxTokens:   llmCfg.MaxTokens,
		HTTPProxy:   httpCfg.HTTPProxy,
		HTTPSProxy:  httpCfg.HTTPSProxy,
		NoProxy:     httpCfg.NoProxy,
	}
}

// BuildPrompt constructs the default adjuster-note prompt
func BuildPrompt(result *model.Result) string {
	var b strings.Builder

	b.WriteString(`You are writing a short note for an insurance claims adjuster about a First Notice of Loss that has ALREADY been routed by a rule engine.

RULES:
1. The routing decision is final. Restate it; never suggest a different queue.
2. Only use the facts listed below. Do not infer missing values.
3. If fields are missing, list them as follow-ups for the adjuster.
4. Mention fraud indicators or injuries only if they are flagged below.

`)
	fmt.Fprintf(&b, "Recommended route: %s\n", result.RecommendedRoute)
	fmt.Fprintf(&b, "Reasoning: %s\n", result.Reasoning)

	if len(result.MissingFields) > 0 {
		fmt.Fprintf(&b, "Missing fields: %s\n", strings.Join(result.MissingFields, ", "))
	}
	if result.Metadata.FraudIndicators {
		fmt.Fprintf(&b, "Fraud keywords: %s\n", strings.Join(result.Metadata.FraudKeywordsFound, ", "))
	}
	if result.Metadata.InjuryClaim {
		b.WriteString("Injury reported: yes\n")
	}
	if w := result.Metadata.StateWarning; w != nil {
		fmt.Fprintf(&b, "Jurisdiction: %s (%s)\n", w.StateName, w.StateCode)
	}

	b.WriteString("\nExtracted fields:\n")
	b.WriteString(fieldLines(result.ExtractedFields))

	b.WriteString("\nWrite 3-5 markdown bullet points.")
	return b.String()
}

func fieldLines(fields map[string]any) string {
	if len(fields) == 0 {
		return "(none)\n"
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		v, err := json.Marshal(fields[k])
		if err != nil {
			continue
		}
		fmt.Fprintf(&b, "- %s: %s\n", k, v)
	}
	return b.String()
}
