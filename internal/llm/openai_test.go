package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/claimroute/internal/model"
)

func routedResult() *model.Result {
	return &model.Result{
		ExtractedFields: map[string]any{
			"policy_number":    "AUTO-TX-2024-001",
			"estimated_damage": 45000.0,
		},
		MissingFields:    []string{},
		RecommendedRoute: model.QueueSpecialistBI,
		Reasoning:        "Bodily injury detected in incident description (keyword: 'injured'); requires specialist handling",
		Metadata: model.Metadata{
			FraudKeywordsFound: []string{},
			InjuryClaim:        true,
			StateWarning: &model.StateWarning{
				StateCode: "TX",
				StateName: "Texas",
				Warning:   "Any person who knowingly presents a false or fraudulent claim...",
			},
		},
	}
}

func chatServer(t *testing.T, content string, check func(req openai.ChatCompletionRequest)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)

		var req openai.ChatCompletionRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if check != nil {
			check(req)
		}

		_ = json.NewEncoder(w).Encode(openai.ChatCompletionResponse{
			ID:    "chatcmpl-1",
			Model: req.Model,
			Choices: []openai.ChatCompletionChoice{{
				Message:      openai.ChatCompletionMessage{Role: "assistant", Content: content},
				FinishReason: "stop",
			}},
			Usage: openai.Usage{TotalTokens: 42},
		})
	}))
}

func TestOpenAIProvider_Summarize(t *testing.T) {
	server := chatServer(t, "  - Routed to Specialist Queue - Bodily Injury\n", func(req openai.ChatCompletionRequest) {
		assert.Equal(t, "gpt-4o-mini", req.Model)
		assert.Equal(t, 600, req.MaxTokens)
		if assert.Len(t, req.Messages, 2) {
			assert.Contains(t, req.Messages[1].Content, "Recommended route: Specialist Queue - Bodily Injury")
		}
	})
	defer server.Close()

	provider, err := NewOpenAIProvider(Config{APIKey: "test-key", BaseURL: server.URL, Timeout: 5})
	require.NoError(t, err)

	resp, err := provider.Summarize(context.Background(), SummarizeRequest{Result: routedResult()})
	require.NoError(t, err)
	assert.Equal(t, "- Routed to Specialist Queue - Bodily Injury", resp.Summary)
	assert.Equal(t, 42, resp.TokensUsed)
	assert.Equal(t, "openai", provider.Name())
}

func TestOpenAIProvider_MissingKey(t *testing.T) {
	_, err := NewOpenAIProvider(Config{})
	assert.Error(t, err)
}

func TestOpenAIProvider_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"bad key","type":"invalid_request_error"}}`))
	}))
	defer server.Close()

	provider, err := NewOpenAIProvider(Config{APIKey: "bad", BaseURL: server.URL, Timeout: 5})
	require.NoError(t, err)
	_, err = provider.Summarize(context.Background(), SummarizeRequest{Result: routedResult()})
	assert.Error(t, err)
}

func TestOpenAIProvider_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(openai.ChatCompletionResponse{ID: "x"})
	}))
	defer server.Close()

	provider, err := NewOpenAIProvider(Config{APIKey: "k", BaseURL: server.URL, Timeout: 5})
	require.NoError(t, err)
	_, err = provider.Summarize(context.Background(), SummarizeRequest{Result: routedResult()})
	assert.Error(t, err)
}

func TestOllamaProvider(t *testing.T) {
	server := chatServer(t, "- note", func(req openai.ChatCompletionRequest) {
		assert.Equal(t, "llama3.1", req.Model)
	})
	defer server.Close()

	_, err := NewOllamaProvider(Config{})
	assert.Error(t, err, "model is required")

	provider, err := NewOllamaProvider(Config{Model: "llama3.1", BaseURL: server.URL, Timeout: 5})
	require.NoError(t, err)
	assert.Equal(t, "ollama", provider.Name())

	_, err = provider.Summarize(context.Background(), SummarizeRequest{Result: routedResult()})
	require.NoError(t, err)
}

func TestNewProvider(t *testing.T) {
	p, err := NewProvider(Config{})
	require.NoError(t, err)
	assert.Nil(t, p)

	p, err = NewProvider(Config{Provider: "OpenAI", APIKey: "k"})
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "openai", p.Name())

	_, err = NewProvider(Config{Provider: "anthropic"})
	assert.Error(t, err)
}

func TestBuildPrompt(t *testing.T) {
	res := routedResult()
	res.MissingFields = []string{"police_report_number"}
	res.Metadata.FraudIndicators = true
	res.Metadata.FraudKeywordsFound = []string{"staged"}

	prompt := BuildPrompt(res)

	for _, want := range []string{
		"Recommended route: Specialist Queue - Bodily Injury",
		"Missing fields: police_report_number",
		"Fraud keywords: staged",
		"Injury reported: yes",
		"Jurisdiction: Texas (TX)",
		`- estimated_damage: 45000`,
		`- policy_number: "AUTO-TX-2024-001"`,
	} {
		assert.Contains(t, prompt, want)
	}

	// Keys are listed alphabetically
	assert.Less(t, strings.Index(prompt, "estimated_damage"), strings.Index(prompt, "policy_number"))
}
