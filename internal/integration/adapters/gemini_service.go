// Package adapters provides implementations for external service integrations.
package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/shopspring/decimal"
	"google.golang.org/api/option"

	"github.com/budgetflow/backend/internal/application/adapter"
)

// GeminiService implements the BudgetSuggestionService using Google Gemini.
type GeminiService struct {
	apiKey    string
	modelName string
}

// NewGeminiService creates a new Gemini service instance.
func NewGeminiService(apiKey string) *GeminiService {
	return &GeminiService{
		apiKey:    apiKey,
		modelName: "gemini-2.5-flash-lite",
	}
}

// IsAvailable checks if the Gemini service is available and properly configured.
func (s *GeminiService) IsAvailable() bool {
	return s.apiKey != ""
}

// SuggestAmount asks the model for a budget amount proposal based on the
// past generated amounts for a category.
func (s *GeminiService) SuggestAmount(ctx context.Context, request *adapter.SuggestionRequest) (*adapter.SuggestionResult, error) {
	if !s.IsAvailable() {
		return nil, fmt.Errorf("gemini service is not configured")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(s.apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(s.modelName)

	// Configure model for JSON output
	model.SetTemperature(0.3)
	model.ResponseMIMEType = "application/json"

	prompt := s.buildPrompt(request)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}

	result, err := s.parseResponse(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return result, nil
}

// buildPrompt creates the prompt for Gemini.
func (s *GeminiService) buildPrompt(request *adapter.SuggestionRequest) string {
	var sb strings.Builder

	sb.WriteString(`You are a personal finance assistant. Propose a budget amount for the next period of a recurring budget.

RULES:
- Base the proposal on the historical amounts below, newest first.
- Smooth out one-off spikes; do not simply repeat the latest value.
- Round to a sensible figure for the currency.
- Keep the rationale to one short sentence.

Respond with a single JSON object:
{"amount": "123.45", "rationale": "..."}

`)

	sb.WriteString(fmt.Sprintf("Category: %s\n", request.CategoryName))
	sb.WriteString(fmt.Sprintf("Currency: %s\n", request.Currency))
	sb.WriteString("Historical amounts (newest first):\n")
	for _, amount := range request.PastAmounts {
		sb.WriteString(fmt.Sprintf("- %s\n", amount.StringFixed(2)))
	}

	return sb.String()
}

// geminiSuggestion mirrors the JSON object the model is asked to produce.
type geminiSuggestion struct {
	Amount    string `json:"amount"`
	Rationale string `json:"rationale"`
}

// parseResponse parses the Gemini response into a SuggestionResult.
func (s *GeminiService) parseResponse(resp *genai.GenerateContentResponse) (*adapter.SuggestionResult, error) {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("empty response from gemini")
	}

	var textContent string
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			textContent = string(text)
			break
		}
	}

	if textContent == "" {
		return nil, fmt.Errorf("no text content in response")
	}

	// Clean the response (remove markdown code blocks if present)
	textContent = strings.TrimPrefix(textContent, "```json")
	textContent = strings.TrimPrefix(textContent, "```")
	textContent = strings.TrimSuffix(textContent, "```")
	textContent = strings.TrimSpace(textContent)

	var suggestion geminiSuggestion
	if err := json.Unmarshal([]byte(textContent), &suggestion); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w, content: %s", err, textContent)
	}

	amount, err := decimal.NewFromString(suggestion.Amount)
	if err != nil {
		return nil, fmt.Errorf("model returned a non-numeric amount %q: %w", suggestion.Amount, err)
	}
	if amount.IsNegative() {
		return nil, fmt.Errorf("model returned a negative amount %s", amount)
	}

	return &adapter.SuggestionResult{
		Amount:    amount,
		Rationale: suggestion.Rationale,
	}, nil
}
