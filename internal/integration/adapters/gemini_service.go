// Package adapters provides implementations for external service integrations.
package adapters

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/storeledger/backend/internal/application/adapter"
)

// GeminiService implements the AdviceService using Google Gemini.
type GeminiService struct {
	apiKey    string
	modelName string
}

// NewGeminiService creates a new Gemini service instance.
func NewGeminiService(apiKey, modelName string) *GeminiService {
	if modelName == "" {
		modelName = "gemini-2.5-flash-lite"
	}
	return &GeminiService{
		apiKey:    apiKey,
		modelName: modelName,
	}
}

// IsAvailable checks if the Gemini service is available and properly configured.
func (s *GeminiService) IsAvailable() bool {
	return s.apiKey != ""
}

// Answer asks the model for a short narrative answer grounded on the
// period figures carried by the request.
func (s *GeminiService) Answer(ctx context.Context, request *adapter.AdviceRequest) (string, error) {
	if !s.IsAvailable() {
		return "", fmt.Errorf("gemini service is not configured")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(s.apiKey))
	if err != nil {
		return "", fmt.Errorf("failed to create gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(s.modelName)
	model.SetTemperature(0.4)

	resp, err := model.GenerateContent(ctx, genai.Text(s.buildPrompt(request)))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	answer := extractText(resp)
	if answer == "" {
		return "", fmt.Errorf("gemini returned an empty answer")
	}
	return answer, nil
}

// buildPrompt creates the prompt for Gemini.
func (s *GeminiService) buildPrompt(request *adapter.AdviceRequest) string {
	var sb strings.Builder

	sb.WriteString(`You are a pragmatic CFO advising the owner of a small neighborhood minimarket.
Answer the owner's question in at most four sentences, in the language the question was asked in.
Ground every statement on the figures below; never invent numbers. Be concrete about what to do next.

`)
	sb.WriteString(fmt.Sprintf("Period: %s\n", request.PeriodLabel))
	sb.WriteString(fmt.Sprintf("Total sales: $%s (%s%% vs previous period)\n", request.TotalSales, request.SalesChangePct))
	sb.WriteString(fmt.Sprintf("Total expenses: $%s\n", request.TotalExpenses))
	sb.WriteString(fmt.Sprintf("Total payroll: $%s\n", request.TotalPayroll))
	sb.WriteString(fmt.Sprintf("Gross margin: %s%%\n", request.GrossMarginPct))
	sb.WriteString(fmt.Sprintf("Net profit: $%s\n", request.NetProfit))
	sb.WriteString("\nQuestion: ")
	sb.WriteString(request.Question)

	return sb.String()
}

func extractText(resp *genai.GenerateContentResponse) string {
	var sb strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				sb.WriteString(string(text))
			}
		}
	}
	return strings.TrimSpace(sb.String())
}
