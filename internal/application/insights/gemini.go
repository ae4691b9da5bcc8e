package insights

import (
	"context"
	"fmt"
	"strings"

	"wealthdesk-backend/internal/domain"
	"wealthdesk-backend/internal/pkg/brl"

	"github.com/rs/zerolog/log"
	"google.golang.org/genai"
)

const DefaultGeminiModel = "gemini-2.5-flash"

// TextModel turns a prompt into text.
type TextModel interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// GeminiModel is a TextModel backed by the Gemini API.
type GeminiModel struct {
	client *genai.Client
	model  string
}

func NewGeminiModel(ctx context.Context, apiKey, model string) (*GeminiModel, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	if model == "" {
		model = DefaultGeminiModel
	}
	return &GeminiModel{client: client, model: model}, nil
}

func (m *GeminiModel) GenerateContent(ctx context.Context, prompt string) (string, error) {
	result, err := m.client.Models.GenerateContent(ctx, m.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	if len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return "", fmt.Errorf("no content generated")
	}
	var sb strings.Builder
	for _, part := range result.Candidates[0].Content.Parts {
		if part != nil && part.Text != "" {
			sb.WriteString(part.Text)
		}
	}
	return sb.String(), nil
}

// GeminiGenerator asks an LLM for advice and falls back to Fallback when the
// call fails or returns nothing.
type GeminiGenerator struct {
	Model    TextModel
	Fallback Generator
}

func (g *GeminiGenerator) Name() string { return "gemini" }

func (g *GeminiGenerator) Generate(ctx context.Context, req Request) (Result, error) {
	if req.Investor == nil {
		return Result{}, fmt.Errorf("investor is required")
	}
	text, err := g.Model.GenerateContent(ctx, Prompt(req))
	text = strings.TrimSpace(text)
	if err == nil && text != "" {
		return Result{Text: text, Type: domain.InsightSuggestion, By: g.Name()}, nil
	}
	if g.Fallback == nil {
		if err == nil {
			err = fmt.Errorf("empty response")
		}
		return Result{}, err
	}
	log.Warn().Err(err).Str("investor_id", req.Investor.InvestorID.String()).Msg("gemini insight failed, using fallback")
	return g.Fallback.Generate(ctx, req)
}

// Prompt describes the investor, and the report when present, for an LLM.
func Prompt(req Request) string {
	inv := req.Investor
	var sb strings.Builder
	sb.WriteString("You are a financial advisor assistant in Brazil. Write one short, practical recommendation (at most 80 words) for the investor below. Do not invent figures.\n\n")
	fmt.Fprintf(&sb, "Name: %s\n", inv.Name)
	fmt.Fprintf(&sb, "Risk profile: %s\n", inv.RiskProfile)
	fmt.Fprintf(&sb, "Net worth: %s\n", brl.Format(inv.NetWorth))
	fmt.Fprintf(&sb, "Monthly income: %s\n", brl.Format(inv.MonthlyIncome))
	if inv.Objectives != "" {
		fmt.Fprintf(&sb, "Objectives: %s\n", inv.Objectives)
	}
	if r := req.Report; r != nil {
		fmt.Fprintf(&sb, "Portfolios: %d, holdings: %d\n", r.TotalPortfolios, r.TotalHoldings)
		fmt.Fprintf(&sb, "Total invested: %s\n", brl.Format(r.TotalInvested))
		fmt.Fprintf(&sb, "Weighted return of closed positions: %s%%\n", r.WeightedReturn.StringFixed(2))
		fmt.Fprintf(&sb, "Current alert: %s - %s\n", r.Alert.Level, r.Alert.Message)
	}
	return sb.String()
}
