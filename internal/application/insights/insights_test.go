package insights

import (
	"context"
	"errors"
	"strings"
	"testing"

	"wealthdesk-backend/internal/domain"
	"wealthdesk-backend/internal/infrastructure/database"
	"wealthdesk-backend/internal/pkg/apperr"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeModel struct {
	text   string
	err    error
	prompt string
}

func (m *fakeModel) GenerateContent(_ context.Context, prompt string) (string, error) {
	m.prompt = prompt
	return m.text, m.err
}

type fixedReport struct{ r *domain.InvestorReport }

func (f fixedReport) BuildReport(context.Context, uuid.UUID, uuid.UUID) (*domain.InvestorReport, error) {
	return f.r, nil
}

func investor(profile domain.RiskProfile) *domain.Investor {
	return &domain.Investor{
		InvestorID:    uuid.New(),
		Name:          "Maria Silva",
		RiskProfile:   profile,
		NetWorth:      decimal.RequireFromString("250000"),
		MonthlyIncome: decimal.RequireFromString("12000.50"),
	}
}

func TestTemplateGenerator_EveryProfile(t *testing.T) {
	g := NewTemplateGenerator(42)
	for _, p := range []domain.RiskProfile{domain.ProfileConservative, domain.ProfileModerate, domain.ProfileAggressive} {
		for i := 0; i < 10; i++ {
			res, err := g.Generate(context.Background(), Request{Investor: investor(p)})
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(res.Text, "Maria Silva,"), res.Text)
			assert.NotContains(t, res.Text, "%!")
			assert.Contains(t, domain.InsightTypes, res.Type)
			assert.Equal(t, "template", res.By)
		}
	}
}

func TestTemplateGenerator_UnknownProfile(t *testing.T) {
	_, err := NewTemplateGenerator(1).Generate(context.Background(), Request{Investor: investor("RECKLESS")})
	assert.Error(t, err)
}

func TestGeminiGenerator_UsesModelOutput(t *testing.T) {
	model := &fakeModel{text: "  Diversify into LCI.  "}
	g := &GeminiGenerator{Model: model, Fallback: NewTemplateGenerator(1)}
	report := &domain.InvestorReport{
		TotalPortfolios: 2,
		TotalInvested:   decimal.RequireFromString("1234.56"),
		WeightedReturn:  decimal.RequireFromString("7.5"),
		Alert:           domain.Alert{Level: domain.AlertLow, Message: "ok"},
	}

	res, err := g.Generate(context.Background(), Request{Investor: investor(domain.ProfileModerate), Report: report})
	require.NoError(t, err)
	assert.Equal(t, "Diversify into LCI.", res.Text)
	assert.Equal(t, "gemini", res.By)
	assert.Contains(t, model.prompt, "Risk profile: MODERATE")
	assert.Contains(t, model.prompt, "R$250.000,00")
	assert.Contains(t, model.prompt, "R$1.234,56")
	assert.Contains(t, model.prompt, "7.50%")
}

func TestGeminiGenerator_FallsBack(t *testing.T) {
	for _, model := range []*fakeModel{{err: errors.New("quota exceeded")}, {text: "   "}} {
		g := &GeminiGenerator{Model: model, Fallback: NewTemplateGenerator(1)}
		res, err := g.Generate(context.Background(), Request{Investor: investor(domain.ProfileConservative)})
		require.NoError(t, err)
		assert.Equal(t, "template", res.By)
		assert.NotEmpty(t, res.Text)
	}

	g := &GeminiGenerator{Model: &fakeModel{err: errors.New("down")}}
	_, err := g.Generate(context.Background(), Request{Investor: investor(domain.ProfileConservative)})
	assert.Error(t, err)
}

func TestService_GenerateAndList(t *testing.T) {
	db, err := database.Open("sqlite://:memory:")
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	store := database.NewStore(db)
	ctx := context.Background()

	advisorID := uuid.New()
	inv := investor(domain.ProfileAggressive)
	inv.TaxID = "52998224725"
	inv.AdvisorID = advisorID
	require.NoError(t, store.Investors().Save(ctx, inv))

	model := &fakeModel{err: errors.New("offline")}
	svc := &Service{
		Store:     store,
		Generator: &GeminiGenerator{Model: model, Fallback: NewTemplateGenerator(7)},
		Reports:   fixedReport{r: &domain.InvestorReport{TotalPortfolios: 3}},
	}

	first, err := svc.Generate(ctx, inv.InvestorID, advisorID)
	require.NoError(t, err)
	assert.Equal(t, "template", first.GeneratedBy)
	assert.Contains(t, model.prompt, "Portfolios: 3")

	model.err = nil
	model.text = "Keep a cash cushion."
	second, err := svc.Generate(ctx, inv.InvestorID, advisorID)
	require.NoError(t, err)
	assert.Equal(t, "gemini", second.GeneratedBy)
	assert.Equal(t, domain.InsightSuggestion, second.Type)

	list, err := svc.List(ctx, inv.InvestorID, advisorID)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	_, err = svc.Generate(ctx, inv.InvestorID, uuid.New())
	assert.True(t, apperr.IsBadRequest(err))
	_, err = svc.List(ctx, uuid.New(), advisorID)
	assert.True(t, apperr.IsNotFound(err))
}
