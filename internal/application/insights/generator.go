package insights

import (
	"context"
	"fmt"
	"math/rand"
	"sync"

	"wealthdesk-backend/internal/domain"
	"wealthdesk-backend/internal/pkg/brl"
)

// Request is what a generator sees about an investor. Report is nil when the
// investor has no report yet.
type Request struct {
	Investor *domain.Investor
	Report   *domain.InvestorReport
}

// Result is a generated text. By names the generator that actually wrote it.
type Result struct {
	Text string
	Type domain.InsightType
	By   string
}

// Generator produces advice for one investor.
type Generator interface {
	Name() string
	Generate(ctx context.Context, req Request) (Result, error)
}

type template struct {
	kind domain.InsightType
	text string // %[1]s name, %[2]s net worth, %[3]s monthly income
}

var templates = map[domain.RiskProfile][]template{
	domain.ProfileConservative: {
		{domain.InsightSuggestion, "%[1]s, with a conservative profile the focus is capital preservation. Keep most of the %[2]s net worth in fixed income such as CDB, LCI, LCA and treasury bonds, and hold a liquid emergency reserve."},
		{domain.InsightRisk, "%[1]s, avoid concentrated equity or crypto positions. Low-risk portfolios fit a conservative profile; review any holding whose return swings more than a few points a year."},
		{domain.InsightOpportunity, "%[1]s, tax-exempt LCI and LCA notes can raise net returns without adding risk. Consider directing part of the %[3]s monthly income to them."},
	},
	domain.ProfileModerate: {
		{domain.InsightSuggestion, "%[1]s, a moderate profile suits a balanced split: roughly 50%% fixed income, 30%% equities and REITs, 20%% funds. Rebalance when any bucket drifts more than 5 points."},
		{domain.InsightOpportunity, "%[1]s, REITs can add monthly income to a moderate portfolio. With %[3]s of monthly income, a regular contribution plan smooths entry prices."},
		{domain.InsightSummary, "%[1]s, the moderate profile allows LOW and MODERATE risk portfolios. Keep the %[2]s net worth diversified across at least three product types."},
	},
	domain.ProfileAggressive: {
		{domain.InsightOpportunity, "%[1]s, an aggressive profile can hold a larger share of equities and a small crypto allocation. Size each position so a single loss does not exceed 5%% of the %[2]s net worth."},
		{domain.InsightRisk, "%[1]s, high-risk portfolios need a fixed-income cushion. Keep at least six months of the %[3]s monthly income outside volatile assets."},
		{domain.InsightSuggestion, "%[1]s, review closed positions regularly and recycle gains into new opportunities while keeping the overall allocation within the target risk level."},
	},
}

// TemplateGenerator picks one of the canned texts for the investor's profile.
type TemplateGenerator struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func NewTemplateGenerator(seed int64) *TemplateGenerator {
	return &TemplateGenerator{rnd: rand.New(rand.NewSource(seed))}
}

func (g *TemplateGenerator) Name() string { return "template" }

func (g *TemplateGenerator) pick(n int) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.rnd == nil {
		g.rnd = rand.New(rand.NewSource(1))
	}
	return g.rnd.Intn(n)
}

func (g *TemplateGenerator) Generate(_ context.Context, req Request) (Result, error) {
	if req.Investor == nil {
		return Result{}, fmt.Errorf("investor is required")
	}
	options, ok := templates[req.Investor.RiskProfile]
	if !ok {
		return Result{}, fmt.Errorf("no templates for risk profile %q", req.Investor.RiskProfile)
	}
	t := options[g.pick(len(options))]
	return Result{
		Text: fmt.Sprintf(t.text, req.Investor.Name, brl.Format(req.Investor.NetWorth), brl.Format(req.Investor.MonthlyIncome)),
		Type: t.kind,
		By:   g.Name(),
	}, nil
}
