package reports

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"wealthdesk-backend/internal/application/analytics"
	"wealthdesk-backend/internal/domain"
	"wealthdesk-backend/internal/infrastructure/database"
	"wealthdesk-backend/internal/pkg/apperr"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reportsFixture struct {
	store     *database.Store
	builder   *Builder
	svc       *Service
	mr        *miniredis.Miniredis
	advisorID uuid.UUID
	investor  *domain.Investor
}

func setupReportsTest(t *testing.T) *reportsFixture {
	t.Helper()
	db, err := database.Open("sqlite://:memory:")
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	store := database.NewStore(db)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	advisorID := uuid.New()
	inv := &domain.Investor{
		Name:        "Maria Silva",
		TaxID:       "52998224725",
		RiskProfile: domain.ProfileAggressive,
		NetWorth:    decimal.NewFromInt(500000),
		AdvisorID:   advisorID,
	}
	require.NoError(t, store.Investors().Save(context.Background(), inv))

	builder := &Builder{
		Store: store,
		Cache: &Cache{Rdb: rdb, TTL: time.Minute},
		Now:   func() time.Time { return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) },
	}
	return &reportsFixture{
		store:     store,
		builder:   builder,
		svc:       &Service{Builder: builder, Store: store},
		mr:        mr,
		advisorID: advisorID,
		investor:  inv,
	}
}

func (f *reportsFixture) portfolio(t *testing.T, name string) uuid.UUID {
	t.Helper()
	p := &domain.Portfolio{
		Name: name, Type: domain.PortfolioCustom, RiskLevel: domain.RiskHigh,
		TargetReturn: decimal.NewFromInt(10), InvestorID: &f.investor.InvestorID, AdvisorID: f.advisorID,
	}
	require.NoError(t, f.store.Portfolios().Save(context.Background(), p))
	return p.PortfolioID
}

func (f *reportsFixture) holding(t *testing.T, portfolioID uuid.UUID, product domain.ProductType, code, amount string, status domain.HoldingStatus, ret string) {
	t.Helper()
	h := &domain.Holding{
		PortfolioID:    portfolioID,
		ProductType:    product,
		AssetCode:      code,
		AmountInvested: decimal.RequireFromString(amount),
		Quantity:       decimal.NewFromInt(1),
		PurchaseDate:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Status:         status,
	}
	if ret != "" {
		h.CurrentReturn = decimal.NewNullDecimal(decimal.RequireFromString(ret))
	}
	require.NoError(t, f.store.Holdings().Save(context.Background(), h))
}

func TestBuildReport_NoPortfolios(t *testing.T) {
	f := setupReportsTest(t)
	f.builder.Cache = nil

	r, err := f.builder.BuildReport(context.Background(), f.investor.InvestorID, f.advisorID)
	require.NoError(t, err)
	assert.Equal(t, 0, r.TotalPortfolios)
	assert.Equal(t, 0, r.TotalHoldings)
	assert.True(t, r.TotalInvested.IsZero())
	assert.Equal(t, domain.AlertHigh, r.Alert.Level)
	assert.Equal(t, analytics.MsgNoPortfolios, r.Alert.Message)
}

func TestBuildReport_AlertLadder(t *testing.T) {
	cases := []struct {
		name   string
		amount string
		ret    string
		level  domain.AlertLevel
		msg    string
	}{
		{"low amount wins over return", "999.99", "50", domain.AlertMedium, analytics.MsgLowInvestment},
		{"below expectation", "2000", "4.99", domain.AlertMedium, analytics.MsgBelowExpectation},
		{"satisfactory", "2000", "5", domain.AlertLow, analytics.MsgSatisfactory},
		{"excellent", "2000", "15", domain.AlertLow, analytics.MsgExcellent},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := setupReportsTest(t)
			f.builder.Cache = nil
			pid := f.portfolio(t, "Main")
			f.holding(t, pid, domain.ProductEquity, "PETR4", tc.amount, domain.StatusClosed, tc.ret)

			r, err := f.builder.BuildReport(context.Background(), f.investor.InvestorID, f.advisorID)
			require.NoError(t, err)
			assert.Equal(t, tc.level, r.Alert.Level)
			assert.Equal(t, tc.msg, r.Alert.Message)
		})
	}
}

func TestBuildReport_RollsUpAcrossPortfolios(t *testing.T) {
	f := setupReportsTest(t)
	a := f.portfolio(t, "A")
	b := f.portfolio(t, "B")
	f.holding(t, a, domain.ProductEquity, "PETR4", "1000", domain.StatusClosed, "10")
	f.holding(t, a, domain.ProductCDB, "CDB001", "2000", domain.StatusActive, "")
	f.holding(t, b, domain.ProductLCA, "LCA001", "500", domain.StatusRedeemed, "6")
	f.holding(t, b, domain.ProductREIT, "HGLG11", "1500", domain.StatusClosed, "")
	f.holding(t, b, domain.ProductCrypto, "BTC", "100", domain.StatusActive, "")

	r, err := f.builder.BuildReport(context.Background(), f.investor.InvestorID, f.advisorID)
	require.NoError(t, err)
	assert.Equal(t, 2, r.TotalPortfolios)
	assert.Equal(t, 5, r.TotalHoldings)
	assert.Equal(t, "5100.00", r.TotalInvested.StringFixed(2))
	// (10*1000 + 6*500 + 0*1500) / 3000 = 4.333.. -> 4.33
	assert.Equal(t, "4.33", r.WeightedReturn.StringFixed(2))
	assert.Equal(t, "1000.00", r.Breakdown.Equity.StringFixed(2))
	assert.Equal(t, "2500.00", r.Breakdown.FixedIncome.StringFixed(2))
	assert.Equal(t, "1500.00", r.Breakdown.REIT.StringFixed(2))
	assert.Equal(t, "100.00", r.Breakdown.Crypto.StringFixed(2))
	assert.True(t, r.Breakdown.Fund.IsZero())
	assert.Equal(t, domain.StatusCounts{Active: 2, Closed: 2, Redeemed: 1}, r.Statuses)
	assert.Equal(t, domain.AlertMedium, r.Alert.Level)
	assert.Equal(t, analytics.MsgBelowExpectation, r.Alert.Message)
}

func TestBuildReport_OwnershipAndNotFound(t *testing.T) {
	f := setupReportsTest(t)
	_, err := f.builder.BuildReport(context.Background(), f.investor.InvestorID, uuid.New())
	assert.True(t, apperr.IsBadRequest(err))

	_, err = f.builder.BuildReport(context.Background(), uuid.New(), f.advisorID)
	assert.True(t, apperr.IsNotFound(err))
}

func TestBuildReport_CacheAndInvalidate(t *testing.T) {
	f := setupReportsTest(t)
	ctx := context.Background()
	pid := f.portfolio(t, "Main")
	f.holding(t, pid, domain.ProductEquity, "PETR4", "1000", domain.StatusActive, "")

	first, err := f.builder.BuildReport(ctx, f.investor.InvestorID, f.advisorID)
	require.NoError(t, err)
	assert.True(t, f.mr.Exists(cacheKey(f.investor.InvestorID)))
	assert.Equal(t, time.Minute, f.mr.TTL(cacheKey(f.investor.InvestorID)))

	f.holding(t, pid, domain.ProductEquity, "VALE3", "4000", domain.StatusActive, "")
	cached, err := f.builder.BuildReport(ctx, f.investor.InvestorID, f.advisorID)
	require.NoError(t, err)
	assert.Equal(t, first.TotalInvested.StringFixed(2), cached.TotalInvested.StringFixed(2))

	f.builder.Cache.Invalidate(ctx, f.investor.InvestorID)
	assert.False(t, f.mr.Exists(cacheKey(f.investor.InvestorID)))
	fresh, err := f.builder.BuildReport(ctx, f.investor.InvestorID, f.advisorID)
	require.NoError(t, err)
	assert.Equal(t, "5000.00", fresh.TotalInvested.StringFixed(2))
}

func TestCache_SurvivesRedisOutage(t *testing.T) {
	f := setupReportsTest(t)
	f.mr.Close()

	r, err := f.builder.BuildReport(context.Background(), f.investor.InvestorID, f.advisorID)
	require.NoError(t, err)
	assert.Equal(t, domain.AlertHigh, r.Alert.Level)
}

func TestSnapshots(t *testing.T) {
	f := setupReportsTest(t)
	ctx := context.Background()
	pid := f.portfolio(t, "Main")
	f.holding(t, pid, domain.ProductFund, "ITAU1234", "3000", domain.StatusRedeemed, "12")

	snap, err := f.svc.SaveSnapshot(ctx, f.investor.InvestorID, f.advisorID)
	require.NoError(t, err)
	assert.Equal(t, domain.ReportInvestor, snap.Kind)
	assert.Equal(t, "12.00", snap.WeightedReturn.StringFixed(2))

	var summary map[string]interface{}
	require.NoError(t, json.Unmarshal(snap.Summary, &summary))
	assert.Equal(t, "Maria Silva", summary["name"])

	list, err := f.svc.ListSnapshots(ctx, f.investor.InvestorID, f.advisorID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, snap.SnapshotID, list[0].SnapshotID)
	assert.Equal(t, "3000.00", list[0].TotalInvested.StringFixed(2))

	_, err = f.svc.ListSnapshots(ctx, f.investor.InvestorID, uuid.New())
	assert.True(t, apperr.IsBadRequest(err))
}

// buildHookStore calls onFind once, after the builder has read the
// portfolios and before it reads their holdings.
type buildHookStore struct {
	domain.Store
	onFind func()
}

func (s *buildHookStore) Holdings() domain.HoldingRepository {
	return &buildHookHoldings{HoldingRepository: s.Store.Holdings(), store: s}
}

type buildHookHoldings struct {
	domain.HoldingRepository
	store *buildHookStore
}

func (r *buildHookHoldings) FindByPortfolios(ctx context.Context, ids []uuid.UUID) ([]domain.Holding, error) {
	out, err := r.HoldingRepository.FindByPortfolios(ctx, ids)
	if hook := r.store.onFind; hook != nil {
		r.store.onFind = nil
		hook()
	}
	return out, err
}

func TestBuildReport_MutationDuringBuildIsNotCached(t *testing.T) {
	f := setupReportsTest(t)
	ctx := context.Background()
	pid := f.portfolio(t, "Main")
	f.holding(t, pid, domain.ProductEquity, "PETR4", "500", domain.StatusActive, "")

	hooked := &buildHookStore{Store: f.store}
	hooked.onFind = func() {
		f.holding(t, pid, domain.ProductEquity, "VALE3", "4500", domain.StatusActive, "")
		f.builder.Cache.Invalidate(ctx, f.investor.InvestorID)
	}
	f.builder.Store = hooked

	stale, err := f.builder.BuildReport(ctx, f.investor.InvestorID, f.advisorID)
	require.NoError(t, err)
	assert.Equal(t, "500.00", stale.TotalInvested.StringFixed(2))
	assert.False(t, f.mr.Exists(cacheKey(f.investor.InvestorID)))

	fresh, err := f.builder.BuildReport(ctx, f.investor.InvestorID, f.advisorID)
	require.NoError(t, err)
	assert.Equal(t, "5000.00", fresh.TotalInvested.StringFixed(2))
	assert.Equal(t, domain.AlertMedium, fresh.Alert.Level)
	assert.True(t, f.mr.Exists(cacheKey(f.investor.InvestorID)))
}

func TestCache_InvalidateBumpsGeneration(t *testing.T) {
	f := setupReportsTest(t)
	ctx := context.Background()
	c := f.builder.Cache

	gen, ok := c.Generation(ctx, f.investor.InvestorID)
	require.True(t, ok)
	c.Invalidate(ctx, f.investor.InvestorID)

	c.Set(ctx, &domain.InvestorReport{InvestorID: f.investor.InvestorID}, gen)
	assert.False(t, f.mr.Exists(cacheKey(f.investor.InvestorID)))

	next, ok := c.Generation(ctx, f.investor.InvestorID)
	require.True(t, ok)
	assert.Equal(t, gen+1, next)
	c.Set(ctx, &domain.InvestorReport{InvestorID: f.investor.InvestorID}, next)
	assert.True(t, f.mr.Exists(cacheKey(f.investor.InvestorID)))
}
