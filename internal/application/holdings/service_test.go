package holdings

import (
	"context"
	"testing"
	"time"

	"wealthdesk-backend/internal/application/portfolios"
	"wealthdesk-backend/internal/domain"
	"wealthdesk-backend/internal/infrastructure/database"
	"wealthdesk-backend/internal/pkg/apperr"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

type holdingsFixture struct {
	svc       *Service
	store     *database.Store
	advisorID uuid.UUID
	portfolio *domain.Portfolio
}

func setupHoldingsTest(t *testing.T) *holdingsFixture {
	t.Helper()
	db, err := database.Open("sqlite://:memory:")
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	store := database.NewStore(db)
	now := func() time.Time { return testNow }

	advisorID := uuid.New()
	p := &domain.Portfolio{
		Name:         "Core",
		Type:         domain.PortfolioModel,
		RiskLevel:    domain.RiskHigh,
		TargetReturn: decimal.NewFromInt(12),
		AdvisorID:    advisorID,
	}
	require.NoError(t, store.Portfolios().Save(context.Background(), p))

	return &holdingsFixture{
		svc: &Service{
			Store:      store,
			Aggregator: &portfolios.Aggregator{Store: store, Now: now},
			Now:        now,
		},
		store:     store,
		advisorID: advisorID,
		portfolio: p,
	}
}

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func day(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func (f *holdingsFixture) input(product domain.ProductType, code, amount string) Input {
	return Input{
		PortfolioID:    f.portfolio.PortfolioID,
		ProductType:    product,
		AssetCode:      code,
		AmountInvested: dec(amount),
		Quantity:       dec("10"),
		PurchaseDate:   day(2024, 1, 15),
	}
}

func (f *holdingsFixture) stats(t *testing.T) domain.PortfolioStats {
	t.Helper()
	p, err := f.store.Portfolios().Get(context.Background(), f.portfolio.PortfolioID)
	require.NoError(t, err)
	return p.Stats
}

func TestCreate_NormalizesAndRecomputes(t *testing.T) {
	f := setupHoldingsTest(t)
	ctx := context.Background()

	h, err := f.svc.Create(ctx, f.advisorID, f.input(domain.ProductEquity, " petr4 ", "1500"))
	require.NoError(t, err)
	assert.Equal(t, "PETR4", h.AssetCode)
	assert.Equal(t, domain.StatusActive, h.Status)
	assert.NotEqual(t, uuid.Nil, h.HoldingID)

	assert.Equal(t, "1500.00", f.stats(t).TotalValue.StringFixed(2))
	assert.True(t, f.stats(t).CurrentReturn.IsZero())
}

func TestCreate_DuplicateCodeIsCaseInsensitive(t *testing.T) {
	f := setupHoldingsTest(t)
	ctx := context.Background()
	_, err := f.svc.Create(ctx, f.advisorID, f.input(domain.ProductEquity, "VALE3", "100"))
	require.NoError(t, err)

	_, err = f.svc.Create(ctx, f.advisorID, f.input(domain.ProductEquity, "vale3", "200"))
	require.Error(t, err)
	assert.True(t, apperr.IsBadRequest(err))
	assert.Equal(t, "100.00", f.stats(t).TotalValue.StringFixed(2))
}

func TestCreate_RejectsMalformedCodeAndReturn(t *testing.T) {
	f := setupHoldingsTest(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, f.advisorID, f.input(domain.ProductCDB, "XYZ1", "100"))
	require.Error(t, err)
	assert.True(t, apperr.IsBadRequest(err))
	assert.Contains(t, err.Error(), "CDB")

	in := f.input(domain.ProductLCI, "LCI001", "100")
	in.CurrentReturn = dec("20.5")
	_, err = f.svc.Create(ctx, f.advisorID, in)
	assert.True(t, apperr.IsBadRequest(err))

	in.CurrentReturn = dec("-50")
	_, err = f.svc.Create(ctx, f.advisorID, in)
	assert.NoError(t, err)
}

func TestCreate_FieldValidation(t *testing.T) {
	f := setupHoldingsTest(t)
	_, err := f.svc.Create(context.Background(), f.advisorID, Input{
		PortfolioID:    f.portfolio.PortfolioID,
		AmountInvested: dec("0"),
		Quantity:       dec("-1"),
		Status:         "SOLD",
	})
	require.Error(t, err)
	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, apperr.KindValidation, ae.Kind)
	for _, field := range []string{"product_type", "asset_code", "amount_invested", "quantity", "purchase_date", "status"} {
		assert.Contains(t, ae.Fields, field)
	}
}

func TestCreate_SaleDateRules(t *testing.T) {
	f := setupHoldingsTest(t)
	ctx := context.Background()

	in := f.input(domain.ProductEquity, "ITUB4", "100")
	in.SaleDate = day(2023, 12, 31)
	_, err := f.svc.Create(ctx, f.advisorID, in)
	assert.True(t, apperr.IsBadRequest(err))

	in.SaleDate = day(2024, 7, 1)
	_, err = f.svc.Create(ctx, f.advisorID, in)
	assert.True(t, apperr.IsBadRequest(err))

	in.SaleDate = day(2024, 1, 15)
	_, err = f.svc.Create(ctx, f.advisorID, in)
	assert.NoError(t, err)
}

func TestCreate_PortfolioOwnership(t *testing.T) {
	f := setupHoldingsTest(t)
	_, err := f.svc.Create(context.Background(), uuid.New(), f.input(domain.ProductEquity, "PETR4", "100"))
	assert.True(t, apperr.IsBadRequest(err))

	in := f.input(domain.ProductEquity, "PETR4", "100")
	in.PortfolioID = uuid.New()
	_, err = f.svc.Create(context.Background(), f.advisorID, in)
	assert.True(t, apperr.IsNotFound(err))
}

func TestClose_UpdatesWeightedReturn(t *testing.T) {
	f := setupHoldingsTest(t)
	ctx := context.Background()
	a, err := f.svc.Create(ctx, f.advisorID, f.input(domain.ProductEquity, "PETR4", "1000"))
	require.NoError(t, err)
	b, err := f.svc.Create(ctx, f.advisorID, f.input(domain.ProductEquity, "VALE3", "3000"))
	require.NoError(t, err)

	closed, err := f.svc.Close(ctx, a.HoldingID, f.advisorID, CloseInput{SaleDate: day(2024, 5, 1), FinalReturn: dec("10")})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusClosed, closed.Status)
	assert.Equal(t, "10.00", f.stats(t).CurrentReturn.StringFixed(2))

	_, err = f.svc.Close(ctx, b.HoldingID, f.advisorID, CloseInput{SaleDate: day(2024, 5, 2), FinalReturn: dec("20")})
	require.NoError(t, err)
	// (10*1000 + 20*3000) / 4000 = 17.5
	assert.Equal(t, "17.50", f.stats(t).CurrentReturn.StringFixed(2))
	assert.Equal(t, "4000.00", f.stats(t).TotalValue.StringFixed(2))

	_, err = f.svc.Close(ctx, b.HoldingID, f.advisorID, CloseInput{SaleDate: day(2024, 5, 2), FinalReturn: dec("20")})
	assert.True(t, apperr.IsBadRequest(err))
}

func TestClose_Validation(t *testing.T) {
	f := setupHoldingsTest(t)
	ctx := context.Background()
	h, err := f.svc.Create(ctx, f.advisorID, f.input(domain.ProductTreasuryBond, "TS2029", "1000"))
	require.NoError(t, err)

	_, err = f.svc.Close(ctx, h.HoldingID, f.advisorID, CloseInput{})
	assert.True(t, apperr.IsValidation(err))

	_, err = f.svc.Close(ctx, h.HoldingID, f.advisorID, CloseInput{SaleDate: day(2024, 5, 1), FinalReturn: dec("15.1")})
	assert.True(t, apperr.IsBadRequest(err))

	_, err = f.svc.Close(ctx, h.HoldingID, f.advisorID, CloseInput{SaleDate: day(2023, 5, 1), FinalReturn: dec("10")})
	assert.True(t, apperr.IsBadRequest(err))

	got, err := f.svc.Get(ctx, h.HoldingID, f.advisorID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusActive, got.Status)
}

func TestUpdate_RecomputesAndKeepsPortfolio(t *testing.T) {
	f := setupHoldingsTest(t)
	ctx := context.Background()
	h, err := f.svc.Create(ctx, f.advisorID, f.input(domain.ProductREIT, "HGLG11", "1000"))
	require.NoError(t, err)

	in := f.input(domain.ProductREIT, "HGLG11", "2500")
	in.PortfolioID = uuid.New()
	in.Status = domain.StatusRedeemed
	in.CurrentReturn = dec("8")
	in.SaleDate = day(2024, 4, 1)
	updated, err := f.svc.Update(ctx, h.HoldingID, f.advisorID, in)
	require.NoError(t, err)
	assert.Equal(t, f.portfolio.PortfolioID, updated.PortfolioID)
	assert.Equal(t, "2500.00", f.stats(t).TotalValue.StringFixed(2))
	assert.Equal(t, "8.00", f.stats(t).CurrentReturn.StringFixed(2))
}

func TestUpdate_DuplicateCodeRollsBack(t *testing.T) {
	f := setupHoldingsTest(t)
	ctx := context.Background()
	_, err := f.svc.Create(ctx, f.advisorID, f.input(domain.ProductEquity, "PETR4", "1000"))
	require.NoError(t, err)
	b, err := f.svc.Create(ctx, f.advisorID, f.input(domain.ProductEquity, "VALE3", "500"))
	require.NoError(t, err)

	_, err = f.svc.Update(ctx, b.HoldingID, f.advisorID, f.input(domain.ProductEquity, "petr4", "9000"))
	assert.True(t, apperr.IsBadRequest(err))
	assert.Equal(t, "1500.00", f.stats(t).TotalValue.StringFixed(2))
}

func TestDelete_Recomputes(t *testing.T) {
	f := setupHoldingsTest(t)
	ctx := context.Background()
	h, err := f.svc.Create(ctx, f.advisorID, f.input(domain.ProductCrypto, "btc", "700"))
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, h.HoldingID, f.advisorID))
	assert.True(t, f.stats(t).TotalValue.IsZero())

	_, err = f.svc.Get(ctx, h.HoldingID, f.advisorID)
	assert.True(t, apperr.IsNotFound(err))
}

func TestList_Filters(t *testing.T) {
	f := setupHoldingsTest(t)
	ctx := context.Background()
	a, err := f.svc.Create(ctx, f.advisorID, f.input(domain.ProductEquity, "PETR4", "1000"))
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, f.advisorID, f.input(domain.ProductEquity, "VALE3", "1000"))
	require.NoError(t, err)
	_, err = f.svc.Close(ctx, a.HoldingID, f.advisorID, CloseInput{SaleDate: day(2024, 2, 1), FinalReturn: dec("3")})
	require.NoError(t, err)

	all, err := f.svc.ListAll(ctx, f.advisorID)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	closed, err := f.svc.ListByStatus(ctx, f.advisorID, domain.StatusClosed)
	require.NoError(t, err)
	require.Len(t, closed, 1)
	assert.Equal(t, "PETR4", closed[0].AssetCode)

	active, err := f.svc.ListByPortfolioAndStatus(ctx, f.advisorID, f.portfolio.PortfolioID, domain.StatusActive)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "VALE3", active[0].AssetCode)

	byPortfolio, err := f.svc.ListByPortfolio(ctx, f.advisorID, f.portfolio.PortfolioID)
	require.NoError(t, err)
	assert.Len(t, byPortfolio, 2)

	other, err := f.svc.ListAll(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, other)

	_, err = f.svc.ListByPortfolio(ctx, uuid.New(), f.portfolio.PortfolioID)
	assert.True(t, apperr.IsBadRequest(err))
}

// racingStore runs onGet once, right after the first holding read made outside
// a transaction, to interleave another request between read and write.
type racingStore struct {
	domain.Store
	onGet func()
}

func (s *racingStore) Holdings() domain.HoldingRepository {
	return &racingHoldings{HoldingRepository: s.Store.Holdings(), store: s}
}

type racingHoldings struct {
	domain.HoldingRepository
	store *racingStore
}

func (r *racingHoldings) Get(ctx context.Context, id uuid.UUID) (*domain.Holding, error) {
	h, err := r.HoldingRepository.Get(ctx, id)
	if hook := r.store.onGet; hook != nil {
		r.store.onGet = nil
		hook()
	}
	return h, err
}

func TestUpdate_AfterConcurrentDeleteIsNotFound(t *testing.T) {
	f := setupHoldingsTest(t)
	ctx := context.Background()
	h, err := f.svc.Create(ctx, f.advisorID, f.input(domain.ProductEquity, "PETR4", "2000"))
	require.NoError(t, err)

	racing := &racingStore{Store: f.store}
	racing.onGet = func() {
		require.NoError(t, f.svc.Delete(ctx, h.HoldingID, f.advisorID))
	}
	f.svc.Store = racing

	_, err = f.svc.Update(ctx, h.HoldingID, f.advisorID, f.input(domain.ProductEquity, "PETR4", "3000"))
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))

	left, err := f.store.Holdings().FindByPortfolio(ctx, f.portfolio.PortfolioID)
	require.NoError(t, err)
	assert.Empty(t, left)
	assert.True(t, f.stats(t).TotalValue.IsZero())
}

func TestClose_ConcurrentSecondCloseRejected(t *testing.T) {
	f := setupHoldingsTest(t)
	ctx := context.Background()
	h, err := f.svc.Create(ctx, f.advisorID, f.input(domain.ProductEquity, "PETR4", "1000"))
	require.NoError(t, err)

	racing := &racingStore{Store: f.store}
	racing.onGet = func() {
		_, err := f.svc.Close(ctx, h.HoldingID, f.advisorID, CloseInput{SaleDate: day(2024, 5, 1), FinalReturn: dec("10")})
		require.NoError(t, err)
	}
	f.svc.Store = racing

	_, err = f.svc.Close(ctx, h.HoldingID, f.advisorID, CloseInput{SaleDate: day(2024, 5, 2), FinalReturn: dec("30")})
	require.Error(t, err)
	assert.True(t, apperr.IsBadRequest(err))

	got, err := f.store.Holdings().Get(ctx, h.HoldingID)
	require.NoError(t, err)
	assert.Equal(t, "10", got.CurrentReturn.Decimal.String())
	assert.Equal(t, "10.00", f.stats(t).CurrentReturn.StringFixed(2))
}

func TestCreate_RejectsExcessPrecision(t *testing.T) {
	f := setupHoldingsTest(t)
	ctx := context.Background()

	in := f.input(domain.ProductEquity, "PETR4", "100.005")
	in.Quantity = dec("1.0000001")
	in.CurrentReturn = dec("3.125")
	_, err := f.svc.Create(ctx, f.advisorID, in)
	require.Error(t, err)
	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	assert.Contains(t, ae.Fields, "amount_invested")
	assert.Contains(t, ae.Fields, "quantity")
	assert.Contains(t, ae.Fields, "current_return")

	h, err := f.svc.Create(ctx, f.advisorID, f.input(domain.ProductEquity, "PETR4", "100.50"))
	require.NoError(t, err)
	_, err = f.svc.Close(ctx, h.HoldingID, f.advisorID, CloseInput{SaleDate: day(2024, 5, 1), FinalReturn: dec("7.777")})
	require.Error(t, err)
	assert.True(t, apperr.IsValidation(err))
}
