package analytics

import (
	"testing"

	"wealthdesk-backend/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func holding(product domain.ProductType, amount, ret string, status domain.HoldingStatus) domain.Holding {
	h := domain.Holding{
		ProductType:    product,
		AmountInvested: decimal.RequireFromString(amount),
		Status:         status,
	}
	if ret != "" {
		h.CurrentReturn = decimal.NewNullDecimal(decimal.RequireFromString(ret))
	}
	return h
}

func TestStats_Empty(t *testing.T) {
	s := Stats(nil)
	assert.True(t, s.TotalValue.IsZero())
	assert.True(t, s.CurrentReturn.IsZero())
}

func TestStats_OnlyFinalizedCountTowardReturn(t *testing.T) {
	s := Stats([]domain.Holding{
		holding(domain.ProductEquity, "1000", "10", domain.StatusClosed),
		holding(domain.ProductEquity, "500", "0", domain.StatusActive),
	})
	assert.Equal(t, "1500.00", s.TotalValue.StringFixed(2))
	assert.Equal(t, "10.00", s.CurrentReturn.StringFixed(2))
}

func TestWeightedReturn_TwoClosed(t *testing.T) {
	got := WeightedReturn([]domain.Holding{
		holding(domain.ProductCDB, "1000", "10", domain.StatusClosed),
		holding(domain.ProductCDB, "1000", "20", domain.StatusRedeemed),
	})
	assert.Equal(t, "15.00", got.StringFixed(2))
}

func TestWeightedReturn_NullReturnCountsAsZero(t *testing.T) {
	got := WeightedReturn([]domain.Holding{
		holding(domain.ProductFund, "1000", "", domain.StatusClosed),
		holding(domain.ProductFund, "1000", "9", domain.StatusClosed),
	})
	assert.Equal(t, "4.50", got.StringFixed(2))
}

func TestWeightedReturn_RoundsHalfUp(t *testing.T) {
	// The exact mean of 3.33 and 3.34 is 3.335.
	got := WeightedReturn([]domain.Holding{
		holding(domain.ProductOther, "1", "3.33", domain.StatusClosed),
		holding(domain.ProductOther, "1", "3.34", domain.StatusClosed),
	})
	assert.Equal(t, "3.34", got.StringFixed(2))

	neg := WeightedReturn([]domain.Holding{
		holding(domain.ProductOther, "1", "-3.33", domain.StatusClosed),
		holding(domain.ProductOther, "1", "-3.34", domain.StatusClosed),
	})
	assert.Equal(t, "-3.34", neg.StringFixed(2))
}

func TestWeightedReturn_NoFinalized(t *testing.T) {
	got := WeightedReturn([]domain.Holding{holding(domain.ProductEquity, "900", "50", domain.StatusActive)})
	assert.True(t, got.IsZero())
}

func TestBreakdown(t *testing.T) {
	b := Breakdown([]domain.Holding{
		holding(domain.ProductEquity, "100", "", domain.StatusActive),
		holding(domain.ProductREIT, "200", "", domain.StatusActive),
		holding(domain.ProductCDB, "10", "", domain.StatusActive),
		holding(domain.ProductLCI, "20", "", domain.StatusActive),
		holding(domain.ProductLCA, "30", "", domain.StatusActive),
		holding(domain.ProductTreasuryBond, "40", "", domain.StatusActive),
		holding(domain.ProductFund, "300", "", domain.StatusActive),
		holding(domain.ProductCrypto, "400", "", domain.StatusActive),
		holding(domain.ProductOther, "500", "", domain.StatusActive),
	})
	assert.Equal(t, "100", b.Equity.String())
	assert.Equal(t, "200", b.REIT.String())
	assert.Equal(t, "100", b.FixedIncome.String())
	assert.Equal(t, "300", b.Fund.String())
	assert.Equal(t, "400", b.Crypto.String())
	assert.Equal(t, "500", b.Other.String())
}

func TestCountByStatus(t *testing.T) {
	c := CountByStatus([]domain.Holding{
		holding(domain.ProductEquity, "1", "", domain.StatusActive),
		holding(domain.ProductEquity, "1", "", domain.StatusActive),
		holding(domain.ProductEquity, "1", "", domain.StatusClosed),
		holding(domain.ProductEquity, "1", "", domain.StatusRedeemed),
	})
	assert.Equal(t, domain.StatusCounts{Active: 2, Closed: 1, Redeemed: 1}, c)
}

func TestAssessAlert(t *testing.T) {
	d := decimal.NewFromInt
	cases := []struct {
		name       string
		portfolios int
		invested   decimal.Decimal
		ret        decimal.Decimal
		level      domain.AlertLevel
		msg        string
	}{
		{"no portfolios", 0, d(50000), d(30), domain.AlertHigh, MsgNoPortfolios},
		{"low amount wins over low return", 1, d(500), d(0), domain.AlertMedium, MsgLowInvestment},
		{"below expectation", 2, d(5000), decimal.RequireFromString("4.99"), domain.AlertMedium, MsgBelowExpectation},
		{"satisfactory lower bound", 1, d(1000), d(5), domain.AlertLow, MsgSatisfactory},
		{"excellent", 1, d(5000), d(20), domain.AlertLow, MsgExcellent},
		{"excellent at threshold", 1, d(5000), d(15), domain.AlertLow, MsgExcellent},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a := AssessAlert(tc.portfolios, tc.invested, tc.ret)
			assert.Equal(t, tc.level, a.Level)
			assert.Equal(t, tc.msg, a.Message)
		})
	}
}
