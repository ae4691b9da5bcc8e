// Package analytics holds the pure rollup math shared by the portfolio
// aggregator and the investor report builder.
package analytics

import (
	"wealthdesk-backend/internal/domain"

	"github.com/shopspring/decimal"
)

// ReturnPlaces is the precision of every computed return, in decimal places.
const ReturnPlaces = 2

// Alert thresholds; fixed by product decision.
var (
	LowInvestmentThreshold = decimal.NewFromInt(1000)
	BelowExpectationReturn = decimal.NewFromInt(5)
	SatisfactoryReturn     = decimal.NewFromInt(15)
)

const (
	MsgNoPortfolios     = "Investor has no portfolios yet. Create a portfolio to start investing."
	MsgLowInvestment    = "Invested amount is low. Consider increasing contributions gradually."
	MsgBelowExpectation = "Return is below expectation. Review the investment strategy."
	MsgSatisfactory     = "Return is within satisfactory parameters. Keep monitoring."
	MsgExcellent        = "Excellent performance! Maintain the strategy."
)

// TotalInvested sums AmountInvested over every holding, whatever its status.
func TotalInvested(holdings []domain.Holding) decimal.Decimal {
	total := decimal.Zero
	for _, h := range holdings {
		total = total.Add(h.AmountInvested)
	}
	return total
}

// WeightedReturn is the amount-weighted mean return of the finalized
// (CLOSED or REDEEMED) holdings, rounded half-up to ReturnPlaces. Holdings
// without a return count as 0. It is 0 when nothing is finalized.
func WeightedReturn(holdings []domain.Holding) decimal.Decimal {
	weighted := decimal.Zero
	amount := decimal.Zero
	for _, h := range holdings {
		if !h.Status.Finalized() {
			continue
		}
		r := decimal.Zero
		if h.CurrentReturn.Valid {
			r = h.CurrentReturn.Decimal
		}
		weighted = weighted.Add(r.Mul(h.AmountInvested))
		amount = amount.Add(h.AmountInvested)
	}
	if !amount.IsPositive() {
		return decimal.Zero
	}
	return weighted.DivRound(amount, ReturnPlaces)
}

// Stats computes the derived portfolio fields from its holdings.
func Stats(holdings []domain.Holding) domain.PortfolioStats {
	return domain.PortfolioStats{
		TotalValue:    TotalInvested(holdings),
		CurrentReturn: WeightedReturn(holdings),
	}
}

// Breakdown groups AmountInvested by product bucket. CDB, LCI, LCA and
// treasury bonds share the fixed-income bucket.
func Breakdown(holdings []domain.Holding) domain.CategoryBreakdown {
	b := domain.CategoryBreakdown{
		Equity: decimal.Zero, REIT: decimal.Zero, FixedIncome: decimal.Zero,
		Fund: decimal.Zero, Crypto: decimal.Zero, Other: decimal.Zero,
	}
	for _, h := range holdings {
		switch {
		case h.ProductType == domain.ProductEquity:
			b.Equity = b.Equity.Add(h.AmountInvested)
		case h.ProductType == domain.ProductREIT:
			b.REIT = b.REIT.Add(h.AmountInvested)
		case h.ProductType.FixedIncome():
			b.FixedIncome = b.FixedIncome.Add(h.AmountInvested)
		case h.ProductType == domain.ProductFund:
			b.Fund = b.Fund.Add(h.AmountInvested)
		case h.ProductType == domain.ProductCrypto:
			b.Crypto = b.Crypto.Add(h.AmountInvested)
		default:
			b.Other = b.Other.Add(h.AmountInvested)
		}
	}
	return b
}

func CountByStatus(holdings []domain.Holding) domain.StatusCounts {
	var c domain.StatusCounts
	for _, h := range holdings {
		switch h.Status {
		case domain.StatusActive:
			c.Active++
		case domain.StatusClosed:
			c.Closed++
		case domain.StatusRedeemed:
			c.Redeemed++
		}
	}
	return c
}

// AssessAlert applies the alert rules in priority order; the first match wins.
func AssessAlert(totalPortfolios int, totalInvested, weightedReturn decimal.Decimal) domain.Alert {
	switch {
	case totalPortfolios == 0:
		return domain.Alert{Level: domain.AlertHigh, Message: MsgNoPortfolios}
	case totalInvested.LessThan(LowInvestmentThreshold):
		return domain.Alert{Level: domain.AlertMedium, Message: MsgLowInvestment}
	case weightedReturn.LessThan(BelowExpectationReturn):
		return domain.Alert{Level: domain.AlertMedium, Message: MsgBelowExpectation}
	case weightedReturn.LessThan(SatisfactoryReturn):
		return domain.Alert{Level: domain.AlertLow, Message: MsgSatisfactory}
	default:
		return domain.Alert{Level: domain.AlertLow, Message: MsgExcellent}
	}
}
