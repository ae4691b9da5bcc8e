package validation

import (
	"fmt"

	"wealthdesk-backend/internal/domain"

	"github.com/shopspring/decimal"
)

// MinReturnRate is the global floor, in percent.
var MinReturnRate = decimal.NewFromInt(-50)

var maxReturnRates = map[domain.ProductType]decimal.Decimal{
	domain.ProductEquity:       decimal.NewFromInt(200),
	domain.ProductFund:         decimal.NewFromInt(100),
	domain.ProductCrypto:       decimal.NewFromInt(100),
	domain.ProductOther:        decimal.NewFromInt(100),
	domain.ProductREIT:         decimal.NewFromInt(50),
	domain.ProductCDB:          decimal.NewFromInt(25),
	domain.ProductLCI:          decimal.NewFromInt(20),
	domain.ProductLCA:          decimal.NewFromInt(20),
	domain.ProductTreasuryBond: decimal.NewFromInt(15),
}

// MaxReturnRate is the ceiling for product, in percent. Unknown products get
// the Other ceiling.
func MaxReturnRate(product domain.ProductType) decimal.Decimal {
	if v, ok := maxReturnRates[product]; ok {
		return v
	}
	return maxReturnRates[domain.ProductOther]
}

// IsValidReturnRate reports whether rate lies within [MinReturnRate, MaxReturnRate(product)].
// A nil rate is valid.
func IsValidReturnRate(rate *decimal.Decimal, product domain.ProductType) bool {
	if rate == nil {
		return true
	}
	if rate.LessThan(MinReturnRate) {
		return false
	}
	return rate.LessThanOrEqual(MaxReturnRate(product))
}

func ReturnRateMessage(product domain.ProductType) string {
	return fmt.Sprintf("Invalid return rate for %s. Must be between %s%% and %s%% per year",
		product, MinReturnRate.StringFixed(1), MaxReturnRate(product).StringFixed(1))
}

// FitsPlaces reports whether d has at most places decimal digits, so it can
// be stored in a column of that scale without rounding.
func FitsPlaces(d decimal.Decimal, places int32) bool {
	return d.Equal(d.Round(places))
}
