package validation

import (
	"regexp"
	"strings"

	"wealthdesk-backend/internal/domain"
)

type assetRule struct {
	pattern *regexp.Regexp
	message string
}

var assetRules = map[domain.ProductType]assetRule{
	domain.ProductEquity: {
		regexp.MustCompile(`^[A-Z]{4}\d{1,2}$`),
		"Invalid equity code. Use the format: PETR4, VALE3, ITUB4",
	},
	domain.ProductCDB: {
		regexp.MustCompile(`^CDB\d{3,6}$`),
		"Invalid CDB code. Use the format: CDB001, CDB123456",
	},
	domain.ProductTreasuryBond: {
		regexp.MustCompile(`^(TESOURO|TS)\d{2,4}$`),
		"Invalid treasury bond code. Use the format: TESOURO01, TS01",
	},
	domain.ProductFund: {
		regexp.MustCompile(`^[A-Z]{2,6}\d{2,4}$`),
		"Invalid fund code. Use the format: BB01, ITAU1234",
	},
	domain.ProductREIT: {
		regexp.MustCompile(`^[A-Z]{4}\d{2}$`),
		"Invalid REIT code. Use the format: HGLG11, XPML11, VISC11",
	},
	domain.ProductLCI: {
		regexp.MustCompile(`^LCI\d{3,6}$`),
		"Invalid LCI code. Use the format: LCI001, LCI123456",
	},
	domain.ProductLCA: {
		regexp.MustCompile(`^LCA\d{3,6}$`),
		"Invalid LCA code. Use the format: LCA001, LCA123456",
	},
}

// CanonicalAssetCode trims and upper-cases a code.
func CanonicalAssetCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// IsValidAssetCode checks code against the grammar of its product type.
// Blank codes pass; presence is a separate required-field rule. Crypto and
// Other have no structural constraint.
func IsValidAssetCode(product domain.ProductType, code string) bool {
	c := CanonicalAssetCode(code)
	if c == "" {
		return true
	}
	rule, ok := assetRules[product]
	if !ok {
		return true
	}
	return rule.pattern.MatchString(c)
}

// AssetCodeMessage is the rejection message for product.
func AssetCodeMessage(product domain.ProductType) string {
	if rule, ok := assetRules[product]; ok {
		return rule.message
	}
	if product == domain.ProductCrypto {
		return "Invalid cryptocurrency code"
	}
	return "Invalid code for the product type"
}
