package domain

import "strings"

// RiskProfile is the investor's declared appetite for risk.
type RiskProfile string

const (
	ProfileConservative RiskProfile = "CONSERVATIVE"
	ProfileModerate     RiskProfile = "MODERATE"
	ProfileAggressive   RiskProfile = "AGGRESSIVE"
)

func (p RiskProfile) Valid() bool {
	switch p {
	case ProfileConservative, ProfileModerate, ProfileAggressive:
		return true
	}
	return false
}

// RiskLevel is the risk a portfolio is built for.
type RiskLevel string

const (
	RiskLow      RiskLevel = "LOW"
	RiskModerate RiskLevel = "MODERATE"
	RiskHigh     RiskLevel = "HIGH"
)

// RiskLevels lists every level from lowest to highest.
var RiskLevels = []RiskLevel{RiskLow, RiskModerate, RiskHigh}

func (r RiskLevel) Valid() bool {
	switch r {
	case RiskLow, RiskModerate, RiskHigh:
		return true
	}
	return false
}

// PortfolioType distinguishes reusable templates from investor-specific portfolios.
type PortfolioType string

const (
	PortfolioModel  PortfolioType = "MODEL"
	PortfolioCustom PortfolioType = "CUSTOM"
)

func (t PortfolioType) Valid() bool {
	return t == PortfolioModel || t == PortfolioCustom
}

// ProductType is the kind of financial product a holding represents.
type ProductType string

const (
	ProductCDB          ProductType = "CDB"
	ProductTreasuryBond ProductType = "TREASURY_BOND"
	ProductEquity       ProductType = "EQUITY"
	ProductFund         ProductType = "FUND"
	ProductCrypto       ProductType = "CRYPTO"
	ProductREIT         ProductType = "REIT"
	ProductLCI          ProductType = "LCI" // residential real-estate credit note
	ProductLCA          ProductType = "LCA" // agribusiness credit note
	ProductOther        ProductType = "OTHER"
)

var ProductTypes = []ProductType{
	ProductCDB, ProductTreasuryBond, ProductEquity, ProductFund, ProductCrypto,
	ProductREIT, ProductLCI, ProductLCA, ProductOther,
}

func (p ProductType) Valid() bool {
	for _, v := range ProductTypes {
		if p == v {
			return true
		}
	}
	return false
}

// FixedIncome reports whether the product rolls up into the fixed-income bucket.
func (p ProductType) FixedIncome() bool {
	switch p {
	case ProductCDB, ProductLCI, ProductLCA, ProductTreasuryBond:
		return true
	}
	return false
}

// HoldingStatus tracks whether a position is still open.
type HoldingStatus string

const (
	StatusActive   HoldingStatus = "ACTIVE"
	StatusClosed   HoldingStatus = "CLOSED"
	StatusRedeemed HoldingStatus = "REDEEMED"
)

func (s HoldingStatus) Valid() bool {
	switch s {
	case StatusActive, StatusClosed, StatusRedeemed:
		return true
	}
	return false
}

// Finalized is true once the position has been exited.
func (s HoldingStatus) Finalized() bool {
	return s == StatusClosed || s == StatusRedeemed
}

// ParseHoldingStatus accepts any letter case.
func ParseHoldingStatus(s string) (HoldingStatus, bool) {
	st := HoldingStatus(strings.ToUpper(strings.TrimSpace(s)))
	return st, st.Valid()
}

// ParseRiskProfile accepts any letter case.
func ParseRiskProfile(s string) (RiskProfile, bool) {
	p := RiskProfile(strings.ToUpper(strings.TrimSpace(s)))
	return p, p.Valid()
}

// AlertLevel is the severity of a report verdict.
type AlertLevel string

const (
	AlertHigh   AlertLevel = "HIGH"
	AlertMedium AlertLevel = "MEDIUM"
	AlertLow    AlertLevel = "LOW"
)

// InsightType categorises generated advice.
type InsightType string

const (
	InsightRisk        InsightType = "RISK"
	InsightOpportunity InsightType = "OPPORTUNITY"
	InsightSummary     InsightType = "SUMMARY"
	InsightSuggestion  InsightType = "SUGGESTION"
)

var InsightTypes = []InsightType{InsightRisk, InsightOpportunity, InsightSummary, InsightSuggestion}

// ReportKind identifies what a stored report snapshot describes.
type ReportKind string

const ReportInvestor ReportKind = "INVESTOR"
