package validation

import "wealthdesk-backend/internal/domain"

var allowedRisk = map[domain.RiskProfile][]domain.RiskLevel{
	domain.ProfileConservative: {domain.RiskLow},
	domain.ProfileModerate:     {domain.RiskLow, domain.RiskModerate},
	domain.ProfileAggressive:   domain.RiskLevels,
}

// IsCompatible reports whether an investor with profile may hold a portfolio
// built for risk.
func IsCompatible(profile domain.RiskProfile, risk domain.RiskLevel) bool {
	for _, r := range allowedRisk[profile] {
		if r == risk {
			return true
		}
	}
	return false
}

// AllowedRiskLevels lists the compatible levels for profile, lowest first.
func AllowedRiskLevels(profile domain.RiskProfile) []domain.RiskLevel {
	levels := allowedRisk[profile]
	out := make([]domain.RiskLevel, len(levels))
	copy(out, levels)
	return out
}

// CompatibilityMessage explains the rule when an association is rejected.
func CompatibilityMessage(profile domain.RiskProfile) string {
	switch profile {
	case domain.ProfileConservative:
		return "Conservative investors can only hold LOW risk portfolios"
	case domain.ProfileModerate:
		return "Moderate investors can hold LOW or MODERATE risk portfolios"
	case domain.ProfileAggressive:
		return "Aggressive investors can hold portfolios of any risk level"
	}
	return "Unknown investor profile"
}

func Recommendation(profile domain.RiskProfile) string {
	switch profile {
	case domain.ProfileConservative:
		return "Recommended: LOW risk portfolios"
	case domain.ProfileModerate:
		return "Recommended: LOW or MODERATE risk portfolios"
	case domain.ProfileAggressive:
		return "Any risk level may be used"
	}
	return ""
}
