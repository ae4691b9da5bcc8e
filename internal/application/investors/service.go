package investors

import (
	"context"
	"strings"
	"unicode/utf8"

	"wealthdesk-backend/internal/domain"
	"wealthdesk-backend/internal/pkg/apperr"
	"wealthdesk-backend/internal/pkg/validation"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// Input carries the writable fields of an investor.
type Input struct {
	Name          string           `json:"name"`
	TaxID         string           `json:"tax_id"`
	Email         string           `json:"email"`
	Phone         string           `json:"phone"`
	RiskProfile   string           `json:"risk_profile"`
	NetWorth      *decimal.Decimal `json:"net_worth"`
	MonthlyIncome *decimal.Decimal `json:"monthly_income"`
	Objectives    string           `json:"objectives"`
}

type reportInvalidator interface {
	Invalidate(ctx context.Context, investorID uuid.UUID)
}

type Service struct {
	Store   domain.Store
	Reports reportInvalidator
}

func (in *Input) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.TaxID = validation.CanonicalTaxID(in.TaxID)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Phone = validation.OnlyDigits(in.Phone)
	in.RiskProfile = strings.ToUpper(strings.TrimSpace(in.RiskProfile))
	in.Objectives = strings.TrimSpace(in.Objectives)
}

func (in *Input) validate() error {
	fe := validation.FieldErrors{}
	n := utf8.RuneCountInString(in.Name)
	fe.Check(in.Name != "", "name", "Name is required")
	fe.Check(n == 0 || (n >= 3 && n <= 100), "name", "Name must be between 3 and 100 characters")
	fe.Check(in.TaxID != "", "tax_id", "Tax id is required")
	fe.Check(in.TaxID == "" || validation.IsValidTaxID(in.TaxID), "tax_id", "Invalid tax id")
	fe.Check(in.Email == "" || validation.IsValidEmail(in.Email), "email", "Invalid email")
	fe.Check(in.Phone == "" || validation.IsValidPhone(in.Phone), "phone", "Phone must have 10 or 11 digits")
	fe.Check(domain.RiskProfile(in.RiskProfile).Valid(), "risk_profile", "Risk profile must be CONSERVATIVE, MODERATE or AGGRESSIVE")
	fe.Check(in.NetWorth == nil || !in.NetWorth.IsNegative(), "net_worth", "Net worth cannot be negative")
	fe.Check(in.MonthlyIncome == nil || !in.MonthlyIncome.IsNegative(), "monthly_income", "Monthly income cannot be negative")
	fe.Check(in.NetWorth == nil || validation.FitsPlaces(*in.NetWorth, 2), "net_worth", "Net worth must have at most 2 decimal places")
	fe.Check(in.MonthlyIncome == nil || validation.FitsPlaces(*in.MonthlyIncome, 2), "monthly_income", "Monthly income must have at most 2 decimal places")
	fe.Check(utf8.RuneCountInString(in.Objectives) <= 500, "objectives", "Objectives must be at most 500 characters")
	return fe.Err()
}

func orZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}

func (s *Service) invalidate(ctx context.Context, investorID uuid.UUID) {
	if s.Reports != nil {
		s.Reports.Invalidate(ctx, investorID)
	}
}

func (s *Service) owned(ctx context.Context, id, advisorID uuid.UUID) (*domain.Investor, error) {
	inv, err := s.Store.Investors().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv.AdvisorID != advisorID {
		return nil, apperr.BadRequest("Investor does not belong to this advisor")
	}
	return inv, nil
}

func (s *Service) checkTaxID(ctx context.Context, advisorID uuid.UUID, taxID string, exclude uuid.UUID) error {
	taken, err := s.Store.Investors().ExistsWithTaxID(ctx, advisorID, taxID, exclude)
	if err != nil {
		return err
	}
	if taken {
		return apperr.BadRequestf("An investor with tax id %s is already registered", validation.FormatTaxID(taxID))
	}
	return nil
}

func (s *Service) Create(ctx context.Context, advisorID uuid.UUID, in Input) (*domain.Investor, error) {
	in.normalize()
	if err := in.validate(); err != nil {
		return nil, err
	}
	if err := s.checkTaxID(ctx, advisorID, in.TaxID, uuid.Nil); err != nil {
		return nil, err
	}
	inv := &domain.Investor{
		Name:          in.Name,
		TaxID:         in.TaxID,
		Email:         in.Email,
		Phone:         in.Phone,
		RiskProfile:   domain.RiskProfile(in.RiskProfile),
		NetWorth:      orZero(in.NetWorth),
		MonthlyIncome: orZero(in.MonthlyIncome),
		Objectives:    in.Objectives,
		AdvisorID:     advisorID,
	}
	if err := s.Store.Investors().Save(ctx, inv); err != nil {
		return nil, err
	}
	log.Info().Str("investor_id", inv.InvestorID.String()).Str("advisor_id", advisorID.String()).Msg("investor created")
	return inv, nil
}

// List returns the advisor's investors, filtered by profile when profile is
// not empty.
func (s *Service) List(ctx context.Context, advisorID uuid.UUID, profile string) ([]domain.Investor, error) {
	if strings.TrimSpace(profile) == "" {
		return s.Store.Investors().ListByAdvisor(ctx, advisorID)
	}
	p, ok := domain.ParseRiskProfile(profile)
	if !ok {
		return nil, apperr.BadRequestf("Unknown risk profile: %s", profile)
	}
	return s.ListByProfile(ctx, advisorID, p)
}

func (s *Service) ListByProfile(ctx context.Context, advisorID uuid.UUID, profile domain.RiskProfile) ([]domain.Investor, error) {
	return s.Store.Investors().ListByAdvisorAndProfile(ctx, advisorID, profile)
}

func (s *Service) Get(ctx context.Context, id, advisorID uuid.UUID) (*domain.Investor, error) {
	return s.owned(ctx, id, advisorID)
}

// Update rewrites the investor's fields. Existing portfolios are left as they
// are even when the risk profile changes.
func (s *Service) Update(ctx context.Context, id, advisorID uuid.UUID, in Input) (*domain.Investor, error) {
	inv, err := s.owned(ctx, id, advisorID)
	if err != nil {
		return nil, err
	}
	in.normalize()
	if err := in.validate(); err != nil {
		return nil, err
	}
	if in.TaxID != inv.TaxID {
		if err := s.checkTaxID(ctx, advisorID, in.TaxID, inv.InvestorID); err != nil {
			return nil, err
		}
	}

	inv.Name = in.Name
	inv.TaxID = in.TaxID
	inv.Email = in.Email
	inv.Phone = in.Phone
	inv.RiskProfile = domain.RiskProfile(in.RiskProfile)
	inv.NetWorth = orZero(in.NetWorth)
	inv.MonthlyIncome = orZero(in.MonthlyIncome)
	inv.Objectives = in.Objectives
	if err := s.Store.Investors().Save(ctx, inv); err != nil {
		return nil, err
	}
	s.invalidate(ctx, inv.InvestorID)
	log.Info().Str("investor_id", inv.InvestorID.String()).Msg("investor updated")
	return inv, nil
}

// Delete refuses to remove an investor that portfolios still reference.
func (s *Service) Delete(ctx context.Context, id, advisorID uuid.UUID) error {
	inv, err := s.owned(ctx, id, advisorID)
	if err != nil {
		return err
	}
	ps, err := s.Store.Portfolios().FindByInvestor(ctx, inv.InvestorID)
	if err != nil {
		return err
	}
	if len(ps) > 0 {
		return apperr.BadRequestf("Investor still has %d portfolio(s); delete them first", len(ps))
	}
	if err := s.Store.Investors().Delete(ctx, inv.InvestorID); err != nil {
		return err
	}
	s.invalidate(ctx, inv.InvestorID)
	log.Info().Str("investor_id", inv.InvestorID.String()).Msg("investor deleted")
	return nil
}
