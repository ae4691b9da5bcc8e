package insights

import (
	"context"

	"wealthdesk-backend/internal/domain"
	"wealthdesk-backend/internal/pkg/apperr"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ReportSource supplies the investor report used to enrich prompts.
type ReportSource interface {
	BuildReport(ctx context.Context, investorID, advisorID uuid.UUID) (*domain.InvestorReport, error)
}

type Service struct {
	Store     domain.Store
	Generator Generator
	Reports   ReportSource
}

func (s *Service) owned(ctx context.Context, investorID, advisorID uuid.UUID) (*domain.Investor, error) {
	inv, err := s.Store.Investors().Get(ctx, investorID)
	if err != nil {
		return nil, err
	}
	if inv.AdvisorID != advisorID {
		return nil, apperr.BadRequest("Investor does not belong to this advisor")
	}
	return inv, nil
}

// Generate produces and stores a new insight for the investor.
func (s *Service) Generate(ctx context.Context, investorID, advisorID uuid.UUID) (*domain.Insight, error) {
	inv, err := s.owned(ctx, investorID, advisorID)
	if err != nil {
		return nil, err
	}
	req := Request{Investor: inv}
	if s.Reports != nil {
		if r, err := s.Reports.BuildReport(ctx, investorID, advisorID); err == nil {
			req.Report = r
		} else {
			log.Warn().Err(err).Str("investor_id", investorID.String()).Msg("insight generated without report")
		}
	}

	res, err := s.Generator.Generate(ctx, req)
	if err != nil {
		return nil, apperr.Internal("Failed to generate insight", err)
	}
	by := res.By
	if by == "" {
		by = s.Generator.Name()
	}
	in := &domain.Insight{
		InvestorID:  inv.InvestorID,
		Text:        res.Text,
		GeneratedBy: by,
		Type:        res.Type,
	}
	if err := s.Store.Insights().Save(ctx, in); err != nil {
		return nil, err
	}
	log.Info().Str("insight_id", in.InsightID.String()).Str("generator", in.GeneratedBy).Msg("insight generated")
	return in, nil
}

func (s *Service) List(ctx context.Context, investorID, advisorID uuid.UUID) ([]domain.Insight, error) {
	if _, err := s.owned(ctx, investorID, advisorID); err != nil {
		return nil, err
	}
	return s.Store.Insights().ListByInvestor(ctx, investorID)
}
