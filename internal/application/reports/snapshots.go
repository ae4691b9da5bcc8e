package reports

import (
	"context"
	"encoding/json"

	"wealthdesk-backend/internal/domain"
	"wealthdesk-backend/internal/pkg/apperr"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
)

// Service exposes report building plus persisted snapshots.
type Service struct {
	Builder *Builder
	Store   domain.Store
}

func (s *Service) Investor(ctx context.Context, investorID, advisorID uuid.UUID) (*domain.InvestorReport, error) {
	return s.Builder.BuildReport(ctx, investorID, advisorID)
}

// SaveSnapshot builds the investor's report and stores it.
func (s *Service) SaveSnapshot(ctx context.Context, investorID, advisorID uuid.UUID) (*domain.ReportSnapshot, error) {
	r, err := s.Builder.BuildReport(ctx, investorID, advisorID)
	if err != nil {
		return nil, err
	}
	summary, err := json.Marshal(r)
	if err != nil {
		return nil, apperr.Internal("Failed to encode report", err)
	}
	snap := &domain.ReportSnapshot{
		Kind:           domain.ReportInvestor,
		ReferenceID:    investorID,
		Summary:        datatypes.JSON(summary),
		TotalInvested:  r.TotalInvested,
		WeightedReturn: r.WeightedReturn,
		CreatedBy:      advisorID,
	}
	if err := s.Store.Reports().Save(ctx, snap); err != nil {
		return nil, err
	}
	log.Info().Str("snapshot_id", snap.SnapshotID.String()).Str("investor_id", investorID.String()).Msg("report snapshot saved")
	return snap, nil
}

// ListSnapshots returns the investor's stored reports, newest first.
func (s *Service) ListSnapshots(ctx context.Context, investorID, advisorID uuid.UUID) ([]domain.ReportSnapshot, error) {
	inv, err := s.Store.Investors().Get(ctx, investorID)
	if err != nil {
		return nil, err
	}
	if inv.AdvisorID != advisorID {
		return nil, apperr.BadRequest("Investor does not belong to this advisor")
	}
	return s.Store.Reports().ListByReference(ctx, investorID)
}
