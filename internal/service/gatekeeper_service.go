package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"clinic-portal/internal/identity"
	"clinic-portal/internal/metrics"
	"clinic-portal/internal/models"
)

// LimitReachedMessage is shown whenever a campaign has used all its licenses
const LimitReachedMessage = "This campaign already has the maximum allowed doctors registered. " +
	"If you wish to register more doctors, please speak to your brand manager who can answer your queries " +
	"and obtain more licenses."

// CapacityStatus is a point-in-time view of a campaign's license use
type CapacityStatus struct {
	Campaign         *models.MasterCampaign `json:"-"`
	DoctorsSupported int                    `json:"doctors_supported"`
	Enrolled         int                    `json:"enrolled"`
	LimitReached     bool                   `json:"limit_reached"`
	Message          string                 `json:"message,omitempty"`
}

// Err returns ErrCapacityExceeded when the limit is reached
func (c CapacityStatus) Err() error {
	if c.LimitReached {
		return ErrCapacityExceeded
	}
	return nil
}

// GatekeeperService enforces per-campaign doctor licenses. The count is
// advisory; the enrollment unique constraint is what prevents duplicates.
type GatekeeperService struct {
	campaigns CampaignStore
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

// NewGatekeeperService creates a new gatekeeper
func NewGatekeeperService(campaigns CampaignStore, m *metrics.Metrics, logger *slog.Logger) *GatekeeperService {
	if logger == nil {
		logger = slog.Default()
	}
	return &GatekeeperService{campaigns: campaigns, metrics: m, logger: logger}
}

// Check reports whether campaignID can take another doctor. An unknown
// campaign yields a nil Campaign and no limit.
func (s *GatekeeperService) Check(ctx context.Context, campaignID string) CapacityStatus {
	defer s.metrics.ObserveMaster("capacity_check", time.Now())

	raw := strings.TrimSpace(campaignID)
	norm := identity.NormalizeCampaignID(raw)

	campaign := s.Campaign(ctx, raw)

	// enrollments may be keyed by either form of the ID
	enrolled := s.campaigns.CountEnrollments(ctx, norm)
	if raw != norm {
		enrolled = max(enrolled, s.campaigns.CountEnrollments(ctx, raw))
	}

	status := CapacityStatus{Campaign: campaign, Enrolled: enrolled}
	if campaign != nil {
		status.DoctorsSupported = campaign.DoctorsSupported
	}
	status.LimitReached = status.DoctorsSupported > 0 && enrolled >= status.DoctorsSupported
	if status.LimitReached {
		status.Message = LimitReachedMessage
		s.metrics.RecordCapacityDenied()
	}

	s.logger.Debug("Capacity checked",
		"campaign_id", norm,
		"doctors_supported", status.DoctorsSupported,
		"enrolled", enrolled,
		"limit_reached", status.LimitReached,
	)
	return status
}

// Campaign fetches the master campaign by normalized ID, falling back to the raw ID
func (s *GatekeeperService) Campaign(ctx context.Context, campaignID string) *models.MasterCampaign {
	raw := strings.TrimSpace(campaignID)
	norm := identity.NormalizeCampaignID(raw)
	if norm == "" {
		return nil
	}
	campaign, err := s.campaigns.FetchCampaign(ctx, norm)
	if err == nil {
		return campaign
	}
	if raw != norm {
		if campaign, err := s.campaigns.FetchCampaign(ctx, raw); err == nil {
			return campaign
		}
	}
	return nil
}
