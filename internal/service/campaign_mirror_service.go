package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"clinic-portal/internal/identity"
	"clinic-portal/internal/models"
)

// CampaignEdit carries the publisher-editable fields of a local campaign
type CampaignEdit struct {
	VideoClusterName  string `json:"video_cluster_name"`
	SelectionJSON     string `json:"selection_json"`
	StartDate         string `json:"start_date"`
	EndDate           string `json:"end_date"`
	WAAddition        string `json:"wa_addition"`
	EmailRegistration string `json:"email_registration"`
}

// CampaignMirrorService keeps the local campaign mirror in step with master
type CampaignMirrorService struct {
	local     LocalCampaignStore
	gate      *GatekeeperService
	onChanged func(ctx context.Context)
	logger    *slog.Logger
}

// NewCampaignMirrorService creates a new mirror service. onChanged runs after
// every successful save and may be nil.
func NewCampaignMirrorService(local LocalCampaignStore, gate *GatekeeperService, onChanged func(ctx context.Context), logger *slog.Logger) *CampaignMirrorService {
	if logger == nil {
		logger = slog.Default()
	}
	return &CampaignMirrorService{local: local, gate: gate, onChanged: onChanged, logger: logger}
}

// Get returns the local campaign, or nil when none is stored
func (s *CampaignMirrorService) Get(ctx context.Context, campaignID string) (*models.LocalCampaign, error) {
	return s.local.GetByCampaignID(ctx, campaignID)
}

// SaveDetails applies edit to the local campaign and refreshes the
// read-only fields from master. The master campaign must exist.
func (s *CampaignMirrorService) SaveDetails(ctx context.Context, campaignID, publisherSub string, edit CampaignEdit) (*models.LocalCampaign, error) {
	if !identity.ValidCampaignID(campaignID) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCampaign, campaignID)
	}
	master := s.gate.Campaign(ctx, campaignID)
	if master == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCampaign, campaignID)
	}

	existing, err := s.local.GetByCampaignID(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	c := existing
	if c == nil {
		c = &models.LocalCampaign{CampaignID: identity.NormalizeCampaignID(campaignID)}
	}

	start, err := parseDate(edit.StartDate)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid start_date: %w", ErrInvalidCampaignEdit, err)
	}
	end, err := parseDate(edit.EndDate)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid end_date: %w", ErrInvalidCampaignEdit, err)
	}
	if start != nil && end != nil && end.Before(*start) {
		return nil, fmt.Errorf("%w: end_date must not be before start_date", ErrInvalidCampaignEdit)
	}

	c.VideoClusterName = strings.TrimSpace(edit.VideoClusterName)
	c.SelectionJSON = strings.TrimSpace(edit.SelectionJSON)
	c.StartDate = start
	c.EndDate = end
	c.WAAddition = edit.WAAddition
	c.EmailRegistration = edit.EmailRegistration
	if sub := strings.TrimSpace(publisherSub); sub != "" {
		c.PublisherSub = sub
	}

	applyMasterFields(c, master)

	if err := s.local.Upsert(ctx, c); err != nil {
		return nil, err
	}

	s.logger.Info("Campaign details saved",
		"campaign_id", c.CampaignID,
		"doctors_supported", c.DoctorsSupported,
		"publisher_sub", c.PublisherSub,
	)
	if s.onChanged != nil {
		s.onChanged(ctx)
	}
	return c, nil
}

// Resync re-reads master for every local campaign and rewrites the rows whose
// read-only fields drifted. Campaigns missing from master are left alone.
func (s *CampaignMirrorService) Resync(ctx context.Context) (int, error) {
	campaigns, err := s.local.ListAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list local campaigns: %w", err)
	}

	updated := 0
	for _, c := range campaigns {
		if err := ctx.Err(); err != nil {
			return updated, err
		}
		master := s.gate.Campaign(ctx, c.CampaignID)
		if master == nil {
			s.logger.Debug("Campaign missing from master, skipping resync", "campaign_id", c.CampaignID)
			continue
		}
		if !masterFieldsDiffer(c, master) {
			continue
		}
		applyMasterFields(c, master)
		if err := s.local.Upsert(ctx, c); err != nil {
			return updated, err
		}
		updated++
	}

	s.logger.Info("Campaign mirror resynced", "campaigns", len(campaigns), "updated", updated)
	if updated > 0 && s.onChanged != nil {
		s.onChanged(ctx)
	}
	return updated, nil
}

func masterFieldsDiffer(c *models.LocalCampaign, master *models.MasterCampaign) bool {
	return c.DoctorsSupported != master.DoctorsSupported ||
		c.BannerSmallURL != master.BannerSmallURL ||
		c.BannerLargeURL != master.BannerLargeURL ||
		c.BannerTargetURL != master.BannerTargetURL
}

// applyMasterFields overwrites the read-only mirror fields
func applyMasterFields(c *models.LocalCampaign, master *models.MasterCampaign) {
	c.DoctorsSupported = master.DoctorsSupported
	c.BannerSmallURL = master.BannerSmallURL
	c.BannerLargeURL = master.BannerLargeURL
	c.BannerTargetURL = master.BannerTargetURL
}
