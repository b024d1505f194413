package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"clinic-portal/internal/identity"
	"clinic-portal/internal/logger"
	"clinic-portal/internal/models"
	"clinic-portal/internal/repository"
)

// CampaignSupportService finds the system campaigns a doctor is enrolled in,
// matching on any of the doctor's emails or phone numbers
type CampaignSupportService struct {
	master SupportStore
	local  LocalCampaignStore
	logger *slog.Logger
}

// NewCampaignSupportService creates a new campaign support lookup
func NewCampaignSupportService(master SupportStore, local LocalCampaignStore, logger *slog.Logger) *CampaignSupportService {
	if logger == nil {
		logger = slog.Default()
	}
	return &CampaignSupportService{master: master, local: local, logger: logger}
}

// ForDoctor returns one entry per campaign, most recent first. Lookup
// failures yield an empty list.
func (s *CampaignSupportService) ForDoctor(ctx context.Context, primaryEmail string, altEmails, phones []string) []models.CampaignSupport {
	emails := identity.Dedupe(append([]string{primaryEmail}, altEmails...), identity.LowerEmail)
	phoneKeys := identity.Dedupe(phones, identity.Last10Digits)
	if len(emails) == 0 && len(phoneKeys) == 0 {
		return []models.CampaignSupport{}
	}

	matches, err := s.master.FindCampaignSupport(ctx, emails, phoneKeys)
	if err != nil {
		s.logger.Warn("Campaign support lookup failed", "error", err)
		return []models.CampaignSupport{}
	}

	seen := make(map[string]struct{}, len(matches))
	campaigns := make([]models.MasterCampaign, 0, len(matches))
	for _, m := range matches {
		key := identity.NormalizeCampaignID(m.Campaign.ID)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		campaigns = append(campaigns, m.Campaign)
	}

	ids := make([]string, len(campaigns))
	for i, c := range campaigns {
		ids[i] = c.ID
	}
	mirrors, err := s.local.ListByCampaignIDs(ctx, ids)
	if err != nil {
		s.logger.Warn("Local campaign lookup failed", "error", err)
		mirrors = map[string]*models.LocalCampaign{}
	}

	result := make([]models.CampaignSupport, 0, len(campaigns))
	for _, c := range campaigns {
		mirror := mirrors[identity.NormalizeCampaignID(c.ID)]
		result = append(result, buildSupport(c, mirror))
	}
	return result
}

// ForAccount looks up support for the clinic loginEmail signs into. The
// match widens to every address and WhatsApp number on that doctor row; an
// unknown login matches on its own address only.
func (s *CampaignSupportService) ForAccount(ctx context.Context, loginEmail string) []models.CampaignSupport {
	ident, err := s.master.ResolveDoctorIdentity(ctx, loginEmail)
	if err != nil {
		if !errors.Is(err, repository.ErrDoctorNotFound) {
			s.logger.Warn("Doctor identity lookup failed", "email", logger.MaskEmail(loginEmail), "error", err)
		}
		return s.ForDoctor(ctx, loginEmail, nil, nil)
	}
	d := ident.Doctor
	alt := append([]string{d.Email}, d.ClinicUserEmails...)
	return s.ForDoctor(ctx, ident.LoginEmail, alt, []string{d.WhatsAppNo, d.ReceptionistWhatsApp})
}

func buildSupport(c models.MasterCampaign, mirror *models.LocalCampaign) models.CampaignSupport {
	support := models.CampaignSupport{
		CampaignID:      identity.HyphenateCampaignID(c.ID),
		CampaignName:    c.Name,
		ClusterLabel:    c.Name,
		BrandName:       c.BrandName,
		BannerSmallURL:  c.BannerSmallURL,
		BannerLargeURL:  c.BannerLargeURL,
		BannerTargetURL: c.BannerTargetURL,
		StartDate:       c.StartDate,
	}
	if mirror == nil {
		return support
	}
	if label := strings.TrimSpace(mirror.VideoClusterName); label != "" {
		support.ClusterLabel = label
	}
	if support.BannerTargetURL == "" {
		support.BannerTargetURL = strings.TrimSpace(mirror.BannerTargetURL)
	}
	if support.BannerSmallURL == "" {
		support.BannerSmallURL = strings.TrimSpace(mirror.BannerSmallURL)
	}
	if support.BannerLargeURL == "" {
		support.BannerLargeURL = strings.TrimSpace(mirror.BannerLargeURL)
	}
	if support.StartDate == nil {
		support.StartDate = mirror.StartDate
	}
	return support
}
