package service

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"strings"

	"clinic-portal/internal/auth"
	"clinic-portal/internal/identity"
	"clinic-portal/internal/logger"
	"clinic-portal/internal/messages"
	"clinic-portal/internal/metrics"
	"clinic-portal/internal/models"
)

var ErrInvalidWhatsApp = errors.New("enter a valid 10-digit WhatsApp number")

// Landing redirect kinds
const (
	RedirectWhatsApp = "whatsapp"
	RedirectRegister = "register"
)

// LandingState is what the field-rep landing page shows before submission
type LandingState struct {
	CampaignID string          `json:"campaign_id"`
	FieldRepID string          `json:"field_rep_id"`
	Linkage    LinkageDecision `json:"linkage"`
	Capacity   CapacityStatus  `json:"capacity"`
}

// LandingResult is where a submitted landing form sends the field rep
type LandingResult struct {
	Kind        string                   `json:"kind"`
	RedirectURL string                   `json:"redirect_url"`
	DoctorID    string                   `json:"doctor_id,omitempty"`
	Enrollment  models.EnrollmentOutcome `json:"-"`
}

// LandingService drives the field-rep landing flow: authorize the rep, check
// capacity, then either enroll a known doctor and open WhatsApp or hand off
// to registration
type LandingService struct {
	linkage     *LinkageService
	gate        *GatekeeperService
	doctors     DoctorStore
	local       LocalCampaignStore
	baseURL     string
	countryCode string
	metrics     *metrics.Metrics
	logger      *slog.Logger
}

// NewLandingService creates a new landing service
func NewLandingService(
	linkage *LinkageService,
	gate *GatekeeperService,
	doctors DoctorStore,
	local LocalCampaignStore,
	baseURL string,
	countryCode string,
	m *metrics.Metrics,
	logger *slog.Logger,
) *LandingService {
	if logger == nil {
		logger = slog.Default()
	}
	return &LandingService{
		linkage:     linkage,
		gate:        gate,
		doctors:     doctors,
		local:       local,
		baseURL:     strings.TrimRight(baseURL, "/"),
		countryCode: countryCode,
		metrics:     m,
		logger:      logger,
	}
}

// Prepare authorizes the rep and checks capacity. The returned state is
// always populated; the error is ErrUnauthorizedFieldRep, ErrUnknownCampaign
// or ErrCapacityExceeded.
func (s *LandingService) Prepare(ctx context.Context, campaignID, fieldRepID string, id *auth.Identity) (*LandingState, error) {
	state := &LandingState{
		CampaignID: identity.HyphenateCampaignID(campaignID),
		FieldRepID: strings.TrimSpace(fieldRepID),
	}

	state.Linkage = s.linkage.Resolve(ctx, campaignID, fieldRepID, id)
	if !state.Linkage.Allowed {
		return state, ErrUnauthorizedFieldRep
	}

	state.Capacity = s.gate.Check(ctx, campaignID)
	if state.Capacity.Campaign == nil {
		return state, ErrUnknownCampaign
	}
	if state.Capacity.LimitReached {
		return state, ErrCapacityExceeded
	}
	return state, nil
}

// Submit handles the WhatsApp number a field rep entered for a doctor
func (s *LandingService) Submit(ctx context.Context, campaignID, fieldRepID, whatsApp string, id *auth.Identity) (*LandingResult, *LandingState, error) {
	state, err := s.Prepare(ctx, campaignID, fieldRepID, id)
	if err != nil {
		return nil, state, err
	}

	number := identity.NormalizePhoneForLookup(whatsApp)
	if len(number) != 10 {
		return nil, state, ErrInvalidWhatsApp
	}

	campaignNorm := identity.NormalizeCampaignID(campaignID)
	downstream := state.Linkage.DownstreamID

	doctor, err := s.doctors.FetchDoctorByWhatsApp(ctx, number)
	if err != nil || doctor == nil {
		q := url.Values{}
		q.Set("campaign-id", identity.HyphenateCampaignID(campaignID))
		q.Set("field_rep_id", downstream)
		q.Set("doctor_whatsapp_number", number)
		dest := s.baseURL + "/accounts/register/?" + q.Encode()

		s.logger.Info("Landing redirect to registration",
			"campaign_id", campaignNorm,
			"whatsapp", logger.MaskPhone(number),
		)
		return &LandingResult{Kind: RedirectRegister, RedirectURL: dest}, state, nil
	}

	outcome, err := s.doctors.EnsureEnrollment(ctx, doctor.DoctorID, campaignNorm, downstream)
	if err != nil {
		s.logger.Error("Landing enrollment failed",
			"doctor_id", doctor.DoctorID,
			"campaign_id", campaignNorm,
			"error", err,
		)
		return nil, state, err
	}
	s.metrics.RecordEnrollment(outcome.String())

	links := messages.Links{
		DoctorName: doctorName(doctor),
		ClinicLink: messages.ClinicLink(s.baseURL, doctor.DoctorID),
		SetupLink:  messages.LoginLink(s.baseURL),
		LoginLink:  messages.LoginLink(s.baseURL),
	}
	message := messages.RenderWhatsApp(s.whatsAppTemplate(ctx, campaignID, state.Capacity.Campaign), links)
	if message == "" {
		message = messages.DefaultWhatsApp(links)
	}

	s.logger.Info("Landing redirect to WhatsApp",
		"doctor_id", doctor.DoctorID,
		"campaign_id", campaignNorm,
		"whatsapp", logger.MaskPhone(number),
		"enrollment", outcome.String(),
	)
	return &LandingResult{
		Kind:        RedirectWhatsApp,
		RedirectURL: identity.WhatsAppDeepLink(number, message, s.countryCode),
		DoctorID:    doctor.DoctorID,
		Enrollment:  outcome,
	}, state, nil
}

// whatsAppTemplate prefers the local campaign's WhatsApp text over master's
func (s *LandingService) whatsAppTemplate(ctx context.Context, campaignID string, master *models.MasterCampaign) string {
	if local, err := s.local.GetByCampaignID(ctx, campaignID); err == nil && local != nil {
		if strings.TrimSpace(local.WAAddition) != "" {
			return local.WAAddition
		}
	}
	if master != nil {
		return master.AddToCampaignMessage
	}
	return ""
}

func doctorName(d *models.Doctor) string {
	if name := d.FullName(); name != "" {
		return name
	}
	return "Doctor"
}
