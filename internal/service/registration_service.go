package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"clinic-portal/internal/auth"
	"clinic-portal/internal/email"
	"clinic-portal/internal/identity"
	"clinic-portal/internal/logger"
	"clinic-portal/internal/messages"
	"clinic-portal/internal/metrics"
	"clinic-portal/internal/models"
	"clinic-portal/internal/repository"
	"clinic-portal/internal/signing"
	"clinic-portal/pkg/validator"
)

var ErrInvalidRegistration = errors.New("invalid registration")

// Registration statuses
const (
	StatusRegistered        = "registered"
	StatusAlreadyRegistered = "already_registered"
)

// RegistrationInput is a doctor's self-registration form
type RegistrationInput struct {
	FirstName               string   `json:"first_name" validate:"required,max=100"`
	LastName                string   `json:"last_name" validate:"max=100"`
	Email                   string   `json:"email" validate:"required,email"`
	WhatsAppNo              string   `json:"whatsapp_no" validate:"required,phone"`
	ClinicName              string   `json:"clinic_name" validate:"required,max=200"`
	ClinicPhone             string   `json:"clinic_phone" validate:"max=30"`
	ClinicAppointmentNumber string   `json:"clinic_appointment_number" validate:"max=30"`
	ClinicAddress           string   `json:"clinic_address" validate:"max=500"`
	ReceptionistWhatsApp    string   `json:"receptionist_whatsapp_number" validate:"phone"`
	PostalCode              string   `json:"postal_code" validate:"required,pincode"`
	IMCRegistrationNumber   string   `json:"imc_registration_number" validate:"required,max=50"`
	ClinicUserEmails        []string `json:"clinic_user_emails"`
	CampaignID              string   `json:"campaign_id"`
	FieldRepID              string   `json:"field_rep_id"`
}

// RegistrationResult reports what a registration did
type RegistrationResult struct {
	Status     string          `json:"status"`
	DoctorID   string          `json:"doctor_id"`
	State      string          `json:"state,omitempty"`
	District   string          `json:"district,omitempty"`
	Enrollment string          `json:"enrollment,omitempty"`
	EmailSent  bool            `json:"email_sent"`
	Capacity   *CapacityStatus `json:"capacity,omitempty"`
}

// RegistrationService registers doctors into the master store and enrolls
// them into the campaign they arrived from
type RegistrationService struct {
	doctors     DoctorStore
	local       LocalCampaignStore
	gate        *GatekeeperService
	pins        *identity.PincodeDirectory
	districts   *identity.DistrictLookup
	mailer      Mailer
	setupSigner *signing.Signer
	baseURL     string
	metrics     *metrics.Metrics
	logger      *slog.Logger
}

// NewRegistrationService creates a new registration service
func NewRegistrationService(
	doctors DoctorStore,
	local LocalCampaignStore,
	gate *GatekeeperService,
	pins *identity.PincodeDirectory,
	districts *identity.DistrictLookup,
	mailer Mailer,
	setupSigner *signing.Signer,
	baseURL string,
	m *metrics.Metrics,
	logger *slog.Logger,
) *RegistrationService {
	if logger == nil {
		logger = slog.Default()
	}
	return &RegistrationService{
		doctors:     doctors,
		local:       local,
		gate:        gate,
		pins:        pins,
		districts:   districts,
		mailer:      mailer,
		setupSigner: setupSigner,
		baseURL:     strings.TrimRight(baseURL, "/"),
		metrics:     m,
		logger:      logger,
	}
}

// Register validates in, maps its PIN to a state, enforces campaign capacity
// and either re-sends links to an existing doctor or creates a new one.
func (s *RegistrationService) Register(ctx context.Context, in RegistrationInput) (*RegistrationResult, error) {
	if err := validator.ValidateStruct(&in); err != nil {
		s.metrics.RecordRegistration("invalid")
		return nil, fmt.Errorf("%w: %v", ErrInvalidRegistration, err)
	}
	campaignID := strings.TrimSpace(in.CampaignID)
	if campaignID != "" && !identity.ValidCampaignID(campaignID) {
		s.metrics.RecordRegistration("invalid")
		return nil, fmt.Errorf("%w: campaign_id is malformed", ErrInvalidRegistration)
	}

	state, ok, err := s.pins.StateForPincode(in.PostalCode)
	if err != nil {
		return nil, err
	}
	if !ok {
		s.metrics.RecordRegistration("invalid_pincode")
		return nil, ErrInvalidPincode
	}
	district := s.districts.DistrictForPincode(ctx, in.PostalCode)

	result := &RegistrationResult{State: state, District: district}

	if campaignID != "" {
		capacity := s.gate.Check(ctx, campaignID)
		if capacity.Campaign == nil {
			s.metrics.RecordRegistration("unknown_campaign")
			return nil, ErrUnknownCampaign
		}
		if capacity.LimitReached {
			s.metrics.RecordRegistration("capacity")
			result.Capacity = &capacity
			return result, ErrCapacityExceeded
		}
	}

	existing, err := s.doctors.FindDoctorByEmailOrWhatsApp(ctx, in.Email, in.WhatsAppNo)
	if err == nil && existing != nil {
		result.Status = StatusAlreadyRegistered
		result.DoctorID = existing.DoctorID
		result.State = existing.State
		result.District = existing.District
		if err := s.enroll(ctx, result, existing.DoctorID, campaignID, in.FieldRepID); err != nil {
			return nil, err
		}
		result.EmailSent = s.sendLinks(ctx, existing, campaignID)
		s.metrics.RecordRegistration(StatusAlreadyRegistered)
		s.logger.Info("Doctor already registered",
			"doctor_id", existing.DoctorID,
			"email", logger.MaskEmail(in.Email),
		)
		return result, nil
	}

	doctorID, err := s.doctors.GenerateDoctorID(ctx)
	if err != nil {
		return nil, err
	}
	password, err := auth.GenerateTemporaryPassword(10)
	if err != nil {
		return nil, err
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	doctor := &models.Doctor{
		DoctorID:                doctorID,
		FirstName:               strings.TrimSpace(in.FirstName),
		LastName:                strings.TrimSpace(in.LastName),
		Email:                   identity.LowerEmail(in.Email),
		WhatsAppNo:              in.WhatsAppNo,
		ClinicName:              strings.TrimSpace(in.ClinicName),
		ClinicPhone:             strings.TrimSpace(in.ClinicPhone),
		ClinicAppointmentNumber: strings.TrimSpace(in.ClinicAppointmentNumber),
		ClinicAddress:           strings.TrimSpace(in.ClinicAddress),
		ReceptionistWhatsApp:    in.ReceptionistWhatsApp,
		PostalCode:              in.PostalCode,
		State:                   state,
		District:                district,
		IMCRegistrationNumber:   strings.TrimSpace(in.IMCRegistrationNumber),
		ClinicUserEmails:        identity.Dedupe(in.ClinicUserEmails, identity.LowerEmail),
		FieldRepID:              strings.TrimSpace(in.FieldRepID),
		RecruitedVia:            recruitedVia(in.FieldRepID),
		ClinicPasswordHash:      hash,
	}
	if len(doctor.ClinicUserEmails) > 3 {
		doctor.ClinicUserEmails = doctor.ClinicUserEmails[:3]
	}

	if err := s.doctors.InsertDoctor(ctx, doctor); err != nil {
		s.logger.Error("Doctor insert failed", "doctor_id", doctorID, "error", err)
		return nil, err
	}

	result.Status = StatusRegistered
	result.DoctorID = doctorID
	if err := s.enroll(ctx, result, doctorID, campaignID, in.FieldRepID); err != nil {
		return nil, err
	}
	result.EmailSent = s.sendLinks(ctx, doctor, campaignID)

	s.metrics.RecordRegistration(StatusRegistered)
	s.logger.Info("Doctor registered",
		"doctor_id", doctorID,
		"campaign_id", identity.NormalizeCampaignID(campaignID),
		"state", state,
	)
	return result, nil
}

func (s *RegistrationService) enroll(ctx context.Context, result *RegistrationResult, doctorID, campaignID, fieldRepID string) error {
	if campaignID == "" {
		return nil
	}
	outcome, err := s.doctors.EnsureEnrollment(ctx, doctorID, campaignID, fieldRepID)
	if err != nil {
		if errors.Is(err, repository.ErrDoctorNotFound) {
			return fmt.Errorf("failed to enroll doctor %s: %w", doctorID, err)
		}
		return err
	}
	s.metrics.RecordEnrollment(outcome.String())
	result.Enrollment = outcome.String()
	return nil
}

// sendLinks emails the clinic and password setup links. Failures are logged
// and reported as false.
func (s *RegistrationService) sendLinks(ctx context.Context, d *models.Doctor, campaignID string) bool {
	links := messages.Links{
		DoctorName: doctorName(d),
		ClinicLink: messages.ClinicLink(s.baseURL, d.DoctorID),
		LoginLink:  messages.LoginLink(s.baseURL),
	}
	if s.setupSigner != nil {
		if token, err := s.setupSigner.Sign(signing.PasswordSetupPayload(d.DoctorID, d.Email)); err == nil {
			links.SetupLink = messages.PasswordSetupLink(s.baseURL, token)
		} else {
			s.logger.Warn("Password setup link signing failed", "doctor_id", d.DoctorID, "error", err)
		}
	}

	var template string
	if campaignID != "" {
		if local, err := s.local.GetByCampaignID(ctx, campaignID); err == nil && local != nil {
			template = local.EmailRegistration
		}
	}

	err := s.mailer.SendDoctorLinks(ctx, email.DoctorLinks{To: d.Email, Links: links, Template: template})
	if err != nil {
		s.metrics.RecordEmail("failed")
		s.logger.Warn("Doctor links email failed",
			"doctor_id", d.DoctorID,
			"email", logger.MaskEmail(d.Email),
			"error", err,
		)
		return false
	}
	s.metrics.RecordEmail("sent")
	return true
}

func recruitedVia(fieldRepID string) string {
	if strings.TrimSpace(fieldRepID) != "" {
		return "field_rep"
	}
	return "self"
}
