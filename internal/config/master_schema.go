package config

import (
	"fmt"
	"regexp"
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// MasterSchema names every table and column the master accessor touches.
// Environments drift, so each name can be overridden through MASTER_DB_* variables.
type MasterSchema struct {
	DoctorTable     string
	Doctor          DoctorColumns
	FieldRepTable   string
	FieldRep        FieldRepColumns
	LinkTable       string
	Link            LinkColumns
	CampaignTable   string
	Campaign        CampaignColumns
	ContactTable    string
	Contact         ContactColumns
	EnrollmentTable string
	Enrollment      EnrollmentColumns
}

// DoctorColumns maps the doctor (login/profile) table
type DoctorColumns struct {
	DoctorID                string
	FirstName               string
	LastName                string
	Email                   string
	WhatsAppNo              string
	ClinicName              string
	ClinicPhone             string
	ClinicAppointmentNumber string
	ClinicAddress           string
	ReceptionistWhatsApp    string
	PostalCode              string
	State                   string
	District                string
	Photo                   string
	IMCNumber               string
	ClinicUser1Email        string
	ClinicUser2Email        string
	ClinicUser3Email        string
	FieldRepID              string
	RecruitedVia            string
	ClinicPasswordHash      string
}

// FieldRepColumns maps the field rep table
type FieldRepColumns struct {
	ID              string
	FullName        string
	PhoneNumber     string
	IsActive        string
	BrandSuppliedID string
}

// LinkColumns maps the campaign/field-rep join table
type LinkColumns struct {
	ID         string
	CampaignID string
	FieldRepID string
}

// CampaignColumns maps the campaign table
type CampaignColumns struct {
	ID                   string
	Name                 string
	BrandName            string
	DoctorsSupported     string
	AddToCampaignMessage string
	RegisterMessage      string
	BannerSmallURL       string
	BannerLargeURL       string
	BannerTargetURL      string
	SystemPE             string
	StartDate            string
	CreatedAt            string
}

// ContactColumns maps the numeric campaign contact table that enrollments reference
type ContactColumns struct {
	ID        string
	FullName  string
	Email     string
	Phone     string
	City      string
	State     string
	CreatedAt string
}

// EnrollmentColumns maps the doctor/campaign enrollment table
type EnrollmentColumns struct {
	DoctorID       string
	CampaignID     string
	RegisteredByID string
	RegisteredAt   string
	Active         string
}

// DefaultMasterSchema returns the documented table and column names
func DefaultMasterSchema() MasterSchema {
	return MasterSchema{
		DoctorTable: "redflags_doctor",
		Doctor: DoctorColumns{
			DoctorID:                "doctor_id",
			FirstName:               "first_name",
			LastName:                "last_name",
			Email:                   "email",
			WhatsAppNo:              "whatsapp_no",
			ClinicName:              "clinic_name",
			ClinicPhone:             "clinic_phone",
			ClinicAppointmentNumber: "clinic_appointment_number",
			ClinicAddress:           "clinic_address",
			ReceptionistWhatsApp:    "receptionist_whatsapp_number",
			PostalCode:              "postal_code",
			State:                   "state",
			District:                "district",
			Photo:                   "photo",
			IMCNumber:               "imc_registration_number",
			ClinicUser1Email:        "clinic_user1_email",
			ClinicUser2Email:        "clinic_user2_email",
			ClinicUser3Email:        "clinic_user3_email",
			FieldRepID:              "field_rep_id",
			RecruitedVia:            "recruited_via",
			ClinicPasswordHash:      "clinic_password_hash",
		},
		FieldRepTable: "campaign_fieldrep",
		FieldRep: FieldRepColumns{
			ID:              "id",
			FullName:        "full_name",
			PhoneNumber:     "phone_number",
			IsActive:        "is_active",
			BrandSuppliedID: "brand_supplied_field_rep_id",
		},
		LinkTable: "campaign_campaignfieldrep",
		Link: LinkColumns{
			ID:         "id",
			CampaignID: "campaign_id",
			FieldRepID: "field_rep_id",
		},
		CampaignTable: "campaign_campaign",
		Campaign: CampaignColumns{
			ID:                   "id",
			Name:                 "name",
			BrandName:            "brand_name",
			DoctorsSupported:     "num_doctors_supported",
			AddToCampaignMessage: "add_to_campaign_message",
			RegisterMessage:      "register_message",
			BannerSmallURL:       "banner_small_url",
			BannerLargeURL:       "banner_large_url",
			BannerTargetURL:      "banner_target_url",
			SystemPE:             "system_pe",
			StartDate:            "start_date",
			CreatedAt:            "created_at",
		},
		ContactTable: "campaign_doctor",
		Contact: ContactColumns{
			ID:        "id",
			FullName:  "full_name",
			Email:     "email",
			Phone:     "phone",
			City:      "city",
			State:     "state",
			CreatedAt: "created_at",
		},
		EnrollmentTable: "campaign_doctorcampaignenrollment",
		Enrollment: EnrollmentColumns{
			DoctorID:       "doctor_id",
			CampaignID:     "campaign_id",
			RegisteredByID: "registered_by_id",
			RegisteredAt:   "registered_at",
			Active:         "active",
		},
	}
}

// LoadMasterSchema applies MASTER_DB_* overrides on top of the defaults
func LoadMasterSchema() MasterSchema {
	s := DefaultMasterSchema()

	s.DoctorTable = getEnv("MASTER_DB_DOCTOR_TABLE", s.DoctorTable)
	s.Doctor.DoctorID = getEnv("MASTER_DB_DOCTOR_ID_COLUMN", s.Doctor.DoctorID)
	s.Doctor.Email = getEnv("MASTER_DB_DOCTOR_EMAIL_COLUMN", s.Doctor.Email)
	s.Doctor.WhatsAppNo = getEnv("MASTER_DB_DOCTOR_WHATSAPP_COLUMN", s.Doctor.WhatsAppNo)
	s.Doctor.Photo = getEnv("MASTER_DB_DOCTOR_PHOTO_COLUMN", s.Doctor.Photo)

	s.FieldRepTable = getEnv("MASTER_DB_FIELD_REP_TABLE", s.FieldRepTable)
	s.FieldRep.BrandSuppliedID = getEnv("MASTER_DB_FIELD_REP_EXTERNAL_ID_COLUMN", s.FieldRep.BrandSuppliedID)
	s.FieldRep.IsActive = getEnv("MASTER_DB_FIELD_REP_ACTIVE_COLUMN", s.FieldRep.IsActive)

	s.LinkTable = getEnv("MASTER_DB_CAMPAIGN_FIELD_REP_TABLE", s.LinkTable)

	s.CampaignTable = getEnv("MASTER_DB_CAMPAIGN_TABLE", s.CampaignTable)
	s.Campaign.DoctorsSupported = getEnv("MASTER_DB_CAMPAIGN_DOCTORS_SUPPORTED_COLUMN", s.Campaign.DoctorsSupported)
	s.Campaign.BannerSmallURL = getEnv("MASTER_DB_CAMPAIGN_BANNER_SMALL_URL_COLUMN", s.Campaign.BannerSmallURL)
	s.Campaign.BannerLargeURL = getEnv("MASTER_DB_CAMPAIGN_BANNER_LARGE_URL_COLUMN", s.Campaign.BannerLargeURL)
	s.Campaign.BannerTargetURL = getEnv("MASTER_DB_CAMPAIGN_BANNER_TARGET_URL_COLUMN", s.Campaign.BannerTargetURL)
	s.Campaign.BrandName = getEnv("MASTER_DB_CAMPAIGN_BRAND_NAME_COLUMN", s.Campaign.BrandName)

	s.ContactTable = getEnv("MASTER_DB_CAMPAIGN_DOCTOR_TABLE", s.ContactTable)

	s.EnrollmentTable = getEnv("MASTER_DB_ENROLLMENT_TABLE", s.EnrollmentTable)
	s.Enrollment.DoctorID = getEnv("MASTER_DB_ENROLLMENT_DOCTOR_COLUMN", s.Enrollment.DoctorID)
	s.Enrollment.CampaignID = getEnv("MASTER_DB_ENROLLMENT_CAMPAIGN_COLUMN", s.Enrollment.CampaignID)
	s.Enrollment.RegisteredByID = getEnv("MASTER_DB_ENROLLMENT_REGISTERED_BY_COLUMN", s.Enrollment.RegisteredByID)
	s.Enrollment.Active = getEnv("MASTER_DB_ENROLLMENT_ACTIVE_COLUMN", s.Enrollment.Active)

	return s
}

// Validate checks that every configured name is a plain SQL identifier
func (s MasterSchema) Validate() error {
	for _, name := range s.identifiers() {
		if !identifierPattern.MatchString(name) {
			return fmt.Errorf("invalid identifier %q", name)
		}
	}
	return nil
}

func (s MasterSchema) identifiers() []string {
	d, f, l, c, ct, e := s.Doctor, s.FieldRep, s.Link, s.Campaign, s.Contact, s.Enrollment
	return []string{
		s.DoctorTable, d.DoctorID, d.FirstName, d.LastName, d.Email, d.WhatsAppNo,
		d.ClinicName, d.ClinicPhone, d.ClinicAppointmentNumber, d.ClinicAddress,
		d.ReceptionistWhatsApp, d.PostalCode, d.State, d.District, d.Photo, d.IMCNumber,
		d.ClinicUser1Email, d.ClinicUser2Email, d.ClinicUser3Email, d.FieldRepID,
		d.RecruitedVia, d.ClinicPasswordHash,
		s.FieldRepTable, f.ID, f.FullName, f.PhoneNumber, f.IsActive, f.BrandSuppliedID,
		s.LinkTable, l.ID, l.CampaignID, l.FieldRepID,
		s.CampaignTable, c.ID, c.Name, c.BrandName, c.DoctorsSupported, c.AddToCampaignMessage,
		c.RegisterMessage, c.BannerSmallURL, c.BannerLargeURL, c.BannerTargetURL, c.SystemPE,
		c.StartDate, c.CreatedAt,
		s.ContactTable, ct.ID, ct.FullName, ct.Email, ct.Phone, ct.City, ct.State, ct.CreatedAt,
		s.EnrollmentTable, e.DoctorID, e.CampaignID, e.RegisteredByID, e.RegisteredAt, e.Active,
	}
}
