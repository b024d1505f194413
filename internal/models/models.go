package models

import (
	"strings"
	"time"
)

// Doctor represents a doctor/clinic row in the master store
type Doctor struct {
	DoctorID                string   `json:"doctor_id" db:"doctor_id"`
	FirstName               string   `json:"first_name" db:"first_name"`
	LastName                string   `json:"last_name" db:"last_name"`
	Email                   string   `json:"email" db:"email"`
	WhatsAppNo              string   `json:"whatsapp_no" db:"whatsapp_no"`
	ClinicName              string   `json:"clinic_name" db:"clinic_name"`
	ClinicPhone             string   `json:"clinic_phone" db:"clinic_phone"`
	ClinicAppointmentNumber string   `json:"clinic_appointment_number" db:"clinic_appointment_number"`
	ClinicAddress           string   `json:"clinic_address" db:"clinic_address"`
	ReceptionistWhatsApp    string   `json:"receptionist_whatsapp_number" db:"receptionist_whatsapp_number"`
	PostalCode              string   `json:"postal_code" db:"postal_code"`
	State                   string   `json:"state" db:"state"`
	District                string   `json:"district" db:"district"`
	PhotoPath               string   `json:"photo_path" db:"photo"`
	IMCRegistrationNumber   string   `json:"imc_registration_number" db:"imc_registration_number"`
	ClinicUserEmails        []string `json:"clinic_user_emails" db:"-"`
	FieldRepID              string   `json:"field_rep_id" db:"field_rep_id"`
	RecruitedVia            string   `json:"recruited_via" db:"recruited_via"`
	ClinicPasswordHash      string   `json:"-" db:"clinic_password_hash"`
}

// FullName joins first and last name
func (d *Doctor) FullName() string {
	return joinName(d.FirstName, d.LastName)
}

// Login roles a master doctor row can be signed into
const (
	RoleDoctor     = "doctor"
	RoleClinicUser = "clinic_user"
)

// DoctorIdentity is the master doctor row a login email belongs to
type DoctorIdentity struct {
	Doctor      *Doctor `json:"doctor"`
	LoginEmail  string  `json:"login_email"`
	Role        string  `json:"role"`
	DisplayName string  `json:"display_name"`
}

// NewDoctorIdentity resolves which of d's emails loginEmail is. Anything
// other than the doctor's own address is a clinic user.
func NewDoctorIdentity(d *Doctor, loginEmail string) *DoctorIdentity {
	login := strings.ToLower(trim(loginEmail))
	id := &DoctorIdentity{Doctor: d, LoginEmail: login, Role: RoleClinicUser, DisplayName: login}
	if strings.EqualFold(trim(d.Email), login) {
		id.Role = RoleDoctor
		if name := d.FullName(); name != "" {
			id.DisplayName = name
		}
	}
	return id
}

// FieldRep represents a field representative in the master store
type FieldRep struct {
	ID                      int64  `json:"id" db:"id"`
	FullName                string `json:"full_name" db:"full_name"`
	PhoneNumber             string `json:"phone_number" db:"phone_number"`
	IsActive                bool   `json:"is_active" db:"is_active"`
	BrandSuppliedFieldRepID string `json:"brand_supplied_field_rep_id" db:"brand_supplied_field_rep_id"`
}

// CampaignFieldRepLink is a row of the campaign/field-rep join table
type CampaignFieldRepLink struct {
	ID         int64  `json:"id" db:"id"`
	CampaignID string `json:"campaign_id" db:"campaign_id"`
	FieldRepID int64  `json:"field_rep_id" db:"field_rep_id"`
}

// MasterCampaign holds the authoritative campaign values from the master store
type MasterCampaign struct {
	ID                   string     `json:"id" db:"id"`
	Name                 string     `json:"name" db:"name"`
	BrandName            string     `json:"brand_name" db:"brand_name"`
	DoctorsSupported     int        `json:"doctors_supported" db:"num_doctors_supported"`
	AddToCampaignMessage string     `json:"add_to_campaign_message" db:"add_to_campaign_message"`
	RegisterMessage      string     `json:"register_message" db:"register_message"`
	BannerSmallURL       string     `json:"banner_small_url" db:"banner_small_url"`
	BannerLargeURL       string     `json:"banner_large_url" db:"banner_large_url"`
	BannerTargetURL      string     `json:"banner_target_url" db:"banner_target_url"`
	SystemPE             bool       `json:"system_pe" db:"system_pe"`
	StartDate            *time.Time `json:"start_date,omitempty" db:"start_date"`
	CreatedAt            *time.Time `json:"created_at,omitempty" db:"created_at"`
}

// CampaignContact is the numeric contact row enrollments point at
type CampaignContact struct {
	ID        int64     `json:"id" db:"id"`
	FullName  string    `json:"full_name" db:"full_name"`
	Email     string    `json:"email" db:"email"`
	Phone     string    `json:"phone" db:"phone"`
	City      string    `json:"city" db:"city"`
	State     string    `json:"state" db:"state"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// EnrollmentOutcome distinguishes a fresh enrollment from an existing one
type EnrollmentOutcome int

const (
	EnrollmentCreated EnrollmentOutcome = iota + 1
	EnrollmentAlreadyExists
)

func (o EnrollmentOutcome) String() string {
	switch o {
	case EnrollmentCreated:
		return "created"
	case EnrollmentAlreadyExists:
		return "already_exists"
	default:
		return "unknown"
	}
}

// SupportMatch is an enrollment matched by contact email or phone, joined with its campaign
type SupportMatch struct {
	Campaign     MasterCampaign `json:"campaign"`
	ContactEmail string         `json:"contact_email"`
	ContactPhone string         `json:"contact_phone"`
	RegisteredAt *time.Time     `json:"registered_at,omitempty"`
}

// LocalCampaign is this application's mirror of a campaign.
// DoctorsSupported and the banner URLs always reflect the master store.
type LocalCampaign struct {
	ID                int64      `json:"id" db:"id"`
	CampaignID        string     `json:"campaign_id" db:"campaign_id"`
	VideoClusterName  string     `json:"video_cluster_name" db:"video_cluster_name"`
	SelectionJSON     string     `json:"selection_json" db:"selection_json"`
	DoctorsSupported  int        `json:"doctors_supported" db:"doctors_supported"`
	BannerSmallURL    string     `json:"banner_small_url" db:"banner_small_url"`
	BannerLargeURL    string     `json:"banner_large_url" db:"banner_large_url"`
	BannerTargetURL   string     `json:"banner_target_url" db:"banner_target_url"`
	StartDate         *time.Time `json:"start_date,omitempty" db:"start_date"`
	EndDate           *time.Time `json:"end_date,omitempty" db:"end_date"`
	WAAddition        string     `json:"wa_addition" db:"wa_addition"`
	EmailRegistration string     `json:"email_registration" db:"email_registration"`
	PublisherSub      string     `json:"publisher_sub" db:"publisher_sub"`
	CreatedAt         time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at" db:"updated_at"`
}

// VideoCluster is a published catalog entry
type VideoCluster struct {
	ID          int64  `json:"id" db:"id"`
	Code        string `json:"code" db:"code"`
	DisplayName string `json:"display_name" db:"display_name"`
	IsPublished bool   `json:"is_published" db:"is_published"`
	SortOrder   int    `json:"sort_order" db:"sort_order"`
}

// Catalog is the cached structure served to the sharing screen
type Catalog struct {
	Clusters    []VideoCluster `json:"clusters"`
	GeneratedAt time.Time      `json:"generated_at"`
}

// DoctorUser is the user block of a display doctor
type DoctorUser struct {
	FullName string `json:"full_name"`
	Email    string `json:"email,omitempty"`
}

// ClinicDisplay holds patient-facing clinic details
type ClinicDisplay struct {
	DisplayName          string `json:"display_name"`
	ClinicPhone          string `json:"clinic_phone"`
	ClinicWhatsAppNumber string `json:"clinic_whatsapp_number"`
	AddressText          string `json:"address_text"`
	State                string `json:"state"`
	PostalCode           string `json:"postal_code"`
}

// DoctorDisplay is the template-shaped view of a master doctor row
type DoctorDisplay struct {
	DoctorID       string        `json:"doctor_id"`
	WhatsAppNumber string        `json:"whatsapp_number"`
	IMCNumber      string        `json:"imc_number"`
	User           DoctorUser    `json:"user"`
	Clinic         ClinicDisplay `json:"clinic"`
}

// NewDoctorDisplay converts a master row into display context.
// A missing name becomes "Doctor" and a missing clinic name "Dr. {name}".
func NewDoctorDisplay(d *Doctor) DoctorDisplay {
	fullName := d.FullName()
	if fullName == "" {
		fullName = "Doctor"
	}
	clinicName := trim(d.ClinicName)
	if clinicName == "" {
		clinicName = "Dr. " + fullName
	}
	return DoctorDisplay{
		DoctorID:       trim(d.DoctorID),
		WhatsAppNumber: trim(d.WhatsAppNo),
		IMCNumber:      trim(d.IMCRegistrationNumber),
		User: DoctorUser{
			FullName: fullName,
			Email:    trim(d.Email),
		},
		Clinic: ClinicDisplay{
			DisplayName:          clinicName,
			ClinicPhone:          trim(d.ClinicPhone),
			ClinicWhatsAppNumber: trim(d.ReceptionistWhatsApp),
			AddressText:          trim(d.ClinicAddress),
			State:                trim(d.State),
			PostalCode:           trim(d.PostalCode),
		},
	}
}

// CampaignSupport is one banner/brand entry surfaced to a doctor
type CampaignSupport struct {
	CampaignID      string     `json:"campaign_id"`
	CampaignName    string     `json:"campaign_name"`
	ClusterLabel    string     `json:"cluster_label"`
	BrandName       string     `json:"brand_name"`
	BannerSmallURL  string     `json:"banner_small_url"`
	BannerLargeURL  string     `json:"banner_large_url"`
	BannerTargetURL string     `json:"banner_target_url"`
	StartDate       *time.Time `json:"start_date,omitempty"`
}
