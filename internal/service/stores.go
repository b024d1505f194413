package service

import (
	"context"
	"errors"

	"clinic-portal/internal/email"
	"clinic-portal/internal/models"
)

var (
	ErrUnauthorizedFieldRep = errors.New("field rep not authorized")
	ErrCapacityExceeded     = errors.New("campaign doctor limit reached")
	ErrInvalidPincode       = errors.New("invalid or unknown pincode")
	ErrUnknownCampaign      = errors.New("unknown campaign")
	ErrClusterNotFound      = errors.New("video cluster not found")
	ErrInvalidCampaignEdit  = errors.New("invalid campaign details")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrInvalidSetupToken    = errors.New("password setup link is invalid or expired")
	ErrInvalidPassword      = errors.New("invalid password")
)

// FieldRepStore is the master-side field rep and join-table access the
// linkage resolver needs
type FieldRepStore interface {
	FetchFieldRep(ctx context.Context, identifier string) (*models.FieldRep, error)
	FetchFieldRepByPK(ctx context.Context, id int64) (*models.FieldRep, error)
	FetchFieldRepLink(ctx context.Context, linkID int64, campaignID string) (*models.CampaignFieldRepLink, error)
	FieldRepLinkedToCampaign(ctx context.Context, campaignID string, fieldRepID int64) bool
}

// CampaignStore reads master campaigns and their enrollment counts
type CampaignStore interface {
	FetchCampaign(ctx context.Context, campaignID string) (*models.MasterCampaign, error)
	CountEnrollments(ctx context.Context, campaignID string) int
}

// DoctorStore reads and writes master doctor rows and enrollments
type DoctorStore interface {
	FetchDoctorByWhatsApp(ctx context.Context, raw string) (*models.Doctor, error)
	FetchDoctorByID(ctx context.Context, doctorID string) (*models.Doctor, error)
	FindDoctorByEmailOrWhatsApp(ctx context.Context, email, whatsApp string) (*models.Doctor, error)
	GenerateDoctorID(ctx context.Context) (string, error)
	InsertDoctor(ctx context.Context, d *models.Doctor) error
	EnsureEnrollment(ctx context.Context, doctorID, campaignID, registeredBy string) (models.EnrollmentOutcome, error)
}

// SupportStore runs the enrollment fuzzy match behind campaign support
type SupportStore interface {
	FindCampaignSupport(ctx context.Context, emails, phones []string) ([]models.SupportMatch, error)
	ResolveDoctorIdentity(ctx context.Context, email string) (*models.DoctorIdentity, error)
}

// AccountStore reads and replaces master clinic credentials
type AccountStore interface {
	ResolveDoctorIdentity(ctx context.Context, email string) (*models.DoctorIdentity, error)
	FetchDoctorPasswordHash(ctx context.Context, doctorID string) (string, error)
	UpdateDoctorPassword(ctx context.Context, doctorID, hash string) error
}

// LocalCampaignStore is the local campaign mirror
type LocalCampaignStore interface {
	GetByCampaignID(ctx context.Context, campaignID string) (*models.LocalCampaign, error)
	ListByCampaignIDs(ctx context.Context, campaignIDs []string) (map[string]*models.LocalCampaign, error)
	ListAll(ctx context.Context) ([]*models.LocalCampaign, error)
	Upsert(ctx context.Context, c *models.LocalCampaign) error
}

// Mailer sends the doctor-links email
type Mailer interface {
	SendDoctorLinks(ctx context.Context, dl email.DoctorLinks) error
}
