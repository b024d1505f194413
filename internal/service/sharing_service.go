package service

import (
	"context"
	"fmt"
	"strings"

	"clinic-portal/internal/models"
	"clinic-portal/internal/signing"
)

// SharingService mints and opens the signed payloads behind patient links
type SharingService struct {
	doctors DoctorStore
	signer  *signing.Signer
}

// NewSharingService creates a new sharing service
func NewSharingService(doctors DoctorStore, signer *signing.Signer) *SharingService {
	return &SharingService{doctors: doctors, signer: signer}
}

// PatientLink is a signed token plus the display context it was built from
type PatientLink struct {
	Token   string               `json:"token"`
	Display models.DoctorDisplay `json:"display"`
}

// PatientLinkForDoctor signs the display payload of a master doctor
func (s *SharingService) PatientLinkForDoctor(ctx context.Context, doctorID string) (*PatientLink, error) {
	doctor, err := s.doctors.FetchDoctorByID(ctx, strings.TrimSpace(doctorID))
	if err != nil {
		return nil, err
	}
	display := models.NewDoctorDisplay(doctor)
	token, err := s.signer.Sign(signing.PatientLinkPayload(display))
	if err != nil {
		return nil, fmt.Errorf("failed to sign patient link: %w", err)
	}
	return &PatientLink{Token: token, Display: display}, nil
}

// OpenPatientLink verifies token. Any failure yields an empty payload.
func (s *SharingService) OpenPatientLink(token string) map[string]any {
	return s.signer.Unsign(token)
}
