package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"clinic-portal/internal/auth"
	"clinic-portal/internal/identity"
	"clinic-portal/internal/logger"
	"clinic-portal/internal/models"
	"clinic-portal/internal/repository"
	"clinic-portal/internal/signing"
	"clinic-portal/pkg/validator"
)

// bcrypt ignores everything past 72 bytes
const maxPasswordBytes = 72

// SetupClaims is what a password setup link was issued for
type SetupClaims struct {
	DoctorID string `json:"doctor_id"`
	Email    string `json:"email"`
}

// AccountService signs clinic users in against master credentials and
// completes the password setup links sent at registration
type AccountService struct {
	store       AccountStore
	setupSigner *signing.Signer
	logger      *slog.Logger
}

// NewAccountService creates a new account service
func NewAccountService(store AccountStore, setupSigner *signing.Signer, logger *slog.Logger) *AccountService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AccountService{store: store, setupSigner: setupSigner, logger: logger}
}

// Authenticate checks email and password against the doctor row the email
// signs into. Every failure, including lookup errors, is ErrInvalidCredentials.
func (s *AccountService) Authenticate(ctx context.Context, email, password string) (*models.DoctorIdentity, error) {
	ident, err := s.store.ResolveDoctorIdentity(ctx, email)
	if err != nil {
		if !errors.Is(err, repository.ErrDoctorNotFound) {
			s.logger.Warn("Login identity lookup failed", "email", logger.MaskEmail(email), "error", err)
		}
		return nil, ErrInvalidCredentials
	}

	hash, err := s.store.FetchDoctorPasswordHash(ctx, ident.Doctor.DoctorID)
	if err != nil || hash == "" {
		return nil, ErrInvalidCredentials
	}
	if err := auth.VerifyPassword(hash, password); err != nil {
		s.logger.Info("Login rejected", "doctor_id", ident.Doctor.DoctorID, "role", ident.Role)
		return nil, ErrInvalidCredentials
	}

	s.logger.Info("Login accepted", "doctor_id", ident.Doctor.DoctorID, "role", ident.Role)
	return ident, nil
}

// SetupClaims verifies a password setup token without using it
func (s *AccountService) SetupClaims(token string) (*SetupClaims, error) {
	if s.setupSigner == nil {
		return nil, ErrInvalidSetupToken
	}
	payload, err := s.setupSigner.Verify(token, s.setupSigner.MaxAge())
	if err != nil {
		return nil, ErrInvalidSetupToken
	}
	doctorID, _ := payload["doctor_id"].(string)
	email, _ := payload["email"].(string)
	claims := &SetupClaims{DoctorID: strings.TrimSpace(doctorID), Email: identity.LowerEmail(email)}
	if claims.DoctorID == "" || claims.Email == "" {
		return nil, ErrInvalidSetupToken
	}
	return claims, nil
}

// CompletePasswordSetup stores password for the doctor a setup token was
// issued to. The token's email must still sign into that doctor.
func (s *AccountService) CompletePasswordSetup(ctx context.Context, token, password string) (*models.DoctorIdentity, error) {
	claims, err := s.SetupClaims(token)
	if err != nil {
		return nil, err
	}
	if err := validator.ValidatePassword(password); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPassword, err)
	}
	if len(password) > maxPasswordBytes {
		return nil, fmt.Errorf("%w: password must be at most %d bytes", ErrInvalidPassword, maxPasswordBytes)
	}

	ident, err := s.store.ResolveDoctorIdentity(ctx, claims.Email)
	if errors.Is(err, repository.ErrDoctorNotFound) {
		return nil, ErrInvalidSetupToken
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve doctor for password setup: %w", err)
	}
	if ident.Doctor.DoctorID != claims.DoctorID {
		s.logger.Warn("Password setup email no longer matches doctor",
			"doctor_id", claims.DoctorID,
			"email", logger.MaskEmail(claims.Email),
		)
		return nil, ErrInvalidSetupToken
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	if err := s.store.UpdateDoctorPassword(ctx, claims.DoctorID, hash); err != nil {
		if errors.Is(err, repository.ErrDoctorNotFound) {
			return nil, ErrInvalidSetupToken
		}
		return nil, err
	}

	s.logger.Info("Clinic password set", "doctor_id", claims.DoctorID, "role", ident.Role)
	return ident, nil
}
