package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"clinic-portal/internal/messages"
	"clinic-portal/internal/models"
	"clinic-portal/internal/service"
)

// AccountManager signs clinic users in and completes password setup
type AccountManager interface {
	Authenticate(ctx context.Context, email, password string) (*models.DoctorIdentity, error)
	SetupClaims(token string) (*service.SetupClaims, error)
	CompletePasswordSetup(ctx context.Context, token, password string) (*models.DoctorIdentity, error)
}

// LoginRequest is a clinic login form
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse identifies the clinic a login belongs to
type LoginResponse struct {
	DoctorID    string `json:"doctor_id"`
	Role        string `json:"role"`
	DisplayName string `json:"display_name"`
	ClinicLink  string `json:"clinic_link"`
}

// PasswordSetupRequest is the new password form behind a setup link
type PasswordSetupRequest struct {
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
}

// PasswordSetupResponse confirms a stored password
type PasswordSetupResponse struct {
	Status   string `json:"status"`
	DoctorID string `json:"doctor_id"`
	LoginURL string `json:"login_url"`
}

// AccountHandler handles clinic login and password setup
type AccountHandler struct {
	accounts AccountManager
	baseURL  string
	logger   *slog.Logger
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(accounts AccountManager, baseURL string, logger *slog.Logger) *AccountHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AccountHandler{accounts: accounts, baseURL: strings.TrimRight(baseURL, "/"), logger: logger}
}

// Login checks a clinic email and password
// @Summary Clinic login
// @Description Accepts the doctor's email or any clinic user email on the doctor record
// @Tags Accounts
// @Accept json
// @Produce json
// @Param login body LoginRequest true "Credentials"
// @Success 200 {object} LoginResponse
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 401 {object} map[string]string "Invalid email or password"
// @Router /accounts/login [post]
func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 16<<10)).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrMsgInvalidRequestBody)
		return
	}

	ident, err := h.accounts.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		respondWithError(w, http.StatusUnauthorized, ErrMsgInvalidCredentials)
		return
	}
	respondWithJSON(w, http.StatusOK, LoginResponse{
		DoctorID:    ident.Doctor.DoctorID,
		Role:        ident.Role,
		DisplayName: ident.DisplayName,
		ClinicLink:  messages.ClinicLink(h.baseURL, ident.Doctor.DoctorID),
	})
}

// CheckPasswordSetup reports who a setup link was issued to
// @Summary Inspect a password setup link
// @Tags Accounts
// @Produce json
// @Param token path string true "Signed setup token"
// @Success 200 {object} service.SetupClaims
// @Failure 400 {object} map[string]string "Invalid or expired link"
// @Router /accounts/password-setup/{token} [get]
func (h *AccountHandler) CheckPasswordSetup(w http.ResponseWriter, r *http.Request) {
	claims, err := h.accounts.SetupClaims(r.PathValue("token"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, ErrMsgInvalidSetupLink)
		return
	}
	respondWithJSON(w, http.StatusOK, claims)
}

// CompletePasswordSetup stores the clinic password chosen through a setup link
// @Summary Complete password setup
// @Tags Accounts
// @Accept json
// @Produce json
// @Param token path string true "Signed setup token"
// @Param password body PasswordSetupRequest true "New password"
// @Success 200 {object} PasswordSetupResponse
// @Failure 400 {object} map[string]string "Invalid link or password"
// @Router /accounts/password-setup/{token} [post]
func (h *AccountHandler) CompletePasswordSetup(w http.ResponseWriter, r *http.Request) {
	var req PasswordSetupRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 16<<10)).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrMsgInvalidRequestBody)
		return
	}
	if req.Password != req.PasswordConfirm {
		respondWithError(w, http.StatusBadRequest, ErrMsgPasswordMismatch)
		return
	}

	ident, err := h.accounts.CompletePasswordSetup(r.Context(), r.PathValue("token"), req.Password)
	switch {
	case err == nil:
	case errors.Is(err, service.ErrInvalidSetupToken):
		respondWithError(w, http.StatusBadRequest, ErrMsgInvalidSetupLink)
		return
	case errors.Is(err, service.ErrInvalidPassword):
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	default:
		h.logger.Error("Password setup failed", "error", err)
		respondWithError(w, http.StatusInternalServerError, ErrMsgInternal)
		return
	}

	respondWithJSON(w, http.StatusOK, PasswordSetupResponse{
		Status:   "password_set",
		DoctorID: ident.Doctor.DoctorID,
		LoginURL: messages.LoginLink(h.baseURL),
	})
}
