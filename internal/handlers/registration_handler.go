package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"clinic-portal/internal/service"
)

// Registrar registers doctors
type Registrar interface {
	Register(ctx context.Context, in service.RegistrationInput) (*service.RegistrationResult, error)
}

// RegistrationErrorResponse carries the capacity state when the campaign is full
type RegistrationErrorResponse struct {
	Error    string                  `json:"error"`
	Capacity *service.CapacityStatus `json:"capacity,omitempty"`
}

// RegistrationHandler handles doctor self-registration
type RegistrationHandler struct {
	registrar Registrar
	logger    *slog.Logger
}

// NewRegistrationHandler creates a new registration handler
func NewRegistrationHandler(registrar Registrar, logger *slog.Logger) *RegistrationHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &RegistrationHandler{registrar: registrar, logger: logger}
}

// Register creates a doctor or re-sends links to an existing one
// @Summary Register a doctor
// @Description Registers a doctor in the master store, enrolls them into the campaign and emails their clinic links
// @Tags Doctors
// @Accept json
// @Produce json
// @Param registration body service.RegistrationInput true "Registration form"
// @Success 201 {object} service.RegistrationResult "Registered"
// @Success 200 {object} service.RegistrationResult "Already registered"
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Campaign not found"
// @Failure 409 {object} RegistrationErrorResponse "Campaign doctor limit reached"
// @Failure 422 {object} map[string]string "Unknown PIN code"
// @Router /api/v1/doctors/register [post]
func (h *RegistrationHandler) Register(w http.ResponseWriter, r *http.Request) {
	var in service.RegistrationInput
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64<<10))
	if err := dec.Decode(&in); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrMsgInvalidRequestBody)
		return
	}
	if in.CampaignID == "" {
		in.CampaignID = strings.TrimSpace(r.URL.Query().Get("campaign-id"))
	}
	if in.FieldRepID == "" {
		in.FieldRepID = strings.TrimSpace(r.URL.Query().Get("field_rep_id"))
	}

	result, err := h.registrar.Register(r.Context(), in)
	switch {
	case err == nil:
	case errors.Is(err, service.ErrInvalidRegistration):
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, service.ErrInvalidPincode):
		respondWithError(w, http.StatusUnprocessableEntity, ErrMsgInvalidPincode)
		return
	case errors.Is(err, service.ErrUnknownCampaign):
		respondWithError(w, http.StatusNotFound, ErrMsgCampaignNotFound)
		return
	case errors.Is(err, service.ErrCapacityExceeded):
		resp := RegistrationErrorResponse{Error: service.LimitReachedMessage}
		if result != nil {
			resp.Capacity = result.Capacity
		}
		respondWithJSON(w, http.StatusConflict, resp)
		return
	default:
		h.logger.Error("Registration failed", "error", err)
		respondWithError(w, http.StatusInternalServerError, ErrMsgInternal)
		return
	}

	code := http.StatusCreated
	if result.Status == service.StatusAlreadyRegistered {
		code = http.StatusOK
	}
	respondWithJSON(w, code, result)
}
