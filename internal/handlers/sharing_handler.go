package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"clinic-portal/internal/repository"
	"clinic-portal/internal/service"
)

// PatientLinks mints and opens signed patient link payloads
type PatientLinks interface {
	PatientLinkForDoctor(ctx context.Context, doctorID string) (*service.PatientLink, error)
	OpenPatientLink(token string) map[string]any
}

// SharingHandler serves the signed payloads behind patient sharing links
type SharingHandler struct {
	links  PatientLinks
	logger *slog.Logger
}

// NewSharingHandler creates a new sharing handler
func NewSharingHandler(links PatientLinks, logger *slog.Logger) *SharingHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SharingHandler{links: links, logger: logger}
}

// CreatePatientLink signs the display payload of a master doctor
// @Summary Create patient link
// @Description Builds the doctor display payload from the master store and signs it
// @Tags Sharing
// @Produce json
// @Param doctor_id path string true "Doctor ID"
// @Success 200 {object} service.PatientLink
// @Failure 404 {object} map[string]string "Doctor not found"
// @Router /api/v1/doctors/{doctor_id}/patient-link [get]
func (h *SharingHandler) CreatePatientLink(w http.ResponseWriter, r *http.Request) {
	link, err := h.links.PatientLinkForDoctor(r.Context(), r.PathValue("doctor_id"))
	if err != nil {
		if errors.Is(err, repository.ErrDoctorNotFound) {
			respondWithError(w, http.StatusNotFound, ErrMsgDoctorNotFound)
			return
		}
		h.logger.Error("Patient link signing failed", "doctor_id", r.PathValue("doctor_id"), "error", err)
		respondWithError(w, http.StatusInternalServerError, ErrMsgInternal)
		return
	}
	respondWithJSON(w, http.StatusOK, link)
}

// OpenPatientLink verifies a token and returns its payload, or {} when it does not verify
// @Summary Open patient link
// @Tags Sharing
// @Produce json
// @Param token path string true "Signed token"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/patient-link/{token} [get]
func (h *SharingHandler) OpenPatientLink(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.links.OpenPatientLink(r.PathValue("token")))
}
