package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"clinic-portal/internal/auth"
	"clinic-portal/internal/service"
)

// LandingFlow is the field-rep landing flow
type LandingFlow interface {
	Prepare(ctx context.Context, campaignID, fieldRepID string, id *auth.Identity) (*service.LandingState, error)
	Submit(ctx context.Context, campaignID, fieldRepID, whatsApp string, id *auth.Identity) (*service.LandingResult, *service.LandingState, error)
}

// LandingView is the public part of a landing state. Field rep contact
// details and master campaign content never leave the server.
type LandingView struct {
	CampaignID       string `json:"campaign_id"`
	FieldRepID       string `json:"field_rep_id"`
	Allowed          bool   `json:"allowed"`
	Reason           string `json:"reason,omitempty"`
	Path             string `json:"path"`
	DownstreamID     string `json:"downstream_id,omitempty"`
	DoctorsSupported int    `json:"doctors_supported"`
	Enrolled         int    `json:"enrolled"`
	LimitReached     bool   `json:"limit_reached"`
	Message          string `json:"message,omitempty"`
}

// LandingResponse is returned whenever the landing flow does not redirect
type LandingResponse struct {
	State *LandingView `json:"state,omitempty"`
	Error string       `json:"error,omitempty"`
}

func newLandingView(state *service.LandingState) *LandingView {
	if state == nil {
		return nil
	}
	v := &LandingView{
		CampaignID: state.CampaignID,
		FieldRepID: state.FieldRepID,
		Allowed:    state.Linkage.Allowed,
		Reason:     state.Linkage.Reason,
		Path:       state.Linkage.Path,
	}
	if !v.Allowed {
		return v
	}
	v.DownstreamID = state.Linkage.DownstreamID
	v.DoctorsSupported = state.Capacity.DoctorsSupported
	v.Enrolled = state.Capacity.Enrolled
	v.LimitReached = state.Capacity.LimitReached
	v.Message = state.Capacity.Message
	return v
}

// LandingHandler serves the page a field rep opens from a campaign link
type LandingHandler struct {
	landing LandingFlow
	logger  *slog.Logger
}

// NewLandingHandler creates a new landing handler
func NewLandingHandler(landing LandingFlow, logger *slog.Logger) *LandingHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &LandingHandler{landing: landing, logger: logger}
}

// Show authorizes the field rep and reports campaign capacity
// @Summary Field rep landing state
// @Description Checks that the field rep belongs to the campaign and that the campaign has licenses left
// @Tags Landing
// @Produce json
// @Param campaign-id query string true "Campaign ID (campaign_id is accepted too)"
// @Param field_rep_id query string true "Field rep ID, rep key or join-table key"
// @Success 200 {object} LandingResponse
// @Failure 403 {object} LandingResponse "Field rep not authorized"
// @Failure 404 {object} LandingResponse "Campaign not found"
// @Failure 409 {object} LandingResponse "Campaign doctor limit reached"
// @Router /campaign/landing [get]
func (h *LandingHandler) Show(w http.ResponseWriter, r *http.Request) {
	campaignID, fieldRepID := landingParams(r)
	id, _ := auth.IdentityFromContext(r.Context())

	state, err := h.landing.Prepare(r.Context(), campaignID, fieldRepID, id)
	if err != nil {
		h.respondLandingError(w, state, err)
		return
	}
	respondWithJSON(w, http.StatusOK, LandingResponse{State: newLandingView(state)})
}

// Submit takes the doctor's WhatsApp number and redirects to WhatsApp or registration
// @Summary Submit doctor WhatsApp number
// @Description Enrolls a known doctor and redirects to a WhatsApp deep link, or redirects to registration
// @Tags Landing
// @Accept x-www-form-urlencoded
// @Produce json
// @Param campaign-id query string true "Campaign ID"
// @Param field_rep_id query string true "Field rep ID"
// @Param doctor_whatsapp_number formData string true "Doctor WhatsApp number"
// @Success 302 "Redirect to wa.me or the registration page"
// @Failure 400 {object} LandingResponse "Invalid WhatsApp number"
// @Failure 403 {object} LandingResponse "Field rep not authorized"
// @Failure 409 {object} LandingResponse "Campaign doctor limit reached"
// @Router /campaign/landing [post]
func (h *LandingHandler) Submit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrMsgInvalidRequestBody)
		return
	}
	campaignID, fieldRepID := landingParams(r)
	id, _ := auth.IdentityFromContext(r.Context())

	result, state, err := h.landing.Submit(r.Context(), campaignID, fieldRepID, r.FormValue("doctor_whatsapp_number"), id)
	if err != nil {
		h.respondLandingError(w, state, err)
		return
	}
	http.Redirect(w, r, result.RedirectURL, http.StatusFound)
}

func (h *LandingHandler) respondLandingError(w http.ResponseWriter, state *service.LandingState, err error) {
	resp := LandingResponse{State: newLandingView(state), Error: err.Error()}
	switch {
	case errors.Is(err, service.ErrUnauthorizedFieldRep):
		if state != nil && state.Linkage.Reason != "" {
			resp.Error = state.Linkage.Reason
		}
		respondWithJSON(w, http.StatusForbidden, resp)
	case errors.Is(err, service.ErrUnknownCampaign):
		resp.Error = ErrMsgCampaignNotFound
		respondWithJSON(w, http.StatusNotFound, resp)
	case errors.Is(err, service.ErrCapacityExceeded):
		resp.Error = service.LimitReachedMessage
		respondWithJSON(w, http.StatusConflict, resp)
	case errors.Is(err, service.ErrInvalidWhatsApp):
		respondWithJSON(w, http.StatusBadRequest, resp)
	default:
		h.logger.Error("Landing flow failed", "error", err)
		respondWithError(w, http.StatusInternalServerError, ErrMsgInternal)
	}
}

// landingParams accepts both spellings of the campaign parameter
func landingParams(r *http.Request) (campaignID, fieldRepID string) {
	campaignID = firstValue(r, "campaign-id", "campaign_id")
	fieldRepID = firstValue(r, "field_rep_id")
	return campaignID, fieldRepID
}

func firstValue(r *http.Request, keys ...string) string {
	for _, key := range keys {
		if v := strings.TrimSpace(r.FormValue(key)); v != "" {
			return v
		}
	}
	return ""
}
