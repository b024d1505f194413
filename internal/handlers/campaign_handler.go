package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"clinic-portal/internal/auth"
	"clinic-portal/internal/models"
	"clinic-portal/internal/service"
)

// CampaignMirror reads and edits the local campaign mirror
type CampaignMirror interface {
	Get(ctx context.Context, campaignID string) (*models.LocalCampaign, error)
	SaveDetails(ctx context.Context, campaignID, publisherSub string, edit service.CampaignEdit) (*models.LocalCampaign, error)
}

// CapacityChecker reports campaign license use
type CapacityChecker interface {
	Check(ctx context.Context, campaignID string) service.CapacityStatus
}

// CampaignResponse combines the local mirror with live capacity
type CampaignResponse struct {
	Campaign *models.LocalCampaign  `json:"campaign,omitempty"`
	Capacity service.CapacityStatus `json:"capacity"`
}

// CampaignHandler handles publisher campaign requests
type CampaignHandler struct {
	mirror CampaignMirror
	gate   CapacityChecker
	logger *slog.Logger
}

// NewCampaignHandler creates a new campaign handler
func NewCampaignHandler(mirror CampaignMirror, gate CapacityChecker, logger *slog.Logger) *CampaignHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CampaignHandler{mirror: mirror, gate: gate, logger: logger}
}

// GetCampaign returns the local campaign and its capacity
// @Summary Get campaign
// @Tags Campaigns
// @Produce json
// @Security BearerAuth
// @Param campaign_id path string true "Campaign ID"
// @Success 200 {object} CampaignResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Campaign not found"
// @Router /api/v1/campaigns/{campaign_id} [get]
func (h *CampaignHandler) GetCampaign(w http.ResponseWriter, r *http.Request) {
	campaignID := r.PathValue("campaign_id")

	capacity := h.gate.Check(r.Context(), campaignID)
	if capacity.Campaign == nil {
		respondWithError(w, http.StatusNotFound, ErrMsgCampaignNotFound)
		return
	}
	local, err := h.mirror.Get(r.Context(), campaignID)
	if err != nil {
		h.logger.Error("Local campaign lookup failed", "campaign_id", campaignID, "error", err)
		respondWithError(w, http.StatusInternalServerError, ErrMsgInternal)
		return
	}
	respondWithJSON(w, http.StatusOK, CampaignResponse{Campaign: local, Capacity: capacity})
}

// UpdateCampaign saves the publisher-editable campaign details
// @Summary Update campaign details
// @Description Saves the local campaign and refreshes the doctor limit and banners from the master store
// @Tags Campaigns
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param campaign_id path string true "Campaign ID"
// @Param details body service.CampaignEdit true "Campaign details"
// @Success 200 {object} models.LocalCampaign
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Permission denied"
// @Failure 404 {object} map[string]string "Campaign not found"
// @Router /api/v1/campaigns/{campaign_id} [put]
func (h *CampaignHandler) UpdateCampaign(w http.ResponseWriter, r *http.Request) {
	var edit service.CampaignEdit
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 256<<10)).Decode(&edit); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrMsgInvalidRequestBody)
		return
	}

	var publisherSub string
	if id, ok := auth.IdentityFromContext(r.Context()); ok {
		publisherSub = id.Subject
	}

	saved, err := h.mirror.SaveDetails(r.Context(), r.PathValue("campaign_id"), publisherSub, edit)
	switch {
	case err == nil:
		respondWithJSON(w, http.StatusOK, saved)
	case errors.Is(err, service.ErrUnknownCampaign):
		respondWithError(w, http.StatusNotFound, ErrMsgCampaignNotFound)
	case errors.Is(err, service.ErrInvalidCampaignEdit):
		respondWithError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("Campaign save failed", "campaign_id", r.PathValue("campaign_id"), "error", err)
		respondWithError(w, http.StatusInternalServerError, ErrMsgInternal)
	}
}
