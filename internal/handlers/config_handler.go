package handlers

import (
	"net/http"

	"clinic-portal/internal/config"
)

// AppConfigResponse is the public portal configuration
type AppConfigResponse struct {
	Name                string `json:"name"`
	Version             string `json:"version"`
	Env                 string `json:"env"`
	SiteBaseURL         string `json:"site_base_url"`
	WhatsAppCountryCode string `json:"whatsapp_country_code"`
	SSOEnabled          bool   `json:"sso_enabled"`
}

// ConfigHandler handles configuration requests
type ConfigHandler struct {
	config *config.Config
}

// NewConfigHandler creates a new config handler
func NewConfigHandler(cfg *config.Config) *ConfigHandler {
	return &ConfigHandler{config: cfg}
}

// GetAppConfig returns the public app configuration for the frontend
// @Summary Get app configuration
// @Tags Configuration
// @Produce json
// @Success 200 {object} AppConfigResponse
// @Router /api/v1/config/app [get]
func (h *ConfigHandler) GetAppConfig(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, AppConfigResponse{
		Name:                h.config.App.Name,
		Version:             h.config.App.Version,
		Env:                 h.config.App.Env,
		SiteBaseURL:         h.config.App.SiteBaseURL,
		WhatsAppCountryCode: h.config.App.WhatsAppCountryCode,
		SSOEnabled:          h.config.SSO.SharedSecret != "",
	})
}
