package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"clinic-portal/internal/auth"
	"clinic-portal/internal/config"
)

// SSOHandler accepts sign-on handoffs from the publisher portal
type SSOHandler struct {
	verifier *auth.Verifier
	config   config.SSOConfig
	logger   *slog.Logger
	now      func() time.Time
}

// NewSSOHandler creates a new SSO handler. A nil verifier makes every
// consume attempt fail with 503.
func NewSSOHandler(verifier *auth.Verifier, cfg config.SSOConfig, logger *slog.Logger) *SSOHandler {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.CookieName == "" {
		cfg.CookieName = "sso_token"
	}
	return &SSOHandler{verifier: verifier, config: cfg, logger: logger, now: time.Now}
}

// Consume verifies a handoff token, stores it in a cookie and redirects
// @Summary Consume SSO handoff
// @Description Verifies an HS256 handoff token, sets the session cookie and redirects to a local path
// @Tags SSO
// @Param token query string true "Handoff token (sso_token, jwt and access_token are accepted too)"
// @Param campaign_id query string false "Campaign the token must be issued for"
// @Param next query string false "Local path to continue to"
// @Success 302 "Redirect to next"
// @Failure 400 {object} map[string]string "Missing token"
// @Failure 401 {object} map[string]string "Invalid token"
// @Failure 403 {object} map[string]string "Campaign mismatch"
// @Failure 503 {object} map[string]string "SSO not configured"
// @Router /sso/consume [get]
func (h *SSOHandler) Consume(w http.ResponseWriter, r *http.Request) {
	if h.verifier == nil {
		respondWithError(w, http.StatusServiceUnavailable, ErrMsgSSONotConfigured)
		return
	}

	token := firstValue(r, "token", "sso_token", "jwt", "access_token")
	if token == "" {
		respondWithError(w, http.StatusBadRequest, ErrMsgMissingSSOToken)
		return
	}
	campaignID := firstValue(r, "campaign_id", "campaign-id")

	var (
		id  *auth.Identity
		err error
	)
	if campaignID != "" {
		id, err = h.verifier.VerifyForCampaign(token, campaignID)
	} else {
		id, err = h.verifier.Verify(token)
	}
	if err != nil {
		h.logger.Warn("SSO handoff rejected", "campaign_id", campaignID, "error", err)
		if errors.Is(err, auth.ErrCampaignMismatch) {
			respondWithError(w, http.StatusForbidden, ErrMsgSSOCampaignMismatch)
			return
		}
		respondWithError(w, http.StatusUnauthorized, ErrMsgInvalidSSOToken)
		return
	}

	maxAge := int(id.ExpiresAt.Sub(h.now()).Seconds())
	http.SetCookie(w, &http.Cookie{
		Name:     h.config.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   max(maxAge, 1),
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	h.logger.Info("SSO handoff accepted",
		"subject", id.Subject,
		"username", id.Username,
		"roles", id.Roles,
		"campaign_id", campaignID,
	)
	http.Redirect(w, r, safeNext(r.URL.Query().Get("next")), http.StatusFound)
}

// safeNext allows only same-site absolute paths
func safeNext(next string) string {
	next = strings.TrimSpace(next)
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.Contains(next, `\`) {
		return "/"
	}
	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return "/"
	}
	return next
}
