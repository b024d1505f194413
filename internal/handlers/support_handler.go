package handlers

import (
	"context"
	"net/http"
	"strings"

	"clinic-portal/internal/auth"
	"clinic-portal/internal/models"
)

// SupportLookup finds the campaigns supporting a doctor
type SupportLookup interface {
	ForDoctor(ctx context.Context, primaryEmail string, altEmails, phones []string) []models.CampaignSupport
	ForAccount(ctx context.Context, loginEmail string) []models.CampaignSupport
}

// supportStaffRoles may look up any doctor by email or phone
var supportStaffRoles = []string{"publisher", "admin"}

// SupportResponse lists the campaigns supporting a doctor, most recent first
type SupportResponse struct {
	Campaigns []models.CampaignSupport `json:"campaigns"`
}

// SupportHandler serves the campaign banners shown to doctors
type SupportHandler struct {
	lookup SupportLookup
}

// NewSupportHandler creates a new support handler
func NewSupportHandler(lookup SupportLookup) *SupportHandler {
	return &SupportHandler{lookup: lookup}
}

// CampaignSupport lists the system campaigns a doctor is enrolled in. Doctors
// and clinic staff see their own clinic; publishers and admins may search.
// @Summary Campaign support for a doctor
// @Description Matches enrollments by any of the doctor's emails or phone numbers. Query parameters are honoured for publisher and admin identities only.
// @Tags Campaigns
// @Produce json
// @Security BearerAuth
// @Param email query string false "Primary email"
// @Param alt_email query []string false "Additional emails" collectionFormat(multi)
// @Param phone query []string false "Phone numbers" collectionFormat(multi)
// @Success 200 {object} SupportResponse
// @Failure 400 {object} map[string]string "No email or phone given"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /api/v1/campaign-support [get]
func (h *SupportHandler) CampaignSupport(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, ErrMsgUnauthorized)
		return
	}
	if !hasAnyRole(id, supportStaffRoles) {
		respondWithJSON(w, http.StatusOK, SupportResponse{Campaigns: h.lookup.ForAccount(r.Context(), id.Username)})
		return
	}

	q := r.URL.Query()
	email := strings.TrimSpace(q.Get("email"))
	alt := splitValues(q["alt_email"])
	phones := splitValues(q["phone"])
	if email == "" && len(alt) == 0 && len(phones) == 0 {
		respondWithError(w, http.StatusBadRequest, ErrMsgMissingSearchOptions)
		return
	}
	respondWithJSON(w, http.StatusOK, SupportResponse{Campaigns: h.lookup.ForDoctor(r.Context(), email, alt, phones)})
}

// splitValues flattens repeated and comma separated query values
func splitValues(values []string) []string {
	var out []string
	for _, v := range values {
		for part := range strings.SplitSeq(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func hasAnyRole(id *auth.Identity, roles []string) bool {
	for _, role := range roles {
		if id.HasRole(role) {
			return true
		}
	}
	return false
}
