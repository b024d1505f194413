package handlers

// Error messages shared across handlers
const (
	ErrMsgInvalidRequestBody   = "Invalid request body"
	ErrMsgInternal             = "Internal server error"
	ErrMsgCampaignNotFound     = "Campaign not found"
	ErrMsgDoctorNotFound       = "Doctor not found"
	ErrMsgMissingCampaignID    = "campaign_id is required"
	ErrMsgInvalidPincode       = "Enter a valid 6-digit PIN code"
	ErrMsgInvalidSSOToken      = "Invalid or expired sign-on token"
	ErrMsgMissingSSOToken      = "Missing sign-on token"
	ErrMsgSSONotConfigured     = "Single sign-on is not configured"
	ErrMsgSSOCampaignMismatch  = "Sign-on token was issued for a different campaign"
	ErrMsgMissingSearchOptions = "Provide at least one email or phone"
	ErrMsgClusterNotFound      = "Video cluster not found"
	ErrMsgUnauthorized         = "Authentication required"
	ErrMsgInvalidCredentials   = "Invalid email or password"
	ErrMsgInvalidSetupLink     = "Password setup link is invalid or has expired"
	ErrMsgPasswordMismatch     = "Passwords do not match"
)

// API path constants
const (
	APIBasePath = "/api/v1"
)
