package identity

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// DistrictLookup resolves a PIN code to a district name through the public
// India Post directory. Every failure degrades to "".
type DistrictLookup struct {
	client  *resty.Client
	enabled bool
	logger  *slog.Logger
}

type postOffice struct {
	District string `json:"District"`
	State    string `json:"State"`
}

type postalResponse struct {
	Status     string       `json:"Status"`
	PostOffice []postOffice `json:"PostOffice"`
}

// NewDistrictLookup creates a lookup client against baseURL
func NewDistrictLookup(baseURL string, timeout time.Duration, enabled bool, logger *slog.Logger) *DistrictLookup {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetRetryCount(0).
		SetHeader("Accept", "application/json")

	return &DistrictLookup{client: client, enabled: enabled, logger: logger}
}

// DistrictForPincode returns the district of the first post office listed for pin
func (l *DistrictLookup) DistrictForPincode(ctx context.Context, pin string) string {
	if l == nil || !l.enabled {
		return ""
	}
	norm := NormalizePincode(pin)
	if norm == "" {
		return ""
	}

	var result []postalResponse
	resp, err := l.client.R().
		SetContext(ctx).
		SetResult(&result).
		SetPathParam("pin", norm).
		Get("/pincode/{pin}")
	if err != nil {
		l.logger.Warn("District lookup failed", "pincode", norm, "error", err)
		return ""
	}
	if resp.IsError() {
		l.logger.Warn("District lookup returned error status", "pincode", norm, "status", resp.StatusCode())
		return ""
	}
	if len(result) == 0 || len(result[0].PostOffice) == 0 {
		return ""
	}
	if result[0].Status != "" && !strings.EqualFold(result[0].Status, "Success") {
		return ""
	}
	return strings.TrimSpace(result[0].PostOffice[0].District)
}
