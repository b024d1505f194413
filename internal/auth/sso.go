package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"clinic-portal/internal/config"
	"clinic-portal/internal/identity"
)

var (
	ErrSSONotConfigured = errors.New("sso shared secret is not configured")
	ErrInvalidToken     = errors.New("invalid token")
	ErrMissingClaims    = errors.New("token missing required claims")
	ErrCampaignMismatch = errors.New("token campaign does not match request")
)

// SSOClaims are the claims the publisher portal puts in a handoff token
type SSOClaims struct {
	Username   string   `json:"username"`
	Roles      []string `json:"roles"`
	CampaignID string   `json:"campaign_id,omitempty"`
	jwt.RegisteredClaims
}

// Identity is a verified signed-on publisher or field rep
type Identity struct {
	Subject    string    `json:"sub"`
	Username   string    `json:"username"`
	Roles      []string  `json:"roles"`
	CampaignID string    `json:"campaign_id,omitempty"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// HasRole reports whether the identity carries role, case-insensitively
func (i *Identity) HasRole(role string) bool {
	if i == nil {
		return false
	}
	for _, r := range i.Roles {
		if strings.EqualFold(r, role) {
			return true
		}
	}
	return false
}

// Verifier checks HS256 handoff tokens against a shared secret
type Verifier struct {
	secret   []byte
	issuer   string
	audience string
	leeway   time.Duration
	now      func() time.Time
}

// NewVerifier creates a verifier for cfg
func NewVerifier(cfg config.SSOConfig) (*Verifier, error) {
	if cfg.SharedSecret == "" {
		return nil, ErrSSONotConfigured
	}
	return &Verifier{
		secret:   []byte(cfg.SharedSecret),
		issuer:   cfg.ExpectedIssuer,
		audience: cfg.ExpectedAudience,
		leeway:   30 * time.Second,
		now:      time.Now,
	}, nil
}

// Verify validates signature, issuer, audience and expiry, then the
// sub/username claims
func (v *Verifier) Verify(tokenString string) (*Identity, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(v.leeway),
		jwt.WithTimeFunc(v.now),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}
	if v.audience != "" {
		opts = append(opts, jwt.WithAudience(v.audience))
	}

	token, err := jwt.ParseWithClaims(strings.TrimSpace(tokenString), &SSOClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*SSOClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	sub := strings.TrimSpace(claims.Subject)
	username := strings.TrimSpace(claims.Username)
	if sub == "" || username == "" {
		return nil, ErrMissingClaims
	}

	id := &Identity{
		Subject:    sub,
		Username:   username,
		Roles:      claims.Roles,
		CampaignID: strings.TrimSpace(claims.CampaignID),
	}
	if id.Roles == nil {
		id.Roles = []string{}
	}
	if claims.ExpiresAt != nil {
		id.ExpiresAt = claims.ExpiresAt.Time
	}
	return id, nil
}

// VerifyForCampaign is Verify plus a check that a campaign_id claim, when
// present, names the same campaign as campaignID
func (v *Verifier) VerifyForCampaign(tokenString, campaignID string) (*Identity, error) {
	id, err := v.Verify(tokenString)
	if err != nil {
		return nil, err
	}
	if id.CampaignID != "" &&
		identity.NormalizeCampaignID(id.CampaignID) != identity.NormalizeCampaignID(campaignID) {
		return nil, ErrCampaignMismatch
	}
	return id, nil
}

// Issue signs a handoff token for id. It is what the publisher portal does
// and is used by tooling and tests.
func (v *Verifier) Issue(id Identity, ttl time.Duration) (string, error) {
	now := v.now()
	claims := SSOClaims{
		Username:   id.Username,
		Roles:      id.Roles,
		CampaignID: id.CampaignID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.Subject,
			Issuer:    v.issuer,
			Audience:  jwt.ClaimStrings{v.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(v.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}
