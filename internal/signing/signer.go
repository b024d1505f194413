// Package signing produces tamper-evident, expiring tokens that carry small
// JSON payloads through URLs. Tokens read payload:timestamp:signature, with
// a base62 timestamp, so links minted by the existing portal keep verifying.
package signing

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/klauspost/compress/zlib"
)

const (
	// PatientLinkSalt scopes tokens embedded in patient sharing links
	PatientLinkSalt = "peds_edu.patient_link"
	// PasswordSetupSalt scopes clinic password setup links
	PasswordSetupSalt = "clinic.password_setup"

	DefaultMaxAge       = 604800 * time.Second
	PasswordSetupMaxAge = 72 * time.Hour

	sep = ":"
)

var (
	ErrMalformed    = errors.New("malformed signed value")
	ErrBadSignature = errors.New("signature does not match")
	ErrExpired      = errors.New("signature expired")
)

var b64 = base64.RawURLEncoding

// Signer signs and verifies payloads under one salt
type Signer struct {
	key    []byte
	salt   string
	maxAge time.Duration
	now    func() time.Time
}

// New creates a signer. A non-positive maxAge falls back to DefaultMaxAge.
func New(secret, salt string, maxAge time.Duration) (*Signer, error) {
	if secret == "" {
		return nil, errors.New("signing secret is required")
	}
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	key := sha256.Sum256([]byte(salt + "signer" + secret))
	return &Signer{key: key[:], salt: salt, maxAge: maxAge, now: time.Now}, nil
}

// WithClock replaces the time source
func (s *Signer) WithClock(now func() time.Time) *Signer {
	s.now = now
	return s
}

// Salt returns the namespace this signer was created for
func (s *Signer) Salt() string {
	return s.salt
}

// MaxAge is the age limit Unsign applies
func (s *Signer) MaxAge() time.Duration {
	return s.maxAge
}

// Sign serializes payload and appends a timestamp and signature
func (s *Signer) Sign(payload map[string]any) (string, error) {
	if payload == nil {
		payload = map[string]any{}
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode payload: %w", err)
	}

	encoded, err := encodePayload(data)
	if err != nil {
		return "", err
	}

	value := encoded + sep + encodeBase62(s.now().Unix())
	return value + sep + s.signature(value), nil
}

// Unsign verifies token against the default max age. Any failure yields an
// empty map.
func (s *Signer) Unsign(token string) map[string]any {
	return s.UnsignMaxAge(token, s.maxAge)
}

// UnsignMaxAge is Unsign with an explicit age limit
func (s *Signer) UnsignMaxAge(token string, maxAge time.Duration) map[string]any {
	payload, err := s.Verify(token, maxAge)
	if err != nil {
		return map[string]any{}
	}
	return payload
}

// Verify returns the payload or the reason verification failed
func (s *Signer) Verify(token string, maxAge time.Duration) (map[string]any, error) {
	value, sig, ok := cutLast(strings.TrimSpace(token), sep)
	if !ok {
		return nil, ErrMalformed
	}
	if !hmac.Equal([]byte(sig), []byte(s.signature(value))) {
		return nil, ErrBadSignature
	}

	encoded, ts, ok := cutLast(value, sep)
	if !ok {
		return nil, ErrMalformed
	}
	signedAt, err := decodeBase62(ts)
	if err != nil {
		return nil, ErrMalformed
	}
	if maxAge > 0 {
		age := s.now().Sub(time.Unix(signedAt, 0))
		if age > maxAge {
			return nil, ErrExpired
		}
	}

	data, err := decodePayload(encoded)
	if err != nil {
		return nil, ErrMalformed
	}
	var payload map[string]any
	if err := json.Unmarshal(data, &payload); err != nil || payload == nil {
		return nil, ErrMalformed
	}
	return payload, nil
}

func (s *Signer) signature(value string) string {
	mac := hmac.New(sha256.New, s.key)
	mac.Write([]byte(value))
	return b64.EncodeToString(mac.Sum(nil))
}

// encodePayload base64url-encodes data, zlib-compressing first (marked by a
// leading ".") when that is at least two bytes shorter.
func encodePayload(data []byte) (string, error) {
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		return "", fmt.Errorf("failed to compress payload: %w", err)
	}
	if err := zw.Close(); err != nil {
		return "", fmt.Errorf("failed to compress payload: %w", err)
	}

	if buf.Len() < len(data)-1 {
		return "." + b64.EncodeToString(buf.Bytes()), nil
	}
	return b64.EncodeToString(data), nil
}

func decodePayload(encoded string) ([]byte, error) {
	compressed := strings.HasPrefix(encoded, ".")
	raw, err := b64.DecodeString(strings.TrimPrefix(encoded, "."))
	if err != nil {
		return nil, err
	}
	if !compressed {
		return raw, nil
	}
	zr, err := zlib.NewReader(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	return io.ReadAll(io.LimitReader(zr, 1<<20))
}

func cutLast(s, sep string) (before, after string, ok bool) {
	i := strings.LastIndex(s, sep)
	if i < 0 {
		return "", "", false
	}
	return s[:i], s[i+len(sep):], true
}
