package middleware

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"clinic-portal/internal/logger"
	"clinic-portal/internal/metrics"
)

// sensitiveParams never reach the logs in clear text
var sensitiveParams = map[string]func(string) string{
	"doctor_whatsapp_number": logger.MaskPhone,
	"whatsapp_no":            logger.MaskPhone,
	"token":                  redact,
	"sso_token":              redact,
	"jwt":                    redact,
	"access_token":           redact,
	"email":                  logger.MaskEmail,
	"phone":                  logger.MaskPhone,
	"password":               redact,
	"password_confirm":       redact,
}

// bodies on these paths are never logged
var unloggedBodyPaths = []string{"/api/v1/doctors/register", "/accounts/"}

func redact(string) string { return "[redacted]" }

// responseWriter wraps http.ResponseWriter to capture status code and response body
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
	body       *bytes.Buffer
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	if !rw.written {
		rw.statusCode = statusCode
		rw.written = true
		rw.ResponseWriter.WriteHeader(statusCode)
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	if rw.body != nil {
		rw.body.Write(b)
	}
	return rw.ResponseWriter.Write(b)
}

// RequestLogger logs every request and records it in the HTTP metrics.
//
// Log levels:
// - INFO: every request with remote IP, user agent, method and path
// - DEBUG: additionally the masked query parameters and both bodies
// - WARN: requests answered with 4xx
// - ERROR: requests answered with 5xx
type RequestLogger struct {
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// NewRequestLogger creates a request logger. Both arguments may be nil.
func NewRequestLogger(log *slog.Logger, m *metrics.Metrics) *RequestLogger {
	if log == nil {
		log = logger.Component("http")
	}
	return &RequestLogger{logger: log, metrics: m}
}

// Handler wraps next
func (l *RequestLogger) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		debug := l.logger.Enabled(r.Context(), slog.LevelDebug)

		var requestBody []byte
		var responseBody *bytes.Buffer
		if debug {
			if r.Body != nil {
				requestBody, _ = io.ReadAll(r.Body)
				r.Body = io.NopCloser(bytes.NewBuffer(requestBody))
			}
			responseBody = &bytes.Buffer{}
		}

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK, body: responseBody}

		base := []any{
			"remote_ip", clientIP(r),
			"user_agent", r.UserAgent(),
			"method", r.Method,
			"path", r.URL.Path,
		}
		if debug {
			attrs := append([]any{}, base...)
			if q := r.URL.Query(); len(q) > 0 {
				attrs = append(attrs, "query_params", maskQuery(q))
			}
			if len(requestBody) > 0 {
				if body := maskBody(r, requestBody); body != nil {
					attrs = append(attrs, "request_body", body)
				} else {
					attrs = append(attrs, "request_body_bytes", len(requestBody))
				}
			}
			l.logger.Debug("Incoming request", attrs...)
		} else {
			l.logger.Info("Incoming request", base...)
		}

		next.ServeHTTP(wrapped, r)

		l.metrics.ObserveHTTP(r.Method, r.Pattern, wrapped.statusCode, start)

		level, message := slog.LevelInfo, "Request completed"
		switch {
		case wrapped.statusCode >= 500:
			level, message = slog.LevelError, "Request failed with error"
		case wrapped.statusCode >= 400:
			level, message = slog.LevelWarn, "Request failed"
		}

		attrs := append(base, "status", wrapped.statusCode, "duration_ms", time.Since(start).Milliseconds())
		if debug && responseBody.Len() > 0 {
			attrs = append(attrs, "response_body", responseBody.String())
		}
		l.logger.Log(r.Context(), level, message, attrs...)
	})
}

func maskQuery(q url.Values) map[string][]string {
	masked := make(map[string][]string, len(q))
	for key, values := range q {
		mask, ok := sensitiveParams[key]
		if !ok {
			masked[key] = values
			continue
		}
		out := make([]string, len(values))
		for i, v := range values {
			out[i] = mask(v)
		}
		masked[key] = out
	}
	return masked
}

// maskBody returns the loggable form of a form or JSON request body with
// sensitive fields masked. Other bodies, and bodies on unlogged paths, give nil.
func maskBody(r *http.Request, body []byte) any {
	for _, p := range unloggedBodyPaths {
		if strings.HasPrefix(r.URL.Path, p) {
			return nil
		}
	}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/x-www-form-urlencoded":
		form, err := url.ParseQuery(string(body))
		if err != nil {
			return nil
		}
		return maskQuery(form)
	case "application/json":
		var fields map[string]any
		if err := json.Unmarshal(body, &fields); err != nil {
			return nil
		}
		for key, v := range fields {
			if mask, ok := sensitiveParams[key]; ok && v != nil {
				fields[key] = mask(fmt.Sprint(v))
			}
		}
		return fields
	}
	return nil
}
