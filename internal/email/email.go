package email

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"
	"io"
	"log/slog"
	"net"
	"net/smtp"
	"strings"

	"clinic-portal/internal/config"
	"clinic-portal/internal/logger"
	"clinic-portal/internal/messages"
)

// ErrNotConfigured is returned when no SMTP host is set
var ErrNotConfigured = errors.New("smtp is not configured")

// SendFunc delivers one HTML message
type SendFunc func(ctx context.Context, to, subject, body string) error

// Service handles email operations
type Service struct {
	config *config.EmailConfig
	logger *slog.Logger
	send   SendFunc
}

// NewService creates a new email service
func NewService(cfg *config.EmailConfig) *Service {
	s := &Service{
		config: cfg,
		logger: logger.Component("email"),
	}
	s.send = s.sendEmail
	return s
}

// WithSender replaces SMTP delivery, mainly for tests
func (s *Service) WithSender(send SendFunc) *Service {
	s.send = send
	return s
}

// DoctorLinks is the content of the doctor-links email
type DoctorLinks struct {
	To       string
	Links    messages.Links
	Template string
}

// SendDoctorLinks sends the clinic share link and the optional password
// setup link, using the campaign email template when one is set.
func (s *Service) SendDoctorLinks(ctx context.Context, dl DoctorLinks) error {
	to := strings.TrimSpace(dl.To)
	if to == "" {
		return fmt.Errorf("failed to send doctor links: empty recipient")
	}

	var text string
	if strings.TrimSpace(dl.Template) != "" {
		text = messages.RenderEmail(dl.Template, dl.Links)
	} else {
		text = messages.DefaultEmail(dl.Links)
	}

	return s.send(ctx, to, s.config.Subject, textToHTML(text))
}

// textToHTML wraps plain template text in the portal's email layout
func textToHTML(text string) string {
	escaped := strings.ReplaceAll(html.EscapeString(text), "\n", "<br>\n")

	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>CPD in Clinic</title>
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <p>%s</p>
        <hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;">
        <p style="color: #999; font-size: 12px;">This is an automated email. Please do not reply.</p>
    </div>
</body>
</html>
`, escaped)
}

// sendEmail sends an email using SMTP
func (s *Service) sendEmail(ctx context.Context, to, subject, body string) error {
	if s.config.SMTPHost == "" {
		return ErrNotConfigured
	}

	headers := [][2]string{
		{"From", s.config.SMTPFrom},
		{"To", to},
		{"Subject", subject},
		{"MIME-Version", "1.0"},
		{"Content-Type", "text/html; charset=UTF-8"},
	}

	var message bytes.Buffer
	for _, h := range headers {
		message.WriteString(fmt.Sprintf("%s: %s\r\n", h[0], h[1]))
	}
	message.WriteString("\r\n")
	message.WriteString(body)

	addr := net.JoinHostPort(s.config.SMTPHost, s.config.SMTPPort)
	s.logger.Debug("Attempting to connect to SMTP server", "address", addr)

	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		s.logger.Error("Failed to connect to SMTP server", "address", addr, "error", err)
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer func(conn net.Conn) {
		if err := conn.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			s.logger.Error("Failed to close SMTP connection", "error", err)
		}
	}(conn)

	client, err := smtp.NewClient(conn, s.config.SMTPHost)
	if err != nil {
		s.logger.Error("Failed to create SMTP client", "error", err)
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer func(client *smtp.Client) {
		_ = client.Close()
	}(client)

	// Mailpit and similar dev servers accept unauthenticated mail
	if s.config.SMTPUsername != "" && s.config.SMTPPassword != "" {
		auth := smtp.PlainAuth("", s.config.SMTPUsername, s.config.SMTPPassword, s.config.SMTPHost)
		_ = client.Auth(auth)
	}

	if err := client.Mail(s.config.SMTPFrom); err != nil {
		s.logger.Error("Failed to set sender", "from", s.config.SMTPFrom, "error", err)
		return fmt.Errorf("failed to set sender: %w", err)
	}

	if err := client.Rcpt(to); err != nil {
		s.logger.Error("Failed to set recipient", "to", logger.MaskEmail(to), "error", err)
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	wc, err := client.Data()
	if err != nil {
		s.logger.Error("Failed to initiate data transfer", "error", err)
		return fmt.Errorf("failed to initiate data transfer: %w", err)
	}

	if _, err := wc.Write(message.Bytes()); err != nil {
		closeQuietly(wc)
		s.logger.Error("Failed to write message", "error", err)
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("failed to finish message: %w", err)
	}

	s.logger.Info("Email sent successfully", "to", logger.MaskEmail(to))
	return client.Quit()
}

func closeQuietly(c io.Closer) {
	_ = c.Close()
}
