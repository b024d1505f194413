package email

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinic-portal/internal/config"
	"clinic-portal/internal/messages"
)

type captured struct {
	to, subject, body string
}

func newCapturingService(out *captured) *Service {
	cfg := &config.EmailConfig{Subject: "CPD in Clinic portal access"}
	return NewService(cfg).WithSender(func(_ context.Context, to, subject, body string) error {
		out.to, out.subject, out.body = to, subject, body
		return nil
	})
}

var links = messages.Links{
	DoctorName: "Asha Rao",
	ClinicLink: "https://p.example/clinic/DR000001/share/",
	LoginLink:  "https://p.example/accounts/login/",
	SetupLink:  "https://p.example/accounts/password-setup/tok/",
}

func TestSendDoctorLinks_UsesCampaignTemplate(t *testing.T) {
	var got captured
	svc := newCapturingService(&got)

	err := svc.SendDoctorLinks(context.Background(), DoctorLinks{
		To:       " asha@example.com ",
		Links:    links,
		Template: "Dear <doctor_name>\nShare: <LinkShare>\nPassword: <LinkPW>",
	})
	require.NoError(t, err)

	assert.Equal(t, "asha@example.com", got.to)
	assert.Equal(t, "CPD in Clinic portal access", got.subject)
	assert.Contains(t, got.body, "Dear Asha Rao<br>")
	assert.Contains(t, got.body, links.ClinicLink)
	assert.Contains(t, got.body, links.SetupLink)
}

func TestSendDoctorLinks_FallbackBody(t *testing.T) {
	var got captured
	svc := newCapturingService(&got)

	require.NoError(t, svc.SendDoctorLinks(context.Background(), DoctorLinks{To: "a@b.in", Links: links}))
	assert.Contains(t, got.body, "Your clinic has access to the CPD in Clinic portal.")
	assert.Contains(t, got.body, "Login link: "+links.LoginLink)
}

func TestSendDoctorLinks_EscapesTemplateText(t *testing.T) {
	var got captured
	svc := newCapturingService(&got)

	require.NoError(t, svc.SendDoctorLinks(context.Background(), DoctorLinks{
		To:       "a@b.in",
		Links:    links,
		Template: "<script>alert(1)</script> <doctor_name>",
	}))
	assert.NotContains(t, got.body, "<script>")
	assert.Contains(t, got.body, "&lt;script&gt;")
}

func TestSendDoctorLinks_RequiresRecipient(t *testing.T) {
	var got captured
	svc := newCapturingService(&got)
	assert.Error(t, svc.SendDoctorLinks(context.Background(), DoctorLinks{Links: links}))
}

func TestSendEmail_NotConfigured(t *testing.T) {
	svc := NewService(&config.EmailConfig{})
	err := svc.SendDoctorLinks(context.Background(), DoctorLinks{To: "a@b.in", Links: links})
	assert.ErrorIs(t, err, ErrNotConfigured)
}
