// Package messages renders the campaign-authored WhatsApp and email templates.
package messages

import (
	"fmt"
	"strings"
)

// Links are the values substituted into a campaign template
type Links struct {
	DoctorName string
	ClinicLink string
	SetupLink  string
	LoginLink  string
}

func (l Links) replacements() []string {
	return []string{
		"<doctor.user.full_name>", l.DoctorName,
		"<doctor_name>", l.DoctorName,
		"{{doctor_name}}", l.DoctorName,
		"<clinic_link>", l.ClinicLink,
		"{{clinic_link}}", l.ClinicLink,
		"<LinkShare>", l.ClinicLink,
		"<setup_link>", l.SetupLink,
		"{{setup_link}}", l.SetupLink,
		"<LinkPW>", l.SetupLink,
	}
}

// RenderWhatsApp replaces every placeholder. Empty values remove the placeholder.
func RenderWhatsApp(template string, l Links) string {
	return strings.TrimSpace(strings.NewReplacer(l.replacements()...).Replace(template))
}

// RenderEmail replaces placeholders that have a value and leaves the others in place
func RenderEmail(template string, l Links) string {
	pairs := l.replacements()
	kept := make([]string, 0, len(pairs))
	for i := 0; i < len(pairs); i += 2 {
		if pairs[i+1] != "" {
			kept = append(kept, pairs[i], pairs[i+1])
		}
	}
	return strings.TrimSpace(strings.NewReplacer(kept...).Replace(template))
}

// ClinicLink is the doctor/staff sharing screen for doctorID
func ClinicLink(baseURL, doctorID string) string {
	return fmt.Sprintf("%s/clinic/%s/share/", strings.TrimRight(baseURL, "/"), doctorID)
}

// LoginLink is the portal login page
func LoginLink(baseURL string) string {
	return strings.TrimRight(baseURL, "/") + "/accounts/login/"
}

// PasswordSetupLink is the signed password setup page for token
func PasswordSetupLink(baseURL, token string) string {
	return fmt.Sprintf("%s/accounts/password-setup/%s/", strings.TrimRight(baseURL, "/"), token)
}

// DefaultWhatsApp is sent when the campaign has no WhatsApp template
func DefaultWhatsApp(l Links) string {
	return fmt.Sprintf("Hi %s,\nYou have been added to your clinic's patient education system.\n\n"+
		"Open your clinic dashboard:\n%s\n\nIf you need to set/reset your password:\n%s",
		l.DoctorName, l.ClinicLink, l.LoginLink)
}

// DefaultEmail is sent when the campaign has no email template
func DefaultEmail(l Links) string {
	lines := []string{
		fmt.Sprintf("Hello %s,", l.DoctorName),
		"",
		"Your clinic has access to the CPD in Clinic portal.",
		"",
		"Clinic link (doctor/staff sharing screen): " + l.ClinicLink,
		"Login link: " + l.LoginLink,
		"",
	}
	if l.SetupLink != "" {
		lines = append(lines, "To set/reset your password, use the link below:", l.SetupLink, "")
	}
	lines = append(lines, "Thank you.")
	return strings.Join(lines, "\n")
}
