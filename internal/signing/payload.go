package signing

import (
	"strings"

	"clinic-portal/internal/models"
)

// PatientLinkPayload builds the signed body of a patient sharing link
func PatientLinkPayload(d models.DoctorDisplay) map[string]any {
	return map[string]any{
		"v": 1,
		"doctor": map[string]any{
			"doctor_id":       d.DoctorID,
			"whatsapp_number": d.WhatsAppNumber,
			"user": map[string]any{
				"full_name": d.User.FullName,
			},
		},
		"clinic": map[string]any{
			"display_name":           d.Clinic.DisplayName,
			"clinic_phone":           d.Clinic.ClinicPhone,
			"clinic_whatsapp_number": d.Clinic.ClinicWhatsAppNumber,
			"address_text":           d.Clinic.AddressText,
			"state":                  d.Clinic.State,
			"postal_code":            d.Clinic.PostalCode,
		},
	}
}

// PasswordSetupPayload builds the body of a clinic password setup link
func PasswordSetupPayload(doctorID, email string) map[string]any {
	return map[string]any{
		"doctor_id": strings.TrimSpace(doctorID),
		"email":     strings.ToLower(strings.TrimSpace(email)),
	}
}
