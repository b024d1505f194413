package service

import (
	"context"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinic-portal/internal/models"
)

func newLandingFixture(supported int) (*LandingService, *fakeMaster, *fakeLocal) {
	m := linkageFixture()
	m.addCampaign(models.MasterCampaign{
		ID:                   testCampaignNorm,
		Name:                 "Asthma Care",
		DoctorsSupported:     supported,
		AddToCampaignMessage: "Hello <doctor_name>, open <clinic_link>",
	})
	m.doctors["DR000001"] = &models.Doctor{DoctorID: "DR000001", FirstName: "Asha", LastName: "Rao", WhatsAppNo: "9876543210", Email: "asha@example.com"}
	local := newFakeLocal()

	log := discardLogger()
	gate := NewGatekeeperService(m, nil, log)
	svc := NewLandingService(NewLinkageService(m, nil, log), gate, m, local,
		"https://portal.example/", "91", nil, log)
	return svc, m, local
}

func TestPrepare_Denied(t *testing.T) {
	svc, _, _ := newLandingFixture(10)

	state, err := svc.Prepare(context.Background(), testCampaign, "FR20", nil)
	assert.ErrorIs(t, err, ErrUnauthorizedFieldRep)
	require.NotNil(t, state)
	assert.Equal(t, ReasonNotAuthorized, state.Linkage.Reason)
}

func TestPrepare_CapacityReached(t *testing.T) {
	svc, m, _ := newLandingFixture(1)
	m.enroll(testCampaignNorm, "DR999")

	state, err := svc.Prepare(context.Background(), testCampaignNorm, "FR09", nil)
	assert.ErrorIs(t, err, ErrCapacityExceeded)
	assert.Equal(t, testCampaign, state.CampaignID)
	assert.True(t, state.Capacity.LimitReached)
}

func TestPrepare_UnknownCampaign(t *testing.T) {
	svc, m, _ := newLandingFixture(1)
	m.addLink(5, otherCampaign, 9)

	_, err := svc.Prepare(context.Background(), otherCampaign, "FR09", nil)
	assert.ErrorIs(t, err, ErrUnknownCampaign)
}

func TestSubmit_KnownDoctorOpensWhatsApp(t *testing.T) {
	svc, m, _ := newLandingFixture(10)

	result, _, err := svc.Submit(context.Background(), testCampaign, "77", "+91 98765-43210", nil)
	require.NoError(t, err)

	assert.Equal(t, RedirectWhatsApp, result.Kind)
	assert.Equal(t, "DR000001", result.DoctorID)
	assert.Equal(t, models.EnrollmentCreated, result.Enrollment)
	require.Len(t, m.enrollCalls, 1)
	assert.Equal(t, enrollCall{"DR000001", testCampaignNorm, "15"}, m.enrollCalls[0])

	u, err := url.Parse(result.RedirectURL)
	require.NoError(t, err)
	assert.Equal(t, "wa.me", u.Host)
	assert.Equal(t, "/919876543210", u.Path)
	text := u.Query().Get("text")
	assert.Equal(t, "Hello Asha Rao, open https://portal.example/clinic/DR000001/share/", text)

	again, _, err := svc.Submit(context.Background(), testCampaign, "77", "9876543210", nil)
	require.NoError(t, err)
	assert.Equal(t, models.EnrollmentAlreadyExists, again.Enrollment)
}

func TestSubmit_LocalTemplateWins(t *testing.T) {
	svc, _, local := newLandingFixture(10)
	local.campaigns[testCampaignNorm] = &models.LocalCampaign{CampaignID: testCampaignNorm, WAAddition: "Local text for <doctor_name>"}

	result, _, err := svc.Submit(context.Background(), testCampaign, "FR09", "9876543210", nil)
	require.NoError(t, err)
	u, _ := url.Parse(result.RedirectURL)
	assert.Equal(t, "Local text for Asha Rao", u.Query().Get("text"))
}

func TestSubmit_UnknownDoctorRedirectsToRegistration(t *testing.T) {
	svc, m, _ := newLandingFixture(10)

	result, _, err := svc.Submit(context.Background(), testCampaignNorm, "FR09", "+91 91234 56789", nil)
	require.NoError(t, err)

	assert.Equal(t, RedirectRegister, result.Kind)
	assert.Empty(t, m.enrollCalls)
	require.True(t, strings.HasPrefix(result.RedirectURL, "https://portal.example/accounts/register/?"))

	u, err := url.Parse(result.RedirectURL)
	require.NoError(t, err)
	assert.Equal(t, testCampaign, u.Query().Get("campaign-id"))
	assert.Equal(t, "FR09", u.Query().Get("field_rep_id"))
	assert.Equal(t, "9123456789", u.Query().Get("doctor_whatsapp_number"))
}

func TestSubmit_InvalidNumber(t *testing.T) {
	svc, _, _ := newLandingFixture(10)

	_, state, err := svc.Submit(context.Background(), testCampaign, "FR09", "12345", nil)
	assert.ErrorIs(t, err, ErrInvalidWhatsApp)
	assert.True(t, state.Linkage.Allowed)
}
