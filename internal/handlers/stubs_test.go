package handlers

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"clinic-portal/internal/auth"
	"clinic-portal/internal/models"
	"clinic-portal/internal/service"
)

type stubLanding struct {
	state    *service.LandingState
	result   *service.LandingResult
	err      error
	identity *auth.Identity
	whatsApp string
	campaign string
	rep      string
}

func (s *stubLanding) Prepare(_ context.Context, campaignID, fieldRepID string, id *auth.Identity) (*service.LandingState, error) {
	s.campaign, s.rep, s.identity = campaignID, fieldRepID, id
	return s.state, s.err
}

func (s *stubLanding) Submit(_ context.Context, campaignID, fieldRepID, whatsApp string, id *auth.Identity) (*service.LandingResult, *service.LandingState, error) {
	s.campaign, s.rep, s.whatsApp, s.identity = campaignID, fieldRepID, whatsApp, id
	return s.result, s.state, s.err
}

type stubRegistrar struct {
	result *service.RegistrationResult
	err    error
	input  service.RegistrationInput
}

func (s *stubRegistrar) Register(_ context.Context, in service.RegistrationInput) (*service.RegistrationResult, error) {
	s.input = in
	return s.result, s.err
}

type stubMirror struct {
	local *models.LocalCampaign
	err   error
	sub   string
	edit  service.CampaignEdit
}

func (s *stubMirror) Get(context.Context, string) (*models.LocalCampaign, error) {
	return s.local, s.err
}

func (s *stubMirror) SaveDetails(_ context.Context, _ string, publisherSub string, edit service.CampaignEdit) (*models.LocalCampaign, error) {
	s.sub, s.edit = publisherSub, edit
	return s.local, s.err
}

type stubGate struct{ status service.CapacityStatus }

func (s stubGate) Check(context.Context, string) service.CapacityStatus { return s.status }

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}
