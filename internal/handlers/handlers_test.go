package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinic-portal/internal/auth"
	"clinic-portal/internal/config"
	"clinic-portal/internal/models"
	"clinic-portal/internal/repository"
	"clinic-portal/internal/service"
)

func TestJSONResponse_NilSlicesBecomeEmpty(t *testing.T) {
	rec := httptest.NewRecorder()
	require.NoError(t, JSONResponse(rec, SupportResponse{}))
	assert.JSONEq(t, `{"campaigns":[]}`, rec.Body.String())

	start := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	rec = httptest.NewRecorder()
	require.NoError(t, JSONResponse(rec, &models.Catalog{GeneratedAt: start}))
	assert.JSONEq(t, `{"clusters":[],"generated_at":"2025-01-02T00:00:00Z"}`, rec.Body.String())
}

func TestHealth(t *testing.T) {
	ok := PingFunc(func(context.Context) error { return nil })
	down := PingFunc(func(context.Context) error { return errors.New("refused") })

	rec := httptest.NewRecorder()
	NewHealthHandler("1.0.0", map[string]Pinger{"local_db": ok, "master_db": ok, "cache": nil}, nil).
		Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","version":"1.0.0","checks":{"local_db":"ok","master_db":"ok"}}`, rec.Body.String())

	rec = httptest.NewRecorder()
	NewHealthHandler("1.0.0", map[string]Pinger{"local_db": ok, "master_db": down}, nil).
		Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "unavailable", decodeBody(t, rec)["checks"].(map[string]any)["master_db"])
}

func TestLandingShow(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"allowed", nil, http.StatusOK},
		{"denied", service.ErrUnauthorizedFieldRep, http.StatusForbidden},
		{"unknown campaign", service.ErrUnknownCampaign, http.StatusNotFound},
		{"limit reached", service.ErrCapacityExceeded, http.StatusConflict},
		{"failure", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := &service.LandingState{
				CampaignID: "3f2504e0-4f89-11d3-9a0c-0305e82c3301",
				Linkage:    service.LinkageDecision{Reason: service.ReasonNotAuthorized},
			}
			stub := &stubLanding{state: state, err: tt.err}
			req := httptest.NewRequest(http.MethodGet, "/campaign/landing?campaign_id=abc&field_rep_id=FR09", nil)
			rec := httptest.NewRecorder()
			NewLandingHandler(stub, nil).Show(rec, req)

			assert.Equal(t, tt.want, rec.Code)
			assert.Equal(t, "abc", stub.campaign)
			assert.Equal(t, "FR09", stub.rep)
			if tt.want == http.StatusForbidden {
				assert.Equal(t, service.ReasonNotAuthorized, decodeBody(t, rec)["error"])
			}
			if tt.want == http.StatusConflict {
				assert.Equal(t, service.LimitReachedMessage, decodeBody(t, rec)["error"])
			}
		})
	}
}

func TestLandingShow_DenialHidesRepAndCampaign(t *testing.T) {
	state := &service.LandingState{
		CampaignID: "3f2504e0-4f89-11d3-9a0c-0305e82c3301",
		FieldRepID: "FR20",
		Linkage: service.LinkageDecision{
			Reason:   service.ReasonNotAuthorized,
			Path:     service.PathDirect,
			FieldRep: &models.FieldRep{ID: 20, FullName: "Ravi Kumar", PhoneNumber: "9876543210"},
		},
		Capacity: service.CapacityStatus{
			Campaign:         &models.MasterCampaign{ID: "c1", AddToCampaignMessage: "Hi <doctor_name>, join us"},
			DoctorsSupported: 5,
			Enrolled:         3,
		},
	}
	rec := httptest.NewRecorder()
	NewLandingHandler(&stubLanding{state: state, err: service.ErrUnauthorizedFieldRep}, nil).
		Show(rec, httptest.NewRequest(http.MethodGet, "/campaign/landing?campaign-id=c1&field_rep_id=FR20", nil))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	body := rec.Body.String()
	assert.NotContains(t, body, "Ravi Kumar")
	assert.NotContains(t, body, "9876543210")
	assert.NotContains(t, body, "join us")

	view := decodeBody(t, rec)["state"].(map[string]any)
	assert.Equal(t, false, view["allowed"])
	assert.Equal(t, service.PathDirect, view["path"])
	assert.Equal(t, 0.0, view["doctors_supported"])
	assert.NotContains(t, view, "downstream_id")
}

func TestLandingShow_AllowedReportsCapacity(t *testing.T) {
	state := &service.LandingState{
		CampaignID: "c1",
		FieldRepID: "FR09",
		Linkage: service.LinkageDecision{
			Allowed:      true,
			Path:         service.PathDirect,
			FieldRep:     &models.FieldRep{ID: 9, FullName: "Ravi Kumar", PhoneNumber: "9876543210"},
			DownstreamID: "FR09",
		},
		Capacity: service.CapacityStatus{
			Campaign:         &models.MasterCampaign{ID: "c1", AddToCampaignMessage: "template"},
			DoctorsSupported: 5,
			Enrolled:         3,
		},
	}
	rec := httptest.NewRecorder()
	NewLandingHandler(&stubLanding{state: state}, nil).
		Show(rec, httptest.NewRequest(http.MethodGet, "/campaign/landing?campaign-id=c1&field_rep_id=FR09", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "9876543210")
	view := decodeBody(t, rec)["state"].(map[string]any)
	assert.Equal(t, "FR09", view["downstream_id"])
	assert.Equal(t, 5.0, view["doctors_supported"])
	assert.Equal(t, 3.0, view["enrolled"])
}

func TestLandingSubmit_Redirects(t *testing.T) {
	stub := &stubLanding{
		state:  &service.LandingState{},
		result: &service.LandingResult{Kind: service.RedirectWhatsApp, RedirectURL: "https://wa.me/919876543210?text=hi"},
	}
	form := strings.NewReader("doctor_whatsapp_number=98765+43210")
	req := httptest.NewRequest(http.MethodPost, "/campaign/landing?campaign-id=abc&field_rep_id=77", form)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	id := &auth.Identity{Subject: "fieldrep_77"}
	req = req.WithContext(auth.WithIdentity(req.Context(), id))
	rec := httptest.NewRecorder()

	NewLandingHandler(stub, nil).Submit(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "https://wa.me/919876543210?text=hi", rec.Header().Get("Location"))
	assert.Equal(t, "98765 43210", stub.whatsApp)
	assert.Same(t, id, stub.identity)
}

func TestLandingSubmit_InvalidNumber(t *testing.T) {
	stub := &stubLanding{state: &service.LandingState{}, err: service.ErrInvalidWhatsApp}
	req := httptest.NewRequest(http.MethodPost, "/campaign/landing?campaign-id=abc&field_rep_id=77",
		strings.NewReader("doctor_whatsapp_number=123"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()

	NewLandingHandler(stub, nil).Submit(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, service.ErrInvalidWhatsApp.Error(), decodeBody(t, rec)["error"])
}

func TestRegister(t *testing.T) {
	capacity := &service.CapacityStatus{DoctorsSupported: 5, Enrolled: 5, LimitReached: true}
	tests := []struct {
		name   string
		body   string
		result *service.RegistrationResult
		err    error
		want   int
	}{
		{"registered", `{"first_name":"Asha"}`, &service.RegistrationResult{Status: service.StatusRegistered, DoctorID: "DR1"}, nil, http.StatusCreated},
		{"already registered", `{"first_name":"Asha"}`, &service.RegistrationResult{Status: service.StatusAlreadyRegistered}, nil, http.StatusOK},
		{"malformed json", `{"first_name":`, nil, nil, http.StatusBadRequest},
		{"invalid", `{}`, nil, service.ErrInvalidRegistration, http.StatusBadRequest},
		{"bad pincode", `{}`, nil, service.ErrInvalidPincode, http.StatusUnprocessableEntity},
		{"unknown campaign", `{}`, nil, service.ErrUnknownCampaign, http.StatusNotFound},
		{"limit reached", `{}`, &service.RegistrationResult{Capacity: capacity}, service.ErrCapacityExceeded, http.StatusConflict},
		{"insert failed", `{}`, nil, errors.New("db down"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubRegistrar{result: tt.result, err: tt.err}
			req := httptest.NewRequest(http.MethodPost, "/api/v1/doctors/register?campaign-id=abc&field_rep_id=FR09", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			NewRegistrationHandler(stub, nil).Register(rec, req)
			assert.Equal(t, tt.want, rec.Code)
			if tt.want == http.StatusConflict {
				body := decodeBody(t, rec)
				assert.Equal(t, true, body["capacity"].(map[string]any)["limit_reached"])
			}
			if tt.name == "registered" {
				assert.Equal(t, "abc", stub.input.CampaignID)
				assert.Equal(t, "FR09", stub.input.FieldRepID)
			}
		})
	}
}

func TestSSOConsume(t *testing.T) {
	cfg := config.SSOConfig{
		SharedSecret:     "sso-secret",
		ExpectedIssuer:   "project1",
		ExpectedAudience: "project2",
		CookieName:       "sso_token",
		CookieSecure:     true,
	}
	verifier, err := auth.NewVerifier(cfg)
	require.NoError(t, err)
	token, err := verifier.Issue(auth.Identity{
		Subject:    "fieldrep_15",
		Username:   "meena",
		Roles:      []string{"field_rep"},
		CampaignID: "3f2504e04f8911d39a0c0305e82c3301",
	}, time.Hour)
	require.NoError(t, err)
	h := NewSSOHandler(verifier, cfg, nil)

	t.Run("sets cookie and redirects", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet,
			"/sso/consume?jwt="+token+"&campaign-id=3f2504e0-4f89-11d3-9a0c-0305e82c3301&next=/campaign/landing?field_rep_id=15", nil)
		rec := httptest.NewRecorder()
		h.Consume(rec, req)

		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/campaign/landing?field_rep_id=15", rec.Header().Get("Location"))
		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, "sso_token", cookies[0].Name)
		assert.Equal(t, token, cookies[0].Value)
		assert.True(t, cookies[0].HttpOnly)
		assert.True(t, cookies[0].Secure)
	})

	t.Run("campaign mismatch", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/sso/consume?token="+token+"&campaign_id=other", nil)
		rec := httptest.NewRecorder()
		h.Consume(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("invalid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/sso/consume?token=abc.def.ghi", nil)
		rec := httptest.NewRecorder()
		h.Consume(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("missing token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.Consume(rec, httptest.NewRequest(http.MethodGet, "/sso/consume", nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("not configured", func(t *testing.T) {
		rec := httptest.NewRecorder()
		NewSSOHandler(nil, cfg, nil).Consume(rec, httptest.NewRequest(http.MethodGet, "/sso/consume?token=x", nil))
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}

func TestSafeNext(t *testing.T) {
	tests := map[string]string{
		"":                          "/",
		"/publisher/campaigns/":     "/publisher/campaigns/",
		"https://evil.example/":     "/",
		"//evil.example/path":       "/",
		`/\evil.example`:            "/",
		"javascript:alert(1)":       "/",
		"/campaign/landing?x=1#top": "/campaign/landing?x=1#top",
	}
	for in, want := range tests {
		assert.Equal(t, want, safeNext(in), in)
	}
}

type stubLinks struct {
	link *service.PatientLink
	err  error
}

func (s stubLinks) PatientLinkForDoctor(context.Context, string) (*service.PatientLink, error) {
	return s.link, s.err
}

func (s stubLinks) OpenPatientLink(token string) map[string]any {
	if token == "good" {
		return map[string]any{"v": 1}
	}
	return map[string]any{}
}

func TestSharing(t *testing.T) {
	mux := http.NewServeMux()
	h := NewSharingHandler(stubLinks{link: &service.PatientLink{Token: "tok"}}, nil)
	mux.HandleFunc("GET /api/v1/doctors/{doctor_id}/patient-link", h.CreatePatientLink)
	mux.HandleFunc("GET /api/v1/patient-link/{token}", h.OpenPatientLink)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/doctors/DR1/patient-link", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "tok", decodeBody(t, rec)["token"])

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/patient-link/bad", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{}`, rec.Body.String())

	missing := NewSharingHandler(stubLinks{err: repository.ErrDoctorNotFound}, nil)
	rec = httptest.NewRecorder()
	missing.CreatePatientLink(rec, httptest.NewRequest(http.MethodGet, "/api/v1/doctors/DR404/patient-link", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

type stubSupport struct {
	email       string
	alt, phones []string
	account     string
	campaigns   []models.CampaignSupport
}

func (s *stubSupport) ForDoctor(_ context.Context, primary string, alt, phones []string) []models.CampaignSupport {
	s.email, s.alt, s.phones = primary, alt, phones
	return s.campaigns
}

func (s *stubSupport) ForAccount(_ context.Context, loginEmail string) []models.CampaignSupport {
	s.account = loginEmail
	return s.campaigns
}

func withIdentity(req *http.Request, id *auth.Identity) *http.Request {
	return req.WithContext(auth.WithIdentity(req.Context(), id))
}

func TestCampaignSupport(t *testing.T) {
	staff := &auth.Identity{Subject: "pub_1", Username: "pub@brand.in", Roles: []string{"publisher"}}
	stub := &stubSupport{campaigns: []models.CampaignSupport{{CampaignID: "c1", BrandName: "Acme"}}}
	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/campaign-support?email=a@b.in&alt_email=c@d.in,e@f.in&phone=9876543210&phone=+91+9123456789", nil)
	rec := httptest.NewRecorder()
	NewSupportHandler(stub).CampaignSupport(rec, withIdentity(req, staff))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "a@b.in", stub.email)
	assert.Equal(t, []string{"c@d.in", "e@f.in"}, stub.alt)
	assert.Equal(t, []string{"9876543210", "91 9123456789"}, stub.phones)
	assert.Equal(t, "Acme", decodeBody(t, rec)["campaigns"].([]any)[0].(map[string]any)["brand_name"])

	rec = httptest.NewRecorder()
	NewSupportHandler(stub).CampaignSupport(rec,
		withIdentity(httptest.NewRequest(http.MethodGet, "/api/v1/campaign-support", nil), staff))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCampaignSupport_RequiresIdentity(t *testing.T) {
	stub := &stubSupport{}
	rec := httptest.NewRecorder()
	NewSupportHandler(stub).CampaignSupport(rec,
		httptest.NewRequest(http.MethodGet, "/api/v1/campaign-support?email=victim@clinic.in", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, stub.email)
}

func TestCampaignSupport_DoctorSeesOwnAccountOnly(t *testing.T) {
	doctor := &auth.Identity{Subject: "DR123456", Username: "asha@clinic.in", Roles: []string{"doctor"}}
	stub := &stubSupport{campaigns: []models.CampaignSupport{{CampaignID: "c1"}}}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/campaign-support?email=victim@clinic.in&phone=9876543210", nil)
	rec := httptest.NewRecorder()
	NewSupportHandler(stub).CampaignSupport(rec, withIdentity(req, doctor))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "asha@clinic.in", stub.account)
	assert.Empty(t, stub.email, "query parameters are ignored for non-staff identities")
	assert.Nil(t, stub.phones)
}

func TestCampaignHandler(t *testing.T) {
	known := stubGate{status: service.CapacityStatus{Campaign: &models.MasterCampaign{ID: "c1"}, DoctorsSupported: 5, Enrolled: 2}}

	mux := http.NewServeMux()
	mirror := &stubMirror{local: &models.LocalCampaign{CampaignID: "c1", VideoClusterName: "Asthma"}}
	h := NewCampaignHandler(mirror, known, nil)
	mux.HandleFunc("GET /api/v1/campaigns/{campaign_id}", h.GetCampaign)
	mux.HandleFunc("PUT /api/v1/campaigns/{campaign_id}", h.UpdateCampaign)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/campaigns/c1", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Asthma", body["campaign"].(map[string]any)["video_cluster_name"])
	assert.Equal(t, 2.0, body["capacity"].(map[string]any)["enrolled"])

	req := httptest.NewRequest(http.MethodPut, "/api/v1/campaigns/c1", strings.NewReader(`{"video_cluster_name":"Asthma","wa_addition":"Hi"}`))
	req = req.WithContext(auth.WithIdentity(req.Context(), &auth.Identity{Subject: "publisher_1"}))
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "publisher_1", mirror.sub)
	assert.Equal(t, "Hi", mirror.edit.WAAddition)

	tests := []struct {
		err  error
		want int
	}{
		{service.ErrUnknownCampaign, http.StatusNotFound},
		{service.ErrInvalidCampaignEdit, http.StatusBadRequest},
		{errors.New("db down"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		mirror.err = tt.err
		rec = httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/v1/campaigns/c1", strings.NewReader(`{}`)))
		assert.Equal(t, tt.want, rec.Code, tt.err.Error())
	}

	rec = httptest.NewRecorder()
	NewCampaignHandler(mirror, stubGate{}, nil).GetCampaign(rec, httptest.NewRequest(http.MethodGet, "/api/v1/campaigns/zz", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

type stubCatalog struct {
	catalog *models.Catalog
	err     error
}

func (s stubCatalog) Published(context.Context) (*models.Catalog, error) { return s.catalog, s.err }

func (s stubCatalog) Cluster(_ context.Context, code string) (*models.VideoCluster, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.catalog != nil {
		for _, c := range s.catalog.Clusters {
			if c.Code == code {
				return &c, nil
			}
		}
	}
	return nil, service.ErrClusterNotFound
}

func TestCatalogHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	NewCatalogHandler(stubCatalog{catalog: &models.Catalog{Clusters: []models.VideoCluster{{ID: 1, Code: "ASTHMA"}}}}, nil).
		GetCatalog(rec, httptest.NewRequest(http.MethodGet, "/api/v1/catalog", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "public, max-age=60", rec.Header().Get("Cache-Control"))

	rec = httptest.NewRecorder()
	NewCatalogHandler(stubCatalog{err: errors.New("down")}, nil).
		GetCatalog(rec, httptest.NewRequest(http.MethodGet, "/api/v1/catalog", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestCatalogHandler_GetCluster(t *testing.T) {
	h := NewCatalogHandler(stubCatalog{catalog: &models.Catalog{Clusters: []models.VideoCluster{{ID: 1, Code: "ASTHMA"}}}}, nil)
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/catalog/{code}", h.GetCluster)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/catalog/ASTHMA", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ASTHMA", decodeBody(t, rec)["code"])

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/catalog/NONE", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	mux = http.NewServeMux()
	mux.HandleFunc("GET /api/v1/catalog/{code}", NewCatalogHandler(stubCatalog{err: errors.New("down")}, nil).GetCluster)
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/catalog/ASTHMA", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestAppConfig(t *testing.T) {
	cfg := &config.Config{}
	cfg.App.Name = "Clinic Portal"
	cfg.App.WhatsAppCountryCode = "91"
	rec := httptest.NewRecorder()
	NewConfigHandler(cfg).GetAppConfig(rec, httptest.NewRequest(http.MethodGet, "/api/v1/config/app", nil))

	body := decodeBody(t, rec)
	assert.Equal(t, "Clinic Portal", body["name"])
	assert.Equal(t, false, body["sso_enabled"])
}
