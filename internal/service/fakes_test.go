package service

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"sync"

	"clinic-portal/internal/email"
	"clinic-portal/internal/identity"
	"clinic-portal/internal/models"
	"clinic-portal/internal/repository"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeMaster is an in-memory master store keyed the way the real tables are
type fakeMaster struct {
	mu sync.Mutex

	reps        map[int64]*models.FieldRep
	links       map[int64]models.CampaignFieldRepLink
	campaigns   map[string]*models.MasterCampaign
	enrollments map[string]map[string]bool // campaign -> doctor
	doctors     map[string]*models.Doctor
	support     []models.SupportMatch
	revoked     map[int64]bool // reps failing the membership re-check
	nextID      int

	supportErr    error
	insertErr     error
	enrollErr     error
	identityErr   error
	updateErr     error
	inserted      []*models.Doctor
	enrollCalls   []enrollCall
	supportEmails []string
	supportPhones []string
}

type enrollCall struct {
	doctorID, campaignID, registeredBy string
}

func newFakeMaster() *fakeMaster {
	return &fakeMaster{
		reps:        map[int64]*models.FieldRep{},
		links:       map[int64]models.CampaignFieldRepLink{},
		campaigns:   map[string]*models.MasterCampaign{},
		enrollments: map[string]map[string]bool{},
		doctors:     map[string]*models.Doctor{},
	}
}

func (f *fakeMaster) addRep(rep models.FieldRep) {
	f.reps[rep.ID] = &rep
}

func (f *fakeMaster) addLink(id int64, campaignID string, fieldRepID int64) {
	f.links[id] = models.CampaignFieldRepLink{ID: id, CampaignID: identity.NormalizeCampaignID(campaignID), FieldRepID: fieldRepID}
}

func (f *fakeMaster) addCampaign(c models.MasterCampaign) {
	f.campaigns[c.ID] = &c
}

func (f *fakeMaster) enroll(campaignID string, doctorIDs ...string) {
	if f.enrollments[campaignID] == nil {
		f.enrollments[campaignID] = map[string]bool{}
	}
	for _, d := range doctorIDs {
		f.enrollments[campaignID][d] = true
	}
}

func (f *fakeMaster) FetchFieldRep(_ context.Context, identifier string) (*models.FieldRep, error) {
	if identity.IsNumeric(identifier) {
		pk, _ := strconv.ParseInt(identifier, 10, 64)
		if rep, ok := f.reps[pk]; ok {
			return rep, nil
		}
	}
	for _, rep := range f.reps {
		if rep.BrandSuppliedFieldRepID != "" && rep.BrandSuppliedFieldRepID == identifier {
			return rep, nil
		}
	}
	return nil, repository.ErrFieldRepNotFound
}

func (f *fakeMaster) FetchFieldRepByPK(_ context.Context, id int64) (*models.FieldRep, error) {
	if rep, ok := f.reps[id]; ok {
		return rep, nil
	}
	return nil, repository.ErrFieldRepNotFound
}

func (f *fakeMaster) FetchFieldRepLink(_ context.Context, linkID int64, campaignID string) (*models.CampaignFieldRepLink, error) {
	link, ok := f.links[linkID]
	if !ok || link.CampaignID != identity.NormalizeCampaignID(campaignID) {
		return nil, repository.ErrFieldRepLinkNotFound
	}
	return &link, nil
}

func (f *fakeMaster) FieldRepLinkedToCampaign(_ context.Context, campaignID string, fieldRepID int64) bool {
	if f.revoked[fieldRepID] {
		return false
	}
	for _, link := range f.links {
		if link.CampaignID == identity.NormalizeCampaignID(campaignID) && link.FieldRepID == fieldRepID {
			return true
		}
	}
	return false
}

func (f *fakeMaster) FetchCampaign(_ context.Context, campaignID string) (*models.MasterCampaign, error) {
	if c, ok := f.campaigns[campaignID]; ok {
		return c, nil
	}
	return nil, repository.ErrCampaignNotFound
}

func (f *fakeMaster) CountEnrollments(_ context.Context, campaignID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.enrollments[campaignID])
}

func (f *fakeMaster) FetchDoctorByWhatsApp(_ context.Context, raw string) (*models.Doctor, error) {
	want := identity.NormalizePhoneForLookup(raw)
	for _, d := range f.doctors {
		if identity.NormalizePhoneForLookup(d.WhatsAppNo) == want {
			return d, nil
		}
	}
	return nil, repository.ErrDoctorNotFound
}

func (f *fakeMaster) FetchDoctorByID(_ context.Context, doctorID string) (*models.Doctor, error) {
	if d, ok := f.doctors[doctorID]; ok {
		return d, nil
	}
	return nil, repository.ErrDoctorNotFound
}

func (f *fakeMaster) FindDoctorByEmailOrWhatsApp(_ context.Context, email, whatsApp string) (*models.Doctor, error) {
	for _, d := range f.doctors {
		if identity.LowerEmail(d.Email) == identity.LowerEmail(email) ||
			identity.Last10Digits(d.WhatsAppNo) == identity.Last10Digits(whatsApp) {
			return d, nil
		}
	}
	return nil, repository.ErrDoctorNotFound
}

func (f *fakeMaster) GenerateDoctorID(context.Context) (string, error) {
	f.nextID++
	return "DR" + strconv.Itoa(100000+f.nextID), nil
}

func (f *fakeMaster) InsertDoctor(_ context.Context, d *models.Doctor) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.inserted = append(f.inserted, d)
	f.doctors[d.DoctorID] = d
	return nil
}

func (f *fakeMaster) EnsureEnrollment(_ context.Context, doctorID, campaignID, registeredBy string) (models.EnrollmentOutcome, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.enrollCalls = append(f.enrollCalls, enrollCall{doctorID, campaignID, registeredBy})
	if f.enrollErr != nil {
		return 0, f.enrollErr
	}
	if _, ok := f.doctors[doctorID]; !ok {
		return 0, repository.ErrDoctorNotFound
	}
	norm := identity.NormalizeCampaignID(campaignID)
	if f.enrollments[norm][doctorID] {
		return models.EnrollmentAlreadyExists, nil
	}
	if f.enrollments[norm] == nil {
		f.enrollments[norm] = map[string]bool{}
	}
	f.enrollments[norm][doctorID] = true
	return models.EnrollmentCreated, nil
}

func (f *fakeMaster) FindCampaignSupport(_ context.Context, emails, phones []string) ([]models.SupportMatch, error) {
	f.supportEmails, f.supportPhones = emails, phones
	if f.supportErr != nil {
		return nil, f.supportErr
	}
	return f.support, nil
}

func (f *fakeMaster) ResolveDoctorIdentity(_ context.Context, email string) (*models.DoctorIdentity, error) {
	if f.identityErr != nil {
		return nil, f.identityErr
	}
	login := identity.LowerEmail(email)
	if login == "" {
		return nil, repository.ErrDoctorNotFound
	}
	for _, d := range f.doctors {
		if identity.LowerEmail(d.Email) == login {
			return models.NewDoctorIdentity(d, login), nil
		}
	}
	for _, d := range f.doctors {
		for _, e := range d.ClinicUserEmails {
			if identity.LowerEmail(e) == login {
				return models.NewDoctorIdentity(d, login), nil
			}
		}
	}
	return nil, repository.ErrDoctorNotFound
}

func (f *fakeMaster) FetchDoctorPasswordHash(_ context.Context, doctorID string) (string, error) {
	if d, ok := f.doctors[doctorID]; ok {
		return d.ClinicPasswordHash, nil
	}
	return "", repository.ErrDoctorNotFound
}

func (f *fakeMaster) UpdateDoctorPassword(_ context.Context, doctorID, hash string) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	d, ok := f.doctors[doctorID]
	if !ok {
		return repository.ErrDoctorNotFound
	}
	d.ClinicPasswordHash = hash
	return nil
}

// fakeLocal is an in-memory campaign mirror keyed by normalized campaign id
type fakeLocal struct {
	campaigns map[string]*models.LocalCampaign
	upserts   int
}

func newFakeLocal() *fakeLocal {
	return &fakeLocal{campaigns: map[string]*models.LocalCampaign{}}
}

func (f *fakeLocal) GetByCampaignID(_ context.Context, campaignID string) (*models.LocalCampaign, error) {
	c, ok := f.campaigns[identity.NormalizeCampaignID(campaignID)]
	if !ok {
		return nil, nil
	}
	copied := *c
	return &copied, nil
}

func (f *fakeLocal) ListByCampaignIDs(_ context.Context, campaignIDs []string) (map[string]*models.LocalCampaign, error) {
	out := map[string]*models.LocalCampaign{}
	for _, id := range campaignIDs {
		if c, ok := f.campaigns[identity.NormalizeCampaignID(id)]; ok {
			out[identity.NormalizeCampaignID(id)] = c
		}
	}
	return out, nil
}

func (f *fakeLocal) ListAll(_ context.Context) ([]*models.LocalCampaign, error) {
	out := make([]*models.LocalCampaign, 0, len(f.campaigns))
	for _, c := range f.campaigns {
		copied := *c
		out = append(out, &copied)
	}
	return out, nil
}

func (f *fakeLocal) Upsert(_ context.Context, c *models.LocalCampaign) error {
	f.upserts++
	copied := *c
	f.campaigns[identity.NormalizeCampaignID(c.CampaignID)] = &copied
	return nil
}

type fakeMailer struct {
	sent []email.DoctorLinks
	err  error
}

func (f *fakeMailer) SendDoctorLinks(_ context.Context, dl email.DoctorLinks) error {
	f.sent = append(f.sent, dl)
	return f.err
}
