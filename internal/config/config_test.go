package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SIGNING_SECRET", "test-secret")
	t.Setenv("MASTER_DB_HOST", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 7*24*time.Hour, cfg.Signing.PatientLinkMaxAge)
	assert.Equal(t, "project1", cfg.SSO.ExpectedIssuer)
	assert.Equal(t, "project2", cfg.SSO.ExpectedAudience)
	assert.Equal(t, time.Hour, cfg.Catalog.CacheTTL)
	assert.Equal(t, 3*time.Second, cfg.Pincode.DistrictLookupLimit)
	assert.False(t, cfg.MasterDB.Configured())
	assert.Equal(t, "redflags_doctor", cfg.Master.DoctorTable)
	assert.Equal(t, "campaign_doctorcampaignenrollment", cfg.Master.EnrollmentTable)
	assert.True(t, cfg.Scheduler.MirrorResyncEnabled)
	assert.Equal(t, 15*time.Minute, cfg.Scheduler.MirrorResyncInterval)
}

func TestLoad_RequiresSigningSecret(t *testing.T) {
	t.Setenv("SIGNING_SECRET", "")
	t.Setenv("VAULT_ENABLED", "false")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_MasterSchemaOverrides(t *testing.T) {
	t.Setenv("SIGNING_SECRET", "test-secret")
	t.Setenv("MASTER_DB_HOST", "master.internal")
	t.Setenv("MASTER_DB_DOCTOR_TABLE", "Doctor")
	t.Setenv("MASTER_DB_ENROLLMENT_TABLE", "DoctorCampaignEnrollment")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.MasterDB.Configured())
	assert.Equal(t, "Doctor", cfg.Master.DoctorTable)
	assert.Equal(t, "DoctorCampaignEnrollment", cfg.Master.EnrollmentTable)
}

func TestMasterSchema_ValidateRejectsInjection(t *testing.T) {
	s := DefaultMasterSchema()
	require.NoError(t, s.Validate())

	s.Campaign.BannerTargetURL = "banner_target_url; DROP TABLE x"
	assert.Error(t, s.Validate())
}
