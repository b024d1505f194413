package testutil

import (
	"database/sql"
	"testing"
)

// MasterSchemaSQL creates the master tables under their default names
const MasterSchemaSQL = `
CREATE TABLE IF NOT EXISTS redflags_doctor (
    doctor_id VARCHAR(16) PRIMARY KEY,
    first_name TEXT NOT NULL DEFAULT '',
    last_name TEXT NOT NULL DEFAULT '',
    email TEXT NOT NULL DEFAULT '',
    whatsapp_no TEXT NOT NULL DEFAULT '',
    clinic_name TEXT NOT NULL DEFAULT '',
    clinic_phone TEXT NOT NULL DEFAULT '',
    clinic_appointment_number TEXT NOT NULL DEFAULT '',
    clinic_address TEXT NOT NULL DEFAULT '',
    receptionist_whatsapp_number TEXT NOT NULL DEFAULT '',
    postal_code TEXT NOT NULL DEFAULT '',
    state TEXT NOT NULL DEFAULT '',
    district TEXT NOT NULL DEFAULT '',
    photo TEXT NOT NULL DEFAULT '',
    imc_registration_number TEXT NOT NULL DEFAULT '',
    clinic_user1_email TEXT NOT NULL DEFAULT '',
    clinic_user2_email TEXT NOT NULL DEFAULT '',
    clinic_user3_email TEXT NOT NULL DEFAULT '',
    field_rep_id TEXT NOT NULL DEFAULT '',
    recruited_via TEXT NOT NULL DEFAULT '',
    clinic_password_hash TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS campaign_fieldrep (
    id BIGSERIAL PRIMARY KEY,
    full_name TEXT NOT NULL DEFAULT '',
    phone_number TEXT NOT NULL DEFAULT '',
    is_active BOOLEAN NOT NULL DEFAULT TRUE,
    brand_supplied_field_rep_id TEXT
);

CREATE TABLE IF NOT EXISTS campaign_campaign (
    id VARCHAR(64) PRIMARY KEY,
    name TEXT NOT NULL DEFAULT '',
    brand_name TEXT NOT NULL DEFAULT '',
    num_doctors_supported INTEGER NOT NULL DEFAULT 0,
    add_to_campaign_message TEXT NOT NULL DEFAULT '',
    register_message TEXT NOT NULL DEFAULT '',
    banner_small_url TEXT NOT NULL DEFAULT '',
    banner_large_url TEXT NOT NULL DEFAULT '',
    banner_target_url TEXT NOT NULL DEFAULT '',
    system_pe BOOLEAN NOT NULL DEFAULT FALSE,
    start_date DATE,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS campaign_campaignfieldrep (
    id BIGSERIAL PRIMARY KEY,
    campaign_id VARCHAR(64) NOT NULL,
    field_rep_id BIGINT NOT NULL REFERENCES campaign_fieldrep(id)
);

CREATE TABLE IF NOT EXISTS campaign_doctor (
    id BIGSERIAL PRIMARY KEY,
    full_name TEXT NOT NULL DEFAULT '',
    email TEXT NOT NULL DEFAULT '',
    phone TEXT NOT NULL DEFAULT '',
    city TEXT NOT NULL DEFAULT '',
    state TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS campaign_doctorcampaignenrollment (
    id BIGSERIAL PRIMARY KEY,
    doctor_id BIGINT NOT NULL REFERENCES campaign_doctor(id),
    campaign_id VARCHAR(64) NOT NULL,
    registered_by_id BIGINT REFERENCES campaign_fieldrep(id),
    registered_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    active BOOLEAN NOT NULL DEFAULT TRUE,
    UNIQUE (doctor_id, campaign_id)
);
`

// MasterFixtures seeds one system_pe campaign with a single linked field rep
type MasterFixtures struct {
	CampaignID       string
	FieldRepPK       int64
	BrandFieldRepID  string
	LinkID           int64
	DoctorsSupported int
}

// SeedMaster inserts the campaign, rep and join row used by integration tests.
// The campaign is stored in its normalized 32-hex form.
func SeedMaster(t *testing.T, db *sql.DB, doctorsSupported int) *MasterFixtures {
	t.Helper()
	f := &MasterFixtures{
		CampaignID:       "9f1c2d3e4a5b46c7889900aabbccddee",
		BrandFieldRepID:  "FR09",
		DoctorsSupported: doctorsSupported,
	}

	MustExec(t, db, `
		INSERT INTO campaign_campaign (id, name, brand_name, num_doctors_supported,
			add_to_campaign_message, banner_target_url, system_pe, start_date)
		VALUES ($1, 'Fever Awareness', 'Acme Pharma', $2,
			'Hello <doctor_name>, open <clinic_link>', 'https://brand.example/fever', TRUE, '2026-01-01')
	`, f.CampaignID, doctorsSupported)

	if err := db.QueryRow(`
		INSERT INTO campaign_fieldrep (full_name, phone_number, is_active, brand_supplied_field_rep_id)
		VALUES ('Ravi Kumar', '9000000001', TRUE, $1)
		RETURNING id
	`, f.BrandFieldRepID).Scan(&f.FieldRepPK); err != nil {
		t.Fatalf("failed to seed field rep: %v", err)
	}

	if err := db.QueryRow(`
		INSERT INTO campaign_campaignfieldrep (campaign_id, field_rep_id)
		VALUES ($1, $2)
		RETURNING id
	`, f.CampaignID, f.FieldRepPK).Scan(&f.LinkID); err != nil {
		t.Fatalf("failed to seed campaign field rep link: %v", err)
	}

	return f
}

// SeedDoctor inserts a master doctor row with the given identity fields
func SeedDoctor(t *testing.T, db *sql.DB, doctorID, firstName, email, whatsApp string) {
	t.Helper()
	MustExec(t, db, `
		INSERT INTO redflags_doctor (doctor_id, first_name, last_name, email, whatsapp_no,
			clinic_name, postal_code, state)
		VALUES ($1, $2, 'Rao', $3, $4, 'Sunrise Clinic', '560001', 'Karnataka')
	`, doctorID, firstName, email, whatsApp)
}
