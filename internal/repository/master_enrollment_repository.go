package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"clinic-portal/internal/identity"
	"clinic-portal/internal/models"
)

// InsertEnrollment writes one enrollment row. A unique violation on
// (doctor_id, campaign_id) is reported as EnrollmentAlreadyExists; every
// other failure propagates.
func (r *MasterRepository) InsertEnrollment(ctx context.Context, contactID int64, campaignID string, registeredByID *int64) (models.EnrollmentOutcome, error) {
	enr := r.schema.Enrollment
	campaignNorm := identity.NormalizeCampaignID(campaignID)
	if campaignNorm == "" {
		return 0, fmt.Errorf("failed to insert enrollment: empty campaign id")
	}

	var registeredBy any
	if registeredByID != nil {
		registeredBy = *registeredByID
	}

	cols := []string{qn(enr.DoctorID), qn(enr.CampaignID), qn(enr.RegisteredByID), qn(enr.RegisteredAt)}
	values := []string{"$1", "$2", "$3", "NOW()"}
	if r.hasColumn(ctx, r.schema.EnrollmentTable, enr.Active) {
		cols = append(cols, qn(enr.Active))
		values = append(values, "TRUE")
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		qn(r.schema.EnrollmentTable), strings.Join(cols, ", "), strings.Join(values, ", "))

	_, err := r.db.ExecContext(ctx, query, contactID, campaignNorm, registeredBy)
	if isUniqueViolation(err) {
		return models.EnrollmentAlreadyExists, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to insert enrollment: %w", err)
	}
	return models.EnrollmentCreated, nil
}

// EnsureEnrollment enrolls the master doctor doctorID into campaignID.
// registeredBy may be a brand-supplied rep ID, a rep key, or a join-table key.
// Enrolling twice is not an error.
func (r *MasterRepository) EnsureEnrollment(ctx context.Context, doctorID, campaignID, registeredBy string) (models.EnrollmentOutcome, error) {
	campaignNorm := identity.NormalizeCampaignID(campaignID)
	if campaignNorm == "" {
		return 0, fmt.Errorf("failed to ensure enrollment: empty campaign id")
	}

	doctor, err := r.FetchDoctorByID(ctx, doctorID)
	if err != nil {
		if errors.Is(err, ErrDoctorNotFound) {
			return 0, ErrDoctorNotFound
		}
		return 0, fmt.Errorf("failed to load doctor for enrollment: %w", err)
	}

	contactID, err := r.getOrCreateContact(ctx, doctor)
	if err != nil {
		return 0, err
	}

	registeredByID := r.resolveRegisteredBy(ctx, campaignNorm, registeredBy)

	outcome, err := r.InsertEnrollment(ctx, contactID, campaignNorm, registeredByID)
	if err != nil {
		return 0, err
	}

	r.logger.Info("Enrollment ensured",
		"doctor_id", doctor.DoctorID,
		"campaign_id", campaignNorm,
		"contact_id", contactID,
		"registered_by_resolved", registeredByID != nil,
		"outcome", outcome.String(),
	)
	return outcome, nil
}

// getOrCreateContact returns the contact row for doctor, matched by
// lower-cased email or the last ten phone digits, creating it when absent.
// Lookup and insert run under a transaction-scoped advisory lock keyed on the
// match values, so concurrent enrollments of one doctor share a single contact.
func (r *MasterRepository) getOrCreateContact(ctx context.Context, doctor *models.Doctor) (int64, error) {
	c := r.schema.Contact
	email := identity.LowerEmail(doctor.Email)
	phoneDigits := identity.DigitsOnly(doctor.WhatsAppNo)
	last10 := identity.Last10Digits(phoneDigits)

	if email == "" && last10 == "" {
		return 0, fmt.Errorf("failed to resolve contact: doctor %s has neither email nor phone", doctor.DoctorID)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin contact transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock(hashtext($1))", contactLockKey(email, last10)); err != nil {
		return 0, fmt.Errorf("failed to lock campaign contact: %w", err)
	}

	var where []string
	var args []any
	if email != "" {
		args = append(args, email)
		where = append(where, fmt.Sprintf("LOWER(%s) = $%d", qn(c.Email), len(args)))
	}
	if last10 != "" {
		args = append(args, last10)
		where = append(where, fmt.Sprintf("RIGHT(%s, 10) = $%d", qn(c.Phone), len(args)))
	}

	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s ORDER BY %s DESC LIMIT 1",
		qn(c.ID), qn(r.schema.ContactTable), strings.Join(where, " OR "), qn(c.ID))

	var id int64
	err = tx.QueryRowContext(ctx, query, args...).Scan(&id)
	if err == nil {
		if err := tx.Commit(); err != nil {
			return 0, fmt.Errorf("failed to commit contact lookup: %w", err)
		}
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("failed to look up campaign contact: %w", err)
	}

	fullName := doctor.FullName()
	if fullName == "" {
		fullName = identity.Dedupe([]string{email, last10}, nil)[0]
	}

	insert := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING %s
	`,
		qn(r.schema.ContactTable),
		qn(c.FullName), qn(c.Email), qn(c.Phone), qn(c.City), qn(c.State), qn(c.CreatedAt),
		qn(c.ID),
	)
	err = tx.QueryRowContext(ctx, insert,
		fullName, email, phoneDigits, strings.TrimSpace(doctor.District), strings.TrimSpace(doctor.State),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create campaign contact: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit campaign contact: %w", err)
	}
	return id, nil
}

// contactLockKey is the advisory lock name for one contact identity
func contactLockKey(email, last10 string) string {
	return "campaign_contact:" + email + "|" + last10
}
