package repository

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"clinic-portal/internal/identity"
	"clinic-portal/internal/models"
)

const doctorIDAttempts = 15

func (r *MasterRepository) doctorColumns() []string {
	c := r.schema.Doctor
	return []string{
		c.DoctorID, c.FirstName, c.LastName, c.Email, c.WhatsAppNo,
		c.ClinicName, c.ClinicPhone, c.ClinicAppointmentNumber, c.ClinicAddress,
		c.ReceptionistWhatsApp, c.PostalCode, c.State, c.District, c.Photo,
		c.IMCNumber, c.ClinicUser1Email, c.ClinicUser2Email, c.ClinicUser3Email,
		c.FieldRepID, c.RecruitedVia,
	}
}

func (r *MasterRepository) doctorSelect() string {
	cols := r.doctorColumns()
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = qn(c)
	}
	return "SELECT " + strings.Join(quoted, ", ") + " FROM " + qn(r.schema.DoctorTable)
}

func scanDoctor(row interface{ Scan(...any) error }) (*models.Doctor, error) {
	var v [20]sql.NullString
	dest := make([]any, len(v))
	for i := range v {
		dest[i] = &v[i]
	}
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	d := &models.Doctor{
		DoctorID:                nullString(v[0]),
		FirstName:               nullString(v[1]),
		LastName:                nullString(v[2]),
		Email:                   nullString(v[3]),
		WhatsAppNo:              nullString(v[4]),
		ClinicName:              nullString(v[5]),
		ClinicPhone:             nullString(v[6]),
		ClinicAppointmentNumber: nullString(v[7]),
		ClinicAddress:           nullString(v[8]),
		ReceptionistWhatsApp:    nullString(v[9]),
		PostalCode:              nullString(v[10]),
		State:                   nullString(v[11]),
		District:                nullString(v[12]),
		PhotoPath:               nullString(v[13]),
		IMCRegistrationNumber:   nullString(v[14]),
		FieldRepID:              nullString(v[18]),
		RecruitedVia:            nullString(v[19]),
	}
	d.ClinicUserEmails = identity.Dedupe([]string{nullString(v[15]), nullString(v[16]), nullString(v[17])}, nil)
	return d, nil
}

func (r *MasterRepository) queryDoctor(ctx context.Context, op, where string, args ...any) (*models.Doctor, error) {
	query := r.doctorSelect() + " WHERE " + where + " LIMIT 1"
	doctor, err := scanDoctor(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrDoctorNotFound
	}
	if err != nil {
		return nil, r.lookupFailed(op, err)
	}
	return doctor, nil
}

// FetchDoctorByWhatsApp matches the bare 10-digit and "91"-prefixed forms of raw
func (r *MasterRepository) FetchDoctorByWhatsApp(ctx context.Context, raw string) (*models.Doctor, error) {
	bare := identity.NormalizePhoneForLookup(raw)
	if bare == "" {
		return nil, ErrDoctorNotFound
	}
	col := qn(r.schema.Doctor.WhatsAppNo)
	return r.queryDoctor(ctx, "doctor_by_whatsapp",
		col+" IN ($1, $2)", bare, identity.DefaultCountryCode+bare)
}

// FetchDoctorByID looks a doctor up by natural key
func (r *MasterRepository) FetchDoctorByID(ctx context.Context, doctorID string) (*models.Doctor, error) {
	doctorID = strings.TrimSpace(doctorID)
	if doctorID == "" {
		return nil, ErrDoctorNotFound
	}
	return r.queryDoctor(ctx, "doctor_by_id", qn(r.schema.Doctor.DoctorID)+" = $1", doctorID)
}

// FindDoctorByEmailOrWhatsApp finds an existing registration by
// case-insensitive email or by the last ten WhatsApp digits.
func (r *MasterRepository) FindDoctorByEmailOrWhatsApp(ctx context.Context, email, whatsApp string) (*models.Doctor, error) {
	email = identity.LowerEmail(email)
	last10 := identity.Last10Digits(whatsApp)

	var where []string
	var args []any
	if email != "" {
		args = append(args, email)
		where = append(where, fmt.Sprintf("LOWER(%s) = $%d", qn(r.schema.Doctor.Email), len(args)))
	}
	if last10 != "" {
		args = append(args, last10)
		where = append(where, fmt.Sprintf("RIGHT(%s, 10) = $%d", qn(r.schema.Doctor.WhatsAppNo), len(args)))
	}
	if len(where) == 0 {
		return nil, ErrDoctorNotFound
	}
	return r.queryDoctor(ctx, "doctor_by_email_or_whatsapp", strings.Join(where, " OR "), args...)
}

// ResolveDoctorIdentity finds the doctor row that email signs into, matching
// the doctor's own address or any clinic user address. A doctor's own
// address wins over a clinic user address on another row.
func (r *MasterRepository) ResolveDoctorIdentity(ctx context.Context, email string) (*models.DoctorIdentity, error) {
	email = identity.LowerEmail(email)
	if email == "" {
		return nil, ErrDoctorNotFound
	}
	c := r.schema.Doctor
	var match []string
	for _, col := range []string{c.Email, c.ClinicUser1Email, c.ClinicUser2Email, c.ClinicUser3Email} {
		match = append(match, fmt.Sprintf("LOWER(%s) = $1", qn(col)))
	}
	where := fmt.Sprintf("(%s) ORDER BY CASE WHEN LOWER(%s) = $1 THEN 0 ELSE 1 END",
		strings.Join(match, " OR "), qn(c.Email))

	doctor, err := r.queryDoctor(ctx, "doctor_identity", where, email)
	if err != nil {
		return nil, err
	}
	return models.NewDoctorIdentity(doctor, email), nil
}

// FetchDoctorPasswordHash reads the stored clinic password hash
func (r *MasterRepository) FetchDoctorPasswordHash(ctx context.Context, doctorID string) (string, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1 LIMIT 1",
		qn(r.schema.Doctor.ClinicPasswordHash), qn(r.schema.DoctorTable), qn(r.schema.Doctor.DoctorID))

	var hash sql.NullString
	err := r.db.QueryRowContext(ctx, query, strings.TrimSpace(doctorID)).Scan(&hash)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrDoctorNotFound
	}
	if err != nil {
		return "", r.lookupFailed("doctor_password_hash", err, "doctor_id", doctorID)
	}
	return hash.String, nil
}

// UpdateDoctorPassword replaces the clinic password hash of doctorID
func (r *MasterRepository) UpdateDoctorPassword(ctx context.Context, doctorID, hash string) error {
	query := fmt.Sprintf("UPDATE %s SET %s = $1 WHERE %s = $2",
		qn(r.schema.DoctorTable), qn(r.schema.Doctor.ClinicPasswordHash), qn(r.schema.Doctor.DoctorID))

	res, err := r.db.ExecContext(ctx, query, hash, strings.TrimSpace(doctorID))
	if err != nil {
		return fmt.Errorf("failed to update doctor password: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update doctor password: %w", err)
	}
	if n == 0 {
		return ErrDoctorNotFound
	}
	return nil
}

// DoctorIDExists checks the natural key. Lookup failures report false.
func (r *MasterRepository) DoctorIDExists(ctx context.Context, doctorID string) bool {
	query := fmt.Sprintf("SELECT 1 FROM %s WHERE %s = $1 LIMIT 1",
		qn(r.schema.DoctorTable), qn(r.schema.Doctor.DoctorID))

	var one int
	err := r.db.QueryRowContext(ctx, query, strings.TrimSpace(doctorID)).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false
	}
	if err != nil {
		r.lookupFailed("doctor_id_exists", err)
		return false
	}
	return true
}

// GenerateDoctorID returns an unused "DR" + 6 digit identifier
func (r *MasterRepository) GenerateDoctorID(ctx context.Context) (string, error) {
	for range doctorIDAttempts {
		n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
		if err != nil {
			return "", fmt.Errorf("failed to generate doctor id: %w", err)
		}
		candidate := fmt.Sprintf("DR%06d", n.Int64())
		if !r.DoctorIDExists(ctx, candidate) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("failed to generate unique doctor id after %d attempts", doctorIDAttempts)
}

// InsertDoctor writes a new doctor row. Phone fields are stored normalized.
func (r *MasterRepository) InsertDoctor(ctx context.Context, d *models.Doctor) error {
	c := r.schema.Doctor
	emails := append(append([]string{}, d.ClinicUserEmails...), "", "", "")

	values := []struct {
		col string
		val any
	}{
		{c.DoctorID, strings.TrimSpace(d.DoctorID)},
		{c.FirstName, strings.TrimSpace(d.FirstName)},
		{c.LastName, strings.TrimSpace(d.LastName)},
		{c.Email, identity.LowerEmail(d.Email)},
		{c.WhatsAppNo, identity.NormalizePhoneForLookup(d.WhatsAppNo)},
		{c.ClinicName, strings.TrimSpace(d.ClinicName)},
		{c.ClinicPhone, strings.TrimSpace(d.ClinicPhone)},
		{c.ClinicAppointmentNumber, strings.TrimSpace(d.ClinicAppointmentNumber)},
		{c.ClinicAddress, strings.TrimSpace(d.ClinicAddress)},
		{c.ReceptionistWhatsApp, identity.NormalizePhoneForLookup(d.ReceptionistWhatsApp)},
		{c.PostalCode, identity.NormalizePincode(d.PostalCode)},
		{c.State, strings.TrimSpace(d.State)},
		{c.District, strings.TrimSpace(d.District)},
		{c.Photo, strings.TrimSpace(d.PhotoPath)},
		{c.IMCNumber, strings.TrimSpace(d.IMCRegistrationNumber)},
		{c.ClinicUser1Email, identity.LowerEmail(emails[0])},
		{c.ClinicUser2Email, identity.LowerEmail(emails[1])},
		{c.ClinicUser3Email, identity.LowerEmail(emails[2])},
		{c.FieldRepID, strings.TrimSpace(d.FieldRepID)},
		{c.RecruitedVia, strings.TrimSpace(d.RecruitedVia)},
		{c.ClinicPasswordHash, d.ClinicPasswordHash},
	}

	cols := make([]string, len(values))
	args := make([]any, len(values))
	for i, v := range values {
		cols[i] = qn(v.col)
		args[i] = v.val
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		qn(r.schema.DoctorTable), strings.Join(cols, ", "), placeholders(1, len(cols)))

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert doctor: %w", err)
	}
	return nil
}
