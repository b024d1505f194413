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

func (r *MasterRepository) campaignColumns(alias string) string {
	c := r.schema.Campaign
	cols := []string{
		c.ID, c.Name, c.BrandName, c.DoctorsSupported, c.AddToCampaignMessage,
		c.RegisterMessage, c.BannerSmallURL, c.BannerLargeURL, c.BannerTargetURL,
		c.SystemPE, c.StartDate, c.CreatedAt,
	}
	quoted := make([]string, len(cols))
	for i, col := range cols {
		if alias == "" {
			quoted[i] = qn(col)
		} else {
			quoted[i] = qc(alias, col)
		}
	}
	return strings.Join(quoted, ", ")
}

// campaignScanner collects nullable campaign columns in select order
type campaignScanner struct {
	id, name, brand, addMsg, regMsg sql.NullString
	small, large, target            sql.NullString
	supported                       sql.NullInt64
	systemPE                        sql.NullBool
	startDate, createdAt            sql.NullTime
}

func (s *campaignScanner) dest() []any {
	return []any{
		&s.id, &s.name, &s.brand, &s.supported, &s.addMsg, &s.regMsg,
		&s.small, &s.large, &s.target, &s.systemPE, &s.startDate, &s.createdAt,
	}
}

func (s *campaignScanner) campaign() *models.MasterCampaign {
	c := &models.MasterCampaign{
		ID:                   nullString(s.id),
		Name:                 nullString(s.name),
		BrandName:            nullString(s.brand),
		DoctorsSupported:     int(s.supported.Int64),
		AddToCampaignMessage: nullString(s.addMsg),
		RegisterMessage:      nullString(s.regMsg),
		BannerSmallURL:       nullString(s.small),
		BannerLargeURL:       nullString(s.large),
		BannerTargetURL:      nullString(s.target),
		SystemPE:             s.systemPE.Valid && s.systemPE.Bool,
	}
	if s.startDate.Valid {
		t := s.startDate.Time
		c.StartDate = &t
	}
	if s.createdAt.Valid {
		t := s.createdAt.Time
		c.CreatedAt = &t
	}
	return c
}

// FetchCampaign reads the campaign row stored under exactly campaignID
func (r *MasterRepository) FetchCampaign(ctx context.Context, campaignID string) (*models.MasterCampaign, error) {
	campaignID = strings.TrimSpace(campaignID)
	if campaignID == "" {
		return nil, ErrCampaignNotFound
	}
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1 LIMIT 1",
		r.campaignColumns(""), qn(r.schema.CampaignTable), qn(r.schema.Campaign.ID))

	var s campaignScanner
	err := r.db.QueryRowContext(ctx, query, campaignID).Scan(s.dest()...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCampaignNotFound
	}
	if err != nil {
		return nil, r.lookupFailed("campaign", err, "campaign_id", campaignID)
	}
	return s.campaign(), nil
}

// FindCampaignSupport matches enrollments whose contact email is in emails or
// whose phone ends in one of phones, joined with system_pe campaigns. Rows come
// back most recent start (or creation) first.
func (r *MasterRepository) FindCampaignSupport(ctx context.Context, emails, phones []string) ([]models.SupportMatch, error) {
	if len(emails) == 0 && len(phones) == 0 {
		return []models.SupportMatch{}, nil
	}

	camp := r.schema.Campaign
	contact := r.schema.Contact
	enr := r.schema.Enrollment

	activeFilter := ""
	if r.hasColumn(ctx, r.schema.EnrollmentTable, enr.Active) {
		activeFilter = " AND " + qc("e", enr.Active)
	}

	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s
		FROM %s e
		JOIN %s d ON d.%s = e.%s
		JOIN %s c ON c.%s = e.%s
		WHERE c.%s
		  AND (LOWER(%s) = ANY($1) OR RIGHT(%s, 10) = ANY($2))%s
		ORDER BY COALESCE(%s, %s) DESC NULLS LAST
	`,
		r.campaignColumns("c"), qc("d", contact.Email), qc("d", contact.Phone), qc("e", enr.RegisteredAt),
		qn(r.schema.EnrollmentTable),
		qn(r.schema.ContactTable), qn(contact.ID), qn(enr.DoctorID),
		qn(r.schema.CampaignTable), qn(camp.ID), qn(enr.CampaignID),
		qn(camp.SystemPE),
		qc("d", contact.Email), qc("d", contact.Phone), activeFilter,
		qc("c", camp.StartDate), qc("c", camp.CreatedAt),
	)

	rows, err := r.db.QueryContext(ctx, query, pqStringArray(emails), pqStringArray(phones))
	if err != nil {
		return nil, r.lookupFailed("campaign_support", err)
	}
	defer rows.Close()

	matches := []models.SupportMatch{}
	for rows.Next() {
		var (
			s            campaignScanner
			email, phone sql.NullString
			registeredAt sql.NullTime
		)
		if err := rows.Scan(append(s.dest(), &email, &phone, &registeredAt)...); err != nil {
			return nil, r.lookupFailed("campaign_support", err)
		}
		m := models.SupportMatch{
			Campaign:     *s.campaign(),
			ContactEmail: nullString(email),
			ContactPhone: nullString(phone),
		}
		if registeredAt.Valid {
			t := registeredAt.Time
			m.RegisteredAt = &t
		}
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, r.lookupFailed("campaign_support", err)
	}
	return matches, nil
}

// CountEnrollments counts distinct enrolled doctors stored under either the
// normalized or the given form of campaignID. Empty or malformed input and
// lookup failures count as zero.
func (r *MasterRepository) CountEnrollments(ctx context.Context, campaignID string) int {
	if !identity.ValidCampaignID(campaignID) {
		return 0
	}
	forms := identity.CampaignIDForms(campaignID)
	enr := r.schema.Enrollment

	where := fmt.Sprintf("%s = ANY($1)", qn(enr.CampaignID))
	if r.hasColumn(ctx, r.schema.EnrollmentTable, enr.Active) {
		where += " AND " + qn(enr.Active)
	}
	query := fmt.Sprintf("SELECT COUNT(DISTINCT %s) FROM %s WHERE %s",
		qn(enr.DoctorID), qn(r.schema.EnrollmentTable), where)

	var count int
	if err := r.db.QueryRowContext(ctx, query, pqStringArray(forms)).Scan(&count); err != nil {
		r.lookupFailed("count_enrollments", err, "campaign_id", campaignID)
		return 0
	}
	return count
}
