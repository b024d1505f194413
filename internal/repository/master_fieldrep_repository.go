package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"clinic-portal/internal/identity"
	"clinic-portal/internal/models"
)

func (r *MasterRepository) fieldRepSelect() string {
	c := r.schema.FieldRep
	return fmt.Sprintf("SELECT %s, %s, %s, %s, %s FROM %s",
		qn(c.ID), qn(c.FullName), qn(c.PhoneNumber), qn(c.IsActive), qn(c.BrandSuppliedID),
		qn(r.schema.FieldRepTable))
}

func (r *MasterRepository) queryFieldRep(ctx context.Context, op, column string, arg any) (*models.FieldRep, error) {
	query := r.fieldRepSelect() + " WHERE " + qn(column) + " = $1 LIMIT 1"

	var (
		rep      models.FieldRep
		fullName sql.NullString
		phone    sql.NullString
		isActive sql.NullBool
		brandID  sql.NullString
	)
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&rep.ID, &fullName, &phone, &isActive, &brandID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrFieldRepNotFound
	}
	if err != nil {
		return nil, r.lookupFailed(op, err, "field_rep_id", arg)
	}

	rep.FullName = nullString(fullName)
	rep.PhoneNumber = nullString(phone)
	rep.IsActive = isActive.Valid && isActive.Bool
	rep.BrandSuppliedFieldRepID = nullString(brandID)
	return &rep, nil
}

// FetchFieldRepByPK looks a field rep up by surrogate key
func (r *MasterRepository) FetchFieldRepByPK(ctx context.Context, id int64) (*models.FieldRep, error) {
	return r.queryFieldRep(ctx, "field_rep_by_pk", r.schema.FieldRep.ID, id)
}

// FetchFieldRep resolves identifier as a natural key. Numeric identifiers are
// tried as the surrogate key first, then as the brand-supplied ID.
func (r *MasterRepository) FetchFieldRep(ctx context.Context, identifier string) (*models.FieldRep, error) {
	raw := strings.TrimSpace(identifier)
	if raw == "" {
		return nil, ErrFieldRepNotFound
	}

	var lookupErr error
	if identity.IsNumeric(raw) {
		if pk, err := strconv.ParseInt(raw, 10, 64); err == nil {
			rep, err := r.FetchFieldRepByPK(ctx, pk)
			if err == nil {
				return rep, nil
			}
			if !errors.Is(err, ErrFieldRepNotFound) {
				lookupErr = err
			}
		}
	}

	rep, err := r.queryFieldRep(ctx, "field_rep_by_brand_id", r.schema.FieldRep.BrandSuppliedID, raw)
	if err == nil {
		return rep, nil
	}
	if errors.Is(err, ErrFieldRepNotFound) && lookupErr != nil {
		return nil, lookupErr
	}
	return nil, err
}

// FetchFieldRepLink reads a join-table row by its surrogate key, scoped to the campaign
func (r *MasterRepository) FetchFieldRepLink(ctx context.Context, linkID int64, campaignID string) (*models.CampaignFieldRepLink, error) {
	forms := identity.CampaignIDForms(campaignID)
	if len(forms) == 0 {
		return nil, ErrFieldRepLinkNotFound
	}
	c := r.schema.Link
	query := fmt.Sprintf(
		"SELECT %s, %s, %s FROM %s WHERE %s = $1 AND %s = ANY($2) LIMIT 1",
		qn(c.ID), qn(c.CampaignID), qn(c.FieldRepID), qn(r.schema.LinkTable),
		qn(c.ID), qn(c.CampaignID),
	)

	var link models.CampaignFieldRepLink
	err := r.db.QueryRowContext(ctx, query, linkID, pqStringArray(forms)).
		Scan(&link.ID, &link.CampaignID, &link.FieldRepID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrFieldRepLinkNotFound
	}
	if err != nil {
		return nil, r.lookupFailed("field_rep_link", err, "link_id", linkID)
	}
	return &link, nil
}

// FieldRepLinkedToCampaign checks the join table for (campaign, rep).
// Lookup failures deny.
func (r *MasterRepository) FieldRepLinkedToCampaign(ctx context.Context, campaignID string, fieldRepID int64) bool {
	forms := identity.CampaignIDForms(campaignID)
	if len(forms) == 0 || fieldRepID <= 0 {
		return false
	}
	c := r.schema.Link
	query := fmt.Sprintf("SELECT 1 FROM %s WHERE %s = ANY($1) AND %s = $2 LIMIT 1",
		qn(r.schema.LinkTable), qn(c.CampaignID), qn(c.FieldRepID))

	var one int
	err := r.db.QueryRowContext(ctx, query, pqStringArray(forms), fieldRepID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false
	}
	if err != nil {
		r.lookupFailed("field_rep_linked", err, "field_rep_pk", fieldRepID)
		return false
	}
	return true
}

// resolveRegisteredBy maps a registered_by value from a URL or form onto a
// field rep surrogate key. Accepted shapes: "FR09", "15", "fieldrep_15".
// The trailing digits are tried as a rep key and then as a join-table key.
func (r *MasterRepository) resolveRegisteredBy(ctx context.Context, campaignNorm, registeredBy string) *int64 {
	raw := strings.TrimSpace(registeredBy)
	if raw == "" {
		return nil
	}

	if rep, err := r.FetchFieldRep(ctx, raw); err == nil {
		return &rep.ID
	}

	digits := identity.TrailingDigits(raw)
	if digits == "" {
		return nil
	}
	cand, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return nil
	}

	if rep, err := r.FetchFieldRepByPK(ctx, cand); err == nil {
		return &rep.ID
	}

	link, err := r.FetchFieldRepLink(ctx, cand, campaignNorm)
	if err != nil {
		return nil
	}
	if rep, err := r.FetchFieldRepByPK(ctx, link.FieldRepID); err == nil {
		return &rep.ID
	}
	return nil
}
