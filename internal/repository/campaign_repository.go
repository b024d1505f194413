package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"clinic-portal/internal/identity"
	"clinic-portal/internal/models"
)

const campaignSelect = `
	SELECT id, campaign_id, video_cluster_name, selection_json, doctors_supported,
	       banner_small_url, banner_large_url, banner_target_url, start_date, end_date,
	       wa_addition, email_registration, publisher_sub, created_at, updated_at
	FROM campaigns
`

// CampaignRepository handles the local campaign mirror
type CampaignRepository struct {
	db *sql.DB
}

// NewCampaignRepository creates a new campaign repository
func NewCampaignRepository(db *sql.DB) *CampaignRepository {
	return &CampaignRepository{db: db}
}

func scanLocalCampaign(row interface{ Scan(...any) error }) (*models.LocalCampaign, error) {
	c := &models.LocalCampaign{}
	err := row.Scan(
		&c.ID,
		&c.CampaignID,
		&c.VideoClusterName,
		&c.SelectionJSON,
		&c.DoctorsSupported,
		&c.BannerSmallURL,
		&c.BannerLargeURL,
		&c.BannerTargetURL,
		&c.StartDate,
		&c.EndDate,
		&c.WAAddition,
		&c.EmailRegistration,
		&c.PublisherSub,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	return c, err
}

// lookupForms lists every stored form a campaign ID may take locally
func lookupForms(campaignID string) []string {
	forms := identity.CampaignIDForms(campaignID)
	return identity.Dedupe(append(forms, identity.HyphenateCampaignID(campaignID)), nil)
}

// GetByCampaignID returns the mirror row for campaignID in either form, or nil
func (r *CampaignRepository) GetByCampaignID(ctx context.Context, campaignID string) (*models.LocalCampaign, error) {
	forms := lookupForms(campaignID)
	if len(forms) == 0 {
		return nil, nil
	}
	query := campaignSelect + ` WHERE campaign_id = ANY($1) ORDER BY updated_at DESC LIMIT 1`

	campaign, err := scanLocalCampaign(r.db.QueryRowContext(ctx, query, pq.Array(forms)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get campaign: %w", err)
	}
	return campaign, nil
}

// ListByCampaignIDs returns mirror rows keyed by normalized campaign ID
func (r *CampaignRepository) ListByCampaignIDs(ctx context.Context, campaignIDs []string) (map[string]*models.LocalCampaign, error) {
	var forms []string
	for _, id := range campaignIDs {
		forms = append(forms, lookupForms(id)...)
	}
	result := make(map[string]*models.LocalCampaign)
	if len(forms) == 0 {
		return result, nil
	}

	rows, err := r.db.QueryContext(ctx, campaignSelect+` WHERE campaign_id = ANY($1) ORDER BY updated_at DESC`, pq.Array(forms))
	if err != nil {
		return nil, fmt.Errorf("failed to list campaigns: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		campaign, err := scanLocalCampaign(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan campaign: %w", err)
		}
		key := identity.NormalizeCampaignID(campaign.CampaignID)
		if _, seen := result[key]; !seen {
			result[key] = campaign
		}
	}
	return result, rows.Err()
}

// ListAll returns every mirror row, oldest first
func (r *CampaignRepository) ListAll(ctx context.Context) ([]*models.LocalCampaign, error) {
	rows, err := r.db.QueryContext(ctx, campaignSelect+` ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list campaigns: %w", err)
	}
	defer rows.Close()

	campaigns := []*models.LocalCampaign{}
	for rows.Next() {
		campaign, err := scanLocalCampaign(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan campaign: %w", err)
		}
		campaigns = append(campaigns, campaign)
	}
	return campaigns, rows.Err()
}

// Upsert creates or updates the mirror row keyed by campaign_id
func (r *CampaignRepository) Upsert(ctx context.Context, c *models.LocalCampaign) error {
	query := `
		INSERT INTO campaigns (
			campaign_id, video_cluster_name, selection_json, doctors_supported,
			banner_small_url, banner_large_url, banner_target_url, start_date, end_date,
			wa_addition, email_registration, publisher_sub
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (campaign_id) DO UPDATE SET
			video_cluster_name = EXCLUDED.video_cluster_name,
			selection_json = EXCLUDED.selection_json,
			doctors_supported = EXCLUDED.doctors_supported,
			banner_small_url = EXCLUDED.banner_small_url,
			banner_large_url = EXCLUDED.banner_large_url,
			banner_target_url = EXCLUDED.banner_target_url,
			start_date = EXCLUDED.start_date,
			end_date = EXCLUDED.end_date,
			wa_addition = EXCLUDED.wa_addition,
			email_registration = EXCLUDED.email_registration,
			publisher_sub = EXCLUDED.publisher_sub,
			updated_at = CURRENT_TIMESTAMP
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		c.CampaignID,
		c.VideoClusterName,
		c.SelectionJSON,
		c.DoctorsSupported,
		c.BannerSmallURL,
		c.BannerLargeURL,
		c.BannerTargetURL,
		c.StartDate,
		c.EndDate,
		c.WAAddition,
		c.EmailRegistration,
		c.PublisherSub,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert campaign: %w", err)
	}
	return nil
}
