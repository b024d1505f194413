package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinic-portal/internal/models"
)

var localCampaignColumns = []string{
	"id", "campaign_id", "video_cluster_name", "selection_json", "doctors_supported",
	"banner_small_url", "banner_large_url", "banner_target_url", "start_date", "end_date",
	"wa_addition", "email_registration", "publisher_sub", "created_at", "updated_at",
}

func localCampaignRow(rows *sqlmock.Rows, id int64, campaignID, cluster string) *sqlmock.Rows {
	now := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	return rows.AddRow(id, campaignID, cluster, "[]", 25,
		"", "", "https://brand.example/local", nil, nil,
		"Hi <doctor_name>", "", "pub-1", now, now)
}

func TestCampaignRepository_GetByCampaignIDMatchesBothForms(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE campaign_id = ANY($1)`)).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(localCampaignRow(sqlmock.NewRows(localCampaignColumns), 1,
			"3f2504e0-4f89-11d3-9a0c-0305e82c3301", "Growth"))

	repo := NewCampaignRepository(db)
	campaign, err := repo.GetByCampaignID(context.Background(), "3f2504e04f8911d39a0c0305e82c3301")
	require.NoError(t, err)
	require.NotNil(t, campaign)
	assert.Equal(t, "Growth", campaign.VideoClusterName)
	assert.Nil(t, campaign.StartDate)
	assert.Equal(t, 25, campaign.DoctorsSupported)
}

func TestCampaignRepository_GetByCampaignIDMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM campaigns`)).WillReturnError(sql.ErrNoRows)

	repo := NewCampaignRepository(db)
	campaign, err := repo.GetByCampaignID(context.Background(), "abc")
	assert.NoError(t, err)
	assert.Nil(t, campaign)

	campaign, err = repo.GetByCampaignID(context.Background(), "  ")
	assert.NoError(t, err)
	assert.Nil(t, campaign)
}

func TestCampaignRepository_ListByCampaignIDsKeysByNormalizedID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows(localCampaignColumns)
	localCampaignRow(rows, 2, "3f2504e0-4f89-11d3-9a0c-0305e82c3301", "Newer")
	localCampaignRow(rows, 1, "3f2504e04f8911d39a0c0305e82c3301", "Older")
	mock.ExpectQuery(regexp.QuoteMeta(`WHERE campaign_id = ANY($1) ORDER BY updated_at DESC`)).
		WillReturnRows(rows)

	repo := NewCampaignRepository(db)
	got, err := repo.ListByCampaignIDs(context.Background(), []string{"3f2504e04f8911d39a0c0305e82c3301"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Newer", got["3f2504e04f8911d39a0c0305e82c3301"].VideoClusterName)
}

func TestCampaignRepository_ListAll(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows(localCampaignColumns)
	localCampaignRow(rows, 1, "3f2504e04f8911d39a0c0305e82c3301", "Growth")
	localCampaignRow(rows, 2, "c-2", "Vaccines")
	mock.ExpectQuery(regexp.QuoteMeta(`FROM campaigns`) + `\s+ORDER BY id ASC`).WillReturnRows(rows)

	got, err := NewCampaignRepository(db).ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Vaccines", got[1].VideoClusterName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCampaignRepository_Upsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`ON CONFLICT (campaign_id) DO UPDATE SET`)).
		WithArgs("c-1", "Growth", "[]", 10, "s", "l", "t", nil, nil, "wa", "email", "pub").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(9, now, now))

	c := &models.LocalCampaign{
		CampaignID:        "c-1",
		VideoClusterName:  "Growth",
		SelectionJSON:     "[]",
		DoctorsSupported:  10,
		BannerSmallURL:    "s",
		BannerLargeURL:    "l",
		BannerTargetURL:   "t",
		WAAddition:        "wa",
		EmailRegistration: "email",
		PublisherSub:      "pub",
	}
	require.NoError(t, NewCampaignRepository(db).Upsert(context.Background(), c))
	assert.Equal(t, int64(9), c.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogRepository_ListPublished(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM video_clusters`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "code", "display_name", "is_published", "sort_order"}).
			AddRow(1, "growth", "Growth & Nutrition", true, 1).
			AddRow(2, "vaccines", "Vaccines", true, 2))

	clusters, err := NewCatalogRepository(db).ListPublished(context.Background())
	require.NoError(t, err)
	require.Len(t, clusters, 2)
	assert.Equal(t, "growth", clusters[0].Code)
}

func TestCatalogRepository_GetByCodeMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE code = $1`)).WithArgs("none").WillReturnError(sql.ErrNoRows)

	cluster, err := NewCatalogRepository(db).GetByCode(context.Background(), "none")
	assert.NoError(t, err)
	assert.Nil(t, cluster)
}
