package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinic-portal/internal/models"
)

func TestSaveDetails_RefreshesMasterFields(t *testing.T) {
	m := newFakeMaster()
	m.addCampaign(models.MasterCampaign{
		ID:               testCampaignNorm,
		DoctorsSupported: 50,
		BannerSmallURL:   "https://cdn.example/s.png",
		BannerLargeURL:   "https://cdn.example/l.png",
		BannerTargetURL:  "https://brand.example",
	})
	local := newFakeLocal()
	local.campaigns[testCampaignNorm] = &models.LocalCampaign{
		ID:               4,
		CampaignID:       testCampaignNorm,
		DoctorsSupported: 999,
		BannerTargetURL:  "https://stale.example",
		PublisherSub:     "publisher_1",
	}

	changed := 0
	svc := NewCampaignMirrorService(local, NewGatekeeperService(m, nil, discardLogger()),
		func(context.Context) { changed++ }, discardLogger())

	saved, err := svc.SaveDetails(context.Background(), testCampaign, "", CampaignEdit{
		VideoClusterName: " Asthma Basics ",
		StartDate:        "2025-01-01",
		EndDate:          "2025-12-31",
		WAAddition:       "Hi <doctor_name>",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(4), saved.ID)
	assert.Equal(t, "Asthma Basics", saved.VideoClusterName)
	assert.Equal(t, 50, saved.DoctorsSupported)
	assert.Equal(t, "https://brand.example", saved.BannerTargetURL)
	assert.Equal(t, "https://cdn.example/s.png", saved.BannerSmallURL)
	assert.Equal(t, "publisher_1", saved.PublisherSub)
	assert.Equal(t, 1, local.upserts)
	assert.Equal(t, 1, changed)
}

func TestSaveDetails_CreatesMirrorRow(t *testing.T) {
	m := newFakeMaster()
	m.addCampaign(models.MasterCampaign{ID: testCampaignNorm, DoctorsSupported: 5})
	local := newFakeLocal()
	svc := NewCampaignMirrorService(local, NewGatekeeperService(m, nil, discardLogger()), nil, discardLogger())

	saved, err := svc.SaveDetails(context.Background(), testCampaign, "publisher_9", CampaignEdit{})
	require.NoError(t, err)
	assert.Equal(t, testCampaignNorm, saved.CampaignID)
	assert.Equal(t, "publisher_9", saved.PublisherSub)
	assert.Equal(t, 5, saved.DoctorsSupported)
}

func TestSaveDetails_Rejections(t *testing.T) {
	m := newFakeMaster()
	m.addCampaign(models.MasterCampaign{ID: testCampaignNorm})
	svc := NewCampaignMirrorService(newFakeLocal(), NewGatekeeperService(m, nil, discardLogger()), nil, discardLogger())

	_, err := svc.SaveDetails(context.Background(), "missing", "", CampaignEdit{})
	assert.ErrorIs(t, err, ErrUnknownCampaign)

	_, err = svc.SaveDetails(context.Background(), "bad id;", "", CampaignEdit{})
	assert.ErrorIs(t, err, ErrUnknownCampaign)

	_, err = svc.SaveDetails(context.Background(), testCampaign, "", CampaignEdit{StartDate: "2025-05-01", EndDate: "2025-04-01"})
	assert.ErrorContains(t, err, "end_date")

	_, err = svc.SaveDetails(context.Background(), testCampaign, "", CampaignEdit{StartDate: "May 1st"})
	assert.ErrorContains(t, err, "invalid start_date")
}

func TestResync_RewritesOnlyDriftedRows(t *testing.T) {
	m := newFakeMaster()
	m.addCampaign(models.MasterCampaign{ID: testCampaignNorm, DoctorsSupported: 40, BannerTargetURL: "https://brand.example"})
	m.addCampaign(models.MasterCampaign{ID: "11111111111111111111111111111111", DoctorsSupported: 5})

	local := newFakeLocal()
	local.campaigns[testCampaignNorm] = &models.LocalCampaign{CampaignID: testCampaignNorm, DoctorsSupported: 10}
	local.campaigns["11111111111111111111111111111111"] = &models.LocalCampaign{
		CampaignID:       "11111111111111111111111111111111",
		DoctorsSupported: 5,
	}
	local.campaigns["22222222222222222222222222222222"] = &models.LocalCampaign{
		CampaignID:       "22222222222222222222222222222222",
		DoctorsSupported: 7,
	}

	changed := 0
	svc := NewCampaignMirrorService(local, NewGatekeeperService(m, nil, discardLogger()),
		func(context.Context) { changed++ }, discardLogger())

	updated, err := svc.Resync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, updated)
	assert.Equal(t, 1, local.upserts)
	assert.Equal(t, 1, changed)
	assert.Equal(t, 40, local.campaigns[testCampaignNorm].DoctorsSupported)
	assert.Equal(t, "https://brand.example", local.campaigns[testCampaignNorm].BannerTargetURL)
	assert.Equal(t, 7, local.campaigns["22222222222222222222222222222222"].DoctorsSupported)

	updated, err = svc.Resync(context.Background())
	require.NoError(t, err)
	assert.Zero(t, updated)
	assert.Equal(t, 1, changed)
}
