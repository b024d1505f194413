package service

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"clinic-portal/internal/auth"
	"clinic-portal/internal/metrics"
	"clinic-portal/internal/models"
)

const (
	testCampaign     = "3f2504e0-4f89-11d3-9a0c-0305e82c3301"
	testCampaignNorm = "3f2504e04f8911d39a0c0305e82c3301"
	otherCampaign    = "9b2e6a30-1c4d-4e1f-8a2b-3c4d5e6f7a8b"
)

func linkageFixture() *fakeMaster {
	m := newFakeMaster()
	m.addRep(models.FieldRep{ID: 9, FullName: "Ravi", IsActive: true, BrandSuppliedFieldRepID: "FR09"})
	m.addRep(models.FieldRep{ID: 15, FullName: "Meena", IsActive: true})
	m.addRep(models.FieldRep{ID: 16, FullName: "Old Rep", IsActive: false, BrandSuppliedFieldRepID: "FR16"})
	m.addRep(models.FieldRep{ID: 20, FullName: "Elsewhere", IsActive: true, BrandSuppliedFieldRepID: "FR20"})
	m.addLink(1, testCampaign, 9)
	m.addLink(77, testCampaign, 15)
	m.addLink(78, testCampaign, 16)
	m.addLink(88, otherCampaign, 20)
	return m
}

func TestResolve_MissingParams(t *testing.T) {
	svc := NewLinkageService(linkageFixture(), nil, discardLogger())

	d := svc.Resolve(context.Background(), "", "FR09", nil)
	assert.False(t, d.Allowed)
	assert.Equal(t, ReasonMissingParams, d.Reason)
	assert.Equal(t, PathMissing, d.Path)

	d = svc.Resolve(context.Background(), testCampaign, "  ", nil)
	assert.Equal(t, ReasonMissingParams, d.Reason)
}

func TestResolve_DirectBrandID(t *testing.T) {
	svc := NewLinkageService(linkageFixture(), nil, discardLogger())

	d := svc.Resolve(context.Background(), testCampaign, "FR09", nil)
	assert.True(t, d.Allowed)
	assert.Equal(t, PathDirect, d.Path)
	assert.Equal(t, "FR09", d.DownstreamID)
	assert.Equal(t, int64(9), d.FieldRep.ID)
	assert.NoError(t, d.Err())
}

func TestResolve_JoinTableKey(t *testing.T) {
	svc := NewLinkageService(linkageFixture(), nil, discardLogger())

	d := svc.Resolve(context.Background(), testCampaignNorm, "77", nil)
	assert.True(t, d.Allowed)
	assert.Equal(t, PathJoinPK, d.Path)
	assert.Equal(t, int64(15), d.FieldRep.ID)
	assert.Equal(t, "15", d.DownstreamID, "reps without a brand id fall back to their key")
}

func TestResolve_InactiveRepDenied(t *testing.T) {
	svc := NewLinkageService(linkageFixture(), nil, discardLogger())

	d := svc.Resolve(context.Background(), testCampaign, "FR16", nil)
	assert.False(t, d.Allowed)
	assert.Equal(t, ReasonInvalidFieldRep, d.Reason)
	assert.ErrorIs(t, d.Err(), ErrUnauthorizedFieldRep)
}

func TestResolve_RepNotLinkedToCampaign(t *testing.T) {
	svc := NewLinkageService(linkageFixture(), nil, discardLogger())

	d := svc.Resolve(context.Background(), testCampaign, "FR20", nil)
	assert.False(t, d.Allowed)
	assert.Equal(t, ReasonNotAuthorized, d.Reason)
	assert.Equal(t, PathDirect, d.Path)
}

func TestResolve_JoinKeyFromAnotherCampaign(t *testing.T) {
	svc := NewLinkageService(linkageFixture(), nil, discardLogger())

	d := svc.Resolve(context.Background(), testCampaign, "88", nil)
	assert.False(t, d.Allowed)
	assert.Equal(t, ReasonInvalidFieldRep, d.Reason)
	assert.Equal(t, PathUnresolved, d.Path)
}

func TestResolve_JoinKeyRepFailsMembershipCheck(t *testing.T) {
	m := linkageFixture()
	m.revoked = map[int64]bool{15: true}
	svc := NewLinkageService(m, nil, discardLogger())

	d := svc.Resolve(context.Background(), testCampaign, "77", nil)
	assert.False(t, d.Allowed)
	assert.Equal(t, ReasonNotAuthorized, d.Reason)
	assert.Equal(t, PathJoinPK, d.Path)
	assert.Nil(t, d.FieldRep)
	assert.Empty(t, d.DownstreamID)
	assert.ErrorIs(t, d.Err(), ErrUnauthorizedFieldRep)
}

func TestResolve_SSOSubjectCandidates(t *testing.T) {
	svc := NewLinkageService(linkageFixture(), nil, discardLogger())
	id := &auth.Identity{Subject: "fieldrep_15", Username: "meena"}

	d := svc.Resolve(context.Background(), testCampaign, "not-a-rep", id)
	assert.True(t, d.Allowed)
	assert.Equal(t, int64(15), d.FieldRep.ID)
	assert.Equal(t, PathDirect, d.Path)
}

func TestResolve_UnknownRep(t *testing.T) {
	svc := NewLinkageService(linkageFixture(), nil, discardLogger())

	d := svc.Resolve(context.Background(), testCampaign, "nobody", nil)
	assert.False(t, d.Allowed)
	assert.Equal(t, PathUnresolved, d.Path)
	assert.Nil(t, d.FieldRep)
}

func TestResolve_RecordsMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	svc := NewLinkageService(linkageFixture(), m, discardLogger())

	svc.Resolve(context.Background(), testCampaign, "FR09", nil)
	svc.Resolve(context.Background(), testCampaign, "nobody", nil)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.LinkageDecisions.WithLabelValues("allowed", PathDirect)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.LinkageDecisions.WithLabelValues("denied", PathUnresolved)))
}
