package service

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"clinic-portal/internal/auth"
	"clinic-portal/internal/identity"
	"clinic-portal/internal/metrics"
	"clinic-portal/internal/models"
)

const (
	ReasonMissingParams   = "missing campaign_id or field_rep_id"
	ReasonInvalidFieldRep = "invalid or inactive field rep id"
	ReasonNotAuthorized   = "field rep not authorized for this campaign"
)

// Resolution paths reported with every decision
const (
	PathDirect     = "direct"
	PathJoinPK     = "join_pk"
	PathUnresolved = "unresolved"
	PathMissing    = "missing_params"
)

// LinkageDecision is the outcome of authorizing a field rep for a campaign.
// FieldRep is set only on allowed decisions.
type LinkageDecision struct {
	Allowed      bool             `json:"allowed"`
	Reason       string           `json:"reason,omitempty"`
	Path         string           `json:"path"`
	FieldRep     *models.FieldRep `json:"-"`
	DownstreamID string           `json:"downstream_id,omitempty"`
}

// Err maps a denial onto ErrUnauthorizedFieldRep
func (d LinkageDecision) Err() error {
	if d.Allowed {
		return nil
	}
	return ErrUnauthorizedFieldRep
}

type linkOption struct {
	rep    *models.FieldRep
	path   string
	linked bool
}

// LinkageService decides whether a field rep may act for a campaign
type LinkageService struct {
	store   FieldRepStore
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewLinkageService creates a new linkage resolver
func NewLinkageService(store FieldRepStore, m *metrics.Metrics, logger *slog.Logger) *LinkageService {
	if logger == nil {
		logger = slog.Default()
	}
	return &LinkageService{store: store, metrics: m, logger: logger}
}

// Resolve authorizes rawFieldRepID for campaignID. The SSO identity, when
// present, contributes its subject and the subject's numeric suffix as extra
// lookup candidates.
func (s *LinkageService) Resolve(ctx context.Context, campaignID, rawFieldRepID string, id *auth.Identity) LinkageDecision {
	defer s.metrics.ObserveMaster("linkage_resolve", time.Now())

	campaignID = strings.TrimSpace(campaignID)
	raw := strings.TrimSpace(rawFieldRepID)
	if campaignID == "" || raw == "" {
		return s.deny(LinkageDecision{Reason: ReasonMissingParams, Path: PathMissing}, campaignID, raw)
	}
	campaignNorm := identity.NormalizeCampaignID(campaignID)

	candidates := []string{raw}
	if id != nil {
		candidates = append(candidates, id.Subject, identity.TrailingDigits(id.Subject))
	}
	candidates = identity.Dedupe(candidates, nil)

	var options []linkOption
	for _, cand := range candidates {
		rep, err := s.store.FetchFieldRep(ctx, cand)
		if err != nil {
			continue
		}
		options = append(options, linkOption{
			rep:    rep,
			path:   PathDirect,
			linked: s.store.FieldRepLinkedToCampaign(ctx, campaignNorm, rep.ID),
		})
	}

	if identity.IsNumeric(raw) {
		if linkID, err := strconv.ParseInt(raw, 10, 64); err == nil {
			if link, err := s.store.FetchFieldRepLink(ctx, linkID, campaignID); err == nil {
				if rep, err := s.store.FetchFieldRepByPK(ctx, link.FieldRepID); err == nil {
					options = append(options, linkOption{
						rep:    rep,
						path:   PathJoinPK,
						linked: s.store.FieldRepLinkedToCampaign(ctx, campaignNorm, rep.ID),
					})
				}
			}
		}
	}

	selected := selectOption(options)
	if selected == nil || !selected.rep.IsActive {
		d := LinkageDecision{Reason: ReasonInvalidFieldRep, Path: PathUnresolved}
		if selected != nil {
			d.Path = selected.path
		}
		return s.deny(d, campaignID, raw)
	}

	rep := selected.rep
	if !s.store.FieldRepLinkedToCampaign(ctx, campaignNorm, rep.ID) {
		return s.deny(LinkageDecision{Reason: ReasonNotAuthorized, Path: selected.path}, campaignID, raw)
	}

	downstream := strings.TrimSpace(rep.BrandSuppliedFieldRepID)
	if downstream == "" {
		downstream = strconv.FormatInt(rep.ID, 10)
	}

	s.metrics.RecordLinkage(true, selected.path)
	s.logger.Info("Field rep authorized",
		"campaign_id", campaignNorm,
		"field_rep_pk", rep.ID,
		"downstream_id", downstream,
		"path", selected.path,
	)
	return LinkageDecision{Allowed: true, Path: selected.path, FieldRep: rep, DownstreamID: downstream}
}

func (s *LinkageService) deny(d LinkageDecision, campaignID, raw string) LinkageDecision {
	s.metrics.RecordLinkage(false, d.Path)
	s.logger.Warn("Field rep denied",
		"campaign_id", campaignID,
		"field_rep_id", raw,
		"path", d.Path,
		"reason", d.Reason,
	)
	return d
}

// selectOption prefers a linked active rep, then any linked rep, then the first hit
func selectOption(options []linkOption) *linkOption {
	for i := range options {
		if options[i].linked && options[i].rep.IsActive {
			return &options[i]
		}
	}
	for i := range options {
		if options[i].linked {
			return &options[i]
		}
	}
	if len(options) > 0 {
		return &options[0]
	}
	return nil
}
