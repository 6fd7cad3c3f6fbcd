package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/landsalelk/landsalelk-sub005/internal/model"
)

// ErrEmptyLead is returned when a lead carries no contact details
var ErrEmptyLead = errors.New("lead has no contact details")

// LeadRepository stores captured leads
type LeadRepository interface {
	InsertLead(ctx context.Context, lead *model.Lead) error
}

// LeadNotifier tells agents about a new lead
type LeadNotifier interface {
	NotifyLead(ctx context.Context, lead *model.Lead) error
}

// LeadService persists LEAD_DATA intents and notifies agents
type LeadService struct {
	repo     LeadRepository
	notifier LeadNotifier
	logger   *zap.Logger
	now      func() time.Time
}

// NewLeadService creates a new lead service. repo and notifier may be nil.
func NewLeadService(repo LeadRepository, notifier LeadNotifier, logger *zap.Logger) *LeadService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LeadService{
		repo:     repo,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// Capture records a lead. A failed notification is logged but does not fail the capture.
func (s *LeadService) Capture(ctx context.Context, data model.LeadData, sessionID string) (*model.Lead, error) {
	if data.Name == nil && data.Phone == nil {
		return nil, ErrEmptyLead
	}

	lead := &model.Lead{
		ID:           uuid.NewString(),
		Name:         data.Name,
		Phone:        data.Phone,
		Requirements: data.Requirements,
		Location:     data.Location,
		CreatedAt:    s.now().UTC(),
	}
	if sessionID != "" {
		lead.SessionID = &sessionID
	}

	if s.repo != nil {
		if err := s.repo.InsertLead(ctx, lead); err != nil {
			return nil, fmt.Errorf("failed to store lead: %w", err)
		}
	}

	if s.notifier != nil {
		if err := s.notifier.NotifyLead(ctx, lead); err != nil {
			s.logger.Warn("lead notification failed", zap.String("lead_id", lead.ID), zap.Error(err))
		}
	}

	s.logger.Info("lead captured", zap.String("lead_id", lead.ID))
	return lead, nil
}
