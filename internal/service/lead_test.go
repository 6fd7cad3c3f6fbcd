package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/landsalelk/landsalelk-sub005/internal/model"
)

func TestLeadService_Capture(t *testing.T) {
	repo := &fakeLeadRepo{}
	notifier := &fakeNotifier{}
	svc := NewLeadService(repo, notifier, nil)
	fixed := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	lead, err := svc.Capture(context.Background(), model.LeadData{
		Name:         stringPtr("Nimal"),
		Phone:        stringPtr("0771234567"),
		Requirements: stringPtr("3 bedroom house"),
	}, "session-9")
	require.NoError(t, err)

	_, perr := uuid.Parse(lead.ID)
	assert.NoError(t, perr)
	assert.Equal(t, fixed, lead.CreatedAt)
	require.NotNil(t, lead.SessionID)
	assert.Equal(t, "session-9", *lead.SessionID)
	assert.Equal(t, []*model.Lead{lead}, repo.leads)
	assert.Equal(t, []*model.Lead{lead}, notifier.notified)
}

func TestLeadService_Capture_Errors(t *testing.T) {
	_, err := NewLeadService(nil, nil, nil).Capture(context.Background(), model.LeadData{Requirements: stringPtr("land")}, "")
	assert.ErrorIs(t, err, ErrEmptyLead)

	repo := &fakeLeadRepo{err: errors.New("insert failed")}
	notifier := &fakeNotifier{}
	_, err = NewLeadService(repo, notifier, nil).Capture(context.Background(), model.LeadData{Phone: stringPtr("077")}, "")
	require.Error(t, err)
	assert.Empty(t, notifier.notified, "no notification for a lead that was not stored")
}

func TestLeadService_NotificationFailureIsNotFatal(t *testing.T) {
	notifier := &fakeNotifier{err: errors.New("sns throttled")}
	lead, err := NewLeadService(nil, notifier, nil).Capture(context.Background(), model.LeadData{Phone: stringPtr("077")}, "")
	require.NoError(t, err)
	assert.Nil(t, lead.SessionID)
	assert.Len(t, notifier.notified, 1)
}
