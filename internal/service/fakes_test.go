package service

import (
	"context"
	"sync"

	"github.com/landsalelk/landsalelk-sub005/internal/model"
)

// fakeCompleter returns canned completions and records what it was sent
type fakeCompleter struct {
	mu       sync.Mutex
	content  string
	model    string
	err      error
	received [][]model.Message
}

func (f *fakeCompleter) Complete(ctx context.Context, messages []model.Message) (*model.CompletionResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.received = append(f.received, messages)
	if f.err != nil {
		return nil, f.err
	}
	return &model.CompletionResult{Content: f.content, Model: f.model}, nil
}

func (f *fakeCompleter) last() []model.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.received) == 0 {
		return nil
	}
	return f.received[len(f.received)-1]
}

type fakeSearcher struct {
	filters *model.SearchFilters
	results []model.ListingResult
	err     error
}

func (f *fakeSearcher) Search(ctx context.Context, filters model.SearchFilters) ([]model.ListingResult, error) {
	f.filters = &filters
	return f.results, f.err
}

type fakeCapturer struct {
	data      *model.LeadData
	sessionID string
	err       error
}

func (f *fakeCapturer) Capture(ctx context.Context, data model.LeadData, sessionID string) (*model.Lead, error) {
	f.data = &data
	f.sessionID = sessionID
	if f.err != nil {
		return nil, f.err
	}
	return &model.Lead{ID: "lead-1"}, nil
}

type memoryStore struct {
	sessions map[string][]model.Message
	loadErr  error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{sessions: map[string][]model.Message{}}
}

func (m *memoryStore) Load(ctx context.Context, sessionID string) ([]model.Message, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return append([]model.Message(nil), m.sessions[sessionID]...), nil
}

func (m *memoryStore) Append(ctx context.Context, sessionID string, messages ...model.Message) error {
	m.sessions[sessionID] = append(m.sessions[sessionID], messages...)
	return nil
}

type fakeListingRepo struct {
	filters  model.SearchFilters
	limit    int
	listings []model.Listing
	err      error
}

func (f *fakeListingRepo) SearchListings(ctx context.Context, filters model.SearchFilters, limit int) ([]model.Listing, error) {
	f.filters = filters
	f.limit = limit
	return f.listings, f.err
}

type fakeLeadRepo struct {
	leads []*model.Lead
	err   error
}

func (f *fakeLeadRepo) InsertLead(ctx context.Context, lead *model.Lead) error {
	if f.err != nil {
		return f.err
	}
	f.leads = append(f.leads, lead)
	return nil
}

type fakeNotifier struct {
	notified []*model.Lead
	err      error
}

func (f *fakeNotifier) NotifyLead(ctx context.Context, lead *model.Lead) error {
	f.notified = append(f.notified, lead)
	return f.err
}
