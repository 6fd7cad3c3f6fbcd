package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/landsalelk/landsalelk-sub005/internal/model"
)

// ListingSearcher runs the search behind a SEARCH intent
type ListingSearcher interface {
	Search(ctx context.Context, filters model.SearchFilters) ([]model.ListingResult, error)
}

// LeadCapturer records a LEAD_DATA intent
type LeadCapturer interface {
	Capture(ctx context.Context, data model.LeadData, sessionID string) (*model.Lead, error)
}

// HistoryStore keeps conversation turns between requests
type HistoryStore interface {
	Load(ctx context.Context, sessionID string) ([]model.Message, error)
	Append(ctx context.Context, sessionID string, messages ...model.Message) error
}

// ConversationService handles a chat request end to end: history, assistant and
// the downstream consumers of SEARCH and LEAD_DATA.
type ConversationService struct {
	assistant  *Assistant
	maxHistory int
	listings   ListingSearcher
	leads      LeadCapturer
	sessions   HistoryStore
	logger     *zap.Logger
}

// NewConversationService creates a new conversation service
func NewConversationService(assistant *Assistant, maxHistory int, logger *zap.Logger) *ConversationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConversationService{
		assistant:  assistant,
		maxHistory: maxHistory,
		logger:     logger,
	}
}

// WithListings attaches a listing searcher
func (s *ConversationService) WithListings(l ListingSearcher) *ConversationService {
	s.listings = l
	return s
}

// WithLeads attaches a lead capturer
func (s *ConversationService) WithLeads(l LeadCapturer) *ConversationService {
	s.leads = l
	return s
}

// WithSessions attaches a history store
func (s *ConversationService) WithSessions(h HistoryStore) *ConversationService {
	s.sessions = h
	return s
}

// Handle answers one chat request
func (s *ConversationService) Handle(ctx context.Context, req model.ChatRequest) (*model.AssistantReply, error) {
	if err := validateChatRequest(req); err != nil {
		return nil, err
	}

	sessionID := req.SessionID
	history := req.Messages

	if s.sessions != nil {
		if sessionID == "" {
			sessionID = uuid.NewString()
		} else if stored, err := s.sessions.Load(ctx, sessionID); err != nil {
			s.logger.Warn("failed to load session history", zap.String("session_id", sessionID), zap.Error(err))
		} else if len(stored) > 0 {
			history = make([]model.Message, 0, len(stored)+len(req.Messages))
			history = append(history, stored...)
			history = append(history, req.Messages...)
		}
	}

	history = truncateHistory(history, s.maxHistory)

	answer, err := s.assistant.Answer(ctx, history, req.Context)
	if err != nil {
		return nil, err
	}

	reply := &model.AssistantReply{
		ResponsePayload: model.Payload(answer.Response),
		Model:           answer.Model,
	}
	if s.sessions != nil {
		reply.SessionID = sessionID
	}

	switch resp := answer.Response.(type) {
	case model.SearchResponse:
		if s.listings != nil {
			results, err := s.listings.Search(ctx, resp.Filters)
			if err != nil {
				s.logger.Warn("listing search failed", zap.Error(err))
			} else {
				reply.Listings = results
			}
		}
	case model.LeadDataResponse:
		if s.leads != nil {
			lead, err := s.leads.Capture(ctx, resp.Data, sessionID)
			if err != nil {
				s.logger.Warn("lead capture failed", zap.Error(err))
			} else {
				reply.LeadID = lead.ID
			}
		}
	}

	if s.sessions != nil {
		turns := make([]model.Message, 0, len(req.Messages)+1)
		turns = append(turns, req.Messages...)
		turns = append(turns, model.Message{Role: model.RoleAssistant, Content: answer.Response.ReplyText()})
		if err := s.sessions.Append(ctx, sessionID, turns...); err != nil {
			s.logger.Warn("failed to save session history", zap.String("session_id", sessionID), zap.Error(err))
		}
	}

	return reply, nil
}

func validateChatRequest(req model.ChatRequest) error {
	if len(req.Messages) == 0 {
		return invalidRequest("'messages' must be a non-empty array")
	}
	for i, m := range req.Messages {
		if !m.Role.Valid() {
			return invalidRequest("message %d has unknown role %q", i, m.Role)
		}
		if strings.TrimSpace(m.Content) == "" {
			return invalidRequest("message %d has empty content", i)
		}
	}
	return nil
}

// truncateHistory keeps the most recent limit turns
func truncateHistory(history []model.Message, limit int) []model.Message {
	if limit <= 0 || len(history) <= limit {
		return history
	}
	return history[len(history)-limit:]
}
