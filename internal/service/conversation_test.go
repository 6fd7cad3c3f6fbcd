package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/landsalelk/landsalelk-sub005/internal/model"
)

func userMsg(content string) model.Message {
	return model.Message{Role: model.RoleUser, Content: content}
}

func TestConversationService_Validation(t *testing.T) {
	svc := NewConversationService(NewAssistant(&fakeCompleter{content: "x"}, nil, nil), 10, nil)

	tests := []struct {
		name string
		req  model.ChatRequest
	}{
		{name: "no messages", req: model.ChatRequest{}},
		{name: "unknown role", req: model.ChatRequest{Messages: []model.Message{{Role: "tool", Content: "x"}}}},
		{name: "blank content", req: model.ChatRequest{Messages: []model.Message{{Role: model.RoleUser, Content: "  "}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Handle(context.Background(), tt.req)
			assert.True(t, errors.Is(err, ErrInvalidRequest))
		})
	}
}

func TestConversationService_TruncatesHistory(t *testing.T) {
	completer := &fakeCompleter{content: `{"type":"CHAT","reply":"ok"}`, model: "m"}
	svc := NewConversationService(NewAssistant(completer, nil, nil), 3, nil)

	var msgs []model.Message
	for i := 0; i < 6; i++ {
		msgs = append(msgs, userMsg(fmt.Sprintf("turn %d", i)))
	}

	reply, err := svc.Handle(context.Background(), model.ChatRequest{Messages: msgs})
	require.NoError(t, err)
	assert.Equal(t, model.IntentChat, reply.Type)
	assert.Equal(t, "ok", reply.Reply)
	assert.Equal(t, "m", reply.Model)

	sent := completer.last()
	require.Len(t, sent, 4)
	assert.Equal(t, "turn 3", sent[1].Content)
	assert.Equal(t, "turn 5", sent[3].Content)
	assert.Len(t, msgs, 6)
}

func TestConversationService_SearchAttachesListings(t *testing.T) {
	completer := &fakeCompleter{content: `{"type":"SEARCH","filters":{"location":"Colombo","category":"paddy"},"reply":"Searching"}`, model: "m"}
	searcher := &fakeSearcher{results: []model.ListingResult{{Listing: model.Listing{ID: "p1"}, Score: 0.9}}}
	svc := NewConversationService(NewAssistant(completer, nil, nil), 10, nil).WithListings(searcher)

	reply, err := svc.Handle(context.Background(), model.ChatRequest{Messages: []model.Message{userMsg("paddy in colombo")}})
	require.NoError(t, err)

	require.NotNil(t, searcher.filters)
	assert.Equal(t, "Colombo", *searcher.filters.Location)
	require.Len(t, reply.Listings, 1)
	assert.Equal(t, "p1", reply.Listings[0].ID)
	assert.Equal(t, model.IntentSearch, reply.Type)
	require.NotNil(t, reply.Filters)
}

func TestConversationService_SearchFailureKeepsReply(t *testing.T) {
	completer := &fakeCompleter{content: `{"type":"SEARCH","reply":"Searching"}`, model: "m"}
	searcher := &fakeSearcher{err: errors.New("db down")}
	svc := NewConversationService(NewAssistant(completer, nil, nil), 10, nil).WithListings(searcher)

	reply, err := svc.Handle(context.Background(), model.ChatRequest{Messages: []model.Message{userMsg("houses")}})
	require.NoError(t, err)
	assert.Equal(t, "Searching", reply.Reply)
	assert.Empty(t, reply.Listings)
}

func TestConversationService_LeadCapture(t *testing.T) {
	completer := &fakeCompleter{content: `{"type":"LEAD_DATA","data":{"name":"Nimal","phone":"0771234567"},"reply":"Thanks!"}`, model: "m"}
	capturer := &fakeCapturer{}
	store := newMemoryStore()
	svc := NewConversationService(NewAssistant(completer, nil, nil), 10, nil).
		WithLeads(capturer).
		WithSessions(store)

	reply, err := svc.Handle(context.Background(), model.ChatRequest{
		Messages:  []model.Message{userMsg("I'm Nimal, 0771234567")},
		SessionID: "s-1",
	})
	require.NoError(t, err)

	assert.Equal(t, "lead-1", reply.LeadID)
	assert.Equal(t, "s-1", capturer.sessionID)
	assert.Equal(t, "Nimal", *capturer.data.Name)
	assert.Equal(t, "s-1", reply.SessionID)
}

func TestConversationService_LeadFailureKeepsReply(t *testing.T) {
	completer := &fakeCompleter{content: `{"type":"LEAD_DATA","data":{"phone":"077"},"reply":"Thanks!"}`, model: "m"}
	svc := NewConversationService(NewAssistant(completer, nil, nil), 10, nil).WithLeads(&fakeCapturer{err: errors.New("boom")})

	reply, err := svc.Handle(context.Background(), model.ChatRequest{Messages: []model.Message{userMsg("077")}})
	require.NoError(t, err)
	assert.Equal(t, "Thanks!", reply.Reply)
	assert.Empty(t, reply.LeadID)
}

func TestConversationService_SessionHistory(t *testing.T) {
	completer := &fakeCompleter{content: `{"type":"CHAT","reply":"Which city?"}`, model: "m"}
	store := newMemoryStore()
	svc := NewConversationService(NewAssistant(completer, nil, nil), 10, nil).WithSessions(store)

	first, err := svc.Handle(context.Background(), model.ChatRequest{Messages: []model.Message{userMsg("I want land")}})
	require.NoError(t, err)
	require.NotEmpty(t, first.SessionID, "a session id is issued when the client has none")

	stored := store.sessions[first.SessionID]
	require.Len(t, stored, 2)
	assert.Equal(t, model.Message{Role: model.RoleAssistant, Content: "Which city?"}, stored[1])

	_, err = svc.Handle(context.Background(), model.ChatRequest{
		Messages:  []model.Message{userMsg("Galle")},
		SessionID: first.SessionID,
	})
	require.NoError(t, err)

	sent := completer.last()
	require.Len(t, sent, 4)
	assert.Equal(t, "I want land", sent[1].Content)
	assert.Equal(t, "Which city?", sent[2].Content)
	assert.Equal(t, "Galle", sent[3].Content)
	assert.Len(t, store.sessions[first.SessionID], 4)
}

func TestConversationService_SessionLoadFailureUsesRequestTurns(t *testing.T) {
	completer := &fakeCompleter{content: `{"type":"CHAT","reply":"ok"}`, model: "m"}
	store := newMemoryStore()
	store.loadErr = errors.New("redis down")
	svc := NewConversationService(NewAssistant(completer, nil, nil), 10, nil).WithSessions(store)

	_, err := svc.Handle(context.Background(), model.ChatRequest{Messages: []model.Message{userMsg("hi")}, SessionID: "s"})
	require.NoError(t, err)
	assert.Len(t, completer.last(), 2)
}

func TestConversationService_CompletionError(t *testing.T) {
	failure := newAssistantError(ErrCodeAllModelsFailed, "all AI models failed", "model z: status 503")
	svc := NewConversationService(NewAssistant(&fakeCompleter{err: failure}, nil, nil), 10, nil)

	reply, err := svc.Handle(context.Background(), model.ChatRequest{Messages: []model.Message{userMsg("hi")}})
	assert.Nil(t, reply)
	assert.True(t, errors.Is(err, ErrAllModelsFailed))
}
