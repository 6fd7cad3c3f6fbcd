package model

// ChatRequest represents a chat turn sent by a client
type ChatRequest struct {
	Messages  []Message      `json:"messages"`
	Context   map[string]any `json:"context,omitempty"`
	SessionID string         `json:"session_id,omitempty"`
}

// AssistantReply is the agent response plus whatever the downstream consumers produced
type AssistantReply struct {
	ResponsePayload
	Model     string          `json:"model,omitempty"`
	Listings  []ListingResult `json:"listings,omitempty"`
	LeadID    string          `json:"lead_id,omitempty"`
	SessionID string          `json:"session_id,omitempty"`
}

// ErrorResponse is returned by transports on bad input
type ErrorResponse struct {
	Error string `json:"error"`
}
