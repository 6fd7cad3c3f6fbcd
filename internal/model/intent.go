package model

import (
	"encoding/json"
)

// IntentType is the discriminant of an agent response
type IntentType string

const (
	IntentSearch   IntentType = "SEARCH"
	IntentPost     IntentType = "POST"
	IntentLeadData IntentType = "LEAD_DATA"
	IntentChat     IntentType = "CHAT"
)

// PropertyType is the listing type a search is restricted to
type PropertyType string

const (
	PropertySale PropertyType = "sale"
	PropertyRent PropertyType = "rent"
	PropertyLand PropertyType = "land"
)

// SearchFilters represents structured search conditions extracted from the conversation
type SearchFilters struct {
	Type     *PropertyType `json:"type,omitempty"`
	Location *string       `json:"location,omitempty"`
	MaxPrice *float64      `json:"maxPrice,omitempty"`
	Category *string       `json:"category,omitempty"`
}

// IsEmpty reports whether no filter is set
func (f SearchFilters) IsEmpty() bool {
	return f.Type == nil && f.Location == nil && f.MaxPrice == nil && f.Category == nil
}

// LeadData represents contact details volunteered by a buyer
type LeadData struct {
	Name         *string `json:"name,omitempty"`
	Phone        *string `json:"phone,omitempty"`
	Requirements *string `json:"requirements,omitempty"`
	Location     *string `json:"location,omitempty"`
}

// AgentResponse is the closed set of structured replies the assistant can produce.
// Only the variants in this package implement it.
type AgentResponse interface {
	Intent() IntentType
	ReplyText() string
	agentResponse()
}

// SearchResponse asks the application to run a listing search
type SearchResponse struct {
	Filters SearchFilters
	Reply   string
}

// PostResponse asks the application to open the posting flow
type PostResponse struct {
	Reply string
}

// LeadDataResponse carries buyer contact details
type LeadDataResponse struct {
	Data  LeadData
	Reply string
}

// ChatResponse is plain conversation, and the fallback for anything unparseable
type ChatResponse struct {
	Reply string
}

func (SearchResponse) Intent() IntentType   { return IntentSearch }
func (PostResponse) Intent() IntentType     { return IntentPost }
func (LeadDataResponse) Intent() IntentType { return IntentLeadData }
func (ChatResponse) Intent() IntentType     { return IntentChat }

func (r SearchResponse) ReplyText() string   { return r.Reply }
func (r PostResponse) ReplyText() string     { return r.Reply }
func (r LeadDataResponse) ReplyText() string { return r.Reply }
func (r ChatResponse) ReplyText() string     { return r.Reply }

func (SearchResponse) agentResponse()   {}
func (PostResponse) agentResponse()     {}
func (LeadDataResponse) agentResponse() {}
func (ChatResponse) agentResponse()     {}

// ResponsePayload is the wire form shared by every variant
type ResponsePayload struct {
	Type    IntentType     `json:"type"`
	Filters *SearchFilters `json:"filters,omitempty"`
	Data    *LeadData      `json:"data,omitempty"`
	Reply   string         `json:"reply"`
}

// Payload flattens a response into its wire form
func Payload(r AgentResponse) ResponsePayload {
	p := ResponsePayload{Type: r.Intent(), Reply: r.ReplyText()}
	switch v := r.(type) {
	case SearchResponse:
		f := v.Filters
		p.Filters = &f
	case LeadDataResponse:
		d := v.Data
		p.Data = &d
	}
	return p
}

func (r SearchResponse) MarshalJSON() ([]byte, error)   { return json.Marshal(Payload(r)) }
func (r PostResponse) MarshalJSON() ([]byte, error)     { return json.Marshal(Payload(r)) }
func (r LeadDataResponse) MarshalJSON() ([]byte, error) { return json.Marshal(Payload(r)) }
func (r ChatResponse) MarshalJSON() ([]byte, error)     { return json.Marshal(Payload(r)) }
