package service

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/zap"

	"github.com/landsalelk/landsalelk-sub005/internal/metrics"
	"github.com/landsalelk/landsalelk-sub005/internal/model"
	"github.com/landsalelk/landsalelk-sub005/internal/utils"
)

// FallbackReply is shown when the model produced nothing usable
const FallbackReply = "I'm sorry, I couldn't process that request. Could you please rephrase it?"

// IntentParser turns raw completion text into a validated agent response
type IntentParser struct {
	logger *zap.Logger
}

// NewIntentParser creates a new intent parser
func NewIntentParser(logger *zap.Logger) *IntentParser {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IntentParser{logger: logger}
}

// Parse never fails: anything that is not a valid response degrades to CHAT
func (p *IntentParser) Parse(raw string) model.AgentResponse {
	outcome := parseRaw(raw)
	resp := outcome.response()

	metrics.IntentsParsed.WithLabelValues(string(resp.Intent()), outcome.label).Inc()
	if !outcome.valid() {
		p.logger.Warn("model output degraded to chat",
			zap.String("reason", outcome.reason),
			zap.String("raw", utils.TruncateString(raw, 300)),
		)
	}

	return resp
}

// ParseAgentResponse is the logger-free form of IntentParser.Parse
func ParseAgentResponse(raw string) model.AgentResponse {
	return parseRaw(raw).response()
}

// validationOutcome is either a valid response or the reason the payload was rejected
type validationOutcome struct {
	resp     model.AgentResponse
	fallback string // reply used when invalid
	reason   string
	label    string
}

func (o validationOutcome) valid() bool {
	return o.resp != nil
}

func (o validationOutcome) response() model.AgentResponse {
	if o.resp != nil {
		return o.resp
	}
	return model.ChatResponse{Reply: o.fallback}
}

func invalid(label, reply, reason string) validationOutcome {
	if strings.TrimSpace(reply) == "" {
		reply = FallbackReply
	}
	return validationOutcome{fallback: reply, reason: reason, label: label}
}

func parseRaw(raw string) validationOutcome {
	if strings.TrimSpace(raw) == "" {
		return invalid(metrics.ParseEmptyInput, "", "empty completion")
	}

	cleaned := utils.StripCodeFence(raw)

	var value any
	if err := json.Unmarshal([]byte(cleaned), &value); err != nil {
		return invalid(metrics.ParseNotJSON, raw, fmt.Sprintf("not JSON: %v", err))
	}

	obj, ok := value.(map[string]any)
	if !ok {
		return invalid(metrics.ParseInvalid, "", fmt.Sprintf("expected a JSON object, got %T", value))
	}

	reply, _ := obj["reply"].(string)

	intent, _ := obj["type"].(string)
	schema, ok := intentSchemas[model.IntentType(intent)]
	if !ok {
		return invalid(metrics.ParseInvalid, reply, fmt.Sprintf("unknown intent type %q", intent))
	}

	result, err := schema.Validate(gojsonschema.NewGoLoader(obj))
	if err != nil {
		return invalid(metrics.ParseInvalid, reply, fmt.Sprintf("validation error: %v", err))
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return invalid(metrics.ParseInvalid, reply, fmt.Sprintf("%s payload failed validation: %s", intent, strings.Join(errs, "; ")))
	}

	var wire wirePayload
	if err := json.Unmarshal([]byte(cleaned), &wire); err != nil {
		return invalid(metrics.ParseInvalid, reply, fmt.Sprintf("decode %s payload: %v", intent, err))
	}

	return validationOutcome{resp: wire.toResponse(), label: metrics.ParseValid}
}

// wirePayload mirrors the JSON the model is asked to emit
type wirePayload struct {
	Type    model.IntentType `json:"type"`
	Reply   string           `json:"reply"`
	Filters *struct {
		Type     *string  `json:"type"`
		Location *string  `json:"location"`
		MaxPrice *float64 `json:"maxPrice"`
		Category *string  `json:"category"`
	} `json:"filters"`
	Data *struct {
		Name         *string `json:"name"`
		Phone        *string `json:"phone"`
		Requirements *string `json:"requirements"`
		Location     *string `json:"location"`
	} `json:"data"`
}

func (w wirePayload) toResponse() model.AgentResponse {
	switch w.Type {
	case model.IntentSearch:
		var filters model.SearchFilters
		if f := w.Filters; f != nil {
			if t := nonBlank(f.Type); t != nil {
				pt := model.PropertyType(*t)
				filters.Type = &pt
			}
			filters.Location = nonBlank(f.Location)
			filters.MaxPrice = f.MaxPrice
			filters.Category = nonBlank(f.Category)
		}
		return model.SearchResponse{Filters: filters, Reply: w.Reply}
	case model.IntentPost:
		return model.PostResponse{Reply: w.Reply}
	case model.IntentLeadData:
		var data model.LeadData
		if d := w.Data; d != nil {
			data.Name = nonBlank(d.Name)
			data.Phone = nonBlank(d.Phone)
			data.Requirements = nonBlank(d.Requirements)
			data.Location = nonBlank(d.Location)
		}
		return model.LeadDataResponse{Data: data, Reply: w.Reply}
	default:
		return model.ChatResponse{Reply: w.Reply}
	}
}

// nonBlank treats empty strings like absent fields
func nonBlank(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
