package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/landsalelk/landsalelk-sub005/internal/config"
	"github.com/landsalelk/landsalelk-sub005/internal/metrics"
	"github.com/landsalelk/landsalelk-sub005/internal/model"
	"github.com/landsalelk/landsalelk-sub005/internal/service"
)

// ChatHandler answers one chat request
type ChatHandler interface {
	Handle(ctx context.Context, req model.ChatRequest) (*model.AssistantReply, error)
}

// Reply is the NATS response envelope. Code is set only on failure.
type Reply struct {
	*model.AssistantReply
	Code  string `json:"code,omitempty"`
	Error string `json:"error,omitempty"`
}

// NATSTransport serves chat requests over NATS request/reply
type NATSTransport struct {
	conn    *nats.Conn
	sub     *nats.Subscription
	config  config.NATSConfig
	handler ChatHandler
	logger  *zap.Logger
}

// NewNATSTransport connects to NATS
func NewNATSTransport(cfg config.NATSConfig, handler ChatHandler, logger *zap.Logger) (*NATSTransport, error) {
	conn, err := nats.Connect(cfg.URL,
		nats.Name("landsale-assistant"),
		nats.Timeout(5*time.Second),
		nats.ReconnectWait(2*time.Second),
		nats.MaxReconnects(-1), // Infinite reconnects
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	nt := newNATSTransport(conn, cfg, handler, logger)
	nt.logger.Info("connected to NATS", zap.String("url", cfg.URL))
	return nt, nil
}

func newNATSTransport(conn *nats.Conn, cfg config.NATSConfig, handler ChatHandler, logger *zap.Logger) *NATSTransport {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NATSTransport{
		conn:    conn,
		config:  cfg,
		handler: handler,
		logger:  logger,
	}
}

// Start subscribes to the chat subject. Replicas share the load through a queue group.
func (nt *NATSTransport) Start() error {
	sub, err := nt.conn.QueueSubscribe(nt.config.Subject, "assistant", nt.handleChatRequest)
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", nt.config.Subject, err)
	}
	nt.sub = sub

	nt.logger.Info("subscribed to subject", zap.String("subject", nt.config.Subject))
	return nil
}

func (nt *NATSTransport) handleChatRequest(msg *nats.Msg) {
	if msg.Reply == "" {
		nt.logger.Warn("dropping chat request without reply subject")
		return
	}

	if err := msg.Respond(nt.process(msg.Data)); err != nil {
		nt.logger.Error("failed to send NATS response", zap.Error(err))
	}
}

// process decodes a request, runs it and encodes the reply
func (nt *NATSTransport) process(data []byte) []byte {
	var req model.ChatRequest
	if err := json.Unmarshal(data, &req); err != nil {
		metrics.ChatRequests.WithLabelValues("nats", "bad_request").Inc()
		return nt.encode(errorReply(service.ErrCodeInvalidRequest, "invalid request format", ""))
	}

	timeout := nt.config.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	reply, err := nt.handler.Handle(ctx, req)
	if err != nil {
		var aerr *service.AssistantError
		if !errors.As(err, &aerr) {
			aerr = &service.AssistantError{Code: service.ErrCodeAllModelsFailed, Message: err.Error()}
		}

		status := "unavailable"
		if aerr.Code == service.ErrCodeInvalidRequest {
			status = "bad_request"
		}
		metrics.ChatRequests.WithLabelValues("nats", status).Inc()
		nt.logger.Warn("chat request failed", zap.String("code", string(aerr.Code)), zap.Error(err))

		return nt.encode(errorReply(aerr.Code, aerr.Error(), req.SessionID))
	}

	metrics.ChatRequests.WithLabelValues("nats", "ok").Inc()
	return nt.encode(Reply{AssistantReply: reply})
}

func (nt *NATSTransport) encode(r Reply) []byte {
	data, err := json.Marshal(r)
	if err != nil {
		nt.logger.Error("failed to marshal NATS response", zap.Error(err))
		return []byte(`{"type":"CHAT","reply":"` + service.UnavailableReply + `"}`)
	}
	return data
}

func errorReply(code service.ErrorCode, message, sessionID string) Reply {
	return Reply{
		AssistantReply: &model.AssistantReply{
			ResponsePayload: model.Payload(model.ChatResponse{Reply: service.UnavailableReply}),
			SessionID:       sessionID,
		},
		Code:  string(code),
		Error: message,
	}
}

// Close drains the subscription and closes the connection
func (nt *NATSTransport) Close() error {
	if nt.sub != nil {
		_ = nt.sub.Drain()
	}
	if nt.conn != nil {
		nt.conn.Close()
		nt.logger.Info("NATS connection closed")
	}
	return nil
}
