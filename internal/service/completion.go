package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/landsalelk/landsalelk-sub005/internal/config"
	"github.com/landsalelk/landsalelk-sub005/internal/metrics"
	"github.com/landsalelk/landsalelk-sub005/internal/model"
	"github.com/landsalelk/landsalelk-sub005/internal/utils"
)

const maxResponseBytes = 4 << 20

// CompletionClient talks to an OpenAI-compatible chat completion endpoint and
// walks an ordered list of models until one of them answers.
type CompletionClient struct {
	config     *config.AIConfig
	models     []string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewCompletionClient creates a new completion client.
// A missing API key, an empty model list or a non-positive timeout is rejected here,
// before any request is made.
func NewCompletionClient(cfg *config.AIConfig, logger *zap.Logger) (*CompletionClient, error) {
	if cfg == nil || strings.TrimSpace(cfg.APIKey) == "" {
		return nil, newAssistantError(ErrCodeMissingAPIKey, ErrMissingAPIKey.Message, "set OPENROUTER_API_KEY")
	}
	if len(cfg.Models) == 0 {
		return nil, newAssistantError(ErrCodeNoModels, ErrNoModels.Message, "set AI_MODELS")
	}
	if cfg.RequestTimeout <= 0 {
		return nil, newAssistantError(ErrCodeInvalidConfig, ErrInvalidConfig.Message,
			fmt.Sprintf("AI_REQUEST_TIMEOUT must be positive, got %s", cfg.RequestTimeout))
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &CompletionClient{
		config:     cfg,
		models:     append([]string(nil), cfg.Models...),
		httpClient: &http.Client{},
		logger:     logger,
	}, nil
}

// Models returns the fallback chain in trial order
func (c *CompletionClient) Models() []string {
	return append([]string(nil), c.models...)
}

// ChatCompletionRequest represents a chat completion request
type ChatCompletionRequest struct {
	Model       string          `json:"model"`
	Messages    []model.Message `json:"messages"`
	Temperature float64         `json:"temperature"`
}

// ChatCompletionResponse represents the API response. Content is a pointer so
// that an explicit null can be told apart from a missing choice.
type ChatCompletionResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Index   int `json:"index"`
		Message struct {
			Role    string  `json:"role"`
			Content *string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Complete tries each configured model in order and returns the first usable completion.
// Models are tried one at a time; a failing model is logged and skipped.
// A choice whose content is null, empty or whitespace only is not usable.
func (c *CompletionClient) Complete(ctx context.Context, messages []model.Message) (*model.CompletionResult, error) {
	if len(messages) == 0 {
		return nil, invalidRequest("no messages to complete")
	}
	if messages[0].Role != model.RoleSystem {
		return nil, invalidRequest("first message must have role %q, got %q", model.RoleSystem, messages[0].Role)
	}

	attempts := make([]Attempt, 0, len(c.models))
	for _, m := range c.models {
		if err := ctx.Err(); err != nil {
			if len(attempts) == 0 {
				attempts = append(attempts, Attempt{Model: m, Err: fmt.Sprintf("not attempted: %v", err)})
			}
			break
		}

		content, attempt := c.attempt(ctx, m, messages)
		if attempt == nil {
			return &model.CompletionResult{Content: content, Model: m}, nil
		}

		attempts = append(attempts, *attempt)
		c.logger.Warn("completion attempt failed, trying next model",
			zap.String("model", attempt.Model),
			zap.Int("status", attempt.StatusCode),
			zap.String("error", attempt.Err),
			zap.Duration("duration", attempt.Duration),
		)
	}

	metrics.CompletionExhausted.Inc()

	last := attempts[len(attempts)-1]
	err := newAssistantError(ErrCodeAllModelsFailed, ErrAllModelsFailed.Message, last.String())
	err.Attempts = attempts
	c.logger.Error("all completion models failed",
		zap.Int("attempts", len(attempts)),
		zap.String("last_error", last.String()),
	)
	return nil, err
}

// attempt issues a single request against one model. It returns the content,
// or a diagnostic describing why the model could not be used.
func (c *CompletionClient) attempt(ctx context.Context, modelID string, messages []model.Message) (string, *Attempt) {
	start := time.Now()
	fail := func(outcome string, status int, format string, args ...any) (string, *Attempt) {
		elapsed := time.Since(start)
		metrics.CompletionAttempts.WithLabelValues(modelID, outcome).Inc()
		metrics.CompletionDuration.WithLabelValues(modelID).Observe(elapsed.Seconds())
		return "", &Attempt{
			Model:      modelID,
			StatusCode: status,
			Err:        fmt.Sprintf(format, args...),
			Duration:   elapsed,
		}
	}

	attemptCtx, cancel := context.WithTimeout(ctx, c.config.RequestTimeout)
	defer cancel()

	reqBody, err := json.Marshal(ChatCompletionRequest{
		Model:       modelID,
		Messages:    messages,
		Temperature: c.config.Temperature,
	})
	if err != nil {
		return fail(metrics.OutcomeTransport, 0, "failed to marshal request: %v", err)
	}

	url := fmt.Sprintf("%s/chat/completions", c.config.APIBase)
	httpReq, err := http.NewRequestWithContext(attemptCtx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		return fail(metrics.OutcomeTransport, 0, "failed to create request: %v", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.config.APIKey))
	httpReq.Header.Set("HTTP-Referer", c.config.SiteURL)
	httpReq.Header.Set("X-Title", c.config.SiteName)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fail(metrics.OutcomeTransport, 0, "request aborted: %v", ctxErr)
		}
		if errors.Is(attemptCtx.Err(), context.DeadlineExceeded) {
			return fail(metrics.OutcomeTransport, 0, "timed out after %s", c.config.RequestTimeout)
		}
		return fail(metrics.OutcomeTransport, 0, "failed to send request: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fail(metrics.OutcomeTransport, resp.StatusCode, "failed to read response: %v", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fail(metrics.OutcomeHTTPError, resp.StatusCode, "API request failed: %s", utils.TruncateString(string(body), 200))
	}

	var result ChatCompletionResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return fail(metrics.OutcomeBadBody, resp.StatusCode, "failed to unmarshal response: %v", err)
	}

	for _, choice := range result.Choices {
		if choice.Message.Content != nil && strings.TrimSpace(*choice.Message.Content) != "" {
			elapsed := time.Since(start)
			metrics.CompletionAttempts.WithLabelValues(modelID, metrics.OutcomeSuccess).Inc()
			metrics.CompletionDuration.WithLabelValues(modelID).Observe(elapsed.Seconds())
			c.logger.Debug("completion succeeded",
				zap.String("model", modelID),
				zap.Duration("duration", elapsed),
			)
			return *choice.Message.Content, nil
		}
	}

	if result.Error != nil && result.Error.Message != "" {
		return fail(metrics.OutcomeEmptyChoices, resp.StatusCode, "provider error: %s", result.Error.Message)
	}
	return fail(metrics.OutcomeEmptyChoices, resp.StatusCode, "no completion content in %d choices", len(result.Choices))
}
