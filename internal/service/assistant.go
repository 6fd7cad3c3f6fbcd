package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/landsalelk/landsalelk-sub005/internal/model"
)

// Assistant chains prompt assembly, completion and intent parsing
type Assistant struct {
	completer Completer
	parser    *IntentParser
	logger    *zap.Logger
}

// Answer is an agent response together with the model that produced it
type Answer struct {
	Response model.AgentResponse
	Model    string
	Took     time.Duration
}

// NewAssistant creates a new assistant
func NewAssistant(completer Completer, parser *IntentParser, logger *zap.Logger) *Assistant {
	if logger == nil {
		logger = zap.NewNop()
	}
	if parser == nil {
		parser = NewIntentParser(logger)
	}
	return &Assistant{
		completer: completer,
		parser:    parser,
		logger:    logger,
	}
}

// Respond returns the structured reply for a conversation.
// The only errors are those of the completion client.
func (a *Assistant) Respond(ctx context.Context, messages []model.Message, pageContext map[string]any) (model.AgentResponse, error) {
	answer, err := a.Answer(ctx, messages, pageContext)
	if err != nil {
		return nil, err
	}
	return answer.Response, nil
}

// Answer is Respond plus the model id and timing
func (a *Assistant) Answer(ctx context.Context, messages []model.Message, pageContext map[string]any) (*Answer, error) {
	start := time.Now()

	result, err := a.completer.Complete(ctx, BuildMessages(pageContext, messages))
	if err != nil {
		return nil, err
	}

	resp := a.parser.Parse(result.Content)
	took := time.Since(start)

	a.logger.Info("assistant responded",
		zap.String("model", result.Model),
		zap.String("intent", string(resp.Intent())),
		zap.Duration("took", took),
	)

	return &Answer{Response: resp, Model: result.Model, Took: took}, nil
}
