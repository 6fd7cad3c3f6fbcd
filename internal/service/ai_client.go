package service

import (
	"context"

	"github.com/landsalelk/landsalelk-sub005/internal/model"
)

// Completer is the interface for chat completion providers
type Completer interface {
	// Complete returns the first successful completion for the message list
	Complete(ctx context.Context, messages []model.Message) (*model.CompletionResult, error)
}

// Ensure CompletionClient implements Completer
var _ Completer = (*CompletionClient)(nil)
