package services

import (
	"context"

	"github.com/V1K1NGbg/cf-ai-D-D-Dungeon-Master/pkg/chat"
)

// LLMService defines the interface for narration backends
type LLMService interface {
	// InitModel initializes the LLM model on startup
	InitModel(ctx context.Context, modelName string) error

	// Chat generates a completion for the given messages, bounded to
	// maxTokens of output
	Chat(ctx context.Context, messages []chat.ChatMessage, maxTokens int) (*chat.ChatResponse, error)
}
