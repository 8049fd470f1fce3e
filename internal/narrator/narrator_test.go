package narrator

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/V1K1NGbg/cf-ai-D-D-Dungeon-Master/internal/services"
	"github.com/V1K1NGbg/cf-ai-D-D-Dungeon-Master/pkg/chat"
	"github.com/V1K1NGbg/cf-ai-D-D-Dungeon-Master/pkg/game"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testSession() *game.Session {
	s := game.NewSession("dungeon-1")
	s.Players["p1"] = game.NewPlayer("p1", "Thia")
	return s
}

func TestNarrator_Narrate(t *testing.T) {
	mock := services.NewMockLLMAPI()
	mock.ChatFunc = func(ctx context.Context, messages []chat.ChatMessage, maxTokens int) (*chat.ChatResponse, error) {
		return &chat.ChatResponse{Message: "The goblin snarls and lunges."}, nil
	}

	n := New(mock, testLogger(), 2, time.Millisecond)
	result := n.Narrate(context.Background(), testSession(), "Thia", "I draw my blade")

	require.NotNil(t, result)
	assert.False(t, result.Degraded)
	assert.Equal(t, "The goblin snarls and lunges.", result.Text)
	assert.Empty(t, result.Reasoning)
	assert.Equal(t, 1, mock.ChatCallCount())
}

func TestNarrator_RetriesTransientThenSucceeds(t *testing.T) {
	mock := services.NewMockLLMAPI()
	calls := 0
	mock.ChatFunc = func(ctx context.Context, messages []chat.ChatMessage, maxTokens int) (*chat.ChatResponse, error) {
		calls++
		if calls < 3 {
			return nil, errors.New("API request failed with status 504: 504 Gateway Time-out")
		}
		return &chat.ChatResponse{Message: "You stand victorious."}, nil
	}

	n := New(mock, testLogger(), 3, time.Millisecond)
	result := n.Narrate(context.Background(), testSession(), "Thia", "I strike")

	assert.False(t, result.Degraded)
	assert.Equal(t, "You stand victorious.", result.Text)
	assert.Equal(t, 3, mock.ChatCallCount())
}

func TestNarrator_ExhaustsAttempts(t *testing.T) {
	mock := services.NewMockLLMAPI()
	mock.ChatFunc = func(ctx context.Context, messages []chat.ChatMessage, maxTokens int) (*chat.ChatResponse, error) {
		return nil, errors.New("connection refused")
	}

	n := New(mock, testLogger(), 2, time.Millisecond)
	result := n.Narrate(context.Background(), testSession(), "Thia", "I strike")

	assert.True(t, result.Degraded)
	assert.Equal(t, FallbackText, result.Text)
	assert.Equal(t, 2, mock.ChatCallCount())
}

func TestNarrator_PermanentErrorShortCircuits(t *testing.T) {
	mock := services.NewMockLLMAPI()
	mock.ChatFunc = func(ctx context.Context, messages []chat.ChatMessage, maxTokens int) (*chat.ChatResponse, error) {
		return nil, errors.New("API error: invalid api key")
	}

	n := New(mock, testLogger(), 3, time.Millisecond)
	result := n.Narrate(context.Background(), testSession(), "Thia", "I strike")

	assert.True(t, result.Degraded)
	assert.Equal(t, 1, mock.ChatCallCount())
}

func TestNarrator_PromptShape(t *testing.T) {
	mock := services.NewMockLLMAPI()
	n := New(mock, testLogger(), 1, time.Millisecond)

	s := testSession()
	s.AddMessage(game.NarratorActor, "The door creaks open.")
	n.Narrate(context.Background(), s, "Thia", "I step through")

	require.Equal(t, 1, mock.ChatCallCount())
	messages := mock.ChatCalls[0].Messages
	require.Len(t, messages, 3)
	assert.Equal(t, chat.ChatRoleSystem, messages[0].Role)
	assert.Equal(t, chat.ChatRoleAgent, messages[1].Role)
	assert.Equal(t, "Thia: I step through", messages[2].Content)
	assert.Equal(t, DefaultMaxTokens, mock.ChatCalls[0].MaxTokens)
}

func TestExtractReasoning(t *testing.T) {
	tests := []struct {
		name          string
		raw           string
		wantText      string
		wantReasoning string
	}{
		{
			name:          "with reasoning block",
			raw:           "<think>The player is low on HP.</think>You stagger forward.",
			wantText:      "You stagger forward.",
			wantReasoning: "The player is low on HP.",
		},
		{
			name:     "no reasoning block",
			raw:      "You stagger forward.",
			wantText: "You stagger forward.",
		},
		{
			name:     "unterminated block left intact",
			raw:      "<think>half a thought... You stagger forward.",
			wantText: "<think>half a thought... You stagger forward.",
		},
		{
			name:          "block in the middle",
			raw:           "You swing. <think>roll damage</think> The blow lands.",
			wantText:      "You swing.  The blow lands.",
			wantReasoning: "roll damage",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, reasoning := ExtractReasoning(tt.raw)
			assert.Equal(t, tt.wantText, text)
			assert.Equal(t, tt.wantReasoning, reasoning)
		})
	}
}
