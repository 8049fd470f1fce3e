package narrator

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/V1K1NGbg/cf-ai-D-D-Dungeon-Master/internal/services"
	"github.com/V1K1NGbg/cf-ai-D-D-Dungeon-Master/pkg/game"
	"github.com/V1K1NGbg/cf-ai-D-D-Dungeon-Master/pkg/prompts"
)

const (
	// FallbackText is returned when the narration backend is
	// unavailable after retries. Degraded results are never fed to
	// effect resolution.
	FallbackText = "The Dungeon Master's voice fades into the mists for a moment. " +
		"Your action echoes through the dungeon, its consequences not yet revealed."

	reasoningOpen  = "<think>"
	reasoningClose = "</think>"

	DefaultMaxAttempts = 2
	DefaultBackoff     = 500 * time.Millisecond
	DefaultMaxTokens   = 512
)

// transientSignatures mark upstream errors worth retrying. Anything
// else short-circuits straight to the fallback.
var transientSignatures = []string{
	"timeout",
	"timed out",
	"network",
	"connection refused",
	"connection reset",
	"no such host",
	"503",
	"504",
	"service unavailable",
	"gateway",
}

// Result is the outcome of a narration request. Callers always get a
// Result; upstream failures surface only through the Degraded flag.
type Result struct {
	Text      string `json:"text"`
	Reasoning string `json:"reasoning,omitempty"`
	Degraded  bool   `json:"degraded"`
}

// Narrator turns a session context and a player action into narrative
// text, tolerating transient upstream failures.
type Narrator struct {
	llm         services.LLMService
	logger      *slog.Logger
	maxAttempts int
	backoff     time.Duration
	maxTokens   int
}

// New creates a narrator with the given retry policy. Non-positive
// values fall back to the defaults.
func New(llm services.LLMService, logger *slog.Logger, maxAttempts int, backoff time.Duration) *Narrator {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	if backoff <= 0 {
		backoff = DefaultBackoff
	}
	return &Narrator{
		llm:         llm,
		logger:      logger,
		maxAttempts: maxAttempts,
		backoff:     backoff,
		maxTokens:   DefaultMaxTokens,
	}
}

// Narrate requests narration for the acting player. Attempts are
// separated by a linearly increasing backoff; transient errors are
// retried up to maxAttempts, anything else degrades immediately.
func (n *Narrator) Narrate(ctx context.Context, s *game.Session, playerName, action string) *Result {
	messages, err := prompts.New().
		WithSession(s).
		WithAction(playerName, action).
		Build()
	if err != nil {
		n.logger.Error("Failed to build narration prompt", "error", err)
		return &Result{Text: FallbackText, Degraded: true}
	}

	for attempt := 1; attempt <= n.maxAttempts; attempt++ {
		if attempt > 1 {
			wait := n.backoff * time.Duration(attempt-1)
			select {
			case <-ctx.Done():
				n.logger.Warn("Narration cancelled while backing off", "error", ctx.Err())
				return &Result{Text: FallbackText, Degraded: true}
			case <-time.After(wait):
			}
		}

		resp, err := n.llm.Chat(ctx, messages, n.maxTokens)
		if err == nil {
			text, reasoning := ExtractReasoning(resp.Message)
			return &Result{Text: text, Reasoning: reasoning}
		}

		if !isTransient(err) {
			n.logger.Error("Narration failed with permanent error", "error", err, "attempt", attempt)
			break
		}
		n.logger.Warn("Narration failed with transient error",
			"error", err,
			"attempt", attempt,
			"max_attempts", n.maxAttempts)
	}

	return &Result{Text: FallbackText, Degraded: true}
}

func isTransient(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, sig := range transientSignatures {
		if strings.Contains(msg, sig) {
			return true
		}
	}
	return false
}

// ExtractReasoning splits an embedded <think>...</think> block out of
// the raw response. An absent or unterminated block yields the text
// unchanged with empty reasoning.
func ExtractReasoning(raw string) (text, reasoning string) {
	start := strings.Index(raw, reasoningOpen)
	if start < 0 {
		return strings.TrimSpace(raw), ""
	}
	end := strings.Index(raw[start:], reasoningClose)
	if end < 0 {
		return strings.TrimSpace(raw), ""
	}
	end += start

	reasoning = strings.TrimSpace(raw[start+len(reasoningOpen) : end])
	text = strings.TrimSpace(raw[:start] + raw[end+len(reasoningClose):])
	return text, reasoning
}
