package prompts

import (
	"fmt"
	"strings"

	"github.com/V1K1NGbg/cf-ai-D-D-Dungeon-Master/pkg/chat"
	"github.com/V1K1NGbg/cf-ai-D-D-Dungeon-Master/pkg/game"
)

const defaultSummaryLimit = 8

// Builder constructs chat messages for LLM narration using a fluent
// interface. It separates prompt building logic from session state
// management.
type Builder struct {
	session      *game.Session
	playerName   string
	action       string
	summaryLimit int
}

// New creates a new prompt builder with default settings.
func New() *Builder {
	return &Builder{
		summaryLimit: defaultSummaryLimit,
	}
}

// WithSession sets the session snapshot used for context.
func (b *Builder) WithSession(s *game.Session) *Builder {
	b.session = s
	return b
}

// WithAction sets the acting player and their action text.
func (b *Builder) WithAction(playerName, action string) *Builder {
	b.playerName = playerName
	b.action = action
	return b
}

// WithSummaryLimit sets how many recent messages feed the context summary.
func (b *Builder) WithSummaryLimit(limit int) *Builder {
	b.summaryLimit = limit
	return b
}

// Build constructs the final message array for LLM consumption:
// the fixed DM framing plus a compact context summary as the system
// turn, the most recent narration as an assistant turn, and the acting
// player's action as the user turn.
func (b *Builder) Build() ([]chat.ChatMessage, error) {
	if b.session == nil {
		return nil, fmt.Errorf("session is required")
	}
	if b.playerName == "" || b.action == "" {
		return nil, fmt.Errorf("acting player and action are required")
	}

	messages := []chat.ChatMessage{
		{Role: chat.ChatRoleSystem, Content: SystemPrompt + "\n\n" + b.summary()},
	}

	if last := b.lastNarration(); last != "" {
		messages = append(messages, chat.ChatMessage{
			Role:    chat.ChatRoleAgent,
			Content: last,
		})
	}

	messages = append(messages, chat.ChatMessage{
		Role:    chat.ChatRoleUser,
		Content: fmt.Sprintf("%s: %s", b.playerName, b.action),
	})

	return messages, nil
}

// summary produces the one-paragraph context summary: roster with HP,
// enemies and whose turn it is, and the tail of the message log.
func (b *Builder) summary() string {
	var sb strings.Builder
	sb.WriteString("Current party: ")

	roster := b.session.Roster()
	if len(roster) == 0 {
		sb.WriteString("nobody has joined yet.")
	} else {
		parts := make([]string, 0, len(roster))
		for _, p := range roster {
			parts = append(parts, fmt.Sprintf("%s (%d HP)", p.Name, p.HP))
		}
		sb.WriteString(strings.Join(parts, ", "))
		sb.WriteString(".")
	}

	if b.session.Combat.Active {
		sb.WriteString(" Combat is underway against ")
		parts := make([]string, 0, len(b.session.Combat.Enemies))
		for _, e := range b.session.Combat.Enemies {
			parts = append(parts, fmt.Sprintf("%s (%d HP)", e.Name, e.HP))
		}
		sb.WriteString(strings.Join(parts, ", "))
		if cur := b.session.Combat.CurrentTurn(); cur != "" {
			sb.WriteString(fmt.Sprintf("; it is %s's turn", cur))
		}
		sb.WriteString(".")
	}

	msgs := b.session.Messages
	if len(msgs) > b.summaryLimit {
		msgs = msgs[len(msgs)-b.summaryLimit:]
	}
	if len(msgs) > 0 {
		sb.WriteString(" Recently: ")
		parts := make([]string, 0, len(msgs))
		for _, m := range msgs {
			parts = append(parts, fmt.Sprintf("%s: %s", m.Actor, m.Content))
		}
		sb.WriteString(strings.Join(parts, " | "))
	}

	return sb.String()
}

// lastNarration returns the most recent narrator message, if any.
func (b *Builder) lastNarration() string {
	for i := len(b.session.Messages) - 1; i >= 0; i-- {
		if b.session.Messages[i].Actor == game.NarratorActor {
			return b.session.Messages[i].Content
		}
	}
	return ""
}
