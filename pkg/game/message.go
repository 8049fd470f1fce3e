package game

import "time"

// NarratorActor is the reserved actor label for narration messages.
const NarratorActor = "Narrator"

// HistoryLimit is the maximum number of messages returned to callers and
// used for prompt context. The full log is retained in persisted state.
const HistoryLimit = 50

// Message is a single entry in a session's append-only log.
type Message struct {
	Actor     string    `json:"actor"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// TrimMessages returns the most recent HistoryLimit messages.
func TrimMessages(msgs []Message) []Message {
	if len(msgs) <= HistoryLimit {
		return msgs
	}
	return msgs[len(msgs)-HistoryLimit:]
}
