package chat

const (
	ChatRoleUser   = "user"      // Acting player
	ChatRoleAgent  = "assistant" // Prior narration
	ChatRoleSystem = "system"    // Dungeon Master framing
)

// ChatMessage represents a single message in a multi-turn LLM prompt.
// The role/content shape matches the chat-completions convention used
// by all supported narration backends.
type ChatMessage struct {
	Role    string `json:"role"` // "user", "assistant", "system"
	Content string `json:"content"`
}

// ChatResponse is the raw response returned by an LLM backend.
type ChatResponse struct {
	Message string `json:"message"`
}
