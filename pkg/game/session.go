package game

import (
	"sort"
	"strings"
	"time"
)

// Session is the full persisted state of one game session. It is the
// sole unit of persistence: the store only ever sees whole snapshots,
// and exactly one orchestrator owns and mutates a given session id.
type Session struct {
	ID           string             `json:"id"`
	Players      map[string]*Player `json:"players"` // keyed by player id
	Messages     []Message          `json:"messages,omitempty"`
	Combat       CombatState        `json:"combat"`
	LastActivity time.Time          `json:"last_activity"`
}

// NewSession creates an empty session for the given id.
func NewSession(id string) *Session {
	return &Session{
		ID:      id,
		Players: make(map[string]*Player),
	}
}

// Touch refreshes the last-activity timestamp.
func (s *Session) Touch() {
	s.LastActivity = time.Now()
}

// IdleFor reports whether the session has been inactive longer than d.
func (s *Session) IdleFor(d time.Duration) bool {
	return !s.LastActivity.IsZero() && time.Since(s.LastActivity) > d
}

// AddMessage appends an entry to the message log.
func (s *Session) AddMessage(actor, content string) {
	s.Messages = append(s.Messages, Message{
		Actor:     actor,
		Content:   content,
		Timestamp: time.Now(),
	})
}

// Roster returns the players sorted by name for stable output.
func (s *Session) Roster() []*Player {
	players := make([]*Player, 0, len(s.Players))
	for _, p := range s.Players {
		players = append(players, p)
	}
	sort.Slice(players, func(i, j int) bool {
		return players[i].Name < players[j].Name
	})
	return players
}

// PlayerByName resolves a display name against the roster,
// case-insensitively.
func (s *Session) PlayerByName(name string) *Player {
	for _, p := range s.Players {
		if strings.EqualFold(p.Name, name) {
			return p
		}
	}
	return nil
}

// Reset wipes all session state, returning the session to empty while
// keeping it usable under the same id.
func (s *Session) Reset() {
	s.Players = make(map[string]*Player)
	s.Messages = nil
	s.Combat.End()
	s.LastActivity = time.Time{}
}
