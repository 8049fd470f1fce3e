package storage

import (
	"context"

	"github.com/V1K1NGbg/cf-ai-D-D-Dungeon-Master/pkg/game"
)

// Store persists whole session snapshots. There are no transactions and
// no conditional writes; per-session single-writer serialization in the
// orchestrator is what makes this safe.
type Store interface {
	// Health and lifecycle
	Ping(ctx context.Context) error
	Close() error

	// SaveSession writes the full snapshot for a session id
	SaveSession(ctx context.Context, s *game.Session) error

	// LoadSession returns the snapshot for a session id, or nil when absent
	LoadSession(ctx context.Context, id string) (*game.Session, error)

	// DeleteSession removes a session snapshot
	DeleteSession(ctx context.Context, id string) error
}

// Directory is the shared registry of known session ids, used for
// discovery only. Every call is independently idempotent; callers treat
// failures as best-effort (logged, never fatal).
type Directory interface {
	Add(ctx context.Context, sessionID string) error
	Remove(ctx context.Context, sessionID string) error
	List(ctx context.Context) ([]string, error)
	Clear(ctx context.Context) error
}
