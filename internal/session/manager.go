package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/V1K1NGbg/cf-ai-D-D-Dungeon-Master/internal/resolver"
	"github.com/V1K1NGbg/cf-ai-D-D-Dungeon-Master/internal/storage"
)

// Manager routes every operation for a session id to that id's single
// Orchestrator, creating it on first touch. Handles are never evicted:
// a reset session stays available for reuse under the same id.
type Manager struct {
	store     storage.Store
	directory storage.Directory
	narrator  NarrationService
	resolver  *resolver.Resolver
	logger    *slog.Logger
	idle      time.Duration

	mu       sync.Mutex
	sessions map[string]*Orchestrator
}

// NewManager creates a session manager. A non-positive idle timeout
// falls back to DefaultIdleTimeout.
func NewManager(store storage.Store, dir storage.Directory, narr NarrationService, logger *slog.Logger, idle time.Duration) *Manager {
	if idle <= 0 {
		idle = DefaultIdleTimeout
	}
	return &Manager{
		store:     store,
		directory: dir,
		narrator:  narr,
		resolver:  resolver.New(logger),
		logger:    logger,
		idle:      idle,
		sessions:  make(map[string]*Orchestrator),
	}
}

// handle returns the one orchestrator for a session id.
func (m *Manager) handle(id string) *Orchestrator {
	m.mu.Lock()
	defer m.mu.Unlock()

	o, ok := m.sessions[id]
	if !ok {
		o = newOrchestrator(id, m.store, m.directory, m.narrator, m.resolver, m.logger, m.idle)
		m.sessions[id] = o
	}
	return o
}

// Join adds or renames a player in the given session.
func (m *Manager) Join(ctx context.Context, sessionID, playerID, name string) (*JoinResult, error) {
	return m.handle(sessionID).Join(ctx, playerID, name)
}

// Act processes a player action in the given session.
func (m *Manager) Act(ctx context.Context, sessionID, playerID, action string) (*ActResult, error) {
	return m.handle(sessionID).Act(ctx, playerID, action)
}

// State returns the current state of the given session.
func (m *Manager) State(ctx context.Context, sessionID string) (*StateResult, error) {
	return m.handle(sessionID).State(ctx)
}

// ListSessions returns the ids registered with the directory.
func (m *Manager) ListSessions(ctx context.Context) ([]string, error) {
	return m.directory.List(ctx)
}

// ClearSessions empties the directory.
func (m *Manager) ClearSessions(ctx context.Context) error {
	return m.directory.Clear(ctx)
}
