package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/V1K1NGbg/cf-ai-D-D-Dungeon-Master/pkg/game"
)

// MockStore is an in-memory Store implementation for testing. Snapshots
// round-trip through JSON so tests observe the same copy semantics as
// the Redis-backed store.
type MockStore struct {
	mu       sync.Mutex
	sessions map[string][]byte

	// FailSaves makes SaveSession return an error, for testing
	// storage-failure propagation
	FailSaves bool

	// PingErr is returned from Ping when set
	PingErr error

	SaveCalls   int
	DeleteCalls int
}

var _ Store = (*MockStore)(nil)

func NewMockStore() *MockStore {
	return &MockStore{
		sessions: make(map[string][]byte),
	}
}

func (m *MockStore) Ping(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.PingErr
}

func (m *MockStore) Close() error { return nil }

func (m *MockStore) SaveSession(ctx context.Context, s *game.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SaveCalls++
	if m.FailSaves {
		return fmt.Errorf("mock storage unavailable")
	}

	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	m.sessions[s.ID] = data
	return nil
}

func (m *MockStore) LoadSession(ctx context.Context, id string) (*game.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, ok := m.sessions[id]
	if !ok {
		return nil, nil
	}
	var s game.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (m *MockStore) DeleteSession(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.DeleteCalls++
	delete(m.sessions, id)
	return nil
}

// MockDirectory is an in-memory Directory implementation for testing.
type MockDirectory struct {
	mu  sync.Mutex
	ids map[string]bool

	// FailAll makes every call return an error, for testing that
	// directory failures are swallowed
	FailAll bool

	AddCalls    []string
	RemoveCalls []string
}

var _ Directory = (*MockDirectory)(nil)

func NewMockDirectory() *MockDirectory {
	return &MockDirectory{
		ids: make(map[string]bool),
	}
}

func (m *MockDirectory) Add(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.AddCalls = append(m.AddCalls, sessionID)
	if m.FailAll {
		return fmt.Errorf("mock directory unavailable")
	}
	m.ids[sessionID] = true
	return nil
}

func (m *MockDirectory) Remove(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.RemoveCalls = append(m.RemoveCalls, sessionID)
	if m.FailAll {
		return fmt.Errorf("mock directory unavailable")
	}
	delete(m.ids, sessionID)
	return nil
}

func (m *MockDirectory) List(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailAll {
		return nil, fmt.Errorf("mock directory unavailable")
	}
	ids := make([]string, 0, len(m.ids))
	for id := range m.ids {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (m *MockDirectory) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailAll {
		return fmt.Errorf("mock directory unavailable")
	}
	m.ids = make(map[string]bool)
	return nil
}

// Has reports whether a session id is registered.
func (m *MockDirectory) Has(sessionID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ids[sessionID]
}
