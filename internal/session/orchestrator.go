package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"sync"
	"time"

	"github.com/V1K1NGbg/cf-ai-D-D-Dungeon-Master/internal/narrator"
	"github.com/V1K1NGbg/cf-ai-D-D-Dungeon-Master/internal/resolver"
	"github.com/V1K1NGbg/cf-ai-D-D-Dungeon-Master/internal/storage"
	"github.com/V1K1NGbg/cf-ai-D-D-Dungeon-Master/pkg/game"
	"github.com/V1K1NGbg/cf-ai-D-D-Dungeon-Master/pkg/prompts"
)

// NarrationService produces narrative text for a player action. It
// always returns a result; upstream failures surface only through the
// Degraded flag.
type NarrationService interface {
	Narrate(ctx context.Context, s *game.Session, playerName, action string) *narrator.Result
}

// ErrPlayerNotJoined is returned when a player acts in a session they
// never joined.
var ErrPlayerNotJoined = errors.New("player has not joined this session")

// DefaultIdleTimeout resets sessions with no activity for this long.
const DefaultIdleTimeout = 30 * time.Minute

// endCommandRe matches explicit end-of-session commands like "end",
// "finish game" or "stop session".
var endCommandRe = regexp.MustCompile(`(?i)^\s*(end|finish|close|stop)(\s+(the\s+)?(game|session))?\s*[.!]*\s*$`)

// JoinResult is returned from Join.
type JoinResult struct {
	Players  []*game.Player `json:"players"`
	Messages []game.Message `json:"messages"`
}

// StateResult is returned from State.
type StateResult struct {
	Players  []*game.Player   `json:"players"`
	Messages []game.Message   `json:"messages"`
	Combat   game.CombatState `json:"combat"`
}

// ActResult is returned from Act.
type ActResult struct {
	Narration string           `json:"narration"`
	Reasoning string           `json:"reasoning,omitempty"`
	Degraded  bool             `json:"degraded"`
	Reset     bool             `json:"reset"`
	Players   []*game.Player   `json:"players"`
	Combat    game.CombatState `json:"combat"`
}

// Orchestrator is the single authority for one session id. All
// operations take its mutex, so no two operations on the same session
// ever interleave; the in-memory state needs no further locking.
type Orchestrator struct {
	id        string
	store     storage.Store
	directory storage.Directory
	narrator  NarrationService
	resolver  *resolver.Resolver
	logger    *slog.Logger
	idle      time.Duration

	mu       sync.Mutex
	state    *game.Session
	hydrated bool
}

func newOrchestrator(id string, store storage.Store, dir storage.Directory, narr NarrationService, res *resolver.Resolver, logger *slog.Logger, idle time.Duration) *Orchestrator {
	return &Orchestrator{
		id:        id,
		store:     store,
		directory: dir,
		narrator:  narr,
		resolver:  res,
		logger:    logger.With("session_id", id),
		idle:      idle,
		state:     game.NewSession(id),
	}
}

// Join adds a player to the session, or renames them if the id already
// exists under a different name. Repeated identical joins are no-ops.
// The session's first player registers it with the directory.
func (o *Orchestrator) Join(ctx context.Context, playerID, name string) (*JoinResult, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if err := o.prepare(ctx); err != nil {
		return nil, err
	}

	p, exists := o.state.Players[playerID]
	switch {
	case !exists:
		first := len(o.state.Players) == 0
		o.state.Players[playerID] = game.NewPlayer(playerID, name)
		o.state.AddMessage(game.NarratorActor, fmt.Sprintf("%s has joined the adventure.", name))
		o.logger.Info("Player joined", "player_id", playerID, "name", name)
		if first {
			o.register(ctx)
		}
	case p.Name != name:
		old := p.Name
		p.Name = name
		o.state.AddMessage(game.NarratorActor, fmt.Sprintf("%s is now known as %s.", old, name))
		o.logger.Info("Player renamed", "player_id", playerID, "from", old, "to", name)
	default:
		// Identical rejoin: nothing to record
	}

	o.state.Touch()
	if err := o.persist(ctx); err != nil {
		return nil, err
	}

	return &JoinResult{
		Players:  o.state.Roster(),
		Messages: game.TrimMessages(o.state.Messages),
	}, nil
}

// State returns the current roster, trimmed message log and combat
// state. Reading counts as activity so observed sessions do not expire.
func (o *Orchestrator) State(ctx context.Context) (*StateResult, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if err := o.prepare(ctx); err != nil {
		return nil, err
	}

	o.state.Touch()
	if err := o.persist(ctx); err != nil {
		return nil, err
	}

	return &StateResult{
		Players:  o.state.Roster(),
		Messages: game.TrimMessages(o.state.Messages),
		Combat:   o.state.Combat,
	}, nil
}

// Act processes a player action: end-of-session commands reset the
// session; everything else is narrated, and non-degraded narration is
// run through effect resolution before the exchange is logged and the
// snapshot persisted.
func (o *Orchestrator) Act(ctx context.Context, playerID, action string) (*ActResult, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if err := o.prepare(ctx); err != nil {
		return nil, err
	}

	p, exists := o.state.Players[playerID]
	if !exists {
		return nil, ErrPlayerNotJoined
	}

	if endCommandRe.MatchString(action) {
		o.logger.Info("Session ended by command", "player_id", playerID)
		o.deregister(ctx)
		o.state.Reset()
		if err := o.store.DeleteSession(ctx, o.id); err != nil {
			return nil, err
		}
		return &ActResult{
			Narration: prompts.ClosingText,
			Reset:     true,
			Players:   []*game.Player{},
			Combat:    game.CombatState{},
		}, nil
	}

	result := o.narrator.Narrate(ctx, o.state, p.Name, action)

	// Degraded narration is canned text, not narrator-authored
	// content: never run effects against it.
	if !result.Degraded {
		o.resolver.Apply(o.state, result.Text)
		if o.state.Combat.Active && o.state.Combat.IsTurn(p.Name) {
			o.state.Combat.Advance()
		}
	}

	o.state.AddMessage(p.Name, action)
	o.state.AddMessage(game.NarratorActor, result.Text)
	o.state.Touch()

	if err := o.persist(ctx); err != nil {
		return nil, err
	}

	return &ActResult{
		Narration: result.Text,
		Reasoning: result.Reasoning,
		Degraded:  result.Degraded,
		Players:   o.state.Roster(),
		Combat:    o.state.Combat,
	}, nil
}

// prepare hydrates the in-memory state from the last snapshot on first
// touch and applies the advisory idle check. Idle expiry behaves
// exactly like the explicit end command.
func (o *Orchestrator) prepare(ctx context.Context) error {
	if !o.hydrated {
		s, err := o.store.LoadSession(ctx, o.id)
		if err != nil {
			return err
		}
		if s != nil {
			// Snapshots persisted before any player joined carry no
			// players key; the map must exist before the next Join.
			if s.Players == nil {
				s.Players = make(map[string]*game.Player)
			}
			o.state = s
			o.logger.Debug("Session hydrated from snapshot",
				"players", len(s.Players),
				"messages", len(s.Messages))
		}
		o.hydrated = true
	}

	if len(o.state.Players) > 0 && o.state.IdleFor(o.idle) {
		o.logger.Info("Session idle, resetting", "idle_timeout", o.idle)
		o.deregister(ctx)
		o.state.Reset()
		if err := o.store.DeleteSession(ctx, o.id); err != nil {
			return err
		}
	}

	return nil
}

func (o *Orchestrator) persist(ctx context.Context) error {
	if err := o.store.SaveSession(ctx, o.state); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}
	return nil
}

// register and deregister are best-effort: directory membership is
// discoverability, not correctness, so failures are logged and
// swallowed.
func (o *Orchestrator) register(ctx context.Context) {
	if err := o.directory.Add(ctx, o.id); err != nil {
		o.logger.Warn("Failed to register session with directory", "error", err)
	}
}

func (o *Orchestrator) deregister(ctx context.Context) {
	if err := o.directory.Remove(ctx, o.id); err != nil {
		o.logger.Warn("Failed to deregister session from directory", "error", err)
	}
}
