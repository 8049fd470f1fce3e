package game

import "strings"

// Enemy represents a hostile creature detected in narration text.
// Enemies only exist while combat is active.
type Enemy struct {
	Name string `json:"name"`
	HP   int    `json:"hp"`
}

// TakeDamage reduces the enemy's HP by the specified amount.
// HP cannot go below 0.
func (e *Enemy) TakeDamage(n int) {
	if n <= 0 {
		return
	}
	e.HP -= n
	if e.HP < 0 {
		e.HP = 0
	}
}

// IsDefeated returns true if the enemy's HP is 0 or less.
func (e *Enemy) IsDefeated() bool {
	return e.HP <= 0
}

// CombatState is a minimal cyclic turn tracker. Order is fixed when
// combat begins (player names first, then enemy names) and Turn points
// into it. When Active is false, Order and Enemies are empty and Turn
// is 0.
type CombatState struct {
	Active  bool     `json:"active"`
	Enemies []*Enemy `json:"enemies,omitempty"`
	Order   []string `json:"order,omitempty"`
	Turn    int      `json:"turn"`
}

// Begin activates combat with the given enemies and turn order.
// The turn pointer resets to the first participant.
func (c *CombatState) Begin(enemies []*Enemy, order []string) {
	c.Active = true
	c.Enemies = enemies
	c.Order = order
	c.Turn = 0
}

// End deactivates combat and clears all combat state.
func (c *CombatState) End() {
	c.Active = false
	c.Enemies = nil
	c.Order = nil
	c.Turn = 0
}

// Advance moves the turn pointer to the next participant.
// No-op when combat is inactive.
func (c *CombatState) Advance() {
	if !c.Active || len(c.Order) == 0 {
		return
	}
	c.Turn = (c.Turn + 1) % len(c.Order)
}

// CurrentTurn returns the name of the participant whose turn it is,
// or empty when combat is inactive.
func (c *CombatState) CurrentTurn() string {
	if !c.Active || c.Turn >= len(c.Order) {
		return ""
	}
	return c.Order[c.Turn]
}

// IsTurn reports whether it is the named participant's turn.
func (c *CombatState) IsTurn(name string) bool {
	cur := c.CurrentTurn()
	return cur != "" && strings.EqualFold(cur, name)
}

// FindEnemy resolves a name against the enemy list: exact match first,
// then substring containment in either direction to tolerate articles
// and minor phrasing drift. Overlapping names ("Orc" vs "Orc Chieftain")
// can resolve to the wrong enemy; this is a known limitation of the
// heuristic, not something callers should try to correct for.
func (c *CombatState) FindEnemy(name string) *Enemy {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return nil
	}
	for _, e := range c.Enemies {
		if strings.ToLower(e.Name) == name {
			return e
		}
	}
	for _, e := range c.Enemies {
		lower := strings.ToLower(e.Name)
		if strings.Contains(lower, name) || strings.Contains(name, lower) {
			return e
		}
	}
	return nil
}

// AllDefeated returns true if no enemy has positive HP.
// An empty enemy list counts as defeated.
func (c *CombatState) AllDefeated() bool {
	for _, e := range c.Enemies {
		if !e.IsDefeated() {
			return false
		}
	}
	return true
}
