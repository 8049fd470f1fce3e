package game

import "strings"

// MaxHP is the health ceiling for every player. Damage floors at 0,
// healing caps here.
const MaxHP = 20

// StarterInventory is given to every player on first join.
var StarterInventory = []string{"torch", "rope", "rations"}

// Player represents one participant in a session. Players are created on
// first join and never deleted individually; a whole-session reset is the
// only thing that removes them.
type Player struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	HP        int      `json:"hp"`
	Inventory []string `json:"inventory,omitempty"`
}

// NewPlayer creates a player at full health with the starter inventory.
func NewPlayer(id, name string) *Player {
	inv := make([]string, len(StarterInventory))
	copy(inv, StarterInventory)
	return &Player{
		ID:        id,
		Name:      name,
		HP:        MaxHP,
		Inventory: inv,
	}
}

// TakeDamage reduces the player's HP by the specified amount.
// HP cannot go below 0.
func (p *Player) TakeDamage(n int) {
	if n <= 0 {
		return
	}
	p.HP -= n
	if p.HP < 0 {
		p.HP = 0
	}
}

// Heal increases the player's HP by the specified amount.
// HP cannot exceed MaxHP.
func (p *Player) Heal(n int) {
	if n <= 0 {
		return
	}
	p.HP += n
	if p.HP > MaxHP {
		p.HP = MaxHP
	}
}

// IsDown returns true if the player's HP is 0 or less.
func (p *Player) IsDown() bool {
	return p.HP <= 0
}

// AddItem appends a normalized item name to the inventory.
// Duplicates are suppressed; returns true if the item was added.
func (p *Player) AddItem(item string) bool {
	item = NormalizeItem(item)
	if item == "" {
		return false
	}
	for _, have := range p.Inventory {
		if NormalizeItem(have) == item {
			return false
		}
	}
	p.Inventory = append(p.Inventory, item)
	return true
}

// RemoveItem drops the first inventory entry whose normalized name
// contains the matched text. Returns true if an entry was removed.
func (p *Player) RemoveItem(item string) bool {
	item = NormalizeItem(item)
	if item == "" {
		return false
	}
	for i, have := range p.Inventory {
		if strings.Contains(NormalizeItem(have), item) {
			p.Inventory = append(p.Inventory[:i], p.Inventory[i+1:]...)
			return true
		}
	}
	return false
}

// NormalizeItem lower-cases an item name and strips surrounding
// punctuation and whitespace so that "Rusty Sword." and "rusty sword"
// collapse to the same entry.
func NormalizeItem(item string) string {
	item = strings.ToLower(strings.TrimSpace(item))
	return strings.Trim(item, ".,!?;:'\"")
}
