package resolver

import (
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/V1K1NGbg/cf-ai-D-D-Dungeon-Master/pkg/game"
)

func newTestResolver() *Resolver {
	return New(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError})))
}

func sessionWithPlayers(names ...string) *game.Session {
	s := game.NewSession("dungeon-1")
	for i, name := range names {
		id := string(rune('a' + i))
		s.Players[id] = game.NewPlayer(id, name)
	}
	return s
}

func TestResolver_CombatDetection(t *testing.T) {
	r := newTestResolver()

	t.Run("vocabulary enemy with default HP", func(t *testing.T) {
		s := sessionWithPlayers("Thia", "Rook")
		r.Apply(s, "A goblin attacks from the shadows!")

		require.True(t, s.Combat.Active)
		require.Len(t, s.Combat.Enemies, 1)
		assert.Equal(t, "Goblin", s.Combat.Enemies[0].Name)
		assert.Equal(t, 7, s.Combat.Enemies[0].HP)
		assert.Equal(t, []string{"Rook", "Thia", "Goblin"}, s.Combat.Order)
		assert.Equal(t, 0, s.Combat.Turn)
	})

	t.Run("explicit HP annotation", func(t *testing.T) {
		s := sessionWithPlayers("Thia")
		r.Apply(s, "Roll for initiative! An orc (25 HP) blocks the bridge and attacks.")

		require.True(t, s.Combat.Active)
		require.Len(t, s.Combat.Enemies, 1)
		assert.Equal(t, "Orc", s.Combat.Enemies[0].Name)
		assert.Equal(t, 25, s.Combat.Enemies[0].HP)
	})

	t.Run("generic capitalized enemy", func(t *testing.T) {
		s := sessionWithPlayers("Thia")
		r.Apply(s, "The Gloomfang appears before you, hissing.")

		require.True(t, s.Combat.Active)
		require.Len(t, s.Combat.Enemies, 1)
		assert.Equal(t, "Gloomfang", s.Combat.Enemies[0].Name)
		assert.Equal(t, DefaultEnemyHP, s.Combat.Enemies[0].HP)
	})

	t.Run("duplicate enemy names collapse", func(t *testing.T) {
		s := sessionWithPlayers("Thia")
		r.Apply(s, "A goblin attacks! The goblin screeches as another Goblin watches.")

		require.True(t, s.Combat.Active)
		assert.Len(t, s.Combat.Enemies, 1)
	})

	t.Run("no trigger phrasing means no combat", func(t *testing.T) {
		s := sessionWithPlayers("Thia")
		// A creature mention alone is not enough
		r.Apply(s, "You recall tales of a goblin king from your childhood.")
		assert.False(t, s.Combat.Active)
	})

	t.Run("no enemies means no combat", func(t *testing.T) {
		s := sessionWithPlayers("Thia")
		r.Apply(s, "You attack the practice dummy and shatter it.")
		assert.False(t, s.Combat.Active)
	})

	t.Run("inactive only", func(t *testing.T) {
		s := sessionWithPlayers("Thia")
		s.Combat.Begin([]*game.Enemy{{Name: "Orc", HP: 15}}, []string{"Thia", "Orc"})
		r.Apply(s, "A dragon attacks!")
		// Detection never runs while combat is active
		assert.Len(t, s.Combat.Enemies, 1)
	})
}

func TestResolver_DamageScenarioThia(t *testing.T) {
	r := newTestResolver()
	s := sessionWithPlayers("Thia")
	s.Combat.Begin([]*game.Enemy{{Name: "Goblin", HP: 12}}, []string{"Thia", "Goblin"})

	r.Apply(s, "Thia takes 5 damage. The hero deals 7 damage to Goblin.")

	assert.Equal(t, 15, s.PlayerByName("Thia").HP)
	require.True(t, s.Combat.Active)
	assert.Equal(t, 5, s.Combat.Enemies[0].HP)
}

func TestResolver_DamageScenarioLia(t *testing.T) {
	r := newTestResolver()
	s := sessionWithPlayers("Lia")
	s.PlayerByName("Lia").HP = 3
	s.Combat.Begin([]*game.Enemy{{Name: "Ogre", HP: 4}}, []string{"Lia", "Ogre"})

	r.Apply(s, "Lia takes 10 damage. Knight deals 9 damage to Ogre.")

	assert.Equal(t, 0, s.PlayerByName("Lia").HP)
	// Sole enemy at 0 HP: combat ends and clears
	assert.False(t, s.Combat.Active)
	assert.Empty(t, s.Combat.Enemies)
	assert.Empty(t, s.Combat.Order)
}

func TestResolver_DamageSurfacePatterns(t *testing.T) {
	r := newTestResolver()

	tests := []struct {
		name string
		text string
		want int // Goblin HP after, starting from 12
	}{
		{"deals damage to", "The knight deals 4 damage to the goblin.", 8},
		{"takes damage", "The goblin takes 6 damage from the blast.", 6},
		{"damage to", "Your arrow does 3 damage to Goblin.", 9},
		{"suffers damage", "The goblin suffers 5 damage.", 7},
		{"strikes for", "Rook strikes the goblin for 9 damage.", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := sessionWithPlayers("Rook")
			s.Combat.Begin([]*game.Enemy{{Name: "Goblin", HP: 12}}, []string{"Rook", "Goblin"})
			r.Apply(s, tt.text)
			assert.Equal(t, tt.want, s.Combat.Enemies[0].HP)
		})
	}
}

func TestResolver_PlayerDamageFloorsAtZero(t *testing.T) {
	r := newTestResolver()
	s := sessionWithPlayers("Thia")
	r.Apply(s, "Thia takes 50 damage from the trap.")
	assert.Equal(t, 0, s.PlayerByName("Thia").HP)
}

func TestResolver_Healing(t *testing.T) {
	r := newTestResolver()

	t.Run("heals pattern", func(t *testing.T) {
		s := sessionWithPlayers("Thia")
		s.PlayerByName("Thia").HP = 10
		r.Apply(s, "Thia heals 5 HP as the potion takes effect.")
		assert.Equal(t, 15, s.PlayerByName("Thia").HP)
	})

	t.Run("restored pattern", func(t *testing.T) {
		s := sessionWithPlayers("Thia")
		s.PlayerByName("Thia").HP = 10
		r.Apply(s, "A warm light spreads: 4 HP restored to Thia.")
		assert.Equal(t, 14, s.PlayerByName("Thia").HP)
	})

	t.Run("healing caps at ceiling", func(t *testing.T) {
		s := sessionWithPlayers("Thia")
		s.PlayerByName("Thia").HP = 18
		r.Apply(s, "Thia recovers 99 HP.")
		assert.Equal(t, game.MaxHP, s.PlayerByName("Thia").HP)
	})

	t.Run("unknown name ignored", func(t *testing.T) {
		s := sessionWithPlayers("Thia")
		s.PlayerByName("Thia").HP = 10
		r.Apply(s, "Mysterio regains 5 HP.")
		assert.Equal(t, 10, s.PlayerByName("Thia").HP)
	})
}

func TestResolver_Inventory(t *testing.T) {
	r := newTestResolver()

	t.Run("gain", func(t *testing.T) {
		s := sessionWithPlayers("Thia")
		r.Apply(s, "Thia finds a Rusty Sword in the chest.")
		assert.Contains(t, s.PlayerByName("Thia").Inventory, "rusty sword in the chest")
	})

	t.Run("gain stops at punctuation", func(t *testing.T) {
		s := sessionWithPlayers("Thia")
		r.Apply(s, "Thia discovers a silver key, glinting in the dark.")
		assert.Contains(t, s.PlayerByName("Thia").Inventory, "silver key")
	})

	t.Run("duplicate gain suppressed", func(t *testing.T) {
		s := sessionWithPlayers("Thia")
		r.Apply(s, "Thia receives a healing potion.")
		r.Apply(s, "Thia receives a Healing Potion.")
		count := 0
		for _, item := range s.PlayerByName("Thia").Inventory {
			if item == "healing potion" {
				count++
			}
		}
		assert.Equal(t, 1, count)
	})

	t.Run("non-item nouns discarded", func(t *testing.T) {
		s := sessionWithPlayers("Thia")
		before := len(s.PlayerByName("Thia").Inventory)
		r.Apply(s, "Thia finds a door. Thia discovers a passage.")
		assert.Equal(t, before, len(s.PlayerByName("Thia").Inventory))
	})

	t.Run("loss removes first containing entry", func(t *testing.T) {
		s := sessionWithPlayers("Thia")
		p := s.PlayerByName("Thia")
		p.AddItem("burning torch")
		r.Apply(s, "Thia drops the torch.")
		// The starter "torch" comes first in the inventory, so it is the
		// one removed; the "burning torch" stays
		assert.NotContains(t, p.Inventory, "torch")
		assert.Contains(t, p.Inventory, "burning torch")
	})
}

func TestResolver_UnmatchedTextIsNoOp(t *testing.T) {
	r := newTestResolver()
	s := sessionWithPlayers("Thia")
	before := s.PlayerByName("Thia").HP

	r.Apply(s, "The wind howls through the empty corridor. Nothing stirs.")

	assert.Equal(t, before, s.PlayerByName("Thia").HP)
	assert.False(t, s.Combat.Active)
}

func TestResolver_CombatThenDamageSameText(t *testing.T) {
	r := newTestResolver()
	s := sessionWithPlayers("Thia")

	r.Apply(s, "A goblin attacks! Thia strikes the goblin for 3 damage.")

	require.True(t, s.Combat.Active)
	assert.Equal(t, 4, s.Combat.Enemies[0].HP)
}
