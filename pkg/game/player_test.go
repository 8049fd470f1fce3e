package game

import "testing"

func TestPlayer_TakeDamage(t *testing.T) {
	t.Run("reduces HP", func(t *testing.T) {
		p := NewPlayer("p1", "Thia")
		p.TakeDamage(5)
		if p.HP != 15 {
			t.Errorf("HP = %d, want 15", p.HP)
		}
	})

	t.Run("floors at zero", func(t *testing.T) {
		p := NewPlayer("p1", "Lia")
		p.HP = 3
		p.TakeDamage(10)
		if p.HP != 0 {
			t.Errorf("HP = %d, want 0", p.HP)
		}
		if !p.IsDown() {
			t.Error("expected player to be down")
		}
	})

	t.Run("ignores non-positive damage", func(t *testing.T) {
		p := NewPlayer("p1", "Thia")
		p.TakeDamage(0)
		p.TakeDamage(-4)
		if p.HP != MaxHP {
			t.Errorf("HP = %d, want %d", p.HP, MaxHP)
		}
	})
}

func TestPlayer_Heal(t *testing.T) {
	t.Run("increases HP", func(t *testing.T) {
		p := NewPlayer("p1", "Thia")
		p.HP = 10
		p.Heal(5)
		if p.HP != 15 {
			t.Errorf("HP = %d, want 15", p.HP)
		}
	})

	t.Run("caps at MaxHP", func(t *testing.T) {
		p := NewPlayer("p1", "Thia")
		p.HP = 18
		p.Heal(99)
		if p.HP != MaxHP {
			t.Errorf("HP = %d, want %d", p.HP, MaxHP)
		}
	})

	t.Run("ignores non-positive healing", func(t *testing.T) {
		p := NewPlayer("p1", "Thia")
		p.HP = 10
		p.Heal(0)
		p.Heal(-5)
		if p.HP != 10 {
			t.Errorf("HP = %d, want 10", p.HP)
		}
	})
}

func TestPlayer_Inventory(t *testing.T) {
	t.Run("starter inventory", func(t *testing.T) {
		p := NewPlayer("p1", "Thia")
		if len(p.Inventory) != len(StarterInventory) {
			t.Fatalf("inventory size = %d, want %d", len(p.Inventory), len(StarterInventory))
		}
	})

	t.Run("add normalizes and dedupes", func(t *testing.T) {
		p := NewPlayer("p1", "Thia")
		if !p.AddItem("Rusty Sword.") {
			t.Error("expected first add to succeed")
		}
		if p.AddItem("rusty sword") {
			t.Error("expected duplicate add to be suppressed")
		}
		found := false
		for _, item := range p.Inventory {
			if item == "rusty sword" {
				found = true
			}
		}
		if !found {
			t.Errorf("inventory %v missing normalized item", p.Inventory)
		}
	})

	t.Run("remove matches by containment", func(t *testing.T) {
		p := NewPlayer("p1", "Thia")
		p.AddItem("rusty sword")
		if !p.RemoveItem("sword") {
			t.Error("expected removal by partial match")
		}
		if p.RemoveItem("sword") {
			t.Error("expected second removal to fail")
		}
	})
}
