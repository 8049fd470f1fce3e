package game

import (
	"testing"
	"time"
)

func TestSession_Roster(t *testing.T) {
	s := NewSession("test")
	s.Players["p2"] = NewPlayer("p2", "Rook")
	s.Players["p1"] = NewPlayer("p1", "Thia")

	roster := s.Roster()
	if len(roster) != 2 {
		t.Fatalf("roster size = %d, want 2", len(roster))
	}
	if roster[0].Name != "Rook" || roster[1].Name != "Thia" {
		t.Errorf("roster not sorted by name: %v, %v", roster[0].Name, roster[1].Name)
	}
}

func TestSession_PlayerByName(t *testing.T) {
	s := NewSession("test")
	s.Players["p1"] = NewPlayer("p1", "Thia")

	if p := s.PlayerByName("thia"); p == nil {
		t.Error("expected case-insensitive name lookup")
	}
	if p := s.PlayerByName("Rook"); p != nil {
		t.Error("expected nil for unknown name")
	}
}

func TestSession_IdleFor(t *testing.T) {
	s := NewSession("test")
	if s.IdleFor(time.Minute) {
		t.Error("session with no activity should not be idle")
	}

	s.LastActivity = time.Now().Add(-2 * time.Minute)
	if !s.IdleFor(time.Minute) {
		t.Error("expected session to be idle")
	}

	s.Touch()
	if s.IdleFor(time.Minute) {
		t.Error("touched session should not be idle")
	}
}

func TestSession_Reset(t *testing.T) {
	s := NewSession("test")
	s.Players["p1"] = NewPlayer("p1", "Thia")
	s.AddMessage("Thia", "I open the door")
	s.Combat.Begin([]*Enemy{{Name: "Goblin", HP: 7}}, []string{"Thia", "Goblin"})
	s.Touch()

	s.Reset()

	if len(s.Players) != 0 {
		t.Errorf("players = %d, want 0", len(s.Players))
	}
	if len(s.Messages) != 0 {
		t.Errorf("messages = %d, want 0", len(s.Messages))
	}
	if s.Combat.Active {
		t.Error("expected combat inactive after reset")
	}
	if !s.LastActivity.IsZero() {
		t.Error("expected zero last-activity after reset")
	}
}

func TestTrimMessages(t *testing.T) {
	msgs := make([]Message, 0, HistoryLimit+10)
	for i := 0; i < HistoryLimit+10; i++ {
		msgs = append(msgs, Message{Actor: NarratorActor, Content: "entry"})
	}
	trimmed := TrimMessages(msgs)
	if len(trimmed) != HistoryLimit {
		t.Errorf("trimmed size = %d, want %d", len(trimmed), HistoryLimit)
	}

	short := msgs[:5]
	if got := TrimMessages(short); len(got) != 5 {
		t.Errorf("short log size = %d, want 5", len(got))
	}
}
