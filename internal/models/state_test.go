package models

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestDefaultState(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	s := DefaultState(now)

	if len(s.Attributes) != 4 {
		t.Fatalf("expected 4 starter attributes, got %d", len(s.Attributes))
	}
	if len(s.Actions) != 1 {
		t.Fatalf("expected 1 starter action, got %d", len(s.Actions))
	}

	action := s.Actions[0]
	if action.Type != ActionDaily || !action.IsActive {
		t.Errorf("starter action should be an active daily action, got %+v", action)
	}
	if len(action.Rewards) != 2 {
		t.Fatalf("expected 2 starter rewards, got %d", len(action.Rewards))
	}
	if action.Rewards[0].AttributeID != s.Attributes[0].ID || action.Rewards[0].XP != 15 {
		t.Errorf("first reward = %+v, want 15 XP to %s", action.Rewards[0], s.Attributes[0].ID)
	}
	if action.Rewards[1].AttributeID != s.Attributes[3].ID || action.Rewards[1].XP != 5 {
		t.Errorf("second reward = %+v, want 5 XP to %s", action.Rewards[1], s.Attributes[3].ID)
	}

	seen := make(map[string]bool)
	for _, a := range s.Attributes {
		if a.ID == "" || seen[a.ID] {
			t.Errorf("attribute ids must be unique and non-empty, got %q", a.ID)
		}
		seen[a.ID] = true
		if !a.CreatedAt.Equal(now) {
			t.Errorf("attribute %s createdAt = %v, want %v", a.Name, a.CreatedAt, now)
		}
	}
}

func TestStateJSONKeys(t *testing.T) {
	s := DefaultState(time.Now())
	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	out := string(data)
	for _, key := range []string{`"attributes"`, `"actions"`, `"logs"`, `"onceDone"`, `"createdAt"`, `"isActive"`, `"attributeId"`} {
		if !strings.Contains(out, key) {
			t.Errorf("serialized state missing key %s: %s", key, out)
		}
	}
}

func TestNormalizeFillsNilCollections(t *testing.T) {
	s := &State{
		Actions: []Action{{ID: "a1", Name: "Run", Type: ActionDaily}},
		Logs:    []LogEntry{{ID: "l1", ActionID: "a1"}},
	}
	s.Normalize()

	if s.Attributes == nil || s.OnceDone == nil {
		t.Fatal("Normalize left nil collections")
	}
	if s.Actions[0].Rewards == nil || s.Logs[0].RewardsApplied == nil {
		t.Fatal("Normalize left nil nested reward slices")
	}

	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if strings.Contains(string(data), "null") {
		t.Errorf("normalized state should not serialize nulls: %s", data)
	}
}

func TestCloneIsDeep(t *testing.T) {
	s := DefaultState(time.Now())
	s.OnceDone["x"] = true

	c := s.Clone()
	c.Attributes[0].XP = 99
	c.Actions[0].Rewards[0].XP = 1
	c.OnceDone["y"] = true

	if s.Attributes[0].XP != 0 {
		t.Error("mutating clone attributes changed the original")
	}
	if s.Actions[0].Rewards[0].XP != 15 {
		t.Error("mutating clone rewards changed the original")
	}
	if s.OnceDone["y"] {
		t.Error("mutating clone onceDone changed the original")
	}
}

func TestActionTypeIsValid(t *testing.T) {
	if !ActionDaily.IsValid() || !ActionOnce.IsValid() {
		t.Error("daily and once must be valid")
	}
	if ActionType("weekly").IsValid() {
		t.Error("weekly must be invalid")
	}
}

func TestIconOrDefault(t *testing.T) {
	if got := (Attribute{}).IconOrDefault(); got != "✨" {
		t.Errorf("IconOrDefault() = %q, want ✨", got)
	}
	if got := (Attribute{Icon: "🏥"}).IconOrDefault(); got != "🏥" {
		t.Errorf("IconOrDefault() = %q, want 🏥", got)
	}
}
