package models

import (
	"time"

	"github.com/google/uuid"
)

// State is the root document persisted under constants.StorageKey.
type State struct {
	Attributes []Attribute     `json:"attributes" yaml:"attributes"`
	Actions    []Action        `json:"actions" yaml:"actions"`
	Logs       []LogEntry      `json:"logs" yaml:"logs"`
	OnceDone   map[string]bool `json:"onceDone" yaml:"onceDone"`
}

// Normalize replaces nil collections with empty ones so the document always
// serializes with all four keys present.
func (s *State) Normalize() {
	if s.Attributes == nil {
		s.Attributes = []Attribute{}
	}
	if s.Actions == nil {
		s.Actions = []Action{}
	}
	for i := range s.Actions {
		if s.Actions[i].Rewards == nil {
			s.Actions[i].Rewards = []Reward{}
		}
	}
	if s.Logs == nil {
		s.Logs = []LogEntry{}
	}
	for i := range s.Logs {
		if s.Logs[i].RewardsApplied == nil {
			s.Logs[i].RewardsApplied = []Reward{}
		}
	}
	if s.OnceDone == nil {
		s.OnceDone = map[string]bool{}
	}
}

// Clone returns a deep copy of the state.
func (s *State) Clone() *State {
	out := &State{
		Attributes: make([]Attribute, len(s.Attributes)),
		Actions:    make([]Action, len(s.Actions)),
		Logs:       make([]LogEntry, len(s.Logs)),
		OnceDone:   make(map[string]bool, len(s.OnceDone)),
	}
	copy(out.Attributes, s.Attributes)
	for i, a := range s.Actions {
		a.Rewards = CloneRewards(a.Rewards)
		out.Actions[i] = a
	}
	for i, l := range s.Logs {
		l.RewardsApplied = CloneRewards(l.RewardsApplied)
		out.Logs[i] = l
	}
	for k, v := range s.OnceDone {
		out.OnceDone[k] = v
	}
	return out
}

// NewID returns a fresh unique identifier for an entity.
func NewID() string {
	return uuid.New().String()
}

// DefaultState builds the starter document used on first run and after a
// reset: four attributes and one daily action rewarding two of them.
func DefaultState(now time.Time) *State {
	attrs := []Attribute{
		{ID: NewID(), Name: "Erudition", Icon: "🧠", CreatedAt: now},
		{ID: NewID(), Name: "Health", Icon: "🏥", CreatedAt: now},
		{ID: NewID(), Name: "Relationships", Icon: "❤️", CreatedAt: now},
		{ID: NewID(), Name: "Career", Icon: "🎓", CreatedAt: now},
	}

	return &State{
		Attributes: attrs,
		Actions: []Action{
			{
				ID:        NewID(),
				Name:      "Read a book",
				Type:      ActionDaily,
				IsActive:  true,
				CreatedAt: now,
				Rewards: []Reward{
					{AttributeID: attrs[0].ID, XP: 15},
					{AttributeID: attrs[3].ID, XP: 5},
				},
			},
		},
		Logs:     []LogEntry{},
		OnceDone: map[string]bool{},
	}
}

