package models

import "time"

type ActionType string

const (
	ActionDaily ActionType = "daily"
	ActionOnce  ActionType = "once"
)

func (t ActionType) IsValid() bool {
	switch t {
	case ActionDaily, ActionOnce:
		return true
	default:
		return false
	}
}

// Reward grants XP to a single attribute.
type Reward struct {
	AttributeID string  `json:"attributeId" yaml:"attributeId"`
	XP          float64 `json:"xp" yaml:"xp"`
}

// Action is a repeatable (daily) or single-use (once) task. Deleted actions
// are kept with IsActive=false so history keeps resolving.
type Action struct {
	ID        string     `json:"id" yaml:"id"`
	Name      string     `json:"name" yaml:"name"`
	Type      ActionType `json:"type" yaml:"type"`
	IsActive  bool       `json:"isActive" yaml:"isActive"`
	CreatedAt time.Time  `json:"createdAt" yaml:"createdAt"`
	Rewards   []Reward   `json:"rewards" yaml:"rewards"`
}

// RewardsFor reports whether the action grants XP to attributeID.
func (a Action) RewardsFor(attributeID string) bool {
	for _, r := range a.Rewards {
		if r.AttributeID == attributeID {
			return true
		}
	}
	return false
}

// CloneRewards returns a deep copy of rewards.
func CloneRewards(rewards []Reward) []Reward {
	out := make([]Reward, len(rewards))
	copy(out, rewards)
	return out
}

// LogEntry records one execution of an action. RewardsApplied is a snapshot
// taken at execution time.
type LogEntry struct {
	ID             string    `json:"id" yaml:"id"`
	ActionID       string    `json:"actionId" yaml:"actionId"`
	Date           time.Time `json:"date" yaml:"date"`
	RewardsApplied []Reward  `json:"rewardsApplied" yaml:"rewardsApplied"`
}
