// Package tracker owns the in-memory document and every operation that
// changes it. Each mutation is persisted before it returns; a failed save
// rolls the document back.
package tracker

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/julianstephens/selfrpg/internal/constants"
	"github.com/julianstephens/selfrpg/internal/logger"
	"github.com/julianstephens/selfrpg/internal/models"
)

// Store is the persistence the tracker needs. storage.Provider satisfies it.
type Store interface {
	Load() (*models.State, error)
	Save(*models.State) error
	Reset() error
}

type Tracker struct {
	store Store
	state *models.State
	now   func() time.Time
}

type Option func(*Tracker)

// WithClock overrides time.Now for created and logged timestamps.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		t.now = now
	}
}

// New loads the document from store.
func New(store Store, opts ...Option) (*Tracker, error) {
	t := &Tracker{store: store, now: time.Now}
	for _, opt := range opts {
		opt(t)
	}

	state, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load state: %w", err)
	}
	state.Normalize()
	t.state = state
	return t, nil
}

// RewardDraft is a requested reward for a new action. Drafts with XP <= 0
// are ignored.
type RewardDraft struct {
	AttributeID string
	XP          float64
}

// Result describes what DoAction did.
type Result struct {
	Action  models.Action
	Applied bool
	// Entry is the appended log entry when Applied is true.
	Entry *models.LogEntry
	// Skipped counts rewards whose attribute no longer exists.
	Skipped int
	// LevelUps maps attribute id to the new level for every attribute
	// whose level changed.
	LevelUps map[string]int
}

func (t *Tracker) mutate(fn func(s *models.State) error) error {
	snapshot := t.state.Clone()
	if err := fn(t.state); err != nil {
		t.state = snapshot
		return err
	}
	if err := t.store.Save(t.state); err != nil {
		t.state = snapshot
		logger.Error("Failed to persist state, rolled back", "error", err)
		return fmt.Errorf("failed to save state: %w", err)
	}
	return nil
}

// AddAttribute appends a new attribute with zero XP.
func (t *Tracker) AddAttribute(name, icon string) (models.Attribute, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Attribute{}, ErrEmptyName
	}
	icon = strings.TrimSpace(icon)
	if icon == "" {
		icon = constants.DefaultIcon
	}

	attr := models.Attribute{
		ID:        models.NewID(),
		Name:      name,
		Icon:      icon,
		CreatedAt: t.now(),
	}
	err := t.mutate(func(s *models.State) error {
		s.Attributes = append(s.Attributes, attr)
		return nil
	})
	if err != nil {
		return models.Attribute{}, err
	}
	logger.Debug("Attribute added", "id", attr.ID, "name", attr.Name)
	return attr, nil
}

// AddAction creates an active action. Drafts with non-positive XP are
// dropped; at least one must remain.
func (t *Tracker) AddAction(name string, typ models.ActionType, drafts []RewardDraft) (models.Action, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Action{}, ErrEmptyName
	}
	if !typ.IsValid() {
		return models.Action{}, fmt.Errorf("%w: %q", ErrInvalidActionType, typ)
	}
	if len(t.state.Attributes) == 0 {
		return models.Action{}, ErrNoAttributes
	}

	rewards := make([]models.Reward, 0, len(drafts))
	for _, d := range drafts {
		if !(d.XP > 0) || math.IsInf(d.XP, 1) {
			continue
		}
		if _, ok := t.attributeIndex(d.AttributeID); !ok {
			return models.Action{}, fmt.Errorf("%w: %s", ErrUnknownAttribute, d.AttributeID)
		}
		rewards = append(rewards, models.Reward{AttributeID: d.AttributeID, XP: d.XP})
	}
	if len(rewards) == 0 {
		return models.Action{}, ErrNoRewards
	}

	action := models.Action{
		ID:        models.NewID(),
		Name:      name,
		Type:      typ,
		IsActive:  true,
		CreatedAt: t.now(),
		Rewards:   rewards,
	}
	err := t.mutate(func(s *models.State) error {
		s.Actions = append(s.Actions, action)
		return nil
	})
	if err != nil {
		return models.Action{}, err
	}
	logger.Debug("Action added", "id", action.ID, "type", action.Type, "rewards", len(rewards))
	action.Rewards = models.CloneRewards(action.Rewards)
	return action, nil
}

// DoAction applies the rewards of the referenced action and logs it. A once
// action that is already done is a no-op reported with Applied=false.
func (t *Tracker) DoAction(ref string) (Result, error) {
	idx, err := t.findActionIndex(ref)
	if err != nil {
		return Result{}, err
	}
	action := t.state.Actions[idx]
	if !action.IsActive {
		return Result{}, fmt.Errorf("%w: %s", ErrActionInactive, action.Name)
	}

	res := Result{Action: cloneAction(action)}
	if action.Type == models.ActionOnce && t.state.OnceDone[action.ID] {
		logger.Debug("Once action already done", "id", action.ID)
		return res, nil
	}

	entry := models.LogEntry{
		ID:             models.NewID(),
		ActionID:       action.ID,
		Date:           t.now(),
		RewardsApplied: models.CloneRewards(action.Rewards),
	}
	levelUps := map[string]int{}

	err = t.mutate(func(s *models.State) error {
		for _, r := range action.Rewards {
			ai, ok := t.attributeIndex(r.AttributeID)
			if !ok {
				res.Skipped++
				continue
			}
			attr := &s.Attributes[ai]
			before := levelOf(attr.XP)
			attr.XP += math.Max(r.XP, 0)
			if after := levelOf(attr.XP); after != before {
				levelUps[attr.ID] = after
			}
		}
		s.Logs = append(s.Logs, entry)
		if action.Type == models.ActionOnce {
			s.OnceDone[action.ID] = true
		}
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	res.Applied = true
	res.Entry = &entry
	res.LevelUps = levelUps
	if res.Skipped > 0 {
		logger.Warn("Skipped rewards for missing attributes", "action", action.ID, "skipped", res.Skipped)
	}
	return res, nil
}

// DeactivateAction soft-deletes an action. Logs and once-done markers are
// kept.
func (t *Tracker) DeactivateAction(ref string) (models.Action, error) {
	return t.setActive(ref, false)
}

// RestoreAction reactivates a soft-deleted action.
func (t *Tracker) RestoreAction(ref string) (models.Action, error) {
	return t.setActive(ref, true)
}

func (t *Tracker) setActive(ref string, active bool) (models.Action, error) {
	idx, err := t.findActionIndex(ref)
	if err != nil {
		return models.Action{}, err
	}
	if t.state.Actions[idx].IsActive == active {
		if active {
			return models.Action{}, fmt.Errorf("%w: %s", ErrActionActive, t.state.Actions[idx].Name)
		}
		return models.Action{}, fmt.Errorf("%w: %s", ErrActionInactive, t.state.Actions[idx].Name)
	}

	err = t.mutate(func(s *models.State) error {
		s.Actions[idx].IsActive = active
		return nil
	})
	if err != nil {
		return models.Action{}, err
	}
	return cloneAction(t.state.Actions[idx]), nil
}

// ReplaceAll swaps the whole document, as an import does. The incoming
// state is not validated beyond normalization.
func (t *Tracker) ReplaceAll(state *models.State) error {
	if state == nil {
		return ErrNilState
	}
	next := state.Clone()
	next.Normalize()
	return t.mutate(func(s *models.State) error {
		*s = *next
		return nil
	})
}

// Reset clears storage and reloads the default document.
func (t *Tracker) Reset() error {
	if err := t.store.Reset(); err != nil {
		return fmt.Errorf("failed to reset storage: %w", err)
	}
	state, err := t.store.Load()
	if err != nil {
		return fmt.Errorf("failed to reload state: %w", err)
	}
	state.Normalize()
	t.state = state
	logger.Info("State reset to defaults")
	return nil
}

// State returns a deep copy of the whole document.
func (t *Tracker) State() *models.State {
	return t.state.Clone()
}

func cloneAction(a models.Action) models.Action {
	a.Rewards = models.CloneRewards(a.Rewards)
	return a
}
