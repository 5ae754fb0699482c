package tracker

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/julianstephens/selfrpg/internal/models"
	"github.com/julianstephens/selfrpg/internal/progression"
)

func levelOf(xp float64) int {
	return progression.LevelFromXP(xp)
}

// Attributes returns the attributes in display order.
func (t *Tracker) Attributes() []models.Attribute {
	out := make([]models.Attribute, len(t.state.Attributes))
	copy(out, t.state.Attributes)
	return out
}

// ActiveActions returns the actions that can still be performed.
func (t *Tracker) ActiveActions() []models.Action {
	var out []models.Action
	for _, a := range t.state.Actions {
		if a.IsActive {
			out = append(out, cloneAction(a))
		}
	}
	return out
}

// AllActions returns every action, including soft-deleted ones.
func (t *Tracker) AllActions() []models.Action {
	out := make([]models.Action, len(t.state.Actions))
	for i, a := range t.state.Actions {
		out[i] = cloneAction(a)
	}
	return out
}

// Logs returns the log in append order.
func (t *Tracker) Logs() []models.LogEntry {
	out := make([]models.LogEntry, len(t.state.Logs))
	for i, l := range t.state.Logs {
		l.RewardsApplied = models.CloneRewards(l.RewardsApplied)
		out[i] = l
	}
	return out
}

func (t *Tracker) IsOnceDone(actionID string) bool {
	return t.state.OnceDone[actionID]
}

// CanDo reports whether performing a would award anything.
func (t *Tracker) CanDo(a models.Action) bool {
	if !a.IsActive {
		return false
	}
	return a.Type != models.ActionOnce || !t.state.OnceDone[a.ID]
}

// ActionByID resolves an id exactly, including soft-deleted actions. Log
// entries use it to show the action name.
func (t *Tracker) ActionByID(id string) (models.Action, bool) {
	for _, a := range t.state.Actions {
		if a.ID == id {
			return cloneAction(a), true
		}
	}
	return models.Action{}, false
}

// AttributeByID resolves an attribute id exactly.
func (t *Tracker) AttributeByID(id string) (models.Attribute, bool) {
	if i, ok := t.attributeIndex(id); ok {
		return t.state.Attributes[i], true
	}
	return models.Attribute{}, false
}

// FindAttribute resolves ref as an id, a case-insensitive name or a unique
// id prefix, in that order.
func (t *Tracker) FindAttribute(ref string) (models.Attribute, error) {
	items := make([]refItem, len(t.state.Attributes))
	for i, a := range t.state.Attributes {
		items[i] = refItem{id: a.ID, name: a.Name, active: true}
	}
	i, err := resolveRef(items, ref)
	if err != nil {
		if err == errNoMatch {
			err = ErrUnknownAttribute
		}
		return models.Attribute{}, fmt.Errorf("%w: %q", err, ref)
	}
	return t.state.Attributes[i], nil
}

// FindAction resolves ref like FindAttribute. When several actions share a
// name the active one wins.
func (t *Tracker) FindAction(ref string) (models.Action, error) {
	i, err := t.findActionIndex(ref)
	if err != nil {
		return models.Action{}, err
	}
	return cloneAction(t.state.Actions[i]), nil
}

// ActionsForAttribute returns the active actions rewarding attributeID.
func (t *Tracker) ActionsForAttribute(attributeID string) []models.Action {
	var out []models.Action
	for _, a := range t.state.Actions {
		if a.IsActive && a.RewardsFor(attributeID) {
			out = append(out, cloneAction(a))
		}
	}
	return out
}

// RewardsText renders rewards as "🧠 15xp · 🎓 5xp". Rewards pointing at
// missing attributes are left out.
func (t *Tracker) RewardsText(a models.Action) string {
	parts := make([]string, 0, len(a.Rewards))
	for _, r := range a.Rewards {
		i, ok := t.attributeIndex(r.AttributeID)
		if !ok {
			continue
		}
		parts = append(parts, t.state.Attributes[i].IconOrDefault()+" "+FormatXP(r.XP)+"xp")
	}
	return strings.Join(parts, " · ")
}

// FormatXP prints XP without a trailing ".0" for whole numbers.
func FormatXP(xp float64) string {
	return strconv.FormatFloat(xp, 'f', -1, 64)
}

var numberPrinter = message.NewPrinter(language.English)

// FormatNumber prints v with thousands separators: whole values as
// integers, anything else with two decimals.
func FormatNumber(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return numberPrinter.Sprintf("%d", int64(v))
	}
	return numberPrinter.Sprintf("%.2f", v)
}

func (t *Tracker) attributeIndex(id string) (int, bool) {
	for i, a := range t.state.Attributes {
		if a.ID == id {
			return i, true
		}
	}
	return -1, false
}

func (t *Tracker) findActionIndex(ref string) (int, error) {
	items := make([]refItem, len(t.state.Actions))
	for i, a := range t.state.Actions {
		items[i] = refItem{id: a.ID, name: a.Name, active: a.IsActive}
	}
	i, err := resolveRef(items, ref)
	if err != nil {
		if err == errNoMatch {
			err = ErrActionNotFound
		}
		return -1, fmt.Errorf("%w: %q", err, ref)
	}
	return i, nil
}

type refItem struct {
	id     string
	name   string
	active bool
}

func resolveRef(items []refItem, ref string) (int, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return -1, errNoMatch
	}

	for i, it := range items {
		if it.id == ref {
			return i, nil
		}
	}

	var named []int
	for i, it := range items {
		if strings.EqualFold(it.name, ref) {
			named = append(named, i)
		}
	}
	if len(named) > 1 {
		var active []int
		for _, i := range named {
			if items[i].active {
				active = append(active, i)
			}
		}
		if len(active) == 1 {
			return active[0], nil
		}
		return -1, ErrAmbiguousRef
	}
	if len(named) == 1 {
		return named[0], nil
	}

	var prefixed []int
	for i, it := range items {
		if strings.HasPrefix(it.id, ref) {
			prefixed = append(prefixed, i)
		}
	}
	switch len(prefixed) {
	case 0:
		return -1, errNoMatch
	case 1:
		return prefixed[0], nil
	default:
		return -1, ErrAmbiguousRef
	}
}
