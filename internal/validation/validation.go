// Package validation reports consistency problems in a State document.
// Imports are trusted as-is, so these are warnings, never hard errors.
package validation

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/julianstephens/selfrpg/internal/models"
)

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictDuplicateID       ConflictType = "duplicate_id"
	ConflictDuplicateName     ConflictType = "duplicate_name"
	ConflictEmptyName         ConflictType = "empty_name"
	ConflictInvalidXP         ConflictType = "invalid_xp"
	ConflictInvalidActionType ConflictType = "invalid_action_type"
	ConflictDanglingReward    ConflictType = "dangling_reward"
	ConflictNoRewards         ConflictType = "no_rewards"
	ConflictStaleOnceDone     ConflictType = "stale_once_done"
	ConflictOrphanLog         ConflictType = "orphan_log"
)

// Conflict represents one detected inconsistency.
type Conflict struct {
	Type        ConflictType
	Description string
	Items       []string // Names involved
	IDs         []string
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// Count returns the number of conflicts of type t.
func (vr *ValidationResult) Count(t ConflictType) int {
	n := 0
	for _, c := range vr.Conflicts {
		if c.Type == t {
			n++
		}
	}
	return n
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	var b strings.Builder
	b.WriteString("Conflicts detected:\n")
	for _, conflict := range vr.Conflicts {
		fmt.Fprintf(&b, "- %s\n", conflict.Description)
	}
	return b.String()
}

// Validator checks a State for inconsistencies
type Validator struct{}

// New creates a new Validator
func New() *Validator {
	return &Validator{}
}

// ValidateState runs every check over s. A nil state has no conflicts.
func (v *Validator) ValidateState(s *models.State) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}
	if s == nil {
		return result
	}

	attrIDs := v.validateAttributes(s.Attributes, &result)
	actionIDs := v.validateActions(s.Actions, attrIDs, &result)

	var stale []string
	for id, done := range s.OnceDone {
		if done && !actionIDs[id] {
			stale = append(stale, id)
		}
	}
	sort.Strings(stale)
	for _, id := range stale {
		result.Conflicts = append(result.Conflicts, Conflict{
			Type:        ConflictStaleOnceDone,
			Description: fmt.Sprintf("Once-done marker for unknown action %s", id),
			IDs:         []string{id},
		})
	}

	for _, l := range s.Logs {
		if !actionIDs[l.ActionID] {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictOrphanLog,
				Description: fmt.Sprintf("Log entry %s references unknown action %s", l.ID, l.ActionID),
				IDs:         []string{l.ID, l.ActionID},
			})
		}
	}

	return result
}

func (v *Validator) validateAttributes(attrs []models.Attribute, result *ValidationResult) map[string]bool {
	ids := make(map[string]bool, len(attrs))
	names := make(map[string][]string)
	var nameOrder []string

	for _, a := range attrs {
		if ids[a.ID] {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictDuplicateID,
				Description: fmt.Sprintf("Duplicate attribute id: %s", a.ID),
				Items:       []string{a.Name},
				IDs:         []string{a.ID},
			})
		}
		ids[a.ID] = true

		name := strings.TrimSpace(a.Name)
		if name == "" {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictEmptyName,
				Description: fmt.Sprintf("Attribute %s has an empty name", a.ID),
				IDs:         []string{a.ID},
			})
		} else {
			key := strings.ToLower(name)
			if _, seen := names[key]; !seen {
				nameOrder = append(nameOrder, key)
			}
			names[key] = append(names[key], a.ID)
		}

		if math.IsNaN(a.XP) || math.IsInf(a.XP, 0) || a.XP < 0 {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictInvalidXP,
				Description: fmt.Sprintf("Attribute \"%s\" has invalid XP: %v", a.Name, a.XP),
				Items:       []string{a.Name},
				IDs:         []string{a.ID},
			})
		}
	}

	for _, key := range nameOrder {
		if len(names[key]) > 1 {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictDuplicateName,
				Description: fmt.Sprintf("Duplicate attribute name: \"%s\" (IDs: %v)", key, names[key]),
				Items:       []string{key},
				IDs:         names[key],
			})
		}
	}

	return ids
}

func (v *Validator) validateActions(actions []models.Action, attrIDs map[string]bool, result *ValidationResult) map[string]bool {
	ids := make(map[string]bool, len(actions))

	for _, a := range actions {
		if ids[a.ID] {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictDuplicateID,
				Description: fmt.Sprintf("Duplicate action id: %s", a.ID),
				Items:       []string{a.Name},
				IDs:         []string{a.ID},
			})
		}
		ids[a.ID] = true

		if strings.TrimSpace(a.Name) == "" {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictEmptyName,
				Description: fmt.Sprintf("Action %s has an empty name", a.ID),
				IDs:         []string{a.ID},
			})
		}

		if !a.Type.IsValid() {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictInvalidActionType,
				Description: fmt.Sprintf("Action \"%s\" has unknown type %q", a.Name, a.Type),
				Items:       []string{a.Name},
				IDs:         []string{a.ID},
			})
		}

		// Soft-deleted actions keep their rewards for history only.
		if !a.IsActive {
			continue
		}

		positive := 0
		for _, r := range a.Rewards {
			if !attrIDs[r.AttributeID] {
				result.Conflicts = append(result.Conflicts, Conflict{
					Type:        ConflictDanglingReward,
					Description: fmt.Sprintf("Action \"%s\" rewards unknown attribute %s", a.Name, r.AttributeID),
					Items:       []string{a.Name},
					IDs:         []string{a.ID, r.AttributeID},
				})
			}
			if r.XP > 0 && !math.IsInf(r.XP, 0) {
				positive++
			}
		}
		if positive == 0 {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictNoRewards,
				Description: fmt.Sprintf("Action \"%s\" has no positive reward", a.Name),
				Items:       []string{a.Name},
				IDs:         []string{a.ID},
			})
		}
	}

	return ids
}
