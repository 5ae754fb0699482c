package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/selfrpg/internal/models"
	"github.com/julianstephens/selfrpg/internal/tracker"
)

// NewAttributeForm creates the add-attribute form
func NewAttributeForm(fm *AttributeFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Attribute Name").
				Value(&fm.Name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("attribute name cannot be empty")
					}
					return nil
				}),
			huh.NewInput().
				Title("Icon").
				Description("An emoji; leave empty for ✨").
				Value(&fm.Icon),
		),
	).WithTheme(huh.ThemeDracula())
}

func newActionFormModel(attrs []models.Attribute) *ActionFormModel {
	return &ActionFormModel{
		Type:       models.ActionDaily,
		Attributes: attrs,
		XP:         make([]string, len(attrs)),
	}
}

// NewActionForm creates the add-action form: name and type, then one XP
// field per attribute.
func NewActionForm(fm *ActionFormModel) *huh.Form {
	rewards := make([]huh.Field, 0, len(fm.Attributes))
	for i, a := range fm.Attributes {
		rewards = append(rewards, huh.NewInput().
			Title(fmt.Sprintf("%s %s XP", a.IconOrDefault(), a.Name)).
			Placeholder("0").
			Value(&fm.XP[i]).
			Validate(validateXP))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Action Name").
				Value(&fm.Name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("action name cannot be empty")
					}
					return nil
				}),
			huh.NewSelect[models.ActionType]().
				Title("Type").
				Options(
					huh.NewOption("Daily (repeatable)", models.ActionDaily),
					huh.NewOption("Once", models.ActionOnce),
				).
				Value(&fm.Type),
		),
		huh.NewGroup(rewards...).
			Title("Rewards").
			Description("XP granted per attribute; leave empty for none"),
	).WithTheme(huh.ThemeDracula())
}

func validateXP(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if _, err := strconv.ParseFloat(s, 64); err != nil {
		return errors.New("XP must be a number")
	}
	return nil
}

// drafts converts the filled-in XP fields to reward drafts. Empty fields
// are skipped; the tracker drops non-positive values.
func (fm *ActionFormModel) drafts() []tracker.RewardDraft {
	var out []tracker.RewardDraft
	for i, raw := range fm.XP {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		xp, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			continue
		}
		out = append(out, tracker.RewardDraft{AttributeID: fm.Attributes[i].ID, XP: xp})
	}
	return out
}
