package tui

import (
	"errors"
	"fmt"
	"sort"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	apperrors "github.com/julianstephens/selfrpg/internal/errors"
	"github.com/julianstephens/selfrpg/internal/tracker"
	"github.com/julianstephens/selfrpg/internal/tui/components/actionlist"
	"github.com/julianstephens/selfrpg/internal/tui/components/attrlist"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		m.setSize(msg.Width, msg.Height)
		if m.form != nil && (m.state == StateAddAttribute || m.state == StateAddAction) {
			form, cmd := m.form.Update(msg)
			if f, ok := form.(*huh.Form); ok {
				m.form = f
			}
			return m, cmd
		}
		return m, nil
	}

	switch m.state {
	case StateAddAttribute:
		return m.updateAttributeForm(msg)
	case StateAddAction:
		return m.updateActionForm(msg)
	case StateConfirmDelete:
		return m.updateConfirmDelete(msg)
	case StateScene:
		return m.updateScene(msg)
	}

	switch msg := msg.(type) {
	case attrlist.AddAttributeMsg:
		m.attrForm = &AttributeFormModel{}
		m.form = NewAttributeForm(m.attrForm)
		m.previousState = m.state
		m.state = StateAddAttribute
		return m, m.form.Init()

	case attrlist.OpenAttributeMsg:
		m.sceneAttrID = msg.ID
		m.sceneCursor = 0
		m.previousState = m.state
		m.state = StateScene
		return m, nil

	case actionlist.AddActionMsg:
		attrs := m.tracker.Attributes()
		if len(attrs) == 0 {
			m.status = apperrors.Format(tracker.ErrNoAttributes)
			return m, nil
		}
		m.actionForm = newActionFormModel(attrs)
		m.form = NewActionForm(m.actionForm)
		m.previousState = m.state
		m.state = StateAddAction
		return m, m.form.Init()

	case actionlist.DoActionMsg:
		m.doAction(msg.ID)
		return m, nil

	case actionlist.DeleteActionMsg:
		m.actionToDeleteID = msg.ID
		m.previousState = m.state
		m.state = StateConfirmDelete
		return m, nil

	case actionlist.RestoreActionMsg:
		if a, err := m.tracker.RestoreAction(msg.ID); err != nil {
			m.status = apperrors.Format(err)
		} else {
			m.status = "Restored " + a.Name
		}
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Tab):
			m.state = (m.state + 1) % tabCount
			return m, nil
		case key.Matches(msg, m.keys.ShiftTab):
			m.state = (m.state - 1 + tabCount) % tabCount
			return m, nil
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}
	}

	var cmd tea.Cmd
	switch m.state {
	case StateAttributes:
		m.attrList, cmd = m.attrList.Update(msg)
	case StateActions:
		m.actionList, cmd = m.actionList.Update(msg)
	}
	return m, cmd
}

func (m Model) updateAttributeForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.state = m.previousState
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		m.submitAttributeForm()
		m.state = m.previousState
	case huh.StateAborted:
		m.state = m.previousState
	}
	return m, cmd
}

func (m *Model) submitAttributeForm() {
	attr, err := m.tracker.AddAttribute(m.attrForm.Name, m.attrForm.Icon)
	if err != nil {
		m.status = apperrors.Format(err)
		return
	}
	m.status = fmt.Sprintf("Added %s %s", attr.IconOrDefault(), attr.Name)
	m.refresh()
}

func (m Model) updateActionForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.state = m.previousState
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		m.submitActionForm()
		m.state = m.previousState
	case huh.StateAborted:
		m.state = m.previousState
	}
	return m, cmd
}

func (m *Model) submitActionForm() {
	a, err := m.tracker.AddAction(m.actionForm.Name, m.actionForm.Type, m.actionForm.drafts())
	if err != nil {
		m.status = apperrors.Format(err)
		return
	}
	m.status = fmt.Sprintf("Added %s (%s)", a.Name, m.tracker.RewardsText(a))
	m.refresh()
}

func (m Model) updateConfirmDelete(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch keyMsg.String() {
	case "y", "Y":
		if a, err := m.tracker.DeactivateAction(m.actionToDeleteID); err != nil {
			m.status = apperrors.Format(err)
		} else {
			m.status = "Deleted " + a.Name + " (history kept)"
		}
		m.actionToDeleteID = ""
		m.state = m.previousState
		m.refresh()
	case "n", "N", "esc", "q":
		m.actionToDeleteID = ""
		m.state = m.previousState
	}
	return m, nil
}

func (m Model) updateScene(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	actions := m.tracker.ActionsForAttribute(m.sceneAttrID)
	switch {
	case key.Matches(keyMsg, m.keys.Back):
		m.state = m.previousState
	case key.Matches(keyMsg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.Up):
		if m.sceneCursor > 0 {
			m.sceneCursor--
		}
	case key.Matches(keyMsg, m.keys.Down):
		if m.sceneCursor < len(actions)-1 {
			m.sceneCursor++
		}
	case key.Matches(keyMsg, m.keys.Do):
		if m.sceneCursor < len(actions) {
			m.doAction(actions[m.sceneCursor].ID)
		}
	}
	return m, nil
}

// doAction applies an action and reports the outcome on the status line.
func (m *Model) doAction(id string) {
	res, err := m.tracker.DoAction(id)
	switch {
	case err != nil:
		if errors.Is(err, tracker.ErrActionInactive) {
			m.status = "Action is deleted; restore it first"
		} else {
			m.status = apperrors.Format(err)
		}
		return
	case !res.Applied:
		m.status = "Once action already done"
		return
	}

	m.status = fmt.Sprintf("✓ %s  %s", res.Action.Name, m.tracker.RewardsText(res.Action))

	ids := make([]string, 0, len(res.LevelUps))
	for id := range res.LevelUps {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if a, ok := m.tracker.AttributeByID(id); ok {
			m.status += fmt.Sprintf("  Level up! %s Lv.%d", a.IconOrDefault(), res.LevelUps[id])
		}
	}
	m.refresh()
}
