package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/selfrpg/internal/models"
	"github.com/julianstephens/selfrpg/internal/tracker"
	"github.com/julianstephens/selfrpg/internal/tui/components/actionlist"
	"github.com/julianstephens/selfrpg/internal/tui/components/attrlist"
	"github.com/julianstephens/selfrpg/internal/tui/components/radarview"
	"github.com/julianstephens/selfrpg/internal/validation"
)

type SessionState int

const (
	StateAttributes SessionState = iota
	StateActions
	StateRadar
	StateLog
	StateScene
	StateAddAttribute
	StateAddAction
	StateConfirmDelete
)

// tabCount is the number of tabbed states; they come first in SessionState.
const tabCount = 4

var tabTitles = [tabCount]string{"Attributes", "Actions", "Radar", "Log"}

type AttributeFormModel struct {
	Name string
	Icon string
}

// ActionFormModel holds one XP field per attribute, in the order of
// Attributes.
type ActionFormModel struct {
	Name       string
	Type       models.ActionType
	Attributes []models.Attribute
	XP         []string
}

type Model struct {
	tracker             *tracker.Tracker
	state               SessionState
	previousState       SessionState
	keys                KeyMap
	help                help.Model
	attrList            attrlist.Model
	actionList          actionlist.Model
	radarView           radarview.Model
	form                *huh.Form
	attrForm            *AttributeFormModel
	actionForm          *ActionFormModel
	sceneAttrID         string
	sceneCursor         int
	actionToDeleteID    string
	quitting            bool
	width               int
	height              int
	status              string                // Last user-facing message
	validationWarning   string                // Validation warning message to display
	validationConflicts []validation.Conflict // Detailed conflict information
}

func NewModel(t *tracker.Tracker) Model {
	m := Model{
		tracker:    t,
		state:      StateAttributes,
		keys:       DefaultKeyMap(),
		help:       help.New(),
		attrList:   attrlist.New(t.Attributes(), 0, 0),
		actionList: actionlist.New(actionItems(t), 0, 0),
		radarView:  radarview.New(t.Attributes(), 0, 0),
	}

	// Run validation on initialization
	m.updateValidationStatus()

	return m
}

func actionItems(t *tracker.Tracker) []actionlist.Item {
	actions := t.AllActions()
	items := make([]actionlist.Item, len(actions))
	for i, a := range actions {
		items[i] = actionlist.Item{
			Action:  a,
			Rewards: t.RewardsText(a),
			Done:    a.Type == models.ActionOnce && t.IsOnceDone(a.ID),
		}
	}
	return items
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	switch m.state {
	case StateAttributes:
		keys = append(keys, m.keys.Add, m.keys.Enter)
	case StateActions:
		keys = append(keys, m.keys.Add, m.keys.Do, m.keys.Delete, m.keys.Restore)
	case StateScene:
		keys = append(keys, m.keys.Do, m.keys.Back)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help}
	navigation := []key.Binding{m.keys.Up, m.keys.Down, m.keys.Enter, m.keys.Back}

	var actions []key.Binding
	switch m.state {
	case StateAttributes:
		actions = []key.Binding{m.keys.Add}
	case StateActions:
		actions = []key.Binding{m.keys.Add, m.keys.Do, m.keys.Delete, m.keys.Restore}
	case StateScene:
		actions = []key.Binding{m.keys.Do}
	}

	return [][]key.Binding{global, navigation, actions}
}

func (m Model) Init() tea.Cmd {
	return nil
}

// State returns the active view.
func (m Model) State() SessionState {
	return m.state
}

// Status returns the last user-facing message.
func (m Model) Status() string {
	return m.status
}

// refresh pushes the tracker's current document into every view.
func (m *Model) refresh() {
	attrs := m.tracker.Attributes()
	m.attrList.SetAttributes(attrs)
	m.actionList.SetItems(actionItems(m.tracker))
	m.radarView.SetData(attrs)
	if m.state == StateScene {
		if n := len(m.tracker.ActionsForAttribute(m.sceneAttrID)); m.sceneCursor >= n {
			m.sceneCursor = max(n-1, 0)
		}
	}
	m.updateValidationStatus()
}

// chromeRows is the height around the active tab's content: the tab bar,
// docStyle's top and bottom padding, the status line, the help line and one
// spare row.
const chromeRows = 6

func (m *Model) setSize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width

	listHeight := max(height-chromeRows, 1)
	m.attrList.SetSize(width-4, listHeight)
	m.actionList.SetSize(width-4, listHeight)
	m.radarView.SetSize(width-4, listHeight)
}

// updateValidationStatus runs validation and updates the warning message
func (m *Model) updateValidationStatus() {
	result := validation.New().ValidateState(m.tracker.State())
	m.validationConflicts = result.Conflicts

	if len(result.Conflicts) > 0 {
		m.validationWarning = fmt.Sprintf("⚠ %d validation warning(s)", len(result.Conflicts))
	} else {
		m.validationWarning = ""
	}
}
