package actionlist

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/selfrpg/internal/models"
)

type AddActionMsg struct{}

type DoActionMsg struct {
	ID string
}

type DeleteActionMsg struct {
	ID string
}

type RestoreActionMsg struct {
	ID string
}

// Item is one row. Rewards is the pre-rendered rewards text.
type Item struct {
	Action  models.Action
	Rewards string
	Done    bool
}

func (i Item) Title() string {
	switch {
	case !i.Action.IsActive:
		return "👻 " + i.Action.Name + " (deleted)"
	case i.Done:
		return "✅ " + i.Action.Name
	default:
		return i.Action.Name
	}
}

func (i Item) Description() string {
	desc := "[" + string(i.Action.Type) + "] " + i.Rewards
	switch {
	case !i.Action.IsActive:
		desc += " | can restore with 'r'"
	case i.Done:
		desc += " | done"
	}
	return desc
}

func (i Item) FilterValue() string { return i.Action.Name }

type KeyMap struct {
	Add     key.Binding
	Do      key.Binding
	Delete  key.Binding
	Restore key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Do: key.NewBinding(
			key.WithKeys("d", "enter"),
			key.WithHelp("d", "do"),
		),
		Delete: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "delete"),
		),
		Restore: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "restore"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(items []Item, width, height int) Model {
	l := list.New(toListItems(items), list.NewDefaultDelegate(), width, height)
	l.Title = "Actions"
	l.SetShowTitle(false)
	l.SetShowHelp(false) // help is rendered by the parent model

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.Do, keys.Delete, keys.Restore}
	}
	l.AdditionalFullHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.Do, keys.Delete, keys.Restore}
	}

	return Model{list: l, keys: keys}
}

func toListItems(items []Item) []list.Item {
	out := make([]list.Item, len(items))
	for i, it := range items {
		out[i] = it
	}
	return out
}

func (m *Model) SetItems(items []Item) {
	m.list.SetItems(toListItems(items))
}

// Selected returns the highlighted row.
func (m Model) Selected() (Item, bool) {
	i, ok := m.list.SelectedItem().(Item)
	return i, ok
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch {
		case key.Matches(msg, m.keys.Add):
			return m, func() tea.Msg { return AddActionMsg{} }
		case key.Matches(msg, m.keys.Do):
			if i, ok := m.Selected(); ok && i.Action.IsActive {
				return m, func() tea.Msg { return DoActionMsg{ID: i.Action.ID} }
			}
		case key.Matches(msg, m.keys.Delete):
			if i, ok := m.Selected(); ok && i.Action.IsActive {
				return m, func() tea.Msg { return DeleteActionMsg{ID: i.Action.ID} }
			}
		case key.Matches(msg, m.keys.Restore):
			if i, ok := m.Selected(); ok && !i.Action.IsActive {
				return m, func() tea.Msg { return RestoreActionMsg{ID: i.Action.ID} }
			}
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && m.list.FilterState() != list.Filtering {
		return "\n  No actions yet.\n  Press 'a' to add one."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
