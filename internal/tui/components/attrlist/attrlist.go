package attrlist

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/selfrpg/internal/models"
	"github.com/julianstephens/selfrpg/internal/progression"
	"github.com/julianstephens/selfrpg/internal/tracker"
)

type AddAttributeMsg struct{}

type OpenAttributeMsg struct {
	ID string
}

const barWidth = 16

var bar = progress.New(progress.WithWidth(barWidth), progress.WithoutPercentage(), progress.WithDefaultGradient())

type Item struct {
	Attr models.Attribute
}

func (i Item) Title() string {
	p := progression.ProgressInLevel(i.Attr.XP)
	return fmt.Sprintf("%s %s  Lv.%d", i.Attr.IconOrDefault(), i.Attr.Name, p.Level)
}

func (i Item) Description() string {
	p := progression.ProgressInLevel(i.Attr.XP)
	return fmt.Sprintf("%s %s / %s  · total %s XP",
		bar.ViewAs(p.Pct), tracker.FormatNumber(p.InLevel), tracker.FormatNumber(p.Need), tracker.FormatNumber(i.Attr.XP))
}

func (i Item) FilterValue() string { return i.Attr.Name }

type KeyMap struct {
	Add  key.Binding
	Open key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(attrs []models.Attribute, width, height int) Model {
	l := list.New(toItems(attrs), list.NewDefaultDelegate(), width, height)
	l.Title = "Attributes"
	l.SetShowTitle(false)
	l.SetShowHelp(false)

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.Open}
	}

	return Model{list: l, keys: keys}
}

func toItems(attrs []models.Attribute) []list.Item {
	items := make([]list.Item, len(attrs))
	for i, a := range attrs {
		items[i] = Item{Attr: a}
	}
	return items
}

func (m *Model) SetAttributes(attrs []models.Attribute) {
	m.list.SetItems(toItems(attrs))
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
			return m, func() tea.Msg { return AddAttributeMsg{} }
		case key.Matches(msg, m.keys.Open):
			if i, ok := m.list.SelectedItem().(Item); ok {
				return m, func() tea.Msg { return OpenAttributeMsg{ID: i.Attr.ID} }
			}
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && m.list.FilterState() != list.Filtering {
		return "\n  No attributes yet.\n  Press 'a' to add one."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
