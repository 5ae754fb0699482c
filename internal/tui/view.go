package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/selfrpg/internal/constants"
	"github.com/julianstephens/selfrpg/internal/models"
	"github.com/julianstephens/selfrpg/internal/progression"
	"github.com/julianstephens/selfrpg/internal/tracker"
)

const sceneBarWidth = 30

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string

	switch m.state {
	case StateAttributes:
		content = docStyle.Render(m.attrList.View())
	case StateActions:
		content = docStyle.Render(m.actionList.View())
	case StateRadar:
		content = docStyle.Render(m.radarView.View())
	case StateLog:
		content = docStyle.Render(m.viewLog())
	case StateScene:
		content = docStyle.Render(m.viewScene())
	case StateAddAttribute, StateAddAction:
		content = docStyle.Render(m.form.View())
	case StateConfirmDelete:
		content = m.viewConfirmDelete()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		content,
		m.viewStatus(),
		m.help.View(m),
	)
}

func (m Model) viewTabs() string {
	active := m.state
	if active >= tabCount {
		active = m.previousState
	}
	var tabs []string
	for i, title := range tabTitles {
		if active == SessionState(i) {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewStatus() string {
	var parts []string
	if m.validationWarning != "" {
		parts = append(parts, warningStyle.Render(m.validationWarning))
	}
	if m.status != "" {
		parts = append(parts, statusStyle.Render(m.status))
	}
	return strings.Join(parts, "  ")
}

func (m Model) viewLog() string {
	logs := m.tracker.Logs()
	if len(logs) == 0 {
		return "No actions logged yet."
	}

	limit := len(logs)
	if m.height > 8 && m.height-8 < limit {
		limit = m.height - 8
	}

	var b strings.Builder
	for i := len(logs) - 1; i >= len(logs)-limit; i-- {
		entry := logs[i]
		name := "unknown action"
		if a, ok := m.tracker.ActionByID(entry.ActionID); ok {
			name = a.Name
		}
		fmt.Fprintf(&b, "%s  %-24s %s\n",
			entry.Date.Local().Format(constants.TimestampFormat), name,
			m.tracker.RewardsText(models.Action{Rewards: entry.RewardsApplied}))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) viewScene() string {
	attr, ok := m.tracker.AttributeByID(m.sceneAttrID)
	if !ok {
		return "Attribute not found. Press esc to go back."
	}

	p := progression.ProgressInLevel(attr.XP)
	bar := progress.New(progress.WithWidth(sceneBarWidth), progress.WithDefaultGradient())

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", titleStyle.Render(attr.IconOrDefault()+" "+attr.Name))
	fmt.Fprintf(&b, "Lv.%d  %s\n", p.Level, bar.ViewAs(p.Pct))
	fmt.Fprintf(&b, "%s / %s XP to next level · total %s XP\n\n",
		tracker.FormatNumber(p.InLevel), tracker.FormatNumber(p.Need), tracker.FormatNumber(attr.XP))

	actions := m.tracker.ActionsForAttribute(attr.ID)
	if len(actions) == 0 {
		b.WriteString("No actions reward this attribute yet.")
		return b.String()
	}
	for i, a := range actions {
		line := fmt.Sprintf("%s [%s] %s", a.Name, a.Type, m.tracker.RewardsText(a))
		if a.Type == models.ActionOnce && m.tracker.IsOnceDone(a.ID) {
			line += " ✅"
		}
		if i == m.sceneCursor {
			b.WriteString(selectedStyle.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) viewConfirmDelete() string {
	name := ""
	if a, ok := m.tracker.ActionByID(m.actionToDeleteID); ok {
		name = a.Name
	}
	return lipgloss.Place(m.width, max(m.height-4, 1),
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			dangerStyle.Render(fmt.Sprintf("Delete %q?", name)),
			"History and once-done markers are kept.",
			"",
			"[y] Yes",
			"[n] No",
		),
	)
}
