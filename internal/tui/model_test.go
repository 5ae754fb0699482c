package tui

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/selfrpg/internal/models"
	"github.com/julianstephens/selfrpg/internal/storage"
	"github.com/julianstephens/selfrpg/internal/tracker"
	"github.com/julianstephens/selfrpg/internal/tui/components/actionlist"
	"github.com/julianstephens/selfrpg/internal/tui/components/attrlist"
)

func setupTestModel(t *testing.T) (Model, *tracker.Tracker) {
	t.Helper()
	store := storage.NewJSONStore(filepath.Join(t.TempDir(), "selfrpg.json"))
	t.Cleanup(func() { _ = store.Close() })

	clock := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	tr, err := tracker.New(store, tracker.WithClock(func() time.Time { return clock }))
	if err != nil {
		t.Fatalf("failed to create tracker: %v", err)
	}
	return NewModel(tr), tr
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return nm
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestTabNavigation(t *testing.T) {
	m, _ := setupTestModel(t)

	if m.State() != StateAttributes {
		t.Fatalf("initial state = %v, want attributes", m.State())
	}
	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.State() != StateActions {
		t.Errorf("after tab state = %v, want actions", m.State())
	}
	m = update(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.State() != StateLog {
		t.Errorf("shift+tab should wrap to log, got %v", m.State())
	}
}

func TestDoActionUpdatesStatusAndLog(t *testing.T) {
	m, tr := setupTestModel(t)
	action := tr.ActiveActions()[0]

	m = update(t, m, actionlist.DoActionMsg{ID: action.ID})
	if !strings.HasPrefix(m.Status(), "✓ Read a book") {
		t.Errorf("unexpected status %q", m.Status())
	}
	if len(tr.Logs()) != 1 {
		t.Errorf("expected one log entry, got %d", len(tr.Logs()))
	}
}

func TestDoOnceActionTwice(t *testing.T) {
	m, tr := setupTestModel(t)
	attr := tr.Attributes()[0]
	once, err := tr.AddAction("Ship it", models.ActionOnce, []tracker.RewardDraft{{AttributeID: attr.ID, XP: 50}})
	if err != nil {
		t.Fatalf("AddAction failed: %v", err)
	}

	m = update(t, m, actionlist.DoActionMsg{ID: once.ID})
	m = update(t, m, actionlist.DoActionMsg{ID: once.ID})

	if m.Status() != "Once action already done" {
		t.Errorf("unexpected status %q", m.Status())
	}
	if len(tr.Logs()) != 1 {
		t.Errorf("expected one log entry, got %d", len(tr.Logs()))
	}
}

func TestConfirmDelete(t *testing.T) {
	m, tr := setupTestModel(t)
	action := tr.ActiveActions()[0]

	m = update(t, m, actionlist.DeleteActionMsg{ID: action.ID})
	if m.State() != StateConfirmDelete {
		t.Fatalf("state = %v, want confirm delete", m.State())
	}

	m = update(t, m, keyRunes("n"))
	if len(tr.ActiveActions()) != 1 {
		t.Fatal("declining must not delete")
	}

	m = update(t, m, actionlist.DeleteActionMsg{ID: action.ID})
	m = update(t, m, keyRunes("y"))
	if len(tr.ActiveActions()) != 0 {
		t.Error("expected action to be soft-deleted")
	}
	if len(tr.AllActions()) != 1 {
		t.Error("soft delete must keep the action")
	}

	m = update(t, m, actionlist.RestoreActionMsg{ID: action.ID})
	if len(tr.ActiveActions()) != 1 {
		t.Errorf("expected action restored, status %q", m.Status())
	}
}

func TestAttributeScene(t *testing.T) {
	m, tr := setupTestModel(t)
	attr := tr.Attributes()[0] // rewarded by the default action

	m = update(t, m, attrlist.OpenAttributeMsg{ID: attr.ID})
	if m.State() != StateScene {
		t.Fatalf("state = %v, want scene", m.State())
	}
	if !strings.Contains(m.viewScene(), "Read a book") {
		t.Errorf("scene should list the rewarding action:\n%s", m.viewScene())
	}

	m = update(t, m, keyRunes("d"))
	got, _ := tr.AttributeByID(attr.ID)
	if got.XP != 15 {
		t.Errorf("XP after doing from the scene = %v, want 15", got.XP)
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.State() != StateAttributes {
		t.Errorf("esc should return to attributes, got %v", m.State())
	}
}

func TestAddActionWithoutAttributes(t *testing.T) {
	m, tr := setupTestModel(t)
	if err := tr.ReplaceAll(&models.State{Attributes: []models.Attribute{}, Actions: []models.Action{}}); err != nil {
		t.Fatalf("ReplaceAll failed: %v", err)
	}

	m = update(t, m, actionlist.AddActionMsg{})
	if m.State() == StateAddAction {
		t.Error("action form must not open without attributes")
	}
	if !strings.Contains(m.Status(), tracker.ErrNoAttributes.Error()) {
		t.Errorf("unexpected status %q", m.Status())
	}
}

func TestSubmitForms(t *testing.T) {
	m, tr := setupTestModel(t)

	m.attrForm = &AttributeFormModel{Name: "Focus", Icon: "🎯"}
	m.submitAttributeForm()
	if len(tr.Attributes()) != 5 {
		t.Fatalf("expected 5 attributes, got %d", len(tr.Attributes()))
	}

	attrs := tr.Attributes()
	m.actionForm = newActionFormModel(attrs)
	m.actionForm.Name = "Meditate"
	m.actionForm.XP[4] = "12.5"
	m.actionForm.XP[0] = " "
	m.submitActionForm()

	a, err := tr.FindAction("Meditate")
	if err != nil {
		t.Fatalf("action not created: %v (status %q)", err, m.Status())
	}
	if len(a.Rewards) != 1 || a.Rewards[0].AttributeID != attrs[4].ID || a.Rewards[0].XP != 12.5 {
		t.Errorf("unexpected rewards %+v", a.Rewards)
	}

	m.actionForm = newActionFormModel(attrs)
	m.actionForm.Name = "Nothing"
	m.submitActionForm()
	if !strings.Contains(m.Status(), tracker.ErrNoRewards.Error()) {
		t.Errorf("expected no-rewards error, got %q", m.Status())
	}
}

func TestValidationWarning(t *testing.T) {
	m, tr := setupTestModel(t)
	if m.validationWarning != "" {
		t.Fatalf("default state should be clean, got %q", m.validationWarning)
	}

	s := tr.State()
	s.Logs = append(s.Logs, models.LogEntry{ID: "l1", ActionID: "gone"})
	if err := tr.ReplaceAll(s); err != nil {
		t.Fatalf("ReplaceAll failed: %v", err)
	}
	m.refresh()
	if m.validationWarning != "⚠ 1 validation warning(s)" {
		t.Errorf("unexpected warning %q", m.validationWarning)
	}
}

func TestWindowResizeRedrawsRadar(t *testing.T) {
	m, _ := setupTestModel(t)

	m = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
	small := m.radarView.View()
	m = update(t, m, tea.WindowSizeMsg{Width: 60, Height: 20})
	if m.radarView.View() == small {
		t.Error("radar frame should change with the window size")
	}

	m.state = StateRadar
	if !strings.Contains(m.View(), "Lv.1") {
		t.Error("radar tab should show the legend")
	}
}

func TestWindowResizeFitsContent(t *testing.T) {
	m, _ := setupTestModel(t)
	m = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})

	if _, rows := m.radarView.Dimensions(); rows != 40-chromeRows {
		t.Errorf("radar rows = %d, want %d", rows, 40-chromeRows)
	}

	m.state = StateRadar
	if h := lipgloss.Height(m.View()); h > 40 {
		t.Errorf("radar tab is %d rows tall in a 40-row window", h)
	}
}

func TestQuit(t *testing.T) {
	m, _ := setupTestModel(t)
	next, cmd := m.Update(keyRunes("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if next.(Model).View() != "" {
		t.Error("view should be empty after quitting")
	}
}
