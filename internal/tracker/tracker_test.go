package tracker

import (
	"errors"
	"testing"
	"time"

	"github.com/julianstephens/selfrpg/internal/models"
)

var fixedNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

type memStore struct {
	state   *models.State
	saves   int
	saveErr error
	resets  int
}

func (m *memStore) Load() (*models.State, error) {
	if m.state == nil {
		m.state = models.DefaultState(fixedNow)
	}
	return m.state.Clone(), nil
}

func (m *memStore) Save(s *models.State) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.state = s.Clone()
	return nil
}

func (m *memStore) Reset() error {
	m.resets++
	m.state = nil
	return nil
}

func newTracker(t *testing.T, state *models.State) (*Tracker, *memStore) {
	t.Helper()
	store := &memStore{state: state}
	tr, err := New(store, WithClock(func() time.Time { return fixedNow }))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return tr, store
}

// fourAttrs builds the A/B/C/D fixture with no actions.
func fourAttrs() *models.State {
	s := &models.State{}
	for _, n := range []string{"A", "B", "C", "D"} {
		s.Attributes = append(s.Attributes, models.Attribute{ID: "attr-" + n, Name: n, Icon: n})
	}
	s.Normalize()
	return s
}

func TestAddAttribute(t *testing.T) {
	tr, store := newTracker(t, fourAttrs())

	attr, err := tr.AddAttribute("  Focus  ", "")
	if err != nil {
		t.Fatalf("AddAttribute failed: %v", err)
	}
	if attr.Name != "Focus" {
		t.Errorf("expected trimmed name, got %q", attr.Name)
	}
	if attr.Icon != "✨" {
		t.Errorf("expected default icon, got %q", attr.Icon)
	}
	if attr.XP != 0 || !attr.CreatedAt.Equal(fixedNow) {
		t.Errorf("unexpected attribute: %+v", attr)
	}
	if store.saves != 1 {
		t.Errorf("expected one save, got %d", store.saves)
	}

	attrs := tr.Attributes()
	if attrs[len(attrs)-1].ID != attr.ID {
		t.Error("new attribute should be appended last")
	}
}

func TestAddAttributeEmptyName(t *testing.T) {
	tr, store := newTracker(t, fourAttrs())

	if _, err := tr.AddAttribute("   ", "🔥"); !errors.Is(err, ErrEmptyName) {
		t.Fatalf("error = %v, want %v", err, ErrEmptyName)
	}
	if len(tr.Attributes()) != 4 || store.saves != 0 {
		t.Error("state changed on rejected input")
	}
}

func TestAddAction(t *testing.T) {
	tr, _ := newTracker(t, fourAttrs())

	action, err := tr.AddAction("Run", models.ActionDaily, []RewardDraft{
		{AttributeID: "attr-A", XP: 15},
		{AttributeID: "attr-B", XP: 0},
		{AttributeID: "attr-C", XP: -3},
		{AttributeID: "attr-D", XP: 5},
	})
	if err != nil {
		t.Fatalf("AddAction failed: %v", err)
	}
	if !action.IsActive || action.Type != models.ActionDaily {
		t.Errorf("unexpected action: %+v", action)
	}
	if len(action.Rewards) != 2 {
		t.Fatalf("expected non-positive drafts to be dropped, got %d rewards", len(action.Rewards))
	}
	if action.Rewards[0].AttributeID != "attr-A" || action.Rewards[1].AttributeID != "attr-D" {
		t.Errorf("unexpected rewards: %+v", action.Rewards)
	}
}

func TestAddActionRejections(t *testing.T) {
	tests := []struct {
		name    string
		state   *models.State
		action  string
		typ     models.ActionType
		drafts  []RewardDraft
		wantErr error
	}{
		{"empty name", fourAttrs(), "  ", models.ActionDaily, []RewardDraft{{"attr-A", 1}}, ErrEmptyName},
		{"bad type", fourAttrs(), "Run", models.ActionType("weekly"), []RewardDraft{{"attr-A", 1}}, ErrInvalidActionType},
		{"no attributes", &models.State{}, "Run", models.ActionDaily, nil, ErrNoAttributes},
		{"no positive reward", fourAttrs(), "Run", models.ActionOnce, []RewardDraft{{"attr-A", 0}}, ErrNoRewards},
		{"no drafts", fourAttrs(), "Run", models.ActionOnce, nil, ErrNoRewards},
		{"unknown attribute", fourAttrs(), "Run", models.ActionDaily, []RewardDraft{{"nope", 5}}, ErrUnknownAttribute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, store := newTracker(t, tt.state)
			before := len(tr.AllActions())

			_, err := tr.AddAction(tt.action, tt.typ, tt.drafts)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
			if len(tr.AllActions()) != before || store.saves != 0 {
				t.Error("state changed on rejected input")
			}
		})
	}
}

func TestDoActionAppliesRewards(t *testing.T) {
	tr, _ := newTracker(t, fourAttrs())
	action, err := tr.AddAction("Study", models.ActionDaily, []RewardDraft{
		{AttributeID: "attr-A", XP: 15},
		{AttributeID: "attr-D", XP: 5},
	})
	if err != nil {
		t.Fatalf("AddAction failed: %v", err)
	}

	res, err := tr.DoAction(action.ID)
	if err != nil {
		t.Fatalf("DoAction failed: %v", err)
	}
	if !res.Applied || res.Entry == nil {
		t.Fatalf("expected applied result, got %+v", res)
	}

	a, _ := tr.AttributeByID("attr-A")
	d, _ := tr.AttributeByID("attr-D")
	b, _ := tr.AttributeByID("attr-B")
	if a.XP != 15 || d.XP != 5 || b.XP != 0 {
		t.Errorf("unexpected xp: A=%v D=%v B=%v", a.XP, d.XP, b.XP)
	}

	logs := tr.Logs()
	if len(logs) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(logs))
	}
	if logs[0].ActionID != action.ID || len(logs[0].RewardsApplied) != 2 || !logs[0].Date.Equal(fixedNow) {
		t.Errorf("unexpected log entry: %+v", logs[0])
	}
}

func TestDoActionDailyRepeats(t *testing.T) {
	tr, _ := newTracker(t, fourAttrs())
	action, _ := tr.AddAction("Walk", models.ActionDaily, []RewardDraft{{AttributeID: "attr-B", XP: 10}})

	for i := 0; i < 2; i++ {
		if _, err := tr.DoAction(action.ID); err != nil {
			t.Fatalf("DoAction #%d failed: %v", i+1, err)
		}
	}

	b, _ := tr.AttributeByID("attr-B")
	if b.XP != 20 {
		t.Errorf("expected 20 xp after two runs, got %v", b.XP)
	}
	if len(tr.Logs()) != 2 {
		t.Errorf("expected 2 log entries, got %d", len(tr.Logs()))
	}
}

func TestDoActionOnceOnlyOnce(t *testing.T) {
	tr, store := newTracker(t, fourAttrs())
	action, _ := tr.AddAction("Sign up", models.ActionOnce, []RewardDraft{{AttributeID: "attr-C", XP: 50}})

	first, err := tr.DoAction(action.ID)
	if err != nil || !first.Applied {
		t.Fatalf("first DoAction = %+v, %v", first, err)
	}
	savesAfterFirst := store.saves

	second, err := tr.DoAction(action.ID)
	if err != nil {
		t.Fatalf("second DoAction returned error: %v", err)
	}
	if second.Applied || second.Entry != nil {
		t.Errorf("second run should be a no-op, got %+v", second)
	}
	if store.saves != savesAfterFirst {
		t.Error("no-op run should not persist")
	}

	c, _ := tr.AttributeByID("attr-C")
	if c.XP != 50 {
		t.Errorf("expected 50 xp, got %v", c.XP)
	}
	if len(tr.Logs()) != 1 {
		t.Errorf("expected 1 log entry, got %d", len(tr.Logs()))
	}
	if !tr.IsOnceDone(action.ID) {
		t.Error("once action not marked done")
	}

	act, _ := tr.FindAction(action.ID)
	if tr.CanDo(act) {
		t.Error("CanDo should be false for a done once action")
	}
}

func TestDoActionLevelUps(t *testing.T) {
	tr, _ := newTracker(t, fourAttrs())
	action, _ := tr.AddAction("Marathon", models.ActionDaily, []RewardDraft{{AttributeID: "attr-A", XP: 400}})

	res, err := tr.DoAction(action.ID)
	if err != nil {
		t.Fatalf("DoAction failed: %v", err)
	}
	if lvl := res.LevelUps["attr-A"]; lvl != 3 {
		t.Errorf("expected level up to 3, got %d", lvl)
	}
}

func TestDoActionSkipsDanglingRewards(t *testing.T) {
	state := fourAttrs()
	state.Actions = []models.Action{{
		ID:       "act-1",
		Name:     "Orphaned",
		Type:     models.ActionDaily,
		IsActive: true,
		Rewards: []models.Reward{
			{AttributeID: "gone", XP: 10},
			{AttributeID: "attr-A", XP: 7},
		},
	}}
	tr, _ := newTracker(t, state)

	res, err := tr.DoAction("act-1")
	if err != nil {
		t.Fatalf("DoAction failed: %v", err)
	}
	if res.Skipped != 1 {
		t.Errorf("expected 1 skipped reward, got %d", res.Skipped)
	}
	a, _ := tr.AttributeByID("attr-A")
	if a.XP != 7 {
		t.Errorf("expected 7 xp, got %v", a.XP)
	}
	if len(res.Entry.RewardsApplied) != 2 {
		t.Errorf("log entry should copy all listed rewards, got %d", len(res.Entry.RewardsApplied))
	}
	if got := tr.RewardsText(res.Action); got != "A 7xp" {
		t.Errorf("RewardsText = %q, want %q", got, "A 7xp")
	}
}

func TestDoActionNegativeRewardIgnored(t *testing.T) {
	state := fourAttrs()
	state.Actions = []models.Action{{
		ID: "act-1", Name: "Bad", Type: models.ActionDaily, IsActive: true,
		Rewards: []models.Reward{{AttributeID: "attr-A", XP: -50}},
	}}
	tr, _ := newTracker(t, state)

	if _, err := tr.DoAction("act-1"); err != nil {
		t.Fatalf("DoAction failed: %v", err)
	}
	a, _ := tr.AttributeByID("attr-A")
	if a.XP != 0 {
		t.Errorf("xp must never decrease, got %v", a.XP)
	}
}

func TestDoActionErrors(t *testing.T) {
	tr, _ := newTracker(t, fourAttrs())
	action, _ := tr.AddAction("Stretch", models.ActionDaily, []RewardDraft{{AttributeID: "attr-B", XP: 3}})

	if _, err := tr.DoAction("missing"); !errors.Is(err, ErrActionNotFound) {
		t.Errorf("unknown ref error = %v, want %v", err, ErrActionNotFound)
	}

	if _, err := tr.DeactivateAction(action.ID); err != nil {
		t.Fatalf("DeactivateAction failed: %v", err)
	}
	if _, err := tr.DoAction(action.ID); !errors.Is(err, ErrActionInactive) {
		t.Errorf("inactive action error = %v, want %v", err, ErrActionInactive)
	}
}

func TestDeactivateKeepsHistory(t *testing.T) {
	tr, _ := newTracker(t, fourAttrs())
	action, _ := tr.AddAction("Journal", models.ActionOnce, []RewardDraft{{AttributeID: "attr-A", XP: 1}})
	if _, err := tr.DoAction(action.ID); err != nil {
		t.Fatalf("DoAction failed: %v", err)
	}

	deleted, err := tr.DeactivateAction(action.ID)
	if err != nil {
		t.Fatalf("DeactivateAction failed: %v", err)
	}
	if deleted.IsActive {
		t.Error("action still active")
	}
	if len(tr.Logs()) != 1 || !tr.IsOnceDone(action.ID) {
		t.Error("soft delete must not touch logs or once markers")
	}
	if len(tr.ActiveActions()) != 0 || len(tr.AllActions()) != 1 {
		t.Error("deleted action should be hidden from ActiveActions only")
	}
	if got, ok := tr.ActionByID(tr.Logs()[0].ActionID); !ok || got.Name != "Journal" {
		t.Error("log entry no longer resolves to its action")
	}

	if _, err := tr.DeactivateAction(action.ID); !errors.Is(err, ErrActionInactive) {
		t.Errorf("double delete error = %v, want %v", err, ErrActionInactive)
	}
}

func TestRestoreAction(t *testing.T) {
	tr, _ := newTracker(t, fourAttrs())
	action, _ := tr.AddAction("Swim", models.ActionDaily, []RewardDraft{{AttributeID: "attr-B", XP: 8}})

	if _, err := tr.RestoreAction(action.ID); !errors.Is(err, ErrActionActive) {
		t.Errorf("restore active error = %v, want %v", err, ErrActionActive)
	}

	if _, err := tr.DeactivateAction(action.ID); err != nil {
		t.Fatalf("DeactivateAction failed: %v", err)
	}
	restored, err := tr.RestoreAction(action.ID)
	if err != nil {
		t.Fatalf("RestoreAction failed: %v", err)
	}
	if !restored.IsActive {
		t.Error("action not reactivated")
	}
}

func TestMutationRollsBackOnSaveFailure(t *testing.T) {
	tr, store := newTracker(t, fourAttrs())
	action, _ := tr.AddAction("Lift", models.ActionOnce, []RewardDraft{{AttributeID: "attr-B", XP: 30}})

	store.saveErr = errors.New("disk full")

	if _, err := tr.DoAction(action.ID); err == nil {
		t.Fatal("expected save error")
	}
	b, _ := tr.AttributeByID("attr-B")
	if b.XP != 0 || len(tr.Logs()) != 0 || tr.IsOnceDone(action.ID) {
		t.Error("failed save left a partial mutation behind")
	}

	if _, err := tr.AddAttribute("Music", "🎵"); err == nil {
		t.Fatal("expected save error")
	}
	if len(tr.Attributes()) != 4 {
		t.Error("failed save kept the new attribute")
	}
}

func TestReplaceAll(t *testing.T) {
	tr, store := newTracker(t, nil)

	incoming := &models.State{
		Attributes: []models.Attribute{{ID: "x", Name: "Only"}},
		Actions:    []models.Action{},
	}
	if err := tr.ReplaceAll(incoming); err != nil {
		t.Fatalf("ReplaceAll failed: %v", err)
	}
	if got := tr.Attributes(); len(got) != 1 || got[0].Name != "Only" {
		t.Errorf("unexpected attributes after import: %+v", got)
	}
	if store.state.Logs == nil || store.state.OnceDone == nil {
		t.Error("imported state was not normalized before saving")
	}

	incoming.Attributes[0].Name = "mutated"
	if got := tr.Attributes(); got[0].Name != "Only" {
		t.Error("tracker aliases the caller's state")
	}

	if err := tr.ReplaceAll(nil); !errors.Is(err, ErrNilState) {
		t.Errorf("ReplaceAll(nil) error = %v, want %v", err, ErrNilState)
	}
}

func TestReset(t *testing.T) {
	tr, store := newTracker(t, fourAttrs())
	if _, err := tr.AddAttribute("Extra", ""); err != nil {
		t.Fatalf("AddAttribute failed: %v", err)
	}

	if err := tr.Reset(); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	if store.resets != 1 {
		t.Errorf("expected storage reset, got %d", store.resets)
	}
	attrs := tr.Attributes()
	if len(attrs) != 4 || attrs[0].Name != "Erudition" {
		t.Errorf("expected default document after reset, got %+v", attrs)
	}
	if len(tr.ActiveActions()) != 1 {
		t.Error("expected default action after reset")
	}
}

func TestDefaultDocumentRewardsText(t *testing.T) {
	tr, _ := newTracker(t, nil)

	actions := tr.ActiveActions()
	if len(actions) != 1 {
		t.Fatalf("expected 1 default action, got %d", len(actions))
	}
	if got, want := tr.RewardsText(actions[0]), "🧠 15xp · 🎓 5xp"; got != want {
		t.Errorf("RewardsText = %q, want %q", got, want)
	}
}
