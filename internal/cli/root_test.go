package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/selfrpg/internal/constants"
	"github.com/julianstephens/selfrpg/internal/lock"
	"github.com/julianstephens/selfrpg/internal/storage"
)

var testNow = time.Date(2026, 5, 1, 9, 30, 0, 0, time.UTC)

func setupTestContext(t *testing.T) (*Context, *bytes.Buffer) {
	t.Helper()
	tempDir := t.TempDir()

	store := storage.NewSQLiteStore(filepath.Join(tempDir, "selfrpg.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	out := &bytes.Buffer{}
	ctx := &Context{
		Store:     store,
		ConfigDir: tempDir,
		Out:       out,
		In:        strings.NewReader(""),
		Now:       func() time.Time { return testNow },
	}
	return ctx, out
}

func TestReadOnly(t *testing.T) {
	tests := []struct {
		command string
		want    bool
	}{
		{"attr list", true},
		{"attr show <ref>", true},
		{"attr add <name>", false},
		{"action do <ref>", false},
		{"log", true},
		{"radar", true},
		{"export", true},
		{"import <file>", false},
		{"backup restore <backup-file>", false},
		{"debug dump <kind> <ref>", true},
		{"tui", false},
	}
	for _, tt := range tests {
		if got := ReadOnly(tt.command); got != tt.want {
			t.Errorf("ReadOnly(%q) = %v, want %v", tt.command, got, tt.want)
		}
	}
}

func TestNeedsStore(t *testing.T) {
	if NeedsStore("keyring set <conn-string>") {
		t.Error("keyring commands must not open storage")
	}
	if !NeedsStore("doctor") {
		t.Error("doctor needs storage")
	}
}

func TestAcquireLock(t *testing.T) {
	dir := t.TempDir()

	l, err := AcquireLock(dir, "radar")
	if err != nil || l == nil {
		t.Fatalf("read-only command should hold a free lock, got %v, %v", l, err)
	}
	if err := l.Release(); err != nil {
		t.Fatal(err)
	}

	// A lockfile whose owner has not written its pid yet is held.
	held := filepath.Join(dir, constants.LockfileName)
	if err := os.WriteFile(held, nil, 0600); err != nil {
		t.Fatal(err)
	}

	l, err = AcquireLock(dir, "attr list")
	if err != nil || l != nil {
		t.Errorf("read-only command under a held lock = %v, %v, want nil, nil", l, err)
	}
	if _, err := AcquireLock(dir, "action do <ref>"); !errors.Is(err, lock.ErrLocked) {
		t.Errorf("writing command under a held lock = %v, want %v", err, lock.ErrLocked)
	}
	if _, err := os.Stat(held); err != nil {
		t.Errorf("held lockfile was removed: %v", err)
	}
}

func TestParseReward(t *testing.T) {
	tests := []struct {
		in      string
		ref     string
		xp      float64
		wantErr bool
	}{
		{"Health=10", "Health", 10, false},
		{"a=b=2.5", "a=b", 2.5, false},
		{" Career = 5 ", "Career", 5, false},
		{"Health", "", 0, true},
		{"=10", "", 0, true},
		{"Health=", "", 0, true},
		{"Health=ten", "", 0, true},
	}
	for _, tt := range tests {
		ref, xp, err := parseReward(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseReward(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && (ref != tt.ref || xp != tt.xp) {
			t.Errorf("parseReward(%q) = %q, %v; want %q, %v", tt.in, ref, xp, tt.ref, tt.xp)
		}
	}
}

func TestConfirm(t *testing.T) {
	for input, want := range map[string]bool{"y\n": true, "YES\n": true, "n\n": false, "": false, "maybe\n": false} {
		ctx, _ := setupTestContext(t)
		ctx.In = strings.NewReader(input)
		got, err := ctx.confirm("Continue?")
		if err != nil {
			t.Fatalf("confirm(%q) failed: %v", input, err)
		}
		if got != want {
			t.Errorf("confirm(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestPrintfGroupsThousands(t *testing.T) {
	ctx, out := setupTestContext(t)
	ctx.printf("%d\n", 12345)
	if out.String() != "12,345\n" {
		t.Errorf("got %q", out.String())
	}
}
