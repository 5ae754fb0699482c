package lock

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/selfrpg/internal/constants"
)

type mockProcess struct {
	pid        int
	executable string
}

func (m *mockProcess) Pid() int {
	return m.pid
}

func (m *mockProcess) PPid() int {
	return 0
}

func (m *mockProcess) Executable() string {
	return m.executable
}

func withFindProcess(t *testing.T, fn func(int) (ps.Process, error)) {
	t.Helper()
	old := findProcessFunc
	findProcessFunc = fn
	t.Cleanup(func() { findProcessFunc = old })
}

func writeLockfile(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, constants.LockfileName)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestAcquireAndRelease(t *testing.T) {
	dir := t.TempDir()

	l, err := Acquire(dir)
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	if _, err := os.Stat(l.Path()); err != nil {
		t.Fatalf("lockfile missing: %v", err)
	}

	if err := l.Release(); err != nil {
		t.Fatalf("Release failed: %v", err)
	}
	if _, err := os.Stat(l.Path()); !os.IsNotExist(err) {
		t.Error("lockfile still present after Release")
	}
	// A second release is harmless.
	if err := l.Release(); err != nil {
		t.Errorf("second Release failed: %v", err)
	}
}

func TestAcquireHeldByLiveProcess(t *testing.T) {
	dir := t.TempDir()
	writeLockfile(t, dir, "424242|selfrpg")
	withFindProcess(t, func(pid int) (ps.Process, error) {
		return &mockProcess{pid: pid, executable: "selfrpg"}, nil
	})

	_, err := Acquire(dir)
	if !errors.Is(err, ErrLocked) {
		t.Fatalf("Acquire error = %v, want %v", err, ErrLocked)
	}
}

func TestAcquireTakesOverStaleLock(t *testing.T) {
	tests := []struct {
		name    string
		content string
		age     time.Duration
		find    func(int) (ps.Process, error)
	}{
		{
			name:    "process gone",
			content: "424242|selfrpg",
			find:    func(int) (ps.Process, error) { return nil, nil },
		},
		{
			name:    "pid reused by another program",
			content: "424242|selfrpg",
			find: func(pid int) (ps.Process, error) {
				return &mockProcess{pid: pid, executable: "bash"}, nil
			},
		},
		{
			name:    "lookup error",
			content: "424242|selfrpg",
			find:    func(int) (ps.Process, error) { return nil, errors.New("boom") },
		},
		{
			name:    "old garbage content",
			content: "not-a-pid",
			age:     time.Minute,
			find: func(pid int) (ps.Process, error) {
				return &mockProcess{pid: pid, executable: "selfrpg"}, nil
			},
		},
		{
			name:    "old empty lockfile",
			content: "",
			age:     time.Minute,
			find: func(pid int) (ps.Process, error) {
				return &mockProcess{pid: pid, executable: "selfrpg"}, nil
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := writeLockfile(t, dir, tt.content)
			if tt.age > 0 {
				old := time.Now().Add(-tt.age)
				if err := os.Chtimes(path, old, old); err != nil {
					t.Fatal(err)
				}
			}
			withFindProcess(t, tt.find)

			l, err := Acquire(dir)
			if err != nil {
				t.Fatalf("Acquire failed: %v", err)
			}
			defer l.Release()
		})
	}
}

func TestAcquireUnwrittenLockfileIsHeld(t *testing.T) {
	for _, content := range []string{"", "not-a-pid"} {
		dir := t.TempDir()
		path := writeLockfile(t, dir, content)
		withFindProcess(t, func(int) (ps.Process, error) {
			t.Error("no process lookup expected without a pid")
			return nil, nil
		})

		_, err := Acquire(dir)
		if !errors.Is(err, ErrLocked) {
			t.Fatalf("Acquire over %q lockfile = %v, want %v", content, err, ErrLocked)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("lockfile was removed: %v", err)
		}
		if string(data) != content {
			t.Errorf("lockfile rewritten to %q", data)
		}
	}
}

func TestAcquireWritesPidBeforeLockfileAppears(t *testing.T) {
	dir := t.TempDir()
	oldPid := getpidFunc
	getpidFunc = func() int { return 31337 }
	t.Cleanup(func() { getpidFunc = oldPid })

	l, err := Acquire(dir)
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	defer l.Release()

	data, err := os.ReadFile(l.Path())
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "31337|selfrpg" {
		t.Errorf("lockfile content = %q", data)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if e.Name() != constants.LockfileName && strings.HasPrefix(e.Name(), ".") {
			t.Errorf("temp file %s left behind", e.Name())
		}
	}
}

func TestAcquireOwnPidIsStale(t *testing.T) {
	dir := t.TempDir()
	writeLockfile(t, dir, "1000|selfrpg")

	oldPid := getpidFunc
	getpidFunc = func() int { return 1000 }
	t.Cleanup(func() { getpidFunc = oldPid })
	withFindProcess(t, func(pid int) (ps.Process, error) {
		return &mockProcess{pid: pid, executable: "selfrpg"}, nil
	})

	l, err := Acquire(dir)
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	defer l.Release()
}

func TestReleaseNil(t *testing.T) {
	var l *Lock
	if err := l.Release(); err != nil {
		t.Errorf("Release on nil lock returned %v", err)
	}
}
