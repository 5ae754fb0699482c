// Package lock guards the stored document against concurrent writers with
// a PID lockfile in the config directory.
package lock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/selfrpg/internal/constants"
	"github.com/julianstephens/selfrpg/internal/logger"
)

var (
	findProcessFunc = ps.FindProcess
	getpidFunc      = os.Getpid
	nowFunc         = time.Now
)

// staleGrace is how long a lockfile without a readable PID is honoured.
const staleGrace = 10 * time.Second

var ErrLocked = errors.New("another selfrpg process is using this data")

// Lock is a held lockfile. Release it when the command finishes.
type Lock struct {
	path string
}

// Acquire takes the lockfile in dir. A lockfile left behind by a process
// that is no longer a running selfrpg is taken over.
func Acquire(dir string) (*Lock, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}
	path := filepath.Join(dir, constants.LockfileName)

	for attempt := 0; attempt < 2; attempt++ {
		err := link(dir, path)
		if err == nil {
			return &Lock{path: path}, nil
		}
		if !os.IsExist(err) {
			return nil, err
		}

		pid, live := holder(path)
		if live {
			if pid == 0 {
				return nil, fmt.Errorf("%w (lockfile %s is being written)", ErrLocked, path)
			}
			return nil, fmt.Errorf("%w (pid %d)", ErrLocked, pid)
		}
		logger.Warn("Removing stale lockfile", "path", path, "pid", pid)
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to remove stale lockfile: %w", err)
		}
	}

	return nil, fmt.Errorf("%w: lockfile keeps reappearing at %s", ErrLocked, path)
}

// link writes the pid to a temp file and hard-links it onto path, so the
// lockfile never exists without its owner recorded. The link fails with an
// os.IsExist error when path is already taken.
func link(dir, path string) error {
	tmp, err := os.CreateTemp(dir, "."+constants.LockfileName+"-*")
	if err != nil {
		return fmt.Errorf("failed to create lockfile: %w", err)
	}
	defer os.Remove(tmp.Name())

	_, werr := fmt.Fprintf(tmp, "%d|%s", getpidFunc(), constants.AppName)
	cerr := tmp.Close()
	if werr != nil || cerr != nil {
		return fmt.Errorf("failed to write lockfile: %w", errors.Join(werr, cerr))
	}
	if err := os.Link(tmp.Name(), path); err != nil {
		if os.IsExist(err) {
			return err
		}
		return fmt.Errorf("failed to create lockfile: %w", err)
	}
	return nil
}

// holder reads the lockfile and reports the recorded PID and whether it
// still belongs to a running selfrpg process. A lockfile without a readable
// PID counts as held until it is older than staleGrace.
func holder(path string) (int, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, recent(path)
	}
	pidStr, _, _ := strings.Cut(strings.TrimSpace(string(data)), "|")
	pid, err := strconv.Atoi(pidStr)
	if err != nil || pid <= 0 {
		return 0, recent(path)
	}
	if pid == getpidFunc() {
		return pid, false
	}

	process, err := findProcessFunc(pid)
	if err != nil || process == nil {
		return pid, false
	}
	return pid, strings.HasPrefix(process.Executable(), constants.AppName)
}

func recent(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return nowFunc().Sub(info.ModTime()) < staleGrace
}

// Release removes the lockfile. Calling it on a nil Lock is a no-op.
func (l *Lock) Release() error {
	if l == nil {
		return nil
	}
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to release lock: %w", err)
	}
	return nil
}

// Path returns the lockfile location.
func (l *Lock) Path() string {
	return l.path
}
