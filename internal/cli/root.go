package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/julianstephens/selfrpg/internal/backup"
	"github.com/julianstephens/selfrpg/internal/lock"
	"github.com/julianstephens/selfrpg/internal/logger"
	"github.com/julianstephens/selfrpg/internal/models"
	"github.com/julianstephens/selfrpg/internal/storage"
	"github.com/julianstephens/selfrpg/internal/tracker"
)

type Context struct {
	Store     storage.Provider
	ConfigDir string
	Out       io.Writer
	In        io.Reader
	Now       func() time.Time

	tracker *tracker.Tracker
	backups *backup.Manager
	printer *message.Printer
}

// Tracker loads the document on first use.
func (c *Context) Tracker() (*tracker.Tracker, error) {
	if c.tracker != nil {
		return c.tracker, nil
	}
	t, err := tracker.New(c.Store, tracker.WithClock(c.now))
	if err != nil {
		return nil, err
	}
	c.tracker = t
	return t, nil
}

// Backups returns the snapshot manager for the config directory.
func (c *Context) Backups() *backup.Manager {
	if c.backups == nil {
		c.backups = backup.NewManager(c.ConfigDir)
	}
	return c.backups
}

// Snapshot saves the current document before a destructive command.
func (c *Context) Snapshot(t *tracker.Tracker) (string, error) {
	path, err := c.Backups().CreateBackup(t.State())
	if err != nil {
		return "", fmt.Errorf("failed to snapshot current state: %w", err)
	}
	logger.Info("Snapshot created", "path", path)
	return path, nil
}

// PerformAutomaticBackup creates a snapshot and only logs failures.
func (c *Context) PerformAutomaticBackup(t *tracker.Tracker) {
	if _, err := c.Backups().CreateBackup(t.State()); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

func (c *Context) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

func (c *Context) out() io.Writer {
	if c.Out != nil {
		return c.Out
	}
	return os.Stdout
}

func (c *Context) in() io.Reader {
	if c.In != nil {
		return c.In
	}
	return os.Stdin
}

// printf writes through a locale printer so %d gets thousands separators.
func (c *Context) printf(format string, args ...interface{}) {
	if c.printer == nil {
		c.printer = message.NewPrinter(language.English)
	}
	c.printer.Fprintf(c.out(), format, args...)
}

func (c *Context) println(args ...interface{}) {
	fmt.Fprintln(c.out(), args...)
}

// confirm asks a yes/no question on In. Anything but y/yes is a no.
func (c *Context) confirm(prompt string) (bool, error) {
	c.printf("%s [y/N]: ", prompt)
	response, err := bufio.NewReader(c.in()).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes", nil
}

// readOnlyCommands never write the document and run without the lock.
var readOnlyCommands = map[string]bool{
	"attr list":      true,
	"attr show":      true,
	"action list":    true,
	"log":            true,
	"radar":          true,
	"export":         true,
	"backup send":    true,
	"backup list":    true,
	"doctor":         true,
	"validate":       true,
	"debug db-path":  true,
	"debug dump":     true,
	"keyring set":    true,
	"keyring delete": true,
	"keyring status": true,
}

// commandPath strips kong's positional placeholders ("<ref>") from a
// selected command.
func commandPath(command string) string {
	var words []string
	for _, f := range strings.Fields(command) {
		if strings.HasPrefix(f, "<") {
			continue
		}
		words = append(words, f)
	}
	return strings.Join(words, " ")
}

// ReadOnly reports whether command leaves the document untouched.
func ReadOnly(command string) bool {
	return readOnlyCommands[commandPath(command)]
}

// AcquireLock takes the process lock in dir before command touches the
// document. Writing commands fail when another selfrpg holds it. Read-only
// commands hold it when it is free, since loading may still bootstrap or
// regenerate the document, and otherwise run alongside the holder with a nil
// Lock.
func AcquireLock(dir, command string) (*lock.Lock, error) {
	l, err := lock.Acquire(dir)
	if err == nil {
		return l, nil
	}
	if ReadOnly(command) && errors.Is(err, lock.ErrLocked) {
		logger.Debug("Reading without the lock", "command", command, "reason", err)
		return nil, nil
	}
	return nil, err
}

// NeedsStore reports whether command opens the configured storage.
func NeedsStore(command string) bool {
	return !strings.HasPrefix(commandPath(command), "keyring")
}

func (c *Context) number(v float64) string {
	return tracker.FormatNumber(v)
}

// parseReward splits an ATTR=XP flag value. The attribute part may itself
// contain "=", so the last one separates the XP.
func parseReward(s string) (string, float64, error) {
	i := strings.LastIndex(s, "=")
	if i <= 0 || i == len(s)-1 {
		return "", 0, fmt.Errorf("invalid reward %q: expected ATTR=XP", s)
	}
	xp, err := strconv.ParseFloat(strings.TrimSpace(s[i+1:]), 64)
	if err != nil {
		return "", 0, fmt.Errorf("invalid XP in reward %q: %w", s, err)
	}
	return strings.TrimSpace(s[:i]), xp, nil
}

func typeBadge(t models.ActionType) string {
	if t == models.ActionOnce {
		return "once"
	}
	return "daily"
}

func actionStatus(t *tracker.Tracker, a models.Action) string {
	switch {
	case !a.IsActive:
		return "deleted"
	case a.Type == models.ActionOnce && t.IsOnceDone(a.ID):
		return "done"
	default:
		return "active"
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
