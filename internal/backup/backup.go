package backup

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/julianstephens/selfrpg/internal/constants"
	"github.com/julianstephens/selfrpg/internal/logger"
	"github.com/julianstephens/selfrpg/internal/models"
)

// BackupInfo describes one snapshot file.
type BackupInfo struct {
	Path      string
	Timestamp time.Time
	Size      int64
}

// Manager writes, lists, rotates and restores local snapshots. Snapshots
// are RPG_BACKUP messages, so any of them can also be pasted into import.
type Manager struct {
	backupDir string
	now       func() time.Time
}

// NewManager keeps snapshots in configDir/backups.
func NewManager(configDir string) *Manager {
	return &Manager{
		backupDir: filepath.Join(configDir, constants.BackupDirName),
		now:       time.Now,
	}
}

// GetBackupDir returns the backup directory path
func (m *Manager) GetBackupDir() string {
	return m.backupDir
}

// CreateBackup snapshots state and prunes the oldest snapshots beyond
// constants.MaxBackups.
func (m *Manager) CreateBackup(state *models.State) (string, error) {
	return m.createBackup(state, false)
}

// skipRotation keeps a restore from pruning the snapshot it is reading.
func (m *Manager) createBackup(state *models.State, skipRotation bool) (string, error) {
	if state == nil {
		return "", fmt.Errorf("cannot back up nil state")
	}
	if err := os.MkdirAll(m.backupDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	now := m.now()
	backupPath, err := m.uniquePath(now)
	if err != nil {
		return "", err
	}

	text, err := Encode(state, now)
	if err != nil {
		return "", err
	}
	if err := writeFileAtomic(backupPath, []byte(text+"\n")); err != nil {
		return "", fmt.Errorf("failed to write backup: %w", err)
	}
	logger.Info("Backup created", "path", backupPath)

	if !skipRotation {
		if err := m.rotateBackups(); err != nil {
			logger.Warn("Failed to rotate old backups", "error", err)
		}
	}

	return backupPath, nil
}

// uniquePath tries minute precision, then seconds, then a counter.
func (m *Manager) uniquePath(now time.Time) (string, error) {
	name := func(stamp string) string {
		return filepath.Join(m.backupDir, constants.BackupFilePrefix+stamp+constants.BackupFileSuffix)
	}

	path := name(now.Format("20060102-1504"))
	if !exists(path) {
		return path, nil
	}

	stamp := now.Format("20060102-150405")
	path = name(stamp)
	for counter := 1; exists(path); counter++ {
		if counter > 100 {
			return "", fmt.Errorf("failed to generate unique backup filename")
		}
		path = name(fmt.Sprintf("%s-%d", stamp, counter))
	}
	return path, nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// ListBackups returns snapshots newest first. Files whose name does not
// carry a timestamp are ignored.
func (m *Manager) ListBackups() ([]BackupInfo, error) {
	entries, err := os.ReadDir(m.backupDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []BackupInfo{}, nil
		}
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	var backups []BackupInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasPrefix(name, constants.BackupFilePrefix) || !strings.HasSuffix(name, constants.BackupFileSuffix) {
			continue
		}

		timestamp, ok := parseStamp(strings.TrimSuffix(strings.TrimPrefix(name, constants.BackupFilePrefix), constants.BackupFileSuffix))
		if !ok {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}
		backups = append(backups, BackupInfo{
			Path:      filepath.Join(m.backupDir, name),
			Timestamp: timestamp,
			Size:      info.Size(),
		})
	}

	sort.SliceStable(backups, func(i, j int) bool {
		if backups[i].Timestamp.Equal(backups[j].Timestamp) {
			return backups[i].Path > backups[j].Path
		}
		return backups[i].Timestamp.After(backups[j].Timestamp)
	})

	return backups, nil
}

// parseStamp reads YYYYMMDD-HHMM or YYYYMMDD-HHMMSS with an optional -N
// counter.
func parseStamp(s string) (time.Time, bool) {
	parts := strings.Split(s, "-")
	if len(parts) == 3 && isDigits(parts[2]) {
		s = parts[0] + "-" + parts[1]
	}
	for _, layout := range []string{"20060102-1504", "20060102-150405"} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func (m *Manager) rotateBackups() error {
	backups, err := m.ListBackups()
	if err != nil {
		return err
	}
	for i := constants.MaxBackups; i < len(backups); i++ {
		if err := os.Remove(backups[i].Path); err != nil {
			return fmt.Errorf("failed to remove old backup %s: %w", backups[i].Path, err)
		}
		logger.Debug("Rotated old backup", "path", backups[i].Path)
	}
	return nil
}

// ReadBackup parses a snapshot (or any import file) into a state.
func (m *Manager) ReadBackup(backupPath string) (*models.State, error) {
	data, err := os.ReadFile(backupPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("backup file does not exist: %s", backupPath)
		}
		return nil, fmt.Errorf("failed to read backup: %w", err)
	}
	state, err := ParseImport(string(data))
	if err != nil {
		return nil, fmt.Errorf("backup file is corrupted or invalid: %w", err)
	}
	return state, nil
}

// RestoreBackup validates backupPath, snapshots current (without rotation)
// and returns the state to install. Nothing is written over the live
// document here; the caller swaps it in.
func (m *Manager) RestoreBackup(backupPath string, current *models.State) (*models.State, string, error) {
	restored, err := m.ReadBackup(backupPath)
	if err != nil {
		return nil, "", err
	}

	var safety string
	if current != nil {
		safety, err = m.createBackup(current, true)
		if err != nil {
			return nil, "", fmt.Errorf("failed to back up current state before restore: %w", err)
		}
	}
	return restored, safety, nil
}

// ResolvePath accepts a full path or a bare file name inside the backup
// directory.
func (m *Manager) ResolvePath(ref string) string {
	if exists(ref) || filepath.IsAbs(ref) || strings.ContainsRune(ref, os.PathSeparator) {
		return ref
	}
	return filepath.Join(m.backupDir, ref)
}

func writeFileAtomic(path string, data []byte) error {
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		if removeErr := os.Remove(tmpPath); removeErr != nil {
			logger.Warn("Failed to remove temporary file", "path", tmpPath, "error", removeErr)
		}
		return err
	}
	return nil
}
