package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/selfrpg/internal/backup"
	"github.com/julianstephens/selfrpg/internal/constants"
)

type BackupSendCmd struct {
	Bot string `help:"Bot username that stores the backup." default:"${default_bot}"`
}

func (c *BackupSendCmd) Run(ctx *Context) error {
	t, err := ctx.Tracker()
	if err != nil {
		return err
	}

	res, err := backup.Send(t.State(), c.Bot, ctx.now())
	if err != nil {
		return fmt.Errorf("backup failed: %w", err)
	}

	if res.Copied {
		ctx.println("✓ Backup copied to the clipboard.")
	} else {
		ctx.println("Clipboard unavailable; copy the backup below:")
		ctx.println()
		ctx.println(res.Text)
		ctx.println()
	}
	if res.Opened {
		ctx.printf("✓ Opened %s\n", res.URL)
	} else {
		ctx.printf("Open %s in your browser.\n", res.URL)
	}
	ctx.println("Paste the message into the chat and send it.")
	ctx.println("To restore later, copy the message back and run 'selfrpg import'.")
	return nil
}

type BackupCreateCmd struct{}

func (c *BackupCreateCmd) Run(ctx *Context) error {
	t, err := ctx.Tracker()
	if err != nil {
		return err
	}

	backupPath, err := ctx.Backups().CreateBackup(t.State())
	if err != nil {
		return fmt.Errorf("backup failed: %w", err)
	}

	ctx.printf("✓ Backup created: %s\n", filepath.Base(backupPath))
	return nil
}

type BackupListCmd struct{}

func (c *BackupListCmd) Run(ctx *Context) error {
	mgr := ctx.Backups()
	backups, err := mgr.ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}

	if len(backups) == 0 {
		ctx.println("No backups found.")
		ctx.printf("Backups are stored in: %s\n", mgr.GetBackupDir())
		return nil
	}

	ctx.printf("Available backups (%d total, keeping most recent %d):\n\n", len(backups), constants.MaxBackups)
	for _, b := range backups {
		sizeKB := float64(b.Size) / 1024.0
		timestamp := b.Timestamp.Format("2006-01-02 15:04:05")
		ctx.printf("  %s  %s  (%.1f KB)\n", timestamp, filepath.Base(b.Path), sizeKB)
	}
	ctx.printf("\nBackup directory: %s\n", mgr.GetBackupDir())
	return nil
}

type BackupRestoreCmd struct {
	BackupFile string `arg:"" help:"Path or filename of the backup to restore."`
	Yes        bool   `short:"y" help:"Skip the confirmation prompt."`
}

func (c *BackupRestoreCmd) Run(ctx *Context) error {
	mgr := ctx.Backups()
	backupPath := mgr.ResolvePath(c.BackupFile)
	if _, err := os.Stat(backupPath); os.IsNotExist(err) {
		return fmt.Errorf("backup file not found: %s", backupPath)
	}

	if !c.Yes {
		ctx.println("⚠️  WARNING: This will replace your current data with the backup.")
		ctx.println("A backup of your current data will be created before restoring.")
		ctx.printf("\nRestore from: %s\n", filepath.Base(backupPath))
		ok, err := ctx.confirm("Continue?")
		if err != nil {
			return err
		}
		if !ok {
			ctx.println("Restore cancelled.")
			return nil
		}
	}

	t, err := ctx.Tracker()
	if err != nil {
		return err
	}
	restored, safety, err := mgr.RestoreBackup(backupPath, t.State())
	if err != nil {
		return fmt.Errorf("restore failed: %w", err)
	}
	if err := t.ReplaceAll(restored); err != nil {
		return fmt.Errorf("restore failed: %w", err)
	}

	ctx.println("✓ Data restored successfully!")
	if safety != "" {
		ctx.printf("Previous state saved to: %s\n", filepath.Base(safety))
	}
	return nil
}
