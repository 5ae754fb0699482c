package cli

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/selfrpg/internal/migration"
	"github.com/julianstephens/selfrpg/internal/storage"
	"github.com/julianstephens/selfrpg/internal/validation"
	"github.com/julianstephens/selfrpg/migrations"
)

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *Context) error {
	ctx.println("Running diagnostics...")
	ctx.println()

	hasError := false
	dbReachable := false

	// Check 1: storage reachable
	if err := checkDBReachable(ctx); err != nil {
		ctx.printf("❌ Storage reachable: FAIL\n")
		ctx.printf("   Error: %v\n", err)
		hasError = true
	} else {
		ctx.printf("✓ Storage reachable: OK\n")
		dbReachable = true
	}

	// Check 2: migrations (SQL backends only)
	if dbReachable {
		if err := checkMigrations(ctx); err != nil {
			ctx.printf("❌ Schema version: FAIL\n")
			ctx.printf("   Error: %v\n", err)
			hasError = true
		} else {
			ctx.printf("✓ Schema version: OK\n")
		}
	}

	// Check 3: backups present (warning only)
	if err := checkBackupsPresent(ctx); err != nil {
		ctx.printf("⚠ Backups present: WARNING\n")
		ctx.printf("   %v\n", err)
	} else {
		ctx.printf("✓ Backups present: OK\n")
	}

	// Check 4: document consistency (warning only; imports are trusted)
	if dbReachable {
		if result := checkValidation(ctx); result.HasConflicts() {
			ctx.printf("⚠ Data validation: WARNING (%d issues, see 'selfrpg validate')\n", len(result.Conflicts))
		} else {
			ctx.printf("✓ Data validation: OK\n")
		}
	} else {
		ctx.printf("⊘ Data validation: SKIPPED (storage not reachable)\n")
	}

	// Check 5: clock sanity
	if err := checkClock(ctx.now()); err != nil {
		ctx.printf("❌ Clock: FAIL\n")
		ctx.printf("   Error: %v\n", err)
		hasError = true
	} else {
		ctx.printf("✓ Clock: OK\n")
	}

	ctx.println()
	if hasError {
		ctx.println("Diagnostics completed with errors.")
		return errors.New("one or more health checks failed")
	}

	ctx.println("All diagnostics passed!")
	return nil
}

func checkDBReachable(ctx *Context) error {
	if _, err := ctx.Tracker(); err != nil {
		return err
	}

	db, _, ok := sqlHandle(ctx.Store)
	if !ok {
		return nil
	}
	if db == nil {
		return errors.New("database connection is nil")
	}
	var result int
	if err := db.QueryRow("SELECT 1").Scan(&result); err != nil {
		return fmt.Errorf("failed to query database: %w", err)
	}
	return nil
}

// sqlHandle returns the open handle and migration runner inputs for SQL
// backends.
func sqlHandle(p storage.Provider) (*sql.DB, func(*sql.DB) (*migration.Runner, error), bool) {
	switch s := p.(type) {
	case *storage.SQLiteStore:
		return s.GetDB(), func(db *sql.DB) (*migration.Runner, error) {
			return migration.NewRunner(db, migrations.SQLite(), migration.DriverSQLite)
		}, true
	case *storage.PostgresStore:
		return s.GetDB(), func(db *sql.DB) (*migration.Runner, error) {
			return migration.NewRunner(db, migrations.Postgres(), migration.DriverPostgres)
		}, true
	default:
		return nil, nil, false
	}
}

func checkMigrations(ctx *Context) error {
	db, newRunner, ok := sqlHandle(ctx.Store)
	if !ok {
		// JSON store has no schema
		return nil
	}
	if db == nil {
		return errors.New("database connection is nil")
	}

	runner, err := newRunner(db)
	if err != nil {
		return err
	}

	currentVersion, err := runner.GetCurrentVersion()
	if err != nil {
		return fmt.Errorf("failed to get current schema version: %w", err)
	}
	latestVersion, err := runner.GetLatestVersion()
	if err != nil {
		return fmt.Errorf("failed to get latest schema version: %w", err)
	}

	if currentVersion > latestVersion {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", currentVersion, latestVersion)
	}
	if currentVersion < latestVersion {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d", currentVersion, latestVersion)
	}
	return nil
}

func checkBackupsPresent(ctx *Context) error {
	backups, err := ctx.Backups().ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return errors.New("no backups found - consider creating one with 'selfrpg backup create'")
	}
	return nil
}

func checkValidation(ctx *Context) validation.ValidationResult {
	t, err := ctx.Tracker()
	if err != nil {
		return validation.ValidationResult{}
	}
	return validation.New().ValidateState(t.State())
}

func checkClock(now time.Time) error {
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	return nil
}
