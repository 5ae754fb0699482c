package main

import (
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/selfrpg/internal/cli"
	"github.com/julianstephens/selfrpg/internal/constants"
	"github.com/julianstephens/selfrpg/internal/errors"
	"github.com/julianstephens/selfrpg/internal/logger"
	"github.com/julianstephens/selfrpg/internal/storage"
)

var CLI struct {
	Version      kong.VersionFlag
	Config       string `help:"Data file path (.db for SQLite, .json for a plain document), PostgreSQL connection string without password, or 'keyring'." env:"SELFRPG_CONFIG" default:"${default_config}"`
	DBConnection string `name:"db-connection" help:"Full PostgreSQL connection string. Overrides --config and may include a password." env:"SELFRPG_DB_CONNECTION"`
	Debug        bool   `help:"Log debug output to stderr." env:"SELFRPG_DEBUG"`

	Init cli.InitCmd `cmd:"" help:"Initialize selfrpg storage."`
	Tui  cli.TuiCmd  `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Attr struct {
		Add  cli.AttrAddCmd  `cmd:"" help:"Add an attribute."`
		List cli.AttrListCmd `cmd:"" help:"List attributes with their levels."`
		Show cli.AttrShowCmd `cmd:"" help:"Show an attribute and the actions that reward it."`
	} `cmd:"" help:"Manage attributes."`
	Action struct {
		Add     cli.ActionAddCmd     `cmd:"" help:"Add an action."`
		List    cli.ActionListCmd    `cmd:"" help:"List actions."`
		Do      cli.ActionDoCmd      `cmd:"" help:"Perform an action and collect its XP."`
		Delete  cli.ActionDeleteCmd  `cmd:"" help:"Delete an action, keeping its history."`
		Restore cli.ActionRestoreCmd `cmd:"" help:"Restore a deleted action."`
	} `cmd:"" help:"Manage actions."`
	Log    cli.LogCmd    `cmd:"" help:"Show the action log."`
	Radar  cli.RadarCmd  `cmd:"" help:"Draw the attribute radar chart."`
	Export cli.ExportCmd `cmd:"" help:"Export all data as JSON or YAML."`
	Import cli.ImportCmd `cmd:"" help:"Replace all data from a backup message or JSON document."`
	Backup struct {
		Send    cli.BackupSendCmd    `cmd:"" help:"Copy a backup message and open the backup bot chat."`
		Create  cli.BackupCreateCmd  `cmd:"" help:"Create a local backup." default:"1"`
		List    cli.BackupListCmd    `cmd:"" help:"List local backups."`
		Restore cli.BackupRestoreCmd `cmd:"" help:"Restore from a local backup."`
	} `cmd:"" help:"Manage backups."`
	Reset    cli.ResetCmd    `cmd:"" aliases:"wipe" help:"Replace all data with the starter set."`
	Doctor   cli.DoctorCmd   `cmd:"" help:"Run health checks and diagnostics."`
	Validate cli.ValidateCmd `cmd:"" help:"Check stored data for inconsistencies."`
	DebugCmd cli.DebugCmd    `cmd:"" name:"debug" help:"Debug commands for troubleshooting."`
	Keyring  struct {
		Set    cli.KeyringSetCmd    `cmd:"" help:"Store a PostgreSQL connection string in the OS keyring."`
		Delete cli.KeyringDeleteCmd `cmd:"" help:"Remove the stored connection string."`
		Status cli.KeyringStatusCmd `cmd:"" help:"Show keyring availability."`
	} `cmd:"" help:"Manage the PostgreSQL connection string in the OS keyring."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Level up your life: attributes, actions and XP"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":        constants.Version,
			"default_config": constants.DefaultConfigPath,
			"default_bot":    constants.DefaultBotUsername,
		},
	)

	if err := run(ctx); err != nil {
		errors.Fatal(err)
	}
}

func run(ctx *kong.Context) error {
	command := ctx.Command()

	fallbackDir, err := storage.ExpandPath(filepath.Dir(constants.DefaultConfigPath))
	if err != nil {
		return err
	}

	appCtx := &cli.Context{ConfigDir: fallbackDir}
	if cli.NeedsStore(command) {
		store, err := storage.Open(storage.Options{
			Config:       CLI.Config,
			DBConnection: CLI.DBConnection,
		})
		if err != nil {
			return err
		}
		defer store.Close()
		appCtx.Store = store
		appCtx.ConfigDir = storage.ConfigDir(store, fallbackDir)
	}

	if err := logger.Init(logger.Config{Debug: CLI.Debug, ConfigDir: appCtx.ConfigDir}); err != nil {
		return err
	}
	logger.Debug("Running command", "command", command, "config_dir", appCtx.ConfigDir)

	if cli.NeedsStore(command) {
		l, err := cli.AcquireLock(appCtx.ConfigDir, command)
		if err != nil {
			return err
		}
		defer l.Release()
	}

	return ctx.Run(appCtx)
}
