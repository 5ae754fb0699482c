package cli

import (
	"encoding/json"
	"fmt"
)

type DebugCmd struct {
	DBPath *DebugDBPathCmd `cmd:"" name:"db-path" help:"Show storage location."`
	Dump   *DebugDumpCmd   `cmd:"" help:"Dump an attribute or action as JSON."`
}

type DebugDBPathCmd struct{}

func (cmd *DebugDBPathCmd) Run(ctx *Context) error {
	// Output in machine-readable format
	output := map[string]string{
		"path":       ctx.Store.GetConfigPath(),
		"config_dir": ctx.ConfigDir,
		"backup_dir": ctx.Backups().GetBackupDir(),
	}

	jsonBytes, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}

	ctx.println(string(jsonBytes))
	return nil
}

type DebugDumpCmd struct {
	Kind string `arg:"" enum:"attr,action" help:"What to dump (attr|action)."`
	Ref  string `arg:"" help:"Id, id prefix or name."`
}

func (cmd *DebugDumpCmd) Run(ctx *Context) error {
	t, err := ctx.Tracker()
	if err != nil {
		return err
	}

	var v interface{}
	switch cmd.Kind {
	case "attr":
		attr, err := t.FindAttribute(cmd.Ref)
		if err != nil {
			return err
		}
		v = attr
	case "action":
		action, err := t.FindAction(cmd.Ref)
		if err != nil {
			return err
		}
		v = action
	default:
		return fmt.Errorf("unknown kind: %s", cmd.Kind)
	}

	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", cmd.Kind, err)
	}

	ctx.println(string(jsonBytes))
	return nil
}
