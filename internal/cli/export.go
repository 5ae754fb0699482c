package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/julianstephens/selfrpg/internal/backup"
	"github.com/julianstephens/selfrpg/internal/logger"
	"github.com/julianstephens/selfrpg/internal/models"
)

type ExportCmd struct {
	Format string `short:"f" help:"Output format (json|yaml)." enum:"json,yaml" default:"json"`
	Out    string `short:"o" help:"Write to this file instead of stdout." type:"path"`
}

func (c *ExportCmd) Run(ctx *Context) error {
	t, err := ctx.Tracker()
	if err != nil {
		return err
	}

	data, err := marshalState(t.State(), c.Format)
	if err != nil {
		return err
	}

	if c.Out == "" {
		_, err := ctx.out().Write(data)
		return err
	}
	if err := os.WriteFile(c.Out, data, 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", c.Out, err)
	}
	ctx.printf("Exported to %s\n", c.Out)
	return nil
}

func marshalState(state *models.State, format string) ([]byte, error) {
	switch format {
	case "yaml":
		data, err := yaml.Marshal(state)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal YAML: %w", err)
		}
		return data, nil
	case "json", "":
		data, err := json.MarshalIndent(state, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal JSON: %w", err)
		}
		return append(data, '\n'), nil
	default:
		return nil, fmt.Errorf("unsupported export format: %s", format)
	}
}

type ImportCmd struct {
	File string `arg:"" optional:"" help:"Backup message or JSON document to import; '-' or omitted reads stdin." default:"-"`
}

func (c *ImportCmd) Run(ctx *Context) error {
	raw, err := c.read(ctx)
	if err != nil {
		return err
	}

	state, err := backup.ParseImport(string(raw))
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	t, err := ctx.Tracker()
	if err != nil {
		return err
	}
	snapshot, err := ctx.Snapshot(t)
	if err != nil {
		return err
	}
	if err := t.ReplaceAll(state); err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	logger.Info("State imported", "attributes", len(state.Attributes), "actions", len(state.Actions))
	ctx.printf("✓ Imported %d attributes, %d actions, %d log entries\n",
		len(state.Attributes), len(state.Actions), len(state.Logs))
	ctx.printf("  Previous state saved to: %s\n", snapshot)
	return nil
}

func (c *ImportCmd) read(ctx *Context) ([]byte, error) {
	if c.File == "" || c.File == "-" {
		data, err := io.ReadAll(ctx.in())
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(c.File)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", c.File, err)
	}
	return data, nil
}
