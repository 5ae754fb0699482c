package cli

import "path/filepath"

type ResetCmd struct {
	Yes bool `short:"y" help:"Skip the confirmation prompt."`
}

func (c *ResetCmd) Run(ctx *Context) error {
	if !c.Yes {
		ctx.println("⚠️  WARNING: This replaces all of your data with the starter set.")
		ok, err := ctx.confirm("Reset to the starter data?")
		if err != nil {
			return err
		}
		if !ok {
			ctx.println("Reset cancelled.")
			return nil
		}
	}

	t, err := ctx.Tracker()
	if err != nil {
		return err
	}
	snapshot, err := ctx.Snapshot(t)
	if err != nil {
		return err
	}
	if err := t.Reset(); err != nil {
		return err
	}

	ctx.println("✓ Data reset to defaults.")
	ctx.printf("Previous state saved to: %s\n", filepath.Base(snapshot))
	return nil
}
