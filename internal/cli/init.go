package cli

import (
	"errors"
	"fmt"

	"github.com/julianstephens/selfrpg/internal/storage"
)

type InitCmd struct {
	Force bool `help:"Replace an existing document with the defaults."`
}

func (c *InitCmd) Run(ctx *Context) error {
	err := ctx.Store.Init()
	if errors.Is(err, storage.ErrAlreadyInitialized) && c.Force {
		t, terr := ctx.Tracker()
		if terr == nil {
			ctx.PerformAutomaticBackup(t)
		}
		if err := ctx.Store.Reset(); err != nil {
			return fmt.Errorf("failed to clear existing document: %w", err)
		}
		err = ctx.Store.Init()
	}
	if err != nil {
		if errors.Is(err, storage.ErrAlreadyInitialized) {
			return fmt.Errorf("%w (use --force to start over)", err)
		}
		return err
	}

	ctx.printf("Initialized selfrpg storage at: %s\n", ctx.Store.GetConfigPath())
	return nil
}
