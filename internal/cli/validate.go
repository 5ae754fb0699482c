package cli

import "github.com/julianstephens/selfrpg/internal/validation"

type ValidateCmd struct{}

func (cmd *ValidateCmd) Run(ctx *Context) error {
	t, err := ctx.Tracker()
	if err != nil {
		return err
	}

	ctx.println("Validating data...")
	result := validation.New().ValidateState(t.State())

	ctx.println()
	ctx.println(result.FormatReport())

	// Conflicts are reported, not treated as a failure.
	return nil
}
