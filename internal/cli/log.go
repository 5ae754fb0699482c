package cli

import (
	"github.com/julianstephens/selfrpg/internal/constants"
	"github.com/julianstephens/selfrpg/internal/models"
)

type LogCmd struct {
	Limit int `short:"n" help:"Number of entries to show, newest first (0 for all)." default:"20"`
}

func (c *LogCmd) Run(ctx *Context) error {
	t, err := ctx.Tracker()
	if err != nil {
		return err
	}

	logs := t.Logs()
	if len(logs) == 0 {
		ctx.println("No actions logged yet")
		return nil
	}

	shown := 0
	for i := len(logs) - 1; i >= 0; i-- {
		if c.Limit > 0 && shown == c.Limit {
			break
		}
		entry := logs[i]

		name := "unknown action"
		if a, ok := t.ActionByID(entry.ActionID); ok {
			name = a.Name
			if !a.IsActive {
				name += " (deleted)"
			}
		}
		rewards := t.RewardsText(models.Action{Rewards: entry.RewardsApplied})
		ctx.printf("  %s  %-24s %s\n", entry.Date.Local().Format(constants.TimestampFormat), name, rewards)
		shown++
	}

	if shown < len(logs) {
		ctx.printf("\n%d of %d entries shown\n", shown, len(logs))
	}
	return nil
}
