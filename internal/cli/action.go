package cli

import (
	"sort"

	"github.com/julianstephens/selfrpg/internal/models"
	"github.com/julianstephens/selfrpg/internal/tracker"
)

type ActionAddCmd struct {
	Name    string   `arg:"" help:"Action name."`
	Type    string   `short:"t" help:"Action type (daily|once)." enum:"daily,once" default:"daily"`
	Rewards []string `name:"reward" short:"r" help:"Reward as ATTR=XP, where ATTR is an attribute id, id prefix or name. Repeatable." sep:"none" placeholder:"ATTR=XP"`
}

func (c *ActionAddCmd) Run(ctx *Context) error {
	t, err := ctx.Tracker()
	if err != nil {
		return err
	}

	drafts := make([]tracker.RewardDraft, 0, len(c.Rewards))
	for _, r := range c.Rewards {
		ref, xp, err := parseReward(r)
		if err != nil {
			return err
		}
		attr, err := t.FindAttribute(ref)
		if err != nil {
			return err
		}
		drafts = append(drafts, tracker.RewardDraft{AttributeID: attr.ID, XP: xp})
	}

	action, err := t.AddAction(c.Name, models.ActionType(c.Type), drafts)
	if err != nil {
		return err
	}

	ctx.printf("Added %s action: %s (ID: %s)\n", typeBadge(action.Type), action.Name, action.ID)
	ctx.printf("  Rewards: %s\n", t.RewardsText(action))
	return nil
}

type ActionListCmd struct {
	All bool `short:"a" help:"Include deleted actions."`
}

func (c *ActionListCmd) Run(ctx *Context) error {
	t, err := ctx.Tracker()
	if err != nil {
		return err
	}

	actions := t.ActiveActions()
	if c.All {
		actions = t.AllActions()
	}
	if len(actions) == 0 {
		ctx.println("No actions found")
		return nil
	}

	ctx.println("Actions:")
	printActions(ctx, t, actions)
	return nil
}

type ActionDoCmd struct {
	Ref string `arg:"" help:"Action id, id prefix or name."`
}

func (c *ActionDoCmd) Run(ctx *Context) error {
	t, err := ctx.Tracker()
	if err != nil {
		return err
	}

	res, err := t.DoAction(c.Ref)
	if err != nil {
		return err
	}
	if !res.Applied {
		ctx.printf("Once action already done: %s\n", res.Action.Name)
		return nil
	}

	ctx.printf("✓ %s  %s\n", res.Action.Name, t.RewardsText(res.Action))
	if res.Skipped > 0 {
		ctx.printf("  %d reward(s) skipped: attribute no longer exists\n", res.Skipped)
	}

	ids := make([]string, 0, len(res.LevelUps))
	for id := range res.LevelUps {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if attr, ok := t.AttributeByID(id); ok {
			ctx.printf("  Level up! %s %s reached Lv.%d\n", attr.IconOrDefault(), attr.Name, res.LevelUps[id])
		}
	}
	return nil
}

type ActionDeleteCmd struct {
	Ref string `arg:"" help:"Action id, id prefix or name."`
}

func (c *ActionDeleteCmd) Run(ctx *Context) error {
	t, err := ctx.Tracker()
	if err != nil {
		return err
	}

	action, err := t.DeactivateAction(c.Ref)
	if err != nil {
		return err
	}

	ctx.printf("Deleted action: %s (ID: %s)\n", action.Name, action.ID)
	ctx.println("History is kept; restore it with 'selfrpg action restore'.")
	return nil
}

type ActionRestoreCmd struct {
	Ref string `arg:"" help:"Action id, id prefix or name."`
}

func (c *ActionRestoreCmd) Run(ctx *Context) error {
	t, err := ctx.Tracker()
	if err != nil {
		return err
	}

	action, err := t.RestoreAction(c.Ref)
	if err != nil {
		return err
	}

	ctx.printf("Restored action: %s (ID: %s)\n", action.Name, action.ID)
	return nil
}
