package cli

import (
	"github.com/charmbracelet/bubbles/progress"

	"github.com/julianstephens/selfrpg/internal/models"
	"github.com/julianstephens/selfrpg/internal/progression"
	"github.com/julianstephens/selfrpg/internal/tracker"
)

const progressBarWidth = 20

type AttrAddCmd struct {
	Name string `arg:"" help:"Attribute name."`
	Icon string `short:"i" help:"Emoji shown next to the name (default ✨)."`
}

func (c *AttrAddCmd) Run(ctx *Context) error {
	t, err := ctx.Tracker()
	if err != nil {
		return err
	}

	attr, err := t.AddAttribute(c.Name, c.Icon)
	if err != nil {
		return err
	}

	ctx.printf("Added attribute: %s %s (ID: %s)\n", attr.IconOrDefault(), attr.Name, attr.ID)
	return nil
}

type AttrListCmd struct{}

func (c *AttrListCmd) Run(ctx *Context) error {
	t, err := ctx.Tracker()
	if err != nil {
		return err
	}

	attrs := t.Attributes()
	if len(attrs) == 0 {
		ctx.println("No attributes yet. Add one with 'selfrpg attr add NAME'.")
		return nil
	}

	ctx.println("Attributes:")
	for _, a := range attrs {
		p := progression.ProgressInLevel(a.XP)
		ctx.printf("  %s %-16s Lv.%-3d %s / %s  (total %s XP)  [%s]\n",
			a.IconOrDefault(), a.Name, p.Level,
			ctx.number(p.InLevel), ctx.number(p.Need), ctx.number(a.XP), shortID(a.ID))
	}
	return nil
}

type AttrShowCmd struct {
	Ref string `arg:"" help:"Attribute id, id prefix or name."`
}

// Run prints the attribute scene: level progress plus the actions that
// reward the attribute.
func (c *AttrShowCmd) Run(ctx *Context) error {
	t, err := ctx.Tracker()
	if err != nil {
		return err
	}

	attr, err := t.FindAttribute(c.Ref)
	if err != nil {
		return err
	}

	p := progression.ProgressInLevel(attr.XP)
	bar := progress.New(progress.WithWidth(progressBarWidth), progress.WithoutPercentage())

	ctx.printf("%s %s\n", attr.IconOrDefault(), attr.Name)
	ctx.printf("Lv.%d  %s  %s / %s XP\n", p.Level, bar.ViewAs(p.Pct), ctx.number(p.InLevel), ctx.number(p.Need))
	ctx.printf("Total XP: %s\n", ctx.number(attr.XP))
	ctx.println()

	actions := t.ActionsForAttribute(attr.ID)
	if len(actions) == 0 {
		ctx.println("No actions reward this attribute.")
		return nil
	}
	ctx.println("Actions:")
	printActions(ctx, t, actions)
	return nil
}

func printActions(ctx *Context, t *tracker.Tracker, actions []models.Action) {
	for _, a := range actions {
		ctx.printf("  [%s] %-24s %-6s %s  [%s]\n",
			actionStatus(t, a), a.Name, typeBadge(a.Type), t.RewardsText(a), shortID(a.ID))
	}
}
