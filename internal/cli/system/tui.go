package system

import (
	"github.com/julianstephens/reviewnag/internal/cli"
)

// TuiCmd browses the reminder ledger interactively.
type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	return ctx.RunTUI(false)
}
