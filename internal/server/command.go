package server

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/dmitrijs2005/anniv/internal/flagx"
	"github.com/dmitrijs2005/anniv/internal/server/models"
)

// RunInviteCommand handles "invite": it creates one grant from the
// -code, -uses, -invitee and -inviter flags and prints its code.
func (app *App) RunInviteCommand(ctx context.Context, args []string, out io.Writer) error {
	args = flagx.FilterArgs(args, []string{"-code", "-uses", "-invitee", "-inviter"})

	fs := flag.NewFlagSet("invite", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var grant models.InviteGrant
	fs.StringVar(&grant.Code, "code", "", "invite code (random when empty)")
	fs.IntVar(&grant.UsesLeft, "uses", 1, "number of registrations the code admits")
	fs.StringVar(&grant.Invitee, "invitee", "", "restrict the code to this email")
	fs.StringVar(&grant.InviterID, "inviter", "", "inviting account id")

	if err := fs.Parse(args); err != nil {
		return err
	}

	created, err := app.Invites().Create(ctx, grant)
	if err != nil {
		return fmt.Errorf("create invite: %w", err)
	}
	_, err = fmt.Fprintln(out, created.Code)
	return err
}
