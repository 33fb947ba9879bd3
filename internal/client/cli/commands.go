package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/anniv/internal/client/client"
	"github.com/dmitrijs2005/anniv/internal/cryptox"
)

func (a *App) Info(ctx context.Context) error {
	info, err := a.api.Info(ctx)
	if err != nil {
		return err
	}
	features := "none"
	if len(info.Features) > 0 {
		features = strings.Join(info.Features, ", ")
	}
	fmt.Fprintf(a.out, "%s: %s\nprotocol: %s\nfeatures: %s\n",
		info.SiteName, info.Description, info.ProtocolVersion, features)
	return nil
}

// Register prompts for the account fields. The invite code and 2FA secret
// may be left empty when the server does not require them.
func (a *App) Register(ctx context.Context) error {
	var p client.RegisterParams
	prompts := []struct {
		text string
		dst  *string
	}{
		{"Enter user name", &p.Username},
		{"Enter email", &p.Email},
		{"Enter nickname", &p.Nickname},
		{"Enter avatar URL (optional)", &p.Avatar},
		{"Enter invite code (optional)", &p.InviteCode},
		{"Enter 2FA secret (optional)", &p.TwoFactorSecret},
	}
	for _, pr := range prompts {
		v, err := GetSimpleText(a.reader, pr.text, a.out)
		if err != nil {
			return err
		}
		*pr.dst = v
	}

	password, err := GetPassword(a.out)
	if err != nil {
		return err
	}
	defer cryptox.Wipe(password)
	p.Password = password

	account, err := a.api.Register(ctx, p)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Registered %s <%s>, id %s\n", account.Username, account.Email, account.UserID)
	return nil
}

func (a *App) Check(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, "Enter email (optional)", a.out)
	if err != nil {
		return err
	}
	username, err := GetSimpleText(a.reader, "Enter user name (optional)", a.out)
	if err != nil {
		return err
	}
	if err := a.api.CheckAvailability(ctx, email, username); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Available")
	return nil
}

func (a *App) Login(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := GetPassword(a.out)
	if err != nil {
		return err
	}
	defer cryptox.Wipe(password)

	code, err := GetSimpleText(a.reader, "Enter 2FA code (empty if not enrolled)", a.out)
	if err != nil {
		return err
	}

	if err := a.api.Login(ctx, email, password, code); err != nil {
		return err
	}
	a.email = email
	fmt.Fprintln(a.out, "Login successful")
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.api.Logout(ctx); err != nil {
		return err
	}
	a.email = ""
	fmt.Fprintln(a.out, "Logged out")
	return nil
}
