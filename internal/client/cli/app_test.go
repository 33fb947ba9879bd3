package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dmitrijs2005/anniv/internal/client/client"
	"github.com/dmitrijs2005/anniv/internal/client/config"
	"github.com/dmitrijs2005/anniv/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	registered client.RegisterParams
	password   string
	loginEmail string
	loginCode  string
	logouts    int
	err        error
}

func (f *fakeAPI) Info(context.Context) (*client.SiteInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &client.SiteInfo{SiteName: "Anniv", Description: "music", ProtocolVersion: "1", Features: []string{"invite", "2fa"}}, nil
}

func (f *fakeAPI) Register(_ context.Context, p client.RegisterParams) (*client.Account, error) {
	f.registered = p
	f.password = string(p.Password)
	if f.err != nil {
		return nil, f.err
	}
	return &client.Account{UserID: "u-1", Username: p.Username, Email: p.Email}, nil
}

func (f *fakeAPI) CheckAvailability(context.Context, string, string) error {
	return f.err
}

func (f *fakeAPI) Login(_ context.Context, email string, password []byte, code string) error {
	f.loginEmail = email
	f.password = string(password)
	f.loginCode = code
	return f.err
}

func (f *fakeAPI) Logout(context.Context) error {
	f.logouts++
	return f.err
}

func testApp(api API, input string) (*App, *bytes.Buffer) {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	var out bytes.Buffer
	return newApp(cfg, api, strings.NewReader(input), &out), &out
}

func TestNewApp(t *testing.T) {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	app, err := NewApp(cfg, strings.NewReader(""), &bytes.Buffer{})
	require.NoError(t, err)
	assert.NotNil(t, app.api)
}

func TestRun_Register(t *testing.T) {
	stubPassword(t, "pw", nil)
	api := &fakeAPI{}
	app, out := testApp(api, "alice\na@x.com\nAlice\n\nC1\n\n")

	require.NoError(t, app.Run(context.Background(), "register"))
	assert.Equal(t, "alice", api.registered.Username)
	assert.Equal(t, "a@x.com", api.registered.Email)
	assert.Equal(t, "Alice", api.registered.Nickname)
	assert.Equal(t, "", api.registered.Avatar)
	assert.Equal(t, "C1", api.registered.InviteCode)
	assert.Equal(t, "", api.registered.TwoFactorSecret)
	assert.Equal(t, "pw", api.password)
	assert.Contains(t, out.String(), "Registered alice <a@x.com>, id u-1")
}

func TestRun_RegisterFailure(t *testing.T) {
	stubPassword(t, "pw", nil)
	api := &fakeAPI{err: &client.StatusError{Status: common.ErrRegisterClosed.Code()}}
	app, _ := testApp(api, "alice\na@x.com\n\n\n\n\n")

	err := app.Run(context.Background(), "register")
	assert.ErrorIs(t, err, common.ErrRegisterClosed)
}

func TestRun_LoginLogout(t *testing.T) {
	stubPassword(t, "pw", nil)
	api := &fakeAPI{}
	app, out := testApp(api, "a@x.com\n123456\n")

	require.NoError(t, app.Run(context.Background(), "login"))
	assert.Equal(t, "a@x.com", api.loginEmail)
	assert.Equal(t, "123456", api.loginCode)
	assert.Equal(t, "(a@x.com)", app.status())

	require.NoError(t, app.Run(context.Background(), "logout"))
	assert.Equal(t, 1, api.logouts)
	assert.Equal(t, "", app.status())
	assert.Contains(t, out.String(), "Logged out")
}

func TestRun_InfoAndCheck(t *testing.T) {
	api := &fakeAPI{}
	app, out := testApp(api, "a@x.com\n\n")

	require.NoError(t, app.Run(context.Background(), "info"))
	assert.Contains(t, out.String(), "features: invite, 2fa")

	require.NoError(t, app.Run(context.Background(), "check"))
	assert.Contains(t, out.String(), "Available")
}

func TestRun_UnknownCommand(t *testing.T) {
	app, _ := testApp(&fakeAPI{}, "")
	err := app.Run(context.Background(), "frobnicate")
	assert.ErrorIs(t, err, ErrUnknownCommand)
}

func TestRoot(t *testing.T) {
	stubPassword(t, "pw", nil)
	api := &fakeAPI{}
	app, out := testApp(api, "help\n\nlogin\na@x.com\n\nnope\nexit\n")

	require.NoError(t, app.Run(context.Background(), ""))
	s := out.String()
	assert.Contains(t, s, "Available commands")
	assert.Contains(t, s, "Login successful")
	assert.Contains(t, s, "anniv (a@x.com)> ")
	assert.Contains(t, s, "Error: unknown command: nope")
	assert.Contains(t, s, "Bye!")
}

func TestRoot_ReportsStatusErrorsAndStopsAtEOF(t *testing.T) {
	api := &fakeAPI{err: &client.StatusError{Status: common.ErrEmailUnavailable.Code()}}
	app, out := testApp(api, "check\na@x.com\n\n")

	require.NoError(t, app.Root(context.Background()))
	assert.Contains(t, out.String(), "Failed: EmailUnavailable (102001)")
}

func TestReport_PlainError(t *testing.T) {
	app, out := testApp(&fakeAPI{}, "")
	app.report(errors.New("boom"))
	assert.Equal(t, "Error: boom\n", out.String())
}
