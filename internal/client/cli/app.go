package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/anniv/internal/client/client"
	"github.com/dmitrijs2005/anniv/internal/client/config"
)

// API is the server surface used by the commands.
type API interface {
	Info(ctx context.Context) (*client.SiteInfo, error)
	Register(ctx context.Context, p client.RegisterParams) (*client.Account, error)
	CheckAvailability(ctx context.Context, email, username string) error
	Login(ctx context.Context, email string, password []byte, code string) error
	Logout(ctx context.Context) error
}

var ErrUnknownCommand = errors.New("unknown command")

type App struct {
	config *config.Config
	api    API
	reader *bufio.Reader
	out    io.Writer
	email  string
}

func NewApp(c *config.Config, in io.Reader, out io.Writer) (*App, error) {
	api, err := client.New(c.ServerURL, c.RequestTimeout)
	if err != nil {
		return nil, err
	}
	return newApp(c, api, in, out), nil
}

func newApp(c *config.Config, api API, in io.Reader, out io.Writer) *App {
	return &App{config: c, api: api, reader: bufio.NewReader(in), out: out}
}

// Run executes command, or starts the interactive prompt when command is
// empty.
func (a *App) Run(ctx context.Context, command string) error {
	if command == "" {
		return a.Root(ctx)
	}
	return a.exec(ctx, command)
}

func (a *App) exec(ctx context.Context, command string) error {
	switch command {
	case "info":
		return a.Info(ctx)
	case "register":
		return a.Register(ctx)
	case "check":
		return a.Check(ctx)
	case "login":
		return a.Login(ctx)
	case "logout":
		return a.Logout(ctx)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownCommand, command)
	}
}

// Root runs the interactive prompt until "exit" or end of input.
func (a *App) Root(ctx context.Context) error {
	fmt.Fprintf(a.out, "Anniv client for %s (type 'help' for commands)\n", a.config.ServerURL)

	for {
		fmt.Fprintf(a.out, "anniv %s> ", a.status())
		line, err := a.reader.ReadString('\n')
		if errors.Is(err, io.EOF) && line == "" {
			return nil
		}
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		switch cmd := fields[0]; cmd {
		case "help":
			fmt.Fprintln(a.out, "Available commands: info, register, check, login, logout, exit")
		case "exit", "quit":
			fmt.Fprintln(a.out, "Bye!")
			return nil
		default:
			if err := a.exec(ctx, cmd); err != nil {
				a.report(err)
			}
		}
	}
}

func (a *App) status() string {
	if a.email == "" {
		return ""
	}
	return "(" + a.email + ")"
}

func (a *App) report(err error) {
	var se *client.StatusError
	if errors.As(err, &se) {
		fmt.Fprintf(a.out, "Failed: %s\n", se.Error())
		return
	}
	fmt.Fprintf(a.out, "Error: %v\n", err)
}
