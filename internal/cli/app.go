// Package cli is the moodlog command line front end. Each command is a route of the client; protected
// commands go through the route guard before they touch the network.
package cli

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/dtroode/emotion-log/internal/client"
	"github.com/dtroode/emotion-log/internal/client/navigation"
	"github.com/dtroode/emotion-log/internal/logger"
)

// errUsage is returned after usage text has been printed.
var errUsage = errors.New("usage")

type command struct {
	route   navigation.Route
	usage   string
	summary string
	run     func(ctx context.Context, args []string) error
}

// App runs moodlog commands against one assembled client.
type App struct {
	client   *client.Client
	in       *bufio.Reader
	out      io.Writer
	logger   *logger.Logger
	now      func() time.Time
	commands map[string]command
}

// New creates an App reading prompts from in and writing results to out.
func New(c *client.Client, in io.Reader, out io.Writer, logger *logger.Logger) *App {
	a := &App{
		client: c,
		in:     bufio.NewReader(in),
		out:    out,
		logger: logger,
		now:    time.Now,
	}

	a.commands = map[string]command{
		"signup":  {route: navigation.RouteSignup, usage: "signup [--name NAME] [--email EMAIL] [--password PASSWORD]", summary: "create an account", run: a.signUp},
		"login":   {route: navigation.RouteLogin, usage: "login [--email EMAIL] [--password PASSWORD]", summary: "log in and remember the session", run: a.login},
		"logout":  {usage: "logout", summary: "forget the session", run: a.logout},
		"profile": {route: navigation.RouteProfile, usage: "profile", summary: "show the signed-in user", run: a.profile},
		"new":     {route: navigation.RouteNew, usage: "new <level> [memo] [--date YYYY-MM-DD]", summary: "record how you feel", run: a.newEntry},
		"logs":    {route: navigation.RouteLogs, usage: "logs [YYYY-MM]", summary: "list a month of entries", run: a.logs},
		"chart":   {route: navigation.RouteChart, usage: "chart [YYYY-MM]", summary: "show a month as a bar chart", run: a.chart},
		"export":  {route: navigation.RouteExport, usage: "export", summary: "back up all entries to object storage", run: a.export},
		"health":  {usage: "health", summary: "check that the server is reachable", run: a.health},
	}

	return a
}

// Run executes one command line and returns the process exit code.
func (a *App) Run(ctx context.Context, args []string) int {
	if len(args) == 0 {
		a.usage()
		return 2
	}

	if args[0] == "shell" {
		return a.shell(ctx)
	}

	if err := a.dispatch(ctx, args); err != nil {
		if !errors.Is(err, errUsage) {
			a.printf("%s\n", userMessage(err))
		}
		return 1
	}
	return 0
}

func (a *App) dispatch(ctx context.Context, args []string) error {
	name := args[0]
	if name == "help" || name == "-h" || name == "--help" {
		a.usage()
		return nil
	}

	cmd, ok := a.commands[name]
	if !ok {
		a.printf("unknown command %q\n", name)
		a.usage()
		return errUsage
	}

	if cmd.route != "" && !a.client.Router.Navigate(cmd.route) {
		a.logger.Debug("CLI: command blocked by route guard", "command", name, "route", a.client.Router.Current())
		a.printf("You are not logged in. Run `moodlog login` to continue.\n")
		return errUsage
	}

	return cmd.run(ctx, args[1:])
}

func (a *App) shell(ctx context.Context) int {
	if a.client.State.Authenticated() {
		if err := a.client.Auth.Restore(ctx); err != nil {
			a.printf("%s\n", userMessage(err))
		}
	}

	a.printf("moodlog shell. Type `help` for commands, `exit` to quit.\n")
	for {
		a.printf("> ")
		line, err := a.in.ReadString('\n')
		fields := strings.Fields(line)

		if len(fields) > 0 {
			if fields[0] == "exit" || fields[0] == "quit" {
				return 0
			}
			if err := a.dispatch(ctx, fields); err != nil && !errors.Is(err, errUsage) {
				a.printf("%s\n", userMessage(err))
			}
		}

		if err != nil {
			a.printf("\n")
			return 0
		}
		if ctx.Err() != nil {
			return 1
		}
	}
}

func (a *App) usage() {
	names := make([]string, 0, len(a.commands))
	for name := range a.commands {
		names = append(names, name)
	}
	sort.Strings(names)

	a.printf("Usage: moodlog <command> [arguments]\n\nCommands:\n")
	for _, name := range names {
		cmd := a.commands[name]
		a.printf("  %-58s %s\n", cmd.usage, cmd.summary)
	}
	a.printf("  %-58s %s\n", "shell", "run commands interactively")
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

// prompt returns value, or asks for it when empty.
func (a *App) prompt(label, value string) (string, error) {
	if value != "" {
		return value, nil
	}

	a.printf("%s: ", label)
	line, err := a.in.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read %s: %w", strings.ToLower(label), err)
	}
	return strings.TrimSpace(line), nil
}

// parseArgs parses flags that may appear anywhere among the positional arguments.
func parseArgs(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		rest := fs.Args()
		if len(rest) == 0 {
			return positional, nil
		}
		positional = append(positional, rest[0])
		args = rest[1:]
	}
}

func (a *App) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.out)
	return fs
}
