package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/target/crms-console/internal/adapters/filestore"
	"github.com/target/crms-console/internal/bootstrap"
	"github.com/target/crms-console/internal/gateway"
	"github.com/target/crms-console/internal/ports"
	"github.com/target/crms-console/internal/service"
	"github.com/target/crms-console/internal/session"
)

// sessionScope is the filestore scope holding the operator's session.
const sessionScope = "default"

type commandFn func(cc *commandContext, args []string) error

type command struct {
	name        string
	usage       string
	description string
	run         commandFn
}

type commandContext struct {
	Ctx      context.Context
	Logger   *slog.Logger
	Out      io.Writer
	Err      io.Writer
	In       io.Reader
	Session  *session.Store
	Services *service.Set
}

// contextOptions groups what a commandContext is built from.
type contextOptions struct {
	BaseURL    string
	Timeout    time.Duration
	Entries    ports.EntryStore
	DefaultTTL time.Duration
	Logger     *slog.Logger
	Out        io.Writer
	Err        io.Writer
	In         io.Reader
}

var errNotLoggedIn = errors.New("not logged in or session expired")

func main() {
	logger := bootstrap.InitLogger(slog.LevelWarn)

	if len(os.Args) < 2 {
		if err := printUsage(os.Stdout); err != nil {
			logger.Error("print usage failed", "error", err)
		}
		os.Exit(2) //nolint:forbidigo // CLI must exit with failure status when no command is provided
	}

	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		logger.Error("load config", "error", err)
		os.Exit(1) //nolint:forbidigo // CLI must signal configuration load failure to shell scripts
	}

	dir := cfg.Session.FileDir
	if dir == "" {
		if dir, err = filestore.DefaultDir(); err != nil {
			logger.Error("resolve session dir", "error", err)
			os.Exit(1) //nolint:forbidigo // CLI cannot run without a session directory
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cc, err := newCommandContext(ctx, contextOptions{
		BaseURL:    cfg.API.BaseURL,
		Timeout:    cfg.API.Timeout,
		Entries:    filestore.New(dir),
		DefaultTTL: cfg.Session.DefaultTTL,
		Logger:     logger,
		Out:        os.Stdout,
		Err:        os.Stderr,
		In:         os.Stdin,
	})
	if err != nil {
		logger.Error("init", "error", err)
		os.Exit(1) //nolint:forbidigo // CLI must signal init failure to shell scripts
	}

	if runErr := dispatch(cc, os.Args[1:]); runErr != nil {
		if writeErr := writef(os.Stderr, "error: %v\n", runErr); writeErr != nil {
			logger.Error("print error failed", "error", writeErr)
		}
		stop()
		os.Exit(1) //nolint:forbidigo // CLI must propagate command execution failure to callers
	}
}

func newCommandContext(ctx context.Context, opts contextOptions) (*commandContext, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	store := session.New(session.Options{
		Entries:    opts.Entries,
		Scope:      sessionScope,
		DefaultTTL: opts.DefaultTTL,
		Logger:     logger,
	})
	client, err := gateway.New(gateway.Config{
		BaseURL: opts.BaseURL,
		Timeout: opts.Timeout,
		Tokens:  store,
		Logger:  logger,
	})
	if err != nil {
		return nil, err
	}
	return &commandContext{
		Ctx:      ctx,
		Logger:   logger,
		Out:      opts.Out,
		Err:      opts.Err,
		In:       opts.In,
		Session:  store,
		Services: service.NewSet(service.SetOptions{Gateway: client, Sessions: store, Logger: logger}),
	}, nil
}

func commands() map[string]command {
	return map[string]command{
		"login": {
			name:        "login",
			usage:       "login -u USER [-p PASSWORD]",
			description: "Sign in and store the session locally",
			run:         runLogin,
		},
		"logout": {
			name:        "logout",
			usage:       "logout",
			description: "Forget the local session",
			run:         runLogout,
		},
		"whoami": {
			name:        "whoami",
			usage:       "whoami",
			description: "Show the signed-in user and visible sections",
			run:         runWhoami,
		},
		"reports": {
			name:        "reports",
			usage:       "reports list [--status S]",
			description: "List crime reports",
			run:         subcommands("reports", map[string]commandFn{"list": runReportsList}),
		},
		"cases": {
			name:        "cases",
			usage:       "cases list [--status S] | cases close ID",
			description: "List or close cases",
			run:         subcommands("cases", map[string]commandFn{"list": runCasesList, "close": runCasesClose}),
		},
		"users": {
			name:        "users",
			usage:       "users list [--status S]",
			description: "List user accounts",
			run:         subcommands("users", map[string]commandFn{"list": runUsersList}),
		},
		"messages": {
			name:        "messages",
			usage:       "messages list | messages unread USER_ID",
			description: "List messages or a user's unread messages",
			run:         subcommands("messages", map[string]commandFn{"list": runMessagesList, "unread": runMessagesUnread}),
		},
		"analytics": {
			name:        "analytics",
			usage:       "analytics",
			description: "Show dashboard, trend and case statistics",
			run:         runAnalytics,
		},
	}
}

// dispatch runs the command named by args[0]. A 401 from the backend clears the
// local session and surfaces as errNotLoggedIn.
func dispatch(cc *commandContext, args []string) error {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		return printUsage(cc.Out)
	}
	cmd, ok := commands()[args[0]]
	if !ok {
		if err := printUsage(cc.Err); err != nil {
			return err
		}
		return fmt.Errorf("unknown command %q", args[0])
	}

	err := cmd.run(cc, args[1:])
	if gateway.IsUnauthorized(err) {
		if clearErr := cc.Session.Clear(cc.Ctx); clearErr != nil {
			cc.Logger.Warn("clear local session", "error", clearErr)
		}
		return errNotLoggedIn
	}
	return err
}

func subcommands(parent string, subs map[string]commandFn) commandFn {
	return func(cc *commandContext, args []string) error {
		if len(args) == 0 {
			return fmt.Errorf("%s: missing subcommand (one of %s)", parent, subcommandNames(subs))
		}
		run, ok := subs[args[0]]
		if !ok {
			return fmt.Errorf("%s: unknown subcommand %q (one of %s)", parent, args[0], subcommandNames(subs))
		}
		return run(cc, args[1:])
	}
}

func subcommandNames(subs map[string]commandFn) string {
	names := make([]string, 0, len(subs))
	for name := range subs {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

func printUsage(w io.Writer) error {
	if err := writef(w, "Usage: crms-admin <command> [flags]\n\n"); err != nil {
		return err
	}
	if err := writef(w, "Available commands:\n"); err != nil {
		return err
	}
	cmds := commands()
	names := make([]string, 0, len(cmds))
	for name := range cmds {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		c := cmds[name]
		if err := writef(w, "  %-44s %s\n", c.usage, c.description); err != nil {
			return err
		}
	}
	return writef(w, "\nList commands accept -o table|json|yaml and --query EXPR (JMESPath).\n")
}

// requireSession fails fast when no local session exists.
func requireSession(cc *commandContext) error {
	if !cc.Session.IsAuthenticated(cc.Ctx) {
		return errNotLoggedIn
	}
	return nil
}

func writef(w io.Writer, format string, args ...any) error {
	_, err := fmt.Fprintf(w, format, args...)
	return err
}
