// Package main is the recipeweb terminal client: every page of the recipe
// site is a subcommand talking to the same backend.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/alchemorsel/recipeweb/internal/infrastructure/container"
	"github.com/alchemorsel/recipeweb/internal/infrastructure/http/gateway"
	"github.com/alchemorsel/recipeweb/internal/infrastructure/session"
	"github.com/alchemorsel/recipeweb/internal/ports/inbound"
	apperrors "github.com/alchemorsel/recipeweb/pkg/errors"
	"github.com/alchemorsel/recipeweb/pkg/healthcheck"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// deps are the services the commands use
type deps struct {
	fx.In

	Auth      inbound.AuthService
	Recipes   inbound.RecipeService
	Assistant inbound.AssistantService
	Health    *healthcheck.HealthCheck
	Logger    *zap.Logger
}

// env is what a running command sees
type env struct {
	deps
	nav *terminalNavigator
	in  *bufio.Reader
	out io.Writer
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	global := flag.NewFlagSet("recipeweb", flag.ContinueOnError)
	global.SetOutput(stderr)
	configPath := global.String("config", "", "path to the configuration file")
	global.Usage = func() { usage(global, stderr) }

	if err := global.Parse(args); err != nil {
		return 2
	}
	if global.NArg() == 0 {
		usage(global, stderr)
		return 2
	}

	name := global.Arg(0)
	cmd, ok := commands[name]
	if !ok {
		fmt.Fprintf(stderr, "unknown command %q\n\n", name)
		usage(global, stderr)
		return 2
	}

	nav := newTerminalNavigator(cmd.path, stdout)

	var d deps
	app := fx.New(
		fx.NopLogger,
		fx.Supply(container.ConfigFile(*configPath)),
		fx.Provide(func() session.Navigator { return nav }),
		container.Module,
		fx.Populate(&d),
	)
	if err := app.Err(); err != nil {
		fmt.Fprintf(stderr, "failed to initialize: %v\n", err)
		return 1
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	startCtx, startCancel := context.WithTimeout(ctx, 15*time.Second)
	defer startCancel()
	if err := app.Start(startCtx); err != nil {
		fmt.Fprintf(stderr, "failed to start: %v\n", err)
		return 1
	}

	e := &env{deps: d, nav: nav, in: bufio.NewReader(stdin), out: stdout}
	cmdErr := cmd.run(ctx, e, global.Args()[1:])

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer stopCancel()
	if err := app.Stop(stopCtx); err != nil {
		d.Logger.Warn("Shutdown did not complete cleanly", zap.Error(err))
	}

	if cmdErr != nil {
		if errors.Is(cmdErr, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "error: %s\n", describe(cmdErr))
		return 1
	}
	return 0
}

func usage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintf(w, "Usage: recipeweb [-config file] <command> [flags]\n\nCommands:\n")

	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %-14s %s\n", name, commands[name].summary)
	}

	fmt.Fprintf(w, "\nGlobal flags:\n")
	fs.PrintDefaults()
}

// describe renders an error the way the site shows it to users
func describe(err error) string {
	var reqErr *gateway.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.Message
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Details != "" && appErr.Code == apperrors.CodeValidationFailed {
			return appErr.Details
		}
		return appErr.Message
	}

	return err.Error()
}
