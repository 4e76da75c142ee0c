package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fatih/color"
)

// version is overridden at build time with -ldflags "-X main.version=..."
var version = "dev"

// Context represents the global context for commands
type Context struct {
	Config  string
	Verbose bool
	Quiet   bool

	ctx    context.Context
	logger *slog.Logger
}

// Context returns the cancellation context of the run
func (c *Context) Context() context.Context {
	if c.ctx == nil {
		return context.Background()
	}
	return c.ctx
}

// Logger returns the library logger: debug output with --verbose, warnings
// otherwise and nothing with --quiet
func (c *Context) Logger() *slog.Logger {
	if c.logger != nil {
		return c.logger
	}
	switch {
	case c.Quiet:
		c.logger = slog.New(slog.DiscardHandler)
	case c.Verbose:
		c.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	default:
		c.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	}
	return c.logger
}

// CLI represents the command-line interface
var CLI struct {
	Config   string      `help:"Configuration file path" default:"baserowgen.yaml"`
	Verbose  bool        `help:"Enable verbose output" short:"v"`
	Quiet    bool        `help:"Suppress output" short:"q"`
	Generate GenerateCmd `cmd:"" help:"Generate Go bindings for the configured Baserow databases"`
	Pull     PullCmd     `cmd:"" help:"Pull the Baserow schema into a YAML snapshot"`
	Version  VersionCmd  `cmd:"" help:"Show version information"`
}

// VersionCmd represents the version command
type VersionCmd struct{}

// Run executes the version command
func (cmd *VersionCmd) Run() error {
	fmt.Printf("baserowgen %s\n", version)
	return nil
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("baserowgen"),
		kong.Description("Generate typed Go records from a Baserow schema."),
	)

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	appCtx := &Context{
		Config:  CLI.Config,
		Verbose: CLI.Verbose,
		Quiet:   CLI.Quiet,
		ctx:     sigCtx,
	}

	err := ctx.Run(appCtx)
	stop()
	if err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
