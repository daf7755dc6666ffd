package main

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"
)

//go:embed VERSION.txt
var versionFile string

var version = strings.TrimSpace(versionFile)

func main() {
	// Check for version flag before parsing other flags
	for _, arg := range os.Args[1:] {
		if arg == "--version" || arg == "-version" || arg == "-v" {
			fmt.Println(version)
			os.Exit(0)
		}
	}

	// A missing .env file is fine; flags and the real environment still apply
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("Failed to load .env file", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := newApp(os.Stdin, os.Stdout).command()

	err := root.ParseAndRun(ctx, os.Args[1:], ff.WithEnvVarPrefix("EXPENSE_TRACKER"))
	switch {
	case err == nil:
	case errors.Is(err, ff.ErrHelp):
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Command(selected(root)))
	case errors.Is(err, errUsage):
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Command(selected(root)))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	default:
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// selected falls back to root when parsing stopped before a subcommand was chosen
func selected(root *ff.Command) *ff.Command {
	if cmd := root.GetSelected(); cmd != nil {
		return cmd
	}
	return root
}
