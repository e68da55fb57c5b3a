package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
)

// Version is set at build time via -ldflags
var Version = "dev"

func main() {
	runner := NewRunner(RunnerOpts{})

	app := &cli.Command{
		Name:     "moviehub",
		Usage:    "Browse and search movies from the terminal",
		Version:  Version,
		Flags:    runner.globalFlags(),
		Before:   runner.Setup,
		Action:   runner.TUI,
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
