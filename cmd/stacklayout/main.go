// Command stacklayout configures and orders layered graphs.
//
//	stacklayout order graph.json -c layout.toml -f svg
//	stacklayout serve --addr :8080 --redis localhost:6379
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stacklayout/internal/cli"
)

// exitInterrupted is the shell convention for termination by SIGINT.
const exitInterrupted = 130

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stderr)
	stop()

	switch {
	case err == nil:
	case errors.Is(err, context.Canceled):
		os.Exit(exitInterrupted)
	default:
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stderr io.Writer) error {
	c := cli.New(stderr, cli.LogInfo)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetErr(stderr)

	verbose := root.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")
	logFormat := root.PersistentFlags().String("log-format", "text", "log encoding: "+strings.Join(cli.LogFormats, ", "))

	root.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		if *verbose {
			c.SetLogLevel(cli.LogDebug)
		}
		return c.SetLogFormat(*logFormat)
	}
	return root.ExecuteContext(ctx)
}
