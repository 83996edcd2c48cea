// Command chartcore computes chart snapshots from declarative specs.
package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/matzehuels/chartcore/internal/cli"
	"github.com/matzehuels/chartcore/pkg/errors"
)

// Exit statuses.
const (
	exitOK          = 0
	exitFailure     = 1
	exitInvalid     = 2 // bad input or chart configuration
	exitInterrupted = 130
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:])
	cancel()
	os.Exit(report(os.Stderr, err))
}

func run(ctx context.Context, args []string) error {
	var verbose bool

	c := cli.New(os.Stderr, cli.LogInfo)
	root := c.RootCommand()
	root.SilenceErrors = true
	root.SetArgs(args)
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentPreRun = func(*cobra.Command, []string) {
		if verbose {
			c.SetLogLevel(cli.LogDebug)
		}
	}
	return root.ExecuteContext(ctx)
}

// report prints err for the user and returns the exit status.
func report(w io.Writer, err error) int {
	switch {
	case err == nil:
		return exitOK
	case stderrors.Is(err, context.Canceled):
		return exitInterrupted
	}
	fmt.Fprintln(w, "Error:", errors.UserMessage(err))
	switch errors.KindOf(err) {
	case errors.KindInput, errors.KindConfiguration:
		return exitInvalid
	}
	return exitFailure
}
