package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"
)

var version = "dev"

// errFindings makes the process exit with status 1 after a report has been
// printed. It is not printed itself.
var errFindings = errors.New("findings reported")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := newRootCmd().ExecuteContext(ctx)
	if err != nil {
		if msg := errorMessage(err); msg != "" {
			fmt.Fprintln(os.Stderr, "Error:", msg)
		}
		stop()
		os.Exit(1)
	}
}

// errorMessage is the text printed for err, or "" when nothing is printed.
func errorMessage(err error) string {
	switch {
	case errors.Is(err, errFindings):
		return ""
	case errors.Is(err, errMissingPath):
		return "Please provide the path as a command-line argument."
	}
	return err.Error()
}

func newRootCmd() *cobra.Command {
	var verbosity int
	var flags scanFlags

	rootCmd := &cobra.Command{
		Use:     "springguard <path>",
		Short:   "List the HTTP endpoints of a Spring project and the security expressions guarding them",
		Version: version,
		Args:    cobra.MaximumNArgs(1),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Warnings only by default; each -v adds a level.
			commonlog.Configure(verbosity-1, nil)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd, args, &flags)
		},
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "increase log verbosity (repeatable)")
	flags.register(rootCmd)

	rootCmd.AddCommand(newScanCmd())
	rootCmd.AddCommand(newParseCmd())
	rootCmd.AddCommand(newProjectCmd())
	rootCmd.AddCommand(newLSPCmd())
	rootCmd.AddCommand(newUICmd())

	return rootCmd
}
