package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
	"golang.org/x/term"

	"licm/internal/version"
)

// newRootCmd assembles the command tree. Each call returns fresh flag
// state so commands can be executed repeatedly in tests.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "licm",
		Short:         "Loop-invariant code motion over SSA IR",
		Long:          `licm hoists loop-invariant computations out of natural loops into their preheaders`,
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadCLIConfig(cmd)
			if err != nil {
				return err
			}
			applyColorMode(cfg.color)
			ctx := withConfig(cmd.Context(), cfg)
			cmd.SetContext(ctx)

			cleanup, err := setupTracing(cmd, cfg)
			if err != nil {
				return err
			}
			atexit.Register(cleanup)

			stopProfiling, err := setupProfiling(cmd)
			if err != nil {
				return err
			}
			atexit.Register(stopProfiling)
			return nil
		},
	}

	root.AddCommand(newRunCmd())
	root.AddCommand(newDumpCmd())
	root.AddCommand(newLoopsCmd())
	root.AddCommand(newVersionCmd())

	flags := root.PersistentFlags()
	flags.String("color", "auto", "colorize output (auto|on|off)")
	flags.Bool("quiet", false, "suppress non-essential output")
	flags.Bool("timings", false, "show timing information")
	flags.String("config", "", "path to licm.toml (default: search upward from the working directory)")
	flags.Int("jobs", 0, "functions processed concurrently (0 = GOMAXPROCS)")
	flags.String("trace", "", "trace output file (- for stderr)")
	flags.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	flags.String("trace-mode", "stream", "trace storage (stream|ring|both)")
	flags.Int("trace-ring-size", 4096, "events kept in ring mode")
	flags.String("cpu-profile", "", "write a CPU profile to file")
	flags.String("mem-profile", "", "write a heap profile to file on exit")
	flags.String("runtime-trace", "", "write a Go runtime trace to file")
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	atexit.Register(stop)

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "licm: %v\n", err)
		atexit.Exit(1)
	}
	atexit.Exit(0)
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
