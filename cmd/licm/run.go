package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"licm/internal/ir"
	"licm/internal/licm"
	"licm/internal/observ"
	"licm/internal/ui"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [file]",
		Short: "Hoist loop-invariant code out of every loop of a module",
		Long: `run reads a module in text or binary form ("-" for stdin), hoists
loop-invariant instructions into loop preheaders and writes the result.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runRun,
	}
	cmd.Flags().Bool("normalize", false, "insert missing loop preheaders")
	cmd.Flags().Bool("verify", true, "validate the input and every hoist")
	cmd.Flags().String("emit", "text", "output format (text|msgpack|none)")
	cmd.Flags().StringP("output", "o", "", "output file (default stdout)")
	cmd.Flags().Bool("summary", true, "print per-function statistics to stderr")
	cmd.Flags().String("ui", "auto", "show progress view (auto|on|off)")
	return cmd
}

type runSettings struct {
	input     string
	output    string
	emit      emitFormat
	normalize bool
	verify    bool
	summary   bool
	ui        uiMode
}

func readRunSettings(cmd *cobra.Command, args []string, cfg *cliConfig) (runSettings, error) {
	s := runSettings{input: "-"}
	if len(args) == 1 {
		s.input = args[0]
	}
	var err error
	if s.normalize, err = cfg.boolSetting(cmd, "normalize", cfg.file.Pass.Normalize, "pass", "normalize"); err != nil {
		return s, fmt.Errorf("failed to get normalize flag: %w", err)
	}
	if s.verify, err = cfg.boolSetting(cmd, "verify", cfg.file.Pass.Verify, "pass", "verify"); err != nil {
		return s, fmt.Errorf("failed to get verify flag: %w", err)
	}
	emitValue, err := cfg.stringSetting(cmd, "emit", cfg.file.Output.Format, "output", "format")
	if err != nil {
		return s, fmt.Errorf("failed to get emit flag: %w", err)
	}
	if s.emit, err = readEmitFormat(emitValue); err != nil {
		return s, err
	}
	if s.output, err = cmd.Flags().GetString("output"); err != nil {
		return s, fmt.Errorf("failed to get output flag: %w", err)
	}
	explicit := cmd.Flags().Changed("emit") || cfg.defined("output", "format")
	s.emit = formatForOutput(s.output, s.emit, explicit)
	if s.summary, err = cmd.Flags().GetBool("summary"); err != nil {
		return s, fmt.Errorf("failed to get summary flag: %w", err)
	}
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return s, fmt.Errorf("failed to get ui flag: %w", err)
	}
	if s.ui, err = readUIMode(uiValue); err != nil {
		return s, err
	}
	return s, nil
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg := configFrom(cmd)
	s, err := readRunSettings(cmd, args, cfg)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	timer := observ.NewTimer()

	var m *ir.Module
	err = timer.Track("load", func() (string, error) {
		var err error
		m, err = readModule(s.input, cmd.InOrStdin())
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%d funcs", len(m.Funcs)), nil
	})
	if err != nil {
		return err
	}

	opts := licm.Options{
		Normalize: s.normalize,
		Verify:    s.verify,
		Jobs:      cfg.jobs,
	}
	var results []licm.FuncResult
	err = timer.Track("licm", func() (string, error) {
		var err error
		if shouldUseTUI(s.ui, cfg.quiet) {
			results, err = runModuleWithUI(ctx, cmd.ErrOrStderr(), "licm "+s.input, m, opts)
		} else {
			results, err = licm.RunModule(ctx, m, opts)
		}
		return fmt.Sprintf("%d hoisted", licm.Total(results).Hoisted), err
	})
	if err != nil {
		return err
	}

	err = timer.Track("emit", func() (string, error) {
		return string(s.emit), writeModule(s.output, cmd.OutOrStdout(), m, s.emit)
	})
	if err != nil {
		return err
	}

	errOut := cmd.ErrOrStderr()
	if s.summary && !cfg.quiet {
		styled := cfg.color.styled(os.Stderr)
		fmt.Fprint(errOut, ui.RenderSummary(results, styled))
		printHoisted(errOut, results)
	}
	if cfg.timings {
		fmt.Fprint(errOut, timer.Summary())
	}
	return nil
}

var (
	hoistFuncColor  = color.New(color.FgCyan)
	hoistValueColor = color.New(color.FgGreen, color.Bold)
)

// printHoisted lists every moved instruction with the block it now lives in.
func printHoisted(w io.Writer, results []licm.FuncResult) {
	for _, r := range results {
		for _, in := range r.Hoisted {
			fmt.Fprintf(w, "%s: hoisted %s (%s) to %s\n",
				hoistFuncColor.Sprint(r.Func.Name),
				hoistValueColor.Sprint(in.Ref()),
				in.Op,
				in.Block.Label())
		}
	}
}
