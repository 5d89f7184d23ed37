package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"licm/internal/dom"
	"licm/internal/ir"
	"licm/internal/loops"
	"licm/internal/ui"
)

func newLoopsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "loops [file]",
		Short: "List the natural loops of every function",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := "-"
			if len(args) == 1 {
				input = args[0]
			}
			only, err := cmd.Flags().GetString("func")
			if err != nil {
				return fmt.Errorf("failed to get func flag: %w", err)
			}
			normalize, err := cmd.Flags().GetBool("normalize")
			if err != nil {
				return fmt.Errorf("failed to get normalize flag: %w", err)
			}

			m, err := readModule(input, cmd.InOrStdin())
			if err != nil {
				return err
			}
			funcs := m.Funcs
			if only != "" {
				f := m.Func(only)
				if f == nil {
					return fmt.Errorf("no function named %q", only)
				}
				funcs = []*ir.Func{f}
			}

			styled := configFrom(cmd).color.styled(os.Stdout)
			out := cmd.OutOrStdout()
			for i, f := range funcs {
				if normalize {
					if _, err := loops.EnsurePreheaders(f); err != nil {
						return fmt.Errorf("function %s: %w", f.Name, err)
					}
				}
				dt, err := dom.Build(f)
				if err != nil {
					return fmt.Errorf("function %s: %w", f.Name, err)
				}
				nest, err := loops.Build(f, dt)
				if err != nil {
					return fmt.Errorf("function %s: %w", f.Name, err)
				}
				if i > 0 {
					fmt.Fprintln(out)
				}
				fmt.Fprintf(out, "func %s: %d loop(s)\n", f.Name, len(nest.Loops()))
				if len(nest.Loops()) > 0 {
					fmt.Fprint(out, ui.RenderLoops(nest, styled))
				}
			}
			return nil
		},
	}
	cmd.Flags().String("func", "", "only list loops of this function")
	cmd.Flags().Bool("normalize", false, "insert missing preheaders before listing")
	return cmd
}
