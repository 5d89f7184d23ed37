package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"licm/internal/ir"
)

func newDumpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump [file]",
		Short: "Convert a module between the text and binary forms",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := "-"
			if len(args) == 1 {
				input = args[0]
			}
			formatValue, err := cmd.Flags().GetString("format")
			if err != nil {
				return fmt.Errorf("failed to get format flag: %w", err)
			}
			format, err := readEmitFormat(formatValue)
			if err != nil {
				return err
			}
			output, err := cmd.Flags().GetString("output")
			if err != nil {
				return fmt.Errorf("failed to get output flag: %w", err)
			}
			format = formatForOutput(output, format, cmd.Flags().Changed("format"))
			validate, err := cmd.Flags().GetBool("validate")
			if err != nil {
				return fmt.Errorf("failed to get validate flag: %w", err)
			}

			m, err := readModule(input, cmd.InOrStdin())
			if err != nil {
				return err
			}
			if validate {
				if err := ir.Validate(m); err != nil {
					return fmt.Errorf("invalid module: %w", err)
				}
			}
			return writeModule(output, cmd.OutOrStdout(), m, format)
		},
	}
	cmd.Flags().String("format", "text", "output format (text|msgpack|none)")
	cmd.Flags().StringP("output", "o", "", "output file (default stdout)")
	cmd.Flags().Bool("validate", false, "check structural well-formedness before writing")
	return cmd
}
