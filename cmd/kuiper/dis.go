package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kuiper-lang/kuiper/kuiper"
)

// newPrintCmd builds the "print" subcommand, which compiles (and thus
// optimizes) an expression and renders it back to Kuiper source, the same
// round-trip Expression.String exposes to embedders.
func newPrintCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "print [file]",
		Short: "Compile an expression and print its optimized form",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := getSource(cmd, args)
			if err != nil {
				return err
			}
			names, _, err := getInputs()
			if err != nil {
				return err
			}
			expr, err := kuiper.Compile(source, names, kuiper.Options{})
			if err != nil {
				return err
			}
			fmt.Println(expr.String())
			return nil
		},
	}
	return cmd
}
