package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	root := &cobra.Command{
		Use:   "kuiper [file]",
		Short: "Compile and run Kuiper expressions",
		Long:  "kuiper compiles a single Kuiper expression and runs it against named JSON inputs.\nWith no expression given on a terminal, it starts an interactive REPL.",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runHandler,
	}

	root.PersistentFlags().StringP("code", "e", "", "expression source to evaluate")
	root.PersistentFlags().Bool("stdin", false, "read expression source from stdin")
	root.PersistentFlags().Bool("no-color", false, "disable colored output")
	root.PersistentFlags().StringP("output", "o", "", "output format: json or text")
	root.PersistentFlags().StringArrayP("input", "i", nil, "declare an input as name=jsonvalue or name=@file.json, in order")
	root.Flags().Bool("no-repl", false, "disable the REPL fallback")
	root.Flags().Bool("timing", false, "print evaluation time")

	bindFlags(root)

	root.AddCommand(newVersionCmd())
	root.AddCommand(newPrintCmd())

	if err := root.Execute(); err != nil {
		printError(err.Error())
		os.Exit(1)
	}
}

func bindFlags(cmd *cobra.Command) {
	viper.BindPFlag("code", cmd.PersistentFlags().Lookup("code"))
	viper.BindPFlag("stdin", cmd.PersistentFlags().Lookup("stdin"))
	viper.BindPFlag("no-color", cmd.PersistentFlags().Lookup("no-color"))
	viper.BindPFlag("output", cmd.PersistentFlags().Lookup("output"))
	viper.BindPFlag("input", cmd.PersistentFlags().Lookup("input"))
	viper.BindPFlag("no-repl", cmd.Flags().Lookup("no-repl"))
	viper.BindPFlag("timing", cmd.Flags().Lookup("timing"))
	viper.BindEnv("no-color", "NO_COLOR")
}

func printError(msg string) {
	if color.NoColor {
		fmt.Fprintln(os.Stderr, msg)
		return
	}
	fmt.Fprintln(os.Stderr, color.RedString(msg))
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE:  versionHandler,
	}
}
