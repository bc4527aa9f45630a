package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kuiper-lang/kuiper/value"
)

func isTerminalIO() bool {
	stdin := os.Stdin.Fd()
	stdout := os.Stdout.Fd()
	inTerm := isatty.IsTerminal(stdin) || isatty.IsCygwinTerminal(stdin)
	outTerm := isatty.IsTerminal(stdout) || isatty.IsCygwinTerminal(stdout)
	return inTerm && outTerm
}

func shouldRunRepl(cmd *cobra.Command, args []string) bool {
	if viper.GetBool("no-repl") || viper.GetBool("stdin") {
		return false
	}
	if f := cmd.Flags().Lookup("code"); f != nil && f.Changed {
		return false
	}
	if len(args) > 0 {
		return false
	}
	return isTerminalIO()
}

// getSource determines the expression source to compile. Exactly one of
// --code, --stdin, or a file path argument may be given.
func getSource(cmd *cobra.Command, args []string) (string, error) {
	codeFlagSet := cmd.Flags().Changed("code")
	stdinFlagSet := viper.GetBool("stdin")
	pathSupplied := len(args) > 0

	count := 0
	for _, set := range []bool{codeFlagSet, stdinFlagSet, pathSupplied} {
		if set {
			count++
		}
	}
	if count > 1 {
		return "", errors.New("multiple input sources specified: use only one of --code, --stdin, or a file argument")
	}

	if stdinFlagSet {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	if pathSupplied {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	return viper.GetString("code"), nil
}

// getInputs parses the repeated --input name=value flags (in declaration
// order, which fixes each name's runtime slot index) into parallel
// inputNames/inputs slices. A value of the form @path reads the JSON
// document from a file instead of the flag's literal text.
func getInputs() (names []string, values []value.Value, err error) {
	for _, raw := range viper.GetStringSlice("input") {
		eq := strings.IndexByte(raw, '=')
		if eq < 0 {
			return nil, nil, fmt.Errorf("--input %q: expected name=value", raw)
		}
		name, spec := raw[:eq], raw[eq+1:]
		var data []byte
		if strings.HasPrefix(spec, "@") {
			data, err = os.ReadFile(spec[1:])
			if err != nil {
				return nil, nil, fmt.Errorf("--input %s: %w", name, err)
			}
		} else {
			data = []byte(spec)
		}
		v, perr := value.ParseJSON(data)
		if perr != nil {
			return nil, nil, fmt.Errorf("--input %s: not valid JSON: %w", name, perr)
		}
		names = append(names, name)
		values = append(values, v)
	}
	return names, values, nil
}

func processGlobalFlags() {
	if viper.GetBool("no-color") {
		noColor()
	}
}
