package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/viper"

	kerrors "github.com/kuiper-lang/kuiper/errors"
	"github.com/kuiper-lang/kuiper/kuiper"
	"github.com/kuiper-lang/kuiper/value"
)

// runRepl reads one Kuiper expression per line, compiling and running it
// against the inputs declared with --input, and prints the result. Each
// line is compiled independently: the REPL has no persistent variable
// bindings of its own, matching Kuiper's stateless-expression model.
func runRepl() error {
	names, values, err := getInputs()
	if err != nil {
		return err
	}

	prompt := color.New(color.FgYellow, color.Bold).Sprint(">>> ")
	fmt.Printf("kuiper %s -- type an expression, Ctrl-D to exit\n", version)
	if len(names) > 0 {
		fmt.Printf("inputs: %v\n", names)
	}

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print(prompt)
		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}
		line := scanner.Text()
		if line == "" {
			continue
		}
		evalLine(line, names, values)
	}
}

func evalLine(line string, names []string, values []value.Value) {
	expr, err := kuiper.Compile(line, names, kuiper.Options{})
	if err != nil {
		printReplError(err)
		return
	}
	result, err := expr.RunValue(values)
	if err != nil {
		printReplError(err)
		return
	}
	out, err := formatResult(result, viper.GetString("output"))
	if err != nil {
		printReplError(err)
		return
	}
	fmt.Println(out)
}

func printReplError(err error) {
	if kerr, ok := err.(*kerrors.CompileError); ok {
		fmt.Println(color.RedString("compile error [%s]: %s", kerr.Code, kerr.Message))
		return
	}
	if kerr, ok := err.(*kerrors.RuntimeError); ok {
		fmt.Println(color.RedString("runtime error [%s]: %s", kerr.Code, kerr.Message))
		return
	}
	fmt.Println(color.RedString("%s", err.Error()))
}
