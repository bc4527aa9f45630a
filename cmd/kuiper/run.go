package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kuiper-lang/kuiper/kuiper"
)

func runHandler(cmd *cobra.Command, args []string) error {
	processGlobalFlags()

	if shouldRunRepl(cmd, args) {
		return runRepl()
	}

	source, err := getSource(cmd, args)
	if err != nil {
		return err
	}
	names, values, err := getInputs()
	if err != nil {
		return err
	}

	expr, err := kuiper.Compile(source, names, kuiper.Options{})
	if err != nil {
		return err
	}

	start := time.Now()
	result, err := expr.RunValue(values)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	output, err := formatResult(result, viper.GetString("output"))
	if err != nil {
		return err
	}
	fmt.Println(output)

	if viper.GetBool("timing") {
		fmt.Printf("%v\n", elapsed)
	}
	return nil
}

func versionHandler(cmd *cobra.Command, args []string) error {
	format := viper.GetString("output")
	if format == "json" {
		info, err := json.MarshalIndent(map[string]any{
			"version": version,
			"commit":  commit,
			"date":    date,
		}, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(info))
		return nil
	}
	fmt.Printf("kuiper %s (commit %s, built %s)\n", version, commit, date)
	return nil
}
