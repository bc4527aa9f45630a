package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fatih/color"
	prettyjson "github.com/hokaccha/go-prettyjson"
	"github.com/spf13/viper"

	"github.com/kuiper-lang/kuiper/value"
)

func noColor() { color.NoColor = true }

// formatResult renders v per the requested --output format. An unspecified
// format prints pretty-printed JSON on a color terminal, plain-indented
// JSON otherwise.
func formatResult(v value.Value, format string) (string, error) {
	switch strings.ToLower(format) {
	case "", "json":
		return formatJSON(v)
	case "text":
		return v.String(), nil
	default:
		return "", fmt.Errorf("unknown output format: %s", format)
	}
}

func formatJSON(v value.Value) (string, error) {
	if viper.GetBool("no-color") || color.NoColor {
		var buf strings.Builder
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		if err := enc.Encode(json.RawMessage(v.JSON())); err != nil {
			return "", err
		}
		return strings.TrimRight(buf.String(), "\n"), nil
	}
	out, err := prettyjson.Format([]byte(v.JSON()))
	if err != nil {
		return v.JSON(), nil
	}
	return strings.TrimRight(string(out), "\n"), nil
}
