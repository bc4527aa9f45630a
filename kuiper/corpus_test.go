package kuiper

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// corpusCase is the header a .kp regression file may carry: the inputs it
// declares, the JSON-encoded values to run it against, and (optionally) the
// exact JSON output it must produce. A file with no "expected" header only
// needs to compile.
type corpusCase struct {
	Inputs   []string
	Values   []string
	Expected string
	HasCases bool
}

// parseCorpusFile splits a .kp file into its `// key: value` header block
// (each header line is JSON-decoded on the right-hand side of the first
// colon) and its trailing Kuiper source body.
func parseCorpusFile(t *testing.T, path string) (corpusCase, string) {
	t.Helper()
	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var c corpusCase
	var bodyLines []string
	inHeader := true
	for _, line := range strings.Split(string(raw), "\n") {
		trimmed := strings.TrimSpace(line)
		if inHeader && strings.HasPrefix(trimmed, "//") {
			directive := strings.TrimSpace(strings.TrimPrefix(trimmed, "//"))
			key, val, ok := strings.Cut(directive, ":")
			if !ok {
				continue // a plain prose comment line, not a header directive
			}
			key = strings.TrimSpace(key)
			val = strings.TrimSpace(val)
			switch key {
			case "inputs":
				require.NoError(t, json.Unmarshal([]byte(val), &c.Inputs), "%s: inputs header", path)
			case "values":
				require.NoError(t, json.Unmarshal([]byte(val), &c.Values), "%s: values header", path)
			case "expected":
				c.Expected = val
				c.HasCases = true
			}
			continue
		}
		inHeader = false
		bodyLines = append(bodyLines, line)
	}
	return c, strings.TrimSpace(strings.Join(bodyLines, "\n"))
}

// TestCorpus walks testdata/*.kp: every file must compile against its
// declared inputs, and every file carrying an "expected" header must
// evaluate to exactly that JSON value when run against its "values".
func TestCorpus(t *testing.T) {
	files, err := filepath.Glob("testdata/*.kp")
	require.NoError(t, err)
	require.NotEmpty(t, files, "no .kp regression files found")

	for _, path := range files {
		path := path
		t.Run(filepath.Base(path), func(t *testing.T) {
			c, source := parseCorpusFile(t, path)
			expr, err := Compile(source, c.Inputs, Options{})
			require.NoError(t, err, "compile failed")

			if !c.HasCases {
				return
			}
			out, err := expr.RunJSON(c.Values)
			require.NoError(t, err, "run failed")

			var gotNorm, wantNorm any
			require.NoError(t, json.Unmarshal([]byte(out), &gotNorm))
			require.NoError(t, json.Unmarshal([]byte(c.Expected), &wantNorm))
			require.Equal(t, wantNorm, gotNorm)
		})
	}
}
