// Command kuiper-modgen renders a Markdown reference of the builtins from
// builtins/catalog.yaml, to stdout or to the -out path, failing if the
// YAML doc and the live Go catalog
// (builtins.All()) have drifted apart in either direction.
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kuiper-lang/kuiper/builtins"
	"github.com/kuiper-lang/kuiper/exec"
)

type catalogDoc struct {
	Functions []functionDoc `yaml:"functions"`
}

type functionDoc struct {
	Name    string `yaml:"name"`
	Summary string `yaml:"summary"`
}

func main() {
	yamlPath := flag.String("catalog", "builtins/catalog.yaml", "path to catalog.yaml")
	outPath := flag.String("out", "", "output markdown path (default: stdout)")
	flag.Parse()

	doc, err := loadCatalogDoc(*yamlPath)
	if err != nil {
		fatal(err)
	}

	live := builtins.All()
	if err := crossCheck(doc, live); err != nil {
		fatal(err)
	}

	md := renderMarkdown(doc, live)
	if *outPath == "" {
		fmt.Print(md)
		return
	}
	if err := os.WriteFile(*outPath, []byte(md), 0o644); err != nil {
		fatal(err)
	}
}

func loadCatalogDoc(path string) (*catalogDoc, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc catalogDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &doc, nil
}

// crossCheck ensures catalog.yaml documents exactly the builtins the Go
// catalog registers, no more and no fewer.
func crossCheck(doc *catalogDoc, live map[string]*exec.BuiltinEntry) error {
	documented := make(map[string]bool, len(doc.Functions))
	for _, f := range doc.Functions {
		documented[f.Name] = true
	}

	var missing, extra []string
	for name := range live {
		if !documented[name] {
			missing = append(missing, name)
		}
	}
	for name := range documented {
		if live[name] == nil {
			extra = append(extra, name)
		}
	}
	sort.Strings(missing)
	sort.Strings(extra)

	if len(missing) > 0 || len(extra) > 0 {
		var b strings.Builder
		if len(missing) > 0 {
			fmt.Fprintf(&b, "undocumented builtins: %s\n", strings.Join(missing, ", "))
		}
		if len(extra) > 0 {
			fmt.Fprintf(&b, "catalog.yaml entries for unknown builtins: %s\n", strings.Join(extra, ", "))
		}
		return fmt.Errorf("catalog.yaml is out of sync with builtins.All():\n%s", b.String())
	}
	return nil
}

func renderMarkdown(doc *catalogDoc, live map[string]*exec.BuiltinEntry) string {
	entries := append([]functionDoc(nil), doc.Functions...)
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })

	var b strings.Builder
	b.WriteString("# Kuiper builtin functions\n\n")
	b.WriteString("Generated from builtins/catalog.yaml; do not edit by hand.\n\n")
	for _, f := range entries {
		entry := live[f.Name]
		fmt.Fprintf(&b, "## `%s`\n\n", f.Name)
		fmt.Fprintf(&b, "%s\n\n", f.Summary)
		fmt.Fprintf(&b, "- Arity: %s\n", arityString(entry))
		if entry.RequiresLambda {
			fmt.Fprintf(&b, "- Requires a trailing lambda (%d-%d params)\n", entry.LambdaMinArity, entry.LambdaMaxArity)
		} else if entry.LambdaOptional {
			fmt.Fprintf(&b, "- Accepts an optional trailing lambda (%d-%d params)\n", entry.LambdaMinArity, entry.LambdaMaxArity)
		}
		if !entry.Deterministic {
			b.WriteString("- Non-deterministic: never constant-folded\n")
		}
		b.WriteString("\n")
	}
	return b.String()
}

func arityString(e *exec.BuiltinEntry) string {
	if e.MaxArity == exec.Unbounded {
		return fmt.Sprintf("%d or more", e.MinArity)
	}
	if e.MinArity == e.MaxArity {
		return fmt.Sprintf("%d", e.MinArity)
	}
	return fmt.Sprintf("%d-%d", e.MinArity, e.MaxArity)
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
