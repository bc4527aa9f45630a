// Command kuiper-lsp is a diagnostics-only language server: it recompiles
// each open document as a Kuiper expression on open and change, and
// publishes any resulting CompileError as an LSP Diagnostic. It does not
// implement completion, hover, or go-to-definition.
package main

import (
	"flag"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	var inputNames stringListFlag
	flag.Var(&inputNames, "input", "declare an input name resolvable in every document (repeatable)")
	flag.Parse()

	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()

	srv := NewServer(os.Stdout, inputNames)
	if err := srv.Serve(os.Stdin); err != nil {
		log.Fatal().Err(err).Msg("kuiper-lsp stopped")
	}
}

type stringListFlag []string

func (f *stringListFlag) String() string { return "" }

func (f *stringListFlag) Set(v string) error {
	*f = append(*f, v)
	return nil
}
