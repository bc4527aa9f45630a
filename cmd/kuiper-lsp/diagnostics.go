package main

import (
	"strings"

	"github.com/jdbaldry/go-language-server-protocol/lsp/protocol"

	kerrors "github.com/kuiper-lang/kuiper/errors"
	"github.com/kuiper-lang/kuiper/kuiper"
)

// compileDiagnostics recompiles source as a Kuiper expression against the
// server's configured input names and converts a resulting CompileError's
// byte span into a single-line LSP Diagnostic. A successful compile
// produces no diagnostics.
func compileDiagnostics(source string, inputNames []string) []protocol.Diagnostic {
	_, err := kuiper.Compile(source, inputNames, kuiper.Options{})
	if err == nil {
		return nil
	}
	kerr, ok := err.(*kerrors.CompileError)
	if !ok {
		return []protocol.Diagnostic{{
			Range:    protocol.Range{Start: protocol.Position{}, End: protocol.Position{}},
			Severity: protocol.SeverityError,
			Source:   "kuiper",
			Message:  err.Error(),
		}}
	}
	rng := protocol.Range{Start: protocol.Position{}, End: protocol.Position{}}
	if kerr.HasSpan {
		rng = byteSpanToRange(source, kerr.Span.Start, kerr.Span.End)
	}
	return []protocol.Diagnostic{{
		Range:    rng,
		Severity: protocol.SeverityError,
		Source:   "kuiper",
		Code:     string(kerr.Code),
		Message:  kerr.Message,
	}}
}

// byteSpanToRange converts a half-open byte offset range into an LSP
// Range, counting UTF-16 code units per line the way the protocol
// requires.
func byteSpanToRange(source string, start, end int) protocol.Range {
	return protocol.Range{
		Start: byteOffsetToPosition(source, start),
		End:   byteOffsetToPosition(source, end),
	}
}

func byteOffsetToPosition(source string, offset int) protocol.Position {
	if offset > len(source) {
		offset = len(source)
	}
	prefix := source[:offset]
	line := strings.Count(prefix, "\n")
	lineStart := 0
	if idx := strings.LastIndexByte(prefix, '\n'); idx >= 0 {
		lineStart = idx + 1
	}
	col := 0
	for _, r := range prefix[lineStart:] {
		if r >= 0x10000 {
			col += 2
		} else {
			col++
		}
	}
	return protocol.Position{Line: uint32(line), Character: uint32(col)}
}
