package main

import (
	"io"
	"os"

	"github.com/colebrook/ebnfc"
	"github.com/colebrook/ebnfc/diag"
	"github.com/colebrook/ebnfc/grammar"
	"github.com/colebrook/ebnfc/langdef"
	"github.com/colebrook/ebnfc/resolve"
	"github.com/colebrook/ebnfc/source"
)

// compileGrammar runs the shared front half of both subcommands: read the
// grammar file, parse it (langdef), then resolve it (resolve.Resolve),
// reporting diagnostics to a Sink that writes to w at the given threshold.
func compileGrammar(path string, level diag.Level, w io.Writer) (*grammar.Grammar, *resolve.FirstSets, *diag.Sink, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, nil, ioError(err)
	}

	sink := diag.New(level, w)
	src := source.New(path, content)

	g, err := langdef.Parse(src, sink)
	if err != nil {
		code := 0
		if e, ok := err.(*ebnfc.Error); ok {
			code = e.Code
		}
		sink.Report(diag.Error, code, err.Error(), nil)
		return nil, nil, sink, compileError(errGrammarDiagnostics)
	}

	fs, err := resolve.Resolve(g, sink)
	if err != nil {
		return g, nil, sink, compileError(errGrammarDiagnostics)
	}

	return g, fs, sink, nil
}
