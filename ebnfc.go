/*
Package ebnfc is a parser generator: it reads a grammar description
written in a small EBNF-like dialect and emits a stand-alone
recursive-descent parser (Go source) that reads text conforming to that
grammar and produces an abstract syntax tree serialized as JSON.

Consists of subpackages:
  - cmd/ebnfc: console utility driving the pipeline below;
  - source: source file and position tracking;
  - lexer: tokenizes the grammar description;
  - grammar: the in-memory Grammar Model (tokens, groups, rules, items);
  - langdef: builds a Grammar from a token stream;
  - resolve: validates and annotates a Grammar (name binding, token
    expansion, capture-shape checking, decorator/attribute compatibility);
  - codegen: lowers a validated Grammar into a standalone parser's source;
  - runtime: the small support package the generated parser imports
    (AST node type, scope stack, skip/lookahead helpers);
  - diag: the leveled diagnostics sink shared by every pass above.

Typical usage is:

1. Describe a grammar in the EBNF-like dialect (see package lexer and
langdef for its syntax).

2. Parse the description with langdef.Parse, then validate it with
resolve.Resolve.

3. Hand the validated Grammar to codegen.Generate to produce the source
of a stand-alone parser for that grammar.
*/
package ebnfc

import "fmt"

// Error code classes, each covering up to 999 codes, mirrored by every
// subpackage that can fail: lexer errors sit in LexErrors, grammar-parser
// errors in ParseErrors, resolver errors in ResolveErrors, and generator
// errors in CodegenErrors.
const (
	LexErrors     = 1000
	ParseErrors   = 2000
	ResolveErrors = 3000
	CodegenErrors = 4000
)

// SourcePos is implemented by anything that can describe where it came
// from: source.Pos and lexer.Token both implement it.
type SourcePos interface {
	// SourceName returns the originating file name, or "".
	SourceName() string
	// Line returns a 1-based line number, or 0.
	Line() int
	// Col returns a 1-based column number, or 0.
	Col() int
}

// Error is the error type returned by every ebnfc subpackage.
type Error struct {
	// Code is a non-zero error code from one of the *Errors ranges above.
	Code int

	// Message is a human-readable description, with source position
	// appended when available.
	Message string

	// SourceName is the originating file, or "".
	SourceName string

	// Line and Col are 1-based, or 0 if unknown.
	Line, Col int
}

// NewError builds an Error. If name, line, and col are all non-zero/non-empty
// they are appended to msg as "in <name> at line <line> col <col>".
func NewError(code int, msg, name string, line, col int) *Error {
	if name != "" && line != 0 && col != 0 {
		msg += fmt.Sprintf(" in %s at line %d col %d", name, line, col)
	}
	return &Error{code, msg, name, line, col}
}

// Error implements the error interface.
func (e *Error) Error() string { return e.Message }

// FormatError builds an Error with no source position.
func FormatError(code int, msg string, params ...any) *Error {
	if len(params) > 0 {
		msg = fmt.Sprintf(msg, params...)
	}
	return NewError(code, msg, "", 0, 0)
}

// FormatErrorPos builds an Error carrying pos's source position. pos must
// not be nil.
func FormatErrorPos(pos SourcePos, code int, msg string, params ...any) *Error {
	if len(params) > 0 {
		msg = fmt.Sprintf(msg, params...)
	}
	return NewError(code, msg, pos.SourceName(), pos.Line(), pos.Col())
}
