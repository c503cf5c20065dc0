package codegen_test

import (
	"io"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colebrook/ebnfc/codegen"
	"github.com/colebrook/ebnfc/diag"
	"github.com/colebrook/ebnfc/grammar"
	"github.com/colebrook/ebnfc/resolve"
)

func pos() grammar.Pos { return grammar.Pos{Name: "t.ebnf", LineNo: 1, ColNo: 1} }

func tok(name, re string) *grammar.Token {
	return &grammar.Token{Name: name, Regex: re, Pos: pos()}
}

func tokItem(name string, mult grammar.Multiplicity) *grammar.Item {
	return &grammar.Item{Kind: grammar.ItemToken, Name: name, Multiplicity: mult, Pos: pos()}
}

func ruleItem(name string, mult grammar.Multiplicity) *grammar.Item {
	return &grammar.Item{Kind: grammar.ItemRule, Name: name, Multiplicity: mult, Pos: pos()}
}

func captureNamed(name string) *grammar.Capture {
	return &grammar.Capture{Name: name, Pos: pos()}
}

func captureField(name, field string) *grammar.Capture {
	return &grammar.Capture{Name: name, Field: field, Pos: pos()}
}

func ignoredCap() *grammar.Capture {
	return &grammar.Capture{Name: "_", Ignored: true, Pos: pos()}
}

// buildGeneratedSource assembles a minimal grammar exercising a plain
// capturing rule, a merge-directive alias, and an alternation, then runs
// it through the same resolve->codegen pipeline the CLI does.
func buildGeneratedSource(t *testing.T) string {
	t.Helper()

	g := grammar.New("t.ebnf")
	g.AddToken(tok("INTEGER", `[0-9]+`))
	g.AddToken(tok("FLOAT", `[0-9]+\.[0-9]+`))
	g.AddToken(tok("PLUS", `\+`))
	g.AddToken(&grammar.Token{Name: "WS", Regex: `[ \t\n]+`, Decorators: grammar.Decorators{Skip: true}, Pos: pos()})
	g.Start = "Sum"

	numberRule := &grammar.Rule{
		Name:       "Number",
		Directives: map[grammar.DirectiveName]grammar.Pos{grammar.DirMerge: pos()},
		Definitions: []*grammar.Definition{
			{Items: []*grammar.Item{ruleItem("Integer", grammar.One)}, Pos: pos()},
			{Items: []*grammar.Item{tokItem("FLOAT", grammar.One)}, Pos: pos()},
		},
		Pos: pos(),
	}
	g.AddRule(numberRule)

	integerRule := &grammar.Rule{
		Name:        "Integer",
		Definitions: []*grammar.Definition{{Items: []*grammar.Item{tokItem("INTEGER", grammar.One)}, Pos: pos()}},
		Pos:         pos(),
	}
	g.AddRule(integerRule)

	sumRule := &grammar.Rule{
		Name: "Sum",
		Definitions: []*grammar.Definition{{
			Items:    []*grammar.Item{ruleItem("Number", grammar.One), tokItem("PLUS", grammar.ZeroOrOne), ruleItem("Number", grammar.ZeroOrOne)},
			Captures: []*grammar.Capture{captureNamed("left"), ignoredCap(), captureNamed("right")},
			Pos:      pos(),
		}},
		Pos: pos(),
	}
	g.AddRule(sumRule)

	sink := diag.New(diag.Error, io.Discard)
	fs, err := resolve.Resolve(g, sink)
	require.NoError(t, err)
	require.False(t, sink.Failed())

	return string(codegen.Generate(g, fs, sink))
}

func TestGenerateEmitsTokenTable(t *testing.T) {
	src := buildGeneratedSource(t)
	assert.Contains(t, src, `{Name: "INTEGER"`)
	assert.Contains(t, src, `{Name: "PLUS"`)
	assert.Contains(t, src, `Skip: true`)
}

func TestGenerateEmitsTerminalHelpers(t *testing.T) {
	src := buildGeneratedSource(t)
	assert.Contains(t, src, "func is_INTEGER(c *runtime.Cursor) bool {")
	assert.Contains(t, src, "func match_INTEGER(c *runtime.Cursor) (runtime.Token, bool) {")
	assert.Contains(t, src, "func expect_INTEGER(c *runtime.Cursor) (runtime.Token, error) {")
}

func TestGenerateEmitsPerRuleFunctions(t *testing.T) {
	src := buildGeneratedSource(t)
	assert.Contains(t, src, "func is_Sum(c *runtime.Cursor) bool {")
	assert.Contains(t, src, "func match_Sum(c *runtime.Cursor) (any, error) {")
	assert.Contains(t, src, `node := runtime.NewNode("SUM", pos)`)
}

func TestGenerateMergeDirectiveCopiesSubNodeFields(t *testing.T) {
	src := buildGeneratedSource(t)
	// Number carries @{merge}, so a rule referencing it merges the
	// sub-node's own fields rather than assigning under the capture name.
	assert.Contains(t, src, ".Merge(")
}

func TestGenerateTransparentAliasSkipsWrapperNode(t *testing.T) {
	src := buildGeneratedSource(t)
	// Number's FLOAT alternative has no capture tail and a single item,
	// so it's a transparent alias: the token's own value becomes the result
	// instead of an empty {kind: NUMBER} wrapper.
	assert.Contains(t, src, `node = runtime.NewNode("FLOAT"`)
}

func TestGenerateCapturesUseSetAndDeclaredNames(t *testing.T) {
	// buildGeneratedSource's Sum captures Number, which carries @{merge}
	// and so lowers to Merge; this grammar captures the plain Integer rule
	// instead, so its captures go through Set under their declared names.
	g := grammar.New("set.ebnf")
	g.AddToken(tok("INTEGER", `[0-9]+`))
	g.AddToken(tok("PLUS", `\+`))
	g.Start = "Sum"
	g.AddRule(&grammar.Rule{
		Name:        "Integer",
		Definitions: []*grammar.Definition{{Items: []*grammar.Item{tokItem("INTEGER", grammar.One)}, Pos: pos()}},
		Pos:         pos(),
	})
	g.AddRule(&grammar.Rule{
		Name: "Sum",
		Definitions: []*grammar.Definition{{
			Items:    []*grammar.Item{ruleItem("Integer", grammar.One), tokItem("PLUS", grammar.ZeroOrOne), ruleItem("Integer", grammar.ZeroOrOne)},
			Captures: []*grammar.Capture{captureNamed("left"), ignoredCap(), captureNamed("right")},
			Pos:      pos(),
		}},
		Pos: pos(),
	})

	sink := diag.New(diag.Error, io.Discard)
	fs, err := resolve.Resolve(g, sink)
	require.NoError(t, err)

	src := string(codegen.Generate(g, fs, sink))
	assert.Contains(t, src, `node.Set("left",`)
	assert.Contains(t, src, `node.Set("right",`)
}

func TestGenerateEntryPointDispatchesByStartName(t *testing.T) {
	src := buildGeneratedSource(t)
	assert.Contains(t, src, `func parseWithStart(c *runtime.Cursor, start string) (any, error) {`)
	assert.Contains(t, src, `case "Sum":`)
	assert.Contains(t, src, `return match_Sum(c)`)
}

func TestGenerateMainWiresFlagsAndJSONOutput(t *testing.T) {
	src := buildGeneratedSource(t)
	assert.Contains(t, src, `flag.StringVar(&outPath, "out"`)
	assert.Contains(t, src, `json.MarshalIndent(result, "", "  ")`)
	assert.Contains(t, src, `os.WriteFile(outPath, out, 0o644)`)
}

func TestGenerateProducesBalancedBraces(t *testing.T) {
	src := buildGeneratedSource(t)
	assert.Equal(t, strings.Count(src, "{"), strings.Count(src, "}"),
		"generated source must balance braces even though it can't be compiled here")
}

func TestGenerateReportsUnsupportedItemKind(t *testing.T) {
	g := grammar.New("bad.ebnf")
	g.AddToken(tok("A", `a`))
	g.AddGroup(&grammar.TokenGroup{Name: "GRP", Members: []string{"a"}, Pos: pos()})
	g.Start = "R"
	g.AddRule(&grammar.Rule{
		Name: "R",
		Definitions: []*grammar.Definition{{
			Items: []*grammar.Item{
				{Kind: grammar.ItemGroup, Name: "GRP", Multiplicity: grammar.One, Pos: pos()},
				tokItem("A", grammar.One),
			},
			Captures: []*grammar.Capture{ignoredCap(), captureNamed("a")},
			Pos:      pos(),
		}},
		Pos: pos(),
	})

	sink := diag.New(diag.Error, io.Discard)
	fs, err := resolve.Resolve(g, sink)
	if err != nil {
		t.Skip("resolver already rejects a bare group reference before codegen runs")
	}

	sink2 := diag.New(diag.Error, io.Discard)
	_ = codegen.Generate(g, fs, sink2)
	assert.True(t, sink2.Failed(), "codegen must report, not silently drop, an unexpected bare group item")
}

func TestLiteralItemsShareTokenTable(t *testing.T) {
	g := grammar.New("lit.ebnf")
	g.AddToken(tok("WORD", `[a-z]+`))
	g.Start = "Greeting"
	g.AddRule(&grammar.Rule{
		Name: "Greeting",
		Definitions: []*grammar.Definition{{
			Items: []*grammar.Item{
				{Kind: grammar.ItemLiteral, Literal: "hello", Multiplicity: grammar.One, Pos: pos()},
				tokItem("WORD", grammar.One),
			},
			Captures: []*grammar.Capture{ignoredCap(), captureNamed("name")},
			Pos:      pos(),
		}},
		Pos: pos(),
	})

	sink := diag.New(diag.Error, io.Discard)
	fs, err := resolve.Resolve(g, sink)
	require.NoError(t, err)

	src := string(codegen.Generate(g, fs, sink))
	assert.Contains(t, src, `Pattern: regexp.MustCompile("^(?:hello)")`)
	assert.Regexp(t, regexp.MustCompile(`func is_lit0\(c \*runtime\.Cursor\) bool`), src)
}

// TestGenerateTokenCaptureFieldProjectsLC exercises `TOKEN.lc` (SPEC_FULL.md's
// built-in field alongside "value"): a token capture with Field == "lc"
// must go through runtime.Field on the matched Token itself, not assign the
// token's plain Value string, and a plain (fieldless) token capture on the
// same rule must still assign .Value directly rather than the whole Token.
func TestGenerateTokenCaptureFieldProjectsLC(t *testing.T) {
	g := grammar.New("lc.ebnf")
	g.AddToken(tok("WORD", `[a-z]+`))
	g.Start = "Word"
	g.AddRule(&grammar.Rule{
		Name: "Word",
		Definitions: []*grammar.Definition{{
			Items:    []*grammar.Item{tokItem("WORD", grammar.One)},
			Captures: []*grammar.Capture{captureField("pos", "lc")},
			Pos:      pos(),
		}},
		Pos: pos(),
	})

	sink := diag.New(diag.Error, io.Discard)
	fs, err := resolve.Resolve(g, sink)
	require.NoError(t, err)
	require.False(t, sink.Failed())

	src := string(codegen.Generate(g, fs, sink))
	assert.Regexp(t, regexp.MustCompile(`runtime\.Field\(tok\d*, "lc"\)`), src)
	assert.NotContains(t, src, `node.Set("pos", tok`)
}

func TestGenerateTokenCaptureWithoutFieldAssignsValue(t *testing.T) {
	src := buildGeneratedSource(t)
	// Sum's "left"/"right" captures are rule-shaped, so build a separate
	// Word grammar with a bare WORD token capture instead: no Field set, so
	// it must assign the token's Value string, never the whole Token struct.
	g := grammar.New("val.ebnf")
	g.AddToken(tok("WORD", `[a-z]+`))
	g.Start = "Word"
	g.AddRule(&grammar.Rule{
		Name: "Word",
		Definitions: []*grammar.Definition{{
			Items:    []*grammar.Item{tokItem("WORD", grammar.One)},
			Captures: []*grammar.Capture{captureNamed("text")},
			Pos:      pos(),
		}},
		Pos: pos(),
	})

	sink := diag.New(diag.Error, io.Discard)
	fs, err := resolve.Resolve(g, sink)
	require.NoError(t, err)
	require.False(t, sink.Failed())

	src = string(codegen.Generate(g, fs, sink))
	assert.Regexp(t, regexp.MustCompile(`node\.Set\("text", tok\d*\.Value\)`), src)
}
