package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colebrook/ebnfc/diag"
	"github.com/colebrook/ebnfc/langdef"
)

func codesOf(msgs []diag.Diagnostic) []int {
	out := make([]int, len(msgs))
	for i, m := range msgs {
		out[i] = m.Code
	}
	return out
}

func TestResolveSimpleGrammarSucceeds(t *testing.T) {
	src := `
.token
WS ` + "`" + `\s+` + "`" + ` @skip
INT ` + "`" + `[0-9]+` + "`" + `
.end

.rules
N: = INT => v;
.end
`
	g, err := langdef.ParseString("g.ebnf", src, nil)
	require.NoError(t, err)

	sink := diag.New(diag.All, nil)
	fs, err := Resolve(g, sink)
	require.NoError(t, err)
	require.False(t, sink.Failed())
	require.NotNil(t, fs)

	terms := fs.RuleTerminals("N")
	require.Len(t, terms, 1)
	assert.Equal(t, "INT", terms[0].Token)
}

func TestUndefinedTokenAndRuleReported(t *testing.T) {
	src := `
.token
INT ` + "`" + `[0-9]+` + "`" + `
.end

.rules
N: = INT MISSING => v w;
M: = Nope;
.end
`
	g, err := langdef.ParseString("g.ebnf", src, nil)
	require.NoError(t, err)

	sink := diag.New(diag.All, nil)
	_, err = Resolve(g, sink)
	require.Error(t, err)

	codes := codesOf(sink.Messages())
	assert.Contains(t, codes, UndefinedTokenError)
	assert.Contains(t, codes, UndefinedRuleError)
}

func TestInternalAndSkipTokensRejectedAsItems(t *testing.T) {
	src := `
.token
WS ` + "`" + `\s+` + "`" + ` @skip
SECRET ` + "`" + `x` + "`" + ` @internal
.end

.rules
N: = WS SECRET;
.end
`
	g, err := langdef.ParseString("g.ebnf", src, nil)
	require.NoError(t, err)

	sink := diag.New(diag.All, nil)
	_, err = Resolve(g, sink)
	require.Error(t, err)

	codes := codesOf(sink.Messages())
	assert.Contains(t, codes, SkipTokenUsedError)
	assert.Contains(t, codes, InternalTokenUsedError)
}

func TestExpandSubstitutesReferencedToken(t *testing.T) {
	src := `
.token
DIGIT ` + "`" + `[0-9]` + "`" + `
NUM ` + "`" + `$DIGIT+` + "`" + ` @expand
.end

.rules
N: = NUM;
.end
`
	g, err := langdef.ParseString("g.ebnf", src, nil)
	require.NoError(t, err)

	sink := diag.New(diag.All, nil)
	_, err = Resolve(g, sink)
	require.NoError(t, err)
	assert.Equal(t, "(?:[0-9])+", g.Tokens["NUM"].ExpandedRegex())
}

func TestExpandCycleIsError(t *testing.T) {
	src := `
.token
A ` + "`" + `$B` + "`" + ` @expand
B ` + "`" + `$A` + "`" + ` @expand
.end

.rules
N: = A;
.end
`
	g, err := langdef.ParseString("g.ebnf", src, nil)
	require.NoError(t, err)

	sink := diag.New(diag.All, nil)
	_, err = Resolve(g, sink)
	require.Error(t, err)
	assert.Contains(t, codesOf(sink.Messages()), ExpansionCycleError)
}

func TestAlignedCaptureShapeRaisesNoDiagnostics(t *testing.T) {
	src := `
.token
A ` + "`" + `a` + "`" + `
B ` + "`" + `b` + "`" + `
.end

.rules
N: = A [B] => x (y);
.end
`
	g, err := langdef.ParseString("g.ebnf", src, nil)
	require.NoError(t, err)

	sink := diag.New(diag.All, nil)
	_, err = Resolve(g, sink)
	require.NoError(t, err)
	assert.Empty(t, sink.Messages())
}

func TestTokenCaptureFieldLCRaisesNoWarning(t *testing.T) {
	src := `
.token
A ` + "`" + `a` + "`" + `
.end

.rules
N: = A => x.lc;
.end
`
	g, err := langdef.ParseString("g.ebnf", src, nil)
	require.NoError(t, err)

	sink := diag.New(diag.All, nil)
	_, err = Resolve(g, sink)
	require.NoError(t, err)
	assert.NotContains(t, codesOf(sink.Messages()), CaptureFieldWarning)
}

func TestTokenCaptureFieldOtherThanValueOrLCWarns(t *testing.T) {
	src := `
.token
A ` + "`" + `a` + "`" + `
.end

.rules
N: = A => x.bogus;
.end
`
	g, err := langdef.ParseString("g.ebnf", src, nil)
	require.NoError(t, err)

	sink := diag.New(diag.All, nil)
	_, err = Resolve(g, sink)
	require.NoError(t, err)
	assert.Contains(t, codesOf(sink.Messages()), CaptureFieldWarning)
}

func TestListCaptureOnNonRepeatableItemIsError(t *testing.T) {
	src := `
.token
A ` + "`" + `a` + "`" + `
.end

.rules
N: = A => *x;
.end
`
	g, err := langdef.ParseString("g.ebnf", src, nil)
	require.NoError(t, err)

	sink := diag.New(diag.All, nil)
	_, err = Resolve(g, sink)
	require.Error(t, err)
	assert.Contains(t, codesOf(sink.Messages()), CaptureNotRepeatableError)
}

func TestFlipRequiresKey(t *testing.T) {
	src := `
.token
A ` + "`" + `a` + "`" + `
.end

.rules
N: @{flip:x} = A => x;
.end
`
	g, err := langdef.ParseString("g.ebnf", src, nil)
	require.NoError(t, err)

	sink := diag.New(diag.All, nil)
	_, err = Resolve(g, sink)
	require.Error(t, err)
	assert.Contains(t, codesOf(sink.Messages()), FlipRequiresKeyError)
}

func TestMergeIncompatibleWithKey(t *testing.T) {
	src := `
.token
A ` + "`" + `a` + "`" + `
.end

.rules
N: @{key:x, merge} = A => x;
.end
`
	g, err := langdef.ParseString("g.ebnf", src, nil)
	require.NoError(t, err)

	sink := diag.New(diag.All, nil)
	_, err = Resolve(g, sink)
	require.Error(t, err)
	assert.Contains(t, codesOf(sink.Messages()), MergeIncompatibleError)
}

func TestResolveSnapshotsDiagnosticsOntoGrammar(t *testing.T) {
	src := `
.token
A ` + "`" + `a` + "`" + `
.end

.rules
N: @{flip:x} = A => x;
.end
`
	g, err := langdef.ParseString("flip.ebnf", src, nil)
	require.NoError(t, err)

	sink := diag.New(diag.All, nil)
	_, err = Resolve(g, sink)
	require.Error(t, err)

	assert.Equal(t, "flip.ebnf", g.SourceName())
	assert.Equal(t, codesOf(sink.Messages()), codesOf(g.Diagnostics()))
	assert.Contains(t, codesOf(g.Diagnostics()), FlipRequiresKeyError)
}

func TestScopeWithoutReachableDeclareWarns(t *testing.T) {
	src := `
.token
A ` + "`" + `a` + "`" + `
.end

.rules
N: @{scope:names} = A;
.end
`
	g, err := langdef.ParseString("g.ebnf", src, nil)
	require.NoError(t, err)

	sink := diag.New(diag.All, nil)
	_, err = Resolve(g, sink)
	require.NoError(t, err)
	assert.Contains(t, codesOf(sink.Messages()), ScopeWithoutDeclareWarning)
}

func TestScopeWithReachableDeclareIsClean(t *testing.T) {
	src := `
.token
A ` + "`" + `a` + "`" + `
.end

.rules
N: @{scope:names} = Decl;
Decl: @{declare:name} = A;
.end
`
	g, err := langdef.ParseString("g.ebnf", src, nil)
	require.NoError(t, err)

	sink := diag.New(diag.All, nil)
	_, err = Resolve(g, sink)
	require.NoError(t, err)
	assert.NotContains(t, codesOf(sink.Messages()), ScopeWithoutDeclareWarning)
}

func TestDoubtfulGroupWarning(t *testing.T) {
	src := `
.token
A ` + "`" + `a` + "`" + `
B ` + "`" + `b` + "`" + `
.end

.rules
N: = (A? | B?)? => _;
.end
`
	g, err := langdef.ParseString("g.ebnf", src, nil)
	require.NoError(t, err)

	sink := diag.New(diag.All, nil)
	_, err = Resolve(g, sink)
	require.NoError(t, err)
	assert.Contains(t, codesOf(sink.Messages()), DoubtfulGroupWarning)
}

func TestUncertainGroupWarning(t *testing.T) {
	src := `
.token
A ` + "`" + `a` + "`" + `
B ` + "`" + `b` + "`" + `
.end

.rules
N: = ([A] B)+ => _;
.end
`
	g, err := langdef.ParseString("g.ebnf", src, nil)
	require.NoError(t, err)

	sink := diag.New(diag.All, nil)
	_, err = Resolve(g, sink)
	require.NoError(t, err)
	assert.Contains(t, codesOf(sink.Messages()), UncertainGroupWarning)
}

func TestFirstSetsPropagateThroughRuleReferences(t *testing.T) {
	src := `
.token
A ` + "`" + `a` + "`" + `
B ` + "`" + `b` + "`" + `
.end

.rules
N: = Inner B;
Inner: = A;
.end
`
	g, err := langdef.ParseString("g.ebnf", src, nil)
	require.NoError(t, err)

	sink := diag.New(diag.All, nil)
	fs, err := Resolve(g, sink)
	require.NoError(t, err)

	terms := fs.RuleTerminals("N")
	require.Len(t, terms, 1)
	assert.Equal(t, "A", terms[0].Token)
}
</content>
