package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colebrook/ebnfc/source"
)

func scanAll(t *testing.T, content string) []Token {
	t.Helper()
	src := source.New("g.ebnf", []byte(content))
	c := source.NewCursor(src)
	l := New()
	var out []Token
	for {
		tok, err := l.Next(c)
		require.NoError(t, err)
		if tok.Kind == EOF {
			return out
		}
		out = append(out, tok)
	}
}

func TestSkipsCommentsAndWhitespace(t *testing.T) {
	toks := scanAll(t, "  ;; line comment\n ;* block\ncomment *; WORD")
	require.Len(t, toks, 1)
	assert.Equal(t, Ident, toks[0].Kind)
	assert.Equal(t, "WORD", toks[0].Text)
}

func TestSectionMarkers(t *testing.T) {
	toks := scanAll(t, ".token .token: .rules .start .end")
	require.Len(t, toks, 5)
	for _, tok := range toks {
		assert.Equal(t, Section, tok.Kind)
	}
	assert.Equal(t, ".token:", toks[1].Text)
}

func TestRegexAndStringLiterals(t *testing.T) {
	toks := scanAll(t, "`[0-9]+` 'foo' \"bar\"")
	require.Len(t, toks, 3)
	assert.Equal(t, Regex, toks[0].Kind)
	assert.Equal(t, "[0-9]+", toks[0].Text)
	assert.Equal(t, String, toks[1].Kind)
	assert.Equal(t, "'foo'", toks[1].Text)
	assert.Equal(t, String, toks[2].Kind)
}

func TestDecoratorsAndAttrBlock(t *testing.T) {
	toks := scanAll(t, "@skip @3 @{ key:left }")
	require.Len(t, toks, 7)
	assert.Equal(t, Decorator, toks[0].Kind)
	assert.Equal(t, "skip", toks[0].Text)
	assert.Equal(t, Decorator, toks[1].Kind)
	assert.Equal(t, "3", toks[1].Text)
	assert.Equal(t, AttrOpen, toks[2].Kind)
}

func TestExclusion(t *testing.T) {
	toks := scanAll(t, "WORD ^KEYWORD")
	require.Len(t, toks, 2)
	assert.Equal(t, Exclusion, toks[1].Kind)
	assert.Equal(t, "KEYWORD", toks[1].Text)
}

func TestArrowVsEquals(t *testing.T) {
	toks := scanAll(t, "= =>")
	require.Len(t, toks, 2)
	assert.Equal(t, Equals, toks[0].Kind)
	assert.Equal(t, Arrow, toks[1].Kind)
}

func TestPositionsAdvanceAcrossLines(t *testing.T) {
	toks := scanAll(t, "A\nB")
	require.Len(t, toks, 2)
	assert.Equal(t, 1, toks[0].Line())
	assert.Equal(t, 2, toks[1].Line())
}

func TestIsAllCapsAndIsPascalCase(t *testing.T) {
	assert.True(t, IsAllCaps("WORD"))
	assert.True(t, IsAllCaps("WORD_2"))
	assert.False(t, IsAllCaps("Word"))

	assert.True(t, IsPascalCase("RgbColor"))
	assert.False(t, IsPascalCase("RGBColor"))
	assert.False(t, IsPascalCase("WORD"))
}

func TestUnrecognizedCharacterIsError(t *testing.T) {
	src := source.New("g.ebnf", []byte("#"))
	c := source.NewCursor(src)
	_, err := New().Next(c)
	require.Error(t, err)
}
</content>
