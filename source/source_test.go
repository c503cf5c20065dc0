package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLineCol(t *testing.T) {
	s := New("g.ebnf", []byte("abc\ndef\nghi"))

	line, col := s.LineCol(0)
	assert.Equal(t, 1, line)
	assert.Equal(t, 1, col)

	line, col = s.LineCol(4)
	assert.Equal(t, 2, line)
	assert.Equal(t, 1, col)

	line, col = s.LineCol(9)
	assert.Equal(t, 3, line)
	assert.Equal(t, 2, col)

	line, col = s.LineCol(1000)
	assert.Equal(t, 3, line)
	assert.Equal(t, 4, col)
}

func TestCursorCheckpointRestore(t *testing.T) {
	s := New("g.ebnf", []byte("0123456789"))
	c := NewCursor(s)

	c.Advance(3)
	cp := c.Checkpoint()
	c.Advance(4)
	assert.Equal(t, 7, c.Pos())

	c.Restore(cp)
	assert.Equal(t, 3, c.Pos())
	assert.Equal(t, []byte("3456789"), c.Content())
}

func TestNormalizeNewlines(t *testing.T) {
	got := NormalizeNewlines([]byte("a\r\nb\rc\nd"))
	assert.Equal(t, "a\nb\nc\nd", string(got))
}
