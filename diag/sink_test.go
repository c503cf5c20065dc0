package diag

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThresholdFiltersByRank(t *testing.T) {
	var buf bytes.Buffer
	s := New(Warning, &buf)

	s.Report(Info, 1, "suppressed", nil)
	assert.Empty(t, buf.String())

	s.Report(Warning, 2, "shown", nil)
	assert.Contains(t, buf.String(), "shown")
}

func TestFailedTracksErrorsAcrossThreshold(t *testing.T) {
	s := New(Error, nil)
	require.False(t, s.Failed())

	s.Report(Warning, 1, "w", nil)
	assert.False(t, s.Failed())

	s.Report(Error, 2, "e", nil)
	assert.True(t, s.Failed())
	assert.Equal(t, 1, s.ErrorCount())
}

func TestParseLevel(t *testing.T) {
	l, ok := ParseLevel("debug2")
	require.True(t, ok)
	assert.Equal(t, Debug2, l)

	_, ok = ParseLevel("bogus")
	assert.False(t, ok)
}

func TestSortedByPosition(t *testing.T) {
	s := New(All, nil)
	s.Report(Warning, 1, "second", fakePos{line: 5, col: 1})
	s.Report(Warning, 2, "first", fakePos{line: 1, col: 1})

	sorted := s.SortedByPosition()
	require.Len(t, sorted, 2)
	assert.Equal(t, "first", sorted[0].Message)
	assert.Equal(t, "second", sorted[1].Message)
}

type fakePos struct{ line, col int }

func (p fakePos) SourceName() string { return "g.ebnf" }
func (p fakePos) Line() int          { return p.line }
func (p fakePos) Col() int           { return p.col }
