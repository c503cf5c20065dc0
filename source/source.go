// Package source tracks a single grammar-description or generated-parser
// input file and its line/column positions.
//
// Adapted from the prior design's source package: the line-start binary search
// in LineCol/findLineIndex is kept almost verbatim (it is a well-tested,
// self-contained algorithm with nothing domain-specific to change), but
// the prior design's multi-file Queue (chaining several sources into one token
// stream, for lexer hooks that splice in included files) is dropped.
// @loadandparse (spec.md §3, §4.4) is realized as an independent recursive
// call to parse() in the emitted parser instead of stream-splicing, so
// there is never more than one active Source at a time; a Cursor replaces
// the Queue with the minimal checkpoint/restore operations speculative
// rule matching needs (spec.md §5).
package source

import "unicode/utf8"

// Source holds a single file's content and precomputed line starts.
type Source struct {
	name          string
	content       []byte
	lineStarts    []int
	prevLineIndex int
}

// New creates a Source. content should be valid UTF-8 with "\n" line
// separators; name identifies the source in diagnostics and may be empty.
func New(name string, content []byte) *Source {
	s := &Source{name: name, content: content, prevLineIndex: -1}
	lineCnt := 1
	for _, b := range content {
		if b == '\n' {
			lineCnt++
		}
	}

	s.lineStarts = make([]int, lineCnt)
	j := 1
	for i := 0; i < len(content) && j < lineCnt; i++ {
		if content[i] == '\n' {
			s.lineStarts[j] = i + 1
			j++
		}
	}
	return s
}

// Name returns the source's name.
func (s *Source) Name() string { return s.name }

// Content returns the source's full content. Must not be modified.
func (s *Source) Content() []byte { return s.content }

// Len returns the content length in bytes.
func (s *Source) Len() int { return len(s.content) }

// LineCol returns the 1-based line and column for a byte offset into the
// content. Negative offsets are clamped to 0; offsets at or past the end
// resolve to the position right after the last byte.
func (s *Source) LineCol(pos int) (line, col int) {
	var lineIndex int
	switch {
	case pos < 0:
		pos = 0
		lineIndex = 0
	case pos >= len(s.content):
		pos = len(s.content)
		lineIndex = len(s.lineStarts) - 1
	default:
		lineIndex = s.findLineIndex(pos)
	}

	lineStart := s.lineStarts[lineIndex]
	return lineIndex + 1, utf8.RuneCount(s.content[lineStart:pos]) + 1
}

func (s *Source) findLineIndex(pos int) int {
	if s.prevLineIndex >= 0 && s.lineStarts[s.prevLineIndex] <= pos {
		lineIndex := s.prevLineIndex
		last := len(s.lineStarts) - 1
		for lineIndex <= last && s.lineStarts[lineIndex] <= pos {
			lineIndex++
		}
		lineIndex--
		s.prevLineIndex = lineIndex
		return lineIndex
	}

	leftIndex, rightIndex := 0, len(s.lineStarts)-1
	if s.prevLineIndex >= 0 {
		rightIndex = s.prevLineIndex
	}

	index := rightIndex
	for leftIndex < rightIndex {
		index = (leftIndex + rightIndex + 1) >> 1
		lineStart := s.lineStarts[index]
		if lineStart == pos {
			break
		}
		if lineStart < pos {
			leftIndex = index
		} else {
			rightIndex = index - 1
			index = rightIndex
		}
	}
	s.prevLineIndex = index
	return index
}

// Pos captures a source together with a byte offset, line, and column.
// The zero value means "no position available".
type Pos struct {
	src            *Source
	pos, line, col int
}

// NewPos builds a Pos for an offset into s. Returns the zero value if s is nil.
func NewPos(s *Source, pos int) Pos {
	if s == nil {
		return Pos{}
	}
	line, col := s.LineCol(pos)
	return Pos{s, pos, line, col}
}

// Source returns the captured source, or nil.
func (p Pos) Source() *Source { return p.src }

// SourceName implements ebnfc.SourcePos.
func (p Pos) SourceName() string {
	if p.src == nil {
		return ""
	}
	return p.src.Name()
}

// Offset returns the captured byte offset.
func (p Pos) Offset() int { return p.pos }

// Line implements ebnfc.SourcePos.
func (p Pos) Line() int { return p.line }

// Col implements ebnfc.SourcePos.
func (p Pos) Col() int { return p.col }

// Cursor is a mutable read position into a Source, with checkpoint/restore
// support for speculative matching: a caller checkpoints the cursor, tries
// to match, and restores on failure so no partial consumption leaks past a
// failed attempt. langdef's parser does not use it; it is exposed through
// lexer.Stream.
type Cursor struct {
	src *Source
	pos int
}

// NewCursor creates a Cursor positioned at the start of src.
func NewCursor(src *Source) *Cursor { return &Cursor{src: src} }

// Source returns the underlying Source.
func (c *Cursor) Source() *Source { return c.src }

// Pos returns the current byte offset.
func (c *Cursor) Pos() int { return c.pos }

// Content returns the unconsumed tail of the source content.
func (c *Cursor) Content() []byte { return c.src.content[c.pos:] }

// Eof reports whether the cursor has consumed the whole source.
func (c *Cursor) Eof() bool { return c.pos >= c.src.Len() }

// Advance moves the cursor forward by n bytes, clamped to the source length.
func (c *Cursor) Advance(n int) {
	c.pos += n
	if c.pos > c.src.Len() {
		c.pos = c.src.Len()
	}
}

// Checkpoint returns an opaque position usable with Restore.
func (c *Cursor) Checkpoint() int { return c.pos }

// Restore resets the cursor to a position previously returned by Checkpoint.
func (c *Cursor) Restore(checkpoint int) { c.pos = checkpoint }

// LineCol returns the 1-based line/column for the cursor's current position.
func (c *Cursor) LineCol() (line, col int) { return c.src.LineCol(c.pos) }

// SourcePos returns a Pos describing the cursor's current position.
func (c *Cursor) SourcePos() Pos { return NewPos(c.src, c.pos) }

// NormalizeNewlines rewrites "\r\n" and lone "\r" to "\n" in place,
// shrinking content to the new length. Grammar and generated-parser input
// alike are normalized before a Source is built from them.
func NormalizeNewlines(content []byte) []byte {
	w := 0
	sawCR := false
	for r := 0; r < len(content); r++ {
		b := content[r]
		if b == '\r' {
			sawCR = true
			content[w] = '\n'
			w++
			continue
		}
		if b == '\n' && sawCR {
			sawCR = false
			continue
		}
		sawCR = false
		content[w] = b
		w++
	}
	return content[:w]
}
