package lexer

import "github.com/colebrook/ebnfc/source"

// Stream adds one-token lookahead/pushback to a Lexer bound to a cursor,
// the shape package langdef's recursive-descent parser needs: peek a
// token, decide which production applies, then either consume it or put
// it back for the next call. Grounded on the prior design's parseContext
// savedToken/put pair in langdef/parser.go.
type Stream struct {
	lex    *Lexer
	cursor *source.Cursor
	saved  *Token
}

// NewStream creates a Stream reading from c.
func NewStream(c *source.Cursor) *Stream {
	return &Stream{lex: New(), cursor: c}
}

// Next returns the next token, consuming a previously put-back token if
// there is one.
func (s *Stream) Next() (Token, error) {
	if s.saved != nil {
		t := *s.saved
		s.saved = nil
		return t, nil
	}
	return s.lex.Next(s.cursor)
}

// Put pushes t back so the next Next call returns it again. Panics if a
// token is already pending, mirroring the prior design's single-slot pushback
// invariant: the grammar description's syntax never needs two tokens of
// lookahead.
func (s *Stream) Put(t Token) {
	if s.saved != nil {
		panic("lexer: cannot put " + t.Kind.String() + " token: already put " + s.saved.Kind.String())
	}
	s.saved = &t
}

// Checkpoint returns an opaque cursor position usable with Restore. Any
// pending put-back token is cleared by a checkpoint taken before it was
// pushed back, so callers should Checkpoint before peeking, not after.
func (s *Stream) Checkpoint() int { return s.cursor.Checkpoint() }

// Restore resets the underlying cursor and discards any pending put-back
// token.
func (s *Stream) Restore(checkpoint int) {
	s.cursor.Restore(checkpoint)
	s.saved = nil
}

// Cursor returns the underlying cursor, for callers (e.g. @loadandparse
// handling) that need direct access to source position.
func (s *Stream) Cursor() *source.Cursor { return s.cursor }
</content>
