package runtime

import (
	"fmt"
	"regexp"
)

// TokenKind describes one compiled token pattern for a Cursor, built by
// generated code from a Grammar's token table (spec.md §4.4's "token
// table: name -> compiled regex pattern"). Patterns are tried in
// declaration order at the current position; the first to match wins,
// mirroring the prior design's own single master-regexp alternation where
// earlier alternatives take precedence over later ones at the same
// position.
type TokenKind struct {
	Name       string
	Pattern    *regexp.Regexp // must be anchored with a leading ^
	Skip       bool
	GroupIndex int // submatch index used as Value; 0 is the whole match
	Classify   string

	// Exclude lists literal values that, despite matching Pattern, do not
	// count as this kind (spec.md §4.4: "exclusion lists become, per
	// token, a table of group-member patterns to reject" — e.g. an
	// identifier token excluding a reserved-word group so the caller's
	// own keyword tokens get a chance instead).
	Exclude []string
}

func (k TokenKind) excludes(value string) bool {
	for _, ex := range k.Exclude {
		if ex == value {
			return true
		}
	}
	return false
}

// Token is one lexeme recognized by a Cursor.
type Token struct {
	Kind  string
	Text  string // the full matched text
	Value string // Text, or the selected capturing group for @N tokens
	Pos   LC
}

// Cursor scans src against an ordered TokenKind table, tracking line/col
// and supporting checkpoint/restore for speculative match_* attempts
// (spec.md §5: "the lexer position is the only mutable state during
// parsing; it supports checkpoint/restore").
type Cursor struct {
	src        []byte
	name       string
	pos        int
	line, col  int
	kinds []TokenKind

	classifications []Classification
}

// NewCursor creates a Cursor over src (already read into memory), named
// for error messages, scanning against kinds.
func NewCursor(name string, src []byte, kinds []TokenKind) *Cursor {
	return &Cursor{src: src, name: name, line: 1, col: 1, kinds: kinds}
}

// Eof reports whether the cursor is at or past the end of src, after
// skipping nothing further (callers call Skip first).
func (c *Cursor) Eof() bool { return c.pos >= len(c.src) }

// Pos returns the cursor's current source position.
func (c *Cursor) Pos() LC { return LC{c.line, c.col} }

// SourceName returns the name Cursor was constructed with.
func (c *Cursor) SourceName() string { return c.name }

// Checkpoint is an opaque saved cursor state.
type Checkpoint struct {
	pos, line, col int
}

// Save returns a Checkpoint for the cursor's current position.
func (c *Cursor) Save() Checkpoint {
	return Checkpoint{c.pos, c.line, c.col}
}

// Restore rewinds the cursor to a previously saved Checkpoint.
func (c *Cursor) Restore(cp Checkpoint) {
	c.pos, c.line, c.col = cp.pos, cp.line, cp.col
}

func (c *Cursor) advance(n int) {
	for i := 0; i < n; i++ {
		if c.src[c.pos+i] == '\n' {
			c.line++
			c.col = 1
		} else {
			c.col++
		}
	}
	c.pos += n
}

// Skip repeatedly consumes any token matching a Skip-marked TokenKind,
// implementing the single skip routine spec.md §4.4 describes: called at
// every inter-token boundary.
func (c *Cursor) Skip() {
	for {
		matched := false
		for _, k := range c.kinds {
			if !k.Skip {
				continue
			}
			loc := k.Pattern.FindIndex(c.src[c.pos:])
			if loc != nil && loc[0] == 0 && loc[1] > 0 {
				c.advance(loc[1])
				matched = true
				break
			}
		}
		if !matched {
			return
		}
	}
}

// Peek reports the next non-skip token without advancing, per TokenKind
// name, used to implement is_<t>() without ever calling Match.
func (c *Cursor) Peek(name string) bool {
	_, ok := c.peekKind(name)
	return ok
}

func (c *Cursor) peekKind(name string) (TokenKind, bool) {
	for _, k := range c.kinds {
		if k.Name != name {
			continue
		}
		loc := k.Pattern.FindSubmatchIndex(c.src[c.pos:])
		if loc == nil || loc[0] != 0 {
			return TokenKind{}, false
		}
		if k.excludes(valueOf(c.src[c.pos:], k, loc)) {
			return TokenKind{}, false
		}
		return k, true
	}
	return TokenKind{}, false
}

func valueOf(rest []byte, k TokenKind, loc []int) string {
	if k.GroupIndex > 0 && 2*k.GroupIndex+1 < len(loc) && loc[2*k.GroupIndex] >= 0 {
		return string(rest[loc[2*k.GroupIndex]:loc[2*k.GroupIndex+1]])
	}
	return string(rest[loc[0]:loc[1]])
}

// Match attempts to consume the named token at the current position,
// advancing on success and then running Skip, so the cursor always sits at
// a skip-normalized position whenever is_*/match_* next inspects it.
// Callers must Skip once themselves before the very first Peek/Match of a
// parse, since nothing has consumed the leading skip-token run yet.
func (c *Cursor) Match(name string) (Token, bool) {
	for _, k := range c.kinds {
		if k.Name != name {
			continue
		}
		loc := k.Pattern.FindSubmatchIndex(c.src[c.pos:])
		if loc == nil || loc[0] != 0 {
			return Token{}, false
		}
		text := string(c.src[c.pos : c.pos+loc[1]])
		value := valueOf(c.src[c.pos:], k, loc)
		if k.excludes(value) {
			return Token{}, false
		}
		pos := c.Pos()
		c.advance(loc[1])
		c.Skip()
		return Token{Kind: name, Text: text, Value: value, Pos: pos}, true
	}
	return Token{}, false
}

// Classification records a classify/reclassify/retroclassify attribute's
// effect on a span of input, kept separately from the emitted AST (spec.md
// §6 fixes the AST's JSON shape to kind/lc/captures) for syntax-highlighting
// consumers that want them.
type Classification struct {
	Name string
	Pos  LC
}

// Classify records a classification tag at pos.
func (c *Cursor) Classify(name string, pos LC) {
	c.classifications = append(c.classifications, Classification{Name: name, Pos: pos})
}

// Classifications returns every classification recorded during a parse.
func (c *Cursor) Classifications() []Classification {
	return c.classifications
}

// UnrecognizedTokenError reports a cursor position matching no TokenKind
// after a Skip attempt (spec.md §7: "unrecognized tokens at the cursor
// cause a skip attempt first, then an error").
type UnrecognizedTokenError struct {
	Source string
	Pos    LC
}

func (e *UnrecognizedTokenError) Error() string {
	return fmt.Sprintf("%s:%d:%d: unrecognized token", e.Source, e.Pos[0], e.Pos[1])
}

// ExpectedTokenError reports an expect_<t>() failure.
type ExpectedTokenError struct {
	Source   string
	Expected string
	Pos      LC
}

func (e *ExpectedTokenError) Error() string {
	return fmt.Sprintf("%s:%d:%d: expected %s", e.Source, e.Pos[0], e.Pos[1], e.Expected)
}

// TrailingInputError reports input remaining after a successful top-level
// match, which spec.md §4.4's parse entry point treats as an error
// ("requires end-of-input after skip").
type TrailingInputError struct {
	Source string
	Pos    LC
}

func (e *TrailingInputError) Error() string {
	return fmt.Sprintf("%s:%d:%d: unexpected trailing input", e.Source, e.Pos[0], e.Pos[1])
}

// CommitError reports a hard-commitment failure inside an Optional group
// (spec.md §4.4: once the first item of `[...]` matches, the rest is
// required, not backtracked).
type CommitError struct {
	Source  string
	Pos     LC
	Wrapped error
}

func (e *CommitError) Error() string {
	return fmt.Sprintf("%s:%d:%d: committed optional group failed: %v", e.Source, e.Pos[0], e.Pos[1], e.Wrapped)
}

func (e *CommitError) Unwrap() error { return e.Wrapped }
</content>
