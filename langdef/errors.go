package langdef

import (
	"github.com/colebrook/ebnfc"
	"github.com/colebrook/ebnfc/lexer"
)

// Error codes used by langdef.Parse.
const (
	UnexpectedEofError = ebnfc.ParseErrors + iota
	UnexpectedTokenError
	MisplacedSectionError
	DuplicateSectionError
	MissingRulesSectionError
	InvalidTokenNameError
	InvalidRuleNameError
	DuplicateTokenError
	DuplicateGroupError
	DuplicateRuleError
	UnknownDecoratorError
	ConflictingGroupDecoratorError
	UnknownAttributeError
	UnknownDirectiveError
	EmptyGroupError
	InvalidMultiplicityError
	MissingStartSectionError
	TrailingColonWarning
)

func eofError(t lexer.Token) *ebnfc.Error {
	return ebnfc.FormatErrorPos(t, UnexpectedEofError, "unexpected end of grammar description")
}

func unexpectedTokenError(t lexer.Token, expected string) *ebnfc.Error {
	return ebnfc.FormatErrorPos(t, UnexpectedTokenError, "unexpected %s token %q, expected %s", t.Kind, t.Text, expected)
}

func misplacedSectionError(t lexer.Token) *ebnfc.Error {
	return ebnfc.FormatErrorPos(t, MisplacedSectionError, "%s section out of order", t.Text)
}

func duplicateSectionError(t lexer.Token) *ebnfc.Error {
	return ebnfc.FormatErrorPos(t, DuplicateSectionError, "%s section already present", t.Text)
}

func missingRulesSectionError() *ebnfc.Error {
	return ebnfc.FormatError(MissingRulesSectionError, "grammar description has no .rules section")
}

func invalidTokenNameError(t lexer.Token) *ebnfc.Error {
	return ebnfc.FormatErrorPos(t, InvalidTokenNameError, "invalid token name %q: must match [A-Z][A-Z0-9_]*", t.Text)
}

func invalidRuleNameError(t lexer.Token) *ebnfc.Error {
	return ebnfc.FormatErrorPos(t, InvalidRuleNameError, "invalid rule name %q: must be strict PascalCase with no consecutive uppercase letters", t.Text)
}

func duplicateTokenError(t lexer.Token) *ebnfc.Error {
	return ebnfc.FormatErrorPos(t, DuplicateTokenError, "token %q already defined", t.Text)
}

func duplicateGroupError(t lexer.Token) *ebnfc.Error {
	return ebnfc.FormatErrorPos(t, DuplicateGroupError, "token group %q already defined", t.Text)
}

func duplicateRuleError(t lexer.Token) *ebnfc.Error {
	return ebnfc.FormatErrorPos(t, DuplicateRuleError, "rule %q already defined", t.Text)
}

func unknownDecoratorError(t lexer.Token) *ebnfc.Error {
	return ebnfc.FormatErrorPos(t, UnknownDecoratorError, "unknown decorator @%s", t.Text)
}

func conflictingGroupDecoratorError(t lexer.Token) *ebnfc.Error {
	return ebnfc.FormatErrorPos(t, ConflictingGroupDecoratorError, "token already has a capturing-group decorator, @%s is redundant", t.Text)
}

func unknownAttributeError(t lexer.Token) *ebnfc.Error {
	return ebnfc.FormatErrorPos(t, UnknownAttributeError, "unknown attribute or directive %q", t.Text)
}

func emptyGroupError(t lexer.Token) *ebnfc.Error {
	return ebnfc.FormatErrorPos(t, EmptyGroupError, "token group %q has no members", t.Text)
}

func invalidMultiplicityError(t lexer.Token) *ebnfc.Error {
	return ebnfc.FormatErrorPos(t, InvalidMultiplicityError, "optional group %q may not carry a trailing multiplicity", t.Text)
}

func missingStartSectionError(t lexer.Token) *ebnfc.Error {
	return ebnfc.FormatErrorPos(t, MissingStartSectionError, "token %q uses @loadandparse but no .start section names a default rule", t.Text)
}
</content>
