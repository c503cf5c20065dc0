// Package langdef builds a grammar.Grammar from a grammar description's
// token stream (spec.md §4.2): a recursive-descent parser enforcing
// section order, one entry per Token/TokenGroup/Rule, and the item/
// capture syntax within Rule definitions. It does not resolve names,
// expand @expand tokens, or run any semantic check beyond what parsing
// itself can catch (naming convention, duplicate declarations, syntax
// shape) — all of that is package resolve's job (spec.md §4.3).
//
// Grounded on the prior design's langdef.parseContext: a single struct
// carrying the token stream and accumulated result, advancing with
// fetch/put-style one-token lookahead, with errors built by small named
// constructors in errors.go exactly as the prior design does.
package langdef

import (
	"regexp"
	"strings"

	"github.com/colebrook/ebnfc/diag"
	"github.com/colebrook/ebnfc/grammar"
	"github.com/colebrook/ebnfc/lexer"
	"github.com/colebrook/ebnfc/source"
)

type parser struct {
	s    *lexer.Stream
	g    *grammar.Grammar
	sink *diag.Sink

	seenToken bool
	seenRules bool
	seenStart bool

	loadAndParseTokens []lexer.Token
}

// Parse builds a Grammar from src's content. sink may be nil; it only
// receives soft warnings (currently just TrailingColonWarning) that don't
// abort parsing, so every fatal condition is still reported through the
// returned error even when sink is nil.
func Parse(src *source.Source, sink *diag.Sink) (*grammar.Grammar, error) {
	p := &parser{
		s:    lexer.NewStream(source.NewCursor(src)),
		g:    grammar.New(src.Name()),
		sink: sink,
	}
	if err := p.parseFile(); err != nil {
		return nil, err
	}
	p.g.SetDiagnostics(sink)
	return p.g, nil
}

// ParseBytes normalizes content's line endings and parses it as a named
// grammar description.
func ParseBytes(name string, content []byte, sink *diag.Sink) (*grammar.Grammar, error) {
	return Parse(source.New(name, source.NormalizeNewlines(content)), sink)
}

// ParseString is ParseBytes over a string.
func ParseString(name, content string, sink *diag.Sink) (*grammar.Grammar, error) {
	return ParseBytes(name, []byte(content), sink)
}

func (p *parser) next() (lexer.Token, error) { return p.s.Next() }

func (p *parser) expect(kind lexer.Kind, what string) (lexer.Token, error) {
	t, err := p.s.Next()
	if err != nil {
		return lexer.Token{}, err
	}
	if t.Kind == lexer.EOF {
		return lexer.Token{}, eofError(t)
	}
	if t.Kind != kind {
		return lexer.Token{}, unexpectedTokenError(t, what)
	}
	return t, nil
}

func posOf(t lexer.Token) grammar.Pos {
	return grammar.Pos{Name: t.SourceName(), LineNo: t.Line(), ColNo: t.Col()}
}

// parseFile drives the top-level section sequence: an optional .token
// section, zero or more .token: NAME sections, an optional .start
// directive, and exactly one .rules section. Text after the .rules
// section's closing .end is ignored, per spec.md §6.
func (p *parser) parseFile() error {
	for {
		t, err := p.next()
		if err != nil {
			return err
		}
		if t.Kind == lexer.EOF {
			if !p.seenRules {
				return missingRulesSectionError()
			}
			return nil
		}
		if t.Kind != lexer.Section {
			return unexpectedTokenError(t, "a section marker")
		}

		switch t.Text {
		case ".token":
			if p.seenToken || p.seenRules {
				return misplacedSectionError(t)
			}
			p.seenToken = true
			if err := p.parseTokenSection(""); err != nil {
				return err
			}

		case ".token:":
			if p.seenRules {
				return misplacedSectionError(t)
			}
			nameTok, err := p.expect(lexer.Ident, "a token-group name")
			if err != nil {
				return err
			}
			if !lexer.IsAllCaps(nameTok.Text) {
				return invalidTokenNameError(nameTok)
			}
			if err := p.consumeOptionalTrailingColon(nameTok); err != nil {
				return err
			}
			if err := p.parseTokenSection(nameTok.Text); err != nil {
				return err
			}

		case ".start":
			if p.seenStart {
				return duplicateSectionError(t)
			}
			if p.seenRules {
				return misplacedSectionError(t)
			}
			p.seenStart = true
			nameTok, err := p.expect(lexer.Ident, "a rule name")
			if err != nil {
				return err
			}
			if !lexer.IsPascalCase(nameTok.Text) {
				return invalidRuleNameError(nameTok)
			}
			p.g.Start = nameTok.Text

		case ".rules":
			if p.seenRules {
				return duplicateSectionError(t)
			}
			p.seenRules = true
			if err := p.parseRulesSection(); err != nil {
				return err
			}
			return p.checkLoadAndParse()

		default:
			return misplacedSectionError(t)
		}
	}
}

// consumeOptionalTrailingColon tolerates the ".token: NAME:" variant
// (spec.md §9 Open Question: both forms appear in sample grammars) by
// consuming a second colon if present and reporting it as a warning
// rather than an error.
func (p *parser) consumeOptionalTrailingColon(nameTok lexer.Token) error {
	t, err := p.next()
	if err != nil {
		return err
	}
	if t.Kind != lexer.Colon {
		p.s.Put(t)
		return nil
	}
	if p.sink != nil {
		p.sink.Reportf(diag.Warning, TrailingColonWarning, posOf(nameTok), "trailing colon on .token: %s: is unnecessary", nameTok.Text)
	}
	return nil
}

func (p *parser) checkLoadAndParse() error {
	if p.g.Start != "" || len(p.loadAndParseTokens) == 0 {
		return nil
	}
	return missingStartSectionError(p.loadAndParseTokens[0])
}

// parseTokenSection reads Token and TokenGroup entries until .end.
// defaultClassify, when non-empty, is the classification every Token
// entry in this section receives unless it overrides it with its own
// @{classify:...} block — the resolution this module uses for what a
// ".token: NAME" section's NAME argument means, since spec.md leaves it
// unspecified beyond naming the section form.
func (p *parser) parseTokenSection(defaultClassify string) error {
	for {
		t, err := p.next()
		if err != nil {
			return err
		}
		if t.Kind == lexer.EOF {
			return eofError(t)
		}
		if t.Kind == lexer.Section {
			if t.Text != ".end" {
				return misplacedSectionError(t)
			}
			return nil
		}
		if t.Kind != lexer.Ident {
			return unexpectedTokenError(t, "a token or token-group name")
		}
		nameTok := t
		if !lexer.IsAllCaps(nameTok.Text) {
			return invalidTokenNameError(nameTok)
		}
		if _, exists := p.g.Tokens[nameTok.Text]; exists {
			return duplicateTokenError(nameTok)
		}
		if _, exists := p.g.Groups[nameTok.Text]; exists {
			return duplicateGroupError(nameTok)
		}

		next, err := p.next()
		if err != nil {
			return err
		}
		if next.Kind == lexer.Colon {
			group, err := p.parseTokenGroup(nameTok)
			if err != nil {
				return err
			}
			p.g.AddGroup(group)
			continue
		}
		p.s.Put(next)

		tok, err := p.parseTokenEntry(nameTok, defaultClassify)
		if err != nil {
			return err
		}
		p.g.AddToken(tok)
	}
}

func (p *parser) parseTokenGroup(nameTok lexer.Token) (*grammar.TokenGroup, error) {
	tg := &grammar.TokenGroup{Name: nameTok.Text, Pos: posOf(nameTok)}
	for {
		lit, err := p.expect(lexer.String, "a quoted literal")
		if err != nil {
			return nil, err
		}
		tg.Members = append(tg.Members, unquote(lit.Text))

		t, err := p.next()
		if err != nil {
			return nil, err
		}
		if t.Kind == lexer.Comma {
			continue
		}
		p.s.Put(t)
		break
	}
	if len(tg.Members) == 0 {
		return nil, emptyGroupError(nameTok)
	}
	return tg, nil
}

func (p *parser) parseTokenEntry(nameTok lexer.Token, defaultClassify string) (*grammar.Token, error) {
	regexTok, err := p.next()
	if err != nil {
		return nil, err
	}

	var regex string
	switch regexTok.Kind {
	case lexer.Regex:
		regex = regexTok.Text
	case lexer.String:
		regex = regexp.QuoteMeta(unquote(regexTok.Text))
	default:
		return nil, unexpectedTokenError(regexTok, "a regex or string literal")
	}

	tok := &grammar.Token{Name: nameTok.Text, Regex: regex, Pos: posOf(nameTok)}
	if defaultClassify != "" {
		tok.Classify = &grammar.Classification{Name: defaultClassify, Pos: posOf(nameTok)}
	}

	for {
		t, err := p.next()
		if err != nil {
			return nil, err
		}
		switch t.Kind {
		case lexer.Decorator:
			if err := p.applyTokenDecorator(tok, t); err != nil {
				return nil, err
			}
		case lexer.Exclusion:
			tok.Exclusions = append(tok.Exclusions, t.Text)
		case lexer.AttrOpen:
			attrs, dirs, err := p.parseAttrBlock()
			if err != nil {
				return nil, err
			}
			if len(dirs) > 0 {
				return nil, unknownAttributeError(t)
			}
			for key, a := range attrs {
				if key != grammar.ClassifyAttr {
					return nil, unknownAttributeError(t)
				}
				tok.Classify = &grammar.Classification{Name: a.Value, Pos: a.Pos}
			}
		default:
			p.s.Put(t)
			return tok, nil
		}
	}
}

func (p *parser) applyTokenDecorator(tok *grammar.Token, t lexer.Token) error {
	switch t.Text {
	case "skip":
		tok.Decorators.Skip = true
	case "internal":
		tok.Decorators.Internal = true
	case "expand":
		tok.Decorators.Expand = true
	case "relfilepath":
		tok.Decorators.RelFilePath = true
	case "absfilepath":
		tok.Decorators.AbsFilePath = true
	case "reldirpath":
		tok.Decorators.RelDirPath = true
	case "absdirpath":
		tok.Decorators.AbsDirPath = true
	case "ensurerelative":
		tok.Decorators.EnsureRelative = true
	case "ensureabsolute":
		tok.Decorators.EnsureAbsolute = true
	case "loadandparse":
		tok.Decorators.LoadAndParse = true
		p.loadAndParseTokens = append(p.loadAndParseTokens, t)
	default:
		n, ok := decoratorGroupIndex(t.Text)
		if !ok {
			return unknownDecoratorError(t)
		}
		if tok.Decorators.Group != 0 {
			return conflictingGroupDecoratorError(t)
		}
		tok.Decorators.Group = n
	}
	return nil
}

func decoratorGroupIndex(text string) (int, bool) {
	if len(text) != 1 || text[0] < '1' || text[0] > '9' {
		return 0, false
	}
	return int(text[0] - '0'), true
}

// parseAttrBlock reads the comma-separated attribute/directive entries of
// an "@{ ... }" block, already past the opening "@{"; the closing "}" is
// consumed here. Shared by Token and Rule entries (spec.md §3); callers
// reject key/directive combinations that don't belong on their kind of
// entry.
func (p *parser) parseAttrBlock() (map[grammar.AttributeKey]grammar.Attribute, map[grammar.DirectiveName]grammar.Pos, error) {
	attrs := map[grammar.AttributeKey]grammar.Attribute{}
	dirs := map[grammar.DirectiveName]grammar.Pos{}

	for {
		t, err := p.next()
		if err != nil {
			return nil, nil, err
		}
		if t.Kind == lexer.RBrace {
			return attrs, dirs, nil
		}
		if t.Kind != lexer.Ident {
			return nil, nil, unexpectedTokenError(t, "an attribute or directive name")
		}
		nameTok := t

		next, err := p.next()
		if err != nil {
			return nil, nil, err
		}
		if next.Kind == lexer.Colon {
			value, err := p.parseDottedName()
			if err != nil {
				return nil, nil, err
			}
			key, ok := attributeKeyByName(nameTok.Text)
			if !ok {
				return nil, nil, unknownAttributeError(nameTok)
			}
			attrs[key] = grammar.Attribute{Key: key, Value: value, Pos: posOf(nameTok)}
		} else {
			p.s.Put(next)
			if nameTok.Text != string(grammar.DirMerge) {
				return nil, nil, unknownAttributeError(nameTok)
			}
			dirs[grammar.DirMerge] = posOf(nameTok)
		}

		sep, err := p.next()
		if err != nil {
			return nil, nil, err
		}
		if sep.Kind != lexer.Comma {
			p.s.Put(sep)
		}
	}
}

func (p *parser) parseDottedName() (string, error) {
	first, err := p.expect(lexer.Ident, "an attribute value")
	if err != nil {
		return "", err
	}
	name := first.Text
	for {
		t, err := p.next()
		if err != nil {
			return "", err
		}
		if t.Kind != lexer.Dot {
			p.s.Put(t)
			return name, nil
		}
		part, err := p.expect(lexer.Ident, "a dotted name segment")
		if err != nil {
			return "", err
		}
		name += "." + part.Text
	}
}

func attributeKeyByName(name string) (grammar.AttributeKey, bool) {
	switch grammar.AttributeKey(name) {
	case grammar.KeyAttr, grammar.FlipAttr, grammar.ScopeAttr, grammar.DeclareAttr,
		grammar.VerbosityAttr, grammar.ClassifyAttr, grammar.ReclassifyAttr, grammar.RetroclassifyAttr:
		return grammar.AttributeKey(name), true
	}
	return "", false
}

// parseRulesSection reads Rule entries until .end.
func (p *parser) parseRulesSection() error {
	for {
		t, err := p.next()
		if err != nil {
			return err
		}
		if t.Kind == lexer.EOF {
			return eofError(t)
		}
		if t.Kind == lexer.Section {
			if t.Text != ".end" {
				return misplacedSectionError(t)
			}
			return nil
		}
		if t.Kind != lexer.Ident || !lexer.IsPascalCase(t.Text) {
			return invalidRuleNameError(t)
		}
		if _, exists := p.g.Rules[t.Text]; exists {
			return duplicateRuleError(t)
		}

		rule, err := p.parseRuleEntry(t)
		if err != nil {
			return err
		}
		p.g.AddRule(rule)
	}
}

func (p *parser) parseRuleEntry(nameTok lexer.Token) (*grammar.Rule, error) {
	if _, err := p.expect(lexer.Colon, "':'"); err != nil {
		return nil, err
	}

	rule := &grammar.Rule{Name: nameTok.Text, Pos: posOf(nameTok)}

	t, err := p.next()
	if err != nil {
		return nil, err
	}
	if t.Kind == lexer.AttrOpen {
		attrs, dirs, err := p.parseAttrBlock()
		if err != nil {
			return nil, err
		}
		rule.Attributes = attrs
		rule.Directives = dirs
	} else {
		p.s.Put(t)
	}

	if _, err := p.expect(lexer.Equals, "'='"); err != nil {
		return nil, err
	}

	for {
		def, err := p.parseDefinition()
		if err != nil {
			return nil, err
		}
		rule.Definitions = append(rule.Definitions, def)

		sep, err := p.next()
		if err != nil {
			return nil, err
		}
		if sep.Kind == lexer.Pipe {
			continue
		}
		if sep.Kind == lexer.Semicolon {
			break
		}
		return nil, unexpectedTokenError(sep, "'|' or ';'")
	}

	return rule, nil
}

func (p *parser) parseDefinition() (*grammar.Definition, error) {
	def := &grammar.Definition{}
	for {
		t, err := p.next()
		if err != nil {
			return nil, err
		}
		if !startsItem(t) {
			p.s.Put(t)
			break
		}
		if def.Pos == (grammar.Pos{}) {
			def.Pos = posOf(t)
		}
		item, err := p.parseItemFrom(t)
		if err != nil {
			return nil, err
		}
		def.Items = append(def.Items, item)
	}
	if len(def.Items) == 0 {
		t, _ := p.next()
		return nil, unexpectedTokenError(t, "at least one item")
	}

	t, err := p.next()
	if err != nil {
		return nil, err
	}
	if t.Kind == lexer.Arrow {
		caps, err := p.parseCaptureList()
		if err != nil {
			return nil, err
		}
		def.Captures = caps
	} else {
		p.s.Put(t)
	}
	return def, nil
}

func startsItem(t lexer.Token) bool {
	switch t.Kind {
	case lexer.Ident, lexer.Regex, lexer.String, lexer.LParen, lexer.LBracket:
		return true
	}
	return false
}

func (p *parser) parseItemFrom(t lexer.Token) (*grammar.Item, error) {
	item := &grammar.Item{Pos: posOf(t)}

	switch t.Kind {
	case lexer.Ident:
		switch {
		case lexer.IsAllCaps(t.Text):
			item.Kind = grammar.ItemToken
		case lexer.IsPascalCase(t.Text):
			item.Kind = grammar.ItemRule
		default:
			return nil, unexpectedTokenError(t, "a token or rule name")
		}
		item.Name = t.Text

	case lexer.Regex:
		item.Kind = grammar.ItemLiteral
		item.Literal = t.Text
		item.LiteralIsRegex = true

	case lexer.String:
		item.Kind = grammar.ItemLiteral
		item.Literal = unquote(t.Text)
		item.LiteralIsRegex = false

	case lexer.LBracket:
		grp, err := p.parseBracketGroup(t, grammar.InlineOptional, lexer.RBracket)
		if err != nil {
			return nil, err
		}
		item.Kind = grammar.ItemInline
		item.Inline = grp
		item.Multiplicity = grammar.ZeroOrOne

		mt, err := p.next()
		if err != nil {
			return nil, err
		}
		if isMultiplicity(mt) {
			return nil, invalidMultiplicityError(t)
		}
		p.s.Put(mt)
		return item, nil

	case lexer.LParen:
		grp, err := p.parseBracketGroup(t, grammar.InlineSequential, lexer.RParen)
		if err != nil {
			return nil, err
		}
		item.Kind = grammar.ItemInline
		item.Inline = grp

		mt, err := p.next()
		if err != nil {
			return nil, err
		}
		if !isMultiplicity(mt) {
			return nil, unexpectedTokenError(mt, "'?', '+', or '*'")
		}
		item.Multiplicity = multiplicityOf(mt)
		return item, nil

	default:
		return nil, unexpectedTokenError(t, "an item")
	}

	mt, err := p.next()
	if err != nil {
		return nil, err
	}
	if isMultiplicity(mt) {
		item.Multiplicity = multiplicityOf(mt)
	} else {
		p.s.Put(mt)
	}
	return item, nil
}

func isMultiplicity(t lexer.Token) bool {
	switch t.Kind {
	case lexer.Question, lexer.Star, lexer.Plus:
		return true
	}
	return false
}

func multiplicityOf(t lexer.Token) grammar.Multiplicity {
	switch t.Kind {
	case lexer.Question:
		return grammar.ZeroOrOne
	case lexer.Star:
		return grammar.ZeroOrMore
	case lexer.Plus:
		return grammar.OneOrMore
	}
	return grammar.One
}

// parseBracketGroup reads the Item+ ('|' Item+)* body of a bracketed
// group, already past the opening delimiter; the caller supplies the
// closing token kind. tag is the tentative tag for a single alternative;
// a second "|"-separated alternative upgrades it to Alternative, which
// parseItemFrom's caller (LBracket never allows this) cannot produce for
// Optional groups.
func (p *parser) parseBracketGroup(openTok lexer.Token, tag grammar.InlineTag, closeKind lexer.Kind) (*grammar.InlineGroup, error) {
	grp := &grammar.InlineGroup{Tag: tag, Pos: posOf(openTok)}
	var alt []*grammar.Item

	for {
		t, err := p.next()
		if err != nil {
			return nil, err
		}
		if t.Kind == closeKind {
			grp.Alternatives = append(grp.Alternatives, alt)
			if len(grp.Alternatives) > 1 {
				grp.Tag = grammar.InlineAlternative
			}
			if len(grp.Alternatives[0]) == 0 {
				return nil, unexpectedTokenError(t, "at least one item")
			}
			return grp, nil
		}
		if t.Kind == lexer.Pipe {
			if closeKind != lexer.RParen {
				return nil, unexpectedTokenError(t, closeKind.String())
			}
			grp.Alternatives = append(grp.Alternatives, alt)
			alt = nil
			continue
		}
		if !startsItem(t) {
			return nil, unexpectedTokenError(t, "an item")
		}
		item, err := p.parseItemFrom(t)
		if err != nil {
			return nil, err
		}
		alt = append(alt, item)
	}
}

func (p *parser) parseCaptureList() ([]*grammar.Capture, error) {
	var caps []*grammar.Capture
	for {
		t, err := p.next()
		if err != nil {
			return nil, err
		}
		if !startsCapture(t) {
			p.s.Put(t)
			break
		}
		c, err := p.parseCaptureFrom(t)
		if err != nil {
			return nil, err
		}
		caps = append(caps, c)
	}
	if len(caps) == 0 {
		t, _ := p.next()
		return nil, unexpectedTokenError(t, "at least one capture")
	}
	return caps, nil
}

func startsCapture(t lexer.Token) bool {
	switch t.Kind {
	case lexer.Ident, lexer.LParen, lexer.Star:
		return true
	}
	return false
}

func (p *parser) parseCaptureFrom(t lexer.Token) (*grammar.Capture, error) {
	c := &grammar.Capture{Pos: posOf(t)}
	if t.Kind == lexer.Star {
		c.IsList = true
		var err error
		t, err = p.next()
		if err != nil {
			return nil, err
		}
	}

	switch t.Kind {
	case lexer.LParen:
		sub, err := p.parseCaptureSublist()
		if err != nil {
			return nil, err
		}
		c.Sub = sub

	case lexer.Ident:
		if t.Text == "_" {
			c.Name = "_"
			c.Ignored = true
			break
		}
		c.Name = t.Text
		dot, err := p.next()
		if err != nil {
			return nil, err
		}
		if dot.Kind == lexer.Dot {
			field, err := p.expect(lexer.Ident, "a field name")
			if err != nil {
				return nil, err
			}
			c.Field = field.Text
		} else {
			p.s.Put(dot)
		}

	default:
		return nil, unexpectedTokenError(t, "a capture")
	}
	return c, nil
}

func (p *parser) parseCaptureSublist() ([]*grammar.Capture, error) {
	var caps []*grammar.Capture
	for {
		t, err := p.next()
		if err != nil {
			return nil, err
		}
		if t.Kind == lexer.RParen {
			return caps, nil
		}
		if !startsCapture(t) {
			return nil, unexpectedTokenError(t, "a capture or ')'")
		}
		c, err := p.parseCaptureFrom(t)
		if err != nil {
			return nil, err
		}
		caps = append(caps, c)
	}
}

// unquote strips a string literal's surrounding quotes and processes the
// handful of backslash escapes a regex fragment written as a quoted
// string can reasonably need (\\, \", \', \n, \t, \r); anything else
// following a backslash is passed through unchanged as fragment text that
// package resolve/codegen will hand to regexp.Compile verbatim (so e.g.
// "\d" stays "\d" for regexp to interpret, not for the lexer to eat).
func unquote(s string) string {
	if len(s) < 2 {
		return s
	}
	quote := s[0]
	body := s[1 : len(s)-1]

	var b strings.Builder
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c == '\\' && i+1 < len(body) {
			i++
			switch body[i] {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			case '\\':
				b.WriteByte('\\')
			case quote:
				b.WriteByte(quote)
			default:
				b.WriteByte('\\')
				b.WriteByte(body[i])
			}
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}
</content>
