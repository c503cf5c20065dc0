package codegen

import (
	"fmt"
	"strings"

	"github.com/colebrook/ebnfc/grammar"
)

func (g *Generator) emitHeader() {
	g.line("// Code generated by ebnfc. DO NOT EDIT.")
	g.line("package main")
	g.blank()
	g.line("import (")
	g.indent++
	g.line(`"encoding/json"`)
	g.line(`"flag"`)
	g.line(`"fmt"`)
	g.line(`"os"`)
	g.line(`"regexp"`)
	g.blank()
	g.line(`"github.com/colebrook/ebnfc/runtime"`)
	g.indent--
	g.line(")")
	g.blank()
	g.line("var scopes runtime.ScopeStack")
	g.line("var verbosity runtime.VerbosityStack")
	g.blank()
}

// collectLiterals walks every rule's items, recursively through inline
// groups, registering a synthetic token entry for each distinct inline
// literal (backtick regex or quoted string) so it can ride in the same
// ordered token table a Cursor scans against.
func (g *Generator) collectLiterals() {
	for _, name := range g.g.RuleOrder {
		rule := g.g.Rules[name]
		for _, def := range rule.Definitions {
			g.collectLiteralsFromItems(def.Items)
		}
	}
}

func (g *Generator) collectLiteralsFromItems(items []*grammar.Item) {
	for _, item := range items {
		switch item.Kind {
		case grammar.ItemLiteral:
			g.literalName(item.Literal, item.LiteralIsRegex)
		case grammar.ItemInline:
			for _, alt := range item.Inline.Alternatives {
				g.collectLiteralsFromItems(alt)
			}
		}
	}
}

// literalName returns the synthetic token name for a (literal, isRegex)
// pair, registering it on first use. Declaration order of first use becomes
// the token table's tie-break order among literals (tie-breaks never
// matter here since each synthetic kind has a unique, disjoint name).
func (g *Generator) literalName(literal string, isRegex bool) string {
	kind := "s"
	if isRegex {
		kind = "r"
	}
	key := kind + ":" + literal
	if name, ok := g.literalIndex[key]; ok {
		return name
	}
	name := fmt.Sprintf("lit%d", len(g.literalOrder))
	g.literalOrder = append(g.literalOrder, literalEntry{Name: name, Literal: literal, IsRegex: isRegex})
	g.literalIndex[key] = name
	return name
}

func (g *Generator) emitTokenTable() {
	g.line("var tokenKinds = []runtime.TokenKind{")
	g.indent++
	for _, name := range g.g.TokenOrder {
		tok := g.g.Tokens[name]
		g.emitTokenKindEntry(name, tok.ExpandedRegex(), tok.Decorators.Skip, tok.Decorators.Group, g.excludeMembers(tok), classifyName(tok))
	}
	for _, lit := range g.literalOrder {
		g.emitTokenKindEntry(lit.Name, quoteLiteralPattern(lit.Literal, lit.IsRegex), false, 0, nil, "")
	}
	g.indent--
	g.line("}")
	g.blank()
}

func (g *Generator) emitTokenKindEntry(name, pattern string, skip bool, group int, exclude []string, classify string) {
	g.linef("{Name: %q, Pattern: regexp.MustCompile(%q), Skip: %t, GroupIndex: %d, Classify: %q, Exclude: %s},",
		name, "^(?:"+pattern+")", skip, group, classify, goStringSlice(exclude))
}

func goStringSlice(items []string) string {
	if len(items) == 0 {
		return "nil"
	}
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = fmt.Sprintf("%q", s)
	}
	return "[]string{" + strings.Join(quoted, ", ") + "}"
}

func classifyName(tok *grammar.Token) string {
	if tok.Classify == nil {
		return ""
	}
	return tok.Classify.Name
}

func (g *Generator) excludeMembers(tok *grammar.Token) []string {
	var members []string
	for _, groupName := range tok.Exclusions {
		if grp, ok := g.g.Groups[groupName]; ok {
			members = append(members, grp.Members...)
		}
	}
	return members
}

func (g *Generator) emitTokenHelpers() {
	for _, name := range g.g.TokenOrder {
		tok := g.g.Tokens[name]
		if tok.Decorators.Internal || tok.Decorators.Skip {
			continue
		}
		g.emitTerminalHelpers(name)
	}
}

func (g *Generator) emitLiteralHelpers() {
	for _, lit := range g.literalOrder {
		g.emitTerminalHelpers(lit.Name)
	}
}

// emitTerminalHelpers emits the is_/match_/expect_ triple spec.md §4.4
// describes for one token-table entry (declared token or synthetic
// literal); both share one shape since both ride the same Cursor table.
func (g *Generator) emitTerminalHelpers(name string) {
	g.linef("func is_%s(c *runtime.Cursor) bool {", name)
	g.indent++
	g.linef("return c.Peek(%q)", name)
	g.indent--
	g.line("}")
	g.blank()

	g.linef("func match_%s(c *runtime.Cursor) (runtime.Token, bool) {", name)
	g.indent++
	g.linef("return c.Match(%q)", name)
	g.indent--
	g.line("}")
	g.blank()

	g.linef("func expect_%s(c *runtime.Cursor) (runtime.Token, error) {", name)
	g.indent++
	g.linef("t, ok := c.Match(%q)", name)
	g.line("if !ok {")
	g.indent++
	g.linef(`return runtime.Token{}, &runtime.ExpectedTokenError{Source: c.SourceName(), Expected: %q, Pos: c.Pos()}`, name)
	g.indent--
	g.line("}")
	g.line("return t, nil")
	g.indent--
	g.line("}")
	g.blank()
}
