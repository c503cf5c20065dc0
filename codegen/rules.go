package codegen

import (
	"strings"

	"github.com/colebrook/ebnfc/diag"
	"github.com/colebrook/ebnfc/grammar"
	"github.com/colebrook/ebnfc/resolve"
)

// emitRule emits the is_<Rule>/match_<Rule> pair for one rule (spec.md
// §4.4's "per-rule helpers").
func (g *Generator) emitRule(rule *grammar.Rule) {
	g.emitIsRule(rule)
	g.emitMatchRule(rule)
}

// emitIsRule's body is exactly the rule's precomputed FIRST set (spec.md
// §9: "is_*() must not call match_*(), guaranteed by emitting look-ahead
// solely from the precomputed FIRST sets").
func (g *Generator) emitIsRule(rule *grammar.Rule) {
	g.linef("func is_%s(c *runtime.Cursor) bool {", rule.Name)
	g.indent++
	g.linef("return %s", g.orExpr(g.fs.RuleTerminals(rule.Name)))
	g.indent--
	g.line("}")
	g.blank()
}

func (g *Generator) emitMatchRule(rule *grammar.Rule) {
	g.tmpN = 0
	kind := upperSnake(rule.Name)

	g.linef("func match_%s(c *runtime.Cursor) (any, error) {", rule.Name)
	g.indent++
	g.line("pos := c.Pos()")

	if level, ok := rule.Attr(grammar.VerbosityAttr); ok {
		g.linef("verbosity.Push(%q)", level)
		g.line("defer verbosity.Pop()")
	}
	if _, ok := rule.Attr(grammar.ScopeAttr); ok {
		g.line("scopes.Push()")
		g.line("defer scopes.Pop()")
	}

	g.linef("node := runtime.NewNode(%q, pos)", kind)
	g.blank()

	if len(rule.Definitions) == 1 {
		g.emitDefinitionBody(rule, rule.Definitions[0], "node")
	} else {
		g.line("switch {")
		for _, def := range rule.Definitions {
			g.linef("case %s:", g.orExpr(g.fs.ItemsTerminals(def.Items)))
			g.indent++
			g.emitDefinitionBody(rule, def, "node")
			g.indent--
		}
		g.line("default:")
		g.indent++
		g.linef(`return nil, &runtime.ExpectedTokenError{Source: c.SourceName(), Expected: %q, Pos: pos}`, rule.Name)
		g.indent--
		g.line("}")
	}
	g.blank()

	if name, ok := rule.Attr(grammar.DeclareAttr); ok {
		g.linef("if v, ok := node.Get(%q); ok {", name)
		g.indent++
		g.line("if s, ok := v.(string); ok {")
		g.indent++
		g.line("if err := scopes.Declare(s, node, pos); err != nil {")
		g.indent++
		g.line("return nil, err")
		g.indent--
		g.line("}")
		g.indent--
		g.line("}")
		g.indent--
		g.line("}")
	}

	for _, attr := range []grammar.AttributeKey{grammar.ClassifyAttr, grammar.ReclassifyAttr, grammar.RetroclassifyAttr} {
		if value, ok := rule.Attr(attr); ok {
			g.linef("c.Classify(%q, pos)", value)
		}
	}

	g.line("var result any = node")
	if field, ok := rule.Attr(grammar.FlipAttr); ok {
		g.line("if rn, ok := result.(*runtime.Node); ok {")
		g.indent++
		g.linef("result = rn.Flip(%q)", field)
		g.indent--
		g.line("}")
	}
	if key, ok := rule.Attr(grammar.KeyAttr); ok {
		g.line("if rn, ok := result.(*runtime.Node); ok {")
		g.indent++
		g.linef("result = rn.KeyReduce(%q)", key)
		g.indent--
		g.line("}")
	}
	g.line("return result, nil")

	g.indent--
	g.line("}")
	g.blank()
}

// emitDefinitionBody emits one alternative's item sequence, assigning
// captures into nodeVar (always "node": groups never get a sub-node of
// their own, see DESIGN.md on flattened group captures).
//
// A single-item Definition with no capture list is a transparent alias
// (see DESIGN.md): rather than returning an empty {kind, lc} wrapper, it
// replaces nodeVar's own result with the item's own match result, which is
// what makes `@{merge} = INTEGER | FLOAT;`-style rules meaningful.
func (g *Generator) emitDefinitionBody(rule *grammar.Rule, def *grammar.Definition, nodeVar string) {
	if def.Captures == nil && len(def.Items) == 1 && def.Items[0].Multiplicity == grammar.One {
		g.emitTransparentItem(def.Items[0])
		return
	}

	for i, item := range def.Items {
		var capture *grammar.Capture
		if def.Captures != nil && i < len(def.Captures) {
			capture = def.Captures[i]
		}
		g.emitItem(item, capture, nodeVar)
	}
}

// emitTransparentItem handles the single-item/no-capture alias case. A
// token or literal item overwrites the "node" variable already declared in
// the enclosing match_<Rule> with a node named after the token, carrying
// its "value"; the rest of that function's attribute lowering still runs
// on that node. A rule item returns the sub-rule's result directly,
// skipping the rest of the function.
func (g *Generator) emitTransparentItem(item *grammar.Item) {
	switch item.Kind {
	case grammar.ItemToken:
		tok := g.tmp("tok")
		g.linef("%s, err := expect_%s(c)", tok, item.Name)
		g.line("if err != nil { return nil, err }")
		g.linef("node = runtime.NewNode(%q, %s.Pos)", item.Name, tok)
		g.linef("node.Set(\"value\", %s.Value)", tok)
	case grammar.ItemLiteral:
		name := g.literalName(item.Literal, item.LiteralIsRegex)
		tok := g.tmp("tok")
		g.linef("%s, err := expect_%s(c)", tok, name)
		g.line("if err != nil { return nil, err }")
		g.linef("node = runtime.NewNode(%q, %s.Pos)", name, tok)
		g.linef("node.Set(\"value\", %s.Value)", tok)
	case grammar.ItemRule:
		sub := g.tmp("sub")
		g.linef("%s, err := match_%s(c)", sub, item.Name)
		g.line("if err != nil { return nil, err }")
		g.linef("var result any = %s", sub)
		g.line("return result, nil")
	default:
		g.emitItem(item, nil, "node")
	}
}

// emitItem lowers one Item according to spec.md §4.4's multiplicity rules.
func (g *Generator) emitItem(item *grammar.Item, capture *grammar.Capture, nodeVar string) {
	switch item.Multiplicity {
	case grammar.One:
		g.emitRequiredItem(item, capture, nodeVar)
	case grammar.ZeroOrOne:
		g.linef("if %s {", g.lookaheadExpr(item))
		g.indent++
		g.emitRequiredItem(item, capture, nodeVar)
		g.indent--
		g.line("}")
	case grammar.ZeroOrMore:
		g.linef("for %s {", g.lookaheadExpr(item))
		g.indent++
		g.emitRequiredItem(item, capture, nodeVar)
		g.indent--
		g.line("}")
	case grammar.OneOrMore:
		g.emitRequiredItem(item, capture, nodeVar)
		g.linef("for %s {", g.lookaheadExpr(item))
		g.indent++
		g.emitRequiredItem(item, capture, nodeVar)
		g.indent--
		g.line("}")
	}
}

// emitRequiredItem emits one unconditional attempt at item, already assumed
// to be the caller's chosen branch (a prior is_*/for/if test, or the
// surrounding switch case). Optional groups (`[...]`) get hard commitment
// here: once their own first item is tested true, the remaining items are
// required and a failure past that point is fatal, not a backtrack
// (spec.md §4.4).
func (g *Generator) emitRequiredItem(item *grammar.Item, capture *grammar.Capture, nodeVar string) {
	switch item.Kind {
	case grammar.ItemToken:
		tok := g.tmp("tok")
		g.linef("%s, err := expect_%s(c)", tok, item.Name)
		g.line("if err != nil { return nil, err }")
		if tokDef := g.g.Tokens[item.Name]; tokDef != nil && tokDef.Decorators.LoadAndParse {
			included := g.emitLoadAndParse(tok)
			g.assign(capture, included, nodeVar)
		} else {
			g.assignToken(capture, tok, nodeVar)
		}

	case grammar.ItemLiteral:
		name := g.literalName(item.Literal, item.LiteralIsRegex)
		tok := g.tmp("tok")
		g.linef("%s, err := expect_%s(c)", tok, name)
		g.line("if err != nil { return nil, err }")
		g.assignToken(capture, tok, nodeVar)

	case grammar.ItemRule:
		sub := g.tmp("sub")
		g.linef("%s, err := match_%s(c)", sub, item.Name)
		g.line("if err != nil { return nil, err }")
		if g.g.Rules[item.Name] != nil && g.g.Rules[item.Name].HasDirective(grammar.DirMerge) {
			g.linef("if mn, ok := %s.(*runtime.Node); ok {", sub)
			g.indent++
			g.linef("%s.Merge(mn)", nodeVar)
			g.indent--
			g.line("}")
		} else {
			g.assign(capture, sub, nodeVar)
		}

	case grammar.ItemInline:
		g.emitInlineGroup(item.Inline, capture, nodeVar)

	default:
		// grammar.ItemGroup (a bare TokenGroup reference) is never produced
		// by langdef.Parse — TokenGroups only ever appear as exclusion
		// targets — but nothing currently rejects one explicitly if some
		// other Grammar construction path ever produced it. Report rather
		// than silently emit nothing.
		g.sink.Reportf(diag.Error, UnsupportedConstructError, item.Pos, "codegen: unsupported item kind in %q", nodeVar)
	}
}

// emitLoadAndParse lowers an `@loadandparse` token match (spec.md §4.4:
// "the emitted code loads the referenced file and recursively invokes
// parse with the grammar-level default start") and returns the Go
// expression holding the included file's AST.
func (g *Generator) emitLoadAndParse(tokVar string) string {
	content := g.tmp("content")
	path := g.tmp("path")
	sub := g.tmp("subc")
	included := g.tmp("included")

	g.linef("%s, %s, err := runtime.ReadInclude(c.SourceName(), %s.Value, %s.Pos)", content, path, tokVar, tokVar)
	g.line("if err != nil { return nil, err }")
	g.linef("%s := runtime.NewCursor(%s, %s, tokenKinds)", sub, path, content)
	g.linef("%s.Skip()", sub)
	g.linef("%s, err := match_%s(%s)", included, g.g.Start, sub)
	g.line("if err != nil { return nil, err }")
	g.linef("if !%s.Eof() {", sub)
	g.indent++
	g.linef(`return nil, &runtime.TrailingInputError{Source: %s.SourceName(), Pos: %s.Pos()}`, sub, sub)
	g.indent--
	g.line("}")

	return included
}

// emitInlineGroup lowers an InlineGroup's body directly into nodeVar
// (groups never get a node of their own, see DESIGN.md). Optional groups
// get hard commitment: the group's own multiplicity is ZeroOrOne and is
// handled by the caller's emitItem, so by the time emitInlineGroup runs for
// an Optional group, the decision to enter has already been made and
// failures inside are fatal.
func (g *Generator) emitInlineGroup(grp *grammar.InlineGroup, capture *grammar.Capture, nodeVar string) {
	var subCaps []*grammar.Capture
	if capture != nil {
		subCaps = capture.Sub
	}

	switch grp.Tag {
	case grammar.InlineOptional, grammar.InlineSequential:
		g.emitItemsWithCaptures(grp.Alternatives[0], subCaps, nodeVar)
	case grammar.InlineAlternative:
		g.line("switch {")
		for _, alt := range grp.Alternatives {
			g.linef("case %s:", g.orExpr(g.fs.ItemsTerminals(alt)))
			g.indent++
			g.emitItemsWithCaptures(alt, subCaps, nodeVar)
			g.indent--
		}
		g.line("default:")
		g.indent++
		g.linef(`return nil, &runtime.ExpectedTokenError{Source: c.SourceName(), Expected: "group", Pos: c.Pos()}`)
		g.indent--
		g.line("}")
	}
}

func (g *Generator) emitItemsWithCaptures(items []*grammar.Item, caps []*grammar.Capture, nodeVar string) {
	for i, item := range items {
		var capture *grammar.Capture
		if i < len(caps) {
			capture = caps[i]
		}
		g.emitItem(item, capture, nodeVar)
	}
}

// assign lowers one capture assignment for a rule-shaped match (or an
// @loadandparse token's included AST): value names a variable holding the
// `any` result of a match, subject to dotted field projection via
// runtime.Field when the capture names one. Token/literal matches use
// assignToken instead, since a Token's default projection (.Value) differs
// from a node's (the whole match).
func (g *Generator) assign(capture *grammar.Capture, value string, nodeVar string) {
	if capture == nil || capture.Ignored {
		return
	}

	expr := value
	if capture.Field != "" {
		fld := g.tmp("fld")
		g.linef("%s, err := runtime.Field(%s, %q)", fld, value, capture.Field)
		g.line("if err != nil { return nil, err }")
		expr = fld
	}

	if capture.IsList {
		g.linef("%s.Append(%q, %s)", nodeVar, capture.Name, expr)
	} else {
		g.linef("%s.Set(%q, %s)", nodeVar, capture.Name, expr)
	}
}

// assignToken lowers a capture on a token/literal match. Unlike assign,
// which defaults to assigning the whole match and only narrows via
// runtime.Field when a dotted field is requested, a token capture defaults
// to its own Value string and only calls into runtime.Field when a field
// other than "value" is requested (SPEC_FULL.md's "lc" addendum), so a
// plain `tok` capture still assigns the matched text rather than the whole
// Token.
func (g *Generator) assignToken(capture *grammar.Capture, tokVar string, nodeVar string) {
	if capture == nil || capture.Ignored {
		return
	}

	expr := tokVar + ".Value"
	if capture.Field != "" && capture.Field != "value" {
		fld := g.tmp("fld")
		g.linef("%s, err := runtime.Field(%s, %q)", fld, tokVar, capture.Field)
		g.line("if err != nil { return nil, err }")
		expr = fld
	}

	if capture.IsList {
		g.linef("%s.Append(%q, %s)", nodeVar, capture.Name, expr)
	} else {
		g.linef("%s.Set(%q, %s)", nodeVar, capture.Name, expr)
	}
}

// lookaheadExpr builds the look-ahead boolean expression for item, the
// disjunction of is_<terminal>() calls over item's own FIRST set — the
// same computation whether item is a bare token/rule/literal or an inline
// group, since FirstSets.ItemsTerminals already walks into groups.
func (g *Generator) lookaheadExpr(item *grammar.Item) string {
	return g.orExpr(g.fs.ItemsTerminals([]*grammar.Item{item}))
}

func (g *Generator) orExpr(terms []resolve.Terminal) string {
	if len(terms) == 0 {
		return "false"
	}
	parts := make([]string, len(terms))
	for i, t := range terms {
		parts[i] = "is_" + g.terminalName(t) + "(c)"
	}
	return strings.Join(parts, " || ")
}

func (g *Generator) terminalName(t resolve.Terminal) string {
	if t.Token != "" {
		return t.Token
	}
	return g.literalName(t.Literal, t.IsRegex)
}
