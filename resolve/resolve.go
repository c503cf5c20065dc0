// Package resolve validates and annotates a grammar.Grammar built by
// package langdef, in the four passes spec.md §4.3 names: name binding,
// token expansion, capture-shape alignment, and semantic checks. Passes
// run in that fixed order because each depends on the previous one having
// already run — expansion needs every name bound, alignment assumes
// expansion won't change a definition's shape, and the semantic checks
// (doubtful/uncertain groups, scope/declare reachability) walk the same
// item tree alignment already validated.
//
// Grounded on the prior design's langdef.Parse pipeline, which chains
// findUndefinedNodes / resolveDependencies / findRecursions / ... as a
// sequence of "e = step(result, e)" calls feeding one accumulated error
// forward; this package instead reports every diagnostic to a shared
// diag.Sink and checks Sink.Failed() between passes, per spec.md §7's
// "first pass that records any error aborts the pipeline after completing
// that pass".
package resolve

import (
	"github.com/colebrook/ebnfc/diag"
	"github.com/colebrook/ebnfc/grammar"
	"github.com/colebrook/ebnfc/internal/worklist"
)

// Resolve runs all four passes over g, reporting diagnostics to sink, then
// computes the FIRST sets package codegen needs for lookahead generation.
// Returns an error (the generic "resolution failed" marker) iff sink
// recorded at least one error-level diagnostic; the diagnostics
// themselves, not the returned error, carry the detail.
func Resolve(g *grammar.Grammar, sink *diag.Sink) (*FirstSets, error) {
	r := &resolver{g: g, sink: sink}
	defer g.SetDiagnostics(sink)

	r.bindNames()
	if sink.Failed() {
		return nil, errFailed
	}

	r.expandTokens()
	if sink.Failed() {
		return nil, errFailed
	}

	r.alignCaptures()
	if sink.Failed() {
		return nil, errFailed
	}

	r.checkSemantics()
	if sink.Failed() {
		return nil, errFailed
	}

	return r.computeFirstSets(), nil
}

type errString string

func (e errString) Error() string { return string(e) }

const errFailed = errString("grammar resolution failed; see diagnostics")

type resolver struct {
	g    *grammar.Grammar
	sink *diag.Sink

	expandedDone map[string]bool
}

// forEachItem recursively visits every Item in items, descending into
// InlineGroup alternatives.
func forEachItem(items []*grammar.Item, fn func(*grammar.Item)) {
	for _, item := range items {
		fn(item)
		if item.Kind == grammar.ItemInline {
			for _, alt := range item.Inline.Alternatives {
				forEachItem(alt, fn)
			}
		}
	}
}

// forEachDefinition visits every Definition of every Rule, in
// declaration order.
func (r *resolver) forEachDefinition(fn func(rule *grammar.Rule, def *grammar.Definition)) {
	for _, name := range r.g.RuleOrder {
		rule := r.g.Rules[name]
		for _, def := range rule.Definitions {
			fn(rule, def)
		}
	}
}

// bindNames is pass 1: every Item referencing a Token or Rule must
// resolve to a declared one; @internal tokens may never be used as items,
// and @skip tokens may never be referenced directly (spec.md §4.3 step
// 1, step 4 last two bullets — checked here rather than deferred to the
// semantic pass, since both are really name-binding-shaped: "this name
// may not be used here").
func (r *resolver) bindNames() {
	r.forEachDefinition(func(rule *grammar.Rule, def *grammar.Definition) {
		forEachItem(def.Items, func(item *grammar.Item) {
			switch item.Kind {
			case grammar.ItemToken:
				tok, ok := r.g.Tokens[item.Name]
				if !ok {
					r.sink.Reportf(diag.Error, UndefinedTokenError, item.Pos, "rule %q references undefined token %q", rule.Name, item.Name)
					return
				}
				if tok.Decorators.Internal {
					r.sink.Reportf(diag.Error, InternalTokenUsedError, item.Pos, "token %q is @internal and may not appear in rule %q", item.Name, rule.Name)
				}
				if tok.Decorators.Skip {
					r.sink.Reportf(diag.Error, SkipTokenUsedError, item.Pos, "token %q is @skip and may not be referenced in rule %q", item.Name, rule.Name)
				}
			case grammar.ItemRule:
				if _, ok := r.g.Rules[item.Name]; !ok {
					r.sink.Reportf(diag.Error, UndefinedRuleError, item.Pos, "rule %q references undefined rule %q", rule.Name, item.Name)
				}
			}
		})
	})

	if r.g.Start != "" {
		if _, ok := r.g.Rules[r.g.Start]; !ok {
			r.sink.Reportf(diag.Error, UndefinedRuleError, grammar.Pos{Name: r.g.SourceName()}, ".start names undefined rule %q", r.g.Start)
		}
	}
}

// checkSemantics is pass 4: attribute/directive compatibility and the
// doubtful/uncertain group diagnostics.
func (r *resolver) checkSemantics() {
	for _, name := range r.g.RuleOrder {
		rule := r.g.Rules[name]
		r.checkKeyFlipMerge(rule)
		r.checkScope(rule)
		r.checkDeclare(rule)
	}

	r.forEachDefinition(func(rule *grammar.Rule, def *grammar.Definition) {
		forEachItem(def.Items, func(item *grammar.Item) {
			if item.Kind != grammar.ItemInline {
				return
			}
			grp := item.Inline
			if isDoubtful(grp) {
				r.sink.Reportf(diag.Warning, DoubtfulGroupWarning, grp.Pos, "rule %q: group is doubtful — every alternative is independently optional", rule.Name)
			}
			if isUncertain(grp) {
				r.sink.Reportf(diag.Warning, UncertainGroupWarning, grp.Pos, "rule %q: group is uncertain — its first item is itself optional", rule.Name)
			}
		})
	})
}

func (r *resolver) checkKeyFlipMerge(rule *grammar.Rule) {
	flip, hasFlip := rule.Attr(grammar.FlipAttr)
	_, hasKey := rule.Attr(grammar.KeyAttr)
	merge := rule.HasDirective(grammar.DirMerge)

	if hasFlip && !hasKey {
		r.sink.Reportf(diag.Error, FlipRequiresKeyError, rule.Pos, "rule %q: flip:%s requires key on the same rule", rule.Name, flip)
	}

	if merge && hasKey {
		r.sink.Reportf(diag.Error, MergeIncompatibleError, rule.Pos, "rule %q: merge is incompatible with key on the same rule", rule.Name)
	}
	if merge && hasFlip {
		r.sink.Reportf(diag.Error, MergeIncompatibleError, rule.Pos, "rule %q: merge is incompatible with flip on the same rule", rule.Name)
	}

	if key, hasKey := rule.Attr(grammar.KeyAttr); hasKey {
		found := false
		for _, def := range rule.Definitions {
			if capturesContain(def.Captures, key) {
				found = true
				break
			}
		}
		if !found {
			r.sink.Reportf(diag.Error, KeyMissingFromCapturesError, rule.Pos, "rule %q: key:%s names a capture that never appears", rule.Name, key)
		}
	}
}

func capturesContain(caps []*grammar.Capture, name string) bool {
	for _, c := range caps {
		if c.Name == name {
			return true
		}
		if capturesContain(c.Sub, name) {
			return true
		}
	}
	return false
}

func (r *resolver) checkScope(rule *grammar.Rule) {
	if _, ok := rule.Attr(grammar.ScopeAttr); !ok {
		return
	}
	for reached := range r.reachableRuleNames(rule.Name) {
		if _, declares := r.g.Rules[reached].Attr(grammar.DeclareAttr); declares {
			return
		}
	}
	r.sink.Reportf(diag.Warning, ScopeWithoutDeclareWarning, rule.Pos, "rule %q has scope but no reachable declare", rule.Name)
}

func (r *resolver) checkDeclare(rule *grammar.Rule) {
	if _, ok := rule.Attr(grammar.DeclareAttr); !ok {
		return
	}
	for _, scopeName := range r.g.RuleOrder {
		scopeRule := r.g.Rules[scopeName]
		if _, ok := scopeRule.Attr(grammar.ScopeAttr); !ok {
			continue
		}
		if r.reachableRuleNames(scopeName)[rule.Name] {
			return
		}
	}
	r.sink.Reportf(diag.Warning, DeclareWithoutScopeWarning, rule.Pos, "rule %q has declare but is not reachable from any scope", rule.Name)
}

// reachableRuleNames returns every rule name transitively reachable from
// start via RuleRef items, excluding start itself.
func (r *resolver) reachableRuleNames(start string) map[string]bool {
	visited := map[string]bool{}
	wl := worklist.New(start)
	for {
		name, ok := wl.Pop()
		if !ok {
			break
		}
		rule, ok := r.g.Rules[name]
		if !ok {
			continue
		}
		for _, def := range rule.Definitions {
			forEachItem(def.Items, func(item *grammar.Item) {
				if item.Kind != grammar.ItemRule {
					return
				}
				if !visited[item.Name] {
					visited[item.Name] = true
					wl.Push(item.Name)
				}
			})
		}
	}
	delete(visited, start)
	return visited
}
</content>
