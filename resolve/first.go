package resolve

import (
	"github.com/colebrook/ebnfc/grammar"
	"github.com/colebrook/ebnfc/internal/bitset"
)

// Terminal identifies one lookahead-testable atom: a declared Token
// (Token != "") or an inline literal pattern. Both share one index space
// so a FIRST set can be a single bitset.Set instead of two parallel ones.
type Terminal struct {
	Token   string
	Literal string
	IsRegex bool
}

func (t Terminal) key() string {
	if t.Token != "" {
		return "T:" + t.Token
	}
	kind := byte('S')
	if t.IsRegex {
		kind = 'R'
	}
	return string(kind) + ":" + t.Literal
}

// FirstSets holds, for every Rule, the set of Terminals its is_<R>()
// lookahead must test (spec.md §9: "is_*() must not call match_*(),
// guaranteed by emitting look-ahead solely from the precomputed FIRST
// sets"). Rules may reference each other, including mutually, so this is
// computed as a worklist-free fixed point: re-run every rule's FIRST
// collection until no rule's set grows, the same fixed-point shape pass 2
// (resolve/expand.go) uses for @expand, generalized from textual
// substitution to set union.
//
// Simplifying assumption (see DESIGN.md): no rule can match the empty
// token sequence. Nothing in spec.md defines epsilon rules, and every
// concrete example's rules consume at least one terminal, so a rule
// reference contributes its FIRST set but is never itself treated as
// optional the way a `?`/`*` item or an Optional group is.
type FirstSets struct {
	terminals []Terminal
	index     map[string]int
	ruleSets  map[string]*bitset.Set
}

func (r *resolver) computeFirstSets() *FirstSets {
	fs := &FirstSets{index: map[string]int{}, ruleSets: map[string]*bitset.Set{}}
	for _, name := range r.g.RuleOrder {
		fs.ruleSets[name] = bitset.New()
	}

	for changed := true; changed; {
		changed = false
		for _, name := range r.g.RuleOrder {
			rule := r.g.Rules[name]
			set := fs.ruleSets[name]
			before := len(set.ToSlice())
			for _, def := range rule.Definitions {
				fs.collectItemsFirst(def.Items, set)
			}
			if len(set.ToSlice()) != before {
				changed = true
			}
		}
	}
	return fs
}

func (fs *FirstSets) termIndex(t Terminal) int {
	key := t.key()
	if idx, ok := fs.index[key]; ok {
		return idx
	}
	idx := len(fs.terminals)
	fs.terminals = append(fs.terminals, t)
	fs.index[key] = idx
	return idx
}

// collectItemsFirst adds every Terminal reachable as the first consumed
// atom of items to set, and reports whether the whole sequence could be
// skipped entirely (every item nullable).
func (fs *FirstSets) collectItemsFirst(items []*grammar.Item, set *bitset.Set) bool {
	for _, item := range items {
		if !fs.collectItemFirst(item, set) {
			return false
		}
	}
	return true
}

func (fs *FirstSets) collectItemFirst(item *grammar.Item, set *bitset.Set) bool {
	switch item.Kind {
	case grammar.ItemToken:
		set.Add(fs.termIndex(Terminal{Token: item.Name}))
	case grammar.ItemLiteral:
		set.Add(fs.termIndex(Terminal{Literal: item.Literal, IsRegex: item.LiteralIsRegex}))
	case grammar.ItemRule:
		if sub, ok := fs.ruleSets[item.Name]; ok {
			set.Union(sub.Copy())
		}
	case grammar.ItemInline:
		switch item.Inline.Tag {
		case grammar.InlineOptional, grammar.InlineSequential:
			fs.collectItemsFirst(item.Inline.Alternatives[0], set)
		case grammar.InlineAlternative:
			for _, alt := range item.Inline.Alternatives {
				fs.collectItemsFirst(alt, set)
			}
		}
	}

	return nullable(item)
}

func (fs *FirstSets) terminalsFor(set *bitset.Set) []Terminal {
	slice := set.ToSlice()
	out := make([]Terminal, len(slice))
	for i, idx := range slice {
		out[i] = fs.terminals[idx]
	}
	return out
}

// ItemsTerminals computes the FIRST set of an arbitrary item sequence,
// used by codegen to disambiguate a rule's alternatives: spec.md's
// look-ahead predicate is defined per definition, one level finer than the
// per-rule sets RuleTerminals exposes.
func (fs *FirstSets) ItemsTerminals(items []*grammar.Item) []Terminal {
	set := bitset.New()
	fs.collectItemsFirst(items, set)
	return fs.terminalsFor(set)
}

// RuleTerminals returns the FIRST set of the named rule.
func (fs *FirstSets) RuleTerminals(name string) []Terminal {
	set, ok := fs.ruleSets[name]
	if !ok {
		return nil
	}
	return fs.terminalsFor(set)
}

// GroupTerminals computes an inline group's FIRST set directly; groups
// are always resolved fresh rather than memoized, since (unlike rules)
// they can't be mutually recursive with anything.
func (fs *FirstSets) GroupTerminals(grp *grammar.InlineGroup) []Terminal {
	set := bitset.New()
	switch grp.Tag {
	case grammar.InlineOptional, grammar.InlineSequential:
		fs.collectItemsFirst(grp.Alternatives[0], set)
	case grammar.InlineAlternative:
		for _, alt := range grp.Alternatives {
			fs.collectItemsFirst(alt, set)
		}
	}
	return fs.terminalsFor(set)
}
</content>
