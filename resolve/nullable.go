package resolve

import "github.com/colebrook/ebnfc/grammar"

// nullable reports whether item can match zero input, per spec.md §9:
// a `?`/`*` multiplicity, an Optional group, an Alternative group all of
// whose alternatives are nullable, or a Sequential group all of whose
// items are nullable. A bare rule or token reference is never nullable on
// its own — only the multiplicity attached to the item that holds it can
// make it so.
func nullable(item *grammar.Item) bool {
	if item.Multiplicity == grammar.ZeroOrOne || item.Multiplicity == grammar.ZeroOrMore {
		return true
	}
	if item.Kind != grammar.ItemInline {
		return false
	}
	switch item.Inline.Tag {
	case grammar.InlineOptional:
		return true
	case grammar.InlineSequential:
		return allNullable(item.Inline.Alternatives[0])
	case grammar.InlineAlternative:
		for _, alt := range item.Inline.Alternatives {
			if !allNullable(alt) {
				return false
			}
		}
		return true
	}
	return false
}

// allNullable reports whether every item in items is nullable.
func allNullable(items []*grammar.Item) bool {
	for _, item := range items {
		if !nullable(item) {
			return false
		}
	}
	return true
}

// isDoubtful reports a group (Alternative or Sequential) whose
// constituent item(s) are all nullable: every alternative could consume
// nothing, so the group itself never forces any input to be consumed
// (spec.md §9).
func isDoubtful(grp *grammar.InlineGroup) bool {
	switch grp.Tag {
	case grammar.InlineAlternative, grammar.InlineSequential:
		for _, alt := range grp.Alternatives {
			if !allNullable(alt) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// isUncertain reports a Sequential group whose first item is itself a
// nullable group — its own lookahead decision can't be made purely from
// that first item's FIRST set, since the first item might consume
// nothing (spec.md §9).
func isUncertain(grp *grammar.InlineGroup) bool {
	if grp.Tag != grammar.InlineSequential {
		return false
	}
	items := grp.Alternatives[0]
	if len(items) == 0 {
		return false
	}
	first := items[0]
	return first.Kind == grammar.ItemInline && nullable(first)
}
</content>
