package resolve

import (
	"github.com/colebrook/ebnfc/diag"
	"github.com/colebrook/ebnfc/grammar"
)

// alignCaptures is pass 3: every Definition's capture list (if any) must
// be structurally compatible with its item list (spec.md §4.3 step 3).
func (r *resolver) alignCaptures() {
	r.forEachDefinition(func(rule *grammar.Rule, def *grammar.Definition) {
		if def.Captures == nil {
			return
		}
		r.alignItemsCaptures(rule, def.Items, def.Captures, false)
	})
}

func (r *resolver) alignItemsCaptures(rule *grammar.Rule, items []*grammar.Item, caps []*grammar.Capture, enclosingRepeatable bool) {
	for i, c := range caps {
		if i >= len(items) {
			r.sink.Reportf(diag.Error, CaptureShapeError, c.Pos, "rule %q: capture %q has no matching item", rule.Name, captureLabel(c))
			continue
		}
		item := items[i]
		repeatable := enclosingRepeatable || item.Multiplicity == grammar.ZeroOrMore || item.Multiplicity == grammar.OneOrMore

		switch {
		case item.Kind == grammar.ItemInline && c.Sub != nil:
			for _, alt := range item.Inline.Alternatives {
				r.alignItemsCaptures(rule, alt, c.Sub, repeatable)
			}
		case item.Kind == grammar.ItemInline && c.Sub == nil && !c.Ignored:
			r.sink.Reportf(diag.Error, CaptureShapeError, c.Pos, "rule %q: item at position %d is a group and needs a parenthesized capture sublist", rule.Name, i)
		case item.Kind != grammar.ItemInline && c.Sub != nil:
			r.sink.Reportf(diag.Error, CaptureShapeError, c.Pos, "rule %q: item at position %d is not a group, capture must not be a parenthesized sublist", rule.Name, i)
		}

		if c.IsList && !repeatable {
			r.sink.Reportf(diag.Error, CaptureNotRepeatableError, c.Pos, "rule %q: capture %q is list-valued (*) but its item is not repeatable", rule.Name, captureLabel(c))
		}

		if c.Field != "" && item.Kind == grammar.ItemToken && c.Field != "value" && c.Field != "lc" {
			r.sink.Reportf(diag.Warning, CaptureFieldWarning, c.Pos, "rule %q: token match only guarantees fields \"value\" and \"lc\", %q may be absent", rule.Name, c.Field)
		}
	}
}

func captureLabel(c *grammar.Capture) string {
	if c.Name != "" {
		return c.Name
	}
	return "(group)"
}
</content>
