package resolve

import (
	"regexp"

	"github.com/colebrook/ebnfc/diag"
	"github.com/colebrook/ebnfc/grammar"
)

// dollarRef matches a token-name reference inside an @expand token's
// regex source: "$NAME". This is the substitution point spec.md §4.3
// step 2 describes as "textual substitution of token names appearing in
// their regex" — the dialect needs an explicit marker since a bare
// uppercase run inside a regex is otherwise just regex text, and
// $-prefixed template references are exactly the shape the prior design's own
// grammar description language already uses for its "$name"/"$$name"
// layer templates (see the prior design's langdef.llxLexer master regexp).
var dollarRef = regexp.MustCompile(`\$([A-Z][A-Z0-9_]*)`)

// expandTokens is pass 2: compute each token's post-@expand regex as a
// fixed point, detecting cycles. Every token (not only @expand ones) gets
// its ExpandedRegex populated, since codegen always reads that accessor.
func (r *resolver) expandTokens() {
	r.expandedDone = map[string]bool{}
	for _, name := range r.g.TokenOrder {
		r.expandToken(name)
	}
}

func (r *resolver) expandToken(name string) string {
	tok, ok := r.g.Tokens[name]
	if !ok {
		return ""
	}
	if r.expandedDone[name] {
		return tok.ExpandedRegex()
	}
	if !tok.Decorators.Expand {
		tok.SetExpandedRegex(tok.Regex)
		r.expandedDone[name] = true
		return tok.Regex
	}

	if tok.Expanding() {
		r.sink.Reportf(diag.Error, ExpansionCycleError, tok.Pos, "token %q has a cyclic @expand reference", name)
		return tok.Regex
	}

	tok.SetExpanding(true)
	defer tok.SetExpanding(false)

	result := dollarRef.ReplaceAllStringFunc(tok.Regex, func(m string) string {
		refName := m[1:]
		if _, ok := r.g.Tokens[refName]; !ok {
			r.sink.Reportf(diag.Error, UndefinedExpansionRefError, tok.Pos, "token %q expands undefined token reference $%s", name, refName)
			return m
		}
		return "(?:" + r.expandToken(refName) + ")"
	})

	tok.SetExpandedRegex(result)
	r.expandedDone[name] = true
	return result
}
</content>
