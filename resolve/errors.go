package resolve

import "github.com/colebrook/ebnfc"

// Error/diagnostic codes used by package resolve (spec.md §4.3, §7).
const (
	UndefinedTokenError = ebnfc.ResolveErrors + iota
	UndefinedRuleError
	ExpansionCycleError
	UndefinedExpansionRefError
	InternalTokenUsedError
	SkipTokenUsedError
	CaptureShapeError
	CaptureNotRepeatableError
	CaptureFieldWarning
	ScopeWithoutDeclareWarning
	DeclareWithoutScopeWarning
	FlipRequiresKeyError
	KeyMissingFromCapturesError
	MergeIncompatibleError
	DoubtfulGroupWarning
	UncertainGroupWarning
)
</content>
