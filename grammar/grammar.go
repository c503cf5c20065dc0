// Package grammar defines the Grammar Model (spec.md §3): the in-memory
// representation of a compiled grammar description, built by package
// langdef, mutated and annotated by package resolve, and read only by
// package codegen.
//
// Unlike the prior design's package of the same name — which compiles a
// grammar straight down to a nondeterministic state machine (Node/State/
// Rule/MultiRule) meant to be *interpreted* at runtime by a generic
// engine — this model stays a tree: Items and InlineGroups mirror the
// written definition directly, because the Code Generator (spec.md §4.4)
// emits one recursive-descent function per rule, lowering each inline
// group in place inside it, and the Resolver (spec.md §4.3) must walk that same tree to check
// capture-shape alignment and flag doubtful/uncertain groups. A state
// machine would have to be un-lowered to do either.
package grammar

import "github.com/colebrook/ebnfc/diag"

// Multiplicity is the trailing repetition marker on an Item.
type Multiplicity int

const (
	One Multiplicity = iota
	ZeroOrOne         // ?
	ZeroOrMore        // *
	OneOrMore         // +
)

func (m Multiplicity) String() string {
	switch m {
	case ZeroOrOne:
		return "?"
	case ZeroOrMore:
		return "*"
	case OneOrMore:
		return "+"
	default:
		return ""
	}
}

// Pos is the minimal position information the model keeps for
// diagnostics; filled in by package langdef from lexer.Token positions.
type Pos struct {
	Name        string
	LineNo, ColNo int
}

// SourceName implements ebnfc.SourcePos.
func (p Pos) SourceName() string { return p.Name }

// Line implements ebnfc.SourcePos.
func (p Pos) Line() int { return p.LineNo }

// Col implements ebnfc.SourcePos.
func (p Pos) Col() int { return p.ColNo }

// Decorators holds every decorator (spec.md §3) a Token may carry.
type Decorators struct {
	Skip           bool
	Internal       bool
	Expand         bool
	RelFilePath    bool
	AbsFilePath    bool
	RelDirPath     bool
	AbsDirPath     bool
	EnsureRelative bool
	EnsureAbsolute bool
	LoadAndParse   bool

	// Group is the @N decorator's capturing-group index (1..9), or 0 if
	// unset (whole match is the token's value).
	Group int
}

// Classification is the dotted name attached by classify/reclassify/
// retroclassify, consumed by syntax-highlighting-oriented generated code.
type Classification struct {
	Name string
	Pos  Pos
}

// Token is a lexical definition (spec.md §3).
type Token struct {
	Name       string
	Regex      string // source form as written; ExpandedRegex() gives the post-expansion text
	Decorators Decorators
	Exclusions []string // TokenGroup names this token's matches are checked against
	Classify   *Classification
	Pos        Pos

	// expandedRegex is filled in by the resolver's token-expansion pass
	// (spec.md §4.3 step 2). Empty until expansion runs; codegen always
	// reads ExpandedRegex(), never Regex, to see the post-expansion text.
	expandedRegex string
	expanding     bool // fixed-point cycle guard used by the resolver's token-expansion pass
}

// ExpandedRegex returns the token's regex after @expand substitution.
// Before the resolver's token-expansion pass runs, it returns the source
// regex unchanged.
func (t *Token) ExpandedRegex() string {
	if t.expandedRegex != "" {
		return t.expandedRegex
	}
	return t.Regex
}

// SetExpandedRegex is called by the resolver once a token's expansion has
// been computed.
func (t *Token) SetExpandedRegex(re string) { t.expandedRegex = re }

// Expanding reports whether the resolver is mid-expansion of this token,
// used to detect @expand cycles.
func (t *Token) Expanding() bool { return t.expanding }

// SetExpanding marks/unmarks this token as mid-expansion.
func (t *Token) SetExpanding(v bool) { t.expanding = v }

// TokenGroup is a named list of literal alternatives (spec.md §3), used
// by token exclusions (`^GROUP`) and as `'…'`/`"…"` literal sources for
// the `!reserved`-style keyword-vs-identifier split.
type TokenGroup struct {
	Name    string
	Members []string
	Pos     Pos
}

// AttributeKey names a valued Rule attribute (spec.md §3).
type AttributeKey string

const (
	KeyAttr          AttributeKey = "key"
	FlipAttr         AttributeKey = "flip"
	ScopeAttr        AttributeKey = "scope"
	DeclareAttr      AttributeKey = "declare"
	VerbosityAttr    AttributeKey = "verbosity"
	ClassifyAttr     AttributeKey = "classify"
	ReclassifyAttr   AttributeKey = "reclassify"
	RetroclassifyAttr AttributeKey = "retroclassify"
)

// Attribute is one `key:value` entry in a rule's `@{ … }` block.
type Attribute struct {
	Key   AttributeKey
	Value string
	Pos   Pos
}

// DirectiveName names an unvalued Rule directive (spec.md §3); `merge` is
// the only one spec.md defines, but the set type leaves room for more.
type DirectiveName string

const DirMerge DirectiveName = "merge"

// Rule is a named nonterminal (spec.md §3).
type Rule struct {
	Name        string
	Attributes  map[AttributeKey]Attribute
	Directives  map[DirectiveName]Pos
	Definitions []*Definition
	Pos         Pos
}

// HasDirective reports whether the rule carries the named directive.
func (r *Rule) HasDirective(name DirectiveName) bool {
	_, ok := r.Directives[name]
	return ok
}

// Attr returns the rule's attribute value for key, if present.
func (r *Rule) Attr(key AttributeKey) (string, bool) {
	a, ok := r.Attributes[key]
	return a.Value, ok
}

// Definition is one alternative (`… | …`) of a Rule (spec.md §3).
type Definition struct {
	Items    []*Item
	Captures []*Capture // nil if the definition has no `=>` tail
	Pos      Pos
}

// ItemKind tags the variant a Item holds (spec.md §3).
type ItemKind int

const (
	ItemToken ItemKind = iota
	ItemGroup          // reference to a TokenGroup (only valid as a token exclusion target, never bare in a definition)
	ItemRule
	ItemLiteral // inline regex (backtick) or string literal
	ItemInline  // InlineGroup
)

// Item is one element of a Definition's item list (spec.md §3).
type Item struct {
	Kind ItemKind

	// Name is the referenced Token/Rule name for ItemToken/ItemRule.
	Name string

	// Literal holds the source text for ItemLiteral (without quotes/backticks).
	Literal string
	// LiteralIsRegex is true for a backtick literal, false for a quoted string.
	LiteralIsRegex bool

	Inline *InlineGroup // set iff Kind == ItemInline

	Multiplicity Multiplicity
	Pos          Pos
}

// InlineTag distinguishes the three bracket forms an InlineGroup can take
// (spec.md §3).
type InlineTag int

const (
	InlineOptional     InlineTag = iota // [ … ]
	InlineSequential                    // ( … )
	InlineAlternative                   // ( … | … )
)

// InlineGroup is a bracketed sub-sequence of Items, kept as a first-class
// tree node (spec.md §9) rather than desugared into a synthetic rule, so
// capture-shape alignment and codegen can both walk the same structure the
// grammar author wrote.
//
// Optional groups have exactly one alternative; Sequential groups have
// exactly one alternative; Alternative groups have two or more.
type InlineGroup struct {
	Tag          InlineTag
	Alternatives [][]*Item
	Pos          Pos
}

// Capture is one entry of a Definition's `=>` tail (spec.md §3, §4.3).
type Capture struct {
	// Name is the capture's binding name, or "_" when Ignored.
	Name     string
	Ignored  bool // Name == "_"
	IsList   bool // '*' prefix: list-append semantics
	Field    string // dotted field projection ("" if none)

	// Sub holds the parenthesized sublist of captures aligned with an
	// InlineGroup at this position in the item list; nil for plain items.
	Sub []*Capture

	Pos Pos
}

// Grammar is the root of the compiled model (spec.md §3).
type Grammar struct {
	sourceName  string
	diagnostics []diag.Diagnostic

	Tokens     map[string]*Token
	TokenOrder []string // declaration order, for deterministic codegen output

	Groups     map[string]*TokenGroup
	GroupOrder []string

	Rules     map[string]*Rule
	RuleOrder []string

	// Start is the grammar-level default start rule named by `.start`
	// (spec.md SPEC_FULL addendum); "" if absent.
	Start string
}

// New creates an empty Grammar for the given source name.
func New(sourceName string) *Grammar {
	return &Grammar{
		sourceName: sourceName,
		Tokens:     map[string]*Token{},
		Groups:     map[string]*TokenGroup{},
		Rules:      map[string]*Rule{},
	}
}

// SourceName returns the name of the file this Grammar was built from
// (SPEC_FULL.md's "Grammar root object" accessor).
func (g *Grammar) SourceName() string { return g.sourceName }

// SetDiagnostics snapshots sink's accumulated messages onto g, called by
// package langdef and package resolve at the end of their own pass so a
// caller holding only the Grammar (the CLI, tests) can read back what was
// reported without separately threading the Sink through. sink may be nil.
func (g *Grammar) SetDiagnostics(sink *diag.Sink) {
	if sink == nil {
		return
	}
	g.diagnostics = sink.Messages()
}

// Diagnostics returns every diagnostic recorded while building and
// resolving g (SPEC_FULL.md's "Grammar root object" accessor).
func (g *Grammar) Diagnostics() []diag.Diagnostic { return g.diagnostics }

// AddToken registers t, recording declaration order. Caller must ensure
// the name is not already in use by a Token or TokenGroup.
func (g *Grammar) AddToken(t *Token) {
	g.Tokens[t.Name] = t
	g.TokenOrder = append(g.TokenOrder, t.Name)
}

// AddGroup registers a TokenGroup, recording declaration order.
func (g *Grammar) AddGroup(tg *TokenGroup) {
	g.Groups[tg.Name] = tg
	g.GroupOrder = append(g.GroupOrder, tg.Name)
}

// AddRule registers r, recording declaration order.
func (g *Grammar) AddRule(r *Rule) {
	g.Rules[r.Name] = r
	g.RuleOrder = append(g.RuleOrder, r.Name)
}

// ResolveName reports whether name is a Token, TokenGroup, or Rule, and
// which.
func (g *Grammar) ResolveName(name string) (kind ItemKind, ok bool) {
	if _, ok := g.Tokens[name]; ok {
		return ItemToken, true
	}
	if _, ok := g.Groups[name]; ok {
		return ItemGroup, true
	}
	if _, ok := g.Rules[name]; ok {
		return ItemRule, true
	}
	return 0, false
}
