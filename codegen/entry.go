package codegen

// emitEntryPoint emits parse() (spec.md §4.4: "a parse(source_text,
// start=<rule>) that initializes lexer state, invokes match_<start>,
// requires end-of-input after skip, and returns the resulting AST") plus a
// small dispatch table so the CLI can select a start rule by name at
// runtime instead of at generation time.
func (g *Generator) emitEntryPoint() {
	g.line("func parseWithStart(c *runtime.Cursor, start string) (any, error) {")
	g.indent++
	g.line("switch start {")
	for _, name := range g.g.RuleOrder {
		g.linef("case %q:", name)
		g.indent++
		g.linef("return match_%s(c)", name)
		g.indent--
	}
	g.line("default:")
	g.indent++
	g.line(`return nil, fmt.Errorf("unknown start rule %q", start)`)
	g.indent--
	g.line("}")
	g.indent--
	g.line("}")
	g.blank()

	g.line("func parse(sourceName string, src []byte, start string) (any, error) {")
	g.indent++
	g.line("c := runtime.NewCursor(sourceName, src, tokenKinds)")
	g.line("c.Skip()")
	g.line("result, err := parseWithStart(c, start)")
	g.line("if err != nil {")
	g.indent++
	g.line("return nil, err")
	g.indent--
	g.line("}")
	g.line("if !c.Eof() {")
	g.indent++
	g.line("return nil, &runtime.TrailingInputError{Source: c.SourceName(), Pos: c.Pos()}")
	g.indent--
	g.line("}")
	g.line("return result, nil")
	g.indent--
	g.line("}")
	g.blank()
}

// emitMain emits the generated-parser CLI ("<script> <source_path> --out
// <ast_path> --start <RuleName> [-v|--verbosity <level>]"), using only the
// standard library's flag package so the
// emitted program depends on nothing beyond runtime (spec.md §9's generic
// node type package).
func (g *Generator) emitMain() {
	g.line("func main() {")
	g.indent++
	g.line(`var outPath, start, verbosityLevel string`)
	g.linef(`flag.StringVar(&outPath, "out", "", "output AST path")`)
	startDefault := g.g.Start
	g.linef(`flag.StringVar(&start, "start", %q, "start rule")`, startDefault)
	g.line(`flag.StringVar(&verbosityLevel, "v", "error", "verbosity level")`)
	g.line(`flag.StringVar(&verbosityLevel, "verbosity", "error", "verbosity level")`)
	g.line(`flag.Parse()`)
	g.blank()
	g.line(`if flag.NArg() < 1 || outPath == "" || start == "" {`)
	g.indent++
	g.line(`fmt.Fprintln(os.Stderr, "usage: <prog> <source_path> --out <ast_path> --start <RuleName> [-v|--verbosity <level>]")`)
	g.line(`os.Exit(1)`)
	g.indent--
	g.line(`}`)
	g.blank()
	g.line(`verbosity.Push(verbosityLevel)`)
	g.blank()
	g.line(`srcPath := flag.Arg(0)`)
	g.line(`src, err := os.ReadFile(srcPath)`)
	g.line(`if err != nil {`)
	g.indent++
	g.line(`fmt.Fprintln(os.Stderr, err)`)
	g.line(`os.Exit(3)`)
	g.indent--
	g.line(`}`)
	g.blank()
	g.line(`result, err := parse(srcPath, src, start)`)
	g.line(`if err != nil {`)
	g.indent++
	g.line(`fmt.Fprintln(os.Stderr, err)`)
	g.line(`os.Exit(2)`)
	g.indent--
	g.line(`}`)
	g.line(`if result == nil {`)
	g.indent++
	g.line(`return`)
	g.indent--
	g.line(`}`)
	g.blank()
	g.line(`out, err := json.MarshalIndent(result, "", "  ")`)
	g.line(`if err != nil {`)
	g.indent++
	g.line(`fmt.Fprintln(os.Stderr, err)`)
	g.line(`os.Exit(2)`)
	g.indent--
	g.line(`}`)
	g.line(`if err := os.WriteFile(outPath, out, 0o644); err != nil {`)
	g.indent++
	g.line(`fmt.Fprintln(os.Stderr, err)`)
	g.line(`os.Exit(3)`)
	g.indent--
	g.line(`}`)
	g.indent--
	g.line("}")
}
