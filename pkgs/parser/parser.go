// Package parser builds a variant tree (pkgs/ast.Node) from cartconf
// source text. It is a hand-written, indentation-driven recursive
// descent parser: the reader package supplies logical lines, the lexer
// tokenizes each one, and this package assembles the tree.
//
// The one non-obvious piece of the construction is how sibling
// "variants:" groups compose. Parsing threads a single "current node"
// pointer through each block scope, exactly the way a local variable
// would in a straight-line interpreter; a plain statement mutates the
// current node's Content in place, but a "variants:" group *replaces*
// the current node with a brand new one whose children are the group's
// alternatives, each of which shares the *same* previous current node
// as its own single child. That sharing is what makes a later
// "variants:" group the outer (root-ward) axis and an earlier one the
// inner (leaf-ward) axis: the earlier group's subtree is revisited once
// per alternative of the later group, which is exactly the cartesian
// product the enumerator needs, and is also why a "join" gate can reach
// an earlier group's alternatives as its own descendants.
package parser

import (
	"fmt"
	"strings"

	"github.com/pevogam/cartconf/pkgs/ast"
	"github.com/pevogam/cartconf/pkgs/filter"
	"github.com/pevogam/cartconf/pkgs/label"
	"github.com/pevogam/cartconf/pkgs/lexer"
	"github.com/pevogam/cartconf/pkgs/reader"
)

const stringSentinel = "<string>"

// Parser is the public entry point matching section 6.2 of the
// configuration language's interface contract: a single object that
// accumulates a variant tree across any number of ParseFile/ParseString
// calls, and streams it back out through an enumerator built on Tree.
type Parser struct {
	Tree           *ast.Node
	Loader         Loader
	Defaults       bool
	ExpandDefaults map[string]bool
	Debug          bool
}

// New returns a Parser with an empty tree. defaults switches on
// default-variant short-circuiting during enumeration; axes named in
// expandDefaults are exempted from it. loader resolves "include"
// statements; a nil loader causes any include to fail with
// MissingIncludeError.
func New(loader Loader, defaults bool, expandDefaults []string, debug bool) *Parser {
	expand := make(map[string]bool, len(expandDefaults))
	for _, a := range expandDefaults {
		expand[a] = true
	}
	return &Parser{
		Tree:           ast.NewNode(),
		Loader:         loader,
		Defaults:       defaults,
		ExpandDefaults: expand,
		Debug:          debug,
	}
}

// ParseString parses text into the tree, extending whatever has
// already been parsed. Its source position is always labelled with the
// literal sentinel "<string>", preserved verbatim per the
// specification's note on the short-name map filename.
func (p *Parser) ParseString(text string) error {
	rd := reader.New(stringSentinel, text)
	cur, err := p.runBlock(rd, -1, p.Tree, false)
	if err != nil {
		return err
	}
	p.Tree = cur
	return nil
}

// ParseFile reads path through the Loader and parses it, extending the
// tree.
func (p *Parser) ParseFile(path string) error {
	if p.Loader == nil {
		return fmt.Errorf("cartconf: no loader configured, cannot parse file %q", path)
	}
	name, content, err := p.Loader.Load("", path)
	if err != nil {
		return newMissingIncludeError("", 0, "", path)
	}
	rd := reader.New(name, content)
	cur, err := p.runBlock(rd, -1, p.Tree, false)
	if err != nil {
		return err
	}
	p.Tree = cur
	return nil
}

// OnlyFilter parses variant as a filter expression and appends an Only
// gate to the current tree node, exactly as if "only variant" had
// appeared as the next line of source.
func (p *Parser) OnlyFilter(variant string) error {
	return p.ParseString("only " + variant + "\n")
}

// NoFilter is OnlyFilter's No counterpart.
func (p *Parser) NoFilter(variant string) error {
	return p.ParseString("no " + variant + "\n")
}

// Assign parses "key = value" and appends a Set operation to the
// current tree node.
func (p *Parser) Assign(key, value string) error {
	return p.ParseString(key + " = " + value + "\n")
}

// blockState is the mutable, block-scoped bookkeeping threaded through
// one indentation level's worth of statements: the pre-dict
// accumulator and any "suffix" tags stashed to be emitted last.
type blockState struct {
	preDict    map[string]string
	preDictPos ast.Pos
	suffixes   []ast.Operation
}

func newBlockState() *blockState {
	return &blockState{preDict: map[string]string{}}
}

func (bs *blockState) stageSet(pos ast.Pos, key, value string) {
	if len(bs.preDict) == 0 {
		bs.preDictPos = pos
	}
	bs.preDict[key] = value
}

func (bs *blockState) flushPreDict(n *ast.Node) {
	if len(bs.preDict) == 0 {
		return
	}
	entries := make(map[string]string, len(bs.preDict))
	for k, v := range bs.preDict {
		entries[k] = v
	}
	op := ast.ApplyPreDict{Pos: bs.preDictPos, Entries: entries}
	appendOp(n, op)
	bs.preDict = map[string]string{}
}

func (bs *blockState) finish(n *ast.Node) {
	bs.flushPreDict(n)
	for _, op := range bs.suffixes {
		appendOp(n, op)
	}
	bs.suffixes = nil
}

func appendOp(n *ast.Node, op ast.Operation) {
	n.Content = append(n.Content, ast.ContentEntry{Pos: op.Position(), Op: op})
}

func appendGate(n *ast.Node, pos ast.Pos, gate filter.Gate, inner []ast.ContentEntry) {
	n.Content = append(n.Content, ast.ContentEntry{Pos: pos, Gate: &gate, Inner: inner})
}

// runBlock parses every statement whose indent exceeds prevIndent from
// rd, applying plain operations and gates to the current node. A
// "variants" group replaces the current node with a freshly built one;
// everything that follows in the same block scope is applied to
// *that* node, not the one the group started from. It returns the
// final current node once rd signals end-of-block at this indent
// (including end-of-input).
func (p *Parser) runBlock(rd *reader.Reader, prevIndent int, cur *ast.Node, insideCondition bool) (*ast.Node, error) {
	bs := newBlockState()
	for {
		line, ok := rd.NextLine(prevIndent)
		if !ok {
			break
		}
		tokens, err := lexer.Tokenize(line.Text, line.LineNo)
		if err != nil {
			return nil, toLexerError(rd.Filename, line, err)
		}
		next, err := p.dispatch(rd, line, tokens, cur, bs, insideCondition)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	bs.finish(cur)
	return cur, nil
}

func (p *Parser) dispatch(rd *reader.Reader, line reader.Line, tokens []lexer.Token, cur *ast.Node, bs *blockState, insideCondition bool) (*ast.Node, error) {
	pos := ast.Pos{Filename: rd.Filename, Line: line.LineNo}
	head := tokens[0].Type

	switch head {
	case lexer.KwVariants:
		if insideCondition {
			return nil, newParserError(rd.Filename, line.LineNo, line.Text, "'variants' is not allowed inside a conditional block")
		}
		return p.parseVariantGroup(rd, line, tokens, cur, bs)
	case lexer.KwDash:
		return nil, newParserError(rd.Filename, line.LineNo, line.Text, "'-' variant alternative outside a 'variants' block")
	case lexer.KwOnly, lexer.KwNo, lexer.KwJoin:
		bs.flushPreDict(cur)
		f, err := filter.Parse(tokens[1:])
		if err != nil {
			return nil, toParserError(rd.Filename, line, err)
		}
		kind := map[lexer.TokenType]filter.Kind{
			lexer.KwOnly: filter.KindOnly,
			lexer.KwNo:   filter.KindNo,
			lexer.KwJoin: filter.KindJoin,
		}[head]
		appendGate(cur, pos, filter.Gate{Kind: kind, Filter: f}, nil)
		return cur, nil
	case lexer.KwInclude:
		bs.flushPreDict(cur)
		path := tokens[1].Value
		if p.Loader == nil {
			return nil, newMissingIncludeError(rd.Filename, line.LineNo, line.Text, path)
		}
		name, content, err := p.Loader.Load(rd.Filename, path)
		if err != nil {
			return nil, newMissingIncludeError(rd.Filename, line.LineNo, line.Text, path)
		}
		sub := reader.New(name, content)
		return p.runBlock(sub, -1, cur, insideCondition)
	case lexer.KwDel:
		bs.flushPreDict(cur)
		appendOp(cur, ast.Del{Pos: pos, Pattern: tokens[1].Value})
		return cur, nil
	case lexer.KwSuffix:
		bs.suffixes = append(bs.suffixes, ast.SuffixTag{Pos: pos, Suffix: tokens[1].Value})
		return cur, nil
	case lexer.Bang:
		bs.flushPreDict(cur)
		return cur, p.parseCondition(rd, line, tokens[1:], filter.KindNegativeCondition, cur)
	case lexer.Identifier, lexer.LParen:
		if isAssignment(tokens) {
			p.parseAssignment(tokens, cur, bs, pos)
			return cur, nil
		}
		bs.flushPreDict(cur)
		return cur, p.parseCondition(rd, line, tokens, filter.KindCondition, cur)
	default:
		return nil, newParserError(rd.Filename, line.LineNo, line.Text, "unexpected token %s", tokens[0])
	}
}

func isAssignment(tokens []lexer.Token) bool {
	return len(tokens) == 4 &&
		tokens[0].Type == lexer.Identifier &&
		tokens[1].Type.IsAssignOp() &&
		tokens[2].Type == lexer.String &&
		tokens[3].Type == lexer.EndL
}

func (p *Parser) parseAssignment(tokens []lexer.Token, cur *ast.Node, bs *blockState, pos ast.Pos) {
	key, op, raw := tokens[0].Value, tokens[1].Type, tokens[2].Value
	if op == lexer.OpSet && !strings.Contains(raw, "$") && !ast.IsReserved(key) {
		bs.stageSet(pos, key, raw)
		return
	}
	bs.flushPreDict(cur)
	switch op {
	case lexer.OpSet:
		appendOp(cur, ast.Set{Pos: pos, Key: key, Raw: raw})
	case lexer.OpAppend:
		appendOp(cur, ast.Append{Pos: pos, Key: key, Raw: raw})
	case lexer.OpPrepend:
		appendOp(cur, ast.Prepend{Pos: pos, Key: key, Raw: raw})
	case lexer.OpLazySet:
		appendOp(cur, ast.LazySet{Pos: pos, Key: key, Raw: raw})
	case lexer.OpRegexSet:
		appendOp(cur, ast.RegexOp{Pos: pos, Pattern: key, Raw: raw, Mode: ast.RegexModeSet})
	case lexer.OpRegexApp:
		appendOp(cur, ast.RegexOp{Pos: pos, Pattern: key, Raw: raw, Mode: ast.RegexModeAppend})
	case lexer.OpRegexPre:
		appendOp(cur, ast.RegexOp{Pos: pos, Pattern: key, Raw: raw, Mode: ast.RegexModePrepend})
	}
}

// parseCondition handles both "filter:" and "! filter:" blocks. tokens
// holds everything after the leading '!' (if any), ending in a Colon
// then EndL. A single-line inline value form is not supported: the
// specification's grammar note is ambiguous about it and none of the
// worked scenarios exercise it, so conditions are always nested blocks
// here.
func (p *Parser) parseCondition(rd *reader.Reader, line reader.Line, tokens []lexer.Token, kind filter.Kind, cur *ast.Node) error {
	f, err := filter.Parse(tokens)
	if err != nil {
		return toParserError(rd.Filename, line, err)
	}
	inner, err := p.collectInner(rd, line.Indent)
	if err != nil {
		return err
	}
	pos := ast.Pos{Filename: rd.Filename, Line: line.LineNo}
	appendGate(cur, pos, filter.Gate{Kind: kind, Filter: f}, inner)
	return nil
}

// collectInner parses a nested block into a throwaway node and harvests
// its Content, so Condition/NegativeCondition can reuse the exact same
// block-parsing logic as a node body while keeping their guarded
// operations inline in the parent's Content -- conditions are not
// variant alternatives and must not spawn real child nodes. "variants"
// is rejected inside this scope (insideCondition=true), so the scratch
// node is never replaced by a wrapper the way a normal block's current
// node can be.
func (p *Parser) collectInner(rd *reader.Reader, headerIndent int) ([]ast.ContentEntry, error) {
	scratch := ast.NewNode()
	final, err := p.runBlock(rd, headerIndent, scratch, true)
	if err != nil {
		return nil, err
	}
	return final.Content, nil
}

// parseVariantGroup handles "variants AXIS? [meta]* :" followed by a
// block of "- NAME:" alternatives. It builds one brand new node per
// alternative, each sharing cur -- the node the tree had accumulated up
// to this statement -- as its single child, then collects all of those
// per-alternative nodes as children of a new wrapper node, which
// becomes the current node going forward. Because every alternative's
// subtree shares the exact same cur object, cur's own subtree is
// revisited once per alternative during enumeration: that is what
// makes this group the outer (root-ward) axis relative to whatever
// was already built, and an earlier group's alternatives its inner
// (leaf-ward) descendants.
func (p *Parser) parseVariantGroup(rd *reader.Reader, line reader.Line, tokens []lexer.Token, cur *ast.Node, bs *blockState) (*ast.Node, error) {
	bs.flushPreDict(cur)
	axis, defaultsDeclared, err := parseVariantHeader(rd.Filename, line, tokens)
	if err != nil {
		return nil, err
	}

	wrapper := ast.NewNode()
	wrapper.AxisName = axis
	seenDefault := map[string]bool{}

	for {
		altLine, ok := rd.NextLine(line.Indent)
		if !ok {
			break
		}
		altTokens, err := lexer.Tokenize(altLine.Text, altLine.LineNo)
		if err != nil {
			return nil, toLexerError(rd.Filename, altLine, err)
		}
		if altTokens[0].Type != lexer.KwDash {
			return nil, newParserError(rd.Filename, altLine.LineNo, altLine.Text, "expected '-' variant alternative")
		}
		name, isDefault, deps, err := parseVariantAlt(altTokens[1:], defaultsDeclared)
		if err != nil {
			return nil, toParserError(rd.Filename, altLine, err)
		}
		if isDefault {
			seenDefault[name] = true
		}

		branch := ast.NewNode()
		branch.AddChild(cur)
		if axis != "" {
			branch.Content = append(branch.Content, ast.ContentEntry{
				Pos: ast.Pos{Filename: rd.Filename, Line: altLine.LineNo},
				Op:  ast.Set{Pos: ast.Pos{Filename: rd.Filename, Line: altLine.LineNo}, Key: axis, Raw: name},
			})
		}

		alt, err := p.runBlock(rd, altLine.Indent, branch, false)
		if err != nil {
			return nil, err
		}

		alt.Name = labelsFor(axis, name)
		if deps != nil {
			alt.Dependencies = []filter.Filter{*deps}
		}
		alt.IsDefault = isDefault
		alt.AppendToShortname = true
		if p.Defaults && isDefault && !p.ExpandDefaults[axis] {
			alt.AppendToShortname = false
		}
		alt.Content = append(alt.Content, ast.ContentEntry{
			Op: ast.UpdateFileMap{Pos: ast.Pos{Filename: rd.Filename, Line: altLine.LineNo}, Filename: rd.Filename},
		})

		wrapper.AddChild(alt)
	}

	for name := range defaultsDeclared {
		if !seenDefault[name] {
			return nil, newParserError(rd.Filename, line.LineNo, line.Text, "missing default variant %q", name)
		}
	}

	if p.Defaults {
		hoistDefault(wrapper)
	}

	return wrapper, nil
}

func hoistDefault(n *ast.Node) {
	for i, c := range n.Children {
		if c.IsDefault {
			if i != 0 {
				copy(n.Children[1:i+1], n.Children[:i])
				n.Children[0] = c
			}
			return
		}
	}
}

func labelsFor(axis string, dotted string) []label.Label {
	parts := strings.Split(dotted, ".")
	out := make([]label.Label, len(parts))
	for i, part := range parts {
		if axis == "" {
			out[i] = label.New(part)
		} else {
			out[i] = label.NewAxis(axis, part)
		}
	}
	return out
}

// parseVariantHeader reads "AXIS? [meta]* :" from the tokens following
// KwVariants. It returns the axis name (empty if none) and the set of
// variant names declared default via "[default=NAME,NAME...]" meta.
func parseVariantHeader(filename string, line reader.Line, tokens []lexer.Token) (axis string, defaults map[string]bool, err error) {
	defaults = map[string]bool{}
	i := 0
	skipWhite := func() {
		for i < len(tokens) && tokens[i].Type == lexer.White {
			i++
		}
	}
	skipWhite()
	if i < len(tokens) && tokens[i].Type == lexer.Identifier {
		axis = tokens[i].Value
		i++
	}
	skipWhite()
	for i < len(tokens) && tokens[i].Type == lexer.LBracket {
		i++
		var key strings.Builder
		for i < len(tokens) && tokens[i].Type != lexer.RBracket && tokens[i].Type != lexer.OpSet {
			key.WriteString(tokens[i].Value)
			i++
		}
		if i < len(tokens) && tokens[i].Type == lexer.OpSet {
			i++
			var names []string
			var cur strings.Builder
			for i < len(tokens) && tokens[i].Type != lexer.RBracket {
				switch tokens[i].Type {
				case lexer.Comma:
					names = append(names, cur.String())
					cur.Reset()
				case lexer.White:
				default:
					cur.WriteString(tokens[i].Value)
				}
				i++
			}
			if cur.Len() > 0 {
				names = append(names, cur.String())
			}
			if key.String() == "default" {
				for _, n := range names {
					defaults[n] = true
				}
			}
		}
		if i < len(tokens) && tokens[i].Type == lexer.RBracket {
			i++
		}
		skipWhite()
	}
	if i >= len(tokens) || tokens[i].Type != lexer.Colon {
		return "", nil, newParserError(filename, line.LineNo, line.Text, "expected ':' after 'variants' header")
	}
	return axis, defaults, nil
}

// parseVariantAlt reads "(@)? NAME(.NAME)* (: deps)?" from the tokens
// following KwDash.
func parseVariantAlt(tokens []lexer.Token, defaultsDeclared map[string]bool) (name string, isDefault bool, deps *filter.Filter, err error) {
	i := 0
	for i < len(tokens) && tokens[i].Type == lexer.White {
		i++
	}
	if i < len(tokens) && tokens[i].Type == lexer.At {
		isDefault = true
		i++
	}
	var b strings.Builder
loop:
	for i < len(tokens) {
		switch tokens[i].Type {
		case lexer.Identifier:
			b.WriteString(tokens[i].Value)
		case lexer.Dot:
			b.WriteByte('.')
		default:
			break loop
		}
		i++
	}
	name = b.String()
	if defaultsDeclared[name] {
		isDefault = true
	}
	for i < len(tokens) && tokens[i].Type == lexer.White {
		i++
	}
	if i < len(tokens) && tokens[i].Type == lexer.Colon {
		rest := tokens[i+1:]
		hasContent := false
		for _, t := range rest {
			if t.Type != lexer.White && t.Type != lexer.EndL {
				hasContent = true
				break
			}
		}
		if hasContent {
			f, perr := filter.Parse(rest)
			if perr != nil {
				return "", false, nil, perr
			}
			deps = &f
		}
	}
	return name, isDefault, deps, nil
}

func toLexerError(filename string, line reader.Line, err error) error {
	if le, ok := err.(*lexer.Error); ok {
		return newLexerError(filename, line.LineNo, line.Text, "%s", le.Message)
	}
	return newLexerError(filename, line.LineNo, line.Text, "%s", err)
}

func toParserError(filename string, line reader.Line, err error) error {
	if fe, ok := err.(*filter.ParseError); ok {
		return newParserError(filename, line.LineNo, line.Text, "%s", fe.Message)
	}
	return newParserError(filename, line.LineNo, line.Text, "%s", err)
}
