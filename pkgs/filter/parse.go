package filter

import (
	"fmt"

	"github.com/pevogam/cartconf/pkgs/label"
	"github.com/pevogam/cartconf/pkgs/lexer"
)

// ParseError reports a malformed filter expression.
type ParseError struct {
	Message string
	Line    int
	Column  int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s at %d:%d", e.Message, e.Line, e.Column)
}

// Parse builds the DNF expansion of a filter expression from the token
// stream produced for it (terminated by lexer.EndL). It implements the
// grammar:
//
//	filter := term ("," term)*
//	term    := seq (".." seq)*
//	seq     := atom ("." atom)*
//	atom    := IDENT | "(" IDENT ("=" (IDENT|STRING))? ")"
//
// A run of whitespace between atoms acts exactly like a "," (both
// commit the current AND-conjunct into the OR-list); "." extends the
// current sequence, ".." starts a new sequence within the conjunct.
func Parse(tokens []lexer.Token) (Filter, error) {
	p := &parser{tokens: tokens}
	return p.run()
}

type parser struct {
	tokens []lexer.Token
	pos    int
	dots   int
	seq    Sequence
	conj   Conjunct
	disj   []Conjunct
}

func (p *parser) run() (Filter, error) {
	for p.pos < len(p.tokens) {
		tok := p.tokens[p.pos]
		switch tok.Type {
		case lexer.EndL, lexer.EOF, lexer.Colon:
			p.commitConjunct()
			return Filter{Disjuncts: p.disj}, nil
		case lexer.White, lexer.Comma:
			p.commitConjunct()
			p.dots = 0
			p.pos++
		case lexer.Dot:
			p.dots++
			if p.dots > 2 {
				return Filter{}, &ParseError{Message: "too many '.' in filter expression", Line: tok.Line, Column: tok.Column}
			}
			p.pos++
		case lexer.Identifier:
			if err := p.addAtom(label.New(tok.Value), tok); err != nil {
				return Filter{}, err
			}
			p.pos++
		case lexer.LParen:
			l, err := p.parseParenAtom()
			if err != nil {
				return Filter{}, err
			}
			if err := p.addAtom(l, tok); err != nil {
				return Filter{}, err
			}
		default:
			return Filter{}, &ParseError{Message: fmt.Sprintf("unexpected token %s in filter expression", tok.Type), Line: tok.Line, Column: tok.Column}
		}
	}
	p.commitConjunct()
	return Filter{Disjuncts: p.disj}, nil
}

func (p *parser) addAtom(l label.Label, at lexer.Token) error {
	switch p.dots {
	case 0:
		if len(p.seq) != 0 {
			return &ParseError{Message: "labels must be separated by '.', whitespace, or ','", Line: at.Line, Column: at.Column}
		}
		p.seq = append(p.seq, l)
	case 1:
		p.seq = append(p.seq, l)
	case 2:
		p.commitSequence()
		p.seq = append(p.seq, l)
	}
	p.dots = 0
	return nil
}

func (p *parser) commitSequence() {
	if len(p.seq) > 0 {
		p.conj = append(p.conj, p.seq)
		p.seq = nil
	}
}

func (p *parser) commitConjunct() {
	p.commitSequence()
	if len(p.conj) > 0 {
		p.disj = append(p.disj, p.conj)
		p.conj = nil
	}
}

// parseParenAtom consumes "(" IDENT ("=" (IDENT|STRING))? ")", with
// p.pos positioned at the opening "(".
func (p *parser) parseParenAtom() (label.Label, error) {
	open := p.tokens[p.pos]
	p.pos++ // "("
	p.skipWhite()
	name, err := p.expect(lexer.Identifier, open)
	if err != nil {
		return label.Label{}, err
	}
	p.skipWhite()
	if p.peekType() == lexer.OpSet {
		p.pos++ // "="
		p.skipWhite()
		value, err := p.expectValue(open)
		if err != nil {
			return label.Label{}, err
		}
		p.skipWhite()
		if _, err := p.expect(lexer.RParen, open); err != nil {
			return label.Label{}, err
		}
		return label.NewAxis(name.Value, value), nil
	}
	if _, err := p.expect(lexer.RParen, open); err != nil {
		return label.Label{}, err
	}
	return label.New(name.Value), nil
}

func (p *parser) peekType() lexer.TokenType {
	if p.pos >= len(p.tokens) {
		return lexer.EOF
	}
	return p.tokens[p.pos].Type
}

func (p *parser) skipWhite() {
	for p.peekType() == lexer.White {
		p.pos++
	}
}

func (p *parser) expect(tt lexer.TokenType, ctx lexer.Token) (lexer.Token, error) {
	if p.pos >= len(p.tokens) || p.tokens[p.pos].Type != tt {
		return lexer.Token{}, &ParseError{Message: fmt.Sprintf("expected %s", tt), Line: ctx.Line, Column: ctx.Column}
	}
	tok := p.tokens[p.pos]
	p.pos++
	return tok, nil
}

func (p *parser) expectValue(ctx lexer.Token) (string, error) {
	if p.pos >= len(p.tokens) {
		return "", &ParseError{Message: "expected value", Line: ctx.Line, Column: ctx.Column}
	}
	tok := p.tokens[p.pos]
	if tok.Type != lexer.Identifier && tok.Type != lexer.String {
		return "", &ParseError{Message: "expected identifier or string value", Line: tok.Line, Column: tok.Column}
	}
	p.pos++
	return tok.Value, nil
}
