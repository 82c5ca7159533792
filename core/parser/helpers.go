package parser

import (
	"fmt"

	"github.com/josephlewis42/subsh/core/token"
)

// Error is a fatal parse failure. Pos indexes the token where parsing
// stopped.
type Error struct {
	Pos int
	Msg string
}

func (e *Error) Error() string {
	return fmt.Sprintf("parse error at token %d: %s", e.Pos, e.Msg)
}

func (p *Parser) errorf(format string, args ...any) error {
	return &Error{Pos: p.current, Msg: fmt.Sprintf(format, args...)}
}

func (p *Parser) describe(t token.Token) string {
	return t.String(p.arena)
}

// peek returns the next token, clamping to the final token at the end of
// the stream.
func (p *Parser) peek() token.Token {
	return p.peekN(0)
}

func (p *Parser) peekN(n int) token.Token {
	if p.current+n >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.current+n]
}

func (p *Parser) isAtEnd() bool {
	k := p.peek().Kind
	if k == token.Eof {
		return true
	}
	return p.subshell != subNone && k == p.subshell.closer()
}

// advance consumes the next token and returns it. At the end of the
// stream the cursor stays put.
func (p *Parser) advance() token.Token {
	t := p.peek()
	if !p.isAtEnd() {
		p.current++
	}
	return t
}

func (p *Parser) match(kind token.Kind) bool {
	if p.peek().Kind == kind {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) expect(kind token.Kind) (token.Token, error) {
	if p.peek().Kind != kind {
		return token.Token{}, p.errorf("expected %s but got %s", kind, p.describe(p.peek()))
	}
	return p.advance(), nil
}

func (p *Parser) expectAny(kinds ...token.Kind) (token.Token, error) {
	for _, kind := range kinds {
		if p.peek().Kind == kind {
			return p.advance(), nil
		}
	}
	return token.Token{}, p.errorf("unexpected %s", p.describe(p.peek()))
}

// delimits reports whether the token marks a word boundary.
func (p *Parser) delimits(t token.Token) bool {
	switch t.Kind {
	case token.Delimit, token.Semicolon, token.Eof, token.Newline:
		return true
	}
	return p.subshell != subNone && t.Kind == p.subshell.closer()
}

func (p *Parser) expectDelimit() (token.Token, error) {
	if p.delimits(p.peek()) {
		return p.advance(), nil
	}
	return token.Token{}, p.errorf("expected a delimiter but got %s", p.describe(p.peek()))
}

func (p *Parser) skipNewlines() {
	for p.match(token.Newline) {
	}
}
