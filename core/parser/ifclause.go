package parser

import (
	"github.com/josephlewis42/subsh/core/ast"
	"github.com/josephlewis42/subsh/core/token"
)

var ifClauseKeywords = map[string]bool{
	"if":   true,
	"then": true,
	"elif": true,
	"else": true,
	"fi":   true,
}

// peekKeyword reports whether the next token is a Text equal to kw. The
// delimiter check happens at consumption time so that words like `iffy`
// never match.
func (p *Parser) peekKeyword(kw string) bool {
	t := p.peek()
	return t.Kind == token.Text && string(t.Text(p.arena)) == kw
}

// currentKeyword returns the if-clause keyword the next token spells, if
// any.
func (p *Parser) currentKeyword() (string, bool) {
	t := p.peek()
	if t.Kind != token.Text {
		return "", false
	}
	s := string(t.Text(p.arena))
	if ifClauseKeywords[s] {
		return s, true
	}
	return "", false
}

// matchKeyword consumes kw and its trailing delimiter if both are present.
func (p *Parser) matchKeyword(kw string) bool {
	if !p.peekKeyword(kw) || !p.delimits(p.peekN(1)) {
		return false
	}
	p.advance()
	if _, err := p.expectDelimit(); err != nil {
		return false
	}
	return true
}

func (p *Parser) expectKeyword(kw string) error {
	if !p.matchKeyword(kw) {
		return p.errorf("expected %q but got %s", kw, p.describe(p.peek()))
	}
	return nil
}

// parseIfBody accumulates statements until one of the terminator keywords
// starts the next statement.
func (p *Parser) parseIfBody(until ...string) ([]ast.Stmt, error) {
	var body []ast.Stmt
	for {
		if p.peekAnyKeyword(until) || p.atTerminator() {
			return body, nil
		}
		p.skipNewlines()
		if p.peekAnyKeyword(until) || p.atTerminator() {
			return body, nil
		}
		stmt, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		if len(stmt.Exprs) > 0 {
			body = append(body, stmt)
		}
		p.skipNewlines()
	}
}

func (p *Parser) peekAnyKeyword(kws []string) bool {
	t := p.peek()
	if t.Kind != token.Text {
		return false
	}
	s := string(t.Text(p.arena))
	for _, kw := range kws {
		if s == kw {
			return true
		}
	}
	return false
}

// parseIfClause parses `if … then … [elif … then …]* [else …] fi` into the
// even/odd ElseParts encoding.
func (p *Parser) parseIfClause() (ast.Expr, error) {
	if err := p.expectKeyword("if"); err != nil {
		return nil, err
	}
	cond, err := p.parseIfBody("then")
	if err != nil {
		return nil, err
	}
	if !p.matchKeyword("then") {
		return nil, p.errorf("expected %q but got %s", "then", p.describe(p.peek()))
	}
	then, err := p.parseIfBody("else", "elif", "fi")
	if err != nil {
		return nil, err
	}

	clause := &ast.If{Cond: cond, Then: then}

	kw, ok := p.currentKeyword()
	if !ok || kw == "if" || kw == "then" {
		return nil, p.errorf("expected \"else\", \"elif\", or \"fi\" but got %s", p.describe(p.peek()))
	}

	switch kw {
	case "else":
		if err := p.expectKeyword("else"); err != nil {
			return nil, err
		}
		elsePart, err := p.parseIfBody("fi")
		if err != nil {
			return nil, err
		}
		if !p.matchKeyword("fi") {
			return nil, p.errorf("expected %q but got %s", "fi", p.describe(p.peek()))
		}
		clause.ElseParts = append(clause.ElseParts, elsePart)
		return clause, nil

	case "elif":
		for {
			if err := p.expectKeyword("elif"); err != nil {
				return nil, err
			}
			elifCond, err := p.parseIfBody("then")
			if err != nil {
				return nil, err
			}
			if !p.matchKeyword("then") {
				return nil, p.errorf("expected %q but got %s", "then", p.describe(p.peek()))
			}
			thenPart, err := p.parseIfBody("elif", "else", "fi")
			if err != nil {
				return nil, err
			}
			clause.ElseParts = append(clause.ElseParts, elifCond, thenPart)

			kw, _ := p.currentKeyword()
			if kw == "elif" {
				continue
			}
			if kw == "else" {
				if err := p.expectKeyword("else"); err != nil {
					return nil, err
				}
				elsePart, err := p.parseIfBody("fi")
				if err != nil {
					return nil, err
				}
				clause.ElseParts = append(clause.ElseParts, elsePart)
			}
			break
		}
		if !p.matchKeyword("fi") {
			return nil, p.errorf("expected %q but got %s", "fi", p.describe(p.peek()))
		}
		return clause, nil

	default: // "fi"
		if err := p.expectKeyword("fi"); err != nil {
			return nil, err
		}
		return clause, nil
	}
}
