package parser

import (
	"fmt"

	"github.com/josephlewis42/subsh/core/ast"
	"github.com/josephlewis42/subsh/core/token"
)

// parseCondExpr consumes `[[ … ]]` into a placeholder node. The word
// texts between the brackets are preserved verbatim for the external
// condition evaluator; nothing is interpreted here.
func (p *Parser) parseCondExpr() (ast.Expr, error) {
	if _, err := p.expect(token.DoubleBracketOpen); err != nil {
		return nil, err
	}
	cond := &ast.CondExpr{}
	for {
		t := p.peek()
		switch t.Kind {
		case token.DoubleBracketClose:
			p.advance()
			return cond, nil
		case token.Eof:
			return nil, p.errorf("expected `]]` to close the conditional expression")
		case token.Delimit, token.Newline:
			p.advance()
		case token.Text, token.SingleQuotedText, token.DoubleQuotedText:
			cond.Words = append(cond.Words, string(t.Text(p.arena)))
			p.advance()
		case token.Var:
			cond.Words = append(cond.Words, "$"+string(t.Text(p.arena)))
			p.advance()
		case token.VarArgv:
			cond.Words = append(cond.Words, fmt.Sprintf("$%d", t.Argv))
			p.advance()
		case token.Redirect:
			if t.Flags.Stdin {
				cond.Words = append(cond.Words, "<")
			} else {
				cond.Words = append(cond.Words, ">")
			}
			p.advance()
		case token.Asterisk:
			cond.Words = append(cond.Words, "*")
			p.advance()
		case token.DoubleAsterisk:
			cond.Words = append(cond.Words, "**")
			p.advance()
		case token.Ampersand:
			cond.Words = append(cond.Words, "&")
			p.advance()
		case token.DoubleAmpersand:
			cond.Words = append(cond.Words, "&&")
			p.advance()
		case token.Pipe:
			cond.Words = append(cond.Words, "|")
			p.advance()
		case token.DoublePipe:
			cond.Words = append(cond.Words, "||")
			p.advance()
		default:
			if p.subshell != subNone && t.Kind == p.subshell.closer() {
				return nil, p.errorf("expected `]]` to close the conditional expression")
			}
			p.advance()
		}
	}
}
