// Package parser raises the lexer's token stream into the abstract
// command tree. It is a recursive-descent parser with lookahead 2; each
// nested context (command substitution, subshell) runs on a sub-parser
// that shares the token slice and arena but advances its own cursor.
package parser

import (
	"bytes"

	"github.com/josephlewis42/subsh/core/ast"
	"github.com/josephlewis42/subsh/core/token"
)

type subshellKind uint8

const (
	subNone subshellKind = iota
	subCmdSubst
	subNormal
)

// closer returns the token kind that terminates the nested context.
func (k subshellKind) closer() token.Kind {
	if k == subCmdSubst {
		return token.CmdSubstEnd
	}
	return token.CloseParen
}

// Parser walks a token list produced by the lexer. The arena must be the
// one returned alongside the tokens; all AST text is copied out of it.
type Parser struct {
	tokens   []token.Token
	arena    []byte
	current  int
	subshell subshellKind
}

// New creates a parser over a lexed token stream.
func New(tokens []token.Token, arena []byte) *Parser {
	return &Parser{tokens: tokens, arena: arena}
}

// Parse consumes the whole stream and returns the script.
func Parse(tokens []token.Token, arena []byte) (*ast.Script, error) {
	return New(tokens, arena).Parse()
}

func (p *Parser) makeSubparser(kind subshellKind) *Parser {
	return &Parser{
		tokens:   p.tokens,
		arena:    p.arena,
		current:  p.current,
		subshell: kind,
	}
}

// continueFromSubparser resynchronises the cursor past the sub-parser's
// closing token.
func (p *Parser) continueFromSubparser(sub *Parser) {
	if sub.current >= len(p.tokens) {
		p.current = sub.current
		return
	}
	p.current = sub.current + 1
}

// Parse parses a Script: statements separated by newlines until Eof (or
// the enclosing context's closing token).
func (p *Parser) Parse() (*ast.Script, error) {
	script := &ast.Script{}
	if len(p.tokens) == 0 || (len(p.tokens) == 1 && p.tokens[0].Kind == token.Eof) {
		return script, nil
	}
	for !p.atTerminator() {
		p.skipNewlines()
		if p.atTerminator() {
			break
		}
		stmt, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		if len(stmt.Exprs) > 0 {
			script.Stmts = append(script.Stmts, stmt)
		}
		p.skipNewlines()
	}
	if p.subshell != subNone {
		if _, err := p.expectAny(token.Eof, p.subshell.closer()); err != nil {
			return nil, err
		}
	} else {
		if _, err := p.expect(token.Eof); err != nil {
			return nil, err
		}
	}
	return script, nil
}

// atTerminator reports whether the next token closes this parse level
// without consuming it.
func (p *Parser) atTerminator() bool {
	k := p.peek().Kind
	if k == token.Eof {
		return true
	}
	return p.subshell != subNone && k == p.subshell.closer()
}

func (p *Parser) stmtEnd(k token.Kind) bool {
	switch k {
	case token.Semicolon, token.Newline, token.Eof:
		return true
	}
	return p.subshell != subNone && k == p.subshell.closer()
}

func (p *Parser) parseStmt() (ast.Stmt, error) {
	var stmt ast.Stmt
	for {
		k := p.peek().Kind
		if k == token.Semicolon || k == token.Newline {
			p.advance()
			break
		}
		if k == token.Eof || (p.subshell != subNone && k == p.subshell.closer()) {
			break
		}
		expr, err := p.parseExpr()
		if err != nil {
			return stmt, err
		}
		if p.match(token.Ampersand) {
			return stmt, p.errorf("background commands (`&`) are not supported yet")
		}
		stmt.Exprs = append(stmt.Exprs, expr)
	}
	return stmt, nil
}

func (p *Parser) parseExpr() (ast.Expr, error) {
	left, err := p.parsePipeline()
	if err != nil {
		return nil, err
	}
	for {
		var op ast.Op
		switch {
		case p.match(token.DoubleAmpersand):
			op = ast.And
		case p.match(token.DoublePipe):
			op = ast.Or
		default:
			return left, nil
		}
		right, err := p.parsePipeline()
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{Op: op, Left: left, Right: right}
	}
}

func (p *Parser) parsePipeline() (ast.Expr, error) {
	expr, err := p.parseCompoundCmd()
	if err != nil {
		return nil, err
	}
	if p.peek().Kind != token.Pipe {
		return expr, nil
	}

	item, ok := ast.AsPipelineItem(expr)
	if !ok {
		return nil, p.errorf("expected a pipeline item")
	}
	pipeline := &ast.Pipeline{Items: []ast.PipelineItem{item}}
	for p.match(token.Pipe) {
		expr, err := p.parseCompoundCmd()
		if err != nil {
			return nil, err
		}
		item, ok := ast.AsPipelineItem(expr)
		if !ok {
			return nil, p.errorf("expected a pipeline item")
		}
		pipeline.Items = append(pipeline.Items, item)
	}
	return pipeline, nil
}

func (p *Parser) parseCompoundCmd() (ast.Expr, error) {
	if p.peek().Kind == token.OpenParen {
		subshell, err := p.parseSubshell()
		if err != nil {
			return nil, err
		}
		if !subshell.RedirectFlags.IsEmpty() {
			return nil, p.errorf("subshells with redirections (%s) are not supported yet", subshell.RedirectFlags)
		}
		return subshell, nil
	}

	if p.peekKeyword("if") {
		return p.parseIfClause()
	}

	if p.peek().Kind == token.DoubleBracketOpen {
		return p.parseCondExpr()
	}

	return p.parseSimpleCmd()
}

func (p *Parser) parseSubshell() (*ast.SubShell, error) {
	if _, err := p.expect(token.OpenParen); err != nil {
		return nil, err
	}
	sub := p.makeSubparser(subNormal)
	script, err := sub.Parse()
	if err != nil {
		return nil, err
	}
	p.continueFromSubparser(sub)
	redirect, flags, err := p.parseRedirect()
	if err != nil {
		return nil, err
	}
	return &ast.SubShell{Script: *script, Redirect: redirect, RedirectFlags: flags}, nil
}

func (p *Parser) parseSimpleCmd() (ast.Expr, error) {
	var assigns []ast.Assign
	for !p.stmtEnd(p.peek().Kind) {
		assign, ok, err := p.parseAssign()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		assigns = append(assigns, assign)
	}

	if p.stmtEnd(p.peek().Kind) {
		if len(assigns) == 0 {
			return nil, p.errorf("expected a command or assignment")
		}
		return ast.Assigns(assigns), nil
	}

	name, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	if name == nil {
		if len(assigns) == 0 {
			return nil, p.errorf("expected a command or assignment, got %s", p.describe(p.peek()))
		}
		return ast.Assigns(assigns), nil
	}

	nameAndArgs := []ast.Atom{name}
	for {
		arg, err := p.parseAtom()
		if err != nil {
			return nil, err
		}
		if arg == nil {
			break
		}
		nameAndArgs = append(nameAndArgs, arg)
	}

	redirect, flags, err := p.parseRedirect()
	if err != nil {
		return nil, err
	}
	return &ast.Cmd{
		Assigns:       assigns,
		NameAndArgs:   nameAndArgs,
		Redirect:      redirect,
		RedirectFlags: flags,
	}, nil
}

// parseAssign recognises `NAME=value` in a leading Text token. On a
// non-assignment the cursor is restored and ok is false.
func (p *Parser) parseAssign() (ast.Assign, bool, error) {
	var zero ast.Assign
	tok := p.peek()
	if tok.Kind != token.Text {
		return zero, false, nil
	}
	start := p.current
	p.advance()

	txt := tok.Text(p.arena)
	eq := bytes.IndexByte(txt, '=')
	if eq < 0 {
		p.current = start
		return zero, false, nil
	}
	label, value := txt[:eq], txt[eq+1:]
	if !isValidVarName(label) {
		p.current = start
		return zero, false, nil
	}

	if p.delimits(p.peek()) {
		if _, err := p.expectDelimit(); err != nil {
			return zero, false, err
		}
		return ast.Assign{Label: string(label), Value: ast.Text(value)}, true, nil
	}

	// The value continues into the adjacent atoms; merge them.
	right, err := p.parseAtom()
	if err != nil {
		return zero, false, err
	}
	if right == nil {
		return zero, false, p.errorf("expected a value after %q=", label)
	}
	if len(value) == 0 {
		return ast.Assign{Label: string(label), Value: right}, true, nil
	}
	merged := ast.Merge(ast.Text(value), right)
	return ast.Assign{Label: string(label), Value: merged}, true, nil
}

func (p *Parser) parseRedirect() (ast.Redirect, token.RedirectFlags, error) {
	if p.peek().Kind != token.Redirect {
		return nil, token.RedirectFlags{}, nil
	}
	flags := p.peek().Flags
	p.advance()

	if p.peek().Kind == token.Object {
		handle := p.peek().Handle
		p.advance()
		// The lexer follows every Object with a Delimit.
		p.match(token.Delimit)
		return &ast.RedirectObject{Handle: handle}, flags, nil
	}

	atom, err := p.parseAtom()
	if err != nil {
		return nil, flags, err
	}
	if atom == nil {
		// `2>&1` style pure duplications carry no target word.
		if flags.DuplicateOut {
			return nil, flags, nil
		}
		return nil, flags, p.errorf("redirection with no file")
	}
	return &ast.RedirectAtom{Atom: atom}, flags, nil
}

func isValidVarName(name []byte) bool {
	if len(name) == 0 {
		return false
	}
	c := name[0]
	if !(c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')) {
		return false
	}
	for _, c := range name[1:] {
		if !(c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')) {
			return false
		}
	}
	return true
}
