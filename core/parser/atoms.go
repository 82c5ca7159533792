package parser

import (
	"github.com/josephlewis42/subsh/core/ast"
	"github.com/josephlewis42/subsh/core/token"
)

// parseAtom aggregates adjacent simple atoms into a word until the next
// delimiter. Returns nil (and no error) when no atom starts here.
func (p *Parser) parseAtom() (ast.Atom, error) {
	var atoms []ast.SimpleAtom

loop:
	for {
		t := p.peek()
		switch {
		case t.Kind == token.Delimit:
			p.advance()
			break loop
		case t.Kind == token.Eof || t.Kind == token.Semicolon || t.Kind == token.Newline:
			break loop
		case p.subshell != subNone && t.Kind == p.subshell.closer():
			break loop
		}

		nextDelimits := p.delimits(p.peekN(1))

		switch t.Kind {
		case token.Asterisk:
			p.advance()
			atoms = append(atoms, ast.Asterisk{})

		case token.DoubleAsterisk:
			p.advance()
			atoms = append(atoms, ast.DoubleAsterisk{})

		case token.BraceBegin:
			p.advance()
			atoms = append(atoms, ast.BraceBegin{})

		case token.BraceEnd:
			p.advance()
			atoms = append(atoms, ast.BraceEnd{})

		case token.Comma:
			p.advance()
			atoms = append(atoms, ast.Comma{})

		case token.CmdSubstBegin:
			p.advance()
			quoted := p.match(token.CmdSubstQuoted)
			sub := p.makeSubparser(subCmdSubst)
			script, err := sub.Parse()
			if err != nil {
				return nil, err
			}
			p.continueFromSubparser(sub)
			atoms = append(atoms, &ast.CmdSubst{Script: *script, Quoted: quoted})
			if p.delimits(p.peek()) {
				p.match(token.Delimit)
				break loop
			}
			continue

		case token.Text, token.SingleQuotedText, token.DoubleQuotedText:
			p.advance()
			txt := t.Text(p.arena)
			// A leading tilde splits off so the expander can resolve it.
			if t.Kind == token.Text && len(txt) > 0 && txt[0] == '~' {
				atoms = append(atoms, ast.Tilde{})
				if len(txt) > 1 {
					atoms = append(atoms, ast.Text(txt[1:]))
				}
			} else {
				atoms = append(atoms, ast.Text(txt))
			}

		case token.Var:
			p.advance()
			atoms = append(atoms, ast.Var(t.Text(p.arena)))

		case token.VarArgv:
			p.advance()
			atoms = append(atoms, ast.VarArgv(t.Argv))

		case token.OpenParen, token.CloseParen:
			return nil, p.errorf("unexpected parenthesis in word")

		default:
			if len(atoms) == 0 {
				return nil, nil
			}
			return nil, p.errorf("unexpected %s in word", p.describe(t))
		}

		if nextDelimits {
			p.match(token.Delimit)
			break loop
		}
	}

	switch len(atoms) {
	case 0:
		return nil, nil
	case 1:
		return atoms[0], nil
	default:
		return ast.NewCompound(atoms), nil
	}
}
