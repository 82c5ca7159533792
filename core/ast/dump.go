package ast

import (
	"fmt"
	"strings"

	"github.com/josephlewis42/subsh/core/token"
)

// Sprint renders the tree as an indented multi-line dump for debugging and
// golden tests. The output is deterministic.
func Sprint(s *Script) string {
	var p printer
	p.script(0, s)
	return p.sb.String()
}

type printer struct {
	sb strings.Builder
}

func (p *printer) line(depth int, format string, args ...any) {
	p.sb.WriteString(strings.Repeat("  ", depth))
	fmt.Fprintf(&p.sb, format, args...)
	p.sb.WriteByte('\n')
}

func (p *printer) script(d int, s *Script) {
	p.line(d, "Script")
	for i := range s.Stmts {
		p.stmt(d+1, &s.Stmts[i])
	}
}

func (p *printer) stmt(d int, s *Stmt) {
	p.line(d, "Stmt")
	for _, e := range s.Exprs {
		p.expr(d+1, e)
	}
}

func (p *printer) body(d int, label string, stmts []Stmt) {
	p.line(d, "%s", label)
	for i := range stmts {
		p.stmt(d+1, &stmts[i])
	}
}

func (p *printer) expr(d int, e Expr) {
	switch e := e.(type) {
	case Assigns:
		p.line(d, "Assigns")
		for _, a := range e {
			p.assign(d+1, a)
		}
	case *Binary:
		p.line(d, "Binary %s", e.Op)
		p.expr(d+1, e.Left)
		p.expr(d+1, e.Right)
	case *Pipeline:
		p.line(d, "Pipeline")
		for _, item := range e.Items {
			p.expr(d+1, item)
		}
	case *Cmd:
		p.line(d, "Cmd")
		for _, a := range e.Assigns {
			p.assign(d+1, a)
		}
		for _, a := range e.NameAndArgs {
			p.atom(d+1, a)
		}
		p.redirect(d+1, e.Redirect, e.RedirectFlags)
	case *SubShell:
		p.line(d, "SubShell")
		p.script(d+1, &e.Script)
		p.redirect(d+1, e.Redirect, e.RedirectFlags)
	case *If:
		p.line(d, "If")
		p.body(d+1, "Cond", e.Cond)
		p.body(d+1, "Then", e.Then)
		for _, part := range e.ElseParts {
			p.body(d+1, "ElsePart", part)
		}
	case *CondExpr:
		p.line(d, "CondExpr [[ %s ]]", strings.Join(e.Words, " "))
	case *Async:
		p.line(d, "Async")
		p.expr(d+1, e.Expr)
	default:
		p.line(d, "Unknown(%T)", e)
	}
}

func (p *printer) assign(d int, a Assign) {
	p.line(d, "Assign %s", a.Label)
	p.atom(d+1, a.Value)
}

func (p *printer) redirect(d int, r Redirect, flags token.RedirectFlags) {
	if flags.IsEmpty() && r == nil {
		return
	}
	p.line(d, "Redirect %s", flags)
	switch r := r.(type) {
	case *RedirectAtom:
		p.atom(d+1, r.Atom)
	case *RedirectObject:
		p.line(d+1, "Object %d", r.Handle)
	}
}

func (p *printer) atom(d int, a Atom) {
	switch a := a.(type) {
	case Text:
		p.line(d, "Text %q", string(a))
	case Var:
		p.line(d, "Var %s", string(a))
	case VarArgv:
		p.line(d, "VarArgv %d", uint8(a))
	case Asterisk:
		p.line(d, "Asterisk")
	case DoubleAsterisk:
		p.line(d, "DoubleAsterisk")
	case BraceBegin:
		p.line(d, "BraceBegin")
	case BraceEnd:
		p.line(d, "BraceEnd")
	case Comma:
		p.line(d, "Comma")
	case Tilde:
		p.line(d, "Tilde")
	case *CmdSubst:
		p.line(d, "CmdSubst quoted=%t", a.Quoted)
		p.script(d+1, &a.Script)
	case *CompoundAtom:
		p.line(d, "Compound brace=%t glob=%t", a.BraceExpansionHint, a.GlobHint)
		for _, sa := range a.Atoms {
			p.atom(d+1, sa)
		}
	default:
		p.line(d, "Unknown(%T)", a)
	}
}
