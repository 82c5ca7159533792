package ast

import (
	"strings"

	"github.com/josephlewis42/subsh/core/token"
)

// Unparse renders the tree back to shell source. The output is canonical
// (statements joined by `; `, single spaces between words) and lexes to
// the same token stream the tree was parsed from, modulo whitespace, for
// unquoted and single-quoted words. The tree does not record double
// quoting, so a double-quoted word is rendered bare or single-quoted and
// lexes back as a Text token instead of a DoubleQuotedText token.
func Unparse(s *Script) string {
	var u unparser
	u.script(s)
	return u.sb.String()
}

type unparser struct {
	sb strings.Builder
}

func (u *unparser) script(s *Script) {
	for i := range s.Stmts {
		if i > 0 {
			u.sb.WriteString("; ")
		}
		u.stmt(&s.Stmts[i])
	}
}

func (u *unparser) stmt(s *Stmt) {
	for i, e := range s.Exprs {
		if i > 0 {
			u.sb.WriteByte(' ')
		}
		u.expr(e)
	}
}

func (u *unparser) body(stmts []Stmt) {
	for i := range stmts {
		if i > 0 {
			u.sb.WriteString("; ")
		}
		u.stmt(&stmts[i])
	}
}

func (u *unparser) expr(e Expr) {
	switch e := e.(type) {
	case Assigns:
		for i, a := range e {
			if i > 0 {
				u.sb.WriteByte(' ')
			}
			u.assign(a)
		}
	case *Binary:
		u.expr(e.Left)
		if e.Op == And {
			u.sb.WriteString(" && ")
		} else {
			u.sb.WriteString(" || ")
		}
		u.expr(e.Right)
	case *Pipeline:
		for i, item := range e.Items {
			if i > 0 {
				u.sb.WriteString(" | ")
			}
			u.expr(item)
		}
	case *Cmd:
		for _, a := range e.Assigns {
			u.assign(a)
			u.sb.WriteByte(' ')
		}
		for i, a := range e.NameAndArgs {
			if i > 0 {
				u.sb.WriteByte(' ')
			}
			u.atom(a)
		}
		u.redirect(e.Redirect, e.RedirectFlags)
	case *SubShell:
		u.sb.WriteByte('(')
		u.script(&e.Script)
		u.sb.WriteByte(')')
		u.redirect(e.Redirect, e.RedirectFlags)
	case *If:
		u.sb.WriteString("if ")
		u.body(e.Cond)
		u.sb.WriteString("; then ")
		u.body(e.Then)
		parts := e.ElseParts
		for len(parts) >= 2 {
			u.sb.WriteString("; elif ")
			u.body(parts[0])
			u.sb.WriteString("; then ")
			u.body(parts[1])
			parts = parts[2:]
		}
		if len(parts) == 1 {
			u.sb.WriteString("; else ")
			u.body(parts[0])
		}
		u.sb.WriteString("; fi")
	case *CondExpr:
		u.sb.WriteString("[[ ")
		u.sb.WriteString(strings.Join(e.Words, " "))
		u.sb.WriteString(" ]]")
	case *Async:
		u.expr(e.Expr)
		u.sb.WriteString(" &")
	}
}

func (u *unparser) assign(a Assign) {
	u.sb.WriteString(a.Label)
	u.sb.WriteByte('=')
	u.atom(a.Value)
}

func (u *unparser) redirect(r Redirect, flags token.RedirectFlags) {
	if flags.IsEmpty() && r == nil {
		return
	}
	u.sb.WriteByte(' ')
	u.sb.WriteString(redirectOp(flags))
	switch r := r.(type) {
	case *RedirectAtom:
		u.sb.WriteByte(' ')
		u.atom(r.Atom)
	case *RedirectObject:
		u.sb.WriteByte(' ')
		u.sb.WriteByte(0x08)
	}
}

// redirectOp maps flag bits back to their source operator.
func redirectOp(f token.RedirectFlags) string {
	switch {
	case f.DuplicateOut && f.Stdout:
		return "2>&1"
	case f.DuplicateOut && f.Stderr:
		return "1>&2"
	case f.Stdin && f.Append:
		return "<<"
	case f.Stdin:
		return "<"
	case f.Stdout && f.Stderr && f.Append:
		return "&>>"
	case f.Stdout && f.Stderr:
		return "&>"
	case f.Stderr && f.Append:
		return "2>>"
	case f.Stderr:
		return "2>"
	case f.Append:
		return ">>"
	default:
		return ">"
	}
}

func (u *unparser) atom(a Atom) {
	switch a := a.(type) {
	case Text:
		u.sb.WriteString(quoteText(string(a)))
	case Var:
		u.sb.WriteByte('$')
		u.sb.WriteString(string(a))
	case VarArgv:
		u.sb.WriteByte('$')
		u.sb.WriteByte('0' + uint8(a))
	case Asterisk:
		u.sb.WriteByte('*')
	case DoubleAsterisk:
		u.sb.WriteString("**")
	case BraceBegin:
		u.sb.WriteByte('{')
	case BraceEnd:
		u.sb.WriteByte('}')
	case Comma:
		u.sb.WriteByte(',')
	case Tilde:
		u.sb.WriteByte('~')
	case *CmdSubst:
		if a.Quoted {
			u.sb.WriteString(`"$(`)
		} else {
			u.sb.WriteString("$(")
		}
		u.script(&a.Script)
		if a.Quoted {
			u.sb.WriteString(`)"`)
		} else {
			u.sb.WriteByte(')')
		}
	case *CompoundAtom:
		for _, sa := range a.Atoms {
			u.atom(sa)
		}
	}
}

// bareSafe holds bytes that never need quoting in word position.
const bareSafe = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789_-./=:%+@^"

// quoteText renders literal text so it lexes back to one Text token with
// identical content.
func quoteText(s string) string {
	if s == "" {
		return "''"
	}
	safe := true
	for i := 0; i < len(s); i++ {
		if !strings.ContainsRune(bareSafe, rune(s[i])) {
			safe = false
			break
		}
	}
	if safe {
		return s
	}

	var sb strings.Builder
	sb.WriteByte('\'')
	for i := 0; i < len(s); i++ {
		if s[i] == '\'' {
			sb.WriteString(`'\''`)
			continue
		}
		sb.WriteByte(s[i])
	}
	sb.WriteByte('\'')
	return sb.String()
}
