// Package lexer turns the flattened byte stream of a templated command
// into a token list. Word bytes are copied into a shared arena with
// escapes resolved and quotes stripped; tokens reference arena ranges.
// Nested command substitutions and subshells run on cloned sub-lexers that
// share the output buffers but keep their own cursor state.
package lexer

import (
	"github.com/josephlewis42/subsh/core/template"
	"github.com/josephlewis42/subsh/core/token"
)

type quoteState uint8

const (
	stateNormal quoteState = iota
	stateSingle
	stateDouble
)

type subshellKind uint8

const (
	subNone subshellKind = iota
	subNormal
	subBacktick
	subDollar
)

// inputChar is one character of input together with whether it was
// produced by backslash escaping.
type inputChar struct {
	ch      byte
	escaped bool
	ok      bool
}

// output is shared between a lexer and all of its sub-lexers.
type output struct {
	arena   []byte
	tokens  []token.Token
	handles int
}

type lexer struct {
	src       []byte
	out       *output
	j         int // cursor into src
	wordStart int // offset into out.arena
	state     quoteState
	prev      inputChar
	current   inputChar
	subshell  subshellKind
}

// snapshot captures the cursor state for lookahead experiments.
type snapshot struct {
	state     quoteState
	prev      inputChar
	current   inputChar
	j         int
	wordStart int
	arenaLen  int
}

// Lex tokenises src, returning the token list (terminated by Eof) and the
// arena its word-bearing tokens reference.
func Lex(src []byte) ([]token.Token, []byte, error) {
	out := &output{}
	l := &lexer{src: src, out: out}
	if err := l.run(); err != nil {
		return nil, nil, err
	}
	return out.tokens, out.arena, nil
}

func (l *lexer) run() error {
	for {
		in, ok := l.eat()
		if !ok {
			switch l.subshell {
			case subDollar, subBacktick:
				return l.errorf("unclosed command substitution")
			case subNormal:
				return l.errorf("unclosed subshell")
			}
			l.breakWord(true)
			break
		}

		// The sentinel byte marks a host-object slot; it resolves to an
		// Object token through the session's handle table.
		if in.ch == template.Sentinel && !in.escaped {
			l.breakWord(true)
			l.emit(token.Token{Kind: token.Object, Handle: l.out.handles})
			l.out.handles++
			l.push(token.Delimit)
			l.wordStart = len(l.out.arena)
			continue
		}

		if !in.escaped {
			handled, stop, err := l.lexSpecial(in)
			if err != nil {
				return err
			}
			if stop {
				return nil
			}
			if handled {
				continue
			}
		} else if in.ch == '\n' {
			// Backslash-newline is whitespace, except inside double
			// quotes where it simply vanishes.
			if l.state != stateDouble {
				l.breakWordImpl(true, true, false)
			}
			continue
		}

		l.word(in.ch)
	}
	l.push(token.Eof)
	return nil
}

// lexSpecial handles an unescaped character. handled means a token (or
// state switch) consumed it; stop means a sub-lexer finished; neither
// means the byte is ordinary word content.
func (l *lexer) lexSpecial(in inputChar) (handled, stop bool, err error) {
	quoted := l.state == stateSingle || l.state == stateDouble

	switch in.ch {
	case '[':
		if quoted {
			return false, false, nil
		}
		p := l.peek()
		if !p.ok || p.escaped || p.ch != '[' {
			return false, false, nil
		}
		snap := l.makeSnapshot()
		l.eat()
		p2 := l.peek()
		if !p2.ok {
			l.breakWord(true)
			l.push(token.DoubleBracketOpen)
			return true, false, nil
		}
		if !p2.escaped {
			switch p2.ch {
			case ' ', '\r', '\n', '\t':
				l.breakWord(true)
				l.push(token.DoubleBracketOpen)
				return true, false, nil
			}
		}
		l.backtrack(snap)
		return false, false, nil

	case ']':
		if quoted {
			return false, false, nil
		}
		p := l.peek()
		if !p.ok || p.escaped || p.ch != ']' {
			return false, false, nil
		}
		snap := l.makeSnapshot()
		l.eat()
		p2 := l.peek()
		if !p2.ok {
			l.breakWord(true)
			l.push(token.DoubleBracketClose)
			return true, false, nil
		}
		if !p2.escaped {
			switch p2.ch {
			case ' ', '\r', '\n', '\t', ';', '&', '|', '>':
				l.breakWord(true)
				l.push(token.DoubleBracketClose)
				return true, false, nil
			}
		}
		l.backtrack(snap)
		return false, false, nil

	case '#':
		if quoted {
			return false, false, nil
		}
		if l.prev.ok && !isWhitespace(l.prev.ch) {
			return false, false, nil
		}
		l.breakWord(true)
		l.eatComment()
		return true, false, nil

	case ';':
		if quoted {
			return false, false, nil
		}
		l.breakWord(true)
		l.push(token.Semicolon)
		return true, false, nil

	case '\n':
		if quoted {
			return false, false, nil
		}
		l.breakWordImpl(true, true, false)
		l.push(token.Newline)
		return true, false, nil

	case '*':
		if quoted {
			return false, false, nil
		}
		if p := l.peek(); p.ok && !p.escaped && p.ch == '*' {
			l.eat()
			l.breakWord(false)
			l.push(token.DoubleAsterisk)
			return true, false, nil
		}
		l.breakWord(false)
		l.push(token.Asterisk)
		return true, false, nil

	case '{':
		if quoted {
			return false, false, nil
		}
		l.breakWord(false)
		l.push(token.BraceBegin)
		return true, false, nil

	case ',':
		if quoted {
			return false, false, nil
		}
		l.breakWord(false)
		l.push(token.Comma)
		return true, false, nil

	case '}':
		if quoted {
			return false, false, nil
		}
		l.breakWord(false)
		l.push(token.BraceEnd)
		return true, false, nil

	case '`':
		if l.state == stateSingle {
			return false, false, nil
		}
		if l.subshell == subBacktick {
			l.breakWordOperator()
			if n := len(l.out.tokens); n == 0 || l.out.tokens[n-1].Kind != token.Delimit {
				l.push(token.Delimit)
			}
			l.push(token.CmdSubstEnd)
			return true, true, nil
		}
		l.breakWord(false)
		return true, false, l.eatSubshell(subBacktick)

	case '$':
		if l.state == stateSingle {
			return false, false, nil
		}
		if p := l.peek(); p.ok && !p.escaped && p.ch == '(' {
			l.breakWord(false)
			return true, false, l.eatSubshell(subDollar)
		}
		l.breakWord(false)
		l.lexVar()
		return true, false, nil

	case '(':
		if quoted {
			return false, false, nil
		}
		l.breakWord(true)
		return true, false, l.eatSubshell(subNormal)

	case ')':
		if quoted {
			return false, false, nil
		}
		if l.subshell != subDollar && l.subshell != subNormal {
			return false, false, l.errorf("unexpected `)`")
		}
		l.breakWord(true)
		if l.subshell == subDollar {
			if n := len(l.out.tokens); n > 0 {
				switch l.out.tokens[n-1].Kind {
				case token.Delimit, token.Semicolon, token.Eof, token.Newline:
				default:
					l.push(token.Delimit)
				}
			}
			l.push(token.CmdSubstEnd)
		} else {
			l.push(token.CloseParen)
		}
		return true, true, nil

	case '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		if l.state != stateNormal {
			return false, false, nil
		}
		snap := l.makeSnapshot()
		if flags, ok := l.eatRedirect(in); ok {
			l.breakWord(true)
			l.pushRedirect(flags)
			return true, false, nil
		}
		l.backtrack(snap)
		return false, false, nil

	case '|':
		if quoted {
			return false, false, nil
		}
		l.breakWordOperator()
		p := l.peek()
		if !p.ok {
			return false, false, l.errorf("unexpected end of input after `|`")
		}
		if !p.escaped && p.ch == '&' {
			return false, false, l.errorf("piping stdout and stderr together (`|&`) is not supported")
		}
		if !p.escaped && p.ch == '|' {
			l.eat()
			l.push(token.DoublePipe)
		} else {
			l.push(token.Pipe)
		}
		return true, false, nil

	case '>':
		if quoted {
			return false, false, nil
		}
		l.breakWordOperator()
		l.pushRedirect(l.eatSimpleRedirect(false))
		return true, false, nil

	case '<':
		if quoted {
			return false, false, nil
		}
		l.breakWordOperator()
		l.pushRedirect(l.eatSimpleRedirect(true))
		return true, false, nil

	case '&':
		if quoted {
			return false, false, nil
		}
		l.breakWordOperator()
		p := l.peek()
		switch {
		case !p.ok:
			l.push(token.Ampersand)
		case !p.escaped && p.ch == '>':
			l.eat()
			flags := token.RedirectOutErr()
			if l.eatSimpleRedirectOperator(false) {
				flags = token.RedirectOutErrAppend()
			}
			l.pushRedirect(flags)
		case !p.escaped && p.ch == '&':
			l.eat()
			l.push(token.DoubleAmpersand)
		default:
			l.push(token.Ampersand)
		}
		return true, false, nil

	case '\'':
		switch l.state {
		case stateSingle:
			l.state = stateNormal
		case stateNormal:
			l.state = stateSingle
		default:
			// Inside double quotes a single quote is literal.
			return false, false, nil
		}
		return true, false, nil

	case '"':
		switch l.state {
		case stateSingle:
			return false, false, nil
		case stateNormal:
			l.breakWord(false)
			l.state = stateDouble
		case stateDouble:
			l.breakWord(false)
			l.state = stateNormal
		}
		return true, false, nil

	case ' ':
		if l.state == stateNormal {
			l.breakWordImpl(true, true, false)
			return true, false, nil
		}
		return false, false, nil
	}

	return false, false, nil
}
