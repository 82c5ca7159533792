package lexer

import (
	"github.com/josephlewis42/subsh/core/token"
)

// peek looks at the next input character, applying the state-sensitive
// backslash rules without advancing the cursor.
func (l *lexer) peek() inputChar {
	if l.j >= len(l.src) {
		return inputChar{}
	}
	c := l.src[l.j]
	if c != '\\' || l.state == stateSingle {
		return inputChar{ch: c, ok: true}
	}

	switch l.state {
	case stateNormal:
		// A backslash escapes the next byte unconditionally.
		if l.j+1 >= len(l.src) {
			return inputChar{}
		}
		return inputChar{ch: l.src[l.j+1], escaped: true, ok: true}
	default: // stateDouble
		// Only a handful of bytes are escapable inside double quotes;
		// otherwise the backslash is literal.
		if l.j+1 >= len(l.src) {
			return inputChar{}
		}
		switch p := l.src[l.j+1]; p {
		case '$', '`', '"', '\\', '\n', '#':
			return inputChar{ch: p, escaped: true, ok: true}
		default:
			return inputChar{ch: '\\', ok: true}
		}
	}
}

// eat advances past the next character (two bytes when escaped).
func (l *lexer) eat() (inputChar, bool) {
	in := l.peek()
	if !in.ok {
		return in, false
	}
	l.prev = l.current
	l.current = in
	l.j++
	if in.escaped {
		l.j++
	}
	return in, true
}

// word appends one byte of word content to the arena.
func (l *lexer) word(ch byte) {
	l.out.arena = append(l.out.arena, ch)
}

func (l *lexer) emit(t token.Token) {
	l.out.tokens = append(l.out.tokens, t)
}

func (l *lexer) push(kind token.Kind) {
	l.emit(token.Token{Kind: kind})
}

func (l *lexer) pushRedirect(flags token.RedirectFlags) {
	l.emit(token.Token{Kind: token.Redirect, Flags: flags})
}

func (l *lexer) lastWordBearing() bool {
	n := len(l.out.tokens)
	return n > 0 && l.out.tokens[n-1].WordBearing()
}

func (l *lexer) breakWord(addDelimiter bool) {
	l.breakWordImpl(addDelimiter, false, false)
}

func (l *lexer) breakWordOperator() {
	l.breakWordImpl(true, false, true)
}

// breakWordImpl closes the pending word, emitting a text token chosen by
// the quoting state when the span is non-empty (or holds the escaped-quote
// pair special case). When nothing was pending, a Delimit is still pushed
// after word-bearing tokens so argument boundaries survive operators and
// spaces; consecutive Delimits are suppressed here.
func (l *lexer) breakWordImpl(addDelimiter, inNormalSpace, inOperator bool) {
	start, end := l.wordStart, len(l.out.arena)
	if start != end || l.isImmediatelyEscapedQuote() {
		kind := token.Text
		switch l.state {
		case stateSingle:
			kind = token.SingleQuotedText
		case stateDouble:
			kind = token.DoubleQuotedText
		}
		l.emit(token.Token{Kind: kind, Range: token.Range{Start: start, End: end}})
		if addDelimiter {
			l.push(token.Delimit)
		}
	} else if (inNormalSpace || inOperator) && l.lastWordBearing() {
		l.push(token.Delimit)
	}
	l.wordStart = len(l.out.arena)
}

// isImmediatelyEscapedQuote reports the `\"\"` case inside double quotes:
// two immediately-adjacent escaped double quotes form an (otherwise empty)
// word of their own.
func (l *lexer) isImmediatelyEscapedQuote() bool {
	return l.state == stateDouble &&
		l.current.ok && l.current.escaped && l.current.ch == '"' &&
		l.prev.ok && l.prev.escaped && l.prev.ch == '"'
}

func (l *lexer) makeSnapshot() snapshot {
	return snapshot{
		state:     l.state,
		prev:      l.prev,
		current:   l.current,
		j:         l.j,
		wordStart: l.wordStart,
		arenaLen:  len(l.out.arena),
	}
}

func (l *lexer) backtrack(snap snapshot) {
	l.state = snap.state
	l.prev = snap.prev
	l.current = snap.current
	l.j = snap.j
	l.wordStart = snap.wordStart
	l.out.arena = l.out.arena[:snap.arenaLen]
}

// eatComment discards everything through the next unescaped newline.
func (l *lexer) eatComment() {
	for {
		in, ok := l.eat()
		if !ok {
			return
		}
		if !in.escaped && in.ch == '\n' {
			return
		}
	}
}

// eatSubshell runs a cloned sub-lexer for a nested context. The sub-lexer
// shares the output buffers, starts in Normal quoting state, and stops on
// its closing token; the outer quoting state is restored afterwards.
func (l *lexer) eatSubshell(kind subshellKind) error {
	if kind == subDollar {
		l.eat() // the `(` of `$(`
	}
	if kind == subNormal {
		l.push(token.OpenParen)
	} else {
		l.push(token.CmdSubstBegin)
		if l.state == stateDouble {
			l.push(token.CmdSubstQuoted)
		}
	}

	prevState := l.state
	sub := *l
	sub.subshell = kind
	sub.state = stateNormal
	if err := sub.run(); err != nil {
		return err
	}
	l.j = sub.j
	l.wordStart = sub.wordStart
	l.prev = sub.prev
	l.current = sub.current
	l.state = prevState
	return nil
}

// lexVar consumes a variable reference after `$`. A single digit becomes
// VarArgv; an identifier becomes Var (name bytes are copied into the
// arena); anything else (`$=` and friends) yields no token at all.
func (l *lexer) lexVar() {
	start, end := l.eatVar()
	name := l.src[start:end]
	switch {
	case len(name) == 0:
		l.breakWord(false)
	case len(name) == 1 && name[0] >= '0' && name[0] <= '9':
		l.emit(token.Token{Kind: token.VarArgv, Argv: name[0] - '0'})
	default:
		rngStart := len(l.out.arena)
		l.out.arena = append(l.out.arena, name...)
		l.emit(token.Token{
			Kind:  token.Var,
			Range: token.Range{Start: rngStart, End: len(l.out.arena)},
		})
	}
	l.wordStart = len(l.out.arena)
}

// eatVar scans a variable name: `[A-Za-z_][A-Za-z0-9_]*`, or one digit for
// a positional reference. Returns the consumed source range.
func (l *lexer) eatVar() (int, int) {
	start := l.j
	for i := 0; ; i++ {
		p := l.peek()
		if !p.ok {
			break
		}
		c := p.ch
		if i == 0 {
			if c >= '0' && c <= '9' {
				l.eat()
				return start, l.j
			}
			if !isVarStart(c) {
				break
			}
			l.eat()
			continue
		}
		if !isVarCont(c) {
			break
		}
		l.eat()
	}
	return start, l.j
}

// eatSimpleRedirect consumes the remainder of a `<`/`>` operator after its
// first byte and returns the matching flag set.
func (l *lexer) eatSimpleRedirect(dirIn bool) token.RedirectFlags {
	isDouble := l.eatSimpleRedirectOperator(dirIn)
	switch {
	case dirIn && isDouble:
		return token.RedirectInHeredoc()
	case dirIn:
		return token.RedirectIn()
	case isDouble:
		return token.RedirectOutAppend()
	default:
		return token.RedirectOut()
	}
}

// eatSimpleRedirectOperator consumes a doubling `>` or `<` if present.
func (l *lexer) eatSimpleRedirectOperator(dirIn bool) bool {
	p := l.peek()
	if !p.ok || p.escaped {
		return false
	}
	switch p.ch {
	case '>':
		if !dirIn {
			l.eat()
			return true
		}
	case '<':
		if dirIn {
			l.eat()
			return true
		}
	}
	return false
}

// eatRedirect attempts a numeric-prefixed redirect (`N>`, `N>>`, `N>&M`,
// `N<`, `N<<`) whose digit has already been consumed. Reports failure so
// the caller can backtrack and treat the digit as text. The flag swaps for
// `2>&1` and `1>&2` are preserved bit-for-bit.
func (l *lexer) eatRedirect(first inputChar) (token.RedirectFlags, bool) {
	var flags token.RedirectFlags
	switch first.ch {
	case '0':
		flags.Stdin = true
	case '1':
		flags.Stdout = true
	case '2':
		flags.Stderr = true
	default:
		return token.RedirectFlags{}, false
	}

	p := l.peek()
	if !p.ok {
		return token.RedirectFlags{}, false
	}
	switch p.ch {
	case '>':
		l.eat()
		if l.eatSimpleRedirectOperator(false) {
			flags.Append = true
		}
		p2 := l.peek()
		if !p2.ok || p2.escaped || p2.ch != '&' {
			return flags, true
		}
		l.eat()
		target := l.peek()
		if !target.ok {
			return token.RedirectFlags{}, false
		}
		l.eat()
		switch target.ch {
		case '1':
			if !flags.Stdout && flags.Stderr {
				flags.DuplicateOut = true
				flags.Stdout = true
				flags.Stderr = false
				return flags, true
			}
		case '2':
			if !flags.Stderr && flags.Stdout {
				flags.DuplicateOut = true
				flags.Stderr = true
				flags.Stdout = false
				return flags, true
			}
		}
		return token.RedirectFlags{}, false
	case '<':
		l.eat()
		if l.eatSimpleRedirectOperator(true) {
			flags.Append = true
		}
		return flags, true
	default:
		return token.RedirectFlags{}, false
	}
}

func isWhitespace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}

func isVarStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isVarCont(c byte) bool {
	return isVarStart(c) || (c >= '0' && c <= '9')
}
