// Package token defines the token stream shared between the lexer and the
// parser. Word-bearing tokens reference byte ranges of an arena owned by the
// parse session; the arena outlives both the token list and the parser.
package token

import "fmt"

// Kind enumerates every token the lexer can produce.
type Kind uint8

const (
	Pipe Kind = iota
	DoublePipe
	Ampersand
	DoubleAmpersand
	Redirect
	Asterisk
	DoubleAsterisk
	Semicolon
	Newline
	BraceBegin
	Comma
	BraceEnd
	CmdSubstBegin
	CmdSubstQuoted
	CmdSubstEnd
	OpenParen
	CloseParen
	Var
	VarArgv
	Text
	SingleQuotedText
	DoubleQuotedText
	Object
	DoubleBracketOpen
	DoubleBracketClose
	Delimit
	Eof
)

var kindNames = map[Kind]string{
	Pipe:               "Pipe",
	DoublePipe:         "DoublePipe",
	Ampersand:          "Ampersand",
	DoubleAmpersand:    "DoubleAmpersand",
	Redirect:           "Redirect",
	Asterisk:           "Asterisk",
	DoubleAsterisk:     "DoubleAsterisk",
	Semicolon:          "Semicolon",
	Newline:            "Newline",
	BraceBegin:         "BraceBegin",
	Comma:              "Comma",
	BraceEnd:           "BraceEnd",
	CmdSubstBegin:      "CmdSubstBegin",
	CmdSubstQuoted:     "CmdSubstQuoted",
	CmdSubstEnd:        "CmdSubstEnd",
	OpenParen:          "OpenParen",
	CloseParen:         "CloseParen",
	Var:                "Var",
	VarArgv:            "VarArgv",
	Text:               "Text",
	SingleQuotedText:   "SingleQuotedText",
	DoubleQuotedText:   "DoubleQuotedText",
	Object:             "Object",
	DoubleBracketOpen:  "DoubleBracketOpen",
	DoubleBracketClose: "DoubleBracketClose",
	Delimit:            "Delimit",
	Eof:                "Eof",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Range is a half-open byte range into the token arena.
type Range struct {
	Start int
	End   int
}

// Len returns the number of bytes the range covers.
func (r Range) Len() int { return r.End - r.Start }

// Token is a single lexeme. Only the fields relevant to Kind are set:
// Range for word-bearing tokens, Flags for Redirect, Argv for VarArgv and
// Handle for Object.
type Token struct {
	Kind   Kind
	Range  Range
	Flags  RedirectFlags
	Argv   uint8
	Handle int
}

// Text resolves the token's byte range against the arena.
func (t Token) Text(arena []byte) []byte {
	return arena[t.Range.Start:t.Range.End]
}

// WordBearing reports whether the token carries word content that an
// adjacent word break should delimit.
func (t Token) WordBearing() bool {
	switch t.Kind {
	case Var, VarArgv, Text, SingleQuotedText, DoubleQuotedText,
		BraceBegin, Comma, BraceEnd, CmdSubstEnd, Asterisk:
		return true
	}
	return false
}

// String renders the token for traces and diagnostics.
func (t Token) String(arena []byte) string {
	switch t.Kind {
	case Var, Text, SingleQuotedText, DoubleQuotedText:
		return fmt.Sprintf("%s(%q)", t.Kind, t.Text(arena))
	case VarArgv:
		return fmt.Sprintf("VarArgv(%d)", t.Argv)
	case Object:
		return fmt.Sprintf("Object(%d)", t.Handle)
	case Redirect:
		return fmt.Sprintf("Redirect(%s)", t.Flags)
	default:
		return t.Kind.String()
	}
}
