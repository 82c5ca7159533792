package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRedirectFlagBits(t *testing.T) {
	cases := []struct {
		op       string
		flags    RedirectFlags
		expected RedirectFlags
	}{
		{"<", RedirectIn(), RedirectFlags{Stdin: true}},
		{"<<", RedirectInHeredoc(), RedirectFlags{Stdin: true, Append: true}},
		{">", RedirectOut(), RedirectFlags{Stdout: true}},
		{">>", RedirectOutAppend(), RedirectFlags{Stdout: true, Append: true}},
		{"&>", RedirectOutErr(), RedirectFlags{Stdout: true, Stderr: true}},
		{"&>>", RedirectOutErrAppend(), RedirectFlags{Stdout: true, Stderr: true, Append: true}},
		// The duplication operators trade the origin bit for the target
		// bit; the exact patterns are load-bearing.
		{"2>&1", RedirectErrToOut(), RedirectFlags{Stdout: true, DuplicateOut: true}},
		{"1>&2", RedirectOutToErr(), RedirectFlags{Stderr: true, DuplicateOut: true}},
	}

	for _, tc := range cases {
		t.Run(tc.op, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.flags)
			assert.False(t, tc.flags.IsEmpty())
		})
	}
}

func TestRedirectFlagsIsEmpty(t *testing.T) {
	assert.True(t, RedirectFlags{}.IsEmpty())
	assert.False(t, RedirectFlags{Append: true}.IsEmpty())
}

func TestTokenString(t *testing.T) {
	arena := []byte("echoFOO")

	cases := []struct {
		name     string
		tok      Token
		expected string
	}{
		{"text", Token{Kind: Text, Range: Range{Start: 0, End: 4}}, `Text("echo")`},
		{"var", Token{Kind: Var, Range: Range{Start: 4, End: 7}}, `Var("FOO")`},
		{"varargv", Token{Kind: VarArgv, Argv: 3}, "VarArgv(3)"},
		{"object", Token{Kind: Object, Handle: 1}, "Object(1)"},
		{"redirect", Token{Kind: Redirect, Flags: RedirectOutAppend()}, "Redirect(stdout,append)"},
		{"punct", Token{Kind: DoublePipe}, "DoublePipe"},
		{"eof", Token{Kind: Eof}, "Eof"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.tok.String(arena))
		})
	}
}

func TestWordBearing(t *testing.T) {
	assert.True(t, Token{Kind: Text}.WordBearing())
	assert.True(t, Token{Kind: CmdSubstEnd}.WordBearing())
	assert.True(t, Token{Kind: Asterisk}.WordBearing())
	assert.False(t, Token{Kind: DoubleAsterisk}.WordBearing())
	assert.False(t, Token{Kind: Delimit}.WordBearing())
	assert.False(t, Token{Kind: Redirect}.WordBearing())
}
