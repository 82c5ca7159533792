package lexer

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josephlewis42/subsh/core/template"
	"github.com/josephlewis42/subsh/core/token"
)

func lexTrace(t *testing.T, src string) string {
	t.Helper()
	tokens, arena, err := Lex([]byte(src))
	require.NoError(t, err)
	return token.Trace(tokens, arena)
}

func TestLexTraces(t *testing.T) {
	cases := []struct {
		name     string
		src      string
		expected string
	}{
		{
			name: "simple command",
			src:  "echo hi",
			expected: `Text("echo")
Delimit
Text("hi")
Delimit
Eof
`,
		},
		{
			name: "double quoted word",
			src:  `echo "a b"`,
			expected: `Text("echo")
Delimit
DoubleQuotedText("a b")
Eof
`,
		},
		{
			name: "single quotes fold into the word",
			src:  "echo 'hi there'",
			expected: `Text("echo")
Delimit
Text("hi there")
Delimit
Eof
`,
		},
		{
			name: "escaped space stays in the word",
			src:  `echo a\ b`,
			expected: `Text("echo")
Delimit
Text("a b")
Delimit
Eof
`,
		},
		{
			name: "variable",
			src:  "echo $FOO",
			expected: `Text("echo")
Delimit
Var("FOO")
Eof
`,
		},
		{
			name: "positional variable",
			src:  "echo $1",
			expected: `Text("echo")
Delimit
VarArgv(1)
Eof
`,
		},
		{
			name: "positionals are single digit",
			src:  "echo $12",
			expected: `Text("echo")
Delimit
VarArgv(1)
Text("2")
Delimit
Eof
`,
		},
		{
			name: "pipeline",
			src:  "echo a | wc -w",
			expected: `Text("echo")
Delimit
Text("a")
Delimit
Pipe
Text("wc")
Delimit
Text("-w")
Delimit
Eof
`,
		},
		{
			name: "logical operators",
			src:  "true && false || true",
			expected: `Text("true")
Delimit
DoubleAmpersand
Text("false")
Delimit
DoublePipe
Text("true")
Delimit
Eof
`,
		},
		{
			name: "braces and commas",
			src:  "echo {a,b}",
			expected: `Text("echo")
Delimit
BraceBegin
Text("a")
Comma
Text("b")
BraceEnd
Eof
`,
		},
		{
			name: "glob",
			src:  "ls *.go",
			expected: `Text("ls")
Delimit
Asterisk
Text(".go")
Delimit
Eof
`,
		},
		{
			name: "double asterisk",
			src:  "ls src/**",
			expected: `Text("ls")
Delimit
Text("src/")
DoubleAsterisk
Eof
`,
		},
		{
			name: "statement separators",
			src:  "a;b\nc",
			expected: `Text("a")
Delimit
Semicolon
Text("b")
Delimit
Newline
Text("c")
Delimit
Eof
`,
		},
		{
			name: "comment runs to end of line",
			src:  "echo hi # ignored ; | stuff",
			expected: `Text("echo")
Delimit
Text("hi")
Delimit
Eof
`,
		},
		{
			name: "hash inside a word is literal",
			src:  "echo a#b",
			expected: `Text("echo")
Delimit
Text("a#b")
Delimit
Eof
`,
		},
		{
			name: "conditional brackets",
			src:  "[[ -f x ]]",
			expected: `DoubleBracketOpen
Text("-f")
Delimit
Text("x")
Delimit
DoubleBracketClose
Eof
`,
		},
		{
			name: "digits only redirect when an operator follows",
			src:  "echo 2027",
			expected: `Text("echo")
Delimit
Text("2027")
Delimit
Eof
`,
		},
		{
			name: "backtick substitution",
			src:  "x=`echo hi`",
			expected: `Text("x=")
CmdSubstBegin
Text("echo")
Delimit
Text("hi")
Delimit
CmdSubstEnd
Eof
`,
		},
		{
			name: "subshell",
			src:  "(echo hi)",
			expected: `OpenParen
Text("echo")
Delimit
Text("hi")
Delimit
CloseParen
Eof
`,
		},
		{
			name: "empty input",
			src:  "",
			expected: `Eof
`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, lexTrace(t, tc.src))
		})
	}
}

func TestLexRedirects(t *testing.T) {
	cases := []struct {
		src   string
		flags token.RedirectFlags
	}{
		{"cmd < f", token.RedirectIn()},
		{"cmd << f", token.RedirectInHeredoc()},
		{"cmd > f", token.RedirectOut()},
		{"cmd >> f", token.RedirectOutAppend()},
		{"cmd &> f", token.RedirectOutErr()},
		{"cmd &>> f", token.RedirectOutErrAppend()},
		{"cmd 2>&1", token.RedirectErrToOut()},
		{"cmd 1>&2", token.RedirectOutToErr()},
		{"cmd 2> f", token.RedirectFlags{Stderr: true}},
		{"cmd 2>> f", token.RedirectFlags{Stderr: true, Append: true}},
		{"cmd 0< f", token.RedirectFlags{Stdin: true}},
	}

	for _, tc := range cases {
		t.Run(tc.src, func(t *testing.T) {
			tokens, _, err := Lex([]byte(tc.src))
			require.NoError(t, err)

			var found []token.RedirectFlags
			for _, tok := range tokens {
				if tok.Kind == token.Redirect {
					found = append(found, tok.Flags)
				}
			}
			require.Len(t, found, 1)
			assert.Equal(t, tc.flags, found[0])
		})
	}
}

func TestLexPlaceholder(t *testing.T) {
	src := append([]byte("cmd > "), template.Sentinel)
	tokens, arena, err := Lex(src)
	require.NoError(t, err)

	expected := `Text("cmd")
Delimit
Redirect(stdout)
Object(0)
Delimit
Eof
`
	assert.Equal(t, expected, token.Trace(tokens, arena))
}

func TestLexPlaceholderHandlesAreOrdered(t *testing.T) {
	src := []byte{template.Sentinel, ' ', template.Sentinel}
	tokens, _, err := Lex(src)
	require.NoError(t, err)

	var handles []int
	for _, tok := range tokens {
		if tok.Kind == token.Object {
			handles = append(handles, tok.Handle)
		}
	}
	assert.Equal(t, []int{0, 1}, handles)
}

func TestLexErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		msg  string
	}{
		{"pipe both", "echo |& wc", "|&"},
		{"unclosed substitution", "echo $(foo", "unclosed command substitution"},
		{"unclosed backtick", "echo `foo", "unclosed command substitution"},
		{"unclosed subshell", "(echo hi", "unclosed subshell"},
		{"stray close paren", "echo )", "unexpected `)`"},
		{"trailing pipe", "echo hi |", "unexpected end of input"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := Lex([]byte(tc.src))
			require.Error(t, err)

			var lexErr *Error
			require.ErrorAs(t, err, &lexErr)
			assert.Contains(t, err.Error(), tc.msg)
		})
	}
}

func TestLexGolden(t *testing.T) {
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithDiffEngine(goldie.ColoredDiff),
	)

	cases := []struct {
		name string
		src  string
	}{
		{"simple", "echo hi"},
		{"append_then_dup", "echo hi >> log 2>&1"},
		{"substitutions", `echo "$(date)" $(ls)`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g.Assert(t, tc.name, []byte(lexTrace(t, tc.src)))
		})
	}
}
