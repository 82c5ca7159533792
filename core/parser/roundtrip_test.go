package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josephlewis42/subsh/core/ast"
	"github.com/josephlewis42/subsh/core/lexer"
	"github.com/josephlewis42/subsh/core/token"
)

// Parsing then unparsing must produce source that lexes back to the same
// token stream, modulo whitespace.
func TestUnparseRoundTrip(t *testing.T) {
	cases := []string{
		"echo hi",
		"echo a | wc -w",
		"x=1; echo $x",
		"echo $1",
		"true && false || true",
		"if true; then echo y; else echo n; fi",
		"if a; then b; elif c; then d; else e; fi",
		"echo {a,b}*",
		"ls ~/src",
		"(echo hi)",
		"echo hi > out.txt",
		"cmd 2>&1",
		"[[ -f x ]]",
		// Backticks canonicalise to `$(…)` with identical tokens.
		"x=`echo hi`",
	}

	for _, src := range cases {
		t.Run(src, func(t *testing.T) {
			tokens, arena, err := lexer.Lex([]byte(src))
			require.NoError(t, err)
			script, err := Parse(tokens, arena)
			require.NoError(t, err)

			unparsed := ast.Unparse(script)
			tokens2, arena2, err := lexer.Lex([]byte(unparsed))
			require.NoError(t, err, "unparsed source %q must lex", unparsed)

			assert.Equal(t,
				token.Trace(tokens, arena),
				token.Trace(tokens2, arena2),
				"tokens after unparse of %q (as %q)", src, unparsed)
		})
	}
}

// Unparsing twice through a parse is a fixed point.
func TestUnparseStable(t *testing.T) {
	src := "if true; then echo a | wc -l; else (x=1; echo $x); fi"

	tokens, arena, err := lexer.Lex([]byte(src))
	require.NoError(t, err)
	script, err := Parse(tokens, arena)
	require.NoError(t, err)
	first := ast.Unparse(script)

	tokens2, arena2, err := lexer.Lex([]byte(first))
	require.NoError(t, err)
	script2, err := Parse(tokens2, arena2)
	require.NoError(t, err)

	assert.Equal(t, first, ast.Unparse(script2))
}
