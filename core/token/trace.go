package token

import "strings"

// Trace renders a token list one token per line, resolving byte ranges
// against the arena. Used by the lex debugging surface and golden tests.
func Trace(tokens []Token, arena []byte) string {
	var sb strings.Builder
	for _, t := range tokens {
		sb.WriteString(t.String(arena))
		sb.WriteByte('\n')
	}
	return sb.String()
}
