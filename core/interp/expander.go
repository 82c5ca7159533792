package interp

import "github.com/josephlewis42/subsh/core/ast"

// WordExpander performs brace, glob and tilde expansion. The parser only
// emits hints; the algorithms belong to the host.
type WordExpander interface {
	// ExpandGlob expands glob markers in word into matching names.
	ExpandGlob(word []byte) [][]byte
	// ExpandBraces performs brace expansion on word.
	ExpandBraces(word []byte) [][]byte
	// ExpandTilde resolves a `~prefix` home-directory reference.
	ExpandTilde(prefix []byte) []byte
}

// NopExpander is the identity expander: every word expands to itself and
// tildes stay literal.
type NopExpander struct{}

var _ WordExpander = NopExpander{}

func (NopExpander) ExpandGlob(word []byte) [][]byte   { return [][]byte{word} }
func (NopExpander) ExpandBraces(word []byte) [][]byte { return [][]byte{word} }
func (NopExpander) ExpandTilde(prefix []byte) []byte {
	return append([]byte("~"), prefix...)
}

// CondEvaluator evaluates `[[ … ]]` conditional expressions.
type CondEvaluator interface {
	Eval(cond *ast.CondExpr) (bool, error)
}

// NopCond rejects every conditional expression until an evaluator is
// supplied.
type NopCond struct{}

var _ CondEvaluator = NopCond{}

func (NopCond) Eval(*ast.CondExpr) (bool, error) {
	return false, execErrorf("conditional expressions require a CondEvaluator")
}
