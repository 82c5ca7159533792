// Package ast holds the abstract command tree the parser produces. The
// tree is immutable after parsing and owns its own byte strings; nothing
// in it references the token arena.
package ast

import "github.com/josephlewis42/subsh/core/token"

// Script is an ordered sequence of statements, run sequentially. The last
// statement's exit status becomes the script's.
type Script struct {
	Stmts []Stmt
}

// Stmt is an ordered sequence of expressions delimited by `;` or newline
// in the source, also run sequentially.
type Stmt struct {
	Exprs []Expr
}

// Expr is one of Assigns, *Binary, *Pipeline, *Cmd, *SubShell, *If,
// *CondExpr or *Async.
type Expr interface {
	exprNode()
}

// Op is a short-circuit logical operator.
type Op uint8

const (
	And Op = iota
	Or
)

func (o Op) String() string {
	if o == And {
		return "And"
	}
	return "Or"
}

// Assign binds a value to a variable name. Label always matches
// [A-Za-z_][A-Za-z0-9_]*.
type Assign struct {
	Label string
	Value Atom
}

// Assigns is an expression consisting only of assignments, no command.
type Assigns []Assign

// Binary is a short-circuit `&&` or `||` chain link.
type Binary struct {
	Op    Op
	Left  Expr
	Right Expr
}

// Pipeline is an ordered sequence of at least two stages; length-1
// pipelines collapse to the item itself during parsing.
type Pipeline struct {
	Items []PipelineItem
}

// Cmd is a simple command. NameAndArgs is non-empty when produced by the
// parser.
type Cmd struct {
	Assigns       []Assign
	NameAndArgs   []Atom
	Redirect      Redirect
	RedirectFlags token.RedirectFlags
}

// SubShell runs a script in an isolated execution frame.
type SubShell struct {
	Script        Script
	Redirect      Redirect
	RedirectFlags token.RedirectFlags
}

// If is a conditional command. ElseParts uses the even/odd encoding: 2n
// entries are n elif/then pairs; 2n+1 entries are n elif/then pairs plus a
// trailing else body.
type If struct {
	Cond      []Stmt
	Then      []Stmt
	ElseParts [][]Stmt
}

// CondExpr is the parsed-but-deferred `[[ … ]]` form. Words carries the
// raw word texts between the brackets for the external evaluator.
type CondExpr struct {
	Words []string
}

// Async marks an expression for background execution. It is reserved:
// parsing rejects it and execution fails loudly.
type Async struct {
	Expr Expr
}

func (Assigns) exprNode()   {}
func (*Binary) exprNode()   {}
func (*Pipeline) exprNode() {}
func (*Cmd) exprNode()      {}
func (*SubShell) exprNode() {}
func (*If) exprNode()       {}
func (*CondExpr) exprNode() {}
func (*Async) exprNode()    {}

// PipelineItem is the subset of expressions that may appear as a pipeline
// stage: *Cmd, Assigns, *SubShell, *If or *CondExpr.
type PipelineItem interface {
	Expr
	pipelineItemNode()
}

func (Assigns) pipelineItemNode()   {}
func (*Cmd) pipelineItemNode()      {}
func (*SubShell) pipelineItemNode() {}
func (*If) pipelineItemNode()       {}
func (*CondExpr) pipelineItemNode() {}

// AsPipelineItem converts an expression to a pipeline item. Binary and
// nested Pipeline expressions are not pipeline items.
func AsPipelineItem(e Expr) (PipelineItem, bool) {
	item, ok := e.(PipelineItem)
	return item, ok
}

// Redirect is the target of a redirection: a word (*RedirectAtom), a host
// object (*RedirectObject), or nil for a pure fd duplication.
type Redirect interface {
	redirectNode()
}

// RedirectAtom redirects to the file the atom expands to.
type RedirectAtom struct {
	Atom Atom
}

// RedirectObject redirects to a host object resolved through the session's
// handle table.
type RedirectObject struct {
	Handle int
}

func (*RedirectAtom) redirectNode()   {}
func (*RedirectObject) redirectNode() {}
