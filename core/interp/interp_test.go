package interp

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josephlewis42/subsh/core/ast"
	"github.com/josephlewis42/subsh/core/lexer"
	"github.com/josephlewis42/subsh/core/parser"
)

type runResult struct {
	status int
	stdout string
	stderr string
	in     *Interp
	err    error
}

func run(t *testing.T, src string, opts Options) runResult {
	t.Helper()

	tokens, arena, err := lexer.Lex([]byte(src))
	require.NoError(t, err)
	script, err := parser.Parse(tokens, arena)
	require.NoError(t, err)

	var stdout, stderr bytes.Buffer
	if opts.Stdout == nil {
		opts.Stdout = &stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = &stderr
	}
	if opts.Stdin == nil {
		opts.Stdin = strings.NewReader("")
	}

	in := New(opts)
	status, err := in.RunScript(context.Background(), script)
	return runResult{
		status: status,
		stdout: stdout.String(),
		stderr: stderr.String(),
		in:     in,
		err:    err,
	}
}

func mustRun(t *testing.T, src string) runResult {
	t.Helper()
	res := run(t, src, Options{})
	require.NoError(t, res.err)
	return res
}

func TestRunSimpleCommand(t *testing.T) {
	res := mustRun(t, "echo hi")

	assert.Equal(t, 0, res.status)
	assert.Equal(t, "hi\n", res.stdout)
	assert.Equal(t, int64(1), res.in.SpawnCount())
}

func TestRunPipeline(t *testing.T) {
	res := mustRun(t, "echo a b | wc -w")

	assert.Equal(t, 0, res.status)
	assert.Equal(t, "2", strings.TrimSpace(res.stdout))
	// N stages spawn N processes over N-1 pipes.
	assert.Equal(t, int64(2), res.in.SpawnCount())
	assert.Equal(t, int64(1), res.in.PipeCount())
}

func TestRunThreeStagePipeline(t *testing.T) {
	res := mustRun(t, "printf 'c\\nb\\na\\n' | sort | head -n 1")

	assert.Equal(t, 0, res.status)
	assert.Equal(t, "a", strings.TrimSpace(res.stdout))
	assert.Equal(t, int64(3), res.in.SpawnCount())
	assert.Equal(t, int64(2), res.in.PipeCount())
}

func TestRunPrefixAssignment(t *testing.T) {
	res := mustRun(t, "FOO=bar echo $FOO")

	assert.Equal(t, 0, res.status)
	assert.Equal(t, "bar\n", res.stdout)
}

func TestRunAssignmentStatement(t *testing.T) {
	res := mustRun(t, "x=hello; echo $x")

	assert.Equal(t, 0, res.status)
	assert.Equal(t, "hello\n", res.stdout)
}

func TestRunShortCircuitAnd(t *testing.T) {
	res := mustRun(t, "false && echo skipped")

	assert.NotEqual(t, 0, res.status)
	assert.Empty(t, res.stdout)
	// The right side is never spawned.
	assert.Equal(t, int64(1), res.in.SpawnCount())
}

func TestRunShortCircuitOr(t *testing.T) {
	res := mustRun(t, "true || echo skipped")

	assert.Equal(t, 0, res.status)
	assert.Empty(t, res.stdout)
	assert.Equal(t, int64(1), res.in.SpawnCount())
}

func TestRunAndThenRuns(t *testing.T) {
	res := mustRun(t, "true && echo ran")

	assert.Equal(t, 0, res.status)
	assert.Equal(t, "ran\n", res.stdout)
}

func TestRunIfElse(t *testing.T) {
	res := mustRun(t, "if true; then echo y; else echo n; fi")
	assert.Equal(t, 0, res.status)
	assert.Equal(t, "y\n", res.stdout)

	res = mustRun(t, "if false; then echo y; else echo n; fi")
	assert.Equal(t, 0, res.status)
	assert.Equal(t, "n\n", res.stdout)
}

func TestRunIfElif(t *testing.T) {
	res := mustRun(t, "if false; then echo a; elif true; then echo b; else echo c; fi")
	assert.Equal(t, 0, res.status)
	assert.Equal(t, "b\n", res.stdout)
}

func TestRunIfNoBranchTaken(t *testing.T) {
	res := mustRun(t, "if false; then echo y; fi")
	assert.Equal(t, 0, res.status)
	assert.Empty(t, res.stdout)
}

func TestRunCommandSubstitutionSplits(t *testing.T) {
	res := mustRun(t, "x=`echo hi`; echo $x")
	assert.Equal(t, 0, res.status)
	assert.Equal(t, "hi\n", res.stdout)

	// Unquoted substitutions word-split on space, newline and tab.
	res = mustRun(t, `printf '%s\n' $(echo "a b")`)
	require.NoError(t, res.err)
	assert.Equal(t, "a\nb\n", res.stdout)
}

func TestRunCommandSubstitutionQuoted(t *testing.T) {
	res := mustRun(t, `printf '%s\n' "$(echo "a b")"`)

	assert.Equal(t, 0, res.status)
	assert.Equal(t, "a b\n", res.stdout)
}

func TestRunCommandSubstitutionTrimsOneNewline(t *testing.T) {
	res := mustRun(t, `x=$(printf 'a\n\n'); echo $x`)

	assert.Equal(t, 0, res.status)
	// The substitution keeps one of its two trailing newlines.
	assert.Equal(t, "a\n\n", res.stdout)
}

func TestRunExitStatusPropagates(t *testing.T) {
	res := mustRun(t, "sh -c 'exit 3'")
	assert.Equal(t, 3, res.status)
}

func TestRunScriptStatusIsLastStatement(t *testing.T) {
	res := mustRun(t, "echo start; false; echo done")
	assert.Equal(t, 0, res.status)
	assert.Equal(t, "start\ndone\n", res.stdout)

	res = mustRun(t, "echo start; false")
	assert.Equal(t, 1, res.status)
}

func TestRunRedirectToFile(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out.txt")

	res := mustRun(t, "echo hi > "+out)
	require.Equal(t, 0, res.status)

	content, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "hi\n", string(content))
}

func TestRunRedirectAppend(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out.txt")

	mustRun(t, "echo one > "+out)
	mustRun(t, "echo two >> "+out)

	content, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "one\ntwo\n", string(content))
}

func TestRunRedirectStdin(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in.txt")
	require.NoError(t, os.WriteFile(src, []byte("from file\n"), 0644))

	res := mustRun(t, "cat < "+src)
	assert.Equal(t, 0, res.status)
	assert.Equal(t, "from file\n", res.stdout)
}

func TestRunDuplicateErrToOut(t *testing.T) {
	res := mustRun(t, "sh -c 'echo oops 1>&2' 2>&1")

	assert.Equal(t, 0, res.status)
	assert.Contains(t, res.stdout, "oops")
	assert.Empty(t, res.stderr)
}

func TestRunSubshellIsolatesBindings(t *testing.T) {
	res := mustRun(t, "FOO=outer; (FOO=inner true); echo $FOO")

	assert.Equal(t, 0, res.status)
	assert.Equal(t, "outer\n", res.stdout)
}

func TestRunPipelineStatusIsRightmost(t *testing.T) {
	res := mustRun(t, "false | true")
	assert.Equal(t, 0, res.status)

	res = mustRun(t, "true | false")
	assert.Equal(t, 1, res.status)
}

func TestRunSpawnFailure(t *testing.T) {
	res := run(t, "definitely-not-a-command-4cb2f", Options{})

	require.Error(t, res.err)
	var execErr *ExecError
	require.ErrorAs(t, res.err, &execErr)
	assert.Equal(t, 127, res.status)
}

func TestRunHeredocRejected(t *testing.T) {
	res := run(t, "cat << word", Options{})

	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "here-documents")
}

func TestRunCondExprNeedsEvaluator(t *testing.T) {
	res := run(t, "[[ -f x ]]", Options{})

	require.Error(t, res.err)
	var execErr *ExecError
	require.ErrorAs(t, res.err, &execErr)
}

type trueCond struct{}

func (trueCond) Eval(*ast.CondExpr) (bool, error) { return true, nil }

func TestRunCondExprEvaluator(t *testing.T) {
	res := run(t, "[[ -f x ]] && echo yes", Options{Cond: trueCond{}})

	require.NoError(t, res.err)
	assert.Equal(t, 0, res.status)
	assert.Equal(t, "yes\n", res.stdout)
}

func TestRunAsyncFailsLoudly(t *testing.T) {
	script := &ast.Script{Stmts: []ast.Stmt{{Exprs: []ast.Expr{
		&ast.Async{Expr: &ast.Cmd{NameAndArgs: []ast.Atom{ast.Text("true")}}},
	}}}}

	in := New(Options{Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}})
	_, err := in.RunScript(context.Background(), script)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not supported")
}

func TestRunObjectRedirect(t *testing.T) {
	var sink bytes.Buffer

	tokens, arena, err := lexer.Lex([]byte("echo captured > \x08"))
	require.NoError(t, err)
	script, err := parser.Parse(tokens, arena)
	require.NoError(t, err)

	in := New(Options{
		Objects: []any{&sink},
		Stdout:  &bytes.Buffer{},
		Stderr:  &bytes.Buffer{},
	})
	status, err := in.RunScript(context.Background(), script)

	require.NoError(t, err)
	assert.Equal(t, 0, status)
	assert.Equal(t, "captured\n", sink.String())
}

func TestRunEmptyExpansionIsNoProcess(t *testing.T) {
	res := mustRun(t, "$UNSET_VARIABLE")

	assert.Equal(t, 0, res.status)
	assert.Equal(t, int64(0), res.in.SpawnCount())
}

func TestMapResolverSnapshot(t *testing.T) {
	m := NewMapResolver()
	m.Bind("A", []byte("1"))

	snap := m.Snapshot()
	snap.Bind("A", []byte("2"))
	snap.Bind("B", []byte("3"))

	v, ok := m.Get("A")
	require.True(t, ok)
	assert.Equal(t, []byte("1"), v)
	_, ok = m.Get("B")
	assert.False(t, ok)
}

func TestMapResolverArgv(t *testing.T) {
	m := NewMapResolver()
	m.SetArgv([]string{"prog", "one"})

	v, ok := m.GetArgv(1)
	require.True(t, ok)
	assert.Equal(t, []byte("one"), v)

	_, ok = m.GetArgv(9)
	assert.False(t, ok)
}
