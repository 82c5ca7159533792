// Package interp evaluates the abstract command tree by spawning child
// processes wired together with pipes, redirections, command
// substitutions and short-circuit logical operators. Pipeline stages run
// concurrently as goroutines; every child, pipe endpoint and byte pump is
// owned by the frame that created it and released on frame exit.
package interp

import (
	"context"
	"io"
	"os"
	"sync/atomic"

	"github.com/josephlewis42/subsh/core/ast"
	"github.com/josephlewis42/subsh/core/logger"
)

// DefaultCopyBufferSize is the byte-pump buffer size when none is
// configured.
const DefaultCopyBufferSize = 32 * 1024

// MinCopyBufferSize bounds configured pump buffers from below.
const MinCopyBufferSize = 1024

// Options configures an Interp. Zero values select working defaults.
type Options struct {
	// Resolver supplies variable and positional-argument values.
	Resolver NameResolver
	// Expander performs brace, glob and tilde expansion.
	Expander WordExpander
	// Cond evaluates `[[ … ]]` expressions.
	Cond CondEvaluator
	// Objects is the host-object table indexed by placeholder handles.
	Objects []any
	// Events receives execution events.
	Events *logger.Logger
	// Stdin, Stdout and Stderr are the base streams that Inherit
	// capabilities resolve to.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	// CopyBufferSize sizes the byte-pump buffers.
	CopyBufferSize int
}

// Interp walks a Script and produces its final exit status.
type Interp struct {
	resolver NameResolver
	expander WordExpander
	cond     CondEvaluator
	objects  []any
	events   *logger.Logger
	stdin    io.Reader
	stdout   io.Writer
	stderr   io.Writer
	copyBuf  int

	spawned *atomic.Int64
	pipes   *atomic.Int64
}

// New creates an interpreter from opts.
func New(opts Options) *Interp {
	in := &Interp{
		resolver: opts.Resolver,
		expander: opts.Expander,
		cond:     opts.Cond,
		objects:  opts.Objects,
		events:   opts.Events,
		stdin:    opts.Stdin,
		stdout:   opts.Stdout,
		stderr:   opts.Stderr,
		copyBuf:  opts.CopyBufferSize,
		spawned:  new(atomic.Int64),
		pipes:    new(atomic.Int64),
	}
	if in.resolver == nil {
		in.resolver = NewMapResolver()
	}
	if in.expander == nil {
		in.expander = NopExpander{}
	}
	if in.cond == nil {
		in.cond = NopCond{}
	}
	if in.events == nil {
		in.events = logger.Nop()
	}
	if in.stdin == nil {
		in.stdin = os.Stdin
	}
	if in.stdout == nil {
		in.stdout = os.Stdout
	}
	if in.stderr == nil {
		in.stderr = os.Stderr
	}
	if in.copyBuf == 0 {
		in.copyBuf = DefaultCopyBufferSize
	}
	if in.copyBuf < MinCopyBufferSize {
		in.copyBuf = MinCopyBufferSize
	}
	return in
}

// fork creates the interpreter for a subshell frame: same streams and
// capabilities, isolated variable bindings when the resolver supports
// snapshotting.
func (in *Interp) fork() *Interp {
	child := *in
	if snap, ok := in.resolver.(Snapshotter); ok {
		child.resolver = snap.Snapshot()
	}
	return &child
}

// SpawnCount returns the number of child processes spawned so far,
// including by subshell frames forked from this interpreter.
func (in *Interp) SpawnCount() int64 { return in.spawned.Load() }

// PipeCount returns the number of pipeline pipe pairs created so far.
func (in *Interp) PipeCount() int64 { return in.pipes.Load() }

// RunScript evaluates script with all three streams inherited and returns
// the final exit status.
func (in *Interp) RunScript(ctx context.Context, script *ast.Script) (int, error) {
	return in.runScript(ctx, script, InheritStdin(), InheritStdout(), InheritStdout())
}

// newPipe creates one in-memory simplex pipe pair.
func (in *Interp) newPipe() (*SharedReader, *SharedWriter) {
	pr, pw := io.Pipe()
	in.pipes.Add(1)
	return NewSharedReader(pr), NewSharedWriter(pw)
}
