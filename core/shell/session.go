// Package shell is the embedding surface: a Session accepts templated
// commands and lexes, parses or executes them against caller-supplied
// streams and capabilities.
package shell

import (
	"context"
	"io"

	"github.com/josephlewis42/subsh/core/ast"
	"github.com/josephlewis42/subsh/core/interp"
	"github.com/josephlewis42/subsh/core/lexer"
	"github.com/josephlewis42/subsh/core/logger"
	"github.com/josephlewis42/subsh/core/parser"
	"github.com/josephlewis42/subsh/core/template"
	"github.com/josephlewis42/subsh/core/token"
)

// Session holds the capabilities and base streams commands run against.
// The zero value is usable: it resolves names through an empty in-memory
// resolver and inherits the process's standard streams.
type Session struct {
	// Resolver supplies variable values; defaults to an empty MapResolver
	// shared across commands of this session.
	Resolver interp.NameResolver
	// Expander performs word expansion; defaults to the identity.
	Expander interp.WordExpander
	// Cond evaluates `[[ … ]]`; defaults to rejecting them.
	Cond interp.CondEvaluator
	// Stdin, Stdout, Stderr are what Inherit streams resolve to; they
	// default to the process's own streams.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	// Events receives execution events; defaults to discarding them.
	Events *logger.Logger
	// CopyBufferSize sizes executor byte-pump buffers.
	CopyBufferSize int
}

// NewSession creates a session with an empty resolver.
func NewSession() *Session {
	return &Session{Resolver: interp.NewMapResolver()}
}

func (s *Session) resolver() interp.NameResolver {
	if s.Resolver == nil {
		s.Resolver = interp.NewMapResolver()
	}
	return s.Resolver
}

// LexCommand tokenises the templated command and returns a stringified
// token trace for debugging.
func (s *Session) LexCommand(parts ...template.Part) (string, error) {
	buf, _, err := template.Split(parts)
	if err != nil {
		return "", err
	}
	tokens, arena, err := lexer.Lex(buf)
	if err != nil {
		return "", err
	}
	return token.Trace(tokens, arena), nil
}

// ParseCommand parses the templated command and returns a stringified
// syntax tree for debugging.
func (s *Session) ParseCommand(parts ...template.Part) (string, error) {
	script, _, err := s.parse(parts)
	if err != nil {
		return "", err
	}
	return ast.Sprint(script), nil
}

// ExecuteCommand runs the templated command to completion and returns the
// final exit status. After it returns, no child processes spawned by the
// call remain alive.
func (s *Session) ExecuteCommand(ctx context.Context, parts ...template.Part) (int, error) {
	script, objects, err := s.parse(parts)
	if err != nil {
		return 1, err
	}
	in := interp.New(interp.Options{
		Resolver:       s.resolver(),
		Expander:       s.Expander,
		Cond:           s.Cond,
		Objects:        objects,
		Events:         s.Events,
		Stdin:          s.Stdin,
		Stdout:         s.Stdout,
		Stderr:         s.Stderr,
		CopyBufferSize: s.CopyBufferSize,
	})
	return in.RunScript(ctx, script)
}

func (s *Session) parse(parts []template.Part) (*ast.Script, []any, error) {
	buf, objects, err := template.Split(parts)
	if err != nil {
		return nil, nil, err
	}
	tokens, arena, err := lexer.Lex(buf)
	if err != nil {
		return nil, nil, err
	}
	script, err := parser.Parse(tokens, arena)
	if err != nil {
		return nil, nil, err
	}
	return script, objects, nil
}
