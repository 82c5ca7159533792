package interp

import (
	"context"

	"github.com/josephlewis42/subsh/core/ast"
)

func (in *Interp) runScript(ctx context.Context, script *ast.Script, stdin Stdin, stdout, stderr Stdout) (int, error) {
	status := 0
	for i := range script.Stmts {
		var err error
		status, err = in.runStmt(ctx, &script.Stmts[i], stdin, stdout, stderr)
		if err != nil {
			return status, err
		}
	}
	return status, nil
}

func (in *Interp) runStmt(ctx context.Context, stmt *ast.Stmt, stdin Stdin, stdout, stderr Stdout) (int, error) {
	status := 0
	for _, expr := range stmt.Exprs {
		var err error
		status, err = in.runExpr(ctx, expr, stdin, stdout, stderr)
		if err != nil {
			return status, err
		}
	}
	return status, nil
}

func (in *Interp) runExpr(ctx context.Context, expr ast.Expr, stdin Stdin, stdout, stderr Stdout) (int, error) {
	switch e := expr.(type) {
	case ast.Assigns:
		return in.runAssigns(ctx, e)
	case *ast.Binary:
		return in.runBinary(ctx, e, stdin, stdout, stderr)
	case *ast.Pipeline:
		return in.runPipeline(ctx, e, stdin, stdout, stderr)
	case *ast.Cmd:
		return in.runCmd(ctx, e, stdin, stdout, stderr)
	case *ast.SubShell:
		return in.runSubShell(ctx, e, stdin, stdout, stderr)
	case *ast.If:
		return in.runIf(ctx, e, stdin, stdout, stderr)
	case *ast.CondExpr:
		ok, err := in.cond.Eval(e)
		if err != nil {
			return 1, err
		}
		if ok {
			return 0, nil
		}
		return 1, nil
	case *ast.Async:
		return 1, execErrorf("background execution (`&`) is not supported")
	default:
		return 1, execErrorf("unknown expression %T", expr)
	}
}

// runAssigns binds each assignment through the frame's resolver. The
// statement's status is always success.
func (in *Interp) runAssigns(ctx context.Context, assigns ast.Assigns) (int, error) {
	for _, a := range assigns {
		value, err := in.atomValue(ctx, a.Value)
		if err != nil {
			return 1, err
		}
		in.resolver.Bind(a.Label, value)
	}
	return 0, nil
}

// runBinary evaluates a short-circuit chain link. The right side runs
// only when the left status selects it; it can observe nothing of the
// left side beyond that status.
func (in *Interp) runBinary(ctx context.Context, b *ast.Binary, stdin Stdin, stdout, stderr Stdout) (int, error) {
	left, err := in.runExpr(ctx, b.Left, stdin, stdout, stderr)
	if err != nil {
		return left, err
	}
	if (b.Op == ast.And && left == 0) || (b.Op == ast.Or && left != 0) {
		return in.runExpr(ctx, b.Right, stdin, stdout, stderr)
	}
	return left, nil
}

// runSubShell evaluates the inner script in a fresh frame with a
// snapshotted environment.
func (in *Interp) runSubShell(ctx context.Context, s *ast.SubShell, stdin Stdin, stdout, stderr Stdout) (int, error) {
	return in.fork().runScript(ctx, &s.Script, stdin, stdout, stderr)
}

// runIf evaluates the condition statements sequentially and takes the
// branch the last status selects. With no taken branch the status is 0.
func (in *Interp) runIf(ctx context.Context, clause *ast.If, stdin Stdin, stdout, stderr Stdout) (int, error) {
	condStatus, err := in.runBody(ctx, clause.Cond, stdin, stdout, stderr)
	if err != nil {
		return condStatus, err
	}
	if condStatus == 0 {
		return in.runBody(ctx, clause.Then, stdin, stdout, stderr)
	}

	parts := clause.ElseParts
	for len(parts) >= 2 {
		elifStatus, err := in.runBody(ctx, parts[0], stdin, stdout, stderr)
		if err != nil {
			return elifStatus, err
		}
		if elifStatus == 0 {
			return in.runBody(ctx, parts[1], stdin, stdout, stderr)
		}
		parts = parts[2:]
	}
	if len(parts) == 1 {
		return in.runBody(ctx, parts[0], stdin, stdout, stderr)
	}
	return 0, nil
}

func (in *Interp) runBody(ctx context.Context, body []ast.Stmt, stdin Stdin, stdout, stderr Stdout) (int, error) {
	status := 0
	for i := range body {
		var err error
		status, err = in.runStmt(ctx, &body[i], stdin, stdout, stderr)
		if err != nil {
			return status, err
		}
	}
	return status, nil
}
