package interp

import (
	"context"
	"errors"
	"io"
	"os/exec"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/josephlewis42/subsh/core/ast"
	"github.com/josephlewis42/subsh/core/stringpool"
)

// runCmd expands the command's words, spawns the child and pumps bytes
// between the child and the frame's streams until both the pumps and the
// child have finished. Caller-provided pipe endpoints are released on
// every exit path so neighbouring pipeline stages observe EOF.
func (in *Interp) runCmd(ctx context.Context, cmd *ast.Cmd, stdin Stdin, stdout, stderr Stdout) (status int, err error) {
	defer func() {
		if stdout.IsPipe() {
			stdout.pipe.Shutdown()
		}
		if stderr.IsPipe() {
			stderr.pipe.Shutdown()
		}
		if stdin.IsPipe() {
			stdin.pipe.Close()
		}
	}()

	// Command-prefix assignments bind before argument expansion so the
	// arguments can already observe them.
	for _, a := range cmd.Assigns {
		value, err := in.atomValue(ctx, a.Value)
		if err != nil {
			return 1, err
		}
		in.resolver.Bind(a.Label, value)
	}

	pool := stringpool.New()
	for _, atom := range cmd.NameAndArgs {
		if err := in.runAtom(ctx, atom, pool); err != nil {
			return 1, err
		}
	}
	argv := pool.Strings()
	if len(argv) == 0 {
		// Every word expanded to nothing; there is no process to run.
		return 0, nil
	}
	name := string(argv[0])
	args := make([]string, 0, len(argv)-1)
	for _, a := range argv[1:] {
		args = append(args, string(a))
	}

	files, err := in.openRedirect(ctx, cmd)
	if err != nil {
		return 1, err
	}
	defer files.Close()

	c := exec.CommandContext(ctx, name, args...)

	outDst := outDest{w: in.stdout}
	if stdout.IsPipe() {
		outDst = outDest{pipe: stdout.pipe}
	}
	if files.stdout != nil {
		outDst = outDest{w: files.stdout}
	}
	errDst := outDest{w: in.stderr}
	if stderr.IsPipe() {
		errDst = outDest{pipe: stderr.pipe}
	}
	if files.stderr != nil {
		errDst = outDest{w: files.stderr}
	}
	if flags := cmd.RedirectFlags; flags.DuplicateOut {
		switch {
		case flags.Stdout: // 2>&1
			errDst = outDst
		case flags.Stderr: // 1>&2
			outDst = errDst
		}
	}

	var pumps errgroup.Group

	switch {
	case files.stdin != nil:
		c.Stdin = files.stdin
	case stdin.IsPipe():
		childIn, err := c.StdinPipe()
		if err != nil {
			return 1, execError("connecting stdin", err)
		}
		src := stdin.pipe
		pumps.Go(func() error {
			defer childIn.Close()
			if _, err := src.CopyTo(childIn, make([]byte, in.copyBuf)); err != nil && !isBenignPipeError(err) {
				return execError("pumping stdin", err)
			}
			return nil
		})
	default:
		c.Stdin = in.stdin
	}

	if outDst.pipe != nil {
		childOut, err := c.StdoutPipe()
		if err != nil {
			return 1, execError("connecting stdout", err)
		}
		dst := outDst.pipe
		pumps.Go(func() error {
			if _, err := dst.CopyFrom(childOut, make([]byte, in.copyBuf)); err != nil {
				if !isBenignPipeError(err) {
					return execError("pumping stdout", err)
				}
				// The downstream reader went away; drain so the child
				// never blocks on a full pipe.
				io.Copy(io.Discard, childOut)
			}
			return nil
		})
	} else {
		c.Stdout = outDst.w
	}

	if errDst.pipe != nil {
		childErr, err := c.StderrPipe()
		if err != nil {
			return 1, execError("connecting stderr", err)
		}
		dst := errDst.pipe
		pumps.Go(func() error {
			if _, err := dst.CopyFrom(childErr, make([]byte, in.copyBuf)); err != nil {
				if !isBenignPipeError(err) {
					return execError("pumping stderr", err)
				}
				io.Copy(io.Discard, childErr)
			}
			return nil
		})
	} else {
		c.Stderr = errDst.w
	}

	if err := c.Start(); err != nil {
		in.events.SpawnError(name, err)
		return 127, execError("spawning "+name, err)
	}
	in.spawned.Add(1)
	in.events.CommandStart(name, args)

	pumpErr := pumps.Wait()
	status, waitErr := statusFromWait(c.Wait())
	in.events.CommandExit(name, status)
	if waitErr != nil {
		return status, waitErr
	}
	return status, pumpErr
}

// outDest is a resolved output destination: a shared pipe endpoint or a
// plain writer.
type outDest struct {
	pipe *SharedWriter
	w    io.Writer
}

// statusFromWait converts a child's wait result into an exit status.
// Signal-terminated children surface as 128+signal; statuses are data,
// not errors.
func statusFromWait(waitErr error) (int, error) {
	if waitErr == nil {
		return 0, nil
	}
	var ee *exec.ExitError
	if errors.As(waitErr, &ee) {
		if ws, ok := ee.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
			return 128 + int(ws.Signal()), nil
		}
		return ee.ExitCode(), nil
	}
	return 127, execError("waiting on child", waitErr)
}
