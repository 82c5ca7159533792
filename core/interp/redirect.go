package interp

import (
	"context"
	"io"
	"os"

	"github.com/josephlewis42/subsh/core/ast"
)

// redirectFiles holds the streams a redirect resolved to. Opened files
// are released in reverse order of acquisition.
type redirectFiles struct {
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
	closers []io.Closer
}

func (r *redirectFiles) Close() {
	for i := len(r.closers) - 1; i >= 0; i-- {
		r.closers[i].Close()
	}
	r.closers = nil
}

// openRedirect resolves a command's redirect target to concrete streams.
// The flag bits select which child streams attach to the target; an
// object handle resolves through the session's object table instead of
// the filesystem.
func (in *Interp) openRedirect(ctx context.Context, cmd *ast.Cmd) (*redirectFiles, error) {
	files := &redirectFiles{}
	flags := cmd.RedirectFlags
	if flags.IsEmpty() {
		return files, nil
	}
	if flags.Stdin && flags.Append {
		return nil, execErrorf("here-documents (`<<`) are not supported")
	}

	switch target := cmd.Redirect.(type) {
	case nil:
		// Pure fd duplication (`2>&1`); nothing to open.
		return files, nil

	case *ast.RedirectObject:
		if target.Handle < 0 || target.Handle >= len(in.objects) {
			return nil, execErrorf("unknown object handle %d", target.Handle)
		}
		obj := in.objects[target.Handle]
		if flags.Stdin {
			r, ok := obj.(io.Reader)
			if !ok {
				return nil, execErrorf("object %d (%T) is not readable", target.Handle, obj)
			}
			files.stdin = r
			return files, nil
		}
		w, ok := obj.(io.Writer)
		if !ok {
			return nil, execErrorf("object %d (%T) is not writable", target.Handle, obj)
		}
		if flags.Stdout {
			files.stdout = w
		}
		if flags.Stderr {
			files.stderr = w
		}
		return files, nil

	case *ast.RedirectAtom:
		path, err := in.atomValue(ctx, target.Atom)
		if err != nil {
			return nil, err
		}
		if flags.Stdin {
			f, err := os.Open(string(path))
			if err != nil {
				return nil, execError("opening redirect source", err)
			}
			files.stdin = f
			files.closers = append(files.closers, f)
			return files, nil
		}
		mode := os.O_WRONLY | os.O_CREATE
		if flags.Append {
			mode |= os.O_APPEND
		} else {
			mode |= os.O_TRUNC
		}
		f, err := os.OpenFile(string(path), mode, 0644)
		if err != nil {
			return nil, execError("opening redirect target", err)
		}
		files.closers = append(files.closers, f)
		if flags.Stdout {
			files.stdout = f
		}
		if flags.Stderr {
			files.stderr = f
		}
		return files, nil

	default:
		return nil, execErrorf("unknown redirect target %T", cmd.Redirect)
	}
}
