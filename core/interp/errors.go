package interp

import "fmt"

// ExecError is a failure of the executor itself: spawn failures, broken
// byte pumps, unresolvable redirect targets. Exit statuses are data, not
// errors, and are never wrapped in ExecError.
type ExecError struct {
	Msg string
	Err error
}

func (e *ExecError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("exec error: %s: %v", e.Msg, e.Err)
	}
	return "exec error: " + e.Msg
}

func (e *ExecError) Unwrap() error { return e.Err }

func execErrorf(format string, args ...any) *ExecError {
	return &ExecError{Msg: fmt.Sprintf(format, args...)}
}

func execError(msg string, err error) *ExecError {
	return &ExecError{Msg: msg, Err: err}
}
