package lexer

import "fmt"

// Error is a fatal lexing failure. Offset is the byte position in the
// flattened command source where lexing stopped.
type Error struct {
	Offset int
	Msg    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("lex error at byte %d: %s", e.Offset, e.Msg)
}

func (l *lexer) errorf(format string, args ...any) error {
	return &Error{Offset: l.j, Msg: fmt.Sprintf(format, args...)}
}
