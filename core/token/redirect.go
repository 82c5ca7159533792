package token

import "strings"

// RedirectFlags is the bag of stream-selection bits attached to a Redirect
// token. Each source operator maps to one constructor below; the bit
// patterns for fd duplication are load-bearing and must not be normalised.
type RedirectFlags struct {
	Stdin        bool
	Stdout       bool
	Stderr       bool
	Append       bool
	DuplicateOut bool
}

// RedirectIn is the flag set for `<`.
func RedirectIn() RedirectFlags { return RedirectFlags{Stdin: true} }

// RedirectInHeredoc is the flag set for `<<`.
func RedirectInHeredoc() RedirectFlags { return RedirectFlags{Stdin: true, Append: true} }

// RedirectOut is the flag set for `>`.
func RedirectOut() RedirectFlags { return RedirectFlags{Stdout: true} }

// RedirectOutAppend is the flag set for `>>`.
func RedirectOutAppend() RedirectFlags { return RedirectFlags{Stdout: true, Append: true} }

// RedirectOutErr is the flag set for `&>`.
func RedirectOutErr() RedirectFlags { return RedirectFlags{Stdout: true, Stderr: true} }

// RedirectOutErrAppend is the flag set for `&>>`.
func RedirectOutErrAppend() RedirectFlags {
	return RedirectFlags{Stdout: true, Stderr: true, Append: true}
}

// RedirectErrToOut is the flag set for `2>&1`: the stderr bit is traded for
// the stdout bit and DuplicateOut marks the swap.
func RedirectErrToOut() RedirectFlags { return RedirectFlags{Stdout: true, DuplicateOut: true} }

// RedirectOutToErr is the flag set for `1>&2`.
func RedirectOutToErr() RedirectFlags { return RedirectFlags{Stderr: true, DuplicateOut: true} }

// IsEmpty reports whether none of the five bits is set.
func (f RedirectFlags) IsEmpty() bool {
	return !(f.Stdin || f.Stdout || f.Stderr || f.Append || f.DuplicateOut)
}

func (f RedirectFlags) String() string {
	var parts []string
	if f.Stdin {
		parts = append(parts, "stdin")
	}
	if f.Stdout {
		parts = append(parts, "stdout")
	}
	if f.Stderr {
		parts = append(parts, "stderr")
	}
	if f.Append {
		parts = append(parts, "append")
	}
	if f.DuplicateOut {
		parts = append(parts, "dup")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, ",")
}
