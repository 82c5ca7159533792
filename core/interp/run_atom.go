package interp

import (
	"bytes"
	"context"

	"github.com/josephlewis42/subsh/core/ast"
	"github.com/josephlewis42/subsh/core/stringpool"
)

// ifsSeparator matches the fixed word-splitting separators: space,
// newline and tab.
func ifsSeparator(r rune) bool {
	return r == ' ' || r == '\n' || r == '\t'
}

// runAtom expands one command word into the pool. A single atom may push
// zero, one, or several strings: unset variables vanish, unquoted command
// substitutions word-split, hinted compounds run through the expander.
func (in *Interp) runAtom(ctx context.Context, atom ast.Atom, pool *stringpool.Pool) error {
	switch a := atom.(type) {
	case *ast.CompoundAtom:
		return in.runCompoundAtom(ctx, a, pool)

	case *ast.CmdSubst:
		out, err := in.runCmdSubst(ctx, a)
		if err != nil {
			return err
		}
		if a.Quoted {
			pool.PushStr(out)
			return nil
		}
		for _, field := range bytes.FieldsFunc(out, ifsSeparator) {
			pool.PushStr(field)
		}
		return nil

	case ast.Text:
		pool.PushStr([]byte(a))
		return nil

	case ast.Var:
		if v, ok := in.resolver.Get(string(a)); ok && len(v) > 0 {
			pool.PushStr(v)
		}
		return nil

	case ast.VarArgv:
		if v, ok := in.resolver.GetArgv(int(a)); ok && len(v) > 0 {
			pool.PushStr(v)
		}
		return nil

	case ast.Asterisk:
		for _, w := range in.expander.ExpandGlob([]byte("*")) {
			pool.PushStr(w)
		}
		return nil

	case ast.DoubleAsterisk:
		for _, w := range in.expander.ExpandGlob([]byte("**")) {
			pool.PushStr(w)
		}
		return nil

	case ast.BraceBegin:
		pool.PushStr([]byte("{"))
		return nil

	case ast.BraceEnd:
		pool.PushStr([]byte("}"))
		return nil

	case ast.Comma:
		pool.PushStr([]byte(","))
		return nil

	case ast.Tilde:
		pool.PushStr(in.expander.ExpandTilde(nil))
		return nil

	default:
		return execErrorf("unknown atom %T", atom)
	}
}

// runCompoundAtom renders the pieces into one word, then routes it
// through the expander as the hints direct.
func (in *Interp) runCompoundAtom(ctx context.Context, a *ast.CompoundAtom, pool *stringpool.Pool) error {
	word, err := in.renderWord(ctx, a.Atoms)
	if err != nil {
		return err
	}

	words := [][]byte{word}
	if a.BraceExpansionHint {
		words = in.expander.ExpandBraces(word)
	}
	if a.GlobHint {
		var globbed [][]byte
		for _, w := range words {
			globbed = append(globbed, in.expander.ExpandGlob(w)...)
		}
		words = globbed
	}
	for _, w := range words {
		pool.PushStr(w)
	}
	return nil
}

// renderWord concatenates simple atoms into one word. A leading tilde is
// resolved through the expander with the text up to the first slash as
// its prefix; mid-word tildes stay literal. Command substitutions
// contribute their trimmed output without word-splitting here.
func (in *Interp) renderWord(ctx context.Context, atoms []ast.SimpleAtom) ([]byte, error) {
	var word []byte
	for i, atom := range atoms {
		switch a := atom.(type) {
		case ast.Text:
			word = append(word, a...)
		case ast.Var:
			if v, ok := in.resolver.Get(string(a)); ok {
				word = append(word, v...)
			}
		case ast.VarArgv:
			if v, ok := in.resolver.GetArgv(int(a)); ok {
				word = append(word, v...)
			}
		case ast.Asterisk:
			word = append(word, '*')
		case ast.DoubleAsterisk:
			word = append(word, '*', '*')
		case ast.BraceBegin:
			word = append(word, '{')
		case ast.BraceEnd:
			word = append(word, '}')
		case ast.Comma:
			word = append(word, ',')
		case ast.Tilde:
			if i != 0 {
				word = append(word, '~')
				continue
			}
			rest, err := in.renderWord(ctx, atoms[1:])
			if err != nil {
				return nil, err
			}
			prefix := rest
			var tail []byte
			if slash := bytes.IndexByte(rest, '/'); slash >= 0 {
				prefix, tail = rest[:slash], rest[slash:]
			}
			word = append(word, in.expander.ExpandTilde(prefix)...)
			word = append(word, tail...)
			return word, nil
		case *ast.CmdSubst:
			out, err := in.runCmdSubst(ctx, a)
			if err != nil {
				return nil, err
			}
			word = append(word, out...)
		default:
			return nil, execErrorf("unknown atom %T in word", atom)
		}
	}
	return word, nil
}

// atomValue renders any atom to a single string, for assignment values
// and redirect targets. No word splitting, globbing or brace expansion
// applies here.
func (in *Interp) atomValue(ctx context.Context, atom ast.Atom) ([]byte, error) {
	return in.renderWord(ctx, ast.Flatten(atom))
}

// runCmdSubst captures the substitution script's stdout with stdin and
// stderr inherited, then strips exactly one trailing newline.
func (in *Interp) runCmdSubst(ctx context.Context, cs *ast.CmdSubst) ([]byte, error) {
	var buf bytes.Buffer
	w := NewSharedWriter(&buf)
	if _, err := in.runScript(ctx, &cs.Script, InheritStdin(), PipeStdout(w), InheritStdout()); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
