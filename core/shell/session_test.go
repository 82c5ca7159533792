package shell

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josephlewis42/subsh/core/interp"
	"github.com/josephlewis42/subsh/core/lexer"
	"github.com/josephlewis42/subsh/core/parser"
	"github.com/josephlewis42/subsh/core/template"
)

func TestLexCommandTrace(t *testing.T) {
	session := NewSession()
	trace, err := session.LexCommand(template.Literal("echo hi"))
	require.NoError(t, err)

	assert.Equal(t, `Text("echo")
Delimit
Text("hi")
Delimit
Eof
`, trace)
}

func TestLexCommandError(t *testing.T) {
	session := NewSession()
	_, err := session.LexCommand(template.Literal("echo $(oops"))

	var lexErr *lexer.Error
	require.ErrorAs(t, err, &lexErr)
}

func TestParseCommandDump(t *testing.T) {
	session := NewSession()
	dump, err := session.ParseCommand(template.Literal("echo hi"))
	require.NoError(t, err)

	assert.Equal(t, `Script
  Stmt
    Cmd
      Text "echo"
      Text "hi"
`, dump)
}

func TestParseCommandError(t *testing.T) {
	session := NewSession()
	_, err := session.ParseCommand(template.Literal("echo hi >"))

	var parseErr *parser.Error
	require.ErrorAs(t, err, &parseErr)
}

func TestExecuteCommand(t *testing.T) {
	var stdout bytes.Buffer
	session := &Session{Stdout: &stdout, Stderr: &bytes.Buffer{}, Stdin: strings.NewReader("")}

	status, err := session.ExecuteCommand(context.Background(), template.Literal("echo hi"))
	require.NoError(t, err)
	assert.Equal(t, 0, status)
	assert.Equal(t, "hi\n", stdout.String())
}

func TestExecuteCommandBindingsPersist(t *testing.T) {
	var stdout bytes.Buffer
	session := &Session{Stdout: &stdout, Stderr: &bytes.Buffer{}, Stdin: strings.NewReader("")}

	_, err := session.ExecuteCommand(context.Background(), template.Literal("x=keep"))
	require.NoError(t, err)

	// The same resolver backs every command of the session.
	status, err := session.ExecuteCommand(context.Background(), template.Literal("echo $x"))
	require.NoError(t, err)
	assert.Equal(t, 0, status)
	assert.Equal(t, "keep\n", stdout.String())
}

func TestExecuteCommandObjectRedirect(t *testing.T) {
	var sink bytes.Buffer
	session := &Session{Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}, Stdin: strings.NewReader("")}

	status, err := session.ExecuteCommand(context.Background(),
		template.Literal("echo to-object > "),
		template.Object{Value: &sink},
	)
	require.NoError(t, err)
	assert.Equal(t, 0, status)
	assert.Equal(t, "to-object\n", sink.String())
}

func TestExecuteCommandWithResolver(t *testing.T) {
	resolver := interp.NewMapResolverFrom(map[string]string{"GREETING": "hello"})
	var stdout bytes.Buffer
	session := &Session{
		Resolver: resolver,
		Stdout:   &stdout,
		Stderr:   &bytes.Buffer{},
		Stdin:    strings.NewReader(""),
	}

	status, err := session.ExecuteCommand(context.Background(), template.Literal("echo $GREETING"))
	require.NoError(t, err)
	assert.Equal(t, 0, status)
	assert.Equal(t, "hello\n", stdout.String())
}
