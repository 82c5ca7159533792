package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitLiterals(t *testing.T) {
	buf, objects, err := Split([]Part{
		Literal("echo "),
		Literal("hi"),
	})
	require.NoError(t, err)
	assert.Equal(t, []byte("echo hi"), buf)
	assert.Empty(t, objects)
}

func TestSplitObjects(t *testing.T) {
	first := struct{ name string }{"first"}
	second := struct{ name string }{"second"}

	buf, objects, err := Split([]Part{
		Literal("cp "),
		Object{Value: first},
		Literal(" "),
		Object{Value: second},
	})
	require.NoError(t, err)

	assert.Equal(t, []byte{'c', 'p', ' ', Sentinel, ' ', Sentinel}, buf)
	require.Len(t, objects, 2)
	assert.Equal(t, first, objects[0])
	assert.Equal(t, second, objects[1])
}

func TestSplitEmpty(t *testing.T) {
	buf, objects, err := Split(nil)
	require.NoError(t, err)
	assert.Empty(t, buf)
	assert.Empty(t, objects)
}

func TestSplitNilPart(t *testing.T) {
	_, _, err := Split([]Part{Literal("a"), nil})

	var templateErr *Error
	require.ErrorAs(t, err, &templateErr)
	assert.Equal(t, 1, templateErr.Index)
}
