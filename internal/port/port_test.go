package port_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dimasbt/internal/port"
)

func TestValidateName(t *testing.T) {
	require.NoError(t, port.ValidateName("speed"))

	err := port.ValidateName("")
	require.Error(t, err)

	err = port.ValidateName("1speed")
	require.Error(t, err)

	err = port.ValidateName("name")
	require.Error(t, err)
	var nameErr *port.NameNotAllowedError
	assert.ErrorAs(t, err, &nameErr)
}

func TestListFindAndDuplicate(t *testing.T) {
	d1, err := port.NewDefinition(port.In, "int64", "speed", "")
	require.NoError(t, err)
	d2, err := port.NewDefinition(port.Out, "string", "label", "")
	require.NoError(t, err)

	l, err := port.NewList(d1, d2)
	require.NoError(t, err)

	got, ok := l.Find("speed")
	require.True(t, ok)
	assert.Equal(t, port.In, got.Direction)

	_, ok = l.Find("missing")
	assert.False(t, ok)

	dup, _ := port.NewDefinition(port.In, "int64", "speed", "")
	err = l.Add(dup)
	require.Error(t, err)
}

func TestRemappingFirstMatchWins(t *testing.T) {
	r := port.NewRemapping()
	require.NoError(t, r.Set("x", "external_x"))
	err := r.Set("x", "other")
	require.Error(t, err)

	v, ok := r.Get("x")
	require.True(t, ok)
	assert.Equal(t, "external_x", v)

	_, ok = r.Get("y")
	assert.False(t, ok)
}

func TestIsPointerAndResolveKey(t *testing.T) {
	key, ok := port.IsPointer("{speed}")
	require.True(t, ok)
	assert.Equal(t, "speed", key)

	_, ok = port.IsPointer("42")
	assert.False(t, ok)

	resolved, isPtr := port.ResolveKey("{=}", "speed")
	require.True(t, isPtr)
	assert.Equal(t, "speed", resolved)

	resolved, isPtr = port.ResolveKey("42", "speed")
	assert.False(t, isPtr)
	assert.Equal(t, "42", resolved)
}

func TestIsRootEscape(t *testing.T) {
	stripped, ok := port.IsRootEscape("@speed")
	require.True(t, ok)
	assert.Equal(t, "speed", stripped)

	stripped, ok = port.IsRootEscape("speed")
	assert.False(t, ok)
	assert.Equal(t, "speed", stripped)
}
