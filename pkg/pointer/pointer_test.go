package pointer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTo(t *testing.T) {
	value := uint64(42)
	p := To(value)
	require.NotNil(t, p)
	assert.EqualValues(t, 42, *p)

	*p = 7
	assert.EqualValues(t, 42, value)
}

func TestIfValid(t *testing.T) {
	assert.Nil(t, IfValid(false, 1))
	assert.Equal(t, 1, *IfValid(true, 1))
}
