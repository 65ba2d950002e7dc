package merge

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDump_ReadsSectorsAndShortTail(t *testing.T) {
	data := append(join(sector("a"), sector("b")), []byte("tail")...)
	d := NewDump("test", bytes.NewReader(data), testSectorSize)

	s, err := d.Next()
	require.NoError(t, err)
	assert.Equal(t, sector("a"), s)
	assert.False(t, d.Exhausted())

	s, err = d.Next()
	require.NoError(t, err)
	assert.Equal(t, sector("b"), s)

	s, err = d.Next()
	require.NoError(t, err)
	assert.Equal(t, []byte("tail"), s)
	assert.True(t, d.Exhausted())

	s, err = d.Next()
	require.NoError(t, err)
	assert.Nil(t, s)
	assert.Equal(t, int64(3), d.Sectors())
}

func TestDump_ExactMultipleExhaustsOnEmptyRead(t *testing.T) {
	d := NewDump("test", bytes.NewReader(sector("a")), testSectorSize)

	s, err := d.Next()
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.False(t, d.Exhausted())

	s, err = d.Next()
	require.NoError(t, err)
	assert.Nil(t, s)
	assert.True(t, d.Exhausted())
}
