package seekbuf

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuffer_WriteSeekOverwrite(t *testing.T) {
	b := New(2)

	_, err := b.Write([]byte("hello world"))
	require.NoError(t, err)

	pos, err := b.Seek(-5, io.SeekCurrent)
	require.NoError(t, err)
	assert.Equal(t, int64(6), pos)

	_, err = b.Write([]byte("there"))
	require.NoError(t, err)
	assert.Equal(t, "hello there", string(b.Bytes()))
	assert.Equal(t, 11, b.Len())
}

func TestBuffer_SeekPastEndGrows(t *testing.T) {
	b := New(0)

	_, err := b.Seek(4, io.SeekStart)
	require.NoError(t, err)
	_, err = b.Write([]byte{1})
	require.NoError(t, err)

	assert.Equal(t, []byte{0, 0, 0, 0, 1}, b.Bytes())
}

func TestBuffer_NegativeSeek(t *testing.T) {
	b := New(0)
	_, err := b.Seek(-1, io.SeekCurrent)
	assert.ErrorIs(t, err, ErrNegativePosition)
}

func TestBuffer_ReadAndReset(t *testing.T) {
	b := New(8)
	_, _ = b.Write([]byte("abc"))
	_, err := b.Seek(0, io.SeekStart)
	require.NoError(t, err)

	got, err := io.ReadAll(b)
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))

	b.Reset()
	assert.Equal(t, 0, b.Len())
	_, err = b.Read(make([]byte, 1))
	assert.Equal(t, io.EOF, err)
}
