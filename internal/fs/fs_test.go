package fs

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalFS(t *testing.T) {
	tmp := t.TempDir()
	lfs := LocalFS{}

	dir := filepath.Join(tmp, "out")
	require.NoError(t, os.MkdirAll(dir, 0o755))

	fpath := filepath.Join(dir, "test.mat")
	f, err := lfs.OpenFile(fpath, os.O_CREATE|os.O_RDWR|os.O_TRUNC, 0o644)
	require.NoError(t, err)

	_, err = f.Write([]byte("hello"))
	require.NoError(t, err)

	// Seek back and overwrite, like a backpatch.
	_, err = f.Seek(-4, io.SeekCurrent)
	require.NoError(t, err)
	_, err = f.Write([]byte("a"))
	require.NoError(t, err)

	require.NoError(t, f.Sync())
	info, err := f.Stat()
	require.NoError(t, err)
	assert.Equal(t, int64(5), info.Size())
	require.NoError(t, f.Close())

	data, err := os.ReadFile(fpath)
	require.NoError(t, err)
	assert.Equal(t, "hallo", string(data))

	require.NoError(t, lfs.Remove(fpath))
	_, err = os.Stat(fpath)
	assert.True(t, os.IsNotExist(err))
}

func TestFaultyFS_WriteLimit(t *testing.T) {
	tmp := t.TempDir()
	ffs := NewFaultyFS(nil)
	ffs.AddRule("faulty", Fault{FailAfterBytes: 5})

	f, err := ffs.OpenFile(filepath.Join(tmp, "faulty.mat"), os.O_CREATE|os.O_RDWR, 0o644)
	require.NoError(t, err)
	defer f.Close()

	n, err := f.Write([]byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	n, err = f.Write([]byte("!"))
	assert.ErrorIs(t, err, ErrInjected)
	assert.Equal(t, 0, n)
	assert.Equal(t, int64(5), ffs.Written())
}

func TestFaultyFS_NoRuleDelegates(t *testing.T) {
	tmp := t.TempDir()
	ffs := NewFaultyFS(LocalFS{})
	ffs.AddRule("other", Fault{FailOnSeek: true})

	f, err := ffs.OpenFile(filepath.Join(tmp, "ok.mat"), os.O_CREATE|os.O_RDWR, 0o644)
	require.NoError(t, err)

	_, err = f.Write(make([]byte, 1024))
	require.NoError(t, err)
	_, err = f.Seek(0, io.SeekStart)
	require.NoError(t, err)
	require.NoError(t, f.Close())
}

func TestFaultyFS_Faults(t *testing.T) {
	tmp := t.TempDir()
	ffs := NewFaultyFS(nil)

	ffs.AddRule("noopen", Fault{FailOnOpen: true})
	_, err := ffs.OpenFile(filepath.Join(tmp, "noopen.mat"), os.O_CREATE|os.O_RDWR, 0o644)
	assert.ErrorIs(t, err, ErrInjected)

	ffs.AddRule("noseek", Fault{FailOnSeek: true, FailOnSync: true, FailOnClose: true})
	f, err := ffs.OpenFile(filepath.Join(tmp, "noseek.mat"), os.O_CREATE|os.O_RDWR, 0o644)
	require.NoError(t, err)

	_, err = f.Seek(0, io.SeekStart)
	assert.ErrorIs(t, err, ErrInjected)
	assert.ErrorIs(t, f.Sync(), ErrInjected)
	assert.ErrorIs(t, f.Close(), ErrInjected)
}
