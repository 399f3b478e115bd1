package cmd

import (
	"bytes"
	"context"
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/fvecmat/featmap"
	"github.com/hupe1980/fvecmat/mat5"
)

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	rc := NewRootCommand(strings.NewReader(stdin), &stdout, &stderr)
	rc.SetArgs(args)
	err := rc.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func inputs(t *testing.T, dir string) []string {
	t.Helper()

	var paths []string
	for name, content := range map[string]string{
		"a.txt":     "the quick brown fox",
		"b.txt":     "jumps over the lazy dog",
		"sub/c.txt": "",
	} {
		p := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
		paths = append(paths, p)
	}
	return paths
}

// rowsOfFirstVector returns the declared row count of the first sparse element.
func rowsOfFirstVector(t *testing.T, data []byte) uint32 {
	t.Helper()

	first := mat5.PreambleSize + 8 + 40
	require.Greater(t, len(data), first+8)
	second := first + 8 + int(binary.LittleEndian.Uint32(data[first+4:]))
	return binary.LittleEndian.Uint32(data[second+32:])
}

func TestExtract_Files(t *testing.T) {
	dir := t.TempDir()
	inputs(t, dir)
	out := filepath.Join(t.TempDir(), "out.mat")
	mapFile := filepath.Join(t.TempDir(), "features.fmap")

	stdout, _, err := execute(t, "", "extract",
		"--output.target", out,
		"--features.hash-bits", "16",
		"--map.file", mapFile,
		"--log.level", "error",
		dir)
	require.NoError(t, err)
	assert.Contains(t, stdout, "wrote 3 vectors")

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, uint32(3), binary.LittleEndian.Uint32(data[mat5.CountFieldOffset:]))
	assert.Equal(t, uint32(len(data)-mat5.PreambleSize-8), binary.LittleEndian.Uint32(data[mat5.BytesFieldOffset:]))
	assert.Equal(t, uint32(1<<16), rowsOfFirstVector(t, data))

	f, err := os.Open(mapFile)
	require.NoError(t, err)
	defer f.Close()
	fm, err := featmap.Load(f)
	require.NoError(t, err)
	assert.Positive(t, fm.Len())

	dump, _, err := execute(t, "", "dump-map", mapFile)
	require.NoError(t, err)
	assert.Contains(t, dump, `"the"`)
	assert.Len(t, strings.Split(strings.TrimSpace(dump), "\n"), fm.Len())
}

func TestExtract_Lines(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.mat")

	stdout, _, err := execute(t, "first\nsecond\nthird\n", "extract",
		"-o", out, "--output.lines", "--output.block-size", "2", "--output.unbuffered")
	require.NoError(t, err)
	assert.Contains(t, stdout, "wrote 3 vectors")

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, uint32(3), binary.LittleEndian.Uint32(data[mat5.CountFieldOffset:]))
}

func TestExtract_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	paths := inputs(t, dir)
	out := filepath.Join(t.TempDir(), "out.mat")

	cfg := filepath.Join(t.TempDir(), "fvecmat.toml")
	require.NoError(t, os.WriteFile(cfg, []byte(`
[features]
hash-bits = 12
ngram-len = 2

[output]
target = "`+filepath.ToSlash(out)+`"
`), 0o644))

	_, _, err := execute(t, "", "extract", "--config", cfg, paths[0])
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, uint32(1<<12), rowsOfFirstVector(t, data))
}

func TestExtract_FlagBeatsEnvBeatsConfig(t *testing.T) {
	dir := t.TempDir()
	paths := inputs(t, dir)
	out := filepath.Join(t.TempDir(), "out.mat")

	cfg := filepath.Join(t.TempDir(), "fvecmat.toml")
	require.NoError(t, os.WriteFile(cfg, []byte("[features]\nhash-bits = 12\n"), 0o644))

	t.Setenv("FVECMAT_FEATURES_HASH_BITS", "14")
	_, _, err := execute(t, "", "extract", "--config", cfg, "-o", out, paths[0])
	require.NoError(t, err)
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, uint32(1<<14), rowsOfFirstVector(t, data))

	_, _, err = execute(t, "", "extract", "--config", cfg, "-o", out, "--features.hash-bits", "10", paths[0])
	require.NoError(t, err)
	data, err = os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, uint32(1<<10), rowsOfFirstVector(t, data))
}

func TestExtract_Errors(t *testing.T) {
	dir := t.TempDir()
	paths := inputs(t, dir)
	out := filepath.Join(t.TempDir(), "out.mat")

	badCfg := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(badCfg, []byte("[features]\nunknown = 1\n"), 0o644))

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"NoTarget", []string{"extract", paths[0]}, "no output target"},
		{"InvalidBits", []string{"extract", "-o", out, "--features.hash-bits", "32", paths[0]}, "bits"},
		{"MissingInput", []string{"extract", "-o", out, filepath.Join(dir, "missing")}, "no such file"},
		{"NoInput", []string{"extract", "-o", out}, "no input files"},
		{"BadGranularity", []string{"extract", "-o", out, "--features.granularity", "words", paths[0]}, "granularity"},
		{"BadPolicy", []string{"extract", "-o", out, "--output.index-policy", "wrap", paths[0]}, "wrap"},
		{"BadLogFormat", []string{"extract", "-o", out, "--log.format", "xml", paths[0]}, "log.format"},
		{"BadTarget", []string{"extract", "-o", "ftp://host/x.mat", paths[0]}, "unsupported scheme"},
		{"UnknownConfigKey", []string{"extract", "--config", badCfg, "-o", out, paths[0]}, "invalid option"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, "", tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)

			_, statErr := os.Stat(out)
			assert.True(t, os.IsNotExist(statErr))
		})
	}
}

func TestExtract_MetricsTextfile(t *testing.T) {
	dir := t.TempDir()
	paths := inputs(t, dir)
	out := filepath.Join(t.TempDir(), "out.mat")
	metrics := filepath.Join(t.TempDir(), "fvecmat.prom")

	_, _, err := execute(t, "", "extract", "-o", out, "--metrics-textfile", metrics, paths...)
	require.NoError(t, err)

	data, err := os.ReadFile(metrics)
	require.NoError(t, err)
	assert.Contains(t, string(data), "fvecmat_vectors_written_total 3")
}

func TestVersion(t *testing.T) {
	stdout, _, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "fvecmat dev "))
}
