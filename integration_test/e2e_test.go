package fvecmat_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/fvecmat"
	"github.com/hupe1980/fvecmat/blobstore"
	"github.com/hupe1980/fvecmat/extract"
	"github.com/hupe1980/fvecmat/mat5"
	"github.com/hupe1980/fvecmat/model"
	"github.com/hupe1980/fvecmat/testutil"
)

func TestRoundTrip_RandomVectors(t *testing.T) {
	rng := testutil.NewRNG(4711)

	for _, bits := range []int{1, 8, 20, 31} {
		for _, buffered := range []bool{true, false} {
			rng.Reset()
			blocks := [][]model.FeatureVector{
				rng.FeatureVectors(17, bits, 40),
				nil,
				rng.FeatureVectors(1, bits, 0),
				rng.FeatureVectors(64, bits, 300),
			}

			path := filepath.Join(t.TempDir(), "out.mat")
			ctx := context.Background()
			s, err := fvecmat.Open(ctx, path, fvecmat.WithBits(bits), fvecmat.WithBuffered(buffered))
			require.NoError(t, err)

			var want []model.FeatureVector
			for _, b := range blocks {
				require.NoError(t, s.Write(ctx, b))
				want = append(want, b...)
			}
			require.NoError(t, s.Close())

			data, err := os.ReadFile(path)
			require.NoError(t, err)

			got, rows, err := decode(data)
			require.NoError(t, err)
			assert.Equal(t, uint32(1)<<uint(bits), rows)
			require.Len(t, got, len(want))
			for i := range want {
				assert.Equal(t, want[i].Src, got[i].Src, "vector %d", i)
				assert.Equal(t, want[i].Len(), got[i].Len(), "vector %d", i)
				if want[i].Len() > 0 {
					assert.Equal(t, want[i].Dim, got[i].Dim, "vector %d", i)
					assert.Equal(t, want[i].Val, got[i].Val, "vector %d", i)
				}
			}
		}
	}
}

func TestPipeline_ExtractWriteUpload(t *testing.T) {
	inputs := t.TempDir()
	var paths []string
	for i, content := range []string{
		"GET /index.html HTTP/1.1",
		"GET /admin.php?id=1' OR '1'='1 HTTP/1.1",
		"",
	} {
		p := filepath.Join(inputs, testutil.Source(i))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
		paths = append(paths, p)
	}

	cfg := extract.DefaultConfig()
	cfg.Bits = 18
	cfg.Normalize = extract.NormL2
	ex, err := extract.New(cfg)
	require.NoError(t, err)

	ctx := context.Background()
	vecs, err := ex.Files(ctx, paths)
	require.NoError(t, err)

	store := blobstore.NewLocalStore(t.TempDir())
	metrics := &fvecmat.BasicMetricsCollector{}
	spool := filepath.Join(t.TempDir(), "spool.mat")

	s, err := fvecmat.Open(ctx, spool,
		fvecmat.WithBits(cfg.Bits),
		fvecmat.WithStore(store, "runs/http.mat"),
		fvecmat.WithMetricsCollector(metrics),
		fvecmat.WithIndexPolicy(mat5.RejectIndices),
	)
	require.NoError(t, err)
	require.NoError(t, s.Write(ctx, vecs))
	require.NoError(t, s.Close())

	names, err := store.List(ctx, "runs/")
	require.NoError(t, err)
	assert.Equal(t, []string{"runs/http.mat"}, names)

	rc, err := store.Open(ctx, "runs/http.mat")
	require.NoError(t, err)
	defer rc.Close()
	uploaded := make([]byte, 0, 4096)
	buf := make([]byte, 512)
	for {
		n, rerr := rc.Read(buf)
		uploaded = append(uploaded, buf[:n]...)
		if rerr != nil {
			break
		}
	}

	spooled, err := os.ReadFile(spool)
	require.NoError(t, err)
	assert.Equal(t, spooled, uploaded)

	got, rows, err := decode(uploaded)
	require.NoError(t, err)
	assert.Equal(t, uint32(1<<18), rows)
	require.Len(t, got, 3)
	for i := range vecs {
		assert.Equal(t, paths[i], got[i].Src)
		assert.Equal(t, vecs[i].Dim, got[i].Dim)
	}
	assert.Empty(t, got[2].Dim)

	st := metrics.GetStats()
	assert.Equal(t, int64(3), st.VectorsWritten)
	assert.Equal(t, int64(len(spooled)), st.UploadBytes)
}
