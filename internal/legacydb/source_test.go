package legacydb_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kyxap1/geoip-legacy/internal/legacydb"
	"github.com/kyxap1/geoip-legacy/internal/legacydb/legacydbtest"
)

func TestOpen_CompressedMemoryCache(t *testing.T) {
	for name, c := range map[string]legacydbtest.Compression{
		"gzip": legacydbtest.Gzip,
		"zstd": legacydbtest.Zstd,
	} {
		t.Run(name, func(t *testing.T) {
			path := legacydbtest.Standard().WriteFile(t, "city.dat."+name, c)
			r, err := legacydb.Open(path, legacydb.MemoryCache)
			require.NoError(t, err)
			defer r.Close()

			rec, err := r.Lookup("1.2.3.4")
			require.NoError(t, err)
			assert.Equal(t, "Mountain View", rec.City)
			assert.Equal(t, int64(len(legacydbtest.Standard().Bytes())), r.Metadata().Size)
		})
	}
}

func TestFromBytes_Compressed(t *testing.T) {
	raw := legacydbtest.Standard().Bytes()
	for _, c := range []legacydbtest.Compression{legacydbtest.None, legacydbtest.Gzip, legacydbtest.Zstd} {
		data, err := legacydbtest.Compress(raw, c)
		require.NoError(t, err)
		r, err := legacydb.FromBytes(data)
		require.NoError(t, err)

		loc, err := r.LookupLocation("81.2.69.7")
		require.NoError(t, err)
		assert.InDelta(t, 51.5142, loc.Lat, 0.0001)
		r.Close()
	}
}

func TestFromBytes_DoesNotAliasInput(t *testing.T) {
	raw := legacydbtest.Standard().Bytes()
	r, err := legacydb.FromBytes(raw)
	require.NoError(t, err)
	defer r.Close()

	for i := range raw {
		raw[i] = 0
	}
	rec, err := r.Lookup("1.2.3.4")
	require.NoError(t, err)
	assert.Equal(t, "Mountain View", rec.City)
}

func TestUnwrapContainer(t *testing.T) {
	raw := []byte("not compressed at all")
	out, err := legacydb.UnwrapContainer(raw)
	require.NoError(t, err)
	assert.Equal(t, raw, out)

	gz, err := legacydbtest.Compress(legacydbtest.Standard().Bytes(), legacydbtest.Gzip)
	require.NoError(t, err)
	_, err = legacydb.UnwrapContainer(gz[:len(gz)/2])
	assert.Error(t, err, "a truncated gzip stream is not silently treated as raw")
}

func TestOpen_TruncatedGzip(t *testing.T) {
	gz, err := legacydbtest.Compress(legacydbtest.Standard().Bytes(), legacydbtest.Gzip)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "broken.dat.gz")
	require.NoError(t, os.WriteFile(path, gz[:len(gz)/2], 0644))

	_, err = legacydb.Open(path, legacydb.MemoryCache)
	assert.ErrorIs(t, err, legacydb.ErrOpen)
}

func TestOpen_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.dat")
	for _, mode := range allModes {
		_, err := legacydb.Open(path, mode)
		require.ErrorIs(t, err, legacydb.ErrOpen, mode.String())
		assert.ErrorIs(t, err, os.ErrNotExist, mode.String())
	}
}

func TestOpen_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.dat")
	require.NoError(t, os.WriteFile(path, nil, 0644))
	for _, mode := range allModes {
		_, err := legacydb.Open(path, mode)
		assert.ErrorIs(t, err, legacydb.ErrFormat, mode.String())
	}
}

func TestReader_LookupAfterClose(t *testing.T) {
	path := legacydbtest.Standard().WriteFile(t, "city.dat", legacydbtest.None)
	for _, mode := range allModes {
		t.Run(mode.String(), func(t *testing.T) {
			r, err := legacydb.Open(path, mode)
			require.NoError(t, err)
			require.NoError(t, r.Close())
			require.NoError(t, r.Close(), "second close is a no-op")

			_, err = r.Lookup("1.2.3.4")
			assert.ErrorIs(t, err, legacydb.ErrClosed)
			assert.NotErrorIs(t, err, legacydb.ErrCorrupt)

			_, _, err = r.LookupTimeZone("81.2.69.1")
			assert.ErrorIs(t, err, legacydb.ErrClosed)
		})
	}
}

func TestParseAccessMode(t *testing.T) {
	tests := map[string]legacydb.AccessMode{
		"":         legacydb.Standard,
		"standard": legacydb.Standard,
		"direct":   legacydb.Standard,
		"MEMORY":   legacydb.MemoryCache,
		"buffered": legacydb.MemoryCache,
		"mmap":     legacydb.MMapCache,
		" mapped ": legacydb.MMapCache,
	}
	for in, want := range tests {
		got, err := legacydb.ParseAccessMode(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
		if in == "standard" || in == "mmap" {
			assert.Equal(t, in, got.String())
		}
	}

	_, err := legacydb.ParseAccessMode("tape")
	assert.Error(t, err)
}
