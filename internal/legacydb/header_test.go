package legacydb_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kyxap1/geoip-legacy/internal/legacydb"
	"github.com/kyxap1/geoip-legacy/internal/legacydb/legacydbtest"
)

func TestOpen_TrailerPadding(t *testing.T) {
	for _, padding := range []int{0, 1, 5, 13} {
		b := legacydbtest.Standard()
		b.Padding = padding
		r, err := legacydb.FromBytes(b.Bytes())
		require.NoError(t, err, "padding %d", padding)

		rec, err := r.Lookup("1.2.3.4")
		require.NoError(t, err)
		assert.Equal(t, "Mountain View", rec.City)
		r.Close()
	}
}

func TestOpen_TrailerOutOfReach(t *testing.T) {
	b := legacydbtest.Standard()
	b.Padding = 40
	_, err := legacydb.FromBytes(b.Bytes())
	assert.ErrorIs(t, err, legacydb.ErrFormat)
}

func TestOpen_NoTrailer(t *testing.T) {
	for name, data := range map[string][]byte{
		"empty":  {},
		"short":  {0xff, 0xff},
		"zeroes": make([]byte, 128),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := legacydb.FromBytes(data)
			assert.ErrorIs(t, err, legacydb.ErrFormat)
		})
	}
}

func TestOpen_UnsupportedEdition(t *testing.T) {
	for _, ed := range []legacydb.Edition{legacydb.EditionCountry, legacydb.EditionISP, legacydb.EditionCityRev1V6} {
		b := legacydbtest.NewBuilder().Add("5.0.0.0/8", legacydbtest.Location{Raw: []byte{1, 2, 3}})
		b.Edition = ed
		_, err := legacydb.FromBytes(b.Bytes())
		require.ErrorIs(t, err, legacydb.ErrFormat)

		var ferr *legacydb.FormatError
		require.True(t, errors.As(err, &ferr))
		assert.Equal(t, ed, ferr.Edition)
		assert.Contains(t, err.Error(), ed.String())
	}
}

func TestOpen_UnknownEditionByte(t *testing.T) {
	data := []byte{0, 0, 0, 0, 0, 0, 0xff, 0xff, 0xff, 99, 1, 0, 0}
	_, err := legacydb.FromBytes(data)
	assert.ErrorIs(t, err, legacydb.ErrFormat)
}

func TestOpen_EditionOffset(t *testing.T) {
	// Only non-US records so the Rev1 DMA field is never written.
	b := legacydbtest.NewBuilder().
		Add("81.2.69.0/24", legacydbtest.Location{Country: "GB", City: "London", Latitude: 51.5, Longitude: -0.1})
	b.Edition = legacydb.EditionCityRev1 + 105
	r, err := legacydb.FromBytes(b.Bytes())
	require.NoError(t, err)
	defer r.Close()

	assert.Equal(t, legacydb.EditionCityRev1, r.Metadata().Edition)
	rec, err := r.Lookup("81.2.69.1")
	require.NoError(t, err)
	assert.Equal(t, "London", rec.City)
}

func TestOpen_BadSegmentCount(t *testing.T) {
	for name, seg := range map[string][]byte{
		"zero":     {0, 0, 0},
		"too many": {0xff, 0xff, 0x00},
	} {
		t.Run(name, func(t *testing.T) {
			data := append([]byte{0, 0, 0, 0, 0, 0, 0xff, 0xff, 0xff, byte(legacydb.EditionCityRev1)}, seg...)
			_, err := legacydb.FromBytes(data)
			assert.ErrorIs(t, err, legacydb.ErrFormat)
		})
	}
}

func TestEdition_String(t *testing.T) {
	assert.Equal(t, "City Rev1", legacydb.EditionCityRev1.String())
	assert.Equal(t, "City Rev0", legacydb.EditionCityRev0.String())
	assert.Equal(t, "unknown(99)", legacydb.Edition(99).String())
	assert.True(t, legacydb.EditionCountry.Known())
	assert.False(t, legacydb.EditionCountry.Supported())
	assert.True(t, legacydb.EditionCityRev0.Supported())
}
