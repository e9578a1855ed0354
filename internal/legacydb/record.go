package legacydb

import (
	"bytes"
	"errors"
	"strings"

	"github.com/kyxap1/geoip-legacy/internal/timezone"
)

// Record is the geographic data decoded for one address. Optional fields are
// nil when the database has no value for them.
type Record struct {
	CountryCode  string  `json:"country_code"`
	CountryCode3 string  `json:"country_code3"`
	CountryName  string  `json:"country_name"`
	Region       *string `json:"region_name,omitempty"`
	City         string  `json:"city"`
	PostalCode   *string `json:"postal_code,omitempty"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	DMACode      *int    `json:"dma_code,omitempty"`
	AreaCode     *int    `json:"area_code,omitempty"`
	MetroCode    string  `json:"metro_code"`
	TimeZone     string  `json:"time_zone"`
	PrefixLen    int     `json:"prefix_len"`
}

// RegionName returns the region or "" when absent.
func (r *Record) RegionName() string {
	if r.Region == nil {
		return ""
	}
	return *r.Region
}

// Postal returns the postal code or "" when absent.
func (r *Record) Postal() string {
	if r.PostalCode == nil {
		return ""
	}
	return *r.PostalCode
}

// Location returns the record's coordinates.
func (r *Record) Location() Location {
	return Location{Lat: r.Latitude, Lng: r.Longitude}
}

// Location is a latitude/longitude pair as stored in the database. Values are
// not clamped to geographic ranges.
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// recordCursor consumes a record buffer front to back.
type recordCursor struct {
	buf  []byte
	pos  int
	base int64
}

func (c *recordCursor) byte() (byte, error) {
	if c.pos >= len(c.buf) {
		return 0, corrupt(c.base+int64(c.pos), "record overruns %d byte buffer", len(c.buf))
	}
	b := c.buf[c.pos]
	c.pos++
	return b, nil
}

// cstring reads a NUL terminated ISO-8859-1 string and returns it as UTF-8.
func (c *recordCursor) cstring() (string, error) {
	n := bytes.IndexByte(c.buf[c.pos:], 0)
	if n < 0 {
		return "", corrupt(c.base+int64(c.pos), "unterminated string in record")
	}
	s := latin1(c.buf[c.pos : c.pos+n])
	c.pos += n + 1
	return s, nil
}

func (c *recordCursor) uint24() (uint32, error) {
	if len(c.buf)-c.pos < 3 {
		return 0, corrupt(c.base+int64(c.pos), "record overruns %d byte buffer", len(c.buf))
	}
	v := leUint(c.buf[c.pos : c.pos+3])
	c.pos += 3
	return v, nil
}

func latin1(b []byte) string {
	ascii := true
	for _, c := range b {
		if c >= 0x80 {
			ascii = false
			break
		}
	}
	if ascii {
		return string(b)
	}
	var sb strings.Builder
	sb.Grow(len(b) * 2)
	for _, c := range b {
		sb.WriteRune(rune(c))
	}
	return sb.String()
}

func coordinate(v uint32) float64 {
	return float64(v)/10000.0 - 180.0
}

// recordOffset converts a terminal trie pointer into a file offset. The
// (2*recordLength-1)*segments term skips the trie region.
func (r *Reader) recordOffset(pointer uint32) int64 {
	segments := int64(r.md.Segments)
	rl := int64(r.md.RecordLength)
	return int64(pointer) + (2*rl-1)*segments
}

// decode reads the City record for a terminal trie pointer.
func (r *Reader) decode(pointer uint32) (*Record, error) {
	base := r.recordOffset(pointer)
	size := r.src.Size()
	if base >= size {
		return nil, corrupt(base, "record pointer %d outside file of %d bytes", pointer, size)
	}
	n := int64(fullRecordLength)
	if base+n > size {
		n = size - base
	}
	buf, err := r.src.Slice(base, n)
	if err != nil {
		if errors.Is(err, ErrCorrupt) || errors.Is(err, ErrClosed) {
			return nil, err
		}
		return nil, corrupt(base, "reading record: %v", err)
	}

	c := &recordCursor{buf: buf, base: base}
	rec := &Record{}

	idx, err := c.byte()
	if err != nil {
		return nil, err
	}
	if int(idx) >= len(countryCodes) {
		return nil, corrupt(base, "country index %d out of range", idx)
	}
	rec.CountryCode = countryCodes[idx]
	rec.CountryCode3 = countryCodes3[idx]
	rec.CountryName = countryNames[idx]

	region, err := c.cstring()
	if err != nil {
		return nil, err
	}
	if region != "" {
		rec.Region = &region
	}
	if rec.City, err = c.cstring(); err != nil {
		return nil, err
	}
	postal, err := c.cstring()
	if err != nil {
		return nil, err
	}
	if postal != "" {
		rec.PostalCode = &postal
	}

	lat, err := c.uint24()
	if err != nil {
		return nil, err
	}
	lng, err := c.uint24()
	if err != nil {
		return nil, err
	}
	rec.Latitude = coordinate(lat)
	rec.Longitude = coordinate(lng)

	switch r.md.Edition {
	case EditionCityRev1:
		if rec.CountryCode == "US" {
			combo, err := c.uint24()
			if err != nil {
				return nil, err
			}
			dma, area := int(combo/1000), int(combo%1000)
			rec.DMACode, rec.AreaCode = &dma, &area
		}
	case EditionCityRev0:
		var dma, area int
		rec.DMACode, rec.AreaCode = &dma, &area
	}

	if rec.DMACode != nil {
		rec.MetroCode = MetroName(*rec.DMACode)
	}
	if tz, ok := timezone.Lookup(rec.CountryCode, rec.RegionName()); ok {
		rec.TimeZone = tz
	}
	return rec, nil
}
