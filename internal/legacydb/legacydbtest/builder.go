// Package legacydbtest builds small City databases for tests.
package legacydbtest

import (
	"bytes"
	"fmt"
	"math"
	"net"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"github.com/kyxap1/geoip-legacy/internal/legacydb"
)

// Location describes one record.
type Location struct {
	Country   string
	Region    string
	City      string
	Postal    string
	Latitude  float64
	Longitude float64
	DMACode   int
	AreaCode  int
	// Raw replaces the encoded record when set.
	Raw []byte
}

type network struct {
	prefix    uint32
	prefixLen int
	record    int
}

// Builder accumulates networks and writes a database image.
type Builder struct {
	Edition legacydb.Edition
	// Padding is appended after the trailer.
	Padding int

	networks []network
	records  []Location
}

// NewBuilder returns a builder for a City Rev1 database.
func NewBuilder() *Builder {
	return &Builder{Edition: legacydb.EditionCityRev1}
}

// Add maps every address in cidr to loc.
func (b *Builder) Add(cidr string, loc Location) *Builder {
	_, ipnet, err := net.ParseCIDR(cidr)
	if err != nil {
		panic(fmt.Sprintf("legacydbtest: bad cidr %q: %v", cidr, err))
	}
	ones, bits := ipnet.Mask.Size()
	if bits != 32 || ones == 0 {
		panic(fmt.Sprintf("legacydbtest: unsupported network %q", cidr))
	}
	v4 := ipnet.IP.To4()
	prefix := uint32(v4[0])<<24 | uint32(v4[1])<<16 | uint32(v4[2])<<8 | uint32(v4[3])
	b.records = append(b.records, loc)
	b.networks = append(b.networks, network{prefix: prefix, prefixLen: ones, record: len(b.records)})
	return b
}

type node struct {
	child [2]*node
	leaf  [2]int
	index uint32
}

// Bytes encodes the database image.
func (b *Builder) Bytes() []byte {
	root := &node{}
	for _, n := range b.networks {
		cur := root
		for depth := 0; depth < n.prefixLen; depth++ {
			bit := (n.prefix >> uint(31-depth)) & 1
			if depth == n.prefixLen-1 {
				cur.leaf[bit] = n.record
				break
			}
			if cur.child[bit] == nil {
				cur.child[bit] = &node{}
			}
			cur = cur.child[bit]
		}
	}

	var order []*node
	queue := []*node{root}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		n.index = uint32(len(order))
		order = append(order, n)
		for _, c := range n.child {
			if c != nil {
				queue = append(queue, c)
			}
		}
	}
	segments := uint32(len(order))

	// Offset 0 of the record region would collide with the "not found"
	// pointer, so records start after a pad byte.
	var recs bytes.Buffer
	recs.WriteByte(0)
	offsets := make([]uint32, len(b.records)+1)
	for i, loc := range b.records {
		offsets[i+1] = uint32(recs.Len())
		recs.Write(b.encodeRecord(loc))
	}

	var out bytes.Buffer
	for _, n := range order {
		for side := 0; side < 2; side++ {
			ptr := segments
			switch {
			case n.child[side] != nil:
				ptr = n.child[side].index
			case n.leaf[side] > 0:
				ptr = segments + offsets[n.leaf[side]]
			}
			out.Write(uint24(ptr))
		}
	}
	out.Write(recs.Bytes())
	out.Write([]byte{0xff, 0xff, 0xff, byte(b.Edition)})
	out.Write(uint24(segments))
	out.Write(make([]byte, b.Padding))
	return out.Bytes()
}

func (b *Builder) encodeRecord(loc Location) []byte {
	if loc.Raw != nil {
		return loc.Raw
	}
	idx, ok := legacydb.CountryIndex(loc.Country)
	if !ok {
		panic(fmt.Sprintf("legacydbtest: unknown country %q", loc.Country))
	}
	var buf bytes.Buffer
	buf.WriteByte(byte(idx))
	for _, s := range []string{loc.Region, loc.City, loc.Postal} {
		buf.WriteString(s)
		buf.WriteByte(0)
	}
	buf.Write(uint24(EncodeCoordinate(loc.Latitude)))
	buf.Write(uint24(EncodeCoordinate(loc.Longitude)))
	if b.Edition == legacydb.EditionCityRev1 && loc.Country == "US" {
		buf.Write(uint24(uint32(loc.DMACode*1000 + loc.AreaCode)))
	}
	return buf.Bytes()
}

// EncodeCoordinate is the fixed point form used for latitude and longitude.
func EncodeCoordinate(v float64) uint32 {
	return uint32(math.Round((v + 180.0) * 10000.0))
}

func uint24(v uint32) []byte {
	return []byte{byte(v), byte(v >> 8), byte(v >> 16)}
}

// Compression selects the container WriteFile wraps the image in.
type Compression int

const (
	None Compression = iota
	Gzip
	Zstd
)

// Compress wraps data in the given container.
func Compress(data []byte, c Compression) ([]byte, error) {
	var buf bytes.Buffer
	switch c {
	case Gzip:
		zw := gzip.NewWriter(&buf)
		if _, err := zw.Write(data); err != nil {
			return nil, err
		}
		if err := zw.Close(); err != nil {
			return nil, err
		}
	case Zstd:
		zw, err := zstd.NewWriter(&buf)
		if err != nil {
			return nil, err
		}
		if _, err := zw.Write(data); err != nil {
			return nil, err
		}
		if err := zw.Close(); err != nil {
			return nil, err
		}
	default:
		return data, nil
	}
	return buf.Bytes(), nil
}

// WriteFile writes the image into a temp dir owned by t and returns its path.
func (b *Builder) WriteFile(t testing.TB, name string, c Compression) string {
	t.Helper()
	data, err := Compress(b.Bytes(), c)
	if err != nil {
		t.Fatalf("compress database: %v", err)
	}
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("write database: %v", err)
	}
	return path
}

// MountainView is the record used by the standard fixture.
var MountainView = Location{
	Country:   "US",
	Region:    "CA",
	City:      "Mountain View",
	Postal:    "94043",
	Latitude:  37.4,
	Longitude: -122.1,
	DMACode:   807,
	AreaCode:  650,
}

// Standard returns a builder with a few well known networks:
// 1.2.3.0/24 Mountain View, 81.2.69.0/24 London, 202.0.0.0/8 Australia
// (no region), 24.24.0.0/16 US without DMA mapping.
func Standard() *Builder {
	return NewBuilder().
		Add("1.2.3.0/24", MountainView).
		Add("81.2.69.0/24", Location{Country: "GB", City: "London", Latitude: 51.5142, Longitude: -0.0931}).
		Add("202.0.0.0/8", Location{Country: "AU", Latitude: -27.0, Longitude: 133.0}).
		Add("24.24.0.0/16", Location{Country: "US", Region: "NY", City: "Syracuse", Postal: "13201", Latitude: 43.0481, Longitude: -76.1474, DMACode: 999, AreaCode: 315})
}
