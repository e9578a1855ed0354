package legacydb

import "fmt"

// Edition is the database type byte stored in the file trailer.
type Edition int

// Editions known to the legacy format. Only CityRev0 and CityRev1 are decoded;
// the rest are recognised so they can be rejected by name.
const (
	EditionUnknown        Edition = 0
	EditionCountry        Edition = 1
	EditionCityRev1       Edition = 2
	EditionRegionRev1     Edition = 3
	EditionISP            Edition = 4
	EditionOrg            Edition = 5
	EditionCityRev0       Edition = 6
	EditionRegionRev0     Edition = 7
	EditionProxy          Edition = 8
	EditionASNum          Edition = 9
	EditionNetSpeed       Edition = 10
	EditionDomain         Edition = 11
	EditionCountryV6      Edition = 12
	EditionLocationA      Edition = 13
	EditionAccuracyRadius Edition = 14
	EditionLargeCountry   Edition = 17
	EditionLargeCountryV6 Edition = 18
	EditionASNumV6        Edition = 21
	EditionISPV6          Edition = 22
	EditionOrgV6          Edition = 23
	EditionDomainV6       Edition = 24
	EditionRegistrar      Edition = 26
	EditionUserType       Edition = 28
	EditionCityRev1V6     Edition = 30
	EditionCityRev0V6     Edition = 31
	EditionNetSpeedRev1   Edition = 32
	EditionNetSpeedRev1V6 Edition = 33
)

var editionNames = map[Edition]string{
	EditionCountry:        "Country",
	EditionCityRev1:       "City Rev1",
	EditionRegionRev1:     "Region Rev1",
	EditionISP:            "ISP",
	EditionOrg:            "Organization",
	EditionCityRev0:       "City Rev0",
	EditionRegionRev0:     "Region Rev0",
	EditionProxy:          "Proxy",
	EditionASNum:          "ASNum",
	EditionNetSpeed:       "NetSpeed",
	EditionDomain:         "Domain",
	EditionCountryV6:      "Country V6",
	EditionLocationA:      "LocationA",
	EditionAccuracyRadius: "AccuracyRadius",
	EditionLargeCountry:   "Large Country",
	EditionLargeCountryV6: "Large Country V6",
	EditionASNumV6:        "ASNum V6",
	EditionISPV6:          "ISP V6",
	EditionOrgV6:          "Organization V6",
	EditionDomainV6:       "Domain V6",
	EditionRegistrar:      "Registrar",
	EditionUserType:       "UserType",
	EditionCityRev1V6:     "City Rev1 V6",
	EditionCityRev0V6:     "City Rev0 V6",
	EditionNetSpeedRev1:   "NetSpeed Rev1",
	EditionNetSpeedRev1V6: "NetSpeed Rev1 V6",
}

func (e Edition) String() string {
	if name, ok := editionNames[e]; ok {
		return name
	}
	return fmt.Sprintf("unknown(%d)", int(e))
}

// Known reports whether e is a recognised legacy edition.
func (e Edition) Known() bool {
	_, ok := editionNames[e]
	return ok
}

// Supported reports whether records of this edition can be decoded.
func (e Edition) Supported() bool {
	return e == EditionCityRev0 || e == EditionCityRev1
}

// Some files store the edition byte with a 105 offset.
const (
	editionOffsetThreshold  Edition = 106
	editionOffsetCorrection Edition = 105
)

const (
	standardRecordLength = 3
	segmentRecordLength  = 3
	structureInfoMaxSize = 20
	fullRecordLength     = 50
)

var trailerDelimiter = [3]byte{0xff, 0xff, 0xff}

// Metadata describes an opened database.
// TrailerOffset is the position of the trailer delimiter.
type Metadata struct {
	Edition       Edition
	Segments      uint32
	RecordLength  int
	Size          int64
	TrailerOffset int64
}

// scanHeader locates the trailer near the end of src and reads the edition
// and segment count from it.
func scanHeader(src ByteSource) (Metadata, error) {
	size := src.Size()
	md := Metadata{RecordLength: standardRecordLength, Size: size}

	pos := size - 3
	for i := 0; i < structureInfoMaxSize && pos >= 0; i, pos = i+1, pos-1 {
		delim, err := src.Slice(pos, 3)
		if err != nil {
			return md, &FormatError{Reason: fmt.Sprintf("reading trailer: %v", err)}
		}
		if [3]byte{delim[0], delim[1], delim[2]} != trailerDelimiter {
			continue
		}

		md.TrailerOffset = pos
		if pos+4 > size {
			return md, &FormatError{Reason: "trailer truncated before edition byte"}
		}
		b, err := src.Slice(pos+3, 1)
		if err != nil {
			return md, &FormatError{Reason: fmt.Sprintf("reading edition: %v", err)}
		}
		md.Edition = Edition(b[0])
		if md.Edition >= editionOffsetThreshold {
			md.Edition -= editionOffsetCorrection
		}
		if !md.Edition.Known() {
			return md, &FormatError{Edition: md.Edition, Reason: "unrecognised database edition"}
		}
		if !md.Edition.Supported() {
			return md, &FormatError{Edition: md.Edition, Reason: "only City Rev0 and Rev1 databases are supported"}
		}

		if pos+4+segmentRecordLength > size {
			return md, &FormatError{Edition: md.Edition, Reason: "trailer truncated before segment count"}
		}
		seg, err := src.Slice(pos+4, segmentRecordLength)
		if err != nil {
			return md, &FormatError{Edition: md.Edition, Reason: fmt.Sprintf("reading segment count: %v", err)}
		}
		md.Segments = leUint(seg)
		if md.Segments == 0 {
			return md, &FormatError{Edition: md.Edition, Reason: "segment count is zero"}
		}
		if int64(md.Segments)*int64(2*md.RecordLength) > size {
			return md, &FormatError{Edition: md.Edition, Reason: fmt.Sprintf("segment count %d exceeds file size %d", md.Segments, size)}
		}
		return md, nil
	}
	return md, &FormatError{Reason: "database trailer not found"}
}

// leUint decodes up to four little-endian bytes.
func leUint(b []byte) uint32 {
	var v uint32
	for i, c := range b {
		v |= uint32(c) << (8 * uint(i))
	}
	return v
}
