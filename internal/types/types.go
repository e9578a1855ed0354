package types

import "strconv"

// Sources a LocationInfo can come from.
const (
	SourceLegacy   = "legacy"
	SourceGeoLite2 = "geolite2"
)

// LocationInfo is the full lookup result served by the API
type LocationInfo struct {
	IP           string  `json:"ip" xml:"ip" csv:"ip"`
	Source       string  `json:"source" xml:"source" csv:"source"`
	CountryCode  string  `json:"country_code" xml:"country_code" csv:"country_code"`
	CountryCode3 string  `json:"country_code3" xml:"country_code3" csv:"country_code3"`
	CountryName  string  `json:"country_name" xml:"country_name" csv:"country_name"`
	Region       string  `json:"region" xml:"region" csv:"region"`
	City         string  `json:"city" xml:"city" csv:"city"`
	PostalCode   string  `json:"postal_code" xml:"postal_code" csv:"postal_code"`
	Latitude     float64 `json:"latitude" xml:"latitude" csv:"latitude"`
	Longitude    float64 `json:"longitude" xml:"longitude" csv:"longitude"`
	DMACode      int     `json:"dma_code" xml:"dma_code" csv:"dma_code"`
	AreaCode     int     `json:"area_code" xml:"area_code" csv:"area_code"`
	MetroCode    string  `json:"metro_code" xml:"metro_code" csv:"metro_code"`
	TimeZone     string  `json:"time_zone" xml:"time_zone" csv:"time_zone"`
	PrefixLen    int     `json:"prefix_len" xml:"prefix_len" csv:"prefix_len"`
}

// Location is a bare coordinate pair
type Location struct {
	Lat float64 `json:"lat" xml:"lat"`
	Lng float64 `json:"lng" xml:"lng"`
}

// BatchLocation is one entry of a batch coordinate lookup. Failed lookups
// carry a zero location and the error text.
type BatchLocation struct {
	IP string `json:"ip"`
	Location
	Error string `json:"error,omitempty"`
}

// CSVHeader returns the column names used for CSV output
func CSVHeader() []string {
	return []string{
		"ip", "source", "country_code", "country_code3", "country_name", "region", "city",
		"postal_code", "latitude", "longitude", "dma_code", "area_code", "metro_code",
		"time_zone", "prefix_len",
	}
}

// CSVRecord returns the fields in CSVHeader order
func (l *LocationInfo) CSVRecord() []string {
	return []string{
		l.IP,
		l.Source,
		l.CountryCode,
		l.CountryCode3,
		l.CountryName,
		l.Region,
		l.City,
		l.PostalCode,
		strconv.FormatFloat(l.Latitude, 'f', -1, 64),
		strconv.FormatFloat(l.Longitude, 'f', -1, 64),
		strconv.Itoa(l.DMACode),
		strconv.Itoa(l.AreaCode),
		l.MetroCode,
		l.TimeZone,
		strconv.Itoa(l.PrefixLen),
	}
}
