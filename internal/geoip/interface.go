package geoip

import (
	"context"

	"github.com/kyxap1/geoip-legacy/internal/types"
)

// DatabaseManagerInterface is what the HTTP handlers need from a database manager
type DatabaseManagerInterface interface {
	GetLocationInfo(ip string) (*types.LocationInfo, error)
	GetLocation(ip string) (types.Location, error)
	GetTimeZone(ip string) (name string, ok bool, err error)
	GetLocations(ctx context.Context, ips []string) ([]types.BatchLocation, error)
	GetCacheStats() map[string]interface{}
	GetDatabaseStatus() map[string]interface{}
	Close() error
}

var _ DatabaseManagerInterface = (*DatabaseManager)(nil)
