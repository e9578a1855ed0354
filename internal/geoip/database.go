package geoip

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"runtime"
	"sync"
	"time"

	geoip2 "github.com/oschwald/geoip2-golang"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/kyxap1/geoip-legacy/internal/cache"
	"github.com/kyxap1/geoip-legacy/internal/legacydb"
	"github.com/kyxap1/geoip-legacy/internal/types"
)

// openDatabase opens reload candidates. Tests swap it to observe or fail opens.
var openDatabase = legacydb.Open

// ErrNotInitialized is returned by lookups before Initialize succeeded or
// after a failed reload left no database open.
var ErrNotInitialized = errors.New("geoip: database not loaded")

// DatabaseManager owns the open legacy database, the optional GeoLite2
// fallback and the result cache. Lookups hold a read lock; reloads take the
// write lock so no lookup ever runs against a closed reader.
type DatabaseManager struct {
	dbFile       string
	mode         legacydb.AccessMode
	fallbackFile string

	registry *legacydb.Registry
	reader   *legacydb.Reader
	fallback *geoip2.Reader
	checksum string
	loadedAt time.Time

	logger      *logrus.Logger
	cache       *cache.IPCache
	concurrency int
	mu          sync.RWMutex
}

// NewDatabaseManager creates a database manager with optional caching
func NewDatabaseManager(dbFile string, mode legacydb.AccessMode, logger *logrus.Logger, cacheEnabled bool, cacheTTL time.Duration, cacheMaxEntries int) *DatabaseManager {
	dm := &DatabaseManager{
		dbFile:      dbFile,
		mode:        mode,
		registry:    legacydb.NewRegistry(),
		logger:      logger,
		concurrency: runtime.GOMAXPROCS(0),
	}

	if cacheEnabled {
		dm.cache = cache.NewIPCache(cacheTTL, cacheMaxEntries, logger)
		logger.Infof("IP cache initialized with TTL: %v, Max entries: %d", cacheTTL, cacheMaxEntries)
	}

	return dm
}

// WithFallback sets a GeoLite2-City .mmdb file consulted when an address is
// missing from the legacy database. It must be called before Initialize.
func (dm *DatabaseManager) WithFallback(path string) *DatabaseManager {
	dm.fallbackFile = path
	return dm
}

// Initialize opens the configured databases
func (dm *DatabaseManager) Initialize() error {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	if err := dm.loadLocked(); err != nil {
		return err
	}

	if dm.fallbackFile != "" {
		fb, err := geoip2.Open(dm.fallbackFile)
		if err != nil {
			dm.logger.Warnf("Fallback database %s not available: %v", dm.fallbackFile, err)
		} else {
			dm.fallback = fb
			dm.logger.Infof("Fallback database loaded: %s (%s)", dm.fallbackFile, fb.Metadata().DatabaseType)
		}
	}
	return nil
}

// loadLocked opens dbFile through the registry. dm.mu must be held for writing.
func (dm *DatabaseManager) loadLocked() error {
	checksum, err := calculateFileChecksum(dm.dbFile)
	if err != nil {
		return fmt.Errorf("failed to read database: %w", err)
	}

	reader, err := dm.registry.Open(dm.dbFile, dm.mode)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	if reader.Mode() != dm.mode {
		dm.logger.WithFields(logrus.Fields{
			"path":      dm.dbFile,
			"requested": dm.mode.String(),
			"actual":    reader.Mode().String(),
		}).Warn("Database already open with a different access mode")
	}

	dm.installLocked(reader, checksum)
	return nil
}

// installLocked makes reader the serving database. dm.mu must be held for writing.
func (dm *DatabaseManager) installLocked(reader *legacydb.Reader, checksum string) {
	dm.reader = reader
	dm.checksum = checksum
	dm.loadedAt = time.Now()

	md := reader.Metadata()
	dm.logger.WithFields(logrus.Fields{
		"path":     dm.dbFile,
		"edition":  md.Edition.String(),
		"segments": md.Segments,
		"mode":     reader.Mode().String(),
		"checksum": shortChecksum(checksum),
	}).Info("Database loaded")
}

// ReloadIfChanged reopens the database when its checksum differs from the
// loaded one. The file is opened once; that reader replaces the current one
// only after it opened cleanly, so a bad candidate leaves the old database
// serving.
func (dm *DatabaseManager) ReloadIfChanged() (bool, error) {
	checksum, err := calculateFileChecksum(dm.dbFile)
	if err != nil {
		return false, fmt.Errorf("failed to checksum database: %w", err)
	}

	dm.mu.RLock()
	unchanged := dm.reader != nil && checksum == dm.checksum
	dm.mu.RUnlock()
	if unchanged {
		dm.logger.Debug("Database unchanged, skipping reload")
		return false, nil
	}

	next, err := openDatabase(dm.dbFile, dm.mode)
	if err != nil {
		return false, fmt.Errorf("new database rejected: %w", err)
	}

	dm.mu.Lock()
	defer dm.mu.Unlock()

	// Another reload may have won the race for the write lock.
	if dm.reader != nil && checksum == dm.checksum {
		next.Close()
		return false, nil
	}

	old := dm.registry.Replace(dm.dbFile, next)
	dm.installLocked(next, checksum)
	if dm.cache != nil {
		dm.cache.Clear()
	}

	// Lookups hold the read lock, so nothing is using old any more.
	if old != nil {
		if err := old.Close(); err != nil {
			dm.logger.Warnf("Failed to close previous database: %v", err)
		}
	}
	return true, nil
}

// calculateFileChecksum calculates SHA256 checksum of a file
func calculateFileChecksum(filePath string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", err
	}
	defer file.Close()

	hash := sha256.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", err
	}

	return hex.EncodeToString(hash.Sum(nil)), nil
}

func shortChecksum(sum string) string {
	if len(sum) > 8 {
		return sum[:8] + "..."
	}
	return sum
}

// GetLocationInfo returns the full record for ip. Addresses missing from the
// legacy database are looked up in the fallback when one is loaded.
func (dm *DatabaseManager) GetLocationInfo(ip string) (*types.LocationInfo, error) {
	if dm.cache != nil {
		if cached, found := dm.cache.Get(ip); found {
			return cached, nil
		}
	}

	dm.mu.RLock()
	defer dm.mu.RUnlock()

	if dm.reader == nil {
		return nil, ErrNotInitialized
	}

	rec, err := dm.reader.Lookup(ip)
	var info *types.LocationInfo
	switch {
	case err == nil:
		info = infoFromRecord(ip, rec)
	case errors.Is(err, legacydb.ErrNotFound) && dm.fallback != nil:
		var ok bool
		if info, ok = dm.lookupFallback(ip); !ok {
			return nil, err
		}
	default:
		if errors.Is(err, legacydb.ErrCorrupt) {
			dm.logger.WithFields(logrus.Fields{"ip": ip, "error": err}).Error("Corrupt database record")
		}
		return nil, err
	}

	if dm.cache != nil {
		dm.cache.Set(ip, info)
	}
	return info, nil
}

func infoFromRecord(ip string, rec *legacydb.Record) *types.LocationInfo {
	info := &types.LocationInfo{
		IP:           ip,
		Source:       types.SourceLegacy,
		CountryCode:  rec.CountryCode,
		CountryCode3: rec.CountryCode3,
		CountryName:  rec.CountryName,
		Region:       rec.RegionName(),
		City:         rec.City,
		PostalCode:   rec.Postal(),
		Latitude:     rec.Latitude,
		Longitude:    rec.Longitude,
		MetroCode:    rec.MetroCode,
		TimeZone:     rec.TimeZone,
		PrefixLen:    rec.PrefixLen,
	}
	if rec.DMACode != nil {
		info.DMACode = *rec.DMACode
	}
	if rec.AreaCode != nil {
		info.AreaCode = *rec.AreaCode
	}
	return info
}

// lookupFallback queries the GeoLite2 database. ok is false when the
// address has no country there either.
func (dm *DatabaseManager) lookupFallback(ip string) (*types.LocationInfo, bool) {
	addr := net.ParseIP(ip)
	if addr == nil {
		return nil, false
	}
	city, err := dm.fallback.City(addr)
	if err != nil {
		dm.logger.Warnf("Fallback lookup failed for %s: %v", ip, err)
		return nil, false
	}
	if city.Country.IsoCode == "" {
		return nil, false
	}

	info := &types.LocationInfo{
		IP:          ip,
		Source:      types.SourceGeoLite2,
		CountryCode: city.Country.IsoCode,
		CountryName: city.Country.Names["en"],
		City:        city.City.Names["en"],
		PostalCode:  city.Postal.Code,
		Latitude:    city.Location.Latitude,
		Longitude:   city.Location.Longitude,
		DMACode:     int(city.Location.MetroCode),
		TimeZone:    city.Location.TimeZone,
	}
	if code3, name, ok := legacydb.CountryByCode(info.CountryCode); ok {
		info.CountryCode3 = code3
		if info.CountryName == "" {
			info.CountryName = name
		}
	}
	if len(city.Subdivisions) > 0 {
		info.Region = city.Subdivisions[0].IsoCode
	}
	info.MetroCode = legacydb.MetroName(info.DMACode)
	return info, true
}

// GetLocation returns only the coordinates for ip
func (dm *DatabaseManager) GetLocation(ip string) (types.Location, error) {
	info, err := dm.GetLocationInfo(ip)
	if err != nil {
		return types.Location{}, err
	}
	return types.Location{Lat: info.Latitude, Lng: info.Longitude}, nil
}

// GetTimeZone returns the time zone for ip. ok is false when the address is
// known but no zone can be derived for it.
func (dm *DatabaseManager) GetTimeZone(ip string) (name string, ok bool, err error) {
	info, err := dm.GetLocationInfo(ip)
	if err != nil {
		return "", false, err
	}
	return info.TimeZone, info.TimeZone != "", nil
}

// GetLocations resolves coordinates for many addresses concurrently. Results
// keep the input order. An address that fails gets a zero location and the
// error text; the returned error is only set when ctx is done.
func (dm *DatabaseManager) GetLocations(ctx context.Context, ips []string) ([]types.BatchLocation, error) {
	results := make([]types.BatchLocation, len(ips))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(dm.concurrency)
	for i, ip := range ips {
		i, ip := i, ip // per-iteration copy (go directive lowered to 1.21)
		results[i].IP = ip
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i].Error = err.Error()
				return err
			}
			loc, err := dm.GetLocation(ip)
			if err != nil {
				results[i].Error = err.Error()
				return nil
			}
			results[i].Location = loc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

// GetCacheStats returns cache statistics
func (dm *DatabaseManager) GetCacheStats() map[string]interface{} {
	if dm.cache == nil {
		return map[string]interface{}{
			"enabled": false,
		}
	}

	stats := dm.cache.GetStats()
	stats["enabled"] = true
	return stats
}

// GetDatabaseStatus returns file and header information about the loaded
// database and the fallback
func (dm *DatabaseManager) GetDatabaseStatus() map[string]interface{} {
	dm.mu.RLock()
	defer dm.mu.RUnlock()

	status := map[string]interface{}{
		"path":        dm.dbFile,
		"access_mode": dm.mode.String(),
		"loaded":      dm.reader != nil,
	}

	if info, err := os.Stat(dm.dbFile); err == nil {
		status["exists"] = true
		status["size"] = info.Size()
		status["modified"] = info.ModTime()
	} else {
		status["exists"] = false
		status["error"] = err.Error()
	}

	if dm.reader != nil {
		md := dm.reader.Metadata()
		status["access_mode"] = dm.reader.Mode().String()
		status["edition"] = md.Edition.String()
		status["segments"] = md.Segments
		status["record_length"] = md.RecordLength
		status["checksum"] = shortChecksum(dm.checksum)
		status["loaded_at"] = dm.loadedAt
	}

	if dm.fallbackFile != "" {
		fallback := map[string]interface{}{
			"path":   dm.fallbackFile,
			"loaded": dm.fallback != nil,
		}
		if dm.fallback != nil {
			md := dm.fallback.Metadata()
			fallback["database_type"] = md.DatabaseType
			fallback["build_epoch"] = md.BuildEpoch
		}
		status["fallback"] = fallback
	}

	return status
}

// Close releases the databases and stops the cache sweep
func (dm *DatabaseManager) Close() error {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	var errs []error
	if err := dm.registry.Close(); err != nil {
		errs = append(errs, err)
	}
	dm.reader = nil

	if dm.fallback != nil {
		if err := dm.fallback.Close(); err != nil {
			errs = append(errs, err)
		}
		dm.fallback = nil
	}

	if dm.cache != nil {
		dm.cache.Close()
	}

	if len(errs) > 0 {
		return fmt.Errorf("failed to close databases: %v", errs)
	}
	return nil
}
