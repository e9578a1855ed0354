package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/kyxap1/geoip-legacy/internal/geoip"
	"github.com/kyxap1/geoip-legacy/internal/legacydb"
	"github.com/kyxap1/geoip-legacy/internal/legacydb/legacydbtest"
	"github.com/kyxap1/geoip-legacy/internal/types"
)

// quietLogger swaps the package logger for one that discards output
func quietLogger(t *testing.T) *logrus.Logger {
	t.Helper()
	testLogger := logrus.New()
	testLogger.SetOutput(io.Discard)

	originalLogger := logger
	logger = testLogger
	t.Cleanup(func() {
		logger = originalLogger
	})
	return testLogger
}

// stubManager answers lookups from a fixed table
type stubManager struct {
	records map[string]*types.LocationInfo
}

func (s *stubManager) GetLocationInfo(ip string) (*types.LocationInfo, error) {
	if info, ok := s.records[ip]; ok {
		return info, nil
	}
	if _, err := legacydb.ParseIPv4(ip); err != nil {
		return nil, err
	}
	return nil, legacydb.ErrNotFound
}

func (s *stubManager) GetLocation(ip string) (types.Location, error) {
	info, err := s.GetLocationInfo(ip)
	if err != nil {
		return types.Location{}, err
	}
	return types.Location{Lat: info.Latitude, Lng: info.Longitude}, nil
}

func (s *stubManager) GetTimeZone(ip string) (string, bool, error) {
	info, err := s.GetLocationInfo(ip)
	if err != nil {
		return "", false, err
	}
	return info.TimeZone, info.TimeZone != "", nil
}

func (s *stubManager) GetLocations(ctx context.Context, ips []string) ([]types.BatchLocation, error) {
	return nil, errors.New("not implemented")
}

func (s *stubManager) GetCacheStats() map[string]interface{}     { return map[string]interface{}{} }
func (s *stubManager) GetDatabaseStatus() map[string]interface{} { return map[string]interface{}{} }
func (s *stubManager) Close() error                              { return nil }

func newStubManager() *stubManager {
	return &stubManager{records: map[string]*types.LocationInfo{
		"1.2.3.4": {
			IP:           "1.2.3.4",
			Source:       types.SourceLegacy,
			CountryCode:  "US",
			CountryCode3: "USA",
			CountryName:  "United States",
			Region:       "CA",
			City:         "Mountain View",
			PostalCode:   "94043",
			Latitude:     37.4,
			Longitude:    -122.1,
			DMACode:      807,
			AreaCode:     650,
			MetroCode:    "San Francisco-Oakland-San Jose CA",
			TimeZone:     "America/Los_Angeles",
			PrefixLen:    24,
		},
		"202.1.1.1": {
			IP:           "202.1.1.1",
			Source:       types.SourceLegacy,
			CountryCode:  "AU",
			CountryCode3: "AUS",
			CountryName:  "Australia",
			Latitude:     -27,
			Longitude:    133,
			PrefixLen:    8,
		},
	}}
}

func TestConfigureLogger(t *testing.T) {
	quietLogger(t)

	tests := []struct {
		level    string
		expected logrus.Level
	}{
		{"debug", logrus.DebugLevel},
		{"warn", logrus.WarnLevel},
		{"error", logrus.ErrorLevel},
		{"nonsense", logrus.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			configureLogger(tt.level)
			if logger.GetLevel() != tt.expected {
				t.Errorf("Expected level %v, got %v", tt.expected, logger.GetLevel())
			}
		})
	}
}

func TestGracefulShutdown(t *testing.T) {
	testLogger := quietLogger(t)

	t.Run("Shutdown with cron scheduler", func(t *testing.T) {
		server := &http.Server{Addr: ":0"}
		cronScheduler := cron.New()
		cronScheduler.Start()

		path := legacydbtest.Standard().WriteFile(t, "GeoLiteCity.dat", legacydbtest.None)
		dbManager := geoip.NewDatabaseManager(path, legacydb.Standard, testLogger, true, time.Minute, 10)
		if err := dbManager.Initialize(); err != nil {
			t.Fatalf("Initialize failed: %v", err)
		}

		var wg sync.WaitGroup
		if err := gracefulShutdown(server, cronScheduler, dbManager, &wg); err != nil {
			t.Errorf("gracefulShutdown returned error: %v", err)
		}

		if loaded := dbManager.GetDatabaseStatus()["loaded"].(bool); loaded {
			t.Error("Database should be closed after shutdown")
		}
	})

	t.Run("Shutdown with only HTTP server", func(t *testing.T) {
		server := &http.Server{Addr: ":0"}
		dbManager := geoip.NewDatabaseManager(t.TempDir()+"/missing.dat", legacydb.Standard, testLogger, false, 0, 0)
		var wg sync.WaitGroup

		if err := gracefulShutdown(server, nil, dbManager, &wg); err != nil {
			t.Errorf("gracefulShutdown returned error: %v", err)
		}
	})

	t.Run("Waits for server goroutines", func(t *testing.T) {
		server := &http.Server{Addr: ":0"}
		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			time.Sleep(10 * time.Millisecond)
		}()

		if err := gracefulShutdown(server, nil, newStubManager(), &wg); err != nil {
			t.Errorf("gracefulShutdown returned error: %v", err)
		}
	})
}

func TestScheduleReload(t *testing.T) {
	testLogger := quietLogger(t)

	t.Run("Invalid interval", func(t *testing.T) {
		dbManager := geoip.NewDatabaseManager("unused.dat", legacydb.Standard, testLogger, false, 0, 0)
		_, err := scheduleReload(dbManager, "not a cron spec")
		if err == nil || !strings.Contains(err.Error(), "invalid reload interval") {
			t.Errorf("Expected invalid reload interval error, got %v", err)
		}
	})

	t.Run("Job reloads a changed file", func(t *testing.T) {
		path := legacydbtest.Standard().WriteFile(t, "GeoLiteCity.dat", legacydbtest.None)
		dbManager := geoip.NewDatabaseManager(path, legacydb.MemoryCache, testLogger, true, time.Hour, 100)
		if err := dbManager.Initialize(); err != nil {
			t.Fatalf("Initialize failed: %v", err)
		}
		defer dbManager.Close()

		cronScheduler, err := scheduleReload(dbManager, "*/10 * * * *")
		if err != nil {
			t.Fatalf("scheduleReload failed: %v", err)
		}
		entries := cronScheduler.Entries()
		if len(entries) != 1 {
			t.Fatalf("Expected one scheduled job, got %d", len(entries))
		}

		if _, err := dbManager.GetLocationInfo("8.8.8.8"); !errors.Is(err, legacydb.ErrNotFound) {
			t.Fatalf("Expected 8.8.8.8 to be missing before reload, got %v", err)
		}

		replaced := legacydbtest.Standard().Add("8.8.8.0/24", legacydbtest.MountainView)
		replaceFile(t, path, replaced)

		entries[0].Job.Run()

		info, err := dbManager.GetLocationInfo("8.8.8.8")
		if err != nil {
			t.Fatalf("Expected 8.8.8.8 after reload, got %v", err)
		}
		if info.City != "Mountain View" {
			t.Errorf("Unexpected record after reload: %+v", info)
		}
	})
}

func TestRunLookup_Text(t *testing.T) {
	var out bytes.Buffer
	err := runLookup(context.Background(), &out, newStubManager(), []string{"1.2.3.4", "202.1.1.1"}, "text")
	if err != nil {
		t.Fatalf("runLookup failed: %v", err)
	}

	text := out.String()
	for _, want := range []string{
		"1.2.3.4:\n",
		"  Country: United States (US/USA)\n",
		"  City: Mountain View\n",
		"  DMA: 807 (San Francisco-Oakland-San Jose CA), Area Code: 650\n",
		"  Time Zone: America/Los_Angeles\n",
		"  Location: 37.4000, -122.1000\n",
		"202.1.1.1:\n",
		"  Network: /8\n",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("Output missing %q:\n%s", want, text)
		}
	}

	// Input order is preserved.
	if strings.Index(text, "1.2.3.4:") > strings.Index(text, "202.1.1.1:") {
		t.Error("Results are out of order")
	}
	// Australia has no region, DMA or zone lines.
	au := text[strings.Index(text, "202.1.1.1:"):]
	for _, absent := range []string{"Region:", "DMA:", "Time Zone:"} {
		if strings.Contains(au, absent) {
			t.Errorf("Unexpected %q in %q", absent, au)
		}
	}
}

func TestRunLookup_JSON(t *testing.T) {
	var out bytes.Buffer
	err := runLookup(context.Background(), &out, newStubManager(), []string{"1.2.3.4", "8.8.8.8", "bad"}, "json")
	if err == nil || err.Error() != "2 of 3 lookups failed" {
		t.Fatalf("Expected partial failure, got %v", err)
	}

	var results []lookupResult
	if err := json.Unmarshal(out.Bytes(), &results); err != nil {
		t.Fatalf("Output is not JSON: %v\n%s", err, out.String())
	}
	if len(results) != 3 {
		t.Fatalf("Expected 3 results, got %d", len(results))
	}
	if results[0].Location == nil || results[0].Location.City != "Mountain View" || results[0].Error != "" {
		t.Errorf("Unexpected first result: %+v", results[0])
	}
	if results[1].Location != nil || !strings.Contains(results[1].Error, "not found") {
		t.Errorf("Unexpected second result: %+v", results[1])
	}
	if results[2].IP != "bad" || results[2].Error == "" {
		t.Errorf("Unexpected third result: %+v", results[2])
	}
}

func TestRunLookup_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	err := runLookup(ctx, &out, newStubManager(), []string{"1.2.3.4"}, "text")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if out.Len() != 0 {
		t.Errorf("Expected no output, got %q", out.String())
	}
}

func TestPrintStatus(t *testing.T) {
	modified := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)

	tests := []struct {
		name     string
		status   map[string]interface{}
		initErr  error
		contains []string
		absent   []string
	}{
		{
			name: "Loaded",
			status: map[string]interface{}{
				"path":          "/data/GeoLiteCity.dat",
				"access_mode":   "mmap",
				"exists":        true,
				"loaded":        true,
				"size":          int64(1234),
				"modified":      modified,
				"edition":       "City Rev1",
				"segments":      uint32(42),
				"record_length": 3,
				"checksum":      "abcdef012345",
				"fallback": map[string]interface{}{
					"path":   "/data/GeoLite2-City.mmdb",
					"loaded": false,
				},
			},
			contains: []string{
				"Path: /data/GeoLiteCity.dat",
				"Access Mode: mmap",
				"Size: 1234 bytes",
				"Modified: 2024-03-01 12:30:00",
				"Integrity: Valid",
				"Edition: City Rev1",
				"Segments: 42",
				"Checksum: abcdef012345",
				"Fallback:\n  loaded: false\n  path: /data/GeoLite2-City.mmdb\n",
			},
		},
		{
			name: "Missing",
			status: map[string]interface{}{
				"path":   "/nope.dat",
				"exists": false,
				"error":  "stat /nope.dat: no such file or directory",
			},
			contains: []string{"Status: Not Available", "Error: stat /nope.dat"},
			absent:   []string{"Integrity"},
		},
		{
			name: "Unreadable",
			status: map[string]interface{}{
				"path":   "/bad.dat",
				"exists": true,
				"loaded": false,
				"size":   int64(10),
			},
			initErr:  errors.New("legacydb: no database trailer"),
			contains: []string{"Integrity: Invalid", "Error: legacydb: no database trailer"},
			absent:   []string{"Edition"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			printStatus(&out, tt.status, tt.initErr)
			for _, want := range tt.contains {
				if !strings.Contains(out.String(), want) {
					t.Errorf("Output missing %q:\n%s", want, out.String())
				}
			}
			for _, absent := range tt.absent {
				if strings.Contains(out.String(), absent) {
					t.Errorf("Output should not contain %q:\n%s", absent, out.String())
				}
			}
		})
	}
}

func TestInitFunction(t *testing.T) {
	if cfg == nil {
		t.Fatal("Config should be initialized")
	}
	if logger == nil {
		t.Fatal("Logger should be initialized")
	}
	if _, ok := logger.Formatter.(*logrus.TextFormatter); !ok {
		t.Errorf("Expected text formatter, got %T", logger.Formatter)
	}
}

func TestCommandStructure(t *testing.T) {
	rootCmd := newRootCmd()

	if rootCmd.Use != "geoip-legacy" {
		t.Errorf("Unexpected root command name %q", rootCmd.Use)
	}

	expected := map[string]bool{"lookup": false, "status": false, "version": false}
	for _, cmd := range rootCmd.Commands() {
		if _, ok := expected[cmd.Name()]; ok {
			expected[cmd.Name()] = true
		}
	}
	for name, found := range expected {
		if !found {
			t.Errorf("Missing subcommand %q", name)
		}
	}

	for _, flag := range []string{
		"port", "db-file", "access-mode", "fallback-db-file", "reload-enabled", "reload-interval",
		"log-level", "cache-enabled", "cache-ttl", "cache-max-entries", "rate-limit", "rate-burst", "batch-max",
	} {
		if rootCmd.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("Missing persistent flag --%s", flag)
		}
	}
}
