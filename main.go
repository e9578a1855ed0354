package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"sort"
	"sync"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/kyxap1/geoip-legacy/internal/config"
	"github.com/kyxap1/geoip-legacy/internal/geoip"
	"github.com/kyxap1/geoip-legacy/internal/handlers"
	"github.com/kyxap1/geoip-legacy/internal/legacydb"
	"github.com/kyxap1/geoip-legacy/internal/types"
)

const version = "1.0.0"

var (
	cfg    *config.Config
	logger *logrus.Logger
)

func init() {
	logger = logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	cfg = config.LoadConfig()
	configureLogger(cfg.LogLevel)
}

// configureLogger applies the log level, keeping info when it does not parse
func configureLogger(levelName string) {
	level, err := logrus.ParseLevel(levelName)
	if err != nil {
		logger.Warnf("Invalid log level %q, using info", levelName)
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logger.Fatal(err)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "geoip-legacy",
		Short: "GeoIP server for legacy MaxMind City databases",
		Long:  `A GeoIP server that resolves IPv4 addresses using legacy MaxMind GeoIP City (.dat) databases.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			configureLogger(cfg.LogLevel)
			return cfg.Validate()
		},
		RunE:          runServer,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.IntVarP(&cfg.Port, "port", "p", cfg.Port, "HTTP port to listen on")
	flags.StringVar(&cfg.DBFile, "db-file", cfg.DBFile, "Path to the legacy City database (.dat, optionally gzip or zstd)")
	flags.StringVar(&cfg.AccessMode, "access-mode", cfg.AccessMode, "Database access mode (standard, memory, mmap)")
	flags.StringVar(&cfg.FallbackDBFile, "fallback-db-file", cfg.FallbackDBFile, "Optional GeoLite2-City database used when the legacy database has no record")
	flags.BoolVar(&cfg.ReloadEnabled, "reload-enabled", cfg.ReloadEnabled, "Reload the database when the file changes")
	flags.StringVar(&cfg.ReloadInterval, "reload-interval", cfg.ReloadInterval, "Reload check interval (cron format)")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")

	// Cache flags
	flags.BoolVar(&cfg.CacheEnabled, "cache-enabled", cfg.CacheEnabled, "Enable IP caching")
	flags.DurationVar(&cfg.CacheTTL, "cache-ttl", cfg.CacheTTL, "Cache TTL duration")
	flags.IntVar(&cfg.CacheMaxEntries, "cache-max-entries", cfg.CacheMaxEntries, "Maximum cache entries")

	// Request limit flags
	flags.Float64Var(&cfg.RateLimit, "rate-limit", cfg.RateLimit, "Requests per second across the API (0 disables)")
	flags.IntVar(&cfg.RateBurst, "rate-burst", cfg.RateBurst, "Rate limiter burst size")
	flags.IntVar(&cfg.BatchMax, "batch-max", cfg.BatchMax, "Maximum addresses per /locations request")

	rootCmd.AddCommand(newLookupCmd())
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// newDatabaseManager builds a manager from the current configuration
func newDatabaseManager(cacheEnabled bool) *geoip.DatabaseManager {
	return geoip.NewDatabaseManager(cfg.DBFile, cfg.Mode(), logger, cacheEnabled, cfg.CacheTTL, cfg.CacheMaxEntries).
		WithFallback(cfg.FallbackDBFile)
}

func runServer(cmd *cobra.Command, args []string) error {
	logger.Info("Starting GeoIP server...")

	dbManager := newDatabaseManager(cfg.CacheEnabled)
	if err := dbManager.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize database manager: %w", err)
	}

	if cfg.CacheEnabled {
		logger.Infof("Cache enabled - TTL: %v, Max entries: %d", cfg.CacheTTL, cfg.CacheMaxEntries)
	} else {
		logger.Info("Cache disabled")
	}

	apiHandler := handlers.NewAPIHandler(dbManager, logger).
		WithRateLimit(cfg.RateLimit, cfg.RateBurst).
		WithBatchMax(cfg.BatchMax)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      apiHandler.SetupRoutes(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	var cronScheduler *cron.Cron
	if cfg.ReloadEnabled {
		var err error
		cronScheduler, err = scheduleReload(dbManager, cfg.ReloadInterval)
		if err != nil {
			logger.Errorf("Failed to setup cron scheduler: %v", err)
		} else {
			cronScheduler.Start()
			logger.Infof("Checking for database changes every: %s", cfg.ReloadInterval)
		}
	}

	var wg sync.WaitGroup
	serverErrChan := make(chan error, 1)

	wg.Add(1)
	go func() {
		defer wg.Done()
		logger.Infof("Starting HTTP server on port %d", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		logger.Info("Received shutdown signal, shutting down gracefully...")
	case err := <-serverErrChan:
		logger.Errorf("Server error: %v", err)
		if cronScheduler != nil {
			cronScheduler.Stop()
		}
		dbManager.Close()
		return err
	}

	return gracefulShutdown(server, cronScheduler, dbManager, &wg)
}

// scheduleReload registers a job that reopens the database when its file
// changes. The scheduler is returned unstarted.
func scheduleReload(dbManager *geoip.DatabaseManager, spec string) (*cron.Cron, error) {
	cronScheduler := cron.New()
	_, err := cronScheduler.AddFunc(spec, func() {
		logger.Debug("Checking database for changes...")
		reloaded, err := dbManager.ReloadIfChanged()
		switch {
		case err != nil:
			logger.Errorf("Failed to reload database: %v", err)
		case reloaded:
			logger.Info("Database reload completed successfully")
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid reload interval %q: %w", spec, err)
	}
	return cronScheduler, nil
}

// gracefulShutdown handles graceful shutdown of all services
func gracefulShutdown(server *http.Server, cronScheduler *cron.Cron, dbManager geoip.DatabaseManagerInterface, wg *sync.WaitGroup) error {
	logger.Info("Starting graceful shutdown...")

	if cronScheduler != nil {
		logger.Info("Stopping cron scheduler...")
		<-cronScheduler.Stop().Done()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Errorf("HTTP server shutdown error: %v", err)
		server.Close()
	} else {
		logger.Info("HTTP server shut down gracefully")
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logger.Info("All server goroutines finished")
	case <-ctx.Done():
		logger.Warn("Timeout waiting for server goroutines to finish")
	}

	if err := dbManager.Close(); err != nil {
		logger.Errorf("Database manager close error: %v", err)
	} else {
		logger.Info("Database closed")
	}

	logger.Info("Graceful shutdown completed")
	return nil
}

// lookupResult is one line of `lookup` output
type lookupResult struct {
	IP       string              `json:"ip"`
	Location *types.LocationInfo `json:"location,omitempty"`
	Error    string              `json:"error,omitempty"`
}

func newLookupCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "lookup <ip>...",
		Short: "Look up one or more addresses",
		Long:  `Resolve IPv4 addresses against the configured database and print the records.`,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "json" && format != "text" {
				return fmt.Errorf("unknown format %q (want json or text)", format)
			}

			dbManager := newDatabaseManager(false)
			if err := dbManager.Initialize(); err != nil {
				return err
			}
			defer dbManager.Close()

			return runLookup(cmd.Context(), cmd.OutOrStdout(), dbManager, args, format)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format (json, text)")

	return cmd
}

// runLookup resolves ips concurrently and prints them in input order. It
// fails when any address could not be resolved.
func runLookup(ctx context.Context, w io.Writer, dbManager geoip.DatabaseManagerInterface, ips []string, format string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	results := make([]lookupResult, len(ips))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, ip := range ips {
		i, ip := i, ip // per-iteration copy (go directive lowered to 1.21)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i].IP = ip
			info, err := dbManager.GetLocationInfo(ip)
			if err != nil {
				results[i].Error = err.Error()
				return nil
			}
			results[i].Location = info
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			return err
		}
	} else {
		for _, res := range results {
			printLookupText(w, res)
		}
	}

	failed := 0
	for _, res := range results {
		if res.Error != "" {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d lookups failed", failed, len(results))
	}
	return nil
}

func printLookupText(w io.Writer, res lookupResult) {
	if res.Error != "" {
		fmt.Fprintf(w, "%s: error: %s\n", res.IP, res.Error)
		return
	}

	info := res.Location
	fmt.Fprintf(w, "%s:\n", res.IP)
	fmt.Fprintf(w, "  Country: %s (%s/%s)\n", info.CountryName, info.CountryCode, info.CountryCode3)
	if info.Region != "" {
		fmt.Fprintf(w, "  Region: %s\n", info.Region)
	}
	if info.City != "" {
		fmt.Fprintf(w, "  City: %s\n", info.City)
	}
	if info.PostalCode != "" {
		fmt.Fprintf(w, "  Postal Code: %s\n", info.PostalCode)
	}
	fmt.Fprintf(w, "  Location: %.4f, %.4f\n", info.Latitude, info.Longitude)
	if info.DMACode != 0 {
		fmt.Fprintf(w, "  DMA: %d (%s), Area Code: %d\n", info.DMACode, info.MetroCode, info.AreaCode)
	}
	if info.TimeZone != "" {
		fmt.Fprintf(w, "  Time Zone: %s\n", info.TimeZone)
	}
	fmt.Fprintf(w, "  Network: /%d\n", info.PrefixLen)
	fmt.Fprintf(w, "  Source: %s\n", info.Source)
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check database status and integrity",
		Long:  `Open the configured database and print its header metadata and checksum.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dbManager := newDatabaseManager(false)
			initErr := dbManager.Initialize()
			defer dbManager.Close()

			printStatus(cmd.OutOrStdout(), dbManager.GetDatabaseStatus(), initErr)
			return initErr
		},
	}
}

// printStatus renders the output of GetDatabaseStatus
func printStatus(w io.Writer, status map[string]interface{}, initErr error) {
	fmt.Fprintln(w, "Database Status:")
	fmt.Fprintln(w, "================")
	fmt.Fprintf(w, "\nPath: %v\n", status["path"])
	fmt.Fprintf(w, "Access Mode: %v\n", status["access_mode"])

	if exists, _ := status["exists"].(bool); !exists {
		fmt.Fprintf(w, "Status: Not Available\n")
		if err, ok := status["error"]; ok {
			fmt.Fprintf(w, "Error: %v\n", err)
		}
		return
	}

	if size, ok := status["size"].(int64); ok {
		fmt.Fprintf(w, "Size: %d bytes\n", size)
	}
	if modified, ok := status["modified"].(time.Time); ok {
		fmt.Fprintf(w, "Modified: %s\n", modified.Format("2006-01-02 15:04:05"))
	}

	if loaded, _ := status["loaded"].(bool); !loaded {
		fmt.Fprintf(w, "Integrity: Invalid\n")
		if initErr != nil {
			fmt.Fprintf(w, "Error: %v\n", initErr)
		}
		return
	}

	fmt.Fprintf(w, "Integrity: Valid\n")
	fmt.Fprintf(w, "Edition: %v\n", status["edition"])
	fmt.Fprintf(w, "Segments: %v\n", status["segments"])
	fmt.Fprintf(w, "Record Length: %v\n", status["record_length"])
	fmt.Fprintf(w, "Checksum: %v\n", status["checksum"])

	if fallback, ok := status["fallback"].(map[string]interface{}); ok {
		fmt.Fprintf(w, "\nFallback:\n")
		keys := make([]string, 0, len(fallback))
		for k := range fallback {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(w, "  %s: %v\n", k, fallback[k])
		}
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display version and build information.`,
		Run: func(cmd *cobra.Command, args []string) {
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "GeoIP Legacy Server v%s\n", version)
			fmt.Fprintf(w, "Supported editions: %s, %s\n", legacydb.EditionCityRev1, legacydb.EditionCityRev0)
			fmt.Fprintf(w, "Access mode: %s\n", cfg.Mode())
			fmt.Fprintf(w, "Cache support: %v\n", cfg.CacheEnabled)
		},
	}
}
