package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kyxap1/geoip-legacy/internal/config"
	"github.com/kyxap1/geoip-legacy/internal/legacydb/legacydbtest"
)

// runCLICommand executes the root command in-process with a fresh
// configuration and returns everything it printed.
func runCLICommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	quietLogger(t)

	originalCfg := cfg
	cfg = config.LoadConfig()
	cfg.LogLevel = "error"
	t.Cleanup(func() {
		cfg = originalCfg
	})

	rootCmd := newRootCmd()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return out.String(), err
}

func writeStandardDB(t *testing.T) string {
	t.Helper()
	return legacydbtest.Standard().WriteFile(t, "GeoLiteCity.dat", legacydbtest.None)
}

func TestCLI_LookupText(t *testing.T) {
	dbFile := writeStandardDB(t)

	for _, mode := range []string{"standard", "memory", "mmap"} {
		t.Run(mode, func(t *testing.T) {
			stdout, err := runCLICommand(t, "lookup", "--db-file", dbFile, "--access-mode", mode, "1.2.3.4", "81.2.69.160")
			if err != nil {
				t.Fatalf("lookup failed: %v\n%s", err, stdout)
			}
			for _, want := range []string{"City: Mountain View", "Time Zone: America/Los_Angeles", "City: London", "Time Zone: Europe/London"} {
				if !strings.Contains(stdout, want) {
					t.Errorf("Output missing %q:\n%s", want, stdout)
				}
			}
		})
	}
}

func TestCLI_LookupJSON(t *testing.T) {
	dbFile := writeStandardDB(t)

	stdout, err := runCLICommand(t, "lookup", "--db-file", dbFile, "--format", "json", "24.24.1.1")
	if err != nil {
		t.Fatalf("lookup failed: %v\n%s", err, stdout)
	}

	var results []lookupResult
	if err := json.Unmarshal([]byte(stdout), &results); err != nil {
		t.Fatalf("Output is not JSON: %v\n%s", err, stdout)
	}
	if len(results) != 1 || results[0].Location == nil {
		t.Fatalf("Unexpected results: %+v", results)
	}
	loc := results[0].Location
	if loc.City != "Syracuse" || loc.Region != "NY" || loc.DMACode != 999 || loc.AreaCode != 315 {
		t.Errorf("Unexpected record: %+v", loc)
	}
	if loc.PrefixLen != 16 {
		t.Errorf("Expected prefix length 16, got %d", loc.PrefixLen)
	}
}

func TestCLI_LookupCompressed(t *testing.T) {
	dbFile := legacydbtest.Standard().WriteFile(t, "GeoLiteCity.dat.gz", legacydbtest.Gzip)

	stdout, err := runCLICommand(t, "lookup", "--db-file", dbFile, "--access-mode", "memory", "1.2.3.4")
	if err != nil {
		t.Fatalf("lookup failed: %v\n%s", err, stdout)
	}
	if !strings.Contains(stdout, "City: Mountain View") {
		t.Errorf("Unexpected output:\n%s", stdout)
	}
}

func TestCLI_LookupFailures(t *testing.T) {
	dbFile := writeStandardDB(t)

	tests := []struct {
		name        string
		args        []string
		errContains string
		outContains string
	}{
		{
			name:        "Not found",
			args:        []string{"lookup", "--db-file", dbFile, "8.8.8.8"},
			errContains: "1 of 1 lookups failed",
			outContains: "8.8.8.8: error: legacydb: address not found",
		},
		{
			name:        "Invalid address",
			args:        []string{"lookup", "--db-file", dbFile, "1.2.3.4", "300.1.1.1"},
			errContains: "1 of 2 lookups failed",
			outContains: "300.1.1.1: error: legacydb: invalid IPv4 address",
		},
		{
			name:        "Unknown format",
			args:        []string{"lookup", "--db-file", dbFile, "--format", "yaml", "1.2.3.4"},
			errContains: "unknown format",
		},
		{
			name:        "No addresses",
			args:        []string{"lookup", "--db-file", dbFile},
			errContains: "requires at least 1 arg",
		},
		{
			name:        "Missing database",
			args:        []string{"lookup", "--db-file", filepath.Join(t.TempDir(), "missing.dat"), "1.2.3.4"},
			errContains: "failed to read database",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, err := runCLICommand(t, tt.args...)
			if err == nil || !strings.Contains(err.Error(), tt.errContains) {
				t.Errorf("Expected error containing %q, got %v", tt.errContains, err)
			}
			if tt.outContains != "" && !strings.Contains(stdout, tt.outContains) {
				t.Errorf("Output missing %q:\n%s", tt.outContains, stdout)
			}
		})
	}
}

func TestCLI_Status(t *testing.T) {
	dbFile := writeStandardDB(t)

	stdout, err := runCLICommand(t, "status", "--db-file", dbFile, "--access-mode", "mmap")
	if err != nil {
		t.Fatalf("status failed: %v\n%s", err, stdout)
	}
	for _, want := range []string{"Integrity: Valid", "Edition: City Rev1", "Access Mode: mmap", "Record Length: 3", "Checksum: "} {
		if !strings.Contains(stdout, want) {
			t.Errorf("Output missing %q:\n%s", want, stdout)
		}
	}
}

func TestCLI_StatusErrors(t *testing.T) {
	t.Run("Missing file", func(t *testing.T) {
		stdout, err := runCLICommand(t, "status", "--db-file", filepath.Join(t.TempDir(), "missing.dat"))
		if err == nil {
			t.Error("Expected error for missing database")
		}
		if !strings.Contains(stdout, "Status: Not Available") {
			t.Errorf("Unexpected output:\n%s", stdout)
		}
	})

	t.Run("Not a database", func(t *testing.T) {
		dbFile := filepath.Join(t.TempDir(), "garbage.dat")
		if err := os.WriteFile(dbFile, bytes.Repeat([]byte{0x42}, 512), 0644); err != nil {
			t.Fatal(err)
		}

		stdout, err := runCLICommand(t, "status", "--db-file", dbFile)
		if err == nil {
			t.Error("Expected error for an unreadable database")
		}
		if !strings.Contains(stdout, "Integrity: Invalid") || !strings.Contains(stdout, "Size: 512 bytes") {
			t.Errorf("Unexpected output:\n%s", stdout)
		}
	})
}

func TestCLI_Version(t *testing.T) {
	stdout, err := runCLICommand(t, "version", "--access-mode", "mmap")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	for _, want := range []string{"GeoIP Legacy Server v" + version, "Supported editions: City Rev1, City Rev0", "Access mode: mmap"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("Output missing %q:\n%s", want, stdout)
		}
	}
}

func TestCLI_HelpCommands(t *testing.T) {
	tests := []struct {
		args     []string
		contains string
	}{
		{[]string{"--help"}, "legacy MaxMind GeoIP City"},
		{[]string{"lookup", "--help"}, "--format"},
		{[]string{"status", "--help"}, "header metadata"},
		{[]string{"version", "--help"}, "version and build information"},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			stdout, err := runCLICommand(t, tt.args...)
			if err != nil {
				t.Fatalf("help failed: %v", err)
			}
			if !strings.Contains(stdout, tt.contains) {
				t.Errorf("Help output missing %q:\n%s", tt.contains, stdout)
			}
		})
	}
}

func TestCLI_FlagValidation(t *testing.T) {
	dbFile := writeStandardDB(t)

	tests := []struct {
		name        string
		args        []string
		errContains string
	}{
		{"Bad access mode", []string{"version", "--access-mode", "floppy"}, "unknown access mode"},
		{"Bad port", []string{"version", "--port", "70000"}, "invalid port"},
		{"Bad log level", []string{"version", "--log-level", "loud"}, "invalid log level"},
		{"Negative rate limit", []string{"version", "--rate-limit", "-1"}, "rate limit"},
		{"Zero batch max", []string{"lookup", "--db-file", dbFile, "--batch-max", "0", "1.2.3.4"}, "batch max"},
		{"Unknown flag", []string{"version", "--no-such-flag"}, "unknown flag"},
		{"Bad duration", []string{"version", "--cache-ttl", "soon"}, "invalid argument"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLICommand(t, tt.args...)
			if err == nil || !strings.Contains(err.Error(), tt.errContains) {
				t.Errorf("Expected error containing %q, got %v", tt.errContains, err)
			}
		})
	}
}
