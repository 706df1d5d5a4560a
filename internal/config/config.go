// Package config centralizes application configuration. It follows a
// "clean" configuration pattern where all tunables live outside the
// code and are sourced from command-line flags with environment-variable
// fallbacks (12-factor friendly). Flags are defined first so that
// `-help` shows all available knobs and their defaults.
//
// Typical usage:
//
//	cfg := config.Load() // reads os.Args and os.Environ
//
// For tests, prefer LoadFromArgs to keep them hermetic:
//
//	fs := flag.NewFlagSet("test", flag.ContinueOnError)
//	getenv := func(k string) string { return testEnv[k] }
//	cfg := config.LoadFromArgs(fs, getenv, []string{"-worksheet=Sheet1"})
package config

import (
	"flag"
	"os"
	"strconv"
	"strings"
)

// Storage kinds accepted by the -storage flag.
const (
	StorageStdout   = "stdout"
	StoragePostgres = "postgres"
	StorageSQLite   = "sqlite"
	StorageMSSQL    = "mssql"
)

// Config holds all process configuration derived from flags and
// environment variables. All fields are plain values so the struct
// can be safely copied and used across goroutines after construction.
type Config struct {
	// Sheet selection and download shape.
	SpreadsheetKey string // Spreadsheet key from the sheet URL.
	Worksheet      string // Worksheet (tab) name within the spreadsheet.
	Columns        string // Column definition string, e.g. "s!ffb(true=yes)".
	SkipRows       int    // Leading rows to drop before data starts.
	Delimiter      string // Output field delimiter (single character).
	FailOnNoData   bool   // Exit nonzero when zero rows are written.

	// Service account credentials (JWT flow).
	SAPrivateKeyID string
	SAPrivateKey   string
	SAClientEmail  string
	SAClientID     string

	// User account credentials (refresh-token flow). When both families
	// are set, the user account wins.
	UserClientID     string
	UserClientSecret string
	UserRefreshToken string

	// Destination. Default is stdout; the DB kinds stream batches into a
	// table instead.
	Storage      string // "stdout", "postgres", "sqlite" or "mssql".
	DSN          string // Connection string for the DB kinds.
	Table        string // Target table; derived from the worksheet name when empty.
	ColumnsNames string // Comma-separated destination column names; c1..cN when empty.
	CreateTable  bool   // Create the target table when absent.
	BatchSize    int    // Rows per insert batch.

	Verbose bool // Log per-run detail.
}

// LoadFromArgs builds a Config by defining flags on fs, wiring each flag
// to an environment-variable fallback via getenv, and then parsing args.
// This is the most testable entry point: callers supply a private FlagSet,
// a getenv func (often backed by a map), and a synthetic arg slice.
//
// Precedence:
//  1. Environment values seed each flag's default.
//  2. Explicit CLI flags (in args) override the seeded defaults.
//
// The returned Config is fully populated; no further mutation occurs.
func LoadFromArgs(fs *flag.FlagSet, getenv func(string) string, args []string) *Config {
	cfg := &Config{}

	// Inline helpers use the provided getenv to avoid touching process env.
	envOrDefaultFn := func(k, d string) string {
		if v := getenv(k); v != "" {
			return v
		}
		return d
	}
	intEnvOrDefaultFn := func(k string, d int) int {
		if v := getenv(k); v != "" {
			if i, err := strconv.Atoi(v); err == nil {
				return i
			}
		}
		return d
	}
	boolEnvOrDefaultFn := func(k string, d bool) bool {
		if v := strings.ToLower(getenv(k)); v != "" {
			switch v {
			case "1", "true", "yes", "on":
				return true
			case "0", "false", "no", "off":
				return false
			}
		}
		return d
	}

	// Sheet selection
	fs.StringVar(&cfg.SpreadsheetKey, "spreadsheet-key", getenv("GS_SPREADSHEET_KEY"), "Spreadsheet key from the Google Sheets URL")
	fs.StringVar(&cfg.Worksheet, "worksheet", getenv("GS_WORKSHEET"), "Worksheet (tab) name")
	fs.StringVar(&cfg.Columns, "columns", getenv("GS_COLUMNS"), "Column definition string, e.g. 's!ffb(true=yes)'")
	fs.IntVar(&cfg.SkipRows, "skip-rows", intEnvOrDefaultFn("GS_SKIP_ROWS", 1), "Leading rows to drop before data starts")
	fs.StringVar(&cfg.Delimiter, "delimiter", envOrDefaultFn("GS_DELIMITER", "\t"), "Output field delimiter (single character)")
	fs.BoolVar(&cfg.FailOnNoData, "fail-on-no-data", boolEnvOrDefaultFn("GS_FAIL_ON_NO_DATA", true), "Exit nonzero when zero rows are written")

	// Service account credentials
	fs.StringVar(&cfg.SAPrivateKeyID, "sa-private-key-id", getenv("GS_SA_PRIVATE_KEY_ID"), "Service account private key id")
	fs.StringVar(&cfg.SAPrivateKey, "sa-private-key", getenv("GS_SA_PRIVATE_KEY"), "Service account private key (PEM)")
	fs.StringVar(&cfg.SAClientEmail, "sa-client-email", getenv("GS_SA_CLIENT_EMAIL"), "Service account client email")
	fs.StringVar(&cfg.SAClientID, "sa-client-id", getenv("GS_SA_CLIENT_ID"), "Service account client id")

	// User account credentials
	fs.StringVar(&cfg.UserClientID, "user-client-id", getenv("GS_USER_CLIENT_ID"), "OAuth user client id")
	fs.StringVar(&cfg.UserClientSecret, "user-client-secret", getenv("GS_USER_CLIENT_SECRET"), "OAuth user client secret")
	fs.StringVar(&cfg.UserRefreshToken, "user-refresh-token", getenv("GS_USER_REFRESH_TOKEN"), "OAuth user refresh token")

	// Destination
	fs.StringVar(&cfg.Storage, "storage", envOrDefaultFn("GS_STORAGE", StorageStdout), "Destination: 'stdout', 'postgres', 'sqlite' or 'mssql'")
	fs.StringVar(&cfg.DSN, "dsn", getenv("GS_DSN"), "Connection string for the DB destinations")
	fs.StringVar(&cfg.Table, "table", getenv("GS_TABLE"), "Target table (default: derived from the worksheet name)")
	fs.StringVar(&cfg.ColumnsNames, "columns-names", getenv("GS_COLUMNS_NAMES"), "Comma-separated destination column names (default: c1..cN)")
	fs.BoolVar(&cfg.CreateTable, "create-table", boolEnvOrDefaultFn("GS_CREATE_TABLE", false), "Create the target table when absent")
	fs.IntVar(&cfg.BatchSize, "batch-size", intEnvOrDefaultFn("GS_BATCH_SIZE", 500), "Rows per insert batch")

	fs.BoolVar(&cfg.Verbose, "v", boolEnvOrDefaultFn("GS_VERBOSE", false), "Verbose logging")

	// Parse the provided args (nil means no extra args).
	if args == nil {
		args = []string{}
	}
	_ = fs.Parse(args)
	return cfg
}

// Load is the production entry point. It wires the loader to the process
// flag set (flag.CommandLine), reads environment variables via os.Getenv,
// and parses os.Args[1:] as the CLI arguments.
func Load() *Config {
	return LoadFromArgs(flag.CommandLine, os.Getenv, os.Args[1:])
}

// DelimiterRune returns the configured delimiter as a rune. Validate
// guarantees the string holds exactly one rune.
func (c *Config) DelimiterRune() rune {
	for _, r := range c.Delimiter {
		return r
	}
	return '\t'
}

// TableColumns splits the -columns-names list into trimmed names. Returns
// nil when the flag is unset.
func (c *Config) TableColumns() []string {
	if strings.TrimSpace(c.ColumnsNames) == "" {
		return nil
	}
	parts := strings.Split(c.ColumnsNames, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// HasServiceAccount reports whether the service account credential family is
// fully specified.
func (c *Config) HasServiceAccount() bool {
	return c.SAPrivateKeyID != "" && c.SAPrivateKey != "" && c.SAClientEmail != "" && c.SAClientID != ""
}

// HasUserAccount reports whether the user credential family is fully
// specified.
func (c *Config) HasUserAccount() bool {
	return c.UserClientID != "" && c.UserClientSecret != "" && c.UserRefreshToken != ""
}
