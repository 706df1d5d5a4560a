// This file adds a lightweight linter/validator for Config values. It
// performs static checks over a loaded Config and returns a list of issues
// (errors and warnings) that callers can surface in a CLI or tests.
package config

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError indicates a configuration error that should block execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning indicates a configuration warning that should be surfaced
	// to users but may not necessarily block execution.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation finding for a Config.
//
// Path names the flag involved (e.g. "spreadsheet-key"). Message is
// human-readable.
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface so an Issue can be treated as a single
// error in contexts that expect error.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at -%s: %s", i.Severity, i.Path, i.Message)
}

// HasErrors reports whether any issue carries SeverityError.
func HasErrors(issues []Issue) bool {
	for _, i := range issues {
		if i.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Validate performs static validation of a Config. It does not mutate the
// config; callers may decide whether to treat warnings as fatal or not.
func Validate(c *Config) []Issue {
	var issues []Issue

	if strings.TrimSpace(c.SpreadsheetKey) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "spreadsheet-key",
			Message:  "spreadsheet key must not be empty",
		})
	}
	if strings.TrimSpace(c.Worksheet) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "worksheet",
			Message:  "worksheet name must not be empty",
		})
	}
	if strings.TrimSpace(c.Columns) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "columns",
			Message:  "column definition must not be empty",
		})
	}
	if c.SkipRows < 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "skip-rows",
			Message:  "skip-rows must not be negative",
		})
	}
	if utf8.RuneCountInString(c.Delimiter) != 1 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "delimiter",
			Message:  fmt.Sprintf("delimiter must be exactly one character, got %q", c.Delimiter),
		})
	}

	if !c.HasServiceAccount() && !c.HasUserAccount() {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "sa-private-key",
			Message:  "need either complete service account credentials (-sa-*) or complete user credentials (-user-*)",
		})
	}

	issues = append(issues, validateStorage(c)...)

	return issues
}

// validateStorage validates the destination settings.
func validateStorage(c *Config) []Issue {
	var issues []Issue

	switch c.Storage {
	case StorageStdout:
		if c.DSN != "" || c.Table != "" {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Path:     "storage",
				Message:  "-dsn/-table are ignored when storage is 'stdout'",
			})
		}
		return issues
	case StoragePostgres, StorageSQLite, StorageMSSQL:
		// fallthrough to DB checks below
	default:
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "storage",
			Message:  fmt.Sprintf("unknown storage kind %q (use stdout, postgres, sqlite or mssql)", c.Storage),
		})
		return issues
	}

	if strings.TrimSpace(c.DSN) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "dsn",
			Message:  fmt.Sprintf("storage %q requires a DSN", c.Storage),
		})
	}
	if c.BatchSize <= 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "batch-size",
			Message:  "batch-size must be positive",
		})
	}
	if strings.TrimSpace(c.Table) == "" {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "table",
			Message:  "no table given; the target table is derived from the worksheet name",
		})
	}

	return issues
}
