package config

import (
	"strings"
	"testing"
)

// hasIssue reports whether issues contains an Issue with the given severity,
// path, and a Message containing msgSubstr.
func hasIssue(t *testing.T, issues []Issue, sev IssueSeverity, path, msgSubstr string) bool {
	t.Helper()
	for _, iss := range issues {
		if iss.Severity == sev && iss.Path == path && strings.Contains(iss.Message, msgSubstr) {
			return true
		}
	}
	return false
}

// validConfig returns a config that passes Validate with no errors.
func validConfig() *Config {
	return &Config{
		SpreadsheetKey:   "1AbC",
		Worksheet:        "Sheet1",
		Columns:          "s!ff",
		SkipRows:         1,
		Delimiter:        "\t",
		Storage:          StorageStdout,
		UserClientID:     "id",
		UserClientSecret: "secret",
		UserRefreshToken: "token",
	}
}

func TestValidateOK(t *testing.T) {
	t.Parallel()

	issues := Validate(validConfig())
	if HasErrors(issues) {
		t.Fatalf("unexpected errors: %v", issues)
	}
}

func TestValidateRequiredFields(t *testing.T) {
	t.Parallel()

	c := validConfig()
	c.SpreadsheetKey = ""
	c.Worksheet = " "
	c.Columns = ""
	issues := Validate(c)
	if !hasIssue(t, issues, SeverityError, "spreadsheet-key", "must not be empty") {
		t.Fatalf("missing spreadsheet-key error: %v", issues)
	}
	if !hasIssue(t, issues, SeverityError, "worksheet", "must not be empty") {
		t.Fatalf("missing worksheet error: %v", issues)
	}
	if !hasIssue(t, issues, SeverityError, "columns", "must not be empty") {
		t.Fatalf("missing columns error: %v", issues)
	}
}

func TestValidateDelimiterAndSkipRows(t *testing.T) {
	t.Parallel()

	c := validConfig()
	c.Delimiter = "ab"
	c.SkipRows = -1
	issues := Validate(c)
	if !hasIssue(t, issues, SeverityError, "delimiter", "exactly one character") {
		t.Fatalf("missing delimiter error: %v", issues)
	}
	if !hasIssue(t, issues, SeverityError, "skip-rows", "negative") {
		t.Fatalf("missing skip-rows error: %v", issues)
	}

	c = validConfig()
	c.Delimiter = "|"
	if issues := Validate(c); HasErrors(issues) {
		t.Fatalf("single-char delimiter rejected: %v", issues)
	}
}

func TestValidateCredentials(t *testing.T) {
	t.Parallel()

	c := validConfig()
	c.UserClientID, c.UserClientSecret, c.UserRefreshToken = "", "", ""
	issues := Validate(c)
	if !hasIssue(t, issues, SeverityError, "sa-private-key", "credentials") {
		t.Fatalf("missing credentials error: %v", issues)
	}

	c.SAPrivateKeyID = "kid"
	c.SAPrivateKey = "pem"
	c.SAClientEmail = "e@x"
	c.SAClientID = "cid"
	if issues := Validate(c); HasErrors(issues) {
		t.Fatalf("service account config rejected: %v", issues)
	}
}

func TestValidateStorage(t *testing.T) {
	t.Parallel()

	c := validConfig()
	c.Storage = "bigtable"
	issues := Validate(c)
	if !hasIssue(t, issues, SeverityError, "storage", "unknown storage kind") {
		t.Fatalf("missing storage error: %v", issues)
	}

	c = validConfig()
	c.Storage = StoragePostgres
	c.BatchSize = 0
	issues = Validate(c)
	if !hasIssue(t, issues, SeverityError, "dsn", "requires a DSN") {
		t.Fatalf("missing dsn error: %v", issues)
	}
	if !hasIssue(t, issues, SeverityError, "batch-size", "positive") {
		t.Fatalf("missing batch-size error: %v", issues)
	}
	if !hasIssue(t, issues, SeverityWarning, "table", "derived from the worksheet") {
		t.Fatalf("missing table warning: %v", issues)
	}

	c = validConfig()
	c.DSN = "ignored"
	issues = Validate(c)
	if !hasIssue(t, issues, SeverityWarning, "storage", "ignored when storage is 'stdout'") {
		t.Fatalf("missing stdout warning: %v", issues)
	}
}
