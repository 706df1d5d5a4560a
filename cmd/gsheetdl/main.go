// Command gsheetdl downloads a Google Sheets worksheet, validates and
// formats every row against a column definition string, and writes the
// result as delimited text to stdout or straight into a database table.
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"gsheetdl/internal/colspec"
	"gsheetdl/internal/config"
	"gsheetdl/internal/creds"
	"gsheetdl/internal/ident"
	"gsheetdl/internal/rowcsv"
	"gsheetdl/internal/sheets"
	"gsheetdl/internal/sink"
	"gsheetdl/internal/storage"
	"gsheetdl/internal/storage/mssql"
	"gsheetdl/internal/storage/postgres"
	"gsheetdl/internal/storage/sqlite"
)

// repository is what every DB backend provides to the load path.
type repository interface {
	CopyFrom(ctx context.Context, columns []string, rows [][]any) (int64, error)
	EnsureTable(ctx context.Context) error
}

func main() {
	cfg := config.Load()

	issues := config.Validate(cfg)
	for _, iss := range issues {
		fmt.Fprintf(os.Stderr, "%s: -%s: %s\n", iss.Severity, iss.Path, iss.Message)
	}
	if config.HasErrors(issues) {
		os.Exit(1)
	}

	cells, err := colspec.Parse(cfg.Columns)
	if err != nil {
		fatalf("columns: %v", err)
	}

	ctx := context.Background()
	start := time.Now()

	ts, err := creds.Config{
		ServiceAccountPrivateKeyID: cfg.SAPrivateKeyID,
		ServiceAccountPrivateKey:   cfg.SAPrivateKey,
		ServiceAccountClientEmail:  cfg.SAClientEmail,
		ServiceAccountClientID:     cfg.SAClientID,
		UserClientID:               cfg.UserClientID,
		UserClientSecret:           cfg.UserClientSecret,
		UserRefreshToken:           cfg.UserRefreshToken,
	}.TokenSource(ctx)
	if err != nil {
		fatalf("credentials: %v", err)
	}

	client := sheets.NewClient(sheets.Config{TokenSource: ts})
	rows, err := client.WorksheetRows(ctx, cfg.SpreadsheetKey, cfg.Worksheet)
	if err != nil {
		fatalf("fetch worksheet %q: %v", cfg.Worksheet, err)
	}
	if cfg.Verbose {
		log.Printf("worksheet %q: %d raw rows", cfg.Worksheet, len(rows))
	}

	src := rowcsv.NewSliceSource(rows)
	if err := rowcsv.DropLeading(src, cfg.SkipRows); err != nil {
		fatalf("worksheet %q: %v", cfg.Worksheet, err)
	}

	var written int
	switch cfg.Storage {
	case config.StorageStdout:
		written, err = runStdout(cfg, src, cells)
	default:
		written, err = runLoad(ctx, cfg, src, cells)
	}
	if err != nil {
		fatalf("%v", err)
	}

	if written == 0 && cfg.FailOnNoData {
		fatalf("worksheet %q: no rows written", cfg.Worksheet)
	}
	if cfg.Verbose {
		log.Printf("completed in %s", time.Since(start).Truncate(time.Millisecond))
	}
}

// runStdout streams formatted rows to stdout and logs a run summary with the
// byte count and content fingerprint.
func runStdout(cfg *config.Config, src rowcsv.RowSource, cells []colspec.Cell) (int, error) {
	cw := sink.NewCountingWriter(os.Stdout)
	written, err := rowcsv.WriteRows(cw, src, cells, cfg.DelimiterRune())
	if err != nil {
		return written, err
	}
	log.Printf("wrote %d records, %d bytes, fingerprint=%016x", written, cw.Bytes(), cw.Sum64())
	return written, nil
}

// runLoad runs the formatter and the database loader concurrently: formatted
// records flow through an in-process pipe, get parsed back into fields, and
// are batch-inserted by the selected backend.
func runLoad(ctx context.Context, cfg *config.Config, src rowcsv.RowSource, cells []colspec.Cell) (int, error) {
	columns, err := targetColumns(cfg, cells)
	if err != nil {
		return 0, err
	}
	table := cfg.Table
	if table == "" {
		table = ident.Normalize(cfg.Worksheet)
	}

	repo, closeRepo, err := openRepository(ctx, cfg, table, columns)
	if err != nil {
		return 0, err
	}
	defer closeRepo()

	if cfg.CreateTable {
		if err := repo.EnsureTable(ctx); err != nil {
			return 0, err
		}
	}

	pr, pw := io.Pipe()
	rowsCh := make(chan []string, 64)

	g, gctx := errgroup.WithContext(ctx)

	var written int
	g.Go(func() error {
		n, err := rowcsv.WriteRows(pw, src, cells, ',')
		written = n
		pw.CloseWithError(err)
		return err
	})

	g.Go(func() error {
		defer close(rowsCh)
		r := csv.NewReader(pr)
		r.FieldsPerRecord = len(columns)
		for {
			rec, err := r.Read()
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				pr.CloseWithError(err)
				return err
			}
			select {
			case rowsCh <- rec:
			case <-gctx.Done():
				pr.CloseWithError(gctx.Err())
				return gctx.Err()
			}
		}
	})

	var inserted int64
	g.Go(func() error {
		n, err := storage.LoadBatches(gctx, columns, rowsCh, cfg.BatchSize, repo.CopyFrom)
		inserted = n
		return err
	})

	if err := g.Wait(); err != nil {
		return written, err
	}
	log.Printf("wrote %d records into %s %s (%d inserted)", written, cfg.Storage, table, inserted)
	return written, nil
}

// targetColumns resolves the destination column names: the -columns-names
// list when given (length-checked against the definition's output columns),
// otherwise c1..cN.
func targetColumns(cfg *config.Config, cells []colspec.Cell) ([]string, error) {
	out := 0
	for _, c := range cells {
		if !colspec.Omitted(c) {
			out++
		}
	}
	if names := cfg.TableColumns(); names != nil {
		if len(names) != out {
			return nil, fmt.Errorf("columns-names has %d names, definition produces %d output columns", len(names), out)
		}
		return names, nil
	}
	names := make([]string, out)
	for i := range names {
		names[i] = fmt.Sprintf("c%d", i+1)
	}
	return names, nil
}

// openRepository builds the backend selected by -storage.
func openRepository(ctx context.Context, cfg *config.Config, table string, columns []string) (repository, func(), error) {
	switch cfg.Storage {
	case config.StoragePostgres:
		return postgres.NewRepository(ctx, postgres.Config{DSN: cfg.DSN, Table: table, Columns: columns})
	case config.StorageSQLite:
		return sqlite.NewRepository(ctx, sqlite.Config{DSN: cfg.DSN, Table: table, Columns: columns})
	case config.StorageMSSQL:
		return mssql.NewRepository(ctx, mssql.Config{DSN: cfg.DSN, Table: table, Columns: columns})
	}
	return nil, nil, fmt.Errorf("unknown storage kind %q", cfg.Storage)
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
