package archive

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"path"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"time"

	sqlite "modernc.org/sqlite"

	"github.com/t-800m101/spothinta-go/prices"
)

//go:embed migrations
var migrationsDir embed.FS

// Archive keeps every price the feed has ever served, so history stays
// queryable after the feed's own window has moved on.
type Archive struct {
	logger *slog.Logger
	read   *sql.DB
	write  *sql.DB
}

const initSQL = `
	PRAGMA journal_mode = WAL;
	PRAGMA synchronous = NORMAL;
	PRAGMA busy_timeout = 5000;
	PRAGMA foreign_keys = ON;
	PRAGMA trusted_schema = OFF;
`

func New(ctx context.Context, dbPath string) (*Archive, error) {
	sqlite.RegisterConnectionHook(func(conn sqlite.ExecQuerierContext, _ string) error {
		_, err := conn.ExecContext(ctx, initSQL, nil)
		return err
	})

	read, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("error when opening archive (read): %w", err)
	}
	read.SetMaxOpenConns(4)
	read.SetConnMaxIdleTime(time.Minute)

	write, err := sql.Open("sqlite", dbPath)
	if err != nil {
		read.Close()
		return nil, fmt.Errorf("error when opening archive (write): %w", err)
	}
	write.SetMaxOpenConns(1) // single writer, no concurrency
	write.SetConnMaxIdleTime(time.Minute)

	a := &Archive{
		logger: slog.Default().With(slog.String("module", "archive")),
		read:   read,
		write:  write,
	}

	if err := a.migrate(ctx); err != nil {
		return nil, fmt.Errorf("archive migration failed: %w", err)
	}

	return a, nil
}

func (a *Archive) SetLogger(logger *slog.Logger) {
	a.logger = logger
}

func (a *Archive) Close() {
	a.read.Close()
	a.write.Close()
}

func (a *Archive) migrate(ctx context.Context) error {
	var currVer int
	if err := a.read.QueryRowContext(ctx, "PRAGMA user_version").Scan(&currVer); err != nil {
		return fmt.Errorf("get current version: %w", err)
	}

	files, err := migrationsDir.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("read migrations directory: %w", err)
	}

	var sqlFiles []string
	for _, f := range files {
		if !f.IsDir() && filepath.Ext(f.Name()) == ".sql" {
			sqlFiles = append(sqlFiles, f.Name())
		}
	}
	slices.Sort(sqlFiles)

	re := regexp.MustCompile(`^(\d+)[-_]`)

	for _, name := range sqlFiles {
		matches := re.FindStringSubmatch(name)
		if len(matches) < 2 {
			return fmt.Errorf("parse version from migration file: %s", name)
		}
		nextVer, err := strconv.Atoi(matches[1])
		if err != nil {
			return fmt.Errorf("convert migration version from file %s: %w", name, err)
		}
		if nextVer <= currVer {
			continue
		}

		a.logger.Debug(fmt.Sprintf("applying migration %d", nextVer))

		data, err := migrationsDir.ReadFile(path.Join("migrations", name))
		if err != nil {
			return fmt.Errorf("read migration file %s: %w", name, err)
		}

		tx, err := a.write.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("start transaction for migration %d: %w", nextVer, err)
		}

		if _, err := tx.ExecContext(ctx, string(data)); err != nil {
			if err := tx.Rollback(); err != nil {
				return fmt.Errorf("rollback migration %d: %w", nextVer, err)
			}
			return fmt.Errorf("apply migration %d: %w", nextVer, err)
		}

		if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d;", nextVer)); err != nil {
			if err := tx.Rollback(); err != nil {
				return fmt.Errorf("rollback migration %d: %w", nextVer, err)
			}
			return fmt.Errorf("update archive version for migration %d: %w", nextVer, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", nextVer, err)
		}
	}

	return nil
}

const startLayout = time.RFC3339

// SavePrices upserts fetched records. Re-fetching the same slots is
// normal, the feed always serves a sliding window.
func (a *Archive) SavePrices(ctx context.Context, res prices.Resolution, records []prices.Record, fetchedAt time.Time) error {
	for _, r := range records {
		_, err := a.write.ExecContext(ctx, `
			INSERT INTO price_history (resolution, start, price, fetched_at) VALUES (?, ?, ?, ?)
			ON CONFLICT(resolution, start) DO UPDATE SET price = excluded.price, fetched_at = excluded.fetched_at`,
			string(res),
			r.Start.UTC().Format(startLayout),
			r.Price,
			fetchedAt.UTC().Format(startLayout))
		if err != nil {
			return fmt.Errorf("error when saving price history: %w", err)
		}
	}
	return nil
}

// GetFrom returns archived records at or after the given time,
// ascending by start.
func (a *Archive) GetFrom(ctx context.Context, res prices.Resolution, from time.Time) ([]prices.Record, error) {
	rows, err := a.read.QueryContext(ctx, `SELECT
		start, price
		FROM price_history
		WHERE resolution = ? AND start >= ?
		ORDER BY start ASC`,
		string(res), from.UTC().Format(startLayout))
	if err != nil {
		return nil, fmt.Errorf("error when fetching price history: %w", err)
	}
	defer rows.Close()

	var records []prices.Record
	for rows.Next() {
		var start string
		var r prices.Record
		if err := rows.Scan(&start, &r.Price); err != nil {
			return nil, fmt.Errorf("error when scanning price history row: %w", err)
		}
		r.Start, err = time.Parse(startLayout, start)
		if err != nil {
			return nil, fmt.Errorf("error when parsing archived start time: %w", err)
		}
		records = append(records, r)
	}

	return records, rows.Err()
}

// Purge drops records older than the retention window.
func (a *Archive) Purge(ctx context.Context, retentionDays int) error {
	before := time.Now().UTC().Add(-24 * time.Hour * time.Duration(retentionDays))
	res, err := a.write.ExecContext(ctx,
		`DELETE FROM price_history WHERE start < ?`,
		before.Format(startLayout))
	if err != nil {
		return fmt.Errorf("error when purging price history: %w", err)
	}
	if rows, err := res.RowsAffected(); err == nil && rows > 0 {
		a.logger.Debug(fmt.Sprintf("purged %d rows from price history", rows))
	}
	return nil
}
