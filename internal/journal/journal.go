// Package journal mirrors the session history log into a SQL database.
// SQLite and PostgreSQL are supported; the schema is applied with goose on
// open.
package journal

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	"github.com/dmitrijs2005/storyboard/internal/dbx"
	"github.com/dmitrijs2005/storyboard/internal/storyboard"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Fixed-width UTC timestamps sort lexically in time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

type Journal struct {
	db      *sql.DB
	dialect dbx.Dialect
}

// Open connects to dsn and applies pending migrations.
func Open(ctx context.Context, dsn string) (*Journal, error) {
	dialect, conn := dbx.ParseDSN(dsn)

	db, err := sql.Open(dialect.Driver(), conn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	if dialect == dbx.SQLite {
		// one connection keeps :memory: databases alive and writes serialized
		db.SetMaxOpenConns(1)
	}

	if err := migrate(ctx, db, dialect); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return New(db, dialect), nil
}

// New wraps an already migrated database.
func New(db *sql.DB, dialect dbx.Dialect) *Journal {
	return &Journal{db: db, dialect: dialect}
}

func migrate(ctx context.Context, db *sql.DB, dialect dbx.Dialect) error {
	goose.SetBaseFS(migrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect(string(dialect)); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, "migrations")
}

func (j *Journal) Close() error {
	return j.db.Close()
}

// Record stores items in one transaction. Items already stored are skipped.
func (j *Journal) Record(ctx context.Context, sessionID string, items ...storyboard.HistoryItem) error {
	if len(items) == 0 {
		return nil
	}

	q := j.dialect.Rebind(`
		INSERT INTO history (id, session_id, recorded_at, action) VALUES (?, ?, ?, ?)
		ON CONFLICT (id) DO NOTHING`)

	return dbx.WithTx(ctx, j.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		for _, it := range items {
			if _, err := tx.ExecContext(ctx, q, it.ID, sessionID, it.Timestamp.UTC().Format(timeLayout), it.Action); err != nil {
				return fmt.Errorf("failed to record history[%s]: %w", it.ID, err)
			}
		}
		return nil
	})
}

// List returns a session's stored items, newest first. limit <= 0 means all.
func (j *Journal) List(ctx context.Context, sessionID string, limit int) ([]storyboard.HistoryItem, error) {
	q := `SELECT id, recorded_at, action FROM history WHERE session_id = ? ORDER BY recorded_at DESC, id DESC`
	args := []any{sessionID}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := j.db.QueryContext(ctx, j.dialect.Rebind(q), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	defer rows.Close()

	var out []storyboard.HistoryItem
	for rows.Next() {
		var (
			it storyboard.HistoryItem
			ts string
		)
		if err := rows.Scan(&it.ID, &ts, &it.Action); err != nil {
			return nil, fmt.Errorf("failed to scan history: %w", err)
		}
		if it.Timestamp, err = time.Parse(timeLayout, ts); err != nil {
			return nil, fmt.Errorf("bad timestamp for history[%s]: %w", it.ID, err)
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	return out, nil
}

// Sessions returns the ids of all sessions with stored history.
func (j *Journal) Sessions(ctx context.Context) ([]string, error) {
	rows, err := j.db.QueryContext(ctx, `SELECT DISTINCT session_id FROM history ORDER BY session_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		out = append(out, id)
	}
	return out, rows.Err()
}
