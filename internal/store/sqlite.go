package store

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pressly/goose/v3"
	"github.com/sethvargo/go-retry"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// SQLiteDB implements the DB interface using SQLite
type SQLiteDB struct {
	db *sql.DB
}

// NewSQLiteDB creates a new SQLite database connection
func NewSQLiteDB(path string) (*SQLiteDB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return &SQLiteDB{db: db}, nil
}

// Close closes the database connection
func (s *SQLiteDB) Close() error {
	return s.db.Close()
}

// Migrate applies the embedded schema migrations
func (s *SQLiteDB) Migrate() error {
	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}
	if err := goose.Up(s.db, "migrations"); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}

// withBusyRetry retries a write that lost the WAL writer lock
func withBusyRetry(ctx context.Context, fn func() error) error {
	backoff := retry.WithMaxRetries(5, retry.NewFibonacci(10*time.Millisecond))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := fn()
		if err != nil && isBusy(err) {
			return retry.RetryableError(err)
		}
		return err
	})
}

func isBusy(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

// SaveRun saves a sweep run to the database
func (s *SQLiteDB) SaveRun(ctx context.Context, run *Run) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}

	query := `INSERT INTO runs (
		id, model, params_json, a_max, f_max, steps,
		total_evaluated, kill_zone_share, engine_version
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	return withBusyRetry(ctx, func() error {
		_, err := s.db.ExecContext(ctx, query,
			run.ID, run.Model, run.ParamsJSON, run.AMax, run.FMax,
			run.Steps, run.TotalEvaluated, run.KillZoneShare, run.EngineVersion,
		)
		return err
	})
}

// SaveCells saves the grid cells of a run in one transaction
func (s *SQLiteDB) SaveCells(ctx context.Context, runID string, cells []Cell) error {
	if len(cells) == 0 {
		return nil
	}

	return withBusyRetry(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer tx.Rollback()

		stmt, err := tx.PrepareContext(ctx,
			"INSERT INTO cells (run_id, a, f, entrant, incumbent, development, ownership) VALUES (?, ?, ?, ?, ?, ?, ?)")
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, cell := range cells {
			ownership := cell.Ownership
			if ownership == "" {
				ownership = "E"
			}
			if _, err := stmt.ExecContext(ctx, runID, cell.A, cell.F,
				cell.Entrant, cell.Incumbent, cell.Development, ownership); err != nil {
				return err
			}
		}

		return tx.Commit()
	})
}

// GetRun retrieves a run by ID
func (s *SQLiteDB) GetRun(ctx context.Context, id string) (*Run, error) {
	query := `SELECT id, model, params_json, a_max, f_max, steps,
		total_evaluated, kill_zone_share, engine_version, created_at
		FROM runs WHERE id = ?`

	var run Run
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&run.ID, &run.Model, &run.ParamsJSON, &run.AMax, &run.FMax,
		&run.Steps, &run.TotalEvaluated, &run.KillZoneShare,
		&run.EngineVersion, &run.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &run, nil
}

// ListRuns retrieves recent runs with pagination
func (s *SQLiteDB) ListRuns(ctx context.Context, limit, offset int) ([]Run, error) {
	query := `SELECT id, model, params_json, a_max, f_max, steps,
		total_evaluated, kill_zone_share, engine_version, created_at
		FROM runs ORDER BY created_at DESC, id LIMIT ? OFFSET ?`

	rows, err := s.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		if err := rows.Scan(
			&run.ID, &run.Model, &run.ParamsJSON, &run.AMax, &run.FMax,
			&run.Steps, &run.TotalEvaluated, &run.KillZoneShare,
			&run.EngineVersion, &run.CreatedAt,
		); err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

// GetCells retrieves cells for a run with pagination, ordered by grid position
func (s *SQLiteDB) GetCells(ctx context.Context, runID string, limit, offset int) ([]Cell, error) {
	query := `SELECT id, run_id, a, f, entrant, incumbent, development, ownership
		FROM cells WHERE run_id = ?
		ORDER BY a, f LIMIT ? OFFSET ?`

	rows, err := s.db.QueryContext(ctx, query, runID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cells []Cell
	for rows.Next() {
		var cell Cell
		if err := rows.Scan(&cell.ID, &cell.RunID, &cell.A, &cell.F,
			&cell.Entrant, &cell.Incumbent, &cell.Development, &cell.Ownership); err != nil {
			return nil, err
		}
		cells = append(cells, cell)
	}

	return cells, rows.Err()
}
