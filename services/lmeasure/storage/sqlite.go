package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/iulianpascalau/lmeasure-svc/services/lmeasure/common"
	_ "github.com/mattn/go-sqlite3"
	logger "github.com/multiversx/mx-chain-logger-go"
)

const memoryPath = ":memory:"

var log = logger.GetOrCreate("storage")

// sqliteLedger is the sqlite implementation of the invocation ledger. It keeps outcomes only, never results
type sqliteLedger struct {
	db               *sql.DB
	retentionSeconds int
}

// NewSQLiteLedger creates the database and its schema
func NewSQLiteLedger(dbPath string, retentionSeconds int) (*sqliteLedger, error) {
	if retentionSeconds <= 0 {
		return nil, fmt.Errorf("invalid retention of %d seconds", retentionSeconds)
	}

	err := prepareDirectories(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create initial empty DB file: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == memoryPath {
		// every connection to :memory: is a distinct database
		db.SetMaxOpenConns(1)
	}

	err = createSchema(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &sqliteLedger{
		db:               db,
		retentionSeconds: retentionSeconds,
	}, nil
}

func prepareDirectories(dbPath string) error {
	if dbPath == memoryPath {
		return nil
	}

	return os.MkdirAll(filepath.Dir(dbPath), os.ModePerm)
}

func createSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS invocations (
		id            TEXT    NOT NULL PRIMARY KEY,
		operation     TEXT    NOT NULL,
		num_metrics   INTEGER NOT NULL DEFAULT 0,
		outcome       TEXT    NOT NULL,
		duration_ms   INTEGER NOT NULL DEFAULT 0,
		error_message TEXT    NOT NULL DEFAULT '',
		recorded_at   INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_invocations_recorded_at ON invocations(recorded_at);
	CREATE INDEX IF NOT EXISTS idx_invocations_operation ON invocations(operation, outcome);
	`

	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// SaveInvocation appends an invocation outcome
func (s *sqliteLedger) SaveInvocation(ctx context.Context, record common.InvocationRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO invocations (id, operation, num_metrics, outcome, duration_ms, error_message, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, record.ID, record.Operation, record.NumMetrics, record.Outcome, record.DurationMs, record.ErrorMessage, record.RecordedAt)
	if err != nil {
		return fmt.Errorf("failed to insert invocation: %w", err)
	}

	return nil
}

// GetOperationStats aggregates the retained invocations per operation and outcome
func (s *sqliteLedger) GetOperationStats(ctx context.Context) ([]common.OperationStats, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT operation, outcome, COUNT(*), AVG(duration_ms), MAX(recorded_at)
		FROM invocations
		GROUP BY operation, outcome
		ORDER BY operation, outcome
	`)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	results := make([]common.OperationStats, 0)
	for rows.Next() {
		var st common.OperationStats
		err = rows.Scan(&st.Operation, &st.Outcome, &st.Count, &st.AvgDurationMs, &st.LastAt)
		if err != nil {
			return nil, err
		}

		results = append(results, st)
	}

	return results, rows.Err()
}

// GetRecentInvocations returns up to limit invocations, newest first
func (s *sqliteLedger) GetRecentInvocations(ctx context.Context, limit int) ([]common.InvocationRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, operation, num_metrics, outcome, duration_ms, error_message, recorded_at
		FROM invocations
		ORDER BY recorded_at DESC, rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	results := make([]common.InvocationRecord, 0)
	for rows.Next() {
		var rec common.InvocationRecord
		err = rows.Scan(&rec.ID, &rec.Operation, &rec.NumMetrics, &rec.Outcome, &rec.DurationMs, &rec.ErrorMessage, &rec.RecordedAt)
		if err != nil {
			return nil, err
		}

		results = append(results, rec)
	}

	return results, rows.Err()
}

// CleanRetainedInvocations removes the invocations older than the retention window
func (s *sqliteLedger) CleanRetainedInvocations(ctx context.Context) {
	cutoff := time.Now().Unix() - int64(s.retentionSeconds)
	res, err := s.db.ExecContext(ctx, "DELETE FROM invocations WHERE recorded_at < ?", cutoff)
	if err != nil {
		log.Warn("failed to cleanup retained invocations", "error", err)
		return
	}

	removed, _ := res.RowsAffected()
	log.Debug("ran retention cleanup", "removed", removed)
}

// CleanupInterval returns how often the retention cleanup should run: max(retention/10, 60s)
func (s *sqliteLedger) CleanupInterval() time.Duration {
	intervalSec := s.retentionSeconds / 10
	if intervalSec < 60 {
		intervalSec = 60
	}

	return time.Duration(intervalSec) * time.Second
}

// Close closes the database
func (s *sqliteLedger) Close() error {
	return s.db.Close()
}

// IsInterfaceNil returns true if the value under the interface is nil
func (s *sqliteLedger) IsInterfaceNil() bool {
	return s == nil
}
