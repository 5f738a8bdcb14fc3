// SQLite implementation of the Storage interface.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/forensica/triage/internal/models"
)

// SQLiteStorage implements Storage using SQLite.
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage opens or creates a SQLite database at dbPath and initializes
// the schema. Parent directories are created if they do not exist.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return &SQLiteStorage{db: db}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS batches (
		id TEXT PRIMARY KEY,
		name TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_batches_created_at ON batches(created_at);

	CREATE TABLE IF NOT EXISTS records (
		batch_id TEXT NOT NULL,
		position INTEGER NOT NULL,
		path TEXT NOT NULL,
		type TEXT,
		content TEXT,
		tags TEXT,
		PRIMARY KEY (batch_id, position),
		FOREIGN KEY (batch_id) REFERENCES batches(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_records_batch_id ON records(batch_id);
	`
	_, err := db.Exec(schema)
	return err
}

// CreateBatch inserts a batch and its records in one transaction. Record
// order is preserved via the position column.
func (s *SQLiteStorage) CreateBatch(ctx context.Context, batch *models.Batch) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin batch insert: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	batch.CreatedAt = time.Now()
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO batches (id, name, created_at) VALUES (?, ?, ?)`,
		batch.ID, batch.Name, batch.CreatedAt,
	); err != nil {
		return fmt.Errorf("insert batch: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO records (batch_id, position, path, type, content, tags)
		 VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare record insert: %w", err)
	}
	defer stmt.Close()

	for i := range batch.Records {
		tagsJSON, err := json.Marshal(batch.Records[i].Tags)
		if err != nil {
			return fmt.Errorf("marshal tags for record %d: %w", i, err)
		}
		if _, err := stmt.ExecContext(ctx,
			batch.ID, i, batch.Records[i].Path, batch.Records[i].Type,
			batch.Records[i].Text(), string(tagsJSON),
		); err != nil {
			return fmt.Errorf("insert record %d: %w", i, err)
		}
	}
	return tx.Commit()
}

// GetBatch returns a batch with its records in ingestion order.
func (s *SQLiteStorage) GetBatch(ctx context.Context, id string) (*models.Batch, error) {
	var batch models.Batch
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, created_at FROM batches WHERE id = ?`, id,
	).Scan(&batch.ID, &batch.Name, &batch.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("batch not found: %s", id)
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT path, type, content, tags FROM records
		 WHERE batch_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var rec models.Record
		var content, tagsJSON string
		if err := rows.Scan(&rec.Path, &rec.Type, &content, &tagsJSON); err != nil {
			return nil, err
		}
		rec.Content = models.Content{Text: content}
		if tagsJSON != "" {
			if err := json.Unmarshal([]byte(tagsJSON), &rec.Tags); err != nil {
				return nil, fmt.Errorf("failed to unmarshal tags: %w", err)
			}
		}
		batch.Records = append(batch.Records, rec)
	}
	return &batch, rows.Err()
}

// ListBatches returns batch headers (no records), newest first.
func (s *SQLiteStorage) ListBatches(ctx context.Context, offset, limit int) ([]*models.Batch, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, created_at FROM batches
		 ORDER BY created_at DESC LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var batches []*models.Batch
	for rows.Next() {
		var b models.Batch
		if err := rows.Scan(&b.ID, &b.Name, &b.CreatedAt); err != nil {
			return nil, err
		}
		batches = append(batches, &b)
	}
	return batches, rows.Err()
}

// DeleteBatch removes a batch and its records.
func (s *SQLiteStorage) DeleteBatch(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM records WHERE batch_id = ?`, id); err != nil {
		return err
	}
	result, err := s.db.ExecContext(ctx, `DELETE FROM batches WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("batch not found: %s", id)
	}
	return nil
}

// CountBatches returns the number of stored batches.
func (s *SQLiteStorage) CountBatches(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM batches`).Scan(&count)
	return count, err
}

// Close closes the database.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}
