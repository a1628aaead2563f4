package datastore

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/aleister1102/statuswatch/internal/common"
	"github.com/aleister1102/statuswatch/internal/models"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

// Journal is an append-only SQLite log of every delivered notification.
// It is write-mostly; nothing reads it back into tracker state.
type Journal struct {
	db     *sql.DB
	logger zerolog.Logger
}

// JournalEntry is one stored notification.
type JournalEntry struct {
	ID     int64
	Record models.NotificationRecord
}

// NewJournal opens (or creates) the database at path and ensures the schema.
func NewJournal(path string, logger zerolog.Logger) (*Journal, error) {
	journalLogger := logger.With().Str("component", "Journal").Logger()

	if path == "" {
		return nil, common.NewValidationError("journal_db_path", path, "cannot be empty")
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create journal directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sql.Open failed for %s: %w", path, err)
	}
	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)

	j := &Journal{db: db, logger: journalLogger}
	if err := j.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize journal schema: %w", err)
	}

	journalLogger.Info().Str("path", path).Msg("Notification journal ready")
	return j, nil
}

func (j *Journal) initSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS notifications (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		recorded_at TEXT NOT NULL,
		source TEXT NOT NULL,
		product TEXT NOT NULL,
		status TEXT NOT NULL,
		message TEXT NOT NULL DEFAULT '',
		incident_id TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_notifications_incident ON notifications(incident_id);
	`
	_, err := j.db.Exec(query)
	return err
}

// Deliver appends the record.
func (j *Journal) Deliver(ctx context.Context, record models.NotificationRecord) error {
	query := `INSERT INTO notifications (recorded_at, source, product, status, message, incident_id) VALUES (?, ?, ?, ?, ?, ?)`
	_, err := j.db.ExecContext(ctx, query,
		record.Timestamp.UTC().Format(time.RFC3339Nano),
		record.Source(),
		record.Product,
		record.Status,
		record.Message,
		sql.NullString{String: record.IncidentID, Valid: record.IncidentID != ""},
	)
	if err != nil {
		return common.WrapError(err, "failed to insert notification")
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (j *Journal) Recent(ctx context.Context, limit int) ([]JournalEntry, error) {
	if limit <= 0 {
		return nil, common.NewValidationError("limit", limit, "must be positive")
	}

	rows, err := j.db.QueryContext(ctx,
		`SELECT id, recorded_at, product, status, message, incident_id FROM notifications ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, common.WrapError(err, "failed to query notifications")
	}
	defer rows.Close()

	var entries []JournalEntry
	for rows.Next() {
		var (
			entry      JournalEntry
			recordedAt string
			incidentID sql.NullString
		)
		if err := rows.Scan(&entry.ID, &recordedAt, &entry.Record.Product, &entry.Record.Status, &entry.Record.Message, &incidentID); err != nil {
			return nil, common.WrapError(err, "failed to scan notification row")
		}
		ts, err := time.Parse(time.RFC3339Nano, recordedAt)
		if err != nil {
			return nil, common.WrapErrorf(err, "bad timestamp in row %d", entry.ID)
		}
		entry.Record.Timestamp = ts
		entry.Record.IncidentID = incidentID.String
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Count returns the number of stored notifications.
func (j *Journal) Count(ctx context.Context) (int, error) {
	var n int
	err := j.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM notifications`).Scan(&n)
	return n, err
}

// Close closes the database connection.
func (j *Journal) Close() error {
	if j.db != nil {
		return j.db.Close()
	}
	return nil
}
