package storage

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"chemchat/internal/transcript"
)

var (
	// ErrNotFound is returned when a record is not found.
	ErrNotFound = errors.New("record not found")
)

// exportedAtLayout is fixed width so exported_at sorts as text.
const exportedAtLayout = "2006-01-02T15:04:05.000000000Z07:00"

// LocationPrefix prefixes the IDs returned by ExportRepo.Save.
const LocationPrefix = "sqlite:"

// ExportRepo archives chat-history exports in the exports table.
type ExportRepo struct {
	db *sql.DB
}

// NewExportRepo creates a new ExportRepo.
func NewExportRepo(db *sql.DB) *ExportRepo {
	return &ExportRepo{db: db}
}

// Save inserts snap under a new UUID and returns "sqlite:<id>".
func (r *ExportRepo) Save(ctx context.Context, snap transcript.Snapshot) (string, error) {
	var doc bytes.Buffer
	enc := json.NewEncoder(&doc)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		return "", fmt.Errorf("failed to encode export: %w", err)
	}

	id := uuid.New().String()
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO exports (id, exported_at, model, exchange_count, document) VALUES (?, ?, ?, ?, ?)",
		id, snap.ExportedAt.UTC().Format(exportedAtLayout), snap.Model, len(snap.Exchanges), doc.String(),
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert export: %w", err)
	}
	return LocationPrefix + id, nil
}

// List returns up to limit exports, newest first, without their documents.
func (r *ExportRepo) List(ctx context.Context, limit int) ([]ExportRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, exported_at, model, exchange_count FROM exports ORDER BY exported_at DESC, created_at DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query exports: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var records []ExportRecord
	for rows.Next() {
		var rec ExportRecord
		var exportedAt string
		if err := rows.Scan(&rec.ID, &exportedAt, &rec.Model, &rec.ExchangeCount); err != nil {
			return nil, fmt.Errorf("failed to scan export: %w", err)
		}
		if rec.ExportedAt, err = time.Parse(exportedAtLayout, exportedAt); err != nil {
			return nil, fmt.Errorf("failed to parse exported_at timestamp: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate exports: %w", err)
	}
	return records, nil
}

// Get returns the export with the given ID, with or without the "sqlite:" prefix.
// Returns nil and ErrNotFound if not found.
func (r *ExportRepo) Get(ctx context.Context, id string) (*ExportRecord, error) {
	id = strings.TrimPrefix(id, LocationPrefix)

	var rec ExportRecord
	var exportedAt, document string
	err := r.db.QueryRowContext(ctx,
		"SELECT id, exported_at, model, exchange_count, document FROM exports WHERE id = ?",
		id,
	).Scan(&rec.ID, &exportedAt, &rec.Model, &rec.ExchangeCount, &document)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query export: %w", err)
	}

	if rec.ExportedAt, err = time.Parse(exportedAtLayout, exportedAt); err != nil {
		return nil, fmt.Errorf("failed to parse exported_at timestamp: %w", err)
	}
	rec.Document = []byte(document)
	return &rec, nil
}

// Load decodes the archived snapshot for id.
func (r *ExportRepo) Load(ctx context.Context, id string) (transcript.Snapshot, error) {
	rec, err := r.Get(ctx, id)
	if err != nil {
		return transcript.Snapshot{}, err
	}
	var snap transcript.Snapshot
	if err := json.Unmarshal(rec.Document, &snap); err != nil {
		return transcript.Snapshot{}, fmt.Errorf("failed to decode export %s: %w", rec.ID, err)
	}
	return snap, nil
}
