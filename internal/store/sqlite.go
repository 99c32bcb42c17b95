package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"github.com/breedbook/coicalc/internal/pedigree"
)

// SQLiteStore persists ancestry records in a single SQLite table. It is the
// production backing store for both the lookup side of the engine and the
// batch driver's coefficient write-back.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// Verify interface compliance.
var _ pedigree.Repository = (*SQLiteStore)(nil)

// NewSQLiteStore opens (creating if necessary) the database at path and
// ensures the ancestry schema exists.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if path == "" {
		path = "coicalc.db"
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create dirs: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS ancestry (
		id TEXT PRIMARY KEY,
		sire_id TEXT NOT NULL DEFAULT '',
		dam_id TEXT NOT NULL DEFAULT '',
		display_name TEXT NOT NULL DEFAULT '',
		coefficient REAL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create ancestry table: %w", err)
	}
	return &SQLiteStore{db: db, path: path}, nil
}

// Get returns the record for id, if present.
func (s *SQLiteStore) Get(ctx context.Context, id string) (*pedigree.Record, bool, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT sire_id, dam_id, display_name, coefficient FROM ancestry WHERE id = ?`, id)

	rec := pedigree.Record{ID: id}
	var coefficient sql.NullFloat64
	err := row.Scan(&rec.SireID, &rec.DamID, &rec.DisplayName, &coefficient)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("select ancestry row: %w", err)
	}
	if coefficient.Valid {
		rec.KnownCoefficient = &coefficient.Float64
	}
	return &rec, true, nil
}

// Put inserts or replaces a record.
func (s *SQLiteStore) Put(ctx context.Context, rec pedigree.Record) error {
	var coefficient sql.NullFloat64
	if rec.KnownCoefficient != nil {
		coefficient = sql.NullFloat64{Float64: *rec.KnownCoefficient, Valid: true}
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO ancestry (id, sire_id, dam_id, display_name, coefficient)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   sire_id = excluded.sire_id,
		   dam_id = excluded.dam_id,
		   display_name = excluded.display_name,
		   coefficient = excluded.coefficient`,
		rec.ID, rec.SireID, rec.DamID, rec.DisplayName, coefficient)
	if err != nil {
		return fmt.Errorf("upsert ancestry row: %w", err)
	}
	return nil
}

// SetCoefficient stores a computed COI percentage on an existing record.
func (s *SQLiteStore) SetCoefficient(ctx context.Context, id string, pct float64) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE ancestry SET coefficient = ? WHERE id = ?`, pct, id)
	if err != nil {
		return fmt.Errorf("update coefficient: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("no record with id %q", id)
	}
	return nil
}

// ListIDs returns every stored identifier in sorted order.
func (s *SQLiteStore) ListIDs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM ancestry ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("select ids: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// CountMissingCoefficient returns how many records still lack a stored COI.
func (s *SQLiteStore) CountMissingCoefficient(ctx context.Context) (int, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM ancestry WHERE coefficient IS NULL`)
	var count int
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("count missing coefficients: %w", err)
	}
	return count, nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
