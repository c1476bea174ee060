// Package sqlite reads the population registry from a local SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"dnamatch/internal/domain"
	"dnamatch/internal/ports"
)

const schema = `CREATE TABLE IF NOT EXISTS population (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT,
	status TEXT,
	description TEXT,
	created_at TEXT,
	updated_at TEXT,
	address TEXT,
	national_id TEXT,
	phone TEXT,
	gender TEXT,
	birthdate TEXT,
	blood_type TEXT,
	dna_sequence TEXT
)`

// Store serves registry snapshots from the population table.
type Store struct {
	db   *sql.DB
	path string
}

var _ ports.PopulationSource = (*Store)(nil)

// Open connects read-only to an existing database at path. A missing file is
// an error; nothing is created.
func Open(path string) (*Store, error) {
	return open(path, "ro")
}

// OpenReadWrite connects to the database at path, creating the file when it
// does not exist. Only schema setup uses it.
func OpenReadWrite(path string) (*Store, error) {
	return open(path, "rwc")
}

func open(path, mode string) (*Store, error) {
	if path == "" {
		return nil, errors.New("sqlite path required")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve sqlite path: %w", err)
	}
	db, err := sql.Open("sqlite", dsn(abs, mode))
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("open sqlite db %s: %w", path, err)
	}
	return &Store{db: db, path: path}, nil
}

// dsn builds a SQLite URI filename carrying the open mode. path must be
// absolute.
func dsn(path, mode string) string {
	p := filepath.ToSlash(path)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	u := url.URL{Scheme: "file", Path: p, RawQuery: "mode=" + mode}
	return u.String()
}

// EnsureSchema creates the population table when it does not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create population table: %w", err)
	}
	return nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) Name() string { return "sqlite:" + s.path }

// Fetch returns every registry row in insertion order.
func (s *Store) Fetch(ctx context.Context) ([]domain.PopulationRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT
		name, status, description, created_at, updated_at, address,
		national_id, phone, gender, birthdate, blood_type, dna_sequence
		FROM population ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.PopulationRecord
	for rows.Next() {
		var (
			name, status, description, createdAt, updatedAt, address sql.NullString
			nationalID, phone, gender, birthdate, bloodType, seq     sql.NullString
		)
		if err := rows.Scan(&name, &status, &description, &createdAt, &updatedAt, &address,
			&nationalID, &phone, &gender, &birthdate, &bloodType, &seq); err != nil {
			return nil, err
		}
		rec := domain.PopulationRecord{
			Name:        name.String,
			Status:      domain.Status(status.String),
			Description: description.String,
			CreatedAt:   createdAt.String,
			UpdatedAt:   updatedAt.String,
			Address:     address.String,
			NationalID:  nationalID.String,
			Phone:       phone.String,
			Gender:      gender.String,
			Birthdate:   birthdate.String,
			BloodType:   bloodType.String,
		}
		if seq.Valid {
			v := seq.String
			rec.Sequence = &v
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
