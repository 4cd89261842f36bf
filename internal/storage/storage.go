// Package storage implements the optional external persistence layer
// spec.md §6.4 explicitly keeps out of core: a Snapshotter that dumps a
// buffer.VecBuffer[string]'s current contents into a SQLite table, so a
// caller that wants to survive a restart can round-trip a VecBuffer
// without the kernel itself ever knowing persisted state exists. Schema
// is applied with golang-migrate's iofs source against a pure-Go
// ncruces/go-sqlite3 connection; each row carries the raw text alongside
// JSON and YAML encodings.
package storage

import (
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
	"gopkg.in/yaml.v3"

	"nested/internal/buffer"
	"nested/internal/port"
)

// ErrSnapshotNotFound is returned by Load when no snapshot is stored
// under the requested name.
var ErrSnapshotNotFound = errors.New("storage: snapshot not found")

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Snapshotter owns a SQLite connection with the snapshots schema applied.
type Snapshotter struct {
	db *sql.DB
}

// Open opens (creating if necessary) the SQLite database at path and
// brings its schema up to date.
func Open(path string) (*Snapshotter, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("storage: open %s: %w", path, err)
	}
	if err := migrateUp(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Snapshotter{db: db}, nil
}

func migrateUp(db *sql.DB) error {
	srcDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("storage: migration source: %w", err)
	}
	dbDriver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		return fmt.Errorf("storage: migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", srcDriver, "sqlite3", dbDriver)
	if err != nil {
		return fmt.Errorf("storage: migrate instance: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("storage: migrate up: %w", err)
	}
	return nil
}

// Close releases the underlying database handle.
func (s *Snapshotter) Close() error { return s.db.Close() }

// Save persists vb's current contents under name, overwriting whatever
// snapshot previously lived there. Each row carries the raw
// newline-joined text alongside a JSON and a YAML encoding of the same
// item list.
func (s *Snapshotter) Save(name string, vb *buffer.VecBuffer[string]) error {
	items := vb.Snapshot()

	jsonBlob, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("storage: marshal json for %s: %w", name, err)
	}
	yamlBlob, err := yaml.Marshal(items)
	if err != nil {
		return fmt.Errorf("storage: marshal yaml for %s: %w", name, err)
	}

	_, err = s.db.Exec(
		`INSERT INTO snapshots (name, raw, json, yaml, updated_at)
		 VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(name) DO UPDATE SET
		   raw = excluded.raw, json = excluded.json, yaml = excluded.yaml,
		   updated_at = excluded.updated_at`,
		name, strings.Join(items, "\n"), string(jsonBlob), string(yamlBlob),
	)
	if err != nil {
		return fmt.Errorf("storage: save %s: %w", name, err)
	}
	return nil
}

// Load restores the snapshot named name into a fresh VecBuffer[string]
// wired to p, decoded from the row's JSON column.
func (s *Snapshotter) Load(name string, p *port.Port[port.SequenceMsg]) (*buffer.VecBuffer[string], error) {
	var jsonBlob string
	err := s.db.QueryRow(`SELECT json FROM snapshots WHERE name = ?`, name).Scan(&jsonBlob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrSnapshotNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("storage: load %s: %w", name, err)
	}

	var items []string
	if err := json.Unmarshal([]byte(jsonBlob), &items); err != nil {
		return nil, fmt.Errorf("storage: unmarshal %s: %w", name, err)
	}
	return buffer.NewVecBufferWithData[string](p, items), nil
}

// Names returns every snapshot name currently stored, most recently
// updated first.
func (s *Snapshotter) Names() ([]string, error) {
	rows, err := s.db.Query(`SELECT name FROM snapshots ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("storage: list names: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("storage: scan name: %w", err)
		}
		names = append(names, n)
	}
	return names, rows.Err()
}
