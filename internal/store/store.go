// Package store keeps a copy of the scenario dataset in a SQLite table.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/theirongolddev/cashflow/internal/dataset"
	"github.com/theirongolddev/cashflow/internal/model"

	_ "modernc.org/sqlite" // register sqlite driver
)

// ErrEmpty is returned when loading from a store nothing was saved to.
var ErrEmpty = errors.New("dataset store is empty")

// Store provides SQLite-backed dataset persistence.
type Store struct {
	db *sql.DB
}

// DataDir returns the XDG-compliant data directory.
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "cashflow")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "cashflow")
}

// DefaultPath returns the default database location.
func DefaultPath() string {
	return filepath.Join(DataDir(), "dataset.db")
}

// Open opens or creates the database at dbPath and migrates it.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating store dir: %w", err)
	}

	if err := Migrate(dbPath); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening store db: %w", err)
	}

	return &Store{db: db}, nil
}

// OpenExisting opens a store that must already exist. It never creates
// files or directories and does not migrate.
func OpenExisting(dbPath string) (*Store, error) {
	info, err := os.Stat(dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("opening store: %s is a directory", dbPath)
	}

	db, err := sql.Open("sqlite", "file:"+dbPath+"?mode=rw&_pragma=foreign_keys(on)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening store db: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveDataset replaces whatever is stored with ds.
func (s *Store) SaveDataset(ds *dataset.Dataset) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range []string{"DELETE FROM periods", "DELETE FROM scenarios", "DELETE FROM dataset_meta"} {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("clearing store: %w", err)
		}
	}

	meta := ds.Meta()
	for k, v := range map[string]string{"title": meta.Title, "source": meta.Source, "currency": meta.Currency} {
		if _, err := tx.Exec("INSERT INTO dataset_meta (key, value) VALUES (?, ?)", k, v); err != nil {
			return fmt.Errorf("saving metadata: %w", err)
		}
	}

	now := time.Now().UTC().Format(time.RFC3339)
	periodStmt, err := tx.Prepare("INSERT INTO periods (scenario_id, position, label, value) VALUES (?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer periodStmt.Close()

	for pos, sc := range ds.Scenarios() {
		res, err := tx.Exec("INSERT INTO scenarios (position, name, saved_at) VALUES (?, ?, ?)", pos, sc.Name, now)
		if err != nil {
			return fmt.Errorf("saving scenario %q: %w", sc.Name, err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		for i, p := range sc.Periods {
			if _, err := periodStmt.Exec(id, i, p.Label, p.Value); err != nil {
				return fmt.Errorf("saving scenario %q period %s: %w", sc.Name, p.Label, err)
			}
		}
	}

	return tx.Commit()
}

// LoadDataset rebuilds the stored dataset. The rows go through the same
// validation as any other source, so a tampered table is a ConfigError.
func (s *Store) LoadDataset() (*dataset.Dataset, error) {
	meta, err := s.loadMeta()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`SELECT s.name, p.label, p.value
		FROM scenarios s LEFT JOIN periods p ON p.scenario_id = s.id
		ORDER BY s.position, p.position`)
	if err != nil {
		return nil, fmt.Errorf("querying scenarios: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var scenarios []model.Scenario
	for rows.Next() {
		var (
			name  string
			label sql.NullString
			value sql.NullFloat64
		)
		if err := rows.Scan(&name, &label, &value); err != nil {
			return nil, err
		}
		if n := len(scenarios); n == 0 || scenarios[n-1].Name != name {
			scenarios = append(scenarios, model.Scenario{Name: name})
		}
		// A scenario without period rows stays empty so validation rejects it.
		if !label.Valid {
			continue
		}
		last := &scenarios[len(scenarios)-1]
		last.Periods = append(last.Periods, model.Period{Label: label.String, Value: value.Float64})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(scenarios) == 0 {
		return nil, ErrEmpty
	}

	return dataset.New(meta, scenarios)
}

func (s *Store) loadMeta() (dataset.Meta, error) {
	var meta dataset.Meta
	rows, err := s.db.Query("SELECT key, value FROM dataset_meta")
	if err != nil {
		return meta, fmt.Errorf("querying metadata: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return meta, err
		}
		switch k {
		case "title":
			meta.Title = v
		case "source":
			meta.Source = v
		case "currency":
			meta.Currency = v
		}
	}
	return meta, rows.Err()
}

// ScenarioCount returns how many scenarios are stored.
func (s *Store) ScenarioCount() (int, error) {
	var n int
	err := s.db.QueryRow("SELECT COUNT(*) FROM scenarios").Scan(&n)
	return n, err
}
