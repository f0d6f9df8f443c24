package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/throughnateseyes/playbook/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/throughnateseyes/playbook/internal/core/domain"
	"github.com/throughnateseyes/playbook/internal/core/ports/driven"
)

// dbFileName is the database file inside the data directory.
const dbFileName = "playbook.db"

// Store owns the database connection and hands out port implementations.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.playbook/data/playbook.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".playbook", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, dbFileName)

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// SOPStore returns a SOPStore backed by this store.
func (s *Store) SOPStore() driven.SOPStore {
	return &sopStore{store: s}
}

// migrate runs all pending migrations and records each applied version.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if name := entry.Name(); strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_initial.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// SchemaVersion returns the highest applied migration version.
func (s *Store) SchemaVersion(ctx context.Context) (int, error) {
	var version int
	row := s.db.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&version); err != nil {
		return 0, fmt.Errorf("getting schema version: %w", err)
	}
	return version, nil
}

// ==================== SOP Store ====================

// sopStore implements driven.SOPStore.
type sopStore struct {
	store *Store
}

var _ driven.SOPStore = (*sopStore)(nil)

// ListSOPs returns the workspace's SOPs ordered by position.
func (s *sopStore) ListSOPs(ctx context.Context, workspace string) ([]domain.SOP, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, data FROM sops WHERE workspace = ? ORDER BY position
	`, workspace)
	if err != nil {
		return nil, fmt.Errorf("%w: listing sops: %v", domain.ErrStorage, err)
	}
	defer rows.Close()

	sops := []domain.SOP{}
	for rows.Next() {
		var id, data string
		if err := rows.Scan(&id, &data); err != nil {
			return nil, fmt.Errorf("%w: scanning sop: %v", domain.ErrStorage, err)
		}
		var sop domain.SOP
		if err := json.Unmarshal([]byte(data), &sop); err != nil {
			return nil, fmt.Errorf("%w: decoding sop %q: %v", domain.ErrStorage, id, err)
		}
		sops = append(sops, sop)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating sops: %v", domain.ErrStorage, err)
	}
	return sops, nil
}

// SaveSOP inserts or replaces an SOP. Replacing keeps its position.
func (s *sopStore) SaveSOP(ctx context.Context, workspace string, sop *domain.SOP) error {
	if sop == nil {
		return domain.ErrInvalidInput
	}
	data, err := json.Marshal(sop)
	if err != nil {
		return fmt.Errorf("marshalling sop: %w", err)
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO sops (workspace, id, position, title, category, data, updated_at)
		VALUES (?, ?, (SELECT COALESCE(MAX(position), -1) + 1 FROM sops WHERE workspace = ?), ?, ?, ?, ?)
		ON CONFLICT(workspace, id) DO UPDATE SET
			title = excluded.title,
			category = excluded.category,
			data = excluded.data,
			updated_at = excluded.updated_at
	`, workspace, sop.ID, workspace, sop.Title, string(sop.Category), string(data), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("%w: saving sop: %v", domain.ErrStorage, err)
	}
	return nil
}

// DeleteSOP removes an SOP. Missing IDs are not an error.
func (s *sopStore) DeleteSOP(ctx context.Context, workspace, id string) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM sops WHERE workspace = ? AND id = ?", workspace, id)
	if err != nil {
		return fmt.Errorf("%w: deleting sop: %v", domain.ErrStorage, err)
	}
	return nil
}

// ReplaceAll overwrites the workspace's collection in one transaction.
func (s *sopStore) ReplaceAll(ctx context.Context, workspace string, sops []domain.SOP) (err error) {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: beginning transaction: %v", domain.ErrStorage, err)
	}
	defer func() {
		if err != nil {
			err = errors.Join(err, tx.Rollback())
		}
	}()

	if _, err = tx.ExecContext(ctx, "DELETE FROM sops WHERE workspace = ?", workspace); err != nil {
		return fmt.Errorf("%w: clearing workspace: %v", domain.ErrStorage, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO sops (workspace, id, position, title, category, data, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(workspace, id) DO UPDATE SET
			position = excluded.position,
			title = excluded.title,
			category = excluded.category,
			data = excluded.data,
			updated_at = excluded.updated_at
	`)
	if err != nil {
		return fmt.Errorf("%w: preparing insert: %v", domain.ErrStorage, err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for i := range sops {
		data, mErr := json.Marshal(&sops[i])
		if mErr != nil {
			err = fmt.Errorf("marshalling sop %q: %w", sops[i].ID, mErr)
			return err
		}
		if _, err = stmt.ExecContext(ctx, workspace, sops[i].ID, i,
			sops[i].Title, string(sops[i].Category), string(data), now); err != nil {
			return fmt.Errorf("%w: inserting sop %q: %v", domain.ErrStorage, sops[i].ID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%w: committing: %v", domain.ErrStorage, err)
	}
	return nil
}
