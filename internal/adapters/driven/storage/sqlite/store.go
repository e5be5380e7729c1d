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

	"github.com/evidenzia-labs/evidenzia-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/evidenzia-labs/evidenzia-cli/internal/core/domain"
	"github.com/evidenzia-labs/evidenzia-cli/internal/core/ports/driven"
)

// Store is a unified SQLite-based storage that provides access to the
// document and state store interfaces through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.evidenzia/data/evidenzia.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".evidenzia", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "evidenzia.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
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

// DocStore returns a DocStore interface backed by this store.
func (s *Store) DocStore() driven.DocStore {
	return &docStore{store: s}
}

// StateStore returns a StateStore interface backed by this store.
func (s *Store) StateStore() driven.StateStore {
	return &stateStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	// Sort and run migrations
	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		// Read and execute migration
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

// ==================== Doc Store ====================

// docStore implements driven.DocStore.
type docStore struct {
	store *Store
}

var _ driven.DocStore = (*docStore)(nil)

// SaveDoc stores or replaces the extraction for a filename.
func (s *docStore) SaveDoc(ctx context.Context, filename string, ex domain.Extraction) error {
	data, err := json.Marshal(ex)
	if err != nil {
		return fmt.Errorf("marshalling extraction: %w", err)
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO docs (filename, data, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(filename) DO UPDATE SET
			data = excluded.data,
			updated_at = excluded.updated_at
	`, filename, string(data), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("saving document: %w", err)
	}
	return nil
}

// GetDoc retrieves the stored extraction for a filename.
func (s *docStore) GetDoc(ctx context.Context, filename string) (domain.Extraction, error) {
	var data string
	row := s.store.db.QueryRowContext(ctx, "SELECT data FROM docs WHERE filename = ?", filename)
	if err := row.Scan(&data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Extraction{}, fmt.Errorf("document %s: %w", filename, domain.ErrNotFound)
		}
		return domain.Extraction{}, fmt.Errorf("querying document: %w", err)
	}

	var ex domain.Extraction
	if err := json.Unmarshal([]byte(data), &ex); err != nil {
		return domain.Extraction{}, fmt.Errorf("unmarshalling extraction: %w", err)
	}
	return ex, nil
}

// DeleteDoc removes a stored document. Unknown filenames are a no-op.
func (s *docStore) DeleteDoc(ctx context.Context, filename string) error {
	if _, err := s.store.db.ExecContext(ctx, "DELETE FROM docs WHERE filename = ?", filename); err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}
	return nil
}

// ListFilenames returns the stored filenames in lexical order.
func (s *docStore) ListFilenames(ctx context.Context) ([]string, error) {
	rows, err := s.store.db.QueryContext(ctx, "SELECT filename FROM docs ORDER BY filename")
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning filename: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}
	return names, nil
}

// ==================== State Store ====================

// stateStore implements driven.StateStore. Each top-level state section is
// stored as one kv row, so a write replaces sections wholesale.
type stateStore struct {
	store *Store
}

var _ driven.StateStore = (*stateStore)(nil)

// LoadState reads the persisted mapping state. Missing sections keep their
// defaults so older databases load cleanly.
func (s *stateStore) LoadState(ctx context.Context) (domain.MappingState, bool, error) {
	rows, err := s.store.db.QueryContext(ctx, "SELECT key, value FROM kv")
	if err != nil {
		return domain.MappingState{}, false, fmt.Errorf("querying state: %w", err)
	}
	defer rows.Close()

	state := domain.DefaultMappingState()
	found := false
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return domain.MappingState{}, false, fmt.Errorf("scanning state row: %w", err)
		}

		var dest any
		switch key {
		case "colorMap":
			dest = &state.ColorMap
		case "codeMap":
			dest = &state.CodeMap
		case "categoryColors":
			dest = &state.CategoryColors
		case "catOverride":
			dest = &state.CatOverride
		case "meta":
			dest = &state.Meta
		case "extraCategories":
			dest = &state.ExtraCategories
		default:
			continue // Unknown key from a newer schema
		}
		if err := json.Unmarshal([]byte(value), dest); err != nil {
			return domain.MappingState{}, false, fmt.Errorf("unmarshalling state key %s: %w", key, err)
		}
		found = true
	}
	if err := rows.Err(); err != nil {
		return domain.MappingState{}, false, fmt.Errorf("iterating state: %w", err)
	}
	return state, found, nil
}

// SaveState writes the full mapping state, one row per section.
func (s *stateStore) SaveState(ctx context.Context, state domain.MappingState) error {
	sections := map[string]any{
		"colorMap":        state.ColorMap,
		"codeMap":         state.CodeMap,
		"categoryColors":  state.CategoryColors,
		"catOverride":     state.CatOverride,
		"meta":            state.Meta,
		"extraCategories": state.ExtraCategories,
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	for _, key := range domain.StateKeys {
		value, err := json.Marshal(sections[key])
		if err != nil {
			return fmt.Errorf("marshalling state key %s: %w", key, err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO kv (key, value, updated_at)
			VALUES (?, ?, ?)
			ON CONFLICT(key) DO UPDATE SET
				value = excluded.value,
				updated_at = excluded.updated_at
		`, key, string(value), now)
		if err != nil {
			return fmt.Errorf("saving state key %s: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing state: %w", err)
	}
	return nil
}
