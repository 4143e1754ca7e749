package store

import (
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/quarry-games/pentad/internal/ir"
)

//go:embed schema.sql
var schemaSQL string

// ErrNotFound is returned when a save id does not exist.
var ErrNotFound = errors.New("save not found")

// Store provides durable storage for saved games.
// Uses SQLite with WAL mode for concurrent read access.
type Store struct {
	db *sql.DB
}

// SaveInfo is the listing metadata of one saved game.
type SaveInfo struct {
	ID        string
	Name      string
	Datapacks []string
	CreatedAt string
}

// Open creates or opens a SQLite database at the given path.
// Applies required pragmas and the schema automatically; safe to call
// on an existing database.
//
// The database is configured with:
//   - WAL mode for concurrent reads during writes
//   - NORMAL synchronous mode (balance durability/performance)
//   - 5-second busy timeout for lock contention
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite supports one writer at a time; a single connection avoids
	// SQLITE_BUSY errors.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &Store{db: db}, nil
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("%s: %w", pragma, err)
		}
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SaveGame stores a serialized game under a user-chosen name and
// returns the save id. The document is written in canonical JSON so
// identical states produce identical rows.
func (s *Store) SaveGame(name string, doc *ir.SaveDoc) (string, error) {
	raw, err := ir.MarshalCanonical(doc)
	if err != nil {
		return "", fmt.Errorf("encoding save document: %w", err)
	}
	packs, err := json.Marshal(doc.Datapacks)
	if err != nil {
		return "", fmt.Errorf("encoding datapack list: %w", err)
	}

	id := uuid.NewString()
	_, err = s.db.Exec(
		"INSERT INTO saves (id, name, datapacks, doc) VALUES (?, ?, ?, ?)",
		id, name, string(packs), string(raw),
	)
	if err != nil {
		return "", fmt.Errorf("inserting save: %w", err)
	}
	return id, nil
}

// LoadGame retrieves a save document by id.
func (s *Store) LoadGame(id string) (*ir.SaveDoc, error) {
	var raw string
	err := s.db.QueryRow("SELECT doc FROM saves WHERE id = ?", id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying save: %w", err)
	}

	var doc ir.SaveDoc
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, fmt.Errorf("decoding save document: %w", err)
	}
	return &doc, nil
}

// List returns the metadata of every save, newest first, ties broken
// by id for a stable order.
func (s *Store) List() ([]SaveInfo, error) {
	rows, err := s.db.Query(
		"SELECT id, name, datapacks, created_at FROM saves ORDER BY created_at DESC, id")
	if err != nil {
		return nil, fmt.Errorf("listing saves: %w", err)
	}
	defer rows.Close()

	var infos []SaveInfo
	for rows.Next() {
		var info SaveInfo
		var packs string
		if err := rows.Scan(&info.ID, &info.Name, &packs, &info.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning save row: %w", err)
		}
		if err := json.Unmarshal([]byte(packs), &info.Datapacks); err != nil {
			return nil, fmt.Errorf("decoding datapack list: %w", err)
		}
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

// Delete removes a save by id.
func (s *Store) Delete(id string) error {
	res, err := s.db.Exec("DELETE FROM saves WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting save: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}
