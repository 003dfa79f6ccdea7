package store

import (
	"database/sql"
	"fmt"
	"path/filepath"
)

// Config identifies where a Store lives and the embedding identity it must
// match.
type Config struct {
	Dir       string // directory holding chunks.db and manifest.json
	ModelID   string
	Dimension int
}

// Store is the VectorStore capability from spec §4.5: a persistent table
// of chunk rows with two vector columns, supporting upsert, delete-where,
// k-NN, and administrative stats/clear. Rows are written and deleted only
// by the Indexer or the explicit db clear operation; Retriever access is
// read-only.
type Store struct {
	db        *sql.DB
	dimension int
}

// Open opens or creates the store at cfg.Dir. If a manifest already exists
// there and its model_id/dimension disagree with cfg, Open returns
// ErrModelMismatch without touching the database.
func Open(cfg Config) (*Store, error) {
	if _, err := loadOrCreateManifest(cfg.Dir, cfg.ModelID, cfg.Dimension); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(cfg.Dir, "chunks.db")
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", dbPath, err)
	}

	// One in-flight write per file_path is all the Indexer issues
	// concurrently (spec §5); a couple of spare connections let reads
	// (Retriever, db stats) proceed alongside an in-flight write without
	// serializing through a single *sql.Conn.
	db.SetMaxOpenConns(4)

	if err := createSchema(db, cfg.Dimension); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, dimension: cfg.Dimension}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Stats reports file_count, chunk_count, and the store's configured
// dimension.
func (s *Store) Stats() (fileCount, chunkCount, dimension int, err error) {
	if err = s.db.QueryRow("SELECT COUNT(DISTINCT file_path) FROM chunks").Scan(&fileCount); err != nil {
		return 0, 0, 0, fmt.Errorf("count files: %w", err)
	}
	if err = s.db.QueryRow("SELECT COUNT(*) FROM chunks").Scan(&chunkCount); err != nil {
		return 0, 0, 0, fmt.Errorf("count chunks: %w", err)
	}
	return fileCount, chunkCount, s.dimension, nil
}

// Clear removes every row from the chunks table and both vector tables.
// It backs the explicit administrative db clear operation (spec §3's
// lifecycle note) and is also called by Index when Options.Reindex is set.
func (s *Store) Clear() error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin clear transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{
		"DELETE FROM chunks",
		"DELETE FROM " + ColumnContent.table(),
		"DELETE FROM " + ColumnSummary.table(),
	} {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("clear: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit clear transaction: %w", err)
	}
	return nil
}

// ListFileHashes returns the snapshot of file_path -> content_hash the
// Indexer diffs against on each run (spec §4.6 step 2).
func (s *Store) ListFileHashes() (map[string]string, error) {
	rows, err := s.db.Query("SELECT DISTINCT file_path, content_hash FROM chunks")
	if err != nil {
		return nil, fmt.Errorf("list file hashes: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var filePath, hash string
		if err := rows.Scan(&filePath, &hash); err != nil {
			return nil, fmt.Errorf("scan file hash: %w", err)
		}
		out[filePath] = hash
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate file hashes: %w", err)
	}
	return out, nil
}
