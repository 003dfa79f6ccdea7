// Package store implements the VectorStore capability: a sqlite-backed
// table of chunk rows with two sqlite-vec vector columns (content and
// summary), grounded on the teacher's internal/storage package shape
// (schema.go/vector_index.go/chunk_reader.go/chunk_writer.go) but trimmed
// to the single chunks table this spec needs and generalized from one
// vector column to two.
package store

import (
	"database/sql"
	"fmt"

	sqlite_vec "github.com/asg017/sqlite-vec-go-bindings/cgo"
	_ "github.com/mattn/go-sqlite3"
)

func init() {
	sqlite_vec.Auto()
}

const createChunksTable = `
CREATE TABLE IF NOT EXISTS chunks (
	rowid        INTEGER PRIMARY KEY,
	file_path    TEXT NOT NULL,
	chunk_id     INTEGER NOT NULL,
	content_hash TEXT NOT NULL,
	language     TEXT NOT NULL,
	symbol       TEXT NOT NULL,
	start_line   INTEGER NOT NULL,
	end_line     INTEGER NOT NULL,
	content      TEXT NOT NULL,
	summary      TEXT,
	UNIQUE(file_path, chunk_id)
)
`

const createChunksFilePathIndex = `
CREATE INDEX IF NOT EXISTS idx_chunks_file_path ON chunks(file_path)
`

// createSchema creates the chunks table and its two vec0 sibling tables,
// chunks_content_vec and chunks_summary_vec, each sharing chunks.rowid as
// its own rowid so a KNN hit joins straight back to the scalar row.
func createSchema(db *sql.DB, dimension int) error {
	if _, err := db.Exec(createChunksTable); err != nil {
		return fmt.Errorf("create chunks table: %w", err)
	}
	if _, err := db.Exec(createChunksFilePathIndex); err != nil {
		return fmt.Errorf("create chunks file_path index: %w", err)
	}

	for _, col := range []Column{ColumnContent, ColumnSummary} {
		ddl := fmt.Sprintf(
			"CREATE VIRTUAL TABLE IF NOT EXISTS %s USING vec0(embedding float[%d])",
			col.table(), dimension,
		)
		if _, err := db.Exec(ddl); err != nil {
			return fmt.Errorf("create vector table %s: %w", col.table(), err)
		}
	}

	return nil
}

// Column identifies which of the two vector columns a KNN search targets.
type Column string

const (
	ColumnContent Column = "content_vector"
	ColumnSummary Column = "summary_vector"
)

func (c Column) table() string {
	switch c {
	case ColumnContent:
		return "chunks_content_vec"
	case ColumnSummary:
		return "chunks_summary_vec"
	default:
		return ""
	}
}
