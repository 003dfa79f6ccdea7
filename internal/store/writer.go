package store

import (
	"database/sql"
	"fmt"

	sqlite_vec "github.com/asg017/sqlite-vec-go-bindings/cgo"
	sq "github.com/Masterminds/squirrel"
)

// Upsert atomically replaces every row for filePath: existing rows (scalar
// and both vector tables) are deleted, then rows is inserted. This matches
// the delete-then-insert upsert spec §4.6 step 4 requires, since sqlite-vec's
// vec0 virtual tables don't support INSERT OR REPLACE.
func (s *Store) Upsert(filePath string, rows []Row) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin upsert transaction: %w", err)
	}
	defer tx.Rollback()

	if err := deleteByFilePath(tx, filePath); err != nil {
		return err
	}

	for _, row := range rows {
		if row.FilePath != filePath {
			return fmt.Errorf("upsert: row file_path %q does not match target %q", row.FilePath, filePath)
		}
		if len(row.ContentVector) != s.dimension || len(row.SummaryVector) != s.dimension {
			return fmt.Errorf("upsert: row %s#%d has vector dimension mismatch (want %d)", row.FilePath, row.ChunkID, s.dimension)
		}

		res, err := sq.Insert("chunks").
			Columns("file_path", "chunk_id", "content_hash", "language", "symbol", "start_line", "end_line", "content", "summary").
			Values(row.FilePath, row.ChunkID, row.ContentHash, row.Language, row.Symbol, row.StartLine, row.EndLine, row.Content, row.Summary).
			RunWith(tx).
			Exec()
		if err != nil {
			return fmt.Errorf("insert chunk %s#%d: %w", row.FilePath, row.ChunkID, err)
		}

		rowid, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("read rowid for chunk %s#%d: %w", row.FilePath, row.ChunkID, err)
		}

		if err := insertVector(tx, ColumnContent, rowid, row.ContentVector); err != nil {
			return err
		}
		if err := insertVector(tx, ColumnSummary, rowid, row.SummaryVector); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert transaction: %w", err)
	}
	return nil
}

func insertVector(tx *sql.Tx, col Column, rowid int64, vec []float32) error {
	blob, err := sqlite_vec.SerializeFloat32(vec)
	if err != nil {
		return fmt.Errorf("serialize %s vector: %w", col, err)
	}
	_, err = sq.Insert(col.table()).Columns("rowid", "embedding").Values(rowid, blob).RunWith(tx).Exec()
	if err != nil {
		return fmt.Errorf("insert %s vector: %w", col, err)
	}
	return nil
}

// Predicate selects rows for DeleteWhere, matching the predicate forms spec
// §4.5 names. Exactly one of FilePath, FilePathIn, or FilePathNotIn should
// be set; StaleHash additionally narrows FilePath to rows whose
// content_hash differs from it.
type Predicate struct {
	FilePath      string
	FilePathIn    []string
	FilePathNotIn []string
	StaleHash     string
}

// DeleteWhere removes rows (scalar and both vector tables) matching pred.
func (s *Store) DeleteWhere(pred Predicate) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin delete transaction: %w", err)
	}
	defer tx.Rollback()

	if err := deleteWhereTx(tx, pred); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete transaction: %w", err)
	}
	return nil
}

func deleteByFilePath(tx *sql.Tx, filePath string) error {
	return deleteWhereTx(tx, Predicate{FilePath: filePath})
}

func deleteWhereTx(tx *sql.Tx, pred Predicate) error {
	selectRowids := sq.Select("rowid").From("chunks")

	switch {
	case pred.StaleHash != "" && pred.FilePath != "":
		selectRowids = selectRowids.Where(sq.Eq{"file_path": pred.FilePath}).Where(sq.NotEq{"content_hash": pred.StaleHash})
	case pred.FilePath != "":
		selectRowids = selectRowids.Where(sq.Eq{"file_path": pred.FilePath})
	case len(pred.FilePathIn) > 0:
		selectRowids = selectRowids.Where(sq.Eq{"file_path": pred.FilePathIn})
	case len(pred.FilePathNotIn) > 0:
		selectRowids = selectRowids.Where(sq.NotEq{"file_path": pred.FilePathNotIn})
	default:
		return fmt.Errorf("delete_where: empty predicate")
	}

	sqlStr, args, err := selectRowids.ToSql()
	if err != nil {
		return fmt.Errorf("build delete predicate: %w", err)
	}

	for _, table := range []string{ColumnContent.table(), ColumnSummary.table()} {
		stmt := fmt.Sprintf("DELETE FROM %s WHERE rowid IN (%s)", table, sqlStr)
		if _, err := tx.Exec(stmt, args...); err != nil {
			return fmt.Errorf("delete from %s: %w", table, err)
		}
	}

	deleteSQL := fmt.Sprintf("DELETE FROM chunks WHERE rowid IN (%s)", sqlStr)
	if _, err := tx.Exec(deleteSQL, args...); err != nil {
		return fmt.Errorf("delete from chunks: %w", err)
	}

	return nil
}
