package store

import (
	"fmt"
	"strings"

	sqlite_vec "github.com/asg017/sqlite-vec-go-bindings/cgo"
)

// Filter narrows a KNN search to a subset of file paths, pushed down into
// the vector scan as a "rowid IN (...)" clause per SPEC_FULL.md D.5. A nil
// Filter searches the whole column.
type Filter struct {
	FilePaths []string
}

// Match is one KNN hit: the persisted row plus the raw L2 distance it was
// retrieved at. Lower Distance means more similar (spec §4.5/§4.7).
type Match struct {
	Row
	Distance float64
}

// KNN performs k-nearest-neighbor search against column using Euclidean
// (L2) distance via sqlite-vec's vec_distance_l2 — smaller is more similar
// — breaking ties by (file_path, chunk_id) ascending (spec §4.5). Grounded
// on the teacher's QueryVectorSimilarity shape (brute-force distance
// function + ORDER BY + LIMIT over the vec0 table), generalized to two
// vector columns and L2 instead of the teacher's own-domain cosine
// distance, which the spec does not use.
func (s *Store) KNN(column Column, query []float32, k int, filter *Filter) ([]Match, error) {
	if len(query) != s.dimension {
		return nil, fmt.Errorf("knn: query vector has dimension %d, store configured for %d", len(query), s.dimension)
	}

	queryBlob, err := sqlite_vec.SerializeFloat32(query)
	if err != nil {
		return nil, fmt.Errorf("serialize query vector: %w", err)
	}

	args := []any{queryBlob}
	rowidFilter := ""
	if filter != nil && len(filter.FilePaths) > 0 {
		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(filter.FilePaths)), ",")
		rowidFilter = fmt.Sprintf("WHERE v.rowid IN (SELECT rowid FROM chunks WHERE file_path IN (%s))", placeholders)
		for _, p := range filter.FilePaths {
			args = append(args, p)
		}
	}
	args = append(args, k)

	sqlStr := fmt.Sprintf(`
		SELECT c.file_path, c.chunk_id, c.content_hash, c.language, c.symbol,
		       c.start_line, c.end_line, c.content, c.summary, v.distance
		FROM (
			SELECT rowid, vec_distance_l2(embedding, ?) AS distance
			FROM %s
		) v
		JOIN chunks c ON c.rowid = v.rowid
		%s
		ORDER BY v.distance, c.file_path, c.chunk_id
		LIMIT ?
	`, column.table(), rowidFilter)

	rows, err := s.db.Query(sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("knn query on %s: %w", column, err)
	}
	defer rows.Close()

	var out []Match
	for rows.Next() {
		var m Match
		var summary *string
		if err := rows.Scan(&m.FilePath, &m.ChunkID, &m.ContentHash, &m.Language, &m.Symbol,
			&m.StartLine, &m.EndLine, &m.Content, &summary, &m.Distance); err != nil {
			return nil, fmt.Errorf("scan knn row: %w", err)
		}
		m.Summary = summary
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate knn rows: %w", err)
	}

	return out, nil
}
