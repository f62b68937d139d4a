package storage

import (
	"database/sql"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/XiaoConstantine/evoprompt/pkg/errors"
	"github.com/XiaoConstantine/evoprompt/pkg/variant"
)

const indexSchema = `
CREATE TABLE IF NOT EXISTS variants (
	id         TEXT PRIMARY KEY,
	parent_id  TEXT,
	round      INTEGER NOT NULL,
	score      REAL NOT NULL,
	mutations  TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_variants_score ON variants(score DESC);
`

// Index is a SQLite-backed lineage index over every variant a run produced,
// so a finished run can be queried for ancestry and leaderboards without
// re-reading the per-variant files.
type Index struct {
	db *sql.DB
}

// IndexRow is one recorded variant.
type IndexRow struct {
	ID        string
	ParentID  string // empty for seed variants
	Round     int
	Score     float64
	Mutations []string
}

// OpenIndex opens (or creates) the index database at path.
func OpenIndex(path string) (*Index, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ResourceFailed, "failed to open lineage index")
	}
	if _, err := db.Exec(indexSchema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, errors.ResourceFailed, "failed to initialize lineage index")
	}
	return &Index{db: db}, nil
}

// Record inserts a variant observed during the given round. Re-recording an
// id updates its score, matching the loop's tolerance for re-scoring.
func (ix *Index) Record(round int, v *variant.Variant) error {
	parentID := ""
	if v.ParentID != nil {
		parentID = v.ParentID.String()
	}

	_, err := ix.db.Exec(
		`INSERT INTO variants (id, parent_id, round, score, mutations)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET score = excluded.score`,
		v.ID.String(), parentID, round, v.Score(), strings.Join(v.Mutations, ","),
	)
	if err != nil {
		return errors.WithFields(
			errors.Wrap(err, errors.ResourceFailed, "failed to record variant"),
			errors.Fields{"id": v.ID})
	}
	return nil
}

// Top returns the n highest-scoring recorded variants.
func (ix *Index) Top(n int) ([]IndexRow, error) {
	rows, err := ix.db.Query(
		`SELECT id, parent_id, round, score, mutations
		 FROM variants ORDER BY score DESC, id LIMIT ?`, n)
	if err != nil {
		return nil, errors.Wrap(err, errors.ResourceFailed, "failed to query lineage index")
	}
	defer rows.Close()

	var result []IndexRow
	for rows.Next() {
		var row IndexRow
		var mutations string
		if err := rows.Scan(&row.ID, &row.ParentID, &row.Round, &row.Score, &mutations); err != nil {
			return nil, errors.Wrap(err, errors.ResourceFailed, "failed to scan lineage row")
		}
		if mutations != "" {
			row.Mutations = strings.Split(mutations, ",")
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

// Lineage walks parent links from the given id back to its seed ancestor,
// returning rows child-first.
func (ix *Index) Lineage(id string) ([]IndexRow, error) {
	var chain []IndexRow
	for id != "" {
		row := IndexRow{}
		var mutations string
		err := ix.db.QueryRow(
			`SELECT id, parent_id, round, score, mutations FROM variants WHERE id = ?`, id).
			Scan(&row.ID, &row.ParentID, &row.Round, &row.Score, &mutations)
		if err == sql.ErrNoRows {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, errors.ResourceFailed, "failed to walk lineage")
		}
		if mutations != "" {
			row.Mutations = strings.Split(mutations, ",")
		}
		chain = append(chain, row)
		id = row.ParentID
	}
	return chain, nil
}

// Close releases the underlying database handle.
func (ix *Index) Close() error {
	return ix.db.Close()
}
