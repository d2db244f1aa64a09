// Package aggregate implements the relational counts store: three
// key->count tables (authors, publishers, tags) backed by a single-file
// embedded SQL engine, queried with a polymorphic descriptor rather than
// three duplicated code paths.
package aggregate

import (
	"database/sql"
	"fmt"
	"os"
	"runtime"

	_ "modernc.org/sqlite"

	"github.com/bcorrigan/shelfcontrol/internal/model"
)

// TableDescriptor names one of the three aggregate tables and its key
// column, so callers can share a single code path across authors,
// publishers, and tags.
type TableDescriptor struct {
	Table  string
	KeyCol string
}

var (
	Authors    = TableDescriptor{Table: "authors", KeyCol: "creator"}
	Publishers = TableDescriptor{Table: "publishers", KeyCol: "publisher"}
	Tags       = TableDescriptor{Table: "tags", KeyCol: "tag"}
)

// Store wraps the counts database. It refuses to open over an existing
// file, matching the indexer's full-rebuild-only contract.
type Store struct {
	db *sql.DB
}

// Create opens a brand-new counts database at path, issuing CREATE TABLE
// for all three descriptor tables. path must not already exist.
func Create(path string) (*Store, error) {
	if _, err := os.Stat(path); err == nil {
		return nil, model.NewInitError(fmt.Sprintf("aggregate store %q already exists", path), nil)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, model.NewInitError("open aggregate store", err)
	}
	db.SetMaxOpenConns(min(runtime.NumCPU(), 4))

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, model.NewInitError("set journal mode", err)
	}

	for _, desc := range []TableDescriptor{Authors, Publishers, Tags} {
		stmt := fmt.Sprintf(
			"CREATE TABLE %s (%s TEXT PRIMARY KEY, count INTEGER NOT NULL)",
			desc.Table, desc.KeyCol,
		)
		if _, err := db.Exec(stmt); err != nil {
			return nil, model.NewInitError("create table "+desc.Table, err)
		}
	}

	return &Store{db: db}, nil
}

// Open opens an existing counts database for read-only serving.
func Open(path string) (*Store, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, model.NewInitError(fmt.Sprintf("aggregate store %q does not exist", path), err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, model.NewInitError("open aggregate store", err)
	}
	db.SetMaxOpenConns(min(runtime.NumCPU(), 4))
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// WriteCounts bulk-inserts a key->count map into the named table inside a
// single transaction. No per-row commit is required.
func (s *Store) WriteCounts(desc TableDescriptor, counts map[string]int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return model.NewDbError("begin transaction", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(fmt.Sprintf(
		"INSERT INTO %s (%s, count) VALUES (?, ?)", desc.Table, desc.KeyCol,
	))
	if err != nil {
		return model.NewDbError("prepare insert", err)
	}
	defer stmt.Close()

	for key, count := range counts {
		if key == "" {
			continue
		}
		if _, err := stmt.Exec(key, count); err != nil {
			return model.NewDbError("insert row", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return model.NewDbError("commit transaction", err)
	}
	return nil
}

// GetCounts returns a page of (key, count) rows from the named table,
// ordered by count or by key, ascending or descending, optionally filtered
// by a LIKE substring match on the key column. The total row count
// (ignoring offset/limit) is computed in the same query via COUNT(*) OVER().
func (s *Store) GetCounts(desc TableDescriptor, orderByCount, ascending bool, offset, limit int, filter string) (total int, rows []model.CountRow, err error) {
	orderCol := desc.KeyCol
	if orderByCount {
		orderCol = "count"
	}
	direction := "DESC"
	if ascending {
		direction = "ASC"
	}

	query := fmt.Sprintf(
		"SELECT %s, count, COUNT(*) OVER() AS total FROM %s",
		desc.KeyCol, desc.Table,
	)
	args := []any{}
	if filter != "" {
		query += fmt.Sprintf(" WHERE %s LIKE ?", desc.KeyCol)
		args = append(args, "%"+filter+"%")
	}
	query += fmt.Sprintf(" ORDER BY %s %s LIMIT ? OFFSET ?", orderCol, direction)
	args = append(args, limit, offset)

	dbRows, err := s.db.Query(query, args...)
	if err != nil {
		return 0, nil, model.NewDbError("query "+desc.Table, err)
	}
	defer dbRows.Close()

	for dbRows.Next() {
		var r model.CountRow
		if err := dbRows.Scan(&r.Key, &r.Count, &total); err != nil {
			return 0, nil, model.NewDbError("scan row", err)
		}
		rows = append(rows, r)
	}
	if err := dbRows.Err(); err != nil {
		return 0, nil, model.NewDbError("iterate rows", err)
	}
	return total, rows, nil
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
