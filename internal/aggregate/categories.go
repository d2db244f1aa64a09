package aggregate

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/bcorrigan/shelfcontrol/internal/model"
)

// CategorizeAlphabetical buckets every key starting with prefix (matched
// case-insensitively) by the single uppercase character immediately
// following prefix, summing each bucket's book count and dropping buckets
// whose total does not exceed floor. With prefix="" this yields first-letter
// buckets across the whole table; drilling into a returned bucket's prefix
// narrows the view one character at a time. This is a grouping of rows the
// counts table already holds, not a search-index operation, so it runs as
// plain SQL + in-memory bucketing rather than a bleve facet query.
func (s *Store) CategorizeAlphabetical(desc TableDescriptor, prefix string, floor int64) (model.CategoryResult, error) {
	upperPrefix := strings.ToUpper(prefix)
	rows, err := s.rowsWithPrefix(desc, upperPrefix)
	if err != nil {
		return model.CategoryResult{}, err
	}

	buckets := map[string]int64{}
	for _, r := range rows {
		upperKey := strings.ToUpper(r.Key)
		if len(upperKey) <= len(upperPrefix) {
			continue
		}
		next, _ := utf8.DecodeRuneInString(upperKey[len(upperPrefix):])
		buckets[upperPrefix+string(next)] += r.Count
	}

	cats := make([]model.Category, 0, len(buckets))
	total := 0
	for bucket, count := range buckets {
		if count <= floor {
			continue
		}
		cats = append(cats, model.Category{Prefix: bucket, Count: int(count)})
		total += int(count)
	}
	sort.Slice(cats, func(i, j int) bool { return cats[i].Prefix < cats[j].Prefix })

	return model.CategoryResult{Count: total, Categories: cats}, nil
}

// CategorizeByValue lists every distinct key starting with prefix
// (case-insensitive match, original case preserved in the result) as its
// own category, sorted ascending by key. This is the "exploded" view used
// once an alphabetical bucket is small enough to list individually.
func (s *Store) CategorizeByValue(desc TableDescriptor, prefix string) (model.CategoryResult, error) {
	rows, err := s.rowsWithPrefix(desc, strings.ToUpper(prefix))
	if err != nil {
		return model.CategoryResult{}, err
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Key < rows[j].Key })

	cats := make([]model.Category, 0, len(rows))
	for _, r := range rows {
		cats = append(cats, model.Category{Prefix: r.Key, Count: int(r.Count)})
	}
	return model.CategoryResult{Count: len(cats), Categories: cats}, nil
}

// rowsWithPrefix fetches every row whose key starts with upperPrefix,
// matched case-insensitively via SQLite's ASCII-case-insensitive LIKE.
func (s *Store) rowsWithPrefix(desc TableDescriptor, upperPrefix string) ([]model.CountRow, error) {
	query := fmt.Sprintf("SELECT %s, count FROM %s", desc.KeyCol, desc.Table)
	args := []any{}
	if upperPrefix != "" {
		query += fmt.Sprintf(" WHERE %s LIKE ?", desc.KeyCol)
		args = append(args, upperPrefix+"%")
	}

	dbRows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, model.NewDbError("query "+desc.Table, err)
	}
	defer dbRows.Close()

	var rows []model.CountRow
	for dbRows.Next() {
		var r model.CountRow
		if err := dbRows.Scan(&r.Key, &r.Count); err != nil {
			return nil, model.NewDbError("scan row", err)
		}
		rows = append(rows, r)
	}
	if err := dbRows.Err(); err != nil {
		return nil, model.NewDbError("iterate rows", err)
	}
	return rows, nil
}
