package repository

import (
	"strings"
	"time"

	"github.com/sangkips/sparta-gym-api/pkg/pagination"
	"gorm.io/gorm"
)

// SearchScope matches term case-insensitively against any of the columns.
// LOWER/LIKE keeps the query valid on both postgres and sqlite.
func SearchScope(term string, columns ...string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		term = strings.TrimSpace(term)
		if term == "" || len(columns) == 0 {
			return db
		}
		pattern := "%" + strings.ToLower(term) + "%"
		clauses := make([]string, len(columns))
		args := make([]interface{}, len(columns))
		for i, col := range columns {
			clauses[i] = "LOWER(" + col + ") LIKE ?"
			args[i] = pattern
		}
		return db.Where("("+strings.Join(clauses, " OR ")+")", args...)
	}
}

// RangeScope restricts column to [from, to). Nil bounds are open.
func RangeScope(column string, from, to *time.Time) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if from != nil {
			db = db.Where(column+" >= ?", from.UTC())
		}
		if to != nil {
			db = db.Where(column+" < ?", to.UTC())
		}
		return db
	}
}

// applyKeyset positions a newest-first listing on column after the cursor.
// Prev pages are fetched in ascending order; reverse reports that the caller
// must flip the rows back to newest first.
func applyKeyset(query *gorm.DB, column string, params *pagination.CursorParams) (q *gorm.DB, reverse bool, err error) {
	params.Validate()
	cursor, err := params.DecodeCursor()
	if err != nil {
		return nil, false, err
	}

	tuple := "(" + column + ", id)"
	if cursor == nil {
		return query.Order(column + " DESC, id DESC"), false, nil
	}

	if params.Direction == pagination.CursorDirectionPrev {
		return query.Where(tuple+" > (?, ?)", cursor.At.UTC(), cursor.ID).
			Order(column + " ASC, id ASC"), true, nil
	}
	return query.Where(tuple+" < (?, ?)", cursor.At.UTC(), cursor.ID).
		Order(column + " DESC, id DESC"), false, nil
}

func reverseInPlace[T any](items []T) {
	for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
		items[i], items[j] = items[j], items[i]
	}
}
