// Package orm holds the small gorm helpers shared by the SQL repositories.
package orm

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
)

// Query wraps a *gorm.DB bound to a context.
type Query struct {
	db *gorm.DB
}

func New(ctx context.Context, db *gorm.DB) *Query {
	return &Query{db: db.WithContext(ctx)}
}

func (q *Query) Model(v interface{}) *Query {
	return &Query{db: q.db.Model(v)}
}

func (q *Query) Where(query string, args ...interface{}) *Query {
	return &Query{db: q.db.Where(query, args...)}
}

// WhereIf applies the condition only when cond is true.
func (q *Query) WhereIf(cond bool, query string, args ...interface{}) *Query {
	if !cond {
		return q
	}
	return q.Where(query, args...)
}

// Search adds a case-insensitive LIKE over columns when term is non-empty.
func (q *Query) Search(term string, columns ...string) *Query {
	term = strings.TrimSpace(term)
	if term == "" || len(columns) == 0 {
		return q
	}
	like := "%" + strings.ToLower(term) + "%"
	parts := make([]string, len(columns))
	args := make([]interface{}, len(columns))
	for i, c := range columns {
		parts[i] = "LOWER(" + c + ") LIKE ?"
		args[i] = like
	}
	return q.Where("("+strings.Join(parts, " OR ")+")", args...)
}

func (q *Query) Order(value string) *Query {
	return &Query{db: q.db.Order(value)}
}

func (q *Query) Get(dest interface{}) error {
	return q.db.Find(dest).Error
}

func (q *Query) First(dest interface{}) error {
	return q.db.First(dest).Error
}

func (q *Query) Count() (int64, error) {
	var n int64
	err := q.db.Count(&n).Error
	return n, err
}

// Paginate counts the matching rows, then loads one page of them into dest.
func (q *Query) Paginate(dest interface{}, offset, limit int) (int64, error) {
	var total int64
	if err := q.db.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return 0, err
	}
	if total == 0 {
		return 0, nil
	}
	return total, q.db.Offset(offset).Limit(limit).Find(dest).Error
}

// IsNotFound reports whether err is gorm's record-not-found.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// IsDuplicate reports a unique-constraint violation across the supported
// dialects.
func IsDuplicate(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "duplicate entry")
}
