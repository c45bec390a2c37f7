// ABOUTME: Small helpers for building parameterized SQL and scanning NULLs.
// ABOUTME: Column names come from code; every value goes through a placeholder.
package storage

import (
	"database/sql"
	"strings"
	"time"

	"github.com/harperreed/fitness/internal/models"
)

// updateBuilder collects "column = ?" pairs for a partial UPDATE.
type updateBuilder struct {
	table string
	sets  []string
	args  []any
}

func newUpdate(table string) *updateBuilder {
	return &updateBuilder{table: table}
}

// set adds column = value. A nil pointer value binds NULL.
func (b *updateBuilder) set(column string, value any) *updateBuilder {
	b.sets = append(b.sets, column+" = ?")
	b.args = append(b.args, value)
	return b
}

func (b *updateBuilder) empty() bool {
	return len(b.sets) == 0
}

// build renders the statement with where appended; whereArgs follow the SET args.
func (b *updateBuilder) build(where string, whereArgs ...any) (string, []any) {
	query := "UPDATE " + b.table + " SET " + strings.Join(b.sets, ", ") + " WHERE " + where
	args := make([]any, 0, len(b.args)+len(whereArgs))
	args = append(args, b.args...)
	args = append(args, whereArgs...)
	return query, args
}

// likeContains returns a LIKE pattern matching s anywhere, with wildcards escaped.
// Pair it with ESCAPE '\'.
func likeContains(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}

// deref binds a pointer's value, or NULL when it is nil.
func deref[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}

// emptyToNil maps "" to NULL.
func emptyToNil(s *string) any {
	if s == nil || *s == "" {
		return nil
	}
	return *s
}

func formatTime(t time.Time) string {
	return models.FormatTimestamp(t)
}

func formatTimePtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return models.FormatTimestamp(*t)
}

func truncatePtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := models.Truncate(*t)
	return &v
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func intPtr(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

func floatPtr(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Float64
	return &v
}

func boolPtr(n sql.NullBool) *bool {
	if !n.Valid {
		return nil
	}
	v := n.Bool
	return &v
}

func timePtr(ns sql.NullString) (*time.Time, error) {
	if !ns.Valid {
		return nil, nil
	}
	t, err := models.ParseTimestamp(ns.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
