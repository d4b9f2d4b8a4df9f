package repository

import (
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"
)

const filterDateLayout = "2006-01-02"

// Filter accumulates optional search clauses and renders them onto a query as
// one conjunctive, fully parameterized predicate. An empty value (after
// trimming) means the filter is absent; a numeric or date value that does not
// parse is silently skipped, matching the long-standing search behavior.
//
// Column names are fixed by the calling repository, never taken from input.
type Filter struct {
	clauses []filterClause
}

type filterClause struct {
	cond string
	arg  any
}

// Text adds a case-insensitive substring match on a textual column.
func (f *Filter) Text(column, raw string) *Filter {
	v := strings.TrimSpace(raw)
	if v == "" {
		return f
	}
	f.clauses = append(f.clauses, filterClause{
		cond: "LOWER(" + column + ") LIKE ?",
		arg:  "%" + strings.ToLower(v) + "%",
	})
	return f
}

// Int adds an exact match on an integer column.
func (f *Filter) Int(column, raw string) *Filter {
	v := strings.TrimSpace(raw)
	if v == "" {
		return f
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return f
	}
	f.clauses = append(f.clauses, filterClause{cond: column + " = ?", arg: n})
	return f
}

// Date adds an exact match on a date column, expecting "2006-01-02" input.
func (f *Filter) Date(column, raw string) *Filter {
	v := strings.TrimSpace(raw)
	if v == "" {
		return f
	}
	d, err := time.Parse(filterDateLayout, v)
	if err != nil {
		return f
	}
	f.clauses = append(f.clauses, filterClause{cond: column + " = ?", arg: d})
	return f
}

// Empty reports whether no usable filter was supplied.
func (f *Filter) Empty() bool { return len(f.clauses) == 0 }

// Apply ANDs every accumulated clause onto q. With zero clauses q is returned
// untouched, so an all-empty search degrades to a plain listing.
func (f *Filter) Apply(q *gorm.DB) *gorm.DB {
	for _, c := range f.clauses {
		q = q.Where(c.cond, c.arg)
	}
	return q
}
