package rdbc

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/joeycumines/go-catrate"
	"github.com/sboussekeyt/gobatch/batch"
)

// Reader pages through Binder.Table in ascending Binder.OrderBy order,
// fetching PageSize rows per query and issuing the next query only once
// the previous page is exhausted - the keyset-over-offset choice the
// teacher's sql/export.Exporter makes, for the same reason: stable
// pagination under concurrent writes.
type Reader[T any, D Dialect] struct {
	DB       *sql.DB
	Dialect  D
	Binder   Binder[T, D]
	PageSize int

	// Limiter, if set, is consulted once per page fetch under the
	// category "rdbc.page" before issuing the query.
	Limiter *catrate.Limiter

	rows         *sql.Rows
	lastID       any
	lastIDSet    bool
	pageRowCount int
	finalPage    bool
	exhausted    bool
}

func NewReader[T any, D Dialect](db *sql.DB, dialect D, binder Binder[T, D], pageSize int) *Reader[T, D] {
	return &Reader[T, D]{DB: db, Dialect: dialect, Binder: binder, PageSize: pageSize}
}

func (r *Reader[T, D]) Read(ctx context.Context) (item T, done bool, err error) {
	if r.exhausted {
		return item, true, nil
	}

	if r.rows != nil && r.rows.Next() {
		r.pageRowCount++
		item, err = r.Binder.ScanRow(r.rows)
		if err != nil {
			return item, false, err
		}
		r.lastID = r.Binder.Cursor(item)
		r.lastIDSet = true
		return item, false, nil
	}

	if r.rows != nil {
		if err := r.rows.Err(); err != nil {
			return item, false, err
		}
		if err := r.rows.Close(); err != nil {
			return item, false, err
		}
		if r.pageRowCount < r.PageSize {
			r.exhausted = true
			return item, true, nil
		}
	}

	if err := r.fetchPage(ctx); err != nil {
		return item, false, err
	}

	if !r.rows.Next() {
		r.exhausted = true
		return item, true, nil
	}

	r.pageRowCount = 1
	item, err = r.Binder.ScanRow(r.rows)
	if err != nil {
		return item, false, err
	}
	r.lastID = r.Binder.Cursor(item)
	r.lastIDSet = true
	return item, false, nil
}

func (r *Reader[T, D]) fetchPage(ctx context.Context) error {
	if r.Limiter != nil {
		if _, ok := r.Limiter.Allow(`rdbc.page`); !ok {
			return fmt.Errorf(`rdbc: page fetch rate limited`)
		}
	}

	var lastID any
	if r.lastIDSet {
		lastID = r.lastID
	} else {
		lastID = zeroCursor
	}

	snippet, err := r.Dialect.BuildPage(r.Binder.Table, r.Binder.Columns, r.Binder.OrderBy, r.PageSize, lastID)
	if err != nil {
		return err
	}

	rows, err := r.DB.QueryContext(ctx, snippet.SQL, snippet.Args...)
	if err != nil {
		return err
	}

	r.rows = rows
	return nil
}

// zeroCursor is the sentinel used for the first page's WHERE clause:
// "> zeroCursor" matches every row whose integer ordering key is
// non-negative; rows with a key of -1 or below are not read.
var zeroCursor = -1

var (
	_ batch.ItemReader[struct{}] = (*Reader[struct{}, SQLite])(nil)
)
