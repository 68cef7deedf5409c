package rdbc

import (
	"context"
	"database/sql"

	"github.com/sboussekeyt/gobatch/batch"
)

// Writer batches an entire chunk into one multi-row INSERT, executed
// inside a single transaction so the statement is the atomic commit
// boundary the engine relies on between chunks.
type Writer[T any, D Dialect] struct {
	DB      *sql.DB
	Dialect D
	Binder  Binder[T, D]
}

func NewWriter[T any, D Dialect](db *sql.DB, dialect D, binder Binder[T, D]) *Writer[T, D] {
	return &Writer[T, D]{DB: db, Dialect: dialect, Binder: binder}
}

func (w *Writer[T, D]) Write(ctx context.Context, chunk []T) error {
	if len(chunk) == 0 {
		return nil
	}

	rows := make([][]any, len(chunk))
	for i, item := range chunk {
		rows[i] = w.Binder.Bind(item)
	}

	snippet, err := w.Dialect.BuildInsert(w.Binder.Table, w.Binder.Columns, rows)
	if err != nil {
		return err
	}

	tx, err := w.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, snippet.SQL, snippet.Args...); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}

var (
	_ batch.ItemWriter[struct{}] = (*Writer[struct{}, SQLite])(nil)
)
