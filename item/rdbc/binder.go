package rdbc

import "database/sql"

// Binder maps between rows of Table and values of T for one Dialect D.
// Parameterizing over D means a Binder[Person, Postgres] cannot be passed
// to a Writer[Person, MySQL] - the type system enforces that a binder is
// paired with the one dialect its SQL was written for.
type Binder[T any, D Dialect] struct {
	Table   string
	Columns []string
	OrderBy string

	// ScanRow reads one row of a page query into a T.
	ScanRow func(*sql.Rows) (T, error)
	// Cursor extracts the OrderBy column's value from a T, used to page
	// to the next batch.
	Cursor func(T) any
	// Bind maps a T to positional insert arguments, in Columns order.
	Bind func(T) []any
}
