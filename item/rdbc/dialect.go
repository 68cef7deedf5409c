// Package rdbc provides ItemReader and ItemWriter implementations over
// database/sql, polymorphic across SQL dialects via the Dialect
// interface, in the style of the teacher's sql/export package (Dialect,
// Snippet, and an UnimplementedDialect embedding trick for forward
// compatibility).
package rdbc

import (
	"errors"
	"fmt"
	"strings"
)

// Snippet models a SQL statement plus its positional arguments.
type Snippet struct {
	SQL  string
	Args []any
}

// Dialect builds the two statement shapes a keyset-paginated reader and a
// multi-row writer need. Every dialect must embed UnimplementedDialect,
// matching sql/export.Dialect's forward-compatibility contract.
type Dialect interface {
	BuildPage(table string, columns []string, orderBy string, pageSize int, lastID any) (*Snippet, error)
	BuildInsert(table string, columns []string, rows [][]any) (*Snippet, error)

	mustEmbedUnimplementedDialect()
}

// UnimplementedDialect is embedded by dialects that want sensible zero-
// value errors for any method a future Dialect addition introduces.
type UnimplementedDialect struct{}

var ErrUnimplemented = errors.New(`rdbc: unimplemented`)

func (UnimplementedDialect) mustEmbedUnimplementedDialect() {}

func (UnimplementedDialect) BuildPage(string, []string, string, int, any) (*Snippet, error) {
	return nil, fmt.Errorf(`build page: %w`, ErrUnimplemented)
}

func (UnimplementedDialect) BuildInsert(string, []string, [][]any) (*Snippet, error) {
	return nil, fmt.Errorf(`build insert: %w`, ErrUnimplemented)
}

// SQLite and Postgres/MySQL share keyset-pagination shape, differing only
// in placeholder syntax ('?' vs '$n').

type SQLite struct{ UnimplementedDialect }

var _ Dialect = SQLite{}

func (SQLite) BuildPage(table string, columns []string, orderBy string, pageSize int, lastID any) (*Snippet, error) {
	sql := fmt.Sprintf(`SELECT %s FROM %s WHERE %s > ? ORDER BY %s ASC LIMIT ?`,
		strings.Join(columns, `, `), table, orderBy, orderBy)
	return &Snippet{SQL: sql, Args: []any{lastID, pageSize}}, nil
}

func (SQLite) BuildInsert(table string, columns []string, rows [][]any) (*Snippet, error) {
	return buildInsertQMarks(table, columns, rows)
}

type Postgres struct{ UnimplementedDialect }

var _ Dialect = Postgres{}

func (Postgres) BuildPage(table string, columns []string, orderBy string, pageSize int, lastID any) (*Snippet, error) {
	sql := fmt.Sprintf(`SELECT %s FROM %s WHERE %s > $1 ORDER BY %s ASC LIMIT $2`,
		strings.Join(columns, `, `), table, orderBy, orderBy)
	return &Snippet{SQL: sql, Args: []any{lastID, pageSize}}, nil
}

func (Postgres) BuildInsert(table string, columns []string, rows [][]any) (*Snippet, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, `INSERT INTO %s (%s) VALUES `, table, strings.Join(columns, `, `))

	args := make([]any, 0, len(rows)*len(columns))
	n := 1
	for i, row := range rows {
		if i > 0 {
			sb.WriteString(`, `)
		}
		sb.WriteByte('(')
		for j := range columns {
			if j > 0 {
				sb.WriteString(`, `)
			}
			fmt.Fprintf(&sb, `$%d`, n)
			n++
		}
		sb.WriteByte(')')
		args = append(args, row...)
	}

	return &Snippet{SQL: sb.String(), Args: args}, nil
}

type MySQL struct{ UnimplementedDialect }

var _ Dialect = MySQL{}

func (MySQL) BuildPage(table string, columns []string, orderBy string, pageSize int, lastID any) (*Snippet, error) {
	sql := fmt.Sprintf(`SELECT %s FROM %s WHERE %s > ? ORDER BY %s ASC LIMIT ?`,
		strings.Join(columns, `, `), table, orderBy, orderBy)
	return &Snippet{SQL: sql, Args: []any{lastID, pageSize}}, nil
}

func (MySQL) BuildInsert(table string, columns []string, rows [][]any) (*Snippet, error) {
	return buildInsertQMarks(table, columns, rows)
}

func buildInsertQMarks(table string, columns []string, rows [][]any) (*Snippet, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, `INSERT INTO %s (%s) VALUES `, table, strings.Join(columns, `, `))

	placeholders := `(` + strings.TrimSuffix(strings.Repeat(`?, `, len(columns)), `, `) + `)`
	args := make([]any, 0, len(rows)*len(columns))
	for i, row := range rows {
		if i > 0 {
			sb.WriteString(`, `)
		}
		sb.WriteString(placeholders)
		args = append(args, row...)
	}

	return &Snippet{SQL: sb.String(), Args: args}, nil
}
