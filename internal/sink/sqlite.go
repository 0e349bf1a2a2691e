// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sink

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/ctgov-export/pkg/types"
)

// StudiesTable is the table written by WriteSQLite.
const StudiesTable = "studies"

// SQLColumn returns the snake_case column name used for c in the studies
// table, e.g. "NCT ID" -> "nct_id".
func SQLColumn(c types.Column) string {
	var b strings.Builder
	for _, r := range strings.ToLower(c.String()) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}

// WriteSQLite replaces path with a SQLite database holding one studies
// table. Rows keep their input order in the position column.
func WriteSQLite(path string, rows []types.Row) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing existing database: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	cols := types.Columns()
	defs := make([]string, len(cols))
	names := make([]string, len(cols))
	marks := make([]string, len(cols))
	for i, c := range cols {
		names[i] = SQLColumn(c)
		defs[i] = names[i] + " TEXT NOT NULL"
		marks[i] = "?"
	}

	create := fmt.Sprintf(`CREATE TABLE %s (
		position INTEGER PRIMARY KEY,
		%s
	)`, StudiesTable, strings.Join(defs, ",\n\t\t"))
	if _, err := db.Exec(create); err != nil {
		return fmt.Errorf("creating %s table: %w", StudiesTable, err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(fmt.Sprintf(`INSERT INTO %s (position, %s) VALUES (?, %s)`,
		StudiesTable, strings.Join(names, ", "), strings.Join(marks, ", ")))
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range rows {
		args := make([]any, 0, len(cols)+1)
		args = append(args, i)
		for _, v := range r {
			args = append(args, v)
		}
		if _, err := stmt.Exec(args...); err != nil {
			return fmt.Errorf("inserting row %d: %w", i, err)
		}
	}

	return tx.Commit()
}
