// Package sqlxrepos implements the repositories on PostgreSQL.
// Queries are built with sqlboiler's query mods and run with sqlx.
package sqlxrepos

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/sqlboiler/v4/drivers"
	"github.com/volatiletech/sqlboiler/v4/queries"
	"github.com/volatiletech/sqlboiler/v4/queries/qm"
	"github.com/volatiletech/strmangle"

	"github.com/trezcool/rekodi/core"
)

var dialect = drivers.Dialect{
	LQ:                   '"',
	RQ:                   '"',
	UseIndexPlaceholders: true,
}

// NewDB wraps a postgres connection for the repositories.
func NewDB(db *sql.DB) *sqlx.DB {
	return sqlx.NewDb(db, "postgres")
}

// build returns the SQL and arguments of a SELECT query.
func build(mods ...qm.QueryMod) (string, []interface{}) {
	q := &queries.Query{}
	queries.SetDialect(q, &dialect)
	qm.Apply(q, mods...)
	return queries.BuildQuery(q)
}

// orderBy orders by the sortable fields of ordering, then by id.
// sortable maps JSON field names to their column: "schoolTermId" to "school_term_id".
func orderBy(ordering []core.DBOrdering, sortable map[string]string) qm.QueryMod {
	clauses := make([]string, 0, len(ordering)+1)
	for _, ord := range ordering {
		col, ok := sortable[ord.Field]
		if !ok || col == "id" {
			continue
		}
		dir := "DESC"
		if ord.Ascending {
			dir = "ASC"
		}
		clauses = append(clauses, strmangle.IdentQuote(dialect.LQ, dialect.RQ, col)+" "+dir)
	}
	clauses = append(clauses, `"id" ASC`)
	return qm.OrderBy(strings.Join(clauses, ", "))
}

// namedInsert returns an INSERT ... RETURNING id statement on the named columns (all but id).
func namedInsert(table string, columns []string) string {
	cols := make([]string, 0, len(columns))
	params := make([]string, 0, len(columns))
	for _, col := range columns {
		if col == "id" {
			continue
		}
		cols = append(cols, fmt.Sprintf(`"%s"`, col))
		params = append(params, ":"+col)
	}
	return fmt.Sprintf(`INSERT INTO "%s" (%s) VALUES (%s) RETURNING "id"`,
		table, strings.Join(cols, ", "), strings.Join(params, ", "))
}

// namedUpdate returns an UPDATE statement of the named columns (all but id), by id.
func namedUpdate(table string, columns []string) string {
	sets := make([]string, 0, len(columns))
	for _, col := range columns {
		if col == "id" {
			continue
		}
		sets = append(sets, fmt.Sprintf(`"%s" = :%s`, col, col))
	}
	return fmt.Sprintf(`UPDATE "%s" SET %s WHERE "id" = :id`, table, strings.Join(sets, ", "))
}

func insert(ctx context.Context, db sqlx.ExtContext, table string, columns []string, row interface{}) (int, error) {
	query, args, err := sqlx.Named(namedInsert(table, columns), row)
	if err != nil {
		return 0, errors.Wrap(err, "binding "+table)
	}
	var id int
	if err := sqlx.GetContext(ctx, db, &id, db.Rebind(query), args...); err != nil {
		return 0, errors.Wrap(err, "inserting "+table)
	}
	return id, nil
}

// update returns errNotFound if no row has the id of row.
func update(ctx context.Context, db *sqlx.DB, table string, columns []string, row interface{}, errNotFound error) error {
	res, err := db.NamedExecContext(ctx, namedUpdate(table, columns), row)
	if err != nil {
		return errors.Wrap(err, "updating "+table)
	}
	return checkAffected(res, errNotFound)
}

func deleteByID(ctx context.Context, db *sqlx.DB, table string, id int, errNotFound error) error {
	res, err := db.ExecContext(ctx, db.Rebind(fmt.Sprintf(`DELETE FROM "%s" WHERE "id" = ?`, table)), id)
	if err != nil {
		return errors.Wrap(err, "deleting "+table)
	}
	return checkAffected(res, errNotFound)
}

func checkAffected(res sql.Result, errNotFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "counting affected rows")
	}
	if n == 0 {
		return errNotFound
	}
	return nil
}

// getByID scans the row with this id into dest.
func getByID(ctx context.Context, db *sqlx.DB, dest interface{}, table string, columns []string, id int, errNotFound error) error {
	query, args := build(qm.Select(columns...), qm.From(table), qm.Where(`"id" = ?`, id), qm.Limit(1))
	return trapNoRowsErr(db.GetContext(ctx, dest, query, args...), errNotFound, "finding "+table)
}

// trapNoRowsErr maps psql "no rows" err to errNotFound
func trapNoRowsErr(err, errNotFound error, msg string) error {
	if err == nil {
		return nil
	}
	if errors.Cause(err) == sql.ErrNoRows {
		return errNotFound
	}
	return errors.Wrap(err, msg)
}

// withTx runs fn in a transaction, committed if fn succeeds.
func withTx(ctx context.Context, db *sqlx.DB, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "beginning transaction")
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return errors.Wrap(tx.Commit(), "committing transaction")
}
