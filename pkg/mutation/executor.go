// Package mutation applies batches of pending row changes to relational
// engines as one all-or-nothing unit.
//
// Values and primary keys are rendered as escaped literals (see FormatValue
// and FormatPrimaryKey) so that text-carried keys match numeric and UUID
// columns alike; identifiers are quoted by the dialect.
package mutation

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/leapstack-labs/leapdb/pkg/core"
	"github.com/leapstack-labs/leapdb/pkg/dialect"
)

// BuildStatement renders the single statement for one change.
func BuildStatement(d *dialect.Dialect, table, pkColumn string, ch core.PendingChange) (string, error) {
	t := d.QuoteIdentifier(table)
	switch ch.ChangeType {
	case core.ChangeUpdate:
		return fmt.Sprintf("UPDATE %s SET %s = %s WHERE %s = %s",
			t, d.QuoteIdentifier(ch.Column), FormatValue(ch.NewValue),
			d.QuoteIdentifier(pkColumn), FormatPrimaryKey(ch.RowID)), nil
	case core.ChangeDelete:
		return fmt.Sprintf("DELETE FROM %s WHERE %s = %s",
			t, d.QuoteIdentifier(pkColumn), FormatPrimaryKey(ch.RowID)), nil
	case core.ChangeInsert:
		return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
			t, d.QuoteIdentifier(ch.Column), FormatValue(ch.NewValue)), nil
	default:
		return "", fmt.Errorf("unknown change type %q", ch.ChangeType)
	}
}

// Execute applies changes in order inside one transaction. Every change is
// attempted; each failure is recorded as "{type}: {err}". If any change
// failed the transaction is rolled back and RowsAffected is zero, otherwise
// it is committed.
//
// On dialects where a failed statement poisons the transaction, each change
// runs under its own savepoint so later changes are still attempted and
// report their own outcome.
func Execute(ctx context.Context, db *sqlx.DB, d *dialect.Dialect, table, pkColumn string, changes []core.PendingChange) (*core.ExecuteResult, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection not established")
	}
	if d == nil {
		return nil, dialect.ErrDialectRequired
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, core.NewQueryError(fmt.Errorf("failed to begin transaction: %w", err))
	}

	var (
		affected int64
		errs     []string
	)
	for i, ch := range changes {
		n, err := applyOne(ctx, tx, d, table, pkColumn, ch, i)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", ch.ChangeType, err))
			continue
		}
		affected += n
	}

	if len(errs) > 0 {
		if err := tx.Rollback(); err != nil {
			errs = append(errs, fmt.Sprintf("rollback: %v", err))
		}
		return &core.ExecuteResult{Success: false, RowsAffected: 0, Errors: errs}, nil
	}

	if err := tx.Commit(); err != nil {
		return nil, core.NewQueryError(fmt.Errorf("failed to commit transaction: %w", err))
	}
	return &core.ExecuteResult{Success: true, RowsAffected: affected, Errors: []string{}}, nil
}

func applyOne(ctx context.Context, tx *sqlx.Tx, d *dialect.Dialect, table, pkColumn string, ch core.PendingChange, idx int) (int64, error) {
	stmt, err := BuildStatement(d, table, pkColumn, ch)
	if err != nil {
		return 0, err
	}

	savepoint := ""
	if d.AbortsTxOnError {
		savepoint = fmt.Sprintf("change_%d", idx)
		if _, err := tx.ExecContext(ctx, "SAVEPOINT "+savepoint); err != nil {
			return 0, err
		}
	}

	res, err := tx.ExecContext(ctx, stmt)
	if err != nil {
		if savepoint != "" {
			_, _ = tx.ExecContext(ctx, "ROLLBACK TO SAVEPOINT "+savepoint)
		}
		return 0, err
	}
	if savepoint != "" {
		if _, err := tx.ExecContext(ctx, "RELEASE SAVEPOINT "+savepoint); err != nil {
			return 0, err
		}
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, nil
	}
	return n, nil
}
