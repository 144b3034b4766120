package sqlite

import (
	"context"
	"database/sql"
	stderrors "errors"
	"strings"

	"daylog/internal/errors"
)

// classify turns a driver error into an AppError. Deadline overruns become
// timeouts and constraint violations on a primary key become conflicts.
func classify(operation string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.IsAppError(err):
		return err
	case stderrors.Is(err, context.DeadlineExceeded):
		return errors.NewTimeoutError(operation, err.Error())
	case strings.Contains(err.Error(), "UNIQUE constraint failed"):
		conflict := errors.WrapError(err, errors.ErrorTypeConflict, operation+": record already exists")
		conflict.Code = errors.ErrConflict.Code
		return conflict
	}
	return errors.NewDatabaseError(operation, err)
}

// notFoundIfNoRows maps sql.ErrNoRows to a not found error and returns any
// other error unchanged.
func notFoundIfNoRows(err error, entity, id string) error {
	if stderrors.Is(err, sql.ErrNoRows) {
		return errors.NewNotFoundError(entity, id)
	}
	return err
}

// requireAffected fails with not found when a statement touched no rows.
func requireAffected(result sql.Result, entity, id string) error {
	n, err := result.RowsAffected()
	switch {
	case err != nil:
		return classify("rows affected", err)
	case n == 0:
		return errors.NewNotFoundError(entity, id)
	}
	return nil
}

func exec(ctx context.Context, db *sql.DB, operation, query string, args ...interface{}) error {
	_, err := db.ExecContext(ctx, query, args...)
	return classify(operation, err)
}

// execOne runs a statement that must match the row identified by id.
func execOne(ctx context.Context, db *sql.DB, entity, id, query string, args ...interface{}) error {
	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return classify("write "+entity, err)
	}
	return requireAffected(result, entity, id)
}

func getOne[T any](ctx context.Context, db *sql.DB, scan func(Scanner) (*T, error), entity, id, query string, args ...interface{}) (*T, error) {
	v, err := scan(db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if err = notFoundIfNoRows(err, entity, id); errors.IsNotFound(err) {
			return nil, err
		}
		return nil, classify("read "+entity, err)
	}
	return v, nil
}

func getAll[T any](ctx context.Context, db *sql.DB, scan func(Rows) ([]*T, error), entity, query string, args ...interface{}) ([]*T, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classify("query "+entity, err)
	}
	defer rows.Close()

	out, err := scan(rows)
	if err != nil {
		return nil, classify("scan "+entity, err)
	}
	return out, nil
}
