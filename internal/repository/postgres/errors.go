package postgres

import (
	"context"
	"database/sql"
	stderrors "errors"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgerrcode"

	"daylog/internal/errors"
)

// handleError maps driver and server errors onto the application taxonomy.
// Anything that is not a server-side rejection of the statement itself is
// treated as the remote store being unavailable.
func handleError(operation, entity, id string, err error) error {
	if err == nil {
		return nil
	}
	if stderrors.Is(err, sql.ErrNoRows) {
		return errors.NewNotFoundError(entity, id)
	}
	if stderrors.Is(err, context.DeadlineExceeded) || pgconn.Timeout(err) {
		return errors.NewTimeoutError(operation, err.Error())
	}

	var pgErr *pgconn.PgError
	if !stderrors.As(err, &pgErr) {
		return errors.NewRemoteUnavailableError(operation, err)
	}

	switch {
	case pgErr.Code == pgerrcode.UniqueViolation:
		return errors.NewConflictError(entity, id)
	case pgerrcode.IsIntegrityConstraintViolation(pgErr.Code), pgerrcode.IsDataException(pgErr.Code):
		return errors.NewInvalidInputError(entity, id, pgErr.Message)
	case pgerrcode.IsConnectionException(pgErr.Code),
		pgerrcode.IsInvalidAuthorizationSpecification(pgErr.Code),
		pgerrcode.IsInsufficientResources(pgErr.Code),
		pgerrcode.IsOperatorIntervention(pgErr.Code):
		return errors.NewRemoteUnavailableError(operation, err)
	default:
		return errors.NewDatabaseError(operation, err)
	}
}

func checkRowsAffected(result sql.Result, operation, entity, id string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return handleError(operation, entity, id, err)
	}
	if n == 0 {
		return errors.NewNotFoundError(entity, id)
	}
	return nil
}
