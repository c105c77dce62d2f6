package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/tasker-api/internal/store"
)

// PostgreSQL error codes
const (
	uniqueViolationCode     = "23505"
	foreignKeyViolationCode = "23503"
	checkViolationCode      = "23514"
	notNullViolationCode    = "23502"
)

// Constraint names declared by the migrations.
const (
	usersEmailUniqueConstraint = "users_email_key"
	tasksUserForeignKey        = "tasks_user_id_fkey"
)

// MapError maps a database error to the store error taxonomy.
// Unclassified errors are wrapped in a *store.StoreError for the given
// entity and operation so the driver message never reaches callers unwrapped.
func MapError(err error, entity, operation string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", store.ErrNotFound, entity)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case IsUniqueViolation(err):
			if pgErr.ConstraintName == usersEmailUniqueConstraint {
				return store.ErrEmailExists
			}
			return fmt.Errorf("%w: %s", store.ErrDuplicate, entity)
		case IsForeignKeyViolation(err):
			return fmt.Errorf("%w: foreign key violation (%s)", store.ErrInvalidEntity, pgErr.ConstraintName)
		case IsCheckConstraintViolation(err):
			return fmt.Errorf("%w: check constraint violation (%s)", store.ErrInvalidEntity, pgErr.ConstraintName)
		case IsNotNullViolation(err):
			return fmt.Errorf("%w: not null violation (%s)", store.ErrInvalidEntity, pgErr.ColumnName)
		}
	}

	return store.NewStoreError(entity, operation, "database error", err)
}

// IsUniqueViolation checks if the given error is a PostgreSQL unique constraint violation.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

// IsForeignKeyViolation checks if the given error is a PostgreSQL foreign key constraint violation.
func IsForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolationCode
}

// IsCheckConstraintViolation checks if the given error is a PostgreSQL check constraint violation.
func IsCheckConstraintViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == checkViolationCode
}

// IsNotNullViolation checks if the given error is a PostgreSQL not null constraint violation.
func IsNotNullViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == notNullViolationCode
}

// CheckRowsAffected returns notFound when an UPDATE or DELETE touched no rows.
func CheckRowsAffected(result sql.Result, notFound error) error {
	if result == nil {
		return errors.New("invalid result: nil")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		if notFound == nil {
			return store.ErrNotFound
		}
		return notFound
	}

	return nil
}
