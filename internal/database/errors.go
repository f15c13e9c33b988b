package database

import (
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
)

var (
	// ErrDuplicate is returned when a write violates a unique key.
	ErrDuplicate = errors.New("duplicate key")
	// ErrConflict is returned for every other integrity constraint violation.
	ErrConflict = errors.New("constraint violation")
)

const (
	mysqlDuplicateEntry = 1062
	// ER_NO_REFERENCED_ROW_2 and ER_ROW_IS_REFERENCED_2
	mysqlNoReferencedRow = 1452
	mysqlRowIsReferenced = 1451

	postgresUniqueViolation     = "23505"
	postgresIntegrityConstraint = "23"
)

// Classify maps driver level errors onto ErrDuplicate or ErrConflict. The
// original error stays in the chain. Errors it does not recognise are
// returned unchanged.
func Classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrDuplicate), errors.Is(err, ErrConflict):
		return err
	case IsDuplicate(err):
		return fmt.Errorf("%w: %w", ErrDuplicate, err)
	case isConstraint(err):
		return fmt.Errorf("%w: %w", ErrConflict, err)
	default:
		return err
	}
}

// IsDuplicate reports whether err is a unique key violation from any of the
// supported drivers.
func IsDuplicate(err error) bool {
	if errors.Is(err, ErrDuplicate) || errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == mysqlDuplicateEntry
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == postgresUniqueViolation
	}

	return false
}

func isConstraint(err error) bool {
	if errors.Is(err, gorm.ErrForeignKeyViolated) || errors.Is(err, gorm.ErrCheckConstraintViolated) {
		return true
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == mysqlNoReferencedRow || mysqlErr.Number == mysqlRowIsReferenced
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code == sqlite3.ErrConstraint
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return len(pgErr.Code) == 5 && pgErr.Code[:2] == postgresIntegrityConstraint
	}

	return false
}
