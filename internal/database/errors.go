package database

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/protomem/resource-tracker/internal/model"
	"modernc.org/sqlite"

	sqlite3 "modernc.org/sqlite/lib"
)

func IsNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

func IsUniqueViolation(err error) bool {
	return hasPgCode(err, pgerrcode.UniqueViolation) ||
		hasSQLiteConstraint(err, "UNIQUE", sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY)
}

func IsCheckViolation(err error) bool {
	return hasPgCode(err, pgerrcode.CheckViolation) ||
		hasSQLiteConstraint(err, "CHECK", sqlite3.SQLITE_CONSTRAINT_CHECK)
}

func IsForeignKeyViolation(err error) bool {
	return hasPgCode(err, pgerrcode.ForeignKeyViolation) ||
		hasSQLiteConstraint(err, "FOREIGN KEY", sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY)
}

func hasPgCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}

// hasSQLiteConstraint matches extended result codes, falling back to the
// message when only the primary SQLITE_CONSTRAINT code is reported.
func hasSQLiteConstraint(err error, kind string, codes ...int) bool {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	for _, code := range codes {
		if sqliteErr.Code() == code {
			return true
		}
	}
	return sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT &&
		strings.Contains(sqliteErr.Error(), kind+" constraint failed")
}

// storeError marks an error the store could not classify as an availability failure.
func storeError(err error) error {
	if err == nil || errors.Is(err, model.ErrStoreUnavailable) {
		return err
	}
	return model.Unavailable(err)
}
