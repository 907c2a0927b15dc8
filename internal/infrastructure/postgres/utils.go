package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// pgcode de unique_violation.
const uniqueViolationCode = "23505"

// isUniqueViolation detecta la violación de clave única, venga como
// *pgconn.PgError tipado o envuelta en el texto del error.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolationCode
	}
	return strings.Contains(err.Error(), uniqueViolationCode)
}
