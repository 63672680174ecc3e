package auth

import (
	"errors"
	"strings"

	employeeerrors "go-attendance/internal/employee/errors"

	"github.com/jackc/pgx/v5/pgconn"
)

func mapRegisterError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return employeeerrors.ErrEmployeeAlreadyExists
	}

	if strings.Contains(strings.ToLower(err.Error()), "duplicate key value") {
		return employeeerrors.ErrEmployeeAlreadyExists
	}

	return err
}
