package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/gravadigital/huddle-api/internal/domain/common"
)

// PostgreSQL error codes the repositories react to
const (
	codeUniqueViolation      = "23505"
	codeForeignKeyViolation  = "23503"
	codeCheckViolation       = "23514"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
)

// classify turns a GORM or driver error into a domain error
func classify(op string, err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return common.NotFound(op, "record not found")
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return common.Conflict(op, "record already exists", err)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return &common.Error{Kind: common.ErrValidation, Op: op, Msg: "referenced record does not exist", Err: err}
	case errors.Is(err, gorm.ErrCheckConstraintViolated):
		return &common.Error{Kind: common.ErrValidation, Op: op, Msg: "value violates a constraint", Err: err}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			return common.Conflict(op, "record already exists", err)
		case codeForeignKeyViolation:
			return &common.Error{Kind: common.ErrValidation, Op: op, Msg: "referenced record does not exist", Err: err}
		case codeCheckViolation:
			return &common.Error{Kind: common.ErrValidation, Op: op, Msg: "value violates a constraint", Err: err}
		case codeSerializationFailure, codeDeadlockDetected:
			return common.Conflict(op, "concurrent update, retry", err)
		}
	}

	return common.Store(op, err)
}
