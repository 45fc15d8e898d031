package db

import (
	"errors"
	"fmt"

	"Gin_postgres_redis_equipment_rent/services"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Postgres SQLSTATE
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
	pgExclusionViolation  = "23P01"
)

// translate 把 gorm / pgx 错误映射为 services 的哨兵错误；what 描述被访问的记录
func translate(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", what, services.ErrNotFound)
	}
	var pg *pgconn.PgError
	if errors.As(err, &pg) {
		switch pg.Code {
		case pgExclusionViolation:
			return services.ErrRentalOverlap
		case pgUniqueViolation:
			return fmt.Errorf("%s already exists (%s): %w", what, pg.ConstraintName, services.ErrConflict)
		case pgForeignKeyViolation:
			return fmt.Errorf("%s is referenced by other records (%s): %w", what, pg.ConstraintName, services.ErrConflict)
		case pgCheckViolation:
			return fmt.Errorf("%s violates %s: %w", what, pg.ConstraintName, services.ErrConflict)
		}
	}
	return err
}

func affected(res *gorm.DB, what string) error {
	if res.Error != nil {
		return translate(res.Error, what)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%s: %w", what, services.ErrNotFound)
	}
	return nil
}
