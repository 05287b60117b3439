package postgres

import (
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"

	"gstdesk/internal/config"
)

const uniqueViolation = "23505"

// NewDB creates a new PostgreSQL connection pool.
func NewDB(cfg *config.DBConfig) (*sqlx.DB, error) {
	db, err := sqlx.Connect("pgx", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpen)
	db.SetMaxIdleConns(cfg.MaxIdle)
	db.SetConnMaxLifetime(30 * time.Minute)
	return db, nil
}

// isUniqueViolation reports whether err is a unique constraint violation,
// optionally on a specific constraint.
func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}

// documentWhere builds the WHERE clause shared by invoice and purchase listings.
func documentWhere(dateCol string, businessID interface{}, from, to *time.Time) (clause string, args []interface{}) {
	args = []interface{}{businessID}
	clause = "WHERE business_id = $1"
	argN := 2

	if from != nil {
		clause += fmt.Sprintf(" AND %s >= $%d", dateCol, argN)
		args = append(args, *from)
		argN++
	}
	if to != nil {
		clause += fmt.Sprintf(" AND %s <= $%d", dateCol, argN)
		args = append(args, *to)
	}
	return clause, args
}
