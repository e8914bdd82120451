package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Connection is the database handle shared by the repositories.
type Connection struct {
	*sql.DB
}

// NewConnection opens dsn with the pgx driver and applies pending migrations.
func NewConnection(ctx context.Context, dsn string) (*Connection, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := Migrate(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return &Connection{DB: db}, nil
}

func (c *Connection) Close() error {
	if c.DB == nil {
		return nil
	}
	return c.DB.Close()
}

func (c *Connection) Ping(ctx context.Context) error {
	if c.DB == nil {
		return fmt.Errorf("database handle is nil")
	}
	return c.DB.PingContext(ctx)
}

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
