// Package repository provides the relational implementation of the
// persistence backend: user accounts and calculation history stored through
// database/sql on PostgreSQL or SQLite.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"

	"github.com/atinyakov/GophDate/internal/models"
)

// SQLRepository implements user and history operations against a relational database.
type SQLRepository struct {
	// DB is the database handle for executing queries and transactions.
	DB *sql.DB
	// MaxRecords is the number of calculations kept per user.
	MaxRecords int
}

// NewSQLRepository creates a new SQLRepository with the given database connection.
// db must be a valid *sql.DB whose schema was created by db.Open.
func NewSQLRepository(db *sql.DB, maxRecords int) *SQLRepository {
	return &SQLRepository{DB: db, MaxRecords: maxRecords}
}

// UserExists checks whether a user with the specified username exists in the database.
func (r *SQLRepository) UserExists(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(
		ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`,
		username,
	).Scan(&exists)
	return exists, err
}

// CreateUser inserts u and fills in its generated ID.
// A taken username yields models.ErrDuplicateUser.
func (r *SQLRepository) CreateUser(ctx context.Context, u *models.User) error {
	err := r.DB.QueryRowContext(
		ctx,
		`INSERT INTO users (username, password_hash, email, created_at) VALUES ($1, $2, $3, $4) RETURNING id`,
		u.Username, u.PasswordHash, u.Email, u.CreatedAt,
	).Scan(&u.ID)
	if isUniqueViolation(err) {
		return models.ErrDuplicateUser
	}
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// UserByUsername loads the user with the given username or returns models.ErrUserNotFound.
func (r *SQLRepository) UserByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	err := r.DB.QueryRowContext(
		ctx,
		`SELECT id, username, password_hash, COALESCE(email, ''), created_at FROM users WHERE username = $1`,
		username,
	).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Email, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select user: %w", err)
	}
	return &u, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code.Name() == "unique_violation"
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}
