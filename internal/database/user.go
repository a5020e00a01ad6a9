// internal/database/user.go
package database

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/sortonym/backend/internal/models"
)

// ErrUserExists is returned when creating a user with a taken email.
var ErrUserExists = errors.New("user already exists")

// ErrUserNotFound is returned when no user matches the email.
var ErrUserNotFound = errors.New("user not found")

// InsertUser stores a new account. The password field must already be the
// encoded argon2id hash.
func InsertUser(ctx context.Context, u *models.User) error {
	q := `
	INSERT INTO users (email, display_name, password_hash)
	VALUES ($1, $2, $3)
	`
	err := pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, q, u.Email, u.DisplayName, u.Password)
		return err
	})
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrUserExists
	}
	return err
}

// GetUserByEmail fetches an account including its password hash.
func GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := DB.QueryRow(ctx, `
	SELECT email, display_name, password_hash, created_at
	FROM users WHERE lower(email) = lower($1)
	`, email).Scan(&u.Email, &u.DisplayName, &u.Password, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
