// Package users stores profile rows for the self-hosted gateway.
package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/greetkeeper/internal/dbx"
	"github.com/dmitrijs2005/greetkeeper/internal/gateway"
	"github.com/dmitrijs2005/greetkeeper/internal/gateway/postgres/repositories"
	"github.com/dmitrijs2005/greetkeeper/internal/models"
)

var ErrNegativeCredits = errors.New("credits must not be negative")

type Repository interface {
	Create(ctx context.Context, user models.User) error
	Get(ctx context.Context, id string) (models.User, error)
	UpdateCredits(ctx context.Context, id string, credits int) error
	Delete(ctx context.Context, id string) error
}

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, user models.User) error {
	query :=
		`INSERT INTO users (id, email, communication_style, credits)
		 VALUES ($1, $2, $3, $4)`

	_, err := r.db.ExecContext(ctx, query, user.ID, user.Email, string(user.CommunicationStyle), user.Credits)
	if err != nil {
		if repositories.IsUniqueViolation(err) {
			return gateway.ErrConflict
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (models.User, error) {
	query :=
		`SELECT id, email, communication_style, credits, created_at FROM users
		 WHERE id = $1`

	var (
		u     models.User
		style string
	)
	err := r.db.QueryRowContext(ctx, query, id).Scan(&u.ID, &u.Email, &style, &u.Credits, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, gateway.ErrNotFound
		}
		return models.User{}, fmt.Errorf("db error: %w", err)
	}
	u.CommunicationStyle = models.CommunicationStyle(style)
	return u, nil
}

func (r *PostgresRepository) UpdateCredits(ctx context.Context, id string, credits int) error {
	query :=
		`UPDATE users SET credits = $2
		 WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id, credits)
	if err != nil {
		if repositories.IsCheckViolation(err) {
			return ErrNegativeCredits
		}
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return gateway.ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM users WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
