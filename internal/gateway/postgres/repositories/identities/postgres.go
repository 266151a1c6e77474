// Package identities stores credentials for the self-hosted gateway.
package identities

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/greetkeeper/internal/dbx"
	"github.com/dmitrijs2005/greetkeeper/internal/gateway"
	"github.com/dmitrijs2005/greetkeeper/internal/gateway/postgres/repositories"
)

// Identity is one auth_identities row.
type Identity struct {
	ID           string
	Email        string
	PasswordHash []byte
}

type Repository interface {
	Create(ctx context.Context, email string, passwordHash []byte) (string, error)
	GetByEmail(ctx context.Context, email string) (*Identity, error)
	Delete(ctx context.Context, id string) error
}

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, email string, passwordHash []byte) (string, error) {
	query :=
		`INSERT INTO auth_identities (email, password_hash)
		 VALUES ($1, $2)
		 RETURNING id`

	var id string
	err := r.db.QueryRowContext(ctx, query, email, passwordHash).Scan(&id)
	if err != nil {
		if repositories.IsUniqueViolation(err) {
			return "", gateway.ErrConflict
		}
		return "", fmt.Errorf("db error: %w", err)
	}
	return id, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*Identity, error) {
	query :=
		`SELECT id, email, password_hash FROM auth_identities
		 WHERE email = $1`

	ident := &Identity{}
	err := r.db.QueryRowContext(ctx, query, email).Scan(&ident.ID, &ident.Email, &ident.PasswordHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, gateway.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return ident, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM auth_identities WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
