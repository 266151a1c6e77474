// Package people stores contacts for the self-hosted gateway. Every query
// is scoped by owner.
package people

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/greetkeeper/internal/dbx"
	"github.com/dmitrijs2005/greetkeeper/internal/gateway"
	"github.com/dmitrijs2005/greetkeeper/internal/gateway/postgres/repositories"
	"github.com/dmitrijs2005/greetkeeper/internal/models"
	"github.com/jackc/pgx/v5/pgtype"
)

type Repository interface {
	Create(ctx context.Context, in models.PersonInput, ownerID string) (models.Person, error)
	ListByOwner(ctx context.Context, ownerID string) ([]models.Person, error)
	Get(ctx context.Context, id, ownerID string) (models.Person, error)
	Delete(ctx context.Context, id, ownerID string) error
}

type PostgresRepository struct {
	db    dbx.DBTX
	types *pgtype.Map
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db, types: pgtype.NewMap()}
}

const selectColumns = `id, user_id, name, birth_date::text, relationship, interests, personality_traits, communication_style, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *PostgresRepository) scan(row rowScanner) (models.Person, error) {
	var (
		p     models.Person
		style string
	)
	err := row.Scan(&p.ID, &p.UserID, &p.Name, &p.BirthDate, &p.Relationship,
		r.types.SQLScanner(&p.Interests), r.types.SQLScanner(&p.PersonalityTraits),
		&style, &p.CreatedAt)
	if err != nil {
		return models.Person{}, err
	}
	p.CommunicationStyle = models.CommunicationStyle(style)
	return p, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func (r *PostgresRepository) Create(ctx context.Context, in models.PersonInput, ownerID string) (models.Person, error) {
	query :=
		`INSERT INTO people (user_id, name, birth_date, relationship, interests, personality_traits, communication_style)
		 VALUES ($1, $2, $3::date, $4, $5, $6, $7)
		 RETURNING id, created_at`

	p := models.Person{
		UserID:             ownerID,
		Name:               in.Name,
		BirthDate:          in.BirthDate,
		Relationship:       in.Relationship,
		Interests:          nonNil(in.Interests),
		PersonalityTraits:  nonNil(in.PersonalityTraits),
		CommunicationStyle: in.CommunicationStyle,
	}
	err := r.db.QueryRowContext(ctx, query, ownerID, p.Name, p.BirthDate, p.Relationship,
		p.Interests, p.PersonalityTraits, string(p.CommunicationStyle)).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return models.Person{}, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Person, error) {
	query :=
		`SELECT ` + selectColumns + ` FROM people
		 WHERE user_id = $1
		 ORDER BY name, id`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	out := make([]models.Person, 0)
	for rows.Next() {
		p, err := r.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id, ownerID string) (models.Person, error) {
	query :=
		`SELECT ` + selectColumns + ` FROM people
		 WHERE id = $1 AND user_id = $2`

	p, err := r.scan(r.db.QueryRowContext(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || repositories.IsInvalidText(err) {
			return models.Person{}, gateway.ErrNotFound
		}
		return models.Person{}, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id, ownerID string) error {
	query := `DELETE FROM people WHERE id = $1 AND user_id = $2`

	if _, err := r.db.ExecContext(ctx, query, id, ownerID); err != nil {
		if repositories.IsInvalidText(err) {
			return gateway.ErrNotFound
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
