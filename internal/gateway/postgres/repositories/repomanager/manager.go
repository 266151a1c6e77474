// Package repomanager vends the PostgreSQL repositories of the self-hosted
// gateway and runs its schema migrations with goose.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/greetkeeper/internal/dbx"
	"github.com/dmitrijs2005/greetkeeper/internal/gateway/postgres/migrations"
	"github.com/dmitrijs2005/greetkeeper/internal/gateway/postgres/repositories/identities"
	"github.com/dmitrijs2005/greetkeeper/internal/gateway/postgres/repositories/people"
	"github.com/dmitrijs2005/greetkeeper/internal/gateway/postgres/repositories/users"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

type RepositoryManager interface {
	RunMigrations(ctx context.Context, db *sql.DB) error
	Identities(db dbx.DBTX) identities.Repository
	Users(db dbx.DBTX) users.Repository
	People(db dbx.DBTX) people.Repository
}

type PostgresRepositoryManager struct{}

func NewPostgresRepositoryManager() *PostgresRepositoryManager {
	return &PostgresRepositoryManager{}
}

func (m *PostgresRepositoryManager) Identities(db dbx.DBTX) identities.Repository {
	return identities.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) People(db dbx.DBTX) people.Repository {
	return people.NewPostgresRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations applies the embedded migrations.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return gooseUpContext(ctx, db, ".")
}
