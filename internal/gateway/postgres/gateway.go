// Package postgres implements gateway.Gateway on a self-hosted PostgreSQL
// database. Passwords are bcrypt-hashed, sessions are HS256 JWTs, and every
// data call is checked against the session's user the way row-level
// security does on the hosted service.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/greetkeeper/internal/dbx"
	"github.com/dmitrijs2005/greetkeeper/internal/gateway"
	"github.com/dmitrijs2005/greetkeeper/internal/gateway/postgres/auth"
	"github.com/dmitrijs2005/greetkeeper/internal/gateway/postgres/repositories/repomanager"
	"github.com/dmitrijs2005/greetkeeper/internal/gateway/postgres/repositories/users"
	"github.com/dmitrijs2005/greetkeeper/internal/logging"
	"github.com/dmitrijs2005/greetkeeper/internal/models"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

type Gateway struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	jwtSecret   []byte
	sessionTTL  time.Duration
	bcryptCost  int
	logger      logging.Logger
	now         func() time.Time

	mu    sync.RWMutex
	token string
}

var (
	_ gateway.Gateway         = (*Gateway)(nil)
	_ gateway.IdentityDeleter = (*Gateway)(nil)
)

// sqlOpen is a seam for tests.
var sqlOpen = sql.Open

// Open connects to dsn, applies migrations and returns a ready gateway.
func Open(ctx context.Context, dsn string, jwtSecret []byte, sessionTTL time.Duration, logger logging.Logger) (*Gateway, error) {
	db, err := sqlOpen("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %v", gateway.ErrUnavailable, err)
	}

	m := repomanager.NewPostgresRepositoryManager()
	if err := m.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	return New(db, m, jwtSecret, sessionTTL, logger), nil
}

func New(db *sql.DB, m repomanager.RepositoryManager, jwtSecret []byte, sessionTTL time.Duration, logger logging.Logger) *Gateway {
	return &Gateway{
		db:          db,
		repomanager: m,
		jwtSecret:   jwtSecret,
		sessionTTL:  sessionTTL,
		bcryptCost:  bcrypt.DefaultCost,
		logger:      logger.With("gateway", "postgres"),
		now:         time.Now,
	}
}

func (g *Gateway) Close() error {
	return g.db.Close()
}

func (g *Gateway) SignOut() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.token = ""
}

func (g *Gateway) issueSession(userID string) (gateway.Session, error) {
	token, expires, err := auth.GenerateToken(userID, g.jwtSecret, g.sessionTTL, g.now())
	if err != nil {
		return gateway.Session{}, fmt.Errorf("issue session: %w", err)
	}
	g.mu.Lock()
	g.token = token
	g.mu.Unlock()
	return gateway.Session{AccessToken: token, ExpiresAt: expires}, nil
}

// sessionUser validates the current token and returns its user id.
func (g *Gateway) sessionUser() (string, error) {
	g.mu.RLock()
	token := g.token
	g.mu.RUnlock()

	if token == "" {
		return "", &gateway.APIError{Status: http.StatusUnauthorized, Message: gateway.ErrNoSession.Error()}
	}
	id, err := auth.GetUserIDFromToken(token, g.jwtSecret)
	if err != nil {
		return "", &gateway.APIError{Status: http.StatusUnauthorized, Code: "bad_jwt", Message: "session expired, please sign in again"}
	}
	return id, nil
}

// authorize allows access only to rows of the session's own user.
func (g *Gateway) authorize(ownerID string) error {
	current, err := g.sessionUser()
	if err != nil {
		return err
	}
	if current != ownerID {
		return &gateway.APIError{Status: http.StatusForbidden, Code: "42501", Message: "permission denied"}
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (g *Gateway) SignUp(ctx context.Context, email, password string) (gateway.Identity, error) {
	email = normalizeEmail(email)
	if email == "" {
		return gateway.Identity{}, &gateway.APIError{Status: http.StatusBadRequest, Code: "validation_failed", Message: "email is required"}
	}
	if len(password) < minPasswordLength {
		return gateway.Identity{}, &gateway.APIError{Status: http.StatusUnprocessableEntity, Code: "weak_password",
			Message: fmt.Sprintf("Password should be at least %d characters.", minPasswordLength)}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), g.bcryptCost)
	if err != nil {
		return gateway.Identity{}, fmt.Errorf("hash password: %w", err)
	}

	id, err := g.repomanager.Identities(g.db).Create(ctx, email, hash)
	if err != nil {
		if errors.Is(err, gateway.ErrConflict) {
			return gateway.Identity{}, &gateway.APIError{Status: http.StatusUnprocessableEntity, Code: "user_already_exists", Message: "User already registered"}
		}
		g.logger.Error(ctx, "create identity", "error", err)
		return gateway.Identity{}, fmt.Errorf("create identity: %w", err)
	}

	session, err := g.issueSession(id)
	if err != nil {
		return gateway.Identity{}, err
	}
	return gateway.Identity{UserID: id, Email: email, Session: session}, nil
}

func (g *Gateway) SignIn(ctx context.Context, email, password string) (gateway.Identity, error) {
	invalid := &gateway.APIError{Status: http.StatusBadRequest, Code: "invalid_grant", Message: "Invalid login credentials"}

	ident, err := g.repomanager.Identities(g.db).GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, gateway.ErrNotFound) {
			return gateway.Identity{}, invalid
		}
		return gateway.Identity{}, fmt.Errorf("sign in: %w", err)
	}
	if bcrypt.CompareHashAndPassword(ident.PasswordHash, []byte(password)) != nil {
		return gateway.Identity{}, invalid
	}

	session, err := g.issueSession(ident.ID)
	if err != nil {
		return gateway.Identity{}, err
	}
	return gateway.Identity{UserID: ident.ID, Email: ident.Email, Session: session}, nil
}

// DeleteIdentity removes the profile, if any, and the identity in one
// transaction.
func (g *Gateway) DeleteIdentity(ctx context.Context, userID string) error {
	if err := g.authorize(userID); err != nil {
		return err
	}
	err := dbx.WithTx(ctx, g.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := g.repomanager.Users(tx).Delete(ctx, userID); err != nil {
			return err
		}
		return g.repomanager.Identities(tx).Delete(ctx, userID)
	})
	if err != nil {
		return fmt.Errorf("delete identity: %w", err)
	}
	g.SignOut()
	return nil
}

func (g *Gateway) InsertUserProfile(ctx context.Context, id, email string, style models.CommunicationStyle, credits int) error {
	if err := g.authorize(id); err != nil {
		return err
	}
	u := models.User{ID: id, Email: email, CommunicationStyle: style, Credits: credits}
	if err := g.repomanager.Users(g.db).Create(ctx, u); err != nil {
		if errors.Is(err, gateway.ErrConflict) {
			return &gateway.APIError{Status: http.StatusConflict, Code: "23505", Message: "profile already exists"}
		}
		return fmt.Errorf("insert profile: %w", err)
	}
	return nil
}

func (g *Gateway) FetchUserProfile(ctx context.Context, id string) (models.User, error) {
	if err := g.authorize(id); err != nil {
		return models.User{}, err
	}
	u, err := g.repomanager.Users(g.db).Get(ctx, id)
	if err != nil {
		return models.User{}, notFoundOr(err, "profile")
	}
	return u, nil
}

func (g *Gateway) UpdateUserCredits(ctx context.Context, id string, credits int) error {
	if err := g.authorize(id); err != nil {
		return err
	}
	err := g.repomanager.Users(g.db).UpdateCredits(ctx, id, credits)
	if errors.Is(err, users.ErrNegativeCredits) {
		return &gateway.APIError{Status: http.StatusBadRequest, Code: "23514", Message: err.Error()}
	}
	if err != nil {
		return notFoundOr(err, "profile")
	}
	return nil
}

func (g *Gateway) InsertPerson(ctx context.Context, in models.PersonInput, ownerID string) (models.Person, error) {
	if err := g.authorize(ownerID); err != nil {
		return models.Person{}, err
	}
	p, err := g.repomanager.People(g.db).Create(ctx, in, ownerID)
	if err != nil {
		return models.Person{}, fmt.Errorf("insert contact: %w", err)
	}
	return p, nil
}

func (g *Gateway) ListPeople(ctx context.Context, ownerID string) ([]models.Person, error) {
	if err := g.authorize(ownerID); err != nil {
		return nil, err
	}
	list, err := g.repomanager.People(g.db).ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	return list, nil
}

func (g *Gateway) DeletePerson(ctx context.Context, id string) error {
	owner, err := g.sessionUser()
	if err != nil {
		return err
	}
	if err := g.repomanager.People(g.db).Delete(ctx, id, owner); err != nil {
		return notFoundOr(err, "contact")
	}
	return nil
}

func (g *Gateway) FetchPerson(ctx context.Context, id string) (models.Person, error) {
	owner, err := g.sessionUser()
	if err != nil {
		return models.Person{}, err
	}
	p, err := g.repomanager.People(g.db).Get(ctx, id, owner)
	if err != nil {
		return models.Person{}, notFoundOr(err, "contact")
	}
	return p, nil
}

func notFoundOr(err error, what string) error {
	if errors.Is(err, gateway.ErrNotFound) {
		return &gateway.APIError{Status: http.StatusNotFound, Message: what + " not found"}
	}
	return fmt.Errorf("%s: %w", what, err)
}
