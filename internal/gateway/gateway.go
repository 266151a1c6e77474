// Package gateway defines the contract greetkeeper consumes from the
// authentication and row-storage service.
//
// Every call is a single request/response. Adapters never retry; a failed
// call returns an error whose message can be shown to the user as is, and
// leaves remote state unchanged.
//
// Adapters live in subpackages:
//
//   - supabase: hosted GoTrue auth + PostgREST tables over HTTP
//   - postgres: self-hosted database with bcrypt passwords and JWT sessions
//   - memory:   in-process maps, for tests and offline demos
package gateway

import (
	"context"
	"time"

	"github.com/dmitrijs2005/greetkeeper/internal/models"
)

// Session is the credential issued on sign-in. Adapters keep the current
// session and attach it to subsequent calls.
type Session struct {
	AccessToken string
	ExpiresAt   time.Time
}

// Identity is the authenticated account returned by SignUp and SignIn.
// Session is empty when the service did not open one (e.g. sign-up pending
// email confirmation).
type Identity struct {
	UserID  string
	Email   string
	Session Session
}

type Gateway interface {
	SignUp(ctx context.Context, email, password string) (Identity, error)
	SignIn(ctx context.Context, email, password string) (Identity, error)

	InsertUserProfile(ctx context.Context, id, email string, style models.CommunicationStyle, credits int) error
	FetchUserProfile(ctx context.Context, id string) (models.User, error)
	UpdateUserCredits(ctx context.Context, id string, credits int) error

	InsertPerson(ctx context.Context, in models.PersonInput, ownerID string) (models.Person, error)
	// ListPeople returns the owner's contacts ordered by name.
	ListPeople(ctx context.Context, ownerID string) ([]models.Person, error)
	DeletePerson(ctx context.Context, id string) error
	FetchPerson(ctx context.Context, id string) (models.Person, error)

	// SignOut forgets the current session. It does not call out.
	SignOut()
	Close() error
}

// IdentityDeleter is implemented by adapters that can remove an auth
// identity. Sign-up uses it to undo an identity whose profile insert failed.
type IdentityDeleter interface {
	DeleteIdentity(ctx context.Context, userID string) error
}
