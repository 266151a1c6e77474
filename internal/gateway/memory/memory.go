// Package memory is an in-process gateway.Gateway. It keeps identities,
// profiles and contacts in maps and follows the same ownership and
// ordering rules as the remote adapters. Failures can be injected per
// operation for tests.
package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/greetkeeper/internal/gateway"
	"github.com/dmitrijs2005/greetkeeper/internal/models"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Operation names accepted by FailOn.
const (
	OpSignUp            = "SignUp"
	OpSignIn            = "SignIn"
	OpInsertUserProfile = "InsertUserProfile"
	OpFetchUserProfile  = "FetchUserProfile"
	OpUpdateUserCredits = "UpdateUserCredits"
	OpInsertPerson      = "InsertPerson"
	OpListPeople        = "ListPeople"
	OpDeletePerson      = "DeletePerson"
	OpFetchPerson       = "FetchPerson"
	OpDeleteIdentity    = "DeleteIdentity"
)

type identity struct {
	id   string
	hash []byte
}

type Gateway struct {
	mu         sync.Mutex
	identities map[string]identity // by email
	users      map[string]models.User
	people     map[string]models.Person
	current    string
	failures   map[string]error
	calls      []string
	now        func() time.Time
}

var (
	_ gateway.Gateway         = (*Gateway)(nil)
	_ gateway.IdentityDeleter = (*Gateway)(nil)
)

func New() *Gateway {
	return &Gateway{
		identities: make(map[string]identity),
		users:      make(map[string]models.User),
		people:     make(map[string]models.Person),
		failures:   make(map[string]error),
		now:        time.Now,
	}
}

// FailOn makes every later call of op return err. A nil err clears it.
func (g *Gateway) FailOn(op string, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err == nil {
		delete(g.failures, op)
		return
	}
	g.failures[op] = err
}

// Calls returns the operations invoked so far, in order.
func (g *Gateway) Calls() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return slices.Clone(g.calls)
}

// begin records op and returns the injected failure, if any.
// Callers hold g.mu.
func (g *Gateway) begin(op string) error {
	g.calls = append(g.calls, op)
	return g.failures[op]
}

func (g *Gateway) requireSession() (string, error) {
	if g.current == "" {
		return "", &gateway.APIError{Status: 401, Message: gateway.ErrNoSession.Error()}
	}
	return g.current, nil
}

func (g *Gateway) SignUp(ctx context.Context, email, password string) (gateway.Identity, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.begin(OpSignUp); err != nil {
		return gateway.Identity{}, err
	}

	email = strings.ToLower(strings.TrimSpace(email))
	if _, ok := g.identities[email]; ok {
		return gateway.Identity{}, &gateway.APIError{Status: 422, Code: "user_already_exists", Message: "User already registered"}
	}
	if len(password) < 6 {
		return gateway.Identity{}, &gateway.APIError{Status: 422, Code: "weak_password", Message: "Password should be at least 6 characters."}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return gateway.Identity{}, fmt.Errorf("hash password: %w", err)
	}
	id := uuid.NewString()
	g.identities[email] = identity{id: id, hash: hash}
	g.current = id

	return gateway.Identity{UserID: id, Email: email, Session: g.session(id)}, nil
}

func (g *Gateway) SignIn(ctx context.Context, email, password string) (gateway.Identity, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.begin(OpSignIn); err != nil {
		return gateway.Identity{}, err
	}

	email = strings.ToLower(strings.TrimSpace(email))
	ident, ok := g.identities[email]
	if !ok || bcrypt.CompareHashAndPassword(ident.hash, []byte(password)) != nil {
		return gateway.Identity{}, &gateway.APIError{Status: 400, Code: "invalid_grant", Message: "Invalid login credentials"}
	}
	g.current = ident.id

	return gateway.Identity{UserID: ident.id, Email: email, Session: g.session(ident.id)}, nil
}

func (g *Gateway) session(id string) gateway.Session {
	return gateway.Session{AccessToken: "memory-" + id, ExpiresAt: g.now().Add(time.Hour)}
}

func (g *Gateway) DeleteIdentity(ctx context.Context, userID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.begin(OpDeleteIdentity); err != nil {
		return err
	}
	for email, ident := range g.identities {
		if ident.id == userID {
			delete(g.identities, email)
		}
	}
	delete(g.users, userID)
	if g.current == userID {
		g.current = ""
	}
	return nil
}

func (g *Gateway) InsertUserProfile(ctx context.Context, id, email string, style models.CommunicationStyle, credits int) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.begin(OpInsertUserProfile); err != nil {
		return err
	}
	if _, err := g.requireSession(); err != nil {
		return err
	}
	if _, ok := g.users[id]; ok {
		return &gateway.APIError{Status: 409, Code: "23505", Message: `duplicate key value violates unique constraint "users_pkey"`}
	}
	g.users[id] = models.User{ID: id, Email: email, CommunicationStyle: style, Credits: credits, CreatedAt: g.now().UTC()}
	return nil
}

func (g *Gateway) FetchUserProfile(ctx context.Context, id string) (models.User, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.begin(OpFetchUserProfile); err != nil {
		return models.User{}, err
	}
	if _, err := g.requireSession(); err != nil {
		return models.User{}, err
	}
	u, ok := g.users[id]
	if !ok {
		return models.User{}, &gateway.APIError{Status: 404, Message: "profile not found"}
	}
	return u, nil
}

func (g *Gateway) UpdateUserCredits(ctx context.Context, id string, credits int) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.begin(OpUpdateUserCredits); err != nil {
		return err
	}
	if _, err := g.requireSession(); err != nil {
		return err
	}
	u, ok := g.users[id]
	if !ok {
		return &gateway.APIError{Status: 404, Message: "profile not found"}
	}
	if credits < 0 {
		return &gateway.APIError{Status: 400, Code: "23514", Message: `new row for relation "users" violates check constraint "users_credits_check"`}
	}
	u.Credits = credits
	g.users[id] = u
	return nil
}

func (g *Gateway) InsertPerson(ctx context.Context, in models.PersonInput, ownerID string) (models.Person, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.begin(OpInsertPerson); err != nil {
		return models.Person{}, err
	}
	if _, err := g.requireSession(); err != nil {
		return models.Person{}, err
	}
	p := models.Person{
		ID:                 uuid.NewString(),
		UserID:             ownerID,
		Name:               in.Name,
		BirthDate:          in.BirthDate,
		Relationship:       in.Relationship,
		Interests:          slices.Clone(in.Interests),
		PersonalityTraits:  slices.Clone(in.PersonalityTraits),
		CommunicationStyle: in.CommunicationStyle,
		CreatedAt:          g.now().UTC(),
	}
	g.people[p.ID] = p
	return p, nil
}

func (g *Gateway) ListPeople(ctx context.Context, ownerID string) ([]models.Person, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.begin(OpListPeople); err != nil {
		return nil, err
	}
	if _, err := g.requireSession(); err != nil {
		return nil, err
	}
	out := make([]models.Person, 0)
	for _, p := range g.people {
		if p.UserID == ownerID {
			out = append(out, p)
		}
	}
	slices.SortFunc(out, func(a, b models.Person) int {
		return cmp.Or(strings.Compare(a.Name, b.Name), strings.Compare(a.ID, b.ID))
	})
	return out, nil
}

func (g *Gateway) DeletePerson(ctx context.Context, id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.begin(OpDeletePerson); err != nil {
		return err
	}
	owner, err := g.requireSession()
	if err != nil {
		return err
	}
	if p, ok := g.people[id]; ok && p.UserID == owner {
		delete(g.people, id)
	}
	return nil
}

func (g *Gateway) FetchPerson(ctx context.Context, id string) (models.Person, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.begin(OpFetchPerson); err != nil {
		return models.Person{}, err
	}
	owner, err := g.requireSession()
	if err != nil {
		return models.Person{}, err
	}
	p, ok := g.people[id]
	if !ok || p.UserID != owner {
		return models.Person{}, &gateway.APIError{Status: 404, Message: "contact not found"}
	}
	return p, nil
}

func (g *Gateway) SignOut() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.current = ""
}

func (g *Gateway) Close() error { return nil }
