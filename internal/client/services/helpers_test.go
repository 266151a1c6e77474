package services

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/greetkeeper/internal/archive"
	"github.com/dmitrijs2005/greetkeeper/internal/client/forms"
	"github.com/dmitrijs2005/greetkeeper/internal/client/session"
	"github.com/dmitrijs2005/greetkeeper/internal/gateway"
	"github.com/dmitrijs2005/greetkeeper/internal/gateway/memory"
	"github.com/dmitrijs2005/greetkeeper/internal/greeting"
	"github.com/dmitrijs2005/greetkeeper/internal/logging"
	"github.com/dmitrijs2005/greetkeeper/internal/models"
	"github.com/stretchr/testify/require"
)

// ---- helpers ----

type env struct {
	gw       *memory.Gateway
	store    *session.Store
	auth     *AuthService
	people   *PeopleService
	greeting *GreetingService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	gw := memory.New()
	store := session.NewStore()
	log := logging.Nop()
	return &env{
		gw:       gw,
		store:    store,
		auth:     NewAuthService(gw, store, log),
		people:   NewPeopleService(gw, store, log),
		greeting: NewGreetingService(gw, store, greeting.NewTemplateGenerator(), archive.Disabled{}, log),
	}
}

func (e *env) signUp(t *testing.T, email string) models.User {
	t.Helper()
	u, err := e.auth.SignUp(context.Background(), email, []byte("secret-pass"))
	require.NoError(t, err)
	return u
}

func (e *env) addPerson(t *testing.T, name, relationship string, interests ...string) models.Person {
	t.Helper()
	d := newDraft(name, relationship, interests...)
	p, err := e.people.Create(context.Background(), d)
	require.NoError(t, err)
	return p
}

func newDraft(name, relationship string, interests ...string) *forms.PersonDraft {
	d := forms.NewPersonDraft()
	d.Name = name
	d.BirthDate = "1990-07-15"
	d.Relationship = relationship
	d.Interests = append([]string{}, interests...)
	if len(d.Interests) == 0 {
		d.Interests = []string{""}
	}
	return d
}

// setCredits forces a balance both remotely and in the store.
func (e *env) setCredits(t *testing.T, n int) {
	t.Helper()
	u, ok := e.store.User()
	require.True(t, ok)
	require.NoError(t, e.gw.UpdateUserCredits(context.Background(), u.ID, n))
	e.store.SetCredits(n)
}

// ---- fakes ----

// noDeleter hides memory.Gateway's DeleteIdentity.
type noDeleter struct {
	gateway.Gateway
}

type blockingGenerator struct {
	started chan struct{}
	release chan struct{}
}

func (g *blockingGenerator) Generate(ctx context.Context, req greeting.Request) (string, error) {
	close(g.started)
	<-g.release
	return "hello " + req.Person.Name, nil
}

type styleRecorder struct {
	got models.CommunicationStyle
}

func (g *styleRecorder) Generate(ctx context.Context, req greeting.Request) (string, error) {
	g.got = req.Style
	return "ok", nil
}

type fakeArchive struct {
	userID, personID, text string
	err                    error
}

func (a *fakeArchive) Put(ctx context.Context, userID, personID, text string) (archive.Receipt, error) {
	a.userID, a.personID, a.text = userID, personID, text
	if a.err != nil {
		return archive.Receipt{}, a.err
	}
	return archive.Receipt{Key: "greetings/k.txt", URL: "https://example/k", ExpiresAt: time.Unix(0, 0)}, nil
}

type fakeTimer struct {
	d       time.Duration
	f       func()
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	t.stopped = true
	return true
}
