package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/greetkeeper/internal/client/session"
	"github.com/dmitrijs2005/greetkeeper/internal/gateway"
	"github.com/dmitrijs2005/greetkeeper/internal/gateway/memory"
	"github.com/dmitrijs2005/greetkeeper/internal/logging"
	"github.com/dmitrijs2005/greetkeeper/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignUp_InitialisesProfile(t *testing.T) {
	e := newEnv(t)
	pw := []byte("secret-pass")

	u, err := e.auth.SignUp(context.Background(), "ann@example.com", pw)
	require.NoError(t, err)

	assert.Equal(t, models.StyleCasual, u.CommunicationStyle)
	assert.Equal(t, 3, u.Credits)
	assert.Equal(t, "ann@example.com", u.Email)

	got, ok := e.store.User()
	require.True(t, ok)
	assert.Equal(t, u, got)

	assert.Equal(t, []string{
		memory.OpSignUp,
		memory.OpInsertUserProfile,
		memory.OpSignIn,
		memory.OpFetchUserProfile,
	}, e.gw.Calls())

	assert.Equal(t, make([]byte, len(pw)), pw, "password buffer must be wiped")
}

func TestSignUp_EmptyCredentials(t *testing.T) {
	e := newEnv(t)
	_, err := e.auth.SignUp(context.Background(), "", []byte("x"))
	require.ErrorIs(t, err, ErrEmptyCredentials)
	assert.Empty(t, e.gw.Calls())
}

func TestSignUp_CreateIdentityFails(t *testing.T) {
	e := newEnv(t)
	e.signUp(t, "ann@example.com")
	e.auth.SignOut()

	_, err := e.auth.SignUp(context.Background(), "ann@example.com", []byte("secret-pass"))

	var serr *SagaError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, StepCreateIdentity, serr.Step)
	assert.Empty(t, serr.Committed)
	assert.False(t, serr.PartiallyApplied())

	var apiErr *gateway.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "User already registered", apiErr.Message)

	_, ok := e.store.User()
	assert.False(t, ok)
}

func TestSignUp_InsertProfileFails_Compensates(t *testing.T) {
	e := newEnv(t)
	boom := errors.New("insert failed")
	e.gw.FailOn(memory.OpInsertUserProfile, boom)

	_, err := e.auth.SignUp(context.Background(), "ann@example.com", []byte("secret-pass"))

	var serr *SagaError
	require.ErrorAs(t, err, &serr)
	require.ErrorIs(t, err, boom)
	assert.Equal(t, StepInsertProfile, serr.Step)
	assert.Equal(t, []string{StepCreateIdentity}, serr.Committed)
	assert.Equal(t, []string{StepCreateIdentity}, serr.Compensated)
	assert.NoError(t, serr.UndoErr)
	assert.Empty(t, serr.Warning())

	// the identity is gone, so the same email can register again
	e.gw.FailOn(memory.OpInsertUserProfile, nil)
	u, err := e.auth.SignUp(context.Background(), "ann@example.com", []byte("secret-pass"))
	require.NoError(t, err)
	assert.Equal(t, 3, u.Credits)
}

func TestSignUp_InsertProfileFails_NoDeleterSurfaces(t *testing.T) {
	gw := memory.New()
	store := session.NewStore()
	auth := NewAuthService(noDeleter{gw}, store, logging.Nop())

	gw.FailOn(memory.OpInsertUserProfile, errors.New("insert failed"))
	_, err := auth.SignUp(context.Background(), "ann@example.com", []byte("secret-pass"))

	var serr *SagaError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, StepInsertProfile, serr.Step)
	assert.Equal(t, []string{StepCreateIdentity}, serr.Committed)
	assert.Empty(t, serr.Compensated)
	assert.True(t, serr.PartiallyApplied())
	assert.Contains(t, serr.Warning(), StepCreateIdentity)
	assert.NotContains(t, gw.Calls(), memory.OpDeleteIdentity)
}

func TestSignUp_FetchProfileFails_NoCompensation(t *testing.T) {
	e := newEnv(t)
	e.gw.FailOn(memory.OpFetchUserProfile, errors.New("down"))

	_, err := e.auth.SignUp(context.Background(), "ann@example.com", []byte("secret-pass"))

	var serr *SagaError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, StepFetchProfile, serr.Step)
	assert.Equal(t, []string{StepCreateIdentity, StepInsertProfile, StepSignIn}, serr.Committed)
	assert.NotContains(t, e.gw.Calls(), memory.OpDeleteIdentity)

	_, ok := e.store.User()
	assert.False(t, ok)

	// the account is consistent and can sign in later
	e.gw.FailOn(memory.OpFetchUserProfile, nil)
	u, err := e.auth.SignIn(context.Background(), "ann@example.com", []byte("secret-pass"))
	require.NoError(t, err)
	assert.Equal(t, 3, u.Credits)
}

func TestSignUp_CompensationIgnoresCancel(t *testing.T) {
	e := newEnv(t)
	ctx, cancel := context.WithCancel(context.Background())
	e.gw.FailOn(memory.OpInsertUserProfile, errors.New("insert failed"))

	auth := NewAuthService(cancelOnInsert{Gateway: e.gw, cancel: cancel}, e.store, logging.Nop())
	_, err := auth.SignUp(ctx, "ann@example.com", []byte("secret-pass"))

	var serr *SagaError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, []string{StepCreateIdentity}, serr.Compensated)
}

// cancelOnInsert cancels the caller's context when the profile insert runs.
type cancelOnInsert struct {
	*memory.Gateway
	cancel context.CancelFunc
}

func (g cancelOnInsert) InsertUserProfile(ctx context.Context, id, email string, style models.CommunicationStyle, credits int) error {
	g.cancel()
	return g.Gateway.InsertUserProfile(ctx, id, email, style, credits)
}

func (g cancelOnInsert) DeleteIdentity(ctx context.Context, userID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return g.Gateway.DeleteIdentity(ctx, userID)
}

func TestSignUp_EachStepGetsItsOwnDeadline(t *testing.T) {
	e := newEnv(t)
	gw := &deadlineRecorder{Gateway: e.gw}
	auth := NewAuthService(gw, e.store, logging.Nop())
	auth.SetStepTimeout(time.Hour)

	_, err := auth.SignUp(context.Background(), "ann@example.com", []byte("secret-pass"))
	require.NoError(t, err)

	require.Len(t, gw.deadlines, 4)
	for i := 1; i < len(gw.deadlines); i++ {
		assert.True(t, gw.deadlines[i].After(gw.deadlines[i-1]), "call %d reused an earlier deadline", i)
	}
	assert.WithinDuration(t, time.Now().Add(time.Hour), gw.deadlines[3], time.Minute)
}

// deadlineRecorder notes the deadline of every sign-up call. The pause keeps
// successive deadlines apart.
type deadlineRecorder struct {
	*memory.Gateway
	deadlines []time.Time
}

func (g *deadlineRecorder) record(ctx context.Context) {
	dl, _ := ctx.Deadline()
	g.deadlines = append(g.deadlines, dl)
	time.Sleep(2 * time.Millisecond)
}

func (g *deadlineRecorder) SignUp(ctx context.Context, email, password string) (gateway.Identity, error) {
	g.record(ctx)
	return g.Gateway.SignUp(ctx, email, password)
}

func (g *deadlineRecorder) InsertUserProfile(ctx context.Context, id, email string, style models.CommunicationStyle, credits int) error {
	g.record(ctx)
	return g.Gateway.InsertUserProfile(ctx, id, email, style, credits)
}

func (g *deadlineRecorder) SignIn(ctx context.Context, email, password string) (gateway.Identity, error) {
	g.record(ctx)
	return g.Gateway.SignIn(ctx, email, password)
}

func (g *deadlineRecorder) FetchUserProfile(ctx context.Context, id string) (models.User, error) {
	g.record(ctx)
	return g.Gateway.FetchUserProfile(ctx, id)
}

func TestSignIn(t *testing.T) {
	e := newEnv(t)
	created := e.signUp(t, "ann@example.com")
	e.auth.SignOut()

	_, ok := e.store.User()
	require.False(t, ok)

	u, err := e.auth.SignIn(context.Background(), "ann@example.com", []byte("secret-pass"))
	require.NoError(t, err)
	assert.Equal(t, created.ID, u.ID)

	cur, err := e.auth.CurrentUser()
	require.NoError(t, err)
	assert.Equal(t, u, cur)
}

func TestSignIn_WrongPassword(t *testing.T) {
	e := newEnv(t)
	e.signUp(t, "ann@example.com")
	e.auth.SignOut()

	_, err := e.auth.SignIn(context.Background(), "ann@example.com", []byte("nope-nope"))
	require.ErrorIs(t, err, gateway.ErrInvalidCredentials)

	_, err = e.auth.CurrentUser()
	require.ErrorIs(t, err, ErrNotSignedIn)
}

func TestSignOut_ClearsPeople(t *testing.T) {
	e := newEnv(t)
	e.signUp(t, "ann@example.com")
	e.addPerson(t, "Anna", "sister")
	require.Len(t, e.store.People(), 1)

	e.auth.SignOut()
	assert.Empty(t, e.store.People())
}

func TestRefreshProfile(t *testing.T) {
	e := newEnv(t)
	u := e.signUp(t, "ann@example.com")
	require.NoError(t, e.gw.UpdateUserCredits(context.Background(), u.ID, 7))

	got, err := e.auth.RefreshProfile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, got.Credits)

	cur, _ := e.store.User()
	assert.Equal(t, 7, cur.Credits)
}
