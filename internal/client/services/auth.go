package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/greetkeeper/internal/client/session"
	"github.com/dmitrijs2005/greetkeeper/internal/common"
	"github.com/dmitrijs2005/greetkeeper/internal/gateway"
	"github.com/dmitrijs2005/greetkeeper/internal/logging"
	"github.com/dmitrijs2005/greetkeeper/internal/models"
)

// Sign-up step names, as reported in SagaError.
const (
	StepCreateIdentity = "create-identity"
	StepInsertProfile  = "insert-profile"
	StepSignIn         = "sign-in"
	StepFetchProfile   = "fetch-profile"
)

var ErrEmptyCredentials = errors.New("email and password are required")

type AuthService struct {
	gw          gateway.Gateway
	store       *session.Store
	logger      logging.Logger
	stepTimeout time.Duration
}

func NewAuthService(gw gateway.Gateway, store *session.Store, logger logging.Logger) *AuthService {
	return &AuthService{gw: gw, store: store, logger: logger}
}

// SetStepTimeout bounds every remote call of SignUp separately. Zero leaves
// the calls bounded only by the caller's context.
func (s *AuthService) SetStepTimeout(d time.Duration) {
	s.stepTimeout = d
}

// SignIn authenticates, fetches the matching profile and installs it as the
// current user. The password buffer is wiped before returning.
func (s *AuthService) SignIn(ctx context.Context, email string, password []byte) (models.User, error) {
	defer common.WipeByteArray(password)

	if email == "" || len(password) == 0 {
		return models.User{}, ErrEmptyCredentials
	}

	id, err := s.gw.SignIn(ctx, email, string(password))
	if err != nil {
		return models.User{}, err
	}

	u, err := s.gw.FetchUserProfile(ctx, id.UserID)
	if err != nil {
		return models.User{}, fmt.Errorf("fetch profile: %w", err)
	}

	s.store.SetUser(&u)
	s.logger.Info(ctx, "signed in", "user_id", u.ID)
	return u, nil
}

// SignUp creates the identity and its profile (casual style, initial
// credits), signs in again and installs the profile. A failing insert of the
// profile removes the new identity when the gateway supports that.
func (s *AuthService) SignUp(ctx context.Context, email string, password []byte) (models.User, error) {
	defer common.WipeByteArray(password)

	if email == "" || len(password) == 0 {
		return models.User{}, ErrEmptyCredentials
	}

	var (
		ident gateway.Identity
		user  models.User
	)

	insertPolicy := SurfaceAndHalt
	deleter, canDelete := s.gw.(gateway.IdentityDeleter)
	if canDelete {
		insertPolicy = Compensate
	}

	create := Step{
		Name:   StepCreateIdentity,
		OnFail: SurfaceAndHalt,
		Run: func(ctx context.Context) (err error) {
			ident, err = s.gw.SignUp(ctx, email, string(password))
			return err
		},
	}
	if canDelete {
		create.Undo = func(ctx context.Context) error {
			return deleter.DeleteIdentity(ctx, ident.UserID)
		}
	}

	sg := &saga{
		name:        "sign-up",
		logger:      s.logger,
		stepTimeout: s.stepTimeout,
		steps: []Step{
			create,
			{
				Name:   StepInsertProfile,
				OnFail: insertPolicy,
				Run: func(ctx context.Context) error {
					return s.gw.InsertUserProfile(ctx, ident.UserID, email, models.DefaultStyle, models.InitialCredits)
				},
			},
			{
				Name:   StepSignIn,
				OnFail: SurfaceAndHalt,
				Run: func(ctx context.Context) (err error) {
					ident, err = s.gw.SignIn(ctx, email, string(password))
					return err
				},
			},
			{
				Name:   StepFetchProfile,
				OnFail: SurfaceAndHalt,
				Run: func(ctx context.Context) (err error) {
					user, err = s.gw.FetchUserProfile(ctx, ident.UserID)
					return err
				},
			},
		},
	}

	if err := sg.run(ctx); err != nil {
		return models.User{}, err
	}

	s.store.SetUser(&user)
	s.logger.Info(ctx, "signed up", "user_id", user.ID)
	return user, nil
}

// SignOut drops the gateway session and clears the store.
func (s *AuthService) SignOut() {
	s.gw.SignOut()
	s.store.SetUser(nil)
}

// CurrentUser returns the signed-in profile or ErrNotSignedIn.
func (s *AuthService) CurrentUser() (models.User, error) {
	u, ok := s.store.User()
	if !ok {
		return models.User{}, ErrNotSignedIn
	}
	return u, nil
}

// RefreshProfile refetches the current profile, e.g. to show a fresh
// credit balance.
func (s *AuthService) RefreshProfile(ctx context.Context) (models.User, error) {
	cur, err := s.CurrentUser()
	if err != nil {
		return models.User{}, err
	}
	u, err := s.gw.FetchUserProfile(ctx, cur.ID)
	if err != nil {
		return models.User{}, err
	}
	s.store.SetUser(&u)
	return u, nil
}
