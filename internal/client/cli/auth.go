package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/greetkeeper/internal/client/router"
	"github.com/dmitrijs2005/greetkeeper/internal/models"
)

type authMode int

const (
	modeSignIn authMode = iota
	modeSignUp
)

func (m authMode) String() string {
	if m == modeSignUp {
		return "Sign up"
	}
	return "Sign in"
}

func (m authMode) other() authMode {
	if m == modeSignUp {
		return modeSignIn
	}
	return modeSignUp
}

func (a *App) Auth(ctx context.Context) error {
	return a.show(ctx, router.Location{Route: router.Auth})
}

// Login opens the auth screen in sign-in mode without the mode prompt.
func (a *App) Login(ctx context.Context) error {
	return a.authDirect(ctx, modeSignIn)
}

// Register opens the auth screen in sign-up mode without the mode prompt.
func (a *App) Register(ctx context.Context) error {
	return a.authDirect(ctx, modeSignUp)
}

func (a *App) authDirect(ctx context.Context, mode authMode) error {
	a.loc = router.Location{Route: router.Auth}
	next, err := a.authScreen(ctx, mode, false)
	if err != nil || next == nil {
		return err
	}
	return a.show(ctx, *next)
}

// authScreen asks for credentials and signs in or up. With choose set, the
// user can first switch between the two modes. On success it hands over to
// the contact list; on failure it prints the error and stays on /auth.
func (a *App) authScreen(ctx context.Context, mode authMode, choose bool) (*router.Location, error) {
	if a.isLoggedIn() {
		u, _ := a.store.User()
		a.printf("Already signed in as %s. Type 'logout' to switch accounts.\n", u.Email)
		return nil, nil
	}

	for choose {
		v, err := getSimpleText(a.reader, fmt.Sprintf("%s. Press Enter to continue, 't' to %s instead, 'b' to go back", mode, strings.ToLower(mode.other().String())), a.out)
		if err != nil {
			return nil, err
		}
		switch strings.ToLower(v) {
		case "t", "toggle":
			mode = mode.other()
		case "b", "back":
			return nil, nil
		case "":
			choose = false
		}
	}

	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return nil, err
	}

	// The services wipe the password buffer.
	password, err := getPassword(a.out)
	if err != nil {
		return nil, err
	}

	var u models.User
	if mode == modeSignUp {
		// SignUp bounds each of its remote calls on its own.
		u, err = a.authService.SignUp(ctx, email, password)
	} else {
		cctx, cancel := a.call(ctx)
		u, err = a.authService.SignIn(cctx, email, password)
		cancel()
	}
	if err != nil {
		a.showError(ctx, strings.ToLower(mode.String())+" failed", err)
		return nil, nil
	}

	a.printf("Welcome, %s! You have %d credits.\n", u.Email, u.Credits)
	return to(router.People), nil
}

func (a *App) Logout(ctx context.Context) error {
	if !a.isLoggedIn() {
		a.println("You are not signed in.")
		return nil
	}
	a.authService.SignOut()
	a.logger.Info(ctx, "signed out")
	a.println("Signed out.")
	return a.Home(ctx)
}

// Credits refetches the profile and prints the balance.
func (a *App) Credits(ctx context.Context) error {
	if !a.isLoggedIn() {
		a.println("Please sign in first.")
		return nil
	}
	cctx, cancel := a.call(ctx)
	defer cancel()

	u, err := a.authService.RefreshProfile(cctx)
	if err != nil {
		a.showError(ctx, "refresh profile failed", err)
		return nil
	}
	a.printf("Credits: %d\n", u.Credits)
	return nil
}
