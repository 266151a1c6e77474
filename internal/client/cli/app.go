package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/greetkeeper/internal/archive"
	"github.com/dmitrijs2005/greetkeeper/internal/client/config"
	"github.com/dmitrijs2005/greetkeeper/internal/client/router"
	"github.com/dmitrijs2005/greetkeeper/internal/client/services"
	"github.com/dmitrijs2005/greetkeeper/internal/client/session"
	"github.com/dmitrijs2005/greetkeeper/internal/gateway"
	"github.com/dmitrijs2005/greetkeeper/internal/greeting"
	"github.com/dmitrijs2005/greetkeeper/internal/logging"
)

// getSimpleText, getTextWithDefault, getPassword and confirm are
// indirections used to facilitate testing.
var (
	getSimpleText      = GetSimpleText
	getTextWithDefault = GetTextWithDefault
	getPassword        = GetPassword
	confirm            = Confirm
)

type App struct {
	config *config.Config
	logger logging.Logger
	gw     gateway.Gateway
	store  *session.Store

	authService     *services.AuthService
	peopleService   *services.PeopleService
	greetingService *services.GreetingService

	reader *bufio.Reader
	out    io.Writer
	loc    router.Location
	now    func() time.Time
}

func newApp(c *config.Config, gw gateway.Gateway, arch archive.Archive, logger logging.Logger, in io.Reader, out io.Writer) *App {
	store := session.NewStore()
	auth := services.NewAuthService(gw, store, logger)
	if c != nil {
		auth.SetStepTimeout(c.RequestTimeout)
	}
	return &App{
		config:          c,
		logger:          logger,
		gw:              gw,
		store:           store,
		authService:     auth,
		peopleService:   services.NewPeopleService(gw, store, logger),
		greetingService: services.NewGreetingService(gw, store, greeting.NewTemplateGenerator(), arch, logger),
		reader:          bufio.NewReader(in),
		out:             out,
		now:             time.Now,
	}
}

// Run shows the home screen and blocks in the REPL until the user exits or
// input ends. The gateway is closed on return.
func (a *App) Run(ctx context.Context) {
	defer func() {
		if err := a.gw.Close(); err != nil {
			a.logger.Warn(ctx, "close gateway", "error", err)
		}
	}()

	_ = a.Home(ctx)
	runREPL(ctx, a, a.status, a.reader)
}

func (a *App) isLoggedIn() bool {
	_, ok := a.store.User()
	return ok
}

// status is shown in the prompt: current path, then email and credits when
// signed in.
func (a *App) status() string {
	s := a.loc.Path()
	if u, ok := a.store.User(); ok {
		s = fmt.Sprintf("%s %s, %d credits", s, u.Email, u.Credits)
	}
	return s
}

// call bounds one remote round trip by the configured request timeout.
func (a *App) call(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.config == nil || a.config.RequestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, a.config.RequestTimeout)
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

// showError prints err inline and logs it.
func (a *App) showError(ctx context.Context, what string, err error) {
	a.logger.Warn(ctx, what, "path", a.loc.Path(), "error", err)
	a.println("Error:", userMessage(err))
}

// Navigate opens the screen for path, following redirects: screens that
// need a user send a signed-out user to /auth, and a screen may hand over
// to the next one (e.g. sign-in to /people).
func (a *App) Navigate(ctx context.Context, path string) error {
	loc, err := router.Parse(path)
	if err != nil {
		a.println("Error:", userMessage(err))
		return nil
	}
	return a.show(ctx, loc)
}

func (a *App) show(ctx context.Context, loc router.Location) error {
	for {
		if loc.Route.RequiresUser() && !a.isLoggedIn() {
			a.println("Please sign in first.")
			loc = router.Location{Route: router.Auth}
		}
		a.loc = loc
		a.logger.Debug(ctx, "navigate", "path", loc.Path())

		next, err := a.screen(ctx, loc)
		if err != nil || next == nil {
			return err
		}
		loc = *next
	}
}

func (a *App) screen(ctx context.Context, loc router.Location) (*router.Location, error) {
	switch loc.Route {
	case router.Auth:
		return a.authScreen(ctx, modeSignIn, true)
	case router.AddPerson:
		return a.addPersonScreen(ctx)
	case router.People:
		return a.peopleScreen(ctx)
	case router.Generate:
		return a.generateScreen(ctx, loc.ID)
	}
	return nil, a.homeScreen()
}

func to(r router.Route) *router.Location {
	return &router.Location{Route: r}
}
