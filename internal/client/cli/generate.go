package cli

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dmitrijs2005/greetkeeper/internal/archive"
	"github.com/dmitrijs2005/greetkeeper/internal/client/router"
	"github.com/dmitrijs2005/greetkeeper/internal/client/services"
)

const generateHelp = "Commands: (g)enerate, (d)iscard, (c)opy, (s)ave, (b)ack"

func (a *App) Generate(ctx context.Context, id string) error {
	return a.show(ctx, router.Location{Route: router.Generate, ID: id})
}

// generateScreen runs one visit of the greeting page for contact id.
func (a *App) generateScreen(ctx context.Context, id string) (*router.Location, error) {
	cctx, cancel := a.call(ctx)
	page, err := a.greetingService.Open(cctx, id)
	cancel()
	if err != nil {
		a.showError(ctx, "load contact failed", err)
		a.println("Type 'people' to go back to your contacts.")
		return nil, nil
	}

	p := page.Person()
	a.printf("Greeting for %s (%s)\n", p.Name, p.Relationship)
	a.printBalance()
	a.println(generateHelp)

	for {
		v, err := getSimpleText(a.reader, "greeting ["+page.State().String()+"]", a.out)
		if err != nil {
			return nil, err
		}

		switch strings.ToLower(v) {
		case "g", "generate":
			a.generate(ctx, page)

		case "d", "discard", "regenerate":
			if err := page.Discard(); err != nil {
				a.println("Error:", userMessage(err))
				continue
			}
			a.println("Discarded. Type 'generate' for a new greeting.")

		case "c", "copy":
			if err := page.Copy(); err != nil {
				a.showError(ctx, "copy failed", err)
				continue
			}
			a.println("Copied!")

		case "s", "save":
			a.save(ctx, page)

		case "b", "back", "people":
			return to(router.People), nil

		case "":

		default:
			a.println(generateHelp)
		}
	}
}

func (a *App) generate(ctx context.Context, page *services.GreetingPage) {
	cctx, cancel := a.call(ctx)
	defer cancel()

	text, err := page.Generate(cctx)
	if text != "" {
		a.println()
		a.println(text)
		a.println()
	}
	if err != nil {
		a.showError(ctx, "generate failed", err)
	}
	if errors.Is(err, services.ErrInsufficientCredits) {
		a.println("You are out of credits.")
	}
	a.printBalance()
}

func (a *App) save(ctx context.Context, page *services.GreetingPage) {
	cctx, cancel := a.call(ctx)
	defer cancel()

	r, err := page.Save(cctx)
	switch {
	case errors.Is(err, archive.ErrDisabled):
		a.println("Saving is not configured (set GREETKEEPER_S3_BUCKET).")
	case err != nil:
		a.showError(ctx, "save failed", err)
	default:
		a.printf("Saved as %s\nDownload link (valid until %s):\n%s\n", r.Key, r.ExpiresAt.Local().Format(time.DateTime), r.URL)
	}
}

func (a *App) printBalance() {
	if u, ok := a.store.User(); ok {
		a.printf("Credits: %d\n", u.Credits)
	}
}
