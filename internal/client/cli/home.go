package cli

import (
	"context"

	"github.com/dmitrijs2005/greetkeeper/internal/client/router"
)

const homeText = `
greetkeeper: never miss a birthday again

  * Contacts     keep the people who matter, with their interests and traits
  * Greetings    get a personal birthday greeting in their favourite style
  * Reminders    see how many days are left until every birthday
                 (calendar sync is coming soon)

Every new account starts with 3 free greeting credits.
`

func (a *App) Home(ctx context.Context) error {
	return a.show(ctx, router.Location{Route: router.Home})
}

func (a *App) homeScreen() error {
	a.printf("%s\n", homeText)
	if a.isLoggedIn() {
		a.println("Type 'people' to see your contacts or 'help' for all commands.")
	} else {
		a.println("Type 'register' to get started or 'login' if you already have an account.")
	}
	return nil
}
