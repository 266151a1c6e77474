package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/greetkeeper/internal/birthday"
	"github.com/dmitrijs2005/greetkeeper/internal/client/router"
	"github.com/dmitrijs2005/greetkeeper/internal/models"
)

func (a *App) People(ctx context.Context) error {
	return a.show(ctx, router.Location{Route: router.People})
}

// peopleScreen refetches the contact list and prints it.
func (a *App) peopleScreen(ctx context.Context) (*router.Location, error) {
	cctx, cancel := a.call(ctx)
	defer cancel()

	if _, err := a.peopleService.Load(cctx); err != nil {
		a.showError(ctx, "load contacts failed", err)
		return nil, nil
	}
	a.printPeople()
	return nil, nil
}

func (a *App) printPeople() {
	people := a.store.People()
	if len(people) == 0 {
		a.println("No contacts yet. Type 'add' to add someone.")
		return
	}

	a.printf("Your contacts (%d):\n", len(people))
	for i, p := range people {
		a.printf("%2d. %s\n", i+1, a.describe(p))
		a.printf("    id: %s\n", p.ID)
		if len(p.Interests) > 0 {
			a.printf("    interests: %s\n", strings.Join(p.Interests, ", "))
		}
		if len(p.PersonalityTraits) > 0 {
			a.printf("    traits: %s\n", strings.Join(p.PersonalityTraits, ", "))
		}
	}
	a.println("Type 'generate <id>' for a greeting or 'delete <id>' to remove a contact.")
}

// describe renders "Anna (sister), 15 July, birthday in 5 days".
func (a *App) describe(p models.Person) string {
	s := fmt.Sprintf("%s (%s)", p.Name, p.Relationship)
	b, err := p.Birthday()
	if err != nil {
		return s + ", birthday unknown"
	}
	s += ", " + birthday.Format(b)

	switch days := birthday.DaysUntil(b, a.now()); days {
	case 0:
		return s + ", birthday today!"
	case 1:
		return s + ", birthday tomorrow"
	default:
		return fmt.Sprintf("%s, birthday in %d days", s, days)
	}
}

// Delete asks for confirmation, deletes the contact and prints the list
// without refetching it.
func (a *App) Delete(ctx context.Context, id string) error {
	if !a.isLoggedIn() {
		a.println("Please sign in first.")
		return nil
	}
	a.loc = router.Location{Route: router.People}

	name := id
	if p, ok := a.store.Person(id); ok {
		name = p.Name
	}

	ok, err := confirm(a.reader, fmt.Sprintf("Delete %s?", name), a.out)
	if err != nil {
		return err
	}
	if !ok {
		a.println("Cancelled.")
		return nil
	}

	cctx, cancel := a.call(ctx)
	defer cancel()

	if err := a.peopleService.Delete(cctx, id); err != nil {
		a.showError(ctx, "delete contact failed", err)
		return nil
	}
	a.printf("Deleted %s.\n", name)
	a.printPeople()
	return nil
}
