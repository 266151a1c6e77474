package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/greetkeeper/internal/client/forms"
	"github.com/dmitrijs2005/greetkeeper/internal/client/router"
	"github.com/dmitrijs2005/greetkeeper/internal/models"
)

func (a *App) AddPerson(ctx context.Context) error {
	return a.show(ctx, router.Location{Route: router.AddPerson})
}

// addPersonScreen fills a draft and submits it. A failed submit keeps the
// draft: the user can edit the fields (Enter keeps a value) and retry.
func (a *App) addPersonScreen(ctx context.Context) (*router.Location, error) {
	d := forms.NewPersonDraft()
	a.println("New contact")

	if err := a.fillScalars(d); err != nil {
		return nil, err
	}
	if err := a.fillDraft(d); err != nil {
		return nil, err
	}

	for {
		cctx, cancel := a.call(ctx)
		p, err := a.peopleService.Create(cctx, d)
		cancel()
		if err == nil {
			a.printf("Added %s.\n", p.Name)
			return to(router.People), nil
		}
		a.showError(ctx, "add contact failed", err)

		retry, err := confirm(a.reader, "Edit and try again?", a.out)
		if err != nil || !retry {
			return nil, err
		}
		if err := a.fillDraft(d); err != nil {
			return nil, err
		}
	}
}

func (a *App) fillDraft(d *forms.PersonDraft) error {
	if err := a.fillScalars(d); err != nil {
		return err
	}
	interests := func() []string { return d.Interests }
	if err := a.fillSlots("Interest", interests, d.AddInterest, d.SetInterest); err != nil {
		return err
	}
	traits := func() []string { return d.Traits }
	if err := a.fillSlots("Personality trait", traits, d.AddTrait, d.SetTrait); err != nil {
		return err
	}
	return a.fillStyle(d)
}

func (a *App) fillScalars(d *forms.PersonDraft) error {
	var err error
	if d.Name, err = getTextWithDefault(a.reader, "Name", d.Name, a.out); err != nil {
		return err
	}
	if d.BirthDate, err = getTextWithDefault(a.reader, "Birth date (YYYY-MM-DD)", d.BirthDate, a.out); err != nil {
		return err
	}
	if d.Relationship, err = getTextWithDefault(a.reader, "Relationship (e.g. sister, friend)", d.Relationship, a.out); err != nil {
		return err
	}
	return nil
}

// fillSlots walks the draft's list one slot at a time. A filled slot shows
// its value (Enter keeps it, "-" clears it). A non-empty answer in the last
// slot adds another one; an empty answer there finishes.
func (a *App) fillSlots(label string, slots func() []string, add func() int, set func(int, string) error) error {
	for i := 0; ; i++ {
		cur := slots()[i]
		last := i == len(slots())-1

		var v string
		var err error
		switch {
		case cur != "":
			v, err = getTextWithDefault(a.reader, fmt.Sprintf("%s #%d (- to clear)", label, i+1), cur, a.out)
			if v == "-" {
				v = ""
			}
		case last:
			v, err = getSimpleText(a.reader, fmt.Sprintf("%s #%d (empty line to finish)", label, i+1), a.out)
		default:
			v, err = getSimpleText(a.reader, fmt.Sprintf("%s #%d", label, i+1), a.out)
		}
		if err != nil {
			return err
		}
		if cur == "" && last && v == "" {
			return nil
		}
		if err := set(i, v); err != nil {
			return err
		}
		if last {
			add()
		}
	}
}

func (a *App) fillStyle(d *forms.PersonDraft) error {
	names := make([]string, 0, 4)
	for _, s := range models.Styles() {
		names = append(names, s.String())
	}
	prompt := fmt.Sprintf("Communication style (%s)", strings.Join(names, ", "))

	for {
		v, err := getTextWithDefault(a.reader, prompt, d.Style.String(), a.out)
		if err != nil {
			return err
		}
		s, err := models.ParseCommunicationStyle(v)
		if errors.Is(err, models.ErrInvalidStyle) {
			a.println("Error:", userMessage(err))
			continue
		}
		if err != nil {
			return err
		}
		d.Style = s
		return nil
	}
}
