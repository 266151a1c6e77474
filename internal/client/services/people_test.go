package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/greetkeeper/internal/client/forms"
	"github.com/dmitrijs2005/greetkeeper/internal/gateway/memory"
	"github.com/dmitrijs2005/greetkeeper/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreate_FiltersEmptyInterests(t *testing.T) {
	e := newEnv(t)
	e.signUp(t, "ann@example.com")

	d := newDraft("Bob", "friend", "", "reading", "")
	p, err := e.people.Create(context.Background(), d)
	require.NoError(t, err)

	assert.Equal(t, []string{"reading"}, p.Interests)
	assert.Empty(t, p.PersonalityTraits)

	stored := e.store.People()
	require.Len(t, stored, 1)
	assert.Equal(t, p, stored[0])
}

func TestCreate_NotSignedIn(t *testing.T) {
	e := newEnv(t)
	_, err := e.people.Create(context.Background(), newDraft("Bob", "friend"))
	require.ErrorIs(t, err, ErrNotSignedIn)
	assert.Empty(t, e.gw.Calls())
}

func TestCreate_InvalidDraft(t *testing.T) {
	e := newEnv(t)
	e.signUp(t, "ann@example.com")
	before := len(e.gw.Calls())

	d := forms.NewPersonDraft()
	_, err := e.people.Create(context.Background(), d)
	require.ErrorIs(t, err, forms.ErrRequired)
	assert.Len(t, e.gw.Calls(), before, "no remote call for an invalid draft")
}

func TestCreate_RemoteFailureKeepsDraft(t *testing.T) {
	e := newEnv(t)
	e.signUp(t, "ann@example.com")
	boom := errors.New("row rejected")
	e.gw.FailOn(memory.OpInsertPerson, boom)

	d := newDraft("Bob", "friend", "chess")
	_, err := e.people.Create(context.Background(), d)
	require.ErrorIs(t, err, boom)

	assert.Empty(t, e.store.People())
	assert.Equal(t, "Bob", d.Name)
	assert.Equal(t, []string{"chess"}, d.Interests)

	e.gw.FailOn(memory.OpInsertPerson, nil)
	_, err = e.people.Create(context.Background(), d)
	require.NoError(t, err)
	assert.Len(t, e.store.People(), 1)
}

func TestLoad_OrderedByName(t *testing.T) {
	e := newEnv(t)
	e.signUp(t, "ann@example.com")
	e.addPerson(t, "Zoe", "friend")
	e.addPerson(t, "Anna", "sister")
	e.addPerson(t, "Mark", "colleague")

	e.store.SetPeople(nil)
	people, err := e.people.Load(context.Background())
	require.NoError(t, err)

	names := make([]string, 0, len(people))
	for _, p := range people {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"Anna", "Mark", "Zoe"}, names)
	assert.Equal(t, people, e.store.People())
}

func TestLoad_OnlyOwnContacts(t *testing.T) {
	e := newEnv(t)
	e.signUp(t, "ann@example.com")
	e.addPerson(t, "Anna", "sister")
	e.auth.SignOut()

	e.signUp(t, "bob@example.com")
	people, err := e.people.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, people)
}

func TestDelete_RemovesExactlyOne(t *testing.T) {
	for _, victim := range []int{0, 1, 2} {
		e := newEnv(t)
		e.signUp(t, "ann@example.com")
		e.addPerson(t, "Anna", "sister")
		e.addPerson(t, "Bob", "friend")
		e.addPerson(t, "Carl", "uncle")
		before := e.store.People()

		require.NoError(t, e.people.Delete(context.Background(), before[victim].ID))

		after := e.store.People()
		require.Len(t, after, 2)
		var want []models.Person
		for i, p := range before {
			if i != victim {
				want = append(want, p)
			}
		}
		assert.Equal(t, want, after)
	}
}

func TestDelete_FailureLeavesList(t *testing.T) {
	e := newEnv(t)
	e.signUp(t, "ann@example.com")
	p := e.addPerson(t, "Anna", "sister")
	e.gw.FailOn(memory.OpDeletePerson, errors.New("offline"))

	err := e.people.Delete(context.Background(), p.ID)
	require.Error(t, err)
	assert.Len(t, e.store.People(), 1)
}

func TestCountdown(t *testing.T) {
	e := newEnv(t)
	e.people.now = func() time.Time { return time.Date(2025, 7, 10, 18, 0, 0, 0, time.UTC) }

	days, err := e.people.Countdown(models.Person{BirthDate: "1990-07-15"})
	require.NoError(t, err)
	assert.Equal(t, 5, days)

	days, err = e.people.Countdown(models.Person{BirthDate: "1990-07-10"})
	require.NoError(t, err)
	assert.Equal(t, 0, days)

	_, err = e.people.Countdown(models.Person{BirthDate: "15/07/1990"})
	require.Error(t, err)
}
