package services

import (
	"context"
	"time"

	"github.com/dmitrijs2005/greetkeeper/internal/birthday"
	"github.com/dmitrijs2005/greetkeeper/internal/client/forms"
	"github.com/dmitrijs2005/greetkeeper/internal/client/session"
	"github.com/dmitrijs2005/greetkeeper/internal/gateway"
	"github.com/dmitrijs2005/greetkeeper/internal/logging"
	"github.com/dmitrijs2005/greetkeeper/internal/models"
)

type PeopleService struct {
	gw     gateway.Gateway
	store  *session.Store
	logger logging.Logger
	now    func() time.Time
}

func NewPeopleService(gw gateway.Gateway, store *session.Store, logger logging.Logger) *PeopleService {
	return &PeopleService{gw: gw, store: store, logger: logger, now: time.Now}
}

func (s *PeopleService) owner() (string, error) {
	u, ok := s.store.User()
	if !ok {
		return "", ErrNotSignedIn
	}
	return u.ID, nil
}

// Load replaces the stored contact list with the owner's contacts, ordered
// by name.
func (s *PeopleService) Load(ctx context.Context) ([]models.Person, error) {
	owner, err := s.owner()
	if err != nil {
		return nil, err
	}

	people, err := s.gw.ListPeople(ctx, owner)
	if err != nil {
		return nil, err
	}

	s.store.SetPeople(people)
	return people, nil
}

// Create validates the draft and inserts it. The draft is left untouched
// so a failed submit can be retried.
func (s *PeopleService) Create(ctx context.Context, d *forms.PersonDraft) (models.Person, error) {
	owner, err := s.owner()
	if err != nil {
		return models.Person{}, err
	}

	if err := d.Validate(s.now()); err != nil {
		return models.Person{}, err
	}

	p, err := s.gw.InsertPerson(ctx, d.Input(), owner)
	if err != nil {
		return models.Person{}, err
	}

	s.store.AddPerson(p)
	s.logger.Debug(ctx, "person added", "person_id", p.ID)
	return p, nil
}

// Delete removes the contact remotely and then drops exactly the entry with
// the same id from the stored list. On error the list is unchanged.
func (s *PeopleService) Delete(ctx context.Context, id string) error {
	if _, err := s.owner(); err != nil {
		return err
	}

	if err := s.gw.DeletePerson(ctx, id); err != nil {
		return err
	}

	s.store.SetPeople(withoutPerson(s.store.People(), id))
	s.logger.Debug(ctx, "person deleted", "person_id", id)
	return nil
}

func withoutPerson(people []models.Person, id string) []models.Person {
	out := make([]models.Person, 0, len(people))
	for _, p := range people {
		if p.ID != id {
			out = append(out, p)
		}
	}
	return out
}

// Countdown returns whole days until p's next birthday, or an error when
// the stored birth date does not parse.
func (s *PeopleService) Countdown(p models.Person) (int, error) {
	b, err := p.Birthday()
	if err != nil {
		return 0, err
	}
	return birthday.DaysUntil(b, s.now()), nil
}
