package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/greetkeeper/internal/archive"
	"github.com/dmitrijs2005/greetkeeper/internal/client/session"
	"github.com/dmitrijs2005/greetkeeper/internal/gateway"
	"github.com/dmitrijs2005/greetkeeper/internal/greeting"
	"github.com/dmitrijs2005/greetkeeper/internal/logging"
	"github.com/dmitrijs2005/greetkeeper/internal/models"
)

// PageState is the state of one visit to the greeting page.
type PageState int

const (
	StateLoadingContact PageState = iota
	StateReadyNoGreeting
	StateReadyWithGreeting
	StateError
)

func (s PageState) String() string {
	switch s {
	case StateLoadingContact:
		return "loading-contact"
	case StateReadyNoGreeting:
		return "ready-no-greeting"
	case StateReadyWithGreeting:
		return "ready-with-greeting"
	case StateError:
		return "error"
	}
	return fmt.Sprintf("PageState(%d)", int(s))
}

type GreetingService struct {
	gw      gateway.Gateway
	store   *session.Store
	gen     greeting.Generator
	archive archive.Archive
	logger  logging.Logger
}

func NewGreetingService(gw gateway.Gateway, store *session.Store, gen greeting.Generator, arch archive.Archive, logger logging.Logger) *GreetingService {
	if arch == nil {
		arch = archive.Disabled{}
	}
	return &GreetingService{gw: gw, store: store, gen: gen, archive: arch, logger: logger}
}

// Open starts a visit for the contact personID and fetches it. The page is
// always returned; when the fetch fails it is in StateError and the error
// is returned as well.
func (s *GreetingService) Open(ctx context.Context, personID string) (*GreetingPage, error) {
	p := &GreetingPage{svc: s, personID: personID, state: StateLoadingContact}
	return p, p.Load(ctx)
}

// GreetingPage is the state machine of one visit:
//
//	loading-contact -> ready-no-greeting <-> ready-with-greeting
//	loading-contact -> error
type GreetingPage struct {
	svc      *GreetingService
	personID string

	mu       sync.Mutex
	state    PageState
	person   models.Person
	text     string
	err      error
	inFlight bool

	copy CopyIndicator
}

// Load fetches the contact. It is only valid before the contact is loaded
// or after a failed load.
func (p *GreetingPage) Load(ctx context.Context) error {
	p.mu.Lock()
	if p.state != StateLoadingContact && p.state != StateError {
		p.mu.Unlock()
		return nil
	}
	p.state = StateLoadingContact
	p.mu.Unlock()

	person, err := p.fetch(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()
	if err != nil {
		p.state = StateError
		p.err = err
		p.svc.logger.Warn(ctx, "load contact failed", "person_id", p.personID, "error", err)
		return err
	}
	p.person = person
	p.err = nil
	p.state = StateReadyNoGreeting
	return nil
}

func (p *GreetingPage) fetch(ctx context.Context) (models.Person, error) {
	u, ok := p.svc.store.User()
	if !ok {
		return models.Person{}, ErrNotSignedIn
	}
	person, err := p.svc.gw.FetchPerson(ctx, p.personID)
	if err != nil {
		return models.Person{}, err
	}
	if person.UserID != u.ID {
		return models.Person{}, gateway.ErrNotFound
	}
	return person, nil
}

// Generate synthesises the greeting and debits one credit. It needs a
// loaded contact, no current greeting, no other generation running and a
// balance of at least one credit; otherwise nothing is debited.
//
// The text is shown before the debit is sent. When the debit fails the
// text is still returned together with an error wrapping ErrDebitFailed,
// and the stored balance is left as it was.
func (p *GreetingPage) Generate(ctx context.Context) (string, error) {
	p.mu.Lock()
	switch {
	case p.state == StateLoadingContact || p.state == StateError:
		p.mu.Unlock()
		return "", ErrContactNotLoaded
	case p.inFlight:
		p.mu.Unlock()
		return "", ErrGenerationInFlight
	case p.state == StateReadyWithGreeting:
		p.mu.Unlock()
		return "", ErrGreetingExists
	}
	user, ok := p.svc.store.User()
	if !ok {
		p.mu.Unlock()
		return "", ErrNotSignedIn
	}
	if !user.CanGenerate() {
		p.mu.Unlock()
		return "", ErrInsufficientCredits
	}
	p.inFlight = true
	person := p.person
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.inFlight = false
		p.mu.Unlock()
	}()

	style := person.CommunicationStyle
	if !style.Valid() {
		style = user.CommunicationStyle
	}

	text, err := p.svc.gen.Generate(ctx, greeting.Request{Person: person, Style: style})
	if err != nil {
		return "", fmt.Errorf("generate greeting: %w", err)
	}

	p.mu.Lock()
	p.text = text
	p.state = StateReadyWithGreeting
	p.mu.Unlock()

	credits := user.Credits - 1
	if err := p.svc.gw.UpdateUserCredits(ctx, user.ID, credits); err != nil {
		p.svc.logger.Error(ctx, "debit failed after greeting was shown", "user_id", user.ID, "error", err)
		return text, fmt.Errorf("%w: %w", ErrDebitFailed, err)
	}
	p.svc.store.SetCredits(credits)
	p.svc.logger.Debug(ctx, "greeting generated", "person_id", person.ID, "credits", credits)
	return text, nil
}

// Discard drops the current greeting so another one can be generated.
func (p *GreetingPage) Discard() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != StateReadyWithGreeting {
		return ErrNoGreeting
	}
	p.text = ""
	p.state = StateReadyNoGreeting
	p.copy.Stop()
	return nil
}

// Copy writes the current greeting to the clipboard.
func (p *GreetingPage) Copy() error {
	text, err := p.current()
	if err != nil {
		return err
	}
	return p.copy.Copy(text)
}

// Save uploads the current greeting to the archive.
func (p *GreetingPage) Save(ctx context.Context) (archive.Receipt, error) {
	text, err := p.current()
	if err != nil {
		return archive.Receipt{}, err
	}
	u, ok := p.svc.store.User()
	if !ok {
		return archive.Receipt{}, ErrNotSignedIn
	}
	r, err := p.svc.archive.Put(ctx, u.ID, p.personID, text)
	if err != nil && !errors.Is(err, archive.ErrDisabled) {
		p.svc.logger.Warn(ctx, "archive upload failed", "person_id", p.personID, "error", err)
	}
	return r, err
}

func (p *GreetingPage) current() (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != StateReadyWithGreeting {
		return "", ErrNoGreeting
	}
	return p.text, nil
}

func (p *GreetingPage) State() PageState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *GreetingPage) Person() models.Person {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.person
}

func (p *GreetingPage) Greeting() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.text
}

// Err is the load error when the page is in StateError.
func (p *GreetingPage) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

func (p *GreetingPage) Copied() bool {
	return p.copy.Copied()
}
