// Package forms keeps the state of the add-contact form between prompts.
package forms

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/greetkeeper/internal/models"
)

var (
	ErrRequired     = errors.New("field is required")
	ErrInvalidDate  = errors.New("birth date must look like 1990-07-15")
	ErrFutureDate   = errors.New("birth date is in the future")
	ErrSlotOutRange = errors.New("no such entry")
)

// PersonDraft is the editable add-contact form. Interests and Traits are
// growable lists of slots; a fresh draft has one empty slot in each.
type PersonDraft struct {
	Name         string
	BirthDate    string
	Relationship string
	Style        models.CommunicationStyle
	Interests    []string
	Traits       []string
}

func NewPersonDraft() *PersonDraft {
	return &PersonDraft{
		Style:     models.DefaultStyle,
		Interests: []string{""},
		Traits:    []string{""},
	}
}

// AddInterest appends an empty interest slot and returns its index.
func (d *PersonDraft) AddInterest() int {
	d.Interests = append(d.Interests, "")
	return len(d.Interests) - 1
}

// AddTrait appends an empty trait slot and returns its index.
func (d *PersonDraft) AddTrait() int {
	d.Traits = append(d.Traits, "")
	return len(d.Traits) - 1
}

func (d *PersonDraft) SetInterest(i int, v string) error {
	return setSlot(d.Interests, i, v)
}

func (d *PersonDraft) SetTrait(i int, v string) error {
	return setSlot(d.Traits, i, v)
}

func setSlot(slots []string, i int, v string) error {
	if i < 0 || i >= len(slots) {
		return fmt.Errorf("%w: %d", ErrSlotOutRange, i)
	}
	slots[i] = v
	return nil
}

// Validate checks the required fields, the date format and the style.
// The birth date may not be after today's calendar date in today's location.
func (d *PersonDraft) Validate(today time.Time) error {
	var errs []error
	if strings.TrimSpace(d.Name) == "" {
		errs = append(errs, fmt.Errorf("name: %w", ErrRequired))
	}
	if strings.TrimSpace(d.BirthDate) == "" {
		errs = append(errs, fmt.Errorf("birth date: %w", ErrRequired))
	} else if born, err := time.Parse(models.DateLayout, strings.TrimSpace(d.BirthDate)); err != nil {
		errs = append(errs, ErrInvalidDate)
	} else if y, m, dd := today.Date(); born.After(time.Date(y, m, dd, 0, 0, 0, 0, time.UTC)) {
		errs = append(errs, ErrFutureDate)
	}
	if strings.TrimSpace(d.Relationship) == "" {
		errs = append(errs, fmt.Errorf("relationship: %w", ErrRequired))
	}
	if !d.Style.Valid() {
		errs = append(errs, fmt.Errorf("%w: %q", models.ErrInvalidStyle, d.Style))
	}
	return errors.Join(errs...)
}

// Input builds the insert payload. Empty and whitespace-only list entries
// are dropped; the rest keep their order.
func (d *PersonDraft) Input() models.PersonInput {
	return models.PersonInput{
		Name:               strings.TrimSpace(d.Name),
		BirthDate:          strings.TrimSpace(d.BirthDate),
		Relationship:       strings.TrimSpace(d.Relationship),
		Interests:          nonEmpty(d.Interests),
		PersonalityTraits:  nonEmpty(d.Traits),
		CommunicationStyle: d.Style,
	}
}

func nonEmpty(items []string) []string {
	out := make([]string, 0, len(items))
	for _, s := range items {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
