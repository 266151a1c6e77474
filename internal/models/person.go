package models

import (
	"fmt"
	"time"
)

// DateLayout is the civil-date format used for birth dates.
const DateLayout = "2006-01-02"

// Person is a contact owned by a user.
type Person struct {
	ID                 string             `json:"id"`
	UserID             string             `json:"user_id"`
	Name               string             `json:"name"`
	BirthDate          string             `json:"birth_date"`
	Relationship       string             `json:"relationship"`
	Interests          []string           `json:"interests"`
	PersonalityTraits  []string           `json:"personality_traits"`
	CommunicationStyle CommunicationStyle `json:"communication_style"`
	CreatedAt          time.Time          `json:"created_at"`
}

// Birthday parses BirthDate as a UTC civil date.
func (p Person) Birthday() (time.Time, error) {
	d, err := time.Parse(DateLayout, p.BirthDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("birth date %q: %w", p.BirthDate, err)
	}
	return d, nil
}

// PersonInput carries the user-supplied fields of a new contact.
// The identifier, owner and timestamp are assigned on insert.
type PersonInput struct {
	Name               string             `json:"name"`
	BirthDate          string             `json:"birth_date"`
	Relationship       string             `json:"relationship"`
	Interests          []string           `json:"interests"`
	PersonalityTraits  []string           `json:"personality_traits"`
	CommunicationStyle CommunicationStyle `json:"communication_style"`
}
