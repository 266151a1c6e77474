package models

import "time"

// InitialCredits is the balance granted to every new profile.
const InitialCredits = 3

// User is the profile row of a signed-in account.
type User struct {
	ID                 string             `json:"id"`
	Email              string             `json:"email"`
	CommunicationStyle CommunicationStyle `json:"communication_style"`
	Credits            int                `json:"credits"`
	CreatedAt          time.Time          `json:"created_at"`
}

// CanGenerate reports whether the balance covers one greeting.
func (u User) CanGenerate() bool {
	return u.Credits >= 1
}
