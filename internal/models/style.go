package models

import (
	"errors"
	"fmt"
	"strings"
)

// CommunicationStyle is the tone applied to generated greetings.
type CommunicationStyle string

const (
	StyleFormal CommunicationStyle = "formal"
	StyleCasual CommunicationStyle = "casual"
	StyleFunny  CommunicationStyle = "funny"
	StylePoetic CommunicationStyle = "poetic"
)

// DefaultStyle is assigned to new profiles and new contacts.
const DefaultStyle = StyleCasual

var ErrInvalidStyle = errors.New("invalid communication style")

// Styles lists every accepted style in display order.
func Styles() []CommunicationStyle {
	return []CommunicationStyle{StyleFormal, StyleCasual, StyleFunny, StylePoetic}
}

func (s CommunicationStyle) Valid() bool {
	switch s {
	case StyleFormal, StyleCasual, StyleFunny, StylePoetic:
		return true
	}
	return false
}

func (s CommunicationStyle) String() string { return string(s) }

// ParseCommunicationStyle accepts any casing and surrounding whitespace.
func ParseCommunicationStyle(s string) (CommunicationStyle, error) {
	style := CommunicationStyle(strings.ToLower(strings.TrimSpace(s)))
	if !style.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStyle, s)
	}
	return style, nil
}
