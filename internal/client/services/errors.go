package services

import "errors"

var (
	ErrNotSignedIn         = errors.New("please sign in first")
	ErrInsufficientCredits = errors.New("not enough credits to generate a greeting")
	ErrGenerationInFlight  = errors.New("a greeting is already being generated")
	ErrContactNotLoaded    = errors.New("contact is not loaded")
	ErrGreetingExists      = errors.New("discard the current greeting before generating a new one")
	ErrNoGreeting          = errors.New("there is no greeting yet")
	ErrDebitFailed         = errors.New("greeting generated but the credit could not be charged")
	ErrCopyFailed          = errors.New("failed to copy text")
)
