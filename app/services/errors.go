// Package services holds the business rules: pricing, coupon validation,
// checkout and the admin back-office operations. Controllers call services;
// services call repositories and fire events.
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/shashiranjanraj/galeria/app/repositories"
)

var (
	ErrNotFound = repositories.ErrNotFound

	ErrInvalidCredentials = errors.New("services: invalid credentials")
	ErrEmailTaken         = errors.New("services: email already registered")
	ErrUnknownSettings    = errors.New("services: unknown settings key")
	ErrMalformedSettings  = errors.New("services: malformed settings document")
)

// Clock returns the current time. Tests inject a fixed one.
type Clock func() time.Time

func utcNow() time.Time { return time.Now().UTC() }

// ValidationError maps JSON field names to localized messages. Controllers
// answer it with a 422.
type ValidationError map[string]string

func (e ValidationError) Error() string {
	return fmt.Sprintf("services: %d invalid field(s)", len(e))
}

func orClock(c Clock) Clock {
	if c == nil {
		return utcNow
	}
	return c
}
