package services

import (
	"errors"
	"fmt"

	"starwars-api/models"
)

// Not found errors
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrCharacterNotFound = errors.New("character not found")
	ErrPlanetNotFound    = errors.New("planet not found")
	ErrFavoriteNotFound  = errors.New("favorite not found")
)

// Empty collection errors; reported as not found with a message only
var (
	ErrNoUsers      = errors.New("no users found")
	ErrNoCharacters = errors.New("no characters found")
	ErrNoPlanets    = errors.New("no planets found")
	ErrNoFavorites  = errors.New("no favorites found")
)

// Conflict errors
var (
	ErrEmailAlreadyExists    = errors.New("email is already registered")
	ErrFavoriteAlreadyExists = errors.New("favorite already exists")
)

// Authentication errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserInactive       = errors.New("user is inactive")
)

// ErrPersistence wraps storage failures; the surrounding transaction has been rolled back
var ErrPersistence = errors.New("persistence error")

// ValidationError carries the field errors of a rejected request
type ValidationError struct {
	Fields models.ValidationErrors
}

func (e *ValidationError) Error() string {
	return e.Fields.Error()
}

func newValidationError(fields models.ValidationErrors) error {
	return &ValidationError{Fields: fields}
}

// persistence wraps a storage error unless it is already a domain error
func persistence(op string, err error) error {
	if err == nil || isDomainError(err) {
		return err
	}
	return fmt.Errorf("%w: %s: %v", ErrPersistence, op, err)
}

func isDomainError(err error) bool {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return true
	}
	for _, target := range []error{
		ErrUserNotFound, ErrCharacterNotFound, ErrPlanetNotFound, ErrFavoriteNotFound,
		ErrNoUsers, ErrNoCharacters, ErrNoPlanets, ErrNoFavorites,
		ErrEmailAlreadyExists, ErrFavoriteAlreadyExists, ErrInvalidCredentials, ErrUserInactive,
		ErrPersistence,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
