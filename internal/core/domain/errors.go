package domain

import "errors"

// Authentication.
var (
	ErrUserNotFound       = errors.New("cannot find user")
	ErrInvalidCredentials = errors.New("invalid password")
	ErrHashing            = errors.New("password hashing failed")
)

// Signup.
var (
	ErrMissingFields = errors.New("request does not contain username and password")
	ErrUsernameTaken = errors.New("username is already in use")
)

// Storage and lookups.
var (
	ErrStorage          = errors.New("storage failure")
	ErrQuestionNotFound = errors.New("could not find this question")
	ErrSessionNotFound  = errors.New("session not found")
	// ErrLevelConflict is returned when the persisted level moved on since the
	// session cached it, so a conditional level update matched nothing.
	ErrLevelConflict = errors.New("level changed by another session")
)
