// Package common defines sentinel errors shared by the Aura stores, services
// and the CLI. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Account store errors.
	ErrDuplicateIdentifier = errors.New("identifier already registered")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrNotAuthenticated    = errors.New("not authenticated")

	// Session token errors.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// Diary errors.
	ErrInvalidAmount = errors.New("amount must be positive")
	ErrNothingToUndo = errors.New("nothing to undo")

	// Estimator errors. Network, timeout and parse failures all collapse here.
	ErrEstimationFailure = errors.New("meal estimation failed")
)
