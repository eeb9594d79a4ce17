// Package common defines shared constants and sentinel errors used across
// the storyboard components. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Lookup errors.
	ErrorNotFound = errors.New("not found")

	// Lifecycle errors.
	ErrBusy         = errors.New("generation already in progress")
	ErrNotRunning   = errors.New("no generation in progress")
	ErrNotConfirmed = errors.New("not confirmed")

	// Validation errors.
	ErrValidation = errors.New("validation error")

	// Credential gate errors. ErrCredentialInvalid means the provider rejected
	// the key (stale or wrong project); the caller must re-authorize.
	ErrCredentialRequired = errors.New("credential required")
	ErrCredentialInvalid  = errors.New("credential invalid")

	// Export errors.
	ErrNoScenes = errors.New("no scenes yet")
	ErrNoVideos = errors.New("no videos generated yet")
	ErrNoStills = errors.New("no still images generated yet")
)
