package services

import "errors"

// Failure taxonomy shared by all services. Validation and not-found
// failures wrap these sentinels with field or entity detail; anything else
// coming out of the persistence layer passes through untranslated so
// callers see last-known-good state plus the raw failure.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrForbidden  = errors.New("forbidden")

	// ErrAcceptIncomplete marks a chat request that was persisted as
	// accepted while its conversation was never created. The state is
	// recoverable through ChatService.RepairConversation.
	ErrAcceptIncomplete = errors.New("request accepted but conversation missing")
)
