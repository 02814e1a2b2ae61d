package model

import "errors"

// Common errors used across the application
var (
	// Storage errors
	ErrItemNotFound       = errors.New("storage item not found")
	ErrQuotaExceeded      = errors.New("storage quota exceeded")
	ErrStorageUnavailable = errors.New("storage unavailable")

	// Profile errors
	ErrCorruptRecord      = errors.New("persisted profile record is corrupt")
	ErrInvalidOrigin      = errors.New("invalid storage origin")
	ErrInvalidPreference  = errors.New("invalid preference")
	ErrInvalidAvatar      = errors.New("invalid avatar")
	ErrInvalidUsername    = errors.New("invalid username")
	ErrInvalidDuration    = errors.New("invalid play session duration")
	ErrInvalidAmount      = errors.New("invalid experience amount")
	ErrInvalidAchievement = errors.New("invalid achievement")

	// Catalog errors
	ErrCatalogUnavailable = errors.New("catalog unavailable")
	ErrGameNotFound       = errors.New("game not found")
	ErrInvalidSection     = errors.New("invalid store section")
	ErrInvalidFilter      = errors.New("invalid library filter")

	// Play session errors
	ErrSessionInProgress = errors.New("a play session is already in progress")
	ErrNoActiveSession   = errors.New("no active play session")
)
