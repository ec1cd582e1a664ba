package models

import "errors"

// Sentinel errors for model fetch operations.
// Use errors.Is() to check for specific error conditions.
var (
	// ErrUnknownModel indicates the name does not match any catalog entry.
	ErrUnknownModel = errors.New("models: unknown model")

	// ErrNotFetched indicates the model file is not present locally.
	ErrNotFetched = errors.New("models: model not fetched")

	// ErrNetworkError indicates the HTTP transfer failed, including non-2xx
	// status responses.
	ErrNetworkError = errors.New("models: network error")

	// ErrStorageError indicates a filesystem operation failed.
	ErrStorageError = errors.New("models: storage error")
)
