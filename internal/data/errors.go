package data

import "errors"

// Shared sentinel errors for data-layer repositories.
var (
	// ErrUIDRequired is returned when a repository call is missing the provider uid.
	ErrUIDRequired = errors.New("uid is required")
)
