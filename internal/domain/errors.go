package domain

import "errors"

var (
	// ErrDuplicate reports that an equivalent record already exists in the
	// store. It is an expected, counted outcome, not a failure.
	ErrDuplicate = errors.New("record already exists")

	// ErrStoreUnavailable reports that the store connection could not be
	// reestablished after bounded retries.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrPageUnparseable reports that a mandatory field could not be
	// resolved from a fetched page.
	ErrPageUnparseable = errors.New("page unparseable")
)
