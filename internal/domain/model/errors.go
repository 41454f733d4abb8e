package model

import "errors"

var (
	// ErrNotFound marks a 404 from the remote API. Fatal at repository
	// resolution time, an empty result everywhere else.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized marks a 401 from the remote API. The credential is
	// presumed invalid for the rest of the run, so no retry is attempted.
	ErrUnauthorized = errors.New("unauthorized: invalid or missing credential")

	// ErrMalformedRecord marks a raw payload missing a required field at the
	// transform boundary.
	ErrMalformedRecord = errors.New("malformed record")
)
