package common

import "errors"

var (
	// Local storage errors.
	ErrorCorruptedSession = errors.New("corrupted session data")
)
