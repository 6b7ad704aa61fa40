package session

import "errors"

var (
	// ErrSessionNotFound indicates the requested session is missing.
	ErrSessionNotFound = errors.New("session not found")

	// ErrSessionClosed indicates an operation expected an open session.
	ErrSessionClosed = errors.New("session already closed")
)
