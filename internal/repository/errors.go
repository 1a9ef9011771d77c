package repository

import "errors"

// Sentinel errors returned by the stores. Services translate them into
// HTTP-aware errors.
var (
	ErrTeacherNotFound    = errors.New("teacher not found")
	ErrSessionNotFound    = errors.New("session not found")
	ErrActivityNotFound   = errors.New("activity not found")
	ErrParticipantExists  = errors.New("participant already registered")
	ErrParticipantMissing = errors.New("participant not registered")
)
