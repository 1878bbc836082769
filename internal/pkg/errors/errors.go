package errors

import "errors"

var (
	// ErrNotFound is a generic sentinel for missing resources.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized is a generic sentinel for auth failures.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidArgument is a generic sentinel for invalid input.
	ErrInvalidArgument = errors.New("invalid argument")

	ErrNotOwner             = errors.New("resource belongs to another user")
	ErrNotEnrolled          = errors.New("user is not enrolled in the course")
	ErrNotEligible          = errors.New("course requirements are not complete")
	ErrAlreadyCompleted     = errors.New("attempt already completed")
	ErrAttemptNotCompleted  = errors.New("attempt not completed yet")
	ErrAttemptLimitExceeded = errors.New("attempt limit exceeded")
	ErrQuizInactive         = errors.New("quiz is not active")
	ErrPaymentRequired      = errors.New("course requires payment")
)
