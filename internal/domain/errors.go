package domain

import "errors"

var (
	ErrNotFound  = errors.New("not found")
	ErrForbidden = errors.New("forbidden")

	// Interview usage-contract violations. These never reach the responder.
	ErrNotActive    = errors.New("interview is not active")
	ErrEmptyTurn    = errors.New("turn text is empty")
	ErrEmptyContext = errors.New("interview context is empty")
	ErrBusy         = errors.New("interview has a call in flight")

	// ErrResponderFailed wraps every failure of the remote text generator,
	// including output that does not match the expected shape.
	ErrResponderFailed = errors.New("responder failed")

	ErrInvalidInput     = errors.New("invalid input")
	ErrInvalidOutput    = errors.New("invalid model output")
	ErrUnknownFlow      = errors.New("unknown flow")
	ErrUnsupportedType  = errors.New("unsupported file type")
	ErrPaymentsDisabled = errors.New("payments are not configured")
)
