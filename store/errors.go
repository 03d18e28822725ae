package store

import "errors"

// Failure taxonomy shared by every backend. Handlers map these onto HTTP
// statuses with errors.Is; anything else is a generic I/O failure.
var (
	ErrNotFound          = errors.New("record not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrPayloadTooLarge   = errors.New("payload exceeds size limit")
	ErrUnsupportedFormat = errors.New("unsupported image format")
	ErrMalformedDocument = errors.New("malformed metadata document")
)
