package catalog

import "errors"

var (
	// ErrNotFound indicates the requested series doesn't exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate indicates a series with the same id already exists.
	ErrDuplicate = errors.New("duplicate entry")

	// ErrInvalid indicates a record is missing a required field.
	ErrInvalid = errors.New("invalid record")

	// ErrIndexOutOfRange indicates a season or episode position outside the list.
	ErrIndexOutOfRange = errors.New("index out of range")
)
