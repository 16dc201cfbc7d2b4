package apperrors

import "errors"

var (
	ErrIdentifierColumnNotFound = errors.New("identifier column not found")
	ErrEmptyTable               = errors.New("table has no rows")
	ErrUnsupportedFormat        = errors.New("unsupported file format")
	ErrRunNotFound              = errors.New("cleaning run not found")
)
