package catalog

import "errors"

var (
	// ErrValidation marks malformed input: a bad identifier format, an
	// out-of-range rating, or a record missing required fields. Detected
	// before any storage access.
	ErrValidation = errors.New("validation error")

	// ErrDuplicate marks a create attempt for an identifier that already
	// exists. Detected as a precondition inside the write transaction.
	ErrDuplicate = errors.New("title already exists")

	// ErrNotFound marks a well-formed identifier or name with no matching
	// row.
	ErrNotFound = errors.New("title not found")

	// ErrIntegrity marks a schema-invariant violation: an update matching
	// more than one row, or a read-back returning nothing for a title that
	// passed the existence check. Never swallow this one.
	ErrIntegrity = errors.New("integrity violation")
)
