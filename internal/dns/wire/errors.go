package wire

import "errors"

// Sentinel errors returned by the low-level decode primitives. The
// response pipeline translates these into domain.Status values carried
// by a status-only Record; callers of this package should generally
// deal in domain.Status rather than these errors directly.
var (
	ErrTruncated      = errors.New("wire: message truncated")
	ErrNameCompression = errors.New("wire: invalid compression pointer")
	ErrLabelTooLong   = errors.New("wire: label exceeds 63 octets")
	ErrNameTooLong    = errors.New("wire: name exceeds maximum domain size")
	ErrNotSupported   = errors.New("wire: record type not supported")
	ErrMalformed      = errors.New("wire: malformed record")
	ErrUnexpectedType = errors.New("wire: unexpected record type")
)
