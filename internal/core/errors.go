package core

import "errors"

// ─── Error taxonomy ──────────────────────────────────────────────────────────

var (
	// ErrInvalidSizeFormat is returned by ParseSize for strings outside the
	// accepted size grammar.
	ErrInvalidSizeFormat = errors.New("invalid size format")

	// ErrSizeOverflow is returned by ParseSize when the value does not fit in
	// 64 unsigned bits.
	ErrSizeOverflow = errors.New("size value overflows 64 bits")

	// ErrTrashUnavailable is returned when the platform has no usable
	// recoverable-delete facility for a path.
	ErrTrashUnavailable = errors.New("trash is not available")
)

// PathError records a filesystem failure scoped to one path.
type PathError struct {
	Op   string
	Path string
	Err  error
}

func (e *PathError) Error() string {
	return e.Op + " " + e.Path + ": " + e.Err.Error()
}

func (e *PathError) Unwrap() error {
	return e.Err
}
