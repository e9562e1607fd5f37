package csvsql

import "errors"

// Sentinel errors returned by the package. Every failure is fatal to the
// single conversion or summary call; there are no retries.
var (
	// ErrEmptyFile indicates the source file has no header record
	ErrEmptyFile = errors.New("csvsql: empty data source")

	// ErrUnsupportedFormat indicates an unsupported file extension
	ErrUnsupportedFormat = errors.New("csvsql: unsupported file format")

	// ErrDuplicateColumnName is returned when a header contains the same
	// column name twice
	ErrDuplicateColumnName = errors.New("csvsql: duplicate column name")

	// ErrUnknownEncoding indicates an encoding label that could not be resolved
	ErrUnknownEncoding = errors.New("csvsql: unknown encoding")

	// ErrColumnOverlap is returned when a skipped column is also requested
	// for unique-count or verbose statistics
	ErrColumnOverlap = errors.New("csvsql: column appears in both skip and stats lists")

	// ErrUnknownColumn is returned when a requested statistics column does
	// not exist in the source header
	ErrUnknownColumn = errors.New("csvsql: unknown column")
)
