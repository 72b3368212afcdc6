package report

import (
	"errors"
	"fmt"
)

// Domain errors for report parsing.
var (
	// ErrMissingFile indicates the report path does not exist or cannot be read.
	ErrMissingFile = errors.New("report: file missing or unreadable")

	// ErrInvalidLayout indicates a layout that cannot locate or decode any table.
	ErrInvalidLayout = errors.New("report: invalid layout")

	errShortRow = errors.New("row shorter than configured columns")
)

// FileError wraps an I/O failure with the report path.
type FileError struct {
	Path    string
	Wrapped error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("report %s: %v", e.Path, e.Wrapped)
}

func (e *FileError) Unwrap() []error {
	return []error{ErrMissingFile, e.Wrapped}
}
