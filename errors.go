package filesniff

import (
	"errors"
	"fmt"
)

// Detection errors
var (
	ErrEmptyFileName   = errors.New("file name is empty")
	ErrEmptyFileData   = errors.New("file data is empty")
	ErrNilStream       = errors.New("stream is nil")
	ErrUnknownFileType = errors.New("unknown file type")

	// ErrInconclusive is returned when a header matched but the stream could
	// not be seeked to confirm the trailer or content. Errors wrapping it
	// also match ErrUnknownFileType.
	ErrInconclusive = fmt.Errorf("%w: signature could not be confirmed on a non-seekable stream", ErrUnknownFileType)
)

// DetectError records a detection failure and the file that caused it
type DetectError struct {
	Op       string
	FileName string
	Err      error
}

// Error implements the error interface
func (e *DetectError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.FileName, e.Err)
}

// Unwrap returns the underlying error
func (e *DetectError) Unwrap() error {
	return e.Err
}

// IsUnknownType reports whether err means the content did not match the
// signature for the file's extension.
func IsUnknownType(err error) bool {
	return errors.Is(err, ErrUnknownFileType)
}

// IsInvalidInput reports whether err was caused by a missing name, empty
// data or a nil stream.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrEmptyFileName) ||
		errors.Is(err, ErrEmptyFileData) ||
		errors.Is(err, ErrNilStream)
}
