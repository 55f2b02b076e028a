package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupportedExtension = errors.New("only images are supported")
	ErrJobInFlight          = errors.New("a job is already in flight")
	ErrEmptyImage           = errors.New("decoded image is empty")
)

// DecodeError reports a file that exists but cannot be parsed as a
// supported image. The underlying reason is surfaced verbatim behind a
// static label.
type DecodeError struct {
	Reason error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("Image cannot be opened: %v", e.Reason)
}

func (e *DecodeError) Unwrap() error {
	return e.Reason
}

// EncodeError reports a pixel buffer that cannot be written to the derived
// output path (I/O failure, unsupported encode format).
type EncodeError struct {
	Reason error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("could not save image: %v", e.Reason)
}

func (e *EncodeError) Unwrap() error {
	return e.Reason
}
