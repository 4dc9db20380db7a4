package entities

import (
	"errors"
	"fmt"
)

// Error kinds surfaced by the speech service. Callers classify with errors.Is;
// the wrapped message keeps the underlying cause verbatim.
var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrSynthesisFailed = errors.New("synthesis failed")
	ErrIOFailed        = errors.New("io failed")
	ErrNotFound        = errors.New("audio file not found")
	ErrWriteFailed     = errors.New("write failed")
	ErrBusy            = errors.New("synthesis already in progress")
)

// ErrEmptyText is the InvalidInput raised for blank text
var ErrEmptyText = fmt.Errorf("%w: text is empty", ErrInvalidInput)
