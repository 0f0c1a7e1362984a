package model

import (
	"errors"
	"fmt"
)

var (
	// ErrFormat matches any *FormatError with errors.Is.
	ErrFormat = errors.New("invalid tick format")
	// ErrConfiguration matches any *ConfigurationError with errors.Is.
	ErrConfiguration = errors.New("invalid configuration")
)

// FormatError is returned when a tick buffer is not a whole number of records.
type FormatError struct {
	Len        int
	RecordSize int
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("tick buffer of %d bytes is not a multiple of %d (%d trailing bytes)",
		e.Len, e.RecordSize, e.Len%e.RecordSize)
}

func (e *FormatError) Is(target error) bool { return target == ErrFormat }

// ConfigurationError is returned for unsupported feed settings.
type ConfigurationError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s %v: %s", e.Field, e.Value, e.Reason)
}

func (e *ConfigurationError) Is(target error) bool { return target == ErrConfiguration }
