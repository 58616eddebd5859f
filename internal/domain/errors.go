package domain

import (
	"errors"
	"fmt"
)

// ValidationError rejects caller input before any lookup happens.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// StorageError wraps a curated store fault. It is always propagated.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// RetrievalError wraps a web search fault. The intelligence service converts
// it into a degraded verdict.
type RetrievalError struct {
	URL string
	Err error
}

func (e *RetrievalError) Error() string {
	return fmt.Sprintf("retrieve findings for %q: %v", e.URL, e.Err)
}

func (e *RetrievalError) Unwrap() error { return e.Err }

var ErrURLRequired = &ValidationError{Field: "url", Message: "URL is required"}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsStorage reports whether err is a StorageError.
func IsStorage(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}
