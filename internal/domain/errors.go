package domain

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedRow = errors.New("malformed row")

	ErrTimeout        = errors.New("timeout")
	ErrNavigation     = errors.New("navigation failed")
	ErrMissingElement = errors.New("missing element")
)

// ProviderError is a transient failure reported by a source provider.
// Err is one of ErrTimeout, ErrNavigation or ErrMissingElement, optionally
// wrapping the underlying cause.
type ProviderError struct {
	Op     string // Provider operation, e.g. "load_category"
	Target string // Category, subcategory, URL or selector involved
	Err    error
}

func (e *ProviderError) Error() string {
	if e.Target == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Target, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// NewProviderError builds a ProviderError whose chain contains both kind and cause.
func NewProviderError(op, target string, kind, cause error) *ProviderError {
	err := kind
	if cause != nil {
		err = fmt.Errorf("%w: %w", kind, cause)
	}
	return &ProviderError{Op: op, Target: target, Err: err}
}

// IsProviderError reports whether err carries a ProviderError.
func IsProviderError(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe)
}
