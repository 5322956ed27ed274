package cache

import "errors"

// PermanentError marks a fetch failure that retrying cannot fix (permission
// denied, exhausted schema fallback). The cache surfaces it after the first
// attempt instead of burning the retry budget.
type PermanentError struct {
	Err error
}

// Permanent wraps err as non-retryable. A nil err returns nil.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &PermanentError{Err: err}
}

func (e *PermanentError) Error() string {
	return e.Err.Error()
}

func (e *PermanentError) Unwrap() error {
	return e.Err
}

// IsPermanent reports whether err carries the permanent marker anywhere in its
// chain.
func IsPermanent(err error) bool {
	var pe *PermanentError
	return errors.As(err, &pe)
}
