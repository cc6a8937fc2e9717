package errors

import (
	goerrors "errors"
)

// Is forwards to the standard library so callers need a single errors import
func Is(err, target error) bool {
	return goerrors.Is(err, target)
}

// As forwards to the standard library
func As(err error, target any) bool {
	return goerrors.As(err, target)
}

// Join forwards to the standard library
func Join(errs ...error) error {
	return goerrors.Join(errs...)
}
