package errors

import (
	"errors"
	"fmt"
)

// Common error kinds for the OAuth2 provider core. The HTTP layer wrapping
// this module maps these onto RFC 6749 error responses (invalid_grant,
// invalid_client, ...).
var (
	// Grant / refresh token errors
	ErrInvalidGrant = errors.New("invalid grant")

	// Token errors
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// Client errors. A secret mismatch is a kind of invalid client, so
	// matching on ErrInvalidClient covers both.
	ErrInvalidClient       = errors.New("invalid client")
	ErrInvalidClientSecret = fmt.Errorf("%w: bad client secret", ErrInvalidClient)
	ErrInvalidRedirectURI  = errors.New("invalid redirect URI")
	ErrInvalidScope        = errors.New("invalid scope")

	// Repository errors
	ErrNotFound         = errors.New("not found")
	ErrUniqueConstraint = errors.New("unique constraint violation")
	ErrConflict         = errors.New("conflicting concurrent update")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
