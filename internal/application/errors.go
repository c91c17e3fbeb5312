package application

import "errors"

// ErrUserNotFound is returned when an operation targets a missing or
// (for active-only operations) soft-deleted user.
var ErrUserNotFound = errors.New("User not found.")

// ValidationError carries the reason a registration or update was rejected.
// Reason is shown to API clients verbatim.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// IsValidation reports whether err is a business-rule rejection.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
