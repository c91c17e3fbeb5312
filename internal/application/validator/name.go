package validator

import (
	"context"
	"regexp"
	"strings"
)

const (
	MsgInvalidFirstName = "Invalid First Name. Must be 2-50 characters and contain only letters, spaces, hyphens, or apostrophes."
	MsgInvalidLastName  = "Invalid Last Name. Must be 2-50 characters and contain only letters, spaces, hyphens, or apostrophes."
)

var namePattern = regexp.MustCompile(`^[A-Za-z \-']+$`)

type NameValidator struct{}

func (NameValidator) Validate(_ context.Context, c Candidate) (Outcome, error) {
	if !validName(c.FirstName) {
		return fail(MsgInvalidFirstName), nil
	}
	if !validName(c.LastName) {
		return fail(MsgInvalidLastName), nil
	}
	return pass, nil
}

func validName(s string) bool {
	if strings.TrimSpace(s) == "" {
		return false
	}
	if len(s) < 2 || len(s) > 50 {
		return false
	}
	return namePattern.MatchString(s)
}
