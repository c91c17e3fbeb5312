package validator

import (
	"context"
	"fmt"
	"time"
)

const DefaultMinimumAge = 13

// AgeValidator rejects candidates younger than MinimumAge on the current date.
// A missing date of birth passes.
type AgeValidator struct {
	MinimumAge int
	Now        func() time.Time
}

func NewAgeValidator(minimumAge int) AgeValidator {
	if minimumAge <= 0 {
		minimumAge = DefaultMinimumAge
	}
	return AgeValidator{MinimumAge: minimumAge, Now: time.Now}
}

func (v AgeValidator) Validate(_ context.Context, c Candidate) (Outcome, error) {
	if c.DateOfBirth == nil {
		return pass, nil
	}
	now := time.Now
	if v.Now != nil {
		now = v.Now
	}
	minAge := v.MinimumAge
	if minAge <= 0 {
		minAge = DefaultMinimumAge
	}
	if Age(*c.DateOfBirth, now()) < minAge {
		return fail(fmt.Sprintf("Policy violation. Users must be at least %d years old.", minAge)), nil
	}
	return pass, nil
}

// Age returns the number of whole years between dob and today, counting a
// year only once the birthday has been reached.
func Age(dob, today time.Time) int {
	age := today.Year() - dob.Year()
	if today.Month() < dob.Month() || (today.Month() == dob.Month() && today.Day() < dob.Day()) {
		age--
	}
	return age
}
