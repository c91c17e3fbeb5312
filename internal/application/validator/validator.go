// Package validator holds the business checks a user record must pass before
// it is written. Each check is independent; callers compose them into an
// ordered chain and stop at the first failure.
package validator

import (
	"context"
	"time"
)

// Candidate carries the normalized fields under validation.
// ID is the record being updated and is empty on registration.
type Candidate struct {
	ID          string
	Email       string
	PhoneNumber string
	Password    string
	FirstName   string
	LastName    string
	DateOfBirth *time.Time
}

// Outcome is the verdict of a single check. Reason is set when Valid is false.
type Outcome struct {
	Valid  bool
	Reason string
}

var pass = Outcome{Valid: true}

func fail(reason string) Outcome { return Outcome{Reason: reason} }

// Validator is one business check. The error return is reserved for
// infrastructure failures; a rejected candidate is reported through Outcome.
type Validator interface {
	Validate(ctx context.Context, c Candidate) (Outcome, error)
}

// Chain runs validators in order and returns the first failing outcome.
type Chain []Validator

func (ch Chain) Validate(ctx context.Context, c Candidate) (Outcome, error) {
	for _, v := range ch {
		out, err := v.Validate(ctx, c)
		if err != nil {
			return Outcome{}, err
		}
		if !out.Valid {
			return out, nil
		}
	}
	return pass, nil
}

// RegistrationChain is Name -> Age -> Password -> Uniqueness.
func RegistrationChain(name NameValidator, age AgeValidator, pwd PasswordValidator, uniq UniquenessValidator) Chain {
	return Chain{name, age, pwd, uniq}
}

// UpdateChain is Name -> Age -> Uniqueness; the password is not part of an update.
func UpdateChain(name NameValidator, age AgeValidator, uniq UniquenessValidator) Chain {
	return Chain{name, age, uniq}
}
