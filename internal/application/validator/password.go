package validator

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/oksasatya/user-management/internal/domain/entity"
)

const (
	MsgPasswordRequired    = "Password is required."
	MsgPasswordTooShort    = "Password must be at least 10 characters long."
	MsgPasswordComposition = "Password must include uppercase, lowercase, number, and special character."
	MsgPasswordEmailPrefix = "Password must not contain the email prefix."
	MsgPasswordPhoneSuffix = "Password must not contain the last 6 digits of your mobile number."
	MsgPasswordWeak        = "This password is too common and weak."

	minPasswordLength = 10
	phoneSuffixLength = 6
	specialCharacters = `!@#$%^&*(),.?":{}|<>`
)

// DefaultWeakPasswords is matched against the lowercased password.
var DefaultWeakPasswords = []string{"password", "12345678", "qwertyuiop", "password123"}

type PasswordValidator struct {
	WeakPasswords []string
}

func NewPasswordValidator() PasswordValidator {
	return PasswordValidator{WeakPasswords: DefaultWeakPasswords}
}

func (v PasswordValidator) Validate(_ context.Context, c Candidate) (Outcome, error) {
	pwd := c.Password
	if strings.TrimSpace(pwd) == "" {
		return fail(MsgPasswordRequired), nil
	}
	if utf8.RuneCountInString(pwd) < minPasswordLength {
		return fail(MsgPasswordTooShort), nil
	}
	if !hasAllClasses(pwd) {
		return fail(MsgPasswordComposition), nil
	}

	prefix, _, _ := strings.Cut(c.Email, "@")
	if strings.Contains(strings.ToLower(pwd), strings.ToLower(prefix)) {
		return fail(MsgPasswordEmailPrefix), nil
	}

	if len(c.PhoneNumber) >= phoneSuffixLength {
		if digits := entity.Digits(c.PhoneNumber); len(digits) >= phoneSuffixLength {
			if strings.Contains(pwd, digits[len(digits)-phoneSuffixLength:]) {
				return fail(MsgPasswordPhoneSuffix), nil
			}
		}
	}

	lower := strings.ToLower(pwd)
	for _, weak := range v.WeakPasswords {
		if lower == weak {
			return fail(MsgPasswordWeak), nil
		}
	}
	return pass, nil
}

func hasAllClasses(pwd string) bool {
	var upper, lower, digit, special bool
	for _, r := range pwd {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(specialCharacters, r):
			special = true
		}
	}
	return upper && lower && digit && special
}
