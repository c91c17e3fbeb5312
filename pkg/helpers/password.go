package helpers

import "golang.org/x/crypto/bcrypt"

// MaxPasswordBytes is the longest input bcrypt accepts. Longer passwords are
// hashed on their first MaxPasswordBytes bytes.
const MaxPasswordBytes = 72

// PasswordHasher hashes credentials with bcrypt at a fixed cost. Costs outside
// bcrypt's accepted range fall back to bcrypt.DefaultCost.
type PasswordHasher struct {
	Cost int
}

func NewPasswordHasher(cost int) PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return PasswordHasher{Cost: cost}
}

func (h PasswordHasher) Hash(plain string) (string, error) {
	b := []byte(plain)
	if len(b) > MaxPasswordBytes {
		b = b[:MaxPasswordBytes]
	}
	out, err := bcrypt.GenerateFromPassword(b, h.Cost)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
