package validator

import (
	"context"

	"github.com/oksasatya/user-management/internal/domain/entity"
	"github.com/oksasatya/user-management/internal/domain/repository"
)

const (
	MsgEmailTaken = "Registration blocked. Email already exists (may be inactive). Please contact admin."
	MsgPhoneTaken = "Registration blocked. Phone number already exists (may be inactive). Please contact admin."
)

// UserLookup is the part of the user repository the uniqueness check reads.
type UserLookup interface {
	GetByEmailIncludingDeleted(ctx context.Context, email string) (*entity.User, error)
	GetByPhoneNumberIncludingDeleted(ctx context.Context, phone string) (*entity.User, error)
}

var _ UserLookup = (repository.UserRepository)(nil)

// UniquenessValidator rejects an email or phone number already held by any
// record, soft-deleted ones included. With ExcludeSelf a hit on the record
// named by Candidate.ID does not count.
type UniquenessValidator struct {
	Users       UserLookup
	ExcludeSelf bool
}

func (v UniquenessValidator) Validate(ctx context.Context, c Candidate) (Outcome, error) {
	if c.Email != "" {
		u, err := v.Users.GetByEmailIncludingDeleted(ctx, entity.NormalizeEmail(c.Email))
		if err != nil {
			return Outcome{}, err
		}
		if v.collides(u, c.ID) {
			return fail(MsgEmailTaken), nil
		}
	}
	if c.PhoneNumber != "" {
		u, err := v.Users.GetByPhoneNumberIncludingDeleted(ctx, c.PhoneNumber)
		if err != nil {
			return Outcome{}, err
		}
		if v.collides(u, c.ID) {
			return fail(MsgPhoneTaken), nil
		}
	}
	return pass, nil
}

func (v UniquenessValidator) collides(u *entity.User, selfID string) bool {
	if u == nil {
		return false
	}
	return !(v.ExcludeSelf && selfID != "" && u.ID == selfID)
}
