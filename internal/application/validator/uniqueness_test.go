package validator

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/user-management/internal/domain/entity"
)

type stubLookup struct {
	byEmail map[string]*entity.User
	byPhone map[string]*entity.User
	err     error
	emails  []string
}

func (s *stubLookup) GetByEmailIncludingDeleted(_ context.Context, email string) (*entity.User, error) {
	s.emails = append(s.emails, email)
	return s.byEmail[email], s.err
}

func (s *stubLookup) GetByPhoneNumberIncludingDeleted(_ context.Context, phone string) (*entity.User, error) {
	return s.byPhone[phone], s.err
}

func TestUniquenessValidator(t *testing.T) {
	deleted := &entity.User{ID: "u1", Email: "taken@example.com", PhoneNumber: "+8801712345678", IsDeleted: true}
	lookup := &stubLookup{
		byEmail: map[string]*entity.User{deleted.Email: deleted},
		byPhone: map[string]*entity.User{deleted.PhoneNumber: deleted},
	}
	v := UniquenessValidator{Users: lookup, ExcludeSelf: true}
	ctx := context.Background()

	out, err := v.Validate(ctx, Candidate{Email: "  Taken@Example.com ", PhoneNumber: "+8801712345678"})
	require.NoError(t, err)
	assert.Equal(t, MsgEmailTaken, out.Reason)
	assert.Equal(t, "taken@example.com", lookup.emails[len(lookup.emails)-1])

	out, err = v.Validate(ctx, Candidate{Email: "new@example.com", PhoneNumber: "+8801712345678"})
	require.NoError(t, err)
	assert.Equal(t, MsgPhoneTaken, out.Reason)

	out, err = v.Validate(ctx, Candidate{Email: "new@example.com", PhoneNumber: ""})
	require.NoError(t, err)
	assert.True(t, out.Valid)
}

func TestUniquenessValidatorSelfPolicy(t *testing.T) {
	self := &entity.User{ID: "u1", Email: "jane@example.com", PhoneNumber: "+8801712345678"}
	lookup := &stubLookup{byPhone: map[string]*entity.User{self.PhoneNumber: self}}
	ctx := context.Background()
	c := Candidate{ID: "u1", PhoneNumber: self.PhoneNumber}

	out, err := UniquenessValidator{Users: lookup, ExcludeSelf: true}.Validate(ctx, c)
	require.NoError(t, err)
	assert.True(t, out.Valid)

	out, err = UniquenessValidator{Users: lookup, ExcludeSelf: false}.Validate(ctx, c)
	require.NoError(t, err)
	assert.Equal(t, MsgPhoneTaken, out.Reason)

	c.ID = "u2"
	out, err = UniquenessValidator{Users: lookup, ExcludeSelf: true}.Validate(ctx, c)
	require.NoError(t, err)
	assert.Equal(t, MsgPhoneTaken, out.Reason)
}

func TestUniquenessValidatorPropagatesStoreErrors(t *testing.T) {
	boom := errors.New("store unreachable")
	v := UniquenessValidator{Users: &stubLookup{err: boom}}

	_, err := v.Validate(context.Background(), Candidate{Email: "a@example.com"})
	assert.ErrorIs(t, err, boom)
}
