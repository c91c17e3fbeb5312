package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/user-management/internal/domain/entity"
	"github.com/oksasatya/user-management/internal/domain/repository"
)

func seed(t *testing.T, r *UserRepository, email, phone string) *entity.User {
	t.Helper()
	u := &entity.User{Email: email, PhoneNumber: phone, FirstName: "Jane", LastName: "Doe", CreatedAt: time.Now()}
	require.NoError(t, r.Add(context.Background(), u))
	require.NotEmpty(t, u.ID)
	return u
}

func TestSoftDeleteVisibility(t *testing.T) {
	ctx := context.Background()
	r := NewUserRepository()
	u := seed(t, r, "jane@example.com", "+8801712345678")

	require.NoError(t, r.SoftDelete(ctx, u.ID))
	require.NoError(t, r.SoftDelete(ctx, u.ID))

	got, err := r.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = r.GetByEmail(ctx, u.Email)
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = r.GetByEmailIncludingDeleted(ctx, u.Email)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.IsDeleted)

	got, err = r.GetByPhoneNumberIncludingDeleted(ctx, u.PhoneNumber)
	require.NoError(t, err)
	assert.NotNil(t, got)

	inactive, err := r.GetInactive(ctx)
	require.NoError(t, err)
	assert.Len(t, inactive, 1)

	all, err := r.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	require.NoError(t, r.Activate(ctx, u.ID))
	got, err = r.GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.False(t, got.IsDeleted)
}

func TestUpdateIgnoresDeletedRecords(t *testing.T) {
	ctx := context.Background()
	r := NewUserRepository()
	u := seed(t, r, "jane@example.com", "")

	require.NoError(t, r.SoftDelete(ctx, u.ID))
	u.FirstName = "Changed"
	require.NoError(t, r.Update(ctx, u))

	got, err := r.GetByIDIncludingDeleted(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jane", got.FirstName)
}

func TestAddRejectsDuplicates(t *testing.T) {
	ctx := context.Background()
	r := NewUserRepository()
	seed(t, r, "jane@example.com", "+8801712345678")
	seed(t, r, "other@example.com", "")

	err := r.Add(ctx, &entity.User{Email: "jane@example.com"})
	assert.ErrorIs(t, err, repository.ErrDuplicateEmail)

	err = r.Add(ctx, &entity.User{Email: "new@example.com", PhoneNumber: "+8801712345678"})
	assert.ErrorIs(t, err, repository.ErrDuplicatePhone)

	// empty phone numbers never collide
	assert.NoError(t, r.Add(ctx, &entity.User{Email: "third@example.com"}))
}

func TestUpdateRejectsDuplicatePhone(t *testing.T) {
	ctx := context.Background()
	r := NewUserRepository()
	seed(t, r, "jane@example.com", "+8801712345678")
	u := seed(t, r, "john@example.com", "+8801798765432")

	u.PhoneNumber = "+8801712345678"
	assert.ErrorIs(t, r.Update(ctx, u), repository.ErrDuplicatePhone)

	got, err := r.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "+8801798765432", got.PhoneNumber)

	// keeping its own number is not a collision
	u.PhoneNumber = "+8801798765432"
	u.FirstName = "Johnny"
	require.NoError(t, r.Update(ctx, u))
	got, err = r.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Johnny", got.FirstName)
}

func TestReturnedRecordsAreCopies(t *testing.T) {
	ctx := context.Background()
	r := NewUserRepository()
	u := seed(t, r, "jane@example.com", "")

	got, err := r.GetByID(ctx, u.ID)
	require.NoError(t, err)
	got.FirstName = "Mutated"

	again, err := r.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jane", again.FirstName)
}
