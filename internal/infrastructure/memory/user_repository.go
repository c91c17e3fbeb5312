// Package memory holds a process-local user store used by STORE_DRIVER=memory
// and by tests of the layers above the repository.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/user-management/internal/domain/entity"
	"github.com/oksasatya/user-management/internal/domain/repository"
)

type UserRepository struct {
	mu    sync.RWMutex
	users map[string]entity.User
	now   func() time.Time
}

func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[string]entity.User), now: time.Now}
}

// clone copies the record so callers never share memory with the store.
func clone(u entity.User) *entity.User {
	if u.DateOfBirth != nil {
		dob := *u.DateOfBirth
		u.DateOfBirth = &dob
	}
	return &u
}

func (r *UserRepository) findOne(match func(entity.User) bool, includeDeleted bool) *entity.User {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if !includeDeleted && u.IsDeleted {
			continue
		}
		if match(u) {
			return clone(u)
		}
	}
	return nil
}

func (r *UserRepository) find(match func(entity.User) bool) []*entity.User {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*entity.User, 0, len(r.users))
	for _, u := range r.users {
		if match(u) {
			out = append(out, clone(u))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (r *UserRepository) GetByID(_ context.Context, id string) (*entity.User, error) {
	return r.findOne(func(u entity.User) bool { return u.ID == id }, false), nil
}

func (r *UserRepository) GetByIDIncludingDeleted(_ context.Context, id string) (*entity.User, error) {
	return r.findOne(func(u entity.User) bool { return u.ID == id }, true), nil
}

func (r *UserRepository) GetAll(_ context.Context) ([]*entity.User, error) {
	return r.find(func(u entity.User) bool { return !u.IsDeleted }), nil
}

func (r *UserRepository) GetInactive(_ context.Context) ([]*entity.User, error) {
	return r.find(func(u entity.User) bool { return u.IsDeleted }), nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	return r.findOne(func(u entity.User) bool { return u.Email == email }, false), nil
}

func (r *UserRepository) GetByEmailIncludingDeleted(_ context.Context, email string) (*entity.User, error) {
	return r.findOne(func(u entity.User) bool { return u.Email == email }, true), nil
}

func (r *UserRepository) GetByPhoneNumber(_ context.Context, phone string) (*entity.User, error) {
	return r.findOne(func(u entity.User) bool { return u.PhoneNumber == phone }, false), nil
}

func (r *UserRepository) GetByPhoneNumberIncludingDeleted(_ context.Context, phone string) (*entity.User, error) {
	return r.findOne(func(u entity.User) bool { return u.PhoneNumber == phone }, true), nil
}

// collision reports the unique constraint u would break against any record
// other than itself. Callers hold r.mu.
func (r *UserRepository) collision(u *entity.User) error {
	for id, existing := range r.users {
		if id == u.ID {
			continue
		}
		if existing.Email == u.Email {
			return repository.ErrDuplicateEmail
		}
		if u.PhoneNumber != "" && existing.PhoneNumber == u.PhoneNumber {
			return repository.ErrDuplicatePhone
		}
	}
	return nil
}

// Add enforces the same unique constraints as the database indexes.
func (r *UserRepository) Add(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u.ID = ""
	if err := r.collision(u); err != nil {
		return err
	}
	u.ID = uuid.NewString()
	r.users[u.ID] = *clone(*u)
	return nil
}

func (r *UserRepository) Update(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.users[u.ID]
	if !ok || existing.IsDeleted {
		return nil
	}
	if err := r.collision(u); err != nil {
		return err
	}
	r.users[u.ID] = *clone(*u)
	return nil
}

func (r *UserRepository) SoftDelete(_ context.Context, id string) error {
	r.setDeleted(id, true)
	return nil
}

func (r *UserRepository) Activate(_ context.Context, id string) error {
	r.setDeleted(id, false)
	return nil
}

func (r *UserRepository) setDeleted(id string, deleted bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return
	}
	u.IsDeleted = deleted
	u.UpdatedAt = r.now().UTC()
	r.users[id] = u
}

var _ repository.UserRepository = (*UserRepository)(nil)
