package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/user-management/internal/application/validator"
	"github.com/oksasatya/user-management/internal/domain/entity"
	repo "github.com/oksasatya/user-management/internal/domain/repository"
	"github.com/oksasatya/user-management/pkg/helpers"
)

// Lifecycle events handed to the Notifier.
const (
	EventRegistered  = "registered"
	EventDeactivated = "deactivated"
	EventReactivated = "reactivated"
)

// UserIndexer mirrors users into a search index. SearchUsers returns matching
// user IDs, best match first.
type UserIndexer interface {
	IndexUser(ctx context.Context, u *entity.User) error
	SearchUsers(ctx context.Context, q string, size int) ([]string, error)
}

// Notifier is told about lifecycle events after they are persisted.
type Notifier interface {
	Notify(ctx context.Context, event string, u *entity.User) error
}

// Policy holds the tunable business rules.
type Policy struct {
	MinimumAge int
	// UpdateExcludeSelf lets an update keep the phone number the record
	// already holds. When false every existing holder collides, the record
	// itself included.
	UpdateExcludeSelf bool
	// BcryptCost of zero uses bcrypt's default.
	BcryptCost int
}

func DefaultPolicy() Policy {
	return Policy{MinimumAge: validator.DefaultMinimumAge, UpdateExcludeSelf: true}
}

type Service struct {
	Repo     repo.UserRepository
	Logger   *logrus.Logger
	Indexer  UserIndexer
	Notifier Notifier

	registration validator.Chain
	update       validator.Chain
	now          func() time.Time
	hashPassword func(string) (string, error)
}

// NewService wires the validator chains for the given policy. indexer and
// notifier are optional.
func NewService(repo repo.UserRepository, logger *logrus.Logger, policy Policy, indexer UserIndexer, notifier Notifier) *Service {
	name := validator.NameValidator{}
	age := validator.NewAgeValidator(policy.MinimumAge)
	pwd := validator.NewPasswordValidator()

	return &Service{
		Repo:     repo,
		Logger:   logger,
		Indexer:  indexer,
		Notifier: notifier,

		registration: validator.RegistrationChain(name, age, pwd, validator.UniquenessValidator{Users: repo, ExcludeSelf: true}),
		update:       validator.UpdateChain(name, age, validator.UniquenessValidator{Users: repo, ExcludeSelf: policy.UpdateExcludeSelf}),
		now:          time.Now,
		hashPassword: helpers.NewPasswordHasher(policy.BcryptCost).Hash,
	}
}

// Register normalizes the input, runs Name -> Age -> Password -> Uniqueness
// and persists the new user.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*UserDTO, error) {
	in.Email = entity.NormalizeEmail(in.Email)
	in.PhoneNumber = entity.NormalizePhoneNumber(in.PhoneNumber)

	out, err := s.registration.Validate(ctx, validator.Candidate{
		Email:       in.Email,
		PhoneNumber: in.PhoneNumber,
		Password:    in.Password,
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		DateOfBirth: in.DateOfBirth,
	})
	if err != nil {
		return nil, fmt.Errorf("validate registration: %w", err)
	}
	if !out.Valid {
		metrics.Add(metricRejected, 1)
		return nil, &ValidationError{Reason: out.Reason}
	}

	hash, err := s.hashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now().UTC()
	u := &entity.User{
		Username:     in.Username,
		Email:        in.Email,
		PhoneNumber:  in.PhoneNumber,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		DateOfBirth:  in.DateOfBirth,
		DisplayName:  entity.DefaultDisplayName(in.DisplayName, in.FirstName, in.LastName),
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
		IsDeleted:    false,
	}
	if err := s.Repo.Add(ctx, u); err != nil {
		if ve := duplicateToValidation(err); ve != nil {
			metrics.Add(metricRejected, 1)
			return nil, ve
		}
		return nil, fmt.Errorf("add user: %w", err)
	}

	metrics.Add(metricRegistered, 1)
	s.log().WithField("user_id", u.ID).Info("user registered")
	s.afterWrite(ctx, u, EventRegistered)
	return toDTO(u), nil
}

// Update replaces the mutable fields of an active user after running
// Name -> Age -> Uniqueness. Email and password hash are left as stored.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (*UserDTO, error) {
	u, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if u == nil {
		return nil, ErrUserNotFound
	}

	phone := entity.NormalizePhoneNumber(in.PhoneNumber)
	out, err := s.update.Validate(ctx, validator.Candidate{
		ID:          u.ID,
		PhoneNumber: phone,
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		DateOfBirth: in.DateOfBirth,
	})
	if err != nil {
		return nil, fmt.Errorf("validate update: %w", err)
	}
	if !out.Valid {
		return nil, &ValidationError{Reason: out.Reason}
	}

	u.FirstName = in.FirstName
	u.LastName = in.LastName
	u.PhoneNumber = phone
	u.DateOfBirth = in.DateOfBirth
	u.DisplayName = entity.DefaultDisplayName(in.DisplayName, in.FirstName, in.LastName)
	u.UpdatedAt = s.now().UTC()

	if err := s.Repo.Update(ctx, u); err != nil {
		if ve := duplicateToValidation(err); ve != nil {
			return nil, ve
		}
		return nil, fmt.Errorf("update user: %w", err)
	}

	metrics.Add(metricUpdated, 1)
	s.log().WithField("user_id", u.ID).Info("user updated")
	s.afterWrite(ctx, u, "")
	return toDTO(u), nil
}

// GetByID returns the user whether or not it is soft-deleted; nil when absent.
func (s *Service) GetByID(ctx context.Context, id string) (*UserDTO, error) {
	u, err := s.Repo.GetByIDIncludingDeleted(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if u == nil {
		return nil, nil
	}
	return toDTO(u), nil
}

func (s *Service) ListActive(ctx context.Context) ([]UserDTO, error) {
	users, err := s.Repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active users: %w", err)
	}
	return toDTOs(users), nil
}

func (s *Service) ListInactive(ctx context.Context) ([]UserDTO, error) {
	users, err := s.Repo.GetInactive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list inactive users: %w", err)
	}
	return toDTOs(users), nil
}

// Delete soft-deletes an active user.
func (s *Service) Delete(ctx context.Context, id string) error {
	u, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}
	if u == nil {
		return ErrUserNotFound
	}
	if err := s.Repo.SoftDelete(ctx, u.ID); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	u.IsDeleted = true
	u.UpdatedAt = s.now().UTC()

	metrics.Add(metricDeleted, 1)
	s.log().WithField("user_id", u.ID).Info("user deactivated")
	s.afterWrite(ctx, u, EventDeactivated)
	return nil
}

// Activate clears the soft-delete flag of a user, deleted or not.
func (s *Service) Activate(ctx context.Context, id string) error {
	u, err := s.Repo.GetByIDIncludingDeleted(ctx, id)
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}
	if u == nil {
		return ErrUserNotFound
	}
	if err := s.Repo.Activate(ctx, u.ID); err != nil {
		return fmt.Errorf("activate user: %w", err)
	}
	wasDeleted := u.IsDeleted
	u.IsDeleted = false
	u.UpdatedAt = s.now().UTC()

	metrics.Add(metricActivated, 1)
	s.log().WithField("user_id", u.ID).Info("user activated")
	event := ""
	if wasDeleted {
		event = EventReactivated
	}
	s.afterWrite(ctx, u, event)
	return nil
}

// Search looks users up in the search index and returns the active ones.
func (s *Service) Search(ctx context.Context, q string, size int) ([]UserDTO, error) {
	if s.Indexer == nil {
		return []UserDTO{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	ids, err := s.Indexer.SearchUsers(ctx, q, size)
	if err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}
	out := make([]UserDTO, 0, len(ids))
	for _, id := range ids {
		u, err := s.Repo.GetByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("get user: %w", err)
		}
		if u != nil {
			out = append(out, *toDTO(u))
		}
	}
	return out, nil
}

// afterWrite re-indexes the user and emits event when set. Failures are logged
// and never reach the caller.
func (s *Service) afterWrite(ctx context.Context, u *entity.User, event string) {
	if s.Indexer != nil {
		if err := s.Indexer.IndexUser(ctx, u); err != nil {
			metrics.Add(metricSideEffectFail, 1)
			s.log().WithError(err).WithField("user_id", u.ID).Warn("index user failed")
		}
	}
	if s.Notifier != nil && event != "" {
		if err := s.Notifier.Notify(ctx, event, u); err != nil {
			metrics.Add(metricSideEffectFail, 1)
			s.log().WithError(err).WithFields(logrus.Fields{"user_id": u.ID, "event": event}).Warn("notify failed")
		}
	}
}

func (s *Service) log() *logrus.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return logrus.StandardLogger()
}

func duplicateToValidation(err error) *ValidationError {
	switch {
	case errors.Is(err, repo.ErrDuplicateEmail):
		return &ValidationError{Reason: validator.MsgEmailTaken}
	case errors.Is(err, repo.ErrDuplicatePhone):
		return &ValidationError{Reason: validator.MsgPhoneTaken}
	}
	return nil
}
