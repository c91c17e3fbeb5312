package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/user-management/internal/domain/entity"
	"github.com/oksasatya/user-management/internal/domain/repository"
)

const (
	uniqueViolation = "23505"
	phoneConstraint = "uniq_users_phone_number"
)

const userColumns = `id, username, email, phone_number, first_name, last_name, date_of_birth,
	display_name, password_hash, created_at, updated_at, is_deleted`

type UserRepository struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool, now: time.Now}
}

func scanUser(row pgx.Row) (*entity.User, error) {
	u := &entity.User{}
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PhoneNumber, &u.FirstName, &u.LastName,
		&u.DateOfBirth, &u.DisplayName, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt, &u.IsDeleted)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return u, nil
}

// queryOne runs a single-row lookup; includeDeleted drops the active-only condition.
func (r *UserRepository) queryOne(ctx context.Context, where string, arg any, includeDeleted bool) (*entity.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE ` + where
	if !includeDeleted {
		q += ` AND is_deleted = FALSE`
	}
	return scanUser(r.pool.QueryRow(ctx, q+` LIMIT 1`, arg))
}

func (r *UserRepository) queryMany(ctx context.Context, deleted bool) ([]*entity.User, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+userColumns+` FROM users WHERE is_deleted = $1 ORDER BY created_at`, deleted)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*entity.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	if !validID(id) {
		return nil, nil
	}
	return r.queryOne(ctx, `id = $1`, id, false)
}

func (r *UserRepository) GetByIDIncludingDeleted(ctx context.Context, id string) (*entity.User, error) {
	if !validID(id) {
		return nil, nil
	}
	return r.queryOne(ctx, `id = $1`, id, true)
}

func (r *UserRepository) GetAll(ctx context.Context) ([]*entity.User, error) {
	return r.queryMany(ctx, false)
}

func (r *UserRepository) GetInactive(ctx context.Context) ([]*entity.User, error) {
	return r.queryMany(ctx, true)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.queryOne(ctx, `email = $1`, email, false)
}

func (r *UserRepository) GetByEmailIncludingDeleted(ctx context.Context, email string) (*entity.User, error) {
	return r.queryOne(ctx, `email = $1`, email, true)
}

func (r *UserRepository) GetByPhoneNumber(ctx context.Context, phone string) (*entity.User, error) {
	return r.queryOne(ctx, `phone_number = $1`, phone, false)
}

func (r *UserRepository) GetByPhoneNumberIncludingDeleted(ctx context.Context, phone string) (*entity.User, error) {
	return r.queryOne(ctx, `phone_number = $1`, phone, true)
}

func (r *UserRepository) Add(ctx context.Context, u *entity.User) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (username, email, phone_number, first_name, last_name, date_of_birth,
			display_name, password_hash, created_at, updated_at, is_deleted)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9, $10)
		RETURNING id
	`, u.Username, u.Email, u.PhoneNumber, u.FirstName, u.LastName, u.DateOfBirth,
		u.DisplayName, u.PasswordHash, u.CreatedAt, u.IsDeleted)

	return mapWriteError(row.Scan(&u.ID))
}

func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	if !validID(u.ID) {
		return nil
	}
	_, err := r.pool.Exec(ctx, `
		UPDATE users
		SET username = $1, email = $2, phone_number = $3, first_name = $4, last_name = $5,
			date_of_birth = $6, display_name = $7, password_hash = $8, updated_at = $9
		WHERE id = $10 AND is_deleted = FALSE
	`, u.Username, u.Email, u.PhoneNumber, u.FirstName, u.LastName, u.DateOfBirth,
		u.DisplayName, u.PasswordHash, u.UpdatedAt, u.ID)
	return mapWriteError(err)
}

func (r *UserRepository) SoftDelete(ctx context.Context, id string) error {
	return r.setDeleted(ctx, id, true)
}

func (r *UserRepository) Activate(ctx context.Context, id string) error {
	return r.setDeleted(ctx, id, false)
}

func (r *UserRepository) setDeleted(ctx context.Context, id string, deleted bool) error {
	if !validID(id) {
		return nil
	}
	_, err := r.pool.Exec(ctx, `UPDATE users SET is_deleted = $1, updated_at = $2 WHERE id = $3`,
		deleted, r.now().UTC(), id)
	return err
}

// mapWriteError turns unique violations into repository sentinels.
func mapWriteError(err error) error {
	var pgErr *pgconn.PgError
	if err == nil || !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return err
	}
	if pgErr.ConstraintName == phoneConstraint {
		return repository.ErrDuplicatePhone
	}
	return repository.ErrDuplicateEmail
}

var _ repository.UserRepository = (*UserRepository)(nil)
