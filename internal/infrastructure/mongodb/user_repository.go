package mongodb

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/oksasatya/user-management/internal/domain/entity"
	"github.com/oksasatya/user-management/internal/domain/repository"
)

const (
	emailIndex = "uniq_users_email"
	phoneIndex = "uniq_users_phone_number"
)

// userDocument is the stored shape of entity.User.
type userDocument struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Username     string             `bson:"username"`
	Email        string             `bson:"email"`
	PhoneNumber  string             `bson:"phone_number"`
	FirstName    string             `bson:"first_name"`
	LastName     string             `bson:"last_name"`
	DateOfBirth  *time.Time         `bson:"date_of_birth,omitempty"`
	DisplayName  string             `bson:"display_name"`
	PasswordHash string             `bson:"password_hash"`
	CreatedAt    time.Time          `bson:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at"`
	IsDeleted    bool               `bson:"is_deleted"`
}

func toDocument(u *entity.User) *userDocument {
	doc := &userDocument{
		Username:     u.Username,
		Email:        u.Email,
		PhoneNumber:  u.PhoneNumber,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		DateOfBirth:  u.DateOfBirth,
		DisplayName:  u.DisplayName,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
		IsDeleted:    u.IsDeleted,
	}
	if oid, err := primitive.ObjectIDFromHex(u.ID); err == nil {
		doc.ID = oid
	}
	return doc
}

func (d *userDocument) toEntity() *entity.User {
	if d == nil {
		return nil
	}
	return &entity.User{
		ID:           d.ID.Hex(),
		Username:     d.Username,
		Email:        d.Email,
		PhoneNumber:  d.PhoneNumber,
		FirstName:    d.FirstName,
		LastName:     d.LastName,
		DateOfBirth:  d.DateOfBirth,
		DisplayName:  d.DisplayName,
		PasswordHash: d.PasswordHash,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
		IsDeleted:    d.IsDeleted,
	}
}

func toEntities(docs []*userDocument) []*entity.User {
	out := make([]*entity.User, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toEntity())
	}
	return out
}

type UserRepository struct {
	users *Collection[userDocument]
}

func NewUserRepository(coll *mongo.Collection) *UserRepository {
	return &UserRepository{users: NewCollection[userDocument](coll)}
}

// EnsureIndexes creates the unique indexes on email and non-empty phone numbers.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	return r.users.EnsureIndexes(ctx,
		mongo.IndexModel{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName(emailIndex).SetUnique(true),
		},
		mongo.IndexModel{
			Keys: bson.D{{Key: "phone_number", Value: 1}},
			Options: options.Index().SetName(phoneIndex).SetUnique(true).
				SetPartialFilterExpression(bson.M{"phone_number": bson.M{"$gt": ""}}),
		},
	)
}

func (r *UserRepository) one(ctx context.Context, filter bson.M, includeDeleted bool) (*entity.User, error) {
	doc, err := r.users.FindOne(ctx, filter, includeDeleted)
	if err != nil {
		return nil, err
	}
	return doc.toEntity(), nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	doc, err := r.users.GetByID(ctx, id, false)
	if err != nil {
		return nil, err
	}
	return doc.toEntity(), nil
}

func (r *UserRepository) GetByIDIncludingDeleted(ctx context.Context, id string) (*entity.User, error) {
	doc, err := r.users.GetByID(ctx, id, true)
	if err != nil {
		return nil, err
	}
	return doc.toEntity(), nil
}

func (r *UserRepository) GetAll(ctx context.Context) ([]*entity.User, error) {
	docs, err := r.users.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return toEntities(docs), nil
}

func (r *UserRepository) GetInactive(ctx context.Context) ([]*entity.User, error) {
	docs, err := r.users.Find(ctx, bson.M{fieldDeleted: true}, true)
	if err != nil {
		return nil, err
	}
	return toEntities(docs), nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.one(ctx, bson.M{"email": email}, false)
}

func (r *UserRepository) GetByEmailIncludingDeleted(ctx context.Context, email string) (*entity.User, error) {
	return r.one(ctx, bson.M{"email": email}, true)
}

func (r *UserRepository) GetByPhoneNumber(ctx context.Context, phone string) (*entity.User, error) {
	return r.one(ctx, bson.M{"phone_number": phone}, false)
}

func (r *UserRepository) GetByPhoneNumberIncludingDeleted(ctx context.Context, phone string) (*entity.User, error) {
	return r.one(ctx, bson.M{"phone_number": phone}, true)
}

func (r *UserRepository) Add(ctx context.Context, u *entity.User) error {
	doc := toDocument(u)
	doc.ID = primitive.NilObjectID
	id, err := r.users.Add(ctx, doc)
	if err != nil {
		return mapWriteError(err)
	}
	u.ID = id
	return nil
}

func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	return mapWriteError(r.users.Replace(ctx, u.ID, toDocument(u)))
}

func (r *UserRepository) SoftDelete(ctx context.Context, id string) error {
	return r.users.SoftDelete(ctx, id)
}

func (r *UserRepository) Activate(ctx context.Context, id string) error {
	return r.users.SetDeleted(ctx, id, false)
}

// mapWriteError turns unique index violations into repository sentinels.
func mapWriteError(err error) error {
	if err == nil || !mongo.IsDuplicateKeyError(err) {
		return err
	}
	if strings.Contains(err.Error(), phoneIndex) {
		return repository.ErrDuplicatePhone
	}
	return repository.ErrDuplicateEmail
}

var _ repository.UserRepository = (*UserRepository)(nil)
