package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	fieldID        = "_id"
	fieldDeleted   = "is_deleted"
	fieldUpdatedAt = "updated_at"
	fieldCreatedAt = "created_at"
)

// Collection is a soft-delete aware CRUD adapter over documents of type T.
// T must map its identifier to `_id` and carry an `is_deleted` flag.
// Absence is reported as a nil document and a nil error.
type Collection[T any] struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewCollection[T any](coll *mongo.Collection) *Collection[T] {
	return &Collection[T]{coll: coll, now: time.Now}
}

// scoped adds the active-only condition unless includeDeleted is set.
func scoped(filter bson.M, includeDeleted bool) bson.M {
	out := bson.M{}
	for k, v := range filter {
		out[k] = v
	}
	if !includeDeleted {
		out[fieldDeleted] = bson.M{"$ne": true}
	}
	return out
}

// byID builds an `_id` filter; ok is false when id is not an ObjectID.
func byID(id string) (bson.M, bool) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, false
	}
	return bson.M{fieldID: oid}, true
}

func (c *Collection[T]) FindOne(ctx context.Context, filter bson.M, includeDeleted bool) (*T, error) {
	var doc T
	err := c.coll.FindOne(ctx, scoped(filter, includeDeleted)).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (c *Collection[T]) Find(ctx context.Context, filter bson.M, includeDeleted bool) ([]*T, error) {
	opts := options.Find().SetSort(bson.D{{Key: fieldCreatedAt, Value: 1}})
	cur, err := c.coll.Find(ctx, scoped(filter, includeDeleted), opts)
	if err != nil {
		return nil, err
	}
	defer func() { _ = cur.Close(ctx) }()

	out := make([]*T, 0)
	for cur.Next(ctx) {
		var doc T
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, &doc)
	}
	return out, cur.Err()
}

func (c *Collection[T]) GetByID(ctx context.Context, id string, includeDeleted bool) (*T, error) {
	filter, ok := byID(id)
	if !ok {
		return nil, nil
	}
	return c.FindOne(ctx, filter, includeDeleted)
}

func (c *Collection[T]) GetAll(ctx context.Context) ([]*T, error) {
	return c.Find(ctx, bson.M{}, false)
}

// Add inserts doc and returns the identifier the store assigned to it.
func (c *Collection[T]) Add(ctx context.Context, doc *T) (string, error) {
	res, err := c.coll.InsertOne(ctx, doc)
	if err != nil {
		return "", err
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", errors.New("unexpected inserted id type")
	}
	return oid.Hex(), nil
}

// Replace swaps the active document with the given id for doc. A deleted or
// missing document is left untouched.
func (c *Collection[T]) Replace(ctx context.Context, id string, doc *T) error {
	filter, ok := byID(id)
	if !ok {
		return nil
	}
	_, err := c.coll.ReplaceOne(ctx, scoped(filter, false), doc)
	return err
}

func (c *Collection[T]) SoftDelete(ctx context.Context, id string) error {
	return c.SetDeleted(ctx, id, true)
}

// SetDeleted flips the soft-delete flag without looking at its current value.
func (c *Collection[T]) SetDeleted(ctx context.Context, id string, deleted bool) error {
	filter, ok := byID(id)
	if !ok {
		return nil
	}
	update := bson.M{"$set": bson.M{fieldDeleted: deleted, fieldUpdatedAt: c.now().UTC()}}
	_, err := c.coll.UpdateOne(ctx, filter, update)
	return err
}

func (c *Collection[T]) EnsureIndexes(ctx context.Context, models ...mongo.IndexModel) error {
	if len(models) == 0 {
		return nil
	}
	_, err := c.coll.Indexes().CreateMany(ctx, models)
	return err
}
