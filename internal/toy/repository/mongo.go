package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/karajelley/lab-toy-factory/internal/toy"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRepo implements Repository on a single MongoDB collection.
type MongoRepo struct {
	col     *mongo.Collection
	timeout time.Duration
}

// NewMongoRepo wraps col. Every operation is bounded by timeout; zero means
// the caller's context alone decides.
func NewMongoRepo(col *mongo.Collection, timeout time.Duration) *MongoRepo {
	return &MongoRepo{col: col, timeout: timeout}
}

// EnsureIndexes creates the unique index on name that backs the uniqueness rule.
func (m *MongoRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := m.opContext(ctx)
	defer cancel()
	idx := mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("name_unique"),
	}
	if _, err := m.col.Indexes().CreateOne(ctx, idx); err != nil {
		return fmt.Errorf("create name index: %w", err)
	}
	return nil
}

// Create inserts t and sets its ID. A unique index violation is ErrDuplicateName.
func (m *MongoRepo) Create(ctx context.Context, t *toy.Toy) error {
	ctx, cancel := m.opContext(ctx)
	defer cancel()
	if t.ID.IsZero() {
		t.ID = primitive.NewObjectID()
	}
	if _, err := m.col.InsertOne(ctx, t); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateName
		}
		return err
	}
	return nil
}

// List returns every toy in the collection.
func (m *MongoRepo) List(ctx context.Context) ([]*toy.Toy, error) {
	return m.find(ctx, bson.M{})
}

// SearchByName matches substr anywhere in the name, ignoring case. Regex
// metacharacters in substr are matched literally.
func (m *MongoRepo) SearchByName(ctx context.Context, substr string) ([]*toy.Toy, error) {
	filter := bson.M{"name": primitive.Regex{Pattern: regexp.QuoteMeta(substr), Options: "i"}}
	return m.find(ctx, filter)
}

// Update $sets the fields present in u and returns the document after the
// write. An empty update only reads the document back.
func (m *MongoRepo) Update(ctx context.Context, id string, u toy.UpdateInput) (*toy.Toy, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	ctx, cancel := m.opContext(ctx)
	defer cancel()

	filter := bson.M{"_id": oid}
	var t toy.Toy
	if u.Empty() {
		err = m.col.FindOne(ctx, filter).Decode(&t)
	} else {
		opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
		err = m.col.FindOneAndUpdate(ctx, filter, bson.M{"$set": setFields(u)}, opts).Decode(&t)
	}
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicateName
		}
		return nil, err
	}
	return &t, nil
}

func (m *MongoRepo) find(ctx context.Context, filter bson.M) ([]*toy.Toy, error) {
	ctx, cancel := m.opContext(ctx)
	defer cancel()
	cur, err := m.col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := []*toy.Toy{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []*toy.Toy{}
	}
	return out, nil
}

func (m *MongoRepo) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if m.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, m.timeout)
}

// setFields builds the $set document from the fields present in u.
func setFields(u toy.UpdateInput) bson.M {
	set := bson.M{}
	if u.Name != nil {
		set["name"] = *u.Name
	}
	if u.Description != nil {
		set["description"] = *u.Description
	}
	if u.Price != nil {
		set["price"] = *u.Price
	}
	if u.InStock != nil {
		set["inStock"] = *u.InStock
	}
	if u.Created != nil {
		set["created"] = *u.Created
	}
	return set
}
