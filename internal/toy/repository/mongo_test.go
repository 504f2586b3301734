package repository

import (
	"context"
	"testing"
	"time"

	"github.com/karajelley/lab-toy-factory/internal/toy"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func toyDoc(id primitive.ObjectID, name string, price float64, created time.Time) bson.D {
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "name", Value: name},
		{Key: "description", Value: "a toy for testing"},
		{Key: "price", Value: price},
		{Key: "inStock", Value: true},
		{Key: "created", Value: primitive.NewDateTimeFromTime(created)},
	}
}

func TestMongoRepo(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()
	created := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

	mt.Run("create", func(mt *mtest.T) {
		r := NewMongoRepo(mt.Coll, time.Second)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		ty := newToy("Teddy Bear")
		require.NoError(mt, r.Create(ctx, ty))
		require.False(mt, ty.ID.IsZero())
	})

	mt.Run("create duplicate name", func(mt *mtest.T) {
		r := NewMongoRepo(mt.Coll, time.Second)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: toys index: name_unique",
		}))

		require.ErrorIs(mt, r.Create(ctx, newToy("Teddy Bear")), ErrDuplicateName)
	})

	mt.Run("list", func(mt *mtest.T) {
		r := NewMongoRepo(mt.Coll, time.Second)
		ns := mt.DB.Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			toyDoc(primitive.NewObjectID(), "Teddy Bear", 19.99, created),
			toyDoc(primitive.NewObjectID(), "Race Car", 5, created),
		))

		list, err := r.List(ctx)
		require.NoError(mt, err)
		require.Len(mt, list, 2)
		require.Equal(mt, "Teddy Bear", list[0].Name)
		require.Equal(mt, 19.99, list[0].Price)
		require.True(mt, list[0].Created.Equal(created))
	})

	mt.Run("search with no match", func(mt *mtest.T) {
		r := NewMongoRepo(mt.Coll, time.Second)
		ns := mt.DB.Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		list, err := r.SearchByName(ctx, "dragon")
		require.NoError(mt, err)
		require.NotNil(mt, list)
		require.Empty(mt, list)
	})

	mt.Run("update", func(mt *mtest.T) {
		r := NewMongoRepo(mt.Coll, time.Second)
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "value", Value: toyDoc(id, "Teddy Bear", 42, created)},
		))

		price := 42.0
		got, err := r.Update(ctx, id.Hex(), toy.UpdateInput{Price: &price})
		require.NoError(mt, err)
		require.Equal(mt, id, got.ID)
		require.Equal(mt, 42.0, got.Price)
	})

	mt.Run("update malformed id", func(mt *mtest.T) {
		r := NewMongoRepo(mt.Coll, time.Second)
		_, err := r.Update(ctx, "not-an-object-id", toy.UpdateInput{})
		require.ErrorIs(mt, err, ErrNotFound)
	})
}

func TestSetFields(t *testing.T) {
	name := "Kite"
	in := false
	set := setFields(toy.UpdateInput{Name: &name, InStock: &in})
	require.Equal(t, bson.M{"name": "Kite", "inStock": false}, set)
	require.Empty(t, setFields(toy.UpdateInput{}))
}
