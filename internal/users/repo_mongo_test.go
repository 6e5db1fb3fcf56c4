package users

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestMongoRepo(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("create duplicate email", func(mt *mtest.T) {
		repo := NewMongoRepo(mt.DB)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "duplicate key error",
		}))

		err := repo.Create(context.Background(), User{ID: "u2", Email: "ada@example.com"})
		assert.ErrorIs(mt, err, ErrEmailTaken)
	})

	mt.Run("get by email", func(mt *mtest.T) {
		repo := NewMongoRepo(mt.DB)
		ns := mt.DB.Name() + "." + collectionName
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{
			{Key: "_id", Value: "u1"},
			{Key: "name", Value: "Ada"},
			{Key: "email", Value: "ada@example.com"},
			{Key: "password", Value: "hash"},
		}))

		user, err := repo.GetByEmail(context.Background(), "ada@example.com")
		require.NoError(mt, err)
		assert.Equal(mt, "u1", user.ID)
		assert.Equal(mt, "hash", user.PasswordHash)
	})

	mt.Run("get by id missing", func(mt *mtest.T) {
		repo := NewMongoRepo(mt.DB)
		ns := mt.DB.Name() + "." + collectionName
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		_, err := repo.GetByID(context.Background(), "missing")
		assert.ErrorIs(mt, err, ErrNotFound)
	})
}
