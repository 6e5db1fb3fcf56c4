package resumes

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const collectionName = "resumes"

// MongoRepo implements Repo on a MongoDB collection.
type MongoRepo struct {
	coll *mongo.Collection
}

// NewMongoRepo binds the resumes collection of db.
func NewMongoRepo(db *mongo.Database) *MongoRepo {
	return &MongoRepo{coll: db.Collection(collectionName)}
}

func (r *MongoRepo) Create(ctx context.Context, resume Resume) error {
	resume.Normalize()
	_, err := r.coll.InsertOne(ctx, resume)
	return err
}

func (r *MongoRepo) GetByID(ctx context.Context, resumeID string) (Resume, error) {
	var resume Resume
	err := r.coll.FindOne(ctx, bson.M{"_id": resumeID}).Decode(&resume)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Resume{}, ErrNotFound
		}
		return Resume{}, err
	}
	resume.Normalize()
	return resume, nil
}

func (r *MongoRepo) ListByUser(ctx context.Context, userID string) ([]Resume, error) {
	opts := options.Find().SetSort(bson.D{{Key: "updatedAt", Value: -1}})
	cur, err := r.coll.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]Resume, 0)
	for cur.Next(ctx) {
		var resume Resume
		if err := cur.Decode(&resume); err != nil {
			return nil, err
		}
		resume.Normalize()
		out = append(out, resume)
	}
	return out, cur.Err()
}

func (r *MongoRepo) Update(ctx context.Context, resume Resume) error {
	resume.Normalize()
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": resume.ID, "userId": resume.UserID}, resume)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoRepo) Delete(ctx context.Context, userID, resumeID string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": resumeID, "userId": userID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

var _ Repo = (*MongoRepo)(nil)
