package share

import (
	"context"
	"errors"
	"time"

	"go-archive/internal/common/apperr"
	"go-archive/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ShareRepository interface {
	Create(ctx context.Context, link *ShareLink) error
	GetByToken(ctx context.Context, token string) (*ShareLink, error)
	List(ctx context.Context, reportID primitive.ObjectID) ([]ShareLink, error)
	Revoke(ctx context.Context, id primitive.ObjectID) error
	RecordAccess(ctx context.Context, id primitive.ObjectID) error
}

type ShareRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewShareRepository(mongodb *database.MongodbDB) ShareRepository {
	return &ShareRepositoryImpl{
		Collection: mongodb.DB.Collection("share_links"),
	}
}

func (r *ShareRepositoryImpl) Create(ctx context.Context, link *ShareLink) error {
	link.ID = primitive.NewObjectID()
	link.CreatedAt = time.Now().UTC()
	_, err := r.Collection.InsertOne(ctx, link)
	return err
}

func (r *ShareRepositoryImpl) GetByToken(ctx context.Context, token string) (*ShareLink, error) {
	var link ShareLink
	err := r.Collection.FindOne(ctx, bson.M{"token": token}).Decode(&link)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &link, nil
}

func (r *ShareRepositoryImpl) List(ctx context.Context, reportID primitive.ObjectID) ([]ShareLink, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.Collection.Find(ctx, bson.M{"report_id": reportID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var links []ShareLink
	if err := cursor.All(ctx, &links); err != nil {
		return nil, err
	}
	return links, nil
}

func (r *ShareRepositoryImpl) Revoke(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.Collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"is_active": false}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (r *ShareRepositoryImpl) RecordAccess(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.Collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{
			"$inc": bson.M{"access_count": 1},
			"$set": bson.M{"last_accessed_at": time.Now().UTC()},
		},
	)
	return err
}
