package record

import (
	"context"
	"time"

	"go-archive/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type RecordRepository interface {
	List(ctx context.Context, source string, filter bson.M, sort bson.D, limit, skip int64) ([]ArchivalRecord, error)
	Count(ctx context.Context, source string, filter bson.M) (int64, error)
	// Stream returns a cursor for result sets too large to page in memory.
	// The caller owns the cursor and must Close it.
	Stream(ctx context.Context, source string, filter bson.M, sort bson.D) (*mongo.Cursor, error)
	Insert(ctx context.Context, rec *ArchivalRecord) error
	BulkInsert(ctx context.Context, recs []ArchivalRecord) (int64, error)
}

type RecordRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewRecordRepository(mongodb *database.MongodbDB) RecordRepository {
	return &RecordRepositoryImpl{
		Collection: mongodb.DB.Collection("archival_records"),
	}
}

func (r *RecordRepositoryImpl) baseFilter(source string, filter bson.M) bson.M {
	query := bson.M{"source": source}
	for k, v := range filter {
		query[k] = v
	}
	return query
}

func (r *RecordRepositoryImpl) List(ctx context.Context, source string, filter bson.M, sort bson.D, limit, skip int64) ([]ArchivalRecord, error) {
	opts := options.Find().SetSkip(skip)
	if limit > 0 {
		opts.SetLimit(limit)
	}
	if len(sort) > 0 {
		opts.SetSort(sort)
	}

	cursor, err := r.Collection.Find(ctx, r.baseFilter(source, filter), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []ArchivalRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (r *RecordRepositoryImpl) Count(ctx context.Context, source string, filter bson.M) (int64, error) {
	return r.Collection.CountDocuments(ctx, r.baseFilter(source, filter))
}

func (r *RecordRepositoryImpl) Stream(ctx context.Context, source string, filter bson.M, sort bson.D) (*mongo.Cursor, error) {
	opts := options.Find().SetBatchSize(500)
	if len(sort) > 0 {
		opts.SetSort(sort)
	}
	return r.Collection.Find(ctx, r.baseFilter(source, filter), opts)
}

func (r *RecordRepositoryImpl) Insert(ctx context.Context, rec *ArchivalRecord) error {
	now := time.Now().UTC()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now

	_, err := r.Collection.InsertOne(ctx, rec)
	return err
}

func (r *RecordRepositoryImpl) BulkInsert(ctx context.Context, recs []ArchivalRecord) (int64, error) {
	if len(recs) == 0 {
		return 0, nil
	}

	now := time.Now().UTC()
	docs := make([]interface{}, 0, len(recs))
	for i := range recs {
		if recs[i].CreatedAt.IsZero() {
			recs[i].CreatedAt = now
		}
		recs[i].UpdatedAt = now
		docs = append(docs, recs[i])
	}

	res, err := r.Collection.InsertMany(ctx, docs)
	if err != nil {
		return 0, err
	}
	return int64(len(res.InsertedIDs)), nil
}
