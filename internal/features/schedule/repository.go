package schedule

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

type ScheduleRepository interface {
	Create(ctx context.Context, s *Schedule) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*Schedule, error)
	List(ctx context.Context, reportID primitive.ObjectID) ([]Schedule, error)
	Update(ctx context.Context, s *Schedule) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	// ClaimDue atomically marks one due schedule as running so
	// concurrent tickers never double-fire. Claims left unreleased for
	// longer than staleClaim count as due again. Returns ErrNotFound
	// when nothing is due.
	ClaimDue(ctx context.Context, now time.Time) (*Schedule, error)
	// Claim marks a specific schedule as running if it is idle.
	Claim(ctx context.Context, id primitive.ObjectID) (*Schedule, error)
	// Finish releases a claimed schedule and records the run outcome.
	Finish(ctx context.Context, id primitive.ObjectID, lastRun, nextRun time.Time, lastError string) error
	ListByTrigger(ctx context.Context, event string) ([]Schedule, error)

	InsertArtifact(ctx context.Context, a *GeneratedArtifact) error
	GetArtifact(ctx context.Context, id primitive.ObjectID) (*GeneratedArtifact, error)
	ListArtifacts(ctx context.Context, reportID primitive.ObjectID, limit int64) ([]GeneratedArtifact, error)
	InsertNotifications(ctx context.Context, ns []Notification) error
}

type ScheduleRepositoryImpl struct {
	schedules     *mongo.Collection
	artifacts     *mongo.Collection
	notifications *mongo.Collection
}

func NewScheduleRepository(mongodb *database.MongodbDB) ScheduleRepository {
	return &ScheduleRepositoryImpl{
		schedules:     mongodb.DB.Collection("report_schedules"),
		artifacts:     mongodb.DB.Collection("report_artifacts"),
		notifications: mongodb.DB.Collection("report_notifications"),
	}
}

func (r *ScheduleRepositoryImpl) Create(ctx context.Context, s *Schedule) error {
	now := time.Now().UTC()
	s.ID = primitive.NewObjectID()
	s.CreatedAt = now
	s.UpdatedAt = now

	_, err := r.schedules.InsertOne(ctx, s)
	return err
}

func (r *ScheduleRepositoryImpl) GetByID(ctx context.Context, id primitive.ObjectID) (*Schedule, error) {
	var s Schedule
	err := r.schedules.FindOne(ctx, bson.M{"_id": id}).Decode(&s)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *ScheduleRepositoryImpl) List(ctx context.Context, reportID primitive.ObjectID) ([]Schedule, error) {
	filter := bson.M{}
	if !reportID.IsZero() {
		filter["report_id"] = reportID
	}

	cursor, err := r.schedules.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []Schedule
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ScheduleRepositoryImpl) Update(ctx context.Context, s *Schedule) error {
	s.UpdatedAt = time.Now().UTC()
	res, err := r.schedules.ReplaceOne(ctx, bson.M{"_id": s.ID}, s)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (r *ScheduleRepositoryImpl) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.schedules.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// staleClaim is how long a claim may sit unreleased before another tick
// takes the schedule back. Covers a process that died between Claim and
// Finish.
const staleClaim = 30 * time.Minute

// dueFilter matches schedules ready to run: active, due, and either
// idle or abandoned mid-run.
func dueFilter(now time.Time) bson.M {
	return bson.M{
		"is_active": true,
		"frequency": bson.M{"$ne": FreqTrigger},
		"next_run":  bson.M{"$lte": now},
		"$or": []bson.M{
			{"running": false},
			{"running": true, "updated_at": bson.M{"$lt": now.Add(-staleClaim)}},
		},
	}
}

func (r *ScheduleRepositoryImpl) ClaimDue(ctx context.Context, now time.Time) (*Schedule, error) {
	filter := dueFilter(now)
	update := bson.M{"$set": bson.M{"running": true, "updated_at": time.Now().UTC()}}
	opts := options.FindOneAndUpdate().
		SetSort(bson.D{{Key: "next_run", Value: 1}}).
		SetReturnDocument(options.After)

	var s Schedule
	err := r.schedules.FindOneAndUpdate(ctx, filter, update, opts).Decode(&s)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *ScheduleRepositoryImpl) Claim(ctx context.Context, id primitive.ObjectID) (*Schedule, error) {
	filter := bson.M{"_id": id, "is_active": true, "running": false}
	update := bson.M{"$set": bson.M{"running": true, "updated_at": time.Now().UTC()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var s Schedule
	err := r.schedules.FindOneAndUpdate(ctx, filter, update, opts).Decode(&s)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.ErrConflict
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *ScheduleRepositoryImpl) Finish(ctx context.Context, id primitive.ObjectID, lastRun, nextRun time.Time, lastError string) error {
	update := bson.M{"$set": bson.M{
		"running":    false,
		"last_run":   lastRun,
		"next_run":   nextRun,
		"last_error": lastError,
		"updated_at": time.Now().UTC(),
	}}
	_, err := r.schedules.UpdateOne(ctx, bson.M{"_id": id}, update)
	return err
}

func (r *ScheduleRepositoryImpl) ListByTrigger(ctx context.Context, event string) ([]Schedule, error) {
	filter := bson.M{
		"is_active":     true,
		"frequency":     FreqTrigger,
		"trigger_event": event,
	}
	cursor, err := r.schedules.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []Schedule
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ScheduleRepositoryImpl) InsertArtifact(ctx context.Context, a *GeneratedArtifact) error {
	a.ID = primitive.NewObjectID()
	a.CreatedAt = time.Now().UTC()
	_, err := r.artifacts.InsertOne(ctx, a)
	return err
}

func (r *ScheduleRepositoryImpl) GetArtifact(ctx context.Context, id primitive.ObjectID) (*GeneratedArtifact, error) {
	var a GeneratedArtifact
	err := r.artifacts.FindOne(ctx, bson.M{"_id": id}).Decode(&a)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *ScheduleRepositoryImpl) InsertNotifications(ctx context.Context, ns []Notification) error {
	if len(ns) == 0 {
		return nil
	}
	docs := make([]interface{}, len(ns))
	for i := range ns {
		ns[i].ID = primitive.NewObjectID()
		docs[i] = ns[i]
	}
	_, err := r.notifications.InsertMany(ctx, docs)
	return err
}

func (r *ScheduleRepositoryImpl) ListArtifacts(ctx context.Context, reportID primitive.ObjectID, limit int64) ([]GeneratedArtifact, error) {
	filter := bson.M{}
	if !reportID.IsZero() {
		filter["report_id"] = reportID
	}
	if limit <= 0 || limit > 200 {
		limit = 100
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(limit)
	cursor, err := r.artifacts.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []GeneratedArtifact
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
