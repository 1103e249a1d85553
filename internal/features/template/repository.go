package template

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

type TemplateRepository interface {
	Create(ctx context.Context, t *ReportTemplate) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*ReportTemplate, error)
	// List returns the templates visible to a user: every system and
	// institution template plus the user's own, optionally narrowed by
	// scope and category.
	List(ctx context.Context, userID string, scope Scope, category string) ([]ReportTemplate, error)
	Update(ctx context.Context, t *ReportTemplate) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type TemplateRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewTemplateRepository(mongodb *database.MongodbDB) TemplateRepository {
	return &TemplateRepositoryImpl{
		Collection: mongodb.DB.Collection("report_templates"),
	}
}

func (r *TemplateRepositoryImpl) Create(ctx context.Context, t *ReportTemplate) error {
	now := time.Now().UTC()
	t.ID = primitive.NewObjectID()
	t.CreatedAt = now
	t.UpdatedAt = now
	_, err := r.Collection.InsertOne(ctx, t)
	return err
}

func (r *TemplateRepositoryImpl) GetByID(ctx context.Context, id primitive.ObjectID) (*ReportTemplate, error) {
	var t ReportTemplate
	err := r.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&t)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TemplateRepositoryImpl) List(ctx context.Context, userID string, scope Scope, category string) ([]ReportTemplate, error) {
	filter := bson.M{"$or": []bson.M{
		{"scope": ScopeSystem},
		{"scope": ScopeInstitution},
		{"scope": ScopeUser, "owner_id": userID},
	}}
	if scope != "" {
		filter["scope"] = scope
	}
	if category != "" {
		filter["category"] = category
	}

	opts := options.Find().SetSort(bson.D{{Key: "scope", Value: 1}, {Key: "name", Value: 1}})
	cursor, err := r.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var templates []ReportTemplate
	if err := cursor.All(ctx, &templates); err != nil {
		return nil, err
	}
	return templates, nil
}

func (r *TemplateRepositoryImpl) Update(ctx context.Context, t *ReportTemplate) error {
	t.UpdatedAt = time.Now().UTC()
	res, err := r.Collection.ReplaceOne(ctx, bson.M{"_id": t.ID}, t)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (r *TemplateRepositoryImpl) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.Collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return apperr.ErrNotFound
	}
	return nil
}
