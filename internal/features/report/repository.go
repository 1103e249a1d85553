package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-archive/internal/common/apperr"
	"go-archive/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ReportRepository interface {
	// Create writes the definition at version 1 together with its
	// initial version snapshot.
	Create(ctx context.Context, def *ReportDefinition) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*ReportDefinition, error)
	// List returns reports the viewer owns plus shared and public ones.
	List(ctx context.Context, viewer string, limit, skip int64) ([]ReportDefinition, int64, error)
	// Update replaces the definition and appends the new state to the
	// version history in one transaction. expectedVersion guards
	// against concurrent writers.
	Update(ctx context.Context, def *ReportDefinition, expectedVersion int) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	ListVersions(ctx context.Context, reportID primitive.ObjectID) ([]ReportVersion, error)
	GetVersion(ctx context.Context, reportID primitive.ObjectID, version int) (*ReportVersion, error)
	// Restore re-applies an old snapshot as a new version.
	Restore(ctx context.Context, reportID primitive.ObjectID, version int, actor string) (*ReportDefinition, error)
}

type ReportRepositoryImpl struct {
	client   *mongo.Client
	reports  *mongo.Collection
	versions *mongo.Collection
}

func NewReportRepository(mongodb *database.MongodbDB) ReportRepository {
	return &ReportRepositoryImpl{
		client:   mongodb.Client,
		reports:  mongodb.DB.Collection("report_definitions"),
		versions: mongodb.DB.Collection("report_versions"),
	}
}

// The version history follows an after-write scheme: every saved state
// of a definition is recorded under the version number it carries, so k
// updates leave versions 1..k+1 with no gaps and no number reused. The
// helpers below hold the arithmetic; the repository methods wrap them
// in transactions.

// snapshotOf records def's current state in the version history.
func snapshotOf(def *ReportDefinition, savedBy, note string) ReportVersion {
	return ReportVersion{
		ID:       primitive.NewObjectID(),
		ReportID: def.ID,
		Version:  def.Version,
		Snapshot: *def,
		SavedBy:  savedBy,
		SavedAt:  def.UpdatedAt,
		Note:     note,
	}
}

// advance stamps def as the next saved state on top of current,
// preserving ownership fields.
func advance(current, def *ReportDefinition, now time.Time) {
	def.Version = current.Version + 1
	def.CreatedBy = current.CreatedBy
	def.CreatedAt = current.CreatedAt
	def.UpdatedAt = now
}

// restoredFrom rebuilds a past snapshot as the next version of current.
func restoredFrom(current *ReportDefinition, old *ReportVersion, actor string, now time.Time) ReportDefinition {
	restored := old.Snapshot
	restored.ID = current.ID
	restored.Version = current.Version + 1
	restored.CreatedBy = current.CreatedBy
	restored.CreatedAt = current.CreatedAt
	restored.UpdatedBy = actor
	restored.UpdatedAt = now
	return restored
}

func (r *ReportRepositoryImpl) Create(ctx context.Context, def *ReportDefinition) error {
	now := time.Now().UTC()
	def.ID = primitive.NewObjectID()
	def.Version = 1
	def.CreatedAt = now
	def.UpdatedAt = now

	session, err := r.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if _, err := r.reports.InsertOne(sc, def); err != nil {
			return nil, err
		}
		snapshot := snapshotOf(def, def.CreatedBy, "initial version")
		if _, err := r.versions.InsertOne(sc, snapshot); err != nil {
			return nil, err
		}
		return nil, nil
	})
	return err
}

func (r *ReportRepositoryImpl) GetByID(ctx context.Context, id primitive.ObjectID) (*ReportDefinition, error) {
	var def ReportDefinition
	err := r.reports.FindOne(ctx, bson.M{"_id": id}).Decode(&def)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &def, nil
}

func (r *ReportRepositoryImpl) List(ctx context.Context, viewer string, limit, skip int64) ([]ReportDefinition, int64, error) {
	filter := bson.M{"$or": []bson.M{
		{"created_by": viewer},
		{"is_shared": true},
		{"is_public": true},
	}}

	total, err := r.reports.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}}).SetSkip(skip)
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cursor, err := r.reports.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var defs []ReportDefinition
	if err := cursor.All(ctx, &defs); err != nil {
		return nil, 0, err
	}
	return defs, total, nil
}

func (r *ReportRepositoryImpl) Update(ctx context.Context, def *ReportDefinition, expectedVersion int) error {
	session, err := r.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		var current ReportDefinition
		if err := r.reports.FindOne(sc, bson.M{"_id": def.ID}).Decode(&current); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return nil, apperr.ErrNotFound
			}
			return nil, err
		}
		if current.Version != expectedVersion {
			return nil, apperr.ErrConflict
		}

		advance(&current, def, time.Now().UTC())

		res, err := r.reports.ReplaceOne(sc, bson.M{"_id": def.ID, "version": expectedVersion}, def)
		if err != nil {
			return nil, err
		}
		if res.MatchedCount == 0 {
			return nil, apperr.ErrConflict
		}

		snapshot := snapshotOf(def, def.UpdatedBy, "")
		if _, err := r.versions.InsertOne(sc, snapshot); err != nil {
			return nil, err
		}
		return nil, nil
	})
	return err
}

func (r *ReportRepositoryImpl) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.reports.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return apperr.ErrNotFound
	}
	// version history goes with the report
	_, err = r.versions.DeleteMany(ctx, bson.M{"report_id": id})
	return err
}

func (r *ReportRepositoryImpl) ListVersions(ctx context.Context, reportID primitive.ObjectID) ([]ReportVersion, error) {
	opts := options.Find().SetSort(bson.D{{Key: "version", Value: -1}})
	cursor, err := r.versions.Find(ctx, bson.M{"report_id": reportID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var versions []ReportVersion
	if err := cursor.All(ctx, &versions); err != nil {
		return nil, err
	}
	return versions, nil
}

func (r *ReportRepositoryImpl) GetVersion(ctx context.Context, reportID primitive.ObjectID, version int) (*ReportVersion, error) {
	var v ReportVersion
	err := r.versions.FindOne(ctx, bson.M{"report_id": reportID, "version": version}).Decode(&v)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *ReportRepositoryImpl) Restore(ctx context.Context, reportID primitive.ObjectID, version int, actor string) (*ReportDefinition, error) {
	session, err := r.client.StartSession()
	if err != nil {
		return nil, err
	}
	defer session.EndSession(ctx)

	result, err := session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		var current ReportDefinition
		if err := r.reports.FindOne(sc, bson.M{"_id": reportID}).Decode(&current); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return nil, apperr.ErrNotFound
			}
			return nil, err
		}

		var old ReportVersion
		if err := r.versions.FindOne(sc, bson.M{"report_id": reportID, "version": version}).Decode(&old); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return nil, apperr.ErrNotFound
			}
			return nil, err
		}

		restored := restoredFrom(&current, &old, actor, time.Now().UTC())

		if _, err := r.reports.ReplaceOne(sc, bson.M{"_id": current.ID}, restored); err != nil {
			return nil, err
		}

		snapshot := snapshotOf(&restored, actor, fmt.Sprintf("restored from version %d", version))
		if _, err := r.versions.InsertOne(sc, snapshot); err != nil {
			return nil, err
		}
		return &restored, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*ReportDefinition), nil
}
