package report

import (
	"context"

	common_models "go-archive/internal/common/models"
	"go-archive/internal/features/audit"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type ReportService interface {
	Create(ctx context.Context, def *ReportDefinition, actor string) error
	Get(ctx context.Context, id primitive.ObjectID) (*ReportDefinition, error)
	List(ctx context.Context, viewer string, limit, skip int64) ([]ReportDefinition, int64, error)
	Update(ctx context.Context, def *ReportDefinition, expectedVersion int, actor string) error
	Delete(ctx context.Context, id primitive.ObjectID, actor string) error
	Clone(ctx context.Context, id primitive.ObjectID, name, actor string) (*ReportDefinition, error)
	ListVersions(ctx context.Context, reportID primitive.ObjectID) ([]ReportVersion, error)
	GetVersion(ctx context.Context, reportID primitive.ObjectID, version int) (*ReportVersion, error)
	Restore(ctx context.Context, reportID primitive.ObjectID, version int, actor string) (*ReportDefinition, error)
	Execute(ctx context.Context, id primitive.ObjectID, page, limit int64) (*QueryResult, error)
	// Preview runs an unsaved definition, used by the builder UI.
	Preview(ctx context.Context, def *ReportDefinition, page, limit int64) (*QueryResult, error)
}

type reportService struct {
	repo   ReportRepository
	engine QueryEngine
	audit  audit.AuditService
	logger *zap.Logger
}

func NewReportService(repo ReportRepository, engine QueryEngine, auditSvc audit.AuditService, logger *zap.Logger) ReportService {
	return &reportService{
		repo:   repo,
		engine: engine,
		audit:  auditSvc,
		logger: logger,
	}
}

func (s *reportService) Create(ctx context.Context, def *ReportDefinition, actor string) error {
	if err := s.engine.Validate(def); err != nil {
		return err
	}
	def.CreatedBy = actor
	def.UpdatedBy = actor

	if err := s.repo.Create(ctx, def); err != nil {
		return err
	}

	s.audit.LogChange(ctx, common_models.AuditActionCreate, "report", def.ID.Hex(), actor, nil)
	s.logger.Info("report created", zap.String("id", def.ID.Hex()), zap.String("name", def.Name))
	return nil
}

func (s *reportService) Get(ctx context.Context, id primitive.ObjectID) (*ReportDefinition, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *reportService) List(ctx context.Context, viewer string, limit, skip int64) ([]ReportDefinition, int64, error) {
	return s.repo.List(ctx, viewer, limit, skip)
}

func (s *reportService) Update(ctx context.Context, def *ReportDefinition, expectedVersion int, actor string) error {
	if err := s.engine.Validate(def); err != nil {
		return err
	}
	def.UpdatedBy = actor

	if err := s.repo.Update(ctx, def, expectedVersion); err != nil {
		return err
	}

	s.audit.LogChange(ctx, common_models.AuditActionUpdate, "report", def.ID.Hex(), actor, nil)
	return nil
}

func (s *reportService) Delete(ctx context.Context, id primitive.ObjectID, actor string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.audit.LogChange(ctx, common_models.AuditActionDelete, "report", id.Hex(), actor, nil)
	return nil
}

// Clone copies a definition as a fresh report with its own history.
func (s *reportService) Clone(ctx context.Context, id primitive.ObjectID, name, actor string) (*ReportDefinition, error) {
	src, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	clone := *src
	clone.ID = primitive.NilObjectID
	if name != "" {
		clone.Name = name
	} else {
		clone.Name = src.Name + " (copy)"
	}
	clone.CreatedBy = actor
	clone.UpdatedBy = actor
	// copies start private regardless of the source's visibility
	clone.IsShared = false
	clone.IsPublic = false

	if err := s.repo.Create(ctx, &clone); err != nil {
		return nil, err
	}

	s.audit.LogChange(ctx, common_models.AuditActionCreate, "report", clone.ID.Hex(), actor, nil)
	return &clone, nil
}

func (s *reportService) ListVersions(ctx context.Context, reportID primitive.ObjectID) ([]ReportVersion, error) {
	return s.repo.ListVersions(ctx, reportID)
}

func (s *reportService) GetVersion(ctx context.Context, reportID primitive.ObjectID, version int) (*ReportVersion, error) {
	return s.repo.GetVersion(ctx, reportID, version)
}

func (s *reportService) Restore(ctx context.Context, reportID primitive.ObjectID, version int, actor string) (*ReportDefinition, error) {
	restored, err := s.repo.Restore(ctx, reportID, version, actor)
	if err != nil {
		return nil, err
	}
	s.audit.LogChange(ctx, common_models.AuditActionRestore, "report", reportID.Hex(), actor, nil)
	s.logger.Info("report restored",
		zap.String("id", reportID.Hex()),
		zap.Int("from_version", version),
		zap.Int("new_version", restored.Version),
	)
	return restored, nil
}

// resolvePageSize fills in the page size when the caller left it unset.
// An explicit non-positive value passes through for the engine to
// reject.
func resolvePageSize(limit int64, def *ReportDefinition) int64 {
	if limit != 0 {
		return limit
	}
	if def.PageSize > 0 {
		return def.PageSize
	}
	return DefaultPageSize
}

func (s *reportService) Execute(ctx context.Context, id primitive.ObjectID, page, limit int64) (*QueryResult, error) {
	def, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.engine.Execute(ctx, def, page, resolvePageSize(limit, def))
}

func (s *reportService) Preview(ctx context.Context, def *ReportDefinition, page, limit int64) (*QueryResult, error) {
	return s.engine.Execute(ctx, def, page, resolvePageSize(limit, def))
}
