package audit

import (
	"context"
	"time"

	common_models "go-archive/internal/common/models"

	"go.uber.org/zap"
)

// AuditService records who changed what. Writes are best effort; an
// audit failure never fails the operation being audited.
type AuditService interface {
	LogChange(ctx context.Context, action common_models.AuditAction, entity, recordID, actorID string, changes map[string]common_models.Change)
	List(ctx context.Context, entity, recordID string, limit int64) ([]common_models.AuditLog, error)
}

type auditService struct {
	repo   AuditRepository
	logger *zap.Logger
}

func NewAuditService(repo AuditRepository, logger *zap.Logger) AuditService {
	return &auditService{repo: repo, logger: logger}
}

func (s *auditService) LogChange(ctx context.Context, action common_models.AuditAction, entity, recordID, actorID string, changes map[string]common_models.Change) {
	entry := &common_models.AuditLog{
		Action:    action,
		Entity:    entity,
		RecordID:  recordID,
		ActorID:   actorID,
		Changes:   changes,
		Timestamp: time.Now().UTC(),
	}
	if err := s.repo.Insert(ctx, entry); err != nil {
		s.logger.Warn("audit write failed",
			zap.String("action", string(action)),
			zap.String("entity", entity),
			zap.Error(err),
		)
	}
}

func (s *auditService) List(ctx context.Context, entity, recordID string, limit int64) ([]common_models.AuditLog, error) {
	return s.repo.List(ctx, entity, recordID, limit)
}
