package share

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"go-archive/internal/common/apperr"
	common_models "go-archive/internal/common/models"
	"go-archive/internal/features/audit"
	"go-archive/internal/features/export"
	"go-archive/internal/features/report"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type ShareService interface {
	// Create issues a new token. A zero expiresAt means the link never
	// expires.
	Create(ctx context.Context, reportID primitive.ObjectID, expiresAt time.Time, actor string) (*ShareLink, error)
	List(ctx context.Context, reportID primitive.ObjectID) ([]ShareLink, error)
	Revoke(ctx context.Context, id primitive.ObjectID, actor string) error
	// Resolve maps a token to its report document. Unknown, revoked and
	// expired tokens are all reported through UnavailableError so
	// callers cannot tell which tokens exist.
	Resolve(ctx context.Context, token string) (*export.Document, error)
}

type shareService struct {
	repo    ShareRepository
	reports report.ReportService
	exports export.ExportService
	audit   audit.AuditService
	logger  *zap.Logger
}

func NewShareService(
	repo ShareRepository,
	reports report.ReportService,
	exports export.ExportService,
	auditSvc audit.AuditService,
	logger *zap.Logger,
) ShareService {
	return &shareService{
		repo:    repo,
		reports: reports,
		exports: exports,
		audit:   auditSvc,
		logger:  logger,
	}
}

// newToken returns 32 random bytes as 64 hex characters.
func newToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func (s *shareService) Create(ctx context.Context, reportID primitive.ObjectID, expiresAt time.Time, actor string) (*ShareLink, error) {
	if _, err := s.reports.Get(ctx, reportID); err != nil {
		return nil, err
	}

	token, err := newToken()
	if err != nil {
		return nil, err
	}

	link := &ShareLink{
		ReportID:  reportID,
		Token:     token,
		IsActive:  true,
		CreatedBy: actor,
	}
	if !expiresAt.IsZero() {
		link.ExpiresAt = expiresAt.UTC()
	}

	if err := s.repo.Create(ctx, link); err != nil {
		return nil, err
	}

	s.audit.LogChange(ctx, common_models.AuditActionShare, "report", reportID.Hex(), actor, nil)
	s.logger.Info("share link created", zap.String("report_id", reportID.Hex()))
	return link, nil
}

func (s *shareService) List(ctx context.Context, reportID primitive.ObjectID) ([]ShareLink, error) {
	return s.repo.List(ctx, reportID)
}

func (s *shareService) Revoke(ctx context.Context, id primitive.ObjectID, actor string) error {
	if err := s.repo.Revoke(ctx, id); err != nil {
		return err
	}
	s.audit.LogChange(ctx, common_models.AuditActionShare, "share", id.Hex(), actor, nil)
	return nil
}

func (s *shareService) Resolve(ctx context.Context, token string) (*export.Document, error) {
	link, err := s.repo.GetByToken(ctx, token)
	if err != nil {
		// unknown tokens look exactly like revoked ones
		return nil, &apperr.UnavailableError{Reason: apperr.UnavailableInactive}
	}
	if !link.IsActive {
		return nil, &apperr.UnavailableError{Reason: apperr.UnavailableInactive}
	}
	if !link.ExpiresAt.IsZero() && time.Now().UTC().After(link.ExpiresAt) {
		return nil, &apperr.UnavailableError{Reason: apperr.UnavailableExpired}
	}

	def, err := s.reports.Get(ctx, link.ReportID)
	if err != nil {
		return nil, &apperr.UnavailableError{Reason: apperr.UnavailableInactive}
	}

	doc, err := s.exports.BuildDocument(ctx, def, export.TruncateShared, 0)
	if err != nil {
		return nil, err
	}

	if err := s.repo.RecordAccess(ctx, link.ID); err != nil {
		s.logger.Warn("share access record failed", zap.Error(err))
	}
	return doc, nil
}
