package template

import (
	"context"
	"sort"

	"go-archive/internal/common/apperr"
	common_models "go-archive/internal/common/models"
	"go-archive/internal/features/audit"
	"go-archive/internal/features/report"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type TemplateService interface {
	Create(ctx context.Context, t *ReportTemplate, actor string) error
	Get(ctx context.Context, id primitive.ObjectID) (*ReportTemplate, error)
	List(ctx context.Context, userID string, scope Scope, category string) ([]ReportTemplate, error)
	Update(ctx context.Context, t *ReportTemplate, actor string) error
	Delete(ctx context.Context, id primitive.ObjectID, actor string) error
	// Instantiate creates an independent report from a template. Later
	// edits to either side never affect the other.
	Instantiate(ctx context.Context, id primitive.ObjectID, name, actor string) (*report.ReportDefinition, error)
}

type templateService struct {
	repo    TemplateRepository
	reports report.ReportService
	engine  report.QueryEngine
	audit   audit.AuditService
	logger  *zap.Logger
}

func NewTemplateService(
	repo TemplateRepository,
	reports report.ReportService,
	engine report.QueryEngine,
	auditSvc audit.AuditService,
	logger *zap.Logger,
) TemplateService {
	return &templateService{
		repo:    repo,
		reports: reports,
		engine:  engine,
		audit:   auditSvc,
		logger:  logger,
	}
}

// toDefinition derives a report definition from the template's visible
// sections: data_table sections contribute columns, every section
// contributes a layout block. The result carries no reference back to
// the template.
func (t *ReportTemplate) toDefinition(name string) *report.ReportDefinition {
	if name == "" {
		name = t.Name
	}

	sections := append([]Section(nil), t.Sections...)
	sort.SliceStable(sections, func(i, j int) bool {
		return sections[i].SortOrder < sections[j].SortOrder
	})

	var columns []string
	seen := make(map[string]bool)
	addColumn := func(c string) {
		if c != "" && !seen[c] {
			seen[c] = true
			columns = append(columns, c)
		}
	}

	var layout []report.LayoutBlock
	for _, sec := range sections {
		if !sec.IsVisible {
			continue
		}
		if sec.Type == report.BlockDataTable {
			for _, c := range sec.Columns {
				addColumn(c)
			}
		}
		layout = append(layout, report.LayoutBlock{
			Type:         sec.Type,
			Title:        sec.Title,
			Body:         sec.Body,
			Columns:      append([]string(nil), sec.Columns...),
			ChartKind:    sec.ChartKind,
			GroupBy:      sec.GroupBy,
			Metric:       sec.Metric,
			MetricColumn: sec.MetricColumn,
			ImageURL:     sec.ImageURL,
		})
	}

	// a template with no data table still needs selectable columns
	if len(columns) == 0 {
		for _, sec := range sections {
			addColumn(sec.GroupBy)
			addColumn(sec.MetricColumn)
		}
	}

	return &report.ReportDefinition{
		Name:        name,
		Description: t.Description,
		Source:      t.Source,
		Columns:     columns,
		Layout:      layout,
	}
}

func (s *templateService) validate(t *ReportTemplate) error {
	switch t.Scope {
	case ScopeSystem, ScopeInstitution, ScopeUser:
	default:
		return apperr.NewValidation("scope", "scope must be system, institution or user")
	}
	if t.Scope == ScopeUser && t.OwnerID == "" {
		return apperr.NewValidation("owner_id", "user templates require an owner")
	}
	// template content must itself be a valid report
	return s.engine.Validate(t.toDefinition(t.Name))
}

func (s *templateService) Create(ctx context.Context, t *ReportTemplate, actor string) error {
	if err := s.validate(t); err != nil {
		return err
	}
	t.CreatedBy = actor
	if t.Scope == ScopeUser && t.OwnerID == "" {
		t.OwnerID = actor
	}

	if err := s.repo.Create(ctx, t); err != nil {
		return err
	}
	s.audit.LogChange(ctx, common_models.AuditActionTemplate, "template", t.ID.Hex(), actor, nil)
	return nil
}

func (s *templateService) Get(ctx context.Context, id primitive.ObjectID) (*ReportTemplate, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *templateService) List(ctx context.Context, userID string, scope Scope, category string) ([]ReportTemplate, error) {
	return s.repo.List(ctx, userID, scope, category)
}

func (s *templateService) Update(ctx context.Context, t *ReportTemplate, actor string) error {
	current, err := s.repo.GetByID(ctx, t.ID)
	if err != nil {
		return err
	}
	if current.Scope == ScopeSystem {
		return apperr.NewValidation("scope", "system templates are read-only")
	}
	if err := s.validate(t); err != nil {
		return err
	}

	t.CreatedBy = current.CreatedBy
	t.CreatedAt = current.CreatedAt
	if err := s.repo.Update(ctx, t); err != nil {
		return err
	}
	s.audit.LogChange(ctx, common_models.AuditActionTemplate, "template", t.ID.Hex(), actor, nil)
	return nil
}

func (s *templateService) Delete(ctx context.Context, id primitive.ObjectID, actor string) error {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if current.Scope == ScopeSystem {
		return apperr.NewValidation("scope", "system templates are read-only")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.audit.LogChange(ctx, common_models.AuditActionDelete, "template", id.Hex(), actor, nil)
	return nil
}

func (s *templateService) Instantiate(ctx context.Context, id primitive.ObjectID, name, actor string) (*report.ReportDefinition, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	def := t.toDefinition(name)
	if err := s.reports.Create(ctx, def, actor); err != nil {
		return nil, err
	}

	s.logger.Info("template instantiated",
		zap.String("template_id", id.Hex()),
		zap.String("report_id", def.ID.Hex()),
	)
	return def, nil
}
