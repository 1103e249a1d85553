package export

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"go-archive/internal/common/apperr"
	common_models "go-archive/internal/common/models"
	"go-archive/internal/config"
	"go-archive/internal/features/audit"
	"go-archive/internal/features/catalog"
	"go-archive/internal/features/events"
	"go-archive/internal/features/report"
	"go-archive/pkg/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Artifact describes an export written to the artifact directory.
type Artifact struct {
	Filename    string    `json:"filename" bson:"filename"`
	Path        string    `json:"path" bson:"path"`
	Format      Format    `json:"format" bson:"format"`
	ContentType string    `json:"content_type" bson:"content_type"`
	Size        int64     `json:"size" bson:"size"`
	RowCount    int       `json:"row_count" bson:"row_count"`
	GeneratedAt time.Time `json:"generated_at" bson:"generated_at"`
}

type ExportService interface {
	// BuildDocument resolves a definition into a renderable document.
	// maxRows of zero means unbounded.
	BuildDocument(ctx context.Context, def *report.ReportDefinition, truncateAt int, maxRows int64) (*Document, error)
	// Exporter pre-flights an export and returns the function that
	// writes the body, so callers can commit response headers before
	// the first byte. Row data is pulled from the cursor while writing.
	Exporter(ctx context.Context, reportID primitive.ObjectID, format Format) (Renderer, func(w io.Writer) error, error)
	// ExportToFile writes an export into the artifact directory, for
	// scheduled runs.
	ExportToFile(ctx context.Context, reportID primitive.ObjectID, format Format, actor string) (*Artifact, error)
	Formats() []Format
}

type exportService struct {
	reports   report.ReportService
	engine    report.QueryEngine
	registry  *catalog.Registry
	renderers *RendererRegistry
	audit     audit.AuditService
	hub       *events.Hub
	cfg       *config.Config
	logger    *zap.Logger
}

func NewExportService(
	reports report.ReportService,
	engine report.QueryEngine,
	registry *catalog.Registry,
	renderers *RendererRegistry,
	auditSvc audit.AuditService,
	hub *events.Hub,
	cfg *config.Config,
	logger *zap.Logger,
) ExportService {
	return &exportService{
		reports:   reports,
		engine:    engine,
		registry:  registry,
		renderers: renderers,
		audit:     auditSvc,
		hub:       hub,
		cfg:       cfg,
		logger:    logger,
	}
}

func (s *exportService) Formats() []Format {
	return s.renderers.Formats()
}

// headerDocument resolves everything about an export except the rows.
func (s *exportService) headerDocument(def *report.ReportDefinition, truncateAt int) (*Document, error) {
	ds, err := s.registry.Get(def.Source)
	if err != nil {
		return nil, err
	}

	headers := make([]ColumnHeader, 0, len(def.Columns))
	for _, key := range def.Columns {
		colDesc, ok := s.registry.Column(def.Source, key)
		if !ok {
			return nil, apperr.NewValidation("columns", fmt.Sprintf("unknown column %q", key))
		}
		headers = append(headers, ColumnHeader{Key: key, Label: colDesc.Label, Type: colDesc.Type})
	}

	return &Document{
		Title:       def.Name,
		Description: def.Description,
		SourceLabel: ds.Label,
		GeneratedAt: time.Now().UTC().Format("2006-01-02 15:04 MST"),
		Columns:     headers,
		Layout:      def.Layout,
		TruncateAt:  truncateAt,
	}, nil
}

func (s *exportService) fillRows(ctx context.Context, def *report.ReportDefinition, doc *Document, maxRows int64) error {
	var count int64
	return s.engine.ExecuteAll(ctx, def, func(row map[string]any) error {
		count++
		if maxRows > 0 && count > maxRows {
			return apperr.NewValidation("format",
				fmt.Sprintf("result set exceeds %d rows; use csv or xlsx", maxRows))
		}
		doc.Rows = append(doc.Rows, row)
		return nil
	})
}

func (s *exportService) BuildDocument(ctx context.Context, def *report.ReportDefinition, truncateAt int, maxRows int64) (*Document, error) {
	doc, err := s.headerDocument(def, truncateAt)
	if err != nil {
		return nil, err
	}
	if err := s.fillRows(ctx, def, doc, maxRows); err != nil {
		return nil, err
	}
	return doc, nil
}

// renderBody executes the report and writes the export. Tabular
// renderers consume rows straight from the cursor so memory stays flat;
// page-oriented formats materialize up to the stream threshold.
func (s *exportService) renderBody(ctx context.Context, renderer Renderer, def *report.ReportDefinition, doc *Document, w io.Writer) (int, error) {
	if sr, ok := renderer.(StreamRenderer); ok {
		rows := 0
		var execErr error
		src := RowSource(func(fn func(row map[string]any) error) error {
			execErr = s.engine.ExecuteAll(ctx, def, func(row map[string]any) error {
				rows++
				return fn(row)
			})
			return execErr
		})
		if err := sr.RenderStream(w, doc, src); err != nil {
			if execErr != nil {
				return rows, execErr
			}
			return rows, &apperr.RenderError{Format: string(renderer.Format()), Err: err}
		}
		return rows, nil
	}

	if err := s.fillRows(ctx, def, doc, s.cfg.StreamThreshold); err != nil {
		return 0, err
	}
	if err := renderer.Render(w, doc); err != nil {
		return 0, &apperr.RenderError{Format: string(renderer.Format()), Err: err}
	}
	return len(doc.Rows), nil
}

func (s *exportService) Exporter(ctx context.Context, reportID primitive.ObjectID, format Format) (Renderer, func(w io.Writer) error, error) {
	renderer, err := s.renderers.Get(format)
	if err != nil {
		return nil, nil, err
	}

	def, err := s.reports.Get(ctx, reportID)
	if err != nil {
		return nil, nil, err
	}

	doc, err := s.headerDocument(def, TruncateDefault)
	if err != nil {
		return nil, nil, err
	}

	write := func(w io.Writer) error {
		_, err := s.renderBody(ctx, renderer, def, doc, w)
		return err
	}
	return renderer, write, nil
}

func (s *exportService) ExportToFile(ctx context.Context, reportID primitive.ObjectID, format Format, actor string) (*Artifact, error) {
	renderer, err := s.renderers.Get(format)
	if err != nil {
		return nil, err
	}

	def, err := s.reports.Get(ctx, reportID)
	if err != nil {
		return nil, err
	}

	doc, err := s.headerDocument(def, TruncateDefault)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(s.cfg.ArtifactPath, 0o755); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	filename := fmt.Sprintf("%s-%s.%s", utils.Slugify(def.Name), now.Format("20060102-150405"), renderer.Extension())
	path := filepath.Join(s.cfg.ArtifactPath, filename)

	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	rowCount, err := s.renderBody(ctx, renderer, def, doc, f)
	if err != nil {
		f.Close()
		os.Remove(path)
		return nil, err
	}
	if err := f.Close(); err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	artifact := &Artifact{
		Filename:    filename,
		Path:        path,
		Format:      format,
		ContentType: renderer.ContentType(),
		Size:        info.Size(),
		RowCount:    rowCount,
		GeneratedAt: now,
	}

	s.audit.LogChange(ctx, common_models.AuditActionExport, "report", reportID.Hex(), actor, nil)
	s.hub.Publish("artifact.generated", map[string]any{
		"report_id": reportID.Hex(),
		"filename":  artifact.Filename,
		"format":    string(format),
		"rows":      artifact.RowCount,
	})
	s.logger.Info("report exported",
		zap.String("report_id", reportID.Hex()),
		zap.String("format", string(format)),
		zap.Int("rows", artifact.RowCount),
	)
	return artifact, nil
}
