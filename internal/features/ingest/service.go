package ingest

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go-archive/internal/common/apperr"
	common_models "go-archive/internal/common/models"
	"go-archive/internal/config"
	"go-archive/internal/features/audit"
	"go-archive/internal/features/catalog"
	"go-archive/internal/features/events"
	"go-archive/internal/features/record"

	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

const batchSize = 500

// identPattern limits table and column names to plain SQL identifiers
// since they are interpolated into the query.
var identPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// IngestService copies rows from the legacy Postgres catalogue into the
// record store so reports can query them.
type IngestService interface {
	Run(ctx context.Context, req *IngestRequest, actor string) (*IngestResult, error)
}

type ingestService struct {
	records  record.RecordRepository
	registry *catalog.Registry
	audit    audit.AuditService
	hub      *events.Hub
	cfg      *config.Config
	logger   *zap.Logger
}

func NewIngestService(
	records record.RecordRepository,
	registry *catalog.Registry,
	auditSvc audit.AuditService,
	hub *events.Hub,
	cfg *config.Config,
	logger *zap.Logger,
) IngestService {
	return &ingestService{
		records:  records,
		registry: registry,
		audit:    auditSvc,
		hub:      hub,
		cfg:      cfg,
		logger:   logger,
	}
}

func (s *ingestService) validate(req *IngestRequest) error {
	if !s.registry.Has(req.Source) {
		return &apperr.UnknownDataSourceError{Key: req.Source}
	}
	if !identPattern.MatchString(req.Table) {
		return apperr.NewValidation("table", "not a valid table name")
	}
	for col := range req.Mapping {
		if !identPattern.MatchString(col) {
			return apperr.NewValidation("mapping", fmt.Sprintf("not a valid column name: %q", col))
		}
	}
	if req.Limit < 0 {
		return apperr.NewValidation("limit", "limit must not be negative")
	}
	if s.cfg.IngestPGDSN == "" {
		return &apperr.ExecutionError{Err: fmt.Errorf("legacy database is not configured")}
	}
	return nil
}

func (s *ingestService) Run(ctx context.Context, req *IngestRequest, actor string) (*IngestResult, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}

	db, err := sql.Open("postgres", s.cfg.IngestPGDSN)
	if err != nil {
		return nil, &apperr.ExecutionError{Err: err}
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return nil, &apperr.ExecutionError{Err: err}
	}

	query := buildQuery(req)
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, &apperr.ExecutionError{Err: err}
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, &apperr.ExecutionError{Err: err}
	}

	started := time.Now().UTC()
	result := &IngestResult{Source: req.Source, Table: req.Table, StartedAt: started}

	batch := make([]record.ArchivalRecord, 0, batchSize)
	values := make([]any, len(columns))
	scanTargets := make([]any, len(columns))
	for i := range values {
		scanTargets[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(scanTargets...); err != nil {
			return nil, &apperr.ExecutionError{Err: err}
		}
		result.RowsRead++

		data := make(map[string]any, len(columns))
		for i, col := range columns {
			key := col
			if mapped, ok := req.Mapping[col]; ok && mapped != "" {
				key = mapped
			}
			data[key] = normalize(values[i])
		}
		batch = append(batch, record.ArchivalRecord{Source: req.Source, Data: data})

		if len(batch) >= batchSize {
			n, err := s.records.BulkInsert(ctx, batch)
			if err != nil {
				return nil, &apperr.ExecutionError{Err: err}
			}
			result.RowsInserted += n
			batch = batch[:0]
		}
	}
	if err := rows.Err(); err != nil {
		return nil, &apperr.ExecutionError{Err: err}
	}
	if len(batch) > 0 {
		n, err := s.records.BulkInsert(ctx, batch)
		if err != nil {
			return nil, &apperr.ExecutionError{Err: err}
		}
		result.RowsInserted += n
	}

	result.Duration = time.Since(started)

	s.audit.LogChange(ctx, common_models.AuditActionIngest, "record", req.Source, actor, nil)
	s.hub.Publish("records_ingested", map[string]any{
		"source": req.Source,
		"table":  req.Table,
		"rows":   result.RowsInserted,
		// value is what trigger-schedule thresholds compare against
		"value": result.RowsInserted,
	})
	s.logger.Info("ingest completed",
		zap.String("source", req.Source),
		zap.String("table", req.Table),
		zap.Int64("rows", result.RowsInserted),
		zap.Duration("took", result.Duration),
	)
	return result, nil
}

func buildQuery(req *IngestRequest) string {
	cols := "*"
	if len(req.Mapping) > 0 {
		names := make([]string, 0, len(req.Mapping))
		for col := range req.Mapping {
			names = append(names, col)
		}
		cols = strings.Join(names, ", ")
	}

	query := fmt.Sprintf("SELECT %s FROM %s", cols, req.Table)
	if req.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", req.Limit)
	}
	return query
}

// normalize converts driver types into values the record store and JSON
// encoder both handle.
func normalize(v any) any {
	switch t := v.(type) {
	case []byte:
		return string(t)
	case time.Time:
		return t.UTC()
	default:
		return v
	}
}
