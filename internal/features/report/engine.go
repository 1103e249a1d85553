package report

import (
	"context"
	"fmt"
	"regexp"

	"go-archive/internal/common/apperr"
	"go-archive/internal/features/catalog"
	"go-archive/internal/features/record"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

const (
	DefaultPageSize int64 = 25
	MaxPageSize     int64 = 500
)

// QueryEngine validates report definitions against the data source
// catalog and executes them against the record store.
type QueryEngine interface {
	Validate(def *ReportDefinition) error
	Execute(ctx context.Context, def *ReportDefinition, page, limit int64) (*QueryResult, error)
	// ExecuteAll streams every matching row to fn in sort order. Used by
	// exports so large result sets never page through memory.
	ExecuteAll(ctx context.Context, def *ReportDefinition, fn func(row map[string]any) error) error
}

type queryEngine struct {
	registry *catalog.Registry
	records  record.RecordRepository
	logger   *zap.Logger
}

func NewQueryEngine(registry *catalog.Registry, records record.RecordRepository, logger *zap.Logger) QueryEngine {
	return &queryEngine{
		registry: registry,
		records:  records,
		logger:   logger,
	}
}

// Validate checks a definition against the catalog before it is saved
// or executed. All problems are reported as ValidationError so the API
// can answer 400 uniformly.
func (e *queryEngine) Validate(def *ReportDefinition) error {
	if def.Name == "" {
		return apperr.NewValidation("name", "name is required")
	}
	ds, err := e.registry.Get(def.Source)
	if err != nil {
		return err
	}
	if len(def.Columns) == 0 {
		return apperr.NewValidation("columns", "at least one column is required")
	}
	for _, c := range def.Columns {
		if _, ok := e.registry.Column(ds.Key, c); !ok {
			return apperr.NewValidation("columns", fmt.Sprintf("unknown column %q on source %q", c, ds.Key))
		}
	}
	for i, f := range def.Filters {
		field := fmt.Sprintf("filters[%d]", i)
		colDesc, ok := e.registry.Column(ds.Key, f.Column)
		if !ok {
			return apperr.NewValidation(field, fmt.Sprintf("unknown column %q", f.Column))
		}
		if !catalog.ValidOperator(f.Operator) {
			return apperr.NewValidation(field, fmt.Sprintf("unknown operator %q", f.Operator))
		}
		if !operatorAllowed(colDesc.Type, f.Operator) {
			return apperr.NewValidation(field, fmt.Sprintf("operator %q not supported for %s columns", f.Operator, colDesc.Type))
		}
		switch f.Operator {
		case catalog.OpBetween:
			if f.Value == nil || f.Value2 == nil {
				return apperr.NewValidation(field, "between requires two values")
			}
		case catalog.OpIn:
			if len(f.Values) == 0 {
				return apperr.NewValidation(field, "in requires a non-empty value list")
			}
		case catalog.OpIsNull, catalog.OpIsNotNull:
			// no operand
		default:
			if f.Value == nil {
				return apperr.NewValidation(field, "value is required")
			}
		}
	}
	for i, s := range def.Sorts {
		field := fmt.Sprintf("sorts[%d]", i)
		colDesc, ok := e.registry.Column(ds.Key, s.Column)
		if !ok {
			return apperr.NewValidation(field, fmt.Sprintf("unknown column %q", s.Column))
		}
		if !colDesc.Sortable {
			return apperr.NewValidation(field, fmt.Sprintf("column %q is not sortable", s.Column))
		}
		if s.Direction != SortAsc && s.Direction != SortDesc {
			return apperr.NewValidation(field, fmt.Sprintf("direction must be %q or %q", SortAsc, SortDesc))
		}
	}
	for i, b := range def.Layout {
		if err := validateBlock(i, b, ds, e.registry); err != nil {
			return err
		}
	}
	if def.PageSize < 0 || def.PageSize > MaxPageSize {
		return apperr.NewValidation("page_size", fmt.Sprintf("page_size must be between 0 and %d", MaxPageSize))
	}
	return nil
}

func validateBlock(i int, b LayoutBlock, ds catalog.DataSourceDescriptor, reg *catalog.Registry) error {
	field := fmt.Sprintf("layout[%d]", i)
	switch b.Type {
	case BlockNarrative, BlockHeader:
		if b.Body == "" && b.Title == "" {
			return apperr.NewValidation(field, "narrative and header blocks need a title or body")
		}
	case BlockDataTable:
		for _, c := range b.Columns {
			if _, ok := reg.Column(ds.Key, c); !ok {
				return apperr.NewValidation(field, fmt.Sprintf("unknown column %q", c))
			}
		}
	case BlockChart:
		if b.ChartKind != "bar" && b.ChartKind != "line" && b.ChartKind != "pie" {
			return apperr.NewValidation(field, "chart_kind must be bar, line or pie")
		}
		if b.GroupBy == "" {
			return apperr.NewValidation(field, "chart blocks require group_by")
		}
		if _, ok := reg.Column(ds.Key, b.GroupBy); !ok {
			return apperr.NewValidation(field, fmt.Sprintf("unknown column %q", b.GroupBy))
		}
	case BlockSummary:
		switch b.Metric {
		case "count":
		case "sum", "avg":
			if _, ok := reg.Column(ds.Key, b.MetricColumn); !ok {
				return apperr.NewValidation(field, fmt.Sprintf("unknown column %q", b.MetricColumn))
			}
		default:
			return apperr.NewValidation(field, "metric must be count, sum or avg")
		}
	case BlockImage:
		if b.ImageURL == "" {
			return apperr.NewValidation(field, "image blocks require image_url")
		}
	case BlockSeparator:
		// no fields
	default:
		return apperr.NewValidation(field, fmt.Sprintf("unknown block type %q", b.Type))
	}
	return nil
}

func operatorAllowed(t catalog.ColumnType, op catalog.Operator) bool {
	for _, allowed := range catalog.OperatorsForType(t) {
		if allowed == op {
			return true
		}
	}
	return false
}

// Execute runs one page of the report. Pages are 1-indexed; a page past
// the end returns an empty result with the correct total. The page size
// must be positive; callers resolve their own defaults before calling.
func (e *queryEngine) Execute(ctx context.Context, def *ReportDefinition, page, limit int64) (*QueryResult, error) {
	if err := e.Validate(def); err != nil {
		return nil, err
	}

	if limit <= 0 {
		return nil, apperr.NewValidation("page_size", "page_size must be a positive integer")
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	if page < 1 {
		page = 1
	}

	filter, err := BuildFilter(def.Filters)
	if err != nil {
		return nil, err
	}
	sort := BuildSort(def.Sorts, def.Source, e.registry)

	total, err := e.records.Count(ctx, def.Source, filter)
	if err != nil {
		return nil, &apperr.ExecutionError{Err: err}
	}

	pages := total / limit
	if total%limit != 0 {
		pages++
	}

	recs, err := e.records.List(ctx, def.Source, filter, sort, limit, (page-1)*limit)
	if err != nil {
		return nil, &apperr.ExecutionError{Err: err}
	}

	rows := make([]map[string]any, 0, len(recs))
	for _, r := range recs {
		rows = append(rows, projectRow(r, def.Columns))
	}

	e.logger.Debug("report executed",
		zap.String("source", def.Source),
		zap.Int64("total", total),
		zap.Int64("page", page),
	)

	return &QueryResult{
		Results: rows,
		Total:   total,
		Page:    page,
		Limit:   limit,
		Pages:   pages,
	}, nil
}

func (e *queryEngine) ExecuteAll(ctx context.Context, def *ReportDefinition, fn func(row map[string]any) error) error {
	if err := e.Validate(def); err != nil {
		return err
	}

	filter, err := BuildFilter(def.Filters)
	if err != nil {
		return err
	}
	sort := BuildSort(def.Sorts, def.Source, e.registry)

	cursor, err := e.records.Stream(ctx, def.Source, filter, sort)
	if err != nil {
		return &apperr.ExecutionError{Err: err}
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var rec record.ArchivalRecord
		if err := cursor.Decode(&rec); err != nil {
			return &apperr.ExecutionError{Err: err}
		}
		if err := fn(projectRow(rec, def.Columns)); err != nil {
			return err
		}
	}
	if err := cursor.Err(); err != nil {
		return &apperr.ExecutionError{Err: err}
	}
	return nil
}

// projectRow keeps only the selected columns, plus the record id.
func projectRow(rec record.ArchivalRecord, columns []string) map[string]any {
	row := make(map[string]any, len(columns)+1)
	row["_id"] = rec.ID.Hex()
	for _, c := range columns {
		row[c] = rec.Data[c]
	}
	return row
}

// BuildFilter translates filter clauses into a Mongo query over the
// schemaless data document.
func BuildFilter(clauses []FilterClause) (bson.M, error) {
	if len(clauses) == 0 {
		return bson.M{}, nil
	}

	var and []bson.M
	for _, f := range clauses {
		field := "data." + f.Column
		var cond bson.M
		switch f.Operator {
		case catalog.OpEquals:
			cond = bson.M{field: f.Value}
		case catalog.OpNotEquals:
			cond = bson.M{field: bson.M{"$ne": f.Value}}
		case catalog.OpContains:
			cond = bson.M{field: bson.M{"$regex": regexp.QuoteMeta(toString(f.Value)), "$options": "i"}}
		case catalog.OpStartsWith:
			cond = bson.M{field: bson.M{"$regex": "^" + regexp.QuoteMeta(toString(f.Value)), "$options": "i"}}
		case catalog.OpEndsWith:
			cond = bson.M{field: bson.M{"$regex": regexp.QuoteMeta(toString(f.Value)) + "$", "$options": "i"}}
		case catalog.OpGreaterThan:
			cond = bson.M{field: bson.M{"$gt": f.Value}}
		case catalog.OpLessThan:
			cond = bson.M{field: bson.M{"$lt": f.Value}}
		case catalog.OpBetween:
			cond = bson.M{field: bson.M{"$gte": f.Value, "$lte": f.Value2}}
		case catalog.OpIsNull:
			// matches both explicit null and missing field
			cond = bson.M{field: nil}
		case catalog.OpIsNotNull:
			cond = bson.M{field: bson.M{"$ne": nil}}
		case catalog.OpIn:
			cond = bson.M{field: bson.M{"$in": f.Values}}
		default:
			return nil, apperr.NewValidation("filters", fmt.Sprintf("unknown operator %q", f.Operator))
		}
		and = append(and, cond)
	}

	if len(and) == 1 {
		return and[0], nil
	}
	return bson.M{"$and": and}, nil
}

// BuildSort translates sort specs into Mongo sort order, falling back
// to the source's default sort and always appending _id so pagination
// is stable across identical sort keys.
func BuildSort(sorts []SortSpec, source string, reg *catalog.Registry) bson.D {
	var out bson.D
	for _, s := range sorts {
		dir := 1
		if s.Direction == SortDesc {
			dir = -1
		}
		out = append(out, bson.E{Key: "data." + s.Column, Value: dir})
	}
	if len(out) == 0 {
		if ds, err := reg.Get(source); err == nil && ds.DefaultSort != "" {
			out = append(out, bson.E{Key: "data." + ds.DefaultSort, Value: 1})
		}
	}
	out = append(out, bson.E{Key: "_id", Value: 1})
	return out
}

func toString(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}
