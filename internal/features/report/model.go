package report

import (
	"time"

	"go-archive/internal/features/catalog"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FilterClause narrows the record set of a report. Value2 is only used
// by the between operator, Values only by the in operator.
type FilterClause struct {
	Column   string           `json:"column" bson:"column"`
	Operator catalog.Operator `json:"operator" bson:"operator"`
	Value    any              `json:"value,omitempty" bson:"value,omitempty"`
	Value2   any              `json:"value2,omitempty" bson:"value2,omitempty"`
	Values   []any            `json:"values,omitempty" bson:"values,omitempty"`
}

type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

type SortSpec struct {
	Column    string        `json:"column" bson:"column"`
	Direction SortDirection `json:"direction" bson:"direction"`
}

// BlockType enumerates the layout blocks a rendered report can contain.
type BlockType string

const (
	BlockNarrative BlockType = "narrative"
	BlockDataTable BlockType = "data_table"
	BlockChart     BlockType = "chart"
	BlockSummary   BlockType = "summary"
	BlockImage     BlockType = "image"
	BlockHeader    BlockType = "header"
	BlockSeparator BlockType = "separator"
)

// LayoutBlock is one section of the rendered report. Fields beyond Type
// are interpreted per block type.
type LayoutBlock struct {
	Type    BlockType `json:"type" bson:"type"`
	Title   string    `json:"title,omitempty" bson:"title,omitempty"`
	Body    string    `json:"body,omitempty" bson:"body,omitempty"`
	Columns []string  `json:"columns,omitempty" bson:"columns,omitempty"`
	// ChartKind is bar, line or pie for chart blocks.
	ChartKind string `json:"chart_kind,omitempty" bson:"chart_kind,omitempty"`
	GroupBy   string `json:"group_by,omitempty" bson:"group_by,omitempty"`
	// Metric is count, sum or avg for summary and chart blocks.
	Metric       string `json:"metric,omitempty" bson:"metric,omitempty"`
	MetricColumn string `json:"metric_column,omitempty" bson:"metric_column,omitempty"`
	ImageURL     string `json:"image_url,omitempty" bson:"image_url,omitempty"`
}

// ReportDefinition is the stored description of a configurable report.
// Field names (data_source, sort_config, is_shared, is_public) are a
// wire contract consumed by the editing UI.
type ReportDefinition struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"`
	Description string             `json:"description" bson:"description"`
	Source      string             `json:"data_source" bson:"data_source"`
	Columns     []string           `json:"columns" bson:"columns"`
	Filters     []FilterClause     `json:"filters" bson:"filters"`
	Sorts       []SortSpec         `json:"sort_config" bson:"sort_config"`
	Layout      []LayoutBlock      `json:"layout" bson:"layout"`
	PageSize    int64              `json:"page_size" bson:"page_size"`
	// IsShared exposes the report to other staff; IsPublic additionally
	// lets it back public share links.
	IsShared bool `json:"is_shared" bson:"is_shared"`
	IsPublic bool `json:"is_public" bson:"is_public"`
	// Version is bumped on every successful update and checked
	// optimistically on writes.
	Version   int       `json:"version" bson:"version"`
	CreatedBy string    `json:"created_by" bson:"created_by"`
	UpdatedBy string    `json:"updated_by" bson:"updated_by"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// ReportVersion is an immutable snapshot of a definition taken before a
// write replaced it.
type ReportVersion struct {
	ID       primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	ReportID primitive.ObjectID `json:"report_id" bson:"report_id"`
	Version  int                `json:"version" bson:"version"`
	Snapshot ReportDefinition   `json:"snapshot" bson:"snapshot"`
	SavedBy  string             `json:"saved_by" bson:"saved_by"`
	SavedAt  time.Time          `json:"saved_at" bson:"saved_at"`
	Note     string             `json:"note,omitempty" bson:"note,omitempty"`
}

// QueryResult is one page of executed report rows.
type QueryResult struct {
	Results []map[string]any `json:"results"`
	Total   int64            `json:"total"`
	Page    int64            `json:"page"`
	Limit   int64            `json:"limit"`
	Pages   int64            `json:"pages"`
}
