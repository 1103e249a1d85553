package template

import (
	"time"

	"go-archive/internal/features/report"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Scope string

const (
	// ScopeSystem templates ship with the application and are read-only.
	ScopeSystem      Scope = "system"
	ScopeInstitution Scope = "institution"
	ScopeUser        Scope = "user"
)

// Section is one ordered building block of a template. The fields
// beyond Type mirror report.LayoutBlock; hidden sections and sections
// above the viewer's clearance are skipped on instantiation by the
// host application.
type Section struct {
	Type  report.BlockType `json:"type" bson:"type"`
	Title string           `json:"title,omitempty" bson:"title,omitempty"`
	Body  string           `json:"body,omitempty" bson:"body,omitempty"`
	// Columns is what a data_table section contributes to the report.
	Columns      []string `json:"columns,omitempty" bson:"columns,omitempty"`
	ChartKind    string   `json:"chart_kind,omitempty" bson:"chart_kind,omitempty"`
	GroupBy      string   `json:"group_by,omitempty" bson:"group_by,omitempty"`
	Metric       string   `json:"metric,omitempty" bson:"metric,omitempty"`
	MetricColumn string   `json:"metric_column,omitempty" bson:"metric_column,omitempty"`
	ImageURL     string   `json:"image_url,omitempty" bson:"image_url,omitempty"`
	IsVisible    bool     `json:"is_visible" bson:"is_visible"`
	// ClearanceLevel is carried for the host's access checks; the
	// engine itself does not interpret it.
	ClearanceLevel int `json:"clearance_level" bson:"clearance_level"`
	SortOrder      int `json:"sort_order" bson:"sort_order"`
}

// ReportTemplate is a reusable starting point for report definitions.
type ReportTemplate struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"`
	Description string             `json:"description" bson:"description"`
	Category    string             `json:"category,omitempty" bson:"category,omitempty"`
	Scope       Scope              `json:"scope" bson:"scope"`
	// OwnerID is the user or institution the template belongs to; empty
	// for system templates.
	OwnerID   string    `json:"owner_id,omitempty" bson:"owner_id,omitempty"`
	Source    string    `json:"data_source" bson:"data_source"`
	Sections  []Section `json:"sections" bson:"sections"`
	CreatedBy string    `json:"created_by" bson:"created_by"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}
