package share

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ShareLink grants unauthenticated read access to one report through an
// opaque token.
type ShareLink struct {
	ID       primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	ReportID primitive.ObjectID `json:"report_id" bson:"report_id"`
	Token    string             `json:"token" bson:"token"`
	// ExpiresAt of zero means the link never expires.
	ExpiresAt      time.Time `json:"expires_at,omitempty" bson:"expires_at,omitempty"`
	IsActive       bool      `json:"is_active" bson:"is_active"`
	AccessCount    int64     `json:"access_count" bson:"access_count"`
	LastAccessedAt time.Time `json:"last_accessed_at,omitempty" bson:"last_accessed_at,omitempty"`
	CreatedBy      string    `json:"created_by" bson:"created_by"`
	CreatedAt      time.Time `json:"created_at" bson:"created_at"`
}
