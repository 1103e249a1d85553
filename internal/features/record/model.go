package record

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ArchivalRecord is one row of a data source, stored schemaless so every
// catalogued source shares a single collection.
type ArchivalRecord struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Source    string             `json:"source" bson:"source"`
	Data      map[string]any     `json:"data" bson:"data"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`
}
