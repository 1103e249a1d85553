package schedule

import (
	"time"

	"go-archive/internal/features/export"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Frequency string

const (
	FreqDaily     Frequency = "daily"
	FreqWeekly    Frequency = "weekly"
	FreqMonthly   Frequency = "monthly"
	FreqQuarterly Frequency = "quarterly"
	// FreqTrigger schedules fire on a named domain event instead of a
	// clock.
	FreqTrigger Frequency = "trigger"
)

// Schedule generates a report artifact on a recurrence or in response
// to a domain event.
type Schedule struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	ReportID  primitive.ObjectID `json:"report_id" bson:"report_id"`
	Frequency Frequency          `json:"frequency" bson:"frequency"`
	// DayOfWeek is 0 (Sunday) through 6, used by weekly schedules.
	DayOfWeek int `json:"day_of_week" bson:"day_of_week"`
	// DayOfMonth is clamped to the target month's length.
	DayOfMonth   int           `json:"day_of_month" bson:"day_of_month"`
	TimeOfDay    string        `json:"time_of_day" bson:"time_of_day"`
	OutputFormat export.Format `json:"output_format" bson:"output_format"`
	Recipients   []string      `json:"recipients,omitempty" bson:"recipients,omitempty"`
	// TriggerEvent names the event that fires a trigger schedule.
	TriggerEvent string `json:"trigger_event,omitempty" bson:"trigger_event,omitempty"`
	// TriggerThreshold, when set, requires the event's numeric value to
	// reach it before the schedule fires.
	TriggerThreshold *float64 `json:"trigger_threshold,omitempty" bson:"trigger_threshold,omitempty"`
	// GuardScript optionally filters trigger events. The script sees the
	// event payload as `event` and decides by setting `fire`.
	GuardScript string    `json:"guard_script,omitempty" bson:"guard_script,omitempty"`
	IsActive    bool      `json:"is_active" bson:"is_active"`
	Running     bool      `json:"running" bson:"running"`
	NextRun     time.Time `json:"next_run,omitempty" bson:"next_run,omitempty"`
	LastRun     time.Time `json:"last_run,omitempty" bson:"last_run,omitempty"`
	LastError   string    `json:"last_error,omitempty" bson:"last_error,omitempty"`
	CreatedBy   string    `json:"created_by" bson:"created_by"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at"`
}

// Notification records that a finished run was announced to one
// recipient. Actual delivery belongs to the host mail system.
type Notification struct {
	ID         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	ScheduleID primitive.ObjectID `json:"schedule_id" bson:"schedule_id"`
	ReportID   primitive.ObjectID `json:"report_id" bson:"report_id"`
	Recipient  string             `json:"recipient" bson:"recipient"`
	Filename   string             `json:"filename" bson:"filename"`
	SentAt     time.Time          `json:"sent_at" bson:"sent_at"`
}

// GeneratedArtifact is the archive entry for one schedule run.
type GeneratedArtifact struct {
	ID         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	ScheduleID primitive.ObjectID `json:"schedule_id,omitempty" bson:"schedule_id,omitempty"`
	ReportID   primitive.ObjectID `json:"report_id" bson:"report_id"`
	Artifact   export.Artifact    `json:"artifact" bson:"artifact"`
	// TriggeredBy is "clock", "event" or "manual".
	TriggeredBy string    `json:"triggered_by" bson:"triggered_by"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
}
