package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-archive/internal/common/apperr"
	common_models "go-archive/internal/common/models"
	"go-archive/internal/features/audit"
	"go-archive/internal/features/events"
	"go-archive/internal/features/export"
	"go-archive/internal/features/report"

	"github.com/d5/tengo/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type ScheduleService interface {
	Create(ctx context.Context, s *Schedule, actor string) error
	Get(ctx context.Context, id primitive.ObjectID) (*Schedule, error)
	List(ctx context.Context, reportID primitive.ObjectID) ([]Schedule, error)
	Update(ctx context.Context, s *Schedule, actor string) error
	Delete(ctx context.Context, id primitive.ObjectID, actor string) error
	// Tick claims and executes every due schedule. The caller owns the
	// timer; the service holds no clock of its own.
	Tick(ctx context.Context) int
	// RunNow executes one schedule outside its recurrence.
	RunNow(ctx context.Context, id primitive.ObjectID, actor string) (*GeneratedArtifact, error)
	// NotifyEvent feeds a domain event to trigger schedules.
	NotifyEvent(evt events.Event)
	GetArtifact(ctx context.Context, id primitive.ObjectID) (*GeneratedArtifact, error)
	ListArtifacts(ctx context.Context, reportID primitive.ObjectID, limit int64) ([]GeneratedArtifact, error)
}

type scheduleService struct {
	repo    ScheduleRepository
	reports report.ReportService
	exports export.ExportService
	audit   audit.AuditService
	logger  *zap.Logger
}

func NewScheduleService(
	repo ScheduleRepository,
	reports report.ReportService,
	exports export.ExportService,
	auditSvc audit.AuditService,
	logger *zap.Logger,
) ScheduleService {
	return &scheduleService{
		repo:    repo,
		reports: reports,
		exports: exports,
		audit:   auditSvc,
		logger:  logger,
	}
}

func (s *scheduleService) validate(ctx context.Context, sched *Schedule) error {
	switch sched.Frequency {
	case FreqDaily, FreqWeekly, FreqMonthly, FreqQuarterly:
	case FreqTrigger:
		if sched.TriggerEvent == "" {
			return apperr.NewValidation("trigger_event", "trigger schedules require an event name")
		}
		if sched.GuardScript != "" {
			if _, err := tengo.NewScript([]byte(sched.GuardScript)).Compile(); err != nil {
				return apperr.NewValidation("guard_script", "script does not compile: "+err.Error())
			}
		}
	default:
		return apperr.NewValidation("frequency", fmt.Sprintf("unknown frequency %q", sched.Frequency))
	}

	if sched.Frequency == FreqWeekly && (sched.DayOfWeek < 0 || sched.DayOfWeek > 6) {
		return apperr.NewValidation("day_of_week", "day_of_week must be 0 (Sunday) through 6")
	}
	if sched.Frequency == FreqMonthly && (sched.DayOfMonth < 1 || sched.DayOfMonth > 31) {
		return apperr.NewValidation("day_of_month", "day_of_month must be 1 through 31")
	}

	switch sched.OutputFormat {
	case export.FormatCSV, export.FormatXLSX, export.FormatPDF, export.FormatDOCX:
	default:
		return &apperr.UnsupportedFormatError{Format: string(sched.OutputFormat)}
	}

	// the report must exist
	if _, err := s.reports.Get(ctx, sched.ReportID); err != nil {
		return err
	}
	return nil
}

func (s *scheduleService) Create(ctx context.Context, sched *Schedule, actor string) error {
	if sched.TimeOfDay == "" {
		sched.TimeOfDay = "08:00"
	}
	if err := s.validate(ctx, sched); err != nil {
		return err
	}

	sched.IsActive = true
	sched.Running = false
	sched.CreatedBy = actor
	sched.NextRun = ComputeNextRun(sched, time.Now().UTC())

	if err := s.repo.Create(ctx, sched); err != nil {
		return err
	}
	s.audit.LogChange(ctx, common_models.AuditActionSchedule, "schedule", sched.ID.Hex(), actor, nil)
	return nil
}

func (s *scheduleService) Get(ctx context.Context, id primitive.ObjectID) (*Schedule, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *scheduleService) List(ctx context.Context, reportID primitive.ObjectID) ([]Schedule, error) {
	return s.repo.List(ctx, reportID)
}

func (s *scheduleService) Update(ctx context.Context, sched *Schedule, actor string) error {
	if err := s.validate(ctx, sched); err != nil {
		return err
	}

	current, err := s.repo.GetByID(ctx, sched.ID)
	if err != nil {
		return err
	}
	sched.Running = current.Running
	sched.LastRun = current.LastRun
	sched.CreatedBy = current.CreatedBy
	sched.CreatedAt = current.CreatedAt
	sched.NextRun = ComputeNextRun(sched, time.Now().UTC())

	if err := s.repo.Update(ctx, sched); err != nil {
		return err
	}
	s.audit.LogChange(ctx, common_models.AuditActionSchedule, "schedule", sched.ID.Hex(), actor, nil)
	return nil
}

func (s *scheduleService) Delete(ctx context.Context, id primitive.ObjectID, actor string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.audit.LogChange(ctx, common_models.AuditActionDelete, "schedule", id.Hex(), actor, nil)
	return nil
}

func (s *scheduleService) Tick(ctx context.Context) int {
	ran := 0
	now := time.Now().UTC()
	for {
		sched, err := s.repo.ClaimDue(ctx, now)
		if errors.Is(err, apperr.ErrNotFound) {
			return ran
		}
		if err != nil {
			s.logger.Error("schedule claim failed", zap.Error(err))
			return ran
		}
		s.execute(ctx, sched, "clock")
		ran++
	}
}

// execute runs a claimed schedule and always releases it. A failed run
// records last_error and reschedules; the schedule stays active.
func (s *scheduleService) execute(ctx context.Context, sched *Schedule, triggeredBy string) {
	started := time.Now().UTC()
	var lastError string

	artifact, err := s.exports.ExportToFile(ctx, sched.ReportID, sched.OutputFormat, "scheduler")
	if err != nil {
		lastError = err.Error()
		s.logger.Error("scheduled run failed",
			zap.String("schedule_id", sched.ID.Hex()),
			zap.String("report_id", sched.ReportID.Hex()),
			zap.Error(err),
		)
	} else {
		entry := &GeneratedArtifact{
			ScheduleID:  sched.ID,
			ReportID:    sched.ReportID,
			Artifact:    *artifact,
			TriggeredBy: triggeredBy,
		}
		if err := s.repo.InsertArtifact(ctx, entry); err != nil {
			s.logger.Warn("artifact record failed", zap.Error(err))
		}
		s.notifyRecipients(ctx, sched, artifact.Filename)
	}

	next := ComputeNextRun(sched, started)
	if err := s.repo.Finish(ctx, sched.ID, started, next, lastError); err != nil {
		s.logger.Error("schedule release failed", zap.String("schedule_id", sched.ID.Hex()), zap.Error(err))
	}
}

// notifyRecipients records one notification per configured recipient.
// Mail delivery is the host system's job; the records are its queue.
func (s *scheduleService) notifyRecipients(ctx context.Context, sched *Schedule, filename string) {
	if len(sched.Recipients) == 0 {
		return
	}
	now := time.Now().UTC()
	ns := make([]Notification, 0, len(sched.Recipients))
	for _, recipient := range sched.Recipients {
		ns = append(ns, Notification{
			ScheduleID: sched.ID,
			ReportID:   sched.ReportID,
			Recipient:  recipient,
			Filename:   filename,
			SentAt:     now,
		})
	}
	if err := s.repo.InsertNotifications(ctx, ns); err != nil {
		s.logger.Warn("recipient notification failed",
			zap.String("schedule_id", sched.ID.Hex()),
			zap.Error(err),
		)
	}
}

func (s *scheduleService) RunNow(ctx context.Context, id primitive.ObjectID, actor string) (*GeneratedArtifact, error) {
	sched, err := s.repo.Claim(ctx, id)
	if err != nil {
		return nil, err
	}

	artifact, exportErr := s.exports.ExportToFile(ctx, sched.ReportID, sched.OutputFormat, actor)

	var lastError string
	var entry *GeneratedArtifact
	if exportErr != nil {
		lastError = exportErr.Error()
	} else {
		entry = &GeneratedArtifact{
			ScheduleID:  sched.ID,
			ReportID:    sched.ReportID,
			Artifact:    *artifact,
			TriggeredBy: "manual",
		}
		if err := s.repo.InsertArtifact(ctx, entry); err != nil {
			s.logger.Warn("artifact record failed", zap.Error(err))
		}
		s.notifyRecipients(ctx, sched, artifact.Filename)
	}

	// manual runs do not advance the recurrence
	if err := s.repo.Finish(ctx, sched.ID, time.Now().UTC(), sched.NextRun, lastError); err != nil {
		s.logger.Error("schedule release failed", zap.String("schedule_id", sched.ID.Hex()), zap.Error(err))
	}
	if exportErr != nil {
		return nil, exportErr
	}
	return entry, nil
}

// NotifyEvent runs every trigger schedule subscribed to the event,
// applying its guard script first. Artifact events are ignored so a
// trigger run can never feed itself.
func (s *scheduleService) NotifyEvent(evt events.Event) {
	if evt.Name == "artifact.generated" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	scheds, err := s.repo.ListByTrigger(ctx, evt.Name)
	if err != nil {
		s.logger.Error("trigger lookup failed", zap.String("event", evt.Name), zap.Error(err))
		return
	}

	for i := range scheds {
		sched := scheds[i]
		if !meetsThreshold(&sched, evt) {
			continue
		}
		fire, err := evalGuard(sched.GuardScript, evt)
		if err != nil {
			s.logger.Warn("guard script failed",
				zap.String("schedule_id", sched.ID.Hex()),
				zap.Error(err),
			)
			continue
		}
		if !fire {
			continue
		}

		claimed, err := s.repo.Claim(ctx, sched.ID)
		if errors.Is(err, apperr.ErrConflict) {
			continue
		}
		if err != nil {
			s.logger.Error("trigger claim failed", zap.String("schedule_id", sched.ID.Hex()), zap.Error(err))
			continue
		}
		s.execute(ctx, claimed, "event")
	}
}

// meetsThreshold compares the event's numeric value against the
// schedule's trigger threshold. Schedules without a threshold accept
// any matching event; an event without a value never meets one.
func meetsThreshold(sched *Schedule, evt events.Event) bool {
	if sched.TriggerThreshold == nil {
		return true
	}
	value, ok := eventValue(evt)
	return ok && value >= *sched.TriggerThreshold
}

func eventValue(evt events.Event) (float64, bool) {
	switch v := evt.Payload["value"].(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}

// evalGuard runs the schedule's guard script against the event payload.
// An empty script always fires.
func evalGuard(script string, evt events.Event) (bool, error) {
	if script == "" {
		return true, nil
	}

	sc := tengo.NewScript([]byte(script))
	payload := make(map[string]interface{}, len(evt.Payload))
	for k, v := range evt.Payload {
		payload[k] = v
	}
	if err := sc.Add("event", payload); err != nil {
		return false, err
	}
	if err := sc.Add("event_name", evt.Name); err != nil {
		return false, err
	}
	sc.Add("fire", false)

	compiled, err := sc.Compile()
	if err != nil {
		return false, err
	}
	if err := compiled.Run(); err != nil {
		return false, err
	}
	return compiled.Get("fire").Bool(), nil
}

func (s *scheduleService) GetArtifact(ctx context.Context, id primitive.ObjectID) (*GeneratedArtifact, error) {
	return s.repo.GetArtifact(ctx, id)
}

func (s *scheduleService) ListArtifacts(ctx context.Context, reportID primitive.ObjectID, limit int64) ([]GeneratedArtifact, error) {
	return s.repo.ListArtifacts(ctx, reportID, limit)
}
