package service

import (
	"context"
	"strings"
	"time"

	"crash-event-service/audit"
	"crash-event-service/dispatch"
	"crash-event-service/failure"
	"crash-event-service/metrics"
	"crash-event-service/models"

	"github.com/apex/log"
)

// EventStore is the persistence the service needs.
type EventStore interface {
	Put(ctx context.Context, envelope *models.Envelope) (int64, error)
	FindCritical(ctx context.Context) ([]models.EventLogRecord, error)
	FindByDeviceID(ctx context.Context, deviceID string) ([]models.EventLogRecord, error)
	DeleteByUser(ctx context.Context, user string) (int64, error)
}

// Publisher announces persisted crash events.
type Publisher interface {
	PublishCrashEvent(ctx context.Context, event *models.CrashEventLogged) error
}

// Service runs crash reports through decision, envelope and storage, and
// exposes the event log queries.
type Service struct {
	store     EventStore
	engine    *dispatch.Engine
	publisher Publisher
	now       dispatch.Clock
}

// NewService wires the service. publisher may be nil, in which case no
// notifications are sent. now stamps receipt and completion; nil means
// time.Now in UTC.
func NewService(store EventStore, engine *dispatch.Engine, publisher Publisher, now dispatch.Clock) *Service {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &Service{
		store:     store,
		engine:    engine,
		publisher: publisher,
		now:       now,
	}
}

// HandleIntake decides, records and persists a crash report. Nothing is
// stored when persistence fails, and the report is then not considered logged.
func (s *Service) HandleIntake(ctx context.Context, report *models.CrashReport) (*models.IntakeResponse, error) {
	receivedAt := s.now()
	severity := report.NormalizedSeverity()
	logger := log.WithFields(log.Fields{
		"device_id": report.DeviceID,
		"severity":  severity,
	})
	logger.Info("Processing crash report")

	actions := s.engine.Decide(report)
	completedAt := s.now()

	envelope := audit.Build(*report, actions, receivedAt, completedAt)
	id, err := s.store.Put(ctx, &envelope)
	if err != nil {
		logger.WithError(err).Error("Failed to log crash event")
		return nil, err
	}

	metrics.IntakeTotal.WithLabelValues(string(severity)).Inc()
	for _, a := range actions {
		metrics.ActionsSimulatedTotal.WithLabelValues(string(a.ActionType)).Inc()
	}
	logger.WithField("event_id", id).Infof("Crash event logged with %d actions", len(actions))

	s.notify(ctx, &models.CrashEventLogged{
		EventID:     id,
		DeviceID:    report.DeviceID,
		Severity:    severity,
		Actions:     actionTypes(actions),
		CompletedAt: completedAt,
	})

	return &models.IntakeResponse{
		EventID: id,
		Status:  models.StatusProcessedAndLogged,
	}, nil
}

// ListCritical returns every logged CRITICAL event.
func (s *Service) ListCritical(ctx context.Context) ([]models.EventLogRecord, error) {
	return s.store.FindCritical(ctx)
}

// ListByDevice returns every logged event of one device.
func (s *Service) ListByDevice(ctx context.Context, deviceID string) ([]models.EventLogRecord, error) {
	if strings.TrimSpace(deviceID) == "" {
		return nil, failure.Validation("deviceId must not be blank")
	}
	return s.store.FindByDeviceID(ctx, deviceID)
}

// PurgeByUser deletes every event stored under user.
func (s *Service) PurgeByUser(ctx context.Context, user string) (*models.PurgeResponse, error) {
	if strings.TrimSpace(user) == "" {
		return nil, failure.Validation("user must not be blank")
	}

	log.WithField("user", user).Warn("Deleting all logged events for user")
	deleted, err := s.store.DeleteByUser(ctx, user)
	if err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{
		"user":    user,
		"deleted": deleted,
	}).Info("Deleted logged events")

	return &models.PurgeResponse{
		User:         user,
		DeletedCount: deleted,
	}, nil
}

// notify is best-effort: the event is already logged, so a failed
// notification is only recorded.
func (s *Service) notify(ctx context.Context, event *models.CrashEventLogged) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishCrashEvent(ctx, event); err != nil {
		metrics.PublishErrorsTotal.Inc()
		log.WithError(err).WithField("event_id", event.EventID).Warn("Failed to publish crash event")
	}
}

func actionTypes(actions []models.Action) []models.ActionType {
	types := make([]models.ActionType, len(actions))
	for i, a := range actions {
		types[i] = a.ActionType
	}
	return types
}
