package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"crash-event-service/document"
	"crash-event-service/failure"
	"crash-event-service/metrics"
	"crash-event-service/models"

	"github.com/apex/log"
)

// EventStore persists envelopes as JSON rows tagged with the caller identity.
type EventStore struct {
	db    *sql.DB
	user  string
	table string
}

// NewEventStore returns a store writing to table on behalf of user.
// table must already be validated; it is interpolated into the statements.
func NewEventStore(db *sql.DB, user, table string) *EventStore {
	return &EventStore{
		db:    db,
		user:  user,
		table: table,
	}
}

// Put stores envelope and returns its generated id.
func (s *EventStore) Put(ctx context.Context, envelope *models.Envelope) (int64, error) {
	raw, err := json.Marshal(envelope)
	if err != nil {
		metrics.StoreErrorsTotal.WithLabelValues("put").Inc()
		return 0, failure.Serialization(err)
	}

	result, err := s.db.ExecContext(ctx,
		fmt.Sprintf("INSERT INTO %s (`json`, `user`) VALUES (?, ?)", s.table),
		string(raw), s.user)
	if err != nil {
		metrics.StoreErrorsTotal.WithLabelValues("put").Inc()
		return 0, failure.Persistence("insert event", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		metrics.StoreErrorsTotal.WithLabelValues("put").Inc()
		return 0, failure.Persistence("read generated id", err)
	}
	if id == 0 {
		metrics.StoreErrorsTotal.WithLabelValues("put").Inc()
		return 0, failure.Persistence("insert returned no generated id", nil)
	}
	return id, nil
}

// FindBySeverity returns every event whose payload severity matches,
// case-insensitively, in insertion order.
func (s *EventStore) FindBySeverity(ctx context.Context, severity models.Severity) ([]models.EventLogRecord, error) {
	return s.query(ctx, "find_by_severity",
		fmt.Sprintf("SELECT id, `user`, `json` FROM %s WHERE severity = ? ORDER BY id ASC", s.table),
		strings.ToUpper(string(severity)))
}

// FindCritical returns every CRITICAL event.
func (s *EventStore) FindCritical(ctx context.Context) ([]models.EventLogRecord, error) {
	return s.FindBySeverity(ctx, models.SeverityCritical)
}

// FindByDeviceID returns every event reported by deviceID, in insertion order.
func (s *EventStore) FindByDeviceID(ctx context.Context, deviceID string) ([]models.EventLogRecord, error) {
	if strings.TrimSpace(deviceID) == "" {
		return nil, failure.Validation("deviceId must not be blank")
	}
	return s.query(ctx, "find_by_device",
		fmt.Sprintf("SELECT id, `user`, `json` FROM %s WHERE device_id = ? ORDER BY id ASC", s.table),
		deviceID)
}

// DeleteByUser removes every event owned by user and returns how many went.
func (s *EventStore) DeleteByUser(ctx context.Context, user string) (int64, error) {
	if strings.TrimSpace(user) == "" {
		return 0, failure.Validation("user must not be blank")
	}

	result, err := s.db.ExecContext(ctx,
		fmt.Sprintf("DELETE FROM %s WHERE `user` = ?", s.table), user)
	if err != nil {
		metrics.StoreErrorsTotal.WithLabelValues("delete_by_user").Inc()
		return 0, failure.Persistence("delete events", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		metrics.StoreErrorsTotal.WithLabelValues("delete_by_user").Inc()
		return 0, failure.Persistence("read deleted count", err)
	}
	return deleted, nil
}

func (s *EventStore) query(ctx context.Context, op, query string, args ...interface{}) ([]models.EventLogRecord, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		metrics.StoreErrorsTotal.WithLabelValues(op).Inc()
		return nil, failure.Persistence(op, err)
	}
	defer rows.Close()

	records := []models.EventLogRecord{}
	for rows.Next() {
		var (
			id   int64
			user string
			raw  []byte
		)
		if err := rows.Scan(&id, &user, &raw); err != nil {
			metrics.StoreErrorsTotal.WithLabelValues(op).Inc()
			return nil, failure.Persistence(op, err)
		}

		record, err := decodeRecord(id, user, raw)
		if err != nil {
			metrics.DecodeAnomaliesTotal.Inc()
			log.WithError(err).WithField("id", id).Warn("Skipping stored event")
			continue
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		metrics.StoreErrorsTotal.WithLabelValues(op).Inc()
		return nil, failure.Persistence(op, err)
	}
	return records, nil
}

func decodeRecord(id int64, user string, raw []byte) (models.EventLogRecord, error) {
	doc, err := document.Parse(raw)
	if err != nil {
		return models.EventLogRecord{}, failure.DecodeAnomaly(id, err)
	}
	if doc.Kind() != document.Object {
		return models.EventLogRecord{}, failure.DecodeAnomaly(id,
			fmt.Errorf("expected object, got %s", doc.Kind()))
	}

	return models.EventLogRecord{
		ID:         id,
		User:       user,
		ReceivedAt: eventTimestamp(doc),
		JSONData:   doc,
	}, nil
}

// eventTimestamp reads originalPayload.eventTimestamp; nil when it is absent
// or not an RFC 3339 timestamp.
func eventTimestamp(doc document.Value) *time.Time {
	v, ok := doc.Path("originalPayload", "eventTimestamp")
	if !ok {
		return nil
	}
	s, ok := v.AsString()
	if !ok {
		return nil
	}
	ts, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return nil
	}
	return &ts
}
