package models

import (
	"time"

	"crash-event-service/document"
)

type ActionType string

const (
	ActionVoipCall          ActionType = "VOIP_CALL"
	ActionDispatchAmbulance ActionType = "DISPATCH_AMBULANCE"
	ActionDispatchTowTruck  ActionType = "DISPATCH_TOW_TRUCK"
)

const (
	TargetCustomer      = "customer"
	TargetEventLocation = "event_location"
)

// Action is one simulated emergency response step
type Action struct {
	ActionType ActionType `json:"actionType"`
	Target     string     `json:"target"`
	Timestamp  time.Time  `json:"timestamp"`
	Details    string     `json:"details"`
}

const ProcessingStatusCompleted = "COMPLETED"

type Audit struct {
	ReceivedAt time.Time `json:"receivedAt"`
}

type Processing struct {
	Status      string    `json:"status"`
	CompletedAt time.Time `json:"completedAt"`
	Actions     []Action  `json:"actions"`
}

// Envelope is the single document persisted per crash report.
// Field order here is the order of keys in the stored JSON.
type Envelope struct {
	Audit           Audit       `json:"audit"`
	OriginalPayload CrashReport `json:"originalPayload"`
	Processing      Processing  `json:"processing"`
}

// EventLogRecord is a stored envelope read back from the event log.
type EventLogRecord struct {
	ID         int64          `json:"id"`
	User       string         `json:"user"`
	ReceivedAt *time.Time     `json:"receivedAt"`
	JSONData   document.Value `json:"jsonData"`
}

// CrashEventLogged is published after an envelope has been persisted.
type CrashEventLogged struct {
	EventID     int64        `json:"eventId"`
	DeviceID    string       `json:"deviceId"`
	Severity    Severity     `json:"severity"`
	Actions     []ActionType `json:"actions"`
	CompletedAt time.Time    `json:"completedAt"`
}
