// Package dispatch decides which emergency actions a crash report triggers.
// Actions are simulated: the engine only builds and logs them.
package dispatch

import (
	"fmt"
	"time"

	"crash-event-service/models"

	"github.com/apex/log"
	"github.com/shopspring/decimal"
)

// Placeholder rendered in action details for a value the report omitted.
const Unknown = "unknown"

// Clock returns the current time. Tests inject a fixed clock.
type Clock func() time.Time

// policy lists actions in dispatch priority order.
var policy = map[models.Severity][]models.ActionType{
	models.SeverityLow: {
		models.ActionVoipCall,
	},
	models.SeverityMedium: {
		models.ActionVoipCall,
		models.ActionDispatchAmbulance,
	},
	models.SeverityHigh: {
		models.ActionVoipCall,
		models.ActionDispatchAmbulance,
		models.ActionDispatchTowTruck,
	},
	models.SeverityCritical: {
		models.ActionVoipCall,
		models.ActionDispatchAmbulance,
		models.ActionDispatchTowTruck,
	},
}

type Engine struct {
	now Clock
}

// NewEngine creates an engine. A nil clock means time.Now in UTC.
func NewEngine(now Clock) *Engine {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &Engine{now: now}
}

// Plan returns the action types a severity triggers, in order.
func Plan(severity models.Severity) []models.ActionType {
	return append([]models.ActionType{}, policy[severity]...)
}

// Decide returns the ordered actions for report. It never fails: an
// unrecognized severity yields an empty slice. A missing location renders
// the ambulance coordinates as Unknown instead of failing.
func (e *Engine) Decide(report *models.CrashReport) []models.Action {
	severity := report.NormalizedSeverity()
	plan := Plan(severity)

	actions := make([]models.Action, 0, len(plan))
	if len(plan) == 0 {
		log.WithFields(log.Fields{
			"device_id": report.DeviceID,
			"severity":  report.Severity,
		}).Warn("No automatic action taken for severity")
		return actions
	}

	for _, actionType := range plan {
		action := e.build(actionType, report)
		logAction(report, action)
		actions = append(actions, action)
	}
	return actions
}

func (e *Engine) build(actionType models.ActionType, report *models.CrashReport) models.Action {
	action := models.Action{
		ActionType: actionType,
		Target:     models.TargetEventLocation,
		Timestamp:  e.now(),
	}

	switch actionType {
	case models.ActionVoipCall:
		action.Target = models.TargetCustomer
		action.Details = fmt.Sprintf("Simulated VOIP call to the customer associated with vehicle %s.",
			plate(report))
	case models.ActionDispatchAmbulance:
		action.Details = fmt.Sprintf("Simulated AMBULANCE dispatch to coordinates: Lat %s, Lon %s",
			coordinate(report, models.LocationLatitude),
			coordinate(report, models.LocationLongitude))
	case models.ActionDispatchTowTruck:
		action.Details = fmt.Sprintf("Simulated TOW TRUCK dispatch for vehicle %s", plate(report))
	}
	return action
}

func plate(report *models.CrashReport) string {
	if report.VehicleLicensePlate == "" {
		return Unknown
	}
	return report.VehicleLicensePlate
}

func coordinate(report *models.CrashReport, key string) string {
	v, ok := report.Coordinate(key)
	if !ok {
		return Unknown
	}
	return decimal.NewFromFloat(v).String()
}

func logAction(report *models.CrashReport, action models.Action) {
	entry := log.WithFields(log.Fields{
		"device_id":   report.DeviceID,
		"action_type": action.ActionType,
		"target":      action.Target,
	})
	// Vehicle dispatches log at warn level.
	if action.ActionType == models.ActionVoipCall {
		entry.Infof("[ACTION] %s", action.Details)
		return
	}
	entry.Warnf("[ACTION] %s", action.Details)
}
