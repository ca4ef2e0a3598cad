package audit

import (
	"encoding/json"
	"testing"
	"time"

	"crash-event-service/document"
	"crash-event-service/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() models.CrashReport {
	ts := time.Date(2025, 6, 1, 11, 59, 58, 0, time.FixedZone("", 2*60*60))
	g := 5.1
	return models.CrashReport{
		DeviceID:            "DEV-77",
		VehicleLicensePlate: "AB123CD",
		EventTimestamp:      &ts,
		Location:            map[string]float64{"latitude": 10.0, "longitude": 20.0},
		Severity:            "critical",
		GForce:              &g,
	}
}

func sampleActions(at time.Time) []models.Action {
	return []models.Action{
		{ActionType: models.ActionVoipCall, Target: models.TargetCustomer, Timestamp: at, Details: "call"},
		{ActionType: models.ActionDispatchAmbulance, Target: models.TargetEventLocation, Timestamp: at, Details: "ambulance"},
		{ActionType: models.ActionDispatchTowTruck, Target: models.TargetEventLocation, Timestamp: at, Details: "tow"},
	}
}

func TestBuild(t *testing.T) {
	receivedAt := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	completedAt := receivedAt.Add(15 * time.Millisecond)
	actions := sampleActions(receivedAt.Add(5 * time.Millisecond))

	env := Build(sampleReport(), actions, receivedAt, completedAt)

	assert.Equal(t, receivedAt, env.Audit.ReceivedAt)
	assert.Equal(t, sampleReport(), env.OriginalPayload)
	assert.Equal(t, models.ProcessingStatusCompleted, env.Processing.Status)
	assert.Equal(t, completedAt, env.Processing.CompletedAt)
	assert.Equal(t, actions, env.Processing.Actions)
}

func TestBuildRoundTrip(t *testing.T) {
	at := time.Date(2025, 6, 1, 10, 0, 0, 123456789, time.UTC)
	report := sampleReport()
	actions := sampleActions(at)

	raw, err := json.Marshal(Build(report, actions, at, at.Add(time.Second)))
	require.NoError(t, err)

	var decoded models.Envelope
	require.NoError(t, json.Unmarshal(raw, &decoded))

	require.NotNil(t, decoded.OriginalPayload.EventTimestamp)
	assert.True(t, report.EventTimestamp.Equal(*decoded.OriginalPayload.EventTimestamp))
	decoded.OriginalPayload.EventTimestamp = report.EventTimestamp
	assert.Equal(t, report, decoded.OriginalPayload)

	require.Len(t, decoded.Processing.Actions, len(actions))
	for i := range actions {
		assert.Equal(t, actions[i].ActionType, decoded.Processing.Actions[i].ActionType)
		assert.Equal(t, actions[i].Target, decoded.Processing.Actions[i].Target)
		assert.Equal(t, actions[i].Details, decoded.Processing.Actions[i].Details)
		assert.True(t, actions[i].Timestamp.Equal(decoded.Processing.Actions[i].Timestamp))
	}
}

func TestBuildKeyOrder(t *testing.T) {
	at := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	raw, err := json.Marshal(Build(sampleReport(), sampleActions(at), at, at))
	require.NoError(t, err)

	doc, err := document.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, []string{"audit", "originalPayload", "processing"}, doc.Keys())

	processing, ok := doc.Field("processing")
	require.True(t, ok)
	assert.Equal(t, []string{"status", "completedAt", "actions"}, processing.Keys())

	actions, _ := processing.Field("actions")
	first, _ := actions.Index(0)
	assert.Equal(t, []string{"actionType", "target", "timestamp", "details"}, first.Keys())
}

func TestBuildWithoutActionsEncodesEmptyList(t *testing.T) {
	at := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	report := sampleReport()
	report.Severity = "SEVERE"

	raw, err := json.Marshal(Build(report, nil, at, at))
	require.NoError(t, err)

	doc, err := document.Parse(raw)
	require.NoError(t, err)
	actions, ok := doc.Path("processing", "actions")
	require.True(t, ok)
	assert.Equal(t, document.Array, actions.Kind())
	assert.Equal(t, 0, actions.Len())
}
