package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSeverity(t *testing.T) {
	testCases := []struct {
		raw      string
		expected Severity
	}{
		{"LOW", SeverityLow},
		{"medium", SeverityMedium},
		{"  High ", SeverityHigh},
		{"cRiTiCaL", SeverityCritical},
		{"", SeverityUnknown},
		{"   ", SeverityUnknown},
		{"SEVERE", SeverityUnknown},
		{"unknown", SeverityUnknown},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, ParseSeverity(tc.raw), "raw %q", tc.raw)
	}
}

func TestCrashReportDecodesGForceAlias(t *testing.T) {
	for _, body := range []string{
		`{"deviceId":"DEV-1","gForce":3.5}`,
		`{"deviceId":"DEV-1","gforce":3.5}`,
	} {
		var report CrashReport
		require.NoError(t, json.Unmarshal([]byte(body), &report))
		require.NotNil(t, report.GForce, body)
		assert.Equal(t, 3.5, *report.GForce)
	}
}

func TestCrashReportEncodesVerbatim(t *testing.T) {
	ts := time.Date(2025, 6, 1, 12, 30, 0, 0, time.FixedZone("CEST", 2*60*60))
	g := 4.2
	report := CrashReport{
		DeviceID:            "DEV-1",
		VehicleLicensePlate: "AB123CD",
		EventTimestamp:      &ts,
		Location:            map[string]float64{LocationLatitude: 45.07, LocationLongitude: 7.68},
		Severity:            "high",
		GForce:              &g,
	}

	out, err := json.Marshal(report)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"deviceId": "DEV-1",
		"vehicleLicensePlate": "AB123CD",
		"eventTimestamp": "2025-06-01T12:30:00+02:00",
		"location": {"latitude": 45.07, "longitude": 7.68},
		"severity": "high",
		"gforce": 4.2
	}`, string(out))
}

func TestCoordinate(t *testing.T) {
	report := CrashReport{Location: map[string]float64{LocationLatitude: 10}}

	lat, ok := report.Coordinate(LocationLatitude)
	assert.True(t, ok)
	assert.Equal(t, 10.0, lat)

	_, ok = report.Coordinate(LocationLongitude)
	assert.False(t, ok)

	empty := CrashReport{}
	_, ok = empty.Coordinate(LocationLatitude)
	assert.False(t, ok)
}
