package models

import (
	"strings"
	"time"
)

// Location keys inside CrashReport.Location
const (
	LocationLatitude  = "latitude"
	LocationLongitude = "longitude"
)

// CrashReport is the payload sent by a telematics box after an impact.
// It is stored verbatim inside the envelope, so fields are never rewritten.
// encoding/json matches keys case-insensitively, so "gForce" decodes into GForce.
type CrashReport struct {
	DeviceID            string             `json:"deviceId"`
	VehicleLicensePlate string             `json:"vehicleLicensePlate"`
	EventTimestamp      *time.Time         `json:"eventTimestamp"`
	Location            map[string]float64 `json:"location"`
	Severity            string             `json:"severity"`
	GForce              *float64           `json:"gforce"`
}

// Coordinate returns a location component and whether it was supplied.
func (r *CrashReport) Coordinate(key string) (float64, bool) {
	if r.Location == nil {
		return 0, false
	}
	v, ok := r.Location[key]
	return v, ok
}

// Severity is the normalized classification of a crash.
type Severity string

const (
	SeverityLow      Severity = "LOW"
	SeverityMedium   Severity = "MEDIUM"
	SeverityHigh     Severity = "HIGH"
	SeverityCritical Severity = "CRITICAL"
	SeverityUnknown  Severity = "UNKNOWN"
)

// ParseSeverity trims and uppercases raw; anything unrecognized is UNKNOWN.
func ParseSeverity(raw string) Severity {
	switch s := Severity(strings.ToUpper(strings.TrimSpace(raw))); s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return s
	default:
		return SeverityUnknown
	}
}

// NormalizedSeverity is the report's severity after ParseSeverity.
func (r *CrashReport) NormalizedSeverity() Severity {
	return ParseSeverity(r.Severity)
}
