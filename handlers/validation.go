package handlers

import (
	"strings"

	"crash-event-service/failure"
	"crash-event-service/models"

	"github.com/golang/geo/s2"
)

// validateReport checks the fields a crash report must carry before it is
// processed. Severity only needs to be present; an unrecognized value is
// still logged, with no actions.
func validateReport(report *models.CrashReport) error {
	if strings.TrimSpace(report.DeviceID) == "" {
		return failure.Validation("deviceId must not be blank")
	}
	if report.EventTimestamp == nil {
		return failure.Validation("eventTimestamp is required")
	}
	if report.Location == nil {
		return failure.Validation("location is required")
	}
	if strings.TrimSpace(report.Severity) == "" {
		return failure.Validation("severity must not be blank")
	}

	lat, hasLat := report.Coordinate(models.LocationLatitude)
	lng, hasLng := report.Coordinate(models.LocationLongitude)
	if (hasLat || hasLng) && !s2.LatLngFromDegrees(lat, lng).IsValid() {
		return failure.Validation("location %v is not a valid coordinate", report.Location)
	}
	return nil
}
