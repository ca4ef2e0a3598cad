package handlers

import (
	"net/http"
	"time"

	"crash-event-service/models"

	"github.com/apex/log"
	"github.com/gin-gonic/gin"
	geojson "github.com/paulmach/go.geojson"
)

// CriticalReportsGeoJSON handles GET /api/v1/events/critical-reports/geojson.
// Events stored without both coordinates are left out of the map.
func (h *EventsHandler) CriticalReportsGeoJSON(c *gin.Context) {
	records, err := h.service.ListCritical(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	body, err := featureCollection(records).MarshalJSON()
	if err != nil {
		writeError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/geo+json", body)
}

func featureCollection(records []models.EventLogRecord) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	skipped := 0
	for _, r := range records {
		f, ok := pointFeature(r)
		if !ok {
			skipped++
			continue
		}
		fc.AddFeature(f)
	}
	if skipped > 0 {
		log.Debugf("%d critical events without coordinates left out of the feature collection", skipped)
	}
	return fc
}

// mappedPayload is the part of a stored payload a map feature needs.
// eventTimestamp is left out so a malformed one does not hide the point.
type mappedPayload struct {
	DeviceID            string             `json:"deviceId"`
	VehicleLicensePlate string             `json:"vehicleLicensePlate"`
	Severity            string             `json:"severity"`
	Location            map[string]float64 `json:"location"`
}

func pointFeature(r models.EventLogRecord) (*geojson.Feature, bool) {
	raw, ok := r.JSONData.Field("originalPayload")
	if !ok {
		return nil, false
	}
	var payload mappedPayload
	if err := raw.Decode(&payload); err != nil {
		log.WithError(err).WithField("id", r.ID).Debug("Stored payload has no mappable location")
		return nil, false
	}
	lat, hasLat := payload.Location[models.LocationLatitude]
	lng, hasLng := payload.Location[models.LocationLongitude]
	if !hasLat || !hasLng {
		return nil, false
	}

	f := geojson.NewPointFeature([]float64{lng, lat})
	f.ID = r.ID
	f.SetProperty("user", r.User)
	f.SetProperty("deviceId", payload.DeviceID)
	f.SetProperty("severity", payload.Severity)
	if payload.VehicleLicensePlate != "" {
		f.SetProperty("vehicleLicensePlate", payload.VehicleLicensePlate)
	}
	if r.ReceivedAt != nil {
		f.SetProperty("eventTimestamp", r.ReceivedAt.UTC().Format(time.RFC3339))
	}
	return f, true
}
