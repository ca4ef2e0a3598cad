package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"crash-event-service/failure"
	"crash-event-service/models"
	"crash-event-service/version"

	"github.com/apex/log"
	"github.com/gin-gonic/gin"
)

// EventService is the core contract the HTTP layer drives.
type EventService interface {
	HandleIntake(ctx context.Context, report *models.CrashReport) (*models.IntakeResponse, error)
	ListCritical(ctx context.Context) ([]models.EventLogRecord, error)
	ListByDevice(ctx context.Context, deviceID string) ([]models.EventLogRecord, error)
	PurgeByUser(ctx context.Context, user string) (*models.PurgeResponse, error)
}

// EventsHandler serves the /api/v1/events routes.
type EventsHandler struct {
	service EventService
}

// NewEventsHandler creates a new events handler
func NewEventsHandler(service EventService) *EventsHandler {
	return &EventsHandler{service: service}
}

// RegisterRoutes mounts the event routes under r.
func (h *EventsHandler) RegisterRoutes(r gin.IRouter) {
	events := r.Group("/api/v1/events")
	events.POST("/crash-report", h.ReportCrash)
	events.GET("/critical-reports", h.CriticalReports)
	events.GET("/critical-reports/geojson", h.CriticalReportsGeoJSON)
	events.GET("/reports-of-deviceId", h.ReportsOfDevice)
	events.DELETE("/logs", h.PurgeLogs)
}

// ReportCrash handles POST /api/v1/events/crash-report
func (h *EventsHandler) ReportCrash(c *gin.Context) {
	var report models.CrashReport
	if err := c.ShouldBindJSON(&report); err != nil {
		writeError(c, failure.Validation("invalid crash report: %v", err))
		return
	}
	if err := validateReport(&report); err != nil {
		writeError(c, err)
		return
	}

	resp, err := h.service.HandleIntake(c.Request.Context(), &report)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, resp)
}

// CriticalReports handles GET /api/v1/events/critical-reports
func (h *EventsHandler) CriticalReports(c *gin.Context) {
	records, err := h.service.ListCritical(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

// ReportsOfDevice handles GET /api/v1/events/reports-of-deviceId?deviceId=
func (h *EventsHandler) ReportsOfDevice(c *gin.Context) {
	records, err := h.service.ListByDevice(c.Request.Context(), c.Query("deviceId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

// PurgeLogs handles DELETE /api/v1/events/logs?user=
func (h *EventsHandler) PurgeLogs(c *gin.Context) {
	resp, err := h.service.PurgeByUser(c.Request.Context(), c.Query("user"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// BrokerStatus reports whether crash event notifications can be sent.
type BrokerStatus interface {
	IsConnected() bool
}

// HealthHandler serves GET /health.
type HealthHandler struct {
	broker BrokerStatus
}

// NewHealthHandler creates a health handler. broker is nil when
// notifications are disabled.
func NewHealthHandler(broker BrokerStatus) *HealthHandler {
	return &HealthHandler{broker: broker}
}

// HealthCheck handles GET /health. Notifications are best-effort, so a lost
// broker connection is reported but does not make the service unhealthy.
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	rabbitmq := "disabled"
	if h.broker != nil {
		rabbitmq = "disconnected"
		if h.broker.IsConnected() {
			rabbitmq = "connected"
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   version.ServiceName,
		"rabbitmq":  rabbitmq,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// Version handles GET /version
func Version(c *gin.Context) {
	c.JSON(http.StatusOK, version.Get())
}

// writeError maps err onto an ErrorResponse. Only validation failures carry
// their message back to the caller.
func writeError(c *gin.Context, err error) {
	resp := models.ErrorResponse{
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		Path:      c.Request.URL.Path,
	}

	if failure.IsClientError(err) {
		resp.Status = http.StatusBadRequest
		resp.Error = http.StatusText(http.StatusBadRequest)
		resp.Message = strings.TrimPrefix(err.Error(), failure.ErrValidation.Error()+": ")
	} else {
		resp.Status = http.StatusInternalServerError
		resp.Error = http.StatusText(http.StatusInternalServerError)

		entry := log.WithError(err).WithField("path", resp.Path)
		if errors.Is(err, failure.ErrSerialization) {
			entry.Error("Failed to serialize crash event")
		} else {
			entry.Error("Request failed")
		}
	}

	c.AbortWithStatusJSON(resp.Status, resp)
}
