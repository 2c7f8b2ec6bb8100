package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/campusboard/timetable-backend/internal/services"
)

type ExportHandler struct {
	exportService services.ExportService
}

func NewExportHandler(exportService services.ExportService) *ExportHandler {
	return &ExportHandler{exportService: exportService}
}

// Calendar serves the group's schedule as an ICS file from the disk cache.
func (eh *ExportHandler) Calendar(c *gin.Context) {
	groupID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	path, err := eh.exportService.CalendarFile(c.Request.Context(), groupID)
	if err != nil {
		RespondError(c, err)
		return
	}

	c.Header("Content-Type", "text/calendar; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="schedule.ics"`)
	c.File(path)
}

// Events is the JSON view of the same window, for web clients that render
// the schedule themselves.
func (eh *ExportHandler) Events(c *gin.Context) {
	groupID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var from, to *time.Time
	if raw := c.Query("from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			RespondBadRequest(c, "from must be RFC3339")
			return
		}
		from = &t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			RespondBadRequest(c, "to must be RFC3339")
			return
		}
		to = &t
	}

	events, err := eh.exportService.ListEvents(c.Request.Context(), groupID, from, to)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, events)
}
