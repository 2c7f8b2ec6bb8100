package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/campusboard/timetable-backend/internal/services"
)

type EventHandler struct {
	eventService services.EventService
}

func NewEventHandler(eventService services.EventService) *EventHandler {
	return &EventHandler{eventService: eventService}
}

func (eh *EventHandler) Create(c *gin.Context) {
	var req struct {
		Name        string    `json:"name"`
		StartTS     time.Time `json:"start_ts"`
		EndTS       time.Time `json:"end_ts"`
		RoomIDs     []string  `json:"room_ids"`
		GroupIDs    []string  `json:"group_ids"`
		LecturerIDs []string  `json:"lecturer_ids"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "invalid request body")
		return
	}

	roomIDs, ok := parseUUIDList(c, "room_ids", req.RoomIDs)
	if !ok {
		return
	}
	groupIDs, ok := parseUUIDList(c, "group_ids", req.GroupIDs)
	if !ok {
		return
	}
	lecturerIDs, ok := parseUUIDList(c, "lecturer_ids", req.LecturerIDs)
	if !ok {
		return
	}

	event, err := eh.eventService.Create(c.Request.Context(), services.CreateEventInput{
		Name:        req.Name,
		StartTS:     req.StartTS,
		EndTS:       req.EndTS,
		RoomIDs:     roomIDs,
		GroupIDs:    groupIDs,
		LecturerIDs: lecturerIDs,
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondCreated(c, event)
}

func (eh *EventHandler) Get(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	event, err := eh.eventService.Get(c.Request.Context(), id, c.Query("include_deleted") == "true")
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, event)
}

func (eh *EventHandler) List(c *gin.Context) {
	p, page, pageSize, err := listParamsFromQuery(c)
	if err != nil {
		RespondBadRequest(c, "invalid date filter")
		return
	}

	events, total, err := eh.eventService.List(c.Request.Context(), p)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, Paginated(events, page, pageSize, total))
}

func (eh *EventHandler) Update(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Name        *string    `json:"name"`
		StartTS     *time.Time `json:"start_ts"`
		EndTS       *time.Time `json:"end_ts"`
		RoomIDs     []string   `json:"room_ids"`
		GroupIDs    []string   `json:"group_ids"`
		LecturerIDs []string   `json:"lecturer_ids"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "invalid request body")
		return
	}

	roomIDs, ok := parseUUIDList(c, "room_ids", req.RoomIDs)
	if !ok {
		return
	}
	groupIDs, ok := parseUUIDList(c, "group_ids", req.GroupIDs)
	if !ok {
		return
	}
	lecturerIDs, ok := parseUUIDList(c, "lecturer_ids", req.LecturerIDs)
	if !ok {
		return
	}

	event, err := eh.eventService.Update(c.Request.Context(), id, services.UpdateEventInput{
		Name:        req.Name,
		StartTS:     req.StartTS,
		EndTS:       req.EndTS,
		RoomIDs:     roomIDs,
		GroupIDs:    groupIDs,
		LecturerIDs: lecturerIDs,
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, event)
}

func (eh *EventHandler) Delete(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	if err := eh.eventService.Delete(c.Request.Context(), id); err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"success": true})
}
